package fs

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bft-labs/presenced/internal/ports"
)

type recordingLogger struct {
	mu      sync.Mutex
	entries []string
}

func (l *recordingLogger) record(level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, level+": "+msg)
}

func (l *recordingLogger) Debug(msg string, _ ...ports.Field) { l.record("debug", msg) }
func (l *recordingLogger) Info(msg string, _ ...ports.Field)  { l.record("info", msg) }
func (l *recordingLogger) Warn(msg string, _ ...ports.Field)  { l.record("warn", msg) }
func (l *recordingLogger) Error(msg string, _ ...ports.Field) { l.record("error", msg) }

func (l *recordingLogger) has(level string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.entries {
		if len(e) > len(level) && e[:len(level)] == level {
			return true
		}
	}
	return false
}

func writeClientID(t *testing.T, dataDir, content string) {
	t.Helper()
	dir := filepath.Join(dataDir, StorageDirName)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ClientIDFileName), []byte(content), 0o644))
}

func TestClientIDFile_Load(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		content   string
		want      string
		wantLevel string
	}{
		{"numeric", "1234567890\n", "1234567890", ""},
		{"trims whitespace", "  42  \r\nignored\n", "42", ""},
		{"snowflake", "123456789012345678\n", "123456789012345678", ""},
		{"non numeric kept", "abc123\n", "abc123", "warn"},
		{"letters only", "abc", "abc", "warn"},
		{"empty file", "", "", "warn"},
		{"blank first line", "   \n99\n", "", "warn"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dataDir := t.TempDir()
			writeClientID(t, dataDir, tt.content)
			logger := &recordingLogger{}

			got := NewClientIDFile(dataDir, logger).Load()
			assert.Equal(t, tt.want, got)
			if tt.wantLevel != "" {
				assert.True(t, logger.has(tt.wantLevel), "expected a %s entry, got %v", tt.wantLevel, logger.entries)
			} else {
				assert.Empty(t, logger.entries)
			}
		})
	}
}

func TestClientIDFile_LoadMissingCreatesFile(t *testing.T) {
	t.Parallel()

	dataDir := t.TempDir()
	logger := &recordingLogger{}
	store := NewClientIDFile(dataDir, logger)

	assert.Equal(t, "", store.Load())
	assert.True(t, logger.has("error"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Zero(t, info.Size())
	assert.Equal(t, filepath.Join(dataDir, "Storage", "clientId.txt"), store.Path())
}

func TestClientIDFile_LoadStorageIsFile(t *testing.T) {
	t.Parallel()

	dataDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, StorageDirName), []byte("x"), 0o644))
	logger := &recordingLogger{}

	assert.Equal(t, "", NewClientIDFile(dataDir, logger).Load())
	assert.True(t, logger.has("error"))
}
