package fs

import (
	"bufio"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bft-labs/presenced/internal/ports"
)

const (
	// StorageDirName is the subdirectory of the data directory holding the client ID.
	StorageDirName = "Storage"

	// ClientIDFileName is the file whose first line is the application client ID.
	ClientIDFileName = "clientId.txt"
)

// ClientIDFile implements ports.ClientIDSource using <dataDir>/Storage/clientId.txt.
type ClientIDFile struct {
	dir    string
	logger ports.Logger
}

// NewClientIDFile creates a ClientIDFile rooted at the given data directory.
func NewClientIDFile(dataDir string, logger ports.Logger) *ClientIDFile {
	return &ClientIDFile{
		dir:    filepath.Join(dataDir, StorageDirName),
		logger: logger,
	}
}

// Dir returns the storage directory.
func (f *ClientIDFile) Dir() string {
	return f.dir
}

// Path returns the full path to the client ID file.
func (f *ClientIDFile) Path() string {
	return filepath.Join(f.dir, ClientIDFileName)
}

// Load returns the trimmed first line of the client ID file.
// Every failure is logged and yields an empty string. A missing file is
// created empty so the user has something to edit. A value that is not
// numeric is returned as is with a warning.
func (f *ClientIDFile) Load() string {
	src := ports.Source("ClientIDFile")

	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		f.logger.Error("failed to create storage directory", src, ports.String("dir", f.dir), ports.Err(err))
		return ""
	}

	path := f.Path()
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if werr := os.WriteFile(path, nil, 0o644); werr != nil {
				f.logger.Error("failed to create client id file", src, ports.String("path", path), ports.Err(werr))
				return ""
			}
			f.logger.Error("client id file was missing and has been created, please edit appropriately",
				src, ports.String("path", path))
			return ""
		}
		f.logger.Error("failed to open client id file", src, ports.String("path", path), ports.Err(err))
		return ""
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	var line string
	if scanner.Scan() {
		line = strings.TrimSpace(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		f.logger.Error("failed to read client id file", src, ports.String("path", path), ports.Err(err))
		return ""
	}

	if line == "" {
		f.logger.Warn("client id file is empty", src, ports.String("path", path))
		return ""
	}
	if _, err := strconv.ParseUint(line, 10, 64); err != nil {
		f.logger.Warn("client id is not numeric", src, ports.String("client_id", line))
	}
	return line
}

var _ ports.ClientIDSource = (*ClientIDFile)(nil)
