// Package instance enforces that at most one presenced process runs per user.
package instance

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/bft-labs/presenced/internal/domain"
)

// lockNamespace derives a stable per-application lock name.
var lockNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("github.com/bft-labs/presenced"))

// Guard holds an exclusive, advisory file lock for the lifetime of the process.
type Guard struct {
	lock *flock.Flock
}

// DefaultPath returns the lock path under the user's runtime directory.
func DefaultPath(name string) (string, error) {
	path, err := xdg.RuntimeFile(filepath.Join("presenced", fmt.Sprintf("%s-%s.lock", name, lockNamespace)))
	if err != nil {
		return "", fmt.Errorf("resolve lock path: %w", err)
	}
	return path, nil
}

// Acquire takes the lock at path without blocking.
// It returns domain.ErrAlreadyRunning when another holder exists.
func Acquire(path string) (*Guard, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("lock dir: %w", err)
	}

	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire %s: %w", path, err)
	}
	if !ok {
		return nil, domain.ErrAlreadyRunning
	}
	return &Guard{lock: lock}, nil
}

// Path returns the lock file path.
func (g *Guard) Path() string {
	return g.lock.Path()
}

// Release drops the lock. The lock file is left in place.
func (g *Guard) Release() error {
	if g == nil || g.lock == nil {
		return nil
	}
	return g.lock.Unlock()
}
