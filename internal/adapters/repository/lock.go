package repository

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// SeasonLock is an advisory file lock that keeps two processes from
// collecting or importing the same season at once.
type SeasonLock struct {
	lock *flock.Flock
}

// AcquireSeasonLock takes the lock for season in dataDir without blocking.
// It returns ErrSeasonLocked when another process holds it.
func AcquireSeasonLock(dataDir string, season int) (*SeasonLock, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	l := flock.New(filepath.Join(dataDir, fmt.Sprintf("season-%d.lock", season)))
	ok, err := l.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("season %d: %w", season, ErrSeasonLocked)
	}
	return &SeasonLock{lock: l}, nil
}

// Path returns the lock file path.
func (l *SeasonLock) Path() string {
	return l.lock.Path()
}

// Release unlocks the season.
func (l *SeasonLock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	return l.lock.Unlock()
}
