// Package runlock keeps two camsync runs from mutating the same local tree
// at once.
package runlock

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	apperrors "camsync/internal/errors"
)

const FileName = ".camsync.lock"

type Lock struct {
	flock *flock.Flock
}

// Acquire takes the lock file in dir without blocking, creating dir if
// needed.
func Acquire(dir string) (*Lock, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, apperrors.Wrap(apperrors.IOFailure, "acquire lock", dir, err)
	}
	path := filepath.Join(dir, FileName)
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.IOFailure, "acquire lock", path, err)
	}
	if !ok {
		return nil, apperrors.New(apperrors.Precondition, "acquire lock", path,
			fmt.Sprintf("another camsync run holds %s", path))
	}
	return &Lock{flock: fl}, nil
}

func (l *Lock) Path() string {
	return l.flock.Path()
}

func (l *Lock) Release() error {
	if l == nil || l.flock == nil {
		return nil
	}
	return l.flock.Unlock()
}
