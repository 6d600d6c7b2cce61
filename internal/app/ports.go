package app

import (
	"context"
	"io/fs"
	"time"

	"camsync/internal/infra/remote"
)

type FileSystem interface {
	WalkDir(root string, fn fs.WalkDirFunc) error
	ReadDir(path string) ([]fs.DirEntry, error)
	ReadFile(path string) ([]byte, error)
	Stat(path string) (fs.FileInfo, error)
	Exists(path string) (bool, error)
	MkdirAll(path string, perm fs.FileMode) error
	MkdirTemp(dir, pattern string) (string, error)
	Remove(path string) error
	RemoveAll(path string) error
	MoveFile(src, dst string) error
	SameContent(a, b string) (bool, error)
}

// Prober answers whether a board is reachable. It never fails.
type Prober interface {
	Probe(ctx context.Context, host string) bool
}

// Remote is the board side of every operation.
type Remote interface {
	ListDirs(ctx context.Context, host, dir, glob string) ([]string, error)
	DirStats(ctx context.Context, host, dir, photoGlob, logName string) (remote.Stats, error)
	RemoveDir(ctx context.Context, host, dir string) error
	CopyDir(ctx context.Context, host, remoteDir, localParent string) error
	Mirror(ctx context.Context, host, remoteDir, localDir string) error
}

type ExifReader interface {
	CaptureTime(ctx context.Context, path string) (time.Time, bool, error)
}

// Prompter asks the operator a question and returns the typed answer.
type Prompter interface {
	Ask(ctx context.Context, prompt string) (string, error)
}
