package app

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"camsync/internal/domain"
	apperrors "camsync/internal/errors"
	"camsync/internal/logging"
)

// ProgressFunc is called while photos are scanned.
type ProgressFunc func(current, total int)

// Catalog lists sessions, locally or on the boards. It never mutates.
type Catalog struct {
	FS          FileSystem
	Exif        ExifReader
	ExifWorkers int
	LocalBase   string
	Prober      Prober
	Enumerator  *Enumerator
	Logger      *slog.Logger
	OnProgress  ProgressFunc
}

// Local summarizes the sessions of board in the local tree.
func (c *Catalog) Local(ctx context.Context, board domain.Board) ([]domain.SessionSummary, error) {
	root := filepath.Join(c.LocalBase, board.Hostname, board.CameraDir())
	stop := logging.Measure(logging.ForBoard(c.logger(), board.Hostname), "local catalog")
	defer stop()

	entries, err := c.FS.ReadDir(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, apperrors.Wrap(apperrors.IOFailure, "list local sessions", root, err)
	}

	var out []domain.SessionSummary
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(strings.ToLower(entry.Name()), "session") {
			continue
		}
		summary, err := c.localSession(ctx, board, filepath.Join(root, entry.Name()))
		if err != nil {
			return nil, err
		}
		out = append(out, summary)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Session.Name < out[j].Session.Name })
	return out, nil
}

func (c *Catalog) localSession(ctx context.Context, board domain.Board, dir string) (domain.SessionSummary, error) {
	session := domain.NewSession(board, filepath.Base(dir))
	summary := domain.SessionSummary{LogPhotos: domain.Unknown, LogFailures: domain.Unknown}

	entries, err := c.FS.ReadDir(dir)
	if err != nil {
		return summary, apperrors.Wrap(apperrors.IOFailure, "list session", dir, err)
	}
	var photos []string
	var size int64
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if info, err := entry.Info(); err == nil {
			size += info.Size()
		}
		switch {
		case entry.Name() == domain.SessionLogName:
			session.HasLog = true
		case domain.IsPhotoName(entry.Name()):
			photos = append(photos, filepath.Join(dir, entry.Name()))
		}
	}
	session.PhotoCount = len(photos)
	session.Bytes = size
	summary.Session = session

	if session.HasLog {
		logPath := filepath.Join(dir, domain.SessionLogName)
		if data, err := c.FS.ReadFile(logPath); err != nil {
			c.logger().Warn("cannot read session log", logging.String("path", logPath), logging.Error(err))
		} else if parsed, err := domain.ParseSessionLog(data); err != nil {
			c.logger().Warn("cannot parse session log", logging.String("path", logPath), logging.Error(err))
		} else {
			summary.LogPhotos = len(parsed.Photos)
			summary.LogFailures = len(parsed.Failures)
		}
	}

	captured, err := c.scanPhotos(ctx, photos)
	if err != nil {
		return summary, err
	}
	for i, photo := range captured {
		if !photo.FromExif {
			summary.Fallbacks++
		}
		if i == 0 || photo.TakenAt.Before(summary.First) {
			summary.First = photo.TakenAt
		}
		if i == 0 || photo.TakenAt.After(summary.Last) {
			summary.Last = photo.TakenAt
		}
	}
	return summary, nil
}

// scanPhotos reads capture times with a fixed set of workers.
func (c *Catalog) scanPhotos(ctx context.Context, paths []string) ([]domain.Photo, error) {
	if len(paths) == 0 || c.Exif == nil {
		return nil, nil
	}
	workerCount := c.ExifWorkers
	if workerCount <= 0 {
		workerCount = runtime.NumCPU()
	}
	if workerCount > len(paths) {
		workerCount = len(paths)
	}

	type result struct {
		photo domain.Photo
		err   error
	}

	jobs := make(chan string)
	results := make(chan result, len(paths))
	for i := 0; i < workerCount; i++ {
		go func() {
			for path := range jobs {
				info, err := c.FS.Stat(path)
				if err != nil {
					results <- result{err: err}
					continue
				}
				taken, fromExif, err := c.Exif.CaptureTime(ctx, path)
				if err != nil {
					results <- result{err: err}
					continue
				}
				results <- result{photo: domain.NewPhoto(path, info.Size(), taken, fromExif)}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, path := range paths {
			select {
			case <-ctx.Done():
				return
			case jobs <- path:
			}
		}
	}()

	photos := make([]domain.Photo, 0, len(paths))
	var firstErr error
	for i := range paths {
		var res result
		select {
		case res = <-results:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		if res.err != nil && firstErr == nil {
			firstErr = res.err
		}
		if res.err == nil {
			photos = append(photos, res.photo)
		}
		if c.OnProgress != nil {
			c.OnProgress(i+1, len(paths))
		}
	}
	if firstErr != nil {
		return photos, apperrors.Wrap(apperrors.IOFailure, "read capture time", "", firstErr)
	}
	return photos, nil
}

// Remote lists the sessions of board as the board reports them.
func (c *Catalog) Remote(ctx context.Context, board domain.Board) ([]domain.SessionSummary, error) {
	if !c.Prober.Probe(ctx, board.Hostname) {
		return nil, apperrors.New(apperrors.Connectivity, "probe", board.Hostname, "host unreachable")
	}
	sessions, err := c.Enumerator.List(ctx, board)
	if err != nil {
		return nil, err
	}
	out := make([]domain.SessionSummary, 0, len(sessions))
	for _, session := range sessions {
		c.Enumerator.Stats(ctx, &session)
		out = append(out, domain.SessionSummary{Session: session, LogPhotos: domain.Unknown, LogFailures: domain.Unknown})
	}
	return out, nil
}

func (c *Catalog) logger() *slog.Logger {
	if c.Logger == nil {
		return logging.NewNop()
	}
	return c.Logger
}
