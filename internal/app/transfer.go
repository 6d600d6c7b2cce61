package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"

	"camsync/internal/domain"
	apperrors "camsync/internal/errors"
	"camsync/internal/logging"
)

const scratchPattern = ".camsync-scratch-*"

// Transferrer pulls a board's sessions into the local tree.
type Transferrer struct {
	FS         FileSystem
	Remote     Remote
	Prober     Prober
	Enumerator *Enumerator
	LocalBase  string
	// Delta mirrors the whole camera directory with rsync instead of copying
	// session by session.
	Delta bool
	// DateKey limits session transfers to one YYYYMMDD date. The
	// whole-directory fallback is never taken while it is set.
	DateKey string
	Logger  *slog.Logger

	scratch string
}

// Prepare creates the per-run scratch directory that copies are staged in.
// It lives under the local base so staged files are renamed, not copied,
// into place.
func (t *Transferrer) Prepare() error {
	if err := t.FS.MkdirAll(t.LocalBase, 0o755); err != nil {
		return apperrors.Wrap(apperrors.IOFailure, "create local base", t.LocalBase, err)
	}
	dir, err := t.FS.MkdirTemp(t.LocalBase, scratchPattern)
	if err != nil {
		return apperrors.Wrap(apperrors.IOFailure, "create scratch", t.LocalBase, err)
	}
	t.scratch = dir
	return nil
}

// Cleanup removes the scratch directory and anything left in it.
func (t *Transferrer) Cleanup() error {
	if t.scratch == "" {
		return nil
	}
	dir := t.scratch
	t.scratch = ""
	return t.FS.RemoveAll(dir)
}

// LocalDir is where a board's sessions land.
func (t *Transferrer) LocalDir(board domain.Board) string {
	return filepath.Join(t.LocalBase, board.Hostname, board.CameraDir())
}

// Transfer runs probe, enumerate and copy for one board. It never returns an
// error; the outcome is carried on the job.
func (t *Transferrer) Transfer(ctx context.Context, board domain.Board, mode domain.ExecutionMode) domain.TransferJob {
	log := logging.ForBoard(t.logger(), board.Hostname)
	job := domain.TransferJob{Board: board, LocalDir: t.LocalDir(board)}

	if !t.Prober.Probe(ctx, board.Hostname) {
		job.Outcome = domain.Failed
		job.Err = apperrors.New(apperrors.Connectivity, "probe", board.Hostname, "host unreachable")
		log.Warn("board unreachable, skipping")
		return job
	}
	job.Board.Reachable = true
	if mode.Mutates() && t.scratch == "" {
		job.Outcome = domain.Failed
		job.Err = apperrors.New(apperrors.Internal, "transfer", board.Hostname, "scratch directory not prepared")
		return job
	}

	if t.Delta {
		return t.mirror(ctx, job, mode, log)
	}

	sessions, err := t.Enumerator.List(ctx, board)
	if t.DateKey != "" {
		if err != nil {
			job.Outcome = domain.Failed
			job.Err = err
			log.Warn("session listing failed", logging.Error(err))
			return job
		}
		sessions = sessionsOn(sessions, t.DateKey)
		if len(sessions) == 0 {
			job.Strategy = domain.StrategySessions
			job.Outcome = domain.Succeeded
			log.Info("no sessions on date", logging.String("date", t.DateKey))
			return job
		}
	}
	switch {
	case err != nil:
		log.Warn("session listing failed, copying whole camera directory", logging.Error(err))
		return t.fallback(ctx, job, mode, log)
	case len(sessions) == 0:
		log.Info("no sessions listed, copying whole camera directory")
		return t.fallback(ctx, job, mode, log)
	}

	job.Strategy = domain.StrategySessions
	for _, session := range sessions {
		res := t.transferSession(ctx, job.LocalDir, session, mode, log)
		job.Copied += res.Copied
		job.Sessions = append(job.Sessions, res)
	}
	if failed := job.FailedSessions(); failed > 0 {
		job.Outcome = domain.Failed
		job.Err = apperrors.New(apperrors.Transfer, "transfer", board.Hostname,
			fmt.Sprintf("%d of %d sessions failed", failed, len(job.Sessions)))
		return job
	}
	job.Outcome = domain.Succeeded
	log.Info("board transferred",
		logging.Int("sessions", len(job.Sessions)),
		logging.Int("skipped", job.SkippedSessions()),
		logging.Int("photos", job.Copied))
	return job
}

func (t *Transferrer) transferSession(ctx context.Context, localDir string, session domain.Session, mode domain.ExecutionMode, log *slog.Logger) domain.SessionTransfer {
	res := domain.SessionTransfer{Session: session}
	log = log.With(logging.String(logging.FieldSession, session.Name))
	dest := filepath.Join(localDir, session.Name)

	present, err := hasPhotos(t.FS, dest)
	if err != nil {
		res.Err = apperrors.Wrap(apperrors.IOFailure, "inspect destination", dest, err)
		log.Error("cannot inspect destination", logging.Error(err))
		return res
	}
	if present {
		res.Skipped = true
		log.Info("already present, skipping")
		return res
	}
	if !mode.Mutates() {
		log.Info("would copy session", logging.String("dest", dest))
		return res
	}
	if err := ctx.Err(); err != nil {
		res.Err = apperrors.Wrap(apperrors.Transfer, "copy session", session.Name, err)
		return res
	}

	existed, err := t.FS.Exists(dest)
	if err != nil {
		res.Err = apperrors.Wrap(apperrors.IOFailure, "inspect destination", dest, err)
		return res
	}
	staging, err := t.FS.MkdirTemp(t.scratch, "session-*")
	if err != nil {
		res.Err = apperrors.Wrap(apperrors.IOFailure, "create staging", t.scratch, err)
		return res
	}
	defer func() { _ = t.FS.RemoveAll(staging) }()

	remoteDir := t.Enumerator.SessionDir(session.Board, session.Name)
	if err := t.Remote.CopyDir(ctx, session.Board.Hostname, remoteDir, staging); err != nil {
		res.Err = apperrors.Wrap(apperrors.Transfer, "copy session", session.Name, err)
		log.Error("session copy failed", logging.Error(err))
		return res
	}

	copied, err := mergeTree(t.FS, filepath.Join(staging, session.Name), dest)
	if err != nil {
		if !existed {
			_ = t.FS.RemoveAll(dest)
		}
		res.Err = apperrors.Wrap(apperrors.Transfer, "place session", dest, err)
		log.Error("placing session failed", logging.Error(err))
		return res
	}
	res.Copied = copied
	log.Info("session copied", logging.Int("photos", copied))
	return res
}

// fallback copies the whole remote camera directory as one unit.
func (t *Transferrer) fallback(ctx context.Context, job domain.TransferJob, mode domain.ExecutionMode, log *slog.Logger) domain.TransferJob {
	job.Strategy = domain.StrategyFallback
	remoteDir := t.Enumerator.CameraDir(job.Board)
	if !mode.Mutates() {
		log.Info("would copy camera directory", logging.String("remote", remoteDir), logging.String("dest", job.LocalDir))
		job.Outcome = domain.Succeeded
		return job
	}

	staging, err := t.FS.MkdirTemp(t.scratch, "board-*")
	if err != nil {
		job.Outcome = domain.Failed
		job.Err = apperrors.Wrap(apperrors.IOFailure, "create staging", t.scratch, err)
		return job
	}
	defer func() { _ = t.FS.RemoveAll(staging) }()

	if err := t.Remote.CopyDir(ctx, job.Board.Hostname, remoteDir, staging); err != nil {
		job.Outcome = domain.Failed
		job.Err = apperrors.Wrap(apperrors.Transfer, "copy camera directory", job.Board.Hostname+":"+remoteDir, err)
		log.Error("camera directory copy failed", logging.Error(err))
		return job
	}
	existed, err := t.FS.Exists(job.LocalDir)
	if err != nil {
		job.Outcome = domain.Failed
		job.Err = apperrors.Wrap(apperrors.IOFailure, "inspect destination", job.LocalDir, err)
		return job
	}
	copied, err := mergeTree(t.FS, filepath.Join(staging, job.Board.CameraDir()), job.LocalDir)
	job.Copied = copied
	if err != nil {
		if !existed {
			_ = t.FS.RemoveAll(job.LocalDir)
		}
		job.Outcome = domain.Failed
		job.Err = apperrors.Wrap(apperrors.Transfer, "place camera directory", job.LocalDir, err)
		log.Error("placing camera directory failed", logging.Error(err))
		return job
	}
	job.Outcome = domain.Succeeded
	log.Info("camera directory copied", logging.Int("photos", copied))
	return job
}

func (t *Transferrer) mirror(ctx context.Context, job domain.TransferJob, mode domain.ExecutionMode, log *slog.Logger) domain.TransferJob {
	job.Strategy = domain.StrategyDelta
	remoteDir := t.Enumerator.CameraDir(job.Board)
	if !mode.Mutates() {
		log.Info("would mirror camera directory", logging.String("remote", remoteDir), logging.String("dest", job.LocalDir))
		job.Outcome = domain.Succeeded
		return job
	}
	if err := t.FS.MkdirAll(job.LocalDir, 0o755); err != nil {
		job.Outcome = domain.Failed
		job.Err = apperrors.Wrap(apperrors.IOFailure, "create destination", job.LocalDir, err)
		return job
	}
	if err := t.Remote.Mirror(ctx, job.Board.Hostname, remoteDir, job.LocalDir); err != nil {
		job.Outcome = domain.Failed
		job.Err = apperrors.Wrap(apperrors.Transfer, "mirror camera directory", job.Board.Hostname+":"+remoteDir, err)
		log.Error("mirror failed", logging.Error(err))
		return job
	}
	job.Outcome = domain.Succeeded
	log.Info("camera directory mirrored")
	return job
}

func (t *Transferrer) logger() *slog.Logger {
	if t.Logger == nil {
		return logging.NewNop()
	}
	return t.Logger
}

// hasPhotos reports whether dir exists and holds at least one photo.
func sessionsOn(sessions []domain.Session, dateKey string) []domain.Session {
	var out []domain.Session
	for _, s := range sessions {
		if s.DateKey == dateKey {
			out = append(out, s)
		}
	}
	return out
}

func hasPhotos(fsys FileSystem, dir string) (bool, error) {
	entries, err := fsys.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	for _, entry := range entries {
		if !entry.IsDir() && domain.IsPhotoName(entry.Name()) {
			return true, nil
		}
	}
	return false, nil
}

// mergeTree moves every file below src to the same relative path below dst.
// A file already at the destination wins and the staged copy is dropped.
// It returns the number of photos placed.
func mergeTree(fsys FileSystem, src, dst string) (int, error) {
	placed := 0
	err := fsys.WalkDir(src, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return fsys.MkdirAll(target, 0o755)
		}
		exists, err := fsys.Exists(target)
		if err != nil {
			return err
		}
		if exists {
			return nil
		}
		if err := fsys.MoveFile(path, target); err != nil {
			return err
		}
		if domain.IsPhotoName(d.Name()) {
			placed++
		}
		return nil
	})
	return placed, err
}
