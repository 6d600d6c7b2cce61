package app

import (
	"context"
	"log/slog"
	"path"

	"camsync/internal/domain"
	apperrors "camsync/internal/errors"
	"camsync/internal/logging"
)

// Enumerator lists the session directories of a board.
type Enumerator struct {
	Remote  Remote
	BaseDir string
	Logger  *slog.Logger
}

// CameraDir is the remote directory holding the board's sessions.
func (e *Enumerator) CameraDir(board domain.Board) string {
	return path.Join(e.BaseDir, board.CameraDir())
}

func (e *Enumerator) SessionDir(board domain.Board, name string) string {
	return path.Join(e.CameraDir(board), name)
}

// List returns the board's sessions sorted by name, with unknown stats.
func (e *Enumerator) List(ctx context.Context, board domain.Board) ([]domain.Session, error) {
	dir := e.CameraDir(board)
	names, err := e.Remote.ListDirs(ctx, board.Hostname, dir, domain.SessionGlob)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Enumeration, "list sessions", board.Hostname+":"+dir, err)
	}
	sessions := make([]domain.Session, 0, len(names))
	for _, name := range names {
		if !domain.IsSessionName(name) {
			continue
		}
		sessions = append(sessions, domain.NewSession(board, name))
	}
	return sessions, nil
}

// Stats fills in photo count, size, and log presence. Failures leave the
// values unknown.
func (e *Enumerator) Stats(ctx context.Context, session *domain.Session) {
	dir := e.SessionDir(session.Board, session.Name)
	stats, err := e.Remote.DirStats(ctx, session.Board.Hostname, dir, "*"+domain.PhotoExt, domain.SessionLogName)
	if err != nil {
		logging.ForBoard(e.logger(), session.Board.Hostname).Debug("session stats unavailable",
			logging.String(logging.FieldSession, session.Name), logging.Error(err))
		session.PhotoCount = domain.Unknown
		session.Bytes = domain.Unknown
		return
	}
	session.PhotoCount = stats.Photos
	session.Bytes = stats.Bytes
	session.HasLog = stats.HasLog
}

func (e *Enumerator) logger() *slog.Logger {
	if e.Logger == nil {
		return logging.NewNop()
	}
	return e.Logger
}
