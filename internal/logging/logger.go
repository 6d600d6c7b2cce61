package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
)

// Options describes logger construction parameters.
type Options struct {
	Level string
	// Console receives coloured lines when it is a terminal. Nil disables
	// console output.
	Console io.Writer
	// FilePath is the per-invocation log file. Empty disables the file.
	FilePath string
	// RunID is recorded in the opening line of the run.
	RunID string
}

// Logger bundles the slog logger with the resources behind it.
type Logger struct {
	*slog.Logger
	Path string
	file *os.File
}

// New builds a logger that mirrors every line to the console and the run
// log file.
func New(opts Options) (*Logger, error) {
	level := new(slog.LevelVar)
	level.Set(parseLevel(opts.Level))

	var handlers []slog.Handler
	if opts.Console != nil {
		handlers = append(handlers, newLineHandler(opts.Console, level, consoleStyler(opts.Console)))
	}

	out := &Logger{}
	if opts.FilePath != "" {
		if err := os.MkdirAll(filepath.Dir(opts.FilePath), 0o755); err != nil {
			return nil, fmt.Errorf("ensure log directory: %w", err)
		}
		file, err := os.OpenFile(opts.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file %s: %w", opts.FilePath, err)
		}
		out.file = file
		out.Path = opts.FilePath
		handlers = append(handlers, newLineHandler(file, level, plainStyler))
	}

	out.Logger = slog.New(newFanoutHandler(handlers...))
	if opts.RunID != "" {
		out.Debug("run started", String(FieldRun, opts.RunID), String("log", opts.FilePath))
	}
	return out, nil
}

// Close flushes and closes the run log file.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	if err := l.file.Sync(); err != nil {
		_ = l.file.Close()
		return err
	}
	return l.file.Close()
}

// NewNop returns a logger that discards everything.
func NewNop() *slog.Logger {
	return slog.New(NoopHandler{})
}

// RunLogPath names the log file of one invocation of op.
func RunLogPath(dir, op string, now time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("camsync-%s-%s.log", op, now.Format("20060102-150405")))
}

// Measure returns a stop function that logs the elapsed time at debug level.
func Measure(logger *slog.Logger, label string) func() {
	if logger == nil || !logger.Enabled(context.Background(), slog.LevelDebug) {
		return func() {}
	}
	start := time.Now()
	return func() {
		logger.Debug(label+" finished", Duration("elapsed", time.Since(start).Round(time.Millisecond)))
	}
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
