package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"

	"camsync/internal/app"
	"camsync/internal/config"
	"camsync/internal/domain"
	apperrors "camsync/internal/errors"
	"camsync/internal/infra/exif"
	osfs "camsync/internal/infra/fs"
	"camsync/internal/infra/remote"
	"camsync/internal/logging"
	"camsync/internal/presentation"
	"camsync/internal/runlock"
	"camsync/internal/tui"
)

type commandContext struct {
	configFlag string
	verbose    bool

	in     io.Reader
	out    io.Writer
	errOut io.Writer

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(in io.Reader, out, errOut io.Writer) *commandContext {
	return &commandContext{in: in, out: out, errOut: errOut}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(strings.TrimSpace(c.configFlag))
		if err != nil {
			c.configErr = apperrors.Wrap(apperrors.InvalidConfig, "load config", c.configFlag, err)
			return
		}
		if c.verbose {
			cfg.Logging.Level = "debug"
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// runEnv is everything one invocation of an operation needs.
type runEnv struct {
	id      string
	cfg     *config.Config
	log     *logging.Logger
	printer presentation.Printer
	lock    *runlock.Lock
}

func (c *commandContext) startRun(op string) (*runEnv, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	id := uuid.NewString()
	logger, err := logging.New(logging.Options{
		Level:    cfg.Logging.Level,
		Console:  c.errOut,
		FilePath: logging.RunLogPath(cfg.Logging.Dir, op, time.Now()),
		RunID:    id,
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Precondition, "open run log", cfg.Logging.Dir, err)
	}
	return &runEnv{
		id:      id,
		cfg:     cfg,
		log:     logger,
		printer: presentation.Printer{Writer: c.out, Verbose: c.verbose},
	}, nil
}

// lockLocal takes the run lock on the local base for mutating operations.
func (r *runEnv) lockLocal() error {
	lock, err := runlock.Acquire(r.cfg.Local.BaseDir)
	if err != nil {
		return err
	}
	r.lock = lock
	r.log.Debug("run lock acquired", logging.String("path", lock.Path()))
	return nil
}

func (r *runEnv) close() {
	if r.lock != nil {
		if err := r.lock.Release(); err != nil {
			r.log.Warn("release run lock", logging.Error(err))
		}
	}
	_ = r.log.Close()
}

// finish prints the footer and turns the outcome into the command result.
func (r *runEnv) finish(outcome domain.Outcome) error {
	r.log.Info("run finished", logging.String("outcome", outcome.String()))
	r.printer.PrintFooter(outcome, r.log.Path)
	return outcomeErr(outcome)
}

// abort ends a run stopped before any work was done. The footer still
// points at the run log.
func (r *runEnv) abort(err error) error {
	r.log.Warn("run aborted", logging.Error(err))
	r.printer.PrintFooter(domain.TotalFailure, r.log.Path)
	return err
}

func (r *runEnv) boards(hostname string) ([]domain.Board, error) {
	boards := domain.FilterBoards(r.cfg.Inventory(), hostname)
	if len(boards) == 0 {
		return nil, apperrors.New(apperrors.InvalidConfig, "select boards", hostname,
			fmt.Sprintf("board %q is not in the inventory", hostname))
	}
	return boards, nil
}

func (r *runEnv) ssh() remote.SSH {
	rc := r.cfg.Remote
	return remote.SSH{
		Runner:         remote.ExecCommander{},
		User:           rc.User,
		Port:           rc.Port,
		IdentityFile:   rc.IdentityFile,
		ConnectTimeout: time.Duration(rc.ConnectTimeoutSeconds) * time.Second,
		CommandTimeout: time.Duration(rc.CommandTimeoutSeconds) * time.Second,
		CopyTimeout:    time.Duration(r.cfg.Transfer.TimeoutMinutes) * time.Minute,
		Options:        rc.SSHOptions,
	}
}

func (r *runEnv) prober() remote.Pinger {
	return remote.Pinger{
		Runner:  remote.ExecCommander{},
		Timeout: time.Duration(r.cfg.Probe.TimeoutSeconds) * time.Second,
	}
}

func (r *runEnv) enumerator(rem app.Remote) *app.Enumerator {
	return &app.Enumerator{Remote: rem, BaseDir: r.cfg.Remote.BaseDir, Logger: r.log.Logger}
}

func (r *runEnv) catalog() *app.Catalog {
	ssh := r.ssh()
	return &app.Catalog{
		FS:         osfs.OSFS{},
		Exif:       exif.Reader{},
		LocalBase:  r.cfg.Local.BaseDir,
		Prober:     r.prober(),
		Enumerator: r.enumerator(ssh),
		Logger:     r.log.Logger,
		OnProgress: func(current, total int) {
			if current == total {
				r.log.Debug("exif scan finished", logging.Int("photos", total))
			}
		},
	}
}

func (c *commandContext) prompter() *tui.Prompter {
	return tui.NewPrompter(c.in, c.out, isInteractive(c.in) && logging.IsTerminal(c.out))
}

func isInteractive(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func validateDate(value string) error {
	if value == "" || domain.ValidDateKey(value) {
		return nil
	}
	return apperrors.New(apperrors.InvalidConfig, "parse --date", value, "expected a date as YYYYMMDD")
}
