package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"camsync/internal/domain"
	apperrors "camsync/internal/errors"
	"camsync/internal/logging"
)

// DeletionPhrases must be typed in order before anything is removed.
var DeletionPhrases = []string{"DELETE", "YES I AM SURE"}

// Deleter removes session directories from boards.
type Deleter struct {
	Prober     Prober
	Remote     Remote
	Enumerator *Enumerator
	Logger     *slog.Logger
}

// Plan probes and enumerates every board and selects the sessions to delete.
// An empty dateKey selects all sessions. Plan never mutates anything.
func (d *Deleter) Plan(ctx context.Context, boards []domain.Board, dateKey string) []domain.DeletionJob {
	jobs := make([]domain.DeletionJob, 0, len(boards))
	for _, board := range boards {
		jobs = append(jobs, d.planBoard(ctx, board, dateKey))
	}
	return jobs
}

func (d *Deleter) planBoard(ctx context.Context, board domain.Board, dateKey string) domain.DeletionJob {
	log := logging.ForBoard(d.logger(), board.Hostname)
	job := domain.DeletionJob{Board: board}

	if !d.Prober.Probe(ctx, board.Hostname) {
		job.Outcome = domain.Failed
		job.Err = apperrors.New(apperrors.Connectivity, "probe", board.Hostname, "host unreachable")
		log.Warn("board unreachable, skipping")
		return job
	}
	job.Board.Reachable = true

	sessions, err := d.Enumerator.List(ctx, job.Board)
	if err != nil {
		job.Outcome = domain.Failed
		job.Err = err
		log.Error("cannot list sessions", logging.Error(err))
		return job
	}
	for _, session := range sessions {
		if dateKey != "" && session.DateKey != dateKey {
			continue
		}
		d.Enumerator.Stats(ctx, &session)
		job.Sessions = append(job.Sessions, session)
	}
	photos, bytes, partial := job.Totals()
	log.Info("deletion planned",
		logging.Int("sessions", len(job.Sessions)),
		logging.Int("photos", photos),
		logging.Int64("bytes", bytes),
		logging.Bool("partial", partial))
	return job
}

// Execute removes the planned sessions. In dry-run mode it only reports what
// would go. Each session is removed independently and failures do not stop
// the rest.
func (d *Deleter) Execute(ctx context.Context, jobs []domain.DeletionJob, mode domain.ExecutionMode) domain.DeletionReport {
	report := domain.DeletionReport{Mode: mode, Jobs: make([]domain.DeletionJob, 0, len(jobs))}
	for _, job := range jobs {
		report.Jobs = append(report.Jobs, d.executeBoard(ctx, job, mode))
	}
	return report
}

func (d *Deleter) executeBoard(ctx context.Context, job domain.DeletionJob, mode domain.ExecutionMode) domain.DeletionJob {
	log := logging.ForBoard(d.logger(), job.Board.Hostname)
	if job.Err != nil {
		job.Outcome = domain.Failed
		return job
	}
	for _, session := range job.Sessions {
		dir := d.Enumerator.SessionDir(job.Board, session.Name)
		if !mode.Mutates() {
			log.Info("would delete session", logging.String(logging.FieldSession, session.Name), logging.String("path", dir))
			continue
		}
		if err := ctx.Err(); err != nil {
			job.Failed++
			job.Errors = append(job.Errors, apperrors.Wrap(apperrors.Deletion, "delete session", dir, err))
			continue
		}
		if err := d.Remote.RemoveDir(ctx, job.Board.Hostname, dir); err != nil {
			job.Failed++
			job.Errors = append(job.Errors, apperrors.Wrap(apperrors.Deletion, "delete session", dir, err))
			log.Error("session deletion failed", logging.String(logging.FieldSession, session.Name), logging.Error(err))
			continue
		}
		job.Deleted++
		log.Info("session deleted", logging.String(logging.FieldSession, session.Name))
	}
	if job.Failed > 0 {
		job.Outcome = domain.Failed
		job.Err = apperrors.New(apperrors.Deletion, "delete", job.Board.Hostname,
			fmt.Sprintf("%d of %d sessions failed", job.Failed, len(job.Sessions)))
		return job
	}
	job.Outcome = domain.Succeeded
	return job
}

func (d *Deleter) logger() *slog.Logger {
	if d.Logger == nil {
		return logging.NewNop()
	}
	return d.Logger
}

// ConfirmDeletion asks for each of DeletionPhrases in turn. Any mismatch or
// prompt failure aborts the run.
func ConfirmDeletion(ctx context.Context, prompter Prompter) error {
	for i, phrase := range DeletionPhrases {
		answer, err := prompter.Ask(ctx, fmt.Sprintf("Type %q to continue (%d/%d):", phrase, i+1, len(DeletionPhrases)))
		if err != nil {
			return apperrors.Wrap(apperrors.Aborted, "confirm deletion", "", err)
		}
		if strings.TrimRight(answer, "\r\n") != phrase {
			return apperrors.New(apperrors.Aborted, "confirm deletion", "",
				fmt.Sprintf("confirmation %d did not match %q", i+1, phrase))
		}
	}
	return nil
}
