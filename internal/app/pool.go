package app

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"camsync/internal/domain"
	apperrors "camsync/internal/errors"
	"camsync/internal/logging"
)

// DefaultConcurrency is how many boards transfer at once unless configured.
const DefaultConcurrency = 3

// BoardWork processes one board and reports the result on the returned job.
type BoardWork func(ctx context.Context, board domain.Board) domain.TransferJob

// Pool runs per-board work with at most Limit boards in flight. A slot is
// handed to the next board as soon as any running board finishes.
type Pool struct {
	Limit  int
	Logger *slog.Logger
}

type indexedJob struct {
	index int
	job   domain.TransferJob
}

// Run attempts every board exactly once. A failing board never cancels the
// others; cancelling ctx marks boards that have not started as failed.
func (p Pool) Run(ctx context.Context, boards []domain.Board, mode domain.ExecutionMode, work BoardWork) domain.TransferReport {
	limit := p.Limit
	if limit < 1 {
		limit = 1
	}
	log := p.Logger
	if log == nil {
		log = logging.NewNop()
	}
	stop := logging.Measure(log, "transfer pool")
	defer stop()

	results := make(chan indexedJob, len(boards))
	var g errgroup.Group
	g.SetLimit(limit)
	for i, board := range boards {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results <- indexedJob{index: i, job: domain.TransferJob{
					Board:   board,
					Outcome: domain.Failed,
					Err:     apperrors.Wrap(apperrors.Transfer, "transfer", board.Hostname, err),
				}}
				return nil
			}
			log.Debug("board admitted", logging.String(logging.FieldBoard, board.Hostname))
			results <- indexedJob{index: i, job: work(ctx, board)}
			return nil
		})
	}
	_ = g.Wait()
	close(results)

	jobs := make([]domain.TransferJob, len(boards))
	for res := range results {
		jobs[res.index] = res.job
	}
	return domain.TransferReport{Mode: mode, Jobs: jobs}
}
