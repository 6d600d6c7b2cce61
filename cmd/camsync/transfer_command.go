package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"camsync/internal/app"
	"camsync/internal/config"
	"camsync/internal/domain"
	apperrors "camsync/internal/errors"
	osfs "camsync/internal/infra/fs"
	"camsync/internal/logging"
	"camsync/internal/preflight"
)

func newTransferCommand(ctx *commandContext) *cobra.Command {
	var modes modeFlags
	var board string
	var sequential bool
	var concurrency int
	var strategy string
	var date string

	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Copy new sessions from every reachable board",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := modes.resolve(domain.Execute)
			if err := validateDate(date); err != nil {
				return err
			}
			env, err := ctx.startRun(preflight.OpTransfer)
			if err != nil {
				return err
			}
			defer env.close()

			boards, err := env.boards(board)
			if err != nil {
				return err
			}
			delta, err := transferDelta(env.cfg, strategy)
			if err != nil {
				return err
			}
			if delta && date != "" {
				return apperrors.New(apperrors.InvalidConfig, "parse --date", date, "--date cannot be combined with delta mode")
			}
			limit := env.cfg.Transfer.Concurrency
			if cmd.Flags().Changed("concurrency") {
				if concurrency < 1 {
					return apperrors.New(apperrors.InvalidConfig, "parse --concurrency", "", "must be at least 1")
				}
				limit = concurrency
			}
			if sequential {
				limit = 1
			}

			results := preflight.CheckBinaries(preflight.RequirementsFor(preflight.OpTransfer, delta, true))
			if mode.Mutates() {
				results = append(results, preflight.CheckDirectoryAccess("Local base", env.cfg.Local.BaseDir, true))
			}
			if err := preflight.Err(results); err != nil {
				return err
			}
			if mode.Mutates() {
				if err := env.lockLocal(); err != nil {
					return err
				}
			}

			ssh := env.ssh()
			transferrer := &app.Transferrer{
				FS:         osfs.OSFS{},
				Remote:     ssh,
				Prober:     env.prober(),
				Enumerator: env.enumerator(ssh),
				LocalBase:  env.cfg.Local.BaseDir,
				Delta:      delta,
				DateKey:    date,
				Logger:     env.log.Logger,
			}
			if mode.Mutates() {
				if err := transferrer.Prepare(); err != nil {
					return err
				}
				defer func() {
					if err := transferrer.Cleanup(); err != nil {
						env.log.Warn("remove scratch directory", logging.Error(err))
					}
				}()
			}

			env.log.Info("transfer starting",
				logging.String("mode", mode.String()),
				logging.Int("boards", len(boards)),
				logging.Int("concurrency", limit),
				logging.Bool("delta", delta))
			pool := app.Pool{Limit: limit, Logger: env.log.Logger}
			report := pool.Run(cmd.Context(), boards, mode, func(ctx context.Context, b domain.Board) domain.TransferJob {
				return transferrer.Transfer(ctx, b, mode)
			})

			env.printer.PrintTransfer(report)
			return env.finish(report.Outcome())
		},
	}

	modes.register(cmd, domain.Execute)
	cmd.Flags().StringVar(&board, "board", "", "Only transfer from this board hostname")
	cmd.Flags().StringVar(&date, "date", "", "Only transfer sessions dated YYYYMMDD")
	cmd.Flags().BoolVar(&sequential, "sequential", false, "Transfer one board at a time")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "Boards transferred in parallel (overrides transfer.concurrency)")
	cmd.Flags().StringVar(&strategy, "mode", "", "Transfer mode: session or delta (overrides transfer.mode)")
	cmd.MarkFlagsMutuallyExclusive("sequential", "concurrency")
	return cmd
}

// transferDelta resolves the --mode flag against the configured mode.
func transferDelta(cfg *config.Config, flag string) (bool, error) {
	value := strings.ToLower(strings.TrimSpace(flag))
	if value == "" {
		value = cfg.Transfer.Mode
	}
	switch value {
	case "session", config.ModeSessions:
		return false, nil
	case config.ModeDelta:
		return true, nil
	default:
		return false, apperrors.New(apperrors.InvalidConfig, "parse --mode", value,
			fmt.Sprintf("unsupported transfer mode %q (want session or delta)", value))
	}
}
