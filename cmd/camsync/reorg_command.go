package main

import (
	"time"

	"github.com/spf13/cobra"

	"camsync/internal/app"
	"camsync/internal/domain"
	osfs "camsync/internal/infra/fs"
	"camsync/internal/preflight"
)

func newReorgCommand(ctx *commandContext) *cobra.Command {
	var modes modeFlags
	var board string
	var date string

	cmd := &cobra.Command{
		Use:   "reorg",
		Short: "Merge local session directories into one session_<YYYYMMDD> per date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := modes.resolve(domain.DryRun)
			if err := validateDate(date); err != nil {
				return err
			}
			env, err := ctx.startRun(preflight.OpReorg)
			if err != nil {
				return err
			}
			defer env.close()

			boards, err := env.boards(board)
			if err != nil {
				return err
			}
			if err := preflight.Err([]preflight.Result{
				preflight.CheckDirectoryAccess("Local base", env.cfg.Local.BaseDir, false),
			}); err != nil {
				return err
			}
			if mode.Mutates() {
				if err := env.lockLocal(); err != nil {
					return err
				}
			}

			reorganizer := &app.Reorganizer{
				FS:        osfs.OSFS{},
				LocalBase: env.cfg.Local.BaseDir,
				Now:       time.Now,
				DateKey:   date,
				Logger:    env.log.Logger,
			}
			report := reorganizer.Run(cmd.Context(), boards, mode)
			env.printer.PrintReorg(report)
			return env.finish(report.Outcome())
		},
	}

	modes.register(cmd, domain.DryRun)
	cmd.Flags().StringVar(&board, "board", "", "Only reorganize this board hostname")
	cmd.Flags().StringVar(&date, "date", "", "Only reorganize sessions dated YYYYMMDD")
	return cmd
}
