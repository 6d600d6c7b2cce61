package main

import (
	"github.com/spf13/cobra"

	"camsync/internal/app"
	"camsync/internal/domain"
	"camsync/internal/preflight"
)

func newDeleteCommand(ctx *commandContext) *cobra.Command {
	var modes modeFlags
	var board string
	var date string

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Remove session directories from the boards",
		Long: "Remove session directories from the boards.\n\n" +
			"Runs as a dry run unless --execute is given. Executing asks for two typed\n" +
			"confirmations before anything is removed.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := modes.resolve(domain.DryRun)
			if err := validateDate(date); err != nil {
				return err
			}
			env, err := ctx.startRun(preflight.OpDelete)
			if err != nil {
				return err
			}
			defer env.close()

			boards, err := env.boards(board)
			if err != nil {
				return err
			}
			if err := preflight.Err(preflight.CheckBinaries(preflight.RequirementsFor(preflight.OpDelete, false, true))); err != nil {
				return err
			}
			if mode.Mutates() {
				if err := env.lockLocal(); err != nil {
					return err
				}
			}

			ssh := env.ssh()
			deleter := &app.Deleter{
				Prober:     env.prober(),
				Remote:     ssh,
				Enumerator: env.enumerator(ssh),
				Logger:     env.log.Logger,
			}
			jobs := deleter.Plan(cmd.Context(), boards, date)
			env.printer.PrintDeletionPlan(jobs, date)

			if mode.Mutates() && (domain.DeletionReport{Jobs: jobs}).Matched() > 0 {
				if err := app.ConfirmDeletion(cmd.Context(), ctx.prompter()); err != nil {
					return env.abort(err)
				}
			}

			report := deleter.Execute(cmd.Context(), jobs, mode)
			env.printer.PrintDeletion(report)
			return env.finish(report.Outcome())
		},
	}

	modes.register(cmd, domain.DryRun)
	cmd.Flags().StringVar(&board, "board", "", "Only delete on this board hostname")
	cmd.Flags().StringVar(&date, "date", "", "Only delete sessions dated YYYYMMDD")
	return cmd
}
