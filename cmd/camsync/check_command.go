package main

import (
	"github.com/spf13/cobra"

	"camsync/internal/domain"
	"camsync/internal/logging"
	"camsync/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var board string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify local tools and probe every board",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := ctx.startRun(preflight.OpCheck)
			if err != nil {
				return err
			}
			defer env.close()

			boards, err := env.boards(board)
			if err != nil {
				return err
			}
			delta, err := transferDelta(env.cfg, "")
			if err != nil {
				return err
			}

			results := preflight.CheckBinaries(preflight.RequirementsFor(preflight.OpTransfer, delta, true))
			results = append(results, preflight.CheckDirectoryAccess("Local base", env.cfg.Local.BaseDir, false))

			passed := 0
			for _, r := range results {
				if r.Passed {
					passed++
				}
			}
			prober := env.prober()
			for i := range boards {
				boards[i].Reachable = prober.Probe(cmd.Context(), boards[i].Hostname)
				logging.ForBoard(env.log.Logger, boards[i].Hostname).Info("probed", logging.Bool("reachable", boards[i].Reachable))
				if boards[i].Reachable {
					passed++
				}
			}

			env.printer.PrintCheck(results, boards)
			return env.finish(domain.OutcomeFor(passed, len(results)+len(boards)))
		},
	}

	cmd.Flags().StringVar(&board, "board", "", "Only probe this board hostname")
	return cmd
}
