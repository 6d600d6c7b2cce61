package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"camsync/internal/domain"
	apperrors "camsync/internal/errors"
	"camsync/internal/logging"
	"camsync/internal/preflight"
)

func newSessionsCommand(ctx *commandContext) *cobra.Command {
	var board string
	var remote bool

	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List sessions per board, locally or on the boards",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := ctx.startRun(preflight.OpSessions)
			if err != nil {
				return err
			}
			defer env.close()

			boards, err := env.boards(board)
			if err != nil {
				return err
			}
			if err := preflight.Err(preflight.CheckBinaries(preflight.RequirementsFor(preflight.OpSessions, false, remote))); err != nil {
				return err
			}

			catalog := env.catalog()
			succeeded := 0
			for _, b := range boards {
				var summaries []domain.SessionSummary
				if remote {
					summaries, err = catalog.Remote(cmd.Context(), b)
				} else {
					summaries, err = catalog.Local(cmd.Context(), b)
				}
				if err != nil {
					logging.ForBoard(env.log.Logger, b.Hostname).Error("cannot list sessions", logging.Error(err))
					fmt.Fprintf(ctx.out, "%s: %s\n", b, apperrors.UserMessage(err))
					continue
				}
				succeeded++
				env.printer.PrintSessions(b, summaries, remote)
			}
			return env.finish(domain.OutcomeFor(succeeded, len(boards)))
		},
	}

	cmd.Flags().StringVar(&board, "board", "", "Only list this board hostname")
	cmd.Flags().BoolVar(&remote, "remote", false, "List the sessions on the boards instead of the local tree")
	return cmd
}
