package main

import (
	"github.com/spf13/cobra"

	"camsync/internal/domain"
)

type modeFlags struct {
	execute bool
	dryRun  bool
}

func (m *modeFlags) register(cmd *cobra.Command, def domain.ExecutionMode) {
	if def == domain.Execute {
		cmd.Flags().BoolVar(&m.execute, "execute", false, "Perform the operation (default)")
		cmd.Flags().BoolVar(&m.dryRun, "dry-run", false, "Only report what would happen")
	} else {
		cmd.Flags().BoolVar(&m.execute, "execute", false, "Perform the operation")
		cmd.Flags().BoolVar(&m.dryRun, "dry-run", false, "Only report what would happen (default)")
	}
	cmd.MarkFlagsMutuallyExclusive("execute", "dry-run")
}

func (m *modeFlags) resolve(def domain.ExecutionMode) domain.ExecutionMode {
	switch {
	case m.execute:
		return domain.Execute
	case m.dryRun:
		return domain.DryRun
	default:
		return def
	}
}
