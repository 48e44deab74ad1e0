package main

import (
	"github.com/spf13/cobra"

	"github.com/ib-77/mwutil/internal/stages"
)

type rootFlags struct {
	verbose bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	registry := stages.Default()

	cmd := &cobra.Command{
		Use:           "mwrun",
		Short:         "mwrun feeds files through a configured middleware pipeline",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(newRunCmd(flags, registry))
	cmd.AddCommand(newStagesCmd(registry))

	return cmd
}
