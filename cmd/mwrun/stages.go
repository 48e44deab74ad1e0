package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ib-77/mwutil/internal/stages"
)

func newStagesCmd(registry *stages.Registry) *cobra.Command {
	return &cobra.Command{
		Use:   "stages",
		Short: "List the stages a pipeline can use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range registry.Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}
