package main

import (
	"os"

	"github.com/spf13/cobra"

	"emerald/repl"
)

func newReplCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Read and parse statements interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if in := cmd.InOrStdin(); in != os.Stdin {
				return repl.Start(in, cmd.OutOrStdout())
			}
			return repl.StartTerminal(cmd.OutOrStdout())
		},
	}
}
