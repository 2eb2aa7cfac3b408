package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"emerald/internal/ast"
	"emerald/internal/errors"
	"emerald/internal/parser"
)

var errSyntax = fmt.Errorf("syntax errors found")

func newParseCmd(opts *options) *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "parse FILE",
		Short: "Print the syntax tree of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m := opts.cfg.Mode()
			if mode != "" {
				var err error
				if m, err = parser.ParseMode(mode); err != nil {
					return err
				}
			}

			path := args[0]
			source, err := readSource(path)
			if err != nil {
				return err
			}

			mod, err := parser.Parse(source, m, path)
			if err != nil {
				log.Errorf("parse of %s failed: %s", path, err)
				reporter := errors.NewReporter(path, source)
				fmt.Fprint(cmd.ErrOrStderr(), reporter.Format(errors.FromError(err, source)))
				return errSyntax
			}

			fmt.Fprintln(cmd.OutOrStdout(), ast.Dump(mod))
			return nil
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "", "parse mode: module, interactive or expression")
	return cmd
}
