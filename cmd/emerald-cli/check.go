package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"emerald/internal/errors"
	"emerald/internal/parser"
)

func newCheckCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check FILE...",
		Short: "Report syntax errors and indentation warnings",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			green := color.New(color.FgGreen).SprintfFunc()
			red := color.New(color.FgRed).SprintfFunc()

			failed := 0
			for _, path := range args {
				startTime := time.Now()
				ok, err := checkFile(cmd, opts, path)
				if err != nil {
					return err
				}
				duration := formatDuration(time.Since(startTime))
				if ok {
					fmt.Fprintln(out, green("Successfully checked %s in %s", path, duration))
				} else {
					failed++
					fmt.Fprintln(out, red("Check of %s failed after %s", path, duration))
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d files failed: %w", failed, len(args), errSyntax)
			}
			return nil
		},
	}
}

// checkFile prints the diagnostics of one file and reports whether it has
// no errors. Warnings alone do not fail a file.
func checkFile(cmd *cobra.Command, opts *options, path string) (bool, error) {
	source, err := readSource(path)
	if err != nil {
		return false, err
	}

	diagnostics := errors.TabIndentation(source)
	if _, err := parser.Parse(source, opts.cfg.Mode(), path); err != nil {
		log.Debugf("parse of %s failed: %s", path, err)
		diagnostics = append(diagnostics, errors.FromError(err, source))
	}

	report, failed := errors.NewReporter(path, source).FormatAll(diagnostics)
	fmt.Fprint(cmd.OutOrStdout(), report)
	return !failed, nil
}
