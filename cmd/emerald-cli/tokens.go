package main

import (
	stderrors "errors"
	"fmt"

	"github.com/spf13/cobra"

	"emerald/internal/errors"
	"emerald/internal/parser"
)

func newTokensCmd(opts *options) *cobra.Command {
	var comments bool

	cmd := &cobra.Command{
		Use:   "tokens FILE",
		Short: "Print the token stream of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			source, err := readSource(path)
			if err != nil {
				return err
			}

			keep := comments || opts.cfg.Parser.KeepComments
			out := cmd.OutOrStdout()
			for tok, err := range parser.Tokenize(source) {
				if err != nil {
					log.Errorf("tokenizing %s failed: %s", path, err)
					reporter := errors.NewReporter(path, source)
					fmt.Fprint(cmd.ErrOrStderr(), reporter.Format(errors.FromError(liftLexical(err, path), source)))
					return errSyntax
				}
				if tok.Tok.Type == parser.COMMENT && !keep {
					continue
				}
				fmt.Fprintf(out, "%s-%s\t%s\n", tok.Start, tok.End, tok.Tok.Debug())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&comments, "comments", false, "include comment tokens")
	return cmd
}

// liftLexical turns a tokenizer failure into the *parser.ParseError the
// diagnostics understand.
func liftLexical(err error, path string) error {
	var lerr *parser.LexicalError
	if !stderrors.As(err, &lerr) {
		return err
	}
	base := &parser.BaseError[parser.LexicalErrorType]{Type: lerr.Type, Location: lerr.Location, SourcePath: path}
	return parser.LiftError(base, parser.ParseErrorTypeFromLexical)
}
