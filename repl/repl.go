// Package repl reads statements interactively, parses them in Interactive
// mode and prints the resulting tree or the syntax error.
package repl

import (
	"bufio"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/tliron/commonlog"

	"emerald/internal/ast"
	"emerald/internal/errors"
	"emerald/internal/parser"
)

const (
	PROMPT       = ">>> "
	CONTINUATION = "... "
	SourceName   = "<stdin>"
	historyFile  = ".emerald_history"
)

var log = commonlog.GetLogger("emerald.repl")

// LineReader prompts for and returns one line without its terminator. It
// returns io.EOF once input is exhausted and liner.ErrPromptAborted when
// the user cancels the current input.
type LineReader interface {
	Prompt(prompt string) (string, error)
}

type scannerReader struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func (r *scannerReader) Prompt(prompt string) (string, error) {
	fmt.Fprint(r.out, prompt)
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return r.scanner.Text(), nil
}

// Start runs the loop over a plain reader until it is exhausted.
func Start(in io.Reader, out io.Writer) error {
	return Run(&scannerReader{scanner: bufio.NewScanner(in), out: out}, out, nil)
}

// StartTerminal runs the loop with line editing and a history file in the
// home directory. Without a supported terminal it falls back to Start on
// standard input.
func StartTerminal(out io.Writer) error {
	if !liner.TerminalSupported() {
		return Start(os.Stdin, out)
	}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := ""
	if home, err := os.UserHomeDir(); err == nil {
		histPath = filepath.Join(home, historyFile)
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
	}

	err := Run(ln, out, ln.AppendHistory)

	if histPath != "" {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		} else {
			log.Warningf("cannot save history: %s", err)
		}
	}
	return err
}

// Run reads inputs from r and evaluates each one. A first line that opens a
// block, bracket or triple-quoted string keeps reading until a blank line.
// Complete inputs are passed to remember when it is not nil. The line
// ":quit" ends the loop.
func Run(r LineReader, out io.Writer, remember func(string)) error {
	var lines []string

	for {
		prompt := PROMPT
		if len(lines) > 0 {
			prompt = CONTINUATION
		}

		line, err := r.Prompt(prompt)
		switch {
		case stderrors.Is(err, liner.ErrPromptAborted):
			lines = nil
			fmt.Fprintln(out)
			continue
		case stderrors.Is(err, io.EOF):
			if len(lines) > 0 {
				fmt.Fprintln(out)
				Eval(out, join(lines))
			}
			fmt.Fprintln(out)
			return nil
		case err != nil:
			return err
		}

		if len(lines) == 0 {
			switch strings.TrimSpace(line) {
			case "":
				continue
			case ":quit":
				return nil
			}
		}
		lines = append(lines, line)

		source := join(lines)
		if strings.TrimSpace(line) != "" {
			// blocks are only closed by a blank line
			if len(lines) > 1 {
				continue
			}
			if _, err := parser.Parse(source, parser.ModeInteractive, SourceName); Incomplete(err) {
				continue
			}
		}

		Eval(out, source)
		if remember != nil {
			remember(strings.TrimRight(source, "\n"))
		}
		lines = nil
	}
}

// Eval parses one complete input and writes its dump or diagnostic.
func Eval(out io.Writer, source string) {
	mod, err := parser.Parse(source, parser.ModeInteractive, SourceName)
	if err != nil {
		log.Debugf("parse failed: %s", err)
		reporter := errors.NewReporter(SourceName, source)
		fmt.Fprint(out, reporter.Format(errors.FromError(err, source)))
		return
	}

	log.Debug("parsed input")
	fmt.Fprintln(out, ast.Dump(mod))
}

// Incomplete reports whether err only says that more input is needed: an
// open block, bracket or triple-quoted string.
func Incomplete(err error) bool {
	var perr *parser.ParseError
	if !stderrors.As(err, &perr) {
		return false
	}
	switch perr.Type.Kind {
	case parser.ParseEOF:
		return true
	case parser.ParseLexical:
		return perr.Type.Lexical.Kind == parser.LexEOF
	}
	return false
}

func join(lines []string) string {
	return strings.Join(lines, "\n") + "\n"
}
