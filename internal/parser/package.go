package parser

import (
	"fmt"
	"iter"
	"strings"

	"emerald/internal/ast"
)

// Mode selects the grammar entry point.
type Mode int

const (
	ModeModule Mode = iota
	ModeInteractive
	ModeExpression
)

func (m Mode) marker() TokenType {
	switch m {
	case ModeInteractive:
		return START_INTERACTIVE
	case ModeExpression:
		return START_EXPRESSION
	}
	return START_MODULE
}

func (m Mode) String() string {
	switch m {
	case ModeInteractive:
		return "interactive"
	case ModeExpression:
		return "expression"
	}
	return "module"
}

// ParseMode reads a mode name as written in configuration and flags.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "", "module", "exec":
		return ModeModule, nil
	case "interactive", "single":
		return ModeInteractive, nil
	case "expression", "eval":
		return ModeExpression, nil
	}
	return ModeModule, fmt.Errorf("unknown parse mode %q", s)
}

// Parse parses source in the given mode. sourcePath only appears in error
// messages. The returned error is a *ParseError.
func Parse(source string, mode Mode, sourcePath string) (ast.Mod, error) {
	return ParseTokens(Tokenize(source), mode, sourcePath)
}

// ParseTokens parses an existing token stream. Comment tokens are skipped.
func ParseTokens(tokens iter.Seq2[Spanned, error], mode Mode, sourcePath string) (ast.Mod, error) {
	return parseWithDepth(tokens, mode, sourcePath, 0)
}

// ParseProgram parses a whole module and returns its statements.
func ParseProgram(source, sourcePath string) (ast.Suite, error) {
	mod, err := Parse(source, ModeModule, sourcePath)
	if err != nil {
		return nil, err
	}
	return mod.(*ast.Module).Body, nil
}

// ParseExpression parses a single expression.
func ParseExpression(source, sourcePath string) (*ast.Expr, error) {
	return ParseExpressionAt(source, sourcePath, ast.NewLocation(1, 0))
}

// ParseExpressionAt parses a single expression whose first character sits
// at location.
func ParseExpressionAt(source, sourcePath string, location ast.Location) (*ast.Expr, error) {
	mod, err := parseWithDepth(NewLexer(source, location).All(), ModeExpression, sourcePath, 0)
	if err != nil {
		return nil, err
	}
	return mod.(*ast.Expression).Body, nil
}

func withMarker(tokens iter.Seq2[Spanned, error], mode Mode) iter.Seq2[Spanned, error] {
	return func(yield func(Spanned, error) bool) {
		if !yield(Spanned{Tok: NewTok(mode.marker())}, nil) {
			return
		}
		for tok, err := range tokens {
			if !yield(tok, err) {
				return
			}
		}
	}
}

// parseWithDepth runs one parse. depth counts the formatted-string
// expressions enclosing this parse.
func parseWithDepth(tokens iter.Seq2[Spanned, error], mode Mode, sourcePath string, depth int) (mod ast.Mod, err error) {
	p, stop := newParser(withMarker(tokens, mode), sourcePath, depth)
	defer stop()
	defer func() {
		if r := recover(); r != nil {
			engineErr, ok := r.(*engineError)
			if !ok {
				panic(r)
			}
			mod, err = nil, parseErrorFromEngine(engineErr, sourcePath)
		}
	}()
	return p.parseTop(), nil
}
