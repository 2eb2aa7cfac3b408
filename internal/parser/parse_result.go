package parser

import "emerald/internal/ast"

// ParseResult holds a parsed tree together with the comments the grammar
// skipped. Tools that render source, such as the language server, need
// both.
type ParseResult struct {
	Mod      ast.Mod
	Comments []Spanned
	Err      error
}

// ParseWithComments parses source like Parse and records every comment
// token read before the parse finished.
func ParseWithComments(source string, mode Mode, sourcePath string) *ParseResult {
	result := &ParseResult{}
	tokens := func(yield func(Spanned, error) bool) {
		for tok, err := range Tokenize(source) {
			if err == nil && tok.Tok.Type == COMMENT {
				result.Comments = append(result.Comments, tok)
			}
			if !yield(tok, err) {
				return
			}
		}
	}
	result.Mod, result.Err = ParseTokens(tokens, mode, sourcePath)
	return result
}

// Failed reports whether the parse returned an error.
func (pr *ParseResult) Failed() bool {
	return pr.Err != nil
}

// ParseError returns the parse failure, or nil on success.
func (pr *ParseResult) ParseError() *ParseError {
	if pr.Err == nil {
		return nil
	}
	if perr, ok := pr.Err.(*ParseError); ok {
		return perr
	}
	return nil
}
