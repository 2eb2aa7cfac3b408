package parser

import (
	"iter"

	"emerald/internal/ast"
)

// maxNesting bounds how deep formatted-string expressions may re-enter the
// parser.
const maxNesting = 32

// Parser is a recursive-descent parser over a lazily pulled token stream.
// It keeps one token of lookahead. Failures panic with an *engineError that
// the entry point recovers and translates.
type Parser struct {
	next    func() (Spanned, error, bool)
	tok     Spanned
	prev    Spanned
	started bool
	path    string
	depth   int
}

func newParser(tokens iter.Seq2[Spanned, error], path string, depth int) (*Parser, func()) {
	next, stop := iter.Pull2(tokens)
	return &Parser{next: next, path: path, depth: depth}, stop
}

// pull reads the next non-comment token into the lookahead. An exhausted
// stream reads as EndOfFile at the end of the previous token.
func (p *Parser) pull() {
	for {
		tok, err, ok := p.next()
		if !ok {
			p.tok = Spanned{Start: p.prev.End, Tok: NewTok(END_OF_FILE), End: p.prev.End}
			return
		}
		if err != nil {
			p.failLexical(asLexical(err, p.prev.End))
		}
		switch tok.Tok.Type {
		case COMMENT:
			continue
		case START_MODULE, START_INTERACTIVE, START_EXPRESSION:
			if p.started {
				panic(&engineError{kind: engineInvalidToken, location: tok.Start})
			}
		}
		p.started = true
		p.tok = tok
		return
	}
}

func (p *Parser) advance() Spanned {
	p.prev = p.tok
	if p.tok.Tok.Type != END_OF_FILE {
		p.pull()
	}
	return p.prev
}

func (p *Parser) peek() Spanned {
	return p.tok
}

func (p *Parser) previous() Spanned {
	return p.prev
}

func (p *Parser) check(tt TokenType) bool {
	return p.tok.Tok.Type == tt
}

func (p *Parser) checkAny(types ...TokenType) bool {
	for _, tt := range types {
		if p.check(tt) {
			return true
		}
	}
	return false
}

func (p *Parser) match(types ...TokenType) bool {
	if p.checkAny(types...) {
		p.advance()
		return true
	}
	return false
}

// consume takes a token of type tt or fails naming it as the only
// acceptable alternative.
func (p *Parser) consume(tt TokenType) Spanned {
	if p.check(tt) {
		return p.advance()
	}
	p.unexpected(tt)
	return Spanned{}
}

func (p *Parser) isAtEnd() bool {
	return p.check(END_OF_FILE)
}

// unexpected aborts the parse at the lookahead token.
func (p *Parser) unexpected(expected ...TokenType) {
	names := make([]string, len(expected))
	for i, tt := range expected {
		names[i] = tt.String()
	}
	if p.isAtEnd() {
		panic(&engineError{kind: engineUnrecognizedEOF, location: p.tok.Start, expected: names})
	}
	panic(&engineError{kind: engineUnrecognizedToken, token: p.tok, expected: names})
}

// fail aborts the parse with a grammar-action error.
func (p *Parser) fail(kind LexicalErrorKind, location ast.Location) {
	panic(&engineError{kind: engineUser, user: &LexicalError{Type: LexicalErrorType{Kind: kind}, Location: location}})
}

func (p *Parser) failMsg(msg string, location ast.Location) {
	panic(&engineError{kind: engineUser, user: &LexicalError{Type: LexicalErrorType{Kind: LexOtherError, Msg: msg}, Location: location}})
}

func (p *Parser) failLexical(err *LexicalError) {
	panic(&engineError{kind: engineUser, user: err})
}

func (p *Parser) expr(start ast.Location, node ast.ExprKind) *ast.Expr {
	return ast.NewExpr(start, p.prev.End, node)
}

func (p *Parser) stmt(start ast.Location, node ast.StmtKind) *ast.Stmt {
	return ast.NewStmt(start, p.prev.End, node)
}

func exprEnd(e *ast.Expr) ast.Location {
	if end, ok := e.End(); ok {
		return end
	}
	return e.Location
}

func suiteEnd(body ast.Suite) ast.Location {
	last := body[len(body)-1]
	if end, ok := last.End(); ok {
		return end
	}
	return last.Location
}

// parseTop dispatches on the mode marker.
func (p *Parser) parseTop() ast.Mod {
	p.pull()
	switch {
	case p.match(START_MODULE):
		return &ast.Module{Body: p.parseFileInput()}
	case p.match(START_INTERACTIVE):
		return &ast.Interactive{Body: p.parseFileInput()}
	case p.match(START_EXPRESSION):
		body := p.parseTestList()
		for p.match(NEWLINE) {
		}
		p.expectEnd()
		return &ast.Expression{Body: body}
	}
	p.unexpected(START_MODULE, START_INTERACTIVE, START_EXPRESSION)
	return nil
}

func (p *Parser) parseFileInput() ast.Suite {
	body := ast.Suite{}
	for !p.isAtEnd() {
		if p.match(NEWLINE) {
			continue
		}
		body = append(body, p.parseStatement()...)
	}
	p.expectEnd()
	return body
}

// expectEnd consumes EndOfFile and rejects anything that follows it.
func (p *Parser) expectEnd() {
	if !p.isAtEnd() {
		p.unexpected(END_OF_FILE)
	}
	tok, err, ok := p.next()
	if !ok {
		return
	}
	if err != nil {
		p.failLexical(asLexical(err, p.tok.End))
	}
	panic(&engineError{kind: engineExtraToken, token: tok})
}

// asLexical keeps a *LexicalError as is and wraps any other stream failure
// at location.
func asLexical(err error, location ast.Location) *LexicalError {
	if lexErr, ok := err.(*LexicalError); ok {
		return lexErr
	}
	return &LexicalError{Type: LexicalErrorType{Kind: LexOtherError, Msg: err.Error()}, Location: location}
}
