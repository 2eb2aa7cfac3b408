package parser

import (
	"errors"
	"io"
	"iter"
	"strings"
	"unicode"

	"emerald/grammar"
	"emerald/internal/ast"
)

// indentationLevel counts the tabs and spaces of a line's leading
// whitespace.
type indentationLevel struct {
	tabs   int
	spaces int
}

// compareStrict orders two levels. A level is only known to be smaller or
// larger when tabs and spaces move in the same direction; anything else
// depends on the tab width and is rejected.
func (l indentationLevel) compareStrict(other indentationLevel, location ast.Location) (int, error) {
	switch {
	case l.tabs < other.tabs:
		if l.spaces <= other.spaces {
			return -1, nil
		}
	case l.tabs > other.tabs:
		if l.spaces >= other.spaces {
			return 1, nil
		}
	default:
		switch {
		case l.spaces < other.spaces:
			return -1, nil
		case l.spaces > other.spaces:
			return 1, nil
		}
		return 0, nil
	}
	return 0, &LexicalError{Type: LexicalErrorType{Kind: LexTabError}, Location: location}
}

// Lexer turns source text into a stream of spanned tokens. Tokens are
// produced on demand; the stream ends after EndOfFile or the first error.
type Lexer struct {
	chars         []rune
	current       int
	location      ast.Location
	atBeginOfLine bool
	nesting       int
	indentations  []indentationLevel
	pending       []Spanned
	done          bool
}

// NewLexer returns a lexer over source whose first character sits at
// start. Line endings are normalized to '\n'.
func NewLexer(source string, start ast.Location) *Lexer {
	source = strings.ReplaceAll(source, "\r\n", "\n")
	source = strings.ReplaceAll(source, "\r", "\n")
	return &Lexer{
		chars:         []rune(source),
		location:      start,
		atBeginOfLine: true,
		indentations:  []indentationLevel{{}},
	}
}

// Tokenize lexes source starting at row 1, column 0.
func Tokenize(source string) iter.Seq2[Spanned, error] {
	return NewLexer(source, ast.NewLocation(1, 0)).All()
}

// All yields every remaining token. The sequence stops after EndOfFile or
// after yielding the first error.
func (l *Lexer) All() iter.Seq2[Spanned, error] {
	return func(yield func(Spanned, error) bool) {
		for {
			tok, err := l.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if !yield(tok, err) || err != nil {
				return
			}
		}
	}
}

// Next returns the next token. Once EndOfFile or an error has been
// returned every further call returns io.EOF.
func (l *Lexer) Next() (Spanned, error) {
	for len(l.pending) == 0 {
		if l.done {
			return Spanned{}, io.EOF
		}
		if err := l.step(); err != nil {
			l.done = true
			l.pending = nil
			return Spanned{}, err
		}
	}

	tok := l.pending[0]
	l.pending = l.pending[1:]
	if tok.Tok.Type == END_OF_FILE {
		l.done = true
	}
	return tok, nil
}

func (l *Lexer) step() error {
	if l.atBeginOfLine {
		if err := l.handleIndentations(); err != nil {
			return err
		}
	}
	return l.consumeNormal()
}

func (l *Lexer) handleIndentations() error {
	level, err := l.eatIndentation()
	if err != nil {
		return err
	}
	if l.nesting != 0 {
		return nil
	}

	pos := l.location
	top := l.indentations[len(l.indentations)-1]
	ordering, err := level.compareStrict(top, pos)
	if err != nil {
		return err
	}

	switch {
	case ordering > 0:
		l.indentations = append(l.indentations, level)
		l.emit(INDENT, pos, pos)
	case ordering < 0:
		for {
			top := l.indentations[len(l.indentations)-1]
			ordering, err := level.compareStrict(top, pos)
			if err != nil {
				return err
			}
			if ordering == 0 {
				break
			}
			if ordering > 0 {
				return &LexicalError{Type: LexicalErrorType{Kind: LexIndentationError}, Location: pos}
			}
			l.indentations = l.indentations[:len(l.indentations)-1]
			l.emit(DEDENT, pos, pos)
		}
	}
	return nil
}

// eatIndentation consumes leading whitespace. Blank lines, comment-only
// lines and form feeds reset the count.
func (l *Lexer) eatIndentation() (indentationLevel, error) {
	var level indentationLevel
	for {
		if l.isAtEnd() {
			return indentationLevel{}, nil
		}
		switch l.peek() {
		case ' ':
			l.advance()
			level.spaces++
		case '\t':
			if level.spaces != 0 {
				return level, &LexicalError{Type: LexicalErrorType{Kind: LexTabsAfterSpaces}, Location: l.location}
			}
			l.advance()
			level.tabs++
		case '#':
			l.scanComment()
			level = indentationLevel{}
		case '\f', '\n':
			l.advance()
			level = indentationLevel{}
		default:
			l.atBeginOfLine = false
			return level, nil
		}
	}
}

func (l *Lexer) consumeNormal() error {
	if l.isAtEnd() {
		return l.consumeEnd()
	}

	c := l.peek()
	if isIdentifierStart(c) {
		return l.scanIdentifierOrString()
	}
	return l.scanCharacter(c)
}

func (l *Lexer) consumeEnd() error {
	pos := l.location
	if l.nesting > 0 {
		return &LexicalError{Type: LexicalErrorType{Kind: LexEOF}, Location: pos}
	}
	if !l.atBeginOfLine {
		l.atBeginOfLine = true
		l.emit(NEWLINE, pos, pos)
	}
	for len(l.indentations) > 1 {
		l.indentations = l.indentations[:len(l.indentations)-1]
		l.emit(DEDENT, pos, pos)
	}
	l.emit(END_OF_FILE, pos, pos)
	return nil
}

func (l *Lexer) scanCharacter(c rune) error {
	start := l.location

	switch {
	case isDigit(c) || (c == '.' && isDigit(l.peekAt(1))):
		return l.scanNumber()
	case c == '#':
		l.scanComment()
		return nil
	case c == '"' || c == '\'':
		return l.scanString(start, stringFlags{}, "")
	}

	l.advance()
	switch c {
	case '\n':
		if l.nesting == 0 {
			l.atBeginOfLine = true
			l.emit(NEWLINE, start, l.location)
		}
		return nil
	case ' ', '\t', '\f':
		return nil
	case '\\':
		if l.isAtEnd() {
			return &LexicalError{Type: LexicalErrorType{Kind: LexEOF}, Location: l.location}
		}
		if l.peek() != '\n' {
			return &LexicalError{Type: LexicalErrorType{Kind: LexLineContinuationError}, Location: l.location}
		}
		l.advance()
		return nil
	case '(', '[', '{':
		l.nesting++
		l.addToken(map[rune]TokenType{'(': LPAR, '[': LSQB, '{': LBRACE}[c], start)
		return nil
	case ')', ']', '}':
		if l.nesting == 0 {
			return &LexicalError{Type: LexicalErrorType{Kind: LexNestingError}, Location: start}
		}
		l.nesting--
		l.addToken(map[rune]TokenType{')': RPAR, ']': RSQB, '}': RBRACE}[c], start)
		return nil
	case ',':
		l.addToken(COMMA, start)
	case ';':
		l.addToken(SEMI, start)
	case '~':
		l.addToken(TILDE, start)
	case '.':
		if l.peek() == '.' && l.peekAt(1) == '.' {
			l.advance()
			l.advance()
			l.addToken(ELLIPSIS, start)
		} else {
			l.addToken(DOT, start)
		}
	case ':':
		l.addOperator(start, COLON, '=', COLON_EQUAL)
	case '+':
		l.addOperator(start, PLUS, '=', PLUS_EQUAL)
	case '%':
		l.addOperator(start, PERCENT, '=', PERCENT_EQUAL)
	case '@':
		l.addOperator(start, AT, '=', AT_EQUAL)
	case '|':
		l.addOperator(start, VBAR, '=', VBAR_EQUAL)
	case '&':
		l.addOperator(start, AMPER, '=', AMPER_EQUAL)
	case '^':
		l.addOperator(start, CIRCUMFLEX, '=', CIRCUMFLEX_EQUAL)
	case '=':
		l.addOperator(start, EQUAL, '=', EQ_EQUAL)
	case '-':
		if l.matchNext('>') {
			l.addToken(RARROW, start)
		} else {
			l.addOperator(start, MINUS, '=', MINUS_EQUAL)
		}
	case '!':
		if !l.matchNext('=') {
			return &LexicalError{Type: LexicalErrorType{Kind: LexUnrecognizedToken, Tok: '!'}, Location: start}
		}
		l.addToken(NOT_EQUAL, start)
	case '*':
		if l.matchNext('*') {
			l.addOperator(start, DOUBLE_STAR, '=', DOUBLE_STAR_EQUAL)
		} else {
			l.addOperator(start, STAR, '=', STAR_EQUAL)
		}
	case '/':
		if l.matchNext('/') {
			l.addOperator(start, DOUBLE_SLASH, '=', DOUBLE_SLASH_EQUAL)
		} else {
			l.addOperator(start, SLASH, '=', SLASH_EQUAL)
		}
	case '<':
		switch {
		case l.matchNext('<'):
			l.addOperator(start, LEFT_SHIFT, '=', LEFT_SHIFT_EQUAL)
		case l.matchNext('='):
			l.addToken(LESS_EQUAL, start)
		default:
			l.addToken(LESS, start)
		}
	case '>':
		switch {
		case l.matchNext('>'):
			l.addOperator(start, RIGHT_SHIFT, '=', RIGHT_SHIFT_EQUAL)
		case l.matchNext('='):
			l.addToken(GREATER_EQUAL, start)
		default:
			l.addToken(GREATER, start)
		}
	default:
		return &LexicalError{Type: LexicalErrorType{Kind: LexUnrecognizedToken, Tok: c}, Location: start}
	}
	return nil
}

// addOperator emits compound when the next character is next, plain
// otherwise.
func (l *Lexer) addOperator(start ast.Location, plain TokenType, next rune, compound TokenType) {
	if l.matchNext(next) {
		l.addToken(compound, start)
		return
	}
	l.addToken(plain, start)
}

func (l *Lexer) scanComment() {
	start := l.location
	var b strings.Builder
	for !l.isAtEnd() && l.peek() != '\n' {
		b.WriteRune(l.advance())
	}
	l.pending = append(l.pending, Spanned{
		Start: start,
		Tok:   Tok{Type: COMMENT, Value: b.String()},
		End:   l.location,
	})
}

func (l *Lexer) scanIdentifierOrString() error {
	start := l.location

	for n := 2; n >= 1; n-- {
		if q := l.peekAt(n); q != '"' && q != '\'' {
			continue
		}
		prefix := string(l.chars[l.current : l.current+n])
		flags, ok := stringPrefixes[strings.ToLower(prefix)]
		if !ok {
			continue
		}
		for range n {
			l.advance()
		}
		return l.scanString(start, flags, prefix)
	}

	var b strings.Builder
	for !l.isAtEnd() && isIdentifierContinue(l.peek()) {
		b.WriteRune(l.advance())
	}
	name := b.String()
	tt := lookupIdentifier(name)
	tok := Tok{Type: tt}
	if tt == NAME {
		tok.Value = name
	}
	l.pending = append(l.pending, Spanned{Start: start, Tok: tok, End: l.location})
	return nil
}

func (l *Lexer) scanNumber() error {
	start := l.location
	from := l.current

	if l.peek() == '0' && strings.ContainsRune("xXoObB", l.peekAt(1)) {
		l.advance()
		l.advance()
		for !l.isAtEnd() && (isAlphanumeric(l.peek()) || l.peek() == '_') {
			l.advance()
		}
	} else {
		l.eatDigits()
		if l.peek() == '.' {
			l.advance()
			l.eatDigits()
		}
		if e := l.peek(); e == 'e' || e == 'E' {
			sign := l.peekAt(1)
			if isDigit(sign) || ((sign == '+' || sign == '-') && isDigit(l.peekAt(2))) {
				l.advance()
				if !isDigit(l.peek()) {
					l.advance()
				}
				l.eatDigits()
			}
		}
		if j := l.peek(); j == 'j' || j == 'J' {
			l.advance()
		}
	}

	text := string(l.chars[from:l.current])
	value, err := grammar.ParseNumber(text)
	if err != nil {
		return &LexicalError{Type: LexicalErrorType{Kind: LexOtherError, Msg: err.Error()}, Location: start}
	}

	tt := INT
	switch value.(type) {
	case ast.ConstFloat:
		tt = FLOAT
	case ast.ConstComplex:
		tt = COMPLEX
	}
	l.pending = append(l.pending, Spanned{
		Start: start,
		Tok:   Tok{Type: tt, Number: value},
		End:   l.location,
	})
	return nil
}

func (l *Lexer) eatDigits() {
	for !l.isAtEnd() && (isDigit(l.peek()) || l.peek() == '_') {
		l.advance()
	}
}

func (l *Lexer) advance() rune {
	c := l.chars[l.current]
	l.current++
	if c == '\n' {
		l.location = ast.NewLocation(l.location.Row+1, 0)
	} else {
		l.location = l.location.WithColOffset(1)
	}
	return c
}

func (l *Lexer) matchNext(expected rune) bool {
	if l.isAtEnd() || l.chars[l.current] != expected {
		return false
	}
	l.advance()
	return true
}

func (l *Lexer) peek() rune {
	return l.peekAt(0)
}

func (l *Lexer) peekAt(n int) rune {
	if l.current+n >= len(l.chars) {
		return 0
	}
	return l.chars[l.current+n]
}

func (l *Lexer) isAtEnd() bool {
	return l.current >= len(l.chars)
}

func (l *Lexer) addToken(tt TokenType, start ast.Location) {
	l.pending = append(l.pending, Spanned{Start: start, Tok: Tok{Type: tt}, End: l.location})
}

func (l *Lexer) emit(tt TokenType, start, end ast.Location) {
	l.pending = append(l.pending, Spanned{Start: start, Tok: Tok{Type: tt}, End: end})
}

func isDigit(c rune) bool {
	return '0' <= c && c <= '9'
}

func isAlphanumeric(c rune) bool {
	return isDigit(c) || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isIdentifierStart(c rune) bool {
	return c == '_' || unicode.In(c, unicode.L, unicode.Nl, unicode.Other_ID_Start)
}

func isIdentifierContinue(c rune) bool {
	return isIdentifierStart(c) || unicode.In(c, unicode.Mn, unicode.Mc, unicode.Nd, unicode.Pc, unicode.Other_ID_Continue)
}
