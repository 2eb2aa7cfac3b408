package parser

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"emerald/internal/ast"
)

func scanAll(t *testing.T, source string) []Spanned {
	t.Helper()
	var toks []Spanned
	for tok, err := range Tokenize(source) {
		require.NoError(t, err)
		toks = append(toks, tok)
	}
	return toks
}

func tokenTypes(toks []Spanned) []TokenType {
	types := make([]TokenType, len(toks))
	for i, tok := range toks {
		types[i] = tok.Tok.Type
	}
	return types
}

func scanError(t *testing.T, source string) *LexicalError {
	t.Helper()
	for _, err := range Tokenize(source) {
		if err != nil {
			var lexErr *LexicalError
			require.True(t, errors.As(err, &lexErr), "expected a lexical error, got %v", err)
			return lexErr
		}
	}
	t.Fatalf("expected %q to fail", source)
	return nil
}

func TestKeywordsAndIdentifiers(t *testing.T) {
	toks := scanAll(t, "def do extends async await customIdent True None")
	assert.Equal(t, []TokenType{
		DEF, DO, EXTENDS, ASYNC, AWAIT, NAME, TRUE, NONE, NEWLINE, END_OF_FILE,
	}, tokenTypes(toks))
	assert.Equal(t, "customIdent", toks[5].Tok.Value)
}

func TestUnicodeIdentifiers(t *testing.T) {
	toks := scanAll(t, "größe = ñ")
	require.Equal(t, NAME, toks[0].Tok.Type)
	assert.Equal(t, "größe", toks[0].Tok.Value)
	assert.Equal(t, ast.NewLocation(1, 5), toks[0].End)
}

func TestNumbers(t *testing.T) {
	toks := scanAll(t, "42 0x1F 0o17 0b101 1_000 1.5 .5 1e3 2j 123456789012345678901234567890")
	assert.Equal(t, []TokenType{
		INT, INT, INT, INT, INT, FLOAT, FLOAT, FLOAT, COMPLEX, INT, NEWLINE, END_OF_FILE,
	}, tokenTypes(toks))

	values := []string{"42", "31", "15", "5", "1000", "1.5", "0.5", "1000.0"}
	for i, want := range values {
		assert.Equal(t, want, toks[i].Tok.Number.String(), "token %d", i)
	}
	assert.Equal(t, ast.ConstComplex{Imag: 2}, toks[8].Tok.Number)
	assert.Equal(t, "123456789012345678901234567890", toks[9].Tok.Number.String())
}

func TestInvalidNumbers(t *testing.T) {
	for _, source := range []string{"0x", "1__0", "0123"} {
		t.Run(source, func(t *testing.T) {
			err := scanError(t, source)
			assert.Equal(t, LexOtherError, err.Type.Kind)
			assert.Contains(t, err.Type.Msg, "literal")
		})
	}
}

func TestOperatorsAndBrackets(t *testing.T) {
	toks := scanAll(t, "()[]{} : , ; . ... -> := + - * / // % ** @ | & ^ ~ << >> < > = == != <= >=")
	assert.Equal(t, []TokenType{
		LPAR, RPAR, LSQB, RSQB, LBRACE, RBRACE, COLON, COMMA, SEMI, DOT, ELLIPSIS,
		RARROW, COLON_EQUAL, PLUS, MINUS, STAR, SLASH, DOUBLE_SLASH, PERCENT,
		DOUBLE_STAR, AT, VBAR, AMPER, CIRCUMFLEX, TILDE, LEFT_SHIFT, RIGHT_SHIFT,
		LESS, GREATER, EQUAL, EQ_EQUAL, NOT_EQUAL, LESS_EQUAL, GREATER_EQUAL,
		NEWLINE, END_OF_FILE,
	}, tokenTypes(toks))
}

func TestAugmentedAssignmentOperators(t *testing.T) {
	toks := scanAll(t, "+= -= *= /= //= %= **= @= |= &= ^= <<= >>=")
	assert.Equal(t, []TokenType{
		PLUS_EQUAL, MINUS_EQUAL, STAR_EQUAL, SLASH_EQUAL, DOUBLE_SLASH_EQUAL,
		PERCENT_EQUAL, DOUBLE_STAR_EQUAL, AT_EQUAL, VBAR_EQUAL, AMPER_EQUAL,
		CIRCUMFLEX_EQUAL, LEFT_SHIFT_EQUAL, RIGHT_SHIFT_EQUAL, NEWLINE, END_OF_FILE,
	}, tokenTypes(toks))
}

func TestTokenLocations(t *testing.T) {
	toks := scanAll(t, "a = 1\n")
	require.Len(t, toks, 5)

	assert.Equal(t, ast.NewLocation(1, 0), toks[0].Start)
	assert.Equal(t, ast.NewLocation(1, 1), toks[0].End)
	assert.Equal(t, ast.NewLocation(1, 2), toks[1].Start)
	assert.Equal(t, ast.NewLocation(1, 4), toks[2].Start)
	assert.Equal(t, ast.NewLocation(1, 5), toks[3].Start)
	assert.Equal(t, ast.NewLocation(2, 0), toks[3].End)
}

func TestEmptyInput(t *testing.T) {
	assert.Equal(t, []TokenType{END_OF_FILE}, tokenTypes(scanAll(t, "")))
	assert.Equal(t, []TokenType{END_OF_FILE}, tokenTypes(scanAll(t, "\n\n   \n")))
}

func TestMissingTrailingNewline(t *testing.T) {
	assert.Equal(t, []TokenType{NAME, NEWLINE, END_OF_FILE}, tokenTypes(scanAll(t, "x")))
}

func TestLineEndingsAreNormalized(t *testing.T) {
	toks := scanAll(t, "a\r\nb\rc")
	assert.Equal(t, []TokenType{NAME, NEWLINE, NAME, NEWLINE, NAME, NEWLINE, END_OF_FILE}, tokenTypes(toks))
	assert.Equal(t, 2, toks[2].Start.Row)
	assert.Equal(t, 3, toks[4].Start.Row)
}

func TestIndentation(t *testing.T) {
	toks := scanAll(t, "if x:\n    y\nz\n")
	assert.Equal(t, []TokenType{
		IF, NAME, COLON, NEWLINE, INDENT, NAME, NEWLINE, DEDENT, NAME, NEWLINE, END_OF_FILE,
	}, tokenTypes(toks))

	indent := toks[4]
	assert.Equal(t, ast.NewLocation(2, 4), indent.Start)
	assert.Equal(t, indent.Start, indent.End)

	dedent := toks[7]
	assert.Equal(t, ast.NewLocation(3, 0), dedent.Start)
}

func TestDedentsAtEndOfInput(t *testing.T) {
	toks := scanAll(t, "if a:\n  if b:\n    c")
	assert.Equal(t, []TokenType{
		IF, NAME, COLON, NEWLINE, INDENT,
		IF, NAME, COLON, NEWLINE, INDENT,
		NAME, NEWLINE, DEDENT, DEDENT, END_OF_FILE,
	}, tokenTypes(toks))
}

func TestIndentDedentBalance(t *testing.T) {
	toks := scanAll(t, "def f():\n        return 1\nx = 2\n")
	indents, dedents := 0, 0
	for _, tok := range toks {
		switch tok.Tok.Type {
		case INDENT:
			indents++
		case DEDENT:
			dedents++
		}
	}
	assert.Equal(t, 1, indents)
	assert.Equal(t, 1, dedents)
}

func TestBlankAndCommentLinesKeepIndentation(t *testing.T) {
	toks := scanAll(t, "if a:\n    b\n\n    # note\n    c\n")
	assert.Equal(t, []TokenType{
		IF, NAME, COLON, NEWLINE, INDENT, NAME, NEWLINE, COMMENT, NAME, NEWLINE, DEDENT, END_OF_FILE,
	}, tokenTypes(toks))
	assert.Equal(t, "# note", toks[7].Tok.Value)
}

func TestBracketsSuppressNewlines(t *testing.T) {
	toks := scanAll(t, "(a,\n    b)\n")
	assert.Equal(t, []TokenType{LPAR, NAME, COMMA, NAME, RPAR, NEWLINE, END_OF_FILE}, tokenTypes(toks))
}

func TestLineContinuation(t *testing.T) {
	toks := scanAll(t, "a = 1 + \\\n    2\n")
	assert.Equal(t, []TokenType{NAME, EQUAL, INT, PLUS, INT, NEWLINE, END_OF_FILE}, tokenTypes(toks))

	err := scanError(t, "a \\ b")
	assert.Equal(t, LexLineContinuationError, err.Type.Kind)
	assert.Equal(t, "unexpected character after line continuation character", err.Type.String())

	err = scanError(t, "a \\")
	assert.Equal(t, LexEOF, err.Type.Kind)
}

func TestScannerIndentationErrors(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		kind     LexicalErrorKind
		location ast.Location
	}{
		{"inconsistent dedent", "if a:\n    b\n  c\n", LexIndentationError, ast.NewLocation(3, 2)},
		{"ambiguous tabs", "if a:\n\tb\n        c\n", LexTabError, ast.NewLocation(3, 8)},
		{"tabs after spaces", "if a:\n \tb\n", LexTabsAfterSpaces, ast.NewLocation(2, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := scanError(t, tt.source)
			assert.Equal(t, tt.kind, err.Type.Kind)
			assert.Equal(t, tt.location, err.Location)
		})
	}
}

func TestNestingErrors(t *testing.T) {
	err := scanError(t, "(a")
	assert.Equal(t, LexEOF, err.Type.Kind)

	err = scanError(t, ")")
	assert.Equal(t, LexNestingError, err.Type.Kind)
	assert.Equal(t, ast.NewLocation(1, 0), err.Location)
}

func TestUnrecognizedCharacter(t *testing.T) {
	err := scanError(t, "a $ b")
	assert.Equal(t, LexUnrecognizedToken, err.Type.Kind)
	assert.Equal(t, '$', err.Type.Tok)
	assert.Equal(t, "Got unexpected token $ at 1:2", err.Error())

	err = scanError(t, "a ! b")
	assert.Equal(t, '!', err.Type.Tok)
}

func TestStrings(t *testing.T) {
	toks := scanAll(t, `'a\tb' r'a\tb' b'\x41\n' u'x' f'{x}\n' "q\"q"`)
	require.Equal(t, []TokenType{STRING, STRING, BYTES, STRING, STRING, STRING, NEWLINE, END_OF_FILE}, tokenTypes(toks))

	assert.Equal(t, "a\tb", toks[0].Tok.Value)
	assert.Equal(t, `a\tb`, toks[1].Tok.Value)
	assert.True(t, toks[1].Tok.Raw)
	assert.Equal(t, []byte("A\n"), toks[2].Tok.Bytes)
	assert.Equal(t, StringU, toks[3].Tok.Kind)
	assert.Equal(t, StringF, toks[4].Tok.Kind)
	assert.Equal(t, `{x}\n`, toks[4].Tok.Value)
	assert.Equal(t, `q"q`, toks[5].Tok.Value)
}

func TestStringPrefixesAreCaseInsensitive(t *testing.T) {
	toks := scanAll(t, `Rb'\d' BR'\d' F'x' Fr'\d'`)
	assert.Equal(t, []TokenType{BYTES, BYTES, STRING, STRING, NEWLINE, END_OF_FILE}, tokenTypes(toks))
	assert.Equal(t, []byte(`\d`), toks[0].Tok.Bytes)
	assert.Equal(t, "Fr", toks[3].Tok.Prefix)
	assert.True(t, toks[3].Tok.Raw)
}

func TestTripleQuotedStrings(t *testing.T) {
	toks := scanAll(t, "'''a\nb''' \"\"\"it's\"\"\"")
	require.Equal(t, STRING, toks[0].Tok.Type)
	assert.Equal(t, "a\nb", toks[0].Tok.Value)
	assert.True(t, toks[0].Tok.Triple)
	assert.Equal(t, ast.NewLocation(2, 4), toks[0].End)
	assert.Equal(t, "it's", toks[1].Tok.Value)
}

func TestStringEscapes(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{`'\101'`, "A"},
		{`'\x41'`, "A"},
		{`'\u00e9'`, "é"},
		{`'\U0001F600'`, "😀"},
		{`'\N{EM DASH}'`, "—"},
		{`'\N{em dash}'`, "—"},
		{`'\q'`, `\q`},
		{"'a\\\nb'", "ab"},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			toks := scanAll(t, tt.source)
			assert.Equal(t, tt.want, toks[0].Tok.Value)
		})
	}
}

func TestStringErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		kind   LexicalErrorKind
	}{
		{"newline in single quotes", "'abc\ndef'", LexStringError},
		{"unterminated", "'abc", LexEOF},
		{"unterminated triple", "'''abc", LexEOF},
		{"bad hex escape", `'\xZZ'`, LexUnicodeError},
		{"unknown character name", `'\N{NOT A REAL NAME}'`, LexUnicodeError},
		{"surrogate", `'\ud800'`, LexUnicodeError},
		{"non-ascii bytes", "b'é'", LexOtherError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := scanError(t, tt.source)
			assert.Equal(t, tt.kind, err.Type.Kind)
		})
	}

	err := scanError(t, "b'é'")
	assert.Equal(t, "bytes can only contain ASCII literal characters.", err.Type.String())
}

func TestCommentsAreTokens(t *testing.T) {
	toks := scanAll(t, "x = 1 # trailing\n")
	assert.Equal(t, []TokenType{NAME, EQUAL, INT, COMMENT, NEWLINE, END_OF_FILE}, tokenTypes(toks))
	assert.Equal(t, "# trailing", toks[3].Tok.Value)
}

func TestLexerStopsAfterEndOfFile(t *testing.T) {
	l := NewLexer("x", ast.NewLocation(1, 0))
	for {
		tok, err := l.Next()
		require.NoError(t, err)
		if tok.Tok.Type == END_OF_FILE {
			break
		}
	}
	_, err := l.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestLexerStopsAfterError(t *testing.T) {
	count := 0
	var last error
	for _, err := range Tokenize("a $ b c d") {
		count++
		last = err
	}
	assert.Equal(t, 2, count)
	assert.Error(t, last)
}

func TestLexerStartLocation(t *testing.T) {
	l := NewLexer("a", ast.NewLocation(5, 10))
	tok, err := l.Next()
	require.NoError(t, err)
	assert.Equal(t, ast.NewLocation(5, 10), tok.Start)
}

func TestTokenDisplay(t *testing.T) {
	assert.Equal(t, `"("`, LPAR.String())
	assert.Equal(t, "Indent", INDENT.String())
	assert.Equal(t, `"do"`, DO.String())
	assert.Equal(t, "'x'", Tok{Type: NAME, Value: "x"}.String())
	assert.Equal(t, `Name { value: "x" }`, Tok{Type: NAME, Value: "x"}.Debug())
	assert.True(t, EXTENDS.IsKeyword())
	assert.True(t, COLON_EQUAL.IsOperator())
	assert.False(t, NAME.IsKeyword())
}
