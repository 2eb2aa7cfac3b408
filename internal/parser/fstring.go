package parser

import (
	"errors"
	"strings"

	"emerald/internal/ast"
)

// fstringParser splits the body of a formatted string into literal parts and
// replacement fields. The body is kept as written in the source, so the
// cursor reports true source locations for every character.
type fstringParser struct {
	cur    *Lexer
	raw    bool
	start  ast.Location
	end    ast.Location
	path   string
	depth  int
	opened bool
}

// parseFString returns the parts of a formatted string token: constants
// for literal text and FormattedValue nodes for replacement fields.
func parseFString(tok Spanned, path string, depth int) ([]*ast.Expr, *FStringError) {
	quotes := 1
	if tok.Tok.Triple {
		quotes = 3
	}
	contentStart := tok.Start.WithColOffset(len([]rune(tok.Tok.Prefix)) + quotes)

	f := &fstringParser{
		cur:   NewLexer(tok.Tok.Value, contentStart),
		raw:   tok.Tok.Raw,
		start: tok.Start,
		end:   tok.End,
		path:  path,
		depth: depth,
	}
	return f.parse(0)
}

func (f *fstringParser) fail(kind FStringErrorKind) *FStringError {
	return &FStringError{Type: FStringErrorType{Kind: kind}, Location: f.cur.location}
}

func (f *fstringParser) failWith(t FStringErrorType) *FStringError {
	return &FStringError{Type: t, Location: f.cur.location}
}

func (f *fstringParser) constant(value string, start ast.Location) *ast.Expr {
	return ast.NewExpr(start, f.cur.location, &ast.Constant{Value: ast.ConstStr(value)})
}

func (f *fstringParser) parse(nested int) ([]*ast.Expr, *FStringError) {
	if nested >= 2 {
		return nil, f.fail(FStringExpressionNestedTooDeeply)
	}

	var values []*ast.Expr
	var content strings.Builder
	contentStart := f.cur.location

	flush := func() {
		if content.Len() > 0 {
			values = append(values, f.constant(content.String(), contentStart))
			content.Reset()
		}
	}

	for !f.cur.isAtEnd() {
		switch f.cur.peek() {
		case '{':
			open := f.cur.location
			f.cur.advance()
			if nested == 0 {
				if f.cur.isAtEnd() {
					return nil, f.fail(FStringUnclosedLbrace)
				}
				if f.cur.peek() == '{' {
					f.cur.advance()
					content.WriteRune('{')
					continue
				}
			}
			flush()
			f.opened = true
			parts, err := f.parseFormattedValue(nested, open)
			if err != nil {
				return nil, err
			}
			values = append(values, parts...)
			contentStart = f.cur.location
		case '}':
			if nested > 0 {
				flush()
				return values, nil
			}
			f.cur.advance()
			if f.cur.peek() == '}' && !f.cur.isAtEnd() {
				f.cur.advance()
				content.WriteRune('}')
				continue
			}
			if !f.opened {
				return nil, f.fail(FStringUnopenedRbrace)
			}
			return nil, f.fail(FStringSingleRbrace)
		case '\\':
			if err := f.literalEscape(&content); err != nil {
				return nil, err
			}
		default:
			content.WriteRune(f.cur.advance())
		}
	}

	flush()
	return values, nil
}

// literalEscape decodes a backslash sequence in literal text.
func (f *fstringParser) literalEscape(out *strings.Builder) *FStringError {
	if f.raw {
		out.WriteRune(f.cur.advance())
		if !f.cur.isAtEnd() {
			out.WriteRune(f.cur.advance())
		}
		return nil
	}
	at := f.cur.location
	f.cur.advance()
	if f.cur.isAtEnd() {
		out.WriteByte('\\')
		return nil
	}
	if err := f.cur.scanEscape(out, false, at); err != nil {
		return &FStringError{Type: FStringErrorType{Kind: FStringInvalidExpression, Inner: lexicalInner(err)}, Location: at}
	}
	return nil
}

func lexicalInner(err error) *ParseErrorType {
	var lexErr *LexicalError
	if errors.As(err, &lexErr) {
		t := ParseErrorTypeFromLexical(lexErr.Type)
		return &t
	}
	t := ParseErrorTypeFromLexical(LexicalErrorType{Kind: LexOtherError, Msg: err.Error()})
	return &t
}

func (f *fstringParser) parseFormattedValue(nested int, open ast.Location) ([]*ast.Expr, *FStringError) {
	var expression strings.Builder
	var trailing strings.Builder
	var delims []rune
	var spec *ast.Expr
	conversion := ast.ConversionNone
	selfDocumenting := false
	exprStart := f.cur.location

	isEmpty := func() bool { return strings.TrimSpace(expression.String()) == "" }
	emptyOr := func(kind FStringErrorKind) *FStringError {
		if isEmpty() {
			return f.fail(FStringEmptyExpression)
		}
		return f.fail(kind)
	}

	for !f.cur.isAtEnd() {
		ch := f.cur.advance()
		next := f.cur.peek()
		if f.cur.isAtEnd() {
			next = 0
		}

		switch {
		case (ch == '!' || ch == '=' || ch == '<' || ch == '>') && next == '=':
			expression.WriteRune(ch)
			expression.WriteRune(f.cur.advance())
		case ch == '!' && len(delims) == 0:
			if isEmpty() {
				return nil, f.fail(FStringEmptyExpression)
			}
			if f.cur.isAtEnd() {
				return nil, emptyOr(FStringUnclosedLbrace)
			}
			switch f.cur.advance() {
			case 's':
				conversion = ast.ConversionStr
			case 'a':
				conversion = ast.ConversionAscii
			case 'r':
				conversion = ast.ConversionRepr
			default:
				return nil, emptyOr(FStringInvalidConversionFlag)
			}
			if f.cur.isAtEnd() {
				return nil, emptyOr(FStringUnclosedLbrace)
			}
			if p := f.cur.peek(); p != '}' && p != ':' {
				return nil, emptyOr(FStringExpectedRbrace)
			}
		case ch == '=' && len(delims) == 0:
			selfDocumenting = true
		case ch == ':' && len(delims) == 0:
			specStart := f.cur.location
			parts, err := f.parseSpec(nested)
			if err != nil {
				return nil, err
			}
			spec = ast.NewExpr(specStart, f.cur.location, &ast.JoinedStr{Values: parts})
		case ch == '(' || ch == '[' || ch == '{':
			expression.WriteRune(ch)
			delims = append(delims, ch)
		case ch == ')' || ch == ']' || (ch == '}' && len(delims) > 0):
			if len(delims) == 0 {
				return nil, f.failWith(FStringErrorType{Kind: FStringUnmatched, Char: ch})
			}
			last := delims[len(delims)-1]
			delims = delims[:len(delims)-1]
			if closing[last] != ch {
				return nil, f.failWith(FStringErrorType{Kind: FStringMismatchedDelimiter, Open: last, Close: ch})
			}
			expression.WriteRune(ch)
		case ch == '}':
			if isEmpty() {
				return nil, f.fail(FStringEmptyExpression)
			}
			value, err := f.parseExpression(expression.String(), exprStart)
			if err != nil {
				return nil, err
			}
			if !selfDocumenting {
				return []*ast.Expr{ast.NewExpr(open, f.cur.location, &ast.FormattedValue{
					Value:      value,
					Conversion: conversion,
					FormatSpec: spec,
				})}, nil
			}
			if conversion == ast.ConversionNone && spec == nil {
				conversion = ast.ConversionRepr
			}
			parts := []*ast.Expr{f.constant(expression.String()+"="+trailing.String(), open)}
			return append(parts, ast.NewExpr(open, f.cur.location, &ast.FormattedValue{
				Value:      value,
				Conversion: conversion,
				FormatSpec: spec,
			})), nil
		case ch == '"' || ch == '\'':
			expression.WriteRune(ch)
			for {
				if f.cur.isAtEnd() {
					return nil, f.fail(FStringUnterminatedString)
				}
				c := f.cur.advance()
				expression.WriteRune(c)
				if c == ch {
					break
				}
			}
		case ch == ' ' && selfDocumenting:
			trailing.WriteRune(ch)
		case ch == '\\' || ch == '#':
			return nil, f.failWith(FStringErrorType{Kind: FStringExpressionCannotInclude, Char: ch})
		default:
			if selfDocumenting {
				return nil, f.fail(FStringUnclosedLbrace)
			}
			expression.WriteRune(ch)
		}
	}

	return nil, emptyOr(FStringUnclosedLbrace)
}

var closing = map[rune]rune{'(': ')', '[': ']', '{': '}'}

func (f *fstringParser) parseSpec(nested int) ([]*ast.Expr, *FStringError) {
	var parts []*ast.Expr
	var piece strings.Builder
	pieceStart := f.cur.location

	for !f.cur.isAtEnd() {
		switch f.cur.peek() {
		case '{':
			if piece.Len() > 0 {
				parts = append(parts, f.constant(piece.String(), pieceStart))
				piece.Reset()
			}
			values, err := f.parse(nested + 1)
			if err != nil {
				return nil, err
			}
			parts = append(parts, values...)
			pieceStart = f.cur.location
			continue
		case '}':
			if piece.Len() > 0 {
				parts = append(parts, f.constant(piece.String(), pieceStart))
			}
			return parts, nil
		case '\\':
			if err := f.literalEscape(&piece); err != nil {
				return nil, err
			}
			continue
		}
		piece.WriteRune(f.cur.advance())
	}

	if piece.Len() > 0 {
		parts = append(parts, f.constant(piece.String(), pieceStart))
	}
	return parts, nil
}

// parseExpression parses the text of a replacement field, wrapped in
// parentheses so that surrounding whitespace and line breaks are allowed.
func (f *fstringParser) parseExpression(source string, start ast.Location) (*ast.Expr, *FStringError) {
	if f.depth+1 > maxNesting {
		return nil, &FStringError{Type: FStringErrorType{Kind: FStringExpressionNestedTooDeeply}, Location: start}
	}

	lexer := NewLexer("("+source+")", start.WithColOffset(-1))
	mod, err := parseWithDepth(lexer.All(), ModeExpression, f.path, f.depth+1)
	if err != nil {
		var parseErr *ParseError
		if errors.As(err, &parseErr) {
			inner := parseErr.Type
			return nil, &FStringError{Type: FStringErrorType{Kind: FStringInvalidExpression, Inner: &inner}, Location: parseErr.Location}
		}
		return nil, &FStringError{Type: FStringErrorType{Kind: FStringInvalidExpression, Inner: lexicalInner(err)}, Location: start}
	}
	return mod.(*ast.Expression).Body, nil
}
