package parser

import (
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"golang.org/x/text/unicode/runenames"

	"emerald/internal/ast"
)

// scanString lexes a string or bytes literal whose prefix has already been
// consumed. start is the location of the prefix.
func (l *Lexer) scanString(start ast.Location, flags stringFlags, prefix string) error {
	quote := l.advance()
	triple := false
	if l.peek() == quote && l.peekAt(1) == quote {
		l.advance()
		l.advance()
		triple = true
	}

	keepRaw := flags.raw || flags.kind == StringF
	var content strings.Builder

	for {
		if l.isAtEnd() {
			return &LexicalError{Type: LexicalErrorType{Kind: LexEOF}, Location: l.location}
		}

		escapeAt := l.location
		c := l.advance()
		switch {
		case c == '\\':
			if l.isAtEnd() {
				return &LexicalError{Type: LexicalErrorType{Kind: LexEOF}, Location: l.location}
			}
			if keepRaw {
				content.WriteRune(c)
				content.WriteRune(l.advance())
				continue
			}
			if err := l.scanEscape(&content, flags.bytes, escapeAt); err != nil {
				return err
			}
		case c == quote:
			if !triple {
				return l.finishString(start, flags, prefix, triple, content.String())
			}
			if l.peek() == quote && l.peekAt(1) == quote {
				l.advance()
				l.advance()
				return l.finishString(start, flags, prefix, triple, content.String())
			}
			content.WriteRune(c)
		case c == '\n' && !triple:
			return &LexicalError{Type: LexicalErrorType{Kind: LexStringError}, Location: escapeAt}
		default:
			if flags.bytes && c > 0x7f {
				return &LexicalError{
					Type:     LexicalErrorType{Kind: LexOtherError, Msg: "bytes can only contain ASCII literal characters."},
					Location: escapeAt,
				}
			}
			content.WriteRune(c)
		}
	}
}

func (l *Lexer) finishString(start ast.Location, flags stringFlags, prefix string, triple bool, content string) error {
	tok := Tok{Type: STRING, Kind: flags.kind, Raw: flags.raw, Triple: triple, Prefix: prefix}
	if flags.bytes {
		tok.Type = BYTES
		tok.Bytes = latin1(content)
	} else {
		tok.Value = content
	}
	l.pending = append(l.pending, Spanned{Start: start, Tok: tok, End: l.location})
	return nil
}

// scanEscape decodes the escape sequence following a backslash. In bytes
// literals decoded values above 0x7f are written as runes below 0x100 and
// narrowed by latin1.
func (l *Lexer) scanEscape(out *strings.Builder, isBytes bool, at ast.Location) error {
	c := l.advance()
	switch c {
	case '\n':
	case '\\', '\'', '"':
		out.WriteRune(c)
	case 'a':
		out.WriteByte('\a')
	case 'b':
		out.WriteByte('\b')
	case 'f':
		out.WriteByte('\f')
	case 'n':
		out.WriteByte('\n')
	case 'r':
		out.WriteByte('\r')
	case 't':
		out.WriteByte('\t')
	case 'v':
		out.WriteByte('\v')
	case '0', '1', '2', '3', '4', '5', '6', '7':
		value := int(c - '0')
		for i := 0; i < 2 && l.peek() >= '0' && l.peek() <= '7'; i++ {
			value = value*8 + int(l.advance()-'0')
		}
		if isBytes {
			value &= 0xff
		}
		out.WriteRune(rune(value))
	case 'x':
		r, err := l.scanHex(2, at)
		if err != nil {
			return err
		}
		out.WriteRune(r)
	case 'u', 'U', 'N':
		if isBytes {
			out.WriteByte('\\')
			out.WriteRune(c)
			return nil
		}
		r, err := l.scanUnicodeEscape(c, at)
		if err != nil {
			return err
		}
		out.WriteRune(r)
	default:
		out.WriteByte('\\')
		out.WriteRune(c)
	}
	return nil
}

func (l *Lexer) scanUnicodeEscape(kind rune, at ast.Location) (rune, error) {
	switch kind {
	case 'u':
		return l.scanHex(4, at)
	case 'U':
		return l.scanHex(8, at)
	}

	unicodeErr := &LexicalError{Type: LexicalErrorType{Kind: LexUnicodeError}, Location: at}
	if !l.matchNext('{') {
		return 0, unicodeErr
	}
	var name strings.Builder
	for {
		if l.isAtEnd() || l.peek() == '\n' {
			return 0, unicodeErr
		}
		c := l.advance()
		if c == '}' {
			break
		}
		name.WriteRune(c)
	}
	r, ok := lookupRuneName(name.String())
	if !ok {
		return 0, unicodeErr
	}
	return r, nil
}

func (l *Lexer) scanHex(digits int, at ast.Location) (rune, error) {
	var b strings.Builder
	for range digits {
		if !isHexDigit(l.peek()) {
			return 0, &LexicalError{Type: LexicalErrorType{Kind: LexUnicodeError}, Location: at}
		}
		b.WriteRune(l.advance())
	}
	v, err := strconv.ParseUint(b.String(), 16, 32)
	if err != nil || v > utf8.MaxRune || (v >= 0xd800 && v <= 0xdfff && digits > 2) {
		return 0, &LexicalError{Type: LexicalErrorType{Kind: LexUnicodeError}, Location: at}
	}
	return rune(v), nil
}

func isHexDigit(c rune) bool {
	return isDigit(c) || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

// latin1 narrows every rune of s to a byte. Bytes literals only ever hold
// runes below 0x100.
func latin1(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		out = append(out, byte(r))
	}
	return out
}

var runeNames = sync.OnceValue(func() map[string]rune {
	names := make(map[string]rune, 40000)
	for r := rune(0); r <= utf8.MaxRune; r++ {
		if r >= 0xd800 && r <= 0xdfff {
			continue
		}
		name := runenames.Name(r)
		if name == "" || name[0] == '<' {
			continue
		}
		names[name] = r
	}
	return names
})

// lookupRuneName resolves a \N{...} character name, case-insensitively.
func lookupRuneName(name string) (rune, bool) {
	r, ok := runeNames()[strings.ToUpper(name)]
	return r, ok
}
