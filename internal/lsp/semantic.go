package lsp

import (
	"sort"
	"strings"
	"unicode/utf16"

	"emerald/internal/ast"
	"emerald/internal/parser"
)

// SemanticTokenTypes is the legend of token types, in the order the
// encoded token type indexes refer to.
var SemanticTokenTypes = []string{
	"namespace",
	"class",
	"function",
	"variable",
	"parameter",
	"property",
	"keyword",
	"number",
	"string",
	"comment",
	"operator",
	"decorator",
}

// SemanticTokenModifiers is the legend of token modifiers; a token's
// modifier mask sets bit i for SemanticTokenModifiers[i].
var SemanticTokenModifiers = []string{
	"declaration",
	"definition",
	"readonly",
	"async",
}

// SemanticToken represents a single LSP semantic token entry
// Line and StartChar are 0-based positions in UTF-16 code units
// TokenType is an index into SemanticTokenTypes
// TokenModifiers is a bitmask based on SemanticTokenModifiers
type SemanticToken struct {
	Line           uint32
	StartChar      uint32
	Length         uint32
	TokenType      int
	TokenModifiers int
}

// sourceLines gives UTF-16 positions for rune columns.
type sourceLines [][]rune

func newSourceLines(source string) sourceLines {
	source = strings.ReplaceAll(source, "\r\n", "\n")
	source = strings.ReplaceAll(source, "\r", "\n")
	parts := strings.Split(source, "\n")
	lines := make(sourceLines, len(parts))
	for i, p := range parts {
		lines[i] = []rune(p)
	}
	return lines
}

func (sl sourceLines) line(row int) []rune {
	if row < 1 || row > len(sl) {
		return nil
	}
	return sl[row-1]
}

// utf16Col converts a rune column on row into UTF-16 code units.
func (sl sourceLines) utf16Col(row, col int) uint32 {
	line := sl.line(row)
	col = min(col, len(line))
	n := 0
	for _, r := range line[:col] {
		n += utf16.RuneLen(r)
	}
	return uint32(n)
}

// lineEnd is the rune length of row.
func (sl sourceLines) lineEnd(row int) int {
	return len(sl.line(row))
}

// classifier tracks the little context needed to tell names apart from
// the token stream alone.
type classifier struct {
	prev        parser.TokenType
	inImport    bool
	inDefHeader bool
	depth       int
	asyncDef    bool
}

func (c *classifier) classify(tok parser.Spanned, next parser.TokenType) (string, int) {
	tt := tok.Tok.Type
	defer func() {
		if tt != parser.COMMENT {
			c.prev = tt
		}
	}()

	switch tt {
	case parser.NEWLINE:
		c.inImport = false
		c.inDefHeader = false
		c.asyncDef = false
		return "", 0
	case parser.SEMI:
		c.inImport = false
		return "operator", 0
	case parser.IMPORT:
		c.inImport = true
		return "keyword", 0
	case parser.FROM:
		// "yield from" and "raise ... from" are not imports
		switch c.prev {
		case parser.START_MODULE, parser.NEWLINE, parser.INDENT, parser.DEDENT, parser.SEMI:
			c.inImport = true
		}
		return "keyword", 0
	case parser.DEF:
		c.inDefHeader = true
		c.depth = 0
		c.asyncDef = c.prev == parser.ASYNC
		return "keyword", 0
	case parser.LPAR, parser.LSQB, parser.LBRACE:
		c.depth++
		return "operator", 0
	case parser.RPAR, parser.RSQB, parser.RBRACE:
		c.depth--
		return "operator", 0
	case parser.COMMENT:
		return "comment", 0
	case parser.INT, parser.FLOAT, parser.COMPLEX:
		return "number", 0
	case parser.STRING, parser.BYTES:
		return "string", 0
	case parser.NAME:
		return c.classifyName(next)
	}

	switch {
	case tt.IsKeyword():
		return "keyword", 0
	case tt.IsOperator():
		return "operator", 0
	}
	return "", 0
}

func (c *classifier) classifyName(next parser.TokenType) (string, int) {
	declaration := 1 << indexOf("declaration", SemanticTokenModifiers)
	switch {
	case c.prev == parser.DEF:
		mods := declaration
		if c.asyncDef {
			mods |= 1 << indexOf("async", SemanticTokenModifiers)
		}
		return "function", mods
	case c.prev == parser.CLASS:
		return "class", declaration
	case c.prev == parser.AT:
		return "decorator", 0
	case c.inImport:
		return "namespace", 0
	case c.inDefHeader && c.depth == 1 && (c.prev == parser.LPAR || c.prev == parser.COMMA || c.prev == parser.STAR || c.prev == parser.DOUBLE_STAR):
		return "parameter", declaration
	case c.prev == parser.DOT:
		if next == parser.LPAR {
			return "function", 0
		}
		return "property", 0
	case next == parser.LPAR:
		return "function", 0
	}
	return "variable", 0
}

// collectSemanticTokens classifies every token of source. Tokens spanning
// several lines are split at line ends. A tokenizer failure ends the scan;
// the tokens before it are still returned.
func collectSemanticTokens(source string) []SemanticToken {
	var toks []parser.Spanned
	for tok, err := range parser.Tokenize(source) {
		if err != nil {
			break
		}
		toks = append(toks, tok)
	}

	lines := newSourceLines(source)
	var tokens []SemanticToken
	c := &classifier{prev: parser.START_MODULE}

	for i, tok := range toks {
		next := parser.END_OF_FILE
		for j := i + 1; j < len(toks); j++ {
			if toks[j].Tok.Type != parser.COMMENT {
				next = toks[j].Tok.Type
				break
			}
		}

		tokenType, modifiers := c.classify(tok, next)
		if tokenType == "" {
			continue
		}
		tokens = append(tokens, makeTokens(lines, tok.Start, tok.End, indexOf(tokenType, SemanticTokenTypes), modifiers)...)
	}

	sort.SliceStable(tokens, func(i, j int) bool {
		if tokens[i].Line != tokens[j].Line {
			return tokens[i].Line < tokens[j].Line
		}
		return tokens[i].StartChar < tokens[j].StartChar
	})
	return tokens
}

// makeTokens creates the semantic tokens covering start..end, one per line
func makeTokens(lines sourceLines, start, end ast.Location, tokenType, modifiers int) []SemanticToken {
	var tokens []SemanticToken
	for row := start.Row; row <= end.Row; row++ {
		from := 0
		if row == start.Row {
			from = start.Column
		}
		to := lines.lineEnd(row)
		if row == end.Row {
			to = min(end.Column, to)
		}
		if to <= from {
			continue
		}

		startChar := lines.utf16Col(row, from)
		tokens = append(tokens, SemanticToken{
			Line:           uint32(row - 1),
			StartChar:      startChar,
			Length:         lines.utf16Col(row, to) - startChar,
			TokenType:      tokenType,
			TokenModifiers: modifiers,
		})
	}
	return tokens
}

// encodeSemanticTokens packs tokens into the LSP wire format using
// delta-line and delta-start compression
func encodeSemanticTokens(tokens []SemanticToken) []uint32 {
	data := make([]uint32, 0, len(tokens)*5)
	var prevLine, prevStart uint32

	for _, token := range tokens {
		deltaLine := token.Line - prevLine
		deltaStart := token.StartChar
		if deltaLine == 0 {
			deltaStart = token.StartChar - prevStart
		}

		data = append(data, deltaLine, deltaStart, token.Length, uint32(token.TokenType), uint32(token.TokenModifiers))

		prevLine = token.Line
		prevStart = token.StartChar
	}
	return data
}

// indexOf returns the index of a string in a slice, or 0 if not found
func indexOf(target string, list []string) int {
	for i, v := range list {
		if v == target {
			return i
		}
	}
	return 0
}
