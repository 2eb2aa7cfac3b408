package parser

import (
	"fmt"
	"strconv"
	"strings"

	"emerald/internal/ast"
)

type TokenType int

const (
	// Literals and names
	NAME TokenType = iota
	INT
	FLOAT
	COMPLEX
	STRING
	BYTES

	// Structure
	NEWLINE
	INDENT
	DEDENT
	START_MODULE
	START_INTERACTIVE
	START_EXPRESSION
	END_OF_FILE
	COMMENT

	// Brackets
	LPAR
	RPAR
	LSQB
	RSQB
	LBRACE
	RBRACE

	// Separators
	COLON
	COMMA
	SEMI
	DOT
	ELLIPSIS
	RARROW
	COLON_EQUAL

	// Operators
	PLUS
	MINUS
	STAR
	SLASH
	DOUBLE_SLASH
	PERCENT
	DOUBLE_STAR
	AT
	VBAR
	AMPER
	CIRCUMFLEX
	TILDE
	LEFT_SHIFT
	RIGHT_SHIFT
	LESS
	GREATER
	EQUAL
	EQ_EQUAL
	NOT_EQUAL
	LESS_EQUAL
	GREATER_EQUAL

	// Augmented assignment
	PLUS_EQUAL
	MINUS_EQUAL
	STAR_EQUAL
	SLASH_EQUAL
	DOUBLE_SLASH_EQUAL
	PERCENT_EQUAL
	DOUBLE_STAR_EQUAL
	AT_EQUAL
	VBAR_EQUAL
	AMPER_EQUAL
	CIRCUMFLEX_EQUAL
	LEFT_SHIFT_EQUAL
	RIGHT_SHIFT_EQUAL

	// Keywords
	FALSE
	NONE
	TRUE
	AND
	AS
	ASSERT
	ASYNC
	AWAIT
	BREAK
	CLASS
	CONTINUE
	DEF
	DEL
	DO
	ELIF
	ELSE
	EXCEPT
	EXTENDS
	FINALLY
	FOR
	FROM
	GLOBAL
	IF
	IMPORT
	IN
	IS
	LAMBDA
	NONLOCAL
	NOT
	OR
	PASS
	RAISE
	RETURN
	TRY
	WHILE
	WITH
	YIELD
)

var structuralNames = map[TokenType]string{
	NAME:              "Name",
	INT:               "Int",
	FLOAT:             "Float",
	COMPLEX:           "Complex",
	STRING:            "String",
	BYTES:             "Bytes",
	NEWLINE:           "Newline",
	INDENT:            "Indent",
	DEDENT:            "Dedent",
	START_MODULE:      "StartModule",
	START_INTERACTIVE: "StartInteractive",
	START_EXPRESSION:  "StartExpression",
	END_OF_FILE:       "EndOfFile",
	COMMENT:           "Comment",
}

var symbols = map[TokenType]string{
	LPAR:               "(",
	RPAR:               ")",
	LSQB:               "[",
	RSQB:               "]",
	LBRACE:             "{",
	RBRACE:             "}",
	COLON:              ":",
	COMMA:              ",",
	SEMI:               ";",
	DOT:                ".",
	ELLIPSIS:           "...",
	RARROW:             "->",
	COLON_EQUAL:        ":=",
	PLUS:               "+",
	MINUS:              "-",
	STAR:               "*",
	SLASH:              "/",
	DOUBLE_SLASH:       "//",
	PERCENT:            "%",
	DOUBLE_STAR:        "**",
	AT:                 "@",
	VBAR:               "|",
	AMPER:              "&",
	CIRCUMFLEX:         "^",
	TILDE:              "~",
	LEFT_SHIFT:         "<<",
	RIGHT_SHIFT:        ">>",
	LESS:               "<",
	GREATER:            ">",
	EQUAL:              "=",
	EQ_EQUAL:           "==",
	NOT_EQUAL:          "!=",
	LESS_EQUAL:         "<=",
	GREATER_EQUAL:      ">=",
	PLUS_EQUAL:         "+=",
	MINUS_EQUAL:        "-=",
	STAR_EQUAL:         "*=",
	SLASH_EQUAL:        "/=",
	DOUBLE_SLASH_EQUAL: "//=",
	PERCENT_EQUAL:      "%=",
	DOUBLE_STAR_EQUAL:  "**=",
	AT_EQUAL:           "@=",
	VBAR_EQUAL:         "|=",
	AMPER_EQUAL:        "&=",
	CIRCUMFLEX_EQUAL:   "^=",
	LEFT_SHIFT_EQUAL:   "<<=",
	RIGHT_SHIFT_EQUAL:  ">>=",
}

// Text returns the source spelling of an operator or keyword, or the
// structural name for every other token type.
func (t TokenType) Text() string {
	if s, ok := symbols[t]; ok {
		return s
	}
	if s, ok := keywordText[t]; ok {
		return s
	}
	return structuralNames[t]
}

// String names the token type the way expected-token lists report it:
// operators and keywords are quoted, structural tokens are bare.
func (t TokenType) String() string {
	if s, ok := structuralNames[t]; ok {
		return s
	}
	return strconv.Quote(t.Text())
}

// IsKeyword reports whether t is a reserved word.
func (t TokenType) IsKeyword() bool {
	return t >= FALSE && t <= YIELD
}

// IsOperator reports whether t is an operator or delimiter.
func (t TokenType) IsOperator() bool {
	return t >= LPAR && t <= RIGHT_SHIFT_EQUAL
}

// StringKind distinguishes plain, formatted and u-prefixed strings.
type StringKind int

const (
	StringNormal StringKind = iota
	StringF
	StringU
)

// Tok is a single token. Value holds the identifier of a Name, the content
// of a String and the text of a Comment. Formatted string content is kept
// exactly as written between the quotes.
type Tok struct {
	Type   TokenType
	Value  string
	Kind   StringKind
	Raw    bool
	Triple bool
	Prefix string
	Number ast.ConstantValue
	Bytes  []byte
}

func NewTok(tt TokenType) Tok {
	return Tok{Type: tt}
}

// String renders the token for error messages.
func (t Tok) String() string {
	switch t.Type {
	case NAME:
		return "'" + t.Value + "'"
	case INT, FLOAT:
		return "'" + t.Number.String() + "'"
	case COMPLEX:
		return t.Number.String()
	case STRING:
		prefix := ""
		switch t.Kind {
		case StringF:
			prefix = "f"
		case StringU:
			prefix = "u"
		}
		return prefix + strconv.Quote(t.Value)
	case BYTES:
		return ast.ConstBytes(t.Bytes).String()
	case COMMENT:
		return t.Value
	case END_OF_FILE:
		return "EOF"
	}
	if _, ok := structuralNames[t.Type]; ok {
		return structuralNames[t.Type]
	}
	return "'" + t.Type.Text() + "'"
}

// Debug renders the token with its payload, used by extraneous-token
// reports.
func (t Tok) Debug() string {
	name := structuralNames[t.Type]
	if name == "" {
		name = t.Type.String()
	}
	switch t.Type {
	case NAME, COMMENT:
		return fmt.Sprintf("%s { value: %q }", name, t.Value)
	case INT, FLOAT, COMPLEX:
		return fmt.Sprintf("%s { value: %s }", name, t.Number)
	case STRING:
		return fmt.Sprintf("%s { value: %q, kind: %s, triple_quoted: %t }", name, t.Value, t.Kind, t.Triple)
	case BYTES:
		return fmt.Sprintf("%s { value: %s }", name, ast.ConstBytes(t.Bytes))
	}
	return name
}

func (k StringKind) String() string {
	switch k {
	case StringF:
		return "F"
	case StringU:
		return "U"
	}
	return "Normal"
}

// Spanned is a token with its start and exclusive end location.
type Spanned struct {
	Start ast.Location
	Tok   Tok
	End   ast.Location
}

func (s Spanned) String() string {
	return fmt.Sprintf("%s-%s %s", s.Start, s.End, strings.TrimSpace(s.Tok.String()))
}
