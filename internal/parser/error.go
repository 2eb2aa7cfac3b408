package parser

import (
	"fmt"

	"emerald/internal/ast"
)

type LexicalErrorKind int

const (
	LexStringError LexicalErrorKind = iota
	LexUnicodeError
	LexNestingError
	LexIndentationError
	LexTabError
	LexTabsAfterSpaces
	LexDefaultArgumentError
	LexDuplicateKeywordArgumentError
	LexPositionalArgumentError
	LexUnrecognizedToken
	LexFStringError
	LexLineContinuationError
	LexEOF
	LexOtherError
)

// LexicalErrorType describes a failure of the tokenizer or of a grammar
// action. Tok is set for LexUnrecognizedToken, FString for LexFStringError
// and Msg for LexOtherError.
type LexicalErrorType struct {
	Kind    LexicalErrorKind
	Tok     rune
	FString FStringErrorType
	Msg     string
}

func (t LexicalErrorType) String() string {
	switch t.Kind {
	case LexStringError:
		return "Got unexpected string"
	case LexFStringError:
		return fmt.Sprintf("Got error in f-string: %s", t.FString)
	case LexUnicodeError:
		return "Got unexpected unicode"
	case LexNestingError:
		return "Got unexpected nesting"
	case LexIndentationError:
		return "unindent does not match any outer indentation level"
	case LexTabError:
		return "inconsistent use of tabs and spaces in indentation"
	case LexTabsAfterSpaces:
		return "Tabs not allowed as part of indentation after spaces"
	case LexDefaultArgumentError:
		return "non-default argument follows default argument"
	case LexDuplicateKeywordArgumentError:
		return "keyword argument repeated"
	case LexPositionalArgumentError:
		return "positional argument follows keyword argument"
	case LexUnrecognizedToken:
		return fmt.Sprintf("Got unexpected token %c", t.Tok)
	case LexLineContinuationError:
		return "unexpected character after line continuation character"
	case LexEOF:
		return "unexpected EOF while parsing"
	}
	return t.Msg
}

// LexicalError is a LexicalErrorType at a source location.
type LexicalError struct {
	Type     LexicalErrorType
	Location ast.Location
}

func (e *LexicalError) Error() string {
	return fmt.Sprintf("%s at %s", e.Type, e.Location)
}

type FStringErrorKind int

const (
	FStringUnclosedLbrace FStringErrorKind = iota
	FStringUnopenedRbrace
	FStringExpectedRbrace
	FStringInvalidExpression
	FStringInvalidConversionFlag
	FStringEmptyExpression
	FStringMismatchedDelimiter
	FStringSingleRbrace
	FStringUnmatched
	FStringExpressionNestedTooDeeply
	FStringUnterminatedString
	FStringExpressionCannotInclude
)

// FStringErrorType describes a malformed formatted string. Open and Close
// are set for FStringMismatchedDelimiter, Char for FStringUnmatched and
// FStringExpressionCannotInclude, Inner for FStringInvalidExpression.
type FStringErrorType struct {
	Kind  FStringErrorKind
	Open  rune
	Close rune
	Char  rune
	Inner *ParseErrorType
}

func (t FStringErrorType) String() string {
	switch t.Kind {
	case FStringUnclosedLbrace:
		return "expecting '}'"
	case FStringUnopenedRbrace:
		return "Unopened '}'"
	case FStringExpectedRbrace:
		return "Expected '}' after conversion flag."
	case FStringInvalidExpression:
		if t.Inner == nil {
			return "invalid expression"
		}
		return t.Inner.String()
	case FStringInvalidConversionFlag:
		return "invalid conversion character"
	case FStringEmptyExpression:
		return "empty expression not allowed"
	case FStringMismatchedDelimiter:
		return fmt.Sprintf("closing parenthesis '%c' does not match opening parenthesis '%c'", t.Close, t.Open)
	case FStringSingleRbrace:
		return "single '}' is not allowed"
	case FStringUnmatched:
		return fmt.Sprintf("unmatched '%c'", t.Char)
	case FStringExpressionNestedTooDeeply:
		return "expressions nested too deeply"
	case FStringUnterminatedString:
		return "unterminated string"
	case FStringExpressionCannotInclude:
		if t.Char == '\\' {
			return "f-string expression part cannot include a backslash"
		}
		return fmt.Sprintf("f-string expression part cannot include '%c's", t.Char)
	}
	return "unknown f-string error"
}

// Lexical wraps the f-string failure into the lexical taxonomy.
func (t FStringErrorType) Lexical() LexicalErrorType {
	return LexicalErrorType{Kind: LexFStringError, FString: t}
}

// FStringError is an FStringErrorType at a source location.
type FStringError struct {
	Type     FStringErrorType
	Location ast.Location
}

func (e *FStringError) Error() string {
	return fmt.Sprintf("%s at %s", e.Type, e.Location)
}

// LexicalError converts the failure into a lexical error at the same
// location.
func (e *FStringError) LexicalError() *LexicalError {
	return &LexicalError{Type: e.Type.Lexical(), Location: e.Location}
}

type ParseErrorKind int

const (
	ParseEOF ParseErrorKind = iota
	ParseExtraToken
	ParseInvalidToken
	ParseUnrecognizedToken
	ParseLexical
)

// ParseErrorType is the closed set of parse failures. Token is set for
// ParseExtraToken and ParseUnrecognizedToken, Expected names the single
// token the grammar wanted (empty when there were zero or several
// candidates) and Lexical is set for ParseLexical.
type ParseErrorType struct {
	Kind     ParseErrorKind
	Token    Tok
	Expected string
	Lexical  LexicalErrorType
}

func (t ParseErrorType) String() string {
	switch t.Kind {
	case ParseEOF:
		return "Got unexpected EOF"
	case ParseExtraToken:
		return fmt.Sprintf("Got extraneous token: %s", t.Token.Debug())
	case ParseInvalidToken:
		return "Got invalid token"
	case ParseUnrecognizedToken:
		if t.Token.Type == INDENT {
			return "unexpected indent"
		}
		if t.Expected == "Indent" {
			return "expected an indented block"
		}
		return fmt.Sprintf("invalid syntax. Got unexpected token %s", t.Token)
	}
	return t.Lexical.String()
}

// IsIndentationError reports an inconsistent dedent, an unexpected indent
// or a missing indented block.
func (t ParseErrorType) IsIndentationError() bool {
	switch t.Kind {
	case ParseLexical:
		return t.Lexical.Kind == LexIndentationError
	case ParseUnrecognizedToken:
		return t.Token.Type == INDENT || t.Expected == "Indent"
	}
	return false
}

// IsTabError reports inconsistent mixing of tabs and spaces.
func (t ParseErrorType) IsTabError() bool {
	return t.Kind == ParseLexical && (t.Lexical.Kind == LexTabError || t.Lexical.Kind == LexTabsAfterSpaces)
}

// ParseErrorTypeFromLexical lifts a lexical failure into the parse
// taxonomy.
func ParseErrorTypeFromLexical(t LexicalErrorType) ParseErrorType {
	return ParseErrorType{Kind: ParseLexical, Lexical: t}
}

// BaseError carries a failure of kind T with its location and the path of
// the source it came from.
type BaseError[T fmt.Stringer] struct {
	Type       T
	Location   ast.Location
	SourcePath string
}

func (e *BaseError[T]) Error() string {
	return fmt.Sprintf("%s at %s:%d:%d", e.Type, e.SourcePath, e.Location.Row, e.Location.Column)
}

// LiftError converts the kind of err with convert, keeping the location
// and source path.
func LiftError[T, U fmt.Stringer](err *BaseError[T], convert func(T) U) *BaseError[U] {
	return &BaseError[U]{Type: convert(err.Type), Location: err.Location, SourcePath: err.SourcePath}
}

// ParseError is the error returned by every parse entry point.
type ParseError = BaseError[ParseErrorType]

func parseErrorFromLexical(err *LexicalError, sourcePath string) *ParseError {
	base := &BaseError[LexicalErrorType]{Type: err.Type, Location: err.Location, SourcePath: sourcePath}
	return LiftError(base, ParseErrorTypeFromLexical)
}

type engineErrorKind int

const (
	engineInvalidToken engineErrorKind = iota
	engineUnrecognizedEOF
	engineUnrecognizedToken
	engineExtraToken
	engineUser
)

// engineError is the failure shape raised inside the grammar engine. It
// never leaves the package: parseErrorFromEngine translates it at the
// entry point.
type engineError struct {
	kind     engineErrorKind
	location ast.Location
	token    Spanned
	expected []string
	user     *LexicalError
}

func parseErrorFromEngine(err *engineError, sourcePath string) *ParseError {
	switch err.kind {
	case engineUser:
		return parseErrorFromLexical(err.user, sourcePath)
	case engineExtraToken:
		return &ParseError{
			Type:       ParseErrorType{Kind: ParseExtraToken, Token: err.token.Tok},
			Location:   err.token.Start,
			SourcePath: sourcePath,
		}
	case engineInvalidToken:
		return &ParseError{
			Type:       ParseErrorType{Kind: ParseEOF},
			Location:   err.location,
			SourcePath: sourcePath,
		}
	case engineUnrecognizedToken:
		expected := ""
		if len(err.expected) == 1 {
			expected = err.expected[0]
		}
		return &ParseError{
			Type:       ParseErrorType{Kind: ParseUnrecognizedToken, Token: err.token.Tok, Expected: expected},
			Location:   err.token.Start.WithColOffset(1),
			SourcePath: sourcePath,
		}
	}
	return &ParseError{
		Type:       ParseErrorType{Kind: ParseEOF},
		Location:   err.location,
		SourcePath: sourcePath,
	}
}
