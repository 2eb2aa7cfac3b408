package errors

import (
	stderrors "errors"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"emerald/internal/ast"
	"emerald/internal/parser"
)

// DiagnosticBuilder assembles a Diagnostic one call at a time.
type DiagnosticBuilder struct {
	d Diagnostic
}

// NewDiagnostic starts an error covering the column at pos.
func NewDiagnostic(code, message string, pos ast.Location) *DiagnosticBuilder {
	return &DiagnosticBuilder{d: Diagnostic{
		Severity: Error,
		Code:     code,
		Message:  message,
		Location: pos,
		End:      pos.WithColOffset(1),
	}}
}

// NewWarning starts a warning covering the column at pos.
func NewWarning(code, message string, pos ast.Location) *DiagnosticBuilder {
	b := NewDiagnostic(code, message, pos)
	b.d.Severity = Warning
	return b
}

// At moves the start of the span, keeping its end.
func (b *DiagnosticBuilder) At(pos ast.Location) *DiagnosticBuilder {
	b.d.Location = pos
	return b
}

// WithWidth makes the span width columns long on its starting row.
func (b *DiagnosticBuilder) WithWidth(width int) *DiagnosticBuilder {
	b.d.End = b.d.Location.WithColOffset(width)
	return b
}

// WithEnd ends the span at end, which may be on a later row.
func (b *DiagnosticBuilder) WithEnd(end ast.Location) *DiagnosticBuilder {
	b.d.End = end
	return b
}

func (b *DiagnosticBuilder) WithSuggestion(message string) *DiagnosticBuilder {
	b.d.Suggestions = append(b.d.Suggestions, Suggestion{Message: message})
	return b
}

// WithReplacement suggests writing replacement between start and end.
func (b *DiagnosticBuilder) WithReplacement(message, replacement string, start, end ast.Location) *DiagnosticBuilder {
	b.d.Suggestions = append(b.d.Suggestions, Suggestion{
		Message:     message,
		Replacement: replacement,
		Location:    start,
		End:         end,
	})
	return b
}

func (b *DiagnosticBuilder) WithNote(note string) *DiagnosticBuilder {
	b.d.Notes = append(b.d.Notes, note)
	return b
}

func (b *DiagnosticBuilder) WithHelp(help string) *DiagnosticBuilder {
	b.d.Help = help
	return b
}

func (b *DiagnosticBuilder) Build() Diagnostic {
	return b.d
}

// FromError converts any error returned by a parse entry point into a
// diagnostic. Errors that are not parse errors keep their message under
// the tooling code.
func FromError(err error, source string) Diagnostic {
	var parseErr *parser.ParseError
	if stderrors.As(err, &parseErr) {
		return FromParseError(parseErr, source)
	}
	return NewDiagnostic(ErrorReadSource, err.Error(), ast.NewLocation(1, 0)).Build()
}

// FromParseError converts a parse failure into a diagnostic with a code,
// the span of the offending token and help where the cause is common.
func FromParseError(err *parser.ParseError, source string) Diagnostic {
	t := err.Type
	b := NewDiagnostic(codeFor(t), t.String(), err.Location)

	switch t.Kind {
	case parser.ParseUnrecognizedToken:
		// the reported location sits one column past the token start
		start := err.Location.WithColOffset(-1)
		b.At(start).WithEnd(tokenEnd(source, start, t.Token))
		switch {
		case t.Token.Type == parser.INDENT:
			b.WithHelp("remove the extra indentation")
		case t.Expected == "Indent":
			b.WithHelp("indent the body of the block")
		case t.Expected != "":
			b.WithSuggestion(fmt.Sprintf("expected %s", t.Expected))
		}
		if word, at := precedingWord(source, start); len(word) > 2 {
			for _, kw := range findSimilarNames(word, keywordNames()) {
				b.WithReplacement(fmt.Sprintf("did you mean '%s'?", kw), kw, at, at.WithColOffset(len([]rune(word))))
			}
		}
	case parser.ParseEOF:
		b.WithNote("check for an unclosed bracket, string or block")
	case parser.ParseExtraToken:
		b.WithEnd(tokenEnd(source, err.Location, t.Token))
	case parser.ParseLexical:
		lexicalHelp(b, t.Lexical)
	}
	return b.Build()
}

func lexicalHelp(b *DiagnosticBuilder, t parser.LexicalErrorType) {
	switch t.Kind {
	case parser.LexTabError, parser.LexTabsAfterSpaces:
		b.WithHelp("indent with spaces only")
	case parser.LexIndentationError:
		b.WithHelp("dedent to the level of an enclosing block")
	case parser.LexDefaultArgumentError:
		b.WithHelp("give the parameter a default or move it before the parameters that have one")
	case parser.LexPositionalArgumentError:
		b.WithHelp("pass positional arguments before keyword arguments")
	case parser.LexEOF:
		b.WithNote("check for an unclosed bracket or string")
	case parser.LexFStringError:
		if t.FString.Kind == parser.FStringSingleRbrace || t.FString.Kind == parser.FStringUnopenedRbrace {
			b.WithSuggestion("write '}}' for a literal brace")
		}
	}
}

func codeFor(t parser.ParseErrorType) string {
	switch t.Kind {
	case parser.ParseEOF:
		return ErrorUnexpectedEOF
	case parser.ParseExtraToken:
		return ErrorExtraToken
	case parser.ParseInvalidToken:
		return ErrorInvalidToken
	case parser.ParseUnrecognizedToken:
		if t.IsIndentationError() {
			return ErrorIndentation
		}
		return ErrorUnexpectedToken
	}
	return lexicalCode(t.Lexical)
}

func lexicalCode(t parser.LexicalErrorType) string {
	switch t.Kind {
	case parser.LexStringError:
		return ErrorString
	case parser.LexUnicodeError:
		return ErrorUnicode
	case parser.LexNestingError:
		return ErrorNesting
	case parser.LexIndentationError:
		return ErrorInconsistentDedent
	case parser.LexTabError, parser.LexTabsAfterSpaces:
		return ErrorTab
	case parser.LexDefaultArgumentError:
		return ErrorDefaultArgument
	case parser.LexDuplicateKeywordArgumentError:
		return ErrorDuplicateKeyword
	case parser.LexPositionalArgumentError:
		return ErrorPositionalArgument
	case parser.LexUnrecognizedToken:
		return ErrorUnrecognizedCharacter
	case parser.LexLineContinuationError:
		return ErrorLineContinuation
	case parser.LexEOF:
		return ErrorLexicalEOF
	case parser.LexFStringError:
		return fstringCode(t.FString)
	}
	return ErrorInvalidSyntax
}

func fstringCode(t parser.FStringErrorType) string {
	switch t.Kind {
	case parser.FStringUnclosedLbrace, parser.FStringExpectedRbrace:
		return ErrorFStringUnclosed
	case parser.FStringUnopenedRbrace, parser.FStringSingleRbrace:
		return ErrorFStringBrace
	case parser.FStringInvalidConversionFlag:
		return ErrorFStringConversion
	case parser.FStringEmptyExpression:
		return ErrorFStringEmpty
	case parser.FStringMismatchedDelimiter, parser.FStringUnmatched:
		return ErrorFStringDelimiter
	case parser.FStringInvalidExpression:
		return ErrorFStringExpression
	case parser.FStringExpressionNestedTooDeeply:
		return ErrorFStringNesting
	}
	return ErrorFStringCharacter
}

// TabIndentation warns about every line whose indentation contains a tab.
func TabIndentation(source string) []Diagnostic {
	var warnings []Diagnostic
	source = strings.ReplaceAll(source, "\r\n", "\n")
	for i, line := range strings.Split(source, "\n") {
		for col, r := range line {
			if r == '\t' {
				warnings = append(warnings, NewWarning(WarningTabIndentation, "tab character in indentation", ast.NewLocation(i+1, col)).
					WithHelp("indent with spaces only").
					Build())
				break
			}
			if r != ' ' && r != '\f' {
				break
			}
		}
	}
	return warnings
}

// tokenEnd finds where the token starting at start ends by lexing source
// again, so strings spanning rows are covered whole. Tokens the lexer does
// not reach get a width from their text.
func tokenEnd(source string, start ast.Location, tok parser.Tok) ast.Location {
	for spanned, err := range parser.Tokenize(source) {
		if err != nil || start.Before(spanned.Start) {
			break
		}
		if spanned.Start != start || spanned.Tok.Type != tok.Type {
			continue
		}
		if spanned.End.Row != start.Row && spanned.Tok.Type != parser.STRING && spanned.Tok.Type != parser.BYTES {
			break
		}
		return spanned.End
	}
	return start.WithColOffset(tokenLength(tok))
}

func tokenLength(tok parser.Tok) int {
	switch {
	case tok.Type == parser.NAME:
		return len([]rune(tok.Value))
	case tok.Type.IsOperator() || tok.Type.IsKeyword():
		return len(tok.Type.Text())
	}
	return 1
}

// precedingWord returns the identifier that ends before at on its line,
// skipping blanks, and where it starts.
func precedingWord(source string, at ast.Location) (string, ast.Location) {
	source = strings.ReplaceAll(source, "\r\n", "\n")
	lines := strings.Split(source, "\n")
	if at.Row < 1 || at.Row > len(lines) {
		return "", at
	}
	line := []rune(lines[at.Row-1])
	end := min(at.Column, len(line))
	for end > 0 && unicode.IsSpace(line[end-1]) {
		end--
	}
	start := end
	for start > 0 && (unicode.IsLetter(line[start-1]) || unicode.IsDigit(line[start-1]) || line[start-1] == '_') {
		start--
	}
	return string(line[start:end]), ast.NewLocation(at.Row, start)
}

func keywordNames() []string {
	names := make([]string, 0, len(parser.KEYWORDS))
	for kw := range parser.KEYWORDS {
		names = append(names, kw)
	}
	sort.Strings(names)
	return names
}

func findSimilarNames(target string, candidates []string) []string {
	var similar []string

	for _, candidate := range candidates {
		if candidate == target {
			return nil
		}
		if levenshteinDistance(target, candidate) <= 2 && len(candidate) > 2 {
			similar = append(similar, candidate)
		}
	}

	return similar
}

// Simple Levenshtein distance implementation for finding similar names
func levenshteinDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}
