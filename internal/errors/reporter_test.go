package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"emerald/internal/ast"
	"emerald/internal/parser"
)

func init() {
	color.NoColor = true
}

func diagnose(t *testing.T, source string) Diagnostic {
	t.Helper()
	_, err := parser.Parse(source, parser.ModeModule, "test.em")
	require.Error(t, err)
	return FromError(err, source)
}

// gutter is the blank gutter of a two-digit frame followed by text.
func gutter(text string) string {
	return "   | " + text + "\n"
}

func TestReporterFormat(t *testing.T) {
	source := "def f():\n    retrun x\n"
	formatted := NewReporter("test.em", source).Format(diagnose(t, source))

	assert.Contains(t, formatted, "error["+ErrorUnexpectedToken+"]: invalid syntax")
	assert.Contains(t, formatted, "   --> test.em:2:12\n")
	assert.Contains(t, formatted, " 1 | def f():\n 2 |     retrun x\n"+gutter(strings.Repeat(" ", 11)+"^"))
	assert.Contains(t, formatted, "   = help: did you mean 'return'?\n 2 |     return x\n")
}

func TestReporterShowsEnclosingBlock(t *testing.T) {
	source := "run(1) do:\n    x = 1\n    y = = 2\n"
	formatted := NewReporter("test.em", source).Format(diagnose(t, source))
	assert.Contains(t, formatted, " 1 | run(1) do:\n...\n 3 |     y = = 2\n"+gutter("        ^"))
	assert.NotContains(t, formatted, "x = 1")

	source = "a = 1\n\nb = = 2\n"
	formatted = NewReporter("test.em", source).Format(diagnose(t, source))
	assert.Contains(t, formatted, " 1 | a = 1\n...\n 3 | b = = 2\n")

	source = "x = [\n    1,\n    = 2]\n"
	formatted = NewReporter("test.em", source).Format(diagnose(t, source))
	assert.Contains(t, formatted, " 2 |     1,\n 3 |     = 2]\n")
}

func TestReporterUnderlinesStringAcrossRows(t *testing.T) {
	source := "x = 1 '''a\nb'''\n"
	d := diagnose(t, source)
	start, end := d.Span()
	assert.Equal(t, ast.NewLocation(1, 6), start)
	assert.Equal(t, ast.NewLocation(2, 4), end)

	formatted := NewReporter("test.em", source).Format(d)
	assert.Contains(t, formatted, "   --> test.em:1:7\n")
	assert.Contains(t, formatted, " 1 | x = 1 '''a\n"+gutter("      ^^^^")+" 2 | b'''\n"+gutter("^^^^"))
}

func TestReporterLinesUpTabs(t *testing.T) {
	source := "if a:\n\tb = = 1\n"
	formatted := NewReporter("test.em", source).Format(diagnose(t, source))
	assert.Contains(t, formatted, " 1 | if a:\n 2 |         b = = 1\n"+gutter(strings.Repeat(" ", 12)+"^"))
	assert.NotContains(t, formatted, "\t")
}

func TestReporterElidesLongSpans(t *testing.T) {
	var rows []string
	for i := 1; i <= 10; i++ {
		rows = append(rows, fmt.Sprintf("l%d", i))
	}
	d := NewDiagnostic(ErrorString, "long", ast.NewLocation(1, 0)).WithEnd(ast.NewLocation(10, 2)).Build()
	formatted := NewReporter("test.em", strings.Join(rows, "\n")).Format(d)

	assert.Contains(t, formatted, " 3 | l3\n"+gutter("^^")+"...\n 8 | l8\n")
	assert.Contains(t, formatted, "10 | l10\n"+gutter("^^"))
	assert.NotContains(t, formatted, "l5")
}

func TestReporterStopsBeforeEndAtRowStart(t *testing.T) {
	d := NewDiagnostic(ErrorString, "span", ast.NewLocation(1, 2)).WithEnd(ast.NewLocation(2, 0)).Build()
	formatted := NewReporter("test.em", "abcd\nnext\n").Format(d)
	assert.Contains(t, formatted, " 1 | abcd\n"+gutter("  ^^"))
	assert.NotContains(t, formatted, "next")
}

func TestDisplayColumn(t *testing.T) {
	assert.Equal(t, 8, displayColumn([]rune("\tb"), 1))
	assert.Equal(t, 8, displayColumn([]rune(" \tb"), 2))
	assert.Equal(t, 9, displayColumn([]rune("\tb"), 2))
	assert.Equal(t, 5, displayColumn([]rune("名前 = x"), 3))
	assert.Equal(t, 4, displayColumn([]rune("ab"), 4))
	assert.Equal(t, "        b", expandTabs([]rune("\tb")))
}

func TestStripComment(t *testing.T) {
	assert.Equal(t, "x = 1 ", stripComment([]rune("x = 1 # note")))
	assert.Equal(t, "s = '#' ", stripComment([]rune("s = '#' # c")))
	assert.Equal(t, `s = "\"#"`, stripComment([]rune(`s = "\"#"`)))
	assert.Equal(t, "if x:", stripComment([]rune("if x:")))
}

func TestFromParseErrorCodes(t *testing.T) {
	tests := []struct {
		name   string
		source string
		code   string
	}{
		{"missing block", "if x:\npass\n", ErrorIndentation},
		{"unexpected indent", "x = 1\n    y = 2\n", ErrorIndentation},
		{"unexpected token", "x = = 1\n", ErrorUnexpectedToken},
		{"unexpected eof", "if x:", ErrorUnexpectedEOF},
		{"unknown character", "a $ b\n", ErrorUnrecognizedCharacter},
		{"unbalanced bracket", ")\n", ErrorNesting},
		{"open bracket at eof", "x = (\n", ErrorLexicalEOF},
		{"inconsistent dedent", "if a:\n    b\n  c\n", ErrorInconsistentDedent},
		{"tabs", "if a:\n\tb\n        c\n", ErrorTab},
		{"default argument", "def f(a=1, b): pass\n", ErrorDefaultArgument},
		{"duplicate keyword", "f(a=1, a=2)\n", ErrorDuplicateKeyword},
		{"positional argument", "f(a=1, b)\n", ErrorPositionalArgument},
		{"invalid target", "f() = 1\n", ErrorInvalidSyntax},
		{"f-string unclosed", "x = f'{'\n", ErrorFStringUnclosed},
		{"f-string brace", "x = f'}'\n", ErrorFStringBrace},
		{"f-string conversion", "x = f'{x!z}'\n", ErrorFStringConversion},
		{"f-string empty", "x = f'{}'\n", ErrorFStringEmpty},
		{"f-string delimiter", "x = f'{x)}'\n", ErrorFStringDelimiter},
		{"f-string expression", "x = f'{1 +}'\n", ErrorFStringExpression},
		{"f-string character", "x = f'{a#b}'\n", ErrorFStringCharacter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := diagnose(t, tt.source)
			assert.Equal(t, tt.code, err.Code, "message: %s", err.Message)
			assert.Equal(t, Error, err.Severity)
		})
	}
}

func TestUnexpectedTokenSpan(t *testing.T) {
	err := diagnose(t, "x = = 1\n")
	assert.Equal(t, ast.NewLocation(1, 4), err.Location)
	assert.Equal(t, ast.NewLocation(1, 5), err.End)

	err = diagnose(t, "x = 1 lambda\n")
	assert.Equal(t, ast.NewLocation(1, 6), err.Location)
	assert.Equal(t, ast.NewLocation(1, 12), err.End)
	require.NotEmpty(t, err.Suggestions)
	assert.Equal(t, "expected Newline", err.Suggestions[0].Message)
}

func TestIndentationHelp(t *testing.T) {
	err := diagnose(t, "if x:\npass\n")
	assert.Equal(t, "indent the body of the block", err.Help)

	err = diagnose(t, "x = 1\n    y = 2\n")
	assert.Equal(t, "remove the extra indentation", err.Help)
}

func TestNoKeywordSuggestionForShortNames(t *testing.T) {
	err := diagnose(t, "a b\n")
	for _, s := range err.Suggestions {
		assert.NotContains(t, s.Message, "did you mean")
	}
}

func TestFromErrorWithForeignError(t *testing.T) {
	err := FromError(stderrors.New("open x.em: no such file"), "")
	assert.Equal(t, ErrorReadSource, err.Code)
	assert.Equal(t, "open x.em: no such file", err.Message)
}

func TestTabIndentationWarnings(t *testing.T) {
	source := "if x:\n\ty = 1\n  \tz\nw\n"
	warnings := TabIndentation(source)
	require.Len(t, warnings, 2)
	assert.Equal(t, ast.NewLocation(2, 0), warnings[0].Location)
	assert.Equal(t, ast.NewLocation(3, 2), warnings[1].Location)
	for _, w := range warnings {
		assert.Equal(t, Warning, w.Severity)
		assert.True(t, IsWarning(w.Code))
	}

	formatted := NewReporter("test.em", source).Format(warnings[0])
	assert.Contains(t, formatted, "warning[W0001]")
	assert.Contains(t, formatted, " 2 |         y = 1\n"+gutter("--------"))
	assert.Contains(t, formatted, "   = help: indent with spaces only\n")
}

func TestFormatAll(t *testing.T) {
	reporter := NewReporter("test.em", "x\n")
	pos := ast.NewLocation(1, 0)

	out, failed := reporter.FormatAll([]Diagnostic{
		NewWarning(WarningTabIndentation, "first", pos).Build(),
	})
	assert.False(t, failed)
	assert.Contains(t, out, "first")

	out, failed = reporter.FormatAll([]Diagnostic{
		NewWarning(WarningTabIndentation, "first", pos).Build(),
		NewDiagnostic(ErrorUnexpectedToken, "second", pos).Build(),
	})
	assert.True(t, failed)
	assert.Less(t, strings.Index(out, "first"), strings.Index(out, "second"))
}

func TestReporterNormalizesLineEndings(t *testing.T) {
	source := "a = 1\r\nb = = 2\r\n"
	formatted := NewReporter("test.em", source).Format(diagnose(t, source))
	assert.Contains(t, formatted, " 2 | b = = 2\n")
	assert.NotContains(t, formatted, "\r")
}

func TestReporterOutsideSource(t *testing.T) {
	d := NewDiagnostic(ErrorReadSource, "open x.em: no such file", ast.NewLocation(7, 0)).Build()
	formatted := NewReporter("x.em", "").Format(d)
	assert.Equal(t, "error[E0900]: open x.em: no such file\n   --> x.em:7:1\n\n", formatted)
}

func TestDiagnosticBuilder(t *testing.T) {
	pos := ast.NewLocation(3, 2)
	err := NewDiagnostic(ErrorInvalidSyntax, "bad", pos).
		WithWidth(4).
		WithSuggestion("one").
		WithReplacement("two", "ee", ast.NewLocation(3, 4), ast.NewLocation(3, 8)).
		WithNote("a note").
		WithHelp("some help").
		Build()

	assert.Equal(t, Error, err.Severity)
	assert.Equal(t, ast.NewLocation(3, 6), err.End)
	require.Len(t, err.Suggestions, 2)
	assert.Equal(t, "ee", err.Suggestions[1].Replacement)
	assert.Equal(t, []string{"a note"}, err.Notes)
	assert.Equal(t, "some help", err.Help)

	formatted := NewReporter("test.em", "a\nb\ncc  dddd\n").Format(err)
	assert.Contains(t, formatted, " 2 | b\n 3 | cc  dddd\n"+gutter("  ^^^^"))
	assert.Contains(t, formatted, "   = help: one\n   = help: two\n 3 | cc  ee\n")
	assert.Contains(t, formatted, "   = note: a note\n   = help: some help\n")

	start, end := NewDiagnostic(ErrorInvalidSyntax, "bad", pos).WithEnd(pos).Build().Span()
	assert.Equal(t, pos, start)
	assert.Equal(t, ast.NewLocation(3, 3), end)
}

func TestErrorCategories(t *testing.T) {
	assert.Equal(t, "Syntax", GetErrorCategory(ErrorUnexpectedToken))
	assert.Equal(t, "Lexical", GetErrorCategory(ErrorNesting))
	assert.Equal(t, "Formatted String", GetErrorCategory(ErrorFStringEmpty))
	assert.Equal(t, "Tooling", GetErrorCategory(ErrorReadSource))
	assert.Equal(t, "Warning", GetErrorCategory(WarningTabIndentation))
	assert.Equal(t, "Unknown", GetErrorCategory(""))

	assert.False(t, IsWarning(ErrorUnexpectedEOF))
	assert.False(t, IsWarning(""))
	assert.Equal(t, "Unknown error code", GetErrorDescription("E9999"))
	assert.NotEqual(t, "Unknown error code", GetErrorDescription(ErrorFStringNesting))
}

func TestLevenshteinDistance(t *testing.T) {
	assert.Equal(t, 0, levenshteinDistance("hello", "hello"))
	assert.Equal(t, 1, levenshteinDistance("hello", "hallo"))
	assert.Equal(t, 1, levenshteinDistance("hello", "helo"))
	assert.Equal(t, 5, levenshteinDistance("hello", ""))
	assert.Equal(t, 3, levenshteinDistance("kitten", "sitting"))
}

func TestSimilarNameFinding(t *testing.T) {
	similar := findSimilarNames("whle", keywordNames())
	assert.Contains(t, similar, "while")

	// exact keywords need no suggestion
	assert.Empty(t, findSimilarNames("while", keywordNames()))
	assert.Empty(t, findSimilarNames("verydifferent", keywordNames()))
}

func TestPrecedingWord(t *testing.T) {
	source := "x = 1\n    retrun  value\n"
	word, at := precedingWord(source, ast.NewLocation(2, 12))
	assert.Equal(t, "retrun", word)
	assert.Equal(t, ast.NewLocation(2, 4), at)

	word, _ = precedingWord(source, ast.NewLocation(1, 0))
	assert.Empty(t, word)
	word, _ = precedingWord(source, ast.NewLocation(9, 0))
	assert.Empty(t, word)
}
