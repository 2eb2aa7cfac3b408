package repl

import (
	"bytes"
	stderrors "errors"
	"io"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/peterh/liner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"emerald/internal/parser"
)

func init() {
	color.NoColor = true
}

func run(t *testing.T, input string) string {
	t.Helper()
	var out bytes.Buffer
	require.NoError(t, Start(strings.NewReader(input), &out))
	return out.String()
}

func TestSingleLine(t *testing.T) {
	out := run(t, "x = 1\n")
	assert.Equal(t,
		">>> Interactive(body=[Assign(targets=[Name(id='x', ctx=Store)], value=Constant(value=1))])\n>>> \n",
		out)
}

func TestBlankLinesAreSkipped(t *testing.T) {
	out := run(t, "\n   \nx\n")
	assert.Equal(t, 1, strings.Count(out, "Interactive("))
	assert.Equal(t, 4, strings.Count(out, PROMPT))
}

func TestBlockWaitsForBlankLine(t *testing.T) {
	out := run(t, "if x:\n    pass\n\ny\n")

	assert.True(t, strings.HasPrefix(out, PROMPT+CONTINUATION+CONTINUATION+"Interactive(body=[If("), out)
	assert.Contains(t, out, "body=[Pass()]")
	assert.Contains(t, out, "Interactive(body=[Expr(value=Name(id='y', ctx=Load))])")
}

func TestOpenBracketContinues(t *testing.T) {
	out := run(t, "(1,\n2)\n\n")
	assert.Contains(t, out, CONTINUATION)
	assert.Contains(t, out, "Tuple(elts=[Constant(value=1), Constant(value=2)], ctx=Load)")
}

func TestInputEndingInsideBlock(t *testing.T) {
	out := run(t, "def f():\n    return 1")
	assert.Contains(t, out, "FunctionDef(")
}

func TestSyntaxErrorIsReported(t *testing.T) {
	out := run(t, "x = = 1\nx\n")

	assert.Contains(t, out, "error[E0101]: invalid syntax")
	assert.Contains(t, out, "<stdin>:1:5")
	assert.Contains(t, out, "Interactive(body=[Expr(value=Name(id='x', ctx=Load))])")
}

func TestIncomplete(t *testing.T) {
	for _, source := range []string{"if x:\n", "(1,\n", "s = '''abc\n", "class A:\n"} {
		_, err := parser.Parse(source, parser.ModeInteractive, SourceName)
		assert.True(t, Incomplete(err), "%q", source)
	}

	for _, source := range []string{"x = = 1\n", "x = $\n"} {
		_, err := parser.Parse(source, parser.ModeInteractive, SourceName)
		require.Error(t, err)
		assert.False(t, Incomplete(err), "%q", source)
	}
	assert.False(t, Incomplete(nil))
}

// scripted answers prompts from a fixed list of lines or errors.
type scripted struct {
	answers []any
	prompts []string
}

func (s *scripted) Prompt(prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if len(s.answers) == 0 {
		return "", io.EOF
	}
	next := s.answers[0]
	s.answers = s.answers[1:]
	if err, ok := next.(error); ok {
		return "", err
	}
	return next.(string), nil
}

func TestRunAbortDiscardsInput(t *testing.T) {
	r := &scripted{answers: []any{"if x:", liner.ErrPromptAborted, "y"}}
	var out bytes.Buffer
	var history []string

	require.NoError(t, Run(r, &out, func(s string) { history = append(history, s) }))

	assert.Equal(t, []string{PROMPT, CONTINUATION, PROMPT, PROMPT}, r.prompts)
	assert.NotContains(t, out.String(), "If(")
	assert.Equal(t, []string{"y"}, history)
}

func TestRunQuit(t *testing.T) {
	r := &scripted{answers: []any{"x", ":quit", "y"}}
	var out bytes.Buffer

	require.NoError(t, Run(r, &out, nil))
	assert.Contains(t, out.String(), "Name(id='x', ctx=Load)")
	assert.NotContains(t, out.String(), "Name(id='y'")
}

func TestRunRemembersBlocks(t *testing.T) {
	r := &scripted{answers: []any{"while x:", "    pass", ""}}
	var history []string

	require.NoError(t, Run(r, io.Discard, func(s string) { history = append(history, s) }))
	assert.Equal(t, []string{"while x:\n    pass"}, history)
}

func TestRunPropagatesReadErrors(t *testing.T) {
	failure := stderrors.New("broken pipe")
	r := &scripted{answers: []any{failure}}

	assert.ErrorIs(t, Run(r, io.Discard, nil), failure)
}
