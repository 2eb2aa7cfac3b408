package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"emerald/internal/config"
)

func init() {
	color.NoColor = true
}

type result struct {
	stdout string
	stderr string
	err    error
}

func execute(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	t.Setenv(config.EnvVar, "")

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func workspace(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	t.Chdir(dir)
	return dir
}

func TestParseCommand(t *testing.T) {
	workspace(t, map[string]string{"ok.em": "x = 1\n", "expr.em": "1 + 2\n"})

	res := execute(t, "", "parse", "ok.em")
	require.NoError(t, res.err)
	assert.Equal(t, "Module(body=[Assign(targets=[Name(id='x', ctx=Store)], value=Constant(value=1))])\n", res.stdout)

	res = execute(t, "", "parse", "--mode", "expression", "expr.em")
	require.NoError(t, res.err)
	assert.Equal(t, "Expression(body=BinOp(left=Constant(value=1), op=Add, right=Constant(value=2)))\n", res.stdout)

	res = execute(t, "", "parse", "--mode", "bogus", "expr.em")
	assert.ErrorContains(t, res.err, `unknown parse mode "bogus"`)
}

func TestParseCommandReportsSyntaxError(t *testing.T) {
	workspace(t, map[string]string{"bad.em": "x = = 1\n"})

	res := execute(t, "", "parse", "bad.em")
	assert.ErrorIs(t, res.err, errSyntax)
	assert.Empty(t, res.stdout)
	assert.Contains(t, res.stderr, "error[E0101]: invalid syntax. Got unexpected token '='")
	assert.Contains(t, res.stderr, "bad.em:1:5")
}

func TestParseCommandMissingFile(t *testing.T) {
	workspace(t, nil)

	res := execute(t, "", "parse", "missing.em")
	assert.ErrorContains(t, res.err, "failed to read file")
}

func TestTokensCommand(t *testing.T) {
	workspace(t, map[string]string{"t.em": "x = 1  # hi\n", "bad.em": "x = $\n"})

	res := execute(t, "", "tokens", "t.em")
	require.NoError(t, res.err)
	lines := strings.Split(strings.TrimSpace(res.stdout), "\n")
	assert.Equal(t, "1:0-1:1\tName { value: \"x\" }", lines[0])
	assert.NotContains(t, res.stdout, "Comment")
	assert.Contains(t, lines[len(lines)-1], "EndOfFile")

	res = execute(t, "", "tokens", "--comments", "t.em")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Comment {")

	res = execute(t, "", "tokens", "bad.em")
	assert.ErrorIs(t, res.err, errSyntax)
	assert.Contains(t, res.stdout, "1:0-1:1\tName { value: \"x\" }")
	assert.Contains(t, res.stderr, "error[E0208]")
}

func TestCheckCommand(t *testing.T) {
	workspace(t, map[string]string{
		"good.em": "def f():\n    return 1\n",
		"bad.em":  "def f()\n    return 1\n",
		"tabs.em": "if x:\n\tpass\n",
	})

	res := execute(t, "", "check", "good.em", "tabs.em")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Successfully checked good.em")
	assert.Contains(t, res.stdout, "warning[W0001]: tab character in indentation")
	assert.Contains(t, res.stdout, "Successfully checked tabs.em")

	res = execute(t, "", "check", "good.em", "bad.em")
	assert.ErrorIs(t, res.err, errSyntax)
	assert.ErrorContains(t, res.err, "1 of 2 files failed")
	assert.Contains(t, res.stdout, "error[E0101]")
	assert.Contains(t, res.stdout, "Check of bad.em failed")
}

func TestConfigSelectsMode(t *testing.T) {
	workspace(t, map[string]string{
		"emerald.toml": "[parser]\nmode = \"expression\"\n",
		"expr.em":      "a if b else c\n",
	})

	res := execute(t, "", "parse", "expr.em")
	require.NoError(t, res.err)
	assert.True(t, strings.HasPrefix(res.stdout, "Expression(body=IfExp("), res.stdout)

	res = execute(t, "", "--config", "missing.toml", "parse", "expr.em")
	assert.ErrorContains(t, res.err, "failed to read config")
}

func TestReplCommand(t *testing.T) {
	workspace(t, nil)

	res := execute(t, "x\n", "repl")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Interactive(body=[Expr(value=Name(id='x', ctx=Load))])")
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{500 * time.Nanosecond, "500ns"},
		{1500 * time.Nanosecond, "1.5μs"},
		{2500 * time.Microsecond, "2.5ms"},
		{1500 * time.Millisecond, "1.50s"},
		{90 * time.Second, "1.50min"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatDuration(tt.d))
	}
}
