package parser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"emerald/internal/ast"
)

func joinedValues(t *testing.T, source string) []*ast.Expr {
	t.Helper()
	e, err := ParseExpression(source, testPath)
	require.NoError(t, err)
	joined, ok := e.Node.(*ast.JoinedStr)
	require.True(t, ok, "expected JoinedStr, got %T", e.Node)
	return joined.Values
}

func TestFStringDumps(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{
			"conversion",
			`f"hello {name!r}"`,
			"JoinedStr(values=[Constant(value='hello '), FormattedValue(value=Name(id='name', ctx=Load), conversion=Repr)])",
		},
		{
			"nested spec",
			`f"{x:>{width}}"`,
			"JoinedStr(values=[FormattedValue(value=Name(id='x', ctx=Load), conversion=None, format_spec=JoinedStr(values=[Constant(value='>'), FormattedValue(value=Name(id='width', ctx=Load), conversion=None)]))])",
		},
		{
			"doubled braces",
			`f"{{literal}}"`,
			"JoinedStr(values=[Constant(value='{literal}')])",
		},
		{
			"self documenting",
			`f"{x=}"`,
			"JoinedStr(values=[Constant(value='x='), FormattedValue(value=Name(id='x', ctx=Load), conversion=Repr)])",
		},
		{
			"self documenting with spaces",
			`f"{x = !s}"`,
			"JoinedStr(values=[Constant(value='x = '), FormattedValue(value=Name(id='x', ctx=Load), conversion=Str)])",
		},
		{
			"nested f-string",
			`f"{f'{x}'}"`,
			"JoinedStr(values=[FormattedValue(value=JoinedStr(values=[FormattedValue(value=Name(id='x', ctx=Load), conversion=None)]), conversion=None)])",
		},
		{
			"concatenation",
			`"a" f"{b}" "c"`,
			"JoinedStr(values=[Constant(value='a'), FormattedValue(value=Name(id='b', ctx=Load), conversion=None), Constant(value='c')])",
		},
		{
			"comparison inside field",
			`f"{a != b}"`,
			"JoinedStr(values=[FormattedValue(value=Compare(left=Name(id='a', ctx=Load), ops=[NotEq], comparators=[Name(id='b', ctx=Load)]), conversion=None)])",
		},
		{
			"string inside field",
			`f"{d['k']}"`,
			"JoinedStr(values=[FormattedValue(value=Subscript(value=Name(id='d', ctx=Load), slice=Constant(value='k'), ctx=Load), conversion=None)])",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, dumpExpr(t, tt.source))
		})
	}
}

func TestFStringEscapes(t *testing.T) {
	values := joinedValues(t, `f"tab\t{x}\n"`)
	require.Len(t, values, 3)
	assert.Equal(t, ast.ConstStr("tab\t"), values[0].Node.(*ast.Constant).Value)
	assert.Equal(t, ast.ConstStr("\n"), values[2].Node.(*ast.Constant).Value)

	values = joinedValues(t, `rf"\d{x}"`)
	require.Len(t, values, 2)
	assert.Equal(t, ast.ConstStr(`\d`), values[0].Node.(*ast.Constant).Value)
}

func TestFStringTripleQuoted(t *testing.T) {
	values := joinedValues(t, "f'''a\n{b}'''")
	require.Len(t, values, 2)
	assert.Equal(t, ast.ConstStr("a\n"), values[0].Node.(*ast.Constant).Value)
	fv := values[1].Node.(*ast.FormattedValue)
	assert.Equal(t, ast.NewLocation(2, 1), fv.Value.Location)
}

func TestFStringFieldLocations(t *testing.T) {
	body := parseModule(t, `x = f"ab{name}"`+"\n")
	assign := body[0].Node.(*ast.Assign)
	joined := assign.Value.Node.(*ast.JoinedStr)
	require.Len(t, joined.Values, 2)

	fv := joined.Values[1]
	assert.Equal(t, ast.NewLocation(1, 8), fv.Location)
	name := fv.Node.(*ast.FormattedValue).Value
	assert.Equal(t, ast.NewLocation(1, 9), name.Location)
	end, ok := name.End()
	require.True(t, ok)
	assert.Equal(t, ast.NewLocation(1, 13), end)
}

func TestFStringErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		kind   FStringErrorKind
	}{
		{"unclosed brace", `f"{"`, FStringUnclosedLbrace},
		{"unclosed field", `f"{x"`, FStringUnclosedLbrace},
		{"unopened brace", `f"}"`, FStringUnopenedRbrace},
		{"single brace", `f"{x}}"`, FStringSingleRbrace},
		{"empty expression", `f"{}"`, FStringEmptyExpression},
		{"blank expression", `f"{  }"`, FStringEmptyExpression},
		{"empty before conversion", `f"{!r}"`, FStringEmptyExpression},
		{"bad conversion", `f"{x!z}"`, FStringInvalidConversionFlag},
		{"junk after conversion", `f"{x!r x}"`, FStringExpectedRbrace},
		{"unmatched paren", `f"{x)}"`, FStringUnmatched},
		{"mismatched delimiter", `f"{(x]}"`, FStringMismatchedDelimiter},
		{"spec nested too deeply", `f"{x:{y:{z}}}"`, FStringExpressionNestedTooDeeply},
		{"unterminated string", `f"{'a}"`, FStringUnterminatedString},
		{"comment", `f"{a#b}"`, FStringExpressionCannotInclude},
		{"backslash", `f"{a\nb}"`, FStringExpressionCannotInclude},
		{"invalid expression", `f"{1 +}"`, FStringInvalidExpression},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseExpression(tt.source, testPath)
			require.Error(t, err)
			var perr *ParseError
			require.True(t, errors.As(err, &perr))
			require.Equal(t, ParseLexical, perr.Type.Kind, "got %s", perr)
			require.Equal(t, LexFStringError, perr.Type.Lexical.Kind, "got %s", perr)
			assert.Equal(t, tt.kind, perr.Type.Lexical.FString.Kind, "got %s", perr)
		})
	}
}

func TestFStringErrorMessages(t *testing.T) {
	_, err := ParseExpression(`f"{x)}"`, testPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Got error in f-string: unmatched ')'")

	_, err = ParseExpression(`f"{(x]}"`, testPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "closing parenthesis ']' does not match opening parenthesis '('")

	_, err = ParseExpression(`f"{a\nb}"`, testPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "f-string expression part cannot include a backslash")
}

func TestFStringInvalidExpressionCarriesInnerError(t *testing.T) {
	_, err := ParseExpression(`f"{1 +}"`, testPath)
	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	inner := perr.Type.Lexical.FString.Inner
	require.NotNil(t, inner)
	assert.Equal(t, ParseUnrecognizedToken, inner.Kind)
	assert.Equal(t, RPAR, inner.Token.Type)
}

func TestFStringNestingLimit(t *testing.T) {
	tok := Spanned{
		Start: ast.NewLocation(1, 0),
		Tok:   Tok{Type: STRING, Value: "{x}", Kind: StringF, Prefix: "f"},
		End:   ast.NewLocation(1, 6),
	}

	values, err := parseFString(tok, testPath, maxNesting-1)
	require.Nil(t, err)
	require.Len(t, values, 1)

	_, err = parseFString(tok, testPath, maxNesting)
	require.NotNil(t, err)
	assert.Equal(t, FStringExpressionNestedTooDeeply, err.Type.Kind)
	assert.Equal(t, ast.NewLocation(1, 3), err.Location)
}
