package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"
)

const (
	digitPart = `[0-9](?:_?[0-9])*`
	exponent  = `[eE][+-]?` + digitPart
)

// NumberLexer splits a numeric literal into its radix, mantissa and
// imaginary parts. Rule order matters: radix prefixes win over decimals and
// floats win over integers.
var NumberLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Hex", Pattern: `0[xX](?:_?[0-9a-fA-F])+`},
	{Name: "Oct", Pattern: `0[oO](?:_?[0-7])+`},
	{Name: "Bin", Pattern: `0[bB](?:_?[01])+`},
	{Name: "Float", Pattern: `(?:` + digitPart + `)?\.` + digitPart + `(?:` + exponent + `)?|` +
		digitPart + `\.(?:` + exponent + `)?|` +
		digitPart + exponent},
	{Name: "Int", Pattern: `[1-9](?:_?[0-9])*|0(?:_?0)*`},
	{Name: "Imag", Pattern: `[jJ]`},
})
