package grammar

import "github.com/alecthomas/participle/v2/lexer"

// Number is a complete numeric literal.
type Number struct {
	Pos    lexer.Position
	EndPos lexer.Position

	Radix   *RadixInt `  @@`
	Decimal *Decimal  `| @@`
}

// RadixInt is an integer written with a 0x, 0o or 0b prefix.
type RadixInt struct {
	Hex string `  @Hex`
	Oct string `| @Oct`
	Bin string `| @Bin`
}

// Decimal is a base-10 integer or float, optionally imaginary.
type Decimal struct {
	Float     string `( @Float`
	Int       string `| @Int )`
	Imaginary bool   `@Imag?`
}
