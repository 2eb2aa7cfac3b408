package grammar

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"

	"emerald/internal/ast"
)

var numberParser = participle.MustBuild[Number](
	participle.Lexer(NumberLexer),
)

// NumberError reports a literal that is not a valid number.
type NumberError struct {
	Literal string
	Kind    string
}

func (e *NumberError) Error() string {
	return fmt.Sprintf("invalid %s literal", e.Kind)
}

// ParseNumber parses the text of a numeric literal into a constant. Integers
// keep arbitrary precision.
func ParseNumber(text string) (ast.ConstantValue, error) {
	number, err := numberParser.ParseString("", text)
	if err != nil {
		return nil, &NumberError{Literal: text, Kind: literalKind(text)}
	}

	value, err := number.Value()
	if err != nil {
		return nil, &NumberError{Literal: text, Kind: literalKind(text)}
	}
	return value, nil
}

// Value converts the parsed literal into a constant.
func (n *Number) Value() (ast.ConstantValue, error) {
	if n.Radix != nil {
		return n.Radix.value()
	}
	return n.Decimal.value()
}

func (r *RadixInt) value() (ast.ConstantValue, error) {
	digits, base := r.Hex, 16
	switch {
	case r.Oct != "":
		digits, base = r.Oct, 8
	case r.Bin != "":
		digits, base = r.Bin, 2
	}

	v, ok := new(big.Int).SetString(strings.ReplaceAll(digits[2:], "_", ""), base)
	if !ok {
		return nil, fmt.Errorf("malformed base %d digits %q", base, digits)
	}
	return ast.ConstInt{Value: v}, nil
}

func (d *Decimal) value() (ast.ConstantValue, error) {
	if d.Float == "" && !d.Imaginary {
		v, ok := new(big.Int).SetString(strings.ReplaceAll(d.Int, "_", ""), 10)
		if !ok {
			return nil, fmt.Errorf("malformed integer %q", d.Int)
		}
		return ast.ConstInt{Value: v}, nil
	}

	text := d.Float
	if text == "" {
		text = d.Int
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(text, "_", ""), 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return nil, err
	}

	if d.Imaginary {
		return ast.ConstComplex{Imag: f}, nil
	}
	return ast.ConstFloat(f), nil
}

func literalKind(text string) string {
	if len(text) > 1 && text[0] == '0' {
		switch text[1] {
		case 'x', 'X':
			return "hexadecimal"
		case 'o', 'O':
			return "octal"
		case 'b', 'B':
			return "binary"
		}
	}
	return "decimal"
}
