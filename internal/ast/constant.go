package ast

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// ConstantValue is the payload of a Constant expression.
//
//sumtype:decl
type ConstantValue interface {
	isConstant()
	String() string
}

type ConstNone struct{}

type ConstBool bool

type ConstStr string

type ConstBytes []byte

// ConstInt holds an integer of any size.
type ConstInt struct {
	Value *big.Int
}

type ConstFloat float64

type ConstComplex struct {
	Real float64
	Imag float64
}

type ConstEllipsis struct{}

type ConstTuple []ConstantValue

func (ConstNone) isConstant()     {}
func (ConstBool) isConstant()     {}
func (ConstStr) isConstant()      {}
func (ConstBytes) isConstant()    {}
func (ConstInt) isConstant()      {}
func (ConstFloat) isConstant()    {}
func (ConstComplex) isConstant()  {}
func (ConstEllipsis) isConstant() {}
func (ConstTuple) isConstant()    {}

// NewInt returns an integer constant for a machine-sized value.
func NewInt(v int64) ConstInt {
	return ConstInt{Value: big.NewInt(v)}
}

func (ConstNone) String() string { return "None" }

func (b ConstBool) String() string {
	if b {
		return "True"
	}
	return "False"
}

func (s ConstStr) String() string { return quoteStr(string(s)) }

func (b ConstBytes) String() string {
	var sb strings.Builder
	sb.WriteString("b'")
	for _, c := range b {
		switch {
		case c == '\\' || c == '\'':
			sb.WriteByte('\\')
			sb.WriteByte(c)
		case c == '\n':
			sb.WriteString(`\n`)
		case c == '\t':
			sb.WriteString(`\t`)
		case c == '\r':
			sb.WriteString(`\r`)
		case c < 0x20 || c >= 0x7f:
			fmt.Fprintf(&sb, `\x%02x`, c)
		default:
			sb.WriteByte(c)
		}
	}
	sb.WriteByte('\'')
	return sb.String()
}

func (i ConstInt) String() string {
	if i.Value == nil {
		return "0"
	}
	return i.Value.String()
}

func (f ConstFloat) String() string { return formatFloat(float64(f)) }

func (c ConstComplex) String() string {
	if c.Real == 0 {
		return formatFloat(c.Imag) + "j"
	}
	sign := "+"
	if c.Imag < 0 {
		sign = ""
	}
	return "(" + formatFloat(c.Real) + sign + formatFloat(c.Imag) + "j)"
}

func (ConstEllipsis) String() string { return "Ellipsis" }

func (t ConstTuple) String() string {
	parts := make([]string, len(t))
	for i, v := range t {
		parts[i] = v.String()
	}
	if len(parts) == 1 {
		return "(" + parts[0] + ",)"
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}

func quoteStr(s string) string {
	var sb strings.Builder
	sb.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\\', '\'':
			sb.WriteByte('\\')
			sb.WriteRune(r)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case '\r':
			sb.WriteString(`\r`)
		default:
			if strconv.IsPrint(r) {
				sb.WriteRune(r)
			} else {
				fmt.Fprintf(&sb, `\u%04x`, r)
			}
		}
	}
	sb.WriteByte('\'')
	return sb.String()
}
