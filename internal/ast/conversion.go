package ast

import "fmt"

// ConversionFlag selects how a formatted value is stringified. Each flag is
// encoded as the byte of its letter code.
type ConversionFlag byte

const (
	ConversionNone  ConversionFlag = 0
	ConversionStr   ConversionFlag = 's'
	ConversionAscii ConversionFlag = 'a'
	ConversionRepr  ConversionFlag = 'r'
)

// InvalidConversionFlag is returned for an integer that encodes no flag.
type InvalidConversionFlag int

func (e InvalidConversionFlag) Error() string {
	return fmt.Sprintf("invalid conversion flag %d", int(e))
}

// ConversionFlagFromInt decodes v into a flag.
func ConversionFlagFromInt(v int) (ConversionFlag, error) {
	switch ConversionFlag(v) {
	case ConversionNone, ConversionStr, ConversionAscii, ConversionRepr:
		if v >= 0 && v <= 0xff {
			return ConversionFlag(v), nil
		}
	}
	return ConversionNone, InvalidConversionFlag(v)
}

func (c ConversionFlag) String() string {
	switch c {
	case ConversionStr:
		return "Str"
	case ConversionAscii:
		return "Ascii"
	case ConversionRepr:
		return "Repr"
	}
	return "None"
}
