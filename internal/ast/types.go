package ast

// Operator is a binary arithmetic or bitwise operator.
type Operator int

const (
	OpAdd Operator = iota
	OpSub
	OpMult
	OpMatMult
	OpDiv
	OpMod
	OpPow
	OpLShift
	OpRShift
	OpBitOr
	OpBitXor
	OpBitAnd
	OpFloorDiv
)

var operatorNames = [...]string{
	OpAdd:      "Add",
	OpSub:      "Sub",
	OpMult:     "Mult",
	OpMatMult:  "MatMult",
	OpDiv:      "Div",
	OpMod:      "Mod",
	OpPow:      "Pow",
	OpLShift:   "LShift",
	OpRShift:   "RShift",
	OpBitOr:    "BitOr",
	OpBitXor:   "BitXor",
	OpBitAnd:   "BitAnd",
	OpFloorDiv: "FloorDiv",
}

func (o Operator) String() string { return operatorNames[o] }

// Unaryop is a prefix operator.
type Unaryop int

const (
	UnaryInvert Unaryop = iota
	UnaryNot
	UnaryAdd
	UnarySub
)

var unaryopNames = [...]string{
	UnaryInvert: "Invert",
	UnaryNot:    "Not",
	UnaryAdd:    "UAdd",
	UnarySub:    "USub",
}

func (u Unaryop) String() string { return unaryopNames[u] }

type Boolop int

const (
	BoolAnd Boolop = iota
	BoolOr
)

func (b Boolop) String() string {
	if b == BoolAnd {
		return "And"
	}
	return "Or"
}

// Cmpop is one link of a comparison chain.
type Cmpop int

const (
	CmpEq Cmpop = iota
	CmpNotEq
	CmpLt
	CmpLtE
	CmpGt
	CmpGtE
	CmpIs
	CmpIsNot
	CmpIn
	CmpNotIn
)

var cmpopNames = [...]string{
	CmpEq:    "Eq",
	CmpNotEq: "NotEq",
	CmpLt:    "Lt",
	CmpLtE:   "LtE",
	CmpGt:    "Gt",
	CmpGtE:   "GtE",
	CmpIs:    "Is",
	CmpIsNot: "IsNot",
	CmpIn:    "In",
	CmpNotIn: "NotIn",
}

func (c Cmpop) String() string { return cmpopNames[c] }

// ExprContext records whether an expression is read, bound or deleted.
type ExprContext int

const (
	Load ExprContext = iota
	Store
	Del
)

func (c ExprContext) String() string {
	switch c {
	case Store:
		return "Store"
	case Del:
		return "Del"
	}
	return "Load"
}

// DoMode tells whether a do-block runs synchronously or is awaited.
type DoMode int

const (
	DoSync DoMode = iota
	DoAsync
)

func (m DoMode) String() string {
	if m == DoAsync {
		return "Async"
	}
	return "Sync"
}
