package ast

// ExprKind is the closed set of expression variants.
//
//sumtype:decl
type ExprKind interface {
	isExprKind()
}

type BoolOp struct {
	Op     Boolop
	Values []*Expr
}

// NamedExpr is the in-place binding `target := value`.
type NamedExpr struct {
	Target *Expr
	Value  *Expr
}

type BinOp struct {
	Left  *Expr
	Op    Operator
	Right *Expr
}

type UnaryOp struct {
	Op      Unaryop
	Operand *Expr
}

type Lambda struct {
	Args *Arguments
	Body *Expr
}

// IfExp is the conditional expression `body if test else orelse`.
type IfExp struct {
	Test   *Expr
	Body   *Expr
	Orelse *Expr
}

// Dict has a nil key for every `**mapping` entry.
type Dict struct {
	Keys   []*Expr
	Values []*Expr
}

type Set struct {
	Elts []*Expr
}

type ListComp struct {
	Elt        *Expr
	Generators []*Comprehension
}

type SetComp struct {
	Elt        *Expr
	Generators []*Comprehension
}

type DictComp struct {
	Key        *Expr
	Value      *Expr
	Generators []*Comprehension
}

type GeneratorExp struct {
	Elt        *Expr
	Generators []*Comprehension
}

type Await struct {
	Value *Expr
}

type Yield struct {
	Value *Expr
}

type YieldFrom struct {
	Value *Expr
}

// Compare is a comparison chain; Ops and Comparators have equal length.
type Compare struct {
	Left        *Expr
	Ops         []Cmpop
	Comparators []*Expr
}

type Call struct {
	Func     *Expr
	Args     []*Expr
	Keywords []*Keyword
}

// FormattedValue is one replacement field of a formatted string.
type FormattedValue struct {
	Value      *Expr
	Conversion ConversionFlag
	FormatSpec *Expr
}

// JoinedStr aggregates the literal and replacement parts of adjacent
// string literals when at least one of them is formatted.
type JoinedStr struct {
	Values []*Expr
}

// Constant is a literal. Kind is "u" for u-prefixed strings and empty
// otherwise.
type Constant struct {
	Value ConstantValue
	Kind  string
}

type Attribute struct {
	Value *Expr
	Attr  string
	Ctx   ExprContext
}

type Subscript struct {
	Value *Expr
	Slice *Expr
	Ctx   ExprContext
}

type Starred struct {
	Value *Expr
	Ctx   ExprContext
}

type Name struct {
	ID  string
	Ctx ExprContext
}

type List struct {
	Elts []*Expr
	Ctx  ExprContext
}

type Tuple struct {
	Elts []*Expr
	Ctx  ExprContext
}

type Slice struct {
	Lower *Expr
	Upper *Expr
	Step  *Expr
}

// DoBlock is a block attached to the tail of a statement with `do:`.
type DoBlock struct {
	Body Suite
	Mode DoMode
}

// EndOfBlockMarker stands in for a DoBlock while the block is being
// attached. It never survives in a tree returned by the parser.
type EndOfBlockMarker struct{}

func (*BoolOp) isExprKind()           {}
func (*NamedExpr) isExprKind()        {}
func (*BinOp) isExprKind()            {}
func (*UnaryOp) isExprKind()          {}
func (*Lambda) isExprKind()           {}
func (*IfExp) isExprKind()            {}
func (*Dict) isExprKind()             {}
func (*Set) isExprKind()              {}
func (*ListComp) isExprKind()         {}
func (*SetComp) isExprKind()          {}
func (*DictComp) isExprKind()         {}
func (*GeneratorExp) isExprKind()     {}
func (*Await) isExprKind()            {}
func (*Yield) isExprKind()            {}
func (*YieldFrom) isExprKind()        {}
func (*Compare) isExprKind()          {}
func (*Call) isExprKind()             {}
func (*FormattedValue) isExprKind()   {}
func (*JoinedStr) isExprKind()        {}
func (*Constant) isExprKind()         {}
func (*Attribute) isExprKind()        {}
func (*Subscript) isExprKind()        {}
func (*Starred) isExprKind()          {}
func (*Name) isExprKind()             {}
func (*List) isExprKind()             {}
func (*Tuple) isExprKind()            {}
func (*Slice) isExprKind()            {}
func (*DoBlock) isExprKind()          {}
func (*EndOfBlockMarker) isExprKind() {}
