package ast

// Mod is the root produced by a single parse. The variant depends on the
// parse mode.
//
//sumtype:decl
type Mod interface {
	isMod()
}

// Module is the result of parsing a whole file.
type Module struct {
	Body Suite
}

// Interactive is the result of parsing one interactive input.
type Interactive struct {
	Body Suite
}

// Expression is the result of parsing a single expression.
type Expression struct {
	Body *Expr
}

func (*Module) isMod()      {}
func (*Interactive) isMod() {}
func (*Expression) isMod()  {}

// Node is any located tree element.
type Node interface {
	Start() Location
	End() (Location, bool)
}

// Suite is an ordered sequence of statements forming a block body.
type Suite []*Stmt

// Stmt is a located statement. Custom is free for later compiler passes;
// the parser never reads or writes it.
type Stmt struct {
	Span
	Custom any
	Node   StmtKind
}

// Expr is a located expression. Custom is free for later compiler passes.
type Expr struct {
	Span
	Custom any
	Node   ExprKind
}

func NewStmt(start, end Location, node StmtKind) *Stmt {
	return &Stmt{Span: NewSpan(start, end), Node: node}
}

func NewExpr(start, end Location, node ExprKind) *Expr {
	return &Expr{Span: NewSpan(start, end), Node: node}
}

// Arguments are the parameters of a function definition or lambda.
// KwDefaults lines up with Kwonlyargs and holds nil where a keyword-only
// parameter has no default. Defaults lines up with the tail of
// Posonlyargs+Args.
type Arguments struct {
	Posonlyargs []*Arg
	Args        []*Arg
	Vararg      *Arg
	Kwonlyargs  []*Arg
	KwDefaults  []*Expr
	Kwarg       *Arg
	Defaults    []*Expr
}

// Arg is a single parameter.
type Arg struct {
	Span
	Custom     any
	Arg        string
	Annotation *Expr
}

// Keyword is a keyword argument in a call or class definition. An empty Arg
// is a `**mapping` spread.
type Keyword struct {
	Span
	Custom any
	Arg    string
	Value  *Expr
}

// Alias is one name in an import statement.
type Alias struct {
	Span
	Name   string
	Asname string
}

// Withitem is one context manager of a with statement.
type Withitem struct {
	ContextExpr  *Expr
	OptionalVars *Expr
}

// Comprehension is one `for ... in ... if ...` clause.
type Comprehension struct {
	Target  *Expr
	Iter    *Expr
	Ifs     []*Expr
	IsAsync bool
}

// ExceptHandler is one except clause of a try statement. Type and Name are
// empty for a bare `except:`.
type ExceptHandler struct {
	Span
	Custom any
	Type   *Expr
	Name   string
	Body   Suite
}
