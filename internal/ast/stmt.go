package ast

// StmtKind is the closed set of statement variants.
//
//sumtype:decl
type StmtKind interface {
	isStmtKind()
}

type FunctionDef struct {
	Name          string
	Args          *Arguments
	Body          Suite
	DecoratorList []*Expr
	Returns       *Expr
}

type AsyncFunctionDef struct {
	Name          string
	Args          *Arguments
	Body          Suite
	DecoratorList []*Expr
	Returns       *Expr
}

// ClassDef holds the base classes from either a parenthesized list or an
// `extends` clause.
type ClassDef struct {
	Name          string
	Bases         []*Expr
	Keywords      []*Keyword
	Body          Suite
	DecoratorList []*Expr
}

type Return struct {
	Value *Expr
}

type Delete struct {
	Targets []*Expr
}

type Assign struct {
	Targets []*Expr
	Value   *Expr
}

type AugAssign struct {
	Target *Expr
	Op     Operator
	Value  *Expr
}

type AnnAssign struct {
	Target     *Expr
	Annotation *Expr
	Value      *Expr
	Simple     bool
}

type For struct {
	Target *Expr
	Iter   *Expr
	Body   Suite
	Orelse Suite
}

type AsyncFor struct {
	Target *Expr
	Iter   *Expr
	Body   Suite
	Orelse Suite
}

type While struct {
	Test   *Expr
	Body   Suite
	Orelse Suite
}

type If struct {
	Test   *Expr
	Body   Suite
	Orelse Suite
}

type With struct {
	Items []*Withitem
	Body  Suite
}

type AsyncWith struct {
	Items []*Withitem
	Body  Suite
}

type Raise struct {
	Exc   *Expr
	Cause *Expr
}

type Try struct {
	Body      Suite
	Handlers  []*ExceptHandler
	Orelse    Suite
	Finalbody Suite
}

type Assert struct {
	Test *Expr
	Msg  *Expr
}

type Import struct {
	Names []*Alias
}

// ImportFrom has an empty Module for `from . import x`.
type ImportFrom struct {
	Module string
	Names  []*Alias
	Level  int
}

type Global struct {
	Names []string
}

type Nonlocal struct {
	Names []string
}

// ExprStmt is an expression evaluated for its side effects.
type ExprStmt struct {
	Value *Expr
}

type Pass struct{}

type Break struct{}

type Continue struct{}

func (*FunctionDef) isStmtKind()      {}
func (*AsyncFunctionDef) isStmtKind() {}
func (*ClassDef) isStmtKind()         {}
func (*Return) isStmtKind()           {}
func (*Delete) isStmtKind()           {}
func (*Assign) isStmtKind()           {}
func (*AugAssign) isStmtKind()        {}
func (*AnnAssign) isStmtKind()        {}
func (*For) isStmtKind()              {}
func (*AsyncFor) isStmtKind()         {}
func (*While) isStmtKind()            {}
func (*If) isStmtKind()               {}
func (*With) isStmtKind()             {}
func (*AsyncWith) isStmtKind()        {}
func (*Raise) isStmtKind()            {}
func (*Try) isStmtKind()              {}
func (*Assert) isStmtKind()           {}
func (*Import) isStmtKind()           {}
func (*ImportFrom) isStmtKind()       {}
func (*Global) isStmtKind()           {}
func (*Nonlocal) isStmtKind()         {}
func (*ExprStmt) isStmtKind()         {}
func (*Pass) isStmtKind()             {}
func (*Break) isStmtKind()            {}
func (*Continue) isStmtKind()         {}
