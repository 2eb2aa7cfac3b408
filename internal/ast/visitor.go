package ast

// Visitor is called by Walk for each located node. If Visit returns nil the
// children of node are skipped; otherwise Walk descends with the returned
// visitor and calls Visit(nil) when done.
type Visitor interface {
	Visit(node Node) Visitor
}

// Walk traverses the tree rooted at node in source order.
func Walk(v Visitor, node Node) {
	if v = v.Visit(node); v == nil {
		return
	}

	switch n := node.(type) {
	case *Stmt:
		walkStmt(v, n)
	case *Expr:
		walkExpr(v, n)
	case *Arg:
		walkExprOpt(v, n.Annotation)
	case *Keyword:
		Walk(v, n.Value)
	case *ExceptHandler:
		walkExprOpt(v, n.Type)
		walkSuite(v, n.Body)
	case *Alias:
	}

	v.Visit(nil)
}

// WalkMod traverses every top-level node of a parse result.
func WalkMod(v Visitor, mod Mod) {
	switch m := mod.(type) {
	case *Module:
		walkSuite(v, m.Body)
	case *Interactive:
		walkSuite(v, m.Body)
	case *Expression:
		walkExprOpt(v, m.Body)
	}
}

type inspector func(Node) bool

func (f inspector) Visit(node Node) Visitor {
	if node != nil && f(node) {
		return f
	}
	return nil
}

// Inspect calls f for every node in depth-first order, stopping descent
// below any node for which f returns false.
func Inspect(node Node, f func(Node) bool) {
	Walk(inspector(f), node)
}

// InspectMod is Inspect over a parse result.
func InspectMod(mod Mod, f func(Node) bool) {
	WalkMod(inspector(f), mod)
}

func walkSuite(v Visitor, body Suite) {
	for _, s := range body {
		Walk(v, s)
	}
}

func walkExprs(v Visitor, exprs []*Expr) {
	for _, e := range exprs {
		walkExprOpt(v, e)
	}
}

func walkExprOpt(v Visitor, e *Expr) {
	if e != nil {
		Walk(v, e)
	}
}

func walkKeywords(v Visitor, kws []*Keyword) {
	for _, k := range kws {
		Walk(v, k)
	}
}

func walkArguments(v Visitor, a *Arguments) {
	if a == nil {
		return
	}
	for _, arg := range a.Posonlyargs {
		Walk(v, arg)
	}
	for _, arg := range a.Args {
		Walk(v, arg)
	}
	if a.Vararg != nil {
		Walk(v, a.Vararg)
	}
	for _, arg := range a.Kwonlyargs {
		Walk(v, arg)
	}
	walkExprs(v, a.KwDefaults)
	if a.Kwarg != nil {
		Walk(v, a.Kwarg)
	}
	walkExprs(v, a.Defaults)
}

func walkComprehensions(v Visitor, gens []*Comprehension) {
	for _, g := range gens {
		Walk(v, g.Target)
		Walk(v, g.Iter)
		walkExprs(v, g.Ifs)
	}
}

func walkStmt(v Visitor, s *Stmt) {
	switch n := s.Node.(type) {
	case *FunctionDef:
		walkExprs(v, n.DecoratorList)
		walkArguments(v, n.Args)
		walkExprOpt(v, n.Returns)
		walkSuite(v, n.Body)
	case *AsyncFunctionDef:
		walkExprs(v, n.DecoratorList)
		walkArguments(v, n.Args)
		walkExprOpt(v, n.Returns)
		walkSuite(v, n.Body)
	case *ClassDef:
		walkExprs(v, n.DecoratorList)
		walkExprs(v, n.Bases)
		walkKeywords(v, n.Keywords)
		walkSuite(v, n.Body)
	case *Return:
		walkExprOpt(v, n.Value)
	case *Delete:
		walkExprs(v, n.Targets)
	case *Assign:
		walkExprs(v, n.Targets)
		Walk(v, n.Value)
	case *AugAssign:
		Walk(v, n.Target)
		Walk(v, n.Value)
	case *AnnAssign:
		Walk(v, n.Target)
		Walk(v, n.Annotation)
		walkExprOpt(v, n.Value)
	case *For:
		Walk(v, n.Target)
		Walk(v, n.Iter)
		walkSuite(v, n.Body)
		walkSuite(v, n.Orelse)
	case *AsyncFor:
		Walk(v, n.Target)
		Walk(v, n.Iter)
		walkSuite(v, n.Body)
		walkSuite(v, n.Orelse)
	case *While:
		Walk(v, n.Test)
		walkSuite(v, n.Body)
		walkSuite(v, n.Orelse)
	case *If:
		Walk(v, n.Test)
		walkSuite(v, n.Body)
		walkSuite(v, n.Orelse)
	case *With:
		for _, item := range n.Items {
			Walk(v, item.ContextExpr)
			walkExprOpt(v, item.OptionalVars)
		}
		walkSuite(v, n.Body)
	case *AsyncWith:
		for _, item := range n.Items {
			Walk(v, item.ContextExpr)
			walkExprOpt(v, item.OptionalVars)
		}
		walkSuite(v, n.Body)
	case *Raise:
		walkExprOpt(v, n.Exc)
		walkExprOpt(v, n.Cause)
	case *Try:
		walkSuite(v, n.Body)
		for _, h := range n.Handlers {
			Walk(v, h)
		}
		walkSuite(v, n.Orelse)
		walkSuite(v, n.Finalbody)
	case *Assert:
		Walk(v, n.Test)
		walkExprOpt(v, n.Msg)
	case *Import:
		for _, a := range n.Names {
			Walk(v, a)
		}
	case *ImportFrom:
		for _, a := range n.Names {
			Walk(v, a)
		}
	case *ExprStmt:
		Walk(v, n.Value)
	case *Global, *Nonlocal, *Pass, *Break, *Continue:
	}
}

func walkExpr(v Visitor, e *Expr) {
	switch n := e.Node.(type) {
	case *BoolOp:
		walkExprs(v, n.Values)
	case *NamedExpr:
		Walk(v, n.Target)
		Walk(v, n.Value)
	case *BinOp:
		Walk(v, n.Left)
		Walk(v, n.Right)
	case *UnaryOp:
		Walk(v, n.Operand)
	case *Lambda:
		walkArguments(v, n.Args)
		Walk(v, n.Body)
	case *IfExp:
		Walk(v, n.Body)
		Walk(v, n.Test)
		Walk(v, n.Orelse)
	case *Dict:
		for i, val := range n.Values {
			walkExprOpt(v, n.Keys[i])
			Walk(v, val)
		}
	case *Set:
		walkExprs(v, n.Elts)
	case *ListComp:
		Walk(v, n.Elt)
		walkComprehensions(v, n.Generators)
	case *SetComp:
		Walk(v, n.Elt)
		walkComprehensions(v, n.Generators)
	case *DictComp:
		Walk(v, n.Key)
		Walk(v, n.Value)
		walkComprehensions(v, n.Generators)
	case *GeneratorExp:
		Walk(v, n.Elt)
		walkComprehensions(v, n.Generators)
	case *Await:
		Walk(v, n.Value)
	case *Yield:
		walkExprOpt(v, n.Value)
	case *YieldFrom:
		Walk(v, n.Value)
	case *Compare:
		Walk(v, n.Left)
		walkExprs(v, n.Comparators)
	case *Call:
		Walk(v, n.Func)
		walkExprs(v, n.Args)
		walkKeywords(v, n.Keywords)
	case *FormattedValue:
		Walk(v, n.Value)
		walkExprOpt(v, n.FormatSpec)
	case *JoinedStr:
		walkExprs(v, n.Values)
	case *Attribute:
		Walk(v, n.Value)
	case *Subscript:
		Walk(v, n.Value)
		Walk(v, n.Slice)
	case *Starred:
		Walk(v, n.Value)
	case *List:
		walkExprs(v, n.Elts)
	case *Tuple:
		walkExprs(v, n.Elts)
	case *Slice:
		walkExprOpt(v, n.Lower)
		walkExprOpt(v, n.Upper)
		walkExprOpt(v, n.Step)
	case *DoBlock:
		walkSuite(v, n.Body)
	case *Constant, *Name, *EndOfBlockMarker:
	}
}
