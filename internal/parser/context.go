package parser

import (
	"fmt"

	"emerald/internal/ast"
)

// setContext marks e as an assignment or deletion target, recursing into
// tuples, lists and starred expressions. Anything that cannot be bound
// aborts the parse.
func (p *Parser) setContext(e *ast.Expr, ctx ast.ExprContext) {
	switch n := e.Node.(type) {
	case *ast.Name:
		if ctx == ast.Store && n.ID == "__debug__" {
			p.failMsg("cannot assign to __debug__", e.Location)
		}
		n.Ctx = ctx
	case *ast.Attribute:
		n.Ctx = ctx
	case *ast.Subscript:
		n.Ctx = ctx
	case *ast.Starred:
		if ctx == ast.Del {
			p.failMsg("cannot delete starred", e.Location)
		}
		n.Ctx = ctx
		p.setContext(n.Value, ctx)
	case *ast.List:
		n.Ctx = ctx
		for _, elt := range n.Elts {
			p.setContext(elt, ctx)
		}
	case *ast.Tuple:
		n.Ctx = ctx
		for _, elt := range n.Elts {
			p.setContext(elt, ctx)
		}
	default:
		verb := "assign to"
		if ctx == ast.Del {
			verb = "delete"
		}
		p.failMsg(fmt.Sprintf("cannot %s %s", verb, describeExpr(e)), e.Location)
	}
}

// describeExpr names an expression kind for target errors.
func describeExpr(e *ast.Expr) string {
	switch e.Node.(type) {
	case *ast.Call:
		return "function call"
	case *ast.Constant:
		return "literal"
	case *ast.BinOp, *ast.UnaryOp, *ast.BoolOp:
		return "operator"
	case *ast.Compare:
		return "comparison"
	case *ast.Lambda:
		return "lambda"
	case *ast.IfExp:
		return "conditional expression"
	case *ast.NamedExpr:
		return "named expression"
	case *ast.Await:
		return "await expression"
	case *ast.Yield, *ast.YieldFrom:
		return "yield expression"
	case *ast.Dict:
		return "dict display"
	case *ast.Set:
		return "set display"
	case *ast.ListComp:
		return "list comprehension"
	case *ast.SetComp:
		return "set comprehension"
	case *ast.DictComp:
		return "dict comprehension"
	case *ast.GeneratorExp:
		return "generator expression"
	case *ast.JoinedStr, *ast.FormattedValue:
		return "f-string expression"
	case *ast.DoBlock, *ast.EndOfBlockMarker:
		return "do block"
	case *ast.Attribute:
		return "attribute"
	case *ast.Subscript:
		return "subscript"
	case *ast.Starred:
		return "starred"
	case *ast.Name:
		return "name"
	case *ast.List:
		return "list"
	case *ast.Tuple:
		return "tuple"
	case *ast.Slice:
		return "slice"
	}
	return "expression"
}
