package parser

import (
	"emerald/internal/ast"
)

// RightmostExpression finds where a block trailing stmt attaches and calls
// apply on it. Only expression statements, returns with a value and
// assignments accept a block; for assignments only the value is searched.
// It reports whether apply was called.
func RightmostExpression(stmt *ast.Stmt, apply func(*ast.Expr)) bool {
	return rightmostExpression(stmt, apply, nil)
}

// RightmostOperand descends into the operand that ends e: the right side of
// a binary operator, the last value of a boolean chain, the operand of a
// unary operator. Any other expression is itself the attachment point.
func RightmostOperand(e *ast.Expr, apply func(*ast.Expr)) bool {
	return rightmostOperand(e, apply, nil)
}

// LeftmostOperand descends into the operand that starts e: the left side of
// a binary operator or comparison, the callee of a call, the object of an
// attribute access or subscript. Boolean chains descend into their last
// value.
func LeftmostOperand(e *ast.Expr, apply func(*ast.Expr)) bool {
	if e == nil {
		return false
	}
	switch n := e.Node.(type) {
	case *ast.BoolOp:
		return LeftmostOperand(n.Values[len(n.Values)-1], apply)
	case *ast.BinOp:
		return LeftmostOperand(n.Left, apply)
	case *ast.Compare:
		return LeftmostOperand(n.Left, apply)
	case *ast.Call:
		return LeftmostOperand(n.Func, apply)
	case *ast.Attribute:
		return LeftmostOperand(n.Value, apply)
	case *ast.Subscript:
		return LeftmostOperand(n.Value, apply)
	}
	apply(e)
	return true
}

// rightmostExpression is RightmostExpression that also reports every
// expression on the way down to enter.
func rightmostExpression(stmt *ast.Stmt, apply, enter func(*ast.Expr)) bool {
	switch n := stmt.Node.(type) {
	case *ast.ExprStmt:
		return rightmostOperand(n.Value, apply, enter)
	case *ast.Return:
		return rightmostOperand(n.Value, apply, enter)
	case *ast.Assign:
		return rightmostOperand(n.Value, apply, enter)
	}
	return false
}

func rightmostOperand(e *ast.Expr, apply, enter func(*ast.Expr)) bool {
	if e == nil {
		return false
	}
	if enter != nil {
		enter(e)
	}
	switch n := e.Node.(type) {
	case *ast.BinOp:
		return rightmostOperand(n.Right, apply, enter)
	case *ast.BoolOp:
		return rightmostOperand(n.Values[len(n.Values)-1], apply, enter)
	case *ast.UnaryOp:
		return rightmostOperand(n.Operand, apply, enter)
	}
	apply(e)
	return true
}

// attachMarker makes point a call carrying marker as its last positional
// argument, wrapping point in a new call when it is not one already.
func attachMarker(point, marker *ast.Expr) {
	if call, ok := point.Node.(*ast.Call); ok {
		call.Args = append(call.Args, marker)
		return
	}
	callee := *point
	point.Node = &ast.Call{Func: &callee, Args: []*ast.Expr{marker}}
	point.Custom = nil
}

// parseDoBlock parses `['async'] 'do' ':' suite` after stmt and splices the
// block into the expression it belongs to.
func (p *Parser) parseDoBlock(stmt *ast.Stmt) *ast.Stmt {
	doTok := p.peek()
	mode := ast.DoSync
	if p.match(ASYNC) {
		mode = ast.DoAsync
	}
	p.consume(DO)

	marker := p.expr(doTok.Start, &ast.EndOfBlockMarker{})
	var path []*ast.Expr
	attached := rightmostExpression(stmt, func(point *ast.Expr) {
		attachMarker(point, marker)
	}, func(e *ast.Expr) {
		path = append(path, e)
	})
	if !attached {
		panic(&engineError{kind: engineUnrecognizedToken, token: doTok})
	}

	p.consume(COLON)
	body := p.parseSuite()
	end := suiteEnd(body)

	marker.Node = &ast.DoBlock{Body: body, Mode: mode}
	marker.Span = ast.NewSpan(marker.Location, end)
	for _, e := range path {
		e.Span = ast.NewSpan(e.Location, end)
	}
	stmt.Span = ast.NewSpan(stmt.Location, end)
	return stmt
}
