package parser

import (
	"fmt"

	"emerald/internal/ast"
)

// exprStarters are the tokens that may begin an expression.
var exprStarters = []TokenType{
	NAME, INT, FLOAT, COMPLEX, STRING, BYTES, ELLIPSIS, NONE, TRUE, FALSE,
	LPAR, LSQB, LBRACE, MINUS, PLUS, TILDE, NOT, LAMBDA, AWAIT, STAR,
}

func (p *Parser) atExprStart() bool {
	return p.checkAny(exprStarters...)
}

// parseSequenceItems parses item (',' item)* [','].
func (p *Parser) parseSequenceItems(item func() *ast.Expr) []*ast.Expr {
	elts := []*ast.Expr{item()}
	for p.match(COMMA) {
		if !p.atExprStart() {
			break
		}
		elts = append(elts, item())
	}
	return elts
}

// parseSequence parses a comma-separated list and wraps it in a tuple when
// at least one comma was seen.
func (p *Parser) parseSequence(item func() *ast.Expr) *ast.Expr {
	start := p.peek().Start
	first := item()
	if !p.check(COMMA) {
		return first
	}
	elts := []*ast.Expr{first}
	for p.match(COMMA) {
		if !p.atExprStart() {
			break
		}
		elts = append(elts, item())
	}
	return p.expr(start, &ast.Tuple{Elts: elts, Ctx: ast.Load})
}

func (p *Parser) parseTestList() *ast.Expr {
	return p.parseSequence(p.parseTest)
}

func (p *Parser) parseTestListStarExpr() *ast.Expr {
	return p.parseSequence(p.parseTestOrStar)
}

func (p *Parser) parseTestOrStar() *ast.Expr {
	if p.check(STAR) {
		return p.parseStarExpr()
	}
	return p.parseTest()
}

func (p *Parser) parseStarOrExpr() *ast.Expr {
	if p.check(STAR) {
		return p.parseStarExpr()
	}
	return p.parseExpr()
}

func (p *Parser) parseNamedExprOrStar() *ast.Expr {
	if p.check(STAR) {
		return p.parseStarExpr()
	}
	return p.parseNamedExprTest()
}

func (p *Parser) parseStarExpr() *ast.Expr {
	start := p.consume(STAR).Start
	value := p.parseExpr()
	return p.expr(start, &ast.Starred{Value: value, Ctx: ast.Load})
}

func (p *Parser) parseNamedExprTest() *ast.Expr {
	start := p.peek().Start
	target := p.parseTest()
	if !p.check(COLON_EQUAL) {
		return target
	}
	name, ok := target.Node.(*ast.Name)
	if !ok {
		p.failMsg(fmt.Sprintf("cannot use named assignment with %s", describeExpr(target)), target.Location)
	}
	p.advance()
	name.Ctx = ast.Store
	value := p.parseTest()
	return p.expr(start, &ast.NamedExpr{Target: target, Value: value})
}

func (p *Parser) parseTest() *ast.Expr {
	if p.check(LAMBDA) {
		return p.parseLambda(true)
	}
	start := p.peek().Start
	body := p.parseOrTest()
	if !p.match(IF) {
		return body
	}
	test := p.parseOrTest()
	p.consume(ELSE)
	orelse := p.parseTest()
	return p.expr(start, &ast.IfExp{Test: test, Body: body, Orelse: orelse})
}

func (p *Parser) parseTestNoCond() *ast.Expr {
	if p.check(LAMBDA) {
		return p.parseLambda(false)
	}
	return p.parseOrTest()
}

func (p *Parser) parseLambda(allowConditional bool) *ast.Expr {
	start := p.consume(LAMBDA).Start
	args := p.parseParameters(COLON, false)
	p.consume(COLON)
	var body *ast.Expr
	if allowConditional {
		body = p.parseTest()
	} else {
		body = p.parseTestNoCond()
	}
	return p.expr(start, &ast.Lambda{Args: args, Body: body})
}

func (p *Parser) parseBoolChain(op TokenType, kind ast.Boolop, next func() *ast.Expr) *ast.Expr {
	start := p.peek().Start
	first := next()
	if !p.check(op) {
		return first
	}
	values := []*ast.Expr{first}
	for p.match(op) {
		values = append(values, next())
	}
	return p.expr(start, &ast.BoolOp{Op: kind, Values: values})
}

func (p *Parser) parseOrTest() *ast.Expr {
	return p.parseBoolChain(OR, ast.BoolOr, p.parseAndTest)
}

func (p *Parser) parseAndTest() *ast.Expr {
	return p.parseBoolChain(AND, ast.BoolAnd, p.parseNotTest)
}

func (p *Parser) parseNotTest() *ast.Expr {
	if p.check(NOT) {
		start := p.advance().Start
		operand := p.parseNotTest()
		return p.expr(start, &ast.UnaryOp{Op: ast.UnaryNot, Operand: operand})
	}
	return p.parseComparison()
}

var comparisonOps = map[TokenType]ast.Cmpop{
	LESS:          ast.CmpLt,
	GREATER:       ast.CmpGt,
	EQ_EQUAL:      ast.CmpEq,
	NOT_EQUAL:     ast.CmpNotEq,
	LESS_EQUAL:    ast.CmpLtE,
	GREATER_EQUAL: ast.CmpGtE,
	IN:            ast.CmpIn,
}

func (p *Parser) matchComparisonOp() (ast.Cmpop, bool) {
	if op, ok := comparisonOps[p.peek().Tok.Type]; ok {
		p.advance()
		return op, true
	}
	switch {
	case p.match(NOT):
		p.consume(IN)
		return ast.CmpNotIn, true
	case p.match(IS):
		if p.match(NOT) {
			return ast.CmpIsNot, true
		}
		return ast.CmpIs, true
	}
	return 0, false
}

func (p *Parser) parseComparison() *ast.Expr {
	start := p.peek().Start
	left := p.parseExpr()
	var ops []ast.Cmpop
	var comparators []*ast.Expr
	for {
		op, ok := p.matchComparisonOp()
		if !ok {
			break
		}
		ops = append(ops, op)
		comparators = append(comparators, p.parseExpr())
	}
	if len(ops) == 0 {
		return left
	}
	return p.expr(start, &ast.Compare{Left: left, Ops: ops, Comparators: comparators})
}

// parseBinary parses a left-associative chain of the operators in ops.
func (p *Parser) parseBinary(ops map[TokenType]ast.Operator, next func() *ast.Expr) *ast.Expr {
	start := p.peek().Start
	left := next()
	for {
		op, ok := ops[p.peek().Tok.Type]
		if !ok {
			return left
		}
		p.advance()
		right := next()
		left = p.expr(start, &ast.BinOp{Left: left, Op: op, Right: right})
	}
}

var (
	bitOrOps  = map[TokenType]ast.Operator{VBAR: ast.OpBitOr}
	bitXorOps = map[TokenType]ast.Operator{CIRCUMFLEX: ast.OpBitXor}
	bitAndOps = map[TokenType]ast.Operator{AMPER: ast.OpBitAnd}
	shiftOps  = map[TokenType]ast.Operator{LEFT_SHIFT: ast.OpLShift, RIGHT_SHIFT: ast.OpRShift}
	arithOps  = map[TokenType]ast.Operator{PLUS: ast.OpAdd, MINUS: ast.OpSub}
	termOps   = map[TokenType]ast.Operator{
		STAR:         ast.OpMult,
		AT:           ast.OpMatMult,
		SLASH:        ast.OpDiv,
		PERCENT:      ast.OpMod,
		DOUBLE_SLASH: ast.OpFloorDiv,
	}
	unaryOps = map[TokenType]ast.Unaryop{PLUS: ast.UnaryAdd, MINUS: ast.UnarySub, TILDE: ast.UnaryInvert}
)

// parseExpr parses a bitwise-or expression, the operand level of
// comparisons.
func (p *Parser) parseExpr() *ast.Expr {
	return p.parseBinary(bitOrOps, p.parseXorExpr)
}

func (p *Parser) parseXorExpr() *ast.Expr {
	return p.parseBinary(bitXorOps, p.parseAndExpr)
}

func (p *Parser) parseAndExpr() *ast.Expr {
	return p.parseBinary(bitAndOps, p.parseShiftExpr)
}

func (p *Parser) parseShiftExpr() *ast.Expr {
	return p.parseBinary(shiftOps, p.parseArithExpr)
}

func (p *Parser) parseArithExpr() *ast.Expr {
	return p.parseBinary(arithOps, p.parseTerm)
}

func (p *Parser) parseTerm() *ast.Expr {
	return p.parseBinary(termOps, p.parseFactor)
}

func (p *Parser) parseFactor() *ast.Expr {
	if op, ok := unaryOps[p.peek().Tok.Type]; ok {
		start := p.advance().Start
		operand := p.parseFactor()
		return p.expr(start, &ast.UnaryOp{Op: op, Operand: operand})
	}
	return p.parsePower()
}

// parsePower is right-associative through parseFactor.
func (p *Parser) parsePower() *ast.Expr {
	start := p.peek().Start
	base := p.parseAtomExpr()
	if !p.match(DOUBLE_STAR) {
		return base
	}
	exponent := p.parseFactor()
	return p.expr(start, &ast.BinOp{Left: base, Op: ast.OpPow, Right: exponent})
}

func (p *Parser) parseAtomExpr() *ast.Expr {
	start := p.peek().Start
	if p.match(AWAIT) {
		value := p.parseTrailers(p.parseAtom())
		return p.expr(start, &ast.Await{Value: value})
	}
	return p.parseTrailers(p.parseAtom())
}

func (p *Parser) parseTrailers(e *ast.Expr) *ast.Expr {
	start := e.Location
	for {
		switch {
		case p.match(LPAR):
			args, keywords := p.parseArgList(RPAR)
			p.consume(RPAR)
			e = p.expr(start, &ast.Call{Func: e, Args: args, Keywords: keywords})
		case p.match(LSQB):
			slice := p.parseSubscriptList()
			p.consume(RSQB)
			e = p.expr(start, &ast.Subscript{Value: e, Slice: slice, Ctx: ast.Load})
		case p.match(DOT):
			attr := p.consume(NAME).Tok.Value
			e = p.expr(start, &ast.Attribute{Value: e, Attr: attr, Ctx: ast.Load})
		default:
			return e
		}
	}
}

func (p *Parser) parseSubscriptList() *ast.Expr {
	start := p.peek().Start
	first := p.parseSubscript()
	if !p.check(COMMA) {
		return first
	}
	elts := []*ast.Expr{first}
	for p.match(COMMA) {
		if p.check(RSQB) {
			break
		}
		elts = append(elts, p.parseSubscript())
	}
	return p.expr(start, &ast.Tuple{Elts: elts, Ctx: ast.Load})
}

func (p *Parser) parseSubscript() *ast.Expr {
	start := p.peek().Start
	var lower *ast.Expr
	if !p.check(COLON) {
		lower = p.parseTest()
		if !p.check(COLON) {
			return lower
		}
	}
	p.consume(COLON)

	slice := &ast.Slice{Lower: lower}
	if !p.checkAny(COLON, COMMA, RSQB) {
		slice.Upper = p.parseTest()
	}
	if p.match(COLON) && !p.checkAny(COMMA, RSQB) {
		slice.Step = p.parseTest()
	}
	return p.expr(start, slice)
}

func (p *Parser) parseAtom() *ast.Expr {
	tok := p.peek()
	start := tok.Start

	switch tok.Tok.Type {
	case NAME:
		p.advance()
		return p.expr(start, &ast.Name{ID: tok.Tok.Value, Ctx: ast.Load})
	case INT, FLOAT, COMPLEX:
		p.advance()
		return p.expr(start, &ast.Constant{Value: tok.Tok.Number})
	case STRING, BYTES:
		return p.parseStrings()
	case ELLIPSIS:
		p.advance()
		return p.expr(start, &ast.Constant{Value: ast.ConstEllipsis{}})
	case NONE:
		p.advance()
		return p.expr(start, &ast.Constant{Value: ast.ConstNone{}})
	case TRUE, FALSE:
		p.advance()
		return p.expr(start, &ast.Constant{Value: ast.ConstBool(tok.Tok.Type == TRUE)})
	case LPAR:
		return p.parseParenthesized()
	case LSQB:
		return p.parseListDisplay()
	case LBRACE:
		return p.parseDictOrSet()
	}
	p.unexpected()
	return nil
}

func (p *Parser) atComprehension() bool {
	return p.checkAny(FOR, ASYNC)
}

func (p *Parser) parseParenthesized() *ast.Expr {
	start := p.consume(LPAR).Start
	if p.match(RPAR) {
		return p.expr(start, &ast.Tuple{Ctx: ast.Load})
	}
	if p.check(YIELD) {
		value := p.parseYieldExpr()
		p.consume(RPAR)
		return value
	}

	first := p.parseNamedExprOrStar()
	if p.atComprehension() {
		generators := p.parseComprehension()
		p.consume(RPAR)
		return p.expr(start, &ast.GeneratorExp{Elt: first, Generators: generators})
	}
	if !p.check(COMMA) {
		p.consume(RPAR)
		return first
	}

	elts := []*ast.Expr{first}
	for p.match(COMMA) {
		if p.check(RPAR) {
			break
		}
		elts = append(elts, p.parseNamedExprOrStar())
	}
	p.consume(RPAR)
	return p.expr(start, &ast.Tuple{Elts: elts, Ctx: ast.Load})
}

func (p *Parser) parseListDisplay() *ast.Expr {
	start := p.consume(LSQB).Start
	if p.match(RSQB) {
		return p.expr(start, &ast.List{Ctx: ast.Load})
	}

	first := p.parseNamedExprOrStar()
	if p.atComprehension() {
		generators := p.parseComprehension()
		p.consume(RSQB)
		return p.expr(start, &ast.ListComp{Elt: first, Generators: generators})
	}

	elts := []*ast.Expr{first}
	for p.match(COMMA) {
		if p.check(RSQB) {
			break
		}
		elts = append(elts, p.parseNamedExprOrStar())
	}
	p.consume(RSQB)
	return p.expr(start, &ast.List{Elts: elts, Ctx: ast.Load})
}

func (p *Parser) parseDictOrSet() *ast.Expr {
	start := p.consume(LBRACE).Start
	if p.match(RBRACE) {
		return p.expr(start, &ast.Dict{})
	}

	if p.match(DOUBLE_STAR) {
		return p.parseDictEntries(start, nil, p.parseExpr())
	}

	first := p.parseNamedExprOrStar()
	if p.match(COLON) {
		value := p.parseTest()
		if p.atComprehension() {
			generators := p.parseComprehension()
			p.consume(RBRACE)
			return p.expr(start, &ast.DictComp{Key: first, Value: value, Generators: generators})
		}
		return p.parseDictEntries(start, first, value)
	}

	if p.atComprehension() {
		generators := p.parseComprehension()
		p.consume(RBRACE)
		return p.expr(start, &ast.SetComp{Elt: first, Generators: generators})
	}

	elts := []*ast.Expr{first}
	for p.match(COMMA) {
		if p.check(RBRACE) {
			break
		}
		elts = append(elts, p.parseNamedExprOrStar())
	}
	p.consume(RBRACE)
	return p.expr(start, &ast.Set{Elts: elts})
}

// parseDictEntries continues a dict display after its first entry. A nil
// key marks a `**mapping` entry.
func (p *Parser) parseDictEntries(start ast.Location, key, value *ast.Expr) *ast.Expr {
	dict := &ast.Dict{Keys: []*ast.Expr{key}, Values: []*ast.Expr{value}}
	for p.match(COMMA) {
		if p.check(RBRACE) {
			break
		}
		if p.match(DOUBLE_STAR) {
			dict.Keys = append(dict.Keys, nil)
			dict.Values = append(dict.Values, p.parseExpr())
			continue
		}
		key := p.parseTest()
		p.consume(COLON)
		dict.Keys = append(dict.Keys, key)
		dict.Values = append(dict.Values, p.parseTest())
	}
	p.consume(RBRACE)
	return p.expr(start, dict)
}

func (p *Parser) parseComprehension() []*ast.Comprehension {
	var generators []*ast.Comprehension
	for p.atComprehension() {
		isAsync := p.match(ASYNC)
		p.consume(FOR)
		target := p.parseSequence(p.parseStarOrExpr)
		p.setContext(target, ast.Store)
		p.consume(IN)
		gen := &ast.Comprehension{Target: target, Iter: p.parseOrTest(), IsAsync: isAsync}
		for p.match(IF) {
			gen.Ifs = append(gen.Ifs, p.parseTestNoCond())
		}
		generators = append(generators, gen)
	}
	return generators
}

func (p *Parser) parseYieldExpr() *ast.Expr {
	start := p.consume(YIELD).Start
	if p.match(FROM) {
		value := p.parseTest()
		return p.expr(start, &ast.YieldFrom{Value: value})
	}
	var value *ast.Expr
	if p.atExprStart() {
		value = p.parseTestListStarExpr()
	}
	return p.expr(start, &ast.Yield{Value: value})
}
