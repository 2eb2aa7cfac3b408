package parser

import (
	"emerald/internal/ast"
)

var augmentedOps = map[TokenType]ast.Operator{
	PLUS_EQUAL:         ast.OpAdd,
	MINUS_EQUAL:        ast.OpSub,
	STAR_EQUAL:         ast.OpMult,
	AT_EQUAL:           ast.OpMatMult,
	SLASH_EQUAL:        ast.OpDiv,
	PERCENT_EQUAL:      ast.OpMod,
	AMPER_EQUAL:        ast.OpBitAnd,
	VBAR_EQUAL:         ast.OpBitOr,
	CIRCUMFLEX_EQUAL:   ast.OpBitXor,
	LEFT_SHIFT_EQUAL:   ast.OpLShift,
	RIGHT_SHIFT_EQUAL:  ast.OpRShift,
	DOUBLE_STAR_EQUAL:  ast.OpPow,
	DOUBLE_SLASH_EQUAL: ast.OpFloorDiv,
}

// parseStatement parses one statement. A line of semicolon-separated
// simple statements yields several.
func (p *Parser) parseStatement() []*ast.Stmt {
	switch p.peek().Tok.Type {
	case IF:
		return []*ast.Stmt{p.parseIfStatement()}
	case WHILE:
		return []*ast.Stmt{p.parseWhileStatement()}
	case FOR:
		return []*ast.Stmt{p.parseForStatement(p.peek().Start, false)}
	case TRY:
		return []*ast.Stmt{p.parseTryStatement()}
	case WITH:
		return []*ast.Stmt{p.parseWithStatement(p.peek().Start, false)}
	case DEF:
		return []*ast.Stmt{p.parseFunctionDef(p.peek().Start, nil, false)}
	case CLASS:
		return []*ast.Stmt{p.parseClassDef(p.peek().Start, nil)}
	case AT:
		return []*ast.Stmt{p.parseDecorated()}
	case ASYNC:
		return []*ast.Stmt{p.parseAsyncStatement(nil)}
	}
	return p.parseSimpleStatement()
}

// parseSimpleStatement parses small statements up to the end of the line,
// or a single small statement carrying a do-block.
func (p *Parser) parseSimpleStatement() []*ast.Stmt {
	first := p.parseSmallStatement()
	if p.checkAny(DO, ASYNC) {
		return []*ast.Stmt{p.parseDoBlock(first)}
	}

	stmts := []*ast.Stmt{first}
	for p.match(SEMI) {
		if p.checkAny(NEWLINE, END_OF_FILE) {
			break
		}
		stmts = append(stmts, p.parseSmallStatement())
	}
	p.consume(NEWLINE)
	return stmts
}

// parseSuite parses a block body: either the rest of the line or an
// indented run of statements.
func (p *Parser) parseSuite() ast.Suite {
	if !p.match(NEWLINE) {
		return p.parseSimpleStatement()
	}
	p.consume(INDENT)
	var body ast.Suite
	for {
		body = append(body, p.parseStatement()...)
		if p.match(DEDENT) {
			return body
		}
	}
}

// atStatementEnd reports whether the lookahead closes a small statement.
func (p *Parser) atStatementEnd() bool {
	return p.checkAny(NEWLINE, SEMI, END_OF_FILE, DO, ASYNC)
}

func (p *Parser) parseSmallStatement() *ast.Stmt {
	start := p.peek().Start

	switch p.peek().Tok.Type {
	case PASS:
		p.advance()
		return p.stmt(start, &ast.Pass{})
	case BREAK:
		p.advance()
		return p.stmt(start, &ast.Break{})
	case CONTINUE:
		p.advance()
		return p.stmt(start, &ast.Continue{})
	case DEL:
		p.advance()
		targets := p.parseSequenceItems(p.parseStarOrExpr)
		for _, target := range targets {
			p.setContext(target, ast.Del)
		}
		return p.stmt(start, &ast.Delete{Targets: targets})
	case RETURN:
		p.advance()
		var value *ast.Expr
		if !p.atStatementEnd() {
			value = p.parseTestListStarExpr()
		}
		return p.stmt(start, &ast.Return{Value: value})
	case RAISE:
		p.advance()
		raise := &ast.Raise{}
		if !p.atStatementEnd() {
			raise.Exc = p.parseTest()
			if p.match(FROM) {
				raise.Cause = p.parseTest()
			}
		}
		return p.stmt(start, raise)
	case GLOBAL:
		p.advance()
		return p.stmt(start, &ast.Global{Names: p.parseNameList()})
	case NONLOCAL:
		p.advance()
		return p.stmt(start, &ast.Nonlocal{Names: p.parseNameList()})
	case ASSERT:
		p.advance()
		assert := &ast.Assert{Test: p.parseTest()}
		if p.match(COMMA) {
			assert.Msg = p.parseTest()
		}
		return p.stmt(start, assert)
	case IMPORT:
		return p.parseImport()
	case FROM:
		return p.parseImportFrom()
	}
	return p.parseExprStatement()
}

func (p *Parser) parseNameList() []string {
	names := []string{p.consume(NAME).Tok.Value}
	for p.match(COMMA) {
		names = append(names, p.consume(NAME).Tok.Value)
	}
	return names
}

func (p *Parser) parseAssignValue() *ast.Expr {
	if p.check(YIELD) {
		return p.parseYieldExpr()
	}
	return p.parseTestListStarExpr()
}

func (p *Parser) parseExprStatement() *ast.Stmt {
	start := p.peek().Start
	parenthesized := p.check(LPAR)
	first := p.parseAssignValue()

	if p.match(COLON) {
		if _, ok := first.Node.(*ast.Tuple); ok {
			p.failMsg("only single target (not tuple) can be annotated", first.Location)
		}
		if !isSingleTarget(first) {
			p.failMsg("illegal target for annotation", first.Location)
		}
		p.setContext(first, ast.Store)
		annotation := p.parseTest()
		var value *ast.Expr
		if p.match(EQUAL) {
			value = p.parseAssignValue()
		}
		_, isName := first.Node.(*ast.Name)
		return p.stmt(start, &ast.AnnAssign{
			Target:     first,
			Annotation: annotation,
			Value:      value,
			Simple:     isName && !parenthesized,
		})
	}

	if op, ok := augmentedOps[p.peek().Tok.Type]; ok {
		p.advance()
		if !isSingleTarget(first) {
			p.failMsg("illegal expression for augmented assignment", first.Location)
		}
		p.setContext(first, ast.Store)
		var value *ast.Expr
		if p.check(YIELD) {
			value = p.parseYieldExpr()
		} else {
			value = p.parseTestList()
		}
		return p.stmt(start, &ast.AugAssign{Target: first, Op: op, Value: value})
	}

	if p.check(EQUAL) {
		exprs := []*ast.Expr{first}
		for p.match(EQUAL) {
			exprs = append(exprs, p.parseAssignValue())
		}
		targets, value := exprs[:len(exprs)-1], exprs[len(exprs)-1]
		for _, target := range targets {
			p.setContext(target, ast.Store)
		}
		return p.stmt(start, &ast.Assign{Targets: targets, Value: value})
	}

	return p.stmt(start, &ast.ExprStmt{Value: first})
}

func isSingleTarget(e *ast.Expr) bool {
	switch e.Node.(type) {
	case *ast.Name, *ast.Attribute, *ast.Subscript:
		return true
	}
	return false
}

func (p *Parser) parseDottedName() string {
	name := p.consume(NAME).Tok.Value
	for p.match(DOT) {
		name += "." + p.consume(NAME).Tok.Value
	}
	return name
}

func (p *Parser) parseAlias(dotted bool) *ast.Alias {
	start := p.peek().Start
	var name string
	if dotted {
		name = p.parseDottedName()
	} else {
		name = p.consume(NAME).Tok.Value
	}
	alias := &ast.Alias{Name: name}
	if p.match(AS) {
		alias.Asname = p.consume(NAME).Tok.Value
	}
	alias.Span = ast.NewSpan(start, p.prev.End)
	return alias
}

func (p *Parser) parseImport() *ast.Stmt {
	start := p.consume(IMPORT).Start
	names := []*ast.Alias{p.parseAlias(true)}
	for p.match(COMMA) {
		names = append(names, p.parseAlias(true))
	}
	return p.stmt(start, &ast.Import{Names: names})
}

func (p *Parser) parseImportFrom() *ast.Stmt {
	start := p.consume(FROM).Start

	level := 0
	for {
		if p.match(DOT) {
			level++
		} else if p.match(ELLIPSIS) {
			level += 3
		} else {
			break
		}
	}

	module := ""
	if p.check(NAME) {
		module = p.parseDottedName()
	} else if level == 0 {
		p.unexpected(NAME)
	}
	p.consume(IMPORT)

	var names []*ast.Alias
	switch {
	case p.check(STAR):
		tok := p.advance()
		names = []*ast.Alias{{Span: ast.NewSpan(tok.Start, tok.End), Name: "*"}}
	case p.match(LPAR):
		names = p.parseImportAsNames(true)
		p.consume(RPAR)
	default:
		names = p.parseImportAsNames(false)
	}
	return p.stmt(start, &ast.ImportFrom{Module: module, Names: names, Level: level})
}

func (p *Parser) parseImportAsNames(parenthesized bool) []*ast.Alias {
	names := []*ast.Alias{p.parseAlias(false)}
	for p.match(COMMA) {
		if parenthesized && p.check(RPAR) {
			break
		}
		names = append(names, p.parseAlias(false))
	}
	return names
}

func (p *Parser) parseIfStatement() *ast.Stmt {
	start := p.advance().Start // 'if' or 'elif'
	test := p.parseNamedExprTest()
	p.consume(COLON)
	body := p.parseSuite()
	end := suiteEnd(body)

	var orelse ast.Suite
	if p.check(ELIF) {
		elif := p.parseIfStatement()
		orelse = ast.Suite{elif}
		end = suiteEnd(orelse)
	} else if p.match(ELSE) {
		p.consume(COLON)
		orelse = p.parseSuite()
		end = suiteEnd(orelse)
	}
	return ast.NewStmt(start, end, &ast.If{Test: test, Body: body, Orelse: orelse})
}

func (p *Parser) parseElse() ast.Suite {
	if !p.match(ELSE) {
		return nil
	}
	p.consume(COLON)
	return p.parseSuite()
}

func (p *Parser) parseWhileStatement() *ast.Stmt {
	start := p.consume(WHILE).Start
	test := p.parseNamedExprTest()
	p.consume(COLON)
	body := p.parseSuite()
	orelse := p.parseElse()
	end := suiteEnd(body)
	if orelse != nil {
		end = suiteEnd(orelse)
	}
	return ast.NewStmt(start, end, &ast.While{Test: test, Body: body, Orelse: orelse})
}

func (p *Parser) parseForStatement(start ast.Location, isAsync bool) *ast.Stmt {
	p.consume(FOR)
	target := p.parseSequence(p.parseStarOrExpr)
	p.setContext(target, ast.Store)
	p.consume(IN)
	iter := p.parseTestList()
	p.consume(COLON)
	body := p.parseSuite()
	orelse := p.parseElse()
	end := suiteEnd(body)
	if orelse != nil {
		end = suiteEnd(orelse)
	}
	if isAsync {
		return ast.NewStmt(start, end, &ast.AsyncFor{Target: target, Iter: iter, Body: body, Orelse: orelse})
	}
	return ast.NewStmt(start, end, &ast.For{Target: target, Iter: iter, Body: body, Orelse: orelse})
}

func (p *Parser) parseTryStatement() *ast.Stmt {
	start := p.consume(TRY).Start
	p.consume(COLON)
	try := &ast.Try{Body: p.parseSuite()}
	end := suiteEnd(try.Body)

	for p.check(EXCEPT) {
		handlerStart := p.advance().Start
		handler := &ast.ExceptHandler{}
		if !p.check(COLON) {
			handler.Type = p.parseTest()
			if p.match(AS) {
				handler.Name = p.consume(NAME).Tok.Value
			}
		}
		p.consume(COLON)
		handler.Body = p.parseSuite()
		end = suiteEnd(handler.Body)
		handler.Span = ast.NewSpan(handlerStart, end)
		try.Handlers = append(try.Handlers, handler)
	}

	if len(try.Handlers) > 0 {
		if try.Orelse = p.parseElse(); try.Orelse != nil {
			end = suiteEnd(try.Orelse)
		}
	}
	if p.match(FINALLY) {
		p.consume(COLON)
		try.Finalbody = p.parseSuite()
		end = suiteEnd(try.Finalbody)
	}
	if len(try.Handlers) == 0 && try.Finalbody == nil {
		p.unexpected(EXCEPT, FINALLY)
	}
	return ast.NewStmt(start, end, try)
}

func (p *Parser) parseWithStatement(start ast.Location, isAsync bool) *ast.Stmt {
	p.consume(WITH)
	var items []*ast.Withitem
	for {
		item := &ast.Withitem{ContextExpr: p.parseTest()}
		if p.match(AS) {
			item.OptionalVars = p.parseExpr()
			p.setContext(item.OptionalVars, ast.Store)
		}
		items = append(items, item)
		if !p.match(COMMA) {
			break
		}
	}
	p.consume(COLON)
	body := p.parseSuite()
	if isAsync {
		return ast.NewStmt(start, suiteEnd(body), &ast.AsyncWith{Items: items, Body: body})
	}
	return ast.NewStmt(start, suiteEnd(body), &ast.With{Items: items, Body: body})
}

func (p *Parser) parseFunctionDef(start ast.Location, decorators []*ast.Expr, isAsync bool) *ast.Stmt {
	p.consume(DEF)
	name := p.consume(NAME).Tok.Value
	p.consume(LPAR)
	args := p.parseParameters(RPAR, true)
	p.consume(RPAR)
	var returns *ast.Expr
	if p.match(RARROW) {
		returns = p.parseTest()
	}
	p.consume(COLON)
	body := p.parseSuite()

	if isAsync {
		return ast.NewStmt(start, suiteEnd(body), &ast.AsyncFunctionDef{
			Name: name, Args: args, Body: body, DecoratorList: decorators, Returns: returns,
		})
	}
	return ast.NewStmt(start, suiteEnd(body), &ast.FunctionDef{
		Name: name, Args: args, Body: body, DecoratorList: decorators, Returns: returns,
	})
}

// parseClassDef accepts bases from a parenthesized argument list, an
// `extends` clause, or both.
func (p *Parser) parseClassDef(start ast.Location, decorators []*ast.Expr) *ast.Stmt {
	p.consume(CLASS)
	class := &ast.ClassDef{Name: p.consume(NAME).Tok.Value, DecoratorList: decorators}
	if p.match(LPAR) {
		class.Bases, class.Keywords = p.parseArgList(RPAR)
		p.consume(RPAR)
	}
	if p.match(EXTENDS) {
		for {
			class.Bases = append(class.Bases, p.parseTest())
			if !p.match(COMMA) {
				break
			}
		}
	}
	p.consume(COLON)
	class.Body = p.parseSuite()
	return ast.NewStmt(start, suiteEnd(class.Body), class)
}

func (p *Parser) parseDecorated() *ast.Stmt {
	var decorators []*ast.Expr
	for p.match(AT) {
		decorators = append(decorators, p.parseNamedExprTest())
		p.consume(NEWLINE)
	}

	start := p.peek().Start
	switch p.peek().Tok.Type {
	case DEF:
		return p.parseFunctionDef(start, decorators, false)
	case CLASS:
		return p.parseClassDef(start, decorators)
	case ASYNC:
		return p.parseAsyncStatement(decorators)
	}
	p.unexpected(DEF, CLASS, ASYNC)
	return nil
}

func (p *Parser) parseAsyncStatement(decorators []*ast.Expr) *ast.Stmt {
	start := p.consume(ASYNC).Start
	switch p.peek().Tok.Type {
	case DEF:
		return p.parseFunctionDef(start, decorators, true)
	case FOR:
		if decorators == nil {
			return p.parseForStatement(start, true)
		}
	case WITH:
		if decorators == nil {
			return p.parseWithStatement(start, true)
		}
	}
	if decorators != nil {
		p.consume(DEF)
	}
	p.unexpected(DEF, FOR, WITH)
	return nil
}
