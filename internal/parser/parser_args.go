package parser

import (
	"emerald/internal/ast"
)

// parseParameters parses a def or lambda parameter list up to closing,
// which is left for the caller. Annotations are only accepted in def
// parameter lists.
func (p *Parser) parseParameters(closing TokenType, annotated bool) *ast.Arguments {
	args := &ast.Arguments{}
	var positional []*ast.Arg
	starSeen := false
	slashSeen := false

loop:
	for !p.check(closing) {
		start := p.peek().Start
		switch {
		case p.match(SLASH):
			if starSeen || slashSeen || len(positional) == 0 {
				p.failMsg("invalid syntax", start)
			}
			slashSeen = true
			args.Posonlyargs = positional
			positional = nil
		case p.match(STAR):
			if starSeen {
				p.failMsg("invalid syntax", start)
			}
			starSeen = true
			if p.check(NAME) {
				args.Vararg = p.parseParameter(annotated)
			}
		case p.match(DOUBLE_STAR):
			args.Kwarg = p.parseParameter(annotated)
			p.match(COMMA)
			if !p.check(closing) {
				p.unexpected(closing)
			}
			break loop
		default:
			arg := p.parseParameter(annotated)
			var value *ast.Expr
			if p.match(EQUAL) {
				value = p.parseTest()
			}
			if starSeen {
				args.Kwonlyargs = append(args.Kwonlyargs, arg)
				args.KwDefaults = append(args.KwDefaults, value)
				break
			}
			positional = append(positional, arg)
			if value != nil {
				args.Defaults = append(args.Defaults, value)
			} else if len(args.Defaults) > 0 {
				p.fail(LexDefaultArgumentError, arg.Location)
			}
		}
		if !p.match(COMMA) {
			break
		}
	}

	if starSeen && args.Vararg == nil && len(args.Kwonlyargs) == 0 {
		p.failMsg("named arguments must follow bare *", p.peek().Start)
	}
	args.Args = positional
	return args
}

func (p *Parser) parseParameter(annotated bool) *ast.Arg {
	tok := p.consume(NAME)
	arg := &ast.Arg{Arg: tok.Tok.Value}
	if annotated && p.match(COLON) {
		arg.Annotation = p.parseTest()
	}
	arg.Span = ast.NewSpan(tok.Start, p.prev.End)
	return arg
}

// parseArgList parses call arguments up to closing, which is left for the
// caller. Keyword arguments are deduplicated and positional arguments may
// not follow them.
func (p *Parser) parseArgList(closing TokenType) ([]*ast.Expr, []*ast.Keyword) {
	var args []*ast.Expr
	var keywords []*ast.Keyword
	seen := map[string]bool{}
	count := 0
	var generator *ast.Expr

	for !p.check(closing) {
		start := p.peek().Start
		count++

		switch {
		case p.match(STAR):
			value := p.parseTest()
			args = append(args, p.expr(start, &ast.Starred{Value: value, Ctx: ast.Load}))
		case p.match(DOUBLE_STAR):
			value := p.parseTest()
			keywords = append(keywords, &ast.Keyword{Span: ast.NewSpan(start, p.prev.End), Value: value})
		default:
			e := p.parseTest()
			switch {
			case p.check(COLON_EQUAL):
				name, ok := e.Node.(*ast.Name)
				if !ok {
					p.failMsg("cannot use named assignment with "+describeExpr(e), e.Location)
				}
				p.advance()
				name.Ctx = ast.Store
				value := p.parseTest()
				e = p.expr(start, &ast.NamedExpr{Target: e, Value: value})
			case p.match(EQUAL):
				name, ok := e.Node.(*ast.Name)
				if !ok {
					p.failMsg(`expression cannot contain assignment, perhaps you meant "=="?`, e.Location)
				}
				if seen[name.ID] {
					p.fail(LexDuplicateKeywordArgumentError, e.Location)
				}
				seen[name.ID] = true
				value := p.parseTest()
				keywords = append(keywords, &ast.Keyword{Span: ast.NewSpan(start, p.prev.End), Arg: name.ID, Value: value})
				e = nil
			case p.atComprehension():
				generators := p.parseComprehension()
				e = p.expr(start, &ast.GeneratorExp{Elt: e, Generators: generators})
				generator = e
			}
			if e == nil {
				break
			}
			if len(keywords) > 0 {
				p.fail(LexPositionalArgumentError, e.Location)
			}
			args = append(args, e)
		}

		if !p.match(COMMA) {
			break
		}
	}

	if generator != nil && count > 1 {
		p.failMsg("Generator expression must be parenthesized", generator.Location)
	}
	return args, keywords
}
