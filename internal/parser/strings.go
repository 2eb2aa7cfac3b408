package parser

import (
	"strings"

	"emerald/internal/ast"
)

// parseStrings consumes a run of adjacent string literals.
func (p *Parser) parseStrings() *ast.Expr {
	var parts []Spanned
	for p.checkAny(STRING, BYTES) {
		parts = append(parts, p.advance())
	}
	joined, err := joinStrings(parts, p.path, p.depth)
	if err != nil {
		p.failLexical(err)
	}
	return joined
}

// joinStrings concatenates adjacent literals. Bytes only join with bytes.
// When any part is formatted the result is a JoinedStr whose neighbouring
// literal pieces are merged into single constants.
func joinStrings(parts []Spanned, path string, depth int) (*ast.Expr, *LexicalError) {
	start := parts[0].Start
	end := parts[len(parts)-1].End

	kind := ""
	if parts[0].Tok.Kind == StringU {
		kind = "u"
	}

	isBytes := parts[0].Tok.Type == BYTES
	hasFormatted := false
	for _, part := range parts {
		if (part.Tok.Type == BYTES) != isBytes {
			return nil, &LexicalError{
				Type:     LexicalErrorType{Kind: LexOtherError, Msg: "cannot mix bytes and nonbytes literals"},
				Location: part.Start,
			}
		}
		if part.Tok.Kind == StringF {
			hasFormatted = true
		}
	}

	if isBytes {
		var content []byte
		for _, part := range parts {
			content = append(content, part.Tok.Bytes...)
		}
		return ast.NewExpr(start, end, &ast.Constant{Value: ast.ConstBytes(content)}), nil
	}

	if !hasFormatted {
		var content strings.Builder
		for _, part := range parts {
			content.WriteString(part.Tok.Value)
		}
		return ast.NewExpr(start, end, &ast.Constant{Value: ast.ConstStr(content.String()), Kind: kind}), nil
	}

	var values []*ast.Expr
	var current strings.Builder
	flush := func() {
		if current.Len() > 0 {
			values = append(values, ast.NewExpr(start, end, &ast.Constant{Value: ast.ConstStr(current.String()), Kind: kind}))
			current.Reset()
		}
	}

	for _, part := range parts {
		if part.Tok.Kind != StringF {
			current.WriteString(part.Tok.Value)
			continue
		}
		fvalues, err := parseFString(part, path, depth)
		if err != nil {
			return nil, err.LexicalError()
		}
		for _, v := range fvalues {
			if c, ok := v.Node.(*ast.Constant); ok {
				if s, ok := c.Value.(ast.ConstStr); ok {
					current.WriteString(string(s))
					continue
				}
			}
			flush()
			values = append(values, v)
		}
	}
	flush()

	return ast.NewExpr(start, end, &ast.JoinedStr{Values: values}), nil
}
