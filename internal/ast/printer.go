package ast

import (
	"fmt"
	"strings"
)

// Dump renders a parse result in a compact constructor notation, for
// example Module(body=[Expr(value=Name(id='x', ctx=Load))]).
func Dump(mod Mod) string {
	var d dumper
	switch m := mod.(type) {
	case *Module:
		d.call("Module", func() { d.field("body"); d.suite(m.Body) })
	case *Interactive:
		d.call("Interactive", func() { d.field("body"); d.suite(m.Body) })
	case *Expression:
		d.call("Expression", func() { d.field("body"); d.expr(m.Body) })
	}
	return d.b.String()
}

func (s *Stmt) String() string {
	var d dumper
	d.stmt(s)
	return d.b.String()
}

func (e *Expr) String() string {
	var d dumper
	d.expr(e)
	return d.b.String()
}

type dumper struct {
	b     strings.Builder
	first []bool
}

func (d *dumper) call(name string, fields func()) {
	d.b.WriteString(name)
	d.b.WriteByte('(')
	d.first = append(d.first, true)
	fields()
	d.first = d.first[:len(d.first)-1]
	d.b.WriteByte(')')
}

func (d *dumper) field(name string) {
	top := len(d.first) - 1
	if !d.first[top] {
		d.b.WriteString(", ")
	}
	d.first[top] = false
	d.b.WriteString(name)
	d.b.WriteByte('=')
}

func (d *dumper) str(name, value string) {
	d.field(name)
	d.b.WriteString(quoteStr(value))
}

func (d *dumper) raw(name string, value any) {
	d.field(name)
	fmt.Fprint(&d.b, value)
}

func (d *dumper) list(n int, item func(i int)) {
	d.b.WriteByte('[')
	for i := 0; i < n; i++ {
		if i > 0 {
			d.b.WriteString(", ")
		}
		item(i)
	}
	d.b.WriteByte(']')
}

func (d *dumper) suite(body Suite) {
	d.list(len(body), func(i int) { d.stmt(body[i]) })
}

func (d *dumper) exprs(name string, exprs []*Expr) {
	d.field(name)
	d.list(len(exprs), func(i int) { d.expr(exprs[i]) })
}

func (d *dumper) optExpr(name string, e *Expr) {
	d.field(name)
	d.expr(e)
}

func (d *dumper) keywords(kws []*Keyword) {
	d.field("keywords")
	d.list(len(kws), func(i int) {
		d.call("keyword", func() {
			if kws[i].Arg != "" {
				d.str("arg", kws[i].Arg)
			}
			d.optExpr("value", kws[i].Value)
		})
	})
}

func (d *dumper) arg(a *Arg) {
	if a == nil {
		d.b.WriteString("None")
		return
	}
	d.call("arg", func() {
		d.str("arg", a.Arg)
		if a.Annotation != nil {
			d.optExpr("annotation", a.Annotation)
		}
	})
}

func (d *dumper) argList(name string, args []*Arg) {
	d.field(name)
	d.list(len(args), func(i int) { d.arg(args[i]) })
}

func (d *dumper) arguments(a *Arguments) {
	d.field("args")
	if a == nil {
		a = &Arguments{}
	}
	d.call("arguments", func() {
		d.argList("posonlyargs", a.Posonlyargs)
		d.argList("args", a.Args)
		d.field("vararg")
		d.arg(a.Vararg)
		d.argList("kwonlyargs", a.Kwonlyargs)
		d.exprs("kw_defaults", a.KwDefaults)
		d.field("kwarg")
		d.arg(a.Kwarg)
		d.exprs("defaults", a.Defaults)
	})
}

func (d *dumper) comprehensions(gens []*Comprehension) {
	d.field("generators")
	d.list(len(gens), func(i int) {
		g := gens[i]
		d.call("comprehension", func() {
			d.optExpr("target", g.Target)
			d.optExpr("iter", g.Iter)
			d.exprs("ifs", g.Ifs)
			d.raw("is_async", boolInt(g.IsAsync))
		})
	})
}

func (d *dumper) aliases(names []*Alias) {
	d.field("names")
	d.list(len(names), func(i int) {
		d.call("alias", func() {
			d.str("name", names[i].Name)
			if names[i].Asname != "" {
				d.str("asname", names[i].Asname)
			}
		})
	})
}

func (d *dumper) withitems(items []*Withitem) {
	d.field("items")
	d.list(len(items), func(i int) {
		d.call("withitem", func() {
			d.optExpr("context_expr", items[i].ContextExpr)
			if items[i].OptionalVars != nil {
				d.optExpr("optional_vars", items[i].OptionalVars)
			}
		})
	})
}

func (d *dumper) names(ids []string) {
	d.field("names")
	d.list(len(ids), func(i int) { d.b.WriteString(quoteStr(ids[i])) })
}

func (d *dumper) stmt(s *Stmt) {
	switch n := s.Node.(type) {
	case *FunctionDef:
		d.call("FunctionDef", func() {
			d.str("name", n.Name)
			d.arguments(n.Args)
			d.field("body")
			d.suite(n.Body)
			d.exprs("decorator_list", n.DecoratorList)
			if n.Returns != nil {
				d.optExpr("returns", n.Returns)
			}
		})
	case *AsyncFunctionDef:
		d.call("AsyncFunctionDef", func() {
			d.str("name", n.Name)
			d.arguments(n.Args)
			d.field("body")
			d.suite(n.Body)
			d.exprs("decorator_list", n.DecoratorList)
			if n.Returns != nil {
				d.optExpr("returns", n.Returns)
			}
		})
	case *ClassDef:
		d.call("ClassDef", func() {
			d.str("name", n.Name)
			d.exprs("bases", n.Bases)
			d.keywords(n.Keywords)
			d.field("body")
			d.suite(n.Body)
			d.exprs("decorator_list", n.DecoratorList)
		})
	case *Return:
		d.call("Return", func() {
			if n.Value != nil {
				d.optExpr("value", n.Value)
			}
		})
	case *Delete:
		d.call("Delete", func() { d.exprs("targets", n.Targets) })
	case *Assign:
		d.call("Assign", func() {
			d.exprs("targets", n.Targets)
			d.optExpr("value", n.Value)
		})
	case *AugAssign:
		d.call("AugAssign", func() {
			d.optExpr("target", n.Target)
			d.raw("op", n.Op)
			d.optExpr("value", n.Value)
		})
	case *AnnAssign:
		d.call("AnnAssign", func() {
			d.optExpr("target", n.Target)
			d.optExpr("annotation", n.Annotation)
			if n.Value != nil {
				d.optExpr("value", n.Value)
			}
			d.raw("simple", boolInt(n.Simple))
		})
	case *For:
		d.loop("For", n.Target, n.Iter, n.Body, n.Orelse)
	case *AsyncFor:
		d.loop("AsyncFor", n.Target, n.Iter, n.Body, n.Orelse)
	case *While:
		d.conditional("While", n.Test, n.Body, n.Orelse)
	case *If:
		d.conditional("If", n.Test, n.Body, n.Orelse)
	case *With:
		d.call("With", func() {
			d.withitems(n.Items)
			d.field("body")
			d.suite(n.Body)
		})
	case *AsyncWith:
		d.call("AsyncWith", func() {
			d.withitems(n.Items)
			d.field("body")
			d.suite(n.Body)
		})
	case *Raise:
		d.call("Raise", func() {
			if n.Exc != nil {
				d.optExpr("exc", n.Exc)
			}
			if n.Cause != nil {
				d.optExpr("cause", n.Cause)
			}
		})
	case *Try:
		d.call("Try", func() {
			d.field("body")
			d.suite(n.Body)
			d.field("handlers")
			d.list(len(n.Handlers), func(i int) {
				h := n.Handlers[i]
				d.call("ExceptHandler", func() {
					if h.Type != nil {
						d.optExpr("type", h.Type)
					}
					if h.Name != "" {
						d.str("name", h.Name)
					}
					d.field("body")
					d.suite(h.Body)
				})
			})
			d.field("orelse")
			d.suite(n.Orelse)
			d.field("finalbody")
			d.suite(n.Finalbody)
		})
	case *Assert:
		d.call("Assert", func() {
			d.optExpr("test", n.Test)
			if n.Msg != nil {
				d.optExpr("msg", n.Msg)
			}
		})
	case *Import:
		d.call("Import", func() { d.aliases(n.Names) })
	case *ImportFrom:
		d.call("ImportFrom", func() {
			if n.Module != "" {
				d.str("module", n.Module)
			}
			d.aliases(n.Names)
			d.raw("level", n.Level)
		})
	case *Global:
		d.call("Global", func() { d.names(n.Names) })
	case *Nonlocal:
		d.call("Nonlocal", func() { d.names(n.Names) })
	case *ExprStmt:
		d.call("Expr", func() { d.optExpr("value", n.Value) })
	case *Pass:
		d.call("Pass", func() {})
	case *Break:
		d.call("Break", func() {})
	case *Continue:
		d.call("Continue", func() {})
	}
}

func (d *dumper) loop(name string, target, iter *Expr, body, orelse Suite) {
	d.call(name, func() {
		d.optExpr("target", target)
		d.optExpr("iter", iter)
		d.field("body")
		d.suite(body)
		d.field("orelse")
		d.suite(orelse)
	})
}

func (d *dumper) conditional(name string, test *Expr, body, orelse Suite) {
	d.call(name, func() {
		d.optExpr("test", test)
		d.field("body")
		d.suite(body)
		d.field("orelse")
		d.suite(orelse)
	})
}

func (d *dumper) expr(e *Expr) {
	if e == nil {
		d.b.WriteString("None")
		return
	}
	switch n := e.Node.(type) {
	case *BoolOp:
		d.call("BoolOp", func() {
			d.raw("op", n.Op)
			d.exprs("values", n.Values)
		})
	case *NamedExpr:
		d.call("NamedExpr", func() {
			d.optExpr("target", n.Target)
			d.optExpr("value", n.Value)
		})
	case *BinOp:
		d.call("BinOp", func() {
			d.optExpr("left", n.Left)
			d.raw("op", n.Op)
			d.optExpr("right", n.Right)
		})
	case *UnaryOp:
		d.call("UnaryOp", func() {
			d.raw("op", n.Op)
			d.optExpr("operand", n.Operand)
		})
	case *Lambda:
		d.call("Lambda", func() {
			d.arguments(n.Args)
			d.optExpr("body", n.Body)
		})
	case *IfExp:
		d.call("IfExp", func() {
			d.optExpr("test", n.Test)
			d.optExpr("body", n.Body)
			d.optExpr("orelse", n.Orelse)
		})
	case *Dict:
		d.call("Dict", func() {
			d.exprs("keys", n.Keys)
			d.exprs("values", n.Values)
		})
	case *Set:
		d.call("Set", func() { d.exprs("elts", n.Elts) })
	case *ListComp:
		d.call("ListComp", func() {
			d.optExpr("elt", n.Elt)
			d.comprehensions(n.Generators)
		})
	case *SetComp:
		d.call("SetComp", func() {
			d.optExpr("elt", n.Elt)
			d.comprehensions(n.Generators)
		})
	case *DictComp:
		d.call("DictComp", func() {
			d.optExpr("key", n.Key)
			d.optExpr("value", n.Value)
			d.comprehensions(n.Generators)
		})
	case *GeneratorExp:
		d.call("GeneratorExp", func() {
			d.optExpr("elt", n.Elt)
			d.comprehensions(n.Generators)
		})
	case *Await:
		d.call("Await", func() { d.optExpr("value", n.Value) })
	case *Yield:
		d.call("Yield", func() {
			if n.Value != nil {
				d.optExpr("value", n.Value)
			}
		})
	case *YieldFrom:
		d.call("YieldFrom", func() { d.optExpr("value", n.Value) })
	case *Compare:
		d.call("Compare", func() {
			d.optExpr("left", n.Left)
			d.field("ops")
			d.list(len(n.Ops), func(i int) { d.b.WriteString(n.Ops[i].String()) })
			d.exprs("comparators", n.Comparators)
		})
	case *Call:
		d.call("Call", func() {
			d.optExpr("func", n.Func)
			d.exprs("args", n.Args)
			d.keywords(n.Keywords)
		})
	case *FormattedValue:
		d.call("FormattedValue", func() {
			d.optExpr("value", n.Value)
			d.raw("conversion", n.Conversion)
			if n.FormatSpec != nil {
				d.optExpr("format_spec", n.FormatSpec)
			}
		})
	case *JoinedStr:
		d.call("JoinedStr", func() { d.exprs("values", n.Values) })
	case *Constant:
		d.call("Constant", func() {
			d.raw("value", n.Value)
			if n.Kind != "" {
				d.str("kind", n.Kind)
			}
		})
	case *Attribute:
		d.call("Attribute", func() {
			d.optExpr("value", n.Value)
			d.str("attr", n.Attr)
			d.raw("ctx", n.Ctx)
		})
	case *Subscript:
		d.call("Subscript", func() {
			d.optExpr("value", n.Value)
			d.optExpr("slice", n.Slice)
			d.raw("ctx", n.Ctx)
		})
	case *Starred:
		d.call("Starred", func() {
			d.optExpr("value", n.Value)
			d.raw("ctx", n.Ctx)
		})
	case *Name:
		d.call("Name", func() {
			d.str("id", n.ID)
			d.raw("ctx", n.Ctx)
		})
	case *List:
		d.call("List", func() {
			d.exprs("elts", n.Elts)
			d.raw("ctx", n.Ctx)
		})
	case *Tuple:
		d.call("Tuple", func() {
			d.exprs("elts", n.Elts)
			d.raw("ctx", n.Ctx)
		})
	case *Slice:
		d.call("Slice", func() {
			for _, part := range []struct {
				name string
				e    *Expr
			}{{"lower", n.Lower}, {"upper", n.Upper}, {"step", n.Step}} {
				if part.e != nil {
					d.optExpr(part.name, part.e)
				}
			}
		})
	case *DoBlock:
		d.call("DoBlock", func() {
			d.field("body")
			d.suite(n.Body)
			d.raw("mode", n.Mode)
		})
	case *EndOfBlockMarker:
		d.b.WriteString("EndOfBlockMarker")
	}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
