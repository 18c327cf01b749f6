package pass

import "github.com/inko-lang/inko/internal/ast"

// DesugarObject synthesizes a `new` constructor for every object that
// declares `init` (spec §4.1 step 12).
//
// The allocation is a raw `allocate` instruction (an ast.RawInstruction),
// not a method send (spec §9 open question): `new` becomes
// `{ let instance = _RAW.allocate; instance.init(...); return instance }`.
// An object with no `init` at all still gets a default `new` that just
// allocates and returns.
func DesugarObject(ctx *Context) {
	if ctx.Module.AST == nil {
		return
	}
	desugarBody(ctx.Module.AST.Body)
}

func desugarBody(b *ast.Body) {
	if b == nil {
		return
	}
	for _, e := range b.Expressions {
		switch n := e.(type) {
		case *ast.Object:
			desugarObject(n)
		case *ast.Method:
			desugarBody(n.Body)
		case *ast.Block:
			desugarBody(n.Body)
		case *ast.Lambda:
			desugarBody(n.Body)
		}
	}
}

func desugarObject(obj *ast.Object) {
	var init *ast.Method
	hasNew := false
	for _, n := range obj.Body {
		if m, ok := n.(*ast.Method); ok {
			if m.Name == "init" {
				init = m
			}
			if m.Name == "new" {
				hasNew = true
			}
		}
	}
	if hasNew {
		return
	}

	pos := obj.Position()
	allocate := &ast.RawInstruction{Opcode: "allocate"}
	instanceIdent := &ast.Identifier{Name: "instance", Depth: -1}

	var exprs []ast.Expr
	exprs = append(exprs, &ast.DefineVariable{Name: "instance", Value: allocate})
	if init != nil {
		var args []ast.Expr
		var kwNames []string
		for _, a := range init.Arguments {
			args = append(args, &ast.Identifier{Name: a.Name, Depth: -1})
			kwNames = append(kwNames, "")
		}
		exprs = append(exprs, &ast.Send{Receiver: instanceIdent, Name: "init", Arguments: args, KeywordNames: kwNames})
	}
	exprs = append(exprs, &ast.Return{Value: instanceIdent})

	newMethod := &ast.Method{
		Name:     "new",
		IsStatic: true,
		Body:     &ast.Body{Expressions: exprs},
	}
	newMethod.Pos = pos
	obj.Body = append(obj.Body, newMethod)
}

// DesugarMethod wraps a method body's last expression in a `return` when
// that expression is not already a `return` or a self tail call — the implicit
// return a block expression otherwise relies on being lowered away (spec
// §4.1 step 13, §8 boundary case "a method whose last expression is a
// self-tail-call is not wrapped in an appended explicit return").
func DesugarMethod(ctx *Context) {
	if ctx.Module.AST == nil {
		return
	}
	desugarMethodBody(ctx.Module.AST.Body)
}

func desugarMethodBody(b *ast.Body) {
	if b == nil {
		return
	}
	for _, e := range b.Expressions {
		switch n := e.(type) {
		case *ast.Method:
			appendImplicitReturn(n.Body)
			desugarMethodBody(n.Body)
		case *ast.Object:
			for _, m := range n.Body {
				if meth, ok := m.(*ast.Method); ok {
					appendImplicitReturn(meth.Body)
					desugarMethodBody(meth.Body)
				}
			}
		case *ast.Block:
			desugarMethodBody(n.Body)
		case *ast.Lambda:
			desugarMethodBody(n.Body)
		}
	}
}

func isSelfTailCall(e ast.Expr) bool {
	send, ok := e.(*ast.Send)
	if !ok {
		return false
	}
	if send.Receiver == nil {
		return true
	}
	_, isSelf := send.Receiver.(*ast.Self)
	return isSelf
}

func appendImplicitReturn(b *ast.Body) {
	if b == nil || len(b.Expressions) == 0 {
		return
	}
	last := b.Expressions[len(b.Expressions)-1]
	if _, ok := last.(*ast.Return); ok {
		return
	}
	if isSelfTailCall(last) {
		return
	}
	b.Expressions[len(b.Expressions)-1] = &ast.Return{Value: last}
}

// AddDefaultForRestArguments gives every rest parameter without an
// explicit default an `Array.new` default (spec §4.1 step 14).
func AddDefaultForRestArguments(ctx *Context) {
	if ctx.Module.AST == nil {
		return
	}
	walkArgsInBody(ctx.Module.AST.Body)
}

func arrayNewDefault() ast.Expr {
	return &ast.Send{Receiver: &ast.Constant{Name: "Array"}, Name: "new"}
}

func defaultRestArgs(args []*ast.DefineArgument) {
	for _, a := range args {
		if a.Rest && a.Default == nil {
			a.Default = arrayNewDefault()
		}
	}
}

func walkArgsInBody(b *ast.Body) {
	if b == nil {
		return
	}
	for _, e := range b.Expressions {
		switch n := e.(type) {
		case *ast.Method:
			defaultRestArgs(n.Arguments)
			walkArgsInBody(n.Body)
		case *ast.Block:
			defaultRestArgs(n.Arguments)
			walkArgsInBody(n.Body)
		case *ast.Lambda:
			defaultRestArgs(n.Arguments)
			walkArgsInBody(n.Body)
		case *ast.Object:
			for _, m := range n.Body {
				if meth, ok := m.(*ast.Method); ok {
					defaultRestArgs(meth.Arguments)
					walkArgsInBody(meth.Body)
				}
			}
		}
	}
}
