package pass

import (
	"github.com/inko-lang/inko/internal/ast"
	"github.com/inko-lang/inko/internal/typesystem"
)

// OptimizeKeywordArguments converts keyword arguments to positional ones
// whenever the caller already passed them in the method's declared order
// (spec §4.1 step 20) — there is nothing left for the runtime to reorder
// at the call site.
func OptimizeKeywordArguments(ctx *Context) {
	if ctx.Module.AST == nil {
		return
	}
	walkSends(ctx.Module.AST.Body, optimizeSend)
}

func optimizeSend(n *ast.Send) {
	if n.ResolvedMethod == nil || len(n.KeywordNames) == 0 {
		return
	}
	declared := argumentNames(n.ResolvedMethod)
	start := -1
	for i, kw := range n.KeywordNames {
		if kw != "" {
			start = i
			break
		}
	}
	if start == -1 {
		return
	}
	for i := start; i < len(n.KeywordNames); i++ {
		kw := n.KeywordNames[i]
		if kw == "" || i >= len(declared) || declared[i] != kw {
			return
		}
	}
	for i := start; i < len(n.KeywordNames); i++ {
		n.KeywordNames[i] = ""
	}
}

func argumentNames(b *typesystem.Block) []string {
	names := make([]string, len(b.Arguments))
	for i, a := range b.Arguments {
		names[i] = a.Name
	}
	return names
}

// walkSends visits every *ast.Send reachable from e, calling visit on each.
func walkSends(e ast.Expr, visit func(*ast.Send)) {
	if e == nil {
		return
	}
	switch n := e.(type) {
	case *ast.Body:
		for _, sub := range n.Expressions {
			walkSends(sub, visit)
		}
	case *ast.Send:
		visit(n)
		if n.Receiver != nil {
			walkSends(n.Receiver, visit)
		}
		for _, a := range n.Arguments {
			walkSends(a, visit)
		}
	case *ast.DefineVariable:
		walkSends(n.Value, visit)
	case *ast.Return:
		walkSends(n.Value, visit)
	case *ast.Throw:
		walkSends(n.Value, visit)
	case *ast.Try:
		walkSends(n.Body, visit)
		if n.Else != nil {
			walkSends(n.Else.Body, visit)
		}
	case *ast.Method:
		walkSends(n.Body, visit)
	case *ast.Object:
		for _, m := range n.Body {
			if meth, ok := m.(*ast.Method); ok {
				walkSends(meth, visit)
			}
		}
	case *ast.Trait:
		for _, m := range n.Body {
			if meth, ok := m.(*ast.Method); ok {
				walkSends(meth, visit)
			}
		}
	case *ast.TraitImplementation:
		for _, m := range n.Body {
			if meth, ok := m.(*ast.Method); ok {
				walkSends(meth, visit)
			}
		}
	case *ast.ReopenObject:
		for _, m := range n.Body {
			if meth, ok := m.(*ast.Method); ok {
				walkSends(meth, visit)
			}
		}
	case *ast.Block:
		walkSends(n.Body, visit)
	case *ast.Lambda:
		walkSends(n.Body, visit)
	case *ast.Match:
		walkSends(n.Scrutinee, visit)
		for _, arm := range n.Arms {
			if arm.Guard != nil {
				walkSends(arm.Guard, visit)
			}
			walkSends(arm.Body, visit)
		}
	}
}
