package pass

import "github.com/inko-lang/inko/internal/ast"

// Hoisting moves type declarations (object/trait/impl/reopen) to the top
// of each body, then method declarations, then everything else — so a
// forward reference to a type or method declared later in the same body
// still resolves once DefineTypeSignatures/DefineType run (spec §4.1 step
// 11). The reordering is a stable partition, so running it twice in a row
// is the identity (spec §8 "Running Hoisting twice equals running it
// once").
func Hoisting(ctx *Context) {
	if ctx.Module.AST == nil {
		return
	}
	hoistBody(ctx.Module.AST.Body)
}

func hoistBody(b *ast.Body) {
	if b == nil {
		return
	}
	var types, methods, rest []ast.Expr
	for _, e := range b.Expressions {
		switch e.(type) {
		case *ast.Object, *ast.Trait, *ast.TraitImplementation, *ast.ReopenObject:
			types = append(types, e)
		case *ast.Method:
			methods = append(methods, e)
		default:
			rest = append(rest, e)
		}
	}
	out := make([]ast.Expr, 0, len(b.Expressions))
	out = append(out, types...)
	out = append(out, methods...)
	out = append(out, rest...)
	b.Expressions = out

	for _, e := range b.Expressions {
		switch n := e.(type) {
		case *ast.Method:
			hoistBody(n.Body)
		case *ast.Block:
			hoistBody(n.Body)
		case *ast.Lambda:
			hoistBody(n.Body)
		case *ast.Object:
			n.Body = hoistNodeList(n.Body)
		case *ast.Trait:
			n.Body = hoistNodeList(n.Body)
		case *ast.TraitImplementation:
			n.Body = hoistNodeList(n.Body)
		case *ast.ReopenObject:
			n.Body = hoistNodeList(n.Body)
		}
	}
}

// hoistNodeList applies the same types-then-methods-then-rest partition to
// an object/trait/impl/reopen body, which is a []ast.Node rather than a
// *ast.Body.
func hoistNodeList(nodes []ast.Node) []ast.Node {
	var types, methods, rest []ast.Node
	for _, n := range nodes {
		switch v := n.(type) {
		case *ast.Object, *ast.Trait:
			types = append(types, n)
		case *ast.Method:
			methods = append(methods, n)
			hoistBody(v.Body)
		default:
			rest = append(rest, n)
		}
	}
	out := make([]ast.Node, 0, len(nodes))
	out = append(out, types...)
	out = append(out, methods...)
	out = append(out, rest...)
	return out
}
