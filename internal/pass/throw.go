package pass

import (
	"github.com/inko-lang/inko/internal/ast"
	"github.com/inko-lang/inko/internal/diagnostics"
	"github.com/inko-lang/inko/internal/typesystem"
)

// throwCtx tracks the try/throw-discipline context ValidateThrow walks the
// tree with: whether the current position is inside a try, and the
// innermost enclosing block's declared throw type, if any (spec §4.6).
type throwCtx struct {
	inTry          bool
	block          *typesystem.Block
	moduleTopLevel bool
}

// ValidateThrow enforces try/throw discipline (spec §4.1 step 19, §4.6).
func ValidateThrow(ctx *Context) {
	if ctx.Module.AST == nil || ctx.Module.AST.Body == nil {
		return
	}
	walkThrow(ctx, ctx.Module.AST.Body, throwCtx{moduleTopLevel: true})
}

func walkThrow(ctx *Context, e ast.Expr, tc throwCtx) {
	if e == nil {
		return
	}
	switch n := e.(type) {
	case *ast.Body:
		for _, sub := range n.Expressions {
			walkThrow(ctx, sub, tc)
		}
	case *ast.Send:
		for _, a := range n.Arguments {
			walkThrow(ctx, a, tc)
		}
		if n.ThrowType != nil && !typesystem.IsError(n.ThrowType) {
			propagates := tc.block != nil && tc.block.ThrowType != nil && typesystem.TypeCompatible(n.ThrowType, tc.block.ThrowType)
			if !tc.inTry && !propagates {
				ctx.State.Diags.Errorf(diagnostics.TryMissingTry, astLoc(n.Pos),
					"call to %q may throw and must be wrapped in try", n.Name)
			}
		}
	case *ast.Throw:
		walkThrow(ctx, n.Value, tc)
		declared := tc.block != nil && tc.block.ThrowType != nil
		if !tc.inTry && !declared {
			if tc.block == nil {
				ctx.State.Diags.Errorf(diagnostics.TryThrowAtTopLevel, astLoc(n.Pos), "throw at module top level")
			} else {
				ctx.State.Diags.Errorf(diagnostics.TryThrowUndeclared, astLoc(n.Pos), "throw without a declared throw type")
			}
		}
	case *ast.Try:
		inner := tc
		inner.inTry = true
		walkThrow(ctx, n.Body, inner)
		if n.Else != nil {
			if n.Else.Body == nil && tc.moduleTopLevel {
				ctx.State.Diags.Errorf(diagnostics.TryMissingThrow, astLoc(n.Pos),
					"a top-level try requires a non-empty else")
			}
			walkThrow(ctx, n.Else.Body, tc)
		} else if tc.moduleTopLevel {
			ctx.State.Diags.Errorf(diagnostics.TryMissingThrow, astLoc(n.Pos),
				"a top-level try requires an else")
		}
	case *ast.DefineVariable:
		walkThrow(ctx, n.Value, tc)
	case *ast.Return:
		walkThrow(ctx, n.Value, tc)
	case *ast.Method:
		walkThrow(ctx, n.Body, throwCtx{block: n.MethodType})
		checkThrowsOnEveryPath(ctx, n.Pos, n.MethodType, n.Body)
	case *ast.Object:
		for _, m := range n.Body {
			if meth, ok := m.(*ast.Method); ok {
				walkThrow(ctx, meth, throwCtx{})
			}
		}
	case *ast.Trait:
		for _, m := range n.Body {
			if meth, ok := m.(*ast.Method); ok && meth.Body != nil {
				walkThrow(ctx, meth, throwCtx{})
			}
		}
	case *ast.TraitImplementation:
		for _, m := range n.Body {
			if meth, ok := m.(*ast.Method); ok {
				walkThrow(ctx, meth, throwCtx{})
			}
		}
	case *ast.ReopenObject:
		for _, m := range n.Body {
			if meth, ok := m.(*ast.Method); ok {
				walkThrow(ctx, meth, throwCtx{})
			}
		}
	case *ast.Block:
		walkThrow(ctx, n.Body, throwCtx{block: n.BlockType})
		checkThrowsOnEveryPath(ctx, n.Pos, n.BlockType, n.Body)
	case *ast.Lambda:
		walkThrow(ctx, n.Body, throwCtx{block: n.BlockType})
		checkThrowsOnEveryPath(ctx, n.Pos, n.BlockType, n.Body)
	}
}

// checkThrowsOnEveryPath enforces spec §4.6's first rule: a block that
// declares an explicit `throws T` must throw some T-compatible value on
// every path. A block whose throw type was only inferred (no `!!T`
// annotation in source) is exempt — it throws whatever it happens to
// throw, by definition.
func checkThrowsOnEveryPath(ctx *Context, pos ast.Pos, block *typesystem.Block, body *ast.Body) {
	if block == nil || block.ThrowType == nil || block.ThrowInferred || body == nil {
		return
	}
	if !alwaysThrows(body) {
		ctx.State.Diags.Errorf(diagnostics.TryDeclaredNotThrown, astLoc(pos),
			"declares throws %s but does not throw on every path", block.ThrowType)
	}
}

// alwaysThrows reports whether every path through e ends in a throw.
// Sequencing treats an earlier unconditional throw as covering the
// unreachable rest of the body; a match requires every arm to throw; a
// try/else pair requires both the body and the handler to throw, since
// that is the only way neither side can fall through to a normal return.
func alwaysThrows(e ast.Expr) bool {
	switch n := e.(type) {
	case nil:
		return false
	case *ast.Throw:
		return true
	case *ast.Body:
		for _, sub := range n.Expressions {
			if alwaysThrows(sub) {
				return true
			}
		}
		return false
	case *ast.Match:
		if len(n.Arms) == 0 {
			return false
		}
		for _, arm := range n.Arms {
			if !alwaysThrows(arm.Body) {
				return false
			}
		}
		return true
	case *ast.Try:
		if n.Else == nil {
			return alwaysThrows(n.Body)
		}
		return alwaysThrows(n.Body) && alwaysThrows(n.Else.Body)
	default:
		return false
	}
}
