package pass

import (
	"github.com/inko-lang/inko/internal/ast"
	"github.com/inko-lang/inko/internal/diagnostics"
	"github.com/inko-lang/inko/internal/symbols"
	"github.com/inko-lang/inko/internal/typesystem"
)

// resolveTypeName turns a syntactic type reference into a typesystem.Type
// (spec §3 "TypeName").
func resolveTypeName(ctx *Context, tn *ast.TypeName) typesystem.Type {
	if tn == nil {
		return typesystem.ErrorT
	}
	if tn.IsSelf {
		return typesystem.SelfT
	}
	base, ok := ctx.State.Types.Lookup(tn.Name)
	if !ok {
		ctx.State.Diags.Errorf(diagnostics.ResUndefinedConstant, astLoc(tn.Pos), "undefined type %q", tn.Name)
		return typesystem.ErrorT
	}
	result := base
	if len(tn.Args) > 0 {
		args := make([]typesystem.Type, len(tn.Args))
		for i, a := range tn.Args {
			args[i] = resolveTypeName(ctx, a)
		}
		switch b := base.(type) {
		case *typesystem.Object:
			result = b.NewInstance(args...)
		case *typesystem.Trait:
			result = b.NewInstance(args...)
		}
	}
	if tn.Optional {
		result = typesystem.WrapOptional(result)
	}
	return result
}

// inferIdentifier resolves a bare name: local first (recording depth and
// symbol index for closure capture), then falls through to a self/module
// method send (spec §4.4 "Identifiers").
func inferIdentifier(ctx *Context, scope *symbols.TypeScope, n *ast.Identifier) typesystem.Type {
	if depth, sym, found := scope.Lookup(n.Name); found {
		sym.MarkUsed()
		n.Depth = depth
		n.SymIndex = sym.Index
		n.Type = sym.Type
		return sym.Type
	}
	send := &ast.Send{Name: n.Name}
	send.Pos = n.Pos
	t := inferSend(ctx, scope, send, nil)
	n.Depth = -1
	n.Type = t
	return t
}

// inferConstant resolves an uppercase name via the enclosing self type's
// attribute chain, then module globals (spec §4.4 "Constants / globals").
func inferConstant(ctx *Context, scope *symbols.TypeScope, n *ast.Constant) typesystem.Type {
	if obj, ok := selfObject(scope.SelfType); ok {
		if sym, found := obj.LookupMethod(n.Name); found {
			n.Type = sym.Type
			return sym.Type
		}
	}
	if sym, found := scope.Module.Globals().LookupLocal(n.Name); found {
		n.Type = sym.Type
		return sym.Type
	}
	if t, ok := ctx.State.Types.Lookup(n.Name); ok {
		n.Type = t
		return t
	}
	ctx.State.Diags.Errorf(diagnostics.ResUndefinedConstant, astLoc(n.Pos), "undefined constant %q", n.Name)
	n.Type = typesystem.ErrorT
	return typesystem.ErrorT
}

func selfObject(t typesystem.Type) (*typesystem.Object, bool) {
	switch v := t.(type) {
	case *typesystem.Object:
		return v, true
	case *typesystem.GenericInstance:
		if obj, ok := v.Base.(*typesystem.Object); ok {
			return obj, true
		}
	}
	return nil, false
}

func inferAttribute(ctx *Context, scope *symbols.TypeScope, n *ast.Attribute) typesystem.Type {
	obj, ok := selfObject(scope.SelfType)
	if !ok {
		ctx.State.Diags.Errorf(diagnostics.ResUndefinedAttribute, astLoc(n.Pos), "no attributes available on %s", scope.SelfType)
		n.Type = typesystem.ErrorT
		return typesystem.ErrorT
	}
	if sym, found := obj.Attributes[n.Name]; found {
		n.Type = sym.Type
		return sym.Type
	}
	ctx.State.Diags.Errorf(diagnostics.ResUndefinedAttribute, astLoc(n.Pos), "undefined attribute %q on %s", n.Name, obj.Name)
	n.Type = typesystem.ErrorT
	return typesystem.ErrorT
}

func inferDefineVariable(ctx *Context, scope *symbols.TypeScope, n *ast.DefineVariable) typesystem.Type {
	valueType := inferExpr(ctx, scope, n.Value)
	declared := valueType
	if tn, ok := n.ValueType.(*ast.TypeName); ok {
		declared = resolveTypeName(ctx, tn)
		if !typesystem.TypeCompatible(valueType, declared) {
			ctx.State.Diags.Errorf(diagnostics.TypeIncompatible, astLoc(n.Pos),
				"value is not compatible with declared type of %q", n.Name)
		}
	}
	sym, ok := scope.Locals.Define(n.Name, declared, n.Mutable)
	if !ok {
		ctx.State.Diags.Errorf(diagnostics.ResRedefinedLocal, astLoc(n.Pos), "%q is already defined in this scope", n.Name)
	} else {
		n.SymIndex = sym.Index
	}
	n.Type = declared
	return declared
}

// inferReturn checks the value against the enclosing method's return type
// (spec §4.4 "Return"). The result type is Never so return composes inside
// conditional expressions (spec §9).
func inferReturn(ctx *Context, scope *symbols.TypeScope, n *ast.Return) typesystem.Type {
	valueType := inferExpr(ctx, scope, n.Value)
	if scope.EnclosingMethod == nil {
		ctx.State.Diags.Errorf(diagnostics.TypeIncompatible, astLoc(n.Pos), "return outside of a method")
		n.Type = typesystem.NeverT
		return typesystem.NeverT
	}
	want := typesystem.ResolveTypeParameters(scope.EnclosingMethod.ReturnType, scope.EnclosingMethod)
	if !typesystem.TypeCompatible(valueType, want) {
		ctx.State.Diags.Errorf(diagnostics.TypeIncompatible, astLoc(n.Pos),
			"returned value is not compatible with the method's declared return type")
	}
	n.Type = typesystem.NeverT
	return typesystem.NeverT
}

// inferThrow sets or checks the enclosing block's throw type (spec §4.4
// "Throw"). Result type is Never.
func inferThrow(ctx *Context, scope *symbols.TypeScope, n *ast.Throw) typesystem.Type {
	valueType := inferExpr(ctx, scope, n.Value)
	if scope.EnclosingBlock != nil {
		if scope.EnclosingBlock.ThrowInferred && scope.EnclosingBlock.ThrowType == nil {
			scope.EnclosingBlock.ThrowType = valueType
		} else if scope.EnclosingBlock.ThrowType != nil && !typesystem.TypeCompatible(valueType, scope.EnclosingBlock.ThrowType) {
			ctx.State.Diags.Errorf(diagnostics.TryThrowUndeclared, astLoc(n.Pos),
				"thrown value is not compatible with the declared throw type")
		}
	}
	n.Type = typesystem.NeverT
	return typesystem.NeverT
}

// inferTry types a try/try-else expression (spec §4.4 "Try / try-else").
func inferTry(ctx *Context, scope *symbols.TypeScope, n *ast.Try) typesystem.Type {
	bodyType := inferExpr(ctx, scope, n.Body)
	if n.Else == nil {
		n.Type = bodyType
		return bodyType
	}
	elseScope := scope
	throwType := scope.EnclosingBlock.ThrowType
	if n.Else.ElseArg != nil {
		elseScope = scope.Child(scope.SelfType, scope.EnclosingBlock)
		t := throwType
		if t == nil {
			t = typesystem.Any
		}
		if sym, ok := elseScope.Locals.Define(n.Else.ElseArg.Name, t, false); ok {
			n.Else.ElseArg.SymIndex = sym.Index
		}
		n.Else.ElseArg.Type = t
	}
	elseType := inferExpr(ctx, elseScope, n.Else.Body)
	n.Else.ElseBlockType = &typesystem.Block{BlockKind: typesystem.BlockClosure, SelfType: scope.SelfType, ReturnType: elseType}

	result := bodyType
	if !typesystem.TypeCompatible(elseType, bodyType) {
		result = typesystem.WrapOptional(bodyType)
	}
	n.Type = result
	return result
}

func inferBodySeq(ctx *Context, scope *symbols.TypeScope, n *ast.Body) typesystem.Type {
	var last typesystem.Type = typesystem.VoidT
	for _, e := range n.Expressions {
		last = inferExpr(ctx, scope, e)
	}
	n.Type = last
	return last
}

func inferTypeCast(ctx *Context, scope *symbols.TypeScope, n *ast.TypeCast) typesystem.Type {
	inferExpr(ctx, scope, n.Value)
	target := resolveTypeName(ctx, n.Target)
	n.Type = target
	return target
}

func inferMatch(ctx *Context, scope *symbols.TypeScope, n *ast.Match) typesystem.Type {
	inferExpr(ctx, scope, n.Scrutinee)
	var result typesystem.Type
	for _, arm := range n.Arms {
		armScope := bindPattern(ctx, scope, arm.Pattern)
		if arm.Guard != nil {
			guardType := inferExpr(ctx, armScope, arm.Guard)
			boolObj, _ := ctx.State.Types.Object("Boolean")
			if !typesystem.TypeCompatible(guardType, boolObj) {
				ctx.State.Diags.Errorf(diagnostics.TypeIncompatible, astLoc(n.Pos), "match guard must be Boolean")
			}
		}
		armType := lowerMatchArmType(ctx, armScope, arm)
		if result == nil {
			result = armType
		} else if !typesystem.TypeCompatible(armType, result) {
			result = typesystem.Any
		}
	}
	if result == nil {
		result = typesystem.VoidT
	}
	n.Type = result
	return result
}

// lowerMatchArmType types one arm's body in the arm's scope. It does not
// look at the arm's pattern: pattern bindings are introduced beforehand by
// bindPattern, and every arm is typed the same way whatever its pattern.
func lowerMatchArmType(ctx *Context, scope *symbols.TypeScope, arm *ast.MatchArm) typesystem.Type {
	return inferExpr(ctx, scope, arm.Body)
}

// bindPattern introduces any locals a pattern binds (BindingPattern,
// VariantPattern sub-bindings) into a child scope for the arm body.
func bindPattern(ctx *Context, scope *symbols.TypeScope, p ast.Pattern) *symbols.TypeScope {
	child := scope.Child(scope.SelfType, scope.EnclosingBlock)
	var bind func(p ast.Pattern)
	bind = func(p ast.Pattern) {
		switch v := p.(type) {
		case *ast.BindingPattern:
			child.Locals.Define(v.Name, typesystem.Any, false)
		case *ast.VariantPattern:
			for _, sub := range v.SubPatterns {
				bind(sub)
			}
		case *ast.TuplePattern:
			for _, sub := range v.Elements {
				bind(sub)
			}
		case *ast.ShapePattern:
			for _, sub := range v.Fields {
				bind(sub)
			}
		case *ast.OrPattern:
			for _, sub := range v.Alternatives {
				bind(sub)
			}
		}
	}
	bind(p)
	return child
}
