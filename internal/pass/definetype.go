package pass

import (
	"github.com/inko-lang/inko/internal/ast"
	"github.com/inko-lang/inko/internal/diagnostics"
	"github.com/inko-lang/inko/internal/symbols"
	"github.com/inko-lang/inko/internal/typesystem"
)

// DefineType is the recursive AST type-inference/checking visitor (spec
// §4.1 step 18, §4.4). It assigns a typesystem.Type to every expression
// node's base.Type field, attaches method/object/trait types to the type
// system, and records the resolved receiver/method/throw info Send needs
// for GenerateTir.
//
// Unlike the spec's note that method bodies are deferred "to the end of
// module-body processing" so forward references resolve, this
// implementation relies on Hoisting (which already moved every
// object/trait/method declaration ahead of ordinary expressions) plus
// DefineTypeSignatures (which pre-registers every nominal type before any
// body is checked) to get the same forward-reference behavior without a
// second deferred pass — one fewer moving part for the same result.
func DefineType(ctx *Context) {
	mod := ctx.Module
	if mod.AST == nil || mod.AST.Body == nil {
		return
	}
	scope, ok := ctx.ScopeFor(mod.AST.Body)
	if !ok {
		scope = symbols.NewModuleScope(mod, moduleSelfType(mod))
		ctx.Scopes[mod.AST.Body] = scope
	}

	// First pass: install every method/object/trait signature so sends
	// between top-level declarations resolve regardless of order.
	for _, e := range mod.AST.Body.Expressions {
		declareSignature(ctx, scope, e)
	}
	// Second pass: type-check every declaration body and loose statement.
	for _, e := range mod.AST.Body.Expressions {
		inferTopLevel(ctx, scope, e)
	}
}

func declareSignature(ctx *Context, scope *symbols.TypeScope, e ast.Expr) {
	switch n := e.(type) {
	case *ast.Method:
		block := buildMethodBlock(ctx, scope, n, moduleSelfType(ctx.Module))
		n.MethodType = block
		ctx.Module.Globals().Define(n.Name, block, false)
	case *ast.Object:
		for _, m := range n.Body {
			meth, ok := m.(*ast.Method)
			if !ok {
				continue
			}
			block := buildMethodBlock(ctx, scope, meth, n.ObjectType.NewInstance())
			meth.MethodType = block
			n.ObjectType.AddAttribute(meth.Name, block, false)
		}
	case *ast.Trait:
		for _, m := range n.Body {
			meth, ok := m.(*ast.Method)
			if !ok {
				continue
			}
			block := buildMethodBlock(ctx, scope, meth, typesystem.SelfT)
			meth.MethodType = block
			if meth.Body == nil || len(meth.Body.Expressions) == 0 {
				n.TraitType.RequiredMethods[meth.Name] = &typesystem.Symbol{Name: meth.Name, Type: block}
			} else {
				n.TraitType.DefaultMethods[meth.Name] = &typesystem.Symbol{Name: meth.Name, Type: block}
			}
		}
	}
}

func buildMethodBlock(ctx *Context, scope *symbols.TypeScope, m *ast.Method, selfType typesystem.Type) *typesystem.Block {
	block := &typesystem.Block{BlockKind: typesystem.BlockMethod, SelfType: selfType}
	for _, tp := range m.TypeParameters {
		block.TypeParameters = append(block.TypeParameters, &typesystem.TypeParameter{Name: tp.Name, Mutable: tp.Mutable})
	}
	for _, mb := range m.MethodBounds {
		block.MethodBounds = append(block.MethodBounds, &typesystem.TypeParameter{Name: mb.Name, Mutable: mb.Mutable})
	}
	for _, a := range m.Arguments {
		block.Arguments = append(block.Arguments, declareArgument(ctx, scope, a, nil))
	}
	if tn, ok := m.ReturnType.(*ast.TypeName); ok {
		block.ReturnType = resolveTypeName(ctx, tn)
	} else {
		nilObj, _ := ctx.State.Types.Object("Nil")
		block.ReturnType = nilObj
	}
	if tn, ok := m.ThrowType.(*ast.TypeName); ok {
		block.ThrowType = resolveTypeName(ctx, tn)
	} else {
		block.ThrowInferred = true
	}
	return block
}

// declareArgument computes a typesystem.Argument for one DefineArgument
// (spec §4.4 "Argument type determination"). expected is the
// caller-inferred type to fall back on when neither an annotation nor a
// default is present (closure-argument inference, spec §4.4 "Send" step
// 5); it is nil for ordinary method/block declarations.
func declareArgument(ctx *Context, scope *symbols.TypeScope, a *ast.DefineArgument, expected typesystem.Type) typesystem.Argument {
	t := argumentType(ctx, scope, a, expected)
	return typesystem.Argument{Name: a.Name, Type: t, Default: a.Default != nil, Rest: a.Rest, Keyword: a.Keyword}
}

func argumentType(ctx *Context, scope *symbols.TypeScope, a *ast.DefineArgument, expected typesystem.Type) typesystem.Type {
	if tn, ok := a.Annotation.(*ast.TypeName); ok {
		annotated := resolveTypeName(ctx, tn)
		if a.Default != nil {
			given := inferExpr(ctx, scope, a.Default)
			if !typesystem.TypeCompatible(given, annotated) {
				ctx.State.Diags.Errorf(diagnostics.TypeIncompatible, astLoc(a.Pos),
					"default value for %q is not compatible with its declared type", a.Name)
			}
		}
		return annotated
	}
	if a.Default != nil {
		return inferExpr(ctx, scope, a.Default)
	}
	if expected != nil {
		return expected
	}
	ctx.State.Diags.Errorf(diagnostics.TypeIncompatible, astLoc(a.Pos),
		"argument %q has no declared type and none could be inferred", a.Name)
	return typesystem.ErrorT
}

func inferTopLevel(ctx *Context, scope *symbols.TypeScope, e ast.Expr) typesystem.Type {
	switch n := e.(type) {
	case *ast.Method:
		return checkMethodBody(ctx, scope, n)
	case *ast.Object:
		return checkObjectBody(ctx, scope, n)
	case *ast.Trait:
		return checkTraitBody(ctx, scope, n)
	case *ast.TraitImplementation:
		return checkTraitImplementation(ctx, scope, n)
	case *ast.ReopenObject:
		return checkReopenObject(ctx, scope, n)
	default:
		return inferExpr(ctx, scope, e)
	}
}

func checkMethodBody(ctx *Context, scope *symbols.TypeScope, m *ast.Method) typesystem.Type {
	child := scope.Child(m.MethodType.SelfType, m.MethodType)
	for i, a := range m.Arguments {
		argT := m.MethodType.Arguments[i].Type
		if a.Rest {
			argT = ctx.State.Types.NewArrayOfType(argT)
		}
		if sym, ok := child.Locals.Define(a.Name, argT, false); ok {
			a.SymIndex = sym.Index
		}
	}
	if m.Body != nil {
		inferExpr(ctx, child, m.Body)
	}
	return typesystem.VoidT
}

func checkObjectBody(ctx *Context, scope *symbols.TypeScope, obj *ast.Object) typesystem.Type {
	selfType := obj.ObjectType.NewInstance()
	for _, m := range obj.Body {
		if meth, ok := m.(*ast.Method); ok {
			meth.MethodType.SelfType = selfType
			checkMethodBody(ctx, scope, meth)
		}
	}
	return typesystem.VoidT
}

func checkTraitBody(ctx *Context, scope *symbols.TypeScope, tr *ast.Trait) typesystem.Type {
	for _, m := range tr.Body {
		meth, ok := m.(*ast.Method)
		if !ok || meth.Body == nil || len(meth.Body.Expressions) == 0 {
			continue
		}
		checkMethodBody(ctx, scope, meth)
	}
	return typesystem.VoidT
}

func checkTraitImplementation(ctx *Context, scope *symbols.TypeScope, impl *ast.TraitImplementation) typesystem.Type {
	trait, ok := ctx.State.Types.Trait(impl.TraitName)
	if !ok {
		return typesystem.ErrorT
	}
	obj, ok := ctx.State.Types.Object(impl.ForName)
	if !ok {
		return typesystem.ErrorT
	}
	selfType := obj.NewInstance()
	for _, m := range impl.Body {
		meth, ok := m.(*ast.Method)
		if !ok {
			continue
		}
		block := buildMethodBlock(ctx, scope, meth, selfType)
		meth.MethodType = block
		obj.AddAttribute(meth.Name, block, false)
		checkMethodBody(ctx, scope, meth)
	}
	missingTraits, missingMethods := trait.TraitRequirementsMet(obj)
	if len(missingTraits) > 0 || len(missingMethods) > 0 {
		for _, name := range missingMethods {
			ctx.State.Diags.Errorf(diagnostics.TypeUnimplementedMethod, astLoc(impl.Pos),
				"%q does not implement required method %q of trait %q", obj.Name, name, trait.Name)
		}
		for _, mt := range missingTraits {
			ctx.State.Diags.Errorf(diagnostics.TypeUnimplementedTrait, astLoc(impl.Pos),
				"%q does not implement required trait %q of trait %q", obj.Name, mt.Name, trait.Name)
		}
		removeImplementedTrait(obj, trait)
	}
	return typesystem.VoidT
}

func removeImplementedTrait(obj *typesystem.Object, trait *typesystem.Trait) {
	out := obj.ImplementedTraits[:0]
	for _, t := range obj.ImplementedTraits {
		if t.Name != trait.Name {
			out = append(out, t)
		}
	}
	obj.ImplementedTraits = out
}

func checkReopenObject(ctx *Context, scope *symbols.TypeScope, reopen *ast.ReopenObject) typesystem.Type {
	if _, isTrait := ctx.State.Types.Trait(reopen.ForName); isTrait {
		ctx.State.Diags.Errorf(diagnostics.StructNotAnObject, astLoc(reopen.Pos),
			"cannot reopen %q: it is a trait, not an object", reopen.ForName)
		return typesystem.ErrorT
	}
	obj, ok := ctx.State.Types.Object(reopen.ForName)
	if !ok {
		ctx.State.Diags.Errorf(diagnostics.StructNotAnObject, astLoc(reopen.Pos),
			"%q is not a known object", reopen.ForName)
		return typesystem.ErrorT
	}
	selfType := obj.NewInstance()
	for _, m := range reopen.Body {
		meth, ok := m.(*ast.Method)
		if !ok {
			continue
		}
		block := buildMethodBlock(ctx, scope, meth, selfType)
		meth.MethodType = block
		obj.AddAttribute(meth.Name, block, false)
		checkMethodBody(ctx, scope, meth)
	}
	return typesystem.VoidT
}

// inferExpr types one expression, storing the result on the node's base
// Type field via each node's exported fields the caller can read back off
// (e.g. Send.ReceiverType); the returned value is also the type used by
// the enclosing expression.
func inferExpr(ctx *Context, scope *symbols.TypeScope, e ast.Expr) typesystem.Type {
	if e == nil {
		nilObj, _ := ctx.State.Types.Object("Nil")
		return nilObj
	}
	switch n := e.(type) {
	case *ast.IntLiteral:
		n.Type = ctx.State.Types.MustObject("Integer")
		return n.Type
	case *ast.FloatLiteral:
		n.Type = ctx.State.Types.MustObject("Float")
		return n.Type
	case *ast.StringLiteral:
		n.Type = ctx.State.Types.MustObject("String")
		return n.Type
	case *ast.BoolLiteral:
		name := "False"
		if n.Value {
			name = "True"
		}
		n.Type = ctx.State.Types.MustObject(name)
		return n.Type
	case *ast.NilLiteral:
		n.Type = ctx.State.Types.MustObject("Nil")
		return n.Type
	case *ast.Self:
		n.Type = scope.SelfType
		return n.Type
	case *ast.Identifier:
		return inferIdentifier(ctx, scope, n)
	case *ast.Constant:
		return inferConstant(ctx, scope, n)
	case *ast.Attribute:
		return inferAttribute(ctx, scope, n)
	case *ast.DefineVariable:
		return inferDefineVariable(ctx, scope, n)
	case *ast.Return:
		return inferReturn(ctx, scope, n)
	case *ast.Throw:
		return inferThrow(ctx, scope, n)
	case *ast.Try:
		return inferTry(ctx, scope, n)
	case *ast.Send:
		return inferSend(ctx, scope, n, nil)
	case *ast.Body:
		return inferBodySeq(ctx, scope, n)
	case *ast.Block:
		return inferBlockLiteral(ctx, scope, n, nil)
	case *ast.Lambda:
		return inferLambdaLiteral(ctx, scope, n)
	case *ast.TypeCast:
		return inferTypeCast(ctx, scope, n)
	case *ast.Match:
		return inferMatch(ctx, scope, n)
	case *ast.RawInstruction:
		n.Type = typesystem.Any
		return n.Type
	default:
		return typesystem.ErrorT
	}
}
