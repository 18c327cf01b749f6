package pass

import (
	"github.com/inko-lang/inko/internal/ast"
	"github.com/inko-lang/inko/internal/diagnostics"
	"github.com/inko-lang/inko/internal/symbols"
	"github.com/inko-lang/inko/internal/typesystem"
)

// inferBlockLiteral types a `fn (args) { body }` closure (spec §4.4 "Block
// / lambda"). expected, when non-nil, is the Block type the call site
// passing this closure already expects — used to infer unannotated
// parameter types (spec §4.4 "Send" step 5, the closure-argument-inference
// scenario).
func inferBlockLiteral(ctx *Context, scope *symbols.TypeScope, n *ast.Block, expected *typesystem.Block) typesystem.Type {
	block := &typesystem.Block{BlockKind: typesystem.BlockClosure, SelfType: scope.SelfType}
	child := scope.Child(scope.SelfType, block)

	for i, a := range n.Arguments {
		var paramExpected typesystem.Type
		if expected != nil {
			if t, _, ok := expected.ArgumentTypeAt(i); ok {
				paramExpected = t
			}
		}
		arg := declareArgument(ctx, child, a, paramExpected)
		block.Arguments = append(block.Arguments, arg)
		if sym, ok := child.Locals.Define(a.Name, arg.Type, false); ok {
			a.SymIndex = sym.Index
		}
	}
	if tn, ok := n.ReturnType.(*ast.TypeName); ok {
		block.ReturnType = resolveTypeName(ctx, tn)
	} else if expected != nil && expected.ReturnType != nil {
		block.ReturnType = expected.ReturnType
	}
	if tn, ok := n.ThrowType.(*ast.TypeName); ok {
		block.ThrowType = resolveTypeName(ctx, tn)
	} else {
		block.ThrowInferred = true
	}

	bodyType := inferExpr(ctx, child, n.Body)
	if block.ReturnType == nil {
		block.ReturnType = bodyType
	} else if !typesystem.TypeCompatible(bodyType, block.ReturnType) {
		ctx.State.Diags.Errorf(diagnostics.TypeIncompatible, astLoc(n.Pos), "closure body is not compatible with its return type")
	}

	n.BlockType = block
	n.Type = block
	return block
}

// inferLambdaLiteral types a `lambda (args) { body }` literal: its self
// type is always the enclosing module's (spec §4.4 "a lambda's self type
// is the module type").
func inferLambdaLiteral(ctx *Context, scope *symbols.TypeScope, n *ast.Lambda) typesystem.Type {
	block := &typesystem.Block{BlockKind: typesystem.BlockLambda, SelfType: scope.Module.ModuleType()}
	child := scope.ChildLambda(block)

	for _, a := range n.Arguments {
		arg := declareArgument(ctx, child, a, nil)
		block.Arguments = append(block.Arguments, arg)
		if sym, ok := child.Locals.Define(a.Name, arg.Type, false); ok {
			a.SymIndex = sym.Index
		}
	}
	if tn, ok := n.ReturnType.(*ast.TypeName); ok {
		block.ReturnType = resolveTypeName(ctx, tn)
	}
	if tn, ok := n.ThrowType.(*ast.TypeName); ok {
		block.ThrowType = resolveTypeName(ctx, tn)
	}

	bodyType := inferExpr(ctx, child, n.Body)
	if block.ReturnType == nil {
		block.ReturnType = bodyType
	}

	n.BlockType = block
	n.Type = block
	return block
}

// inferSend types a message send (spec §4.4 "Send"). expectedReturn is
// currently unused by callers (reserved for chained-inference callers) and
// accepted for interface symmetry with inferBlockLiteral.
func inferSend(ctx *Context, scope *symbols.TypeScope, n *ast.Send, expectedReturn typesystem.Type) typesystem.Type {
	receiverType, method, isModuleGlobal := resolveSendTarget(ctx, scope, n)
	if method == nil {
		ctx.State.Diags.Errorf(diagnostics.ResUndefinedMethod, astLoc(n.Pos), "undefined method %q", n.Name)
		n.Type = typesystem.ErrorT
		return typesystem.ErrorT
	}
	n.ReceiverType = receiverType

	if !isModuleGlobal {
		if missing := typesystem.MethodBoundsMet(method, receiverType); len(missing) > 0 {
			ctx.State.Diags.Errorf(diagnostics.TypeMethodBoundsUnmet, astLoc(n.Pos),
				"%q does not meet the method bounds required by %q", receiverType, n.Name)
		}
	}

	if !method.WithinArgumentCountRange(len(n.Arguments)) {
		ctx.State.Diags.Errorf(diagnostics.TypeArgumentCountMismatch, astLoc(n.Pos),
			"wrong number of arguments to %q", n.Name)
	}

	var typeArgs []typesystem.Type
	for _, ta := range n.TypeArguments {
		if tn, ok := ta.(*ast.TypeName); ok {
			typeArgs = append(typeArgs, resolveTypeName(ctx, tn))
		}
	}
	instantiated := method.NewInstanceForSend(typeArgs)

	bindings := map[string]typesystem.Type{}
	for i, argExpr := range n.Arguments {
		declaredType, _, ok := instantiated.ArgumentTypeAt(i)
		var argType typesystem.Type
		if blk, isBlockLit := argExpr.(*ast.Block); isBlockLit && ok {
			if expectedBlock, isBlock := declaredType.(*typesystem.Block); isBlock {
				argType = inferBlockLiteral(ctx, scope, blk, expectedBlock)
			} else {
				argType = inferExpr(ctx, scope, argExpr)
			}
		} else {
			argType = inferExpr(ctx, scope, argExpr)
		}
		if ok && !typesystem.TypeCompatible(argType, declaredType) {
			ctx.State.Diags.Errorf(diagnostics.TypeIncompatible, astLoc(n.Pos),
				"argument %d to %q is not compatible with its declared type", i, n.Name)
		}
		if ok {
			for k, v := range typesystem.InitializeAs(declaredType, argType, instantiated) {
				bindings[k] = v
			}
		}
	}

	resolvedReturn := instantiated.ReturnType
	resolvedThrow := instantiated.ThrowType
	if len(bindings) > 0 {
		resolvedReturn = typesystem.Substitute(resolvedReturn, bindings)
		if resolvedThrow != nil {
			resolvedThrow = typesystem.Substitute(resolvedThrow, bindings)
		}
	}
	resolvedReturn = typesystem.ResolveTypeParameters(resolvedReturn, instantiated)

	n.ResolvedMethod = instantiated
	n.ThrowType = resolvedThrow
	n.Type = resolvedReturn
	return resolvedReturn
}

// resolveSendTarget implements spec §4.4 "Send"'s receiver-resolution
// order: explicit receiver, else self if it responds, else the module if
// it responds, else an undefined-method error.
func resolveSendTarget(ctx *Context, scope *symbols.TypeScope, n *ast.Send) (receiverType typesystem.Type, method *typesystem.Block, isModuleGlobal bool) {
	if n.Receiver != nil {
		if c, ok := n.Receiver.(*ast.Constant); ok && c.Name == "Array" && n.Name == "new" {
			arr, _ := ctx.State.Types.Object("Array")
			return arr.NewInstance(typesystem.Any), arrayNewMethodStub(ctx), false
		}
		receiverType = inferExpr(ctx, scope, n.Receiver)
		if obj, ok := selfObject(receiverType); ok {
			if sym, found := obj.LookupMethod(n.Name); found {
				if block, ok := sym.Type.(*typesystem.Block); ok {
					return receiverType, block, false
				}
			}
		}
		return receiverType, nil, false
	}

	if obj, ok := selfObject(scope.SelfType); ok {
		if sym, found := obj.LookupMethod(n.Name); found {
			if block, ok := sym.Type.(*typesystem.Block); ok {
				return scope.SelfType, block, false
			}
		}
	}
	if sym, found := scope.Module.Globals().LookupLocal(n.Name); found {
		if block, ok := sym.Type.(*typesystem.Block); ok {
			sym.MarkUsed()
			return scope.Module.ModuleType(), block, true
		}
	}
	return typesystem.ErrorT, nil, false
}

// arrayNewMethodStub synthesizes the Block signature for the built-in
// `Array.new(*values)` constructor (spec §4.5 "Sends... receiver == Array
// && name == 'new'"). Array.new is a runtime primitive with no Inko-level
// declaration, so DefineType fabricates its signature here rather than
// registering a phantom method on the Array object.
func arrayNewMethodStub(ctx *Context) *typesystem.Block {
	return &typesystem.Block{
		BlockKind:  typesystem.BlockMethod,
		Arguments:  []typesystem.Argument{{Name: "values", Type: typesystem.Any, Rest: true}},
		ReturnType: ctx.State.Types.NewArrayOfType(typesystem.Any),
	}
}
