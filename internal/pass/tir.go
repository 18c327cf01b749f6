package pass

import (
	"fmt"

	"github.com/inko-lang/inko/internal/ast"
	"github.com/inko-lang/inko/internal/symbols"
	"github.com/inko-lang/inko/internal/tir"
	"github.com/inko-lang/inko/internal/typesystem"
)

// GenerateTir lowers a module's typed AST into TIR (spec §4.1 step 21,
// §4.5): one root CompiledCode for the module body, with a child
// CompiledCode per method, closure and lambda encountered along the way.
func GenerateTir(ctx *Context) *tir.CompiledCode {
	if ctx.Module.AST == nil {
		return nil
	}
	moduleType := &typesystem.Block{BlockKind: typesystem.BlockMethod, SelfType: ctx.Module.Type}
	root := tir.NewCompiledCode(ctx.Module.Name.String(), ctx.Module.Path, 1, moduleType)
	scope, ok := ctx.ScopeFor(ctx.Module.AST.Body)
	if !ok {
		scope = symbols.NewModuleScope(ctx.Module, ctx.Module.Type)
	}

	g := &generator{ctx: ctx, code: root}
	g.block = root.AddBlock("entry")
	g.lowerBodyInto(scope, ctx.Module.AST.Body)
	g.finish()

	ctx.Module.Body = root
	return root
}

// generator holds the mutable state used while lowering one CompiledCode:
// the block currently being appended to, and a counter for fresh block
// names (spec §4.5's try/else and argument-default lowering both need
// fresh, uniquely named blocks).
type generator struct {
	ctx     *Context
	code    *tir.CompiledCode
	block   *tir.BasicBlock
	nextTmp int
	parent  *generator // enclosing method/block/lambda, for marking captured locals used
}

func (g *generator) freshBlockName(prefix string) string {
	g.nextTmp++
	return fmt.Sprintf("%s_%d", prefix, g.nextTmp)
}

func (g *generator) newBlock(prefix string) *tir.BasicBlock {
	return g.code.AddBlock(g.freshBlockName(prefix))
}

// finish appends a trailing Return if the current block falls off the end
// without a terminator. DesugarMethod already makes the return explicit for
// most Method bodies; this covers the module body, closure and lambda
// bodies, and methods DesugarMethod left unwrapped (such as one ending in
// a self tail call).
func (g *generator) finish() {
	if g.block != nil && !g.block.Terminated() {
		g.block.Emit(tir.NewInstruction(astLoc(ast.Pos{}), tir.OpReturn))
	}
}

// lowerBodyInto emits every expression of a Body in sequence, returning the
// register holding the final expression's value (Void register if the
// body is empty).
func (g *generator) lowerBodyInto(scope *symbols.TypeScope, body *ast.Body) tir.Register {
	var last tir.Register
	last = tir.Register{Type: typesystem.VoidT}
	for _, e := range body.Expressions {
		last = g.lowerExpr(scope, e)
	}
	return last
}

func (g *generator) emit(loc ast.Pos, op tir.Opcode, operands ...tir.Operand) {
	g.block.Emit(tir.NewInstruction(astLoc(loc), op, operands...))
}

func (g *generator) alloc(t typesystem.Type) tir.Register {
	return g.code.Registers.Allocate(t)
}

// lowerExpr is the main dispatch table (spec §4.5's per-node-kind lowering
// list).
func (g *generator) lowerExpr(scope *symbols.TypeScope, e ast.Expr) tir.Register {
	switch n := e.(type) {
	case *ast.IntLiteral:
		dst := g.alloc(n.Type)
		g.emit(n.Pos, tir.OpSetLiteral, tir.RegOperand(dst), tir.ConstOperand(n.Value))
		return dst
	case *ast.FloatLiteral:
		dst := g.alloc(n.Type)
		g.emit(n.Pos, tir.OpSetLiteral, tir.RegOperand(dst), tir.ConstOperand(n.Value))
		return dst
	case *ast.StringLiteral:
		dst := g.alloc(n.Type)
		g.emit(n.Pos, tir.OpSetLiteral, tir.RegOperand(dst), tir.ConstOperand(n.Value))
		return dst
	case *ast.BoolLiteral:
		dst := g.alloc(n.Type)
		g.emit(n.Pos, tir.OpSetLiteral, tir.RegOperand(dst), tir.ConstOperand(n.Value))
		return dst
	case *ast.NilLiteral:
		dst := g.alloc(n.Type)
		g.emit(n.Pos, tir.OpSetLiteral, tir.RegOperand(dst), tir.ConstOperand(nil))
		return dst
	case *ast.Self:
		dst := g.alloc(n.Type)
		g.emit(n.Pos, tir.OpGetLocal, tir.RegOperand(dst), tir.SymOperand(0))
		return dst
	case *ast.Identifier:
		return g.lowerIdentifier(scope, n)
	case *ast.Constant:
		dst := g.alloc(n.Type)
		g.emit(n.Pos, tir.OpGetGlobal, tir.RegOperand(dst), tir.ConstOperand(n.Name))
		return dst
	case *ast.Attribute:
		self := g.lowerSelf(scope, n.Pos)
		dst := g.alloc(n.Type)
		g.emit(n.Pos, tir.OpGetAttribute, tir.RegOperand(dst), tir.RegOperand(self), tir.ConstOperand(n.Name))
		return dst
	case *ast.DefineVariable:
		return g.lowerDefineVariable(scope, n)
	case *ast.Return:
		return g.lowerReturn(scope, n)
	case *ast.Throw:
		return g.lowerThrow(scope, n)
	case *ast.Try:
		return g.lowerTry(scope, n)
	case *ast.Send:
		return g.lowerSend(scope, n)
	case *ast.Body:
		return g.lowerBodyInto(scope, n)
	case *ast.Block:
		return g.lowerBlockLiteral(scope, n)
	case *ast.Lambda:
		return g.lowerLambdaLiteral(scope, n)
	case *ast.TypeCast:
		return g.lowerExpr(scope, n.Value)
	case *ast.Match:
		return g.lowerMatch(scope, n)
	case *ast.Method:
		g.lowerMethod(scope, "", n)
		return g.alloc(typesystem.VoidT)
	case *ast.Object:
		g.lowerMethodHolder(scope, n.Name, n.Body)
		return g.alloc(typesystem.VoidT)
	case *ast.Trait:
		g.lowerMethodHolder(scope, n.Name, n.Body)
		return g.alloc(typesystem.VoidT)
	case *ast.TraitImplementation:
		g.lowerMethodHolder(scope, n.ForName, n.Body)
		return g.alloc(typesystem.VoidT)
	case *ast.ReopenObject:
		g.lowerMethodHolder(scope, n.ForName, n.Body)
		return g.alloc(typesystem.VoidT)
	default:
		return g.alloc(typesystem.VoidT)
	}
}

// lowerMethod compiles one Method declaration into a named child
// CompiledCode of the module (spec §4.5 "every Method lowers to its own
// CompiledCode"). owner, when non-empty, namespaces the child's name as
// "Owner#method" so dumps can tell apart same-named methods on different
// objects.
func (g *generator) lowerMethod(scope *symbols.TypeScope, owner string, n *ast.Method) {
	if n.Body == nil || n.MethodType == nil {
		return
	}
	name := n.Name
	if owner != "" {
		name = owner + "#" + name
	}
	selfType := n.MethodType.SelfType
	methodScope := scope.Child(selfType, n.MethodType)
	code := g.compileCallable(name, n.Pos, n.MethodType, n.Arguments, n.Body, methodScope)
	g.code.AddChild(code)
}

// lowerMethodHolder compiles every concrete Method inside an
// Object/Trait/TraitImplementation/ReopenObject body.
func (g *generator) lowerMethodHolder(scope *symbols.TypeScope, owner string, body []ast.Node) {
	for _, m := range body {
		if meth, ok := m.(*ast.Method); ok {
			g.lowerMethod(scope, owner, meth)
		}
	}
}

func (g *generator) lowerSelf(scope *symbols.TypeScope, pos ast.Pos) tir.Register {
	dst := g.alloc(scope.SelfType)
	g.emit(pos, tir.OpGetLocal, tir.RegOperand(dst), tir.SymOperand(0))
	return dst
}

// lowerIdentifier emits a local read for depth 0, a parent-local read for
// a captured variable (depth > 0), or falls through to a send for a
// zero-argument method/global call (spec §4.5 "Identifiers").
func (g *generator) lowerIdentifier(scope *symbols.TypeScope, n *ast.Identifier) tir.Register {
	if n.Depth == 0 {
		g.code.Locals.MarkUsedAt(n.SymIndex)
		dst := g.alloc(n.Type)
		g.emit(n.Pos, tir.OpGetLocal, tir.RegOperand(dst), tir.SymOperand(n.SymIndex))
		return dst
	}
	if n.Depth > 0 {
		g.markAncestorLocalUsed(n.Depth, n.SymIndex)
		dst := g.alloc(n.Type)
		g.emit(n.Pos, tir.OpGetParentLocal, tir.RegOperand(dst), tir.ConstOperand(n.Depth), tir.SymOperand(n.SymIndex))
		return dst
	}
	// Depth == -1: DefineType rewrote this onto an implicit Send which it
	// does not keep a pointer back to, so re-synthesize the zero-arg call.
	send := &ast.Send{Name: n.Name}
	send.Pos = n.Pos
	send.Type = n.Type
	return g.lowerSend(scope, send)
}

func (g *generator) lowerDefineVariable(scope *symbols.TypeScope, n *ast.DefineVariable) tir.Register {
	value := g.lowerExpr(scope, n.Value)
	g.code.Locals.Define(n.Name, n.Type, n.Mutable)
	g.emit(n.Pos, tir.OpSetLocal, tir.SymOperand(n.SymIndex), tir.RegOperand(value))
	return value
}

// markAncestorLocalUsed marks the local at index as used in the generator
// depth hops up the parent chain — the CompiledCode that actually owns the
// slot a captured read resolves to.
func (g *generator) markAncestorLocalUsed(depth, index int) {
	gen := g
	for i := 0; i < depth && gen != nil; i++ {
		gen = gen.parent
	}
	if gen != nil {
		gen.code.Locals.MarkUsedAt(index)
	}
}

func (g *generator) lowerReturn(scope *symbols.TypeScope, n *ast.Return) tir.Register {
	var value tir.Register
	if n.Value != nil {
		value = g.lowerExpr(scope, n.Value)
	} else {
		value = g.alloc(typesystem.VoidT)
	}
	g.emit(n.Pos, tir.OpReturn, tir.RegOperand(value))
	return g.alloc(typesystem.NeverT)
}

func (g *generator) lowerThrow(scope *symbols.TypeScope, n *ast.Throw) tir.Register {
	value := g.lowerExpr(scope, n.Value)
	g.emit(n.Pos, tir.OpThrow, tir.RegOperand(value))
	return g.alloc(typesystem.NeverT)
}

// lowerTry lowers `try body [else [arg] handler]` into three connected
// basic blocks — try, else, tail — plus a PendingCatch spanning the try
// block, exactly mirroring how a runtime catch table intercepts a Throw
// raised while the try block executes (spec §4.5 "Try with else"). The try
// block's own tail ends in a SkipNextBlock rather than a named Goto: it
// relies on else_block immediately following it in block order so it can
// fall straight through to tail without naming it. When there is an else
// and the current block already holds instructions, the try body starts a
// fresh block so the catch range covers the body alone.
func (g *generator) lowerTry(scope *symbols.TypeScope, n *ast.Try) tir.Register {
	result := g.alloc(n.Type)

	if n.Else != nil && !g.block.Empty() {
		start := g.newBlock("try")
		if !g.block.Terminated() {
			g.block.Next = start
		}
		g.block = start
	}
	tryBlock := g.block
	bodyValue := g.lowerExpr(scope, n.Body)
	g.emit(n.Pos, tir.OpSetLocal, tir.SymOperand(result.Index), tir.RegOperand(bodyValue))

	if n.Else == nil {
		return result
	}

	tryTail := g.block
	elseBlock := g.newBlock("try_else")
	after := g.newBlock("try_after")

	g.emit(n.Pos, tir.OpSkipNextBlock)
	tryTail.Next = after

	g.block = elseBlock
	elseScope := scope
	if n.Else.ElseArg != nil {
		elseScope = scope.Child(scope.SelfType, scope.EnclosingBlock)
		g.code.Locals.Define(n.Else.ElseArg.Name, n.Else.ElseArg.Type, false)
		g.emit(n.Pos, tir.OpSetLocal, tir.SymOperand(n.Else.ElseArg.SymIndex), tir.RegOperand(g.alloc(typesystem.Any)))
	}
	elseValue := g.lowerExpr(elseScope, n.Else.Body)
	g.emit(n.Pos, tir.OpSetLocal, tir.SymOperand(result.Index), tir.RegOperand(elseValue))
	if !g.block.Terminated() {
		g.emit(n.Pos, tir.OpGoto, tir.BlockOperand(after.Name))
	}

	g.code.PendingCatches = append(g.code.PendingCatches, tir.PendingCatch{
		TryBlock:  tryBlock.Name,
		ElseBlock: elseBlock.Name,
	})

	g.block = after
	return result
}

// lowerSend lowers a message send to its runtime form (spec §4.5
// "Sends"): Array.new becomes SetArray, a module-global call reads the
// global and RunBlocks it, and every other send reads the method off the
// receiver via GetAttribute and issues RunBlockWithReceiver. A `call` sent
// to a block value is not special-cased: it takes that last path too.
func (g *generator) lowerSend(scope *symbols.TypeScope, n *ast.Send) tir.Register {
	if c, ok := n.Receiver.(*ast.Constant); ok && c.Name == "Array" && n.Name == "new" {
		dst := g.alloc(n.Type)
		var elems []tir.Operand
		for _, a := range n.Arguments {
			elems = append(elems, tir.RegOperand(g.lowerExpr(scope, a)))
		}
		g.emit(n.Pos, tir.OpSetArray, append([]tir.Operand{tir.RegOperand(dst)}, elems...)...)
		return dst
	}

	var receiver tir.Register
	if n.Receiver != nil {
		receiver = g.lowerExpr(scope, n.Receiver)
	} else if n.ReceiverType != nil && isModuleGlobalReceiver(scope, n) {
		dst := g.alloc(n.Type)
		global := g.alloc(n.ReceiverType)
		g.emit(n.Pos, tir.OpGetGlobal, tir.RegOperand(global), tir.ConstOperand(n.Name))
		var args []tir.Operand
		for _, a := range n.Arguments {
			args = append(args, tir.RegOperand(g.lowerExpr(scope, a)))
		}
		g.emit(n.Pos, tir.OpRunBlock, append([]tir.Operand{tir.RegOperand(dst), tir.RegOperand(global)}, args...)...)
		return dst
	} else {
		receiver = g.lowerSelf(scope, n.Pos)
	}

	method := g.alloc(typesystem.Any)
	g.emit(n.Pos, tir.OpGetAttribute, tir.RegOperand(method), tir.RegOperand(receiver), tir.ConstOperand(n.Name))

	var args []tir.Operand
	for _, a := range n.Arguments {
		args = append(args, tir.RegOperand(g.lowerExpr(scope, a)))
	}

	dst := g.alloc(n.Type)
	operands := append([]tir.Operand{tir.RegOperand(dst), tir.RegOperand(method), tir.RegOperand(receiver)}, args...)
	g.emit(n.Pos, tir.OpRunBlockWithReceiver, operands...)
	return dst
}

func isModuleGlobalReceiver(scope *symbols.TypeScope, n *ast.Send) bool {
	if n.Receiver != nil {
		return false
	}
	_, found := scope.Module.Globals().LookupLocal(n.Name)
	return found
}

// lowerBlockLiteral compiles a closure literal into a child CompiledCode
// capturing the enclosing scope, and emits a SetBlock in the parent
// (spec §4.5 "Block / lambda literals").
func (g *generator) lowerBlockLiteral(scope *symbols.TypeScope, n *ast.Block) tir.Register {
	child := scope.Child(scope.SelfType, n.BlockType)
	code := g.compileCallable("block", n.Pos, n.BlockType, n.Arguments, n.Body, child)
	code.Captures = true
	g.code.AddChild(code)

	dst := g.alloc(n.Type)
	g.emit(n.Pos, tir.OpSetBlock, tir.RegOperand(dst), tir.ConstOperand(len(g.code.Children)-1))
	return dst
}

func (g *generator) lowerLambdaLiteral(scope *symbols.TypeScope, n *ast.Lambda) tir.Register {
	child := scope.ChildLambda(n.BlockType)
	code := g.compileCallable("lambda", n.Pos, n.BlockType, n.Arguments, n.Body, child)
	g.code.AddChild(code)

	dst := g.alloc(n.Type)
	g.emit(n.Pos, tir.OpSetBlock, tir.RegOperand(dst), tir.ConstOperand(len(g.code.Children)-1))
	return dst
}

// compileCallable lowers one Method/Block/Lambda body into its own
// CompiledCode, including the argument-default guard blocks spec §4.5
// describes ("for each optional argument: LocalExists, GotoIfTrue over a
// block that assigns the default").
func (g *generator) compileCallable(name string, pos ast.Pos, blockType *typesystem.Block, args []*ast.DefineArgument, body *ast.Body, scope *symbols.TypeScope) *tir.CompiledCode {
	code := tir.NewCompiledCode(name, pos.File, pos.Line, blockType)
	code.ArgumentNames = make([]string, len(args))

	sub := &generator{ctx: g.ctx, code: code, parent: g}
	sub.block = code.AddBlock("entry")

	for i, a := range args {
		code.Locals.Define(a.Name, blockType.Arguments[i].Type, false)
		code.ArgumentNames[i] = a.Name
		if !blockType.Arguments[i].Rest && !blockType.Arguments[i].Default {
			code.RequiredArgumentCount++
		}
		if blockType.Arguments[i].Rest {
			code.HasRestArgument = true
		}
		if a.Default != nil {
			sub.emitArgumentDefault(scope, a.SymIndex, a)
		}
	}

	sub.lowerBodyInto(scope, body)
	sub.finish()
	return code
}

// emitArgumentDefault emits the guard spec §4.5 names: skip past the
// default-assignment block when the caller already supplied a value for
// this argument (LocalExists / GotoIfTrue).
func (g *generator) emitArgumentDefault(scope *symbols.TypeScope, symIndex int, a *ast.DefineArgument) {
	exists := g.alloc(typesystem.Any)
	g.emit(a.Pos, tir.OpLocalExists, tir.RegOperand(exists), tir.SymOperand(symIndex))

	defaultBlock := g.newBlock("arg_default")
	after := g.newBlock("arg_default_after")
	g.emit(a.Pos, tir.OpGotoIfTrue, tir.RegOperand(exists), tir.BlockOperand(after.Name))
	g.block.Next = defaultBlock

	g.block = defaultBlock
	value := g.lowerExpr(scope, a.Default)
	g.emit(a.Pos, tir.OpSetLocal, tir.SymOperand(symIndex), tir.RegOperand(value))
	g.emit(a.Pos, tir.OpGoto, tir.BlockOperand(after.Name))

	g.block = after
}

// lowerMatch lowers a match expression into a cascade of guarded arm
// blocks that converge on a shared result register (spec §4.5 "Match").
// Arm patterns are not tested at run time. The guard of every arm except
// the last becomes a GotoIfTrue test, in source order; an unguarded arm is
// unconditional and ends the cascade. The last arm is always entered when
// reached, and its guard, if any, is not evaluated.
func (g *generator) lowerMatch(scope *symbols.TypeScope, n *ast.Match) tir.Register {
	g.lowerExpr(scope, n.Scrutinee)
	dst := g.alloc(n.Type)
	after := g.freshBlockName("match_after")

	for i, arm := range n.Arms {
		armScope := scope
		body := g.newBlock("match_arm")
		var next *tir.BasicBlock
		if arm.Guard != nil && i < len(n.Arms)-1 {
			guard := g.lowerExpr(armScope, arm.Guard)
			next = g.newBlock("match_next")
			g.emit(arm.Guard.Position(), tir.OpGotoIfTrue, tir.RegOperand(guard), tir.BlockOperand(body.Name))
			g.emit(arm.Guard.Position(), tir.OpGoto, tir.BlockOperand(next.Name))
		} else {
			g.emit(arm.Body.Position(), tir.OpGoto, tir.BlockOperand(body.Name))
		}

		g.block = body
		value := g.lowerExpr(armScope, arm.Body)
		g.emit(arm.Body.Position(), tir.OpSetLocal, tir.SymOperand(dst.Index), tir.RegOperand(value))
		g.emit(arm.Body.Position(), tir.OpGoto, tir.BlockOperand(after))

		if next == nil {
			break
		}
		g.block = next
	}

	g.block = g.code.AddBlock(after)
	return dst
}
