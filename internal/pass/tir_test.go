package pass

import (
	"testing"

	"github.com/inko-lang/inko/internal/ast"
	"github.com/inko-lang/inko/internal/tir"
)

// A method with two let-bound locals must lower so that each local gets
// its own distinct slot: DefineType stamps SymIndex onto the defining and
// referencing AST nodes, and GenerateTir must read and write those exact
// slots rather than recomputing its own, independent numbering (spec
// §4.2, §4.5).
func TestGenerateTirAssignsDistinctLocalSlots(t *testing.T) {
	ctx := newTestContext(t, "main")

	method := &ast.Method{
		Name: "compute",
		Arguments: []*ast.DefineArgument{
			{Name: "x", Annotation: &ast.TypeName{Name: "Integer"}},
		},
		ReturnType: &ast.TypeName{Name: "Integer"},
		Body: &ast.Body{Expressions: []ast.Expr{
			&ast.DefineVariable{Name: "a", Value: &ast.Identifier{Name: "x"}},
			&ast.DefineVariable{Name: "b", Value: &ast.IntLiteral{Value: 2}},
			&ast.Identifier{Name: "a"},
		}},
	}
	ctx.Module.AST = &ast.File{Body: &ast.Body{Expressions: []ast.Expr{method}}}

	DefineType(ctx)
	if len(ctx.State.Diags.Errors()) != 0 {
		t.Fatalf("unexpected errors from DefineType: %v", ctx.State.Diags.Errors())
	}

	defineA := method.Body.Expressions[0].(*ast.DefineVariable)
	defineB := method.Body.Expressions[1].(*ast.DefineVariable)
	finalRead := method.Body.Expressions[2].(*ast.Identifier)

	if method.Arguments[0].SymIndex != 0 {
		t.Errorf("x.SymIndex = %d, want 0", method.Arguments[0].SymIndex)
	}
	if defineA.SymIndex != 1 {
		t.Errorf("a.SymIndex = %d, want 1", defineA.SymIndex)
	}
	if defineB.SymIndex != 2 {
		t.Errorf("b.SymIndex = %d, want 2", defineB.SymIndex)
	}
	if finalRead.SymIndex != 1 || finalRead.Depth != 0 {
		t.Errorf("final read of a: SymIndex=%d Depth=%d, want SymIndex=1 Depth=0", finalRead.SymIndex, finalRead.Depth)
	}

	root := GenerateTir(ctx)
	if len(root.Children) != 1 {
		t.Fatalf("expected 1 lowered method, got %d", len(root.Children))
	}
	code := root.Children[0]

	if code.Locals.Len() != 3 {
		t.Fatalf("code.Locals.Len() = %d, want 3 (x, a, b)", code.Locals.Len())
	}

	// b is never read after being defined, so it alone must surface as
	// unused; x and a are both read, so neither should.
	unused := code.Locals.UnusedSymbols()
	if len(unused) != 1 || unused[0].Name != "b" {
		names := make([]string, len(unused))
		for i, s := range unused {
			names[i] = s.Name
		}
		t.Errorf("UnusedSymbols() = %v, want exactly [b]", names)
	}

	// Every local read in the body must target the SymIndex DefineType
	// stamped, not the register's own index (the bug the fix replaces).
	var getLocalOperands []int
	for _, block := range code.Blocks {
		for _, instr := range block.Instructions {
			if instr.Opcode != tir.OpGetLocal {
				continue
			}
			for _, op := range instr.Operands {
				if op.Kind == tir.OperandSymbolIndex {
					getLocalOperands = append(getLocalOperands, op.Symbol)
				}
			}
		}
	}
	foundX, foundA := false, false
	for _, idx := range getLocalOperands {
		if idx == 0 {
			foundX = true
		}
		if idx == 1 {
			foundA = true
		}
		if idx == 2 {
			t.Errorf("found a read of slot 2 (b), which the body never reads")
		}
	}
	if !foundX {
		t.Errorf("expected a GetLocal read of slot 0 (x)")
	}
	if !foundA {
		t.Errorf("expected a GetLocal read of slot 1 (a)")
	}
}

// A block literal nested inside a method captures the enclosing local:
// the captured read must mark the local used on the ancestor CompiledCode
// that actually owns the slot, not on the block's own (unrelated) table.
func TestGenerateTirMarksCapturedLocalUsedOnAncestor(t *testing.T) {
	ctx := newTestContext(t, "main")

	captured := &ast.Block{
		Body: &ast.Body{Expressions: []ast.Expr{&ast.Identifier{Name: "a"}}},
	}
	method := &ast.Method{
		Name: "holder",
		Body: &ast.Body{Expressions: []ast.Expr{
			&ast.DefineVariable{Name: "a", Value: &ast.IntLiteral{Value: 1}},
			captured,
		}},
	}
	ctx.Module.AST = &ast.File{Body: &ast.Body{Expressions: []ast.Expr{method}}}

	DefineType(ctx)
	if len(ctx.State.Diags.Errors()) != 0 {
		t.Fatalf("unexpected errors from DefineType: %v", ctx.State.Diags.Errors())
	}

	capturedRead := captured.Body.Expressions[0].(*ast.Identifier)
	if capturedRead.Depth != 1 {
		t.Fatalf("expected the block's read of a to be captured at depth 1, got %d", capturedRead.Depth)
	}

	root := GenerateTir(ctx)
	methodCode := root.Children[0]

	unused := methodCode.Locals.UnusedSymbols()
	if len(unused) != 0 {
		names := make([]string, len(unused))
		for i, s := range unused {
			names[i] = s.Name
		}
		t.Errorf("UnusedSymbols() = %v, want none: a is read by the captured block", names)
	}
}

// lowerTry must terminate the try body with an actual SkipNextBlock
// instruction, and the else-handler block it names in PendingCatches must
// be reachable — it is entered only through the catch table, not through
// any named Goto/fallthrough edge, so ReachableBlocks must seed it as a
// root rather than flag it as dead code (spec §4.5 "Try with else").
func TestLowerTryEmitsSkipNextBlockAndElseIsReachable(t *testing.T) {
	ctx := newTestContext(t, "main")
	intObj := ctx.State.Types.MustObject("Integer")

	body := &ast.IntLiteral{Value: 1}
	body.Type = intObj
	elseBody := &ast.IntLiteral{Value: 2}
	elseBody.Type = intObj

	tryNode := &ast.Try{
		Body: body,
		Else: &ast.TryElse{
			ElseArg: &ast.DefineArgument{Name: "e", SymIndex: 0},
			Body:    elseBody,
		},
	}
	tryNode.Type = intObj
	ctx.Module.AST = &ast.File{Body: &ast.Body{Expressions: []ast.Expr{tryNode}}}

	root := GenerateTir(ctx)

	if len(root.PendingCatches) != 1 {
		t.Fatalf("expected exactly one PendingCatch, got %d", len(root.PendingCatches))
	}
	pc := root.PendingCatches[0]

	var tryBlock *tir.BasicBlock
	for _, b := range root.Blocks {
		if b.Name == pc.TryBlock {
			tryBlock = b
		}
	}
	if tryBlock == nil {
		t.Fatalf("could not find the try block named by PendingCatch: %s", pc.TryBlock)
	}
	instrs := tryBlock.Instructions
	if len(instrs) == 0 || instrs[len(instrs)-1].Opcode != tir.OpSkipNextBlock {
		t.Errorf("try block's last instruction = %v, want a trailing SkipNextBlock", instrs)
	}

	reachable := root.ReachableBlocks()
	if !reachable[pc.ElseBlock] {
		t.Errorf("else block %q must be reachable (via the PendingCatch root), reachable=%v", pc.ElseBlock, reachable)
	}
	if unreachable := root.UnreachableBlocks(); len(unreachable) != 0 {
		names := make([]string, len(unreachable))
		for i, b := range unreachable {
			names[i] = b.Name
		}
		t.Errorf("UnreachableBlocks() = %v, want none", names)
	}
}
