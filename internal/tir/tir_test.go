package tir

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inko-lang/inko/internal/diagnostics"
	"github.com/inko-lang/inko/internal/typesystem"
)

func TestReachableBlocksViaFallthroughAndJump(t *testing.T) {
	code := NewCompiledCode("main", "a.inko", 1, nil)
	entry := code.AddBlock("entry")
	tail := code.AddBlock("tail")
	dead := code.AddBlock("dead")

	loc := diagnostics.Location{File: "a.inko", Line: 1, Column: 1}
	entry.Emit(NewInstruction(loc, OpGoto, BlockOperand("tail")))
	tail.Emit(NewInstruction(loc, OpReturn))
	dead.Emit(NewInstruction(loc, OpReturn))

	reachable := code.ReachableBlocks()
	assert.True(t, reachable["entry"])
	assert.True(t, reachable["tail"])
	assert.False(t, reachable["dead"])

	unreachable := code.UnreachableBlocks()
	require.Len(t, unreachable, 1)
	assert.Equal(t, "dead", unreachable[0].Name)
}

func TestEmptyUnreachableBlockIsNotReported(t *testing.T) {
	code := NewCompiledCode("main", "a.inko", 1, nil)
	entry := code.AddBlock("entry")
	code.AddBlock("empty_dead")

	loc := diagnostics.Location{}
	entry.Emit(NewInstruction(loc, OpReturn))

	unreachable := code.UnreachableBlocks()
	assert.Empty(t, unreachable, "an empty unreachable block is not itself a defect")
}

func TestCatchEntryOrderingInvariant(t *testing.T) {
	valid := CatchEntry{Start: 0, Stop: 4, JumpTo: 4}
	assert.True(t, valid.Valid())

	invalid := CatchEntry{Start: 5, Stop: 2, JumpTo: 1}
	assert.False(t, invalid.Valid())
}

// A flattened instruction's operands must match field-for-field; go-cmp
// gives a readable diff the moment lowering drifts (e.g. the wrong
// register index or a dropped operand) instead of an opaque !=.
func TestInstructionOperandsStructuralDiff(t *testing.T) {
	loc := diagnostics.Location{File: "a.inko", Line: 3, Column: 1}
	got := NewInstruction(loc, OpSetLiteral, RegOperand(Register{Index: 0}), ConstOperand("hi"))
	want := NewInstruction(loc, OpSetLiteral, RegOperand(Register{Index: 0}), ConstOperand("hi"))

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("instruction mismatch (-want +got):\n%s", diff)
	}

	mutated := NewInstruction(loc, OpSetLiteral, RegOperand(Register{Index: 1}), ConstOperand("hi"))
	if diff := cmp.Diff(want, mutated); diff == "" {
		t.Error("expected a diff when the register index changes")
	}
}

func TestRegisterAllocationIsStable(t *testing.T) {
	var regs Registers
	r0 := regs.Allocate(typesystem.Any)
	r1 := regs.Allocate(typesystem.Any)
	assert.Equal(t, 0, r0.Index)
	assert.Equal(t, 1, r1.Index)
	assert.Equal(t, 2, regs.Count())
}
