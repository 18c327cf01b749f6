package pass

import (
	"github.com/inko-lang/inko/internal/diagnostics"
	"github.com/inko-lang/inko/internal/tir"
)

// literalWideThreshold is the pool index at which SetLiteral must widen to
// SetLiteralWide (spec §4.7 "literal interning ... SetLiteralWide when the
// index no longer fits in 16 bits").
const literalWideThreshold = 1 << 16

// TailCallElimination rewrites a call immediately followed by a Return of
// that call's own result into a single OpTailCall (spec §4.1 step 22):
// the runtime reuses the current call frame instead of growing the stack
// one level per self-recursive or mutually-recursive tail call.
func TailCallElimination(code *tir.CompiledCode) {
	if code == nil {
		return
	}
	for _, b := range code.Blocks {
		b.Instructions = eliminateTailCalls(b.Instructions)
	}
	for _, child := range code.Children {
		TailCallElimination(child)
	}
}

func eliminateTailCalls(instrs []tir.Instruction) []tir.Instruction {
	out := instrs[:0:0]
	for i := 0; i < len(instrs); i++ {
		cur := instrs[i]
		if i+1 < len(instrs) && isCallOpcode(cur.Opcode) {
			next := instrs[i+1]
			if next.Opcode == tir.OpReturn && len(next.Operands) == 1 &&
				len(cur.Operands) > 0 && sameRegister(cur.Operands[0], next.Operands[0]) {
				out = append(out, tir.NewInstruction(cur.Location, tir.OpTailCall, cur.Operands[1:]...))
				i++
				continue
			}
		}
		out = append(out, cur)
	}
	return out
}

func isCallOpcode(op tir.Opcode) bool {
	return op == tir.OpRunBlock || op == tir.OpRunBlockWithReceiver
}

func sameRegister(a, b tir.Operand) bool {
	return a.Kind == tir.OperandRegister && b.Kind == tir.OperandRegister && a.Register.Index == b.Register.Index
}

// DeadCode reports every unreachable non-empty basic block and every
// never-referenced local (spec §4.1 step 23): both are warnings, never
// errors, since they never change the program's observable behavior.
func DeadCode(ctx *Context, code *tir.CompiledCode) {
	if code == nil {
		return
	}
	for _, b := range code.UnreachableBlocks() {
		loc := diagnostics.Location{File: code.File, Line: code.Line}
		if len(b.Instructions) > 0 {
			loc = b.Instructions[0].Location
		}
		ctx.State.Diags.Warnf(diagnostics.TIRUnreachableBlock, loc, "unreachable code in %q (block %q)", code.Name, b.Name)
	}
	for _, sym := range code.Locals.UnusedSymbols() {
		loc := diagnostics.Location{File: code.File, Line: code.Line}
		ctx.State.Diags.Warnf(diagnostics.TIRUnusedLocal, loc, "unused local variable %q", sym.Name)
	}
	for _, child := range code.Children {
		DeadCode(ctx, child)
	}
}

// CodeGeneration flattens every BasicBlock into one linear instruction
// stream with absolute offsets, interns literal constants into the
// code object's pool (widening to SetLiteralWide past the 16-bit index
// threshold), and resolves PendingCatches into offset-based CatchEntry
// values now that TailCallElimination can no longer change instruction
// counts (spec §4.1 step 24, §4.7).
func CodeGeneration(code *tir.CompiledCode) {
	if code == nil {
		return
	}

	offset := 0
	byName := map[string]*tir.BasicBlock{}
	for _, b := range code.Blocks {
		internLiterals(code, b)
		b.InstructionOffset = offset
		offset += len(b.Instructions)
		b.InstructionEnd = offset
		byName[b.Name] = b
	}

	for _, pc := range code.PendingCatches {
		tryBlock, ok1 := byName[pc.TryBlock]
		elseBlock, ok2 := byName[pc.ElseBlock]
		if !ok1 || !ok2 {
			continue
		}
		code.CatchTable.Add(tir.CatchEntry{
			Start:  tryBlock.InstructionOffset,
			Stop:   tryBlock.InstructionEnd,
			JumpTo: elseBlock.InstructionOffset,
		})
	}
	code.PendingCatches = nil

	for _, child := range code.Children {
		CodeGeneration(child)
	}
}

// internLiterals rewrites every SetLiteral's inline constant operand into
// a pool index, widening the opcode when the pool has grown past the
// 16-bit threshold.
func internLiterals(code *tir.CompiledCode, b *tir.BasicBlock) {
	for i, instr := range b.Instructions {
		if instr.Opcode != tir.OpSetLiteral {
			continue
		}
		if len(instr.Operands) != 2 || instr.Operands[1].Kind != tir.OperandConstant {
			continue
		}
		index := code.InternLiteral(instr.Operands[1].Constant)
		op := tir.OpSetLiteral
		if index >= literalWideThreshold {
			op = tir.OpSetLiteralWide
		}
		b.Instructions[i] = tir.NewInstruction(instr.Location, op, instr.Operands[0], tir.SymOperand(index))
	}
}
