package tir

// BasicBlock is a maximal straight-line instruction sequence (spec
// GLOSSARY). Next is the fall-through successor used when the block's
// last instruction is not itself a jump (e.g. the try_block in a try-else
// lowering falls through into tail after its SkipNextBlock).
//
// InstructionOffset/InstructionEnd are filled in by CodeGeneration when it
// flattens every BasicBlock of a CompiledCode into one linear instruction
// stream (spec §4.7).
type BasicBlock struct {
	Name             string
	Instructions     []Instruction
	Next             *BasicBlock
	InstructionOffset int
	InstructionEnd    int
}

// NewBasicBlock creates an empty named block.
func NewBasicBlock(name string) *BasicBlock {
	return &BasicBlock{Name: name}
}

// Emit appends an instruction to the block.
func (b *BasicBlock) Emit(i Instruction) {
	b.Instructions = append(b.Instructions, i)
}

// Empty reports whether the block has no instructions — used by DeadCode
// to decide whether an unreachable block is worth a warning (spec §4.1
// "DeadCode — emits a warning for each unreachable non-empty basic
// block").
func (b *BasicBlock) Empty() bool { return len(b.Instructions) == 0 }

// Terminated reports whether the block's last instruction is a terminator.
func (b *BasicBlock) Terminated() bool {
	if len(b.Instructions) == 0 {
		return false
	}
	return b.Instructions[len(b.Instructions)-1].IsTerminator()
}

// CatchEntry names a contiguous instruction-offset range covered by a
// handler and the offset execution jumps to when a Throw lands inside that
// range (spec §3 "CatchEntry").
type CatchEntry struct {
	Start  int
	Stop   int
	JumpTo int
}

// Valid reports the ordering invariant spec §8 requires: start <= stop <=
// jump_to.
func (c CatchEntry) Valid() bool { return c.Start <= c.Stop && c.Stop <= c.JumpTo }

// CatchTable is the ordered list of CatchEntry a runtime consults on
// Throw, taking the first matching entry (spec §3 "CatchTable", §9 "Throw
// as non-local control flow").
type CatchTable []CatchEntry

// Add appends a catch entry in source order.
func (t *CatchTable) Add(entry CatchEntry) {
	*t = append(*t, entry)
}
