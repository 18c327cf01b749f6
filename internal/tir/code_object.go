package tir

import (
	"fmt"

	"github.com/inko-lang/inko/internal/symbols"
	"github.com/inko-lang/inko/internal/typesystem"
)

// CompiledCode (a.k.a. CodeObject) is one compiled unit of executable code:
// a method, closure, lambda, or module body (spec §3 "CompiledCode",
// GLOSSARY "CodeObject").
type CompiledCode struct {
	Name     string
	File     string
	Line     int
	Type     *typesystem.Block

	Locals    *symbols.SymbolTable
	Registers Registers
	Blocks    []*BasicBlock // insertion order
	Children  []*CompiledCode
	CatchTable CatchTable

	// Metadata (spec §3 "metadata (arg count & names, required-arg count,
	// rest flag, captures flag)").
	ArgumentNames       []string
	RequiredArgumentCount int
	HasRestArgument     bool
	Captures            bool

	// Literals is the per-CompiledCode constant pool CodeGeneration
	// interns SetLiteral/SetLiteralWide operands into (spec §4.7 "literal
	// interning").
	Literals []interface{}

	// PendingCatches names try/else block pairs by BasicBlock name;
	// CodeGeneration resolves them into real CatchTable entries once
	// flattening has assigned final instruction offsets (spec §4.5's
	// "append a CatchEntry" step, deferred past TailCallElimination /
	// DeadCode so a later instruction-count change never desyncs an
	// offset recorded too early).
	PendingCatches []PendingCatch
}

// PendingCatch names one try/else pair by block, to be resolved into a
// CatchEntry during CodeGeneration.
type PendingCatch struct {
	TryBlock  string
	ElseBlock string
}

// NewCompiledCode creates an empty code object bound to a fresh local
// SymbolTable.
func NewCompiledCode(name, file string, line int, blockType *typesystem.Block) *CompiledCode {
	return &CompiledCode{
		Name:   name,
		File:   file,
		Line:   line,
		Type:   blockType,
		Locals: symbols.NewSymbolTable(),
	}
}

// AddBlock appends a new named BasicBlock to the code object and returns
// it.
func (c *CompiledCode) AddBlock(name string) *BasicBlock {
	b := NewBasicBlock(name)
	c.Blocks = append(c.Blocks, b)
	return b
}

// InternLiteral deduplicates v against the existing constant pool by its
// %#v representation and returns its stable index, appending a new pool
// entry only on first sight (spec §4.7 "literal interning").
func (c *CompiledCode) InternLiteral(v interface{}) int {
	key := fmt.Sprintf("%#v", v)
	for i, existing := range c.Literals {
		if fmt.Sprintf("%#v", existing) == key {
			return i
		}
	}
	c.Literals = append(c.Literals, v)
	return len(c.Literals) - 1
}

// AddChild registers a nested CompiledCode (a closure/lambda/method body
// lowered inside this one).
func (c *CompiledCode) AddChild(child *CompiledCode) {
	c.Children = append(c.Children, child)
}

// EntryBlock returns the first basic block, or nil if none have been
// added yet.
func (c *CompiledCode) EntryBlock() *BasicBlock {
	if len(c.Blocks) == 0 {
		return nil
	}
	return c.Blocks[0]
}

// ReachableBlocks computes every BasicBlock reachable from the entry block
// via fall-through (Next) or an explicit Goto/GotoIfTrue operand naming
// another block, plus every else-handler block named by a PendingCatch —
// those are entered only through the runtime's catch table on a Throw, not
// through any ordinary control-flow edge, so they are additional roots
// rather than something the entry walk would ever find on its own
// (satisfying the traversal spec §8's reachability invariant describes).
func (c *CompiledCode) ReachableBlocks() map[string]bool {
	reachable := map[string]bool{}
	byName := map[string]*BasicBlock{}
	for _, b := range c.Blocks {
		byName[b.Name] = b
	}
	var walk func(b *BasicBlock)
	walk = func(b *BasicBlock) {
		if b == nil || reachable[b.Name] {
			return
		}
		reachable[b.Name] = true
		for _, instr := range b.Instructions {
			for _, op := range instr.Operands {
				if op.Kind == OperandBlockName {
					if target, ok := byName[op.Block]; ok {
						walk(target)
					}
				}
			}
		}
		if b.Next != nil {
			walk(b.Next)
		}
	}
	walk(c.EntryBlock())
	for _, pc := range c.PendingCatches {
		walk(byName[pc.ElseBlock])
	}
	return reachable
}

// UnreachableBlocks returns every non-empty block that ReachableBlocks
// does not reach, in insertion order — the source of DeadCode's warnings
// (spec §4.1 "DeadCode", §8 invariant "any unreachable block must
// correspond to a reported unreachable-code warning").
func (c *CompiledCode) UnreachableBlocks() []*BasicBlock {
	reachable := c.ReachableBlocks()
	var out []*BasicBlock
	for _, b := range c.Blocks {
		if !reachable[b.Name] && !b.Empty() {
			out = append(out, b)
		}
	}
	return out
}
