// Package tir implements the typed intermediate representation a downstream
// code generator consumes: a register-based control-flow graph with a
// per-code-object catch table (spec §3 "TIR", §4.5, §4.7).
package tir

import "github.com/inko-lang/inko/internal/typesystem"

// Register is an immutable, typed SSA operand: its index and static type
// are fixed at allocation time (spec §3 "Register").
type Register struct {
	Index int
	Type  typesystem.Type
}

// Registers allocates fresh Register values for one CompiledCode, handing
// out strictly increasing indices — the "register allocator" spec §3
// assigns to each CompiledCode.
type Registers struct {
	next int
}

// Allocate returns a brand-new register of the given static type.
func (r *Registers) Allocate(t typesystem.Type) Register {
	reg := Register{Index: r.next, Type: t}
	r.next++
	return reg
}

// Count returns how many registers have been allocated so far.
func (r *Registers) Count() int { return r.next }
