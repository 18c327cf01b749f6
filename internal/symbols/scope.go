package symbols

import "github.com/inko-lang/inko/internal/typesystem"

// ModuleScope is the minimal view of a compiled module that a TypeScope
// needs: its global symbol table and its nominal module type. Declared
// here (rather than importing the module package) to avoid a symbols<->
// module import cycle — internal/module's Module satisfies this interface
// structurally.
type ModuleScope interface {
	Globals() *SymbolTable
	ModuleType() typesystem.Type
}

// TypeScope is the per-scope semantic context threaded through type
// checking and TIR generation: one TypeScope per code-producing construct
// (module body, method, closure, lambda, object/trait body, impl body,
// try-else body) per spec §3 "TypeScope".
type TypeScope struct {
	SelfType        typesystem.Type
	EnclosingBlock  *typesystem.Block
	Module          ModuleScope
	Locals          *SymbolTable
	Parent          *TypeScope
	EnclosingMethod *typesystem.Block
}

// NewModuleScope creates the root TypeScope for a module body: self is the
// module's own type, and there is no enclosing block/method yet.
func NewModuleScope(mod ModuleScope, selfType typesystem.Type) *TypeScope {
	return &TypeScope{
		SelfType: selfType,
		Module:   mod,
		Locals:   NewSymbolTable(),
	}
}

// Child creates a nested scope for a method/closure/lambda/object body.
// selfType and block follow spec §4.4's rules: a method/object/trait body
// scope's self is the declared type; a closure's self is the enclosing
// scope's self (it may read local `self`); a lambda's self is always the
// module type (lambdas cannot close over local self).
func (s *TypeScope) Child(selfType typesystem.Type, block *typesystem.Block) *TypeScope {
	child := &TypeScope{
		SelfType:       selfType,
		EnclosingBlock: block,
		Module:         s.Module,
		Locals:         s.Locals.NewChild(),
		Parent:         s,
	}
	if block != nil && block.BlockKind == typesystem.BlockMethod {
		child.EnclosingMethod = block
	} else {
		child.EnclosingMethod = s.EnclosingMethod
	}
	return child
}

// ChildLambda creates a nested scope for a lambda literal: self type is
// forced to the owning module's type, and there is no enclosing method
// (spec §4.4 "a lambda's self type is the module type").
func (s *TypeScope) ChildLambda(block *typesystem.Block) *TypeScope {
	child := &TypeScope{
		SelfType:       s.Module.ModuleType(),
		EnclosingBlock: block,
		Module:         s.Module,
		Locals:         s.Locals.NewChild(),
		Parent:         s,
	}
	return child
}

// Lookup resolves name in s's local chain, returning the depth (number of
// parent TypeScope/SymbolTable hops) and the symbol. depth > 0 means the
// binding lives in an enclosing scope — i.e. it is captured when read from
// inside a closure (spec §4.2).
func (s *TypeScope) Lookup(name string) (depth int, sym *Symbol, found bool) {
	return s.Locals.LookupWithParent(name)
}
