// Package pass implements the ordered compiler passes that turn a parsed
// AST into a typed TIR CompiledCode tree (spec §4.1's pipeline).
//
// Passes are plain functions over a Context rather than a Pass interface —
// the design notes favor "a flat match... to surface missing cases at
// compile time" over an interface-per-pass indirection (spec §9 "Visitor
// dispatch").
package pass

import (
	"github.com/inko-lang/inko/internal/ast"
	"github.com/inko-lang/inko/internal/compilestate"
	"github.com/inko-lang/inko/internal/module"
	"github.com/inko-lang/inko/internal/symbols"
)

// Context threads the shared state and the module under compilation
// through every pass. Scopes is a side-table from a scope-introducing AST
// node to its TypeScope, kept off the AST nodes themselves. Only the
// module's Body is stored there (by SetupSymbolTables, or by DefineType
// when none was recorded); method, block and lambda scopes are built as
// each pass walks the tree.
type Context struct {
	State  *compilestate.State
	Module *module.Module
	Scopes map[ast.Node]*symbols.TypeScope
}

// NewContext creates a Context with an empty scope table.
func NewContext(state *compilestate.State, mod *module.Module) *Context {
	return &Context{State: state, Module: mod, Scopes: map[ast.Node]*symbols.TypeScope{}}
}

// ScopeFor returns the TypeScope SetupSymbolTables recorded for node, or
// false if none was allocated (the node is not a scope boundary).
func (c *Context) ScopeFor(node ast.Node) (*symbols.TypeScope, bool) {
	s, ok := c.Scopes[node]
	return s, ok
}
