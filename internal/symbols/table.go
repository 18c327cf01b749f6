// Package symbols implements the lexical symbol table and per-scope type
// context used for name resolution and closure-capture tracking
// (spec §4.2).
package symbols

import "github.com/inko-lang/inko/internal/typesystem"

// Symbol is a named binding: its type, whether it may be reassigned, its
// stable index within the owning SymbolTable, and a usage counter used to
// emit unused-local warnings (spec §3 "Symbol").
type Symbol struct {
	Name     string
	Type     typesystem.Type
	Mutable  bool
	Index    int
	usageCnt int
}

// MarkUsed increments the usage counter. It is called for each read of the
// symbol: by DefineType on its scope tables, and (via MarkUsedAt) by
// GenerateTir on a CompiledCode's locals. Writes are not counted.
func (s *Symbol) MarkUsed() { s.usageCnt++ }

// Unused reports whether the symbol was never referenced after definition,
// except for names starting with "_" which are exempt (spec §4.2
// "Unused-local warnings").
func (s *Symbol) Unused() bool {
	if len(s.Name) > 0 && s.Name[0] == '_' {
		return false
	}
	return s.usageCnt == 0
}

// SymbolTable is an ordered name -> Symbol mapping with an optional parent,
// used for a single lexical scope (spec §3 "SymbolTable").
//
// Invariant: Index values are assigned in Define order and never reused;
// the parent chain is set once at construction and is acyclic by
// construction (NewChild always takes the current table as parent).
type SymbolTable struct {
	parent  *SymbolTable
	order   []string
	symbols map[string]*Symbol
}

// NewSymbolTable creates a root table with no parent.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{symbols: map[string]*Symbol{}}
}

// NewChild creates a table whose parent is the receiver.
func (t *SymbolTable) NewChild() *SymbolTable {
	return &SymbolTable{parent: t, symbols: map[string]*Symbol{}}
}

// Parent returns the enclosing table, or nil at the root.
func (t *SymbolTable) Parent() *SymbolTable { return t.parent }

// Define appends a new symbol to this table. It returns (nil, false) if
// the name already exists in this exact scope — redefining a name in the
// same scope is an error (spec §4.2 "define(name, type, mutable=false)").
func (t *SymbolTable) Define(name string, typ typesystem.Type, mutable bool) (*Symbol, bool) {
	if _, exists := t.symbols[name]; exists {
		return nil, false
	}
	sym := &Symbol{Name: name, Type: typ, Mutable: mutable, Index: len(t.order)}
	t.symbols[name] = sym
	t.order = append(t.order, name)
	return sym, true
}

// LookupLocal looks up name only in this table, ignoring parents.
func (t *SymbolTable) LookupLocal(name string) (*Symbol, bool) {
	sym, ok := t.symbols[name]
	return sym, ok
}

// LookupWithParent walks the parent chain outward from t, returning the
// number of parent hops traversed (depth 0 = this table) and the symbol
// found. A negative depth signals "not found" (spec §3
// "lookup_with_parent(name)", §8 invariant).
func (t *SymbolTable) LookupWithParent(name string) (depth int, sym *Symbol, found bool) {
	for cur, d := t, 0; cur != nil; cur, d = cur.parent, d+1 {
		if s, ok := cur.symbols[name]; ok {
			return d, s, true
		}
	}
	return -1, nil, false
}

// Names returns symbol names in definition order (stable iteration for
// hoisting/codegen).
func (t *SymbolTable) Names() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Len returns the number of symbols defined directly in this table.
func (t *SymbolTable) Len() int { return len(t.order) }

// MarkUsedAt marks the symbol defined at position index (in Define order)
// as used. index values come from a SymIndex field DefineType stamped onto
// the AST node that originally defined the symbol, so they always name a
// slot already Defined in this exact table.
func (t *SymbolTable) MarkUsedAt(index int) {
	if index < 0 || index >= len(t.order) {
		return
	}
	if sym, ok := t.symbols[t.order[index]]; ok {
		sym.MarkUsed()
	}
}

// UnusedSymbols returns every symbol in this table (not parents) that was
// never referenced, in definition order — the source for the "unused
// local variable" warning pass.
func (t *SymbolTable) UnusedSymbols() []*Symbol {
	var out []*Symbol
	for _, name := range t.order {
		if sym := t.symbols[name]; sym.Unused() {
			out = append(out, sym)
		}
	}
	return out
}
