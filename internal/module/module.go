package module

import (
	"github.com/inko-lang/inko/internal/ast"
	"github.com/inko-lang/inko/internal/symbols"
	"github.com/inko-lang/inko/internal/tir"
	"github.com/inko-lang/inko/internal/typesystem"
)

// Options are the compile-time pragmas ConfigureModule applies (spec §4.1
// step 9 "ConfigureModule — applies compiler-option pragmas").
type Options struct {
	// NoImplicitImports disables both the bootstrap and prelude implicit
	// imports (module-option pragma, e.g. `# inko: no-implicit-imports`).
	NoImplicitImports bool
	// NoBootstrap / NoPrelude disable one implicit import individually.
	NoBootstrap bool
	NoPrelude   bool
}

// ImportedSymbol is one resolved binding a module gained from an import:
// the local name it is visible under, and the global symbol it resolves
// to in the source module.
type ImportedSymbol struct {
	LocalName  string
	SourceName string
	Type       typesystem.Type
}

// Import records one `import a.b (x, y)` declaration, collected off the
// AST by the CollectImports pass and later resolved by
// CompileImportedModules / DefineImportTypes (spec §4.1 steps 6-8, 16).
type Import struct {
	Path     QualifiedName
	Symbols  []ImportedSymbol
	Glob     bool
	SelfName string // non-empty if imported via `import a.b self` / implicit self-import
	Node     *ast.Import
}

// Module represents one compiled source file (spec §3 "Module").
//
// A Module owns its Imports and its Body CodeObject; its lifetime runs
// from AstToModule registering it in a State's registry until that State
// is torn down.
type Module struct {
	Name   QualifiedName
	Path   string // absolute source file path
	Line   int

	// Type is the module's own nominal type in the type system — every
	// module is also an Object instance (spec §3 "module type (an Object
	// in the type system)").
	Type *typesystem.Object

	Imports []*Import

	// GlobalScope is the symbol table of module-level names: imported
	// symbols, top-level methods, and constants (spec §3 "a symbol table
	// of globals"). Exposed to the rest of the compiler via the Globals()
	// method, which also satisfies symbols.ModuleScope.
	GlobalScope *symbols.SymbolTable

	// Body is the module's top-level CodeObject, populated by
	// GenerateTir.
	Body *tir.CompiledCode

	Options Options

	DefineModule    bool // whether DefineModuleType should register this module as a first-class Module-typed value
	ImportBootstrap bool
	ImportPrelude   bool

	AST *ast.File
}

// New creates a Module with an empty global symbol table, ready for the
// pass pipeline to populate.
func New(name QualifiedName, path string) *Module {
	return &Module{
		Name:            name,
		Path:            path,
		GlobalScope:     symbols.NewSymbolTable(),
		DefineModule:    true,
		ImportBootstrap: true,
		ImportPrelude:   true,
	}
}

// Globals satisfies symbols.ModuleScope.
func (m *Module) Globals() *symbols.SymbolTable { return m.GlobalScope }

// ModuleType satisfies symbols.ModuleScope.
func (m *Module) ModuleType() typesystem.Type { return m.Type }
