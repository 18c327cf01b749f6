package pass

import (
	"github.com/inko-lang/inko/internal/ast"
	"github.com/inko-lang/inko/internal/diagnostics"
	"github.com/inko-lang/inko/internal/module"
)

// InsertImplicitImports prepends `import std.bootstrap.*` and
// `import std.prelude.*` to the module's import list unless the module has
// opted out (spec §4.1 step 5): mod.ImportBootstrap / mod.ImportPrelude
// are false, or mod.Options already disables the import. It runs before
// ConfigureModule, so pragmas and manifests that ConfigureModule reads
// later are not yet in mod.Options here, and no later pass removes an
// implicit import inserted here.
func InsertImplicitImports(ctx *Context) {
	mod := ctx.Module
	if mod.AST == nil {
		return
	}
	var implicit []*ast.Import
	if mod.ImportBootstrap && !mod.Options.NoImplicitImports && !mod.Options.NoBootstrap {
		implicit = append(implicit, &ast.Import{ModulePath: []string{"std", "bootstrap"}, Glob: true})
	}
	if mod.ImportPrelude && !mod.Options.NoImplicitImports && !mod.Options.NoPrelude {
		implicit = append(implicit, &ast.Import{ModulePath: []string{"std", "prelude"}, Glob: true})
	}
	mod.AST.Imports = append(implicit, mod.AST.Imports...)
}

// CollectImports records every ast.Import the file carries onto the
// Module, resolving each target path to a QualifiedName (spec §4.1 step
// 6). In this tree shape imports are already a separate list on ast.File
// rather than interleaved into Body (see ast.File's doc comment), so this
// pass is pure bookkeeping: no tree surgery is needed.
func CollectImports(ctx *Context) {
	mod := ctx.Module
	if mod.AST == nil {
		return
	}
	for _, imp := range mod.AST.Imports {
		var syms []module.ImportedSymbol
		for _, s := range imp.Symbols {
			alias := s.Alias
			if alias == "" {
				alias = s.Name
			}
			syms = append(syms, module.ImportedSymbol{LocalName: alias, SourceName: s.Name})
		}
		mod.Imports = append(mod.Imports, &module.Import{
			Path:     module.NewQualifiedName(imp.ModulePath...),
			Symbols:  syms,
			Glob:     imp.Glob,
			SelfName: imp.SelfAlias,
			Node:     imp,
		})
	}
}

// Compiler is the minimal recursive-compile hook CompileImportedModules
// needs: given a module's qualified name, produce its (possibly
// already-compiled) Module. The full pipeline orchestration lives in
// internal/compiler; this interface keeps the pass package ignorant of it
// and avoids an import cycle.
type Compiler interface {
	CompileModule(name module.QualifiedName) (*module.Module, error)
}

// CompileImportedModules recursively compiles every import target not
// already in the registry (spec §4.1 step 7). At-most-once compilation is
// guaranteed by State.Lookup/Register, which Compiler.CompileModule must
// consult before re-running the pipeline (spec §5).
func CompileImportedModules(ctx *Context, compiler Compiler) {
	for _, imp := range ctx.Module.Imports {
		if _, ok := ctx.State.Lookup(imp.Path); ok {
			continue
		}
		target, err := compiler.CompileModule(imp.Path)
		if err != nil {
			ctx.State.Diags.Errorf(diagnostics.ImportModuleNotFound, diagnostics.Location{File: ctx.Module.Path},
				"module %q not found: %v", imp.Path.String(), err)
			continue
		}
		_ = target
	}
}

// AddImplicitImportSymbols expands a bare `import a.b` (no explicit symbol
// list, no glob, no self-alias) into importing the module itself as a
// symbol bound to its last path segment (spec §4.1 step 8).
func AddImplicitImportSymbols(ctx *Context) {
	for _, imp := range ctx.Module.Imports {
		if imp.Glob || imp.SelfName != "" || len(imp.Symbols) > 0 {
			continue
		}
		segments := imp.Path.Segments
		if len(segments) == 0 {
			continue
		}
		imp.SelfName = segments[len(segments)-1]
	}
}
