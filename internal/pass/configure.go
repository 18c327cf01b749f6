package pass

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/inko-lang/inko/internal/ast"
	"github.com/inko-lang/inko/internal/symbols"
)

// ModuleManifest is a per-module compiler-option override, authored as a
// YAML sibling of the source file (foo.inko -> foo.inko.yaml). It carries
// the same overrides a `# inko: no-bootstrap`-style pragma would, for
// projects that prefer to keep module options out of source (spec §4.1
// step 9 "ConfigureModule").
type ModuleManifest struct {
	NoImplicitImports bool `yaml:"no_implicit_imports"`
	NoBootstrap       bool `yaml:"no_bootstrap"`
	NoPrelude         bool `yaml:"no_prelude"`
}

// loadModuleManifest reads the YAML manifest sibling of a module's source
// file, if one exists. A missing manifest is not an error: most modules
// have none.
func loadModuleManifest(sourcePath string) (*ModuleManifest, error) {
	data, err := os.ReadFile(sourcePath + ".yaml")
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var m ModuleManifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// ConfigureModule applies module-option pragmas (spec §4.1 step 9).
// Pragmas are written as a leading `_RAW.pragma("name")` RawInstruction in
// the module body — the desugared form a `# inko: no-implicit-imports`
// surface comment would parse to. Recognized pragmas set the matching
// mod.Options flags, and recognized pragma nodes are stripped from the body
// so later passes never see them as ordinary sends. A YAML sibling manifest
// (see loadModuleManifest) is merged in afterwards, giving projects a
// source-free way to set the same options. In the Compiler pipeline this
// pass runs after InsertImplicitImports and CompileImportedModules, so
// these flags do not remove implicit imports that are already in place.
func ConfigureModule(ctx *Context) {
	mod := ctx.Module
	if mod.AST == nil || mod.AST.Body == nil {
		return
	}
	kept := mod.AST.Body.Expressions[:0:0]
	for _, expr := range mod.AST.Body.Expressions {
		raw, ok := expr.(*ast.RawInstruction)
		if !ok || raw.Opcode != "pragma" || len(raw.Arguments) == 0 {
			kept = append(kept, expr)
			continue
		}
		name, ok := raw.Arguments[0].(*ast.StringLiteral)
		if !ok {
			kept = append(kept, expr)
			continue
		}
		switch name.Value {
		case "no-implicit-imports":
			mod.Options.NoImplicitImports = true
		case "no-bootstrap":
			mod.Options.NoBootstrap = true
		case "no-prelude":
			mod.Options.NoPrelude = true
		default:
			kept = append(kept, expr)
		}
	}
	mod.AST.Body.Expressions = kept

	if mod.Path != "" {
		if manifest, err := loadModuleManifest(mod.Path); err == nil && manifest != nil {
			mod.Options.NoImplicitImports = mod.Options.NoImplicitImports || manifest.NoImplicitImports
			mod.Options.NoBootstrap = mod.Options.NoBootstrap || manifest.NoBootstrap
			mod.Options.NoPrelude = mod.Options.NoPrelude || manifest.NoPrelude
		}
	}
}

// SetupSymbolTables allocates the module body's root TypeScope (spec §4.1
// step 10). Per-method/closure/lambda scopes are allocated lazily as
// DefineType descends into each, via TypeScope.Child/ChildLambda — see
// definetype.go.
func SetupSymbolTables(ctx *Context) {
	mod := ctx.Module
	if mod.AST == nil || mod.AST.Body == nil {
		return
	}
	scope := symbols.NewModuleScope(mod, moduleSelfType(mod))
	ctx.Scopes[mod.AST.Body] = scope
}
