// Package compiler implements the Compiler driver: the orchestration layer
// that runs every pass in order for a module and its transitive imports
// (spec §4.1 "Pipeline", §5 "Shared resources").
package compiler

import (
	"fmt"
	"time"

	"github.com/inko-lang/inko/internal/ast"
	"github.com/inko-lang/inko/internal/compilestate"
	"github.com/inko-lang/inko/internal/module"
	"github.com/inko-lang/inko/internal/pass"
)

// Parser is the lexing/parsing collaborator this component treats as
// external (spec §1 "Non-goals: lexing and parsing"). The Compiler driver
// hands it source bytes and a path and gets back a typed-AST-ready File.
type Parser interface {
	Parse(source []byte, path string) (*ast.File, error)
}

// Compiler runs the full pass pipeline over a module and its imports,
// guaranteeing at-most-once compilation per qualified name and detecting
// import cycles before they recurse forever (spec §4.1 step 7, §5).
type Compiler struct {
	State    *compilestate.State
	Resolver *module.Resolver
	Parser   Parser

	cycles module.CycleGuard
}

// New creates a Compiler wired to a fresh State built from cfg.
func New(cfg compilestate.Config, resolver *module.Resolver, parser Parser) *Compiler {
	return &Compiler{
		State:    compilestate.NewState(cfg),
		Resolver: resolver,
		Parser:   parser,
	}
}

// CompileModule satisfies pass.Compiler: it resolves name to a source file,
// parses it, and runs the module through the full pipeline. A module
// already in the registry is returned unchanged rather than recompiled
// (spec §4.1 step 7 "at-most-once compilation").
func (c *Compiler) CompileModule(name module.QualifiedName) (*module.Module, error) {
	if existing, ok := c.State.Lookup(name); ok {
		return existing, nil
	}

	if err := c.cycles.Enter(name); err != nil {
		return nil, err
	}
	defer c.cycles.Leave()

	path, err := c.Resolver.ResolveImport(name)
	if err != nil {
		return nil, err
	}

	source, err := pass.PathToSource(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	file, err := c.Parser.Parse(source, path)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	mod := pass.TrackModule(c.State, name, path)
	mod.AST = file
	c.applyConfig(mod)

	c.runPipeline(mod)
	return mod, nil
}

// CompileFile is the entry point for a standalone source file that was not
// itself reached through an import (e.g. the file named on the command
// line): its qualified name is derived from its own path rather than from
// an importer's import statement.
func (c *Compiler) CompileFile(path string) (*module.Module, error) {
	name, err := c.Resolver.GetModuleIdentity(path)
	if err != nil {
		return nil, err
	}
	if existing, ok := c.State.Lookup(name); ok {
		return existing, nil
	}

	source, err := pass.PathToSource(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	file, err := c.Parser.Parse(source, path)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	mod := pass.TrackModule(c.State, name, path)
	mod.AST = file
	c.applyConfig(mod)
	c.runPipeline(mod)
	return mod, nil
}

// applyConfig carries the project-wide bootstrap/prelude opt-outs from
// Config onto a freshly tracked module, before ConfigureModule's
// pragma-level overrides run (spec §6 "Compiler configuration").
func (c *Compiler) applyConfig(mod *module.Module) {
	if c.State.Config.DisableBootstrap {
		mod.ImportBootstrap = false
	}
	if c.State.Config.DisablePrelude {
		mod.ImportPrelude = false
	}
}

// runPipeline drives one module through every pass in spec §4.1's order,
// timing each one for --dump-timings. Per-module diagnostics accumulate on
// c.State.Diags rather than aborting the pipeline early: a later module's
// errors should not hide an earlier one's.
func (c *Compiler) runPipeline(mod *module.Module) {
	ctx := pass.NewContext(c.State, mod)

	c.timed(mod, "DefineModuleType", func() { pass.DefineModuleType(ctx) })
	c.timed(mod, "InsertImplicitImports", func() { pass.InsertImplicitImports(ctx) })
	c.timed(mod, "CollectImports", func() { pass.CollectImports(ctx) })
	c.timed(mod, "CompileImportedModules", func() { pass.CompileImportedModules(ctx, c) })
	c.timed(mod, "AddImplicitImportSymbols", func() { pass.AddImplicitImportSymbols(ctx) })
	c.timed(mod, "ConfigureModule", func() { pass.ConfigureModule(ctx) })
	c.timed(mod, "SetupSymbolTables", func() { pass.SetupSymbolTables(ctx) })
	c.timed(mod, "Hoisting", func() { pass.Hoisting(ctx) })
	c.timed(mod, "DesugarObject", func() { pass.DesugarObject(ctx) })
	c.timed(mod, "DesugarMethod", func() { pass.DesugarMethod(ctx) })
	c.timed(mod, "AddDefaultForRestArguments", func() { pass.AddDefaultForRestArguments(ctx) })
	c.timed(mod, "DefineTypeSignatures", func() { pass.DefineTypeSignatures(ctx) })
	c.timed(mod, "DefineImportTypes", func() { pass.DefineImportTypes(ctx) })
	c.timed(mod, "ImplementTraits", func() { pass.ImplementTraits(ctx) })
	c.timed(mod, "DefineType", func() { pass.DefineType(ctx) })
	c.timed(mod, "ValidateThrow", func() { pass.ValidateThrow(ctx) })
	c.timed(mod, "OptimizeKeywordArguments", func() { pass.OptimizeKeywordArguments(ctx) })
	c.timed(mod, "GenerateTir", func() { pass.GenerateTir(ctx) })
	c.timed(mod, "TailCallElimination", func() { pass.TailCallElimination(mod.Body) })
	c.timed(mod, "DeadCode", func() { pass.DeadCode(ctx, mod.Body) })
	c.timed(mod, "CodeGeneration", func() { pass.CodeGeneration(mod.Body) })
}

// timed runs fn and records its wall-clock duration on State.Timings for
// the --dump-timings CLI report (SPEC_FULL supplemented feature).
func (c *Compiler) timed(mod *module.Module, name string, fn func()) {
	start := time.Now()
	fn()
	c.State.RecordTiming(mod.Name.String(), name, time.Since(start))
}
