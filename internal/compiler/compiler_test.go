package compiler

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/inko-lang/inko/internal/ast"
	"github.com/inko-lang/inko/internal/compilestate"
	"github.com/inko-lang/inko/internal/module"
)

// fakeParser stands in for the external lexer/parser collaborator (spec
// §1 "Non-goals: lexing and parsing"): tests register a canned *ast.File
// per source path instead of driving a real parser.
type fakeParser struct {
	files map[string]*ast.File
}

func (p *fakeParser) Parse(source []byte, path string) (*ast.File, error) {
	file, ok := p.files[path]
	if !ok {
		return nil, fmt.Errorf("fakeParser: no registered AST for %s", path)
	}
	return file, nil
}

func newProjectDir(t *testing.T) string {
	t.Helper()
	dir, err := os.MkdirTemp("", "inko_compiler_test")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	return dir
}

// touch creates an empty placeholder file on disk so Resolver.ResolveImport
// (which stats the file) succeeds; its content is irrelevant since
// fakeParser answers by path, not by reading the bytes back.
func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("// placeholder"), 0644); err != nil {
		t.Fatal(err)
	}
}

func emptyFile(path string, exprs ...ast.Expr) *ast.File {
	return &ast.File{Path: path, Body: &ast.Body{Expressions: exprs}}
}

// Two modules, one importing the other and calling an exported method:
// the importer must resolve and type-check cleanly (spec §4.1 steps 6-8,
// 16; the "two-module compile" scenario).
func TestCompileTwoModules(t *testing.T) {
	dir := newProjectDir(t)
	greeterPath := filepath.Join(dir, "greeter.inko")
	mainPath := filepath.Join(dir, "main.inko")
	touch(t, greeterPath)
	touch(t, mainPath)

	greeterAST := emptyFile(greeterPath, &ast.Method{
		Name:       "hello",
		ReturnType: &ast.TypeName{Name: "String"},
		Body:       &ast.Body{Expressions: []ast.Expr{&ast.StringLiteral{Value: "hi"}}},
	})
	mainAST := emptyFile(mainPath, &ast.Send{Name: "hello"})
	mainAST.Imports = []*ast.Import{{
		ModulePath: []string{"greeter"},
		Symbols:    []ast.ImportedSymbol{{Name: "hello"}},
	}}

	parser := &fakeParser{files: map[string]*ast.File{greeterPath: greeterAST, mainPath: mainAST}}
	resolver := module.NewResolverWithPaths(dir, filepath.Join(dir, "stdlib"), nil)
	cfg := compilestate.DefaultConfig()
	cfg.DisableBootstrap = true
	cfg.DisablePrelude = true
	c := New(cfg, resolver, parser)

	mainMod, err := c.CompileFile(mainPath)
	if err != nil {
		t.Fatalf("CompileFile failed: %v", err)
	}
	// The importer's pipeline must not report errors, and the import
	// target must have been compiled and registered exactly once.
	for _, e := range c.State.Diags.Errors() {
		t.Errorf("unexpected diagnostic: %s %s", e.Code, e.Message)
	}
	greeterName := module.FromDotted("greeter")
	if _, ok := c.State.Lookup(greeterName); !ok {
		t.Fatal("greeter module was not registered after being imported")
	}
	if mainMod.Body == nil {
		t.Fatal("main module's body was never lowered to TIR")
	}
}

// Importing the same module from two different importers must compile it
// only once (spec §4.1 step 7 "at-most-once compilation").
func TestCompileModuleOnlyOnce(t *testing.T) {
	dir := newProjectDir(t)
	leafPath := filepath.Join(dir, "leaf.inko")
	aPath := filepath.Join(dir, "a.inko")
	bPath := filepath.Join(dir, "b.inko")
	touch(t, leafPath)
	touch(t, aPath)
	touch(t, bPath)

	leafAST := emptyFile(leafPath, &ast.Method{Name: "value", ReturnType: &ast.TypeName{Name: "Integer"},
		Body: &ast.Body{Expressions: []ast.Expr{&ast.IntLiteral{Value: 1}}}})
	aAST := emptyFile(aPath, &ast.IntLiteral{Value: 1})
	aAST.Imports = []*ast.Import{{ModulePath: []string{"leaf"}, SelfAlias: "leaf"}}
	bAST := emptyFile(bPath, &ast.IntLiteral{Value: 2})
	bAST.Imports = []*ast.Import{{ModulePath: []string{"leaf"}, SelfAlias: "leaf"}}

	parser := &fakeParser{files: map[string]*ast.File{leafPath: leafAST, aPath: aAST, bPath: bAST}}
	resolver := module.NewResolverWithPaths(dir, filepath.Join(dir, "stdlib"), nil)
	cfg := compilestate.DefaultConfig()
	cfg.DisableBootstrap = true
	cfg.DisablePrelude = true
	c := New(cfg, resolver, parser)

	if _, err := c.CompileFile(aPath); err != nil {
		t.Fatalf("compiling a failed: %v", err)
	}
	if _, err := c.CompileFile(bPath); err != nil {
		t.Fatalf("compiling b failed: %v", err)
	}

	leafModules := 0
	for _, m := range c.State.Modules() {
		if m.Name.Equal(module.FromDotted("leaf")) {
			leafModules++
		}
	}
	if leafModules != 1 {
		t.Errorf("leaf module registered %d times, want 1", leafModules)
	}
}

// A module that cannot be resolved reports ImportModuleNotFound rather
// than panicking the driver.
func TestCompileMissingImportReportsDiagnostic(t *testing.T) {
	dir := newProjectDir(t)
	mainPath := filepath.Join(dir, "main.inko")
	touch(t, mainPath)

	mainAST := emptyFile(mainPath, &ast.IntLiteral{Value: 1})
	mainAST.Imports = []*ast.Import{{ModulePath: []string{"does", "not", "exist"}, SelfAlias: "x"}}

	parser := &fakeParser{files: map[string]*ast.File{mainPath: mainAST}}
	resolver := module.NewResolverWithPaths(dir, filepath.Join(dir, "stdlib"), nil)
	cfg := compilestate.DefaultConfig()
	cfg.DisableBootstrap = true
	cfg.DisablePrelude = true
	c := New(cfg, resolver, parser)

	if _, err := c.CompileFile(mainPath); err != nil {
		t.Fatalf("CompileFile itself should not fail: %v", err)
	}
	if len(c.State.Diags.Errors()) == 0 {
		t.Error("expected a diagnostic for the unresolvable import")
	}
}
