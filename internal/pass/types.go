package pass

import (
	"github.com/inko-lang/inko/internal/ast"
	"github.com/inko-lang/inko/internal/diagnostics"
	"github.com/inko-lang/inko/internal/typesystem"
)

// DefineTypeSignatures creates a nominal Object or Trait for every
// top-level `object`/`trait` declaration in the module (spec §4.1 step
// 15); declarations nested inside another body are not registered. Method
// bodies are not yet examined — that is DefineType's job.
func DefineTypeSignatures(ctx *Context) {
	if ctx.Module.AST == nil || ctx.Module.AST.Body == nil {
		return
	}
	for _, e := range ctx.Module.AST.Body.Expressions {
		defineTypeSignature(ctx, e)
	}
}

func defineTypeSignature(ctx *Context, e ast.Expr) {
	switch n := e.(type) {
	case *ast.Object:
		rootObj, _ := ctx.State.Types.Object("Object")
		obj, ok := ctx.State.Types.DefineObject(n.Name, rootObj)
		if !ok {
			ctx.State.Diags.Errorf(diagnostics.ResRedefinedConstant, astLoc(n.Pos),
				"%q is already defined and is not an object", n.Name)
			return
		}
		for _, tp := range n.TypeParameters {
			obj.TypeParameters = append(obj.TypeParameters, &typesystem.TypeParameter{Name: tp.Name, Mutable: tp.Mutable})
		}
		n.ObjectType = obj
		ctx.Module.Globals().Define(n.Name, obj, false)
	case *ast.Trait:
		tr, ok := ctx.State.Types.DefineTrait(n.Name)
		if !ok {
			ctx.State.Diags.Errorf(diagnostics.StructExtendNonEmptyTrait, astLoc(n.Pos),
				"trait %q is already defined and is not empty", n.Name)
			return
		}
		for _, tp := range n.TypeParameters {
			tr.TypeParameters = append(tr.TypeParameters, &typesystem.TypeParameter{Name: tp.Name, Mutable: tp.Mutable})
		}
		n.TraitType = tr
		ctx.Module.Globals().Define(n.Name, tr, false)
	}
}

func astLoc(p ast.Pos) diagnostics.Location {
	return diagnostics.Location{File: p.File, Line: p.Line, Column: p.Column}
}

// DefineImportTypes binds each resolved import's symbol type as a global
// in the importing module (spec §4.1 step 16).
func DefineImportTypes(ctx *Context) {
	mod := ctx.Module
	for _, imp := range mod.Imports {
		source, ok := ctx.State.Lookup(imp.Path)
		if !ok {
			continue
		}
		if imp.SelfName != "" {
			mod.Globals().Define(imp.SelfName, source.Type, false)
		}
		if imp.Glob {
			for _, name := range source.Globals().Names() {
				sym, _ := source.Globals().LookupLocal(name)
				mod.Globals().Define(name, sym.Type, false)
			}
			continue
		}
		for _, s := range imp.Symbols {
			sym, found := source.Globals().LookupLocal(s.SourceName)
			if !found {
				ctx.State.Diags.Errorf(diagnostics.ImportUnknownSymbol, diagnostics.Location{File: mod.Path},
					"module %q does not export %q", imp.Path.String(), s.SourceName)
				continue
			}
			s.Type = sym.Type
			if _, ok := mod.Globals().Define(s.LocalName, sym.Type, false); !ok {
				ctx.State.Diags.Errorf(diagnostics.ImportDuplicateSymbol, diagnostics.Location{File: mod.Path},
					"%q is already imported", s.LocalName)
			}
		}
	}
}

// ImplementTraits marks `impl Trait for Type` as implemented without yet
// validating method bodies (spec §4.1 step 17); full requirement checking
// happens in DefineType once method signatures exist.
func ImplementTraits(ctx *Context) {
	if ctx.Module.AST == nil || ctx.Module.AST.Body == nil {
		return
	}
	for _, e := range ctx.Module.AST.Body.Expressions {
		impl, ok := e.(*ast.TraitImplementation)
		if !ok {
			continue
		}
		trait, ok := ctx.State.Types.Trait(impl.TraitName)
		if !ok {
			ctx.State.Diags.Errorf(diagnostics.TypeUnimplementedTrait, astLoc(impl.Pos),
				"%q is not a trait", impl.TraitName)
			continue
		}
		obj, ok := ctx.State.Types.Object(impl.ForName)
		if !ok {
			ctx.State.Diags.Errorf(diagnostics.StructNotAnObject, astLoc(impl.Pos),
				"%q is not an object", impl.ForName)
			continue
		}
		if conflicts := typesystem.ImplementTrait(obj, trait); len(conflicts) > 0 {
			ctx.State.Diags.Errorf(diagnostics.TypeUnimplementedMethod, astLoc(impl.Pos),
				"trait %q conflicts with existing incompatible method(s) on %q", trait.Name, obj.Name)
		}
	}
}
