package pass

import (
	"os"

	"github.com/inko-lang/inko/internal/compilestate"
	"github.com/inko-lang/inko/internal/module"
	"github.com/inko-lang/inko/internal/typesystem"
)

// PathToSource reads a module's source bytes off disk (spec §4.1 step 1).
// Lexing/parsing themselves are out of this component's scope (spec §1);
// the Compiler driver hands the bytes to an injected parser.
func PathToSource(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// TrackModule / AstToModule creates and registers the Module for a freshly
// parsed file (spec §4.1 step 3). Returns the existing module unchanged if
// name was already registered (mutually recursive imports register a
// module before its body is fully typed, spec §5).
func TrackModule(state *compilestate.State, name module.QualifiedName, path string) *module.Module {
	if existing, ok := state.Lookup(name); ok {
		return existing
	}
	mod := module.New(name, path)
	state.Register(mod)
	return mod
}

// DefineModuleType assigns the module's own nominal type: every module is
// also an Object instance (spec §3 "module type (an Object in the type
// system)", spec §4.1 step 4).
func DefineModuleType(ctx *Context) {
	mod := ctx.Module
	if mod.Type != nil {
		return
	}
	topLevel, _ := ctx.State.Types.Object("TopLevel")
	obj, _ := ctx.State.Types.DefineObject(mod.Name.String(), topLevel)
	mod.Type = obj
}

// moduleSelfType is a small convenience used by several passes that need
// the module's type as a typesystem.Type rather than a *typesystem.Object.
func moduleSelfType(mod *module.Module) typesystem.Type {
	return mod.Type
}
