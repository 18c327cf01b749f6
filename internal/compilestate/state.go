package compilestate

import (
	"time"

	"github.com/google/uuid"

	"github.com/inko-lang/inko/internal/diagnostics"
	"github.com/inko-lang/inko/internal/module"
	"github.com/inko-lang/inko/internal/typesystem"
)

// PhaseTiming records how long one named pass took against one module, an
// ambient addition surfaced through State for --dump-timings (SPEC_FULL
// SUPPLEMENTED FEATURES).
type PhaseTiming struct {
	Module   string
	Pass     string
	Duration time.Duration
}

// State is the single, process-wide context threaded through every pass:
// compiler configuration, the type database, the accumulated diagnostics,
// and the module registry (spec §3 "State", "Shared resources").
//
// A State is created once per compile and torn down when the Compiler
// driver finishes; nothing in it survives across separate invocations.
type State struct {
	Config  Config
	Types   *typesystem.TypeDB
	Diags   *diagnostics.Diagnostics
	Session uuid.UUID

	// registry holds every module compiled so far, keyed by its
	// QualifiedName's dotted form, enforcing the "compile each imported
	// module at most once" invariant (spec §4.1 step 7
	// "CompileImportedModules").
	registry map[string]*module.Module

	// SearchPaths is a copy of Config.SearchPaths. Import paths are
	// resolved to source files by module.Resolver, not by PathToSource,
	// which only reads an already-resolved file.
	SearchPaths []string

	Timings []PhaseTiming
}

// NewState creates a State ready for a fresh compile.
func NewState(cfg Config) *State {
	diags := diagnostics.New()
	return &State{
		Config:      cfg,
		Types:       typesystem.NewTypeDB(),
		Diags:       diags,
		Session:     diags.SessionID,
		registry:    map[string]*module.Module{},
		SearchPaths: append([]string{}, cfg.SearchPaths...),
	}
}

// Lookup returns an already-registered module by qualified name.
func (s *State) Lookup(name module.QualifiedName) (*module.Module, bool) {
	m, ok := s.registry[name.String()]
	return m, ok
}

// Register records a newly compiled module, returning false if a module of
// the same name is already registered (the caller should treat this as a
// duplicate-compile bug, not an import cycle — the Compiler's CycleGuard
// detects cycles in CompileModule).
func (s *State) Register(m *module.Module) bool {
	key := m.Name.String()
	if _, exists := s.registry[key]; exists {
		return false
	}
	s.registry[key] = m
	return true
}

// Modules returns every registered module, in no particular order.
func (s *State) Modules() []*module.Module {
	out := make([]*module.Module, 0, len(s.registry))
	for _, m := range s.registry {
		out = append(out, m)
	}
	return out
}

// RecordTiming appends one phase timing sample.
func (s *State) RecordTiming(moduleName, pass string, d time.Duration) {
	s.Timings = append(s.Timings, PhaseTiming{Module: moduleName, Pass: pass, Duration: d})
}
