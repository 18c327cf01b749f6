// Package compilestate implements State, the process-wide, single-owner
// context the Compiler driver threads through every pass (spec §3
// "State", §5 "Shared resources").
package compilestate

import (
	"os"

	"github.com/BurntSushi/toml"
)

// LinkMode is the static/dynamic linking hint external to this component's
// scope (machine-specific linking is an external collaborator, spec §1),
// but the hint itself is part of compiler configuration.
type LinkMode string

const (
	LinkStatic  LinkMode = "static"
	LinkDynamic LinkMode = "dynamic"
)

// Config is the project-level compiler configuration: target triple,
// search paths, and the static/dynamic link hint (spec §6 "Inputs...
// Compiler configuration: target triple, module-option pragmas, include
// paths, module search path, static vs dynamic linking hint").
//
// Parsed from an "inko.toml" project file with BurntSushi/toml, the
// format miaomiao1992-dingo and vovakirdan-surge use for their own
// compiler-level project configuration (SPEC_FULL DOMAIN STACK).
type Config struct {
	Target           string   `toml:"target"`
	SearchPaths      []string `toml:"search_paths"`
	IncludePaths     []string `toml:"include_paths"`
	LinkMode         LinkMode `toml:"link_mode"`
	BytecodeDir      string   `toml:"bytecode_dir"`
	DisableBootstrap bool     `toml:"disable_bootstrap"`
	DisablePrelude   bool     `toml:"disable_prelude"`
}

// DefaultConfig returns a Config with sane defaults for a standalone
// compile (no project file present).
func DefaultConfig() Config {
	return Config{
		Target:      "native",
		SearchPaths: []string{"."},
		LinkMode:    LinkDynamic,
		BytecodeDir: "build",
	}
}

// LoadConfig reads and parses an inko.toml project file.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
