package compilestate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inko-lang/inko/internal/module"
)

func TestDefaultConfigHasUsableSearchPath(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, LinkDynamic, cfg.LinkMode)
	assert.Contains(t, cfg.SearchPaths, ".")
}

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/inko.toml")
	assert.Error(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestStateRegisterRejectsDuplicateModule(t *testing.T) {
	st := NewState(DefaultConfig())
	name := module.FromDotted("std.string")
	m := module.New(name, "std/string.inko")

	require.True(t, st.Register(m))
	assert.False(t, st.Register(m), "re-registering the same qualified name must fail")

	found, ok := st.Lookup(name)
	assert.True(t, ok)
	assert.Same(t, m, found)
}

func TestStateSessionIDMatchesDiagnostics(t *testing.T) {
	st := NewState(DefaultConfig())
	assert.Equal(t, st.Diags.SessionID, st.Session)
}

func TestRecordTimingAccumulates(t *testing.T) {
	st := NewState(DefaultConfig())
	st.RecordTiming("std.string", "Hoisting", 5*time.Millisecond)
	st.RecordTiming("std.string", "DefineType", 10*time.Millisecond)
	require.Len(t, st.Timings, 2)
	assert.Equal(t, "DefineType", st.Timings[1].Pass)
}
