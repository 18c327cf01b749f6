package module

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inko-lang/inko/internal/symbols"
)

func TestNewModuleHasEmptyGlobalScope(t *testing.T) {
	m := New(FromDotted("std.string"), "std/string.inko")
	require.NotNil(t, m.Globals())
	assert.Equal(t, 0, m.Globals().Len())
	assert.True(t, m.DefineModule)
	assert.True(t, m.ImportBootstrap)
	assert.True(t, m.ImportPrelude)
}

func TestModuleSatisfiesModuleScope(t *testing.T) {
	var scope symbols.ModuleScope = New(FromDotted("std.map"), "std/map.inko")
	assert.NotNil(t, scope.Globals())
}

func TestQualifiedNameFromFilePath(t *testing.T) {
	name := FromFilePath("std/string/builder.inko")
	assert.Equal(t, "std.string.builder", name.String())
}

func TestQualifiedNameEqualityIgnoresConstruction(t *testing.T) {
	a := FromDotted("std.string")
	b := NewQualifiedName("std", "string")
	assert.True(t, a.Equal(b))
}
