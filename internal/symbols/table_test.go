package symbols

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/inko-lang/inko/internal/typesystem"
)

func TestLookupWithParentDepth(t *testing.T) {
	root := NewSymbolTable()
	_, ok := root.Define("x", typesystem.Any, false)
	require.True(t, ok)

	child := root.NewChild()
	_, ok = child.Define("y", typesystem.Any, false)
	require.True(t, ok)

	grandchild := child.NewChild()

	depth, sym, found := grandchild.LookupWithParent("y")
	require.True(t, found)
	assert.Equal(t, 1, depth)
	assert.Equal(t, "y", sym.Name)

	depth, sym, found = grandchild.LookupWithParent("x")
	require.True(t, found)
	assert.Equal(t, 2, depth)
	assert.Equal(t, "x", sym.Name)

	depth, _, found = grandchild.LookupWithParent("nope")
	assert.False(t, found)
	assert.Equal(t, -1, depth)
}

func TestRedefiningInSameScopeFails(t *testing.T) {
	table := NewSymbolTable()
	_, ok := table.Define("x", typesystem.Any, false)
	require.True(t, ok)
	_, ok = table.Define("x", typesystem.Any, false)
	assert.False(t, ok)
}

func TestIndexesStable(t *testing.T) {
	table := NewSymbolTable()
	a, _ := table.Define("a", typesystem.Any, false)
	b, _ := table.Define("b", typesystem.Any, false)
	assert.Equal(t, 0, a.Index)
	assert.Equal(t, 1, b.Index)
}

func TestUnusedLocalsExemptUnderscorePrefix(t *testing.T) {
	table := NewSymbolTable()
	used, _ := table.Define("used", typesystem.Any, false)
	used.MarkUsed()
	table.Define("unused", typesystem.Any, false)
	table.Define("_ignored", typesystem.Any, false)

	unused := table.UnusedSymbols()
	require.Len(t, unused, 1)
	assert.Equal(t, "unused", unused[0].Name)
}
