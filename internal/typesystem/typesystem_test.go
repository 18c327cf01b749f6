package typesystem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionalWrapIsIdempotent(t *testing.T) {
	db := NewTypeDB()
	intT, _ := db.Object("Integer")

	once := WrapOptional(intT)
	twice := WrapOptional(once)
	assert.Same(t, once, twice)
}

func TestTraitRequirementsMet(t *testing.T) {
	db := NewTypeDB()
	toString, _ := db.DefineTrait("ToString")
	strT, _ := db.Object("String")
	toString.RequiredMethods["to_string"] = &Symbol{
		Name: "to_string",
		Type: &Block{BlockKind: BlockMethod, ReturnType: strT},
	}

	point, _ := db.DefineObject("Point", db.MustObject("Object"))

	missingTraits, missingMethods := toString.TraitRequirementsMet(point)
	assert.Empty(t, missingTraits)
	require.Len(t, missingMethods, 1)
	assert.Equal(t, "to_string", missingMethods[0])

	// Now implement it.
	point.AddAttribute("to_string", &Block{BlockKind: BlockMethod, ReturnType: strT}, false)
	_, missingMethods = toString.TraitRequirementsMet(point)
	assert.Empty(t, missingMethods)
}

func TestExtendEmptyTraitAllowedNonEmptyRejected(t *testing.T) {
	db := NewTypeDB()
	tr, ok := db.DefineTrait("Empty")
	require.True(t, ok)

	tr.RequiredMethods["m"] = &Symbol{Name: "m", Type: &Block{BlockKind: BlockMethod}}

	_, ok = db.DefineTrait("Empty")
	assert.False(t, ok, "redefining a non-empty trait must fail")
}

func TestErrorAbsorption(t *testing.T) {
	db := NewTypeDB()
	intT, _ := db.Object("Integer")
	assert.True(t, TypeCompatible(ErrorT, intT))
	assert.True(t, TypeCompatible(intT, ErrorT))
	assert.True(t, TypeCompatible(NeverT, intT))
}

func TestGenericInstanceCompatibility(t *testing.T) {
	db := NewTypeDB()
	intT, _ := db.Object("Integer")
	strT, _ := db.Object("String")

	arrInt := db.NewArrayOfType(intT)
	arrInt2 := db.NewArrayOfType(intT)
	arrStr := db.NewArrayOfType(strT)

	assert.True(t, TypeCompatible(arrInt, arrInt2))
	assert.False(t, TypeCompatible(arrInt, arrStr))
}

func TestNewInstanceForSendIdentityWithNoParams(t *testing.T) {
	block := &Block{BlockKind: BlockMethod}
	same := block.NewInstanceForSend(nil)
	assert.Same(t, block, same)
}

func TestArgumentCountRangeWithRest(t *testing.T) {
	db := NewTypeDB()
	intT, _ := db.Object("Integer")
	arr := db.NewArrayOfType(intT)
	b := &Block{Arguments: []Argument{
		{Name: "first", Type: intT},
		{Name: "rest", Type: arr, Rest: true},
	}}
	min, max := b.ArgumentCountRange()
	assert.Equal(t, 1, min)
	assert.Equal(t, -1, max)
	assert.True(t, b.WithinArgumentCountRange(1))
	assert.True(t, b.WithinArgumentCountRange(5))
	assert.False(t, b.WithinArgumentCountRange(0))
}

func TestImplementTraitCopiesDefaultMethods(t *testing.T) {
	db := NewTypeDB()
	strT, _ := db.Object("String")
	tr, _ := db.DefineTrait("Greet")
	tr.DefaultMethods["hello"] = &Symbol{Name: "hello", Type: &Block{BlockKind: BlockMethod, ReturnType: strT}}

	obj, _ := db.DefineObject("Greeter", db.MustObject("Object"))
	conflicts := ImplementTrait(obj, tr)
	assert.Empty(t, conflicts)
	assert.True(t, obj.RespondsToMessage("hello"))
	assert.True(t, obj.Implements(tr))
}
