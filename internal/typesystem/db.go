package typesystem

// TypeDB is the arena of built-in and user-defined nominal types (spec §3
// "TypeDB"). IDs are assigned in registration order and never reused,
// giving every Object/Trait a stable identity independent of pointer
// equality — the arena the design notes call for.
type TypeDB struct {
	objects map[TypeID]*Object
	traits  map[TypeID]*Trait
	byName  map[string]Type
	nextID  TypeID
}

// NewTypeDB builds a TypeDB pre-populated with the built-in prototypes
// named in spec §3: Object, Array, Block, String, Integer, Float, Boolean,
// True, False, Nil, ByteArray, Module, and a top-level pseudo-module type.
func NewTypeDB() *TypeDB {
	db := &TypeDB{
		objects: map[TypeID]*Object{},
		traits:  map[TypeID]*Trait{},
		byName:  map[string]Type{},
	}

	root := db.registerObject("Object", nil)
	array := db.registerObject("Array", root)
	array.TypeParameters = []*TypeParameter{{Name: "T"}}
	db.registerObject("Block", root)
	db.registerObject("String", root)
	db.registerObject("Integer", root)
	db.registerObject("Float", root)
	boolean := db.registerObject("Boolean", root)
	db.registerObject("True", boolean)
	db.registerObject("False", boolean)
	nilObj := db.registerObject("Nil", root)
	db.registerObject("ByteArray", root)
	db.registerObject("Module", root)
	db.registerObject("TopLevel", root)

	SetNilSentinel(nilObj)
	return db
}

func (db *TypeDB) registerObject(name string, prototype *Object) *Object {
	db.nextID++
	obj := &Object{
		ID:         db.nextID,
		Name:       name,
		Prototype:  prototype,
		Attributes: map[string]*Symbol{},
	}
	db.objects[obj.ID] = obj
	db.byName[name] = obj
	return obj
}

// Object looks up a registered built-in or user-defined Object by name.
func (db *TypeDB) Object(name string) (*Object, bool) {
	t, ok := db.byName[name]
	if !ok {
		return nil, false
	}
	obj, ok := t.(*Object)
	return obj, ok
}

// Trait looks up a registered Trait by name.
func (db *TypeDB) Trait(name string) (*Trait, bool) {
	t, ok := db.byName[name]
	if !ok {
		return nil, false
	}
	tr, ok := t.(*Trait)
	return tr, ok
}

// Lookup looks up any registered Type (Object or Trait) by name.
func (db *TypeDB) Lookup(name string) (Type, bool) {
	t, ok := db.byName[name]
	return t, ok
}

// DefineObject registers a brand-new user-defined Object type. Returns
// false if the name is already taken by a different kind of type (an
// object/trait name clash is a redefinition error upstream).
func (db *TypeDB) DefineObject(name string, prototype *Object) (*Object, bool) {
	if existing, ok := db.byName[name]; ok {
		if obj, ok := existing.(*Object); ok {
			return obj, true // re-opened object
		}
		return nil, false
	}
	return db.registerObject(name, prototype), true
}

// DefineTrait registers a new Trait, or returns the existing one if it is
// still empty (spec §3 "extend trait" rule). ok is false if a non-empty
// trait of that name already exists, or the name is taken by an Object.
func (db *TypeDB) DefineTrait(name string) (trait *Trait, ok bool) {
	if existing, found := db.byName[name]; found {
		tr, isTrait := existing.(*Trait)
		if !isTrait {
			return nil, false
		}
		if !tr.IsEmpty() {
			return tr, false
		}
		return tr, true
	}
	db.nextID++
	tr := &Trait{
		ID:              db.nextID,
		Name:            name,
		RequiredMethods: map[string]*Symbol{},
		DefaultMethods:  map[string]*Symbol{},
	}
	db.traits[tr.ID] = tr
	db.byName[name] = tr
	return tr, true
}

// NewArrayOfType returns Array[T] for the given element type (spec §3
// "TypeDB... constructors for parametric instances (e.g.
// new_array_of_type(T))").
func (db *TypeDB) NewArrayOfType(elem Type) Type {
	array, _ := db.Object("Array")
	return array.NewInstance(elem)
}

// MustObject looks up a built-in by name and panics if it is missing —
// used only for names TypeDB itself guarantees exist (e.g. "Integer").
func (db *TypeDB) MustObject(name string) *Object {
	obj, ok := db.Object(name)
	if !ok {
		panic("typesystem: missing built-in object " + name)
	}
	return obj
}
