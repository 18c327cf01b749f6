package typesystem

import "fmt"

// Symbol is a named, typed slot on an Object/Trait: an attribute or a
// method. It is distinct from symbols.Symbol (a lexical-scope binding);
// this one lives on the type, not in a scope.
type Symbol struct {
	Name    string
	Type    Type // usually a *Block for methods
	Mutable bool
}

// Object is a nominal type: a user-defined class or one of TypeDB's
// built-in prototypes (spec §3 "Object").
type Object struct {
	ID                 TypeID
	Name               string
	Prototype          *Object // nil for root types such as TypeDB's Object
	Attributes         map[string]*Symbol
	AttributeOrder     []string
	TypeParameters     []*TypeParameter
	ImplementedTraits  []*Trait
}

func (o *Object) Kind() Kind     { return KindObject }
func (o *Object) String() string { return o.Name }

// NewInstance produces an uninstantiated-parameter instance of o: if o has
// type parameters and none are supplied, each parameter defaults to itself
// (spec §4.3 "new_instance(type_args?)").
func (o *Object) NewInstance(typeArgs ...Type) Type {
	if len(o.TypeParameters) == 0 {
		return o
	}
	gi := &GenericInstance{Base: o, Bindings: map[string]Type{}}
	for i, tp := range o.TypeParameters {
		if i < len(typeArgs) {
			gi.Bindings[tp.Name] = typeArgs[i]
		} else {
			gi.Bindings[tp.Name] = tp
		}
		gi.Order = append(gi.Order, tp.Name)
	}
	return gi
}

// Implements reports whether o's implemented-traits list already contains
// trait (by name, which is unique within a TypeDB).
func (o *Object) Implements(trait *Trait) bool {
	for _, t := range o.ImplementedTraits {
		if t.Name == trait.Name {
			return true
		}
	}
	return false
}

// AddAttribute installs a new attribute, returning false and leaving the
// existing attribute in place if the name is already taken. The callers in
// internal/pass ignore the result, so a redefinition is not reported.
func (o *Object) AddAttribute(name string, typ Type, mutable bool) bool {
	if o.Attributes == nil {
		o.Attributes = map[string]*Symbol{}
	}
	if _, exists := o.Attributes[name]; exists {
		return false
	}
	o.Attributes[name] = &Symbol{Name: name, Type: typ, Mutable: mutable}
	o.AttributeOrder = append(o.AttributeOrder, name)
	return true
}

// LookupMethod walks o's own attributes (methods are stored as attributes
// whose Type is a *Block), then its prototype chain, then its implemented
// traits' default methods (spec §4.3 "lookup_method(name)").
func (o *Object) LookupMethod(name string) (*Symbol, bool) {
	if sym, ok := o.Attributes[name]; ok {
		if _, isBlock := sym.Type.(*Block); isBlock {
			return sym, true
		}
	}
	if o.Prototype != nil {
		if sym, ok := o.Prototype.LookupMethod(name); ok {
			return sym, true
		}
	}
	for _, tr := range o.ImplementedTraits {
		if sym, ok := tr.DefaultMethods[name]; ok {
			return sym, true
		}
	}
	return nil, false
}

// RespondsToMessage reports whether o has a method of the given name,
// reachable via LookupMethod (spec §4.3 "responds_to_message?(name)").
func (o *Object) RespondsToMessage(name string) bool {
	_, ok := o.LookupMethod(name)
	return ok
}

// Trait describes a set of required methods, required traits, and default
// methods that implementers inherit (spec §3 "Trait").
//
// A trait is "empty" until it gains a required method/trait or an
// implementation; the extend-trait rule (spec §3 invariant) only allows a
// second `trait Name { ... }` declaration with the same name when the
// first one is still empty.
type Trait struct {
	ID               TypeID
	Name             string
	RequiredMethods  map[string]*Symbol
	RequiredTraits   []*Trait
	DefaultMethods   map[string]*Symbol
	TypeParameters   []*TypeParameter
}

func (t *Trait) Kind() Kind     { return KindTrait }
func (t *Trait) String() string { return t.Name }

// IsEmpty reports whether the trait has no required methods, no required
// traits, and no default methods yet (spec §3 "empty" invariant).
func (t *Trait) IsEmpty() bool {
	return len(t.RequiredMethods) == 0 && len(t.RequiredTraits) == 0 && len(t.DefaultMethods) == 0
}

// RequiresTrait reports whether other is named in t's required-traits list.
func (t *Trait) RequiresTrait(other *Trait) bool {
	for _, rt := range t.RequiredTraits {
		if rt.Name == other.Name {
			return true
		}
	}
	return false
}

// TraitRequirementsMet reports whether obj implements every required trait
// and has a compatible method for every required method of t (spec §4.3
// "trait_requirements_met?"). Missing items are returned for diagnostics.
func (t *Trait) TraitRequirementsMet(obj *Object) (missingTraits []*Trait, missingMethods []string) {
	for _, rt := range t.RequiredTraits {
		if !obj.Implements(rt) {
			missingTraits = append(missingTraits, rt)
		}
	}
	for name, required := range t.RequiredMethods {
		sym, ok := obj.LookupMethod(name)
		if !ok {
			missingMethods = append(missingMethods, name)
			continue
		}
		reqBlock, _ := required.Type.(*Block)
		gotBlock, _ := sym.Type.(*Block)
		if reqBlock != nil && gotBlock != nil && !reqBlock.SignatureCompatible(gotBlock) {
			missingMethods = append(missingMethods, name)
		}
	}
	return missingTraits, missingMethods
}

// NewInstance mirrors Object.NewInstance for traits used as type-parameter
// bounds or standalone existential types.
func (t *Trait) NewInstance(typeArgs ...Type) Type {
	if len(t.TypeParameters) == 0 {
		return t
	}
	gi := &GenericInstance{Base: t, Bindings: map[string]Type{}}
	for i, tp := range t.TypeParameters {
		if i < len(typeArgs) {
			gi.Bindings[tp.Name] = typeArgs[i]
		} else {
			gi.Bindings[tp.Name] = tp
		}
		gi.Order = append(gi.Order, tp.Name)
	}
	return gi
}

func (s *Symbol) String() string {
	return fmt.Sprintf("%s: %s", s.Name, s.Type.String())
}
