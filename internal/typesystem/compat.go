package typesystem

// TypeCompatible implements spec §4.3 "type_compatible?(other, state)":
// identity, trait implementation, type-parameter satisfaction of required
// traits, Nil->Optional(T) widening (the built-in Nil object registered
// via SetNilSentinel is compatible with any Optional), Never compatible
// with anything, and Error compatible with anything to suppress cascades.
//
// given is the actual type; want is the expected/declared type. This
// mirrors the natural reading order of the spec's examples ("a value of
// type given where want is expected").
func TypeCompatible(given, want Type) bool {
	if IsError(given) || IsError(want) {
		return true
	}
	if given == NeverT {
		return true
	}
	if given == want {
		return true
	}

	switch w := want.(type) {
	case *Optional:
		if given == nilSentinel {
			return true
		}
		if g, ok := given.(*Optional); ok {
			return TypeCompatible(g.Inner, w.Inner)
		}
		return TypeCompatible(given, w.Inner)
	case anyType:
		return true
	case *TypeParameter:
		for _, req := range w.RequiredTraits {
			if !objectImplements(given, req) {
				return false
			}
		}
		return true
	}

	switch g := given.(type) {
	case *Object:
		if w, ok := want.(*Object); ok {
			return objectIsOrInherits(g, w)
		}
		if w, ok := want.(*Trait); ok {
			return g.Implements(w)
		}
	case *Trait:
		if w, ok := want.(*Trait); ok {
			return g.Name == w.Name
		}
	case *GenericInstance:
		if w, ok := want.(*GenericInstance); ok {
			return genericInstancesCompatible(g, w)
		}
		if w, ok := want.(*Object); ok {
			if base, ok := g.Base.(*Object); ok {
				return objectIsOrInherits(base, w)
			}
		}
	case *Block:
		if w, ok := want.(*Block); ok {
			return blocksCompatible(g, w)
		}
	case *TypeParameter:
		if w, ok := want.(*TypeParameter); ok {
			return g.Name == w.Name
		}
	}

	return false
}

// nilSentinel is the type assigned to the `Nil` literal; it widens to any
// Optional (spec §3 "Optional wrapping... Nil -> Optional(T) via try-else
// inference"). Declared here (not in kinds.go) because it is a TypeDB
// built-in Object, not a distinct Kind.
var nilSentinel Type

// SetNilSentinel lets TypeDB register its built-in Nil object as the value
// that widens into any Optional.
func SetNilSentinel(t Type) { nilSentinel = t }

func objectImplements(t Type, trait *Trait) bool {
	switch v := t.(type) {
	case *Object:
		return v.Implements(trait)
	case *GenericInstance:
		if obj, ok := v.Base.(*Object); ok {
			return obj.Implements(trait)
		}
	case *TypeParameter:
		for _, req := range v.RequiredTraits {
			if req.Name == trait.Name {
				return true
			}
		}
	}
	return false
}

func objectIsOrInherits(g, w *Object) bool {
	for cur := g; cur != nil; cur = cur.Prototype {
		if cur.Name == w.Name {
			return true
		}
	}
	return false
}

func genericInstancesCompatible(g, w *GenericInstance) bool {
	if g.BaseName() != w.BaseName() {
		return false
	}
	for _, name := range w.Order {
		wb, ok1 := w.Bindings[name]
		gb, ok2 := g.Bindings[name]
		if !ok1 || !ok2 {
			continue
		}
		if !TypeCompatible(gb, wb) {
			return false
		}
	}
	return true
}

func blocksCompatible(g, w *Block) bool {
	if len(g.Arguments) != len(w.Arguments) {
		return false
	}
	for i := range g.Arguments {
		// Parameters are contravariant: the given block's parameter
		// type must accept anything the expected block's parameter accepts.
		if !TypeCompatible(w.Arguments[i].Type, g.Arguments[i].Type) {
			return false
		}
	}
	if g.ReturnType != nil && w.ReturnType != nil && !TypeCompatible(g.ReturnType, w.ReturnType) {
		return false
	}
	return true
}

// MethodBoundsMet checks a method's extra Self-type requirements against
// the concrete self type at a call site (spec §4.3 "method_bounds" — "may
// fail before dispatch if the concrete self type does not meet them").
func MethodBoundsMet(method *Block, concreteSelf Type) (missing []*TypeParameter) {
	for _, bound := range method.MethodBounds {
		for _, req := range bound.RequiredTraits {
			if !objectImplements(concreteSelf, req) {
				missing = append(missing, bound)
				break
			}
		}
	}
	return missing
}

// ImplementTrait copies a trait's default methods onto obj (spec §4.3
// "default_methods (trait)... on impl Trait for Type, defaults are copied
// onto the type, failing with a diagnostic if the type already has an
// incompatible method"). It returns the names that collided with an
// existing, incompatible method on obj.
func ImplementTrait(obj *Object, trait *Trait) (conflicts []string) {
	for name, sym := range trait.DefaultMethods {
		if existing, ok := obj.Attributes[name]; ok {
			existingBlock, _ := existing.Type.(*Block)
			defaultBlock, _ := sym.Type.(*Block)
			if existingBlock != nil && defaultBlock != nil && existingBlock.SignatureCompatible(defaultBlock) {
				continue
			}
			conflicts = append(conflicts, name)
			continue
		}
		obj.AddAttribute(name, sym.Type, false)
	}
	if !obj.Implements(trait) {
		obj.ImplementedTraits = append(obj.ImplementedTraits, trait)
	}
	return conflicts
}
