package typesystem

import (
	"fmt"
	"strings"
)

// BlockKind distinguishes the three callable shapes the spec names: a
// Closure captures its enclosing self type, a Lambda's self type is the
// module (so it cannot close over local self), and a Method is attached to
// an Object/Trait (spec §3 "Block", §4.4 "Block / lambda").
type BlockKind int

const (
	BlockClosure BlockKind = iota
	BlockLambda
	BlockMethod
)

func (k BlockKind) String() string {
	switch k {
	case BlockLambda:
		return "lambda"
	case BlockMethod:
		return "method"
	default:
		return "closure"
	}
}

// Argument is one declared parameter of a Block.
type Argument struct {
	Name     string
	Type     Type
	Default  bool // has a default value
	Rest     bool // collects trailing positional args into Array[Type]
	Keyword  bool // may be passed by name
}

// Block is a callable type: the method/closure/lambda variant of Type
// (spec §3 "Block").
type Block struct {
	BlockKind      BlockKind
	Arguments      []Argument
	ReturnType     Type
	ThrowType      Type // nil if the block cannot throw
	ThrowInferred  bool // true when the source has no `!!T` annotation; DefineType takes ThrowType from the first throw
	YieldType      Type
	MethodBounds   []*TypeParameter // extra trait requirements on Self for this method
	SelfType       Type
	Captures       bool
	TypeParameters []*TypeParameter
}

func (b *Block) Kind() Kind { return KindBlock }
func (b *Block) String() string {
	parts := make([]string, len(b.Arguments))
	for i, a := range b.Arguments {
		parts[i] = fmt.Sprintf("%s: %s", a.Name, a.Type.String())
	}
	throws := ""
	if b.ThrowType != nil {
		throws = fmt.Sprintf(" !! %s", b.ThrowType.String())
	}
	ret := "Nil"
	if b.ReturnType != nil {
		ret = b.ReturnType.String()
	}
	return fmt.Sprintf("fn (%s) -> %s%s", strings.Join(parts, ", "), ret, throws)
}

// ArgumentCountRange returns [min,max]; max is -1 for "unbounded" when the
// block has a rest argument (spec §4.3 "argument_count_range").
func (b *Block) ArgumentCountRange() (min, max int) {
	required := 0
	hasRest := false
	for _, a := range b.Arguments {
		if a.Rest {
			hasRest = true
			continue
		}
		if !a.Default {
			required++
		}
	}
	if hasRest {
		return required, -1
	}
	return required, len(b.Arguments)
}

// WithinArgumentCountRange reports whether n positional arguments satisfy
// ArgumentCountRange (spec §8 invariant: "the number of positional
// arguments lies within the method's argument_count_range").
func (b *Block) WithinArgumentCountRange(n int) bool {
	min, max := b.ArgumentCountRange()
	if n < min {
		return false
	}
	return max < 0 || n <= max
}

// ArgumentTypeAt returns the declared type of the positional argument at
// index, and whether it is the rest argument (spec §4.3
// "argument_type_at(index, source)"). For rest arguments, compatibility
// checks must compare against the rest element type (isRest=true), not
// Array[T] — see spec §4.4 "Send" step 6.
func (b *Block) ArgumentTypeAt(index int) (t Type, isRest bool, ok bool) {
	for i, a := range b.Arguments {
		if a.Rest {
			if index >= i {
				return a.Type, true, true
			}
			continue
		}
		if i == index {
			return a.Type, false, true
		}
	}
	return nil, false, false
}

// KeywordArgumentType returns the declared type of a named argument, or
// (nil, false) if no argument of that name exists (spec §4.3
// "keyword_argument_type(name, source)").
func (b *Block) KeywordArgumentType(name string) (Type, bool) {
	for _, a := range b.Arguments {
		if a.Name == name {
			return a.Type, true
		}
	}
	return nil, false
}

// SignatureCompatible is a loose structural check used when verifying that
// an implemented method satisfies a trait's required-method signature:
// same arity and pairwise-compatible argument/return types.
func (b *Block) SignatureCompatible(other *Block) bool {
	if len(b.Arguments) != len(other.Arguments) {
		return false
	}
	for i := range b.Arguments {
		if !TypeCompatible(other.Arguments[i].Type, b.Arguments[i].Type) {
			return false
		}
	}
	if b.ReturnType != nil && other.ReturnType != nil {
		return TypeCompatible(other.ReturnType, b.ReturnType)
	}
	return true
}

// NewInstanceForSend clones b's type, binding caller-supplied type
// arguments to b's type parameters (spec §4.3
// "new_instance_for_send(type_args)"). With zero type parameters this is
// the identity, satisfying the idempotence property in spec §8.
func (b *Block) NewInstanceForSend(typeArgs []Type) *Block {
	if len(b.TypeParameters) == 0 {
		return b
	}
	subs := map[string]Type{}
	for i, tp := range b.TypeParameters {
		if i < len(typeArgs) {
			subs[tp.Name] = typeArgs[i]
		} else {
			subs[tp.Name] = tp
		}
	}
	return b.substitute(subs)
}

func (b *Block) substitute(subs map[string]Type) *Block {
	clone := *b
	clone.Arguments = make([]Argument, len(b.Arguments))
	for i, a := range b.Arguments {
		clone.Arguments[i] = Argument{
			Name: a.Name, Type: Substitute(a.Type, subs), Default: a.Default, Rest: a.Rest, Keyword: a.Keyword,
		}
	}
	if b.ReturnType != nil {
		clone.ReturnType = Substitute(b.ReturnType, subs)
	}
	if b.ThrowType != nil {
		clone.ThrowType = Substitute(b.ThrowType, subs)
	}
	clone.TypeParameters = nil
	return &clone
}

// Substitute recursively replaces bound type-parameter names with their
// bound type. Kinds with no inner type (Object/Trait/singletons) are
// returned unchanged: resolving a type parameter that names an Object is
// not substitution's job, it is resolveTypeParameters's (spec §4.3
// "resolve_type_parameters").
func Substitute(t Type, subs map[string]Type) Type {
	switch v := t.(type) {
	case *TypeParameter:
		if bound, ok := subs[v.Name]; ok {
			return bound
		}
		return v
	case *Optional:
		return &Optional{Inner: Substitute(v.Inner, subs)}
	case *Block:
		return v.substitute(subs)
	case *GenericInstance:
		clone := &GenericInstance{Base: v.Base, Bindings: map[string]Type{}, Order: append([]string{}, v.Order...)}
		for k, bound := range v.Bindings {
			clone.Bindings[k] = Substitute(bound, subs)
		}
		return clone
	default:
		return t
	}
}

// ResolveTypeParameters substitutes bound type-parameter instances from
// method into an expression type drawn from source (spec §4.3
// "resolve_type_parameters(source, method)"). It also resolves the Self
// sentinel using method.SelfType, matching spec §4.4's "Return" and
// "Send" rules ("remapped via enclosing method bounds").
func ResolveTypeParameters(expr Type, method *Block) Type {
	if expr == SelfT && method.SelfType != nil {
		return method.SelfType
	}
	subs := map[string]Type{}
	if gi, ok := method.SelfType.(*GenericInstance); ok {
		for k, v := range gi.Bindings {
			subs[k] = v
		}
	}
	return Substitute(expr, subs)
}

// WithTypeParameterInstancesFrom merges type-parameter bindings from
// sources into a copy of b (spec §4.3
// "with_type_parameter_instances_from([sources])").
func (b *Block) WithTypeParameterInstancesFrom(sources ...Type) *Block {
	subs := map[string]Type{}
	for _, src := range sources {
		if gi, ok := src.(*GenericInstance); ok {
			for k, v := range gi.Bindings {
				subs[k] = v
			}
		}
	}
	if len(subs) == 0 {
		return b
	}
	return b.substitute(subs)
}

// InitializeAs binds method's type parameters in expected according to the
// actual argument type given, returning the updated bindings (spec §4.3
// "initialize_as(given, method, source)"). Only TypeParameter leaves of
// expected are bindable; everything else must already match structurally.
func InitializeAs(expected, given Type, method *Block) map[string]Type {
	bindings := map[string]Type{}
	var walk func(exp, act Type)
	walk = func(exp, act Type) {
		switch e := exp.(type) {
		case *TypeParameter:
			for _, tp := range method.TypeParameters {
				if tp.Name == e.Name {
					bindings[e.Name] = act
					return
				}
			}
		case *Optional:
			if a, ok := act.(*Optional); ok {
				walk(e.Inner, a.Inner)
			} else {
				walk(e.Inner, act)
			}
		case *GenericInstance:
			if a, ok := act.(*GenericInstance); ok {
				for _, name := range e.Order {
					if bound, ok := a.Bindings[name]; ok {
						walk(e.Bindings[name], bound)
					}
				}
			}
		}
	}
	walk(expected, given)
	return bindings
}
