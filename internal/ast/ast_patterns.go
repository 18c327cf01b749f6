package ast

import "fmt"

// Pattern is the sum type of match-arm patterns (spec §4.4 "Match...
// Patterns can be literals, bindings ... wildcards, constants, variants
// ... class shape, tuples, and OR patterns").
type Pattern interface {
	Node
	patternNode()
}

type basePattern struct{ Pos Pos }

func (p *basePattern) Position() Pos { return p.Pos }
func (p *basePattern) patternNode()  {}

// WildcardPattern is `_`.
type WildcardPattern struct{ basePattern }

func (p *WildcardPattern) String() string { return "_" }

// LiteralPattern matches an exact literal value.
type LiteralPattern struct {
	basePattern
	Literal Expr // one of the literal Expr kinds
}

func (p *LiteralPattern) String() string { return p.Literal.String() }

// BindingPattern introduces a new local, scoped to the arm body
// (spec §4.4 "bindings (introducing locals scoped to the arm body)").
type BindingPattern struct {
	basePattern
	Name string
}

func (p *BindingPattern) String() string { return p.Name }

// ConstantPattern matches a named constant (e.g. an enum case with no
// payload).
type ConstantPattern struct {
	basePattern
	Name string
}

func (p *ConstantPattern) String() string { return p.Name }

// VariantPattern matches an enum/variant case and destructures its
// payload, e.g. `Some(x)`.
type VariantPattern struct {
	basePattern
	Name     string
	SubPatterns []Pattern
}

func (p *VariantPattern) String() string { return fmt.Sprintf("%s(...)", p.Name) }

// ShapePattern matches an object's shape by attribute name, e.g.
// `Point { x, y }`.
type ShapePattern struct {
	basePattern
	TypeName string
	Fields   map[string]Pattern
}

func (p *ShapePattern) String() string { return p.TypeName + " { ... }" }

// TuplePattern destructures a fixed-arity tuple.
type TuplePattern struct {
	basePattern
	Elements []Pattern
}

func (p *TuplePattern) String() string { return "(...)" }

// OrPattern matches if any alternative matches. DefineType binds the names
// of every alternative (each typed Any) into the arm's scope; it does not
// check that the alternatives bind the same names or types.
type OrPattern struct {
	basePattern
	Alternatives []Pattern
}

func (p *OrPattern) String() string { return "(pattern | pattern)" }
