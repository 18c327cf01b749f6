// Package ast defines the tree shape produced by the external parser and
// enriched in place by the compiler's passes (spec §3 "AST": "each node
// carries a source location and may be decorated with resolved semantic
// info during passes").
//
// Most passes only fill in the exported "resolved *" fields (Type, Depth,
// SymIndex, ReceiverType, ...). A few also rewrite the tree: ConfigureModule
// strips pragma nodes, Hoisting reorders bodies, and the desugaring passes
// add, wrap or default nodes.
package ast

import (
	"fmt"

	"github.com/inko-lang/inko/internal/typesystem"
)

// Pos is a source location, matching diagnostics.Location's shape so the
// two packages can convert between them trivially without an import cycle
// (ast has no dependency on diagnostics).
type Pos struct {
	File   string
	Line   int
	Column int
}

func (p Pos) String() string { return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column) }

// Node is the base interface every AST node satisfies.
type Node interface {
	Position() Pos
	String() string
}

// Expr is any node usable in expression position; almost every node in
// this language is an expression (spec: "Never... compose inside
// conditional expressions").
type Expr interface {
	Node
	exprNode()
}

// base is embedded by every concrete node to provide Position() and to
// hold the single resolved-type decoration common to all expressions.
type base struct {
	Pos  Pos
	Type typesystem.Type // set by DefineType; nil until then
}

func (b *base) Position() Pos { return b.Pos }
func (b *base) exprNode()     {}

// ---- Literals ---------------------------------------------------------

type IntLiteral struct {
	base
	Value int64
}

func (n *IntLiteral) String() string { return fmt.Sprintf("%d", n.Value) }

type FloatLiteral struct {
	base
	Value float64
}

func (n *FloatLiteral) String() string { return fmt.Sprintf("%g", n.Value) }

type StringLiteral struct {
	base
	Value string
}

func (n *StringLiteral) String() string { return fmt.Sprintf("%q", n.Value) }

type BoolLiteral struct {
	base
	Value bool
}

func (n *BoolLiteral) String() string { return fmt.Sprintf("%t", n.Value) }

type NilLiteral struct{ base }

func (n *NilLiteral) String() string { return "Nil" }

// ---- Names -------------------------------------------------------------

// Identifier is an unqualified name reference. Once resolved by
// DefineType, Depth and SymIndex describe where it was found: a local
// (Depth >= 0, SymIndex set), or a zero-argument method/global send
// (Depth == -1; DefineType records only the send's result Type, and
// GenerateTir rebuilds the send when lowering).
type Identifier struct {
	base
	Name     string
	Depth    int // local lookup depth (>0 means captured); -1 when it resolved to a send
	SymIndex int // index into the owning SymbolTable once resolved
}

func (n *Identifier) String() string { return n.Name }

// Constant is an uppercase-leading name resolved via the enclosing self
// type's attribute chain, then module globals (spec §4.4 "Constants /
// globals").
type Constant struct {
	base
	Name string
}

func (n *Constant) String() string { return n.Name }

// Self is the `self` receiver expression.
type Self struct{ base }

func (n *Self) String() string { return "self" }

// Attribute is a `@name` read.
type Attribute struct {
	base
	Name string
}

func (n *Attribute) String() string { return "@" + n.Name }

// ---- Bindings -----------------------------------------------------------

// DefineVariable is a `let`/`let mut` local binding.
type DefineVariable struct {
	base
	Name      string
	Mutable   bool
	ValueType Expr // optional explicit type annotation (a TypeName), nil if inferred
	Value     Expr
	SymIndex  int // index into the owning SymbolTable, set by DefineType
}

func (n *DefineVariable) String() string { return fmt.Sprintf("let %s = %s", n.Name, n.Value) }

// DefineArgument is one formal parameter of a Method/Block/Lambda.
type DefineArgument struct {
	base
	Name       string
	Annotation Expr // optional TypeName
	Default    Expr // optional default value expression
	Rest       bool
	Keyword    bool
	SymIndex   int // index into the owning SymbolTable, set by DefineType
}

func (n *DefineArgument) String() string { return n.Name }

// ---- Control flow ---------------------------------------------------------

type Return struct {
	base
	Value Expr // nil for bare `return`
}

func (n *Return) String() string { return "return" }

type Throw struct {
	base
	Value Expr
}

func (n *Throw) String() string { return "throw " + n.Value.String() }

// Try wraps a body and an optional TryElse handler. When Else is nil the
// throw type propagates to the enclosing block (spec §4.4 "Try / try-else
// ... Without else").
type Try struct {
	base
	Body Expr
	Else *TryElse
}

func (n *Try) String() string { return "try " + n.Body.String() }

// TryElse is the implicit else-handler node the parser (or DesugarObject-
// adjacent desugaring) always attaches when source writes `else`. ElseArg
// is nil for a bare `else { ... }` with no bound caught value.
type TryElse struct {
	base
	ElseArg       *DefineArgument   // nil if the else body does not bind the caught value
	Body          Expr
	ElseBlockType *typesystem.Block // set by DefineType: the synthesized else-handler code object's type
}

func (n *TryElse) String() string { return "else " + n.Body.String() }

// ---- Sends -----------------------------------------------------------

// Send is a message send: receiver.name(args), or a bare name/operator
// send with an implicit receiver (spec §4.4 "Send").
type Send struct {
	base
	Receiver      Expr // nil for an implicit-receiver send (self or module)
	Name          string
	Arguments     []Expr
	KeywordNames  []string // parallel to Arguments; "" for positional
	TypeArguments []Expr   // explicit generic type arguments, e.g. foo::<Int>()

	ReceiverType   typesystem.Type   // resolved receiver type
	ResolvedMethod *typesystem.Block // resolved method signature (post instantiation)
	ThrowType      typesystem.Type   // resolved throw type of this call, if any
}

func (n *Send) String() string {
	if n.Receiver != nil {
		return fmt.Sprintf("%s.%s(...)", n.Receiver, n.Name)
	}
	return fmt.Sprintf("%s(...)", n.Name)
}

// ---- Blocks/lambdas/methods -----------------------------------------------

// Body is a sequence of expressions executed for value (the last one is
// the body's result), used for module bodies and any `{ ... }` block.
type Body struct {
	base
	Expressions []Expr
}

func (n *Body) String() string { return fmt.Sprintf("{ %d exprs }", len(n.Expressions)) }

// Block is a closure literal: `fn (args) { body }` with implicit capture
// of enclosing locals (spec §3 "Block").
type Block struct {
	base
	Arguments  []*DefineArgument
	ReturnType Expr // optional TypeName
	ThrowType  Expr // optional TypeName after `!!`
	Body       *Body

	BlockType *typesystem.Block // resolved by DefineType
}

func (n *Block) String() string { return "fn (...) { ... }" }

// Lambda is a `lambda (args) { body }` literal: its self type is always
// the module's type, never the enclosing object (spec §4.4).
type Lambda struct {
	base
	Arguments  []*DefineArgument
	ReturnType Expr
	ThrowType  Expr
	Body       *Body

	BlockType *typesystem.Block
}

func (n *Lambda) String() string { return "lambda (...) { ... }" }

// Method is a named method/function declaration, either module-scope or
// attached to an Object/Trait body.
type Method struct {
	base
	Name           string
	TypeParameters []*TypeParamDecl
	Arguments      []*DefineArgument
	ReturnType     Expr
	ThrowType      Expr
	MethodBounds   []*TypeParamDecl
	Body           *Body
	IsStatic       bool // `def static` / `new` synthesized constructors

	MethodType *typesystem.Block // resolved by DefineType
}

func (n *Method) String() string { return "fn " + n.Name }

// TypeParamDecl is a declared generic parameter, e.g. `A: ToString + Eq`.
type TypeParamDecl struct {
	base
	Name           string
	RequiredTraits []string
	Mutable        bool
}

func (n *TypeParamDecl) String() string { return n.Name }

// ---- Types (object/trait/impl) --------------------------------------------

// Object is a nominal type declaration.
type Object struct {
	base
	Name           string
	TypeParameters []*TypeParamDecl
	Body           []Node // Method, DefineVariable (attribute), Object (nested), etc.

	ObjectType *typesystem.Object // resolved by DefineTypeSignatures
}

func (n *Object) String() string { return "object " + n.Name }

// Trait is a trait declaration.
type Trait struct {
	base
	Name           string
	TypeParameters []*TypeParamDecl
	Body           []Node // Method (required, no body = required; with body = default)

	TraitType *typesystem.Trait
}

func (n *Trait) String() string { return "trait " + n.Name }

// TraitImplementation is `impl Trait for Type { ... }`.
type TraitImplementation struct {
	base
	TraitName string
	ForName   string
	TypeArgs  []Expr
	Body      []Node // Method overrides
}

func (n *TraitImplementation) String() string {
	return fmt.Sprintf("impl %s for %s", n.TraitName, n.ForName)
}

// ReopenObject is `impl Type { ... }` (no trait named): adds methods
// directly to an existing object.
type ReopenObject struct {
	base
	ForName string
	Body    []Node
}

func (n *ReopenObject) String() string { return "impl " + n.ForName }

// ---- Imports -----------------------------------------------------------

type Import struct {
	base
	ModulePath []string // e.g. ["std", "string"]
	Symbols    []ImportedSymbol
	Glob       bool   // `import std.foo.*`
	SelfAlias  string // `import std.foo self` or implicit self-import
}

func (n *Import) String() string { return "import " + joinDots(n.ModulePath) }

// ImportedSymbol is one `(name)` or `(name as alias)` entry.
type ImportedSymbol struct {
	Name  string
	Alias string // equals Name if no alias given
}

func joinDots(path []string) string {
	out := ""
	for i, p := range path {
		if i > 0 {
			out += "."
		}
		out += p
	}
	return out
}

// ---- Type expressions -----------------------------------------------------

// TypeName is a syntactic type reference, e.g. `Int`, `Array[Int]`,
// `?String`, `Self`.
type TypeName struct {
	base
	Name     string
	Args     []*TypeName
	Optional bool
	IsSelf   bool
}

func (n *TypeName) String() string { return n.Name }

// TypeCast is `value as Type`.
type TypeCast struct {
	base
	Value  Expr
	Target *TypeName
}

func (n *TypeCast) String() string { return n.Value.String() + " as " + n.Target.String() }

// RawInstruction passes an opcode straight through to TIR generation,
// bypassing normal send dispatch (spec §3 "RawInstruction").
type RawInstruction struct {
	base
	Opcode    string
	Arguments []Expr
}

func (n *RawInstruction) String() string { return "_RAW." + n.Opcode }

// ---- File ---------------------------------------------------------------

// File is the root of one parsed source file: an ordered top-level body
// plus the imports SourceToAst's external parser recognized syntactically
// (CollectImports later copies these onto the Module; Body does not hold
// them).
type File struct {
	Path    string
	Imports []*Import
	Body    *Body
}

func (n *File) Position() Pos {
	if n.Body != nil {
		return n.Body.Position()
	}
	return Pos{File: n.Path, Line: 1, Column: 1}
}

func (n *File) String() string { return "file " + n.Path }

// ---- Match -----------------------------------------------------------

// Match is a pattern match expression.
type Match struct {
	base
	Scrutinee Expr
	Arms      []*MatchArm
}

func (n *Match) String() string { return "match " + n.Scrutinee.String() }

// MatchArm is one `pattern [if guard] -> body` arm.
type MatchArm struct {
	Pattern Pattern
	Guard   Expr // optional, must type to Boolean
	Body    Expr
}

func (n *MatchArm) String() string { return n.Pattern.String() + " -> ..." }
