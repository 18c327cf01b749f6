package tir

import "github.com/inko-lang/inko/internal/diagnostics"

// Opcode names the instruction kind. Fixed-arity opcodes are grouped by
// operand count (spec §6 "nullary(1), unary(2), binary(3), ternary(4),
// quaternary(5), quinary(6)" — the count includes the opcode slot
// itself); everything below that line is a specialized variable-arity
// form the spec names explicitly.
type Opcode string

const (
	// Fixed-arity forms, grouped by arity for documentation; the code
	// generator (internal/pass's CodeGeneration) is the only place arity
	// actually matters, when it flattens operands into a stream.
	OpGetLocal       Opcode = "GetLocal"       // binary: dst, symbol
	OpSetLocal       Opcode = "SetLocal"       // binary: symbol, value
	OpGetParentLocal Opcode = "GetParentLocal" // ternary: dst, depth, symbol
	OpSetParentLocal Opcode = "SetParentLocal" // ternary: symbol, depth, value
	OpGetAttribute   Opcode = "GetAttribute"   // ternary: dst, receiver, name
	OpSetAttribute   Opcode = "SetAttribute"   // ternary: receiver, name, value
	OpGetGlobal      Opcode = "GetGlobal"      // binary: dst, name
	OpSetGlobal      Opcode = "SetGlobal"      // binary: name, value
	OpLoadModule     Opcode = "LoadModule"     // binary: dst, path
	OpLocalExists    Opcode = "LocalExists"    // binary: dst, symbol
	OpCopyBlocks     Opcode = "CopyBlocks"     // binary: dst, source

	// Specialized / variable-arity forms named in spec §6.
	OpSetLiteral     Opcode = "SetLiteral"
	OpSetLiteralWide Opcode = "SetLiteralWide"
	OpSetArray       Opcode = "SetArray"
	OpSetBlock       Opcode = "SetBlock"
	OpSetObject      Opcode = "SetObject"
	OpRunBlock       Opcode = "RunBlock"
	OpRunBlockWithReceiver Opcode = "RunBlockWithReceiver"
	OpTailCall       Opcode = "TailCall"
	OpReturn         Opcode = "Return"
	OpThrow          Opcode = "Throw"
	OpGoto           Opcode = "Goto"
	OpGotoIfTrue     Opcode = "GotoIfTrue"
	OpSkipNextBlock  Opcode = "SkipNextBlock"
	OpPanic          Opcode = "Panic"
	OpExit           Opcode = "Exit"
	OpProcessSuspendCurrent   Opcode = "ProcessSuspendCurrent"
	OpProcessTerminateCurrent Opcode = "ProcessTerminateCurrent"
)

// OperandKind distinguishes what an Operand refers to.
type OperandKind int

const (
	OperandRegister OperandKind = iota
	OperandSymbolIndex
	OperandConstant
	OperandBlockName // refers to a BasicBlock by name, resolved to an offset at code-gen time
)

// Operand is one entry in an Instruction's ordered operand list (spec §3
// "an ordered list of operand references (registers, symbol indexes,
// inline constants, location)").
type Operand struct {
	Kind     OperandKind
	Register Register
	Symbol   int
	Constant interface{}
	Block    string
}

func RegOperand(r Register) Operand        { return Operand{Kind: OperandRegister, Register: r} }
func SymOperand(index int) Operand         { return Operand{Kind: OperandSymbolIndex, Symbol: index} }
func ConstOperand(v interface{}) Operand   { return Operand{Kind: OperandConstant, Constant: v} }
func BlockOperand(name string) Operand     { return Operand{Kind: OperandBlockName, Block: name} }

// Instruction is a tagged operation: an opcode plus its ordered operands
// and the source location it lowers from, for diagnostics that survive
// into the runtime (spec §3 "Instruction").
type Instruction struct {
	Opcode   Opcode
	Operands []Operand
	Location diagnostics.Location
}

func NewInstruction(loc diagnostics.Location, op Opcode, operands ...Operand) Instruction {
	return Instruction{Opcode: op, Operands: operands, Location: loc}
}

// IsTerminator reports whether this instruction ends a BasicBlock's
// straight-line run (spec GLOSSARY "Basic block").
func (i Instruction) IsTerminator() bool {
	switch i.Opcode {
	case OpReturn, OpThrow, OpGoto, OpSkipNextBlock, OpTailCall, OpPanic, OpExit:
		return true
	default:
		return false
	}
}
