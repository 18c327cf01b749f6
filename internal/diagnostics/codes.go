package diagnostics

// Code is a machine-readable diagnostic identifier. Codes are grouped by the
// phase that raises them, mirroring the teacher's PAR###/MOD###/LDR### error
// taxonomy in internal/errors/codes.go.
type Code string

const (
	// Parser errors are produced by the external parser and merely relayed.
	ParseUnexpectedToken Code = "PAR001"
	ParseUnterminated    Code = "PAR002"

	// Import errors (IMP###).
	ImportModuleNotFound   Code = "IMP001"
	ImportDuplicateSymbol  Code = "IMP002"
	ImportUnknownSymbol    Code = "IMP003"
	ImportCycle            Code = "IMP004"

	// Name resolution errors (RES###).
	ResUndefinedLocal       Code = "RES001"
	ResUndefinedAttribute   Code = "RES002"
	ResUndefinedConstant    Code = "RES003"
	ResUndefinedMethod      Code = "RES004"
	ResRedefinedLocal       Code = "RES005"
	ResRedefinedConstant    Code = "RES006"
	ResRedefinedAttribute   Code = "RES007"
	ResReassignImmutable    Code = "RES008"
	ResReassignUndefined    Code = "RES009"

	// Type errors (TYP###).
	TypeIncompatible            Code = "TYP001"
	TypeArgumentCountMismatch   Code = "TYP002"
	TypeTooManyTypeParameters   Code = "TYP003"
	TypeUndefinedKeywordArg     Code = "TYP004"
	TypeUnsupportedCast         Code = "TYP005"
	TypeUnimplementedTrait      Code = "TYP006"
	TypeUnimplementedMethod     Code = "TYP007"
	TypeInvalidTypeParamBound   Code = "TYP008"
	TypeRedefineReservedConst   Code = "TYP009"
	TypeMethodBoundsUnmet       Code = "TYP010"

	// Throw/try errors (TRY###).
	TryMissingTry         Code = "TRY001"
	TryThrowUndeclared    Code = "TRY002"
	TryThrowAtTopLevel    Code = "TRY003"
	TryRedundant          Code = "TRY004" // warning
	TryMissingThrow       Code = "TRY005"
	TryDeclaredNotThrown  Code = "TRY006"

	// Structural errors (STR###).
	StructNotAnObject          Code = "STR001"
	StructExtendNonEmptyTrait  Code = "STR002"
	StructRequiredMethodOnNonTrait Code = "STR003"

	// Lowering / TIR errors (TIR###).
	TIRUnreachableBlock Code = "TIR001" // warning
	TIRUnusedLocal      Code = "TIR002" // warning
)
