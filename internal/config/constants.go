package config

// Version is reported by finc -version.
const Version = "0.3.0"

const UnitFileExt = ".yaml"

// UnitFileExtensions are all recognized encoded-unit file extensions
var UnitFileExtensions = []string{".yaml", ".yml"}

// Built-in function names
const (
	TickFuncName     = "tick"
	PrintFuncName    = "print"
	ToStringFuncName = "toString"
	RangeFuncName    = "range"
	SumFuncName      = "sum"
)

// Built-in type names
const (
	IntTypeName    = "Int"
	BoolTypeName   = "Bool"
	StringTypeName = "String"
	UnitTypeName   = "Unit"
	ScalarTypeName = "Scalar"
	ListTypeName   = "List"
)

// Built-in member names
const (
	LengthMethodName = "length"
	GetMethodName    = "get"
	SizeFieldName    = "size"
)

// Defaults for an Architecture that leaves a limit unset.
const (
	DefaultCostCeiling     uint64 = 1_000_000
	DefaultMaxGenericDepth        = 3
)
