package typesystem

type operatorSignature struct {
	left, right Type
	result      Type
}

var infixOperators = map[string][]operatorSignature{
	"+": {
		{Int, Int, Int},
		{String, String, String},
	},
	"-":  {{Int, Int, Int}},
	"*":  {{Int, Int, Int}},
	"/":  {{Int, Int, Int}},
	"%":  {{Int, Int, Int}},
	"<":  {{Int, Int, Bool}},
	"<=": {{Int, Int, Bool}},
	">":  {{Int, Int, Bool}},
	">=": {{Int, Int, Bool}},
	"==": {
		{Int, Int, Bool},
		{Bool, Bool, Bool},
		{String, String, Bool},
	},
	"!=": {
		{Int, Int, Bool},
		{Bool, Bool, Bool},
		{String, String, Bool},
	},
	"&&": {{Bool, Bool, Bool}},
	"||": {{Bool, Bool, Bool}},
}

var prefixOperators = map[string][]operatorSignature{
	"-": {{right: Int, result: Int}},
	"!": {{right: Bool, result: Bool}},
}

// LookupInfix resolves a binary operator against its operand types.
func LookupInfix(op string, left, right Type) (Type, bool) {
	sigs, ok := infixOperators[op]
	if !ok {
		return ErrorType{}, false
	}
	if IsError(left) || IsError(right) {
		return sigs[0].result, true
	}
	for _, sig := range sigs {
		if Equal(sig.left, left) && Equal(sig.right, right) {
			return sig.result, true
		}
	}
	return ErrorType{}, false
}

// LookupPrefix resolves a unary operator against its operand type.
func LookupPrefix(op string, operand Type) (Type, bool) {
	sigs, ok := prefixOperators[op]
	if !ok {
		return ErrorType{}, false
	}
	if IsError(operand) {
		return sigs[0].result, true
	}
	for _, sig := range sigs {
		if Equal(sig.right, operand) {
			return sig.result, true
		}
	}
	return ErrorType{}, false
}

// IsOperator reports whether op names any known operator.
func IsOperator(op string) bool {
	_, infix := infixOperators[op]
	_, prefix := prefixOperators[op]
	return infix || prefix
}
