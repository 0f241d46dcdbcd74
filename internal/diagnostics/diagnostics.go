package diagnostics

import (
	"fmt"

	"github.com/funvibe/finlang/internal/token"
)

type ErrorCode string

// Scoping
const (
	ErrIdentifierAlreadyExists     ErrorCode = "S001"
	ErrIdentifierNotFound          ErrorCode = "S002"
	ErrIdentifierCouldNotBeDefined ErrorCode = "S003"
	ErrFilesMustHaveNamespace      ErrorCode = "S004"
	ErrMaskingTypeParameter        ErrorCode = "S005"
	ErrDuplicateTypeParameter      ErrorCode = "S006"
	ErrNotAType                    ErrorCode = "S007"
	ErrNotAValue                   ErrorCode = "S008"
)

// Structural cycles
const (
	ErrRecursiveRecordDetected   ErrorCode = "C001"
	ErrRecursiveFunctionDetected ErrorCode = "C002"
)

// Typing
const (
	ErrTypeMismatch              ErrorCode = "T001"
	ErrArityMismatch             ErrorCode = "T002"
	ErrTypeArgumentArityMismatch ErrorCode = "T003"
	ErrNoMatchingOperator        ErrorCode = "T004"
	ErrInvalidSubstitution       ErrorCode = "T005"
	ErrCannotInferTypeArgument   ErrorCode = "T006"
	ErrNotCallable               ErrorCode = "T007"
	ErrNotMutable                ErrorCode = "T008"
	ErrUnknownMember             ErrorCode = "T009"
	ErrNotIterable               ErrorCode = "T010"
	ErrMissingReturn             ErrorCode = "T011"
	ErrCannotInferType           ErrorCode = "T012"
	ErrMissingField              ErrorCode = "T013"
)

// Feature bans
const (
	ErrHigherOrderEscape   ErrorCode = "B001"
	ErrInvalidPosition     ErrorCode = "B002"
	ErrSecondDegreeGeneric ErrorCode = "B003"
	ErrNestedDefinition    ErrorCode = "B004"
)

// Resource
const (
	ErrCostOverLimit            ErrorCode = "R001"
	ErrCostNotClosed            ErrorCode = "R002"
	ErrFunctionCostExceedsBound ErrorCode = "R003"
)

var errorMessages = map[ErrorCode]string{
	ErrIdentifierAlreadyExists:     "identifier already exists in this scope: %s",
	ErrIdentifierNotFound:          "identifier not found: %s",
	ErrIdentifierCouldNotBeDefined: "identifier could not be defined: %s",
	ErrFilesMustHaveNamespace:      "compilation unit must declare a namespace",
	ErrMaskingTypeParameter:        "parameter %s masks a type parameter of the same name",
	ErrDuplicateTypeParameter:      "duplicate type parameter: %s",
	ErrNotAType:                    "%s does not name a type",
	ErrNotAValue:                   "%s does not name a value",

	ErrRecursiveRecordDetected:   "recursive record detected: %s",
	ErrRecursiveFunctionDetected: "recursive function detected: %s",

	ErrTypeMismatch:              "type mismatch: expected %s, got %s",
	ErrArityMismatch:             "%s expects %d argument(s), got %d",
	ErrTypeArgumentArityMismatch: "%s expects %d type argument(s), got %d",
	ErrNoMatchingOperator:        "no operator %s for %s",
	ErrInvalidSubstitution:       "invalid substitution of %s for type parameter %s",
	ErrCannotInferTypeArgument:   "cannot infer type argument %s of %s",
	ErrNotCallable:               "%s is not callable",
	ErrNotMutable:                "cannot assign to immutable %s",
	ErrUnknownMember:             "%s has no member %s",
	ErrNotIterable:               "%s is not iterable",
	ErrMissingReturn:             "function %s must end with a return",
	ErrCannotInferType:           "cannot infer type of %s",
	ErrMissingField:              "%s is missing field %s",

	ErrHigherOrderEscape:   "function value escapes: %s",
	ErrInvalidPosition:     "%s is not allowed here",
	ErrSecondDegreeGeneric: "second-degree generic: %s",
	ErrNestedDefinition:    "nested definition of %s",

	ErrCostOverLimit:            "cost %d exceeds the limit %d",
	ErrCostNotClosed:            "cost of the unit is not closed: %s",
	ErrFunctionCostExceedsBound: "function argument cost %s exceeds the bound %s",
}

// DiagnosticError is one (context, kind) pair.
type DiagnosticError struct {
	Code    ErrorCode
	Token   token.Token
	File    string
	Message string
}

func NewError(code ErrorCode, tok token.Token, args ...interface{}) *DiagnosticError {
	msg, ok := errorMessages[code]
	if !ok {
		msg = "unknown error"
	}
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	return &DiagnosticError{Code: code, Token: tok, File: tok.File, Message: msg}
}

func (e *DiagnosticError) Error() string {
	return fmt.Sprintf("%s: error [%s]: %s", e.Token.Position(), e.Code, e.Message)
}

// Family names the group an error code belongs to.
func (c ErrorCode) Family() string {
	if c == "" {
		return ""
	}
	switch c[0] {
	case 'S':
		return "scoping"
	case 'C':
		return "cycle"
	case 'T':
		return "typing"
	case 'B':
		return "ban"
	case 'R':
		return "resource"
	}
	return ""
}
