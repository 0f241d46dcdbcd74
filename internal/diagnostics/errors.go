package diagnostics

import (
	"sort"
	"strings"
)

type errorKey struct {
	file    string
	line    int
	column  int
	code    ErrorCode
	message string
}

// Errors accumulates the diagnostics of one phase. Adding an error equal in
// value to one already present is a no-op.
type Errors struct {
	set   map[errorKey]*DiagnosticError
	order []*DiagnosticError
}

func NewErrors() *Errors {
	return &Errors{set: make(map[errorKey]*DiagnosticError)}
}

func (e *Errors) Add(err *DiagnosticError) {
	if err == nil {
		return
	}
	if e.set == nil {
		e.set = make(map[errorKey]*DiagnosticError)
	}
	key := errorKey{
		file:    err.Token.File,
		line:    err.Token.Line,
		column:  err.Token.Column,
		code:    err.Code,
		message: err.Message,
	}
	if _, ok := e.set[key]; ok {
		return
	}
	e.set[key] = err
	e.order = append(e.order, err)
}

func (e *Errors) AddAll(errs []*DiagnosticError) {
	for _, err := range errs {
		e.Add(err)
	}
}

// Merge folds other into e.
func (e *Errors) Merge(other *Errors) {
	if other == nil {
		return
	}
	e.AddAll(other.order)
}

func (e *Errors) Len() int {
	if e == nil {
		return 0
	}
	return len(e.order)
}

// List returns the errors sorted by position, then code.
func (e *Errors) List() []*DiagnosticError {
	if e == nil {
		return nil
	}
	result := make([]*DiagnosticError, len(e.order))
	copy(result, e.order)
	sortErrors(result)
	return result
}

// Has reports whether an error with the given code was recorded.
func (e *Errors) Has(code ErrorCode) bool {
	for _, err := range e.order {
		if err.Code == code {
			return true
		}
	}
	return false
}

// FilterThrow returns the accumulated set as a single aggregate failure, or
// nil when the phase produced no errors.
func (e *Errors) FilterThrow() error {
	if e.Len() == 0 {
		return nil
	}
	return &AggregateError{Errors: e.List()}
}

// AggregateError is the failure of a phase: every error it collected.
type AggregateError struct {
	Phase  string
	Errors []*DiagnosticError
}

func (a *AggregateError) Error() string {
	msgs := make([]string, len(a.Errors))
	for i, err := range a.Errors {
		msgs[i] = err.Error()
	}
	if a.Phase != "" {
		return a.Phase + ": " + strings.Join(msgs, "\n")
	}
	return strings.Join(msgs, "\n")
}

// Has reports whether the aggregate contains an error with the given code.
func (a *AggregateError) Has(code ErrorCode) bool {
	for _, err := range a.Errors {
		if err.Code == code {
			return true
		}
	}
	return false
}

func sortErrors(errs []*DiagnosticError) {
	sort.SliceStable(errs, func(i, j int) bool {
		a, b := errs[i].Token, errs[j].Token
		if a.File != b.File || a.Line != b.Line || a.Column != b.Column {
			return a.Before(b)
		}
		if errs[i].Code != errs[j].Code {
			return errs[i].Code < errs[j].Code
		}
		return errs[i].Message < errs[j].Message
	})
}
