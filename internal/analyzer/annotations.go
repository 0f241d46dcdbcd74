package analyzer

import (
	"github.com/funvibe/finlang/internal/ast"
	"github.com/funvibe/finlang/internal/costs"
	"github.com/funvibe/finlang/internal/symbols"
	"github.com/funvibe/finlang/internal/token"
	"github.com/funvibe/finlang/internal/typesystem"
)

// Annotations are the side tables the phases fill in, keyed by AST node.
type Annotations struct {
	// Scopes maps a scope-introducing node to its scope, and every named
	// type node to the scope it is resolved in.
	Scopes map[ast.Node]symbols.ScopeID
	// Symbols maps identifiers, member accesses, named types and
	// declarations to what they denote.
	Symbols map[ast.Node]symbols.Symbol
	// Types holds the type of every expression and type node.
	Types          map[ast.Node]typesystem.Type
	Instantiations map[*ast.CallExpression]*Instantiation
	Applications   []Application
	// Multipliers is the iteration bound of each for-each loop.
	Multipliers map[*ast.ForEachStatement]costs.Expression
	Costs       map[ast.Node]costs.Expression
	// Bounds holds the evaluated cost of functions whose cost is closed,
	// and of the unit itself.
	Bounds      map[ast.Node]*symbols.Fin
	LambdaCosts map[*ast.LambdaExpression]costs.Expression
}

func newAnnotations() *Annotations {
	return &Annotations{
		Scopes:         make(map[ast.Node]symbols.ScopeID),
		Symbols:        make(map[ast.Node]symbols.Symbol),
		Types:          make(map[ast.Node]typesystem.Type),
		Instantiations: make(map[*ast.CallExpression]*Instantiation),
		Multipliers:    make(map[*ast.ForEachStatement]costs.Expression),
		Costs:          make(map[ast.Node]costs.Expression),
		Bounds:         make(map[ast.Node]*symbols.Fin),
		LambdaCosts:    make(map[*ast.LambdaExpression]costs.Expression),
	}
}

// Instantiation records how one call site was resolved. Function is nil
// for calls through a method or a function-typed parameter.
type Instantiation struct {
	Function  *symbols.Function
	Callee    symbols.Symbol
	TypeArgs  []typesystem.Type
	Subst     typesystem.Subst
	Signature typesystem.FunctionType
}

// Application is one place where type arguments meet the parameters of a
// generic declaration. Linearization validates each of them.
type Application struct {
	Token  token.Token
	Owner  string
	Params []*typesystem.TypeParam
	Args   []typesystem.Type
}

// TypeOf is the recorded type of n, or the error type when none was
// recorded.
func (a *Annotations) TypeOf(n ast.Node) typesystem.Type {
	if t, ok := a.Types[n]; ok && t != nil {
		return t
	}
	return typesystem.ErrorType{}
}

// CostOf is the recorded cost of n; unrecorded nodes cost nothing.
func (a *Annotations) CostOf(n ast.Node) costs.Expression {
	if c, ok := a.Costs[n]; ok && c != nil {
		return c
	}
	return costs.Zero
}
