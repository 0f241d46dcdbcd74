package analyzer

import (
	"fmt"

	"github.com/funvibe/finlang/internal/ast"
	"github.com/funvibe/finlang/internal/diagnostics"
	"github.com/funvibe/finlang/internal/symbols"
	"github.com/funvibe/finlang/internal/typesystem"
)

// enforceBans rejects the constructs a bounded program may not use. All
// four walks run so that every violation is reported at once.
func enforceBans(st *state, errs *diagnostics.Errors) {
	banHigherOrderEscapes(st, errs)
	banInvalidPositions(st, errs)
	banSecondDegreeGenerics(st, errs)
	banNestedDefinitions(st, errs)
}

// callSites marks the callee and direct arguments of every call.
func callSites(unit *ast.Unit) (callees, arguments map[ast.Node]bool) {
	callees = make(map[ast.Node]bool)
	arguments = make(map[ast.Node]bool)
	ast.Walk(unit, func(n ast.Node) bool {
		if call, ok := n.(*ast.CallExpression); ok {
			callees[call.Function] = true
			for _, a := range call.Arguments {
				arguments[a] = true
			}
		}
		return true
	})
	return callees, arguments
}

// Function values may be called or passed straight to a call, nothing else:
// they cannot be bound, stored in fields or returned.
func banHigherOrderEscapes(st *state, errs *diagnostics.Errors) {
	callees, arguments := callSites(st.unit)
	ast.Walk(st.unit, func(n ast.Node) bool {
		e, ok := n.(ast.Expression)
		if !ok || callees[n] || arguments[n] {
			return true
		}
		if _, isFn := st.ann.Types[n].(typesystem.FunctionType); isFn {
			errs.Add(diagnostics.NewError(diagnostics.ErrHigherOrderEscape, n.GetToken(), describe(e)))
		}
		return true
	})

	for _, rec := range st.records {
		for _, f := range rec.Decl.Fields {
			if _, isFn := f.Type.(typesystem.FunctionType); isFn {
				errs.Add(diagnostics.NewError(diagnostics.ErrHigherOrderEscape, f.Token, "field "+rec.Name+"."+f.Name))
			}
		}
	}
	for _, fn := range st.functions {
		if _, isFn := fn.Return.(typesystem.FunctionType); isFn {
			errs.Add(diagnostics.NewError(diagnostics.ErrHigherOrderEscape, fn.Token, "return of "+fn.Name))
		}
	}
	ast.Walk(st.unit, func(n ast.Node) bool {
		if le, ok := n.(*ast.LambdaExpression); ok {
			if ft, ok := st.ann.Types[le].(typesystem.FunctionType); ok {
				if _, isFn := ft.Return.(typesystem.FunctionType); isFn {
					errs.Add(diagnostics.NewError(diagnostics.ErrHigherOrderEscape, le.Token, "return of lambda"))
				}
			}
		}
		return true
	})
}

// Returns belong inside functions, magnitudes inside type arguments and
// cost bounds.
func banInvalidPositions(st *state, errs *diagnostics.Errors) {
	ast.Walk(st.unit, func(n ast.Node) bool {
		switch x := n.(type) {
		case *ast.FunctionDeclaration, *ast.LambdaExpression:
			return false
		case *ast.ReturnStatement:
			errs.Add(diagnostics.NewError(diagnostics.ErrInvalidPosition, x.Token, "return outside a function"))
		}
		return true
	})

	valueType := func(t ast.Type) {
		if t == nil {
			return
		}
		if typ := st.ann.Types[t]; typ != nil && typesystem.IsFinType(typ) {
			errs.Add(diagnostics.NewError(diagnostics.ErrInvalidPosition, t.GetToken(), "magnitude "+typ.String()+" as a value type"))
		}
	}
	ast.Walk(st.unit, func(n ast.Node) bool {
		switch x := n.(type) {
		case *ast.Parameter:
			valueType(x.Type)
		case *ast.FieldDeclaration:
			valueType(x.Type)
		case *ast.LetStatement:
			valueType(x.Type)
		case *ast.FunctionDeclaration:
			valueType(x.ReturnType)
		case *ast.LambdaExpression:
			valueType(x.ReturnType)
		case *ast.ListLiteral:
			valueType(x.ElementType)
		case *ast.FunctionTypeExpression:
			for _, p := range x.Params {
				valueType(p)
			}
			valueType(x.Return)
			if x.Cost != nil {
				if typ := st.ann.Types[x.Cost]; typ != nil && !typesystem.IsFinType(typ) && !typesystem.IsError(typ) {
					errs.Add(diagnostics.NewError(diagnostics.ErrInvalidPosition, x.Cost.GetToken(), typ.String()+" as a cost bound"))
				}
			}
		}
		return true
	})
}

// Generics stay first-degree: type parameters take no arguments, generic
// functions are only ever called, and nesting is capped by the
// architecture.
func banSecondDegreeGenerics(st *state, errs *diagnostics.Errors) {
	callees, _ := callSites(st.unit)
	limit := st.arch.MaxGenericDepth
	ast.Walk(st.unit, func(n ast.Node) bool {
		switch x := n.(type) {
		case *ast.NamedType:
			if _, ok := st.ann.Symbols[x].(*symbols.TypeParameter); ok && len(x.Args) > 0 {
				errs.Add(diagnostics.NewError(diagnostics.ErrSecondDegreeGeneric, x.Token, "type parameter "+x.Name()+" applied to arguments"))
			}
		case *ast.Identifier, *ast.MemberExpression:
			if fn, ok := st.ann.Symbols[n].(*symbols.Function); ok && len(fn.TypeParams) > 0 && !callees[n] {
				errs.Add(diagnostics.NewError(diagnostics.ErrSecondDegreeGeneric, n.GetToken(), "generic function "+fn.Name+" used as a value"))
			}
		}
		if typ := st.ann.Types[n]; typ != nil && typesystem.Depth(typ) > limit {
			errs.Add(diagnostics.NewError(diagnostics.ErrSecondDegreeGeneric, n.GetToken(),
				fmt.Sprintf("%s nests generics deeper than %d", typ, limit)))
		}
		return true
	})
}

// Functions and records are declared at the top level only, and a lambda
// cannot contain another lambda.
func banNestedDefinitions(st *state, errs *diagnostics.Errors) {
	for _, stmt := range st.unit.Statements {
		root := ast.Node(stmt)
		ast.Walk(root, func(n ast.Node) bool {
			switch x := n.(type) {
			case *ast.FunctionDeclaration:
				if n != root {
					errs.Add(diagnostics.NewError(diagnostics.ErrNestedDefinition, x.Token, "function "+x.Name.Value))
				}
			case *ast.RecordDeclaration:
				if n != root {
					errs.Add(diagnostics.NewError(diagnostics.ErrNestedDefinition, x.Token, "record "+x.Name.Value))
				}
			case *ast.LambdaExpression:
				if x.Body == nil {
					break
				}
				ast.Walk(x.Body, func(m ast.Node) bool {
					if inner, ok := m.(*ast.LambdaExpression); ok {
						errs.Add(diagnostics.NewError(diagnostics.ErrNestedDefinition, inner.Token, "lambda inside a lambda"))
					}
					return true
				})
			}
			return true
		})
	}
}
