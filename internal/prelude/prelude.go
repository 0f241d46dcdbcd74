// Package prelude builds the pre-populated scope of library symbols every
// unit is analysed against.
package prelude

import (
	"github.com/funvibe/finlang/internal/config"
	"github.com/funvibe/finlang/internal/costs"
	"github.com/funvibe/finlang/internal/symbols"
	"github.com/funvibe/finlang/internal/token"
	"github.com/funvibe/finlang/internal/typesystem"
)

// Prelude is a symbol table whose outermost scope holds the built-ins.
// Every unit of one program must share the same Prelude, since its Table is
// the arena all of their scopes live in.
type Prelude struct {
	Table *symbols.Table
	Scope symbols.ScopeID
}

// New creates a fresh prelude.
func New() *Prelude {
	tbl := symbols.NewTable()
	p := &Prelude{Table: tbl, Scope: tbl.NewScope(symbols.ScopePrelude, symbols.NoScope)}
	p.initBuiltins()
	return p
}

func (p *Prelude) define(sym symbols.Symbol) {
	if err := p.Table.Define(p.Scope, sym); err != nil {
		panic("prelude: " + err.Error())
	}
}

func (p *Prelude) initBuiltins() {
	// Basic types
	for _, b := range []typesystem.Basic{typesystem.Int, typesystem.Bool, typesystem.String, typesystem.Unit} {
		p.define(&symbols.BasicType{Type: b})
	}

	scalar := typesystem.SumType{
		Name:     config.ScalarTypeName,
		Variants: []typesystem.Type{typesystem.Int, typesystem.Bool, typesystem.String},
	}
	p.define(&symbols.SumType{Type: scalar})

	list := NewListDecl()
	p.define(&symbols.Object{Name: list.Name, Decl: list})

	unitCost := costs.ConstantFin{}
	p.define(platform(config.TickFuncName, nil, nil, typesystem.Unit, unitCost))
	p.define(platform(config.PrintFuncName, nil,
		[]*symbols.Parameter{param("value", scalar)}, typesystem.Unit, unitCost))
	p.define(platform(config.ToStringFuncName, nil,
		[]*symbols.Parameter{param("value", typesystem.Int)}, typesystem.String, unitCost))

	// range<n: Fin>() -> List<Int, n>, one step per element
	n := finParam(config.RangeFuncName)
	p.define(platform(config.RangeFuncName, []*typesystem.TypeParam{n}, nil,
		ListOf(list, typesystem.Int, typesystem.TypeParamType{Param: n}),
		costs.FinTypeParameter{Param: n}))

	// sum<n: Fin>(xs: List<Int, n>) -> Int, one step per element
	m := finParam(config.SumFuncName)
	p.define(platform(config.SumFuncName, []*typesystem.TypeParam{m},
		[]*symbols.Parameter{param("xs", ListOf(list, typesystem.Int, typesystem.TypeParamType{Param: m}))},
		typesystem.Int, costs.FinTypeParameter{Param: m}))
}

// NewListDecl builds List<T, n: Fin>: at most n elements of type T.
func NewListDecl() *typesystem.ObjectDecl {
	elem := &typesystem.TypeParam{Name: "T", Owner: config.ListTypeName, Token: token.Synthetic}
	bound := &typesystem.TypeParam{Name: "n", Fin: true, Owner: config.ListTypeName, Token: token.Synthetic}
	elemType := typesystem.TypeParamType{Param: elem}
	return &typesystem.ObjectDecl{
		Name:       config.ListTypeName,
		TypeParams: []*typesystem.TypeParam{elem, bound},
		Fields: []typesystem.Field{
			{Name: config.SizeFieldName, Type: typesystem.Int, Token: token.Synthetic},
		},
		Methods: []*typesystem.Method{
			{Name: config.LengthMethodName, Type: typesystem.FunctionType{
				Return: typesystem.Int,
				Cost:   costs.ConstantFin{},
			}},
			{Name: config.GetMethodName, Type: typesystem.FunctionType{
				Params: []typesystem.Type{typesystem.Int},
				Return: elemType,
				Cost:   costs.ConstantFin{},
			}},
		},
		Element: elemType,
		Bound:   bound,
	}
}

// ListOf applies the List declaration.
func ListOf(decl *typesystem.ObjectDecl, elem, bound typesystem.Type) typesystem.ObjectType {
	return typesystem.ObjectType{Decl: decl, Args: []typesystem.Type{elem, bound}}
}

func platform(name string, typeParams []*typesystem.TypeParam, params []*symbols.Parameter, ret typesystem.Type, cost costs.Expression) *symbols.Function {
	return &symbols.Function{
		Name:       name,
		Token:      token.Synthetic,
		TypeParams: typeParams,
		Params:     params,
		Return:     ret,
		Cost:       cost,
		Scope:      symbols.NoScope,
	}
}

func param(name string, t typesystem.Type) *symbols.Parameter {
	return &symbols.Parameter{Name: name, Token: token.Synthetic, Type: t}
}

func finParam(owner string) *typesystem.TypeParam {
	return &typesystem.TypeParam{Name: "n", Fin: true, Owner: owner, Token: token.Synthetic}
}
