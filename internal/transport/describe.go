// Package transport converts checked types and signatures into a closed,
// serializable form for hosts on the other side of a process boundary.
package transport

import (
	"github.com/funvibe/finlang/internal/costs"
	"github.com/funvibe/finlang/internal/typesystem"
)

// TypeDescription is the public view of a type. The set of variants is
// closed: Basic, Function, Record, Parameterized, Sum, FinBound,
// TypeParameter and NonPublic.
type TypeDescription interface {
	Kind() string
	typeDescription()
}

const (
	KindBasic         = "basic"
	KindFunction      = "function"
	KindRecord        = "record"
	KindParameterized = "parameterized"
	KindSum           = "sum"
	KindFinBound      = "fin"
	KindTypeParameter = "type_parameter"
	KindNonPublic     = "non_public"
)

type Basic struct {
	Name string
}

type Function struct {
	TypeParams []TypeParameter
	Params     []TypeDescription
	Return     TypeDescription
	Cost       *CostDescription
}

// Record is a user record without type parameters. A record met again
// while its own fields are being described is emitted without fields.
type Record struct {
	Name   string
	Fields []FieldDescription
}

// Parameterized is a record or platform object applied to type arguments.
type Parameterized struct {
	Name   string
	Args   []TypeDescription
	Fields []FieldDescription
}

type Sum struct {
	Name     string
	Variants []TypeDescription
}

type FinBound struct {
	Value uint64
}

type TypeParameter struct {
	Name string
	Fin  bool
}

// NonPublic stands for anything internal to the checker, such as the error
// type, which hosts never see.
type NonPublic struct{}

type FieldDescription struct {
	Name string
	Type TypeDescription
}

func (Basic) Kind() string         { return KindBasic }
func (Function) Kind() string      { return KindFunction }
func (Record) Kind() string        { return KindRecord }
func (Parameterized) Kind() string { return KindParameterized }
func (Sum) Kind() string           { return KindSum }
func (FinBound) Kind() string      { return KindFinBound }
func (TypeParameter) Kind() string { return KindTypeParameter }
func (NonPublic) Kind() string     { return KindNonPublic }

func (Basic) typeDescription()         {}
func (Function) typeDescription()      {}
func (Record) typeDescription()        {}
func (Parameterized) typeDescription() {}
func (Sum) typeDescription()           {}
func (FinBound) typeDescription()      {}
func (TypeParameter) typeDescription() {}
func (NonPublic) typeDescription()     {}

// CostDescription mirrors a cost expression. Kind is one of const, fin,
// param, sum, product and max; Value is set for fin, Param for param and
// Terms for the three combinators.
type CostDescription struct {
	Kind  string
	Value uint64
	Param string
	Terms []*CostDescription
}

const (
	CostConstant = "const"
	CostFin      = "fin"
	CostParam    = "param"
	CostSum      = "sum"
	CostProduct  = "product"
	CostMax      = "max"
)

// Describe converts t. A nil type is NonPublic.
func Describe(t typesystem.Type) TypeDescription {
	d := &describer{open: make(map[*typesystem.RecordDecl]bool)}
	return d.describe(t)
}

type describer struct {
	// records whose fields are being described
	open map[*typesystem.RecordDecl]bool
}

func (d *describer) describe(t typesystem.Type) TypeDescription {
	switch x := t.(type) {
	case typesystem.Basic:
		return Basic{Name: x.Name}
	case typesystem.FinType:
		return FinBound{Value: x.Value}
	case typesystem.TypeParamType:
		if x.Param == nil {
			return NonPublic{}
		}
		return TypeParameter{Name: x.Param.Name, Fin: x.Param.Fin}
	case typesystem.FunctionType:
		return d.function(x)
	case typesystem.RecordType:
		return d.record(x)
	case typesystem.ObjectType:
		p := Parameterized{Name: x.Decl.Name, Args: d.all(x.Args)}
		for _, f := range x.Decl.Fields {
			ft, _ := x.Field(f.Name)
			p.Fields = append(p.Fields, FieldDescription{Name: f.Name, Type: d.describe(ft)})
		}
		return p
	case typesystem.SumType:
		return Sum{Name: x.Name, Variants: d.all(x.Variants)}
	}
	return NonPublic{}
}

func (d *describer) all(ts []typesystem.Type) []TypeDescription {
	out := make([]TypeDescription, len(ts))
	for i, t := range ts {
		out[i] = d.describe(t)
	}
	return out
}

func (d *describer) function(ft typesystem.FunctionType) Function {
	f := Function{
		TypeParams: describeParams(ft.TypeParams),
		Params:     d.all(ft.Params),
		Return:     d.describe(ft.Return),
		Cost:       DescribeCost(ft.Cost),
	}
	if ft.Return == nil {
		f.Return = Basic{Name: typesystem.Unit.Name}
	}
	return f
}

func (d *describer) record(rt typesystem.RecordType) TypeDescription {
	name := rt.Decl.QualifiedName()
	var fields []FieldDescription
	if !d.open[rt.Decl] {
		d.open[rt.Decl] = true
		for _, f := range rt.Fields() {
			fields = append(fields, FieldDescription{Name: f.Name, Type: d.describe(f.Type)})
		}
		delete(d.open, rt.Decl)
	}
	if len(rt.Args) == 0 {
		return Record{Name: name, Fields: fields}
	}
	return Parameterized{Name: name, Args: d.all(rt.Args), Fields: fields}
}

func describeParams(ps []*typesystem.TypeParam) []TypeParameter {
	if len(ps) == 0 {
		return nil
	}
	out := make([]TypeParameter, len(ps))
	for i, p := range ps {
		out[i] = TypeParameter{Name: p.Name, Fin: p.Fin}
	}
	return out
}

// DescribeCost converts a cost expression. A nil expression has no
// description.
func DescribeCost(e costs.Expression) *CostDescription {
	switch x := e.(type) {
	case costs.ConstantFin:
		return &CostDescription{Kind: CostConstant}
	case costs.Fin:
		return &CostDescription{Kind: CostFin, Value: x.Value}
	case costs.FinTypeParameter:
		return &CostDescription{Kind: CostParam, Param: x.String()}
	case costs.Sum:
		return &CostDescription{Kind: CostSum, Terms: describeTerms(x.Terms)}
	case costs.Product:
		return &CostDescription{Kind: CostProduct, Terms: describeTerms(x.Factors)}
	case costs.Max:
		return &CostDescription{Kind: CostMax, Terms: describeTerms(x.Options)}
	}
	return nil
}

func describeTerms(es []costs.Expression) []*CostDescription {
	out := make([]*CostDescription, 0, len(es))
	for _, e := range es {
		if c := DescribeCost(e); c != nil {
			out = append(out, c)
		}
	}
	return out
}
