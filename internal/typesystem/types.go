package typesystem

import (
	"strconv"
	"strings"

	"github.com/funvibe/finlang/internal/config"
	"github.com/funvibe/finlang/internal/costs"
	"github.com/funvibe/finlang/internal/token"
)

// Type is the interface for all types in our system.
type Type interface {
	String() string
	Apply(Subst) Type
}

// TypeParam is a declared type parameter. A Fin parameter ranges over
// magnitudes rather than types and doubles as a symbolic cost.
type TypeParam struct {
	Name  string
	Fin   bool
	Owner string // declaration that introduced the parameter
	Token token.Token
}

func (p *TypeParam) ParamName() string { return p.Name }

func (p *TypeParam) String() string {
	if p.Fin {
		return p.Name + ": Fin"
	}
	return p.Name
}

// Basic is a primitive type such as Int.
type Basic struct {
	Name string
}

var (
	Int    = Basic{Name: config.IntTypeName}
	Bool   = Basic{Name: config.BoolTypeName}
	String = Basic{Name: config.StringTypeName}
	Unit   = Basic{Name: config.UnitTypeName}
)

func (t Basic) String() string   { return t.Name }
func (t Basic) Apply(Subst) Type { return t }

// FinType is a concrete magnitude used as a type argument.
type FinType struct {
	Value uint64
}

func (t FinType) String() string   { return strconv.FormatUint(t.Value, 10) }
func (t FinType) Apply(Subst) Type { return t }

// TypeParamType is a reference to a type parameter inside a generic body.
type TypeParamType struct {
	Param *TypeParam
}

func (t TypeParamType) String() string { return t.Param.Name }

func (t TypeParamType) Apply(s Subst) Type {
	if repl, ok := s[t.Param]; ok {
		return repl
	}
	return t
}

// IsFin reports whether t stands for a magnitude.
func (t TypeParamType) IsFin() bool { return t.Param != nil && t.Param.Fin }

// FunctionType describes a callable. Cost is the bound on one call; it is
// nil for declared functions until their cost has been computed.
type FunctionType struct {
	TypeParams []*TypeParam
	Params     []Type
	Return     Type
	Cost       costs.Expression
}

func (t FunctionType) String() string {
	var sb strings.Builder
	sb.WriteString("fn")
	if len(t.TypeParams) > 0 {
		names := make([]string, len(t.TypeParams))
		for i, p := range t.TypeParams {
			names[i] = p.String()
		}
		sb.WriteString("<" + strings.Join(names, ", ") + ">")
	}
	sb.WriteString("(" + joinTypes(t.Params) + ")")
	if t.Return != nil {
		sb.WriteString(" -> " + t.Return.String())
	}
	if t.Cost != nil {
		sb.WriteString(" cost " + t.Cost.String())
	}
	return sb.String()
}

func (t FunctionType) Apply(s Subst) Type {
	params := make([]Type, len(t.Params))
	for i, p := range t.Params {
		params[i] = p.Apply(s)
	}
	var ret Type
	if t.Return != nil {
		ret = t.Return.Apply(s)
	}
	var remaining []*TypeParam
	for _, p := range t.TypeParams {
		if _, ok := s[p]; !ok {
			remaining = append(remaining, p)
		}
	}
	return FunctionType{
		TypeParams: remaining,
		Params:     params,
		Return:     ret,
		Cost:       s.ApplyCost(t.Cost),
	}
}

// Field is a named member of a record or object.
type Field struct {
	Name  string
	Type  Type
	Token token.Token
}

// RecordDecl is the single declaration shared by every instance of a user
// record type. Fields are filled in once the record has been scanned.
type RecordDecl struct {
	Name       string
	Namespace  string
	TypeParams []*TypeParam
	Fields     []Field
	Token      token.Token
}

// QualifiedName is Namespace.Name.
func (d *RecordDecl) QualifiedName() string {
	if d.Namespace == "" {
		return d.Name
	}
	return d.Namespace + "." + d.Name
}

// RecordType is a user record, possibly applied to type arguments.
type RecordType struct {
	Decl *RecordDecl
	Args []Type
}

func (t RecordType) String() string { return applied(t.Decl.Name, t.Args) }

func (t RecordType) Apply(s Subst) Type {
	return RecordType{Decl: t.Decl, Args: applyAll(t.Args, s)}
}

// Fields returns the record's fields with the type arguments substituted.
func (t RecordType) Fields() []Field {
	subst := NewSubst(t.Decl.TypeParams, t.Args)
	out := make([]Field, len(t.Decl.Fields))
	for i, f := range t.Decl.Fields {
		out[i] = Field{Name: f.Name, Type: f.Type.Apply(subst), Token: f.Token}
	}
	return out
}

// Field looks a single field up by name.
func (t RecordType) Field(name string) (Type, bool) {
	for _, f := range t.Fields() {
		if f.Name == name {
			return f.Type, true
		}
	}
	return nil, false
}

// Method is a platform method on an object type. Its function type may
// mention the object's type parameters.
type Method struct {
	Name string
	Type FunctionType
}

// ObjectDecl is a platform object type. Element and Bound describe
// iteration: a for-each over the object visits Element at most Bound times.
// Element is nil for objects that cannot be iterated.
type ObjectDecl struct {
	Name       string
	TypeParams []*TypeParam
	Fields     []Field
	Methods    []*Method
	Element    Type
	Bound      *TypeParam
}

// ObjectType is a platform object applied to its type arguments.
type ObjectType struct {
	Decl *ObjectDecl
	Args []Type
}

func (t ObjectType) String() string { return applied(t.Decl.Name, t.Args) }

func (t ObjectType) Apply(s Subst) Type {
	return ObjectType{Decl: t.Decl, Args: applyAll(t.Args, s)}
}

func (t ObjectType) subst() Subst { return NewSubst(t.Decl.TypeParams, t.Args) }

// Field looks up a platform field.
func (t ObjectType) Field(name string) (Type, bool) {
	for _, f := range t.Decl.Fields {
		if f.Name == name {
			return f.Type.Apply(t.subst()), true
		}
	}
	return nil, false
}

// Method looks up a platform method, instantiated for this object.
func (t ObjectType) Method(name string) (FunctionType, bool) {
	for _, m := range t.Decl.Methods {
		if m.Name == name {
			return m.Type.Apply(t.subst()).(FunctionType), true
		}
	}
	return FunctionType{}, false
}

// Iteration returns the element type and the bound of a for-each over t.
func (t ObjectType) Iteration() (element Type, bound Type, ok bool) {
	if t.Decl.Element == nil || t.Decl.Bound == nil {
		return nil, nil, false
	}
	s := t.subst()
	return t.Decl.Element.Apply(s), TypeParamType{Param: t.Decl.Bound}.Apply(s), true
}

// SumType is a closed union of platform types.
type SumType struct {
	Name     string
	Variants []Type
}

func (t SumType) String() string   { return t.Name }
func (t SumType) Apply(Subst) Type { return t }

// ErrorType is the type of anything whose checking already failed. It is
// compatible with everything so that one failure does not cascade.
type ErrorType struct{}

func (ErrorType) String() string   { return "<error>" }
func (ErrorType) Apply(Subst) Type { return ErrorType{} }

// IsError reports whether t is the error type.
func IsError(t Type) bool {
	_, ok := t.(ErrorType)
	return ok
}

// IsFinType reports whether t is a magnitude: a concrete Fin or a Fin
// type parameter.
func IsFinType(t Type) bool {
	switch x := t.(type) {
	case FinType:
		return true
	case TypeParamType:
		return x.IsFin()
	}
	return false
}

// CostOf converts a magnitude type into a cost expression.
func CostOf(t Type) (costs.Expression, bool) {
	switch x := t.(type) {
	case FinType:
		return costs.Fin{Value: x.Value}, true
	case TypeParamType:
		if x.IsFin() {
			return costs.FinTypeParameter{Param: x.Param}, true
		}
	}
	return nil, false
}

// Depth is the generic nesting depth of t: List<List<Int, 2>, 3> has
// depth 2, Int has depth 0.
func Depth(t Type) int {
	var args []Type
	switch x := t.(type) {
	case RecordType:
		args = x.Args
	case ObjectType:
		args = x.Args
	case FunctionType:
		d := 0
		for _, p := range x.Params {
			d = max(d, Depth(p))
		}
		if x.Return != nil {
			d = max(d, Depth(x.Return))
		}
		return d
	default:
		return 0
	}
	if len(args) == 0 {
		return 0
	}
	d := 0
	for _, a := range args {
		d = max(d, Depth(a))
	}
	return d + 1
}

func applied(name string, args []Type) string {
	if len(args) == 0 {
		return name
	}
	return name + "<" + joinTypes(args) + ">"
}

func joinTypes(ts []Type) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		if t == nil {
			parts[i] = "?"
			continue
		}
		parts[i] = t.String()
	}
	return strings.Join(parts, ", ")
}

func applyAll(ts []Type, s Subst) []Type {
	if len(ts) == 0 {
		return nil
	}
	out := make([]Type, len(ts))
	for i, t := range ts {
		out[i] = t.Apply(s)
	}
	return out
}
