package symbols

import (
	"github.com/funvibe/finlang/internal/ast"
	"github.com/funvibe/finlang/internal/costs"
	"github.com/funvibe/finlang/internal/token"
	"github.com/funvibe/finlang/internal/typesystem"
)

// Symbol is anything a name can be bound to.
type Symbol interface {
	SymbolName() string
	SymbolToken() token.Token
	symbol()
}

// Value is a symbol that can be used as an expression.
type Value interface {
	Symbol
	ValueType() typesystem.Type
}

// TypeDeclaration is a symbol that can be used in type position.
type TypeDeclaration interface {
	Symbol
	TypeParams() []*typesystem.TypeParam
	Instantiate(args []typesystem.Type) typesystem.Type
}

// Namespace is one segment of a dotted namespace path.
type Namespace struct {
	Name  string
	Path  string
	Token token.Token
	Scope ScopeID
}

// Function is a declared or platform function. Platform functions have no
// declaration node and a fixed Cost; a declared function's Cost is filled
// in by the cost pass.
type Function struct {
	Name       string
	Namespace  string
	Token      token.Token
	TypeParams []*typesystem.TypeParam
	Params     []*Parameter
	Return     typesystem.Type
	Decl       *ast.FunctionDeclaration
	Cost       costs.Expression
	Scope      ScopeID
}

// Parameter is a formal parameter binding.
type Parameter struct {
	Name  string
	Token token.Token
	Type  typesystem.Type
}

// Variable is a let or loop binding.
type Variable struct {
	Name    string
	Token   token.Token
	Type    typesystem.Type
	Mutable bool
}

// Record is a user record declaration.
type Record struct {
	Name  string
	Token token.Token
	Decl  *typesystem.RecordDecl
	Node  *ast.RecordDeclaration
	Scope ScopeID
}

// Field is a record field; fields live in their record's scope.
type Field struct {
	Name  string
	Token token.Token
	Type  typesystem.Type
}

// Object is a platform object type.
type Object struct {
	Name string
	Decl *typesystem.ObjectDecl
}

// Method is a platform method resolved through member access.
type Method struct {
	Name  string
	Owner *typesystem.ObjectDecl
	Type  typesystem.FunctionType
}

// PlatformField is a field of a platform object.
type PlatformField struct {
	Name  string
	Owner *typesystem.ObjectDecl
	Type  typesystem.Type
}

// TypeParameter binds a type parameter name inside its declaration.
type TypeParameter struct {
	Param *typesystem.TypeParam
}

// Fin is a concrete magnitude, the closed form of an evaluated cost.
type Fin struct {
	Value uint64
	Token token.Token
}

// BasicType binds a primitive type name.
type BasicType struct {
	Type typesystem.Basic
}

// SumType binds a closed union type name.
type SumType struct {
	Type typesystem.SumType
}

// ErrorSymbol is what a failed resolution yields. It is a value and a type
// of the error type, so analysis continues past it.
type ErrorSymbol struct {
	Name string
}

// Error is the shared error sentinel.
var Error = &ErrorSymbol{}

func (*Namespace) symbol()     {}
func (*Function) symbol()      {}
func (*Parameter) symbol()     {}
func (*Variable) symbol()      {}
func (*Record) symbol()        {}
func (*Field) symbol()         {}
func (*Object) symbol()        {}
func (*Method) symbol()        {}
func (*PlatformField) symbol() {}
func (*TypeParameter) symbol() {}
func (*Fin) symbol()           {}
func (*BasicType) symbol()     {}
func (*SumType) symbol()       {}
func (*ErrorSymbol) symbol()   {}

func (s *Namespace) SymbolName() string     { return s.Name }
func (s *Function) SymbolName() string      { return s.Name }
func (s *Parameter) SymbolName() string     { return s.Name }
func (s *Variable) SymbolName() string      { return s.Name }
func (s *Record) SymbolName() string        { return s.Name }
func (s *Field) SymbolName() string         { return s.Name }
func (s *Object) SymbolName() string        { return s.Name }
func (s *Method) SymbolName() string        { return s.Name }
func (s *PlatformField) SymbolName() string { return s.Name }
func (s *TypeParameter) SymbolName() string { return s.Param.Name }
func (s *Fin) SymbolName() string           { return typesystem.FinType{Value: s.Value}.String() }
func (s *BasicType) SymbolName() string     { return s.Type.Name }
func (s *SumType) SymbolName() string       { return s.Type.Name }
func (s *ErrorSymbol) SymbolName() string   { return s.Name }

func (s *Namespace) SymbolToken() token.Token     { return s.Token }
func (s *Function) SymbolToken() token.Token      { return s.Token }
func (s *Parameter) SymbolToken() token.Token     { return s.Token }
func (s *Variable) SymbolToken() token.Token      { return s.Token }
func (s *Record) SymbolToken() token.Token        { return s.Token }
func (s *Field) SymbolToken() token.Token         { return s.Token }
func (s *Object) SymbolToken() token.Token        { return token.Synthetic }
func (s *Method) SymbolToken() token.Token        { return token.Synthetic }
func (s *PlatformField) SymbolToken() token.Token { return token.Synthetic }
func (s *TypeParameter) SymbolToken() token.Token { return s.Param.Token }
func (s *Fin) SymbolToken() token.Token           { return s.Token }
func (s *BasicType) SymbolToken() token.Token     { return token.Synthetic }
func (s *SumType) SymbolToken() token.Token       { return token.Synthetic }
func (s *ErrorSymbol) SymbolToken() token.Token   { return token.Synthetic }

// IsPlatform reports whether f is supplied by the host rather than declared
// in a unit.
func (f *Function) IsPlatform() bool { return f.Decl == nil }

// QualifiedName is Namespace.Name.
func (f *Function) QualifiedName() string {
	if f.Namespace == "" {
		return f.Name
	}
	return f.Namespace + "." + f.Name
}

// Signature is f's type. Its Cost is whatever the cost pass has computed
// so far.
func (f *Function) Signature() typesystem.FunctionType {
	params := make([]typesystem.Type, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.Type
	}
	ret := f.Return
	if ret == nil {
		ret = typesystem.Unit
	}
	return typesystem.FunctionType{TypeParams: f.TypeParams, Params: params, Return: ret, Cost: f.Cost}
}

func (f *Function) ValueType() typesystem.Type      { return f.Signature() }
func (p *Parameter) ValueType() typesystem.Type     { return orError(p.Type) }
func (v *Variable) ValueType() typesystem.Type      { return orError(v.Type) }
func (f *Field) ValueType() typesystem.Type         { return orError(f.Type) }
func (m *Method) ValueType() typesystem.Type        { return m.Type }
func (f *PlatformField) ValueType() typesystem.Type { return orError(f.Type) }
func (*ErrorSymbol) ValueType() typesystem.Type     { return typesystem.ErrorType{} }

func orError(t typesystem.Type) typesystem.Type {
	if t == nil {
		return typesystem.ErrorType{}
	}
	return t
}

func (r *Record) TypeParams() []*typesystem.TypeParam      { return r.Decl.TypeParams }
func (o *Object) TypeParams() []*typesystem.TypeParam      { return o.Decl.TypeParams }
func (*TypeParameter) TypeParams() []*typesystem.TypeParam { return nil }
func (*BasicType) TypeParams() []*typesystem.TypeParam     { return nil }
func (*SumType) TypeParams() []*typesystem.TypeParam       { return nil }
func (*ErrorSymbol) TypeParams() []*typesystem.TypeParam   { return nil }

func (r *Record) Instantiate(args []typesystem.Type) typesystem.Type {
	return typesystem.RecordType{Decl: r.Decl, Args: args}
}

func (o *Object) Instantiate(args []typesystem.Type) typesystem.Type {
	return typesystem.ObjectType{Decl: o.Decl, Args: args}
}

func (p *TypeParameter) Instantiate([]typesystem.Type) typesystem.Type {
	return typesystem.TypeParamType{Param: p.Param}
}

func (b *BasicType) Instantiate([]typesystem.Type) typesystem.Type { return b.Type }
func (s *SumType) Instantiate([]typesystem.Type) typesystem.Type   { return s.Type }
func (*ErrorSymbol) Instantiate([]typesystem.Type) typesystem.Type { return typesystem.ErrorType{} }

// IsError reports whether s is the resolution-failure sentinel.
func IsError(s Symbol) bool {
	_, ok := s.(*ErrorSymbol)
	return ok
}
