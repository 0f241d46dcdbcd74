package typesystem

import (
	"testing"

	"github.com/funvibe/finlang/internal/costs"
)

func listDecl() *ObjectDecl {
	elem := &TypeParam{Name: "T", Owner: "List"}
	n := &TypeParam{Name: "n", Fin: true, Owner: "List"}
	return &ObjectDecl{
		Name:       "List",
		TypeParams: []*TypeParam{elem, n},
		Fields:     []Field{{Name: "size", Type: Int}},
		Methods: []*Method{
			{Name: "get", Type: FunctionType{Params: []Type{Int}, Return: TypeParamType{Param: elem}, Cost: costs.ConstantFin{}}},
		},
		Element: TypeParamType{Param: elem},
		Bound:   n,
	}
}

func TestSubstitutionRewritesCosts(t *testing.T) {
	n := &TypeParam{Name: "n", Fin: true}
	fn := FunctionType{
		TypeParams: []*TypeParam{n},
		Return:     Unit,
		Cost:       costs.NewProduct(costs.FinTypeParameter{Param: n}, costs.ConstantFin{}),
	}

	inst := fn.Apply(NewSubst([]*TypeParam{n}, []Type{FinType{Value: 7}})).(FunctionType)
	if len(inst.TypeParams) != 0 {
		t.Errorf("instantiated function still has type params %v", inst.TypeParams)
	}
	v, ok := costs.Evaluate(inst.Cost)
	if !ok || v != 7 {
		t.Errorf("cost = %v (closed %v), want 7", v, ok)
	}

	m := &TypeParam{Name: "m", Fin: true}
	renamed := fn.Apply(Subst{n: TypeParamType{Param: m}}).(FunctionType)
	params := costs.Params(renamed.Cost)
	if len(params) != 1 || params[0] != costs.Param(m) {
		t.Errorf("expected cost to depend on m, got %s", renamed.Cost)
	}
}

func TestObjectMembers(t *testing.T) {
	decl := listDecl()
	list := ObjectType{Decl: decl, Args: []Type{String, FinType{Value: 3}}}

	if got := list.String(); got != "List<String, 3>" {
		t.Errorf("String() = %q", got)
	}
	get, ok := list.Method("get")
	if !ok {
		t.Fatal("get not found")
	}
	if !Equal(get.Return, String) {
		t.Errorf("get returns %s, want String", get.Return)
	}
	elem, bound, ok := list.Iteration()
	if !ok || !Equal(elem, String) || !Equal(bound, FinType{Value: 3}) {
		t.Errorf("Iteration() = %v, %v, %v", elem, bound, ok)
	}
	if _, ok := list.Field("size"); !ok {
		t.Error("size not found")
	}
	if _, ok := list.Method("push"); ok {
		t.Error("push should not exist")
	}
}

func TestRecordFieldsSubstituted(t *testing.T) {
	tp := &TypeParam{Name: "T"}
	decl := &RecordDecl{
		Name:       "Box",
		TypeParams: []*TypeParam{tp},
		Fields:     []Field{{Name: "value", Type: TypeParamType{Param: tp}}},
	}
	box := RecordType{Decl: decl, Args: []Type{Bool}}
	ft, ok := box.Field("value")
	if !ok || !Equal(ft, Bool) {
		t.Errorf("Field(value) = %v, %v", ft, ok)
	}
}

func TestAssignable(t *testing.T) {
	decl := listDecl()
	list := func(elem Type, n uint64) Type {
		return ObjectType{Decl: decl, Args: []Type{elem, FinType{Value: n}}}
	}
	scalar := SumType{Name: "Scalar", Variants: []Type{Int, Bool, String}}

	tests := []struct {
		name           string
		target, source Type
		want           bool
	}{
		{"identity", Int, Int, true},
		{"basic mismatch", Int, Bool, false},
		{"error absorbs target", ErrorType{}, Int, true},
		{"error absorbs source", Int, ErrorType{}, true},
		{"sum member", scalar, String, true},
		{"sum non member", scalar, Unit, false},
		{"smaller bound fits", list(Int, 10), list(Int, 5), true},
		{"larger bound does not fit", list(Int, 5), list(Int, 10), false},
		{"element invariant", list(scalar, 5), list(Int, 5), false},
		{"fin le", FinType{Value: 4}, FinType{Value: 4}, true},
		{"fin gt", FinType{Value: 4}, FinType{Value: 5}, false},
		{"function", FunctionType{Params: []Type{Int}, Return: Int}, FunctionType{Params: []Type{Int}, Return: Int}, true},
		{"function arity", FunctionType{Params: []Type{Int}, Return: Int}, FunctionType{Return: Int}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Assignable(tt.target, tt.source); got != tt.want {
				t.Errorf("Assignable(%s, %s) = %v, want %v", tt.target, tt.source, got, tt.want)
			}
		})
	}
}

func TestUnifyFinTakesMaximum(t *testing.T) {
	decl := listDecl()
	n := &TypeParam{Name: "n", Fin: true}
	param := ObjectType{Decl: decl, Args: []Type{Int, TypeParamType{Param: n}}}

	bindings := Subst{}
	Unify(param, ObjectType{Decl: decl, Args: []Type{Int, FinType{Value: 3}}}, []*TypeParam{n}, bindings)
	Unify(param, ObjectType{Decl: decl, Args: []Type{Int, FinType{Value: 9}}}, []*TypeParam{n}, bindings)
	Unify(param, ObjectType{Decl: decl, Args: []Type{Int, FinType{Value: 4}}}, []*TypeParam{n}, bindings)

	if !Equal(bindings[n], FinType{Value: 9}) {
		t.Errorf("n bound to %v, want 9", bindings[n])
	}
}

func TestUnifyStandardKeepsFirst(t *testing.T) {
	tp := &TypeParam{Name: "T"}
	bindings := Subst{}
	Unify(TypeParamType{Param: tp}, Int, []*TypeParam{tp}, bindings)
	Unify(TypeParamType{Param: tp}, Bool, []*TypeParam{tp}, bindings)
	if !Equal(bindings[tp], Int) {
		t.Errorf("T bound to %v, want Int", bindings[tp])
	}

	other := &TypeParam{Name: "U"}
	Unify(TypeParamType{Param: other}, Int, []*TypeParam{tp}, bindings)
	if _, ok := bindings[other]; ok {
		t.Error("parameter that is not free must not be bound")
	}
}

func TestCheckArgument(t *testing.T) {
	n := &TypeParam{Name: "n", Fin: true}
	tp := &TypeParam{Name: "T"}
	m := &TypeParam{Name: "m", Fin: true}

	tests := []struct {
		param *TypeParam
		arg   Type
		want  bool
	}{
		{n, FinType{Value: 1}, true},
		{n, TypeParamType{Param: m}, true},
		{n, Int, false},
		{tp, Int, true},
		{tp, FinType{Value: 1}, false},
		{tp, TypeParamType{Param: m}, false},
		{tp, FunctionType{Return: Int}, false},
		{tp, ErrorType{}, true},
	}
	for _, tt := range tests {
		if got := CheckArgument(tt.param, tt.arg); got != tt.want {
			t.Errorf("CheckArgument(%s, %s) = %v, want %v", tt.param, tt.arg, got, tt.want)
		}
	}
}

func TestDepth(t *testing.T) {
	decl := listDecl()
	inner := ObjectType{Decl: decl, Args: []Type{Int, FinType{Value: 2}}}
	outer := ObjectType{Decl: decl, Args: []Type{inner, FinType{Value: 3}}}
	if d := Depth(Int); d != 0 {
		t.Errorf("Depth(Int) = %d", d)
	}
	if d := Depth(inner); d != 1 {
		t.Errorf("Depth(inner) = %d", d)
	}
	if d := Depth(outer); d != 2 {
		t.Errorf("Depth(outer) = %d", d)
	}
}

func TestOperators(t *testing.T) {
	if r, ok := LookupInfix("+", Int, Int); !ok || !Equal(r, Int) {
		t.Errorf("Int + Int = %v, %v", r, ok)
	}
	if r, ok := LookupInfix("+", String, String); !ok || !Equal(r, String) {
		t.Errorf("String + String = %v, %v", r, ok)
	}
	if _, ok := LookupInfix("-", String, String); ok {
		t.Error("String - String should not resolve")
	}
	if r, ok := LookupInfix("<", Int, Int); !ok || !Equal(r, Bool) {
		t.Errorf("Int < Int = %v, %v", r, ok)
	}
	if _, ok := LookupInfix("&&", Int, Bool); ok {
		t.Error("Int && Bool should not resolve")
	}
	if r, ok := LookupPrefix("!", Bool); !ok || !Equal(r, Bool) {
		t.Errorf("!Bool = %v, %v", r, ok)
	}
	if _, ok := LookupPrefix("-", Bool); ok {
		t.Error("-Bool should not resolve")
	}
	if _, ok := LookupInfix("+", ErrorType{}, Int); !ok {
		t.Error("error operand should not produce a second diagnostic")
	}
}
