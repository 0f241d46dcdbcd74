package costs

import (
	"math"
	"testing"

	"github.com/nalgeon/be"
)

type param string

func (p param) ParamName() string { return string(p) }

func TestEvaluateArithmetic(t *testing.T) {
	tests := []struct {
		name string
		expr Expression
		want uint64
	}{
		{"constant", ConstantFin{}, 1},
		{"fin", Fin{Value: 42}, 42},
		{"empty sum", NewSum(), 0},
		{"empty product", NewProduct(), 1},
		{"empty max", NewMax(), 0},
		{"sum", NewSum(Fin{Value: 50}, Fin{Value: 50}), 100},
		{"product", NewProduct(Fin{Value: 10}, Fin{Value: 5}), 50},
		{"max", NewMax(Fin{Value: 3}, Fin{Value: 9}, Fin{Value: 4}), 9},
		{"nested", NewSum(ConstantFin{}, NewProduct(Fin{Value: 3}, NewMax(Fin{Value: 2}, ConstantFin{}))), 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Evaluate(tt.expr)
			be.True(t, ok)
			be.Equal(t, got, tt.want)
		})
	}
}

func TestEvaluateSymbolic(t *testing.T) {
	n := param("n")
	_, ok := Evaluate(NewSum(Fin{Value: 1}, FinTypeParameter{Param: n}))
	be.True(t, !ok)
	be.True(t, !IsClosed(NewMax(FinTypeParameter{Param: n})))
}

func TestEvaluateSaturates(t *testing.T) {
	big := Fin{Value: math.MaxUint64 - 1}
	got, ok := Evaluate(NewSum(big, Fin{Value: 10}))
	be.True(t, ok)
	be.Equal(t, got, uint64(math.MaxUint64))

	got, ok = Evaluate(NewProduct(big, Fin{Value: 2}))
	be.True(t, ok)
	be.Equal(t, got, uint64(math.MaxUint64))
}

func TestSubstituteThenEvaluate(t *testing.T) {
	n := param("n")
	body := NewProduct(FinTypeParameter{Param: n}, ConstantFin{})
	_, ok := Evaluate(body)
	be.True(t, !ok)

	inst := Substitute(body, func(p Param) (Expression, bool) {
		if p == Param(n) {
			return Fin{Value: 7}, true
		}
		return nil, false
	})
	got, ok := Evaluate(inst)
	be.True(t, ok)
	be.Equal(t, got, uint64(7))
}

func TestSimplify(t *testing.T) {
	n := param("n")
	m := param("m")
	tests := []struct {
		name string
		expr Expression
		want string
	}{
		{"closed", NewSum(Fin{Value: 2}, ConstantFin{}), "3"},
		{"sum folds constants", NewSum(Fin{Value: 2}, FinTypeParameter{Param: n}, NewSum(Fin{Value: 3})), "sum(n, 5)"},
		{"product by zero", NewProduct(FinTypeParameter{Param: n}, Fin{Value: 0}), "0"},
		{"product by one", NewProduct(FinTypeParameter{Param: n}, ConstantFin{}), "n"},
		{"flatten product", NewProduct(Fin{Value: 2}, NewProduct(FinTypeParameter{Param: n}, Fin{Value: 3})), "product(6, n)"},
		{"max dedup", NewMax(FinTypeParameter{Param: n}, FinTypeParameter{Param: n}, Fin{Value: 4}), "max(n, 4)"},
		{"two params", NewSum(FinTypeParameter{Param: n}, FinTypeParameter{Param: m}), "sum(n, m)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			be.Equal(t, Simplify(tt.expr).String(), tt.want)
		})
	}
}

func TestParamsAndAtMost(t *testing.T) {
	n := param("n")
	m := param("m")
	e := NewSum(FinTypeParameter{Param: n}, NewProduct(FinTypeParameter{Param: m}, FinTypeParameter{Param: n}))
	ps := Params(e)
	be.Equal(t, len(ps), 2)
	be.Equal(t, ps[0].ParamName(), "n")

	be.True(t, AtMost(Fin{Value: 3}, Fin{Value: 5}))
	be.True(t, !AtMost(Fin{Value: 6}, Fin{Value: 5}))
	be.True(t, AtMost(FinTypeParameter{Param: n}, FinTypeParameter{Param: n}))
	be.True(t, !AtMost(FinTypeParameter{Param: n}, FinTypeParameter{Param: m}))
	be.True(t, AtMost(Zero, FinTypeParameter{Param: m}))
}
