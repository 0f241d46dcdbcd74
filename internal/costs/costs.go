// Package costs implements the cost algebra: symbolic upper bounds on the
// work a checked program performs.
package costs

import (
	"math"
	"math/bits"
	"strconv"
	"strings"
)

// Param is a magnitude-bounded type parameter a cost can depend on.
type Param interface {
	ParamName() string
}

// Expression is a node of the cost algebra.
type Expression interface {
	String() string
	costNode()
}

// ConstantFin is the fixed unit cost of one primitive operation.
type ConstantFin struct{}

// Fin is a concrete magnitude.
type Fin struct {
	Value uint64
}

// FinTypeParameter is a magnitude not known until the generic parameter it
// names is instantiated.
type FinTypeParameter struct {
	Param Param
}

type Sum struct {
	Terms []Expression
}

type Product struct {
	Factors []Expression
}

type Max struct {
	Options []Expression
}

func (ConstantFin) costNode()      {}
func (Fin) costNode()              {}
func (FinTypeParameter) costNode() {}
func (Sum) costNode()              {}
func (Product) costNode()          {}
func (Max) costNode()              {}

func (ConstantFin) String() string { return "const" }
func (f Fin) String() string       { return strconv.FormatUint(f.Value, 10) }
func (f FinTypeParameter) String() string {
	if f.Param == nil {
		return "?"
	}
	return f.Param.ParamName()
}
func (s Sum) String() string     { return join("sum", s.Terms) }
func (p Product) String() string { return join("product", p.Factors) }
func (m Max) String() string     { return join("max", m.Options) }

func join(name string, children []Expression) string {
	parts := make([]string, len(children))
	for i, c := range children {
		parts[i] = c.String()
	}
	return name + "(" + strings.Join(parts, ", ") + ")"
}

// Zero is the cost of doing nothing.
var Zero Expression = Fin{Value: 0}

func NewSum(terms ...Expression) Expression {
	return Sum{Terms: compact(terms)}
}

func NewProduct(factors ...Expression) Expression {
	return Product{Factors: compact(factors)}
}

func NewMax(options ...Expression) Expression {
	return Max{Options: compact(options)}
}

func compact(children []Expression) []Expression {
	out := make([]Expression, 0, len(children))
	for _, c := range children {
		if c != nil {
			out = append(out, c)
		}
	}
	return out
}

// Evaluate reduces e to a magnitude. It reports false when e still depends on
// an unresolved FinTypeParameter. Arithmetic saturates at math.MaxUint64.
func Evaluate(e Expression) (uint64, bool) {
	switch n := e.(type) {
	case nil:
		return 0, true
	case ConstantFin:
		return 1, true
	case Fin:
		return n.Value, true
	case FinTypeParameter:
		return 0, false
	case Sum:
		var total uint64
		for _, t := range n.Terms {
			v, ok := Evaluate(t)
			if !ok {
				return 0, false
			}
			total = addSat(total, v)
		}
		return total, true
	case Product:
		total := uint64(1)
		for _, f := range n.Factors {
			v, ok := Evaluate(f)
			if !ok {
				return 0, false
			}
			total = mulSat(total, v)
		}
		return total, true
	case Max:
		var best uint64
		for _, o := range n.Options {
			v, ok := Evaluate(o)
			if !ok {
				return 0, false
			}
			if v > best {
				best = v
			}
		}
		return best, true
	}
	return 0, false
}

// IsClosed reports whether e contains no FinTypeParameter leaves.
func IsClosed(e Expression) bool {
	_, ok := Evaluate(e)
	return ok
}

func addSat(a, b uint64) uint64 {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return math.MaxUint64
	}
	return sum
}

func mulSat(a, b uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return math.MaxUint64
	}
	return lo
}
