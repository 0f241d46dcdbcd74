package typesystem

import (
	"github.com/funvibe/finlang/internal/costs"
)

// Subst maps declared type parameters to the arguments they stand for.
type Subst map[*TypeParam]Type

// NewSubst pairs params with args positionally. Missing arguments leave
// their parameter unsubstituted.
func NewSubst(params []*TypeParam, args []Type) Subst {
	s := make(Subst, len(params))
	for i, p := range params {
		if i < len(args) && args[i] != nil {
			s[p] = args[i]
		}
	}
	return s
}

// Args returns the substituted arguments for params, in order; a parameter
// with no binding is returned as itself.
func (s Subst) Args(params []*TypeParam) []Type {
	out := make([]Type, len(params))
	for i, p := range params {
		if t, ok := s[p]; ok {
			out[i] = t
			continue
		}
		out[i] = TypeParamType{Param: p}
	}
	return out
}

// ApplyCost rewrites the Fin parameters of a cost expression: a concrete
// bound becomes costs.Fin, another Fin parameter becomes a
// FinTypeParameter naming it.
func (s Subst) ApplyCost(e costs.Expression) costs.Expression {
	if e == nil || len(s) == 0 {
		return e
	}
	return costs.Substitute(e, func(p costs.Param) (costs.Expression, bool) {
		tp, ok := p.(*TypeParam)
		if !ok {
			return nil, false
		}
		repl, ok := s[tp]
		if !ok {
			return nil, false
		}
		return CostOf(repl)
	})
}

// Compose returns the substitution that applies s2 after s1.
func Compose(s1, s2 Subst) Subst {
	out := make(Subst, len(s1)+len(s2))
	for k, v := range s1 {
		out[k] = v.Apply(s2)
	}
	for k, v := range s2 {
		if _, ok := out[k]; !ok {
			out[k] = v
		}
	}
	return out
}
