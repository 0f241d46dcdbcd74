package typesystem

// Unify matches a declared parameter type against the type of an actual
// argument and records bindings for the free type parameters it meets.
// A standard parameter keeps its first binding; a Fin parameter bound to
// several concrete magnitudes keeps the largest, so every argument fits.
// Unify never fails: conflicting or missing bindings are left for the
// checker to report against the instantiated signature.
func Unify(pattern, actual Type, free []*TypeParam, bindings Subst) {
	if pattern == nil || actual == nil || IsError(actual) {
		return
	}
	switch p := pattern.(type) {
	case TypeParamType:
		if !isFree(p.Param, free) {
			return
		}
		prev, bound := bindings[p.Param]
		if p.Param.Fin {
			if !IsFinType(actual) {
				return
			}
			if !bound {
				bindings[p.Param] = actual
				return
			}
			pf, pok := prev.(FinType)
			af, aok := actual.(FinType)
			if pok && aok && af.Value > pf.Value {
				bindings[p.Param] = af
			}
			return
		}
		if !bound {
			bindings[p.Param] = actual
		}
	case RecordType:
		a, ok := actual.(RecordType)
		if !ok || a.Decl != p.Decl {
			return
		}
		unifyAll(p.Args, a.Args, free, bindings)
	case ObjectType:
		a, ok := actual.(ObjectType)
		if !ok || a.Decl != p.Decl {
			return
		}
		unifyAll(p.Args, a.Args, free, bindings)
	case FunctionType:
		a, ok := actual.(FunctionType)
		if !ok || len(a.Params) != len(p.Params) {
			return
		}
		unifyAll(p.Params, a.Params, free, bindings)
		Unify(p.Return, a.Return, free, bindings)
	}
}

func unifyAll(patterns, actuals []Type, free []*TypeParam, bindings Subst) {
	for i := range patterns {
		if i < len(actuals) {
			Unify(patterns[i], actuals[i], free, bindings)
		}
	}
}

func isFree(p *TypeParam, free []*TypeParam) bool {
	for _, f := range free {
		if f == p {
			return true
		}
	}
	return false
}

// Equal compares two types structurally. Declarations compare by identity.
func Equal(a, b Type) bool {
	switch x := a.(type) {
	case nil:
		return b == nil
	case Basic:
		y, ok := b.(Basic)
		return ok && x.Name == y.Name
	case FinType:
		y, ok := b.(FinType)
		return ok && x.Value == y.Value
	case TypeParamType:
		y, ok := b.(TypeParamType)
		return ok && x.Param == y.Param
	case FunctionType:
		y, ok := b.(FunctionType)
		return ok && equalAll(x.Params, y.Params) && Equal(x.Return, y.Return)
	case RecordType:
		y, ok := b.(RecordType)
		return ok && x.Decl == y.Decl && equalAll(x.Args, y.Args)
	case ObjectType:
		y, ok := b.(ObjectType)
		return ok && x.Decl == y.Decl && equalAll(x.Args, y.Args)
	case SumType:
		y, ok := b.(SumType)
		return ok && x.Name == y.Name
	case ErrorType:
		_, ok := b.(ErrorType)
		return ok
	}
	return false
}

func equalAll(a, b []Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}
