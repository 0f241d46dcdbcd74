package costs

// Simplify partially evaluates e: closed subtrees collapse to Fin, nested
// combinators of the same kind are flattened and neutral elements dropped.
func Simplify(e Expression) Expression {
	if e == nil {
		return Zero
	}
	if v, ok := Evaluate(e); ok {
		return Fin{Value: v}
	}
	switch n := e.(type) {
	case Sum:
		var constant uint64
		var symbolic []Expression
		for _, t := range n.Terms {
			t = Simplify(t)
			if inner, ok := t.(Sum); ok {
				for _, it := range inner.Terms {
					if v, ok := Evaluate(it); ok {
						constant = addSat(constant, v)
					} else {
						symbolic = append(symbolic, it)
					}
				}
				continue
			}
			if v, ok := Evaluate(t); ok {
				constant = addSat(constant, v)
				continue
			}
			symbolic = append(symbolic, t)
		}
		if constant > 0 {
			symbolic = append(symbolic, Fin{Value: constant})
		}
		return collapse(symbolic, func(c []Expression) Expression { return Sum{Terms: c} }, 0)
	case Product:
		constant := uint64(1)
		var symbolic []Expression
		for _, f := range n.Factors {
			f = Simplify(f)
			if inner, ok := f.(Product); ok {
				for _, it := range inner.Factors {
					if v, ok := Evaluate(it); ok {
						constant = mulSat(constant, v)
					} else {
						symbolic = append(symbolic, it)
					}
				}
				continue
			}
			if v, ok := Evaluate(f); ok {
				constant = mulSat(constant, v)
				continue
			}
			symbolic = append(symbolic, f)
		}
		if constant == 0 {
			return Zero
		}
		if constant > 1 {
			symbolic = append([]Expression{Fin{Value: constant}}, symbolic...)
		}
		return collapse(symbolic, func(c []Expression) Expression { return Product{Factors: c} }, 1)
	case Max:
		var best uint64
		haveConstant := false
		var symbolic []Expression
		for _, o := range n.Options {
			o = Simplify(o)
			options := []Expression{o}
			if inner, ok := o.(Max); ok {
				options = inner.Options
			}
			for _, it := range options {
				if v, ok := Evaluate(it); ok {
					haveConstant = true
					if v > best {
						best = v
					}
					continue
				}
				if !containsEqual(symbolic, it) {
					symbolic = append(symbolic, it)
				}
			}
		}
		if haveConstant && best > 0 {
			symbolic = append(symbolic, Fin{Value: best})
		}
		return collapse(symbolic, func(c []Expression) Expression { return Max{Options: c} }, 0)
	}
	return e
}

func collapse(children []Expression, build func([]Expression) Expression, empty uint64) Expression {
	switch len(children) {
	case 0:
		return Fin{Value: empty}
	case 1:
		return children[0]
	}
	return build(children)
}

func containsEqual(list []Expression, e Expression) bool {
	for _, x := range list {
		if Equal(x, e) {
			return true
		}
	}
	return false
}

// Substitute rewrites every FinTypeParameter for which fn returns a
// replacement.
func Substitute(e Expression, fn func(Param) (Expression, bool)) Expression {
	switch n := e.(type) {
	case FinTypeParameter:
		if repl, ok := fn(n.Param); ok {
			return repl
		}
		return n
	case Sum:
		return Sum{Terms: substituteAll(n.Terms, fn)}
	case Product:
		return Product{Factors: substituteAll(n.Factors, fn)}
	case Max:
		return Max{Options: substituteAll(n.Options, fn)}
	}
	return e
}

func substituteAll(children []Expression, fn func(Param) (Expression, bool)) []Expression {
	out := make([]Expression, len(children))
	for i, c := range children {
		out[i] = Substitute(c, fn)
	}
	return out
}

// Params lists the distinct parameters e depends on, in first-seen order.
func Params(e Expression) []Param {
	var out []Param
	var walk func(Expression)
	walk = func(e Expression) {
		switch n := e.(type) {
		case FinTypeParameter:
			for _, p := range out {
				if p == n.Param {
					return
				}
			}
			out = append(out, n.Param)
		case Sum:
			for _, c := range n.Terms {
				walk(c)
			}
		case Product:
			for _, c := range n.Factors {
				walk(c)
			}
		case Max:
			for _, c := range n.Options {
				walk(c)
			}
		}
	}
	walk(e)
	return out
}

// Equal compares two expressions structurally.
func Equal(a, b Expression) bool {
	switch x := a.(type) {
	case nil:
		return b == nil
	case ConstantFin:
		_, ok := b.(ConstantFin)
		return ok
	case Fin:
		y, ok := b.(Fin)
		return ok && x.Value == y.Value
	case FinTypeParameter:
		y, ok := b.(FinTypeParameter)
		return ok && x.Param == y.Param
	case Sum:
		y, ok := b.(Sum)
		return ok && equalAll(x.Terms, y.Terms)
	case Product:
		y, ok := b.(Product)
		return ok && equalAll(x.Factors, y.Factors)
	case Max:
		y, ok := b.(Max)
		return ok && equalAll(x.Options, y.Options)
	}
	return false
}

func equalAll(a, b []Expression) bool {
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

// AtMost reports whether a is provably no larger than b: both closed and
// a <= b, or structurally equal after simplification.
func AtMost(a, b Expression) bool {
	av, aok := Evaluate(a)
	bv, bok := Evaluate(b)
	if aok && bok {
		return av <= bv
	}
	if aok && av == 0 {
		return true
	}
	return Equal(Simplify(a), Simplify(b))
}
