package typesystem

// Assignable reports whether a value of type source may be used where
// target is expected. The error type is compatible with everything; a sum
// type accepts each of its variants; a collection bounded by n accepts one
// bounded by anything up to n. Function costs are not compared here.
func Assignable(target, source Type) bool {
	if target == nil || source == nil {
		return target == nil && source == nil
	}
	if IsError(target) || IsError(source) {
		return true
	}
	switch t := target.(type) {
	case SumType:
		if s, ok := source.(SumType); ok {
			return s.Name == t.Name
		}
		for _, v := range t.Variants {
			if Equal(v, source) {
				return true
			}
		}
		return false
	case FinType:
		s, ok := source.(FinType)
		return ok && s.Value <= t.Value
	case RecordType:
		s, ok := source.(RecordType)
		return ok && s.Decl == t.Decl && argsAssignable(t.Args, s.Args)
	case ObjectType:
		s, ok := source.(ObjectType)
		return ok && s.Decl == t.Decl && argsAssignable(t.Args, s.Args)
	case FunctionType:
		s, ok := source.(FunctionType)
		if !ok || len(s.Params) != len(t.Params) || len(s.TypeParams) > 0 {
			return false
		}
		for i := range t.Params {
			if !Equal(t.Params[i], s.Params[i]) && !IsError(s.Params[i]) {
				return false
			}
		}
		return Assignable(t.Return, s.Return)
	}
	return Equal(target, source)
}

// Type arguments are invariant except magnitudes, which are upper bounds.
func argsAssignable(target, source []Type) bool {
	if len(target) != len(source) {
		return false
	}
	for i := range target {
		if IsError(target[i]) || IsError(source[i]) {
			continue
		}
		if IsFinType(target[i]) {
			if !Assignable(target[i], source[i]) {
				return false
			}
			continue
		}
		if !Equal(target[i], source[i]) {
			return false
		}
	}
	return true
}

// CheckArgument reports whether arg may be substituted for param. A Fin
// parameter accepts only magnitudes; a standard parameter accepts any value
// type except magnitudes and functions.
func CheckArgument(param *TypeParam, arg Type) bool {
	if IsError(arg) {
		return true
	}
	if param.Fin {
		return IsFinType(arg)
	}
	if IsFinType(arg) {
		return false
	}
	_, isFunc := arg.(FunctionType)
	return !isFunc
}
