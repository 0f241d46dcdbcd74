package analyzer

import (
	"github.com/funvibe/finlang/internal/diagnostics"
	"github.com/funvibe/finlang/internal/token"
	"github.com/funvibe/finlang/internal/typesystem"
)

// linearize validates every substitution of type arguments for type
// parameters, including the ones nested inside the arguments themselves:
// Fin parameters take magnitudes, standard parameters take value types.
func linearize(st *state, errs *diagnostics.Errors) {
	for _, app := range st.ann.Applications {
		checkApplication(app.Token, app.Params, app.Args, errs)
	}
}

func checkApplication(tok token.Token, params []*typesystem.TypeParam, args []typesystem.Type, errs *diagnostics.Errors) {
	for i, p := range params {
		if i >= len(args) || args[i] == nil {
			break
		}
		if !typesystem.CheckArgument(p, args[i]) {
			errs.Add(diagnostics.NewError(diagnostics.ErrInvalidSubstitution, tok, args[i], p.Name))
			continue
		}
		checkNested(tok, args[i], errs)
	}
}

func checkNested(tok token.Token, t typesystem.Type, errs *diagnostics.Errors) {
	switch x := t.(type) {
	case typesystem.RecordType:
		checkApplication(tok, x.Decl.TypeParams, x.Args, errs)
	case typesystem.ObjectType:
		checkApplication(tok, x.Decl.TypeParams, x.Args, errs)
	case typesystem.FunctionType:
		for _, p := range x.Params {
			checkNested(tok, p, errs)
		}
		if x.Return != nil {
			checkNested(tok, x.Return, errs)
		}
	}
}
