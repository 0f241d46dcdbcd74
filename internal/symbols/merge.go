package symbols

import (
	"github.com/funvibe/finlang/internal/diagnostics"
)

// Merge folds the symbols of a unit's root scope into the running global
// scope. Namespaces present on both sides are merged member by member. If
// any name would be bound twice, the conflicts are returned and nothing is
// applied.
func (t *Table) Merge(global, root ScopeID) []*diagnostics.DiagnosticError {
	var conflicts []*diagnostics.DiagnosticError
	t.mergeScope(global, root, false, &conflicts)
	if len(conflicts) > 0 {
		return conflicts
	}
	t.mergeScope(global, root, true, &conflicts)
	return nil
}

func (t *Table) mergeScope(dst, src ScopeID, apply bool, conflicts *[]*diagnostics.DiagnosticError) {
	for _, sym := range t.Symbols(src) {
		name := sym.SymbolName()
		existing, ok := t.scopes[dst].names[name]
		if !ok {
			if apply {
				t.bind(dst, name, sym)
			}
			continue
		}
		if existing == sym {
			continue
		}
		srcNS, srcIsNS := sym.(*Namespace)
		dstNS, dstIsNS := existing.(*Namespace)
		if srcIsNS && dstIsNS {
			t.mergeScope(dstNS.Scope, srcNS.Scope, apply, conflicts)
			continue
		}
		*conflicts = append(*conflicts, diagnostics.NewError(diagnostics.ErrIdentifierAlreadyExists, sym.SymbolToken(), name))
	}
}
