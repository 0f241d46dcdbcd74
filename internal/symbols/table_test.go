package symbols

import (
	"fmt"
	"testing"

	"github.com/funvibe/finlang/internal/diagnostics"
	"github.com/funvibe/finlang/internal/token"
	"github.com/funvibe/finlang/internal/typesystem"
)

func variable(name string, line int) *Variable {
	return &Variable{Name: name, Token: token.Token{Line: line, Column: 1}, Type: typesystem.Int}
}

func TestDefineTwiceKeepsFirst(t *testing.T) {
	tbl := NewTable()
	s := tbl.NewScope(ScopeBlock, NoScope)

	first := variable("x", 1)
	if err := tbl.Define(s, first); err != nil {
		t.Fatalf("first define: %v", err)
	}
	err := tbl.Define(s, variable("x", 2))
	if err == nil || err.Code != diagnostics.ErrIdentifierAlreadyExists {
		t.Fatalf("second define = %v, want IdentifierAlreadyExists", err)
	}
	got, _, _ := tbl.Fetch(s, "x")
	if got != first {
		t.Error("the first binding must survive")
	}
}

func TestShadowingInChildScope(t *testing.T) {
	tbl := NewTable()
	parent := tbl.NewScope(ScopeFunction, NoScope)
	child := tbl.NewScope(ScopeBlock, parent)

	outer := variable("x", 1)
	inner := variable("x", 2)
	if err := tbl.Define(parent, outer); err != nil {
		t.Fatal(err)
	}
	if err := tbl.Define(child, inner); err != nil {
		t.Fatalf("shadowing must be allowed: %v", err)
	}
	if got, at, _ := tbl.Fetch(child, "x"); got != inner || at != child {
		t.Error("child lookup should see the child's binding")
	}
	if got, _, _ := tbl.Fetch(parent, "x"); got != outer {
		t.Error("parent lookup should still see the parent's binding")
	}
}

// Randomised version of the two properties above over deeper chains.
func TestDefineShadowProperty(t *testing.T) {
	for depth := 1; depth <= 6; depth++ {
		tbl := NewTable()
		scopes := []ScopeID{tbl.NewScope(ScopeGlobal, NoScope)}
		for i := 1; i < depth; i++ {
			scopes = append(scopes, tbl.NewScope(ScopeBlock, scopes[i-1]))
		}
		var bound []*Variable
		for i, s := range scopes {
			v := variable(fmt.Sprintf("v%d", i%2), i)
			if err := tbl.Define(s, v); err != nil {
				t.Fatalf("depth %d: define in fresh scope failed: %v", depth, err)
			}
			if err := tbl.Define(s, variable(v.Name, 100+i)); err == nil {
				t.Fatalf("depth %d: redefinition in scope %d accepted", depth, i)
			}
			bound = append(bound, v)
		}
		innermost := scopes[len(scopes)-1]
		got, _, _ := tbl.Fetch(innermost, bound[len(bound)-1].Name)
		if got != bound[len(bound)-1] {
			t.Errorf("depth %d: nearest binding not returned", depth)
		}
	}
}

func TestResolveMissing(t *testing.T) {
	tbl := NewTable()
	s := tbl.NewScope(ScopeBlock, NoScope)
	errs := diagnostics.NewErrors()

	sym := tbl.Resolve(s, "ghost", token.Token{Line: 3, Column: 4}, errs)
	if !IsError(sym) {
		t.Errorf("Resolve returned %T, want the error sentinel", sym)
	}
	if !errs.Has(diagnostics.ErrIdentifierNotFound) {
		t.Error("missing IdentifierNotFound")
	}
	if _, ok := sym.(Value); !ok {
		t.Error("error sentinel must be usable as a value")
	}
}

func TestDefineNamespace(t *testing.T) {
	tbl := NewTable()
	root := tbl.NewScope(ScopeRoot, NoScope)

	inner, err := tbl.DefineNamespace(root, []string{"acme", "billing"}, token.Token{Line: 1})
	if err != nil {
		t.Fatal(err)
	}
	if got := tbl.Path(inner); got != "acme.billing" {
		t.Errorf("path = %q", got)
	}
	again, err := tbl.DefineNamespace(root, []string{"acme", "billing"}, token.Token{Line: 2})
	if err != nil || again != inner {
		t.Errorf("reopening the same path must reuse its scope, got %v %v", again, err)
	}

	if err := tbl.Define(root, variable("tools", 3)); err != nil {
		t.Fatal(err)
	}
	_, err = tbl.DefineNamespace(root, []string{"tools", "x"}, token.Token{Line: 4})
	if err == nil || err.Code != diagnostics.ErrIdentifierCouldNotBeDefined {
		t.Errorf("err = %v, want IdentifierCouldNotBeDefined", err)
	}
}

func TestNamespacesLinkAcrossUnits(t *testing.T) {
	tbl := NewTable()
	global := tbl.NewScope(ScopeGlobal, NoScope)

	rootA := tbl.NewScope(ScopeRoot, global)
	nsA, _ := tbl.DefineNamespace(rootA, []string{"shared"}, token.Token{})
	f := &Function{Name: "f", Token: token.Token{Line: 1}}
	if err := tbl.Define(nsA, f); err != nil {
		t.Fatal(err)
	}
	if errs := tbl.Merge(global, rootA); errs != nil {
		t.Fatalf("merge A: %v", errs)
	}

	rootB := tbl.NewScope(ScopeRoot, global)
	nsB, _ := tbl.DefineNamespace(rootB, []string{"shared"}, token.Token{})
	if got, _, ok := tbl.Fetch(nsB, "f"); !ok || got != f {
		t.Error("second unit should see f through the shared namespace")
	}
	err := tbl.Define(nsB, &Function{Name: "f", Token: token.Token{Line: 9}})
	if err == nil || err.Code != diagnostics.ErrIdentifierAlreadyExists {
		t.Errorf("redefining f in the shared namespace = %v", err)
	}

	g := &Function{Name: "g"}
	if err := tbl.Define(nsB, g); err != nil {
		t.Fatal(err)
	}
	if errs := tbl.Merge(global, rootB); errs != nil {
		t.Fatalf("merge B: %v", errs)
	}
	if got, ok := tbl.FetchQualified(global, []string{"shared", "g"}); !ok || got != g {
		t.Error("g should be reachable from the global root after merging")
	}
}

func TestMergeConflictAppliesNothing(t *testing.T) {
	tbl := NewTable()
	global := tbl.NewScope(ScopeGlobal, NoScope)

	// Two units analysed without seeing each other.
	rootA := tbl.NewScope(ScopeRoot, global)
	rootB := tbl.NewScope(ScopeRoot, global)
	nsA, _ := tbl.DefineNamespace(rootA, []string{"app"}, token.Token{})
	nsB, _ := tbl.DefineNamespace(rootB, []string{"app"}, token.Token{})
	_ = tbl.Define(nsA, &Function{Name: "main"})
	_ = tbl.Define(nsB, &Function{Name: "helper"})
	_ = tbl.Define(nsB, &Function{Name: "main"})

	if errs := tbl.Merge(global, rootA); errs != nil {
		t.Fatal(errs)
	}
	errs := tbl.Merge(global, rootB)
	if len(errs) != 1 || errs[0].Code != diagnostics.ErrIdentifierAlreadyExists {
		t.Fatalf("merge B = %v, want one IdentifierAlreadyExists", errs)
	}
	if _, ok := tbl.FetchQualified(global, []string{"app", "helper"}); ok {
		t.Error("a failed merge must not apply any symbol")
	}
}
