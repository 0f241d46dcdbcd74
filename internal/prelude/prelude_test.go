package prelude

import (
	"testing"

	"github.com/funvibe/finlang/internal/config"
	"github.com/funvibe/finlang/internal/costs"
	"github.com/funvibe/finlang/internal/symbols"
	"github.com/funvibe/finlang/internal/typesystem"
)

func TestPreludeNames(t *testing.T) {
	p := New()
	names := []string{
		config.IntTypeName, config.BoolTypeName, config.StringTypeName, config.UnitTypeName,
		config.ScalarTypeName, config.ListTypeName,
		config.TickFuncName, config.PrintFuncName, config.ToStringFuncName,
		config.RangeFuncName, config.SumFuncName,
	}
	for _, name := range names {
		sym, ok := p.Table.Lookup(p.Scope, name)
		if !ok {
			t.Errorf("%s not defined", name)
			continue
		}
		if !sym.SymbolToken().IsSynthetic() {
			t.Errorf("%s should carry the synthetic token", name)
		}
	}
}

func TestRangeCostIsItsBound(t *testing.T) {
	p := New()
	sym, _ := p.Table.Lookup(p.Scope, config.RangeFuncName)
	fn := sym.(*symbols.Function)
	if !fn.IsPlatform() {
		t.Error("range should be a platform function")
	}
	sig := fn.Signature()
	inst := sig.Apply(typesystem.NewSubst(sig.TypeParams, []typesystem.Type{typesystem.FinType{Value: 7}})).(typesystem.FunctionType)
	if v, ok := costs.Evaluate(inst.Cost); !ok || v != 7 {
		t.Errorf("range<7> cost = %v, %v", v, ok)
	}
	list, ok := inst.Return.(typesystem.ObjectType)
	if !ok {
		t.Fatalf("range returns %s", inst.Return)
	}
	if _, bound, _ := list.Iteration(); !typesystem.Equal(bound, typesystem.FinType{Value: 7}) {
		t.Errorf("range<7> bound = %s", bound)
	}
}
