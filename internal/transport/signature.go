package transport

import (
	"github.com/funvibe/finlang/internal/analyzer"
	"github.com/funvibe/finlang/internal/symbols"
	"github.com/funvibe/finlang/internal/typesystem"
)

// FunctionSignature is what a host needs to call a checked function.
type FunctionSignature struct {
	Name       string // dotted, including the namespace
	TypeParams []TypeParameter
	Params     []Binder
	Return     TypeDescription
	Cost       *CostDescription
}

// Binder is one formal parameter.
type Binder struct {
	Name string
	Type TypeDescription
}

// Signature describes fn.
func Signature(fn *symbols.Function) FunctionSignature {
	d := &describer{open: make(map[*typesystem.RecordDecl]bool)}
	sig := FunctionSignature{
		Name:       fn.QualifiedName(),
		TypeParams: describeParams(fn.TypeParams),
		Return:     d.describe(fn.Return),
		Cost:       DescribeCost(fn.Cost),
	}
	if fn.Return == nil {
		sig.Return = Basic{Name: typesystem.Unit.Name}
	}
	for _, p := range fn.Params {
		sig.Params = append(sig.Params, Binder{Name: p.Name, Type: d.describe(p.Type)})
	}
	return sig
}

// LookupFunction resolves a dotted name the way code in the unit's file
// would, and describes it if it names a function.
func LookupFunction(art *analyzer.Artifacts, name string) (FunctionSignature, bool) {
	if art == nil || name == "" {
		return FunctionSignature{}, false
	}
	sym, ok := art.Table.FetchQualified(art.FileScope, symbols.SplitPath(name))
	if !ok {
		return FunctionSignature{}, false
	}
	fn, ok := sym.(*symbols.Function)
	if !ok {
		return FunctionSignature{}, false
	}
	return Signature(fn), true
}

// Signatures describes every function the unit declares, callees first.
func Signatures(art *analyzer.Artifacts) []FunctionSignature {
	out := make([]FunctionSignature, 0, len(art.Functions))
	for i := len(art.Functions) - 1; i >= 0; i-- {
		out = append(out, Signature(art.Functions[i]))
	}
	return out
}
