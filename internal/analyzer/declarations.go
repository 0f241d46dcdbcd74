package analyzer

import (
	"github.com/funvibe/finlang/internal/ast"
	"github.com/funvibe/finlang/internal/costs"
	"github.com/funvibe/finlang/internal/diagnostics"
	"github.com/funvibe/finlang/internal/graph"
	"github.com/funvibe/finlang/internal/symbols"
	"github.com/funvibe/finlang/internal/typesystem"
)

// scopeOf is the scope a type node was bound in.
func (st *state) scopeOf(nt *ast.NamedType) symbols.ScopeID {
	if scope, ok := st.ann.Scopes[nt]; ok {
		return scope
	}
	return st.file
}

// resolveType turns a type node into a type. Each node is resolved once;
// later calls return the recorded result.
func (st *state) resolveType(t ast.Type, errs *diagnostics.Errors) typesystem.Type {
	if t == nil {
		return nil
	}
	if known, ok := st.ann.Types[t]; ok {
		return known
	}
	var result typesystem.Type
	switch n := t.(type) {
	case *ast.FinLiteral:
		result = typesystem.FinType{Value: n.Value}
	case *ast.NamedType:
		result = st.resolveNamed(n, errs)
	case *ast.FunctionTypeExpression:
		ft := typesystem.FunctionType{Return: typesystem.Unit, Cost: costs.ConstantFin{}}
		for _, p := range n.Params {
			ft.Params = append(ft.Params, st.resolveType(p, errs))
		}
		if n.Return != nil {
			ft.Return = st.resolveType(n.Return, errs)
		}
		// A cost that is not a magnitude is reported by the bans.
		if n.Cost != nil {
			if c, ok := typesystem.CostOf(st.resolveType(n.Cost, errs)); ok {
				ft.Cost = c
			}
		}
		result = ft
	default:
		result = typesystem.ErrorType{}
	}
	st.ann.Types[t] = result
	return result
}

func (st *state) resolveNamed(n *ast.NamedType, errs *diagnostics.Errors) typesystem.Type {
	sym, ok := st.table.FetchQualified(st.scopeOf(n), n.Path)
	if !ok {
		errs.Add(diagnostics.NewError(diagnostics.ErrIdentifierNotFound, n.Token, n.Name()))
		return typesystem.ErrorType{}
	}
	st.ann.Symbols[n] = sym
	decl, ok := sym.(symbols.TypeDeclaration)
	if !ok {
		errs.Add(diagnostics.NewError(diagnostics.ErrNotAType, n.Token, n.Name()))
		return typesystem.ErrorType{}
	}

	args := make([]typesystem.Type, len(n.Args))
	for i, a := range n.Args {
		args[i] = st.resolveType(a, errs)
	}
	// Type parameters take no arguments; applying one is a ban.
	if tp, ok := sym.(*symbols.TypeParameter); ok {
		return typesystem.TypeParamType{Param: tp.Param}
	}
	params := decl.TypeParams()
	if len(args) != len(params) {
		errs.Add(diagnostics.NewError(diagnostics.ErrTypeArgumentArityMismatch, n.Token, n.Name(), len(params), len(args)))
		return typesystem.ErrorType{}
	}
	if len(params) > 0 {
		st.ann.Applications = append(st.ann.Applications, Application{
			Token:  n.Token,
			Owner:  n.Name(),
			Params: params,
			Args:   args,
		})
	}
	return decl.Instantiate(args)
}

// scanParameters types the parameters of every function and lambda.
func scanParameters(st *state, errs *diagnostics.Errors) {
	ast.Walk(st.unit, func(n ast.Node) bool {
		if p, ok := n.(*ast.Parameter); ok {
			if sym, ok := st.ann.Symbols[p].(*symbols.Parameter); ok {
				sym.Type = st.resolveType(p.Type, errs)
			}
		}
		return true
	})
}

// detectRecordCycles rejects records that contain themselves. A record
// depends on the user records its fields name directly or through the
// type arguments another record holds directly; a List is an indirection
// and breaks the chain.
func detectRecordCycles(st *state, errs *diagnostics.Errors) {
	g := graph.New[*symbols.Record]()
	for _, rec := range st.records {
		g.AddNode(rec)
	}
	for _, rec := range st.records {
		for _, f := range rec.Node.Fields {
			st.recordRefs(f.Type, func(dep *symbols.Record) {
				g.AddEdge(rec, dep)
				st.recordEdges = append(st.recordEdges, edge[*symbols.Record]{from: rec, to: dep})
			})
		}
	}
	st.recordOrder = g.Sort()
	for _, rec := range st.recordOrder.Cycle {
		errs.Add(diagnostics.NewError(diagnostics.ErrRecursiveRecordDetected, rec.Token, rec.Name))
	}
}

func (st *state) recordRefs(t ast.Type, fn func(*symbols.Record)) {
	nt, ok := t.(*ast.NamedType)
	if !ok {
		return
	}
	sym, ok := st.table.FetchQualified(st.scopeOf(nt), nt.Path)
	if !ok {
		return
	}
	rec, ok := sym.(*symbols.Record)
	if !ok {
		return
	}
	fn(rec)
	held := st.heldParams(rec, map[*symbols.Record]bool{})
	for i, a := range nt.Args {
		if i < len(held) && held[i] {
			st.recordRefs(a, fn)
		}
	}
}

// heldParams reports, per type parameter of rec, whether some field holds
// it outside a List: as the field type itself or as a held argument of
// another record. Records of earlier units are already typed and are read
// from their declaration.
func (st *state) heldParams(rec *symbols.Record, visiting map[*symbols.Record]bool) []bool {
	if rec.Decl.Fields != nil {
		return heldTypeParams(rec.Decl, map[*typesystem.RecordDecl]bool{})
	}
	held := make([]bool, len(rec.Node.TypeParams))
	if visiting[rec] {
		return held
	}
	visiting[rec] = true
	defer delete(visiting, rec)

	index := make(map[string]int, len(rec.Node.TypeParams))
	for i, tp := range rec.Node.TypeParams {
		index[tp.Name] = i
	}
	var mark func(t ast.Type)
	mark = func(t ast.Type) {
		nt, ok := t.(*ast.NamedType)
		if !ok {
			return
		}
		if len(nt.Path) == 1 && len(nt.Args) == 0 {
			if i, ok := index[nt.Path[0]]; ok {
				held[i] = true
				return
			}
		}
		sym, ok := st.table.FetchQualified(st.scopeOf(nt), nt.Path)
		if !ok {
			return
		}
		inner, ok := sym.(*symbols.Record)
		if !ok {
			return
		}
		innerHeld := st.heldParams(inner, visiting)
		for i, a := range nt.Args {
			if i < len(innerHeld) && innerHeld[i] {
				mark(a)
			}
		}
	}
	for _, f := range rec.Node.Fields {
		mark(f.Type)
	}
	return held
}

func heldTypeParams(decl *typesystem.RecordDecl, visiting map[*typesystem.RecordDecl]bool) []bool {
	held := make([]bool, len(decl.TypeParams))
	if visiting[decl] {
		return held
	}
	visiting[decl] = true
	defer delete(visiting, decl)

	index := make(map[*typesystem.TypeParam]int, len(decl.TypeParams))
	for i, tp := range decl.TypeParams {
		index[tp] = i
	}
	var mark func(t typesystem.Type)
	mark = func(t typesystem.Type) {
		switch t := t.(type) {
		case typesystem.TypeParamType:
			if i, ok := index[t.Param]; ok {
				held[i] = true
			}
		case typesystem.RecordType:
			inner := heldTypeParams(t.Decl, visiting)
			for i, a := range t.Args {
				if i < len(inner) && inner[i] {
					mark(a)
				}
			}
		}
	}
	for _, f := range decl.Fields {
		mark(f.Type)
	}
	return held
}

// scanRecords types every record field.
func scanRecords(st *state, errs *diagnostics.Errors) {
	for _, rec := range st.records {
		fields := make([]typesystem.Field, 0, len(rec.Node.Fields))
		for _, f := range rec.Node.Fields {
			t := st.resolveType(f.Type, errs)
			fields = append(fields, typesystem.Field{Name: f.Name, Type: t, Token: f.Token})
			if sym, ok := st.ann.Symbols[f].(*symbols.Field); ok {
				sym.Type = t
			}
		}
		rec.Decl.Fields = fields
	}
}

// scanFunctions types every function's return.
func scanFunctions(st *state, errs *diagnostics.Errors) {
	for _, fn := range st.functions {
		if fn.Decl.ReturnType == nil {
			fn.Return = typesystem.Unit
			continue
		}
		fn.Return = st.resolveType(fn.Decl.ReturnType, errs)
	}
}
