package analyzer

import (
	"github.com/funvibe/finlang/internal/ast"
	"github.com/funvibe/finlang/internal/diagnostics"
	"github.com/funvibe/finlang/internal/symbols"
	"github.com/funvibe/finlang/internal/typesystem"
)

// binder creates the scope tree of a unit, defines every declared name and
// resolves every identifier. Top-level functions and records are defined
// before any body is visited, so they may be referenced before their
// declaration; everything else is visible only after it.
type binder struct {
	st        *state
	errs      *diagnostics.Errors
	scope     symbols.ScopeID
	namespace string
	owner     string // declaration whose type parameters are being bound
}

func bindScopes(st *state, errs *diagnostics.Errors) {
	b := &binder{st: st, errs: errs, scope: st.scopes.Root}
	st.unit.Accept(b)
}

func (b *binder) enter(scope symbols.ScopeID) func() {
	prev := b.scope
	b.scope = scope
	return func() { b.scope = prev }
}

func (b *binder) own(owner string) func() {
	prev := b.owner
	b.owner = owner
	return func() { b.owner = prev }
}

func (b *binder) define(sym symbols.Symbol) {
	b.errs.Add(b.st.table.Define(b.scope, sym))
}

func (b *binder) visitType(t ast.Type) {
	if t != nil {
		t.Accept(b)
	}
}

func (b *binder) visitExpr(e ast.Expression) {
	if e != nil {
		e.Accept(b)
	}
}

func (b *binder) visitBlock(block *ast.Block) {
	if block != nil {
		block.Accept(b)
	}
}

func (b *binder) VisitUnit(u *ast.Unit) {
	st := b.st
	if len(u.Namespace) == 0 {
		b.errs.Add(diagnostics.NewError(diagnostics.ErrFilesMustHaveNamespace, u.Token))
		st.file = st.scopes.Root
	} else {
		file, err := st.table.DefineNamespace(st.scopes.Root, u.Namespace, u.Token)
		b.errs.Add(err)
		st.file = file
	}
	st.ann.Scopes[u] = st.file
	b.namespace = u.NamespacePath()

	b.scope = st.file
	for _, stmt := range u.Statements {
		switch decl := stmt.(type) {
		case *ast.FunctionDeclaration:
			b.declareFunction(decl)
		case *ast.RecordDeclaration:
			b.declareRecord(decl)
		}
	}

	st.main = st.table.NewScope(symbols.ScopeBlock, st.file)
	for _, stmt := range u.Statements {
		switch stmt.(type) {
		case *ast.FunctionDeclaration, *ast.RecordDeclaration:
			b.scope = st.file
		default:
			b.scope = st.main
		}
		stmt.Accept(b)
	}
}

func (b *binder) declareFunction(fd *ast.FunctionDeclaration) *symbols.Function {
	st := b.st
	fn := &symbols.Function{
		Name:      fd.Name.Value,
		Namespace: b.namespace,
		Token:     fd.Name.Token,
		Decl:      fd,
		Scope:     st.table.NewScope(symbols.ScopeFunction, b.scope),
	}
	st.ann.Symbols[fd] = fn
	st.ann.Scopes[fd] = fn.Scope
	b.define(fn)
	st.functions = append(st.functions, fn)

	defer b.enter(fn.Scope)()
	defer b.own(fn.QualifiedName())()
	fn.TypeParams = b.bindTypeParams(fd.TypeParams)
	return fn
}

func (b *binder) declareRecord(rd *ast.RecordDeclaration) *symbols.Record {
	st := b.st
	rec := &symbols.Record{
		Name:  rd.Name.Value,
		Token: rd.Name.Token,
		Decl:  &typesystem.RecordDecl{Name: rd.Name.Value, Namespace: b.namespace, Token: rd.Name.Token},
		Node:  rd,
		Scope: st.table.NewScope(symbols.ScopeRecord, b.scope),
	}
	st.ann.Symbols[rd] = rec
	st.ann.Scopes[rd] = rec.Scope
	b.define(rec)
	st.records = append(st.records, rec)

	defer b.enter(rec.Scope)()
	defer b.own(rec.Decl.QualifiedName())()
	rec.Decl.TypeParams = b.bindTypeParams(rd.TypeParams)
	return rec
}

func (b *binder) bindTypeParams(tps []*ast.TypeParameter) []*typesystem.TypeParam {
	var out []*typesystem.TypeParam
	for _, tp := range tps {
		tp.Accept(b)
		if sym, ok := b.st.ann.Symbols[tp].(*symbols.TypeParameter); ok {
			out = append(out, sym.Param)
		}
	}
	return out
}

func (b *binder) VisitFunctionDeclaration(fd *ast.FunctionDeclaration) {
	fn, ok := b.st.ann.Symbols[fd].(*symbols.Function)
	if !ok {
		fn = b.declareFunction(fd)
	}
	defer b.enter(fn.Scope)()
	for _, p := range fd.Parameters {
		p.Accept(b)
		if sym, ok := b.st.ann.Symbols[p].(*symbols.Parameter); ok {
			fn.Params = append(fn.Params, sym)
		}
	}
	b.visitType(fd.ReturnType)
	b.visitBlock(fd.Body)
}

func (b *binder) VisitRecordDeclaration(rd *ast.RecordDeclaration) {
	rec, ok := b.st.ann.Symbols[rd].(*symbols.Record)
	if !ok {
		rec = b.declareRecord(rd)
	}
	defer b.enter(rec.Scope)()
	for _, f := range rd.Fields {
		f.Accept(b)
	}
}

func (b *binder) VisitTypeParameter(tp *ast.TypeParameter) {
	sym := &symbols.TypeParameter{Param: &typesystem.TypeParam{
		Name:  tp.Name,
		Fin:   tp.Fin,
		Owner: b.owner,
		Token: tp.Token,
	}}
	b.st.ann.Symbols[tp] = sym
	if _, ok := b.st.table.Lookup(b.scope, tp.Name); ok {
		b.errs.Add(diagnostics.NewError(diagnostics.ErrDuplicateTypeParameter, tp.Token, tp.Name))
		return
	}
	b.define(sym)
}

func (b *binder) VisitParameter(p *ast.Parameter) {
	sym := &symbols.Parameter{Name: p.Name, Token: p.Token}
	b.st.ann.Symbols[p] = sym
	b.visitType(p.Type)
	if existing, ok := b.st.table.Lookup(b.scope, p.Name); ok {
		if _, masks := existing.(*symbols.TypeParameter); masks {
			b.errs.Add(diagnostics.NewError(diagnostics.ErrMaskingTypeParameter, p.Token, p.Name))
			return
		}
	}
	b.define(sym)
}

func (b *binder) VisitFieldDeclaration(f *ast.FieldDeclaration) {
	sym := &symbols.Field{Name: f.Name, Token: f.Token}
	b.st.ann.Symbols[f] = sym
	b.visitType(f.Type)
	b.define(sym)
}

func (b *binder) VisitLetStatement(ls *ast.LetStatement) {
	b.visitType(ls.Type)
	b.visitExpr(ls.Value)
	v := &symbols.Variable{Name: ls.Name.Value, Token: ls.Name.Token, Mutable: ls.Mutable}
	b.st.ann.Symbols[ls] = v
	b.st.ann.Symbols[ls.Name] = v
	b.define(v)
}

func (b *binder) VisitAssignStatement(as *ast.AssignStatement) {
	b.visitExpr(as.Value)
	b.st.ann.Symbols[as.Target] = b.st.table.Resolve(b.scope, as.Target.Value, as.Target.Token, b.errs)
}

func (b *binder) VisitExpressionStatement(es *ast.ExpressionStatement) {
	b.visitExpr(es.Expression)
}

func (b *binder) VisitReturnStatement(rs *ast.ReturnStatement) {
	b.visitExpr(rs.Value)
}

func (b *binder) VisitBlock(block *ast.Block) {
	scope := b.st.table.NewScope(symbols.ScopeBlock, b.scope)
	b.st.ann.Scopes[block] = scope
	defer b.enter(scope)()
	for _, stmt := range block.Statements {
		stmt.Accept(b)
	}
}

func (b *binder) VisitIfStatement(is *ast.IfStatement) {
	b.visitExpr(is.Condition)
	b.visitBlock(is.Consequence)
	b.visitBlock(is.Alternative)
}

func (b *binder) VisitForEachStatement(fs *ast.ForEachStatement) {
	b.visitExpr(fs.Iterable)
	loop := b.st.table.NewScope(symbols.ScopeBlock, b.scope)
	b.st.ann.Scopes[fs] = loop
	v := &symbols.Variable{Name: fs.Variable.Value, Token: fs.Variable.Token}
	b.st.ann.Symbols[fs] = v
	b.st.ann.Symbols[fs.Variable] = v
	defer b.enter(loop)()
	b.define(v)
	b.visitBlock(fs.Body)
}

func (b *binder) VisitIdentifier(id *ast.Identifier) {
	b.st.ann.Symbols[id] = b.st.table.Resolve(b.scope, id.Value, id.Token, b.errs)
}

func (b *binder) VisitIntegerLiteral(*ast.IntegerLiteral) {}
func (b *binder) VisitBooleanLiteral(*ast.BooleanLiteral) {}
func (b *binder) VisitStringLiteral(*ast.StringLiteral)   {}

func (b *binder) VisitListLiteral(ll *ast.ListLiteral) {
	b.visitType(ll.ElementType)
	for _, e := range ll.Elements {
		b.visitExpr(e)
	}
}

func (b *binder) VisitRecordLiteral(rl *ast.RecordLiteral) {
	if rl.Type != nil {
		rl.Type.Accept(b)
	}
	for _, f := range rl.Fields {
		b.visitExpr(f.Value)
	}
}

func (b *binder) VisitCallExpression(call *ast.CallExpression) {
	b.visitExpr(call.Function)
	for _, t := range call.TypeArgs {
		b.visitType(t)
	}
	for _, a := range call.Arguments {
		b.visitExpr(a)
	}
}

// Members are resolved by the typer, which knows the object's type.
func (b *binder) VisitMemberExpression(me *ast.MemberExpression) {
	b.visitExpr(me.Object)
}

func (b *binder) VisitInfixExpression(ie *ast.InfixExpression) {
	b.visitExpr(ie.Left)
	b.visitExpr(ie.Right)
}

func (b *binder) VisitPrefixExpression(pe *ast.PrefixExpression) {
	b.visitExpr(pe.Right)
}

func (b *binder) VisitLambdaExpression(le *ast.LambdaExpression) {
	scope := b.st.table.NewScope(symbols.ScopeFunction, b.scope)
	b.st.ann.Scopes[le] = scope
	defer b.enter(scope)()
	for _, p := range le.Parameters {
		p.Accept(b)
	}
	b.visitType(le.ReturnType)
	b.visitBlock(le.Body)
}

func (b *binder) VisitNamedType(nt *ast.NamedType) {
	b.st.ann.Scopes[nt] = b.scope
	for _, a := range nt.Args {
		b.visitType(a)
	}
}

func (b *binder) VisitFinLiteral(*ast.FinLiteral) {}

func (b *binder) VisitFunctionTypeExpression(ft *ast.FunctionTypeExpression) {
	for _, p := range ft.Params {
		b.visitType(p)
	}
	b.visitType(ft.Return)
	b.visitType(ft.Cost)
}
