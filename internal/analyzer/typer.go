package analyzer

import (
	"github.com/funvibe/finlang/internal/ast"
	"github.com/funvibe/finlang/internal/diagnostics"
	"github.com/funvibe/finlang/internal/prelude"
	"github.com/funvibe/finlang/internal/symbols"
	"github.com/funvibe/finlang/internal/typesystem"
)

// typer assigns a type to every expression bottom-up and resolves member
// accesses and call instantiations. Anything it cannot type gets the error
// type; compatibility is left to the checker.
type typer struct {
	st   *state
	errs *diagnostics.Errors
	// qualifier is set while visiting the object of a member access, where
	// a namespace is allowed.
	qualifier bool
}

func inferTypes(st *state, errs *diagnostics.Errors) {
	st.unit.Accept(&typer{st: st, errs: errs})
}

func (t *typer) set(n ast.Node, typ typesystem.Type) {
	t.st.ann.Types[n] = typ
}

func (t *typer) report(code diagnostics.ErrorCode, n ast.Node, args ...interface{}) {
	t.errs.Add(diagnostics.NewError(code, n.GetToken(), args...))
}

func (t *typer) visitExpr(e ast.Expression) {
	if e != nil {
		e.Accept(t)
	}
}

func (t *typer) visitBlock(b *ast.Block) {
	if b != nil {
		b.Accept(t)
	}
}

func (t *typer) VisitUnit(u *ast.Unit) {
	for _, stmt := range u.Statements {
		stmt.Accept(t)
	}
}

func (t *typer) VisitFunctionDeclaration(fd *ast.FunctionDeclaration) {
	t.visitBlock(fd.Body)
}

func (t *typer) VisitRecordDeclaration(*ast.RecordDeclaration) {}
func (t *typer) VisitTypeParameter(*ast.TypeParameter)         {}
func (t *typer) VisitParameter(*ast.Parameter)                 {}
func (t *typer) VisitFieldDeclaration(*ast.FieldDeclaration)   {}

func (t *typer) VisitLetStatement(ls *ast.LetStatement) {
	t.visitExpr(ls.Value)
	v, ok := t.st.ann.Symbols[ls].(*symbols.Variable)
	if !ok {
		return
	}
	if ls.Type != nil {
		v.Type = t.st.resolveType(ls.Type, t.errs)
		return
	}
	v.Type = t.st.ann.TypeOf(ls.Value)
}

func (t *typer) VisitAssignStatement(as *ast.AssignStatement) {
	t.visitExpr(as.Value)
}

func (t *typer) VisitExpressionStatement(es *ast.ExpressionStatement) {
	t.visitExpr(es.Expression)
}

func (t *typer) VisitReturnStatement(rs *ast.ReturnStatement) {
	t.visitExpr(rs.Value)
}

func (t *typer) VisitBlock(b *ast.Block) {
	for _, stmt := range b.Statements {
		stmt.Accept(t)
	}
}

func (t *typer) VisitIfStatement(is *ast.IfStatement) {
	t.visitExpr(is.Condition)
	t.visitBlock(is.Consequence)
	t.visitBlock(is.Alternative)
}

func (t *typer) VisitForEachStatement(fs *ast.ForEachStatement) {
	t.visitExpr(fs.Iterable)
	var elem typesystem.Type = typesystem.ErrorType{}
	if obj, ok := t.st.ann.TypeOf(fs.Iterable).(typesystem.ObjectType); ok {
		if e, _, ok := obj.Iteration(); ok {
			elem = e
		}
	}
	if v, ok := t.st.ann.Symbols[fs].(*symbols.Variable); ok {
		v.Type = elem
	}
	t.set(fs.Variable, elem)
	t.visitBlock(fs.Body)
}

// valueType is the type of a name used as an expression.
func (t *typer) valueType(sym symbols.Symbol, n ast.Node, name string, allowNamespace bool) typesystem.Type {
	switch s := sym.(type) {
	case nil:
		return typesystem.ErrorType{}
	case *symbols.Namespace:
		if !allowNamespace {
			t.report(diagnostics.ErrNotAValue, n, name)
		}
		return nil
	case symbols.Value:
		return s.ValueType()
	}
	t.report(diagnostics.ErrNotAValue, n, name)
	return typesystem.ErrorType{}
}

func (t *typer) VisitIdentifier(id *ast.Identifier) {
	allowNamespace := t.qualifier
	t.qualifier = false
	if typ := t.valueType(t.st.ann.Symbols[id], id, id.Value, allowNamespace); typ != nil {
		t.set(id, typ)
	}
}

func (t *typer) VisitIntegerLiteral(il *ast.IntegerLiteral) { t.set(il, typesystem.Int) }
func (t *typer) VisitBooleanLiteral(bl *ast.BooleanLiteral) { t.set(bl, typesystem.Bool) }
func (t *typer) VisitStringLiteral(sl *ast.StringLiteral)   { t.set(sl, typesystem.String) }

func (t *typer) VisitListLiteral(ll *ast.ListLiteral) {
	for _, e := range ll.Elements {
		t.visitExpr(e)
	}
	var elem typesystem.Type
	switch {
	case ll.ElementType != nil:
		elem = t.st.resolveType(ll.ElementType, t.errs)
	case len(ll.Elements) > 0:
		elem = t.st.ann.TypeOf(ll.Elements[0])
	default:
		t.report(diagnostics.ErrCannotInferType, ll, "an empty list")
		elem = typesystem.ErrorType{}
	}
	t.set(ll, prelude.ListOf(t.st.list, elem, typesystem.FinType{Value: uint64(len(ll.Elements))}))
}

func (t *typer) VisitRecordLiteral(rl *ast.RecordLiteral) {
	for _, f := range rl.Fields {
		t.visitExpr(f.Value)
	}
	nt := rl.Type
	if nt == nil {
		t.set(rl, typesystem.ErrorType{})
		return
	}
	sym, ok := t.st.table.FetchQualified(t.st.scopeOf(nt), nt.Path)
	if !ok {
		t.report(diagnostics.ErrIdentifierNotFound, nt, nt.Name())
		t.set(rl, typesystem.ErrorType{})
		return
	}
	rec, ok := sym.(*symbols.Record)
	if !ok {
		t.report(diagnostics.ErrTypeMismatch, nt, "a record type", nt.Name())
		t.set(rl, typesystem.ErrorType{})
		return
	}
	t.st.ann.Symbols[rl] = rec

	// Type arguments left out are inferred from the field values.
	if len(nt.Args) == 0 && len(rec.Decl.TypeParams) > 0 {
		bindings := typesystem.Subst{}
		for _, f := range rl.Fields {
			for _, decl := range rec.Decl.Fields {
				if decl.Name == f.Name {
					typesystem.Unify(decl.Type, t.st.ann.TypeOf(f.Value), rec.Decl.TypeParams, bindings)
				}
			}
		}
		for _, p := range rec.Decl.TypeParams {
			if _, ok := bindings[p]; !ok {
				t.report(diagnostics.ErrCannotInferTypeArgument, rl, p.Name, rec.Name)
				bindings[p] = typesystem.ErrorType{}
			}
		}
		args := bindings.Args(rec.Decl.TypeParams)
		t.st.ann.Symbols[nt] = rec
		t.st.ann.Applications = append(t.st.ann.Applications, Application{
			Token:  rl.Token,
			Owner:  rec.Decl.QualifiedName(),
			Params: rec.Decl.TypeParams,
			Args:   args,
		})
		inst := rec.Instantiate(args)
		t.set(nt, inst)
		t.set(rl, inst)
		return
	}
	t.set(rl, t.st.resolveType(nt, t.errs))
}

func (t *typer) VisitCallExpression(call *ast.CallExpression) {
	t.visitExpr(call.Function)
	argTypes := make([]typesystem.Type, len(call.Arguments))
	for i, a := range call.Arguments {
		t.visitExpr(a)
		argTypes[i] = t.st.ann.TypeOf(a)
	}

	calleeType := t.st.ann.TypeOf(call.Function)
	if typesystem.IsError(calleeType) {
		t.set(call, typesystem.ErrorType{})
		return
	}
	name := describe(call.Function)
	ft, ok := calleeType.(typesystem.FunctionType)
	if !ok {
		t.report(diagnostics.ErrNotCallable, call, name)
		t.set(call, typesystem.ErrorType{})
		return
	}
	if len(argTypes) != len(ft.Params) {
		t.report(diagnostics.ErrArityMismatch, call, name, len(ft.Params), len(argTypes))
	}

	callee := t.st.ann.Symbols[call.Function]
	inst := &Instantiation{Callee: callee, Signature: ft}
	if fn, ok := callee.(*symbols.Function); ok {
		inst.Function = fn
	}
	switch {
	case len(ft.TypeParams) > 0:
		inst.Subst = t.instantiate(call, ft, name, argTypes)
		inst.TypeArgs = inst.Subst.Args(ft.TypeParams)
		inst.Signature = ft.Apply(inst.Subst).(typesystem.FunctionType)
		t.st.ann.Applications = append(t.st.ann.Applications, Application{
			Token:  call.Token,
			Owner:  name,
			Params: ft.TypeParams,
			Args:   inst.TypeArgs,
		})
	case len(call.TypeArgs) > 0:
		t.report(diagnostics.ErrTypeArgumentArityMismatch, call, name, 0, len(call.TypeArgs))
	}
	t.st.ann.Instantiations[call] = inst

	ret := inst.Signature.Return
	if ret == nil {
		ret = typesystem.Unit
	}
	t.set(call, ret)
}

// instantiate binds the type parameters of a generic callee, from explicit
// type arguments when given and by unifying parameter and argument types
// otherwise. Parameters that stay unbound are reported and bound to the
// error type.
func (t *typer) instantiate(call *ast.CallExpression, ft typesystem.FunctionType, name string, argTypes []typesystem.Type) typesystem.Subst {
	if len(call.TypeArgs) > 0 {
		if len(call.TypeArgs) != len(ft.TypeParams) {
			t.report(diagnostics.ErrTypeArgumentArityMismatch, call, name, len(ft.TypeParams), len(call.TypeArgs))
			s := typesystem.Subst{}
			for _, p := range ft.TypeParams {
				s[p] = typesystem.ErrorType{}
			}
			return s
		}
		args := make([]typesystem.Type, len(call.TypeArgs))
		for i, a := range call.TypeArgs {
			args[i] = t.st.resolveType(a, t.errs)
		}
		return typesystem.NewSubst(ft.TypeParams, args)
	}

	bindings := typesystem.Subst{}
	for i, p := range ft.Params {
		if i < len(argTypes) {
			typesystem.Unify(p, argTypes[i], ft.TypeParams, bindings)
		}
	}
	for _, p := range ft.TypeParams {
		if _, ok := bindings[p]; !ok {
			t.report(diagnostics.ErrCannotInferTypeArgument, call, p.Name, name)
			bindings[p] = typesystem.ErrorType{}
		}
	}
	return bindings
}

func (t *typer) VisitMemberExpression(me *ast.MemberExpression) {
	allowNamespace := t.qualifier
	switch me.Object.(type) {
	case *ast.Identifier, *ast.MemberExpression:
		t.qualifier = true
	default:
		t.qualifier = false
	}
	me.Object.Accept(t)
	t.qualifier = false

	name := me.Member.Value
	ann := t.st.ann
	if ns, ok := ann.Symbols[me.Object].(*symbols.Namespace); ok {
		sym, found := t.st.table.Lookup(ns.Scope, name)
		if !found {
			t.report(diagnostics.ErrIdentifierNotFound, me, ns.Path+"."+name)
			t.set(me, typesystem.ErrorType{})
			return
		}
		ann.Symbols[me] = sym
		if typ := t.valueType(sym, me, ns.Path+"."+name, allowNamespace); typ != nil {
			t.set(me, typ)
		}
		return
	}

	objType := ann.TypeOf(me.Object)
	switch ot := objType.(type) {
	case typesystem.ErrorType:
		t.set(me, ot)
		return
	case typesystem.RecordType:
		if ft, ok := ot.Field(name); ok {
			ann.Symbols[me] = &symbols.Field{Name: name, Token: me.Member.Token, Type: ft}
			t.set(me, ft)
			return
		}
	case typesystem.ObjectType:
		if ft, ok := ot.Field(name); ok {
			ann.Symbols[me] = &symbols.PlatformField{Name: name, Owner: ot.Decl, Type: ft}
			t.set(me, ft)
			return
		}
		if mt, ok := ot.Method(name); ok {
			ann.Symbols[me] = &symbols.Method{Name: name, Owner: ot.Decl, Type: mt}
			t.set(me, mt)
			return
		}
	}
	t.report(diagnostics.ErrUnknownMember, me, objType, name)
	t.set(me, typesystem.ErrorType{})
}

func (t *typer) VisitInfixExpression(ie *ast.InfixExpression) {
	t.visitExpr(ie.Left)
	t.visitExpr(ie.Right)
	if res, ok := typesystem.LookupInfix(ie.Operator, t.st.ann.TypeOf(ie.Left), t.st.ann.TypeOf(ie.Right)); ok {
		t.set(ie, res)
		return
	}
	t.set(ie, typesystem.ErrorType{})
}

func (t *typer) VisitPrefixExpression(pe *ast.PrefixExpression) {
	t.visitExpr(pe.Right)
	if res, ok := typesystem.LookupPrefix(pe.Operator, t.st.ann.TypeOf(pe.Right)); ok {
		t.set(pe, res)
		return
	}
	t.set(pe, typesystem.ErrorType{})
}

func (t *typer) VisitLambdaExpression(le *ast.LambdaExpression) {
	ft := typesystem.FunctionType{Return: typesystem.Unit}
	for _, p := range le.Parameters {
		if sym, ok := t.st.ann.Symbols[p].(*symbols.Parameter); ok {
			ft.Params = append(ft.Params, sym.ValueType())
		}
	}
	if le.ReturnType != nil {
		ft.Return = t.st.resolveType(le.ReturnType, t.errs)
	}
	t.set(le, ft)
	t.visitBlock(le.Body)
}

func (t *typer) VisitNamedType(*ast.NamedType)                           {}
func (t *typer) VisitFinLiteral(*ast.FinLiteral)                         {}
func (t *typer) VisitFunctionTypeExpression(*ast.FunctionTypeExpression) {}

// describe renders a callee or value expression for diagnostics.
func describe(e ast.Expression) string {
	switch n := e.(type) {
	case *ast.Identifier:
		return n.Value
	case *ast.MemberExpression:
		return describe(n.Object) + "." + n.Member.Value
	case *ast.CallExpression:
		return describe(n.Function) + "(...)"
	case *ast.LambdaExpression:
		return "lambda"
	case nil:
		return "<nil>"
	}
	return e.TokenLiteral()
}
