package analyzer

import (
	"github.com/funvibe/finlang/internal/ast"
	"github.com/funvibe/finlang/internal/diagnostics"
	"github.com/funvibe/finlang/internal/symbols"
	"github.com/funvibe/finlang/internal/typesystem"
)

// checker validates the types the typer inferred: annotations, call
// arguments, assignments, conditions, iteration, operators and returns.
type checker struct {
	st      *state
	errs    *diagnostics.Errors
	returns []typesystem.Type // expected return type of each enclosing function
}

func checkTypes(st *state, errs *diagnostics.Errors) {
	st.unit.Accept(&checker{st: st, errs: errs})
}

func (c *checker) expect(want, got typesystem.Type, at ast.Node) {
	if !typesystem.Assignable(want, got) {
		c.errs.Add(diagnostics.NewError(diagnostics.ErrTypeMismatch, at.GetToken(), want, got))
	}
}

func (c *checker) visitExpr(e ast.Expression) {
	if e != nil {
		e.Accept(c)
	}
}

func (c *checker) visitBlock(b *ast.Block) {
	if b != nil {
		b.Accept(c)
	}
}

func (c *checker) VisitUnit(u *ast.Unit) {
	for _, stmt := range u.Statements {
		stmt.Accept(c)
	}
}

func (c *checker) VisitFunctionDeclaration(fd *ast.FunctionDeclaration) {
	ret := typesystem.Type(typesystem.Unit)
	if fn, ok := c.st.ann.Symbols[fd].(*symbols.Function); ok && fn.Return != nil {
		ret = fn.Return
	}
	c.checkBody(fd.Body, ret, fd, fd.Name.Value)
}

func (c *checker) checkBody(body *ast.Block, ret typesystem.Type, at ast.Node, name string) {
	c.returns = append(c.returns, ret)
	c.visitBlock(body)
	c.returns = c.returns[:len(c.returns)-1]

	if typesystem.IsError(ret) || typesystem.Equal(ret, typesystem.Unit) {
		return
	}
	if !alwaysReturns(body) {
		c.errs.Add(diagnostics.NewError(diagnostics.ErrMissingReturn, at.GetToken(), name))
	}
}

// alwaysReturns reports whether every path through b ends in a return.
func alwaysReturns(b *ast.Block) bool {
	if b == nil || len(b.Statements) == 0 {
		return false
	}
	switch last := b.Statements[len(b.Statements)-1].(type) {
	case *ast.ReturnStatement:
		return true
	case *ast.Block:
		return alwaysReturns(last)
	case *ast.IfStatement:
		return last.Alternative != nil && alwaysReturns(last.Consequence) && alwaysReturns(last.Alternative)
	}
	return false
}

func (c *checker) VisitRecordDeclaration(*ast.RecordDeclaration) {}
func (c *checker) VisitTypeParameter(*ast.TypeParameter)         {}
func (c *checker) VisitParameter(*ast.Parameter)                 {}
func (c *checker) VisitFieldDeclaration(*ast.FieldDeclaration)   {}

func (c *checker) VisitLetStatement(ls *ast.LetStatement) {
	c.visitExpr(ls.Value)
	if ls.Type != nil {
		c.expect(c.st.ann.TypeOf(ls.Type), c.st.ann.TypeOf(ls.Value), ls.Value)
	}
}

func (c *checker) VisitAssignStatement(as *ast.AssignStatement) {
	c.visitExpr(as.Value)
	sym := c.st.ann.Symbols[as.Target]
	if sym == nil || symbols.IsError(sym) {
		return
	}
	v, ok := sym.(*symbols.Variable)
	if !ok || !v.Mutable {
		c.errs.Add(diagnostics.NewError(diagnostics.ErrNotMutable, as.Target.Token, as.Target.Value))
		return
	}
	c.expect(v.ValueType(), c.st.ann.TypeOf(as.Value), as.Value)
}

func (c *checker) VisitExpressionStatement(es *ast.ExpressionStatement) {
	c.visitExpr(es.Expression)
}

func (c *checker) VisitReturnStatement(rs *ast.ReturnStatement) {
	c.visitExpr(rs.Value)
	// A return outside any function is a ban, reported later.
	if len(c.returns) == 0 {
		return
	}
	want := c.returns[len(c.returns)-1]
	if rs.Value == nil {
		c.expect(want, typesystem.Unit, rs)
		return
	}
	c.expect(want, c.st.ann.TypeOf(rs.Value), rs.Value)
}

func (c *checker) VisitBlock(b *ast.Block) {
	for _, stmt := range b.Statements {
		stmt.Accept(c)
	}
}

func (c *checker) VisitIfStatement(is *ast.IfStatement) {
	c.visitExpr(is.Condition)
	c.expect(typesystem.Bool, c.st.ann.TypeOf(is.Condition), is.Condition)
	c.visitBlock(is.Consequence)
	c.visitBlock(is.Alternative)
}

func (c *checker) VisitForEachStatement(fs *ast.ForEachStatement) {
	c.visitExpr(fs.Iterable)
	typ := c.st.ann.TypeOf(fs.Iterable)
	iterable := typesystem.IsError(typ)
	if obj, ok := typ.(typesystem.ObjectType); ok {
		_, _, iterable = obj.Iteration()
	}
	if !iterable {
		c.errs.Add(diagnostics.NewError(diagnostics.ErrNotIterable, fs.Iterable.GetToken(), typ))
	}
	c.visitBlock(fs.Body)
}

func (c *checker) VisitIdentifier(*ast.Identifier)         {}
func (c *checker) VisitIntegerLiteral(*ast.IntegerLiteral) {}
func (c *checker) VisitBooleanLiteral(*ast.BooleanLiteral) {}
func (c *checker) VisitStringLiteral(*ast.StringLiteral)   {}

func (c *checker) VisitListLiteral(ll *ast.ListLiteral) {
	for _, e := range ll.Elements {
		c.visitExpr(e)
	}
	list, ok := c.st.ann.TypeOf(ll).(typesystem.ObjectType)
	if !ok || len(list.Args) == 0 {
		return
	}
	for _, e := range ll.Elements {
		c.expect(list.Args[0], c.st.ann.TypeOf(e), e)
	}
}

func (c *checker) VisitRecordLiteral(rl *ast.RecordLiteral) {
	for _, f := range rl.Fields {
		c.visitExpr(f.Value)
	}
	rt, ok := c.st.ann.TypeOf(rl).(typesystem.RecordType)
	if !ok {
		return
	}
	given := make(map[string]bool, len(rl.Fields))
	for _, f := range rl.Fields {
		given[f.Name] = true
		want, ok := rt.Field(f.Name)
		if !ok {
			c.errs.Add(diagnostics.NewError(diagnostics.ErrUnknownMember, f.Token, rt, f.Name))
			continue
		}
		c.expect(want, c.st.ann.TypeOf(f.Value), f.Value)
	}
	for _, f := range rt.Decl.Fields {
		if !given[f.Name] {
			c.errs.Add(diagnostics.NewError(diagnostics.ErrMissingField, rl.Token, rt, f.Name))
		}
	}
}

func (c *checker) VisitCallExpression(call *ast.CallExpression) {
	c.visitExpr(call.Function)
	for _, a := range call.Arguments {
		c.visitExpr(a)
	}
	inst, ok := c.st.ann.Instantiations[call]
	if !ok {
		return
	}
	for i, a := range call.Arguments {
		if i >= len(inst.Signature.Params) {
			break
		}
		c.expect(inst.Signature.Params[i], c.st.ann.TypeOf(a), a)
	}
}

func (c *checker) VisitMemberExpression(me *ast.MemberExpression) {
	c.visitExpr(me.Object)
}

func (c *checker) VisitInfixExpression(ie *ast.InfixExpression) {
	c.visitExpr(ie.Left)
	c.visitExpr(ie.Right)
	left, right := c.st.ann.TypeOf(ie.Left), c.st.ann.TypeOf(ie.Right)
	if _, ok := typesystem.LookupInfix(ie.Operator, left, right); !ok {
		c.errs.Add(diagnostics.NewError(diagnostics.ErrNoMatchingOperator, ie.Token, ie.Operator, left.String()+" and "+right.String()))
	}
}

func (c *checker) VisitPrefixExpression(pe *ast.PrefixExpression) {
	c.visitExpr(pe.Right)
	operand := c.st.ann.TypeOf(pe.Right)
	if _, ok := typesystem.LookupPrefix(pe.Operator, operand); !ok {
		c.errs.Add(diagnostics.NewError(diagnostics.ErrNoMatchingOperator, pe.Token, pe.Operator, operand))
	}
}

func (c *checker) VisitLambdaExpression(le *ast.LambdaExpression) {
	ret := typesystem.Type(typesystem.Unit)
	if ft, ok := c.st.ann.TypeOf(le).(typesystem.FunctionType); ok && ft.Return != nil {
		ret = ft.Return
	}
	c.checkBody(le.Body, ret, le, "lambda")
}

func (c *checker) VisitNamedType(*ast.NamedType)                           {}
func (c *checker) VisitFinLiteral(*ast.FinLiteral)                         {}
func (c *checker) VisitFunctionTypeExpression(*ast.FunctionTypeExpression) {}
