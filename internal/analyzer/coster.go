package analyzer

import (
	"github.com/funvibe/finlang/internal/ast"
	"github.com/funvibe/finlang/internal/costs"
	"github.com/funvibe/finlang/internal/diagnostics"
	"github.com/funvibe/finlang/internal/graph"
	"github.com/funvibe/finlang/internal/symbols"
	"github.com/funvibe/finlang/internal/typesystem"
)

// computeMultipliers records how many times each loop body can run: the
// Fin bound of the collection it iterates.
func computeMultipliers(st *state, errs *diagnostics.Errors) {
	ast.Walk(st.unit, func(n ast.Node) bool {
		fs, ok := n.(*ast.ForEachStatement)
		if !ok {
			return true
		}
		var m costs.Expression = costs.ConstantFin{}
		if obj, ok := st.ann.TypeOf(fs.Iterable).(typesystem.ObjectType); ok {
			if _, bound, ok := obj.Iteration(); ok {
				if c, ok := typesystem.CostOf(bound); ok {
					m = c
				}
			}
		}
		st.ann.Multipliers[fs] = m
		return true
	})
}

// sortFunctions orders the unit's functions by the calls between them and
// rejects recursion, direct or mutual.
func sortFunctions(st *state, errs *diagnostics.Errors) {
	g := graph.New[*symbols.Function]()
	for _, fn := range st.functions {
		g.AddNode(fn)
	}
	for _, fn := range st.functions {
		if fn.Decl.Body == nil {
			continue
		}
		ast.Walk(fn.Decl.Body, func(n ast.Node) bool {
			switch n.(type) {
			case *ast.Identifier, *ast.MemberExpression:
				if callee, ok := st.ann.Symbols[n].(*symbols.Function); ok && !callee.IsPlatform() {
					g.AddEdge(fn, callee)
					st.functionEdges = append(st.functionEdges, edge[*symbols.Function]{from: fn, to: callee})
				}
			}
			return true
		})
	}
	st.functionOrder = g.Sort()
	for _, fn := range st.functionOrder.Cycle {
		errs.Add(diagnostics.NewError(diagnostics.ErrRecursiveFunctionDetected, fn.Token, fn.QualifiedName()))
	}
}

// costFunctions computes each function's cost, callees first, so that a
// call can use its callee's finished cost.
func costFunctions(st *state, errs *diagnostics.Errors) {
	c := &coster{st: st, errs: errs}
	mine := make(map[*symbols.Function]bool, len(st.functions))
	for _, fn := range st.functions {
		mine[fn] = true
	}
	order := st.functionOrder.Order
	for i := len(order) - 1; i >= 0; i-- {
		fn := order[i]
		if !mine[fn] {
			continue
		}
		fn.Cost = costs.Simplify(c.block(fn.Decl.Body))
		st.ann.Costs[fn.Decl] = fn.Cost
		if v, ok := costs.Evaluate(fn.Cost); ok {
			st.ann.Bounds[fn.Decl] = &symbols.Fin{Value: v, Token: fn.Token}
		}
	}
}

// costUnit sums the top-level statements. The result must not depend on
// any type parameter.
func costUnit(st *state, errs *diagnostics.Errors) {
	c := &coster{st: st, errs: errs}
	var terms []costs.Expression
	for _, stmt := range st.unit.Statements {
		switch stmt.(type) {
		case *ast.FunctionDeclaration, *ast.RecordDeclaration:
			continue
		}
		terms = append(terms, c.cost(stmt))
	}
	st.cost = costs.Simplify(costs.NewSum(terms...))
	st.ann.Costs[st.unit] = st.cost
	v, ok := costs.Evaluate(st.cost)
	if !ok {
		errs.Add(diagnostics.NewError(diagnostics.ErrCostNotClosed, st.unit.Token, st.cost))
		return
	}
	st.costValue = v
	st.ann.Bounds[st.unit] = &symbols.Fin{Value: v, Token: st.unit.Token}
}

func enforceCostLimit(st *state, errs *diagnostics.Errors) {
	if st.costValue > st.arch.CostCeiling {
		errs.Add(diagnostics.NewError(diagnostics.ErrCostOverLimit, st.unit.Token, st.costValue, st.arch.CostCeiling))
	}
}

// coster assigns a cost expression to every statement and expression it
// visits. Literals and names are free, operators and platform calls cost
// one step, and branches take the dearer side. A loop multiplies its body,
// charged at least one step, by the collection bound.
type coster struct {
	st   *state
	errs *diagnostics.Errors
}

func (c *coster) set(n ast.Node, e costs.Expression) {
	c.st.ann.Costs[n] = e
}

func (c *coster) cost(n ast.Node) costs.Expression {
	if n == nil {
		return costs.Zero
	}
	n.Accept(c)
	return c.st.ann.CostOf(n)
}

func (c *coster) expr(e ast.Expression) costs.Expression {
	if e == nil {
		return costs.Zero
	}
	return c.cost(e)
}

func (c *coster) block(b *ast.Block) costs.Expression {
	if b == nil {
		return costs.Zero
	}
	return c.cost(b)
}

func (c *coster) VisitUnit(*ast.Unit) {}

// Function bodies are costed by costFunctions; a declaration statement
// itself costs nothing.
func (c *coster) VisitFunctionDeclaration(fd *ast.FunctionDeclaration) { c.set(fd, costs.Zero) }
func (c *coster) VisitRecordDeclaration(rd *ast.RecordDeclaration)     { c.set(rd, costs.Zero) }
func (c *coster) VisitTypeParameter(*ast.TypeParameter)                {}
func (c *coster) VisitParameter(*ast.Parameter)                        {}
func (c *coster) VisitFieldDeclaration(*ast.FieldDeclaration)          {}

func (c *coster) VisitLetStatement(ls *ast.LetStatement) { c.set(ls, c.expr(ls.Value)) }

func (c *coster) VisitAssignStatement(as *ast.AssignStatement) { c.set(as, c.expr(as.Value)) }

func (c *coster) VisitExpressionStatement(es *ast.ExpressionStatement) {
	c.set(es, c.expr(es.Expression))
}

func (c *coster) VisitReturnStatement(rs *ast.ReturnStatement) { c.set(rs, c.expr(rs.Value)) }

func (c *coster) VisitBlock(b *ast.Block) {
	terms := make([]costs.Expression, len(b.Statements))
	for i, stmt := range b.Statements {
		terms[i] = c.cost(stmt)
	}
	c.set(b, costs.NewSum(terms...))
}

func (c *coster) VisitIfStatement(is *ast.IfStatement) {
	c.set(is, costs.NewSum(
		c.expr(is.Condition),
		costs.NewMax(c.block(is.Consequence), c.block(is.Alternative)),
	))
}

func (c *coster) VisitForEachStatement(fs *ast.ForEachStatement) {
	m, ok := c.st.ann.Multipliers[fs]
	if !ok {
		m = costs.ConstantFin{}
	}
	// Every iteration costs at least one step, even with a free body.
	step := costs.NewMax(c.block(fs.Body), costs.ConstantFin{})
	c.set(fs, costs.NewSum(c.expr(fs.Iterable), costs.NewProduct(m, step)))
}

func (c *coster) VisitIdentifier(id *ast.Identifier)         { c.set(id, costs.Zero) }
func (c *coster) VisitIntegerLiteral(il *ast.IntegerLiteral) { c.set(il, costs.Zero) }
func (c *coster) VisitBooleanLiteral(bl *ast.BooleanLiteral) { c.set(bl, costs.Zero) }
func (c *coster) VisitStringLiteral(sl *ast.StringLiteral)   { c.set(sl, costs.Zero) }

func (c *coster) VisitListLiteral(ll *ast.ListLiteral) {
	terms := make([]costs.Expression, len(ll.Elements))
	for i, e := range ll.Elements {
		terms[i] = c.expr(e)
	}
	c.set(ll, costs.NewSum(terms...))
}

func (c *coster) VisitRecordLiteral(rl *ast.RecordLiteral) {
	terms := make([]costs.Expression, len(rl.Fields))
	for i, f := range rl.Fields {
		terms[i] = c.expr(f.Value)
	}
	c.set(rl, costs.NewSum(terms...))
}

// A call costs its callee expression, its arguments and one run of the
// callee instantiated for this call site.
func (c *coster) VisitCallExpression(call *ast.CallExpression) {
	terms := []costs.Expression{c.expr(call.Function)}
	for _, a := range call.Arguments {
		terms = append(terms, c.expr(a))
	}
	inst := c.st.ann.Instantiations[call]
	terms = append(terms, calleeCost(inst))
	c.checkFunctionArguments(call, inst)
	c.set(call, costs.NewSum(terms...))
}

func calleeCost(inst *Instantiation) costs.Expression {
	if inst == nil {
		return costs.ConstantFin{}
	}
	if fn, ok := inst.Callee.(*symbols.Function); ok {
		if fn.Cost == nil {
			return costs.ConstantFin{}
		}
		return inst.Subst.ApplyCost(fn.Cost)
	}
	if inst.Signature.Cost != nil {
		return inst.Signature.Cost
	}
	return costs.ConstantFin{}
}

// checkFunctionArguments holds every function passed to a call to the cost
// bound its parameter declares.
func (c *coster) checkFunctionArguments(call *ast.CallExpression, inst *Instantiation) {
	if inst == nil {
		return
	}
	for i, a := range call.Arguments {
		if i >= len(inst.Signature.Params) {
			break
		}
		param, ok := inst.Signature.Params[i].(typesystem.FunctionType)
		if !ok {
			continue
		}
		bound := param.Cost
		if bound == nil {
			bound = costs.ConstantFin{}
		}
		actual := c.functionValueCost(a)
		if actual == nil || costs.AtMost(actual, bound) {
			continue
		}
		c.errs.Add(diagnostics.NewError(diagnostics.ErrFunctionCostExceedsBound, a.GetToken(),
			costs.Simplify(actual), costs.Simplify(bound)))
	}
}

// functionValueCost is the cost of one call of a function-valued argument.
func (c *coster) functionValueCost(a ast.Expression) costs.Expression {
	if le, ok := a.(*ast.LambdaExpression); ok {
		return c.st.ann.LambdaCosts[le]
	}
	switch s := c.st.ann.Symbols[a].(type) {
	case *symbols.Function:
		if s.Cost == nil {
			return costs.ConstantFin{}
		}
		return s.Cost
	case *symbols.Parameter:
		if ft, ok := s.Type.(typesystem.FunctionType); ok {
			return ft.Cost
		}
	}
	return nil
}

func (c *coster) VisitMemberExpression(me *ast.MemberExpression) { c.set(me, c.expr(me.Object)) }

func (c *coster) VisitInfixExpression(ie *ast.InfixExpression) {
	c.set(ie, costs.NewSum(c.expr(ie.Left), c.expr(ie.Right), costs.ConstantFin{}))
}

func (c *coster) VisitPrefixExpression(pe *ast.PrefixExpression) {
	c.set(pe, costs.NewSum(c.expr(pe.Right), costs.ConstantFin{}))
}

// A lambda costs nothing where it is written; its body is charged at each
// call through the parameter it is passed to.
func (c *coster) VisitLambdaExpression(le *ast.LambdaExpression) {
	c.st.ann.LambdaCosts[le] = costs.Simplify(c.block(le.Body))
	c.set(le, costs.Zero)
}

func (c *coster) VisitNamedType(*ast.NamedType)                           {}
func (c *coster) VisitFinLiteral(*ast.FinLiteral)                         {}
func (c *coster) VisitFunctionTypeExpression(*ast.FunctionTypeExpression) {}
