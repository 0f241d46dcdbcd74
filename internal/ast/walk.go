package ast

// Walk traverses the AST starting from node, calling fn for each node.
// If fn returns false, Walk stops traversing that branch.
func Walk(node Node, fn func(Node) bool) {
	if node == nil || !fn(node) {
		return
	}

	switch n := node.(type) {
	case *Unit:
		for _, stmt := range n.Statements {
			Walk(stmt, fn)
		}

	case *FunctionDeclaration:
		walkIdent(n.Name, fn)
		for _, tp := range n.TypeParams {
			Walk(tp, fn)
		}
		for _, p := range n.Parameters {
			Walk(p, fn)
		}
		walkType(n.ReturnType, fn)
		walkBlock(n.Body, fn)

	case *RecordDeclaration:
		walkIdent(n.Name, fn)
		for _, tp := range n.TypeParams {
			Walk(tp, fn)
		}
		for _, f := range n.Fields {
			Walk(f, fn)
		}

	case *Parameter:
		walkType(n.Type, fn)

	case *FieldDeclaration:
		walkType(n.Type, fn)

	case *LetStatement:
		walkIdent(n.Name, fn)
		walkType(n.Type, fn)
		walkExpr(n.Value, fn)

	case *AssignStatement:
		walkIdent(n.Target, fn)
		walkExpr(n.Value, fn)

	case *ExpressionStatement:
		walkExpr(n.Expression, fn)

	case *ReturnStatement:
		walkExpr(n.Value, fn)

	case *Block:
		for _, stmt := range n.Statements {
			Walk(stmt, fn)
		}

	case *IfStatement:
		walkExpr(n.Condition, fn)
		walkBlock(n.Consequence, fn)
		walkBlock(n.Alternative, fn)

	case *ForEachStatement:
		walkIdent(n.Variable, fn)
		walkExpr(n.Iterable, fn)
		walkBlock(n.Body, fn)

	case *ListLiteral:
		walkType(n.ElementType, fn)
		for _, e := range n.Elements {
			walkExpr(e, fn)
		}

	case *RecordLiteral:
		if n.Type != nil {
			Walk(n.Type, fn)
		}
		for _, f := range n.Fields {
			walkExpr(f.Value, fn)
		}

	case *CallExpression:
		walkExpr(n.Function, fn)
		for _, t := range n.TypeArgs {
			walkType(t, fn)
		}
		for _, a := range n.Arguments {
			walkExpr(a, fn)
		}

	case *MemberExpression:
		walkExpr(n.Object, fn)

	case *InfixExpression:
		walkExpr(n.Left, fn)
		walkExpr(n.Right, fn)

	case *PrefixExpression:
		walkExpr(n.Right, fn)

	case *LambdaExpression:
		for _, p := range n.Parameters {
			Walk(p, fn)
		}
		walkType(n.ReturnType, fn)
		walkBlock(n.Body, fn)

	case *NamedType:
		for _, a := range n.Args {
			walkType(a, fn)
		}

	case *FunctionTypeExpression:
		for _, p := range n.Params {
			walkType(p, fn)
		}
		walkType(n.Return, fn)
		walkType(n.Cost, fn)
	}
}

// The helpers below guard against typed nil pointers stored in interfaces.

func walkIdent(id *Identifier, fn func(Node) bool) {
	if id != nil {
		Walk(id, fn)
	}
}

func walkBlock(b *Block, fn func(Node) bool) {
	if b != nil {
		Walk(b, fn)
	}
}

func walkExpr(e Expression, fn func(Node) bool) {
	if e != nil {
		Walk(e, fn)
	}
}

func walkType(t Type, fn func(Node) bool) {
	if t != nil {
		Walk(t, fn)
	}
}
