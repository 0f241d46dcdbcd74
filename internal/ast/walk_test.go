package ast

import (
	"testing"
)

func TestWalkVisitsNestedNodes(t *testing.T) {
	call := &CallExpression{
		Function:  &Identifier{Value: "tick"},
		Arguments: []Expression{&IntegerLiteral{Value: 1}},
	}
	unit := &Unit{
		Namespace: []string{"demo"},
		Statements: []Statement{
			&FunctionDeclaration{
				Name: &Identifier{Value: "f"},
				Parameters: []*Parameter{
					{Name: "xs", Type: &NamedType{Path: []string{"List"}, Args: []Type{
						&NamedType{Path: []string{"Int"}},
						&FinLiteral{Value: 10},
					}}},
				},
				Body: &Block{Statements: []Statement{
					&ForEachStatement{
						Variable: &Identifier{Value: "x"},
						Iterable: &Identifier{Value: "xs"},
						Body:     &Block{Statements: []Statement{&ExpressionStatement{Expression: call}}},
					},
				}},
			},
		},
	}

	counts := map[string]int{}
	Walk(unit, func(n Node) bool {
		switch n.(type) {
		case *Identifier:
			counts["ident"]++
		case *FinLiteral:
			counts["fin"]++
		case *CallExpression:
			counts["call"]++
		case *NamedType:
			counts["named"]++
		}
		return true
	})

	// f, x, xs, tick
	if counts["ident"] != 4 {
		t.Errorf("identifiers = %d, want 4", counts["ident"])
	}
	if counts["fin"] != 1 || counts["call"] != 1 || counts["named"] != 2 {
		t.Errorf("unexpected counts %v", counts)
	}
}

func TestWalkPrunesBranch(t *testing.T) {
	inner := &Block{Statements: []Statement{
		&ExpressionStatement{Expression: &Identifier{Value: "hidden"}},
	}}
	unit := &Unit{Statements: []Statement{inner, &ExpressionStatement{Expression: &Identifier{Value: "seen"}}}}

	var seen []string
	Walk(unit, func(n Node) bool {
		if _, ok := n.(*Block); ok {
			return false
		}
		if id, ok := n.(*Identifier); ok {
			seen = append(seen, id.Value)
		}
		return true
	})
	if len(seen) != 1 || seen[0] != "seen" {
		t.Errorf("seen = %v, want [seen]", seen)
	}
}

func TestWalkNilChildren(t *testing.T) {
	// Optional fields left nil must not be visited.
	stmt := &IfStatement{Condition: &BooleanLiteral{Value: true}, Consequence: &Block{}}
	n := 0
	Walk(stmt, func(Node) bool { n++; return true })
	if n != 3 {
		t.Errorf("visited %d nodes, want 3", n)
	}
}
