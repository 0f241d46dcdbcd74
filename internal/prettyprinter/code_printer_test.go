package prettyprinter

import (
	"testing"

	"github.com/funvibe/finlang/internal/ast"
	"github.com/funvibe/finlang/internal/astyaml"
)

const unitSource = `
namespace: demo.math
body:
  - record: Point
    type_params: [T]
    fields:
      - x: T
      - y: T
  - fun: total
    type_params: [{n: Fin}]
    params:
      - xs: {List: [Int, n]}
    returns: Int
    body:
      - let: acc
        mut: true
        value: 0
      - for: x
        in: xs
        do:
          - set: acc
            value: {op: "+", args: [acc, x]}
      - return: acc
  - fun: apply
    params:
      - f: {fn: [Int], returns: Int, cost: 4}
    body: []
  - let: p
    value: {new: {Point: [Int]}, fields: {x: 1, y: 2}}
  - if: {op: "!", args: [false]}
    then:
      - {call: print, args: [{str: hello}]}
    else:
      - {call: total, type_args: [3], args: [{list: [1, 2, 3]}]}
  - p.x
`

const unitPrinted = `namespace demo.math

record Point<T> {
    x: T
    y: T
}

fun total<n: Fin>(xs: List<Int, n>) -> Int {
    let mut acc = 0
    for x in xs {
        acc = acc + x
    }
    return acc
}

fun apply(f: fn(Int) -> Int cost 4) {}

let p = Point<Int> { x: 1, y: 2 }
if !false {
    print("hello")
} else {
    total<3>([1, 2, 3])
}
p.x
`

func TestPrintUnit(t *testing.T) {
	unit, err := astyaml.Decode([]byte(unitSource), "demo.yaml")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got := Print(unit); got != unitPrinted {
		t.Errorf("unexpected output:\n%s\nwant:\n%s", got, unitPrinted)
	}
}

func ident(name string) *ast.Identifier { return &ast.Identifier{Value: name} }

func infix(l ast.Expression, op string, r ast.Expression) *ast.InfixExpression {
	return &ast.InfixExpression{Left: l, Operator: op, Right: r}
}

func TestPrintParenthesizesByPrecedence(t *testing.T) {
	tests := []struct {
		expr ast.Expression
		want string
	}{
		{infix(infix(ident("a"), "+", ident("b")), "*", ident("c")), "(a + b) * c"},
		{infix(ident("a"), "+", infix(ident("b"), "*", ident("c"))), "a + b * c"},
		{infix(infix(ident("a"), "-", ident("b")), "-", ident("c")), "a - b - c"},
		{infix(ident("a"), "-", infix(ident("b"), "-", ident("c"))), "a - (b - c)"},
		{&ast.PrefixExpression{Operator: "-", Right: infix(ident("a"), "+", ident("b"))}, "-(a + b)"},
		{infix(infix(ident("a"), "<", ident("b")), "&&", ident("ok")), "a < b && ok"},
	}
	for _, tt := range tests {
		if got := Print(tt.expr); got != tt.want {
			t.Errorf("Print = %q, want %q", got, tt.want)
		}
	}
}

func TestPrintLambdaArgument(t *testing.T) {
	call := &ast.CallExpression{
		Function:  &ast.MemberExpression{Object: ident("lib"), Member: ident("each")},
		Arguments: []ast.Expression{
			ident("xs"),
			&ast.LambdaExpression{
				Parameters: []*ast.Parameter{{Name: "x", Type: &ast.NamedType{Path: []string{"Int"}}}},
				Body:       &ast.Block{Statements: []ast.Statement{
					&ast.ExpressionStatement{Expression: &ast.CallExpression{Function: ident("tick")}},
				}},
			},
		},
	}
	want := "lib.each(xs, fn(x: Int) {\n    tick()\n})"
	if got := Print(call); got != want {
		t.Errorf("Print = %q, want %q", got, want)
	}
}
