package prettyprinter

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/funvibe/finlang/internal/ast"
)

// --- Code Printer (Output looks like source code) ---

// Operator precedence (higher = binds tighter)
var operatorPrecedence = map[string]int{
	"||": 1,
	"&&": 2,
	"==": 3,
	"!=": 3,
	"<":  4,
	">":  4,
	"<=": 4,
	">=": 4,
	"+":  7,
	"-":  7,
	"*":  8,
	"/":  8,
	"%":  8,
}

const prefixPrecedence = 100

func getPrecedence(op string) int {
	if p, ok := operatorPrecedence[op]; ok {
		return p
	}
	return 10
}

// CodePrinter renders a unit in surface syntax. Every operator is
// left-associative, so only a right operand of equal precedence needs
// parentheses.
type CodePrinter struct {
	buf    bytes.Buffer
	indent int
}

func NewCodePrinter() *CodePrinter {
	return &CodePrinter{}
}

// Print renders any node.
func Print(node ast.Node) string {
	p := NewCodePrinter()
	node.Accept(p)
	return p.String()
}

func (p *CodePrinter) String() string {
	return p.buf.String()
}

func (p *CodePrinter) write(s string) {
	p.buf.WriteString(s)
}

func (p *CodePrinter) writeln() {
	p.buf.WriteString("\n")
}

func (p *CodePrinter) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.buf.WriteString("    ")
	}
}

// printExpr prints an expression, adding parentheses only if needed
func (p *CodePrinter) printExpr(expr ast.Expression, parentPrec int, isRight bool) {
	if expr == nil {
		p.write("<???>")
		return
	}
	switch e := expr.(type) {
	case *ast.InfixExpression:
		prec := getPrecedence(e.Operator)
		needParens := prec < parentPrec || (prec == parentPrec && isRight)
		if needParens {
			p.write("(")
		}
		p.printExpr(e.Left, prec, false)
		p.write(" " + e.Operator + " ")
		p.printExpr(e.Right, prec, true)
		if needParens {
			p.write(")")
		}
	case *ast.PrefixExpression:
		p.write(e.Operator)
		p.printExpr(e.Right, prefixPrecedence, false)
	default:
		expr.Accept(p)
	}
}

func (p *CodePrinter) printTypeParams(params []*ast.TypeParameter) {
	if len(params) == 0 {
		return
	}
	p.write("<")
	for i, tp := range params {
		if i > 0 {
			p.write(", ")
		}
		tp.Accept(p)
	}
	p.write(">")
}

func (p *CodePrinter) printParams(params []*ast.Parameter) {
	p.write("(")
	for i, param := range params {
		if i > 0 {
			p.write(", ")
		}
		param.Accept(p)
	}
	p.write(")")
}

func (p *CodePrinter) printTypeArgs(args []ast.Type) {
	if len(args) == 0 {
		return
	}
	p.write("<")
	for i, a := range args {
		if i > 0 {
			p.write(", ")
		}
		p.printType(a)
	}
	p.write(">")
}

func (p *CodePrinter) printType(t ast.Type) {
	if t == nil {
		p.write("<???>")
		return
	}
	t.Accept(p)
}

func (p *CodePrinter) printBlock(b *ast.Block) {
	if b == nil {
		p.write("{}")
		return
	}
	b.Accept(p)
}

func (p *CodePrinter) VisitUnit(n *ast.Unit) {
	p.write("namespace " + n.NamespacePath())
	p.writeln()
	prevDecl := false
	for i, stmt := range n.Statements {
		_, isDecl := stmt.(*ast.FunctionDeclaration)
		if _, ok := stmt.(*ast.RecordDeclaration); ok {
			isDecl = true
		}
		// Declarations are separated from their neighbours by a blank line.
		if i == 0 || isDecl || prevDecl {
			p.writeln()
		}
		prevDecl = isDecl
		stmt.Accept(p)
		p.writeln()
	}
}

func (p *CodePrinter) VisitFunctionDeclaration(n *ast.FunctionDeclaration) {
	p.write("fun ")
	n.Name.Accept(p)
	p.printTypeParams(n.TypeParams)
	p.printParams(n.Parameters)
	if n.ReturnType != nil {
		p.write(" -> ")
		p.printType(n.ReturnType)
	}
	p.write(" ")
	p.printBlock(n.Body)
}

func (p *CodePrinter) VisitRecordDeclaration(n *ast.RecordDeclaration) {
	p.write("record ")
	n.Name.Accept(p)
	p.printTypeParams(n.TypeParams)
	if len(n.Fields) == 0 {
		p.write(" {}")
		return
	}
	p.write(" {")
	p.writeln()
	p.indent++
	for _, f := range n.Fields {
		p.writeIndent()
		f.Accept(p)
		p.writeln()
	}
	p.indent--
	p.writeIndent()
	p.write("}")
}

func (p *CodePrinter) VisitTypeParameter(n *ast.TypeParameter) {
	p.write(n.Name)
	if n.Fin {
		p.write(": Fin")
	}
}

func (p *CodePrinter) VisitParameter(n *ast.Parameter) {
	p.write(n.Name)
	if n.Type != nil {
		p.write(": ")
		p.printType(n.Type)
	}
}

func (p *CodePrinter) VisitFieldDeclaration(n *ast.FieldDeclaration) {
	p.write(n.Name + ": ")
	p.printType(n.Type)
}

func (p *CodePrinter) VisitLetStatement(n *ast.LetStatement) {
	p.write("let ")
	if n.Mutable {
		p.write("mut ")
	}
	n.Name.Accept(p)
	if n.Type != nil {
		p.write(": ")
		p.printType(n.Type)
	}
	p.write(" = ")
	p.printExpr(n.Value, 0, false)
}

func (p *CodePrinter) VisitAssignStatement(n *ast.AssignStatement) {
	n.Target.Accept(p)
	p.write(" = ")
	p.printExpr(n.Value, 0, false)
}

func (p *CodePrinter) VisitExpressionStatement(n *ast.ExpressionStatement) {
	p.printExpr(n.Expression, 0, false)
}

func (p *CodePrinter) VisitReturnStatement(n *ast.ReturnStatement) {
	p.write("return")
	if n.Value != nil {
		p.write(" ")
		p.printExpr(n.Value, 0, false)
	}
}

func (p *CodePrinter) VisitBlock(n *ast.Block) {
	if len(n.Statements) == 0 {
		p.write("{}")
		return
	}
	p.write("{")
	p.writeln()
	p.indent++
	for _, stmt := range n.Statements {
		p.writeIndent()
		stmt.Accept(p)
		p.writeln()
	}
	p.indent--
	p.writeIndent()
	p.write("}")
}

func (p *CodePrinter) VisitIfStatement(n *ast.IfStatement) {
	p.write("if ")
	p.printExpr(n.Condition, 0, false)
	p.write(" ")
	p.printBlock(n.Consequence)
	if n.Alternative != nil {
		p.write(" else ")
		p.printBlock(n.Alternative)
	}
}

func (p *CodePrinter) VisitForEachStatement(n *ast.ForEachStatement) {
	p.write("for ")
	n.Variable.Accept(p)
	p.write(" in ")
	p.printExpr(n.Iterable, 0, false)
	p.write(" ")
	p.printBlock(n.Body)
}

func (p *CodePrinter) VisitIdentifier(n *ast.Identifier) {
	if n == nil {
		p.write("<???>")
		return
	}
	p.write(n.Value)
}

func (p *CodePrinter) VisitIntegerLiteral(n *ast.IntegerLiteral) {
	p.write(strconv.FormatInt(n.Value, 10))
}

func (p *CodePrinter) VisitBooleanLiteral(n *ast.BooleanLiteral) {
	p.write(strconv.FormatBool(n.Value))
}

func (p *CodePrinter) VisitStringLiteral(n *ast.StringLiteral) {
	p.write(strconv.Quote(n.Value))
}

func (p *CodePrinter) VisitListLiteral(n *ast.ListLiteral) {
	p.write("[")
	for i, el := range n.Elements {
		if i > 0 {
			p.write(", ")
		}
		p.printExpr(el, 0, false)
	}
	p.write("]")
	if len(n.Elements) == 0 && n.ElementType != nil {
		p.write("<")
		p.printType(n.ElementType)
		p.write(">")
	}
}

func (p *CodePrinter) VisitRecordLiteral(n *ast.RecordLiteral) {
	if n.Type != nil {
		n.Type.Accept(p)
		p.write(" ")
	}
	if len(n.Fields) == 0 {
		p.write("{}")
		return
	}
	parts := make([]string, len(n.Fields))
	for i, f := range n.Fields {
		sub := &CodePrinter{indent: p.indent}
		sub.printExpr(f.Value, 0, false)
		parts[i] = f.Name + ": " + sub.String()
	}
	p.write("{ " + strings.Join(parts, ", ") + " }")
}

func (p *CodePrinter) VisitCallExpression(n *ast.CallExpression) {
	p.printExpr(n.Function, prefixPrecedence, false)
	p.printTypeArgs(n.TypeArgs)
	p.write("(")
	for i, arg := range n.Arguments {
		if i > 0 {
			p.write(", ")
		}
		p.printExpr(arg, 0, false)
	}
	p.write(")")
}

func (p *CodePrinter) VisitMemberExpression(n *ast.MemberExpression) {
	p.printExpr(n.Object, prefixPrecedence, false)
	p.write(".")
	n.Member.Accept(p)
}

func (p *CodePrinter) VisitInfixExpression(n *ast.InfixExpression) {
	p.printExpr(n, 0, false)
}

func (p *CodePrinter) VisitPrefixExpression(n *ast.PrefixExpression) {
	p.printExpr(n, 0, false)
}

func (p *CodePrinter) VisitLambdaExpression(n *ast.LambdaExpression) {
	p.write("fn")
	p.printParams(n.Parameters)
	if n.ReturnType != nil {
		p.write(" -> ")
		p.printType(n.ReturnType)
	}
	p.write(" ")
	p.printBlock(n.Body)
}

func (p *CodePrinter) VisitNamedType(n *ast.NamedType) {
	p.write(n.Name())
	p.printTypeArgs(n.Args)
}

func (p *CodePrinter) VisitFinLiteral(n *ast.FinLiteral) {
	p.write(strconv.FormatUint(n.Value, 10))
}

func (p *CodePrinter) VisitFunctionTypeExpression(n *ast.FunctionTypeExpression) {
	p.write("fn(")
	for i, t := range n.Params {
		if i > 0 {
			p.write(", ")
		}
		p.printType(t)
	}
	p.write(") -> ")
	p.printType(n.Return)
	if n.Cost != nil {
		p.write(" cost ")
		p.printType(n.Cost)
	}
}
