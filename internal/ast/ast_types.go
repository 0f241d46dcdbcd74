package ast

import (
	"strings"

	"github.com/funvibe/finlang/internal/token"
)

// --- Type System Nodes ---

// Type represents a type node in the AST.
// E.g., Int, List<Int, 10>, 7, fn(Int) -> Int cost n
type Type interface {
	Node
	typeNode()
}

// NamedType names a type, possibly qualified and applied: ns.Box<Int>
type NamedType struct {
	Token token.Token
	Path  []string
	Args  []Type
}

func (nt *NamedType) Accept(v Visitor)      { v.VisitNamedType(nt) }
func (nt *NamedType) typeNode()             {}
func (nt *NamedType) TokenLiteral() string  { return nt.Token.Lexeme }
func (nt *NamedType) GetToken() token.Token { return nt.Token }

// Name is the dotted path.
func (nt *NamedType) Name() string { return strings.Join(nt.Path, ".") }

// FinLiteral is a concrete magnitude in type position.
type FinLiteral struct {
	Token token.Token
	Value uint64
}

func (fl *FinLiteral) Accept(v Visitor)      { v.VisitFinLiteral(fl) }
func (fl *FinLiteral) typeNode()             {}
func (fl *FinLiteral) TokenLiteral() string  { return fl.Token.Lexeme }
func (fl *FinLiteral) GetToken() token.Token { return fl.Token }

// FunctionTypeExpression is fn(Params) -> Return cost Cost. Cost is a Fin
// literal or a Fin type parameter; nil means the unit cost.
type FunctionTypeExpression struct {
	Token  token.Token
	Params []Type
	Return Type
	Cost   Type
}

func (ft *FunctionTypeExpression) Accept(v Visitor)      { v.VisitFunctionTypeExpression(ft) }
func (ft *FunctionTypeExpression) typeNode()             {}
func (ft *FunctionTypeExpression) TokenLiteral() string  { return ft.Token.Lexeme }
func (ft *FunctionTypeExpression) GetToken() token.Token { return ft.Token }
