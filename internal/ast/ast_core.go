package ast

import (
	"strings"

	"github.com/funvibe/finlang/internal/token"
)

// Node is the base interface for all AST nodes.
type Node interface {
	TokenLiteral() string
	Accept(v Visitor)
	GetToken() token.Token
}

// Statement is a Node that represents a statement.
type Statement interface {
	Node
	statementNode()
}

// Expression is a Node that represents an expression.
type Expression interface {
	Node
	expressionNode()
}

// Unit is the root of one compilation unit.
type Unit struct {
	Token      token.Token
	File       string
	Namespace  []string // dotted namespace path, e.g. [acme, billing]
	Statements []Statement
}

func (u *Unit) Accept(v Visitor)      { v.VisitUnit(u) }
func (u *Unit) TokenLiteral() string  { return u.Token.Lexeme }
func (u *Unit) GetToken() token.Token { return u.Token }

// NamespacePath is the namespace joined with dots.
func (u *Unit) NamespacePath() string { return strings.Join(u.Namespace, ".") }

// FunctionDeclaration declares a named, possibly generic function.
type FunctionDeclaration struct {
	Token      token.Token // The 'fun' token
	Name       *Identifier
	TypeParams []*TypeParameter
	Parameters []*Parameter
	ReturnType Type // nil means Unit
	Body       *Block
}

func (fd *FunctionDeclaration) Accept(v Visitor)      { v.VisitFunctionDeclaration(fd) }
func (fd *FunctionDeclaration) statementNode()        {}
func (fd *FunctionDeclaration) TokenLiteral() string  { return fd.Token.Lexeme }
func (fd *FunctionDeclaration) GetToken() token.Token { return fd.Token }

// RecordDeclaration declares a named record type.
type RecordDeclaration struct {
	Token      token.Token // The 'record' token
	Name       *Identifier
	TypeParams []*TypeParameter
	Fields     []*FieldDeclaration
}

func (rd *RecordDeclaration) Accept(v Visitor)      { v.VisitRecordDeclaration(rd) }
func (rd *RecordDeclaration) statementNode()        {}
func (rd *RecordDeclaration) TokenLiteral() string  { return rd.Token.Lexeme }
func (rd *RecordDeclaration) GetToken() token.Token { return rd.Token }

// TypeParameter is T or, for magnitudes, n: Fin.
type TypeParameter struct {
	Token token.Token
	Name  string
	Fin   bool
}

func (tp *TypeParameter) Accept(v Visitor)      { v.VisitTypeParameter(tp) }
func (tp *TypeParameter) TokenLiteral() string  { return tp.Token.Lexeme }
func (tp *TypeParameter) GetToken() token.Token { return tp.Token }

// Parameter is a formal parameter of a function or lambda.
type Parameter struct {
	Token token.Token
	Name  string
	Type  Type
}

func (p *Parameter) Accept(v Visitor)      { v.VisitParameter(p) }
func (p *Parameter) TokenLiteral() string  { return p.Token.Lexeme }
func (p *Parameter) GetToken() token.Token { return p.Token }

// FieldDeclaration is one field of a record declaration.
type FieldDeclaration struct {
	Token token.Token
	Name  string
	Type  Type
}

func (fd *FieldDeclaration) Accept(v Visitor)      { v.VisitFieldDeclaration(fd) }
func (fd *FieldDeclaration) TokenLiteral() string  { return fd.Token.Lexeme }
func (fd *FieldDeclaration) GetToken() token.Token { return fd.Token }

// LetStatement binds a new name: let x: T = value
type LetStatement struct {
	Token   token.Token // The 'let' token
	Name    *Identifier
	Mutable bool
	Type    Type // Optional annotation
	Value   Expression
}

func (ls *LetStatement) Accept(v Visitor)      { v.VisitLetStatement(ls) }
func (ls *LetStatement) statementNode()        {}
func (ls *LetStatement) TokenLiteral() string  { return ls.Token.Lexeme }
func (ls *LetStatement) GetToken() token.Token { return ls.Token }

// AssignStatement rebinds a mutable name.
type AssignStatement struct {
	Token  token.Token
	Target *Identifier
	Value  Expression
}

func (as *AssignStatement) Accept(v Visitor)      { v.VisitAssignStatement(as) }
func (as *AssignStatement) statementNode()        {}
func (as *AssignStatement) TokenLiteral() string  { return as.Token.Lexeme }
func (as *AssignStatement) GetToken() token.Token { return as.Token }

// ExpressionStatement is a statement that consists of a single expression.
type ExpressionStatement struct {
	Token      token.Token // the first token of the expression
	Expression Expression
}

func (es *ExpressionStatement) Accept(v Visitor)      { v.VisitExpressionStatement(es) }
func (es *ExpressionStatement) statementNode()        {}
func (es *ExpressionStatement) TokenLiteral() string  { return es.Token.Lexeme }
func (es *ExpressionStatement) GetToken() token.Token { return es.Token }

type ReturnStatement struct {
	Token token.Token // The 'return' token
	Value Expression  // nil for a bare return
}

func (rs *ReturnStatement) Accept(v Visitor)      { v.VisitReturnStatement(rs) }
func (rs *ReturnStatement) statementNode()        {}
func (rs *ReturnStatement) TokenLiteral() string  { return rs.Token.Lexeme }
func (rs *ReturnStatement) GetToken() token.Token { return rs.Token }

// Block is a sequence of statements with its own scope.
type Block struct {
	Token      token.Token
	Statements []Statement
}

func (b *Block) Accept(v Visitor)      { v.VisitBlock(b) }
func (b *Block) statementNode()        {}
func (b *Block) TokenLiteral() string  { return b.Token.Lexeme }
func (b *Block) GetToken() token.Token { return b.Token }

type IfStatement struct {
	Token       token.Token // The 'if' token
	Condition   Expression
	Consequence *Block
	Alternative *Block // Optional
}

func (is *IfStatement) Accept(v Visitor)      { v.VisitIfStatement(is) }
func (is *IfStatement) statementNode()        {}
func (is *IfStatement) TokenLiteral() string  { return is.Token.Lexeme }
func (is *IfStatement) GetToken() token.Token { return is.Token }

// ForEachStatement iterates a bounded collection: for x in xs { ... }
type ForEachStatement struct {
	Token    token.Token // The 'for' token
	Variable *Identifier
	Iterable Expression
	Body     *Block
}

func (fs *ForEachStatement) Accept(v Visitor)      { v.VisitForEachStatement(fs) }
func (fs *ForEachStatement) statementNode()        {}
func (fs *ForEachStatement) TokenLiteral() string  { return fs.Token.Lexeme }
func (fs *ForEachStatement) GetToken() token.Token { return fs.Token }
