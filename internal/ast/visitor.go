package ast

// Visitor has one method per node variant. Every full analysis pass
// implements all of them, so adding a node fails to compile until each pass
// handles it.
type Visitor interface {
	VisitUnit(node *Unit)

	// Declarations
	VisitFunctionDeclaration(node *FunctionDeclaration)
	VisitRecordDeclaration(node *RecordDeclaration)
	VisitTypeParameter(node *TypeParameter)
	VisitParameter(node *Parameter)
	VisitFieldDeclaration(node *FieldDeclaration)

	// Statements
	VisitLetStatement(node *LetStatement)
	VisitAssignStatement(node *AssignStatement)
	VisitExpressionStatement(node *ExpressionStatement)
	VisitReturnStatement(node *ReturnStatement)
	VisitBlock(node *Block)
	VisitIfStatement(node *IfStatement)
	VisitForEachStatement(node *ForEachStatement)

	// Expressions
	VisitIdentifier(node *Identifier)
	VisitIntegerLiteral(node *IntegerLiteral)
	VisitBooleanLiteral(node *BooleanLiteral)
	VisitStringLiteral(node *StringLiteral)
	VisitListLiteral(node *ListLiteral)
	VisitRecordLiteral(node *RecordLiteral)
	VisitCallExpression(node *CallExpression)
	VisitMemberExpression(node *MemberExpression)
	VisitInfixExpression(node *InfixExpression)
	VisitPrefixExpression(node *PrefixExpression)
	VisitLambdaExpression(node *LambdaExpression)

	// Types
	VisitNamedType(node *NamedType)
	VisitFinLiteral(node *FinLiteral)
	VisitFunctionTypeExpression(node *FunctionTypeExpression)
}
