// Package ast defines the tagged-variant node model the rewriter pipeline
// operates on. A Node carries a Kind drawn from a fixed set of JavaScript
// syntactic categories and a set of named child slots; there is no parent
// pointer on the node itself (see Chain in chain.go).
package ast

// Kind tags a Node with one of the closed set of JavaScript syntactic
// categories the core understands. Dispatch on Kind is the only form of
// type-based branching rewriters are expected to perform.
type Kind string

const (
	// Program & directives
	Program          Kind = "Program"
	Directive        Kind = "Directive"
	CommentNode      Kind = "Comment"

	// Declarations
	VariableDeclaration Kind = "VariableDeclaration"
	VariableDeclarator  Kind = "VariableDeclarator"
	FunctionDeclaration Kind = "FunctionDeclaration"
	ClassDeclaration    Kind = "ClassDeclaration"
	ImportDeclaration   Kind = "ImportDeclaration"
	ExportDeclaration   Kind = "ExportDeclaration"

	// Statements
	BlockStatement      Kind = "BlockStatement"
	ExpressionStatement Kind = "ExpressionStatement"
	IfStatement         Kind = "IfStatement"
	ForStatement        Kind = "ForStatement"
	ForInStatement      Kind = "ForInStatement"
	WhileStatement      Kind = "WhileStatement"
	DoWhileStatement    Kind = "DoWhileStatement"
	SwitchStatement     Kind = "SwitchStatement"
	SwitchCase          Kind = "SwitchCase"
	ReturnStatement     Kind = "ReturnStatement"
	ThrowStatement      Kind = "ThrowStatement"
	BreakStatement      Kind = "BreakStatement"
	ContinueStatement   Kind = "ContinueStatement"
	TryStatement        Kind = "TryStatement"
	CatchClause         Kind = "CatchClause"
	LabeledStatement    Kind = "LabeledStatement"
	EmptyStatement      Kind = "EmptyStatement"

	// Expressions
	BinaryExpression      Kind = "BinaryExpression"
	LogicalExpression     Kind = "LogicalExpression"
	UnaryExpression       Kind = "UnaryExpression"
	UpdateExpression      Kind = "UpdateExpression"
	AssignmentExpression  Kind = "AssignmentExpression"
	ConditionalExpression Kind = "ConditionalExpression"
	SequenceExpression    Kind = "SequenceExpression"
	CallExpression        Kind = "CallExpression"
	NewExpression         Kind = "NewExpression"
	MemberExpression      Kind = "MemberExpression"
	FunctionExpression    Kind = "FunctionExpression"
	ArrowFunctionExpr     Kind = "ArrowFunctionExpression"
	ArrayExpression       Kind = "ArrayExpression"
	ObjectExpression      Kind = "ObjectExpression"
	Property              Kind = "Property"
	SpreadElement         Kind = "SpreadElement"
	TemplateLiteral       Kind = "TemplateLiteral"
	TaggedTemplateExpr    Kind = "TaggedTemplateExpression"

	// Patterns
	Identifier      Kind = "Identifier"
	ObjectPattern   Kind = "ObjectPattern"
	ArrayPattern    Kind = "ArrayPattern"
	RestElement     Kind = "RestElement"
	AssignmentPatt  Kind = "AssignmentPattern"

	// Literals
	NumericLiteral Kind = "NumericLiteral"
	StringLiteral  Kind = "StringLiteral"
	BooleanLiteral Kind = "BooleanLiteral"
	NullLiteral    Kind = "NullLiteral"
	RegExpLiteral  Kind = "RegExpLiteral"

	// JSX (kept since unpacked bundles routinely carry transpiled JSX output)
	JSXElement   Kind = "JSXElement"
	JSXAttribute Kind = "JSXAttribute"
	JSXText      Kind = "JSXText"
)

// IsControlFlow reports whether k is a statement kind whose branch slots
// (body/consequent/alternate) are subject to block-wrapping normalisation.
func IsControlFlow(k Kind) bool {
	switch k {
	case IfStatement, ForStatement, ForInStatement, WhileStatement, DoWhileStatement, LabeledStatement:
		return true
	}
	return false
}

// IsTerminator reports whether k unconditionally transfers control out of
// the enclosing block, making any sibling statements after it dead.
func IsTerminator(k Kind) bool {
	switch k {
	case ReturnStatement, ThrowStatement, BreakStatement, ContinueStatement:
		return true
	}
	return false
}
