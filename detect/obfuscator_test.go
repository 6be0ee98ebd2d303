package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/deobfjs/ast"
	"github.com/viant/deobfjs/symtab"
)

func ident(name string) *ast.Node {
	n := ast.NewNode(ast.Identifier, nil)
	n.SetScalar(ast.SlotName, name)
	return n
}

func numLit(v float64) *ast.Node {
	n := ast.NewNode(ast.NumericLiteral, nil)
	n.SetScalar(ast.SlotValueSlot, v)
	return n
}

func strLit(v string) *ast.Node {
	n := ast.NewNode(ast.StringLiteral, nil)
	n.SetScalar(ast.SlotValueSlot, v)
	return n
}

func boolLit(v bool) *ast.Node {
	n := ast.NewNode(ast.BooleanLiteral, nil)
	n.SetScalar(ast.SlotValueSlot, v)
	return n
}

func callMember(obj, method string, args ...*ast.Node) *ast.Node {
	member := ast.NewNode(ast.MemberExpression, map[string]ast.SlotValue{
		ast.SlotObject:   {Node: ident(obj)},
		ast.SlotProperty: {Node: ident(method)},
	})
	return ast.NewNode(ast.CallExpression, map[string]ast.SlotValue{
		ast.SlotCallee:    {Node: member},
		ast.SlotArguments: {List: args},
	})
}

func exprStmt(e *ast.Node) *ast.Node {
	return ast.NewNode(ast.ExpressionStatement, map[string]ast.SlotValue{
		ast.SlotExpressions: {Node: e},
	})
}

func program(stmts ...*ast.Node) *ast.Node {
	return ast.NewNode(ast.Program, map[string]ast.SlotValue{
		ast.SlotBody: {List: stmts},
	})
}

func stringArrayDecl(name string, n int) *ast.Node {
	elems := make([]*ast.Node, n)
	for i := range elems {
		elems[i] = strLit("s")
	}
	decl := ast.NewNode(ast.VariableDeclarator, map[string]ast.SlotValue{
		ast.SlotId:   {Node: ident(name)},
		ast.SlotInit: {Node: ast.NewNode(ast.ArrayExpression, map[string]ast.SlotValue{ast.SlotElements: {List: elems}})},
	})
	return ast.NewNode(ast.VariableDeclaration, map[string]ast.SlotValue{
		ast.SlotDeclarations: {List: []*ast.Node{decl}},
	})
}

func findingNames(findings []Finding) []string {
	names := make([]string, len(findings))
	for i, f := range findings {
		names[i] = f.Name
	}
	return names
}

func TestDetectStringArrayRotationArrayOnlyIsMedium(t *testing.T) {
	tree := program(stringArrayDecl("_0x1a2b", 15))

	findings := ObfuscatorPatterns(tree, nil)
	assert.Len(t, findings, 1)
	assert.Equal(t, "string-array-rotation", findings[0].Name)
	assert.Equal(t, symtab.Medium, findings[0].Confidence)
}

func TestDetectStringArrayRotationFullIdiomIsHigh(t *testing.T) {
	decrement := ast.NewNode(ast.UpdateExpression, map[string]ast.SlotValue{
		ast.SlotArgument: {Node: ident("count")},
		ast.SlotOperator: {Scalar: "--"},
	})
	pushShift := callMember("arr", "push", callMember("arr", "shift"))
	whileLoop := ast.NewNode(ast.WhileStatement, map[string]ast.SlotValue{
		ast.SlotTest: {Node: ident("count")},
		ast.SlotBody: {Node: ast.NewNode(ast.BlockStatement, map[string]ast.SlotValue{
			ast.SlotBody: {List: []*ast.Node{exprStmt(pushShift), exprStmt(decrement)}},
		})},
	})
	fnExpr := ast.NewNode(ast.FunctionExpression, map[string]ast.SlotValue{
		ast.SlotParams: {List: []*ast.Node{ident("arr"), ident("count")}},
		ast.SlotBody: {Node: ast.NewNode(ast.BlockStatement, map[string]ast.SlotValue{
			ast.SlotBody: {List: []*ast.Node{whileLoop}},
		})},
	})
	iife := ast.NewNode(ast.CallExpression, map[string]ast.SlotValue{
		ast.SlotCallee:    {Node: fnExpr},
		ast.SlotArguments: {List: []*ast.Node{ident("_0x1a2b"), numLit(3)}},
	})
	tree := program(stringArrayDecl("_0x1a2b", 15), exprStmt(iife))

	findings := ObfuscatorPatterns(tree, nil)
	assert.Len(t, findings, 1)
	assert.Equal(t, symtab.High, findings[0].Confidence)
}

func TestDetectControlFlowFlattening(t *testing.T) {
	cases := make([]*ast.Node, 5)
	for i := range cases {
		body := []*ast.Node{ast.NewNode(ast.ContinueStatement, nil)}
		cases[i] = ast.NewNode(ast.SwitchCase, map[string]ast.SlotValue{
			ast.SlotTest: {Node: strLit("state")},
			ast.SlotBody: {List: body},
		})
	}
	sw := ast.NewNode(ast.SwitchStatement, map[string]ast.SlotValue{
		ast.SlotDiscriminant: {Node: ident("state")},
		ast.SlotCases:        {List: cases},
	})
	loop := ast.NewNode(ast.WhileStatement, map[string]ast.SlotValue{
		ast.SlotTest: {Node: boolLit(true)},
		ast.SlotBody: {Node: ast.NewNode(ast.BlockStatement, map[string]ast.SlotValue{
			ast.SlotBody: {List: []*ast.Node{sw}},
		})},
	})
	tree := program(loop)

	findings := ObfuscatorPatterns(tree, nil)
	names := findingNames(findings)
	assert.Contains(t, names, "control-flow-flattening")
	for _, f := range findings {
		if f.Name == "control-flow-flattening" {
			assert.Equal(t, symtab.High, f.Confidence)
		}
	}
}

func TestDetectDeadCodeInjection(t *testing.T) {
	root := symtab.NewRootScope(nil)
	for i := 0; i < 10; i++ {
		fn := root.AddFunction(strconvItoa(i), nil, nil)
		if i < 4 {
			fn.RecordCall(nil)
		}
	}

	findings := ObfuscatorPatterns(program(), root)
	names := findingNames(findings)
	assert.Contains(t, names, "dead-code-injection")
}

func TestDetectDeadCodeInjectionIgnoresFewFunctions(t *testing.T) {
	root := symtab.NewRootScope(nil)
	for i := 0; i < 3; i++ {
		root.AddFunction(strconvItoa(i), nil, nil)
	}

	findings := ObfuscatorPatterns(program(), root)
	assert.Empty(t, findings)
}

func strconvItoa(i int) string {
	digits := "0123456789"
	if i < 10 {
		return "fn_" + string(digits[i])
	}
	return "fn_x"
}
