package rewrite

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/viant/deobfjs/ast"
	"github.com/viant/deobfjs/dctx"
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

// program builds: var x = 1; function f(a) { x = a; return x; }
func sampleProgram() *ast.Node {
	declarator := ast.NewNode(ast.VariableDeclarator, map[string]ast.SlotValue{
		ast.SlotId:   {Node: ident("x")},
		ast.SlotInit: {Node: numLit(1)},
	})
	varDecl := ast.NewNode(ast.VariableDeclaration, map[string]ast.SlotValue{
		ast.SlotDeclarations: {List: []*ast.Node{declarator}},
	})

	assign := ast.NewNode(ast.AssignmentExpression, map[string]ast.SlotValue{
		ast.SlotOperator: {Scalar: "="},
		ast.SlotLeft:     {Node: ident("x")},
		ast.SlotRight:    {Node: ident("a")},
	})
	assignStmt := ast.NewNode(ast.ExpressionStatement, map[string]ast.SlotValue{
		ast.SlotExpressions: {Node: assign},
	})
	ret := ast.NewNode(ast.ReturnStatement, map[string]ast.SlotValue{
		ast.SlotArgument: {Node: ident("x")},
	})
	body := ast.NewNode(ast.BlockStatement, map[string]ast.SlotValue{
		ast.SlotBody: {List: []*ast.Node{assignStmt, ret}},
	})
	fn := ast.NewNode(ast.FunctionDeclaration, map[string]ast.SlotValue{
		ast.SlotId:     {Node: ident("f")},
		ast.SlotParams: {List: []*ast.Node{ident("a")}},
		ast.SlotBody:   {Node: body},
	})

	return ast.NewNode(ast.Program, map[string]ast.SlotValue{
		ast.SlotBody: {List: []*ast.Node{varDecl, fn}},
	})
}

func newTestContext() *dctx.Context {
	return dctx.New("test.js", dctx.DefaultFlags(), dctx.Hooks{})
}

func TestCreateScopesRegistersDeclarations(t *testing.T) {
	prog := sampleProgram()
	c := newTestContext()

	CreateScopesPass().run(prog, c)

	assert.NotNil(t, c.Root)
	xVar := c.Root.Find("x")
	assert.NotNil(t, xVar)
	assert.Equal(t, 1, len(xVar.History))

	fFunc := c.Root.FindFunction("f")
	assert.NotNil(t, fFunc)
	assert.Equal(t, 1, len(fFunc.Params))

	fnNode := prog.List(ast.SlotBody)[1]
	fnScope, ok := c.NodeScope[fnNode]
	assert.True(t, ok)
	assert.NotNil(t, fnScope.Find("a"))
}

func TestBindAssignmentsRecordsHistoryAndPromotesGlobals(t *testing.T) {
	prog := sampleProgram()
	c := newTestContext()
	CreateScopesPass().run(prog, c)
	BindAssignmentsPass().run(prog, c)

	// x is declared at program scope, the function-body assignment should
	// have been resolved against that same Variable rather than creating a
	// shadow binding.
	xVar := c.Root.Find("x")
	assert.NotNil(t, xVar)
	assert.True(t, len(xVar.History) >= 1)
}

func TestCountCallSitesRecordsCalls(t *testing.T) {
	call := ast.NewNode(ast.CallExpression, map[string]ast.SlotValue{
		ast.SlotCallee:    {Node: ident("f")},
		ast.SlotArguments: {List: nil},
	})
	stmt := ast.NewNode(ast.ExpressionStatement, map[string]ast.SlotValue{
		ast.SlotExpressions: {Node: call},
	})
	prog := sampleProgram()
	prog.SetList(ast.SlotBody, append(prog.List(ast.SlotBody), stmt))

	c := newTestContext()
	CreateScopesPass().run(prog, c)
	CountCallSitesPass().run(prog, c)

	fn := c.Root.FindFunction("f")
	assert.NotNil(t, fn)
	assert.Equal(t, 1, fn.CallCount)
}

func TestStripLocationsClearsLoc(t *testing.T) {
	n := numLit(1)
	n.Loc = &ast.Location{StartLine: 1}
	wrapper := ast.NewNode(ast.ExpressionStatement, map[string]ast.SlotValue{
		ast.SlotExpressions: {Node: n},
	})

	changed := StripLocationsPass().run(wrapper, newTestContext())

	assert.False(t, changed)
	assert.Nil(t, n.Loc)
}
