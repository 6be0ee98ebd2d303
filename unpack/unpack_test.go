package unpack

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
	"github.com/viant/deobfjs/ast"
	"github.com/viant/deobfjs/hooks"
)

// stubGenerator renders every node to a fixed placeholder, enough to drive
// Unpack's file-writing path without depending on jsprint.
type stubGenerator struct{}

func (stubGenerator) Generate(tree *ast.Node) (hooks.GenResult, error) {
	return hooks.GenResult{Code: "/* module */"}, nil
}

func ident(name string) *ast.Node {
	n := ast.NewNode(ast.Identifier, nil)
	n.SetScalar(ast.SlotName, name)
	return n
}

func emptyFunctionExpr(params ...string) *ast.Node {
	paramNodes := make([]*ast.Node, len(params))
	for i, p := range params {
		paramNodes[i] = ident(p)
	}
	return ast.NewNode(ast.FunctionExpression, map[string]ast.SlotValue{
		ast.SlotParams: {List: paramNodes},
		ast.SlotBody:   {Node: ast.NewNode(ast.BlockStatement, map[string]ast.SlotValue{ast.SlotBody: {List: []*ast.Node{}}})},
	})
}

func classicalWebpackProgram() *ast.Node {
	module0 := ast.NewNode(ast.FunctionExpression, map[string]ast.SlotValue{
		ast.SlotParams: {List: []*ast.Node{ident("module"), ident("exports"), ident("require")}},
		ast.SlotBody: {Node: ast.NewNode(ast.BlockStatement, map[string]ast.SlotValue{
			ast.SlotBody: {List: []*ast.Node{}},
		})},
	})
	modulesArray := ast.NewNode(ast.ArrayExpression, map[string]ast.SlotValue{
		ast.SlotElements: {List: []*ast.Node{module0}},
	})

	cacheDecl := ast.NewNode(ast.VariableDeclarator, map[string]ast.SlotValue{
		ast.SlotId:   {Node: ident("installedModules")},
		ast.SlotInit: {Node: ast.NewNode(ast.ObjectExpression, map[string]ast.SlotValue{ast.SlotProperties: {List: nil}})},
	})
	cacheStmt := ast.NewNode(ast.VariableDeclaration, map[string]ast.SlotValue{
		ast.SlotDeclarations: {List: []*ast.Node{cacheDecl}},
	})

	loaderBody := ast.NewNode(ast.BlockStatement, map[string]ast.SlotValue{
		ast.SlotBody: {List: []*ast.Node{
			ast.NewNode(ast.ExpressionStatement, map[string]ast.SlotValue{
				ast.SlotExpressions: {Node: ast.NewNode(ast.CallExpression, map[string]ast.SlotValue{
					ast.SlotCallee: {Node: ast.NewNode(ast.MemberExpression, map[string]ast.SlotValue{
						ast.SlotObject:   {Node: ident("modules")},
						ast.SlotProperty: {Node: ident("call")},
					})},
					ast.SlotArguments: {List: []*ast.Node{}},
				})},
			}),
			ast.NewNode(ast.ReturnStatement, map[string]ast.SlotValue{
				ast.SlotArgument: {Node: ident("exports")},
			}),
			ast.NewNode(ast.ExpressionStatement, map[string]ast.SlotValue{
				ast.SlotExpressions: {Node: ast.NewNode(ast.AssignmentExpression, map[string]ast.SlotValue{
					ast.SlotOperator: {Scalar: "="},
					ast.SlotLeft:     {Node: ident("cached")},
					ast.SlotRight:    {Node: ast.NewNode(ast.ObjectExpression, map[string]ast.SlotValue{ast.SlotProperties: {List: nil}})},
				})},
			}),
		}},
	})
	loader := ast.NewNode(ast.FunctionDeclaration, map[string]ast.SlotValue{
		ast.SlotId:     {Node: ident("__require__")},
		ast.SlotParams: {List: []*ast.Node{ident("moduleId")}},
		ast.SlotBody:   {Node: loaderBody},
	})

	wrapperBody := ast.NewNode(ast.BlockStatement, map[string]ast.SlotValue{
		ast.SlotBody: {List: []*ast.Node{cacheStmt, loader}},
	})
	wrapperFn := ast.NewNode(ast.FunctionExpression, map[string]ast.SlotValue{
		ast.SlotParams: {List: []*ast.Node{ident("modules")}},
		ast.SlotBody:   {Node: wrapperBody},
	})
	iife := ast.NewNode(ast.CallExpression, map[string]ast.SlotValue{
		ast.SlotCallee:    {Node: wrapperFn},
		ast.SlotArguments: {List: []*ast.Node{modulesArray}},
	})
	stmt := ast.NewNode(ast.ExpressionStatement, map[string]ast.SlotValue{
		ast.SlotExpressions: {Node: iife},
	})
	return ast.NewNode(ast.Program, map[string]ast.SlotValue{
		ast.SlotBody: {List: []*ast.Node{stmt}},
	})
}

func TestDetectClassicalStructural(t *testing.T) {
	tree := classicalWebpackProgram()
	match, ok := Detect(tree.List(ast.SlotBody)[0])
	require.True(t, ok)
	assert.Equal(t, ClassicalStructural, match.Dialect)
	assert.NotNil(t, match.Container)
}

func TestUnpackWritesModulesAndIsIdempotent(t *testing.T) {
	tree := classicalWebpackProgram()
	dir := t.TempDir()
	sourcePath := filepath.Join(dir, "bundle.js")

	result, err := Unpack(context.Background(), tree, Options{
		SourcePath: sourcePath,
		FS:         afs.New(),
		Generator:  stubGenerator{},
	})
	require.NoError(t, err)
	assert.True(t, result.Unpacked)
	assert.Equal(t, ClassicalStructural, result.Dialect)
	assert.Len(t, result.Modules, 1)

	_, err = os.Stat(filepath.Join(sourcePath+".unpacked", "README.md"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(sourcePath+".unpacked", "mapping.json"))
	assert.NoError(t, err)

	// second run over the now-rewritten tree must be a no-op
	second, err := Unpack(context.Background(), tree, Options{SourcePath: sourcePath, FS: afs.New(), Generator: stubGenerator{}})
	require.NoError(t, err)
	assert.False(t, second.Unpacked)
}

func TestDetectSimpleIIFE(t *testing.T) {
	fn := emptyFunctionExpr()
	body := fn.Child(ast.SlotBody)
	body.SetList(ast.SlotBody, []*ast.Node{ast.NewNode(ast.ExpressionStatement, map[string]ast.SlotValue{
		ast.SlotExpressions: {Node: ident("x")},
	})})
	call := ast.NewNode(ast.CallExpression, map[string]ast.SlotValue{
		ast.SlotCallee:    {Node: fn},
		ast.SlotArguments: {List: []*ast.Node{}},
	})
	stmt := ast.NewNode(ast.ExpressionStatement, map[string]ast.SlotValue{ast.SlotExpressions: {Node: call}})

	match, ok := Detect(stmt)
	require.True(t, ok)
	assert.Equal(t, SimpleIIFE, match.Dialect)
}

func TestDisambiguateSuffixesCollisions(t *testing.T) {
	out := disambiguate([]string{"utils", "utils", "auth", "utils"})
	assert.Equal(t, []string{"utils", "utils_1", "auth", "utils_2"}, out)
}
