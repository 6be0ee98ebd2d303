package pass

import (
	"github.com/viant/deobfjs/ast"
	"github.com/viant/deobfjs/dctx"
)

// SequenceLift expands statement-position expressions that only make sense
// as an artifact of minification back into their imperative equivalent
// (§4.6): a bare sequence expression becomes N statements, `a && b;`
// becomes `if (a) { b; }`, `a || b;` becomes `if (!a) { b; }`, and a bare
// ternary statement becomes an if/else.
func SequenceLift(n *ast.Node, c *dctx.Context, chain ast.Chain) bool {
	switch n.Kind {
	case ast.ExpressionStatement:
		expr := n.Child(ast.SlotExpressions)
		if expr == nil {
			return false
		}
		switch expr.Kind {
		case ast.SequenceExpression:
			return liftSequence(expr, chain)
		case ast.LogicalExpression:
			return liftLogicalStatement(expr, chain)
		case ast.ConditionalExpression:
			return liftTernaryStatement(expr, chain)
		}
		return false
	case ast.ReturnStatement:
		return liftSequenceInSlot(n, chain, ast.SlotArgument)
	case ast.ForStatement:
		return liftSequenceInSlot(n, chain, ast.SlotInit)
	case ast.IfStatement:
		return liftSequenceInSlot(n, chain, ast.SlotTest)
	}
	return false
}

// liftSequenceInSlot handles the return/for-init/if-test case of §4.6's
// sequence-lifting contract: when n's slot holds a bare SequenceExpression,
// every expression but the last is hoisted into its own ExpressionStatement
// immediately before n (n itself stays put, in its own chain position), and
// the last expression replaces the sequence in slot.
func liftSequenceInSlot(n *ast.Node, chain ast.Chain, slot string) bool {
	expr := n.Child(slot)
	if expr == nil || expr.Kind != ast.SequenceExpression {
		return false
	}
	exprs := expr.List(ast.SlotExpressions)
	if len(exprs) == 0 {
		return false
	}
	hoisted := hoistedStatements(exprs[:len(exprs)-1])
	n.SetChild(slot, exprs[len(exprs)-1])
	ast.ReplaceHeadWithMany(chain, append(hoisted, n))
	return true
}

func hoistedStatements(exprs []*ast.Node) []*ast.Node {
	out := make([]*ast.Node, 0, len(exprs))
	for _, e := range exprs {
		out = append(out, wrapExprStatement(e))
	}
	return out
}

func liftSequence(expr *ast.Node, chain ast.Chain) bool {
	exprs := expr.List(ast.SlotExpressions)
	if len(exprs) == 0 {
		return false
	}
	stmts := make([]*ast.Node, 0, len(exprs))
	for _, e := range exprs {
		stmts = append(stmts, wrapExprStatement(e))
	}
	ast.ReplaceHeadWithMany(chain, stmts)
	return true
}

func liftLogicalStatement(expr *ast.Node, chain ast.Chain) bool {
	op, _ := expr.Scalar(ast.SlotOperator).(string)
	left, right := expr.Child(ast.SlotLeft), expr.Child(ast.SlotRight)
	if left == nil || right == nil {
		return false
	}

	var test *ast.Node
	switch op {
	case "&&":
		test = left
	case "||":
		test = ast.NewNode(ast.UnaryExpression, map[string]ast.SlotValue{
			ast.SlotOperator: {Scalar: "!"},
			ast.SlotArgument: {Node: left},
		})
	default:
		return false
	}

	ifStmt := ast.NewNode(ast.IfStatement, map[string]ast.SlotValue{
		ast.SlotTest:       {Node: test},
		ast.SlotConsequent: {Node: blockOf(wrapExprStatement(right))},
	})
	ast.ReplaceHead(chain, ifStmt)
	return true
}

func liftTernaryStatement(expr *ast.Node, chain ast.Chain) bool {
	test := expr.Child(ast.SlotTest)
	cons := expr.Child(ast.SlotConsequent)
	alt := expr.Child(ast.SlotAlternate)
	if test == nil {
		return false
	}
	slots := map[string]ast.SlotValue{
		ast.SlotTest: {Node: test},
	}
	if cons != nil {
		slots[ast.SlotConsequent] = ast.SlotValue{Node: blockOf(wrapExprStatement(cons))}
	} else {
		slots[ast.SlotConsequent] = ast.SlotValue{Node: ast.NewNode(ast.BlockStatement, nil)}
	}
	if alt != nil {
		slots[ast.SlotAlternate] = ast.SlotValue{Node: blockOf(wrapExprStatement(alt))}
	}
	ast.ReplaceHead(chain, ast.NewNode(ast.IfStatement, slots))
	return true
}

func wrapExprStatement(e *ast.Node) *ast.Node {
	return ast.NewNode(ast.ExpressionStatement, map[string]ast.SlotValue{
		ast.SlotExpressions: {Node: e},
	})
}

func blockOf(stmt *ast.Node) *ast.Node {
	return ast.NewNode(ast.BlockStatement, map[string]ast.SlotValue{
		ast.SlotBody: {List: []*ast.Node{stmt}},
	})
}
