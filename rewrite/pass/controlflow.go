package pass

import (
	"github.com/viant/deobfjs/ast"
	"github.com/viant/deobfjs/dctx"
)

// ControlFlowNormalize wraps a single bare statement occupying a
// control-flow branch slot (if/else, loop bodies, labeled statements) in a
// BlockStatement (§4.6), so later passes that splice additional statements
// into a branch never have to special-case "branch is a single statement,
// not a block".
func ControlFlowNormalize(n *ast.Node, c *dctx.Context, chain ast.Chain) bool {
	if !ast.IsControlFlow(n.Kind) {
		return false
	}
	changed := false
	for _, slot := range branchSlots(n.Kind) {
		stmt := n.Child(slot)
		if stmt == nil || stmt.Kind == ast.BlockStatement {
			continue
		}
		// An `else if (...) {...}` chain stores the nested IfStatement
		// directly in the alternate slot; §4.6 requires that shape be
		// preserved rather than wrapped into `else { if (...) {...} }`.
		if n.Kind == ast.IfStatement && slot == ast.SlotAlternate && stmt.Kind == ast.IfStatement {
			continue
		}
		branchChain := chain.Push(n, slot, -1)
		ast.WrapInBlock(branchChain, stmt)
		changed = true
	}
	return changed
}

func branchSlots(k ast.Kind) []string {
	switch k {
	case ast.IfStatement:
		return []string{ast.SlotConsequent, ast.SlotAlternate}
	case ast.ForStatement, ast.ForInStatement, ast.WhileStatement, ast.DoWhileStatement, ast.LabeledStatement:
		return []string{ast.SlotBody}
	}
	return nil
}
