package pass

import (
	"github.com/viant/deobfjs/ast"
	"github.com/viant/deobfjs/dctx"
)

// DeadCode implements §4.6's dead-code elimination family: constant-test
// branch pruning (if/while/for), truncation of statements unreachable
// after an unconditional terminator, and collapsing of empty blocks that
// are not a function, catch, or try/finally body (those must stay, even
// empty, since removing them would change the statement's shape).
func DeadCode(n *ast.Node, c *dctx.Context, chain ast.Chain) bool {
	switch n.Kind {
	case ast.IfStatement:
		return pruneIf(n, chain)
	case ast.WhileStatement:
		return pruneWhile(n, chain)
	case ast.ForStatement:
		return pruneFor(n, chain)
	case ast.Program, ast.SwitchCase:
		return truncateAfterTerminator(n)
	case ast.BlockStatement:
		if truncateAfterTerminator(n) {
			return true
		}
		return collapseEmptyBlock(n, chain)
	}
	return false
}

func pruneIf(n *ast.Node, chain ast.Chain) bool {
	truthyVal, ok := constBool(n.Child(ast.SlotTest))
	if !ok {
		return false
	}
	if truthyVal {
		if cons := n.Child(ast.SlotConsequent); cons != nil {
			ast.ReplaceHead(chain, cons)
		} else {
			ast.RemoveHead(chain)
		}
		return true
	}
	if alt := n.Child(ast.SlotAlternate); alt != nil {
		ast.ReplaceHead(chain, alt)
	} else {
		ast.RemoveHead(chain)
	}
	return true
}

func pruneWhile(n *ast.Node, chain ast.Chain) bool {
	truthyVal, ok := constBool(n.Child(ast.SlotTest))
	if !ok || truthyVal {
		return false
	}
	ast.RemoveHead(chain)
	return true
}

func pruneFor(n *ast.Node, chain ast.Chain) bool {
	test := n.Child(ast.SlotTest)
	if test == nil {
		return false
	}
	truthyVal, ok := constBool(test)
	if !ok || truthyVal {
		return false
	}
	if stmt := hoistableInit(n.Child(ast.SlotInit)); stmt != nil {
		ast.ReplaceHead(chain, stmt)
		return true
	}
	ast.RemoveHead(chain)
	return true
}

// hoistableInit returns a standalone statement carrying init's side
// effects, or nil when init is absent or provably side-effect-free (a
// bare literal, or a declaration whose every initializer is a literal) —
// §4.6's `for(;false;) -> empty (initializer preserved as a statement if
// non-literal)`.
func hoistableInit(init *ast.Node) *ast.Node {
	if init == nil {
		return nil
	}
	if init.Kind == ast.VariableDeclaration {
		for _, d := range init.List(ast.SlotDeclarations) {
			if val := d.Child(ast.SlotInit); val != nil {
				if _, ok := literalValue(val); !ok {
					return init
				}
			}
		}
		return nil
	}
	if _, ok := literalValue(init); ok {
		return nil
	}
	return ast.NewNode(ast.ExpressionStatement, map[string]ast.SlotValue{
		ast.SlotExpressions: {Node: init},
	})
}

func truncateAfterTerminator(n *ast.Node) bool {
	body := n.List(ast.SlotBody)
	if len(body) == 0 {
		return false
	}
	cut := -1
	for i, stmt := range body {
		if stmt != nil && ast.IsTerminator(stmt.Kind) {
			cut = i
			break
		}
	}
	if cut < 0 || cut == len(body)-1 {
		return false
	}
	n.SetList(ast.SlotBody, body[:cut+1])
	return true
}

func collapseEmptyBlock(n *ast.Node, chain ast.Chain) bool {
	if len(n.List(ast.SlotBody)) != 0 {
		return false
	}
	if isProtectedBlockPosition(chain) {
		return false
	}
	ast.ReplaceHead(chain, ast.NewNode(ast.EmptyStatement, nil))
	return true
}

// isProtectedBlockPosition reports whether the chain's tip occupies a slot
// whose block must survive even when empty: a function body, a catch
// clause body, or a try statement's block/handler/finalizer.
func isProtectedBlockPosition(chain ast.Chain) bool {
	parent := chain.Parent()
	if parent == nil {
		return false
	}
	slot := chain.Slot()
	switch parent.Kind {
	case ast.FunctionDeclaration, ast.FunctionExpression, ast.ArrowFunctionExpr, ast.CatchClause:
		return slot == ast.SlotBody
	case ast.TryStatement:
		return slot == ast.SlotBlock || slot == ast.SlotHandler || slot == ast.SlotFinalizer
	}
	return false
}
