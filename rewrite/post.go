package rewrite

import (
	"github.com/viant/deobfjs/ast"
	"github.com/viant/deobfjs/dctx"
	"github.com/viant/deobfjs/symtab"
)

// EmptyFunctionPrunePass removes function declarations whose body does
// nothing and whose call count (recorded once by the CountCallSitesPass
// pre-pass; the fixpoint loop does not update it) is zero — §4.7's empty-function removal. "Does nothing" covers two
// shapes: a body with no statements at all, and a body that is a single
// call forwarding to another function already known to do nothing (the
// thin-wrapper shape obfuscators leave behind once the real target has
// itself been hollowed out). A declared-but-never-called empty function is
// always dead weight; one with call sites is left alone even though
// calling it does nothing, since removing the declaration without also
// erasing every call site would leave a ReferenceError behind.
func EmptyFunctionPrunePass() Pass {
	return Pass{
		Name:  "prune-empty-functions",
		Order: BottomUp,
		Rewriters: []Rewriter{
			func(n *ast.Node, c *dctx.Context, chain ast.Chain) bool {
				if n.Kind != ast.FunctionDeclaration {
					return false
				}
				body := n.Child(ast.SlotBody)
				if body == nil {
					return false
				}
				name := identifierName(n.Child(ast.SlotId))
				if name == "" {
					return false
				}
				scope := c.NearestScope(n, chain)
				fn := scope.FindFunction(name)
				if fn == nil {
					return false
				}
				empty := isEmptyFunctionBody(body, scope)
				changed := false
				if empty != fn.IsEmptyFunc {
					fn.IsEmptyFunc = empty
					changed = true
				}
				if !empty || fn.CallCount != 0 {
					return changed
				}
				delete(scope.Functions, name)
				delete(scope.Symbols, name)
				ast.RemoveHead(chain)
				return true
			},
		},
	}
}

// isEmptyFunctionBody reports whether body does nothing observable: no
// statements, or a single statement that only calls another function
// already marked IsEmptyFunc (§4.7's second empty-function shape).
func isEmptyFunctionBody(body *ast.Node, scope *symtab.Scope) bool {
	stmts := body.List(ast.SlotBody)
	if len(stmts) == 0 {
		return true
	}
	if len(stmts) != 1 {
		return false
	}
	stmt := stmts[0]
	if stmt == nil || stmt.Kind != ast.ExpressionStatement {
		return false
	}
	call := stmt.Child(ast.SlotExpressions)
	if call == nil || call.Kind != ast.CallExpression {
		return false
	}
	callee := call.Child(ast.SlotCallee)
	if callee == nil || callee.Kind != ast.Identifier {
		return false
	}
	calleeName, _ := callee.Scalar(ast.SlotName).(string)
	if calleeName == "" {
		return false
	}
	target := scope.FindFunction(calleeName)
	return target != nil && target.IsEmptyFunc
}

// meetsRenameThreshold reports whether a rename suggestion is confident
// enough (Medium or High) to be applied automatically; Low-confidence
// suggestions are never applied.
func meetsRenameThreshold(conf symtab.Confidence) bool {
	return conf == symtab.Medium || conf == symtab.High
}

// ApplyRenamesPass substitutes every Identifier referencing a Variable or
// Function carrying an accepted rename suggestion (written by the Renamer
// hook in the preceding post-pass step) with its SuggestedName. Resolution
// is by scope lookup at each occurrence rather than an explicit use-list,
// so it naturally covers every read and write site.
func ApplyRenamesPass() Pass {
	return Pass{
		Name:  "apply-renames",
		Order: TopDown,
		Rewriters: []Rewriter{
			func(n *ast.Node, c *dctx.Context, chain ast.Chain) bool {
				if n.Kind != ast.Identifier {
					return false
				}
				if isPropertyKeyPosition(chain) {
					return false
				}
				name, _ := n.Scalar(ast.SlotName).(string)
				if name == "" {
					return false
				}
				scope := c.NearestScope(n, chain)
				v := scope.Find(name)
				if v == nil || !meetsRenameThreshold(v.Confidence) || v.SuggestedName == "" {
					return false
				}
				n.SetScalar(ast.SlotName, v.SuggestedName)
				return true
			},
		},
	}
}

// isPropertyKeyPosition reports whether the chain's tip is a non-computed
// member/property name, which is a literal member label rather than a
// variable reference and so must never be renamed.
func isPropertyKeyPosition(chain ast.Chain) bool {
	parent := chain.Parent()
	if parent == nil {
		return false
	}
	switch parent.Kind {
	case ast.MemberExpression:
		if chain.Slot() != ast.SlotProperty {
			return false
		}
		computed, _ := parent.Scalar(ast.SlotComputed).(bool)
		return !computed
	case ast.Property:
		return chain.Slot() == ast.SlotKey
	}
	return false
}
