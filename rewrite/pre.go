package rewrite

import (
	"github.com/viant/deobfjs/ast"
	"github.com/viant/deobfjs/dctx"
	"github.com/viant/deobfjs/symtab"
)

// StripLocationsPass drops Loc from every node (§4.5 step 1). Rewriters
// never consult source position, so this both frees a little memory and
// documents the invariant that position data plays no role in any
// transformation decision.
func StripLocationsPass() Pass {
	return Pass{
		Name:  "strip-locations",
		Order: TopDown,
		Rewriters: []Rewriter{
			func(n *ast.Node, c *dctx.Context, chain ast.Chain) bool {
				if n.Loc == nil {
					return false
				}
				n.Loc = nil
				return false
			},
		},
	}
}

// CreateScopesPass builds the scope tree and registers declarations (var/
// let/const declarators, function declarations, parameters) at the point
// they lexically appear, per §4.4 ("no hoisting ... registered exactly
// where they lexically appear"). It also records each declarator's
// initializer into the new Variable's value history.
func CreateScopesPass() Pass {
	return Pass{
		Name:  "create-scopes",
		Order: TopDown,
		Rewriters: []Rewriter{declareScopesAndBindings},
	}
}

func declareScopesAndBindings(n *ast.Node, c *dctx.Context, chain ast.Chain) bool {
	switch n.Kind {
	case ast.Program:
		root := symtab.NewRootScope(n)
		c.RegisterScope(n, root)

	case ast.FunctionDeclaration:
		outer := c.NearestScope(n, chain)
		name := identifierName(n.Child(ast.SlotId))
		if name != "" {
			outer.AddFunction(name, n, n.List(ast.SlotParams))
		}
		fnScope := outer.NewChild(symtab.FunctionScope, n, name)
		c.RegisterScope(n, fnScope)

	case ast.FunctionExpression, ast.ArrowFunctionExpr:
		outer := c.NearestScope(n, chain)
		fnScope := outer.NewChild(symtab.FunctionScope, n, "anon")
		c.RegisterScope(n, fnScope)

	case ast.CatchClause:
		outer := c.NearestScope(n, chain)
		scope := outer.NewChild(symtab.BlockScope, n, "catch")
		c.RegisterScope(n, scope)
		if name := identifierName(n.Child(ast.SlotParam)); name != "" {
			scope.AddVariable(name, n)
		}

	case ast.BlockStatement:
		// A function/program body's block does not get a second nested
		// scope: its owner already created one at the function/program
		// node itself (mirroring JS where a function's parameter scope
		// and its top-level body scope are usually treated as one for our
		// purposes). Any other BlockStatement (if/for/while/bare blocks)
		// gets its own block scope.
		if p := chain.Parent(); p != nil && isFunctionBody(p, n) {
			// share the function/catch's own scope rather than nesting
			if s, ok := c.NodeScope[p]; ok {
				c.NodeScope[n] = s
			}
			break
		}
		outer := c.NearestScope(n, chain)
		block := outer.NewChild(symtab.BlockScope, n, chain.Slot())
		c.RegisterScope(n, block)

	case ast.VariableDeclarator:
		scope := c.NearestScope(n, chain)
		name := identifierName(n.Child(ast.SlotId))
		if name == "" {
			break
		}
		v := scope.AddVariable(name, n)
		if init := n.Child(ast.SlotInit); init != nil {
			v.SetValue(init)
		}

	case ast.Identifier:
		if chain.Slot() == ast.SlotParams {
			scope := c.NearestScope(n, chain)
			if name, _ := n.Scalar(ast.SlotName).(string); name != "" {
				scope.AddVariable(name, n)
			}
		}
	}
	return false
}

func isFunctionBody(owner, body *ast.Node) bool {
	switch owner.Kind {
	case ast.FunctionDeclaration, ast.FunctionExpression, ast.ArrowFunctionExpr, ast.CatchClause:
		return owner.Child(ast.SlotBody) == body
	}
	return false
}

func identifierName(n *ast.Node) string {
	if n == nil || n.Kind != ast.Identifier {
		return ""
	}
	name, _ := n.Scalar(ast.SlotName).(string)
	return name
}

// BindAssignmentsPass resolves `x = …` and `x.y.z = …` assignment targets
// (as opposed to declarators, handled by CreateScopesPass) against the
// scope tree, recording the new value into the target Variable's history.
// A dotted target is resolved/installed through Scope.FindNode/AddNode
// (§3/§4.4's get_variable/add_variable), so `a.b.c = x` is modeled as a
// nested Variable under `a`'s Properties rather than discarded. A base
// identifier with no existing declaration is promoted into the program
// root scope, mirroring JavaScript's implicit-global assignment semantics
// (§4.4).
func BindAssignmentsPass() Pass {
	return Pass{
		Name:  "bind-assignments",
		Order: TopDown,
		Rewriters: []Rewriter{
			func(n *ast.Node, c *dctx.Context, chain ast.Chain) bool {
				if n.Kind != ast.AssignmentExpression {
					return false
				}
				if op, _ := n.Scalar(ast.SlotOperator).(string); op != "" && op != "=" {
					return false
				}
				left := n.Child(ast.SlotLeft)
				if left == nil || (left.Kind != ast.Identifier && left.Kind != ast.MemberExpression) {
					return false
				}
				scope := c.NearestScope(n, chain)
				v := scope.FindNode(left)
				if v == nil {
					if c.Root != nil {
						v = c.Root.AddNode(left, n)
					}
				} else {
					v.DefinerNodes = append(v.DefinerNodes, n)
				}
				if v != nil {
					if right := n.Child(ast.SlotRight); right != nil {
						v.SetValue(right)
					}
				}
				return false
			},
		},
	}
}

// CountCallSitesPass resolves each call's callee to a declared Function (by
// simple identifier name; member-expression callees are not resolved) and
// records the call site, seeding
// Function.CallCount for the empty-function-removal post-pass.
func CountCallSitesPass() Pass {
	return Pass{
		Name:  "count-call-sites",
		Order: TopDown,
		Rewriters: []Rewriter{
			func(n *ast.Node, c *dctx.Context, chain ast.Chain) bool {
				if n.Kind != ast.CallExpression {
					return false
				}
				callee := n.Child(ast.SlotCallee)
				name := identifierName(callee)
				if name == "" {
					return false
				}
				scope := c.NearestScope(n, chain)
				if fn := scope.FindFunction(name); fn != nil {
					fn.RecordCall(n)
				}
				return false
			},
		},
	}
}
