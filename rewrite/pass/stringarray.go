package pass

import (
	"github.com/viant/deobfjs/ast"
	"github.com/viant/deobfjs/dctx"
)

// accessor records one `var f = function(i) { return arr[i]; }` binding
// discovered by NewStringArrayInliner's detector half. wrapperName is set
// when the body is the §4.7 wrapped variant, `return atob(arr[i])`, so
// call-site inlining can re-apply the wrapper around the indexed access.
type accessor struct {
	arrayName   string
	wrapperName string
}

// NewStringArrayInliner returns a detect/inline Rewriter pair sharing
// private state, implementing §4.7's string-array-accessor inlining: an
// obfuscator hides a literal string array behind a trivial indirection
// function so every use site reads `f(12)` instead of the array directly.
// detect must run (as its own Pass, earlier in the same Main group) before
// inline so a call site appearing lexically before its accessor's
// declaration still resolves within the same fixpoint iteration.
func NewStringArrayInliner() (detect, inline func(n *ast.Node, c *dctx.Context, chain ast.Chain) bool) {
	accessors := map[string]accessor{}

	detect = func(n *ast.Node, c *dctx.Context, chain ast.Chain) bool {
		name, arr, wrapper, ok := matchAccessorFunction(n)
		if !ok {
			return false
		}
		accessors[name] = accessor{arrayName: arr, wrapperName: wrapper}
		return false
	}

	inline = func(n *ast.Node, c *dctx.Context, chain ast.Chain) bool {
		if n.Kind != ast.CallExpression {
			return false
		}
		callee := n.Child(ast.SlotCallee)
		if callee == nil || callee.Kind != ast.Identifier {
			return false
		}
		name, _ := callee.Scalar(ast.SlotName).(string)
		acc, ok := accessors[name]
		if !ok {
			return false
		}
		args := n.List(ast.SlotArguments)
		if len(args) != 1 {
			return false
		}
		arrID := ast.NewNode(ast.Identifier, nil)
		arrID.SetScalar(ast.SlotName, acc.arrayName)
		member := ast.NewNode(ast.MemberExpression, map[string]ast.SlotValue{
			ast.SlotObject:   {Node: arrID},
			ast.SlotProperty: {Node: args[0]},
			ast.SlotComputed: {Scalar: true},
		})
		replacement := member
		if acc.wrapperName != "" {
			wrapID := ast.NewNode(ast.Identifier, nil)
			wrapID.SetScalar(ast.SlotName, acc.wrapperName)
			replacement = ast.NewNode(ast.CallExpression, map[string]ast.SlotValue{
				ast.SlotCallee:    {Node: wrapID},
				ast.SlotArguments: {List: []*ast.Node{member}},
			})
		}
		ast.ReplaceHead(chain, replacement)
		return true
	}
	return detect, inline
}

// matchAccessorFunction recognises `function(i) { return arr[i]; }` either
// as a FunctionDeclaration bound to name directly, or as a
// FunctionExpression assigned to name via a VariableDeclarator. It also
// recognises the §4.7 wrapped variant `return atob(arr[i]);`, reporting
// the wrapper's name as wrapperName ("" for the bare form).
func matchAccessorFunction(n *ast.Node) (name, arrayName, wrapperName string, ok bool) {
	var fn *ast.Node
	switch n.Kind {
	case ast.FunctionDeclaration:
		fn = n
		name = identifierName(n.Child(ast.SlotId))
	case ast.VariableDeclarator:
		init := n.Child(ast.SlotInit)
		if init == nil || init.Kind != ast.FunctionExpression {
			return "", "", "", false
		}
		fn = init
		name = identifierName(n.Child(ast.SlotId))
	default:
		return "", "", "", false
	}
	if name == "" || fn == nil {
		return "", "", "", false
	}
	params := fn.List(ast.SlotParams)
	if len(params) != 1 {
		return "", "", "", false
	}
	paramName := identifierName(params[0])
	if paramName == "" {
		return "", "", "", false
	}
	body := fn.Child(ast.SlotBody)
	if body == nil {
		return "", "", "", false
	}
	stmts := body.List(ast.SlotBody)
	if len(stmts) != 1 || stmts[0].Kind != ast.ReturnStatement {
		return "", "", "", false
	}
	retArg := stmts[0].Child(ast.SlotArgument)
	if retArg == nil {
		return "", "", "", false
	}
	arg := retArg
	if retArg.Kind == ast.CallExpression {
		callee := retArg.Child(ast.SlotCallee)
		wrapperName = identifierName(callee)
		callArgs := retArg.List(ast.SlotArguments)
		if wrapperName == "" || len(callArgs) != 1 {
			return "", "", "", false
		}
		arg = callArgs[0]
	}
	if arg == nil || arg.Kind != ast.MemberExpression {
		return "", "", "", false
	}
	computed, _ := arg.Scalar(ast.SlotComputed).(bool)
	if !computed {
		return "", "", "", false
	}
	obj := arg.Child(ast.SlotObject)
	prop := arg.Child(ast.SlotProperty)
	if identifierName(prop) != paramName {
		return "", "", "", false
	}
	arrayName = identifierName(obj)
	if arrayName == "" {
		return "", "", "", false
	}
	return name, arrayName, wrapperName, true
}

func identifierName(n *ast.Node) string {
	if n == nil || n.Kind != ast.Identifier {
		return ""
	}
	name, _ := n.Scalar(ast.SlotName).(string)
	return name
}
