package pass

import (
	"regexp"

	"github.com/viant/deobfjs/ast"
	"github.com/viant/deobfjs/dctx"
)

var identifierLike = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// PropertySimplify rewrites `obj["name"]` to `obj.name` whenever "name"
// matches identifierLike (§4.6) — reserved words are allowed, per modern
// JS, which permits any IdentifierName (including keywords) as a dotted
// property name. Obfuscators bracket-access every property specifically
// to keep member names out of a naive string-literal scan.
func PropertySimplify(n *ast.Node, c *dctx.Context, chain ast.Chain) bool {
	if n.Kind != ast.MemberExpression {
		return false
	}
	computed, _ := n.Scalar(ast.SlotComputed).(bool)
	if !computed {
		return false
	}
	prop := n.Child(ast.SlotProperty)
	val, ok := literalValue(prop)
	if !ok {
		return false
	}
	name, ok := val.(string)
	if !ok || !identifierLike.MatchString(name) {
		return false
	}
	id := ast.NewNode(ast.Identifier, nil)
	id.SetScalar(ast.SlotName, name)
	n.SetChild(ast.SlotProperty, id)
	n.SetScalar(ast.SlotComputed, false)
	return true
}
