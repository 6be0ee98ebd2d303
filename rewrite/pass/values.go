// Package pass implements the individual expression- and statement-level
// rewriters (§4.6/§4.7): constant folding, boolean/undefined recovery, dead
// code elimination, sequence-expression lifting, control-flow
// normalisation, string-escape decoding, property-access simplification,
// and string-array-accessor inlining. Empty-function pruning is a
// post-pass in package rewrite.
//
// Functions here share rewrite.Rewriter's exact signature
// (func(*ast.Node, *dctx.Context, ast.Chain) bool) without importing the
// rewrite package itself; package engine assembles both into Pipelines.
package pass

import (
	"math"

	"github.com/viant/deobfjs/ast"
)

// undefinedValue is the sentinel literalValue returns for the `undefined`
// identifier (and that folding `void <literal>` produces), distinguishing
// "no value" from Go's nil (which stands for JS null).
type undefinedValue struct{}

// literalValue extracts the constant value a literal or simple constant
// identifier node denotes, per the value domain folding operates over:
// float64 (number), string, bool, nil (JS null), undefinedValue{} (JS
// undefined). ok is false for anything not recognised as a compile-time
// constant.
func literalValue(n *ast.Node) (val any, ok bool) {
	if n == nil {
		return nil, false
	}
	switch n.Kind {
	case ast.NumericLiteral:
		v, ok := n.Scalar(ast.SlotValueSlot).(float64)
		return v, ok
	case ast.StringLiteral:
		v, ok := n.Scalar(ast.SlotValueSlot).(string)
		return v, ok
	case ast.BooleanLiteral:
		v, ok := n.Scalar(ast.SlotValueSlot).(bool)
		return v, ok
	case ast.NullLiteral:
		return nil, true
	case ast.Identifier:
		if name, _ := n.Scalar(ast.SlotName).(string); name == "undefined" {
			return undefinedValue{}, true
		}
	}
	return nil, false
}

// makeLiteral builds the AST node denoting val, the inverse of
// literalValue for every value kind folding can produce.
func makeLiteral(val any) *ast.Node {
	switch v := val.(type) {
	case float64:
		n := ast.NewNode(ast.NumericLiteral, nil)
		n.SetScalar(ast.SlotValueSlot, v)
		return n
	case string:
		n := ast.NewNode(ast.StringLiteral, nil)
		n.SetScalar(ast.SlotValueSlot, v)
		return n
	case bool:
		n := ast.NewNode(ast.BooleanLiteral, nil)
		n.SetScalar(ast.SlotValueSlot, v)
		return n
	case undefinedValue:
		id := ast.NewNode(ast.Identifier, nil)
		id.SetScalar(ast.SlotName, "undefined")
		return id
	case nil:
		return ast.NewNode(ast.NullLiteral, nil)
	}
	return nil
}

// truthy implements JS's ToBoolean over the constant value domain.
func truthy(val any) bool {
	switch v := val.(type) {
	case float64:
		return v != 0 && !math.IsNaN(v)
	case string:
		return v != ""
	case bool:
		return v
	case nil:
		return false
	case undefinedValue:
		return false
	}
	return true
}

// constBool reports whether n is a literal node (per literalValue) whose
// ToBoolean is statically known (ok), and that value (b); used by
// dead-code elimination's condition checks.
func constBool(n *ast.Node) (b bool, ok bool) {
	v, ok := literalValue(n)
	if !ok {
		return false, false
	}
	return truthy(v), true
}
