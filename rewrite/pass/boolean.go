package pass

import (
	"github.com/viant/deobfjs/ast"
	"github.com/viant/deobfjs/dctx"
)

// BooleanRecovery rewrites the small family of obfuscator idioms that
// encode true/false/undefined/0/"" without using the literal tokens
// directly (§4.6): `![]`, `!+[]`, `+[]`, `[]+[]`. `!0`, `!1` and `void 0`
// are left to ConstantFold, which also handles the rest once these have
// exposed a plain literal underneath; this rewriter runs right after it in
// the same main-loop Pass group so both converge together.
func BooleanRecovery(n *ast.Node, c *dctx.Context, chain ast.Chain) bool {
	switch n.Kind {
	case ast.UnaryExpression:
		return recoverUnaryIdiom(n, chain)
	case ast.BinaryExpression:
		return recoverConcatEmptyString(n, chain)
	}
	return false
}

func isEmptyArray(n *ast.Node) bool {
	return n != nil && n.Kind == ast.ArrayExpression && len(n.List(ast.SlotElements)) == 0
}

func recoverUnaryIdiom(n *ast.Node, chain ast.Chain) bool {
	op, _ := n.Scalar(ast.SlotOperator).(string)
	arg := n.Child(ast.SlotArgument)

	switch op {
	case "!":
		if isEmptyArray(arg) {
			// ![] -> false
			ast.ReplaceHead(chain, makeLiteral(false))
			return true
		}
		if inner := arg; inner != nil && inner.Kind == ast.UnaryExpression {
			innerOp, _ := inner.Scalar(ast.SlotOperator).(string)
			if innerOp == "+" && isEmptyArray(inner.Child(ast.SlotArgument)) {
				// !+[] -> true (+[] is 0, !0 is true)
				ast.ReplaceHead(chain, makeLiteral(true))
				return true
			}
		}
	case "+":
		if isEmptyArray(arg) {
			// +[] -> 0
			ast.ReplaceHead(chain, makeLiteral(float64(0)))
			return true
		}
	case "void":
		// void <anything side-effect-free> -> the `undefined` identifier;
		// ConstantFold already folds `void <literal>`, this additionally
		// covers `void 0` written against an already-inlined 0 constant
		// left over from a prior pass when the argument has no side
		// effects worth preserving (an empty array or another `void …`).
		if isEmptyArray(arg) || (arg != nil && arg.Kind == ast.Identifier) {
			if name, _ := arg.Scalar(ast.SlotName).(string); arg.Kind != ast.Identifier || name == "undefined" {
				id := ast.NewNode(ast.Identifier, nil)
				id.SetScalar(ast.SlotName, "undefined")
				ast.ReplaceHead(chain, id)
				return true
			}
		}
	}
	return false
}

// recoverConcatEmptyString rewrites `[] + []` (and `[] + ""`/`"" + []`) to
// the empty string literal, the classic JSFuck-adjacent idiom for "" that
// doesn't fit evalBinary's literal-only domain since `[]` isn't a literal.
func recoverConcatEmptyString(n *ast.Node, chain ast.Chain) bool {
	op, _ := n.Scalar(ast.SlotOperator).(string)
	if op != "+" {
		return false
	}
	left, right := n.Child(ast.SlotLeft), n.Child(ast.SlotRight)
	leftEmpty := isEmptyArray(left) || isEmptyString(left)
	rightEmpty := isEmptyArray(right) || isEmptyString(right)
	if leftEmpty && rightEmpty {
		ast.ReplaceHead(chain, makeLiteral(""))
		return true
	}
	return false
}

func isEmptyString(n *ast.Node) bool {
	v, ok := literalValue(n)
	if !ok {
		return false
	}
	s, ok := v.(string)
	return ok && s == ""
}
