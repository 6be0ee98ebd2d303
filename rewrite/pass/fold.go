package pass

import (
	"math"
	"strconv"

	"github.com/viant/deobfjs/ast"
	"github.com/viant/deobfjs/dctx"
)

// ConstantFold reduces binary, unary and logical expressions whose operands
// are all compile-time constants to a single literal node (§4.6). Division
// and modulo by a literal zero are deliberately left unfolded — §4.6 calls
// this out explicitly since the IEEE-754 result (±Inf/NaN) is correct but
// surprising enough in a deobfuscation report to leave visible in source
// form instead of silently baking in.
func ConstantFold(n *ast.Node, c *dctx.Context, chain ast.Chain) bool {
	switch n.Kind {
	case ast.BinaryExpression:
		return foldBinary(n, chain)
	case ast.LogicalExpression:
		return foldLogical(n, chain)
	case ast.UnaryExpression:
		return foldUnary(n, chain)
	}
	return false
}

func foldBinary(n *ast.Node, chain ast.Chain) bool {
	op, _ := n.Scalar(ast.SlotOperator).(string)
	left, lok := literalValue(n.Child(ast.SlotLeft))
	right, rok := literalValue(n.Child(ast.SlotRight))
	if !lok || !rok {
		return false
	}

	if (op == "/" || op == "%") {
		if rf, ok := right.(float64); ok && rf == 0 {
			return false
		}
	}

	result, ok := evalBinary(op, left, right)
	if !ok {
		return false
	}
	ast.ReplaceHead(chain, makeLiteral(result))
	return true
}

func evalBinary(op string, l, r any) (any, bool) {
	switch op {
	case "+":
		if ls, lok := l.(string); lok {
			return ls + toJSString(r), true
		}
		if rs, rok := r.(string); rok {
			return toJSString(l) + rs, true
		}
		lf, lok := l.(float64)
		rf, rok := r.(float64)
		if lok && rok {
			return lf + rf, true
		}
		return nil, false
	case "-", "*", "/", "%", "**":
		lf, lok := toFloat(l)
		rf, rok := toFloat(r)
		if !lok || !rok {
			return nil, false
		}
		switch op {
		case "-":
			return lf - rf, true
		case "*":
			return lf * rf, true
		case "/":
			return lf / rf, true
		case "%":
			return math.Mod(lf, rf), true
		case "**":
			return math.Pow(lf, rf), true
		}
	case "&", "|", "^", "<<", ">>", ">>>":
		lf, lok := toFloat(l)
		rf, rok := toFloat(r)
		if !lok || !rok {
			return nil, false
		}
		li, ri32 := int32(int64(lf)), int32(int64(rf))
		shift := uint32(int64(rf)) & 31
		switch op {
		case "&":
			return float64(li & ri32), true
		case "|":
			return float64(li | ri32), true
		case "^":
			return float64(li ^ ri32), true
		case "<<":
			return float64(li << shift), true
		case ">>":
			return float64(li >> shift), true
		case ">>>":
			return float64(uint32(li) >> shift), true
		}
	case "==", "===":
		eq, known := jsEqual(l, r, op == "===")
		if !known {
			return nil, false
		}
		return eq, true
	case "!=", "!==":
		eq, known := jsEqual(l, r, op == "!==")
		if !known {
			return nil, false
		}
		return !eq, true
	case "<", "<=", ">", ">=":
		return evalCompare(op, l, r)
	}
	return nil, false
}

func evalCompare(op string, l, r any) (any, bool) {
	if ls, lok := l.(string); lok {
		if rs, rok := r.(string); rok {
			switch op {
			case "<":
				return ls < rs, true
			case "<=":
				return ls <= rs, true
			case ">":
				return ls > rs, true
			case ">=":
				return ls >= rs, true
			}
		}
	}
	lf, lok := toFloat(l)
	rf, rok := toFloat(r)
	if !lok || !rok {
		return nil, false
	}
	switch op {
	case "<":
		return lf < rf, true
	case "<=":
		return lf <= rf, true
	case ">":
		return lf > rf, true
	case ">=":
		return lf >= rf, true
	}
	return nil, false
}

// jsEqual compares two constants; known is false when a loose comparison
// needs a string-to-number coercion toFloat does not perform.
func jsEqual(l, r any, strict bool) (eq, known bool) {
	switch lv := l.(type) {
	case float64:
		rv, ok := r.(float64)
		if !ok && !strict {
			rf, rok := toFloat(r)
			return rok && lv == rf, rok
		}
		return ok && lv == rv, true
	case string:
		rv, ok := r.(string)
		return ok && lv == rv, ok || strict
	case bool:
		rv, ok := r.(bool)
		if ok {
			return lv == rv, true
		}
		if strict {
			return false, true
		}
		rf, rok := toFloat(r)
		lf, _ := toFloat(l)
		return rok && lf == rf, rok
	case nil:
		if r == nil {
			return true, true
		}
		_, rUndef := r.(undefinedValue)
		return !strict && rUndef, true
	case undefinedValue:
		if _, ok := r.(undefinedValue); ok {
			return true, true
		}
		return !strict && r == nil, true
	}
	return false, true
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	case string:
		return 0, x == "" // "" coerces to 0; anything else left unfolded here
	case nil:
		return 0, true
	}
	return 0, false
}

func toJSString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return formatJSNumber(x)
	case bool:
		if x {
			return "true"
		}
		return "false"
	case nil:
		return "null"
	case undefinedValue:
		return "undefined"
	}
	return ""
}

func formatJSNumber(f float64) string {
	if math.IsNaN(f) {
		return "NaN"
	}
	if math.IsInf(f, 1) {
		return "Infinity"
	}
	if math.IsInf(f, -1) {
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func foldLogical(n *ast.Node, chain ast.Chain) bool {
	op, _ := n.Scalar(ast.SlotOperator).(string)
	leftNode := n.Child(ast.SlotLeft)
	leftVal, lok := literalValue(leftNode)
	if !lok {
		return false
	}
	isTruthy := truthy(leftVal)
	switch op {
	case "&&":
		if !isTruthy {
			ast.ReplaceHead(chain, leftNode)
			return true
		}
		if right := n.Child(ast.SlotRight); right != nil {
			ast.ReplaceHead(chain, right)
			return true
		}
	case "||":
		if isTruthy {
			ast.ReplaceHead(chain, leftNode)
			return true
		}
		if right := n.Child(ast.SlotRight); right != nil {
			ast.ReplaceHead(chain, right)
			return true
		}
	case "??":
		_, isNullish := leftVal.(undefinedValue)
		if !isNullish {
			isNullish = leftVal == nil
		}
		if !isNullish {
			ast.ReplaceHead(chain, leftNode)
			return true
		}
		if right := n.Child(ast.SlotRight); right != nil {
			ast.ReplaceHead(chain, right)
			return true
		}
	}
	return false
}

func foldUnary(n *ast.Node, chain ast.Chain) bool {
	op, _ := n.Scalar(ast.SlotOperator).(string)
	arg := n.Child(ast.SlotArgument)
	val, ok := literalValue(arg)

	switch op {
	case "typeof":
		// typeof is evaluable even when the operand is an undeclared
		// identifier in real JS, but within the constant domain we only
		// fold when the operand itself is a literal.
		if !ok {
			return false
		}
		ast.ReplaceHead(chain, makeLiteral(jsTypeOf(val)))
		return true
	case "void":
		if arg == nil {
			return false
		}
		// void always yields undefined regardless of the operand's value,
		// but folding it away would drop any side effect the operand has;
		// only fold when the operand is already a bare literal.
		if !ok {
			return false
		}
		ast.ReplaceHead(chain, makeLiteral(undefinedValue{}))
		return true
	}

	if !ok {
		return false
	}
	switch op {
	case "!":
		ast.ReplaceHead(chain, makeLiteral(!truthy(val)))
		return true
	case "-":
		if f, ok := toFloat(val); ok {
			ast.ReplaceHead(chain, makeLiteral(-f))
			return true
		}
	case "+":
		if f, ok := toFloat(val); ok {
			ast.ReplaceHead(chain, makeLiteral(f))
			return true
		}
	case "~":
		if f, ok := toFloat(val); ok {
			ast.ReplaceHead(chain, makeLiteral(float64(^int32(int64(f)))))
			return true
		}
	}
	return false
}

func jsTypeOf(val any) string {
	switch val.(type) {
	case float64:
		return "number"
	case string:
		return "string"
	case bool:
		return "boolean"
	case undefinedValue:
		return "undefined"
	case nil:
		return "object"
	}
	return "undefined"
}
