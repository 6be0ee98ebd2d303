package unpack

import (
	"fmt"

	"github.com/viant/deobfjs/ast"
)

// Module is one extracted bundle entry: its container id (array index or
// object property key, stringified) and the function node holding its
// body.
type Module struct {
	ID string
	Fn *ast.Node
}

// ExtractModules normalizes a modules container (an ArrayExpression or
// ObjectExpression of function values) into an ordered slice of {id,
// function-node} pairs, per §4.7 step 1.
func ExtractModules(container *ast.Node) []Module {
	if container == nil {
		return nil
	}
	switch container.Kind {
	case ast.ArrayExpression:
		elems := container.List(ast.SlotElements)
		modules := make([]Module, 0, len(elems))
		for i, e := range elems {
			if e == nil || !isFunctionNode(e) {
				continue
			}
			modules = append(modules, Module{ID: fmt.Sprintf("%d", i), Fn: e})
		}
		return modules
	case ast.ObjectExpression:
		props := container.List(ast.SlotProperties)
		modules := make([]Module, 0, len(props))
		for _, p := range props {
			if p.Kind != ast.Property {
				continue
			}
			val := p.Child(ast.SlotValueSlot)
			if val == nil || !isFunctionNode(val) {
				continue
			}
			modules = append(modules, Module{ID: propertyKeyString(p.Child(ast.SlotKey)), Fn: val})
		}
		return modules
	default:
		return nil
	}
}

func isFunctionNode(n *ast.Node) bool {
	return n.Kind == ast.FunctionExpression || n.Kind == ast.ArrowFunctionExpr
}

func propertyKeyString(key *ast.Node) string {
	if key == nil {
		return ""
	}
	switch key.Kind {
	case ast.Identifier:
		name, _ := key.Scalar(ast.SlotName).(string)
		return name
	case ast.StringLiteral:
		v, _ := key.Scalar(ast.SlotValueSlot).(string)
		return v
	case ast.NumericLiteral:
		v, _ := key.Scalar(ast.SlotValueSlot).(float64)
		return fmt.Sprintf("%g", v)
	default:
		return ""
	}
}
