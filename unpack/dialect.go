// Package unpack implements the bundle unpacker family (§4.7): dialect
// detection over the IIFE shapes common webpack/AMD/UMD/Closure/simple
// bundles use, module extraction into one file per module, and heuristic
// filename generation. Detection never mutates the tree; extraction does,
// replacing the recognized wrapper with a no-op statement so a second pass
// over the same tree is idempotent.
package unpack

import "github.com/viant/deobfjs/ast"

// Dialect names the bundler shape a wrapper was recognized as.
type Dialect string

const (
	ChunkPush            Dialect = "chunk-push"
	ModernWebpack        Dialect = "modern-webpack"
	ClassicalKeyword     Dialect = "classical-webpack-keyword"
	ClassicalStructural  Dialect = "classical-webpack-structural"
	AMDUMDClosure        Dialect = "amd-umd-closure"
	SimpleIIFE           Dialect = "simple-iife"
)

// Match is one recognized wrapper: its dialect, the statement that carries
// it (for top-level replacement/hoisting) and, when the dialect carries a
// modules container, the container node itself.
type Match struct {
	Dialect   Dialect
	Statement *ast.Node // the Program-level statement to replace/hoist
	Container *ast.Node // module container (array/object expression), nil when not applicable
	Wrapper   *ast.Node // the FunctionExpression/ArrowFunctionExpr body, for AMD/UMD/simple hoisting
}

// Detect scans stmt (a single Program-level statement) and reports the
// first dialect it matches, in the priority order §4.7 lists. Only the
// top level is considered — nested IIFEs are left for a subsequent pass
// once the outer wrapper has been unpacked.
func Detect(stmt *ast.Node) (Match, bool) {
	if m, ok := detectChunkPush(stmt); ok {
		return m, true
	}
	call, ok := topLevelIIFECall(stmt)
	if !ok {
		return Match{}, false
	}
	callee := call.Child(ast.SlotCallee)
	args := call.List(ast.SlotArguments)
	params := callee.List(ast.SlotParams)
	body := callee.Child(ast.SlotBody)

	if m, ok := detectModernWebpack(stmt, callee, params, args, body); ok {
		return m, true
	}
	if m, ok := detectClassicalWebpack(stmt, callee, params, args, body); ok {
		return m, true
	}
	if m, ok := detectAMDUMDClosure(stmt, callee, params, args, body); ok {
		return m, true
	}
	if m, ok := detectSimpleIIFE(stmt, callee, params, args, body); ok {
		return m, true
	}
	return Match{}, false
}

// topLevelIIFECall unwraps `stmt` down to the CallExpression of an
// immediately-invoked function expression, tolerating a single leading
// unary operator (`!function(){...}()`) and an enclosing
// ExpressionStatement/ParenthesizedExpression.
func topLevelIIFECall(stmt *ast.Node) (*ast.Node, bool) {
	if stmt == nil || stmt.Kind != ast.ExpressionStatement {
		return nil, false
	}
	expr := stmt.Child(ast.SlotExpressions)
	if expr == nil {
		return nil, false
	}
	if expr.Kind == ast.UnaryExpression {
		if arg := expr.Child(ast.SlotArgument); arg != nil {
			expr = arg
		}
	}
	if expr.Kind != ast.CallExpression {
		return nil, false
	}
	callee := expr.Child(ast.SlotCallee)
	if callee == nil || (callee.Kind != ast.FunctionExpression && callee.Kind != ast.ArrowFunctionExpr) {
		return nil, false
	}
	return expr, true
}

// detectChunkPush matches `(window.webpackJsonp = window.webpackJsonp ||
// []).push([chunkId, modules])` and the simpler `webpackJsonp([ids],
// modules)` direct-call form.
func detectChunkPush(stmt *ast.Node) (Match, bool) {
	if stmt == nil || stmt.Kind != ast.ExpressionStatement {
		return Match{}, false
	}
	call := stmt.Child(ast.SlotExpressions)
	if call == nil {
		return Match{}, false
	}
	if call.Kind != ast.CallExpression {
		return Match{}, false
	}
	callee := call.Child(ast.SlotCallee)
	args := call.List(ast.SlotArguments)

	if callee != nil && callee.Kind == ast.MemberExpression {
		prop := callee.Child(ast.SlotProperty)
		name, _ := prop.Scalar(ast.SlotName).(string)
		if name == "push" && mentionsWebpackJsonp(callee.Child(ast.SlotObject)) && len(args) == 1 && args[0].Kind == ast.ArrayExpression {
			chunk := args[0].List(ast.SlotElements)
			if len(chunk) == 2 {
				return Match{Dialect: ChunkPush, Statement: stmt, Container: chunk[1]}, true
			}
		}
	}
	if callee != nil && callee.Kind == ast.Identifier {
		name, _ := callee.Scalar(ast.SlotName).(string)
		if name == "webpackJsonp" && len(args) == 2 && args[1].Kind == ast.ObjectExpression {
			return Match{Dialect: ChunkPush, Statement: stmt, Container: args[1]}, true
		}
	}
	return Match{}, false
}

func mentionsWebpackJsonp(n *ast.Node) bool {
	if n == nil {
		return false
	}
	found := false
	ast.TopDown(n, ast.Root(), func(m *ast.Node, _ ast.Chain) bool {
		if m.Kind == ast.Identifier {
			if name, _ := m.Scalar(ast.SlotName).(string); name == "webpackJsonp" {
				found = true
			}
		}
		return false
	})
	return found
}

// detectModernWebpack matches a zero-arity, zero-argument IIFE whose body
// declares a large object (the modules map), a loader function
// declaration, and references `__webpack_require__`.
func detectModernWebpack(stmt, callee *ast.Node, params, args []*ast.Node, body *ast.Node) (Match, bool) {
	if len(params) != 0 || len(args) != 0 || body == nil {
		return Match{}, false
	}
	var container *ast.Node
	hasLoader, hasRequireRef := false, false
	for _, s := range body.List(ast.SlotBody) {
		if s.Kind == ast.FunctionDeclaration {
			hasLoader = true
		}
		if s.Kind == ast.VariableDeclaration {
			for _, d := range s.List(ast.SlotDeclarations) {
				if init := d.Child(ast.SlotInit); init != nil && init.Kind == ast.ObjectExpression {
					if len(init.List(ast.SlotProperties)) > 3 {
						container = init
					}
				}
			}
		}
	}
	ast.TopDown(body, ast.Root(), func(n *ast.Node, _ ast.Chain) bool {
		if n.Kind == ast.Identifier {
			if name, _ := n.Scalar(ast.SlotName).(string); name == "__webpack_require__" {
				hasRequireRef = true
			}
		}
		return false
	})
	if container != nil && hasLoader && hasRequireRef {
		return Match{Dialect: ModernWebpack, Statement: stmt, Container: container, Wrapper: callee}, true
	}
	return Match{}, false
}

// detectClassicalWebpack matches the generation<=4 IIFE shape, first by
// keyword (fast path, identifier names intact) and, failing that, by the
// six structural invariants that survive full identifier obfuscation.
func detectClassicalWebpack(stmt, callee *ast.Node, params, args []*ast.Node, body *ast.Node) (Match, bool) {
	if len(params) != 1 || len(args) != 1 || body == nil {
		return Match{}, false
	}
	container := args[0]
	if container.Kind != ast.ArrayExpression && container.Kind != ast.ObjectExpression {
		return Match{}, false
	}
	if mentionsAny(body, "__webpack_require__", "webpackJsonp", "__WEBPACK") {
		return Match{Dialect: ClassicalKeyword, Statement: stmt, Container: container, Wrapper: callee}, true
	}
	if classicalStructuralInvariants(body) {
		return Match{Dialect: ClassicalStructural, Statement: stmt, Container: container, Wrapper: callee}, true
	}
	return Match{}, false
}

func mentionsAny(n *ast.Node, names ...string) bool {
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[name] = true
	}
	found := false
	ast.TopDown(n, ast.Root(), func(m *ast.Node, _ ast.Chain) bool {
		if m.Kind == ast.Identifier {
			if name, _ := m.Scalar(ast.SlotName).(string); set[name] {
				found = true
			}
		}
		return false
	})
	return found
}

// classicalStructuralInvariants checks the six shape invariants §4.7 lists
// for the structural-only variant of the classical webpack wrapper: (a) a
// variable initialized to an object literal (module cache), (b) a function
// declaration (loader), (c) a method call whose property is "call", (d)
// any member expression, (e) a return statement, (f) an assignment to an
// object literal.
func classicalStructuralInvariants(body *ast.Node) bool {
	var cacheInit, loader, callProp, member, ret, objAssign bool
	ast.TopDown(body, ast.Root(), func(n *ast.Node, _ ast.Chain) bool {
		switch n.Kind {
		case ast.VariableDeclarator:
			if init := n.Child(ast.SlotInit); init != nil && init.Kind == ast.ObjectExpression {
				cacheInit = true
			}
		case ast.FunctionDeclaration:
			loader = true
		case ast.MemberExpression:
			member = true
			if prop := n.Child(ast.SlotProperty); prop != nil {
				if name, _ := prop.Scalar(ast.SlotName).(string); name == "call" {
					callProp = true
				}
			}
		case ast.ReturnStatement:
			ret = true
		case ast.AssignmentExpression:
			if right := n.Child(ast.SlotRight); right != nil && right.Kind == ast.ObjectExpression {
				objAssign = true
			}
		}
		return false
	})
	return cacheInit && loader && callProp && member && ret && objAssign
}

// detectAMDUMDClosure matches the two-parameter `define.amd`/`exports`
// pattern and the single-parameter namespace pattern with 10+ `_.x = ...`
// style assignments.
func detectAMDUMDClosure(stmt, callee *ast.Node, params, args []*ast.Node, body *ast.Node) (Match, bool) {
	if body == nil {
		return Match{}, false
	}
	if len(params) == 2 && mentionsAny(body, "define") && mentionsPropertyAccess(body, "amd") && mentionsAny(body, "exports") {
		return Match{Dialect: AMDUMDClosure, Statement: stmt, Wrapper: callee}, true
	}
	if len(params) == 1 {
		ns := params[0]
		name, _ := ns.Scalar(ast.SlotName).(string)
		if name != "" && countNamespaceAssignments(body, name) >= 10 {
			return Match{Dialect: AMDUMDClosure, Statement: stmt, Wrapper: callee}, true
		}
	}
	return Match{}, false
}

func mentionsPropertyAccess(n *ast.Node, propName string) bool {
	found := false
	ast.TopDown(n, ast.Root(), func(m *ast.Node, _ ast.Chain) bool {
		if m.Kind == ast.MemberExpression {
			if prop := m.Child(ast.SlotProperty); prop != nil {
				if name, _ := prop.Scalar(ast.SlotName).(string); name == propName {
					found = true
				}
			}
		}
		return false
	})
	return found
}

func countNamespaceAssignments(n *ast.Node, nsName string) int {
	count := 0
	ast.TopDown(n, ast.Root(), func(m *ast.Node, _ ast.Chain) bool {
		if m.Kind != ast.AssignmentExpression {
			return false
		}
		left := m.Child(ast.SlotLeft)
		if left == nil || left.Kind != ast.MemberExpression {
			return false
		}
		obj := left.Child(ast.SlotObject)
		if obj != nil && obj.Kind == ast.Identifier {
			if name, _ := obj.Scalar(ast.SlotName).(string); name == nsName {
				count++
			}
		}
		return false
	})
	return count
}

// detectSimpleIIFE is the catch-all: any IIFE with <=2 params, <=2
// arguments and a non-empty body, unwrapped only at program top level
// (callers only invoke Detect on top-level statements, so that condition
// is already satisfied here).
func detectSimpleIIFE(stmt, callee *ast.Node, params, args []*ast.Node, body *ast.Node) (Match, bool) {
	if len(params) > 2 || len(args) > 2 || body == nil {
		return Match{}, false
	}
	if len(body.List(ast.SlotBody)) == 0 {
		return Match{}, false
	}
	return Match{Dialect: SimpleIIFE, Statement: stmt, Wrapper: callee}, true
}
