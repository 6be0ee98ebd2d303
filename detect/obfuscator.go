// Package detect implements the two detector families §8 describes:
// obfuscator-style structural pattern detection (string-array rotation,
// control-flow flattening, dead-code injection) and exotic-encoder
// signature detection over raw source text (JSFuck, Packer, AAEncode,
// JJEncode, URL-encoding chains). Detection never mutates the tree — it
// only produces findings for a report.
package detect

import (
	"regexp"

	"github.com/viant/deobfjs/ast"
	"github.com/viant/deobfjs/symtab"
)

// Finding is one detector's result.
type Finding struct {
	Name       string
	Confidence symtab.Confidence
	Detail     string
}

// ObfuscatorPatterns runs every structural detector over tree (and, for
// dead-code injection, the call-count bookkeeping recorded under root) and
// returns every pattern that matched.
func ObfuscatorPatterns(tree *ast.Node, root *symtab.Scope) []Finding {
	var findings []Finding
	if f, ok := detectStringArrayRotation(tree); ok {
		findings = append(findings, f)
	}
	if f, ok := detectControlFlowFlattening(tree); ok {
		findings = append(findings, f)
	}
	if f, ok := detectDeadCodeInjection(root); ok {
		findings = append(findings, f)
	}
	return findings
}

var obfuscatedArrayName = regexp.MustCompile(`^(_0x[0-9a-fA-F]+|_[0-9]+)$`)

// detectStringArrayRotation looks first for an obfuscated-name-pattern
// array literal of more than 10 string elements; if it also finds a
// two-parameter IIFE whose body contains a while-loop with a push+shift
// call pair and a `--` update, confidence is high (the full rotation
// idiom), otherwise medium (just the suspicious array).
func detectStringArrayRotation(tree *ast.Node) (Finding, bool) {
	hasArray := false
	ast.TopDown(tree, ast.Root(), func(n *ast.Node, chain ast.Chain) bool {
		if n.Kind != ast.VariableDeclarator {
			return false
		}
		id := n.Child(ast.SlotId)
		init := n.Child(ast.SlotInit)
		if id == nil || init == nil || id.Kind != ast.Identifier || init.Kind != ast.ArrayExpression {
			return false
		}
		name, _ := id.Scalar(ast.SlotName).(string)
		if !obfuscatedArrayName.MatchString(name) {
			return false
		}
		elems := init.List(ast.SlotElements)
		if len(elems) <= 10 {
			return false
		}
		strCount := 0
		for _, e := range elems {
			if e != nil && e.Kind == ast.StringLiteral {
				strCount++
			}
		}
		if strCount == len(elems) {
			hasArray = true
		}
		return false
	})
	if !hasArray {
		return Finding{}, false
	}
	conf := symtab.Medium
	detail := "obfuscated-name array literal with more than 10 string elements"
	if findsRotationIIFE(tree) {
		conf = symtab.High
		detail = "obfuscated-name string array plus a two-parameter IIFE rotating it via push/shift/--"
	}
	return Finding{Name: "string-array-rotation", Confidence: conf, Detail: detail}, true
}

func findsRotationIIFE(tree *ast.Node) bool {
	found := false
	ast.TopDown(tree, ast.Root(), func(n *ast.Node, chain ast.Chain) bool {
		if found || n.Kind != ast.CallExpression {
			return false
		}
		callee := n.Child(ast.SlotCallee)
		if callee == nil || callee.Kind != ast.FunctionExpression {
			return false
		}
		if len(callee.List(ast.SlotParams)) != 2 {
			return false
		}
		if containsRotationLoop(callee.Child(ast.SlotBody)) {
			found = true
		}
		return false
	})
	return found
}

func containsRotationLoop(body *ast.Node) bool {
	if body == nil {
		return false
	}
	rotation := false
	ast.TopDown(body, ast.Root(), func(n *ast.Node, chain ast.Chain) bool {
		if n.Kind != ast.WhileStatement {
			return false
		}
		hasPush, hasShift, hasDecrement := false, false, false
		ast.TopDown(n, ast.Root(), func(m *ast.Node, _ ast.Chain) bool {
			switch m.Kind {
			case ast.CallExpression:
				callee := m.Child(ast.SlotCallee)
				if callee != nil && callee.Kind == ast.MemberExpression {
					prop := callee.Child(ast.SlotProperty)
					switch name, _ := prop.Scalar(ast.SlotName).(string); name {
					case "push":
						hasPush = true
					case "shift":
						hasShift = true
					}
				}
			case ast.UpdateExpression:
				if op, _ := m.Scalar(ast.SlotOperator).(string); op == "--" {
					hasDecrement = true
				}
			}
			return false
		})
		if hasPush && hasShift && hasDecrement {
			rotation = true
		}
		return false
	})
	return rotation
}

// detectControlFlowFlattening looks for `while (true) { switch (x) { ... }
// }` with 5 or more cases and at least one ContinueStatement anywhere in
// its body; confidence is high when every case test is a string literal
// (the idiom control-flow flattening almost always uses to label states).
func detectControlFlowFlattening(tree *ast.Node) (Finding, bool) {
	var match *ast.Node
	ast.TopDown(tree, ast.Root(), func(n *ast.Node, chain ast.Chain) bool {
		if match != nil || n.Kind != ast.WhileStatement {
			return false
		}
		truthy, ok := literalTruthyTrue(n.Child(ast.SlotTest))
		if !ok || !truthy {
			return false
		}
		body := n.Child(ast.SlotBody)
		if body == nil {
			return false
		}
		stmts := body.List(ast.SlotBody)
		if len(stmts) != 1 || stmts[0].Kind != ast.SwitchStatement {
			return false
		}
		cases := stmts[0].List(ast.SlotCases)
		if len(cases) < 5 {
			return false
		}
		if !containsContinue(n) {
			return false
		}
		match = stmts[0]
		return false
	})
	if match == nil {
		return Finding{}, false
	}
	cases := match.List(ast.SlotCases)
	allString := true
	for _, c := range cases {
		test := c.Child(ast.SlotTest)
		if test == nil || test.Kind != ast.StringLiteral {
			allString = false
			break
		}
	}
	conf := symtab.Medium
	if allString {
		conf = symtab.High
	}
	return Finding{
		Name:       "control-flow-flattening",
		Confidence: conf,
		Detail:     "while(true){switch(x){...}} dispatcher with 5+ cases and a continue",
	}, true
}

func containsContinue(n *ast.Node) bool {
	found := false
	ast.TopDown(n, ast.Root(), func(m *ast.Node, _ ast.Chain) bool {
		if m.Kind == ast.ContinueStatement {
			found = true
		}
		return false
	})
	return found
}

func literalTruthyTrue(n *ast.Node) (bool, bool) {
	if n == nil {
		return false, false
	}
	if n.Kind == ast.BooleanLiteral {
		v, _ := n.Scalar(ast.SlotValueSlot).(bool)
		return v, true
	}
	if n.Kind == ast.NumericLiteral {
		v, _ := n.Scalar(ast.SlotValueSlot).(float64)
		return v != 0, true
	}
	return false, false
}

// detectDeadCodeInjection walks every scope reachable from root and flags
// the program when there are at least 10 functions total and 30% or more
// of them were never called, per the call-count bookkeeping the
// count-call-sites pre-pass records.
func detectDeadCodeInjection(root *symtab.Scope) (Finding, bool) {
	if root == nil {
		return Finding{}, false
	}
	total, uncalled := 0, 0
	var walk func(s *symtab.Scope)
	walk = func(s *symtab.Scope) {
		for _, fn := range s.Functions {
			total++
			if fn.CallCount == 0 {
				uncalled++
			}
		}
		for _, c := range s.Children() {
			walk(c)
		}
	}
	walk(root)
	if total < 10 || uncalled*10 < total*3 {
		return Finding{}, false
	}
	return Finding{
		Name:       "dead-code-injection",
		Confidence: symtab.Medium,
		Detail:     "30% or more of declared functions have zero call sites",
	}, true
}
