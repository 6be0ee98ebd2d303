// Package jsprint is the default hooks.Generator: it walks an ast.Node
// tree and emits JavaScript source text. Grounded on
// inspector/jsx/emitter.go's Emitter.Emit shape (a single recursive
// print method building into a strings.Builder), generalised from
// emitting a graph.File model to emitting the core's own tree.
package jsprint

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/viant/deobfjs/ast"
	"github.com/viant/deobfjs/hooks"
)

// Generator is the default hooks.Generator.
type Generator struct {
	Indent string // per-level indent text, defaults to two spaces
}

// New returns a ready-to-use Generator.
func New() *Generator { return &Generator{Indent: "  "} }

// Generate implements hooks.Generator.
func (g *Generator) Generate(tree *ast.Node) (hooks.GenResult, error) {
	if tree == nil {
		return hooks.GenResult{}, fmt.Errorf("jsprint: nil tree")
	}
	ind := g.Indent
	if ind == "" {
		ind = "  "
	}
	p := &printer{indent: ind}
	p.program(tree)
	return hooks.GenResult{Code: p.b.String()}, nil
}

type printer struct {
	b      strings.Builder
	indent string
	depth  int
}

func (p *printer) pad() string { return strings.Repeat(p.indent, p.depth) }

func (p *printer) program(n *ast.Node) {
	for _, stmt := range n.List(ast.SlotBody) {
		p.statement(stmt)
	}
}

func (p *printer) statement(n *ast.Node) {
	if n == nil {
		return
	}
	p.b.WriteString(p.pad())
	switch n.Kind {
	case ast.ExpressionStatement:
		p.expr(n.Child(ast.SlotExpressions))
		p.b.WriteString(";\n")
	case ast.VariableDeclaration:
		kind, _ := n.Scalar(ast.SlotKind).(string)
		if kind == "" {
			kind = "var"
		}
		p.b.WriteString(kind + " ")
		decls := n.List(ast.SlotDeclarations)
		for i, d := range decls {
			if i > 0 {
				p.b.WriteString(", ")
			}
			p.expr(d.Child(ast.SlotId))
			if init := d.Child(ast.SlotInit); init != nil {
				p.b.WriteString(" = ")
				p.expr(init)
			}
		}
		p.b.WriteString(";\n")
	case ast.FunctionDeclaration:
		p.b.WriteString("function ")
		p.expr(n.Child(ast.SlotId))
		p.params(n.List(ast.SlotParams))
		p.b.WriteString(" ")
		p.blockInline(n.Child(ast.SlotBody))
		p.b.WriteString("\n")
	case ast.BlockStatement:
		p.block(n)
		p.b.WriteString("\n")
	case ast.IfStatement:
		p.b.WriteString("if (")
		p.expr(n.Child(ast.SlotTest))
		p.b.WriteString(") ")
		p.statementInline(n.Child(ast.SlotConsequent))
		if alt := n.Child(ast.SlotAlternate); alt != nil {
			p.b.WriteString(p.pad() + "else ")
			p.statementInline(alt)
		}
	case ast.WhileStatement:
		p.b.WriteString("while (")
		p.expr(n.Child(ast.SlotTest))
		p.b.WriteString(") ")
		p.statementInline(n.Child(ast.SlotBody))
	case ast.DoWhileStatement:
		p.b.WriteString("do ")
		p.statementInline(n.Child(ast.SlotBody))
		p.b.WriteString(p.pad() + "while (")
		p.expr(n.Child(ast.SlotTest))
		p.b.WriteString(");\n")
	case ast.ForStatement:
		p.b.WriteString("for (")
		p.forClause(n.Child(ast.SlotInit))
		p.b.WriteString("; ")
		p.expr(n.Child(ast.SlotTest))
		p.b.WriteString("; ")
		p.expr(n.Child(ast.SlotUpdate))
		p.b.WriteString(") ")
		p.statementInline(n.Child(ast.SlotBody))
	case ast.ForInStatement:
		p.b.WriteString("for (")
		p.expr(n.Child(ast.SlotLeft))
		p.b.WriteString(" in ")
		p.expr(n.Child(ast.SlotRight))
		p.b.WriteString(") ")
		p.statementInline(n.Child(ast.SlotBody))
	case ast.ReturnStatement:
		p.b.WriteString("return")
		if arg := n.Child(ast.SlotArgument); arg != nil {
			p.b.WriteString(" ")
			p.expr(arg)
		}
		p.b.WriteString(";\n")
	case ast.ThrowStatement:
		p.b.WriteString("throw ")
		p.expr(n.Child(ast.SlotArgument))
		p.b.WriteString(";\n")
	case ast.BreakStatement:
		p.b.WriteString("break;\n")
	case ast.ContinueStatement:
		p.b.WriteString("continue;\n")
	case ast.EmptyStatement:
		p.b.WriteString(";\n")
	case ast.TryStatement:
		p.b.WriteString("try ")
		p.blockInline(n.Child(ast.SlotBlock))
		p.b.WriteString(" ")
		if h := n.Child(ast.SlotHandler); h != nil {
			p.b.WriteString("catch ")
			if param := h.Child(ast.SlotParam); param != nil {
				p.b.WriteString("(")
				p.expr(param)
				p.b.WriteString(") ")
			}
			p.blockInline(h.Child(ast.SlotBody))
			p.b.WriteString(" ")
		}
		if fin := n.Child(ast.SlotFinalizer); fin != nil {
			p.b.WriteString("finally ")
			p.blockInline(fin)
		}
		p.b.WriteString("\n")
	case ast.SwitchStatement:
		p.b.WriteString("switch (")
		p.expr(n.Child(ast.SlotDiscriminant))
		p.b.WriteString(") {\n")
		p.depth++
		for _, c := range n.List(ast.SlotCases) {
			p.b.WriteString(p.pad())
			if test := c.Child(ast.SlotTest); test != nil {
				p.b.WriteString("case ")
				p.expr(test)
				p.b.WriteString(":\n")
			} else {
				p.b.WriteString("default:\n")
			}
			p.depth++
			for _, s := range c.List(ast.SlotBody) {
				p.statement(s)
			}
			p.depth--
		}
		p.depth--
		p.b.WriteString(p.pad() + "}\n")
	case ast.LabeledStatement:
		if body := n.Child(ast.SlotBody); body != nil {
			p.statementInline(body)
		}
	default:
		p.expr(n)
		p.b.WriteString(";\n")
	}
}

func (p *printer) forClause(n *ast.Node) {
	if n == nil {
		return
	}
	if n.Kind == ast.VariableDeclaration {
		kind, _ := n.Scalar(ast.SlotKind).(string)
		if kind == "" {
			kind = "var"
		}
		p.b.WriteString(kind + " ")
		for i, d := range n.List(ast.SlotDeclarations) {
			if i > 0 {
				p.b.WriteString(", ")
			}
			p.expr(d.Child(ast.SlotId))
			if init := d.Child(ast.SlotInit); init != nil {
				p.b.WriteString(" = ")
				p.expr(init)
			}
		}
		return
	}
	p.expr(n)
}

// statementInline writes a statement that appears directly after an
// opening control-flow keyword, without the leading pad (the caller
// already wrote it) — used for if/while/for/do bodies once
// ControlFlowNormalize has ensured they are BlockStatements.
func (p *printer) statementInline(n *ast.Node) {
	if n == nil {
		p.b.WriteString("{\n" + p.pad() + "}\n")
		return
	}
	if n.Kind == ast.BlockStatement {
		p.block(n)
		p.b.WriteString("\n")
		return
	}
	p.b.WriteString("\n")
	p.depth++
	p.statement(n)
	p.depth--
}

func (p *printer) blockInline(n *ast.Node) {
	if n == nil {
		p.b.WriteString("{\n" + p.pad() + "}")
		return
	}
	p.block(n)
}

func (p *printer) block(n *ast.Node) {
	p.b.WriteString("{\n")
	p.depth++
	for _, s := range n.List(ast.SlotBody) {
		p.statement(s)
	}
	p.depth--
	p.b.WriteString(p.pad() + "}")
}

func (p *printer) params(params []*ast.Node) {
	p.b.WriteString("(")
	for i, param := range params {
		if i > 0 {
			p.b.WriteString(", ")
		}
		p.expr(param)
	}
	p.b.WriteString(")")
}

func (p *printer) expr(n *ast.Node) {
	if n == nil {
		return
	}
	switch n.Kind {
	case ast.Identifier:
		name, _ := n.Scalar(ast.SlotName).(string)
		p.b.WriteString(name)
	case ast.NumericLiteral:
		if raw, ok := n.Scalar(ast.SlotRaw).(string); ok && raw != "" {
			p.b.WriteString(raw)
			return
		}
		v, _ := n.Scalar(ast.SlotValueSlot).(float64)
		p.b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	case ast.StringLiteral:
		if raw, ok := n.Scalar(ast.SlotRaw).(string); ok && raw != "" {
			p.b.WriteString(raw)
			return
		}
		v, _ := n.Scalar(ast.SlotValueSlot).(string)
		p.b.WriteString(strconv.Quote(v))
	case ast.BooleanLiteral:
		v, _ := n.Scalar(ast.SlotValueSlot).(bool)
		if v {
			p.b.WriteString("true")
		} else {
			p.b.WriteString("false")
		}
	case ast.NullLiteral:
		p.b.WriteString("null")
	case ast.RegExpLiteral:
		raw, _ := n.Scalar(ast.SlotRaw).(string)
		p.b.WriteString(raw)
	case ast.BinaryExpression, ast.LogicalExpression:
		op, _ := n.Scalar(ast.SlotOperator).(string)
		p.expr(n.Child(ast.SlotLeft))
		p.b.WriteString(" " + op + " ")
		p.expr(n.Child(ast.SlotRight))
	case ast.UnaryExpression:
		op, _ := n.Scalar(ast.SlotOperator).(string)
		p.b.WriteString(op)
		if isWordOperator(op) {
			p.b.WriteString(" ")
		}
		p.expr(n.Child(ast.SlotArgument))
	case ast.UpdateExpression:
		op, _ := n.Scalar(ast.SlotOperator).(string)
		prefix, _ := n.Scalar(ast.SlotPrefix).(bool)
		if prefix {
			p.b.WriteString(op)
			p.expr(n.Child(ast.SlotArgument))
		} else {
			p.expr(n.Child(ast.SlotArgument))
			p.b.WriteString(op)
		}
	case ast.AssignmentExpression:
		op, _ := n.Scalar(ast.SlotOperator).(string)
		p.expr(n.Child(ast.SlotLeft))
		p.b.WriteString(" " + op + " ")
		p.expr(n.Child(ast.SlotRight))
	case ast.ConditionalExpression:
		p.expr(n.Child(ast.SlotTest))
		p.b.WriteString(" ? ")
		p.expr(n.Child(ast.SlotConsequent))
		p.b.WriteString(" : ")
		p.expr(n.Child(ast.SlotAlternate))
	case ast.SequenceExpression:
		for i, e := range n.List(ast.SlotExpressions) {
			if i > 0 {
				p.b.WriteString(", ")
			}
			p.expr(e)
		}
	case ast.CallExpression:
		p.expr(n.Child(ast.SlotCallee))
		p.args(n.List(ast.SlotArguments))
	case ast.NewExpression:
		p.b.WriteString("new ")
		p.expr(n.Child(ast.SlotCallee))
		p.args(n.List(ast.SlotArguments))
	case ast.MemberExpression:
		p.expr(n.Child(ast.SlotObject))
		computed, _ := n.Scalar(ast.SlotComputed).(bool)
		if computed {
			p.b.WriteString("[")
			p.expr(n.Child(ast.SlotProperty))
			p.b.WriteString("]")
		} else {
			p.b.WriteString(".")
			p.expr(n.Child(ast.SlotProperty))
		}
	case ast.FunctionExpression:
		p.b.WriteString("function")
		if id := n.Child(ast.SlotId); id != nil {
			p.b.WriteString(" ")
			p.expr(id)
		}
		p.params(n.List(ast.SlotParams))
		p.b.WriteString(" ")
		p.blockInline(n.Child(ast.SlotBody))
	case ast.ArrowFunctionExpr:
		p.params(n.List(ast.SlotParams))
		p.b.WriteString(" => ")
		p.blockInline(n.Child(ast.SlotBody))
	case ast.ArrayExpression:
		p.b.WriteString("[")
		for i, e := range n.List(ast.SlotElements) {
			if i > 0 {
				p.b.WriteString(", ")
			}
			p.expr(e)
		}
		p.b.WriteString("]")
	case ast.ObjectExpression:
		p.b.WriteString("{")
		for i, prop := range n.List(ast.SlotProperties) {
			if i > 0 {
				p.b.WriteString(", ")
			}
			p.expr(prop)
		}
		p.b.WriteString("}")
	case ast.Property:
		p.expr(n.Child(ast.SlotKey))
		p.b.WriteString(": ")
		p.expr(n.Child(ast.SlotValueSlot))
	case ast.SpreadElement, ast.RestElement:
		p.b.WriteString("...")
		p.expr(n.Child(ast.SlotArgument))
	case ast.AssignmentPatt:
		p.expr(n.Child(ast.SlotLeft))
		p.b.WriteString(" = ")
		p.expr(n.Child(ast.SlotRight))
	default:
		p.b.WriteString(fmt.Sprintf("/*unsupported:%s*/", n.Kind))
	}
}

func (p *printer) args(args []*ast.Node) {
	p.b.WriteString("(")
	for i, a := range args {
		if i > 0 {
			p.b.WriteString(", ")
		}
		p.expr(a)
	}
	p.b.WriteString(")")
}

func isWordOperator(op string) bool {
	return op == "typeof" || op == "void" || op == "delete"
}
