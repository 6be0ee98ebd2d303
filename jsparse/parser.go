// Package jsparse is the default hooks.Parser implementation: it lowers a
// tree-sitter JavaScript/JSX concrete syntax tree into the core's ast.Node
// model. Grounded on inspector/jsx/inspector.go's parser setup
// (sitter.NewParser + javascript.GetLanguage + ParseCtx), diverging after
// that point to build ast.Node instead of graph.File.
package jsparse

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"

	"github.com/viant/deobfjs/ast"
	"github.com/viant/deobfjs/hooks"
)

// Parser is the tree-sitter-backed default hooks.Parser.
type Parser struct{}

// New returns a ready-to-use Parser. There is no per-instance state; a
// fresh sitter.Parser is created per call so concurrent Parse calls never
// share one.
func New() *Parser { return &Parser{} }

// Parse implements hooks.Parser.
func (p *Parser) Parse(ctx context.Context, source []byte, opts hooks.ParseOptions) (*ast.Node, error) {
	sp := sitter.NewParser()
	sp.SetLanguage(javascript.GetLanguage())

	tree, err := sp.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("jsparse: parse failed: %w", err)
	}
	root := tree.RootNode()
	if root == nil {
		return nil, fmt.Errorf("jsparse: empty parse tree")
	}
	l := &lowerer{src: source}
	return l.program(root), nil
}

type lowerer struct {
	src []byte
}

func (l *lowerer) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return string(l.src[n.StartByte():n.EndByte()])
}

func (l *lowerer) loc(n *sitter.Node) *ast.Location {
	if n == nil {
		return nil
	}
	sp, ep := n.StartPoint(), n.EndPoint()
	return &ast.Location{
		StartLine: int(sp.Row) + 1, StartCol: int(sp.Column),
		EndLine: int(ep.Row) + 1, EndCol: int(ep.Column),
	}
}

func (l *lowerer) program(n *sitter.Node) *ast.Node {
	node := ast.NewNode(ast.Program, nil)
	node.Loc = l.loc(n)
	node.SetList(ast.SlotBody, l.statementList(n))
	return node
}

// statementList lowers every named child of n that yields a statement,
// silently skipping comments; this parser never lowers comments.
func (l *lowerer) statementList(n *sitter.Node) []*ast.Node {
	var out []*ast.Node
	count := int(n.NamedChildCount())
	for i := 0; i < count; i++ {
		child := n.NamedChild(i)
		if stmt := l.statement(child); stmt != nil {
			out = append(out, stmt)
		}
	}
	return out
}

func (l *lowerer) statement(n *sitter.Node) *ast.Node {
	if n == nil {
		return nil
	}
	switch n.Type() {
	case "comment":
		return nil
	case "expression_statement":
		expr := n.NamedChild(0)
		stmt := ast.NewNode(ast.ExpressionStatement, map[string]ast.SlotValue{
			ast.SlotExpressions: {Node: l.expression(expr)},
		})
		stmt.Loc = l.loc(n)
		return stmt
	case "variable_declaration", "lexical_declaration":
		return l.variableDeclaration(n)
	case "function_declaration", "generator_function_declaration":
		return l.functionDecl(n)
	case "statement_block":
		return l.block(n)
	case "if_statement":
		return l.ifStatement(n)
	case "for_statement":
		return l.forStatement(n)
	case "for_in_statement":
		return l.forInStatement(n)
	case "while_statement":
		return l.whileStatement(n)
	case "do_statement":
		return l.doWhileStatement(n)
	case "return_statement":
		return l.simpleArgStatement(n, ast.ReturnStatement)
	case "throw_statement":
		return l.simpleArgStatement(n, ast.ThrowStatement)
	case "break_statement":
		return ast.NewNode(ast.BreakStatement, nil)
	case "continue_statement":
		return ast.NewNode(ast.ContinueStatement, nil)
	case "empty_statement":
		return ast.NewNode(ast.EmptyStatement, nil)
	case "try_statement":
		return l.tryStatement(n)
	case "switch_statement":
		return l.switchStatement(n)
	case "labeled_statement":
		return l.labeledStatement(n)
	default:
		// Unrecognised statement kinds (class declarations, import/export,
		// etc.) are preserved as an opaque expression statement over their
		// raw text so the generator can still round-trip them; the
		// rewriters simply never match on their internals.
		id := ast.NewNode(ast.Identifier, nil)
		id.SetScalar(ast.SlotName, l.text(n))
		wrap := ast.NewNode(ast.ExpressionStatement, map[string]ast.SlotValue{
			ast.SlotExpressions: {Node: id},
		})
		wrap.Loc = l.loc(n)
		return wrap
	}
}

func (l *lowerer) block(n *sitter.Node) *ast.Node {
	b := ast.NewNode(ast.BlockStatement, nil)
	b.Loc = l.loc(n)
	b.SetList(ast.SlotBody, l.statementList(n))
	return b
}

func (l *lowerer) simpleArgStatement(n *sitter.Node, kind ast.Kind) *ast.Node {
	stmt := ast.NewNode(kind, nil)
	stmt.Loc = l.loc(n)
	if n.NamedChildCount() > 0 {
		stmt.SetChild(ast.SlotArgument, l.expression(n.NamedChild(0)))
	}
	return stmt
}

func (l *lowerer) variableDeclaration(n *sitter.Node) *ast.Node {
	decl := ast.NewNode(ast.VariableDeclaration, nil)
	decl.Loc = l.loc(n)
	kind := l.text(n.Child(0))
	decl.SetScalar(ast.SlotKind, kind)

	var declarators []*ast.Node
	count := int(n.NamedChildCount())
	for i := 0; i < count; i++ {
		c := n.NamedChild(i)
		if c.Type() != "variable_declarator" {
			continue
		}
		d := ast.NewNode(ast.VariableDeclarator, nil)
		d.Loc = l.loc(c)
		if name := c.ChildByFieldName("name"); name != nil {
			d.SetChild(ast.SlotId, l.expression(name))
		}
		if value := c.ChildByFieldName("value"); value != nil {
			d.SetChild(ast.SlotInit, l.expression(value))
		}
		declarators = append(declarators, d)
	}
	decl.SetList(ast.SlotDeclarations, declarators)
	return decl
}

func (l *lowerer) functionDecl(n *sitter.Node) *ast.Node {
	fn := ast.NewNode(ast.FunctionDeclaration, nil)
	fn.Loc = l.loc(n)
	if name := n.ChildByFieldName("name"); name != nil {
		fn.SetChild(ast.SlotId, l.expression(name))
	}
	fn.SetList(ast.SlotParams, l.paramList(n.ChildByFieldName("parameters")))
	if body := n.ChildByFieldName("body"); body != nil {
		fn.SetChild(ast.SlotBody, l.block(body))
	}
	return fn
}

func (l *lowerer) paramList(n *sitter.Node) []*ast.Node {
	if n == nil {
		return nil
	}
	var out []*ast.Node
	count := int(n.NamedChildCount())
	for i := 0; i < count; i++ {
		out = append(out, l.expression(n.NamedChild(i)))
	}
	return out
}

func (l *lowerer) ifStatement(n *sitter.Node) *ast.Node {
	s := ast.NewNode(ast.IfStatement, nil)
	s.Loc = l.loc(n)
	if test := n.ChildByFieldName("condition"); test != nil {
		s.SetChild(ast.SlotTest, l.expression(test))
	}
	if cons := n.ChildByFieldName("consequence"); cons != nil {
		s.SetChild(ast.SlotConsequent, l.statement(cons))
	}
	if alt := n.ChildByFieldName("alternative"); alt != nil {
		s.SetChild(ast.SlotAlternate, l.statement(alt))
	}
	return s
}

func (l *lowerer) whileStatement(n *sitter.Node) *ast.Node {
	s := ast.NewNode(ast.WhileStatement, nil)
	s.Loc = l.loc(n)
	if test := n.ChildByFieldName("condition"); test != nil {
		s.SetChild(ast.SlotTest, l.expression(test))
	}
	if body := n.ChildByFieldName("body"); body != nil {
		s.SetChild(ast.SlotBody, l.statement(body))
	}
	return s
}

func (l *lowerer) doWhileStatement(n *sitter.Node) *ast.Node {
	s := ast.NewNode(ast.DoWhileStatement, nil)
	s.Loc = l.loc(n)
	if body := n.ChildByFieldName("body"); body != nil {
		s.SetChild(ast.SlotBody, l.statement(body))
	}
	if test := n.ChildByFieldName("condition"); test != nil {
		s.SetChild(ast.SlotTest, l.expression(test))
	}
	return s
}

func (l *lowerer) forStatement(n *sitter.Node) *ast.Node {
	s := ast.NewNode(ast.ForStatement, nil)
	s.Loc = l.loc(n)
	if init := n.ChildByFieldName("initializer"); init != nil {
		switch init.Type() {
		case "variable_declaration", "lexical_declaration":
			s.SetChild(ast.SlotInit, l.variableDeclaration(init))
		default:
			s.SetChild(ast.SlotInit, l.expression(init))
		}
	}
	if test := n.ChildByFieldName("condition"); test != nil {
		s.SetChild(ast.SlotTest, l.expression(test))
	}
	if upd := n.ChildByFieldName("increment"); upd != nil {
		s.SetChild(ast.SlotUpdate, l.expression(upd))
	}
	if body := n.ChildByFieldName("body"); body != nil {
		s.SetChild(ast.SlotBody, l.statement(body))
	}
	return s
}

func (l *lowerer) forInStatement(n *sitter.Node) *ast.Node {
	s := ast.NewNode(ast.ForInStatement, nil)
	s.Loc = l.loc(n)
	if left := n.ChildByFieldName("left"); left != nil {
		s.SetChild(ast.SlotLeft, l.expression(left))
	}
	if right := n.ChildByFieldName("right"); right != nil {
		s.SetChild(ast.SlotRight, l.expression(right))
	}
	if body := n.ChildByFieldName("body"); body != nil {
		s.SetChild(ast.SlotBody, l.statement(body))
	}
	return s
}

func (l *lowerer) tryStatement(n *sitter.Node) *ast.Node {
	s := ast.NewNode(ast.TryStatement, nil)
	s.Loc = l.loc(n)
	if blk := n.ChildByFieldName("body"); blk != nil {
		s.SetChild(ast.SlotBlock, l.block(blk))
	}
	if handler := n.ChildByFieldName("handler"); handler != nil {
		cc := ast.NewNode(ast.CatchClause, nil)
		cc.Loc = l.loc(handler)
		if param := handler.ChildByFieldName("parameter"); param != nil {
			cc.SetChild(ast.SlotParam, l.expression(param))
		}
		if body := handler.ChildByFieldName("body"); body != nil {
			cc.SetChild(ast.SlotBody, l.block(body))
		}
		s.SetChild(ast.SlotHandler, cc)
	}
	if fin := n.ChildByFieldName("finalizer"); fin != nil {
		s.SetChild(ast.SlotFinalizer, l.block(fin))
	}
	return s
}

func (l *lowerer) switchStatement(n *sitter.Node) *ast.Node {
	s := ast.NewNode(ast.SwitchStatement, nil)
	s.Loc = l.loc(n)
	if disc := n.ChildByFieldName("value"); disc != nil {
		s.SetChild(ast.SlotDiscriminant, l.expression(disc))
	}
	body := n.ChildByFieldName("body")
	var cases []*ast.Node
	if body != nil {
		count := int(body.NamedChildCount())
		for i := 0; i < count; i++ {
			c := body.NamedChild(i)
			sc := ast.NewNode(ast.SwitchCase, nil)
			sc.Loc = l.loc(c)
			if test := c.ChildByFieldName("value"); test != nil {
				sc.SetChild(ast.SlotTest, l.expression(test))
			}
			var stmts []*ast.Node
			cc := int(c.NamedChildCount())
			for j := 0; j < cc; j++ {
				body := c.NamedChild(j)
				if body == c.ChildByFieldName("value") {
					continue
				}
				if st := l.statement(body); st != nil {
					stmts = append(stmts, st)
				}
			}
			sc.SetList(ast.SlotBody, stmts)
			cases = append(cases, sc)
		}
	}
	s.SetList(ast.SlotCases, cases)
	return s
}

func (l *lowerer) labeledStatement(n *sitter.Node) *ast.Node {
	s := ast.NewNode(ast.LabeledStatement, nil)
	s.Loc = l.loc(n)
	if n.NamedChildCount() > 1 {
		s.SetChild(ast.SlotBody, l.statement(n.NamedChild(1)))
	}
	return s
}

// expression lowers n to an expression-position ast.Node, falling back to
// an Identifier carrying the raw source text for anything not explicitly
// handled (template literals, JSX, class expressions, optional chaining
// variants) — enough for the generator to round-trip unrecognised
// constructs untouched by the rewriters.
func (l *lowerer) expression(n *sitter.Node) *ast.Node {
	if n == nil {
		return nil
	}
	switch n.Type() {
	case "parenthesized_expression":
		return l.expression(n.NamedChild(0))
	case "identifier", "property_identifier", "shorthand_property_identifier":
		id := ast.NewNode(ast.Identifier, nil)
		id.Loc = l.loc(n)
		id.SetScalar(ast.SlotName, l.text(n))
		return id
	case "undefined":
		id := ast.NewNode(ast.Identifier, nil)
		id.SetScalar(ast.SlotName, "undefined")
		return id
	case "number":
		lit := ast.NewNode(ast.NumericLiteral, nil)
		lit.Loc = l.loc(n)
		raw := l.text(n)
		lit.SetScalar(ast.SlotRaw, raw)
		lit.SetScalar(ast.SlotValueSlot, parseJSNumber(raw))
		return lit
	case "string":
		lit := ast.NewNode(ast.StringLiteral, nil)
		lit.Loc = l.loc(n)
		raw := l.text(n)
		lit.SetScalar(ast.SlotRaw, raw)
		lit.SetScalar(ast.SlotValueSlot, decodeJSStringLiteral(raw))
		return lit
	case "true", "false":
		lit := ast.NewNode(ast.BooleanLiteral, nil)
		lit.Loc = l.loc(n)
		lit.SetScalar(ast.SlotValueSlot, n.Type() == "true")
		return lit
	case "null":
		lit := ast.NewNode(ast.NullLiteral, nil)
		lit.Loc = l.loc(n)
		return lit
	case "regex":
		lit := ast.NewNode(ast.RegExpLiteral, nil)
		lit.Loc = l.loc(n)
		lit.SetScalar(ast.SlotRaw, l.text(n))
		return lit
	case "binary_expression":
		op := l.text(n.ChildByFieldName("operator"))
		kind := ast.BinaryExpression
		if op == "&&" || op == "||" || op == "??" {
			kind = ast.LogicalExpression
		}
		e := ast.NewNode(kind, nil)
		e.Loc = l.loc(n)
		e.SetScalar(ast.SlotOperator, op)
		e.SetChild(ast.SlotLeft, l.expression(n.ChildByFieldName("left")))
		e.SetChild(ast.SlotRight, l.expression(n.ChildByFieldName("right")))
		return e
	case "unary_expression":
		e := ast.NewNode(ast.UnaryExpression, nil)
		e.Loc = l.loc(n)
		e.SetScalar(ast.SlotOperator, l.text(n.ChildByFieldName("operator")))
		e.SetChild(ast.SlotArgument, l.expression(n.ChildByFieldName("argument")))
		return e
	case "update_expression":
		e := ast.NewNode(ast.UpdateExpression, nil)
		e.Loc = l.loc(n)
		e.SetScalar(ast.SlotOperator, updateOperatorText(n, l))
		arg := n.ChildByFieldName("argument")
		if arg != nil {
			e.SetScalar(ast.SlotPrefix, arg.StartByte() > n.StartByte())
			e.SetChild(ast.SlotArgument, l.expression(arg))
		}
		return e
	case "assignment_expression", "augmented_assignment_expression":
		e := ast.NewNode(ast.AssignmentExpression, nil)
		e.Loc = l.loc(n)
		op := "="
		if operator := n.ChildByFieldName("operator"); operator != nil {
			op = l.text(operator)
		}
		e.SetScalar(ast.SlotOperator, op)
		e.SetChild(ast.SlotLeft, l.expression(n.ChildByFieldName("left")))
		e.SetChild(ast.SlotRight, l.expression(n.ChildByFieldName("right")))
		return e
	case "ternary_expression":
		e := ast.NewNode(ast.ConditionalExpression, nil)
		e.Loc = l.loc(n)
		e.SetChild(ast.SlotTest, l.expression(n.ChildByFieldName("condition")))
		e.SetChild(ast.SlotConsequent, l.expression(n.ChildByFieldName("consequence")))
		e.SetChild(ast.SlotAlternate, l.expression(n.ChildByFieldName("alternative")))
		return e
	case "sequence_expression":
		var exprs []*ast.Node
		count := int(n.NamedChildCount())
		for i := 0; i < count; i++ {
			exprs = append(exprs, l.expression(n.NamedChild(i)))
		}
		e := ast.NewNode(ast.SequenceExpression, nil)
		e.Loc = l.loc(n)
		e.SetList(ast.SlotExpressions, exprs)
		return e
	case "call_expression":
		e := ast.NewNode(ast.CallExpression, nil)
		e.Loc = l.loc(n)
		e.SetChild(ast.SlotCallee, l.expression(n.ChildByFieldName("function")))
		e.SetList(ast.SlotArguments, l.argList(n.ChildByFieldName("arguments")))
		return e
	case "new_expression":
		e := ast.NewNode(ast.NewExpression, nil)
		e.Loc = l.loc(n)
		e.SetChild(ast.SlotCallee, l.expression(n.ChildByFieldName("constructor")))
		e.SetList(ast.SlotArguments, l.argList(n.ChildByFieldName("arguments")))
		return e
	case "member_expression":
		e := ast.NewNode(ast.MemberExpression, nil)
		e.Loc = l.loc(n)
		e.SetChild(ast.SlotObject, l.expression(n.ChildByFieldName("object")))
		e.SetChild(ast.SlotProperty, l.expression(n.ChildByFieldName("property")))
		e.SetScalar(ast.SlotComputed, false)
		return e
	case "subscript_expression":
		e := ast.NewNode(ast.MemberExpression, nil)
		e.Loc = l.loc(n)
		e.SetChild(ast.SlotObject, l.expression(n.ChildByFieldName("object")))
		e.SetChild(ast.SlotProperty, l.expression(n.ChildByFieldName("index")))
		e.SetScalar(ast.SlotComputed, true)
		return e
	case "arrow_function":
		e := ast.NewNode(ast.ArrowFunctionExpr, nil)
		e.Loc = l.loc(n)
		params := n.ChildByFieldName("parameters")
		if params == nil {
			if p := n.ChildByFieldName("parameter"); p != nil {
				e.SetList(ast.SlotParams, []*ast.Node{l.expression(p)})
			}
		} else {
			e.SetList(ast.SlotParams, l.paramList(params))
		}
		if body := n.ChildByFieldName("body"); body != nil {
			if body.Type() == "statement_block" {
				e.SetChild(ast.SlotBody, l.block(body))
			} else {
				ret := ast.NewNode(ast.ReturnStatement, map[string]ast.SlotValue{
					ast.SlotArgument: {Node: l.expression(body)},
				})
				e.SetChild(ast.SlotBody, ast.NewNode(ast.BlockStatement, map[string]ast.SlotValue{
					ast.SlotBody: {List: []*ast.Node{ret}},
				}))
			}
		}
		return e
	case "function", "function_expression", "generator_function":
		e := ast.NewNode(ast.FunctionExpression, nil)
		e.Loc = l.loc(n)
		if name := n.ChildByFieldName("name"); name != nil {
			e.SetChild(ast.SlotId, l.expression(name))
		}
		e.SetList(ast.SlotParams, l.paramList(n.ChildByFieldName("parameters")))
		if body := n.ChildByFieldName("body"); body != nil {
			e.SetChild(ast.SlotBody, l.block(body))
		}
		return e
	case "array":
		e := ast.NewNode(ast.ArrayExpression, nil)
		e.Loc = l.loc(n)
		var elems []*ast.Node
		count := int(n.NamedChildCount())
		for i := 0; i < count; i++ {
			elems = append(elems, l.expression(n.NamedChild(i)))
		}
		e.SetList(ast.SlotElements, elems)
		return e
	case "object":
		e := ast.NewNode(ast.ObjectExpression, nil)
		e.Loc = l.loc(n)
		var props []*ast.Node
		count := int(n.NamedChildCount())
		for i := 0; i < count; i++ {
			props = append(props, l.property(n.NamedChild(i)))
		}
		e.SetList(ast.SlotProperties, props)
		return e
	case "spread_element":
		e := ast.NewNode(ast.SpreadElement, nil)
		e.Loc = l.loc(n)
		if n.NamedChildCount() > 0 {
			e.SetChild(ast.SlotArgument, l.expression(n.NamedChild(0)))
		}
		return e
	case "rest_pattern":
		e := ast.NewNode(ast.RestElement, nil)
		e.Loc = l.loc(n)
		if n.NamedChildCount() > 0 {
			e.SetChild(ast.SlotArgument, l.expression(n.NamedChild(0)))
		}
		return e
	case "assignment_pattern":
		e := ast.NewNode(ast.AssignmentPatt, nil)
		e.Loc = l.loc(n)
		e.SetChild(ast.SlotLeft, l.expression(n.ChildByFieldName("left")))
		e.SetChild(ast.SlotRight, l.expression(n.ChildByFieldName("right")))
		return e
	default:
		// opaque fallback: class expressions, JSX, template literals, etc.
		id := ast.NewNode(ast.Identifier, nil)
		id.Loc = l.loc(n)
		id.SetScalar(ast.SlotName, l.text(n))
		return id
	}
}

func (l *lowerer) property(n *sitter.Node) *ast.Node {
	p := ast.NewNode(ast.Property, nil)
	p.Loc = l.loc(n)
	switch n.Type() {
	case "pair":
		p.SetChild(ast.SlotKey, l.expression(n.ChildByFieldName("key")))
		p.SetChild(ast.SlotValueSlot, l.expression(n.ChildByFieldName("value")))
	case "spread_element":
		return l.expression(n)
	default:
		// shorthand property: `{ x }`
		id := l.expression(n)
		p.SetChild(ast.SlotKey, id)
		p.SetChild(ast.SlotValueSlot, id)
	}
	return p
}

func (l *lowerer) argList(n *sitter.Node) []*ast.Node {
	if n == nil {
		return nil
	}
	var out []*ast.Node
	count := int(n.NamedChildCount())
	for i := 0; i < count; i++ {
		out = append(out, l.expression(n.NamedChild(i)))
	}
	return out
}

func updateOperatorText(n *sitter.Node, l *lowerer) string {
	count := int(n.ChildCount())
	for i := 0; i < count; i++ {
		c := n.Child(i)
		t := l.text(c)
		if t == "++" || t == "--" {
			return t
		}
	}
	return ""
}

func parseJSNumber(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if v, err := strconv.ParseFloat(raw, 64); err == nil {
		return v
	}
	if v, err := strconv.ParseInt(raw, 0, 64); err == nil {
		return float64(v)
	}
	return 0
}

// decodeJSStringLiteral strips the surrounding quotes and decodes standard
// JS escape sequences (\n, \t, \xNN, \uNNNN, \\, \", \') into their literal
// rune values.
func decodeJSStringLiteral(raw string) string {
	if len(raw) < 2 {
		return raw
	}
	body := raw[1 : len(raw)-1]
	var b strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' || i+1 >= len(body) {
			b.WriteByte(c)
			continue
		}
		next := body[i+1]
		switch next {
		case 'n':
			b.WriteByte('\n')
			i++
		case 't':
			b.WriteByte('\t')
			i++
		case 'r':
			b.WriteByte('\r')
			i++
		case 'b':
			b.WriteByte('\b')
			i++
		case 'f':
			b.WriteByte('\f')
			i++
		case 'v':
			b.WriteByte('\v')
			i++
		case '\\', '\'', '"', '`':
			b.WriteByte(next)
			i++
		case 'x':
			if i+3 < len(body) {
				if v, err := strconv.ParseUint(body[i+2:i+4], 16, 8); err == nil {
					b.WriteByte(byte(v))
					i += 3
					continue
				}
			}
			b.WriteByte(next)
			i++
		case 'u':
			if i+5 < len(body) {
				if v, err := strconv.ParseUint(body[i+2:i+6], 16, 32); err == nil {
					b.WriteRune(rune(v))
					i += 5
					continue
				}
			}
			b.WriteByte(next)
			i++
		default:
			b.WriteByte(next)
			i++
		}
	}
	return b.String()
}
