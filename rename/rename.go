// Package rename provides the default, non-AI hooks.Renamer: a purely
// local heuristic that flags obfuscated-looking identifiers and proposes a
// readable replacement, always at symtab.Low confidence (§4.9) since it
// has no semantic understanding beyond shape-matching the name and the
// variable's recorded value history. Any stronger (AI-assisted) renamer is
// an external collaborator wired in by the caller instead of this one.
package rename

import (
	"context"
	"regexp"
	"strings"

	"github.com/viant/deobfjs/ast"
	"github.com/viant/deobfjs/symtab"
)

// obfuscatedName matches the common minifier/obfuscator identifier shapes:
// `_0x1a2b`, a bare single letter, or `_` followed only by decimal digits.
var obfuscatedName = regexp.MustCompile(`^(_0x[0-9a-fA-F]+|_[0-9]+|[a-zA-Z])$`)

// LocalRenamer is the default hooks.Renamer.
type LocalRenamer struct{}

// New returns a ready-to-use LocalRenamer.
func New() *LocalRenamer { return &LocalRenamer{} }

// Rename implements hooks.Renamer. It visits every scope reachable from
// root and writes a SuggestedName onto each Variable/Function whose name
// looks obfuscated and whose recorded value gives a hint about its role.
func (r *LocalRenamer) Rename(ctx context.Context, tree *ast.Node, root *symtab.Scope) (int, error) {
	count := 0
	visitScopes(root, func(s *symtab.Scope) {
		for name, fn := range s.Functions {
			if suggestFunction(name, fn) {
				count++
			}
		}
		for name, v := range s.Symbols {
			if _, isFn := s.Functions[name]; isFn {
				continue
			}
			if suggestVariable(name, v) {
				count++
			}
		}
	})
	return count, nil
}

func visitScopes(s *symtab.Scope, fn func(*symtab.Scope)) {
	if s == nil {
		return
	}
	fn(s)
	for _, c := range s.Children() {
		visitScopes(c, fn)
	}
}

func suggestFunction(name string, f *symtab.Function) bool {
	if !obfuscatedName.MatchString(name) {
		return false
	}
	if isStringArrayAccessor(f) {
		f.SuggestedName = "getString"
		f.Confidence = symtab.Low
		f.Reason = "single-statement array index accessor"
		return true
	}
	if len(f.Params) > 0 {
		f.SuggestedName = "fn" + capitalize(paramHint(f.Params[0]))
		f.Confidence = symtab.Low
		f.Reason = "obfuscated-looking name, heuristic guess from first parameter"
		return true
	}
	f.SuggestedName = "fn"
	f.Confidence = symtab.Low
	f.Reason = "obfuscated-looking name"
	return true
}

func suggestVariable(name string, v *symtab.Variable) bool {
	if !obfuscatedName.MatchString(name) {
		return false
	}
	cur := v.Current()
	if cur == nil {
		return false
	}
	switch cur.Kind {
	case ast.ArrayExpression:
		v.SuggestedName = "items"
	case ast.StringLiteral:
		v.SuggestedName = "text"
	case ast.NumericLiteral:
		v.SuggestedName = "count"
	case ast.FunctionExpression, ast.ArrowFunctionExpr:
		v.SuggestedName = "handler"
	default:
		return false
	}
	v.Confidence = symtab.Low
	v.Reason = "obfuscated-looking name, heuristic guess from initializer kind"
	return true
}

func isStringArrayAccessor(f *symtab.Function) bool {
	if len(f.DefinerNodes) == 0 || len(f.Params) != 1 {
		return false
	}
	def := f.DefinerNodes[0]
	var body *ast.Node
	switch def.Kind {
	case ast.FunctionDeclaration:
		body = def.Child(ast.SlotBody)
	default:
		return false
	}
	if body == nil {
		return false
	}
	stmts := body.List(ast.SlotBody)
	return len(stmts) == 1 && stmts[0].Kind == ast.ReturnStatement
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func paramHint(p *ast.Node) string {
	if p == nil || p.Kind != ast.Identifier {
		return "Arg"
	}
	name, _ := p.Scalar(ast.SlotName).(string)
	if name == "" {
		return "Arg"
	}
	return name
}
