package symtab

import "github.com/viant/deobfjs/ast"

// maxHistory bounds Variable.History: obfuscated inputs frequently assign
// to the same identifier dozens or hundreds of times (string-array rotation
// counters, control-flow-flattening state variables), and keeping an
// unbounded log would make analysis memory scale with run length rather
// than with program size (§3, §5 resource policy).
const maxHistory = 10

// Variable carries everything the scope/symbol model tracks about one
// lexical identifier: its bounded assignment history, its nested property
// tree (so `a.b.c` chains can be modeled as nested variables), call-count
// bookkeeping inherited by Function, and optional rename metadata.
type Variable struct {
	Name  string
	Scope *Scope

	// History holds assigned value nodes, newest first, capped at
	// maxHistory; History[0] is the "current" value.
	History []*ast.Node

	// Properties maps a property name to the nested Variable representing
	// that member-expression chain (e.g. Properties["b"].Properties["c"]
	// for `a.b.c`).
	Properties map[string]*Variable

	DefinerNodes []*ast.Node

	// Rename metadata, written by a Renamer hook and consulted by the
	// apply-renames post-pass.
	SuggestedName string
	Confidence    Confidence
	Reason        string
}

// SetValue records node as the new current value, trimming History back to
// maxHistory entries. This is the single write-site spec.md §9 calls for,
// replacing an open-ended mutation log with one operation that also trims.
func (v *Variable) SetValue(node *ast.Node) {
	v.History = append([]*ast.Node{node}, v.History...)
	if len(v.History) > maxHistory {
		v.History = v.History[:maxHistory]
	}
}

// Current returns the most recently assigned value, or nil if the variable
// has never been assigned.
func (v *Variable) Current() *ast.Node {
	if len(v.History) == 0 {
		return nil
	}
	return v.History[0]
}

// Property returns the nested Variable for name, creating it (and its
// enclosing Properties map) if absent.
func (v *Variable) Property(name string) *Variable {
	if v.Properties == nil {
		v.Properties = map[string]*Variable{}
	}
	if p, ok := v.Properties[name]; ok {
		return p
	}
	p := &Variable{Name: v.Name + "." + name, Scope: v.Scope}
	v.Properties[name] = p
	return p
}

// IsUsed reports whether v has ever been assigned or has any used
// property, per the §3 invariant.
func (v *Variable) IsUsed() bool {
	if len(v.History) > 0 {
		return true
	}
	for _, p := range v.Properties {
		if p.IsUsed() {
			return true
		}
	}
	return false
}

// Function specializes Variable's value with call-site bookkeeping: the
// parameter list, every call-site node, and whether the body reduces to
// nothing (empty-function removal's target).
type Function struct {
	Variable

	Params      []*ast.Node
	CallSites   []*ast.Node
	CallCount   int
	IsEmptyFunc bool
}

// RecordCall appends a call-site node and bumps CallCount. Called once per
// call site during the count-call-sites pre-pass (§4.5 step 1).
func (f *Function) RecordCall(site *ast.Node) {
	f.CallSites = append(f.CallSites, site)
	f.CallCount++
}
