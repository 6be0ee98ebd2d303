package symtab

import (
	"fmt"

	"github.com/viant/deobfjs/ast"
)

// Kind tags the lexical role of a Scope.
type Kind string

const (
	ProgramScope  Kind = "program"
	FunctionScope Kind = "function"
	BlockScope    Kind = "block"
)

// Scope is a lexical region and its symbol table. Scopes form a tree
// mirroring the program's lexical nesting (§3). Resolving a name walks
// parent scopes; Find guards against an accidental cycle (which can only
// arise from a construction bug, never from valid input) by visiting each
// scope at most once.
type Scope struct {
	ID     string
	Kind   Kind
	Parent *Scope

	// Owner is the scope-bearing node (Program, FunctionDeclaration,
	// FunctionExpression, ArrowFunctionExpr, CatchClause, or BlockStatement) this scope
	// was created for.
	Owner *ast.Node

	Symbols   map[string]*Variable
	Functions map[string]*Function

	children []*Scope
}

// NewRootScope creates the program-root scope (no parent).
func NewRootScope(owner *ast.Node) *Scope {
	return &Scope{
		ID:        HashID("program"),
		Kind:      ProgramScope,
		Owner:     owner,
		Symbols:   map[string]*Variable{},
		Functions: map[string]*Function{},
	}
}

// NewChild creates a child scope nested lexically inside s.
func (s *Scope) NewChild(kind Kind, owner *ast.Node, discriminator string) *Scope {
	child := &Scope{
		ID:        HashID(fmt.Sprintf("%s.%s@%s", s.ID, kind, discriminator)),
		Kind:      kind,
		Parent:    s,
		Owner:     owner,
		Symbols:   map[string]*Variable{},
		Functions: map[string]*Function{},
	}
	s.children = append(s.children, child)
	return child
}

// Find resolves name by walking from s up through parent scopes, returning
// the first Variable found or nil. Cycle-guarded: if scope construction
// ever produced a loop, Find notices it (via a visited set) and raises a
// fatal error rather than spinning forever — this is the condition §3
// requires to be fatal, so it panics with a *CycleError, which
// rewrite.Pipeline.Run recovers into a *rewrite.FatalError.
func (s *Scope) Find(name string) *Variable {
	visited := map[*Scope]bool{}
	for cur := s; cur != nil; cur = cur.Parent {
		if visited[cur] {
			panic(&CycleError{ScopeID: cur.ID})
		}
		visited[cur] = true
		if v, ok := cur.Symbols[name]; ok {
			return v
		}
	}
	return nil
}

// FindFunction resolves a function name the same way Find resolves a
// variable name, consulting the Functions convenience map at each scope.
func (s *Scope) FindFunction(name string) *Function {
	visited := map[*Scope]bool{}
	for cur := s; cur != nil; cur = cur.Parent {
		if visited[cur] {
			panic(&CycleError{ScopeID: cur.ID})
		}
		visited[cur] = true
		if f, ok := cur.Functions[name]; ok {
			return f
		}
	}
	return nil
}

// AddVariable is idempotent: it returns the existing Variable for name if
// one is already declared directly in s, otherwise it installs and returns
// a new one.
func (s *Scope) AddVariable(name string, definer *ast.Node) *Variable {
	if v, ok := s.Symbols[name]; ok {
		if definer != nil {
			v.DefinerNodes = append(v.DefinerNodes, definer)
		}
		return v
	}
	v := &Variable{
		Name:  name,
		Scope: s,
	}
	if definer != nil {
		v.DefinerNodes = append(v.DefinerNodes, definer)
	}
	s.Symbols[name] = v
	return v
}

// AddFunction wraps AddVariable with function-specific bookkeeping and
// registers the result in the convenience Functions map.
func (s *Scope) AddFunction(name string, node *ast.Node, params []*ast.Node) *Function {
	if f, ok := s.Functions[name]; ok {
		return f
	}
	f := &Function{
		Variable: Variable{Name: name, Scope: s},
		Params:   params,
	}
	f.DefinerNodes = append(f.DefinerNodes, node)
	s.Functions[name] = f
	// A named function is also addressable as an ordinary variable (its
	// value is the function itself), matching JS function-declaration
	// semantics.
	if _, exists := s.Symbols[name]; !exists {
		s.Symbols[name] = &f.Variable
	}
	return f
}

// FindNode resolves n — an Identifier or a static MemberExpression chain
// such as `a.b.c` / `a["b"]["c"]` — the same way Find resolves a plain
// name, additionally walking each property link through the matching
// Variable's Properties tree (§3/§4.4's get_variable(name-or-node)). It
// returns nil if the base identifier is undeclared or any link in the
// chain is dynamic (a computed member whose key isn't a string literal) or
// simply hasn't been installed yet.
func (s *Scope) FindNode(n *ast.Node) *Variable {
	base, path := memberPath(n)
	if base == "" {
		return nil
	}
	v := s.Find(base)
	for _, name := range path {
		if v == nil || v.Properties == nil {
			return nil
		}
		v = v.Properties[name]
	}
	return v
}

// AddNode resolves/installs the Variable for n — an Identifier or a static
// MemberExpression chain — creating the base Variable and any intermediate
// Properties that don't exist yet (§3/§4.4's add_variable(name-or-node)).
// Returns nil if n isn't a statically resolvable identifier or member
// chain (e.g. a computed access with a non-literal key).
func (s *Scope) AddNode(n *ast.Node, definer *ast.Node) *Variable {
	base, path := memberPath(n)
	if base == "" {
		return nil
	}
	v := s.AddVariable(base, nil)
	for _, name := range path {
		v = v.Property(name)
	}
	if definer != nil {
		v.DefinerNodes = append(v.DefinerNodes, definer)
	}
	return v
}

// memberPath decomposes n into a base identifier name and the sequence of
// static property names leading to it: a plain Identifier yields (name,
// nil); `a.b.c` or `a["b"]["c"]` yields ("a", []string{"b", "c"}). Any
// dynamic link (a computed member whose key isn't a string literal) makes
// the whole chain unresolvable, reported as ("", nil).
func memberPath(n *ast.Node) (string, []string) {
	if n == nil {
		return "", nil
	}
	switch n.Kind {
	case ast.Identifier:
		name, _ := n.Scalar(ast.SlotName).(string)
		return name, nil
	case ast.MemberExpression:
		prop := staticPropertyName(n)
		if prop == "" {
			return "", nil
		}
		base, path := memberPath(n.Child(ast.SlotObject))
		if base == "" {
			return "", nil
		}
		return base, append(path, prop)
	}
	return "", nil
}

// staticPropertyName returns a MemberExpression's property name when it is
// statically known: the Identifier name for a non-computed access
// (`a.b`), or the string value for a computed access keyed by a string
// literal (`a["b"]`). Any other shape (computed by a non-literal
// expression) returns "".
func staticPropertyName(n *ast.Node) string {
	prop := n.Child(ast.SlotProperty)
	if prop == nil {
		return ""
	}
	computed, _ := n.Scalar(ast.SlotComputed).(bool)
	if !computed {
		if prop.Kind == ast.Identifier {
			name, _ := prop.Scalar(ast.SlotName).(string)
			return name
		}
		return ""
	}
	if prop.Kind == ast.StringLiteral {
		name, _ := prop.Scalar(ast.SlotValueSlot).(string)
		return name
	}
	return ""
}

// Children returns s's direct child scopes, in creation order.
func (s *Scope) Children() []*Scope { return s.children }

// CycleError is raised when scope-parent traversal detects a loop. This
// can only indicate a construction bug in create_scopes, never a property
// of valid obfuscated input, so the core treats it as a fatal structural
// invariant violation (§7).
type CycleError struct {
	ScopeID string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("symtab: circular scope chain detected at scope %q", e.ScopeID)
}
