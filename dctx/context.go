// Package dctx holds the per-run Processing context (§3): the scopes
// table, the functions table, configuration flags, the source path, and
// the external hooks wired in for this run. Exactly one Context exists per
// deobfuscation and it owns no process-wide state — this is the
// replacement for the teacher-pattern-adjacent global mutable symbol
// tables (`global.Functions`, `global.astScopes`) spec.md §9 calls out.
package dctx

import (
	"time"

	"github.com/viant/deobfjs/ast"
	"github.com/viant/deobfjs/hooks"
	"github.com/viant/deobfjs/symtab"
)

// Flags are the per-run configuration switches §6/§7 describe (most map
// directly onto a named preset or an explicit CLI flag in the external
// command surface).
type Flags struct {
	Verbose         bool
	Unpack          bool
	DeobfuscateModules bool // set from config/presets; unpack writes extracted modules as rendered and does not re-run the pipeline on them
	InvokeRenamer   bool
	EmitMalwareReport bool
	MaxIterations   int
	Timeout         time.Duration
}

// DefaultFlags mirrors §4.2's stated defaults (max 100 iterations, 300s
// wall clock).
func DefaultFlags() Flags {
	return Flags{
		MaxIterations: 100,
		Timeout:       300 * time.Second,
	}
}

// Context is the per-run processing context. No rewriter, detector or
// unpacker is allowed to retain state across invocations outside of what
// it reads/writes here.
type Context struct {
	SourcePath string
	Flags      Flags
	Hooks      Hooks

	// Scopes indexes every scope created during the create_scopes pre-pass
	// by Scope.ID, giving O(1) lookup for passes that need cross-node
	// visibility (e.g. empty-function removal consulting call counts from
	// anywhere in the tree).
	Scopes map[string]*symtab.Scope
	Root   *symtab.Scope

	// NodeScope maps a scope-owning node (Program/Function*/CatchClause/BlockStatement)
	// to the Scope created for it. Populated by the create-scopes pre-pass;
	// consulted by ScopeOf/NearestScope so later passes can recover "the
	// enclosing scope of this node" purely from the parent chain, without
	// threading a scope parameter through every Rewriter signature.
	NodeScope map[*ast.Node]*symtab.Scope

	// Phase lifts the old ad-hoc re-entry guards (§9: `opts.
	// _grokVariablesProcessed`) into an explicit, inspectable field the
	// fixpoint loop and pre-passes can check instead of stashing a marker
	// on some arbitrary object.
	Phase Phase

	// Iteration is the current fixpoint sweep number (1-based once the
	// main loop starts); useful for diagnostics on non-convergence.
	Iteration int

	Warnings []string
}

// Phase names the stage engine.Process is in, replacing ad-hoc boolean
// re-entry guards with one explicit, totally-ordered field.
type Phase string

const (
	PhasePre       Phase = "pre"
	PhaseFixpoint  Phase = "fixpoint"
	PhasePost      Phase = "post"
	PhaseDone      Phase = "done"
)

// Hooks bundles the external collaborators wired in for this run. Parser
// and Generator are required by engine.Process; Renamer is optional and
// left nil when not requested, and Sandbox falls back to sandbox.Disabled.
type Hooks struct {
	Parser    hooks.Parser
	Generator hooks.Generator
	Renamer   hooks.Renamer
	Sandbox   hooks.Sandbox
}

// New creates a fresh Context for one run.
func New(sourcePath string, flags Flags, h Hooks) *Context {
	return &Context{
		SourcePath: sourcePath,
		Flags:      flags,
		Hooks:      h,
		Scopes:     map[string]*symtab.Scope{},
		NodeScope:  map[*ast.Node]*symtab.Scope{},
		Phase:      PhasePre,
	}
}

// RegisterScope indexes s by ID, and associates it with its owner node, so
// later passes can look it up either way.
func (c *Context) RegisterScope(owner *ast.Node, s *symtab.Scope) {
	c.Scopes[s.ID] = s
	c.NodeScope[owner] = s
	if c.Root == nil {
		c.Root = s
	}
}

// NearestScope walks from n (and, failing that, up the parent chain)
// looking for the nearest enclosing scope-owning node registered in
// NodeScope. Falls back to c.Root if nothing more specific is found —
// every valid tree has at least the program scope.
func (c *Context) NearestScope(n *ast.Node, chain ast.Chain) *symtab.Scope {
	if s, ok := c.NodeScope[n]; ok {
		return s
	}
	for cur := chain; ; {
		p := cur.Parent()
		if p == nil {
			break
		}
		if s, ok := c.NodeScope[p]; ok {
			return s
		}
		cur = cur.Last(1)
	}
	return c.Root
}

// Warn records a non-fatal diagnostic (§7 WARN tag), shown to the caller
// regardless of verbosity.
func (c *Context) Warn(msg string) {
	c.Warnings = append(c.Warnings, msg)
}
