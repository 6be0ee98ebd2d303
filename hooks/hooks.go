// Package hooks defines the interfaces the core consumes from its external
// collaborators (§2.9/§4.9): the parser producing the initial tree, the
// generator emitting output source, the optional AI-assisted renamer, and
// the optional sandboxed evaluator for exotic-encoder decoding. The core
// never imports a concrete parser/generator/renamer/sandbox implementation
// directly — it is wired one in by the caller (engine.ProcessOptions).
package hooks

import (
	"context"

	"github.com/viant/deobfjs/ast"
	"github.com/viant/deobfjs/symtab"
)

// ParseOptions is opaque to the core; a concrete Parser interprets it
// however it likes (the bundled jsparse.Parser ignores it).
type ParseOptions map[string]any

// Parser turns source text into the tree the core operates on.
type Parser interface {
	Parse(ctx context.Context, source []byte, opts ParseOptions) (*ast.Node, error)
}

// GenResult is what a Generator produces from a (possibly rewritten) tree.
type GenResult struct {
	Code      string
	SourceMap []byte // optional; nil when not requested
}

// Generator turns the tree back into source text.
type Generator interface {
	Generate(tree *ast.Node) (GenResult, error)
}

// Renamer is optional. It inspects the tree and the scope tree rooted at
// root and writes SuggestedName/Confidence/Reason directly onto the
// symtab.Variable/Function values it wants to rename; the core applies
// accepted suggestions in a later pass (§4.5 step 3). Any network call and
// cost tracking live entirely on the implementation's side of this
// interface — that is the boundary spec.md §1 draws around AI-assisted
// renaming.
type Renamer interface {
	Rename(ctx context.Context, tree *ast.Node, root *symtab.Scope) (count int, err error)
}

// SandboxResult is the outcome of evaluating a candidate source string in
// an isolated environment.
type SandboxResult struct {
	Value string
	Kind  string // e.g. "string", "number", "undefined"
}

// Sandbox is optional. It evaluates source under a wall-clock bound and
// reports a value/kind pair, or an error on timeout/failure. This is
// intentionally a thin contract — the actual isolation mechanism (child
// process, VM, container) is an external concern (§1, §4.8).
type Sandbox interface {
	Eval(ctx context.Context, source string, timeoutMS int) (SandboxResult, error)
}
