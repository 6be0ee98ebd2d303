// Package rewrite implements the rewriter kernel (§2.5/§4.5): the uniform
// rewriter signature, pass orchestration, and the fixpoint loop that drives
// the whole transformation pipeline. It follows the teacher's own
// functional-options/staged-walk shape (analyzer.Analyzer construction plus
// analyzer/package.go's walk-then-post-process staging), generalised from
// "build a read-only analysis model" to "mutate the tree until it stops
// changing".
package rewrite

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/viant/deobfjs/ast"
	"github.com/viant/deobfjs/dctx"
	"github.com/viant/deobfjs/symtab"
)

// Rewriter is the uniform interface every pass-level transformation
// implements: given a node, the run's processing context, and the parent
// chain leading to it, mutate the tree and report whether anything
// changed. Rewriters never retain state across invocations.
type Rewriter func(n *ast.Node, c *dctx.Context, chain ast.Chain) bool

// Order selects which traversal a Pass runs under.
type Order int

const (
	TopDown Order = iota
	BottomUp
)

// Pass names an ordered group of rewriters sharing one traversal.
type Pass struct {
	Name      string
	Order     Order
	Rewriters []Rewriter
}

// run executes one sweep of p over tree, returning whether anything
// changed. Each rewriter is wrapped so a panic inside a single node's
// rewrite is caught, logged (if verbose), and treated as "no change" for
// that node — the pass continues on siblings (§4.6 failure semantics).
func (p Pass) run(tree *ast.Node, c *dctx.Context) bool {
	safe := make([]ast.Visitor, len(p.Rewriters))
	for i, r := range p.Rewriters {
		r := r
		safe[i] = func(n *ast.Node, chain ast.Chain) (changed bool) {
			defer func() {
				if rec := recover(); rec != nil {
					if ce, ok := rec.(*symtab.CycleError); ok {
						panic(ce)
					}
					if c.Flags.Verbose {
						log.Printf("WARN rewrite: pass %q panicked on node kind %s: %v", p.Name, n.Kind, rec)
					}
					c.Warn(fmt.Sprintf("pass %q recovered from panic on %s: %v", p.Name, n.Kind, rec))
					changed = false
				}
			}()
			return r(n, c, chain)
		}
	}
	switch p.Order {
	case BottomUp:
		return ast.BottomUp(tree, ast.Root(), safe...)
	default:
		return ast.TopDown(tree, ast.Root(), safe...)
	}
}

// Pipeline is the ordered set of pre-passes, main (fixpoint) passes, and
// post-passes that together implement §4.5's orchestration contract.
type Pipeline struct {
	Pre  []Pass
	Main []Pass
	Post []Pass
}

// Run executes the full pipeline against tree, mutating it in place.
//
//  1. Pre-passes run exactly once each, top-down, in order (strip
//     locations, create scopes, bind assignments, count call sites).
//  2. The main loop repeats the ordered Main passes until a full sweep
//     makes no change, or MaxIterations is reached — whichever comes
//     first. A cooperative context.Context deadline derived from
//     c.Flags.Timeout is checked between passes, never mid-pass.
//  3. Post-passes run exactly once each (apply renames, prune empty
//     never-called functions).
//
// Run never returns a plain error for non-convergence — that is a warning
// recorded on c and surfaced via the returned *NonConvergenceWarning so
// the caller can log it without treating the run as failed.
func (p Pipeline) Run(goCtx context.Context, tree *ast.Node, c *dctx.Context) (warn *NonConvergenceWarning, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			ce, ok := rec.(*symtab.CycleError)
			if !ok {
				panic(rec)
			}
			warn, err = nil, &FatalError{Reason: ce.Error()}
		}
	}()
	deadline := time.Now().Add(c.Flags.Timeout)
	if c.Flags.Timeout <= 0 {
		deadline = time.Time{}
	}

	c.Phase = dctx.PhasePre
	for _, pass := range p.Pre {
		if err := checkCancel(goCtx, deadline); err != nil {
			return nil, err
		}
		pass.run(tree, c)
	}

	c.Phase = dctx.PhaseFixpoint
	maxIter := c.Flags.MaxIterations
	if maxIter <= 0 {
		maxIter = 100
	}
	var nonConv *NonConvergenceWarning
	for iter := 1; iter <= maxIter; iter++ {
		c.Iteration = iter
		if err := checkCancel(goCtx, deadline); err != nil {
			return nil, err
		}
		swept := false
		for _, pass := range p.Main {
			if pass.run(tree, c) {
				swept = true
			}
		}
		if !swept {
			break
		}
		if iter == maxIter {
			nonConv = &NonConvergenceWarning{Iterations: iter}
			c.Warn(nonConv.Error())
		}
	}

	c.Phase = dctx.PhasePost
	for _, pass := range p.Post {
		if err := checkCancel(goCtx, deadline); err != nil {
			return nil, err
		}
		pass.run(tree, c)
	}
	c.Phase = dctx.PhaseDone
	return nonConv, nil
}

func checkCancel(goCtx context.Context, deadline time.Time) error {
	select {
	case <-goCtx.Done():
		return goCtx.Err()
	default:
	}
	if !deadline.IsZero() && time.Now().After(deadline) {
		return context.DeadlineExceeded
	}
	return nil
}
