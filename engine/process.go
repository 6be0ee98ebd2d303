// Package engine wires every other package together into the single
// entry point a caller actually uses (§2.10/§6): parse, run the fixpoint
// pipeline, generate, and optionally unpack/detect. It is the only
// library package that imports jsparse/jsprint/rename/config/detect/unpack/sandbox
// directly — every other package only knows about the hooks/dctx/ast/rewrite
// contracts, following the teacher's own layering (analyzer.Analyzer as the
// one type that wires a parser, a walker and an inspector factory together).
package engine

import (
	"context"
	"fmt"

	"github.com/viant/afs"
	"github.com/viant/deobfjs/config"
	"github.com/viant/deobfjs/detect"
	"github.com/viant/deobfjs/dctx"
	"github.com/viant/deobfjs/hooks"
	"github.com/viant/deobfjs/jsparse"
	"github.com/viant/deobfjs/jsprint"
	"github.com/viant/deobfjs/rename"
	"github.com/viant/deobfjs/rewrite"
	"github.com/viant/deobfjs/sandbox"
	"github.com/viant/deobfjs/unpack"
)

// ProcessOptions configures a single-file run. SourcePath is used only for
// diagnostics and as the base path for unpack/report side-outputs — the
// source bytes themselves are passed explicitly so callers are never
// required to go through a filesystem.
type ProcessOptions struct {
	SourcePath string
	Source     []byte
	Flags      dctx.Flags

	// Hooks: any left nil fall back to this package's default
	// implementation (jsparse.Parser, jsprint.Generator, sandbox.Disabled).
	// Renamer stays nil unless Flags.InvokeRenamer requests the bundled
	// heuristic renamer.
	Parser    hooks.Parser
	Generator hooks.Generator
	Renamer   hooks.Renamer
	Sandbox   hooks.Sandbox

	// FS backs unpack's file writes; defaults to afs.New() when nil and
	// Flags.Unpack is set.
	FS afs.Service
}

// Result is what one Process call produces.
type Result struct {
	Code       string
	SourceMap  []byte
	Warnings   []string
	NonConverged bool
	Iterations int
	Unpack     *unpack.Result
	Report     *detect.Report
}

// Process runs the full single-file pipeline: parse -> pre-passes ->
// fixpoint -> post-passes -> optional rename/unpack/detect -> generate
// (§10).
func Process(ctx context.Context, opts ProcessOptions) (*Result, error) {
	h := resolveHooks(opts)

	tree, err := h.Parser.Parse(ctx, opts.Source, nil)
	if err != nil {
		return nil, fmt.Errorf("engine: parse: %w", err)
	}

	dc := dctx.New(opts.SourcePath, opts.Flags, dctx.Hooks{
		Parser:    h.Parser,
		Generator: h.Generator,
		Renamer:   h.Renamer,
		Sandbox:   h.Sandbox,
	})

	pipeline := BuildPipeline()
	warn, err := pipeline.Run(ctx, tree, dc)
	if err != nil {
		return nil, fmt.Errorf("engine: pipeline: %w", err)
	}

	if dc.Flags.InvokeRenamer && h.Renamer != nil {
		if _, err := h.Renamer.Rename(ctx, tree, dc.Root); err != nil {
			dc.Warn(fmt.Sprintf("renamer: %v", err))
		}
	}

	result := &Result{
		Warnings:   dc.Warnings,
		Iterations: dc.Iteration,
	}
	if warn != nil {
		result.NonConverged = true
	}

	if opts.Flags.Unpack {
		fs := opts.FS
		if fs == nil {
			fs = afs.New()
		}
		unpackResult, err := unpack.Unpack(ctx, tree, unpack.Options{
			SourcePath: opts.SourcePath,
			FS:         fs,
			Generator:  h.Generator,
			Verbose:    opts.Flags.Verbose,
		})
		if err != nil {
			return nil, fmt.Errorf("engine: unpack: %w", err)
		}
		result.Unpack = unpackResult
	}

	if opts.Flags.EmitMalwareReport {
		report := detect.Analyze(opts.SourcePath, tree, dc.Root, opts.Source)
		result.Report = &report
	}

	// Generate runs last: when unpack replaced the bundle wrapper with a
	// no-op statement (§4.7 step 5), the emitted code must reflect that,
	// not the pre-extraction tree.
	genResult, err := h.Generator.Generate(tree)
	if err != nil {
		return nil, fmt.Errorf("engine: generate: %w", err)
	}
	result.Code = genResult.Code
	result.SourceMap = genResult.SourceMap

	return result, nil
}

type resolvedHooks struct {
	Parser    hooks.Parser
	Generator hooks.Generator
	Renamer   hooks.Renamer
	Sandbox   hooks.Sandbox
}

func resolveHooks(opts ProcessOptions) resolvedHooks {
	h := resolvedHooks{
		Parser:    opts.Parser,
		Generator: opts.Generator,
		Renamer:   opts.Renamer,
		Sandbox:   opts.Sandbox,
	}
	if h.Parser == nil {
		h.Parser = jsparse.New()
	}
	if h.Generator == nil {
		h.Generator = jsprint.New()
	}
	if h.Sandbox == nil {
		h.Sandbox = sandbox.New()
	}
	if h.Renamer == nil && opts.Flags.InvokeRenamer {
		h.Renamer = rename.New()
	}
	return h
}

// ResolveFlags discovers config for startDir (ancestor-walk + optional
// preset), falling back to dctx.DefaultFlags() when no config file exists.
func ResolveFlags(startDir string) (dctx.Flags, error) {
	return config.Resolve(startDir)
}

// BuildPipeline assembles the fixpoint pipeline every Process call uses:
// pre-passes (strip locations, create scopes, bind assignments, count call
// sites), the main fixpoint loop (every expression/statement rewriter in
// rewrite/pass, in the order §4.6 implies: folding and idiom recovery
// before dead-code elimination, before structural lifting/normalisation),
// and post-passes (apply renames, prune empty never-called functions).
func BuildPipeline() rewrite.Pipeline {
	detectAccessor, inlineAccessor := newStringArrayInliner()
	return rewrite.Pipeline{
		Pre: []rewrite.Pass{
			rewrite.StripLocationsPass(),
			rewrite.CreateScopesPass(),
			rewrite.BindAssignmentsPass(),
			rewrite.CountCallSitesPass(),
		},
		Main: []rewrite.Pass{
			{Name: "fold-and-recover", Order: rewrite.BottomUp, Rewriters: []rewrite.Rewriter{
				passConstantFold, passBooleanRecovery, passStringEscapeDecode,
			}},
			{Name: "string-array-detect", Order: rewrite.TopDown, Rewriters: []rewrite.Rewriter{
				detectAccessor,
			}},
			{Name: "string-array-inline", Order: rewrite.TopDown, Rewriters: []rewrite.Rewriter{
				inlineAccessor,
			}},
			{Name: "dead-code", Order: rewrite.BottomUp, Rewriters: []rewrite.Rewriter{
				passDeadCode,
			}},
			{Name: "lift-and-normalize", Order: rewrite.TopDown, Rewriters: []rewrite.Rewriter{
				passSequenceLift, passControlFlowNormalize, passPropertySimplify,
			}},
		},
		Post: []rewrite.Pass{
			rewrite.ApplyRenamesPass(),
			rewrite.EmptyFunctionPrunePass(),
		},
	}
}
