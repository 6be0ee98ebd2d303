package unpack

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/deobfjs/ast"
	"github.com/viant/deobfjs/hooks"
	"github.com/viant/deobfjs/symtab"
	"gopkg.in/yaml.v3"
)

// WrittenModule records one extracted module's on-disk outcome, mirroring
// what mapping.json needs per entry.
type WrittenModule struct {
	ID         string            `json:"id" yaml:"id"`
	Name       string            `json:"name" yaml:"name"`
	Path       string            `json:"path" yaml:"path"`
	Tag        string            `json:"tag" yaml:"tag"`
	Confidence symtab.Confidence `json:"confidence" yaml:"confidence"`
	Suspicious bool              `json:"suspicious" yaml:"suspicious"`
	Reason     string            `json:"reason" yaml:"reason"`
}

// Result is the outcome of one Unpack call.
type Result struct {
	Dialect         Dialect         `json:"dialect" yaml:"dialect"`
	OutputDir       string          `json:"outputDir,omitempty" yaml:"outputDir,omitempty"`
	Modules         []WrittenModule `json:"modules,omitempty" yaml:"modules,omitempty"`
	SuspiciousCount int             `json:"suspiciousCount" yaml:"suspiciousCount"`
	Unpacked        bool            `json:"unpacked" yaml:"unpacked"`
}

// Options configures one Unpack call.
type Options struct {
	SourcePath string
	FS         afs.Service // writer for module files, README.md, mapping.json
	Generator  hooks.Generator
	Verbose    bool // also write mapping.debug.yaml
}

// Unpack scans tree's top-level statements for the first recognized
// bundler wrapper (in §4.7's priority order), extracts or hoists it, and
// writes module files when the dialect carries a modules container.
// Re-running Unpack on an already-unpacked tree finds no wrapper left and
// returns a zero Result with Unpacked=false, satisfying the idempotence
// requirement.
func Unpack(ctx context.Context, tree *ast.Node, opts Options) (*Result, error) {
	if tree == nil || tree.Kind != ast.Program {
		return &Result{}, nil
	}
	stmts := tree.List(ast.SlotBody)
	for i, stmt := range stmts {
		match, ok := Detect(stmt)
		if !ok {
			continue
		}
		if match.Container != nil {
			return extractAndWrite(ctx, tree, i, match, opts)
		}
		hoistWrapper(tree, i, match)
		return &Result{Dialect: match.Dialect, Unpacked: true}, nil
	}
	return &Result{}, nil
}

// hoistWrapper splices the wrapper's body statements into the enclosing
// program in place of the wrapper call statement — the AMD/UMD/Closure and
// simple-IIFE treatment §4.7 describes.
func hoistWrapper(tree *ast.Node, index int, match Match) {
	body := match.Wrapper.Child(ast.SlotBody)
	var inner []*ast.Node
	if body != nil {
		inner = body.List(ast.SlotBody)
	}
	stmts := tree.List(ast.SlotBody)
	out := make([]*ast.Node, 0, len(stmts)-1+len(inner))
	out = append(out, stmts[:index]...)
	out = append(out, inner...)
	out = append(out, stmts[index+1:]...)
	tree.SetList(ast.SlotBody, out)
}

func extractAndWrite(ctx context.Context, tree *ast.Node, index int, match Match, opts Options) (*Result, error) {
	modules := ExtractModules(match.Container)
	names := make([]string, len(modules))
	classifications := make([]classified, len(modules))
	rendered := make([]string, len(modules))
	for i, m := range modules {
		text, err := renderModule(opts.Generator, m.Fn)
		if err != nil {
			return nil, fmt.Errorf("unpack: rendering module %s: %w", m.ID, err)
		}
		rendered[i] = text
		classifications[i] = classify(m.Fn, text)
		names[i] = classifications[i].Tag
	}
	names = disambiguate(names)

	outputDir := opts.SourcePath + ".unpacked"
	var written []WrittenModule
	suspicious := 0
	for i, m := range modules {
		filename := names[i] + ".js"
		modPath := path.Join(outputDir, filename)
		header := moduleHeader(m.ID, opts.SourcePath, classifications[i])
		content := header + rendered[i]
		if opts.FS != nil {
			if err := opts.FS.Upload(ctx, modPath, 0644, strings.NewReader(content)); err != nil {
				return nil, fmt.Errorf("unpack: writing %s: %w", modPath, err)
			}
		}
		if classifications[i].Suspicious {
			suspicious++
		}
		written = append(written, WrittenModule{
			ID:         m.ID,
			Name:       names[i],
			Path:       modPath,
			Tag:        classifications[i].Tag,
			Confidence: classifications[i].Confidence,
			Suspicious: classifications[i].Suspicious,
			Reason:     classifications[i].Reason,
		})
	}

	result := &Result{
		Dialect:         match.Dialect,
		OutputDir:       outputDir,
		Modules:         written,
		SuspiciousCount: suspicious,
		Unpacked:        true,
	}

	if opts.FS != nil {
		if err := writeSideFiles(ctx, opts, outputDir, result); err != nil {
			return nil, err
		}
	}

	replaceWithNoOp(tree, index)
	return result, nil
}

func renderModule(gen hooks.Generator, fn *ast.Node) (string, error) {
	if gen == nil {
		return "", fmt.Errorf("unpack: no generator configured")
	}
	wrapper := ast.NewNode(ast.Program, map[string]ast.SlotValue{
		ast.SlotBody: {List: []*ast.Node{ast.NewNode(ast.ExpressionStatement, map[string]ast.SlotValue{
			ast.SlotExpressions: {Node: fn},
		})}},
	})
	res, err := gen.Generate(wrapper)
	if err != nil {
		return "", err
	}
	return res.Code, nil
}

func moduleHeader(id, sourcePath string, c classified) string {
	var b strings.Builder
	fmt.Fprintf(&b, "// module id: %s\n", id)
	fmt.Fprintf(&b, "// origin: %s\n", sourcePath)
	fmt.Fprintf(&b, "// tag: %s (confidence: %s)\n", c.Tag, c.Confidence)
	if c.Suspicious {
		fmt.Fprintf(&b, "// WARNING: matched a malware-suspicious signature (%s)\n", c.Reason)
	}
	b.WriteString("\n")
	return b.String()
}

// replaceWithNoOp swaps the wrapper statement at index for an
// EmptyStatement, so a subsequent Unpack call on the same tree finds no
// dialect match and is a no-op.
func replaceWithNoOp(tree *ast.Node, index int) {
	stmts := tree.List(ast.SlotBody)
	stmts[index] = ast.NewNode(ast.EmptyStatement, nil)
	tree.SetList(ast.SlotBody, stmts)
}

func writeSideFiles(ctx context.Context, opts Options, outputDir string, result *Result) error {
	readme := buildReadme(result)
	if err := opts.FS.Upload(ctx, path.Join(outputDir, "README.md"), 0644, strings.NewReader(readme)); err != nil {
		return fmt.Errorf("unpack: writing README.md: %w", err)
	}
	mapping, err := buildMappingJSON(result)
	if err != nil {
		return err
	}
	if err := opts.FS.Upload(ctx, path.Join(outputDir, "mapping.json"), 0644, strings.NewReader(mapping)); err != nil {
		return fmt.Errorf("unpack: writing mapping.json: %w", err)
	}
	if opts.Verbose {
		debugYAML, err := yaml.Marshal(result)
		if err != nil {
			return fmt.Errorf("unpack: marshaling mapping.debug.yaml: %w", err)
		}
		if err := opts.FS.Upload(ctx, path.Join(outputDir, "mapping.debug.yaml"), 0644, strings.NewReader(string(debugYAML))); err != nil {
			return fmt.Errorf("unpack: writing mapping.debug.yaml: %w", err)
		}
	}
	return nil
}

func buildReadme(result *Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Unpacked bundle (%s)\n\n", result.Dialect)
	fmt.Fprintf(&b, "%d modules extracted, %d flagged suspicious.\n\n", len(result.Modules), result.SuspiciousCount)
	b.WriteString("| id | name | tag | confidence | suspicious |\n")
	b.WriteString("|---|---|---|---|---|\n")
	for _, m := range result.Modules {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %v |\n", m.ID, m.Name, m.Tag, m.Confidence, m.Suspicious)
	}
	return b.String()
}

func buildMappingJSON(result *Result) (string, error) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("unpack: marshaling mapping.json: %w", err)
	}
	return string(data), nil
}
