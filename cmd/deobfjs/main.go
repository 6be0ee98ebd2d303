// Command deobfjs is the thin CLI wiring engine.Process/ProcessDir (§11).
// Flag parsing richness is deliberately out of scope — the handful of
// flags below exist to exercise the engine package end to end, not to
// offer a polished user experience.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/viant/afs"

	"github.com/viant/deobfjs/config"
	"github.com/viant/deobfjs/dctx"
	"github.com/viant/deobfjs/engine"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "deobfjs:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("deobfjs", flag.ContinueOnError)
	var (
		input       = fs.String("input", "", "source file to deobfuscate, or a directory with -dir")
		output      = fs.String("output", "", "output file path; defaults to stdout")
		dir         = fs.Bool("dir", false, "treat -input as a directory and batch-process every matching file under it")
		recursive   = fs.Bool("recursive", true, "with -dir, recurse into subdirectories")
		glob        = fs.String("glob", ".js", "with -dir, only process files with this suffix")
		preset      = fs.String("preset", "", "named preset tuning the run (malware-analysis, minified-code, webpack-bundle, fast)")
		unpack      = fs.Bool("unpack", false, "unpack a detected module bundle alongside deobfuscation")
		rename      = fs.Bool("rename", false, "apply the bundled heuristic renamer")
		report      = fs.Bool("report", false, "emit an obfuscator/exotic-encoder detection report")
		verbose     = fs.Bool("verbose", false, "log a diagnostic line per recovered panic/non-convergence")
		concurrency = fs.Int("concurrency", 4, "with -dir, number of files processed concurrently")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *input == "" {
		return fmt.Errorf("-input is required")
	}

	flags, err := resolveFlags(*input, *preset, *unpack, *rename, *report, *verbose)
	if err != nil {
		return err
	}

	ctx := context.Background()
	if *dir {
		return runDir(ctx, *input, *recursive, *glob, *concurrency, flags)
	}
	return runFile(ctx, *input, *output, flags)
}

func resolveFlags(input, preset string, unpack, rename, report, verbose bool) (dctx.Flags, error) {
	startDir := input
	if info, err := os.Stat(input); err == nil && !info.IsDir() {
		startDir = filepath.Dir(input)
	}
	flags, err := engine.ResolveFlags(startDir)
	if err != nil {
		return dctx.Flags{}, fmt.Errorf("resolving config: %w", err)
	}
	if preset != "" {
		p, ok := config.Presets[preset]
		if !ok {
			return dctx.Flags{}, fmt.Errorf("unknown preset %q", preset)
		}
		flags = p
	}
	if unpack {
		flags.Unpack = true
	}
	if rename {
		flags.InvokeRenamer = true
	}
	if report {
		flags.EmitMalwareReport = true
	}
	if verbose {
		flags.Verbose = true
	}
	return flags, nil
}

func runFile(ctx context.Context, input, output string, flags dctx.Flags) error {
	source, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("reading %s: %w", input, err)
	}
	result, err := engine.Process(ctx, engine.ProcessOptions{
		SourcePath: input,
		Source:     source,
		Flags:      flags,
	})
	if err != nil {
		return fmt.Errorf("processing %s: %w", input, err)
	}
	for _, w := range result.Warnings {
		fmt.Fprintln(os.Stderr, "WARN:", w)
	}
	if result.NonConverged {
		fmt.Fprintf(os.Stderr, "WARN: %s did not converge within %d iterations\n", input, result.Iterations)
	}
	if result.Report != nil && result.Report.Suspicious() {
		fmt.Fprintf(os.Stderr, "REPORT: %s flagged suspicious (%d obfuscator hit(s), %d exotic encoding(s))\n",
			input, len(result.Report.ObfuscatorHits), len(result.Report.ExoticEncodings))
	}
	if output == "" {
		_, err := fmt.Print(result.Code)
		return err
	}
	return os.WriteFile(output, []byte(result.Code), 0o644)
}

func runDir(ctx context.Context, dir string, recursive bool, glob string, concurrency int, flags dctx.Flags) error {
	results, err := engine.ProcessDir(ctx, engine.DirOptions{
		Dir:         dir,
		Recursive:   recursive,
		GlobSuffix:  glob,
		Concurrency: concurrency,
		Flags:       flags,
		FS:          afs.New(),
	})
	if err != nil {
		return fmt.Errorf("processing directory %s: %w", dir, err)
	}
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "ERROR: %s: %v\n", r.Path, r.Err)
			continue
		}
		fmt.Printf("OK: %s (%d iteration(s))\n", r.Path, r.Result.Iterations)
		if r.Result.Report != nil && r.Result.Report.Suspicious() {
			fmt.Printf("  suspicious: %d obfuscator hit(s), %d exotic encoding(s)\n",
				len(r.Result.Report.ObfuscatorHits), len(r.Result.Report.ExoticEncodings))
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d file(s) failed", failed, len(results))
	}
	return nil
}
