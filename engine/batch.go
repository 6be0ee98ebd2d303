package engine

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/mod/modfile"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"
	"github.com/viant/deobfjs/dctx"
)

// DirOptions configures a ProcessDir batch run: a minimal surface
// sufficient to exercise unpack's afs dependency across many files
// concurrently, deliberately without progress indicators or HTML
// reporting richness.
type DirOptions struct {
	Dir         string
	Recursive   bool
	GlobSuffix  string   // e.g. ".js"; empty means "every file"
	Exclude     []string // substrings; any match skips the file
	MaxFiles    int      // 0 means unbounded
	Concurrency int      // 0 defaults to 4
	Flags       dctx.Flags
	FS          afs.Service
}

// FileResult pairs one processed file's path with its outcome (or error).
// Module is the enclosing Go module's path when the batch's Dir sits
// inside a Go repository (vendored/embedded JS assets, a web server's
// static bundle, …) — empty when no ancestor go.mod was found.
type FileResult struct {
	Path   string
	Module string
	Result *Result
	Err    error
}

// ProcessDir walks Dir (respecting Recursive/GlobSuffix/Exclude/MaxFiles)
// and runs Process over every matching file concurrently, each with its
// own dctx.Context, matching §5's "parallel across files, per-file
// context" concurrency model. The only shared state is the output
// directory, which is conflict-free since unpack writes to a per-source
// subdirectory.
func ProcessDir(ctx context.Context, opts DirOptions) ([]FileResult, error) {
	fs := opts.FS
	if fs == nil {
		fs = afs.New()
	}
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}

	paths, err := collectFiles(ctx, fs, opts)
	if err != nil {
		return nil, fmt.Errorf("engine: collecting files under %s: %w", opts.Dir, err)
	}

	module, _ := detectGoModule(opts.Dir)

	results := make([]FileResult, len(paths))
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup
	for i, p := range paths {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, p string) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = processOne(ctx, fs, p, opts.Flags)
			results[i].Module = module
		}(i, p)
	}
	wg.Wait()
	return results, nil
}

// detectGoModule walks upward from dir (the same ancestor-walk shape
// config.Find uses for .deobfjs.json) looking for a go.mod, and parses it
// with modfile for its module path. Batch mode is the one place a bare
// source-file path might actually sit inside a Go repository's static
// asset tree, so the module path is recorded on each FileResult; unpack
// output directories do not use it. Single-file Process never needs this.
func detectGoModule(dir string) (string, bool) {
	cur := dir
	for {
		candidate := filepath.Join(cur, "go.mod")
		if content, err := os.ReadFile(candidate); err == nil {
			if mod, err := modfile.Parse(candidate, content, nil); err == nil && mod.Module != nil {
				return mod.Module.Mod.Path, true
			}
			return "", false
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return "", false
		}
		cur = parent
	}
}

func processOne(ctx context.Context, fs afs.Service, sourcePath string, flags dctx.Flags) FileResult {
	source, err := fs.DownloadWithURL(ctx, sourcePath)
	if err != nil {
		return FileResult{Path: sourcePath, Err: fmt.Errorf("reading %s: %w", sourcePath, err)}
	}
	result, err := Process(ctx, ProcessOptions{
		SourcePath: sourcePath,
		Source:     source,
		Flags:      flags,
		FS:         fs,
	})
	return FileResult{Path: sourcePath, Result: result, Err: err}
}

// collectFiles walks opts.Dir via fs.Walk (the same afs.Service.Walk
// analyzer/package.go uses to enumerate a package's files) and returns
// every path passing the recursion/glob/exclusion/cap filters.
func collectFiles(ctx context.Context, fs afs.Service, opts DirOptions) ([]string, error) {
	var paths []string
	var visitor storage.OnVisit = func(ctx context.Context, baseURL, parent string, info os.FileInfo, reader io.Reader) (bool, error) {
		if info.IsDir() {
			if !opts.Recursive && parent != "" {
				return false, nil
			}
			return true, nil
		}
		if opts.MaxFiles > 0 && len(paths) >= opts.MaxFiles {
			return true, nil
		}
		if opts.GlobSuffix != "" && !strings.HasSuffix(info.Name(), opts.GlobSuffix) {
			return true, nil
		}
		full := url.Join(baseURL, parent, info.Name())
		for _, excl := range opts.Exclude {
			if strings.Contains(full, excl) {
				return true, nil
			}
		}
		paths = append(paths, full)
		return true, nil
	}
	if err := fs.Walk(ctx, opts.Dir, visitor); err != nil {
		return nil, err
	}
	return paths, nil
}
