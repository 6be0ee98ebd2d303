package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/afs"
	"github.com/viant/deobfjs/dctx"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestProcessDirWalksRecursivelyAndAppliesGlobAndExclude(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.js"), "var a = 1 + 1;")
	writeFile(t, filepath.Join(dir, "b.txt"), "not javascript")
	writeFile(t, filepath.Join(dir, "vendor", "c.js"), "var c = 2 + 2;")
	writeFile(t, filepath.Join(dir, "nested", "d.js"), "var d = 3 + 3;")

	results, err := ProcessDir(context.Background(), DirOptions{
		Dir:        dir,
		Recursive:  true,
		GlobSuffix: ".js",
		Exclude:    []string{"vendor"},
		Flags:      dctx.DefaultFlags(),
		FS:         afs.New(),
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		require.NoError(t, r.Err)
		assert.NotContains(t, r.Path, "vendor")
	}
}

func TestProcessDirNonRecursiveSkipsSubdirectories(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "top.js"), "var x = 1;")
	writeFile(t, filepath.Join(dir, "nested", "deep.js"), "var y = 2;")

	results, err := ProcessDir(context.Background(), DirOptions{
		Dir:        dir,
		Recursive:  false,
		GlobSuffix: ".js",
		Flags:      dctx.DefaultFlags(),
		FS:         afs.New(),
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Contains(t, results[0].Path, "top.js")
}

func TestProcessDirRespectsMaxFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.js", "b.js", "c.js"} {
		writeFile(t, filepath.Join(dir, name), "var x = 1;")
	}

	results, err := ProcessDir(context.Background(), DirOptions{
		Dir:        dir,
		GlobSuffix: ".js",
		MaxFiles:   2,
		Flags:      dctx.DefaultFlags(),
		FS:         afs.New(),
	})
	require.NoError(t, err)
	assert.Len(t, results, 2)
}
