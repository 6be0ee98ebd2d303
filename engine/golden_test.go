package engine

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"

	"github.com/viant/deobfjs/dctx"
)

// Golden fixtures are kept as single txtar archives (input.js/output.js
// file pairs per archive) rather than a directory of loose .js files, the
// same packaging cue-lang-cue's cuetxtar helper uses for its own
// input/golden-output test data.
var goldenArchives = []string{
	`
-- input.js --
var a = 2 + 3;
function noop() {}
-- output.js --
var a = 5;
`,
	`
-- input.js --
var greeting = "\x68\x65\x6c\x6c\x6f";
-- output.js --
var greeting = "hello";
`,
}

func TestProcessMatchesGoldenFixtures(t *testing.T) {
	for i, raw := range goldenArchives {
		arc := txtar.Parse([]byte(raw))
		input := fileFromArchive(t, arc, "input.js")
		expected := fileFromArchive(t, arc, "output.js")

		result, err := Process(context.Background(), ProcessOptions{
			SourcePath: "golden.js",
			Source:     input,
			Flags:      dctx.DefaultFlags(),
		})
		require.NoError(t, err, "archive %d", i)
		assert.Contains(t, result.Code, strings.TrimSpace(string(expected)), "archive %d", i)
	}
}

func fileFromArchive(t *testing.T, arc *txtar.Archive, name string) []byte {
	t.Helper()
	for _, f := range arc.Files {
		if f.Name == name {
			return f.Data
		}
	}
	t.Fatalf("archive missing file %q", name)
	return nil
}
