package engine

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/deobfjs/ast"
	"github.com/viant/deobfjs/dctx"
	"github.com/viant/deobfjs/hooks"
)

func TestProcessFoldsConstantsAndRemovesDeadBranch(t *testing.T) {
	source := []byte(`
function add(a, b) {
  return a + b;
}
var x = 1 + 2;
if (false) {
  add(99, 99);
}
add(x, 3);
`)
	result, err := Process(context.Background(), ProcessOptions{
		SourcePath: "sample.js",
		Source:     source,
		Flags:      dctx.DefaultFlags(),
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.False(t, result.NonConverged)
	assert.Contains(t, result.Code, "var x = 3")
	assert.NotContains(t, result.Code, "if (")
}

func TestProcessEmitsMalwareReportWhenRequested(t *testing.T) {
	flags := dctx.DefaultFlags()
	flags.EmitMalwareReport = true
	source := []byte(`var _0xabc = ["a","b","c","d","e","f","g","h","i","j","k"];`)

	result, err := Process(context.Background(), ProcessOptions{
		SourcePath: "array.js",
		Source:     source,
		Flags:      flags,
	})
	require.NoError(t, err)
	require.NotNil(t, result.Report)
}

func TestProcessSkipsMalwareReportByDefault(t *testing.T) {
	result, err := Process(context.Background(), ProcessOptions{
		SourcePath: "plain.js",
		Source:     []byte(`var x = 1;`),
		Flags:      dctx.DefaultFlags(),
	})
	require.NoError(t, err)
	assert.Nil(t, result.Report)
	assert.Nil(t, result.Unpack)
}

func TestProcessReturnsParseErrorWrapped(t *testing.T) {
	_, err := Process(context.Background(), ProcessOptions{
		SourcePath: "empty.js",
		Source:     nil,
		Parser:     errParser{},
		Flags:      dctx.DefaultFlags(),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "engine: parse: errParser: always fails")
}

type errParser struct{}

func (errParser) Parse(ctx context.Context, source []byte, opts hooks.ParseOptions) (*ast.Node, error) {
	return nil, fmt.Errorf("errParser: always fails")
}
