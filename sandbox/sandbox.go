// Package sandbox ships the default hooks.Sandbox: a Disabled stub that
// always reports failure. True sandboxed evaluation (child process, VM,
// container) is an external concern (§1/§4.8); this package only keeps the
// contract satisfiable so engine.Process can run with no sandbox wired in.
package sandbox

import (
	"context"
	"fmt"

	"github.com/viant/deobfjs/hooks"
)

// Disabled implements hooks.Sandbox by refusing every evaluation request.
type Disabled struct{}

// New returns a ready-to-use Disabled sandbox.
func New() Disabled { return Disabled{} }

// Eval always fails: Disabled never actually runs untrusted source.
func (Disabled) Eval(ctx context.Context, source string, timeoutMS int) (hooks.SandboxResult, error) {
	return hooks.SandboxResult{}, fmt.Errorf("sandbox: evaluation disabled, no sandbox implementation wired in")
}
