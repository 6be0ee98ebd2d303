package engine

import (
	"github.com/viant/deobfjs/rewrite"
	"github.com/viant/deobfjs/rewrite/pass"
)

// These package-level bindings exist because rewrite (the kernel) and
// rewrite/pass (the expression/statement rewriters) deliberately do not
// import each other, to avoid a cycle once both are wired into one
// pipeline. A value of pass's unnamed func type assigns straight onto
// rewrite.Rewriter without a cast, so this file is the one place that
// names both packages together.
var (
	passConstantFold        rewrite.Rewriter = pass.ConstantFold
	passBooleanRecovery     rewrite.Rewriter = pass.BooleanRecovery
	passStringEscapeDecode  rewrite.Rewriter = pass.StringEscapeDecode
	passDeadCode            rewrite.Rewriter = pass.DeadCode
	passSequenceLift        rewrite.Rewriter = pass.SequenceLift
	passControlFlowNormalize rewrite.Rewriter = pass.ControlFlowNormalize
	passPropertySimplify    rewrite.Rewriter = pass.PropertySimplify
)

// newStringArrayInliner adapts pass.NewStringArrayInliner's two closures
// (which share unexported accessor state) into the rewrite.Rewriter pair
// BuildPipeline installs as two consecutive passes, detect first.
func newStringArrayInliner() (rewrite.Rewriter, rewrite.Rewriter) {
	detectFn, inlineFn := pass.NewStringArrayInliner()
	return detectFn, inlineFn
}
