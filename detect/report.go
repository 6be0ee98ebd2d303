package detect

import (
	"github.com/viant/deobfjs/ast"
	"github.com/viant/deobfjs/symtab"
)

// Report is the combined detector output for one source file: every
// obfuscator-pattern finding plus every exotic-encoder signature finding.
// engine.Process returns it as Result.Report when EmitMalwareReport is
// set; it does not write it to a file.
type Report struct {
	Source          string    `json:"source"`
	ObfuscatorHits  []Finding `json:"obfuscatorHits,omitempty"`
	ExoticEncodings []Finding `json:"exoticEncodings,omitempty"`
}

// Suspicious reports whether r contains anything worth flagging.
func (r Report) Suspicious() bool {
	return len(r.ObfuscatorHits) > 0 || len(r.ExoticEncodings) > 0
}

// Analyze runs both detector families over a single file's tree and raw
// source text and assembles the combined Report.
func Analyze(name string, tree *ast.Node, root *symtab.Scope, source []byte) Report {
	return Report{
		Source:          name,
		ObfuscatorHits:  ObfuscatorPatterns(tree, root),
		ExoticEncodings: ExoticEncoders(source),
	}
}
