package detect

import (
	"context"
	"regexp"
	"strings"

	"github.com/viant/deobfjs/hooks"
	"github.com/viant/deobfjs/symtab"
)

// exoticSignature pairs a compiled textual signature with the encoder name
// it flags. Unlike the structural detectors in obfuscator.go, these
// operate over raw source text: JSFuck, AAEncode and JJEncode scramble the
// identifier/operator vocabulary itself, so there is no stable AST shape
// left to match against — the source text's character-class composition
// is the only signal that survives.
type exoticSignature struct {
	name    string
	pattern *regexp.Regexp
	conf    symtab.Confidence
}

var exoticSignatures = []exoticSignature{
	// JSFuck: the entire program is built from the six characters []()!+
	// (the comma is admitted too).
	{"jsfuck", regexp.MustCompile(`^[\[\]()!+,]+$`), symtab.High},
	// Packer (Dean Edwards eval/p,a,c,k,e,d): the telltale call shape.
	{"packer", regexp.MustCompile(`eval\(function\(p,a,c,k,e,(?:d|r)\)`), symtab.High},
	// AAEncode: signature variable names from the reference implementation.
	{"aaencode", regexp.MustCompile(`ﾟωﾟﾉ|ﾟДﾟ|ﾟ Θﾟ`), symtab.High},
	// JJEncode: everything bound off a single object literal named like this.
	{"jjencode", regexp.MustCompile(`\$\s*=\s*~\[\]\s*;|\$=\s*\{_\s*:`), symtab.Medium},
	// Deeply nested URL-encoding chains feeding decodeURIComponent.
	{"url-encode-chain", regexp.MustCompile(`decodeURIComponent\(\s*decodeURIComponent\(`), symtab.Medium},
}

// ExoticEncoders scans raw source text for the signature family §8
// describes. Detection is purely textual and does not require a
// successful parse, since several of these encodings are deliberately
// hostile to a generic JS grammar.
func ExoticEncoders(source []byte) []Finding {
	text := string(source)
	trimmed := strings.TrimSpace(text)
	var findings []Finding
	for _, sig := range exoticSignatures {
		if sig.name == "jsfuck" {
			// whole-program match only: this small alphabet is
			// common in small fragments of ordinary minified code, so
			// require it to dominate the entire trimmed source.
			if len(trimmed) > 0 && sig.pattern.MatchString(trimmed) {
				findings = append(findings, Finding{Name: sig.name, Confidence: sig.conf, Detail: "source consists solely of []()!+, characters"})
			}
			continue
		}
		if sig.pattern.MatchString(text) {
			findings = append(findings, Finding{Name: sig.name, Confidence: sig.conf, Detail: "matched signature " + sig.pattern.String()})
		}
	}
	return findings
}

// AttemptDecode hands a candidate exotic-encoded fragment to sbx under a
// bounded timeout and reports the recovered value. The core itself never
// evaluates untrusted source directly (§4.8) — this is the one path where
// that happens, and only via the caller-supplied sandbox, never inline.
func AttemptDecode(ctx context.Context, sbx hooks.Sandbox, source string, timeoutMS int) (hooks.SandboxResult, error) {
	return sbx.Eval(ctx, source, timeoutMS)
}
