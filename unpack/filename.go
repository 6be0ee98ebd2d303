package unpack

import (
	"fmt"
	"regexp"

	"github.com/viant/deobfjs/ast"
	"github.com/viant/deobfjs/symtab"
)

// tagPattern is one keyword-to-tag rule in the ordered list §4.7 step 2
// describes. Patterns are checked in order; the first benign match sets
// the tag unless a later (or earlier) malware-suspicious pattern also
// matches, in which case the suspicious tag always wins regardless of
// order.
type tagPattern struct {
	tag        string
	pattern    *regexp.Regexp
	suspicious bool
}

var tagPatterns = []tagPattern{
	{"SUSPICIOUS_executor", regexp.MustCompile(`\beval\s*\(|new\s+Function\s*\(`), true},
	{"SUSPICIOUS_decoder", regexp.MustCompile(`atob\s*\(|fromCharCode|unescape\s*\(`), true},
	{"SUSPICIOUS_exfil", regexp.MustCompile(`XMLHttpRequest|navigator\.sendBeacon|fetch\s*\(\s*["'\x60]https?://`), true},
	{"SUSPICIOUS_dom_inject", regexp.MustCompile(`document\.write\s*\(|innerHTML\s*=|createElement\s*\(\s*["'\x60]script`), true},
	{"api_client", regexp.MustCompile(`\baxios\b|\bfetch\s*\(|XMLHttpRequest|\.get\s*\(|\.post\s*\(`), false},
	{"auth", regexp.MustCompile(`\btoken\b|\bpassword\b|\bjwt\b|\boauth\b`), false},
	{"router", regexp.MustCompile(`\brouter\b|\broute\b|pushState|history\.`), false},
	{"ui", regexp.MustCompile(`\brender\b|\bcomponent\b|\bvirtualdom\b|createElement`), false},
	{"store", regexp.MustCompile(`\breducer\b|\bdispatch\b|\bstore\b|\bstate\b`), false},
	{"utils", regexp.MustCompile(`\bdebounce\b|\bthrottle\b|\bclone\b|\bmerge\b`), false},
	{"validation", regexp.MustCompile(`\bvalidate\b|\bschema\b|\brequired\b`), false},
	{"crypto", regexp.MustCompile(`\bencrypt\b|\bdecrypt\b|\bhash\b|\bhmac\b|\baes\b`), false},
	{"socket", regexp.MustCompile(`\bwebsocket\b|\bsocket\.io\b|\bws:\/\/`), false},
	{"logger", regexp.MustCompile(`\bconsole\.(log|warn|error)\b|\blogger\b`), false},
	{"config", regexp.MustCompile(`\bconfig\b|\bsettings\b|\benv\b`), false},
	{"parser", regexp.MustCompile(`\bparse\b|\btokenize\b|\bast\b`), false},
	{"formatter", regexp.MustCompile(`\bformat\b|\bstringify\b`), false},
	{"error_handler", regexp.MustCompile(`\bcatch\b|\btry\b|\berror\b`), false},
}

// classified is the filename-generation result for one module.
type classified struct {
	Tag        string
	Confidence symtab.Confidence
	Suspicious bool
	Reason     string
}

// classify scans a module body's source text against the ordered tag
// patterns, returning the first suspicious match outright, else the
// first benign match in list order, else an export-name fallback.
func classify(fn *ast.Node, rawSource string) classified {
	var suspiciousHit *tagPattern
	var benignHit *tagPattern
	for i := range tagPatterns {
		p := &tagPatterns[i]
		if !p.pattern.MatchString(rawSource) {
			continue
		}
		if p.suspicious {
			if suspiciousHit == nil {
				suspiciousHit = p
			}
			continue
		}
		if benignHit == nil {
			benignHit = p
		}
	}
	if suspiciousHit != nil {
		return classified{Tag: suspiciousHit.tag, Confidence: symtab.High, Suspicious: true, Reason: "matched malware-suspicious pattern"}
	}
	if benignHit != nil {
		return classified{Tag: benignHit.tag, Confidence: symtab.Medium, Reason: "matched keyword pattern"}
	}
	if name, ok := firstExportName(fn); ok {
		return classified{Tag: name, Confidence: symtab.Low, Reason: "fell back to first export name"}
	}
	return classified{Tag: "", Confidence: symtab.Low, Reason: "no pattern matched"}
}

// firstExportName looks for `exports.X = ...` / `module.exports.X = ...`
// assignments inside fn's body and returns the first property name.
func firstExportName(fn *ast.Node) (string, bool) {
	body := fn.Child(ast.SlotBody)
	if body == nil {
		return "", false
	}
	var found string
	ast.TopDown(body, ast.Root(), func(n *ast.Node, _ ast.Chain) bool {
		if found != "" || n.Kind != ast.AssignmentExpression {
			return false
		}
		left := n.Child(ast.SlotLeft)
		if left == nil || left.Kind != ast.MemberExpression {
			return false
		}
		obj := left.Child(ast.SlotObject)
		objName := ""
		if obj != nil && obj.Kind == ast.Identifier {
			objName, _ = obj.Scalar(ast.SlotName).(string)
		} else if obj != nil && obj.Kind == ast.MemberExpression {
			if innerProp := obj.Child(ast.SlotProperty); innerProp != nil {
				objName, _ = innerProp.Scalar(ast.SlotName).(string)
			}
		}
		if objName != "exports" && objName != "module" {
			return false
		}
		prop := left.Child(ast.SlotProperty)
		if prop == nil {
			return false
		}
		name, _ := prop.Scalar(ast.SlotName).(string)
		if name != "" {
			found = name
		}
		return false
	})
	if found == "" {
		return "", false
	}
	return found, true
}

// disambiguate makes candidate names that repeat across modules unique
// by suffixing `_1`, `_2`, ... on the second and later occurrence. An
// empty name becomes `module_<i>`, i being the module's position in names.
func disambiguate(names []string) []string {
	seen := map[string]int{}
	out := make([]string, len(names))
	for i, n := range names {
		if n == "" {
			n = fmt.Sprintf("module_%d", i)
		}
		count := seen[n]
		seen[n] = count + 1
		if count == 0 {
			out[i] = n
		} else {
			out[i] = fmt.Sprintf("%s_%d", n, count)
		}
	}
	return out
}
