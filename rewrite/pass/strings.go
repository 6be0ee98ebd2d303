package pass

import (
	"strconv"
	"strings"

	"github.com/viant/deobfjs/ast"
	"github.com/viant/deobfjs/dctx"
)

// StringEscapeDecode normalises a string literal's Raw slot to a minimally
// escaped rendering of its already-decoded Value (§4.6): obfuscators
// routinely emit every character of a string as a \xNN or \uNNNN escape
// specifically to defeat signature scanners looking for readable
// substrings, even though the decoded value itself is plain text. Only
// Raw changes here — Value was already decoded by the parser hook, so no
// semantic content is altered, just how the generator will print it.
// A literal without any \x or \u escape (one with only octal escapes, for
// instance) is left untouched; one with any such escape has its whole Raw
// re-rendered from Value.
func StringEscapeDecode(n *ast.Node, c *dctx.Context, chain ast.Chain) bool {
	if n.Kind != ast.StringLiteral {
		return false
	}
	val, ok := n.Scalar(ast.SlotValueSlot).(string)
	if !ok {
		return false
	}
	raw, _ := n.Scalar(ast.SlotRaw).(string)
	if !looksObfuscatedEscape(raw) {
		return false
	}
	newRaw := minimalEscape(val)
	if newRaw == raw {
		return false
	}
	n.SetScalar(ast.SlotRaw, newRaw)
	return true
}

// looksObfuscatedEscape reports whether raw contains any \x or \u escape,
// whatever character it encodes — taken as the signal that this string may
// have been escaped to hide its content.
func looksObfuscatedEscape(raw string) bool {
	for i := 0; i < len(raw)-1; i++ {
		if raw[i] != '\\' {
			continue
		}
		switch raw[i+1] {
		case 'x', 'u':
			return true
		}
	}
	return false
}

// minimalEscape renders val as a double-quoted JS string literal escaping
// only the characters that must be escaped: the quote character itself,
// backslash, and actual control characters.
func minimalEscape(val string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range val {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 {
				b.WriteString(`\x`)
				if r < 0x10 {
					b.WriteByte('0')
				}
				b.WriteString(strconv.FormatInt(int64(r), 16))
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}
