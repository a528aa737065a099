// Package sanitize filters untrusted HTML so it is safe to inject into a
// rendering surface. It accepts any string claiming to be HTML, whether it
// came from the markdown converter or from an external source.
//
// Sanitize is total and deterministic: it never fails, and anything it cannot
// confidently classify as safe is stripped rather than passed through.
package sanitize

import (
	"regexp"
	"strings"
)

// AllowedTags is the fixed set of tag names permitted to remain in sanitized
// output. It never changes at runtime.
var AllowedTags = map[string]bool{
	"h1": true, "h2": true, "h3": true,
	"p": true, "strong": true, "em": true, "code": true,
	"a": true, "ul": true, "li": true, "br": true, "span": true,
}

var (
	scriptBlockRe = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script\s*>`)

	eventAttrQuotedRe = regexp.MustCompile(`(?i)\s+on\w+\s*=\s*"[^"]*"`)
	eventAttrSingleRe = regexp.MustCompile(`(?i)\s+on\w+\s*=\s*'[^']*'`)
	eventAttrBareRe   = regexp.MustCompile(`(?i)\s+on\w+\s*=\s*[^\s>"']+`)

	// Each value form is matched against its own closing delimiter: a
	// double-quoted value runs to the next double quote, a single-quoted
	// value to the next single quote, and a bare value to whitespace or the
	// tag end. Mixing quote characters inside the value cannot cut a match
	// short, and unquoted attributes are caught too.
	jsHrefRe   = regexp.MustCompile(`(?i)href\s*=\s*("\s*javascript:[^"]*"|'\s*javascript:[^']*'|javascript:[^\s>]*)`)
	dataHrefRe = regexp.MustCompile(`(?i)href\s*=\s*("\s*data:[^"]*"|'\s*data:[^']*'|data:[^\s>]*)`)
	dataSrcRe  = regexp.MustCompile(`(?i)src\s*=\s*("\s*data:[^"]*"|'\s*data:[^']*'|data:[^\s>]*)`)

	embedTagRe = regexp.MustCompile(`(?i)<(?:iframe|object|embed)\b[^>]*>`)

	// Any tag-shaped token, open or close. The allow-list pass only ever
	// removes the tag markers themselves, never a tag's body.
	tagTokenRe = regexp.MustCompile(`(?i)</?([a-zA-Z][a-zA-Z0-9]*)(?:\s[^<>]*)?/?>`)
)

// Report counts what one Sanitize call removed or rewrote, by vector.
type Report struct {
	ScriptBlocks   int
	EventHandlers  int
	URIRewrites    int
	EmbedTags      int
	DisallowedTags int
}

// Total returns the number of removals and rewrites across all vectors.
func (r Report) Total() int {
	return r.ScriptBlocks + r.EventHandlers + r.URIRewrites + r.EmbedTags + r.DisallowedTags
}

func (r *Report) add(o Report) {
	r.ScriptBlocks += o.ScriptBlocks
	r.EventHandlers += o.EventHandlers
	r.URIRewrites += o.URIRewrites
	r.EmbedTags += o.EmbedTags
	r.DisallowedTags += o.DisallowedTags
}

// Sanitize filters s and returns HTML containing no executable script vector:
// no <script> blocks, no on* event attributes, no javascript: or data: URIs
// in href/src, no iframe/object/embed tags, and no tag outside AllowedTags.
// Disallowed tags are unwrapped: the markers are deleted, the inner text kept.
func Sanitize(s string) string {
	out, _ := SanitizeWithReport(s)
	return out
}

// SanitizeWithReport is Sanitize plus a count of removals per vector.
//
// The pass chain runs until the output stops changing. A single pass is not
// enough: removing one tag marker can splice surrounding text into a new
// tag-shaped token (`<<em>script>` becomes `<script>` once the <em> marker is
// gone). Every rewrite strictly shortens the string, so the loop terminates,
// and the fixpoint makes Sanitize idempotent.
func SanitizeWithReport(s string) (string, Report) {
	var report Report
	out := s
	for {
		next, rep := sanitizeOnce(out)
		report.add(rep)
		if next == out {
			return out, report
		}
		out = next
	}
}

func sanitizeOnce(s string) (string, Report) {
	var rep Report

	s, rep.ScriptBlocks = replaceCount(scriptBlockRe, s, "")

	var n int
	s, n = replaceCount(eventAttrQuotedRe, s, "")
	rep.EventHandlers += n
	s, n = replaceCount(eventAttrSingleRe, s, "")
	rep.EventHandlers += n
	s, n = replaceCount(eventAttrBareRe, s, "")
	rep.EventHandlers += n

	s, n = replaceCount(jsHrefRe, s, `href="#"`)
	rep.URIRewrites += n
	s, n = replaceCount(dataHrefRe, s, `href="#"`)
	rep.URIRewrites += n
	s, n = replaceCount(dataSrcRe, s, `src=""`)
	rep.URIRewrites += n

	s, rep.EmbedTags = replaceCount(embedTagRe, s, "")

	s = tagTokenRe.ReplaceAllStringFunc(s, func(tag string) string {
		name := strings.ToLower(tagTokenRe.FindStringSubmatch(tag)[1])
		if AllowedTags[name] {
			return tag
		}
		rep.DisallowedTags++
		return ""
	})

	return s, rep
}

func replaceCount(re *regexp.Regexp, s, repl string) (string, int) {
	n := len(re.FindAllStringIndex(s, -1))
	if n == 0 {
		return s, 0
	}
	return re.ReplaceAllString(s, repl), n
}
