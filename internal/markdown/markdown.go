// Package markdown converts the restricted markdown subset used by dashboard
// content (bold, italic, inline code, headers 1-3, links, unordered lists,
// paragraphs) into HTML.
//
// The converter is a fixed, ordered chain of string rewrite passes. The order
// matters: later passes operate on the output of earlier ones (bold must
// consume `**` pairs before the italic pass sees the text, headers and lists
// must produce block tags before the paragraph pass decides what to wrap).
//
// Parse is total: it never fails, and input that is not valid markdown passes
// through as literal text. The output is NOT safe to render; it must go
// through the sanitize package first (see the render package).
package markdown

import (
	"regexp"
	"strings"
)

// ParagraphClass is the CSS class stamped on every generated paragraph tag.
const ParagraphClass = "mb-2"

var (
	boldRe = regexp.MustCompile(`\*\*(.*?)\*\*`)
	// Go's regexp has no lookaround; requiring at least one non-asterisk
	// character between single asterisks gives the same contract as the
	// usual (?!\*) pattern: a `**` pair left over after the bold pass is
	// never reinterpreted as italic, and a stray lone `*` stays literal.
	italicRe   = regexp.MustCompile(`\*([^*\n]+)\*`)
	codeRe     = regexp.MustCompile("`([^`\n]*)`")
	h3Re       = regexp.MustCompile(`(?m)^### (.*)$`)
	h2Re       = regexp.MustCompile(`(?m)^## (.*)$`)
	h1Re       = regexp.MustCompile(`(?m)^# (.*)$`)
	linkRe     = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	listItemRe = regexp.MustCompile(`(?m)^- (.*)$`)
	// A run of <li> lines separated by single newlines. Runs separated by
	// anything else get their own <ul>.
	listRunRe = regexp.MustCompile(`<li>[^\n]*</li>(?:\n<li>[^\n]*</li>)*`)
)

// Pass is one named string rewrite stage of the converter.
type Pass struct {
	Name  string
	Apply func(string) string
}

// Passes returns the converter stages in application order. Exposed so the
// pipeline can be inspected and tested stage by stage.
func Passes() []Pass {
	return []Pass{
		{"bold", applyBold},
		{"italic", applyItalic},
		{"code", applyCode},
		{"headers", applyHeaders},
		{"links", applyLinks},
		{"lists", applyLists},
		{"paragraphs", applyParagraphs},
		{"wrap", wrapParagraph},
	}
}

// Parse converts raw markdown to HTML by running every pass in order.
func Parse(raw string) string {
	out := raw
	for _, p := range Passes() {
		out = p.Apply(out)
	}
	return out
}

func applyBold(s string) string {
	return boldRe.ReplaceAllString(s, "<strong>$1</strong>")
}

func applyItalic(s string) string {
	return italicRe.ReplaceAllString(s, "<em>$1</em>")
}

func applyCode(s string) string {
	return codeRe.ReplaceAllString(s, "<code>$1</code>")
}

// applyHeaders rewrites heading lines, longest prefix first so `###` is never
// consumed as `#` plus literal hashes.
func applyHeaders(s string) string {
	s = h3Re.ReplaceAllString(s, "<h3>$1</h3>")
	s = h2Re.ReplaceAllString(s, "<h2>$1</h2>")
	return h1Re.ReplaceAllString(s, "<h1>$1</h1>")
}

func applyLinks(s string) string {
	return linkRe.ReplaceAllString(s, `<a href="$2" target="_blank" rel="noopener noreferrer">$1</a>`)
}

// applyLists rewrites `- item` lines to <li> elements and wraps each
// consecutive run in a single <ul>. Newlines inside a run are consumed here
// so the paragraph pass does not turn them into <br>.
func applyLists(s string) string {
	s = listItemRe.ReplaceAllString(s, "<li>$1</li>")
	return listRunRe.ReplaceAllStringFunc(s, func(run string) string {
		return "<ul>" + strings.ReplaceAll(run, "\n", "") + "</ul>"
	})
}

func applyParagraphs(s string) string {
	s = strings.ReplaceAll(s, "\n\n", `</p><p class="`+ParagraphClass+`">`)
	return strings.ReplaceAll(s, "\n", "<br>")
}

// wrapParagraph wraps the whole result in one paragraph unless it already
// starts with a heading, list, or paragraph tag.
func wrapParagraph(s string) string {
	if strings.HasPrefix(s, "<h") || strings.HasPrefix(s, "<ul") || strings.HasPrefix(s, "<p") {
		return s
	}
	return `<p class="` + ParagraphClass + `">` + s + "</p>"
}
