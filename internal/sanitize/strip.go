package sanitize

import (
	"strings"

	"golang.org/x/net/html"
)

// StripTags reduces an HTML string to its plain text. Tag markers are
// dropped, entities are decoded by the tokenizer, script and style bodies are
// skipped entirely, and runs of whitespace collapse to single spaces. Used
// for insight excerpts and search text, not for safety decisions.
func StripTags(s string) string {
	tz := html.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	var skipUntil string
	for {
		switch tz.Next() {
		case html.ErrorToken:
			return strings.Join(strings.Fields(b.String()), " ")
		case html.StartTagToken:
			name, _ := tz.TagName()
			if n := string(name); n == "script" || n == "style" {
				skipUntil = n
			}
		case html.EndTagToken:
			name, _ := tz.TagName()
			if string(name) == skipUntil {
				skipUntil = ""
			}
		case html.TextToken:
			if skipUntil == "" {
				b.Write(tz.Text())
				b.WriteByte(' ')
			}
		}
	}
}
