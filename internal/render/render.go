// Package render ties the markdown converter and the HTML sanitizer into the
// one pipeline the rest of the service calls. The two stages always run
// together in this order; nothing outside this package should hand parser
// output to a rendering surface directly.
package render

import (
	"time"

	"git.home.luguber.info/inful/esgboard/internal/markdown"
	"git.home.luguber.info/inful/esgboard/internal/metrics"
	"git.home.luguber.info/inful/esgboard/internal/sanitize"
)

// Renderer renders raw markdown to sanitized HTML, recording pipeline metrics.
type Renderer struct {
	rec metrics.Recorder
}

// New creates a Renderer. A nil recorder disables instrumentation.
func New(rec metrics.Recorder) *Renderer {
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	return &Renderer{rec: rec}
}

// Render converts raw markdown to HTML that is safe to inject as markup.
// It is total: any input yields some output, never an error.
func (r *Renderer) Render(raw string) string {
	start := time.Now()
	unsafe := markdown.Parse(raw)
	safe, rep := sanitize.SanitizeWithReport(unsafe)
	r.rec.ObserveRenderDuration(time.Since(start))
	r.rec.IncRenders()
	r.rec.IncSanitizerRemovals(metrics.VectorScriptBlock, rep.ScriptBlocks)
	r.rec.IncSanitizerRemovals(metrics.VectorEventHandler, rep.EventHandlers)
	r.rec.IncSanitizerRemovals(metrics.VectorURIRewrite, rep.URIRewrites)
	r.rec.IncSanitizerRemovals(metrics.VectorEmbedTag, rep.EmbedTags)
	r.rec.IncSanitizerRemovals(metrics.VectorDisallowedTag, rep.DisallowedTags)
	return safe
}

// Markdown renders raw markdown to safe HTML without instrumentation. It is
// the plain function equivalent of Renderer.Render for callers that have no
// recorder wired.
func Markdown(raw string) string {
	return sanitize.Sanitize(markdown.Parse(raw))
}
