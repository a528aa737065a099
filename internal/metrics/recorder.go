// Package metrics defines the observability hooks for the render pipeline and
// content loading, with a Prometheus implementation and a no-op default.
package metrics

import "time"

// Recorder defines observability hooks for rendering and content refresh.
// Implementations must tolerate nil/zero receivers so injection stays optional.
type Recorder interface {
	ObserveRenderDuration(d time.Duration)
	IncRenders()
	IncSanitizerRemovals(vector string, n int)
	IncContentReload(result string)
	SetInsightCount(n int)
}

// Sanitizer removal vector labels.
const (
	VectorScriptBlock   = "script_block"
	VectorEventHandler  = "event_handler"
	VectorURIRewrite    = "uri_rewrite"
	VectorEmbedTag      = "embed_tag"
	VectorDisallowedTag = "disallowed_tag"
)

// Content reload result labels.
const (
	ReloadOK     = "ok"
	ReloadFailed = "failed"
)

// NoopRecorder is a Recorder that does nothing (default when metrics are not
// configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveRenderDuration(time.Duration)  {}
func (NoopRecorder) IncRenders()                          {}
func (NoopRecorder) IncSanitizerRemovals(string, int)     {}
func (NoopRecorder) IncContentReload(string)              {}
func (NoopRecorder) SetInsightCount(int)                  {}
