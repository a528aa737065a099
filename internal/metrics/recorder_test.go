package metrics

import (
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestNoopRecorder_AllMethodsSafe(t *testing.T) {
	var r Recorder = NoopRecorder{}
	require.NotPanics(t, func() {
		r.ObserveRenderDuration(time.Millisecond)
		r.IncRenders()
		r.IncSanitizerRemovals(VectorScriptBlock, 3)
		r.IncContentReload(ReloadOK)
		r.SetInsightCount(7)
	})
}

func TestPrometheusRecorder_RegistersAndRecords(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)

	pr.IncRenders()
	pr.ObserveRenderDuration(5 * time.Millisecond)
	pr.IncSanitizerRemovals(VectorEventHandler, 2)
	pr.IncSanitizerRemovals(VectorEventHandler, 0) // no-op
	pr.IncContentReload(ReloadFailed)
	pr.SetInsightCount(4)

	families, err := reg.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	require.True(t, names["esgboard_renders_total"])
	require.True(t, names["esgboard_render_duration_seconds"])
	require.True(t, names["esgboard_sanitizer_removals_total"])
	require.True(t, names["esgboard_content_reloads_total"])
	require.True(t, names["esgboard_insights"])
}

func TestPrometheusRecorder_NilReceiverSafe(t *testing.T) {
	var pr *PrometheusRecorder
	require.NotPanics(t, func() {
		pr.IncRenders()
		pr.ObserveRenderDuration(time.Second)
		pr.IncSanitizerRemovals(VectorURIRewrite, 1)
		pr.IncContentReload(ReloadOK)
		pr.SetInsightCount(0)
	})
}
