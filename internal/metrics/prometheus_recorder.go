package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once              sync.Once
	renderDuration    prom.Histogram
	renders           prom.Counter
	sanitizerRemovals *prom.CounterVec
	contentReloads    *prom.CounterVec
	insightCount      prom.Gauge
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.renderDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "esgboard",
			Name:      "render_duration_seconds",
			Help:      "Duration of markdown parse plus sanitize",
			Buckets:   prom.DefBuckets,
		})
		pr.renders = prom.NewCounter(prom.CounterOpts{
			Namespace: "esgboard",
			Name:      "renders_total",
			Help:      "Total render pipeline invocations",
		})
		pr.sanitizerRemovals = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "esgboard",
			Name:      "sanitizer_removals_total",
			Help:      "Constructs removed or rewritten by the sanitizer, by vector",
		}, []string{"vector"})
		pr.contentReloads = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "esgboard",
			Name:      "content_reloads_total",
			Help:      "Insight content reloads by result",
		}, []string{"result"})
		pr.insightCount = prom.NewGauge(prom.GaugeOpts{
			Namespace: "esgboard",
			Name:      "insights",
			Help:      "Number of insights currently loaded",
		})
		reg.MustRegister(pr.renderDuration, pr.renders, pr.sanitizerRemovals, pr.contentReloads, pr.insightCount)
	})
	return pr
}

func (p *PrometheusRecorder) ObserveRenderDuration(d time.Duration) {
	if p == nil || p.renderDuration == nil {
		return
	}
	p.renderDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncRenders() {
	if p == nil || p.renders == nil {
		return
	}
	p.renders.Inc()
}

func (p *PrometheusRecorder) IncSanitizerRemovals(vector string, n int) {
	if p == nil || p.sanitizerRemovals == nil || n <= 0 {
		return
	}
	p.sanitizerRemovals.WithLabelValues(vector).Add(float64(n))
}

func (p *PrometheusRecorder) IncContentReload(result string) {
	if p == nil || p.contentReloads == nil {
		return
	}
	p.contentReloads.WithLabelValues(result).Inc()
}

func (p *PrometheusRecorder) SetInsightCount(n int) {
	if p == nil || p.insightCount == nil {
		return
	}
	p.insightCount.Set(float64(n))
}
