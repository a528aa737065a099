package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/esgboard/internal/config"
	"git.home.luguber.info/inful/esgboard/internal/esg"
	"git.home.luguber.info/inful/esgboard/internal/insight"
	"git.home.luguber.info/inful/esgboard/internal/metrics"
	"git.home.luguber.info/inful/esgboard/internal/render"
	"git.home.luguber.info/inful/esgboard/internal/store"
)

var testTime = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T) (*Server, *store.Store) {
	t.Helper()
	st, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	cfg := config.Default()
	ds := esg.Mock(cfg.Dashboard.Seed, testTime)
	srv := New(cfg, Options{
		Insights: st,
		Dataset:  func() *esg.Dataset { return ds },
	})
	return srv, st
}

func doRequest(t *testing.T, srv *Server, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	var resp struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   string          `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success, "error: %s", resp.Error)
	require.NoError(t, json.Unmarshal(resp.Data, out))
}

func TestHealth_OK(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doRequest(t, srv, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "healthy")
}

func TestDashboard_SummaryAndTitle(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doRequest(t, srv, http.MethodGet, "/api/v1/dashboard", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var data struct {
		Title   string      `json:"title"`
		Summary esg.Summary `json:"summary"`
	}
	decodeData(t, rec, &data)
	require.Equal(t, "ESG Monitoring Dashboard", data.Title)
	require.Greater(t, data.Summary.TotalEmissions, 0.0)
}

func TestMetricsEndpoints_ReturnDatasetSlices(t *testing.T) {
	srv, _ := newTestServer(t)

	var carbon []esg.CarbonPoint
	decodeData(t, doRequest(t, srv, http.MethodGet, "/api/v1/metrics/carbon", nil), &carbon)
	require.Len(t, carbon, 12)

	var suppliers []esg.SupplierRisk
	decodeData(t, doRequest(t, srv, http.MethodGet, "/api/v1/metrics/suppliers", nil), &suppliers)
	require.NotEmpty(t, suppliers)

	var compliance []esg.ComplianceDeadline
	decodeData(t, doRequest(t, srv, http.MethodGet, "/api/v1/metrics/compliance", nil), &compliance)
	require.NotEmpty(t, compliance)
}

func TestListInsights_PublishedOnlyByDefault(t *testing.T) {
	srv, st := newTestServer(t)
	ctx := context.Background()

	require.NoError(t, st.UpsertInsight(ctx, insight.Insight{
		ID: "a", Title: "Live", Published: true, SourcePath: "a.md",
		HTML: "<p>x</p>", UpdatedAt: testTime,
	}))
	require.NoError(t, st.UpsertInsight(ctx, insight.Insight{
		ID: "b", Title: "Draft", Published: false, SourcePath: "b.md",
		HTML: "<p>y</p>", UpdatedAt: testTime,
	}))

	var visible []insight.Insight
	decodeData(t, doRequest(t, srv, http.MethodGet, "/api/v1/insights", nil), &visible)
	require.Len(t, visible, 1)
	require.Equal(t, "a", visible[0].ID)

	var all []insight.Insight
	decodeData(t, doRequest(t, srv, http.MethodGet, "/api/v1/insights?drafts=true", nil), &all)
	require.Len(t, all, 2)
}

func TestGetInsight_FoundAndMissing(t *testing.T) {
	srv, st := newTestServer(t)
	require.NoError(t, st.UpsertInsight(context.Background(), insight.Insight{
		ID: "a", Title: "Live", Published: true, SourcePath: "a.md",
		HTML: "<p>x</p>", UpdatedAt: testTime,
	}))

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/insights/a", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, srv, http.MethodGet, "/api/v1/insights/missing", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), "not found")
}

func TestRender_SanitizesMarkdown(t *testing.T) {
	srv, _ := newTestServer(t)
	body, _ := json.Marshal(RenderRequest{Markdown: "# Title\n\n**bold** <script>alert(1)</script>"})

	rec := doRequest(t, srv, http.MethodPost, "/api/v1/render", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var data RenderResponse
	decodeData(t, rec, &data)
	require.Contains(t, data.HTML, "<h1>Title</h1>")
	require.Contains(t, data.HTML, "<strong>bold</strong>")
	require.NotContains(t, strings.ToLower(data.HTML), "<script")
}

func TestRender_InvalidJSON_BadRequest(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doRequest(t, srv, http.MethodPost, "/api/v1/render", []byte("{nope"))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRender_OversizedBody_Rejected(t *testing.T) {
	srv, _ := newTestServer(t)
	big, _ := json.Marshal(RenderRequest{Markdown: strings.Repeat("a", maxRenderBytes+10)})
	rec := doRequest(t, srv, http.MethodPost, "/api/v1/render", big)
	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestPrometheusEndpoint_ExposedWhenRegistryGiven(t *testing.T) {
	st, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	reg := prom.NewRegistry()
	rec := metrics.NewPrometheusRecorder(reg)
	cfg := config.Default()
	ds := esg.Mock(1, testTime)
	srv := New(cfg, Options{
		Renderer: render.New(rec),
		Insights: st,
		Dataset:  func() *esg.Dataset { return ds },
		Registry: reg,
	})

	body, _ := json.Marshal(RenderRequest{Markdown: "**x**"})
	doRequest(t, srv, http.MethodPost, "/api/v1/render", body)

	resp := doRequest(t, srv, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), "esgboard_renders_total")
}
