package obs_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/warehouse-report/internal/obs"
)

func TestReportMetricsReuseRegistered(t *testing.T) {
	registry := prometheus.NewRegistry()
	first := obs.NewReportMetrics("report", registry)
	second := obs.NewReportMetrics("report", registry)

	first.BuildsTotal.WithLabelValues("abc", "ok").Inc()
	second.BuildsTotal.WithLabelValues("abc", "ok").Inc()
	require.Equal(t, float64(2), testutil.ToFloat64(first.BuildsTotal.WithLabelValues("abc", "ok")))

	second.OrdersLoaded.Set(7)
	require.Equal(t, float64(7), testutil.ToFloat64(first.OrdersLoaded))
}

func TestRequestLoggerUsesChiRoute(t *testing.T) {
	var buf bytes.Buffer
	logger := obs.NewLogger(&buf, "json", "debug")

	r := chi.NewRouter()
	r.Use(obs.RequestLogger{Logger: logger}.Middleware)
	r.Get("/api/v1/reports/{view}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/reports/abc?x=1", nil))
	require.Equal(t, http.StatusTeapot, rr.Code)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "http_request", entry["message"])
	require.Equal(t, "/api/v1/reports/{view}", entry["route"])
	require.Equal(t, "x=1", entry["query"])
	require.Equal(t, float64(http.StatusTeapot), entry["status"])
}

func TestNewLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := obs.NewLogger(&buf, "json", "warn")
	logger.Info().Msg("hidden")
	require.Zero(t, buf.Len())
	logger.Warn().Msg("shown")
	require.Contains(t, buf.String(), "shown")
}

func TestParseBucketsCSV(t *testing.T) {
	require.Equal(t, []float64{5, 12.5, 100}, obs.ParseBucketsCSV(" 5, 12.5,abc,-3,,100"))
	require.Empty(t, obs.ParseBucketsCSV(""))
}
