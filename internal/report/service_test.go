package report_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/warehouse-report/internal/abc"
	"github.com/noah-isme/warehouse-report/internal/obs"
	"github.com/noah-isme/warehouse-report/internal/orders"
	"github.com/noah-isme/warehouse-report/internal/report"
)

type stubSource struct {
	orders []orders.Order
	err    error
	calls  int
}

func (s *stubSource) Name() string { return "stub" }

func (s *stubSource) Load(context.Context) ([]orders.Order, error) {
	s.calls++
	return s.orders, s.err
}

func newRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestServiceCachesViews(t *testing.T) {
	src := &stubSource{orders: twoWarehouses()}
	metrics := obs.NewReportMetrics("report_test", prometheus.NewRegistry())
	svc := &report.Service{
		Source:  src,
		Cache:   report.NewCache(newRedis(t), time.Minute),
		Options: abc.DefaultOptions(),
		Metrics: metrics,
	}
	ctx := context.Background()

	first, err := svc.Classified(ctx)
	require.NoError(t, err)
	second, err := svc.Classified(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, src.calls, "second call must be served from redis")

	require.Len(t, second, len(first))
	for i := range first {
		require.Equal(t, first[i].WarehouseName, second[i].WarehouseName)
		require.Equal(t, first[i].Product, second[i].Product)
		require.Equal(t, first[i].Category, second[i].Category)
		require.True(t, first[i].Accumulated.Equal(second[i].Accumulated))
	}

	orderTable, err := svc.Orders(ctx)
	require.NoError(t, err)
	require.Len(t, orderTable.Rows, 2)
	require.Equal(t, 2, src.calls, "each view is cached independently")

	require.Equal(t, float64(1), testutil.ToFloat64(metrics.BuildsTotal.WithLabelValues("abc", "ok")))
	require.Equal(t, float64(1), testutil.ToFloat64(metrics.BuildsTotal.WithLabelValues("abc", "cache_hit")))
	require.Equal(t, float64(2), testutil.ToFloat64(metrics.ClassifiedRows.WithLabelValues("C")))
	require.Equal(t, float64(2), testutil.ToFloat64(metrics.OrdersLoaded))
}

func TestServiceWithoutCacheRecomputes(t *testing.T) {
	src := &stubSource{orders: twoWarehouses()}
	svc := &report.Service{Source: src, Options: abc.DefaultOptions()}
	for i := 0; i < 2; i++ {
		rows, err := svc.Tariffs(context.Background())
		require.NoError(t, err)
		require.Len(t, rows, 2)
	}
	require.Equal(t, 2, src.calls)
}

func TestServiceDoesNotCacheErrors(t *testing.T) {
	src := &stubSource{err: errors.New("disk gone")}
	svc := &report.Service{Source: src, Cache: report.NewCache(newRedis(t), time.Minute), Options: abc.DefaultOptions()}
	_, err := svc.Shares(context.Background())
	require.Error(t, err)

	src.err = nil
	src.orders = twoWarehouses()
	rows, err := svc.Shares(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 4)
}

func TestServiceNotConfigured(t *testing.T) {
	var svc *report.Service
	_, err := svc.Tariffs(context.Background())
	require.Error(t, err)
}

func serve(t *testing.T, svc *report.Service, path string) (*httptest.ResponseRecorder, map[string]json.RawMessage) {
	t.Helper()
	r := chi.NewRouter()
	r.Route("/api/v1/reports", (&report.Handler{Svc: svc}).Routes)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestHandlerViews(t *testing.T) {
	svc := &report.Service{Source: &stubSource{orders: twoWarehouses()}, Options: abc.DefaultOptions()}

	for _, path := range []string{"tariffs", "products", "orders", "shares", "abc"} {
		t.Run(path, func(t *testing.T) {
			rec, body := serve(t, svc, "/api/v1/reports/"+path)
			require.Equal(t, http.StatusOK, rec.Code)
			require.Contains(t, body, "data")
			require.Contains(t, body, "report_id")
		})
	}

	_, body := serve(t, svc, "/api/v1/reports/orders")
	var mean string
	require.NoError(t, json.Unmarshal(body["mean_order_profit"], &mean))
	// order 1 profit 50, order 2 profit 80
	require.Equal(t, "65", mean)

	_, body = serve(t, svc, "/api/v1/reports/abc")
	var summary map[string]map[string]int
	require.NoError(t, json.Unmarshal(body["summary"], &summary))
	require.Equal(t, 1, summary["W1"]["A"])
	require.Equal(t, 1, summary["W1"]["C"])
}

func TestHandlerErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		src    *stubSource
		path   string
		status int
		code   string
	}{
		{"invalid input", &stubSource{err: orders.ErrInvalidInput}, "/api/v1/reports/tariffs", http.StatusUnprocessableEntity, "INVALID_INPUT"},
		{"zero quantity", &stubSource{orders: []orders.Order{{OrderID: "1", WarehouseName: "W", HighwayCost: dec("1"), Products: []orders.LineItem{}}}}, "/api/v1/reports/tariffs", http.StatusUnprocessableEntity, "DIVISION_BY_ZERO"},
		{"zero profit", &stubSource{orders: []orders.Order{{OrderID: "1", WarehouseName: "W", HighwayCost: dec("-10"), Products: []orders.LineItem{{Product: "A", Price: dec("1"), Quantity: 10}}}}}, "/api/v1/reports/abc", http.StatusUnprocessableEntity, "DIVISION_BY_ZERO"},
		{"unexpected", &stubSource{err: errors.New("boom")}, "/api/v1/reports/products", http.StatusInternalServerError, "REPORT_ERROR"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &report.Service{Source: tc.src, Options: abc.DefaultOptions()}
			rec, body := serve(t, svc, tc.path)
			require.Equal(t, tc.status, rec.Code)
			var errBody struct {
				Code string `json:"code"`
			}
			require.NoError(t, json.Unmarshal(body["error"], &errBody))
			require.Equal(t, tc.code, errBody.Code)
		})
	}
}

func TestHandlerNotConfigured(t *testing.T) {
	rec := httptest.NewRecorder()
	(&report.Handler{}).Tariffs(rec, httptest.NewRequest(http.MethodGet, "/api/v1/reports/tariffs", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}
