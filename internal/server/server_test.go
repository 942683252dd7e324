package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MarketCross/internal/collector"
	"MarketCross/internal/config"
	"MarketCross/internal/metrics"
	"MarketCross/internal/model"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	day := model.NewDate(2024, 1, 1)
	series := model.RawSeries{}
	for i, c := range []float64{10, 9, 8, 7, 8, 10, 12} {
		series = append(series, model.PricePoint{Date: day.AddDays(i), Close: decimal.NewFromFloat(c)})
	}

	reg := collector.NewRegistry()
	reg.Register(&collector.MockFetcher{Series: series}, "")
	reg.Register(&collector.MockFetcher{Provider: "keyed", NeedsAuth: true, Series: series}, "")
	reg.Register(&collector.MockFetcher{Provider: "missing", Err: model.NewError(model.KindSymbol, "unknown symbol")}, "")
	reg.Register(&collector.MockFetcher{Provider: "empty", Series: model.RawSeries{}}, "")
	reg.Register(&collector.MockFetcher{Provider: "slow", Delay: time.Second, Series: series}, "")
	reg.Register(&collector.MockFetcher{Provider: "garbled", Err: model.NewError(model.KindFormat, "decode chart")}, "")
	c := collector.NewCollector(reg, 50*time.Millisecond, zerolog.Nop())

	promReg := prometheus.NewRegistry()
	c.OnRun(metrics.NewMetrics(promReg).Observe)

	s := &Server{
		Analyzer: c,
		Indices:  []config.IndexPreset{{Name: "DAX", Symbol: "^GDAXI"}},
		Gatherer: promReg,
		Logger:   zerolog.Nop(),
	}
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, srv *httptest.Server, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(srv.URL+"/api/calculate", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func TestCalculate_OK(t *testing.T) {
	srv := newTestServer(t)

	resp, out := post(t, srv, `{"symbol":"TEST","shortPeriod":1,"longPeriod":3,"windowDays":4,"provider":"mock"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	series := out["series"].([]any)
	require.Len(t, series, 4)
	first := series[0].(map[string]any)
	assert.Equal(t, "2024-01-04", first["date"])
	assert.Equal(t, 7.0, first["close"])
	assert.InDelta(t, 8.0, first["longSMA"], 1e-9)

	events := out["events"].([]any)
	require.Len(t, events, 1)
	assert.Equal(t, map[string]any{"date": "2024-01-05", "kind": "bullish"}, events[0])
}

func TestCalculate_AbsentAveragesAreNull(t *testing.T) {
	srv := newTestServer(t)

	resp, out := post(t, srv, `{"symbol":"TEST","shortPeriod":1,"longPeriod":30,"windowDays":2,"provider":"mock"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	point := out["series"].([]any)[0].(map[string]any)
	v, present := point["longSMA"]
	assert.True(t, present)
	assert.Nil(t, v)
	assert.Equal(t, []any{}, out["events"])
}

func TestCalculate_ErrorStatuses(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name   string
		body   string
		status int
		kind   string
	}{
		{"bad json", `{"symbol":`, http.StatusBadRequest, "ValidationError"},
		{"missing symbol", `{"shortPeriod":1,"longPeriod":3,"windowDays":4,"provider":"mock"}`, http.StatusBadRequest, "ValidationError"},
		{"unknown provider", `{"symbol":"X","shortPeriod":1,"longPeriod":3,"windowDays":4,"provider":"nope"}`, http.StatusBadRequest, "ValidationError"},
		{"no credential", `{"symbol":"X","shortPeriod":1,"longPeriod":3,"windowDays":4,"provider":"keyed"}`, http.StatusUnauthorized, "AuthError"},
		{"unknown symbol", `{"symbol":"X","shortPeriod":1,"longPeriod":3,"windowDays":4,"provider":"missing"}`, http.StatusNotFound, "SymbolError"},
		{"empty series", `{"symbol":"X","shortPeriod":1,"longPeriod":3,"windowDays":4,"provider":"empty"}`, http.StatusUnprocessableEntity, "EmptySeriesError"},
		{"timeout", `{"symbol":"X","shortPeriod":1,"longPeriod":3,"windowDays":4,"provider":"slow"}`, http.StatusServiceUnavailable, "TransientError"},
		{"bad payload", `{"symbol":"X","shortPeriod":1,"longPeriod":3,"windowDays":4,"provider":"garbled"}`, http.StatusBadGateway, "FormatError"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, out := post(t, srv, tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
			e := out["error"].(map[string]any)
			assert.Equal(t, tt.kind, e["kind"])
			assert.NotEmpty(t, e["message"])
			assert.Nil(t, out["series"])
		})
	}
}

func TestCalculate_Methods(t *testing.T) {
	srv := newTestServer(t)

	req, err := http.NewRequestWithContext(context.Background(), http.MethodOptions, srv.URL+"/api/calculate", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), "POST")

	resp, err = http.Get(srv.URL + "/api/calculate")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assert.Equal(t, "POST, OPTIONS", resp.Header.Get("Allow"))
}

func TestIndicesHealthAndMetrics(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/indices")
	require.NoError(t, err)
	var indices []config.IndexPreset
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&indices))
	resp.Body.Close()
	assert.Equal(t, []config.IndexPreset{{Name: "DAX", Symbol: "^GDAXI"}}, indices)

	resp, err = http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	post(t, srv, `{"symbol":"TEST","shortPeriod":1,"longPeriod":3,"windowDays":4,"provider":"mock"}`)
	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	buf := new(strings.Builder)
	_, err = io.Copy(buf, resp.Body)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `marketcross_analyses_total{outcome="ok",provider="mock"} 1`)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, StatusFor(model.KindValidation))
	assert.Equal(t, http.StatusUnauthorized, StatusFor(model.KindAuth))
	assert.Equal(t, http.StatusNotFound, StatusFor(model.KindSymbol))
	assert.Equal(t, http.StatusUnprocessableEntity, StatusFor(model.KindEmptySeries))
	assert.Equal(t, http.StatusServiceUnavailable, StatusFor(model.KindTransient))
	assert.Equal(t, http.StatusBadGateway, StatusFor(model.KindFormat))
}

func TestListenAndServe_ShutsDownOnCancel(t *testing.T) {
	s := &Server{Analyzer: nil, Logger: zerolog.Nop()}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
