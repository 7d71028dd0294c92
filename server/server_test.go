package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rustyeddy/tradedash/journal"
)

const sampleCSV = `Time,Symbol,Type,Profit,Volume,Equity,Date
2024-01-02 09:00:00,EURUSD,buy,10,1,1010,2024-01-02
2024-01-02 15:30:00,EURUSD,sell,-5,1,1005,2024-01-02
2024-01-03 10:00:00,GBPUSD,buy,20,1,1025,2024-01-03
`

func newTestServer(t *testing.T, body string) (*Server, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "exits.csv")
	if body != "" {
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}
	return New(journal.NewCache(journal.CSVSource{Path: path}), zap.NewNop()), path
}

func do(t *testing.T, s *Server, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

type summary struct {
	Source string `json:"source"`
	KPIs   struct {
		TotalProfit string  `json:"total_profit"`
		Trades      int     `json:"trades"`
		WinRate     float64 `json:"win_rate"`
	} `json:"kpis"`
	MaxDrawdown string `json:"max_drawdown"`
	Equity      []struct {
		Cumulative string `json:"cumulative"`
	} `json:"equity"`
	Error string `json:"error"`
}

func getSummary(t *testing.T, s *Server) (int, summary) {
	t.Helper()
	rec := do(t, s, http.MethodGet, "/api/v1/summary")
	var out summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return rec.Code, out
}

func TestDashboardPage(t *testing.T) {
	t.Parallel()

	s, _ := newTestServer(t, sampleCSV)
	rec := do(t, s, http.MethodGet, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")

	body := rec.Body.String()
	assert.Contains(t, body, "Total Profit")
	assert.Contains(t, body, "25.00")
	assert.Contains(t, body, "66.7%")
	assert.Contains(t, body, "-5.00")
	assert.Contains(t, body, `src="/charts/equity"`)
}

func TestCharts(t *testing.T) {
	t.Parallel()

	s, _ := newTestServer(t, sampleCSV)
	for _, name := range []string{"equity", "symbols", "daily"} {
		rec := do(t, s, http.MethodGet, "/charts/"+name)
		assert.Equal(t, http.StatusOK, rec.Code, name)
		assert.NotEmpty(t, rec.Body.String())
	}

	rec := do(t, s, http.MethodGet, "/charts/pie")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSummary(t *testing.T) {
	t.Parallel()

	s, _ := newTestServer(t, sampleCSV)
	code, sum := getSummary(t, s)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "25", sum.KPIs.TotalProfit)
	assert.Equal(t, 3, sum.KPIs.Trades)
	assert.InDelta(t, 66.67, sum.KPIs.WinRate, 0.01)
	assert.Equal(t, "-5", sum.MaxDrawdown)
	require.Len(t, sum.Equity, 3)
	assert.Equal(t, "25", sum.Equity[2].Cumulative)
}

func TestFailuresHaltRendering(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		body   string
		status int
		msg    string
	}{
		{
			name:   "missing file",
			status: http.StatusInternalServerError,
			msg:    "load trades",
		},
		{
			name:   "empty",
			body:   "Time,Symbol,Type,Profit,Volume,Equity,Date\n",
			status: http.StatusUnprocessableEntity,
			msg:    "no trade data loaded",
		},
		{
			name: "missing equity column",
			body: "Time,Symbol,Type,Profit,Volume,Date\n" +
				"2024-01-02 09:00:00,EURUSD,buy,10,1,2024-01-02\n",
			status: http.StatusUnprocessableEntity,
			msg:    "missing required columns: Equity",
		},
		{
			name: "bad time",
			body: "Time,Symbol,Type,Profit,Volume,Equity,Date\n" +
				"soon,EURUSD,buy,10,1,1010,2024-01-02\n",
			status: http.StatusUnprocessableEntity,
			msg:    "unparseable time",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestServer(t, tt.body)

			rec := do(t, s, http.MethodGet, "/")
			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.msg)
			assert.NotContains(t, rec.Body.String(), "Total Profit")
			assert.NotContains(t, rec.Body.String(), "<iframe")

			rec = do(t, s, http.MethodGet, "/charts/equity")
			assert.Equal(t, tt.status, rec.Code)

			code, sum := getSummary(t, s)
			assert.Equal(t, tt.status, code)
			assert.Contains(t, sum.Error, tt.msg)
			assert.Zero(t, sum.KPIs.Trades)
		})
	}
}

func TestReload(t *testing.T) {
	t.Parallel()

	s, path := newTestServer(t, sampleCSV)
	_, sum := getSummary(t, s)
	require.Equal(t, 3, sum.KPIs.Trades)

	extra := "2024-01-04 10:00:00,USDJPY,sell,7,1,1032,2024-01-04\n"
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV+extra), 0o644))

	// The served snapshot only changes on an explicit reload.
	_, sum = getSummary(t, s)
	assert.Equal(t, 3, sum.KPIs.Trades)

	rec := do(t, s, http.MethodPost, "/api/v1/reload")
	require.Equal(t, http.StatusOK, rec.Code)
	var rr reloadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rr))
	assert.Equal(t, 4, rr.Trades)
	assert.Equal(t, path, rr.Source)

	_, sum = getSummary(t, s)
	assert.Equal(t, 4, sum.KPIs.Trades)
	assert.Equal(t, "32", sum.KPIs.TotalProfit)
}

func TestReloadFailureKeepsSnapshot(t *testing.T) {
	t.Parallel()

	s, path := newTestServer(t, sampleCSV)
	require.NoError(t, s.Warm(context.Background()))

	require.NoError(t, os.WriteFile(path, []byte("Time,Symbol\n2024-01-02,EURUSD\n"), 0o644))

	rec := do(t, s, http.MethodPost, "/api/v1/reload")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing required columns")

	code, sum := getSummary(t, s)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, 3, sum.KPIs.Trades)
}

func TestHealthAndMetrics(t *testing.T) {
	t.Parallel()

	s, path := newTestServer(t, sampleCSV)
	rec := do(t, s, http.MethodGet, "/health")
	require.Equal(t, http.StatusOK, rec.Code)

	var health map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "ok", health["status"])
	assert.Equal(t, "csv:"+path, health["source"])
	assert.NotContains(t, health, "trades")

	require.NoError(t, s.Warm(context.Background()))
	rec = do(t, s, http.MethodGet, "/health")
	assert.Contains(t, rec.Body.String(), `"trades":3`)

	rec = do(t, s, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "tradedash_http_requests_total"))
}

func TestScheduleReload(t *testing.T) {
	t.Parallel()

	s, _ := newTestServer(t, sampleCSV)
	assert.Error(t, s.ScheduleReload("not a schedule"))
	assert.NoError(t, s.ScheduleReload("@every 1h"))
}

func TestRunShutsDownOnCancel(t *testing.T) {
	t.Parallel()

	s, _ := newTestServer(t, sampleCSV)
	require.NoError(t, s.ScheduleReload("@every 1h"))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
