package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cryptoedge/cadvi/internal/advisor"
	"github.com/cryptoedge/cadvi/internal/config"
	"github.com/cryptoedge/cadvi/internal/model"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.Default()
	svc, err := advisor.NewService(cfg)
	require.NoError(t, err)
	return NewServer(cfg.Server, svc)
}

func testRecords() []model.AssetRecord {
	return []model.AssetRecord{
		{Symbol: "BTC", Name: "Bitcoin", OnBinance: true,
			Price: 60000, MarketCap: 1.2e12, Volume24h: 3e10,
			Change1h: 0.5, Change24h: 4, Change7d: 10, VolumeChange24h: 10},
		{Symbol: "ALT", Name: "Alt Chain", OnBinance: true,
			Price: 2.5, MarketCap: 4e8, Volume24h: 9e7,
			Change1h: 4, Change24h: 25, Change7d: 50, VolumeChange24h: 250},
		{Symbol: "WASH", Name: "Washy", OnBinance: true,
			Price: 0.001, MarketCap: 4e6, Volume24h: 2.5e7,
			Change24h: 1, VolumeChange24h: 600},
	}
}

func get(t *testing.T, s *Server, path string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	var body map[string]interface{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestHealth(t *testing.T) {
	s := testServer(t)
	rec, body := get(t, s, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", body["status"])
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestCandidatesWithoutSnapshot(t *testing.T) {
	s := testServer(t)
	rec, body := get(t, s, "/candidates")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, body["error"], "no scored snapshot")
}

func TestCandidates(t *testing.T) {
	s := testServer(t)
	s.SetSnapshot(s.svc.Score(testRecords()))

	rec, body := get(t, s, "/candidates?limit=2")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 2, body["count"])

	candidates := body["candidates"].([]interface{})
	first := candidates[0].(map[string]interface{})
	second := candidates[1].(map[string]interface{})
	assert.GreaterOrEqual(t, first["score"].(float64), second["score"].(float64))
}

func TestCandidatesByCategory(t *testing.T) {
	s := testServer(t)
	s.SetSnapshot(s.svc.Score(testRecords()))

	t.Run("valid category", func(t *testing.T) {
		rec, body := get(t, s, "/candidates/spot")
		require.Equal(t, http.StatusOK, rec.Code)
		for _, c := range body["candidates"].([]interface{}) {
			assert.NotEqual(t, "WASH", c.(map[string]interface{})["symbol"],
				"wash suspects are filtered from category rankings")
		}
	})

	t.Run("unknown category", func(t *testing.T) {
		rec, body := get(t, s, "/candidates/margin")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, body["error"], "unknown category")
	})
}

func TestWashReportEndpoint(t *testing.T) {
	s := testServer(t)
	s.SetSnapshot(s.svc.Score(testRecords()))

	rec, body := get(t, s, "/wash-report")
	require.Equal(t, http.StatusOK, rec.Code)
	suspects := body["suspects"].([]interface{})
	require.NotEmpty(t, suspects)
	assert.Equal(t, "WASH", suspects[0].(map[string]interface{})["symbol"])
}

func TestBacktestEndpoint(t *testing.T) {
	s := testServer(t)
	s.SetSnapshot(s.svc.Score(testRecords()))

	rec, body := get(t, s, "/backtest?seed=42&limit=3")
	require.Equal(t, http.StatusOK, rec.Code)

	metrics := body["metrics"].(map[string]interface{})
	assert.EqualValues(t, 3, metrics["total_trades"])
	trades := body["trades"].([]interface{})
	assert.Len(t, trades, 3)
}

func TestMonteCarloEndpoint(t *testing.T) {
	s := testServer(t)
	s.SetSnapshot(s.svc.Score(testRecords()))

	rec, body := get(t, s, "/montecarlo?runs=10&seed=42")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 10, body["runs"])
	assert.NotEmpty(t, body["run_id"])
}

func TestNotFound(t *testing.T) {
	s := testServer(t)
	rec, body := get(t, s, "/definitely-not-a-route")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, body["error"], "unknown endpoint")
}

func TestMetricsViewProfitFactor(t *testing.T) {
	s := testServer(t)
	s.SetSnapshot(s.svc.Score(testRecords()))

	// Responses must always be encodable even when the profit factor is
	// infinite; the view encodes that case as null.
	rec, _ := get(t, s, "/backtest?seed=1")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, json.Valid(rec.Body.Bytes()))
}
