package http

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/cryptoedge/cadvi/internal/analyzer"
	"github.com/cryptoedge/cadvi/internal/backtest"
	"github.com/cryptoedge/cadvi/internal/model"
)

const defaultLimit = 10

// candidateView is the JSON shape of one ranked asset.
type candidateView struct {
	Symbol         string           `json:"symbol"`
	Name           string           `json:"name"`
	Price          float64          `json:"price"`
	MarketCap      float64          `json:"market_cap"`
	Volume24h      float64          `json:"volume_24h"`
	Change24h      float64          `json:"percent_change_24h"`
	Change7d       float64          `json:"percent_change_7d"`
	Score          float64          `json:"score"`
	Composite      float64          `json:"composite_score"`
	Enhanced       float64          `json:"enhanced_score"`
	PositionSize   float64          `json:"position_size"`
	Categories     []model.Category `json:"categories"`
	WashSuspicious bool             `json:"wash_suspicious"`
	WashConfidence float64          `json:"wash_confidence"`
	Contract       string           `json:"contract_address,omitempty"`
}

// metricsView mirrors backtest.Metrics with an encoding-safe profit
// factor: nil means no losing trades (infinite factor).
type metricsView struct {
	backtest.Metrics
	ProfitFactor *float64 `json:"profit_factor"`
}

func newMetricsView(m backtest.Metrics) metricsView {
	view := metricsView{Metrics: m}
	if !math.IsInf(m.ProfitFactor, 1) {
		pf := m.ProfitFactor
		view.ProfitFactor = &pf
	}
	return view
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot()
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":           "healthy",
		"timestamp":        time.Now().UTC().Format(time.RFC3339),
		"snapshot_assets":  len(snap.Scored),
		"snapshot_age_sec": s.snapshotAge(),
	})
}

func (s *Server) handleCandidates(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot()
	if len(snap.Scored) == 0 {
		s.writeError(w, http.StatusServiceUnavailable, "no scored snapshot available yet")
		return
	}

	var category model.Category
	if raw, ok := mux.Vars(r)["category"]; ok {
		parsed, err := model.ParseCategory(raw)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		category = parsed
	}

	limit := queryInt(r, "limit", defaultLimit)
	ranked := s.svc.Candidates(snap.Scored, category, limit)

	views := make([]candidateView, len(ranked))
	for i, sa := range ranked {
		views[i] = s.candidateView(sa)
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"category":   category,
		"count":      len(views),
		"taken_at":   snap.TakenAt.Format(time.RFC3339),
		"candidates": views,
	})
}

func (s *Server) handleWashReport(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot()
	if len(snap.Scored) == 0 {
		s.writeError(w, http.StatusServiceUnavailable, "no scored snapshot available yet")
		return
	}

	suspects := s.svc.Engine().WashReport(snap.Scored)
	views := make([]candidateView, len(suspects))
	for i, sa := range suspects {
		views[i] = s.candidateView(sa)
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(views),
		"taken_at": snap.TakenAt.Format(time.RFC3339),
		"suspects": views,
	})
}

func (s *Server) handleBacktest(w http.ResponseWriter, r *http.Request) {
	candidates, ok := s.simulationCandidates(w, r)
	if !ok {
		return
	}

	seed := queryInt64(r, "seed", 0)
	trades, m := s.svc.Backtest(candidates, seed)
	s.metrics.IncSimulations()

	type tradeView struct {
		Symbol        string  `json:"symbol"`
		ExitReason    string  `json:"exit_reason"`
		ProfitLossPct float64 `json:"profit_loss_pct"`
		ProfitLoss    float64 `json:"profit_loss"`
	}
	tradeViews := make([]tradeView, len(trades))
	for i, t := range trades {
		tradeViews[i] = tradeView{
			Symbol:        t.Symbol,
			ExitReason:    t.ExitReason,
			ProfitLossPct: t.ProfitLossPct,
			ProfitLoss:    t.ProfitLoss,
		}
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"candidates": len(candidates),
		"seed":       seed,
		"metrics":    newMetricsView(m),
		"trades":     tradeViews,
	})
}

func (s *Server) handleMonteCarlo(w http.ResponseWriter, r *http.Request) {
	candidates, ok := s.simulationCandidates(w, r)
	if !ok {
		return
	}

	runs := queryInt(r, "runs", 0)
	seed := queryInt64(r, "seed", 0)
	summary := s.svc.MonteCarlo(candidates, runs, seed)
	s.metrics.IncSimulations()

	s.writeJSON(w, http.StatusOK, summary)
}

// simulationCandidates resolves the ranked candidate set shared by the
// backtest and Monte-Carlo endpoints. A false return means the response
// has already been written.
func (s *Server) simulationCandidates(w http.ResponseWriter, r *http.Request) ([]backtest.Candidate, bool) {
	snap := s.snapshot()
	if len(snap.Scored) == 0 {
		s.writeError(w, http.StatusServiceUnavailable, "no scored snapshot available yet")
		return nil, false
	}

	var category model.Category
	if raw := r.URL.Query().Get("category"); raw != "" {
		parsed, err := model.ParseCategory(raw)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return nil, false
		}
		category = parsed
	}

	limit := queryInt(r, "limit", defaultLimit)
	ranked := s.svc.Candidates(snap.Scored, category, limit)
	if len(ranked) == 0 {
		s.writeError(w, http.StatusUnprocessableEntity, "no candidates qualify for simulation")
		return nil, false
	}
	return s.svc.AsCandidates(ranked), true
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.writeError(w, http.StatusNotFound, "unknown endpoint: "+r.URL.Path)
}

func (s *Server) candidateView(sa analyzer.ScoredAsset) candidateView {
	return candidateView{
		Symbol:         sa.Symbol,
		Name:           sa.Name,
		Price:          sa.Price,
		MarketCap:      sa.MarketCap,
		Volume24h:      sa.Volume24h,
		Change24h:      sa.Change24h,
		Change7d:       sa.Change7d,
		Score:          s.svc.Engine().ActiveScore(sa),
		Composite:      sa.Composite,
		Enhanced:       sa.Enhanced,
		PositionSize:   sa.PositionSize,
		Categories:     sa.Categories,
		WashSuspicious: sa.Wash.Suspicious,
		WashConfidence: sa.Wash.Confidence,
		Contract:       sa.ContractAddress,
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}

func queryInt64(r *http.Request, name string, fallback int64) int64 {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fallback
	}
	return v
}
