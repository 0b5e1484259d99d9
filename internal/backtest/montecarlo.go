package backtest

import (
	"math"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// MonteCarloConfig controls the repeated-simulation driver.
type MonteCarloConfig struct {
	Sim     SimConfig `yaml:"sim" json:"sim"`
	Runs    int       `yaml:"runs" json:"runs"`
	Workers int       `yaml:"workers" json:"workers"`
	Seed    int64     `yaml:"seed" json:"seed"`
}

// DefaultMonteCarloConfig runs 100 simulations across the available CPUs.
func DefaultMonteCarloConfig() MonteCarloConfig {
	return MonteCarloConfig{
		Sim:     DefaultSimConfig(),
		Runs:    100,
		Workers: runtime.NumCPU(),
	}
}

// RunResult is the per-run statistic tuple collected by the driver.
type RunResult struct {
	WinRate      float64 `json:"win_rate"`
	NetProfit    float64 `json:"net_profit"`
	SharpeRatio  float64 `json:"sharpe_ratio"`
	MaxDrawdown  float64 `json:"max_drawdown"`
	ProfitFactor float64 `json:"profit_factor"`
}

// MonteCarloSummary describes the distribution of outcomes across all runs.
type MonteCarloSummary struct {
	RunID         string  `json:"run_id"`
	Runs          int     `json:"runs"`
	Candidates    int     `json:"candidates"`
	MeanWinRate   float64 `json:"mean_win_rate"`
	StdWinRate    float64 `json:"std_win_rate"`
	MeanNetProfit float64 `json:"mean_net_profit"`
	StdNetProfit  float64 `json:"std_net_profit"`
	MeanSharpe    float64 `json:"mean_sharpe"`
	ProfitablePct float64 `json:"profitable_pct"`
	BestProfit    float64 `json:"best_profit"`
	MedianProfit  float64 `json:"median_profit"`
	WorstProfit   float64 `json:"worst_profit"`
}

// MonteCarlo replays the candidate list through cfg.Runs independent
// simulations and summarizes the outcome distribution. Runs share no
// mutable state: each worker gets its own seeded random source, so the
// per-run sequences stay statistically independent whether the fan-out
// is parallel or sequential.
func MonteCarlo(candidates []Candidate, cfg MonteCarloConfig) MonteCarloSummary {
	if cfg.Runs <= 0 {
		cfg.Runs = 100
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.Workers > cfg.Runs {
		cfg.Workers = cfg.Runs
	}

	runID := uuid.New().String()[:8]
	baseSeed := cfg.Seed
	if baseSeed == 0 {
		baseSeed = time.Now().UnixNano()
	}

	log.Info().
		Str("run_id", runID).
		Int("runs", cfg.Runs).
		Int("workers", cfg.Workers).
		Int("candidates", len(candidates)).
		Msg("Starting Monte Carlo simulation")

	results := make([]RunResult, cfg.Runs)
	now := time.Now().UTC()

	var wg sync.WaitGroup
	runs := make(chan int)
	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			// One generator per worker; seeds are offset so no two
			// workers share a sequence.
			sim := NewSimulator(cfg.Sim, NewSeededRand(baseSeed+int64(worker)+1))
			for i := range runs {
				trades := sim.Simulate(candidates, now)
				m := ComputeMetrics(trades)
				results[i] = RunResult{
					WinRate:      m.WinRate,
					NetProfit:    m.NetProfit,
					SharpeRatio:  m.SharpeRatio,
					MaxDrawdown:  m.MaxDrawdown,
					ProfitFactor: m.ProfitFactor,
				}
			}
		}(w)
	}
	for i := 0; i < cfg.Runs; i++ {
		runs <- i
	}
	close(runs)
	wg.Wait()

	return summarize(runID, len(candidates), results)
}

func summarize(runID string, candidates int, results []RunResult) MonteCarloSummary {
	winRates := make([]float64, len(results))
	profits := make([]float64, len(results))
	sharpes := make([]float64, len(results))
	profitable := 0
	for i, r := range results {
		winRates[i] = r.WinRate
		profits[i] = r.NetProfit
		sharpes[i] = r.SharpeRatio
		if r.NetProfit > 0 {
			profitable++
		}
	}

	best := math.Inf(-1)
	worst := math.Inf(1)
	for _, p := range profits {
		if p > best {
			best = p
		}
		if p < worst {
			worst = p
		}
	}
	if len(profits) == 0 {
		best, worst = 0, 0
	}

	summary := MonteCarloSummary{
		RunID:         runID,
		Runs:          len(results),
		Candidates:    candidates,
		MeanWinRate:   mean(winRates),
		StdWinRate:    stddev(winRates),
		MeanNetProfit: mean(profits),
		StdNetProfit:  stddev(profits),
		MeanSharpe:    mean(sharpes),
		ProfitablePct: float64(profitable) / float64(max(len(results), 1)) * 100,
		BestProfit:    best,
		MedianProfit:  median(profits),
		WorstProfit:   worst,
	}

	log.Info().
		Str("run_id", runID).
		Float64("mean_win_rate", summary.MeanWinRate).
		Float64("mean_net_profit", summary.MeanNetProfit).
		Float64("profitable_pct", summary.ProfitablePct).
		Msg("Monte Carlo simulation completed")

	return summary
}
