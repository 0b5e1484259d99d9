// Package http exposes the scored snapshot and the simulator over a
// local, read-only JSON API. All numeric shaping is presentation-only;
// the engine's semantics live in internal/analyzer and internal/backtest.
package http

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/cryptoedge/cadvi/internal/advisor"
	"github.com/cryptoedge/cadvi/internal/analyzer"
	"github.com/cryptoedge/cadvi/internal/config"
)

// Snapshot is the scored batch the server answers queries from.
type Snapshot struct {
	Scored  []analyzer.ScoredAsset
	TakenAt time.Time
}

// Server is the read-only HTTP front end. It owns no scoring state
// beyond the latest snapshot installed by the caller.
type Server struct {
	cfg     config.ServerConfig
	router  *mux.Router
	server  *http.Server
	svc     *advisor.Service
	metrics *Metrics

	mu   sync.RWMutex
	snap Snapshot
}

// NewServer builds the server and its routes.
func NewServer(cfg config.ServerConfig, svc *advisor.Service) *Server {
	s := &Server{
		cfg:    cfg,
		router: mux.NewRouter(),
		svc:    svc,
	}
	s.metrics = NewMetrics(s.snapshotAge)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return s
}

// SetSnapshot installs a freshly scored batch.
func (s *Server) SetSnapshot(scored []analyzer.ScoredAsset) {
	s.mu.Lock()
	s.snap = Snapshot{Scored: scored, TakenAt: time.Now().UTC()}
	s.mu.Unlock()
	s.metrics.SetSnapshotSize(len(scored))
}

func (s *Server) snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

func (s *Server) snapshotAge() float64 {
	snap := s.snapshot()
	if snap.TakenAt.IsZero() {
		return 0
	}
	return time.Since(snap.TakenAt).Seconds()
}

func (s *Server) setupRoutes() {
	s.router.Use(s.requestIDMiddleware)
	s.router.Use(s.observabilityMiddleware)

	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/candidates", s.handleCandidates).Methods(http.MethodGet)
	s.router.HandleFunc("/candidates/{category}", s.handleCandidates).Methods(http.MethodGet)
	s.router.HandleFunc("/wash-report", s.handleWashReport).Methods(http.MethodGet)
	s.router.HandleFunc("/backtest", s.handleBacktest).Methods(http.MethodGet)
	s.router.HandleFunc("/montecarlo", s.handleMonteCarlo).Methods(http.MethodGet)
	s.router.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)

	s.router.NotFoundHandler = http.HandlerFunc(s.handleNotFound)
}

type ctxKey string

const requestIDKey ctxKey = "request_id"

func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.New().String()[:8]
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) observabilityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapper := &responseWrapper{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapper, r)

		elapsed := time.Since(start)
		route := r.URL.Path
		if current := mux.CurrentRoute(r); current != nil {
			if tmpl, err := current.GetPathTemplate(); err == nil {
				route = tmpl
			}
		}
		s.metrics.ObserveRequest(route, wrapper.statusCode, elapsed)

		log.Debug().
			Str("request_id", fmt.Sprint(r.Context().Value(requestIDKey))).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", wrapper.statusCode).
			Dur("elapsed", elapsed).
			Msg("Request handled")
	})
}

// Start serves until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	log.Info().Str("addr", s.server.Addr).Msg("Starting HTTP server (local-only, read-only)")
	return s.server.ListenAndServe()
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// Address returns the bound host:port.
func (s *Server) Address() string {
	return s.server.Addr
}

// Router exposes the handler tree for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
