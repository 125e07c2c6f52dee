// Package api exposes forecasts and scenarios over HTTP.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/prop-forecast/internal/history"
	"github.com/yourusername/prop-forecast/internal/metrics"
	"github.com/yourusername/prop-forecast/internal/models"
	"github.com/yourusername/prop-forecast/internal/prediction"
	"github.com/yourusername/prop-forecast/internal/scenario"
)

// Predictor generates forecasts
type Predictor interface {
	GeneratePrediction(ctx context.Context, req prediction.Request, weights prediction.Weights) (models.PropositionPrediction, error)
}

// Finder searches the historical archive
type Finder interface {
	FindSimilarPropositions(ctx context.Context, target *models.Proposition) ([]models.HistoricalComparison, error)
	SearchArchive(ctx context.Context, query string, years []int) ([]history.SearchResult, error)
}

// ScenarioRunner evaluates a scenario against its base proposition
type ScenarioRunner interface {
	RunScenario(ctx context.Context, details models.PropositionDetails, s *models.Scenario, weights prediction.Weights) (models.ScenarioResults, error)
}

// Dependencies wires the server to the forecasting components
type Dependencies struct {
	Predictor      Predictor
	Finder         Finder
	Runner         ScenarioRunner
	Scenarios      *scenario.Store
	Weights        prediction.Weights
	Logger         *logrus.Logger
	RequestTimeout time.Duration
	StreamEnabled  bool
	MetricsEnabled bool
}

// Server is the HTTP API
type Server struct {
	predictor      Predictor
	finder         Finder
	runner         ScenarioRunner
	scenarios      *scenario.Store
	weights        prediction.Weights
	logger         *logrus.Logger
	requestTimeout time.Duration
	streamEnabled  bool
	metricsEnabled bool
	stream         *streamHub
	httpServer     *http.Server
}

// NewServer creates the API server
func NewServer(deps Dependencies) *Server {
	log := deps.Logger
	if log == nil {
		log = logrus.New()
	}
	timeout := deps.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Server{
		predictor:      deps.Predictor,
		finder:         deps.Finder,
		runner:         deps.Runner,
		scenarios:      deps.Scenarios,
		weights:        deps.Weights,
		logger:         log,
		requestTimeout: timeout,
		streamEnabled:  deps.StreamEnabled,
		metricsEnabled: deps.MetricsEnabled,
		stream:         newStreamHub(deps.Scenarios, log),
	}
}

// Routes builds the router
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	if s.metricsEnabled {
		r.Method(http.MethodGet, "/metrics", metrics.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		timeout := middleware.Timeout(s.requestTimeout)

		r.With(timeout).Post("/predictions", s.handlePredict)
		r.With(timeout).Post("/similar", s.handleSimilar)
		r.With(timeout).Get("/archive/search", s.handleSearch)

		r.Route("/scenarios", func(r chi.Router) {
			if s.streamEnabled {
				r.Get("/stream", s.handleScenarioStream)
			}

			r.Group(func(r chi.Router) {
				r.Use(timeout)
				r.Get("/", s.handleListScenarios)
				r.Post("/", s.handleCreateScenario)
				r.Post("/compare", s.handleCompareScenarios)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", s.handleGetScenario)
					r.Put("/", s.handleUpdateScenario)
					r.Delete("/", s.handleDeleteScenario)
					r.Post("/duplicate", s.handleDuplicateScenario)
					r.Post("/run", s.handleRunScenario)
				})
			})
		})
	})
	return r
}

// ListenAndServe serves until ctx is done, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context, port, readTimeoutSeconds, writeTimeoutSeconds int) error {
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.Routes(),
		ReadTimeout:  secondsOr(readTimeoutSeconds, 15*time.Second),
		WriteTimeout: secondsOr(writeTimeoutSeconds, 60*time.Second),
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("port", port).Info("API server starting")
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("API server shutting down")
	s.stream.close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.WithFields(logrus.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      ww.Status(),
			"bytes":       ww.BytesWritten(),
			"duration_ms": time.Since(start).Milliseconds(),
			"request_id":  middleware.GetReqID(r.Context()),
		}).Debug("HTTP request")
	})
}

func secondsOr(seconds int, fallback time.Duration) time.Duration {
	if seconds <= 0 {
		return fallback
	}
	return time.Duration(seconds) * time.Second
}
