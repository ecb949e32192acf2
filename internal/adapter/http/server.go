package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/rain-risk-service/internal/domain"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MaxCitiesPerRequest bounds the cities accepted by /v1/forecast.
const MaxCitiesPerRequest = 50

const forecastTimeout = 25 * time.Second

// ForecastRunner runs the pipeline for an ad-hoc list of cities.
type ForecastRunner interface {
	Run(ctx context.Context, cities []string) (domain.RunResult, error)
}

// LatestProvider exposes the most recent scheduled run.
type LatestProvider interface {
	Latest() (domain.RunResult, bool)
}

// Server exposes health, readiness, metrics, and forecast HTTP endpoints.
type Server struct {
	httpServer *http.Server
	runner     ForecastRunner
	latest     LatestProvider
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics,
// /v1/forecast, and /v1/overview routes.
func NewServer(addr string, ready sharedobs.ReadinessChecker, runner ForecastRunner, latest LatestProvider, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: forecastTimeout + 5*time.Second,
			IdleTimeout:  60 * time.Second,
		},
		runner: runner,
		latest: latest,
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /v1/forecast", s.handleForecast)
	mux.HandleFunc("GET /v1/overview", s.handleOverview)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

type forecastResponse struct {
	Series   []domain.CitySeries              `json:"series"`
	Summary  map[string]domain.ScoredInterval `json:"summary"`
	Markers  []domain.MapMarker               `json:"markers"`
	Failures []domain.CityFailure             `json:"failures"`
}

type overviewResponse struct {
	Markers  []domain.MapMarker   `json:"markers"`
	Failures []domain.CityFailure `json:"failures"`
}

func newForecastResponse(res domain.RunResult) forecastResponse {
	return forecastResponse{
		Series:   res.View.Series,
		Summary:  res.View.Summary,
		Markers:  res.View.Markers(),
		Failures: nonNil(res.Failures),
	}
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	cities := domain.ParseCityList(r.URL.Query().Get("cities"))
	if len(cities) == 0 {
		res, ok := s.latest.Latest()
		if !ok {
			writeError(w, http.StatusServiceUnavailable, "no forecast available yet")
			return
		}
		sharedobs.WriteJSON(w, http.StatusOK, newForecastResponse(res))
		return
	}
	if len(cities) > MaxCitiesPerRequest {
		writeError(w, http.StatusBadRequest, "too many cities")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), forecastTimeout)
	defer cancel()

	res, err := s.runner.Run(ctx, cities)
	switch {
	case errors.Is(err, domain.ErrModelUnavailable):
		writeError(w, http.StatusServiceUnavailable, "model unavailable")
		return
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusGatewayTimeout, "forecast timed out")
		return
	case errors.Is(err, context.Canceled):
		s.logger.Debug("forecast request cancelled", "cities", cities)
		return
	case err != nil:
		s.logger.Error("forecast request failed", "cities", cities, "error", err)
		writeError(w, http.StatusInternalServerError, "forecast failed")
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, newForecastResponse(res))
}

func (s *Server) handleOverview(w http.ResponseWriter, _ *http.Request) {
	res, ok := s.latest.Latest()
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "no forecast available yet")
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, overviewResponse{
		Markers:  res.View.Markers(),
		Failures: nonNil(res.Failures),
	})
}

func nonNil(f []domain.CityFailure) []domain.CityFailure {
	if f == nil {
		return []domain.CityFailure{}
	}
	return f
}

func writeError(w http.ResponseWriter, status int, msg string) {
	sharedobs.WriteJSON(w, status, map[string]string{"error": msg})
}
