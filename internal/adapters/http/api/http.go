// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/gaffer/internal/domain/feature"
	"github.com/okian/gaffer/internal/domain/forecast"
	"github.com/okian/gaffer/internal/domain/model"
	"github.com/okian/gaffer/internal/domain/recommend"
	"github.com/okian/gaffer/internal/domain/valuation"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Features derives feature bundles for a batch of players.
	Features(ctx context.Context, players []model.Player) ([]feature.Bundle, []model.Skipped, error)

	// Forecasts projects expected points for a batch of players.
	Forecasts(ctx context.Context, players []model.Player) ([]forecast.Forecast, []model.Skipped, error)

	// Valuations appraises fair value, risk, and max bid for a batch.
	Valuations(ctx context.Context, players []model.Player) ([]valuation.Valuation, []model.Skipped, error)

	// Recommend runs the full pipeline over a squad and market.
	Recommend(ctx context.Context, squad model.Squad, market model.Market, rivals []model.RivalSquad) (recommend.Output, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler         *HealthHandler
	statsHandler          *StatsHandler
	evaluateHandler       *EvaluateHandler
	recommendationHandler *RecommendationHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:         NewHealthHandler(),
		statsHandler:          NewStatsHandler(statsProvider),
		evaluateHandler:       NewEvaluateHandler(deps),
		recommendationHandler: NewRecommendationHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/features", MetricsMiddleware(s.evaluateHandler.HandleFeatures, "features"))
	mux.HandleFunc("/forecast", MetricsMiddleware(s.evaluateHandler.HandleForecast, "forecast"))
	mux.HandleFunc("/valuation", MetricsMiddleware(s.evaluateHandler.HandleValuation, "valuation"))
	mux.HandleFunc("/recommendations", MetricsMiddleware(s.recommendationHandler.HandleRecommendations, "recommendations"))
}

// playersRequest is the shared body of the per-component endpoints.
type playersRequest struct {
	Players []model.Player `json:"players"`
}

func (p playersRequest) validate() error {
	if len(p.Players) == 0 {
		return ErrEmptyBatch
	}
	seen := make(map[string]bool, len(p.Players))
	for i := range p.Players {
		id := p.Players[i].ID
		if id == "" {
			return ErrMissingPlayerID
		}
		if seen[id] {
			return ErrDuplicatePlayerID
		}
		seen[id] = true
	}
	return nil
}

// recommendationRequest mirrors the schema for POST /recommendations.
type recommendationRequest struct {
	Squad  model.Squad        `json:"squad"`
	Market model.Market       `json:"market"`
	Rivals []model.RivalSquad `json:"rivals,omitempty"`
}

func (r recommendationRequest) validate() error {
	if len(r.Squad.Players) == 0 {
		return ErrEmptySquad
	}
	return nil
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
