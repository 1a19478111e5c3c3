// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/gaffer/internal/domain/feature"
	"github.com/okian/gaffer/internal/domain/forecast"
	"github.com/okian/gaffer/internal/domain/model"
	"github.com/okian/gaffer/internal/domain/valuation"
)

// EvaluateDependencies defines the per-component evaluation operations.
type EvaluateDependencies interface {
	Features(ctx context.Context, players []model.Player) ([]feature.Bundle, []model.Skipped, error)
	Forecasts(ctx context.Context, players []model.Player) ([]forecast.Forecast, []model.Skipped, error)
	Valuations(ctx context.Context, players []model.Player) ([]valuation.Valuation, []model.Skipped, error)
}

// EvaluateHandler handles the feature, forecast, and valuation endpoints.
type EvaluateHandler struct {
	deps EvaluateDependencies
}

// NewEvaluateHandler creates a new evaluate handler.
func NewEvaluateHandler(deps EvaluateDependencies) *EvaluateHandler {
	return &EvaluateHandler{deps: deps}
}

type featuresResponse struct {
	Bundles []feature.Bundle `json:"bundles"`
	Skipped []model.Skipped  `json:"skipped,omitempty"`
}

type forecastResponse struct {
	Forecasts []forecast.Forecast `json:"forecasts"`
	Skipped   []model.Skipped     `json:"skipped,omitempty"`
}

type valuationResponse struct {
	Valuations []valuation.Valuation `json:"valuations"`
	Skipped    []model.Skipped       `json:"skipped,omitempty"`
}

// HandleFeatures handles POST /features requests.
func (h *EvaluateHandler) HandleFeatures(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_features"
	req, ok := decodePlayers(w, r, op)
	if !ok {
		return
	}

	bundles, skipped, err := h.deps.Features(r.Context(), req.Players)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", err)
		return
	}
	writeJSON(w, http.StatusOK, featuresResponse{Bundles: bundles, Skipped: skipped})
}

// HandleForecast handles POST /forecast requests.
func (h *EvaluateHandler) HandleForecast(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_forecast"
	req, ok := decodePlayers(w, r, op)
	if !ok {
		return
	}

	forecasts, skipped, err := h.deps.Forecasts(r.Context(), req.Players)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", err)
		return
	}
	writeJSON(w, http.StatusOK, forecastResponse{Forecasts: forecasts, Skipped: skipped})
}

// HandleValuation handles POST /valuation requests.
func (h *EvaluateHandler) HandleValuation(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_valuation"
	req, ok := decodePlayers(w, r, op)
	if !ok {
		return
	}

	valuations, skipped, err := h.deps.Valuations(r.Context(), req.Players)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", err)
		return
	}
	writeJSON(w, http.StatusOK, valuationResponse{Valuations: valuations, Skipped: skipped})
}

// decodePlayers enforces the method and shared body shape of the
// per-component endpoints. Errors are already written on false.
func decodePlayers(w http.ResponseWriter, r *http.Request, op string) (playersRequest, bool) {
	var req playersRequest
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return req, false
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return req, false
	}
	if err := req.validate(); err != nil {
		// Validation failures already are sentinel kinds.
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, err))
		return req, false
	}
	return req, true
}
