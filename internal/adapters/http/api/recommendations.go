// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/gaffer/internal/domain/model"
	"github.com/okian/gaffer/internal/domain/recommend"
)

// RecommendationDependencies defines the full-pipeline operation.
type RecommendationDependencies interface {
	Recommend(ctx context.Context, squad model.Squad, market model.Market, rivals []model.RivalSquad) (recommend.Output, error)
}

// RecommendationHandler handles recommendation requests.
type RecommendationHandler struct {
	deps RecommendationDependencies
}

// NewRecommendationHandler creates a new recommendation handler.
func NewRecommendationHandler(deps RecommendationDependencies) *RecommendationHandler {
	return &RecommendationHandler{deps: deps}
}

// HandleRecommendations handles POST /recommendations requests.
func (h *RecommendationHandler) HandleRecommendations(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_recommendations"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req recommendationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, err))
		return
	}

	out, err := h.deps.Recommend(r.Context(), req.Squad, req.Market, req.Rivals)
	if err != nil {
		if errors.Is(err, model.ErrBudgetInvariant) {
			writeError(w, http.StatusUnprocessableEntity, "budget_invariant", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal", err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
