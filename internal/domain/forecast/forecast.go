// Package forecast combines derived player signals into an
// expected-points estimate with a confidence score.
package forecast

import (
	"context"
	"math"

	"github.com/okian/gaffer/internal/domain/feature"
)

// Default forecast configuration constants.
const (
	defaultConfidenceFloor = 0.2
	defaultFullSampleGames = 10

	sampleWeight      = 0.5
	consistencyWeight = 0.5
)

// Forecast is the projected output for one player over the next
// evaluation window.
type Forecast struct {
	PlayerID       string  `json:"player_id"`
	ExpectedPoints float64 `json:"expected_points"`
	Confidence     float64 `json:"confidence"` // [floor,1]
	LowData        bool    `json:"low_data"`
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithConfidenceFloor sets the minimum confidence assigned to sparse
// histories. The floor distinguishes "low data" from "bad player".
func WithConfidenceFloor(floor float64) Option {
	return func(e *Engine) {
		if floor > 0 && floor < 1 {
			e.confidenceFloor = floor
		}
	}
}

// WithFullSampleGames sets the games-played count at which the sample
// stops penalizing confidence.
func WithFullSampleGames(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.fullSampleGames = n
		}
	}
}

// Engine projects expected points from feature bundles.
type Engine struct {
	confidenceFloor float64
	fullSampleGames int
}

// New creates a forecast engine with configuration options.
func New(opts ...Option) *Engine {
	e := &Engine{
		confidenceFloor: defaultConfidenceFloor,
		fullSampleGames: defaultFullSampleGames,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Project turns a feature bundle into a forecast. It never fails:
// sparse histories bottom out at the confidence floor instead.
func (e *Engine) Project(_ context.Context, b feature.Bundle) Forecast {
	adjusted := b.FormScore * b.FixtureMultiplier
	expected := adjusted * b.StarterProbability

	return Forecast{
		PlayerID:       b.PlayerID,
		ExpectedPoints: math.Max(0, expected),
		Confidence:     e.confidence(b),
		LowData:        b.LowData,
	}
}

// confidence grows monotonically with sample size and consistency and
// is capped to [floor,1].
func (e *Engine) confidence(b feature.Bundle) float64 {
	if b.LowData {
		return e.confidenceFloor
	}
	sample := math.Min(float64(b.GamesPlayed)/float64(e.fullSampleGames), 1.0)
	c := sampleWeight*sample + consistencyWeight*b.Consistency
	return math.Max(e.confidenceFloor, math.Min(1.0, c))
}
