// Package feature derives per-player signals from raw history: form
// trend, fixture difficulty, starter probability, and consistency.
package feature

import (
	"context"
	"fmt"
	"math"

	"github.com/okian/gaffer/internal/domain/model"
	"gonum.org/v1/gonum/stat"
)

// Default feature configuration constants.
const (
	defaultAlpha         = 0.3
	defaultFixtureWindow = 3
	defaultMinMultiplier = 0.7
	defaultMaxMultiplier = 1.3
	defaultDoubtfulFloor = 0.3

	neutralRating      = 3.0
	neutralConsistency = 0.5

	// Multiplier line through (1, 1.3) and (5, 0.7): tougher fixtures
	// shrink the multiplier, easier fixtures grow it.
	multiplierIntercept = 1.45
	multiplierSlope     = 0.15

	fullMatchMinutes    = 90.0
	unknownMinutesShare = 0.5
	minutesBlendBase    = 0.7
	minutesBlendSpan    = 0.3
)

// Bundle holds the derived signals for one player. It is an ephemeral
// value object recomputed per request, never persisted.
type Bundle struct {
	PlayerID           string  `json:"player_id"`
	FormScore          float64 `json:"form_score"`
	FixtureMultiplier  float64 `json:"fixture_multiplier"`
	FixtureRisk        float64 `json:"fixture_risk"` // [0,1], 0 at the easiest bound
	StarterProbability float64 `json:"starter_probability"`
	StatusWeight       float64 `json:"status_weight"` // availability gate before minutes blending
	Consistency        float64 `json:"consistency"`
	GamesPlayed        int     `json:"games_played"`
	LowData            bool    `json:"low_data"` // empty history; downstream degrades confidence
}

// Engine derives Bundles from players and an immutable opponent
// strength table injected at construction.
type Engine struct {
	alpha         float64
	window        int
	ratings       map[string]int
	minMultiplier float64
	maxMultiplier float64
	doubtfulFloor float64
}

// New creates a feature engine with configuration options.
func New(opts ...Option) *Engine {
	e := &Engine{
		alpha:         defaultAlpha,
		window:        defaultFixtureWindow,
		ratings:       map[string]int{},
		minMultiplier: defaultMinMultiplier,
		maxMultiplier: defaultMaxMultiplier,
		doubtfulFloor: defaultDoubtfulFloor,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Derive computes the full signal bundle for one player.
// Sparse history degrades to neutral defaults with LowData set; a
// contract violation (negative points, blank opponent id) errors.
func (e *Engine) Derive(ctx context.Context, p model.Player) (Bundle, error) {
	select {
	case <-ctx.Done():
		return Bundle{}, fmt.Errorf("feature derivation cancelled: %w", ctx.Err())
	default:
	}

	if err := validate(p); err != nil {
		return Bundle{}, err
	}

	mult := e.fixtureMultiplier(p.NextOpponents)
	b := Bundle{
		PlayerID:          p.ID,
		FormScore:         e.formScore(p.RecentPoints),
		FixtureMultiplier: mult,
		FixtureRisk:       e.fixtureRisk(mult),
		StatusWeight:      e.statusWeight(p.Status),
		Consistency:       consistency(p.RecentPoints),
		GamesPlayed:       p.GamesPlayed,
		LowData:           len(p.RecentPoints) == 0,
	}
	b.StarterProbability = starterProbability(b.StatusWeight, p.MinutesPlayed, p.GamesPlayed)
	return b, nil
}

func validate(p model.Player) error {
	for _, pts := range p.RecentPoints {
		if pts < 0 {
			return fmt.Errorf("player %s: negative recent points %v: %w", p.ID, pts, ErrInvalidInput)
		}
	}
	for _, opp := range p.NextOpponents {
		if opp == "" {
			return fmt.Errorf("player %s: blank opponent id in fixture list: %w", p.ID, ErrInvalidInput)
		}
	}
	return nil
}

// formScore is the exponential moving average over the recent-points
// sequence, seeded with the first observed value.
func (e *Engine) formScore(recent []float64) float64 {
	if len(recent) == 0 {
		return 0
	}
	ema := recent[0]
	for _, pts := range recent[1:] {
		ema = e.alpha*pts + (1-e.alpha)*ema
	}
	return ema
}

// fixtureMultiplier looks up the next window's opponent ratings and
// maps their average inversely onto a bounded multiplier.
func (e *Engine) fixtureMultiplier(opponents []string) float64 {
	if len(opponents) > e.window {
		opponents = opponents[:e.window]
	}
	if len(opponents) == 0 {
		return 1.0
	}
	var sum float64
	for _, opp := range opponents {
		r, ok := e.ratings[opp]
		if !ok {
			sum += neutralRating
			continue
		}
		sum += float64(r)
	}
	avg := sum / float64(len(opponents))
	mult := multiplierIntercept - multiplierSlope*avg
	return clamp(mult, e.minMultiplier, e.maxMultiplier)
}

// fixtureRisk normalizes the multiplier into [0,1]; the easiest bound
// maps to 0 risk, the hardest to 1.
func (e *Engine) fixtureRisk(mult float64) float64 {
	span := e.maxMultiplier - e.minMultiplier
	if span <= 0 {
		return 0
	}
	return clamp((e.maxMultiplier-mult)/span, 0, 1)
}

func (e *Engine) statusWeight(s model.Status) float64 {
	switch s {
	case model.Injured, model.Suspended:
		return 0
	case model.Doubtful:
		return e.doubtfulFloor
	default:
		return 1
	}
}

// starterProbability blends the status gate with the recent
// minutes-per-game share. Unknown playing time assumes a moderate share.
func starterProbability(statusWeight float64, minutes, games int) float64 {
	share := unknownMinutesShare
	if games > 0 {
		share = math.Min(float64(minutes)/(float64(games)*fullMatchMinutes), 1.0)
	}
	return clamp(statusWeight*(minutesBlendBase+minutesBlendSpan*share), 0, 1)
}

// consistency maps the coefficient of variation of recent points onto
// (0,1]; steadier sequences score higher. A single data point yields a
// neutral default to avoid a spurious perfect score.
func consistency(recent []float64) float64 {
	if len(recent) < 2 {
		return neutralConsistency
	}
	mean := stat.Mean(recent, nil)
	if mean == 0 {
		return 0
	}
	cv := stat.StdDev(recent, nil) / mean
	return clamp(math.Exp(-cv), 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
