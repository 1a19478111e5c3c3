// Package valuation converts forecasts into a fair market price, a
// composite risk score, and a recommended bidding range.
package valuation

import (
	"context"
	"fmt"
	"math"

	"github.com/okian/gaffer/internal/domain/feature"
	"github.com/okian/gaffer/internal/domain/forecast"
	"github.com/okian/gaffer/internal/domain/model"
	"gonum.org/v1/gonum/stat"
)

// Default valuation configuration constants.
const (
	defaultPointsToMoneyRatio = 0.5
	defaultMarketEfficiency   = 0.8
	defaultMinFairValue       = 0.5
	defaultKellyCap           = 0.25
	defaultBidCapMultiple     = 1.5
	defaultOddsRiskScale      = 4.0

	volatilityScale = 10.0

	// Conservative lower end of the bidding range: a small discount on
	// the current price or a deeper one on fair value, whichever is less.
	minBidPriceFactor = 0.95
	minBidFairFactor  = 0.85
)

// RiskWeights splits the composite risk across its factors. The
// weights must sum to 1.
type RiskWeights struct {
	PriceVolatility float64 `koanf:"price_volatility"`
	FormVariance    float64 `koanf:"form_variance"`
	Availability    float64 `koanf:"availability"`
	Rotation        float64 `koanf:"rotation"`
	Fixtures        float64 `koanf:"fixtures"`
}

// DefaultRiskWeights mirrors the tuning the engine ships with.
func DefaultRiskWeights() RiskWeights {
	return RiskWeights{
		PriceVolatility: 0.30,
		FormVariance:    0.25,
		Availability:    0.20,
		Rotation:        0.15,
		Fixtures:        0.10,
	}
}

func (w RiskWeights) sum() float64 {
	return w.PriceVolatility + w.FormVariance + w.Availability + w.Rotation + w.Fixtures
}

// Valid reports whether the weights form a proper split.
func (w RiskWeights) Valid() bool {
	return math.Abs(w.sum()-1) < 1e-6
}

// Valuation is the monetary view of one player. MinBid and MaxBid
// bracket the recommended bidding range around FairValue.
type Valuation struct {
	PlayerID  string  `json:"player_id"`
	FairValue float64 `json:"fair_value"`
	RiskScore float64 `json:"risk_score"` // [0,1]
	MinBid    float64 `json:"min_bid"`
	MaxBid    float64 `json:"max_bid"`
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithPointsToMoneyRatio sets the currency value of one expected point.
func WithPointsToMoneyRatio(r float64) Option {
	return func(e *Engine) {
		if r > 0 {
			e.pointsToMoney = r
		}
	}
}

// WithMarketEfficiency discounts fair value toward the market price
// signal; 1 trusts the model fully.
func WithMarketEfficiency(m float64) Option {
	return func(e *Engine) {
		if m > 0 && m <= 1 {
			e.marketEfficiency = m
		}
	}
}

// WithMinFairValue floors the fair value at a nominal minimum.
func WithMinFairValue(v float64) Option {
	return func(e *Engine) {
		if v >= 0 {
			e.minFairValue = v
		}
	}
}

// WithRiskWeights replaces the composite risk weights. Weights not
// summing to 1 are ignored.
func WithRiskWeights(w RiskWeights) Option {
	return func(e *Engine) {
		if math.Abs(w.sum()-1) < 1e-6 {
			e.riskWeights = w
		}
	}
}

// WithKellyCap bounds the fraction of edge a bid may capture.
func WithKellyCap(cap float64) Option {
	return func(e *Engine) {
		if cap > 0 && cap <= 1 {
			e.kellyCap = cap
		}
	}
}

// WithBidCapMultiple bounds the maximum bid as a multiple of the
// current price.
func WithBidCapMultiple(m float64) Option {
	return func(e *Engine) {
		if m >= 1 {
			e.bidCapMultiple = m
		}
	}
}

// WithOddsRiskScale tunes how quickly the odds proxy grows with risk.
func WithOddsRiskScale(s float64) Option {
	return func(e *Engine) {
		if s >= 0 {
			e.oddsRiskScale = s
		}
	}
}

// Engine appraises players.
type Engine struct {
	pointsToMoney    float64
	marketEfficiency float64
	minFairValue     float64
	riskWeights      RiskWeights
	kellyCap         float64
	bidCapMultiple   float64
	oddsRiskScale    float64
}

// New creates a valuation engine with configuration options.
func New(opts ...Option) *Engine {
	e := &Engine{
		pointsToMoney:    defaultPointsToMoneyRatio,
		marketEfficiency: defaultMarketEfficiency,
		minFairValue:     defaultMinFairValue,
		riskWeights:      DefaultRiskWeights(),
		kellyCap:         defaultKellyCap,
		bidCapMultiple:   defaultBidCapMultiple,
		oddsRiskScale:    defaultOddsRiskScale,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Appraise produces the valuation for one player. A zero or missing
// price is a caller contract violation and fails before any division.
func (e *Engine) Appraise(ctx context.Context, p model.Player, b feature.Bundle, f forecast.Forecast) (Valuation, error) {
	select {
	case <-ctx.Done():
		return Valuation{}, fmt.Errorf("valuation cancelled: %w", ctx.Err())
	default:
	}

	if p.Price <= 0 {
		return Valuation{}, fmt.Errorf("player %s: price must be positive, got %v: %w", p.ID, p.Price, ErrInvalidInput)
	}

	fair := math.Max(e.minFairValue, f.ExpectedPoints*e.pointsToMoney*e.marketEfficiency)
	risk := e.riskScore(p, b)
	minBid := e.minBid(p.Price, fair)

	return Valuation{
		PlayerID:  p.ID,
		FairValue: fair,
		RiskScore: risk,
		MinBid:    minBid,
		MaxBid:    math.Max(minBid, e.maxBid(p.Price, fair, risk)),
	}, nil
}

// minBid is the conservative floor of the bidding range, never below
// the minimum fair value.
func (e *Engine) minBid(price, fair float64) float64 {
	return math.Max(e.minFairValue, math.Min(price*minBidPriceFactor, fair*minBidFairFactor))
}

// riskScore is the weighted sum of five normalized factors, clipped
// to [0,1].
func (e *Engine) riskScore(p model.Player, b feature.Bundle) float64 {
	w := e.riskWeights
	score := w.PriceVolatility*priceVolatility(p.PriceHistory) +
		w.FormVariance*(1-b.Consistency) +
		w.Availability*(1-b.StatusWeight) +
		w.Rotation*(1-b.StarterProbability) +
		w.Fixtures*b.FixtureRisk
	return clamp(score, 0, 1)
}

// priceVolatility measures the dispersion of relative price changes.
// Fewer than two observations reads as calm, not risky.
func priceVolatility(history []float64) float64 {
	if len(history) < 2 {
		return 0
	}
	changes := make([]float64, 0, len(history)-1)
	for i := 1; i < len(history); i++ {
		if history[i-1] <= 0 {
			continue
		}
		changes = append(changes, math.Abs(history[i]-history[i-1])/history[i-1])
	}
	if len(changes) < 2 {
		return 0
	}
	return clamp(stat.StdDev(changes, nil)*volatilityScale, 0, 1)
}

// maxBid sizes the bid Kelly-style: the captured fraction of edge
// shrinks as the odds proxy grows with risk. When fair value offers no
// premium over price, the bid is the price itself.
func (e *Engine) maxBid(price, fair, risk float64) float64 {
	if fair <= price {
		return price
	}
	edge := (fair - price) / price
	oddsProxy := 1 + e.oddsRiskScale*risk
	fraction := clamp(edge/oddsProxy, 0, e.kellyCap)
	return math.Min(price*(1+fraction), price*e.bidCapMultiple)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
