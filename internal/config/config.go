// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Keep fields unexported where possible and use functional options.
// - Provide New(...Option) initializer to build a Config with defaults.
// - All future functions must accept context.Context as the first parameter.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"context"
	"runtime"

	"github.com/okian/gaffer/internal/domain/valuation"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// WorkerCount sets the size of the per-request evaluation pool.
	WorkerCount int `koanf:"worker_count"`

	// EMAAlpha is the smoothing factor of the form EMA, in (0,1).
	// Higher values weight recent matches more heavily.
	EMAAlpha float64 `koanf:"ema_alpha"`

	// FixtureWindow sets how many upcoming opponents count toward
	// fixture difficulty.
	FixtureWindow int `koanf:"fixture_window"`

	// FixtureRatings maps opponent names to strength ratings (1-5).
	FixtureRatings map[string]int `koanf:"fixture_ratings"`

	// MultiplierMin and MultiplierMax bound the fixture multiplier.
	MultiplierMin float64 `koanf:"multiplier_min"`
	MultiplierMax float64 `koanf:"multiplier_max"`

	// DoubtfulFloor is the starter-probability gate applied to
	// doubtful players.
	DoubtfulFloor float64 `koanf:"doubtful_floor"`

	// ConfidenceFloor bounds forecast confidence from below.
	ConfidenceFloor float64 `koanf:"confidence_floor"`

	// FullSampleGames is the games-played count at which sample size
	// stops penalizing confidence.
	FullSampleGames int `koanf:"full_sample_games"`

	// PointsToMoneyRatio converts expected points to currency.
	PointsToMoneyRatio float64 `koanf:"points_to_money_ratio"`

	// MarketEfficiency discounts raw value toward the market consensus.
	MarketEfficiency float64 `koanf:"market_efficiency"`

	// MinFairValue floors fair value at a nominal minimum.
	MinFairValue float64 `koanf:"min_fair_value"`

	// RiskWeights splits the composite risk score; weights must sum to 1.
	RiskWeights valuation.RiskWeights `koanf:"risk_weights"`

	// KellyCap bounds the fraction of edge a bid may chase.
	KellyCap float64 `koanf:"kelly_cap"`

	// BidCapMultiple bounds the maximum bid as a multiple of price.
	BidCapMultiple float64 `koanf:"bid_cap_multiple"`

	// OddsRiskScale tunes how fast implied odds grow with risk.
	OddsRiskScale float64 `koanf:"odds_risk_scale"`

	// SellFraction and SellRiskThreshold gate sell candidates.
	SellFraction      float64 `koanf:"sell_fraction"`
	SellRiskThreshold float64 `koanf:"sell_risk_threshold"`

	// TopBuys caps the market buy list.
	TopBuys int `koanf:"top_buys"`

	// SwapMargin, RiskPenalty, and MaxSwaps tune swap proposals.
	SwapMargin  float64 `koanf:"swap_margin"`
	RiskPenalty float64 `koanf:"risk_penalty"`
	MaxSwaps    int     `koanf:"max_swaps"`

	// OwnershipThreshold and MaxDifferentials tune differential picks.
	OwnershipThreshold float64 `koanf:"ownership_threshold"`
	MaxDifferentials   int     `koanf:"max_differentials"`
}

// New creates a Config using engine defaults. Context is accepted first to
// satisfy the project-wide convention; it is reserved for future use (e.g.,
// loading from remote sources) and is currently unused.
func New(_ context.Context) *Config {
	c := &Config{
		LogLevel:        "info",
		Addr:            ":9080",
		WorkerCount:     runtime.NumCPU() * 2,
		EMAAlpha:        0.3,
		FixtureWindow:   3,
		FixtureRatings:  defaultFixtureRatings(),
		MultiplierMin:   0.7,
		MultiplierMax:   1.3,
		DoubtfulFloor:   0.3,
		ConfidenceFloor: 0.2,
		FullSampleGames: 10,

		PointsToMoneyRatio: 0.5,
		MarketEfficiency:   0.8,
		MinFairValue:       0.5,
		RiskWeights:        valuation.DefaultRiskWeights(),
		KellyCap:           0.25,
		BidCapMultiple:     1.5,
		OddsRiskScale:      4.0,

		SellFraction:       0.6,
		SellRiskThreshold:  0.6,
		TopBuys:            5,
		SwapMargin:         1.0,
		RiskPenalty:        2.0,
		MaxSwaps:           5,
		OwnershipThreshold: 0.3,
		MaxDifferentials:   10,
	}
	return c
}

// defaultFixtureRatings ships a strength table so the engine works out of the
// box; deployments override it via config file or environment.
func defaultFixtureRatings() map[string]int {
	return map[string]int{
		"Real Madrid":     5,
		"Barcelona":       5,
		"Atletico Madrid": 4,
		"Athletic Bilbao": 4,
		"Real Sociedad":   4,
		"Villarreal":      4,
		"Real Betis":      3,
		"Valencia":        3,
		"Sevilla":         3,
		"Celta Vigo":      3,
		"Osasuna":         3,
		"Rayo Vallecano":  3,
		"Mallorca":        3,
		"Getafe":          2,
		"Girona":          2,
		"Las Palmas":      2,
		"Leganes":         2,
		"Valladolid":      1,
		"Espanyol":        1,
		"Alaves":          1,
	}
}
