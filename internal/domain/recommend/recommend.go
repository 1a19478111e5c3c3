// Package recommend ranks squad and market players into actionable
// lists: sell candidates, market buys, swap proposals, and
// differential picks.
package recommend

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/okian/gaffer/internal/domain/feature"
	"github.com/okian/gaffer/internal/domain/forecast"
	"github.com/okian/gaffer/internal/domain/model"
	"github.com/okian/gaffer/internal/domain/valuation"
	"gonum.org/v1/gonum/stat"
)

// Default recommendation configuration constants.
const (
	defaultSellFraction       = 0.6
	defaultSellRiskThreshold  = 0.6
	defaultTopBuys            = 5
	defaultSwapMargin         = 1.0
	defaultRiskPenalty        = 2.0
	defaultMaxSwaps           = 5
	defaultOwnershipThreshold = 0.3
	defaultMaxDifferentials   = 10

	// Floors the price delta in the swap ranking so free swaps do not
	// divide by zero.
	minPriceDelta = 0.1

	undervaluedMargin = 0.1
	fixtureMargin     = 0.05
	formScale         = 10.0
)

// Action labels a recommendation.
type Action string

// Recognized actions.
const (
	ActionSell         Action = "sell"
	ActionBuy          Action = "buy"
	ActionDifferential Action = "differential"
)

// Assessment bundles everything the pipeline derived for one player.
type Assessment struct {
	Player    model.Player        `json:"player"`
	Bundle    feature.Bundle      `json:"bundle"`
	Forecast  forecast.Forecast   `json:"forecast"`
	Valuation valuation.Valuation `json:"valuation"`
}

// Input is a full evaluation request: the manager's squad, the market,
// optional rival squads, and per-player assessments. Skipped lists
// players whose assessment failed; they are excluded from every
// ranking rather than aborting the evaluation.
type Input struct {
	Squad       model.Squad           `json:"squad"`
	Market      model.Market          `json:"market"`
	Rivals      []model.RivalSquad    `json:"rivals,omitempty"`
	Assessments map[string]Assessment `json:"assessments"`
	Skipped     []string              `json:"skipped,omitempty"`
}

// Recommendation is one ranked (player, action, justification,
// magnitude) tuple.
type Recommendation struct {
	PlayerID      string  `json:"player_id"`
	Action        Action  `json:"action"`
	Justification string  `json:"justification"`
	Magnitude     float64 `json:"magnitude"`
}

// Swap pairs a squad player to drop with a market player to acquire.
type Swap struct {
	SellID        string  `json:"sell_id"`
	BuyID         string  `json:"buy_id"`
	PointsGain    float64 `json:"points_gain"`
	PriceDelta    float64 `json:"price_delta"`
	Score         float64 `json:"score"` // gain per unit price delta
	Justification string  `json:"justification"`
}

// Output carries the ranked action lists. Ordering is deterministic
// for identical inputs.
type Output struct {
	SellCandidates []Recommendation `json:"sell_candidates"`
	Buys           []Recommendation `json:"buys"`
	Swaps          []Swap           `json:"swaps"`
	Differentials  []Recommendation `json:"differentials"`
	Skipped        []string         `json:"skipped,omitempty"`
}

// Engine produces recommendations from assessed squads and markets.
type Engine struct {
	sellFraction       float64
	sellRiskThreshold  float64
	topBuys            int
	swapMargin         float64
	riskPenalty        float64
	maxSwaps           int
	ownershipThreshold float64
	maxDifferentials   int
}

// New creates a recommendation engine with configuration options.
func New(opts ...Option) *Engine {
	e := &Engine{
		sellFraction:       defaultSellFraction,
		sellRiskThreshold:  defaultSellRiskThreshold,
		topBuys:            defaultTopBuys,
		swapMargin:         defaultSwapMargin,
		riskPenalty:        defaultRiskPenalty,
		maxSwaps:           defaultMaxSwaps,
		ownershipThreshold: defaultOwnershipThreshold,
		maxDifferentials:   defaultMaxDifferentials,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Advise ranks every action list from the supplied assessments.
// Players listed in Skipped are ignored throughout.
func (e *Engine) Advise(_ context.Context, in Input) Output {
	skipped := make(map[string]bool, len(in.Skipped))
	for _, id := range in.Skipped {
		skipped[id] = true
	}

	squad := e.assessed(in.Squad.Players, in.Assessments, skipped)
	market := e.assessed(in.Market.Players, in.Assessments, skipped)

	return Output{
		SellCandidates: e.sellCandidates(squad),
		Buys:           e.buys(market),
		Swaps:          e.swaps(squad, market, in.Squad.Bankroll),
		Differentials:  e.differentials(squad, market, in.Rivals),
		Skipped:        append([]string(nil), in.Skipped...),
	}
}

// assessed resolves players to their assessments, dropping skipped and
// unassessed entries while preserving input order.
func (e *Engine) assessed(players []model.Player, byID map[string]Assessment, skipped map[string]bool) []Assessment {
	out := make([]Assessment, 0, len(players))
	for i := range players {
		id := players[i].ID
		if skipped[id] {
			continue
		}
		a, ok := byID[id]
		if !ok {
			continue
		}
		out = append(out, a)
	}
	return out
}

// sellCandidates flags squad players whose expected points fall below
// the configured fraction of their positional average while carrying
// elevated risk. Ties break on the lowest value-per-price ratio.
func (e *Engine) sellCandidates(squad []Assessment) []Recommendation {
	avgByPos := positionalAverages(squad)

	out := make([]Recommendation, 0)
	for _, a := range squad {
		threshold := e.sellFraction * avgByPos[a.Player.Position]
		if a.Forecast.ExpectedPoints >= threshold {
			continue
		}
		if a.Valuation.RiskScore <= e.sellRiskThreshold {
			continue
		}
		out = append(out, Recommendation{
			PlayerID: a.Player.ID,
			Action:   ActionSell,
			Justification: fmt.Sprintf("expected %.1f pts below positional bar %.1f with risk %.2f",
				a.Forecast.ExpectedPoints, threshold, a.Valuation.RiskScore),
			Magnitude: valueRatio(a),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Magnitude != out[j].Magnitude {
			return out[i].Magnitude < out[j].Magnitude
		}
		return out[i].PlayerID < out[j].PlayerID
	})
	return out
}

// buys ranks market players descending by expected points per unit
// price and keeps the top K.
func (e *Engine) buys(market []Assessment) []Recommendation {
	out := make([]Recommendation, 0, len(market))
	for _, a := range market {
		out = append(out, Recommendation{
			PlayerID:      a.Player.ID,
			Action:        ActionBuy,
			Justification: dominantFactor(a),
			Magnitude:     valueRatio(a),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Magnitude != out[j].Magnitude {
			return out[i].Magnitude > out[j].Magnitude
		}
		return out[i].PlayerID < out[j].PlayerID
	})

	if len(out) > e.topBuys {
		out = out[:e.topBuys]
	}
	return out
}

// dominantFactor names the strongest contributor to a buy: current
// form, the fixture run, or mispricing against fair value.
func dominantFactor(a Assessment) string {
	form := a.Bundle.FormScore / formScale
	fixtures := a.Bundle.FixtureMultiplier - 1
	underval := 0.0
	if a.Player.Price > 0 {
		underval = a.Valuation.FairValue/a.Player.Price - 1
	}

	switch {
	case underval > undervaluedMargin && underval >= fixtures && underval >= form:
		return fmt.Sprintf("priced %.0f%% below fair value", underval*100)
	case fixtures > fixtureMargin && fixtures >= form:
		return fmt.Sprintf("favourable fixture run (multiplier %.2f)", a.Bundle.FixtureMultiplier)
	default:
		return fmt.Sprintf("strong recent form (%.1f)", a.Bundle.FormScore)
	}
}

// swaps proposes same-position drop/acquire pairs where the
// risk-penalized expected gain clears the margin and the price delta
// fits the bankroll. Ranked by gain per unit price delta.
func (e *Engine) swaps(squad, market []Assessment, bankroll float64) []Swap {
	out := make([]Swap, 0)
	for _, drop := range squad {
		for _, buy := range market {
			if buy.Player.Position != drop.Player.Position {
				continue
			}
			delta := buy.Player.Price - drop.Player.Price
			if delta > bankroll {
				continue
			}
			gain := adjustedPoints(buy, e.riskPenalty) - adjustedPoints(drop, e.riskPenalty)
			if gain < e.swapMargin {
				continue
			}
			out = append(out, Swap{
				SellID:     drop.Player.ID,
				BuyID:      buy.Player.ID,
				PointsGain: gain,
				PriceDelta: delta,
				Score:      gain / math.Max(delta, minPriceDelta),
				Justification: fmt.Sprintf("+%.1f risk-adjusted pts for %.1f price delta",
					gain, delta),
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		if out[i].SellID != out[j].SellID {
			return out[i].SellID < out[j].SellID
		}
		return out[i].BuyID < out[j].BuyID
	})

	if len(out) > e.maxSwaps {
		out = out[:e.maxSwaps]
	}
	return out
}

func adjustedPoints(a Assessment, penalty float64) float64 {
	return a.Forecast.ExpectedPoints - penalty*a.Valuation.RiskScore
}

// differentials surfaces players owned by few (or no) rivals whose
// expected points clear the positional median of the candidate pool,
// ranked by expected points weighted by scarcity of ownership. Without
// rival squads the player's reported ownership share stands in.
func (e *Engine) differentials(squad, market []Assessment, rivals []model.RivalSquad) []Recommendation {
	pool := make([]Assessment, 0, len(squad)+len(market))
	seen := make(map[string]bool, len(squad)+len(market))
	for _, a := range append(append([]Assessment{}, squad...), market...) {
		if seen[a.Player.ID] {
			continue
		}
		seen[a.Player.ID] = true
		pool = append(pool, a)
	}

	medians := positionalMedians(pool)

	out := make([]Recommendation, 0)
	for _, a := range pool {
		ownership, held := ownershipShare(a.Player, rivals)
		if ownership > e.ownershipThreshold {
			continue
		}
		if a.Forecast.ExpectedPoints <= medians[a.Player.Position] {
			continue
		}
		out = append(out, Recommendation{
			PlayerID:      a.Player.ID,
			Action:        ActionDifferential,
			Justification: fmt.Sprintf("%s, expected %.1f pts", held, a.Forecast.ExpectedPoints),
			Magnitude:     a.Forecast.ExpectedPoints * (1 - ownership),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Magnitude != out[j].Magnitude {
			return out[i].Magnitude > out[j].Magnitude
		}
		return out[i].PlayerID < out[j].PlayerID
	})

	if len(out) > e.maxDifferentials {
		out = out[:e.maxDifferentials]
	}
	return out
}

// ownershipShare measures how widely held a player is: the fraction of
// rivals owning them, or the player's reported ownership share when no
// rival squads were supplied. The second return describes the source
// for justifications.
func ownershipShare(p model.Player, rivals []model.RivalSquad) (float64, string) {
	if len(rivals) == 0 {
		share := math.Max(0, math.Min(1, p.Ownership))
		return share, fmt.Sprintf("%.0f%% reported ownership", share*100)
	}
	owned := 0
	for _, r := range rivals {
		if r.Owns(p.ID) {
			owned++
		}
	}
	return float64(owned) / float64(len(rivals)), fmt.Sprintf("owned by %d of %d rivals", owned, len(rivals))
}

func valueRatio(a Assessment) float64 {
	if a.Player.Price <= 0 {
		return 0
	}
	return a.Forecast.ExpectedPoints / a.Player.Price
}

func positionalAverages(pool []Assessment) map[model.Position]float64 {
	byPos := groupExpected(pool)
	out := make(map[model.Position]float64, len(byPos))
	for pos, vals := range byPos {
		out[pos] = stat.Mean(vals, nil)
	}
	return out
}

func positionalMedians(pool []Assessment) map[model.Position]float64 {
	byPos := groupExpected(pool)
	out := make(map[model.Position]float64, len(byPos))
	for pos, vals := range byPos {
		sort.Float64s(vals)
		out[pos] = stat.Quantile(0.5, stat.Empirical, vals, nil)
	}
	return out
}

func groupExpected(pool []Assessment) map[model.Position][]float64 {
	byPos := make(map[model.Position][]float64)
	for _, a := range pool {
		byPos[a.Player.Position] = append(byPos[a.Player.Position], a.Forecast.ExpectedPoints)
	}
	return byPos
}
