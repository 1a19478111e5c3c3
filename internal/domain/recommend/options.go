package recommend

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithSellFraction sets the fraction of the positional average below
// which a squad player becomes a sell candidate.
func WithSellFraction(f float64) Option {
	return func(e *Engine) {
		if f > 0 && f <= 1 {
			e.sellFraction = f
		}
	}
}

// WithSellRiskThreshold sets the risk score a sell candidate must
// exceed.
func WithSellRiskThreshold(t float64) Option {
	return func(e *Engine) {
		if t >= 0 && t <= 1 {
			e.sellRiskThreshold = t
		}
	}
}

// WithTopBuys caps the length of the market buy list.
func WithTopBuys(k int) Option {
	return func(e *Engine) {
		if k > 0 {
			e.topBuys = k
		}
	}
}

// WithSwapMargin sets the minimum risk-adjusted points gain a swap
// must clear.
func WithSwapMargin(m float64) Option {
	return func(e *Engine) {
		if m >= 0 {
			e.swapMargin = m
		}
	}
}

// WithRiskPenalty sets how many expected points one unit of risk
// costs in swap comparisons.
func WithRiskPenalty(p float64) Option {
	return func(e *Engine) {
		if p >= 0 {
			e.riskPenalty = p
		}
	}
}

// WithMaxSwaps caps the length of the swap list.
func WithMaxSwaps(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxSwaps = n
		}
	}
}

// WithOwnershipThreshold sets the rival-ownership fraction above which
// a player stops being a differential.
func WithOwnershipThreshold(t float64) Option {
	return func(e *Engine) {
		if t >= 0 && t <= 1 {
			e.ownershipThreshold = t
		}
	}
}

// WithMaxDifferentials caps the length of the differential list.
func WithMaxDifferentials(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxDifferentials = n
		}
	}
}
