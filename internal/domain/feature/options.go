package feature

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithAlpha sets the EMA smoothing factor. Values outside (0,1) are
// ignored and the default is kept.
func WithAlpha(alpha float64) Option {
	return func(e *Engine) {
		if alpha > 0 && alpha < 1 {
			e.alpha = alpha
		}
	}
}

// WithFixtureWindow sets how many upcoming opponents are considered.
func WithFixtureWindow(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.window = n
		}
	}
}

// WithRatings injects the opponent strength table (1 = weakest,
// 5 = strongest). The map is copied so later caller mutation cannot
// leak into the engine.
func WithRatings(ratings map[string]int) Option {
	return func(e *Engine) {
		e.ratings = make(map[string]int, len(ratings))
		for team, r := range ratings {
			e.ratings[team] = r
		}
	}
}

// WithMultiplierBounds bounds the fixture multiplier range.
func WithMultiplierBounds(minMult, maxMult float64) Option {
	return func(e *Engine) {
		if minMult > 0 && maxMult > minMult {
			e.minMultiplier = minMult
			e.maxMultiplier = maxMult
		}
	}
}

// WithDoubtfulFloor sets the starter-probability gate applied to
// players flagged doubtful.
func WithDoubtfulFloor(floor float64) Option {
	return func(e *Engine) {
		if floor >= 0 && floor <= 1 {
			e.doubtfulFloor = floor
		}
	}
}
