// Package model contains domain models passed between layers.
package model

// Position identifies a player's role on the pitch.
type Position string

// Recognized positions.
const (
	Goalkeeper Position = "GK"
	Defender   Position = "DEF"
	Midfielder Position = "MID"
	Forward    Position = "FWD"
)

// Status is a player's availability for the next fixtures.
type Status string

// Recognized availability statuses.
const (
	Available Status = "available"
	Injured   Status = "injured"
	Suspended Status = "suspended"
	Doubtful  Status = "doubtful"
)

// Player is one entry in a squad or market listing.
// RecentPoints is chronological, most recent last.
type Player struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Team          string    `json:"team"`
	Position      Position  `json:"position"`
	Price         float64   `json:"price"` // millions, must be > 0
	TotalPoints   int       `json:"total_points"`
	RecentPoints  []float64 `json:"recent_points"`
	Status        Status    `json:"status"`
	MinutesPlayed int       `json:"minutes_played"`
	GamesPlayed   int       `json:"games_played"`
	NextOpponents []string  `json:"next_opponents"`
	PriceHistory  []float64 `json:"price_history"` // chronological, most recent last
	Ownership     float64   `json:"ownership"`     // [0,1] reported league-wide ownership share, used when no rival squads are supplied
}

// Squad is the manager's owned players plus budget accounting.
type Squad struct {
	Players       []Player `json:"players"`
	Bankroll      float64  `json:"bankroll"`
	TotalValue    float64  `json:"total_value"`
	TransfersMade int      `json:"transfers_made"`
}

// Validate checks the squad's budget invariant: the sum of player
// prices never exceeds the declared total value.
func (s Squad) Validate() error {
	if s.Bankroll < 0 {
		return ErrBudgetInvariant
	}
	var sum float64
	for i := range s.Players {
		sum += s.Players[i].Price
	}
	// Small epsilon tolerates float accumulation from loaders.
	if sum > s.TotalValue+1e-9 {
		return ErrBudgetInvariant
	}
	return nil
}

// Market is the set of players currently available to acquire.
type Market struct {
	Players []Player `json:"players"`
}

// RivalSquad is a read-only view of a competitor's squad, used only
// for ownership overlap in differential analysis.
type RivalSquad struct {
	ManagerID string   `json:"manager_id"`
	PlayerIDs []string `json:"player_ids"`
}

// Skipped names a player excluded from a batch and the reason the
// pipeline could not assess them.
type Skipped struct {
	PlayerID string `json:"player_id"`
	Reason   string `json:"reason"`
}

// Owns reports whether the rival squad contains the given player.
func (r RivalSquad) Owns(playerID string) bool {
	for _, id := range r.PlayerIDs {
		if id == playerID {
			return true
		}
	}
	return false
}
