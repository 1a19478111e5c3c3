// Package loader reads squad, market, and rival files from disk so the
// engine can run against exported game data.
package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/okian/gaffer/internal/domain/model"
)

// Loader reads engine inputs from JSON files.
type Loader struct{}

// New creates a file loader.
func New() *Loader {
	return &Loader{}
}

// Squad reads and validates a squad file.
func (l *Loader) Squad(ctx context.Context, path string) (model.Squad, error) {
	var squad model.Squad
	if err := readJSON(path, &squad); err != nil {
		return model.Squad{}, fmt.Errorf("load squad: %w", err)
	}
	if err := validatePlayers(squad.Players); err != nil {
		return model.Squad{}, fmt.Errorf("load squad: %w", err)
	}
	if err := squad.Validate(); err != nil {
		return model.Squad{}, fmt.Errorf("load squad: %w", err)
	}
	return squad, nil
}

// Market reads and validates a market file.
func (l *Loader) Market(ctx context.Context, path string) (model.Market, error) {
	var market model.Market
	if err := readJSON(path, &market); err != nil {
		return model.Market{}, fmt.Errorf("load market: %w", err)
	}
	if err := validatePlayers(market.Players); err != nil {
		return model.Market{}, fmt.Errorf("load market: %w", err)
	}
	return market, nil
}

// Rivals reads a rival squads file. A missing path yields no rivals
// rather than an error; differential analysis simply stays empty.
func (l *Loader) Rivals(ctx context.Context, path string) ([]model.RivalSquad, error) {
	if path == "" {
		return nil, nil
	}
	var rivals []model.RivalSquad
	if err := readJSON(path, &rivals); err != nil {
		return nil, fmt.Errorf("load rivals: %w", err)
	}
	for i := range rivals {
		if rivals[i].ManagerID == "" {
			return nil, fmt.Errorf("load rivals: entry %d: %w", i, ErrMissingManagerID)
		}
	}
	return rivals, nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// validatePlayers rejects files the engines would choke on later:
// blank or duplicate ids.
func validatePlayers(players []model.Player) error {
	seen := make(map[string]bool, len(players))
	for i := range players {
		id := players[i].ID
		if id == "" {
			return fmt.Errorf("player %d: %w", i, ErrMissingPlayerID)
		}
		if seen[id] {
			return fmt.Errorf("player %s: %w", id, ErrDuplicatePlayerID)
		}
		seen[id] = true
	}
	return nil
}
