package sampledata

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/gaffer/internal/adapters/loader"
	"github.com/okian/gaffer/internal/domain/model"
	"github.com/okian/gaffer/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
	filePermission      = 0600
)

// Generated file names, shared with the read-back path.
const (
	squadFile  = "squad.json"
	marketFile = "market.json"
	rivalsFile = "rivals.json"
)

// Run generates squad, market, and rival files, and optionally submits
// them to a running service.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "generating sample data",
		logger.Int("squad", config.SquadSize),
		logger.Int("market", config.MarketSize),
		logger.Int("rivals", config.RivalCount),
		logger.String("outputDir", config.OutputDir),
		logger.Any("submit", config.Submit))

	squad := GenerateSquad(config.SquadSize)
	market := GenerateMarket(config.MarketSize)

	pool := append(append([]model.Player{}, squad.Players...), market.Players...)
	rivals := GenerateRivals(config.RivalCount, pool)

	stats.SquadGenerated = len(squad.Players)
	stats.MarketGenerated = len(market.Players)
	stats.RivalsGenerated = len(rivals)

	if err := writeFiles(ctx, config, squad, market, rivals, stats); err != nil {
		return fmt.Errorf("write sample files: %w", err)
	}

	if config.Submit {
		// Round-trip through the loader so the posted payload is exactly
		// what the files parse and validate to.
		loadedSquad, loadedMarket, loadedRivals, err := loadGenerated(ctx, config.OutputDir)
		if err != nil {
			return fmt.Errorf("reload sample files: %w", err)
		}
		if err := submit(ctx, config, loadedSquad, loadedMarket, loadedRivals); err != nil {
			return fmt.Errorf("submit sample data: %w", err)
		}
		stats.Submitted = true
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	logger.Get().Info(ctx, "sample data generation completed",
		logger.Int("squad", stats.SquadGenerated),
		logger.Int("market", stats.MarketGenerated),
		logger.Int("rivals", stats.RivalsGenerated),
		logger.Int("files", stats.FilesWritten),
		logger.Duration("duration", stats.Duration))

	return nil
}

// writeFiles persists the three inputs of a recommendation run.
func writeFiles(ctx context.Context, config *Config, squad model.Squad, market model.Market, rivals []model.RivalSquad, stats *Stats) error {
	if err := os.MkdirAll(config.OutputDir, directoryPermission); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	files := map[string]any{
		squadFile:  squad,
		marketFile: market,
		rivalsFile: rivals,
	}
	for name, v := range files {
		path := filepath.Join(config.OutputDir, name)
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal %s: %w", name, err)
		}
		if err := os.WriteFile(path, data, filePermission); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
		stats.FilesWritten++
		logger.Get().Debug(ctx, "wrote sample file", logger.String("path", path))
	}
	return nil
}

// loadGenerated reads the generated files back through the file loader,
// applying its full validation.
func loadGenerated(ctx context.Context, dir string) (model.Squad, model.Market, []model.RivalSquad, error) {
	ld := loader.New()

	squad, err := ld.Squad(ctx, filepath.Join(dir, squadFile))
	if err != nil {
		return model.Squad{}, model.Market{}, nil, err
	}
	market, err := ld.Market(ctx, filepath.Join(dir, marketFile))
	if err != nil {
		return model.Squad{}, model.Market{}, nil, err
	}
	rivals, err := ld.Rivals(ctx, filepath.Join(dir, rivalsFile))
	if err != nil {
		return model.Squad{}, model.Market{}, nil, err
	}
	return squad, market, rivals, nil
}
