package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/okian/gaffer/internal/sampledata"
	"github.com/okian/gaffer/pkg/logger"
)

// Default configuration constants.
const (
	defaultSquadSize  = 15
	defaultMarketSize = 30
	defaultRivalCount = 5
	defaultTimeout    = 30 * time.Second
	defaultRunTimeout = 5 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:9080", "Base URL of the service for submit mode")
		outputDir  = flag.String("out", "sampledata", "Directory for generated JSON files")
		squadSize  = flag.Int("squad", defaultSquadSize, "Number of squad players to generate")
		marketSize = flag.Int("market", defaultMarketSize, "Number of market players to generate")
		rivalCount = flag.Int("rivals", defaultRivalCount, "Number of rival squads to generate")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		submit     = flag.Bool("submit", false, "Also submit the generated data to the service")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n")
		return
	}
	defer func() {
		_ = logger.Sync()
	}()
	if *verbose {
		if err := logger.SetLevelString("debug"); err != nil {
			os.Stderr.WriteString("Failed to set log level: " + err.Error() + "\n")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	config := &sampledata.Config{
		BaseURL:    *baseURL,
		OutputDir:  *outputDir,
		SquadSize:  *squadSize,
		MarketSize: *marketSize,
		RivalCount: *rivalCount,
		Timeout:    *timeout,
		Submit:     *submit,
		Verbose:    *verbose,
	}

	if err := sampledata.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Sample data generation failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
