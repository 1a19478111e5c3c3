package sampledata

import "time"

// Config holds configuration for sample data generation.
type Config struct {
	BaseURL    string        // Base URL of the service for submit mode
	OutputDir  string        // Directory for generated JSON files
	SquadSize  int           // Number of squad players to generate
	MarketSize int           // Number of market players to generate
	RivalCount int           // Number of rival squads to generate
	Timeout    time.Duration // HTTP request timeout
	Submit     bool          // Also submit the generated data to the service
	Verbose    bool          // Enable verbose logging
}

// Stats holds generation statistics.
type Stats struct {
	SquadGenerated  int
	MarketGenerated int
	RivalsGenerated int
	FilesWritten    int
	Submitted       bool
	StartTime       time.Time
	EndTime         time.Time
	Duration        time.Duration
}
