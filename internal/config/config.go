// Package config provides configuration for the chess engine and its tools.
package config

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/lgbarn/chess-engine-go/internal/errors"
)

// Config holds all program configuration.
type Config struct {
	Search    *SearchConfig
	Output    *OutputConfig
	Duplicate *DuplicateConfig

	Verbosity int // 0=warnings only, 1=progress, 2=search diagnostics

	// Workers is the number of parallel searches in batch analysis.
	Workers int

	// Output streams
	OutputFile io.Writer
	LogFile    io.Writer
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Search:     NewSearchConfig(),
		Output:     NewOutputConfig(),
		Duplicate:  NewDuplicateConfig(),
		Verbosity:  1,
		Workers:    runtime.NumCPU(),
		OutputFile: os.Stdout,
		LogFile:    os.Stderr,
	}
}

// Validate checks the configuration for values the engine cannot run with.
func (c *Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d: %w", c.Workers, errors.ErrInvalidConfig)
	}
	if c.Verbosity < 0 {
		return fmt.Errorf("verbosity must not be negative: %w", errors.ErrInvalidConfig)
	}
	if c.Search == nil {
		return fmt.Errorf("missing search settings: %w", errors.ErrInvalidConfig)
	}
	return c.Search.Validate()
}
