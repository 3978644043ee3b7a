package config

import (
	"fmt"
	"time"

	"github.com/lgbarn/chess-engine-go/internal/errors"
)

// SearchMode selects how deep the engine searches.
type SearchMode int

const (
	// IterativeDeepening searches depth 1, 2, ... until cancelled.
	IterativeDeepening SearchMode = iota
	// FixedDepth runs a single search to SearchConfig.FixedDepth.
	FixedDepth
)

// String returns the string representation of a search mode.
func (m SearchMode) String() string {
	if m == FixedDepth {
		return "fixed-depth"
	}
	return "iterative-deepening"
}

// Search limits.
const (
	MaxSearchDepth       = 128
	DefaultMaxExtensions = 16
	DefaultTTSizeMB      = 64
	DefaultTimeLimit     = time.Second
)

// SearchConfig holds the settings of a single searcher.
type SearchConfig struct {
	// Mode selects iterative deepening or fixed depth
	Mode SearchMode

	// FixedDepth is the search depth in FixedDepth mode
	FixedDepth int

	// MaxDepth caps iterative deepening (0 means MaxSearchDepth)
	MaxDepth int

	// TimeLimit is the per-move budget enforced by the caller; 0 means no limit
	TimeLimit time.Duration

	// UseTT enables the transposition table
	UseTT bool

	// TTSizeMB is the transposition table size in megabytes
	TTSizeMB int

	// QuiescenceChecks also searches quiet checking moves in quiescence
	QuiescenceChecks bool

	// MaxExtensions caps the search extensions along one line
	MaxExtensions int
}

// NewSearchConfig creates a SearchConfig with default values.
func NewSearchConfig() *SearchConfig {
	return &SearchConfig{
		Mode:          IterativeDeepening,
		FixedDepth:    5,
		TimeLimit:     DefaultTimeLimit,
		UseTT:         true,
		TTSizeMB:      DefaultTTSizeMB,
		MaxExtensions: DefaultMaxExtensions,
	}
}

// DepthLimit returns the deepest iteration the searcher may start.
func (c *SearchConfig) DepthLimit() int {
	if c.MaxDepth <= 0 || c.MaxDepth > MaxSearchDepth {
		return MaxSearchDepth
	}
	return c.MaxDepth
}

// Validate checks the search settings.
func (c *SearchConfig) Validate() error {
	if c.Mode == FixedDepth && (c.FixedDepth < 1 || c.FixedDepth > MaxSearchDepth) {
		return fmt.Errorf("fixed depth %d out of range 1-%d: %w", c.FixedDepth, MaxSearchDepth, errors.ErrInvalidConfig)
	}
	if c.TTSizeMB < 0 {
		return fmt.Errorf("transposition table size must not be negative: %w", errors.ErrInvalidConfig)
	}
	if c.UseTT && c.TTSizeMB == 0 {
		return fmt.Errorf("transposition table enabled with zero size: %w", errors.ErrInvalidConfig)
	}
	if c.TimeLimit < 0 {
		return fmt.Errorf("negative time limit %v: %w", c.TimeLimit, errors.ErrInvalidConfig)
	}
	if c.MaxExtensions < 0 {
		return fmt.Errorf("negative extension limit: %w", errors.ErrInvalidConfig)
	}
	return nil
}
