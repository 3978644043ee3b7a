package config

import (
	"io"
	"time"
)

// ConfigBuilder provides a fluent API for building Config instances.
type ConfigBuilder struct {
	cfg *Config
}

// NewConfigBuilder creates a new ConfigBuilder with default values.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{
		cfg: NewConfig(),
	}
}

// Build returns the built Config.
func (b *ConfigBuilder) Build() *Config {
	return b.cfg
}

// WithMode sets the search mode.
func (b *ConfigBuilder) WithMode(mode SearchMode) *ConfigBuilder {
	b.cfg.Search.Mode = mode
	return b
}

// WithFixedDepth switches to fixed-depth search at the given depth.
func (b *ConfigBuilder) WithFixedDepth(depth int) *ConfigBuilder {
	b.cfg.Search.Mode = FixedDepth
	b.cfg.Search.FixedDepth = depth
	return b
}

// WithMaxDepth caps iterative deepening.
func (b *ConfigBuilder) WithMaxDepth(depth int) *ConfigBuilder {
	b.cfg.Search.MaxDepth = depth
	return b
}

// WithTimeLimit sets the per-move time budget.
func (b *ConfigBuilder) WithTimeLimit(d time.Duration) *ConfigBuilder {
	b.cfg.Search.TimeLimit = d
	return b
}

// WithTTSize sets the transposition table size; 0 disables the table.
func (b *ConfigBuilder) WithTTSize(megabytes int) *ConfigBuilder {
	b.cfg.Search.TTSizeMB = megabytes
	b.cfg.Search.UseTT = megabytes > 0
	return b
}

// WithQuiescenceChecks enables quiet checks in quiescence search.
func (b *ConfigBuilder) WithQuiescenceChecks(enabled bool) *ConfigBuilder {
	b.cfg.Search.QuiescenceChecks = enabled
	return b
}

// WithJSONOutput enables JSON output.
func (b *ConfigBuilder) WithJSONOutput(enabled bool) *ConfigBuilder {
	if enabled {
		b.cfg.Output.Format = JSONOutput
	} else {
		b.cfg.Output.Format = TextOutput
	}
	return b
}

// WithDuplicateSuppression skips repeated positions in batch analysis.
func (b *ConfigBuilder) WithDuplicateSuppression(enabled bool) *ConfigBuilder {
	b.cfg.Duplicate.Suppress = enabled
	return b
}

// WithWorkers sets the number of parallel searches in batch analysis.
func (b *ConfigBuilder) WithWorkers(n int) *ConfigBuilder {
	b.cfg.Workers = n
	return b
}

// WithOutput sets the output writer.
func (b *ConfigBuilder) WithOutput(w io.Writer) *ConfigBuilder {
	b.cfg.OutputFile = w
	return b
}

// WithLog sets the log writer.
func (b *ConfigBuilder) WithLog(w io.Writer) *ConfigBuilder {
	b.cfg.LogFile = w
	return b
}

// WithVerbosity sets the verbosity level.
func (b *ConfigBuilder) WithVerbosity(level int) *ConfigBuilder {
	b.cfg.Verbosity = level
	return b
}
