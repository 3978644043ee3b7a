package config

// DuplicateConfig holds settings for skipping repeated positions in batch analysis.
type DuplicateConfig struct {
	// Suppress skips positions already analysed in the same batch
	Suppress bool

	// MaxPositions bounds the remembered positions (0 means unlimited)
	MaxPositions int
}

// NewDuplicateConfig creates a DuplicateConfig with default values.
func NewDuplicateConfig() *DuplicateConfig {
	return &DuplicateConfig{}
}
