package config

// OutputFormat selects how analysis results are written.
type OutputFormat int

const (
	TextOutput OutputFormat = iota
	JSONOutput
)

// OutputConfig holds settings related to output formatting.
type OutputConfig struct {
	// Format specifies text or JSON lines output
	Format OutputFormat

	// ShowFEN echoes the analysed position before each result
	ShowFEN bool

	// ShowDiagnostics appends search statistics to each result
	ShowDiagnostics bool
}

// NewOutputConfig creates an OutputConfig with default values.
func NewOutputConfig() *OutputConfig {
	return &OutputConfig{
		Format:  TextOutput,
		ShowFEN: true,
	}
}
