// flags.go - Command-line flag definitions and configuration
package main

import (
	"flag"
	"time"

	"github.com/lgbarn/chess-engine-go/internal/config"
)

var (
	// Position options
	fenString = flag.String("fen", "", "Position to analyse (default: start position)")
	moveList  = flag.String("moves", "", "Space-separated moves to play before analysing (e.g. 'e2e4 e7e5')")
	epdFile   = flag.String("epd", "", "Analyse every position in an EPD file")
	flipBoard = flag.Bool("flip", false, "Analyse the colour-flipped position")

	// Search options
	fixedDepth    = flag.Int("depth", 0, "Search to this fixed depth instead of deepening iteratively")
	maxDepth      = flag.Int("maxdepth", 0, "Deepest iteration to start (0 = no limit)")
	moveTime      = flag.Int("t", 1000, "Time per position in milliseconds (0 = no limit)")
	ttSize        = flag.Int("tt", config.DefaultTTSizeMB, "Transposition table size in MB (0 disables the table)")
	qchecks       = flag.Bool("qchecks", false, "Search quiet checks in quiescence")
	maxExtensions = flag.Int("extensions", config.DefaultMaxExtensions, "Maximum search extensions along one line")

	// Perft
	perftDepth = flag.Int("perft", 0, "Count leaf nodes to depth N instead of searching")
	divide     = flag.Bool("divide", false, "With -perft, show the count below each root move")

	// Batch options
	workers            = flag.Int("j", 0, "Parallel searches for -epd (0 = auto-detect based on CPU cores)")
	suppressDuplicates = flag.Bool("D", false, "Skip positions already analysed in the batch")
	duplicateCapacity  = flag.Int("duplicate-capacity", 0, "Maximum remembered positions for -D (0 = unlimited)")

	// Output options
	outputFile   = flag.String("o", "", "Output file (default: stdout)")
	appendOutput = flag.Bool("a", false, "Append to output file instead of overwrite")
	jsonOutput   = flag.Bool("J", false, "Output one JSON object per result")
	noFEN        = flag.Bool("nofen", false, "Don't echo the analysed position")
	showStats    = flag.Bool("stats", false, "Add search statistics to each result")

	// Logging
	logFile   = flag.String("l", "", "Write diagnostics to log file (default: stderr)")
	verbosity = flag.Int("v", 1, "Verbosity: 0 warnings, 1 progress, 2 search diagnostics")

	// Other options
	help    = flag.Bool("h", false, "Show help")
	version = flag.Bool("version", false, "Show version")
)

// applyFlags applies command-line flags to the configuration.
func applyFlags(cfg *config.Config) {
	applySearchFlags(cfg)
	applyOutputFlags(cfg)
	applyDuplicateFlags(cfg)

	if *workers > 0 {
		cfg.Workers = *workers
	}
	cfg.Verbosity = *verbosity
}

// applySearchFlags configures the searcher.
func applySearchFlags(cfg *config.Config) {
	b := config.NewConfigBuilder()
	b.WithTTSize(*ttSize).
		WithQuiescenceChecks(*qchecks).
		WithMaxDepth(*maxDepth).
		WithTimeLimit(time.Duration(*moveTime) * time.Millisecond)
	if *fixedDepth > 0 {
		b.WithFixedDepth(*fixedDepth)
	}
	cfg.Search = b.Build().Search
	cfg.Search.MaxExtensions = *maxExtensions
}

// applyOutputFlags configures result formatting.
func applyOutputFlags(cfg *config.Config) {
	if *jsonOutput {
		cfg.Output.Format = config.JSONOutput
	} else {
		cfg.Output.Format = config.TextOutput
	}
	cfg.Output.ShowFEN = !*noFEN
	cfg.Output.ShowDiagnostics = *showStats
}

// applyDuplicateFlags configures duplicate suppression in batch analysis.
func applyDuplicateFlags(cfg *config.Config) {
	cfg.Duplicate.Suppress = *suppressDuplicates
	cfg.Duplicate.MaxPositions = *duplicateCapacity
}
