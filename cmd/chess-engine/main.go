// chess-engine searches chess positions for the best move, alone or in
// batches, and counts move trees for move generator checks.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/lgbarn/chess-engine-go/internal/config"
	"github.com/lgbarn/chess-engine-go/internal/output"
)

const programVersion = "0.1.0"

func main() {
	flag.Usage = usage
	flag.Parse()

	if *help {
		usage()
		os.Exit(0)
	}

	if *version {
		fmt.Printf("chess-engine-go version %s\n", programVersion)
		os.Exit(0)
	}

	cfg := config.NewConfig()
	applyFlags(cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	// Set up logging and output files
	setupLogFile(cfg)
	setupOutputFile(cfg)
	log := cfg.Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	w := output.NewWriter(cfg.OutputFile, cfg)
	err := run(ctx, cfg, log, w)
	if cerr := w.Close(); err == nil {
		err = cerr
	}
	closeFiles(cfg)

	if err != nil {
		log.Error().Err(err).Msg("run-failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setupLogFile configures the log file based on command-line flags.
func setupLogFile(cfg *config.Config) {
	if *logFile == "" {
		return
	}
	file, err := os.OpenFile(*logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644) //nolint:gosec // G302: 0644 is appropriate for user-created log files
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log file %s: %v\n", *logFile, err)
		os.Exit(1)
	}
	cfg.LogFile = file
}

// setupOutputFile configures the output file based on command-line flags.
func setupOutputFile(cfg *config.Config) {
	if *outputFile == "" {
		return
	}

	var file *os.File
	var err error

	if *appendOutput {
		file, err = os.OpenFile(*outputFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644) //nolint:gosec // G302: 0644 is appropriate for user-created output files
	} else {
		file, err = os.Create(*outputFile)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output file %s: %v\n", *outputFile, err)
		os.Exit(1)
	}
	cfg.OutputFile = file
}

// closeFiles closes any files opened by setupLogFile and setupOutputFile.
func closeFiles(cfg *config.Config) {
	for _, w := range []io.Writer{cfg.OutputFile, cfg.LogFile} {
		if f, ok := w.(*os.File); ok && f != os.Stdout && f != os.Stderr {
			f.Close() //nolint:errcheck // best effort on exit
		}
	}
}

// splitMoves splits the -moves flag into individual moves.
func splitMoves(s string) []string {
	return strings.Fields(s)
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: chess-engine [options]\n\n")
	fmt.Fprintf(os.Stderr, "Searches chess positions for the best move.\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nExamples:\n")
	fmt.Fprintf(os.Stderr, "  chess-engine -fen '6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1' -depth 3\n")
	fmt.Fprintf(os.Stderr, "  chess-engine -moves 'e2e4 e7e5' -t 2000\n")
	fmt.Fprintf(os.Stderr, "  chess-engine -epd suite.epd -j 4 -t 500 -J\n")
	fmt.Fprintf(os.Stderr, "  chess-engine -perft 5 -divide\n")
}
