package main

import (
	"testing"
	"time"

	"github.com/lgbarn/chess-engine-go/internal/config"
)

func saveRestoreBool(ptr *bool, val bool) func() {
	old := *ptr
	*ptr = val
	return func() { *ptr = old }
}

func saveRestoreInt(ptr *int, val int) func() {
	old := *ptr
	*ptr = val
	return func() { *ptr = old }
}

func TestApplySearchFlags(t *testing.T) {
	t.Run("defaults deepen iteratively", func(t *testing.T) {
		cfg := config.NewConfig()
		applySearchFlags(cfg)
		if cfg.Search.Mode != config.IterativeDeepening {
			t.Errorf("Mode = %v; want iterative deepening", cfg.Search.Mode)
		}
		if cfg.Search.TimeLimit != time.Second {
			t.Errorf("TimeLimit = %v; want 1s", cfg.Search.TimeLimit)
		}
		if !cfg.Search.UseTT || cfg.Search.TTSizeMB != config.DefaultTTSizeMB {
			t.Errorf("TT = %v/%dMB", cfg.Search.UseTT, cfg.Search.TTSizeMB)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("Validate() = %v", err)
		}
	})

	t.Run("depth selects fixed depth", func(t *testing.T) {
		defer saveRestoreInt(fixedDepth, 6)()
		cfg := config.NewConfig()
		applySearchFlags(cfg)
		if cfg.Search.Mode != config.FixedDepth || cfg.Search.FixedDepth != 6 {
			t.Errorf("Mode = %v depth %d; want fixed-depth 6", cfg.Search.Mode, cfg.Search.FixedDepth)
		}
	})

	t.Run("zero tt disables the table", func(t *testing.T) {
		defer saveRestoreInt(ttSize, 0)()
		cfg := config.NewConfig()
		applySearchFlags(cfg)
		if cfg.Search.UseTT {
			t.Error("UseTT should be false")
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("Validate() = %v", err)
		}
	})

	t.Run("search tuning", func(t *testing.T) {
		defer saveRestoreBool(qchecks, true)()
		defer saveRestoreInt(moveTime, 250)()
		defer saveRestoreInt(maxDepth, 9)()
		defer saveRestoreInt(maxExtensions, 4)()
		cfg := config.NewConfig()
		applySearchFlags(cfg)
		s := cfg.Search
		if !s.QuiescenceChecks || s.TimeLimit != 250*time.Millisecond || s.MaxDepth != 9 || s.MaxExtensions != 4 {
			t.Errorf("unexpected search config: %+v", *s)
		}
	})
}

func TestApplyOutputFlags(t *testing.T) {
	tests := []struct {
		name      string
		json      bool
		nofen     bool
		stats     bool
		wantFmt   config.OutputFormat
		wantFEN   bool
		wantStats bool
	}{
		{"defaults", false, false, false, config.TextOutput, true, false},
		{"json", true, false, false, config.JSONOutput, true, false},
		{"quiet text", false, true, true, config.TextOutput, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer saveRestoreBool(jsonOutput, tt.json)()
			defer saveRestoreBool(noFEN, tt.nofen)()
			defer saveRestoreBool(showStats, tt.stats)()
			cfg := config.NewConfig()
			applyOutputFlags(cfg)
			if cfg.Output.Format != tt.wantFmt {
				t.Errorf("Format = %d; want %d", cfg.Output.Format, tt.wantFmt)
			}
			if cfg.Output.ShowFEN != tt.wantFEN {
				t.Errorf("ShowFEN = %v; want %v", cfg.Output.ShowFEN, tt.wantFEN)
			}
			if cfg.Output.ShowDiagnostics != tt.wantStats {
				t.Errorf("ShowDiagnostics = %v; want %v", cfg.Output.ShowDiagnostics, tt.wantStats)
			}
		})
	}
}

func TestApplyFlags(t *testing.T) {
	defer saveRestoreInt(workers, 3)()
	defer saveRestoreInt(verbosity, 2)()
	defer saveRestoreBool(suppressDuplicates, true)()
	defer saveRestoreInt(duplicateCapacity, 100)()

	cfg := config.NewConfig()
	applyFlags(cfg)
	if cfg.Workers != 3 || cfg.Verbosity != 2 {
		t.Errorf("Workers = %d, Verbosity = %d; want 3, 2", cfg.Workers, cfg.Verbosity)
	}
	if !cfg.Duplicate.Suppress || cfg.Duplicate.MaxPositions != 100 {
		t.Errorf("Duplicate = %+v", *cfg.Duplicate)
	}
}

func TestApplyFlags_AutoWorkers(t *testing.T) {
	defer saveRestoreInt(workers, 0)()
	cfg := config.NewConfig()
	want := cfg.Workers
	applyFlags(cfg)
	if cfg.Workers != want {
		t.Errorf("Workers = %d; want CPU count %d", cfg.Workers, want)
	}
}
