// Package output writes analysis and perft results as text or JSON.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/lgbarn/chess-engine-go/internal/config"
	"github.com/lgbarn/chess-engine-go/internal/movegen"
	"github.com/lgbarn/chess-engine-go/internal/worker"
)

// ResultWriter is the interface for writing results to output.
// Different implementations handle different output formats (text, JSON).
type ResultWriter interface {
	// WriteResult writes the analysis of one position.
	WriteResult(r worker.ProcessResult) error

	// WritePerft writes a perft count, with per-move counts if divide is non-empty.
	WritePerft(fen string, depth int, divide []movegen.DivideEntry, total uint64) error

	// Flush flushes any buffered data to the underlying writer.
	Flush() error

	// Close closes the writer and releases any resources.
	// For batch writers (like JSON), this also writes any pending output.
	Close() error
}

// NewWriter returns the writer selected by cfg.Output.
func NewWriter(w io.Writer, cfg *config.Config) ResultWriter {
	if cfg.Output.Format == config.JSONOutput {
		return NewJSONWriterSingle(w, cfg)
	}
	return NewTextWriter(w, cfg)
}

// TextWriter writes results as plain text, one block per position.
type TextWriter struct {
	w   io.Writer
	cfg *config.Config
}

// NewTextWriter creates a new text writer.
func NewTextWriter(w io.Writer, cfg *config.Config) *TextWriter {
	return &TextWriter{
		w:   w,
		cfg: cfg,
	}
}

// WriteResult writes a result as a "bestmove" line.
func (tw *TextWriter) WriteResult(r worker.ProcessResult) error {
	var sb strings.Builder
	if r.ID != "" {
		fmt.Fprintf(&sb, "id %q\n", r.ID)
	}
	if tw.cfg.Output.ShowFEN {
		fmt.Fprintf(&sb, "fen %s\n", r.FEN)
	}

	switch {
	case r.Err != nil:
		fmt.Fprintf(&sb, "error %v\n", r.Err)
	case r.Skipped:
		fmt.Fprintf(&sb, "skipped duplicate of position %d\n", r.DuplicateOf+1)
	default:
		fmt.Fprintf(&sb, "bestmove %s eval %d depth %d", r.Move, r.Eval, r.Depth)
		if len(r.PV) > 0 {
			fmt.Fprintf(&sb, " pv %s", strings.Join(r.PV, " "))
		}
		sb.WriteByte('\n')
		if r.Mate != "" {
			fmt.Fprintf(&sb, "%s\n", r.Mate)
		}
		if tw.cfg.Output.ShowDiagnostics {
			fmt.Fprintf(&sb, "nodes %d\n", r.Nodes)
		}
	}

	_, err := io.WriteString(tw.w, sb.String())
	return err
}

// WritePerft writes "move: count" lines followed by the total.
func (tw *TextWriter) WritePerft(fen string, depth int, divide []movegen.DivideEntry, total uint64) error {
	var sb strings.Builder
	if tw.cfg.Output.ShowFEN {
		fmt.Fprintf(&sb, "fen %s\n", fen)
	}
	for _, e := range divide {
		fmt.Fprintf(&sb, "%s: %d\n", e.Move, e.Nodes)
	}
	if len(divide) > 0 {
		sb.WriteByte('\n')
	}
	fmt.Fprintf(&sb, "perft %d: %d\n", depth, total)

	_, err := io.WriteString(tw.w, sb.String())
	return err
}

// Flush flushes the text writer (no-op as it writes immediately).
func (tw *TextWriter) Flush() error {
	return nil
}

// Close closes the text writer.
func (tw *TextWriter) Close() error {
	return nil
}
