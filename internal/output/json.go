package output

import (
	"encoding/json"
	"io"

	"github.com/samber/lo"

	"github.com/lgbarn/chess-engine-go/internal/config"
	"github.com/lgbarn/chess-engine-go/internal/movegen"
	"github.com/lgbarn/chess-engine-go/internal/worker"
)

// JSONResult is one analysed position in JSON format.
type JSONResult struct {
	worker.ProcessResult
	Error string `json:"error,omitempty"`
}

// JSONPerft is a perft count in JSON format.
type JSONPerft struct {
	FEN    string          `json:"fen"`
	Depth  int             `json:"depth"`
	Nodes  uint64          `json:"nodes"`
	Divide []JSONDivideRow `json:"divide,omitempty"`
}

// JSONDivideRow is the count below one root move.
type JSONDivideRow struct {
	Move  string `json:"move"`
	Nodes uint64 `json:"nodes"`
}

// JSONOutput holds multiple results for array output.
type JSONOutput struct {
	Results []JSONResult `json:"results"`
}

// ResultToJSON converts a result, flattening its error to text.
func ResultToJSON(r worker.ProcessResult) JSONResult {
	jr := JSONResult{ProcessResult: r}
	if r.Err != nil {
		jr.Error = r.Err.Error()
	}
	return jr
}

// JSONWriter writes results in JSON format.
// It buffers results and writes them as a JSON array on Close or Flush.
type JSONWriter struct {
	w       io.Writer
	cfg     *config.Config
	results []JSONResult
	single  bool // If true, write each result immediately as one JSON line
}

// NewJSONWriter creates a new JSON writer.
// By default, it batches results and writes them as an array on Close().
func NewJSONWriter(w io.Writer, cfg *config.Config) *JSONWriter {
	return &JSONWriter{
		w:       w,
		cfg:     cfg,
		results: make([]JSONResult, 0),
	}
}

// NewJSONWriterSingle creates a JSON writer that writes each result immediately.
func NewJSONWriterSingle(w io.Writer, cfg *config.Config) *JSONWriter {
	return &JSONWriter{
		w:      w,
		cfg:    cfg,
		single: true,
	}
}

// WriteResult buffers a result for JSON output (or writes immediately in single mode).
func (jw *JSONWriter) WriteResult(r worker.ProcessResult) error {
	jr := ResultToJSON(r)
	if !jw.cfg.Output.ShowDiagnostics {
		jr.Nodes = 0
	}
	if jw.single {
		return json.NewEncoder(jw.w).Encode(jr)
	}
	jw.results = append(jw.results, jr)
	return nil
}

// WritePerft writes a perft count immediately.
func (jw *JSONWriter) WritePerft(fen string, depth int, divide []movegen.DivideEntry, total uint64) error {
	out := JSONPerft{
		FEN:   fen,
		Depth: depth,
		Nodes: total,
		Divide: lo.Map(divide, func(e movegen.DivideEntry, _ int) JSONDivideRow {
			return JSONDivideRow{Move: e.Move, Nodes: e.Nodes}
		}),
	}
	return json.NewEncoder(jw.w).Encode(out)
}

// Flush writes all buffered results as a JSON array.
func (jw *JSONWriter) Flush() error {
	if jw.single || len(jw.results) == 0 {
		return nil
	}

	enc := json.NewEncoder(jw.w)
	enc.SetIndent("", "  ")
	err := enc.Encode(&JSONOutput{Results: jw.results})

	// Clear buffer after writing
	jw.results = jw.results[:0]

	return err
}

// Close flushes and closes the JSON writer.
func (jw *JSONWriter) Close() error {
	return jw.Flush()
}
