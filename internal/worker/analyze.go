package worker

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/lgbarn/chess-engine-go/internal/board"
	"github.com/lgbarn/chess-engine-go/internal/config"
	"github.com/lgbarn/chess-engine-go/internal/errors"
	"github.com/lgbarn/chess-engine-go/internal/hashing"
	"github.com/lgbarn/chess-engine-go/internal/session"
)

// Analyzer builds the processors of an analysis pool. Each processor owns a
// session, so workers never share a board or transposition table.
type Analyzer struct {
	cfg  config.SearchConfig
	log  zerolog.Logger
	flip bool
	dups *hashing.ShardedDuplicateDetector
}

// AnalyzerOption configures an Analyzer.
type AnalyzerOption func(*Analyzer)

// WithDuplicateSuppression skips positions already seen in the batch,
// remembering at most maxPositions of them (0 means unlimited).
func WithDuplicateSuppression(maxPositions int) AnalyzerOption {
	return func(a *Analyzer) {
		a.dups = hashing.NewShardedDuplicateDetector(maxPositions)
	}
}

// WithFlip analyses the colour-flipped mirror of every position.
func WithFlip(flip bool) AnalyzerOption {
	return func(a *Analyzer) {
		a.flip = flip
	}
}

// NewAnalyzer returns an Analyzer searching with cfg. A nil cfg uses the defaults.
func NewAnalyzer(cfg *config.SearchConfig, log zerolog.Logger, opts ...AnalyzerOption) *Analyzer {
	if cfg == nil {
		cfg = config.NewSearchConfig()
	}
	a := &Analyzer{cfg: *cfg, log: log}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// NewProcessor returns a ProcessFunc backed by its own session.
func (a *Analyzer) NewProcessor() ProcessFunc {
	s := session.New(&a.cfg, a.log)
	return func(ctx context.Context, item WorkItem) ProcessResult {
		res := ProcessResult{Index: item.Index, ID: item.ID, FEN: item.FEN}

		fen := item.FEN
		if a.flip {
			flipped, err := board.FlipFEN(fen)
			if err != nil {
				res.Err = err
				return res
			}
			fen = flipped
			res.FEN = flipped
		}
		if err := s.Load(fen); err != nil {
			res.Err = err
			return res
		}

		if a.dups != nil {
			if first, dup := a.dups.CheckAndAdd(s.Key(), item.Index); dup {
				a.log.Debug().Int("index", item.Index).Int("first", first.Index).Msg("duplicate-position")
				res.Skipped = true
				res.DuplicateOf = first.Index
				return res
			}
		}

		think, err := s.Think(ctx)
		if err != nil {
			res.Err = err
			return res
		}
		res.Move = think.Move
		res.Eval = think.Eval
		res.Depth = think.Depth
		res.Mate = think.Mate
		res.PV = think.PV
		res.Nodes = think.Diagnostics.Nodes
		return res
	}
}

// DuplicateCount returns the number of positions skipped as repeats.
func (a *Analyzer) DuplicateCount() int {
	if a.dups == nil {
		return 0
	}
	return a.dups.DuplicateCount()
}

// Summary counts the outcomes of a batch.
type Summary struct {
	Analysed int
	Skipped  int
	Failed   int
}

// Collect drains results and returns them in input order.
func Collect(results <-chan ProcessResult) []ProcessResult {
	var out []ProcessResult
	for r := range results {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

// Summarize counts analysed, skipped and failed results.
func Summarize(results []ProcessResult) Summary {
	return Summary{
		Analysed: lo.CountBy(results, func(r ProcessResult) bool { return r.Err == nil && !r.Skipped }),
		Skipped:  lo.CountBy(results, func(r ProcessResult) bool { return r.Skipped }),
		Failed:   lo.CountBy(results, func(r ProcessResult) bool { return r.Err != nil }),
	}
}

// ReadEPD reads one position per line. Each line holds the four FEN fields,
// optionally followed by the two clock fields or by EPD operations such as
// `bm e4; id "pos 1";`. Blank lines and lines starting with '#' are ignored.
func ReadEPD(r io.Reader) ([]WorkItem, error) {
	var items []WorkItem
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 4 {
			return nil, &errors.ParseError{
				Err:      errors.ErrInvalidFEN,
				Input:    line,
				Field:    fmt.Sprintf("line %d", lineNum),
				Expected: "at least 4 fields",
				Got:      strconv.Itoa(len(fields)),
			}
		}

		fen := strings.Join(fields[:4], " ")
		rest := fields[4:]
		if len(rest) >= 2 && isNumber(rest[0]) && isNumber(rest[1]) {
			fen += " " + rest[0] + " " + rest[1]
			rest = rest[2:]
		} else {
			fen += " 0 1"
		}
		items = append(items, WorkItem{
			FEN:   fen,
			ID:    epdID(strings.Join(rest, " ")),
			Index: len(items),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading positions")
	}
	return items, nil
}

func isNumber(s string) bool {
	_, err := strconv.Atoi(s)
	return err == nil
}

// epdID extracts the operand of the "id" operation.
func epdID(ops string) string {
	for _, op := range strings.Split(ops, ";") {
		op = strings.TrimSpace(op)
		if name, operand, ok := strings.Cut(op, " "); ok && name == "id" {
			return strings.Trim(strings.TrimSpace(operand), `"`)
		}
	}
	return ""
}
