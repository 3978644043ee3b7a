package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/lgbarn/chess-engine-go/internal/board"
	"github.com/lgbarn/chess-engine-go/internal/config"
	"github.com/lgbarn/chess-engine-go/internal/errors"
	"github.com/lgbarn/chess-engine-go/internal/movegen"
	"github.com/lgbarn/chess-engine-go/internal/output"
	"github.com/lgbarn/chess-engine-go/internal/session"
	"github.com/lgbarn/chess-engine-go/internal/worker"
)

// run dispatches to perft, batch or single-position analysis.
func run(ctx context.Context, cfg *config.Config, log zerolog.Logger, w output.ResultWriter) error {
	switch {
	case *perftDepth > 0:
		fen, err := startingFEN(*fenString, *flipBoard)
		if err != nil {
			return err
		}
		return runPerft(w, fen, splitMoves(*moveList), *perftDepth, *divide)
	case *epdFile != "":
		file, err := os.Open(*epdFile)
		if err != nil {
			return errors.Wrapf(err, "opening %s", *epdFile)
		}
		defer file.Close()
		items, err := worker.ReadEPD(file)
		if err != nil {
			return errors.Wrapf(err, "reading %s", *epdFile)
		}
		return runBatch(ctx, cfg, log, w, items, *flipBoard)
	default:
		fen, err := startingFEN(*fenString, *flipBoard)
		if err != nil {
			return err
		}
		return runSingle(ctx, cfg, log, w, fen, splitMoves(*moveList))
	}
}

// startingFEN returns fen, or the start position when fen is empty,
// colour-flipped if requested.
func startingFEN(fen string, flip bool) (string, error) {
	if fen == "" {
		fen = board.StartPositionFEN
	}
	if !flip {
		return fen, nil
	}
	return board.FlipFEN(fen)
}

// runPerft counts the move tree below fen after playing moves.
func runPerft(w output.ResultWriter, fen string, moves []string, depth int, showDivide bool) error {
	b, err := board.NewFromFEN(fen)
	if err != nil {
		return err
	}
	for _, uci := range moves {
		m, err := movegen.MoveFromUCI(b, uci)
		if err != nil {
			return err
		}
		b.MakeMove(m, false)
	}

	gen := movegen.New()
	var entries []movegen.DivideEntry
	var total uint64
	if showDivide {
		entries = gen.Divide(b, depth)
		for _, e := range entries {
			total += e.Nodes
		}
	} else {
		total = gen.Perft(b, depth)
	}
	return w.WritePerft(board.CurrentFEN(b), depth, entries, total)
}

// runSingle analyses one position after playing moves from it.
func runSingle(ctx context.Context, cfg *config.Config, log zerolog.Logger, w output.ResultWriter, fen string, moves []string) error {
	s := session.New(cfg.Search, log)
	if err := s.Load(fen); err != nil {
		return err
	}
	for _, m := range moves {
		if err := s.Play(m); err != nil {
			return err
		}
	}

	log.Info().
		Str("fen", s.FEN()).
		Stringer("mode", cfg.Search.Mode).
		Dur("time-limit", cfg.Search.TimeLimit).
		Msg("analysing")

	res, err := s.Think(ctx)
	if err != nil {
		return err
	}
	return w.WriteResult(worker.ProcessResult{
		FEN:   s.FEN(),
		Move:  res.Move,
		Eval:  res.Eval,
		Depth: res.Depth,
		Mate:  res.Mate,
		PV:    res.PV,
		Nodes: res.Diagnostics.Nodes,
	})
}

// runBatch analyses items on a worker pool and writes the results in input
// order. Positions that fail to load are reported, not fatal.
func runBatch(ctx context.Context, cfg *config.Config, log zerolog.Logger, w output.ResultWriter, items []worker.WorkItem, flip bool) error {
	opts := []worker.AnalyzerOption{worker.WithFlip(flip)}
	if cfg.Duplicate.Suppress {
		opts = append(opts, worker.WithDuplicateSuppression(cfg.Duplicate.MaxPositions))
	}
	analyzer := worker.NewAnalyzer(cfg.Search, log, opts...)

	pool := worker.NewPool(cfg.Workers, cfg.Workers*2, analyzer.NewProcessor)
	pool.Start(ctx)
	log.Info().Int("positions", len(items)).Int("workers", pool.NumWorkers()).Msg("batch-started")

	var results []worker.ProcessResult
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer pool.Close()
		for _, item := range items {
			if gctx.Err() != nil {
				pool.Stop()
				return nil
			}
			pool.Submit(item)
		}
		return nil
	})
	g.Go(func() error {
		results = worker.Collect(pool.Results())
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	for _, r := range results {
		if err := w.WriteResult(r); err != nil {
			return err
		}
	}

	summary := worker.Summarize(results)
	log.Info().
		Int("analysed", summary.Analysed).
		Int("skipped", summary.Skipped).
		Int("failed", summary.Failed).
		Msg("batch-complete")
	if summary.Failed > 0 && summary.Analysed == 0 {
		return fmt.Errorf("all %d positions failed", summary.Failed)
	}
	return nil
}
