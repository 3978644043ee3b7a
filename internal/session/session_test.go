package session

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/lgbarn/chess-engine-go/internal/board"
	"github.com/lgbarn/chess-engine-go/internal/config"
	"github.com/lgbarn/chess-engine-go/internal/errors"
	"github.com/lgbarn/chess-engine-go/internal/testutil"
)

func newTestManager(build func(*config.SearchConfig)) *Manager {
	cfg := config.NewSearchConfig()
	cfg.TTSizeMB = 1
	if build != nil {
		build(cfg)
	}
	return NewManager(cfg, zerolog.Nop())
}

func fixedDepth(depth int) func(*config.SearchConfig) {
	return func(cfg *config.SearchConfig) {
		cfg.Mode = config.FixedDepth
		cfg.FixedDepth = depth
	}
}

func TestManager(t *testing.T) {
	m := newTestManager(nil)
	a := m.Create()
	b := m.Create()
	testutil.AssertTrue(t, a.ID != b.ID, "session IDs must differ")
	testutil.AssertEqual(t, m.Len(), 2)
	testutil.AssertTrue(t, lo.Contains(m.IDs(), a.ID))

	got, err := m.Get(a.ID)
	testutil.AssertNoError(t, err)
	testutil.AssertNotNil(t, got)
	testutil.AssertTrue(t, got == a)

	testutil.AssertNoError(t, m.Delete(a.ID))
	_, err = m.Get(a.ID)
	testutil.AssertTrue(t, stderrors.Is(err, errors.ErrSessionNotFound))
	testutil.AssertTrue(t, stderrors.Is(m.Delete(a.ID), errors.ErrSessionNotFound))
	testutil.AssertEqual(t, m.Len(), 1)
}

func TestSessionsAreIndependent(t *testing.T) {
	m := newTestManager(nil)
	a, b := m.Create(), m.Create()
	testutil.AssertNoError(t, a.Play("e2e4"))
	testutil.AssertEqual(t, b.FEN(), board.StartPositionFEN)
	testutil.AssertEqual(t, a.Moves(), []string{"e2e4"})
}

func TestPlayAndUndo(t *testing.T) {
	s := newTestManager(nil).Create()
	testutil.AssertEqual(t, len(s.LegalMoves()), 20)

	testutil.AssertNoError(t, s.Play("e2e4"))
	afterE4 := s.FEN()
	testutil.AssertNoError(t, s.Play("e7e5"))
	testutil.AssertNoError(t, s.Undo())
	testutil.AssertEqual(t, s.FEN(), afterE4)
	testutil.AssertNoError(t, s.Undo())
	testutil.AssertEqual(t, s.FEN(), board.StartPositionFEN)

	err := s.Undo()
	testutil.AssertTrue(t, stderrors.Is(err, errors.ErrIllegalMove), "got %v", err)

	err = s.Play("e2e5")
	testutil.AssertTrue(t, stderrors.Is(err, errors.ErrIllegalMove), "got %v", err)
	err = s.Play("e2")
	testutil.AssertTrue(t, stderrors.Is(err, errors.ErrInvalidMoveString), "got %v", err)
	testutil.AssertEqual(t, s.FEN(), board.StartPositionFEN)
}

func TestUndoKeepsRepetitionHistory(t *testing.T) {
	s := newTestManager(nil).Create()
	for _, m := range []string{"e2e3", "e7e6", "g1f3", "g8f6", "f3g1", "f6g8", "g1f3", "g8f6", "f3g1"} {
		testutil.AssertNoError(t, s.Play(m))
	}
	testutil.AssertNoError(t, s.Undo())
	testutil.AssertNoError(t, s.Play("f3g1"))
	testutil.AssertEqual(t, s.State(), board.Playing)
	testutil.AssertNoError(t, s.Play("f6g8"))
	testutil.AssertEqual(t, s.State(), board.Repetition)
}

func TestLoad(t *testing.T) {
	s := newTestManager(nil).Create()
	testutil.AssertNoError(t, s.Load(testutil.Kiwipete))
	testutil.AssertEqual(t, s.FEN(), testutil.Kiwipete)
	testutil.AssertEqual(t, len(s.LegalMoves()), 48)

	err := s.Load("8/8/8 w - - 0 1")
	testutil.AssertTrue(t, stderrors.Is(err, errors.ErrInvalidFEN), "got %v", err)
	testutil.AssertEqual(t, s.FEN(), testutil.Kiwipete)

	testutil.AssertNoError(t, s.Play("e1g1"))
	testutil.AssertNoError(t, s.Load(board.StartPositionFEN))
	testutil.AssertEqual(t, len(s.Moves()), 0)
}

func TestThinkFindsMate(t *testing.T) {
	s := newTestManager(fixedDepth(3)).Create()
	testutil.AssertNoError(t, s.Load("6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1"))

	res, err := s.Think(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, res.Move, "a1a8")
	testutil.AssertEqual(t, res.Mate, "White can mate in 1 move")
	testutil.AssertEqual(t, res.PV[0], "a1a8")
	testutil.AssertEqual(t, res.Depth, 3)
	testutil.AssertFalse(t, s.IsThinking())
}

func TestThinkRespectsTimeLimit(t *testing.T) {
	s := newTestManager(func(cfg *config.SearchConfig) {
		cfg.TimeLimit = 50 * time.Millisecond
	}).Create()

	start := time.Now()
	res, err := s.Think(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertTrue(t, time.Since(start) < 5*time.Second, "search ran for %v", time.Since(start))
	testutil.AssertTrue(t, lo.Contains(s.LegalMoves(), res.Move), "move %q should be legal", res.Move)
	testutil.AssertEqual(t, res.Mate, "")
	testutil.AssertEqual(t, s.FEN(), board.StartPositionFEN)
}

func TestThinkWithCancelledContext(t *testing.T) {
	s := newTestManager(func(cfg *config.SearchConfig) {
		cfg.TimeLimit = 0
	}).Create()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := s.Think(ctx)
	testutil.AssertNoError(t, err)
	testutil.AssertTrue(t, lo.Contains(s.LegalMoves(), res.Move), "move %q should be legal", res.Move)
}

func TestThinkRejectsConcurrentRequests(t *testing.T) {
	s := newTestManager(func(cfg *config.SearchConfig) {
		cfg.TimeLimit = 0
	}).Create()

	type outcome struct {
		res Result
		err error
	}
	results := make(chan outcome, 1)
	go func() {
		res, err := s.Think(context.Background())
		results <- outcome{res, err}
	}()

	deadline := time.Now().Add(10 * time.Second)
	for s.searcher.CurrentDepth() < 1 {
		if time.Now().After(deadline) {
			t.Fatal("search never completed an iteration")
		}
		time.Sleep(time.Millisecond)
	}

	testutil.AssertTrue(t, s.IsThinking())
	_, err := s.Think(context.Background())
	testutil.AssertTrue(t, stderrors.Is(err, errors.ErrSearchInProgress))
	testutil.AssertTrue(t, stderrors.Is(s.Play("e2e4"), errors.ErrSearchInProgress))
	testutil.AssertTrue(t, stderrors.Is(s.Load(testutil.Kiwipete), errors.ErrSearchInProgress))

	s.Stop()
	out := <-results
	testutil.AssertNoError(t, out.err)
	testutil.AssertTrue(t, out.res.Depth >= 1)
	testutil.AssertNoError(t, s.Play(out.res.Move))
}

func TestThinkWithoutLegalMoves(t *testing.T) {
	s := newTestManager(fixedDepth(2)).Create()
	testutil.AssertNoError(t, s.Load("7k/5Q2/6K1/8/8/8/8/8 b - - 0 1"))

	_, err := s.Think(context.Background())
	testutil.AssertTrue(t, stderrors.Is(err, errors.ErrNoLegalMoves), "got %v", err)
	testutil.AssertContains(t, err.Error(), "stalemate")
}
