package search

import (
	"testing"
	"time"

	"github.com/samber/lo"

	"github.com/lgbarn/chess-engine-go/internal/board"
	"github.com/lgbarn/chess-engine-go/internal/chess"
	"github.com/lgbarn/chess-engine-go/internal/config"
	"github.com/lgbarn/chess-engine-go/internal/movegen"
	"github.com/lgbarn/chess-engine-go/internal/testutil"
	"github.com/lgbarn/chess-engine-go/internal/tt"
)

func fixedDepth(depth int) *config.SearchConfig {
	cfg := config.NewSearchConfig()
	cfg.Mode = config.FixedDepth
	cfg.FixedDepth = depth
	cfg.TTSizeMB = 1
	return cfg
}

func isLegal(t *testing.T, b *board.Board, m chess.Move) bool {
	t.Helper()
	return lo.Contains(movegen.New().GenerateMoves(b, false), m)
}

func TestSingleLegalMove(t *testing.T) {
	const fen = "k7/8/8/8/8/8/1q6/K7 w - - 0 1"
	for depth := 1; depth <= 4; depth++ {
		b := testutil.MustLoadBoard(t, fen)
		s := New(b, fixedDepth(depth), WithRandSeed(1))
		s.StartSearch()
		move, _ := s.GetSearchResult()
		if move.UCI() != "a1b2" {
			t.Errorf("depth %d: got %v, want a1b2", depth, move)
		}
		testutil.AssertEqual(t, board.CurrentFEN(b), fen)
	}
}

func TestMateInOne(t *testing.T) {
	b := testutil.MustLoadBoard(t, "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1")
	cfg := config.NewSearchConfig()
	cfg.MaxDepth = 4
	cfg.TTSizeMB = 1
	s := New(b, cfg)

	var completed chess.Move
	s.OnSearchComplete = func(m chess.Move) { completed = m }
	s.StartSearch()

	move, score := s.GetSearchResult()
	testutil.AssertEqual(t, move.UCI(), "a1a8")
	testutil.AssertEqual(t, completed, move)
	testutil.AssertTrue(t, IsMateScore(score), "score %d should be a mate score", score)
	testutil.AssertEqual(t, NumPlyToMateFromScore(score), 1)
	testutil.AssertEqual(t, s.AnnounceMate(), "White can mate in 1 move")
	testutil.AssertEqual(t, s.CurrentDepth(), 1)
	testutil.AssertEqual(t, FormatLine(s.PrincipalVariation(8)), []string{"a1a8"})
	testutil.MustValidate(t, b)
}

func TestBlackMatesInTwo(t *testing.T) {
	b := testutil.MustLoadBoard(t, "6k1/8/8/8/8/5q2/8/6K1 b - - 0 1")
	cfg := config.NewSearchConfig()
	cfg.MaxDepth = 5
	cfg.TTSizeMB = 1
	s := New(b, cfg)
	s.StartSearch()

	_, score := s.GetSearchResult()
	if score <= 0 {
		t.Fatalf("black with an extra queen scored %d", score)
	}
	if IsMateScore(score) {
		testutil.AssertContains(t, s.AnnounceMate(), "Black can mate in")
	}
}

func TestStartPositionShallowSearch(t *testing.T) {
	b := board.New()
	s := New(b, fixedDepth(2))
	s.StartSearch()

	move, score := s.GetSearchResult()
	testutil.AssertTrue(t, isLegal(t, b, move), "move %v should be legal", move)
	if score < -60 || score > 60 {
		t.Errorf("start position scored %d", score)
	}
	testutil.AssertEqual(t, s.AnnounceMate(), "No mate found")

	d := s.Diagnostics()
	testutil.AssertEqual(t, d.CompletedIterations, 1)
	testutil.AssertTrue(t, d.Nodes > 20 && d.PositionsEvaluated > 0)
	testutil.AssertEqual(t, d.Move, move.UCI())
}

func TestSearchIsColourSymmetric(t *testing.T) {
	const fen = "r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 2 3"
	flipped, err := board.FlipFEN(fen)
	testutil.AssertNoError(t, err)

	scores := lo.Map([]string{fen, flipped}, func(f string, _ int) int {
		s := New(testutil.MustLoadBoard(t, f), fixedDepth(2))
		s.StartSearch()
		_, score := s.GetSearchResult()
		return score
	})
	testutil.AssertEqual(t, scores[0], scores[1])
}

func TestNoLegalMoves(t *testing.T) {
	b := testutil.MustLoadBoard(t, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	s := New(b, fixedDepth(3))
	s.StartSearch()
	move, score := s.GetSearchResult()
	testutil.AssertTrue(t, move.IsNull())
	testutil.AssertEqual(t, score, 0)
}

func TestEndSearchKeepsLastResult(t *testing.T) {
	b := testutil.MustLoadBoard(t, testutil.Kiwipete)
	cfg := config.NewSearchConfig()
	cfg.TTSizeMB = 4
	s := New(b, cfg, WithRandSeed(3))

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.StartSearch()
	}()

	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()
	stopped := false
	for !stopped {
		select {
		case <-done:
			stopped = true
		case <-ticker.C:
			if s.CurrentDepth() >= 2 {
				s.EndSearch()
			}
		}
	}

	move, _ := s.GetSearchResult()
	testutil.AssertTrue(t, isLegal(t, b, move), "move %v should be legal", move)
	testutil.AssertTrue(t, s.Diagnostics().CompletedIterations >= 2)
	testutil.AssertEqual(t, board.CurrentFEN(b), testutil.Kiwipete)
	testutil.MustValidate(t, b)

	// A stale cancel must not leak into the next search.
	s.EndSearch()
	s.cfg.MaxDepth = 2
	s.StartSearch()
	testutil.AssertEqual(t, s.CurrentDepth(), 2)
}

func TestSearchWithoutTableAndWithQuiescenceChecks(t *testing.T) {
	cfg := fixedDepth(3)
	cfg.UseTT = false
	cfg.QuiescenceChecks = true

	b := testutil.MustLoadBoard(t, testutil.Position4)
	s := New(b, cfg)
	s.StartSearch()
	move, _ := s.GetSearchResult()
	testutil.AssertTrue(t, isLegal(t, b, move), "move %v should be legal", move)
	testutil.AssertFalse(t, s.Table().Enabled)
	testutil.AssertEqual(t, s.Table().Stats().Writes, 0)
}

func TestClearForNewPosition(t *testing.T) {
	b := board.New()
	s := New(b, fixedDepth(3))
	s.StartSearch()
	testutil.AssertTrue(t, s.Table().Stats().Writes > 0)

	s.ClearForNewPosition()
	testutil.AssertEqual(t, s.Table().Stats(), tt.Stats{})
	testutil.AssertEqual(t, s.Table().Occupancy(), 0.0)
	testutil.AssertEqual(t, s.orderer.Killers, [maxKillerMovePly]Killers{})
}

type constantEvaluator int

func (c constantEvaluator) Evaluate(*board.Board) int { return int(c) }

func TestWithEvaluator(t *testing.T) {
	b := testutil.MustLoadBoard(t, "4k3/8/8/8/8/8/8/4K3 w - - 0 1")
	s := New(b, fixedDepth(2), WithEvaluator(constantEvaluator(7)))
	s.StartSearch()
	_, score := s.GetSearchResult()
	testutil.AssertEqual(t, score, 7)
}

func TestFiftyMoveRuleScoresDraw(t *testing.T) {
	tests := []struct {
		name  string
		fen   string
		drawn bool
	}{
		{"clock about to expire", "k7/8/8/8/8/8/8/K5Q1 w - - 99 80", true},
		{"fresh clock", "k7/8/8/8/8/8/8/K5Q1 w - - 0 80", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := testutil.MustLoadBoard(t, tc.fen)
			s := New(b, fixedDepth(3))
			s.StartSearch()
			move, score := s.GetSearchResult()
			testutil.AssertTrue(t, isLegal(t, b, move), "illegal move %v", move)
			if tc.drawn {
				testutil.AssertEqual(t, score, 0)
			} else {
				testutil.AssertTrue(t, score > 0, "score %d should favour White", score)
			}
		})
	}
}

func TestRepetitionScoresDraw(t *testing.T) {
	const fen = "k7/8/8/8/8/8/8/K5Q1 b - - 0 1"

	fresh := testutil.MustLoadBoard(t, fen)
	s := New(fresh, fixedDepth(2))
	s.StartSearch()
	_, score := s.GetSearchResult()
	testutil.AssertTrue(t, score < 0, "score %d should favour White", score)

	// Shuffle the kings back to the start: a8b8 now reaches a position
	// already seen in the game, which the losing side takes as a draw.
	b := testutil.MustLoadBoard(t, fen)
	for _, uci := range []string{"a8b8", "a1b1", "b8a8", "b1a1"} {
		m, err := movegen.MoveFromUCI(b, uci)
		testutil.AssertNoError(t, err)
		b.MakeMove(m, false)
	}
	s = New(b, fixedDepth(2))
	s.StartSearch()
	move, score := s.GetSearchResult()
	testutil.AssertEqual(t, move.UCI(), "a8b8")
	testutil.AssertEqual(t, score, 0)
	testutil.AssertEqual(t, board.CurrentFEN(b), "k7/8/8/8/8/8/8/K5Q1 b - - 4 3")
}

type countingGenerator struct {
	*movegen.Generator
	calls int
}

func (g *countingGenerator) GenerateMovesInto(b *board.Board, buf []chess.Move, capturesOnly bool) []chess.Move {
	g.calls++
	return g.Generator.GenerateMovesInto(b, buf, capturesOnly)
}

func TestWithMoveGenerator(t *testing.T) {
	b := testutil.MustLoadBoard(t, "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1")
	gen := &countingGenerator{Generator: movegen.New()}
	s := New(b, fixedDepth(2), WithMoveGenerator(gen))
	testutil.AssertTrue(t, s.BestMoveSoFar().IsNull())

	s.StartSearch()
	move, _ := s.GetSearchResult()
	testutil.AssertEqual(t, move.UCI(), "a1a8")
	testutil.AssertEqual(t, s.BestMoveSoFar(), move)
	testutil.AssertTrue(t, gen.calls > 0, "search should use the supplied generator")
}
