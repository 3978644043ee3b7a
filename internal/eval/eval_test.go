package eval_test

import (
	"testing"

	"github.com/lgbarn/chess-engine-go/internal/board"
	"github.com/lgbarn/chess-engine-go/internal/chess"
	"github.com/lgbarn/chess-engine-go/internal/eval"
	"github.com/lgbarn/chess-engine-go/internal/testutil"
)

func TestStartPositionIsBalanced(t *testing.T) {
	e := eval.New()
	b := board.New()
	testutil.AssertEqual(t, e.Evaluate(b), 0)

	bd := e.Breakdown(b)
	testutil.AssertEqual(t, bd[board.WhiteIndex], bd[board.BlackIndex])
	testutil.AssertEqual(t, bd[board.WhiteIndex].EndgameWeight, 0)
}

// Mirroring the position must give the side to move the same score.
func TestEvaluationIsColourSymmetric(t *testing.T) {
	e := eval.New()
	fens := []string{
		testutil.Kiwipete,
		testutil.Position3,
		testutil.Position4,
		testutil.Position5,
		"8/8/4k3/8/8/3QK3/8/8 w - - 0 1",
	}
	for _, fen := range fens {
		flipped, err := board.FlipFEN(fen)
		testutil.AssertNoError(t, err)
		a := e.Evaluate(testutil.MustLoadBoard(t, fen))
		b := e.Evaluate(testutil.MustLoadBoard(t, flipped))
		if a != b {
			t.Errorf("%s: %d, flipped %d", fen, a, b)
		}
	}
}

func TestSideToMovePerspective(t *testing.T) {
	e := eval.New()
	white := testutil.MustLoadBoard(t, "4k3/8/8/8/8/8/8/3QK3 w - - 0 1")
	black := testutil.MustLoadBoard(t, "4k3/8/8/8/8/8/8/3QK3 b - - 0 1")

	if e.Evaluate(white) <= eval.QueenValue/2 {
		t.Errorf("white to move with an extra queen scored %d", e.Evaluate(white))
	}
	testutil.AssertEqual(t, e.Evaluate(black), -e.Evaluate(white))
}

func TestMopUpPrefersCorneredKing(t *testing.T) {
	e := eval.New()
	centre := testutil.MustLoadBoard(t, "8/8/8/3k4/8/8/8/Q3K3 w - - 0 1")
	corner := testutil.MustLoadBoard(t, "k7/8/8/8/8/8/8/Q3K3 w - - 0 1")

	if e.Breakdown(corner)[board.WhiteIndex].MopUp <= e.Breakdown(centre)[board.WhiteIndex].MopUp {
		t.Error("a cornered enemy king should score a larger mop-up bonus")
	}
	testutil.AssertEqual(t, e.Breakdown(corner)[board.BlackIndex].MopUp, 0)
}

func TestValue(t *testing.T) {
	testutil.AssertEqual(t, eval.Value(chess.Queen), 900)
	testutil.AssertEqual(t, eval.Value(chess.King), 0)
	testutil.AssertEqual(t, eval.Value(chess.None), 0)
}
