package search

import (
	"testing"

	"github.com/lgbarn/chess-engine-go/internal/chess"
	"github.com/lgbarn/chess-engine-go/internal/movegen"
	"github.com/lgbarn/chess-engine-go/internal/testutil"
)

func TestKillers(t *testing.T) {
	var k Killers
	a := chess.NewMove(12, 28, chess.PawnTwoUp)
	b := chess.NewMove(6, 21, chess.NoFlag)
	c := chess.NewMove(1, 18, chess.NoFlag)

	k.Add(a)
	k.Add(a)
	testutil.AssertEqual(t, k, Killers{MoveA: a})

	k.Add(b)
	k.Add(c)
	testutil.AssertEqual(t, k, Killers{MoveA: c, MoveB: b})
	testutil.AssertTrue(t, k.Match(b) && k.Match(c))
	testutil.AssertFalse(t, k.Match(a))
}

func orderedMoves(t *testing.T, fen string, hashMove chess.Move, o *MoveOrderer, ply int) []chess.Move {
	t.Helper()
	b := testutil.MustLoadBoard(t, fen)
	gen := movegen.New()
	moves := gen.GenerateMoves(b, false)
	o.OrderMoves(hashMove, b, moves, gen.OpponentAttackMap(), gen.OpponentPawnAttackMap(), false, ply)
	return moves
}

func TestOrderMoves(t *testing.T) {
	// White can win the queen on d5 with the e4 pawn.
	const fen = "4k3/8/8/3q4/4P3/8/8/R3K3 w - - 0 1"
	pawnTakesQueen := chess.NewMove(28, 35, chess.NoFlag)
	rookLift := chess.NewMove(chess.A1, 16, chess.NoFlag)

	t.Run("winning capture first", func(t *testing.T) {
		moves := orderedMoves(t, fen, chess.NullMove, NewMoveOrderer(), 0)
		testutil.AssertEqual(t, moves[0], pawnTakesQueen)
	})

	t.Run("hash move beats captures", func(t *testing.T) {
		moves := orderedMoves(t, fen, rookLift, NewMoveOrderer(), 0)
		testutil.AssertEqual(t, moves[0], rookLift)
		testutil.AssertEqual(t, moves[1], pawnTakesQueen)
	})

	t.Run("killer beats other quiet moves", func(t *testing.T) {
		o := NewMoveOrderer()
		b := testutil.MustLoadBoard(t, fen)
		o.RecordCutoff(b, rookLift, 3, 4)
		testutil.AssertEqual(t, o.History[0][chess.A1][16], 16)

		moves := orderedMoves(t, fen, chess.NullMove, o, 3)
		testutil.AssertEqual(t, moves[0], pawnTakesQueen)
		testutil.AssertEqual(t, moves[1], rookLift)

		o.ClearKillers()
		o.ClearHistory()
		testutil.AssertEqual(t, o.Killers[3], Killers{})
		testutil.AssertEqual(t, o.History[0][chess.A1][16], 0)
	})
}

func TestRepetitionTable(t *testing.T) {
	r := NewRepetitionTable()
	r.Init([]uint64{1, 2, 3})
	testutil.AssertEqual(t, r.Len(), 3)
	testutil.AssertTrue(t, r.Contains(1))
	testutil.AssertFalse(t, r.Contains(3), "newest key is ignored")

	r.Push(4, true)
	testutil.AssertFalse(t, r.Contains(1), "keys before an irreversible move are ignored")

	r.Push(5, false)
	testutil.AssertTrue(t, r.Contains(4))

	r.TryPop()
	r.TryPop()
	testutil.AssertEqual(t, r.Len(), 3)
	testutil.AssertTrue(t, r.Contains(1))

	r.Init(nil)
	r.TryPop()
	testutil.AssertEqual(t, r.Len(), 0)
	testutil.AssertFalse(t, r.Contains(0))
}
