package testutil

import (
	"testing"

	"github.com/lgbarn/chess-engine-go/internal/board"
)

// Well-known test positions.
const (
	Kiwipete  = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"
	Position3 = "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1"
	Position4 = "r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1"
	Position5 = "rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8"
)

// MustLoadBoard returns a board set up from fen, failing the test on a parse error.
func MustLoadBoard(t testing.TB, fen string) *board.Board {
	t.Helper()
	b, err := board.NewFromFEN(fen)
	if err != nil {
		t.Fatalf("failed to load FEN %q: %v", fen, err)
	}
	return b
}

// MustValidate fails the test if the board's redundant representations disagree.
func MustValidate(t testing.TB, b *board.Board) {
	t.Helper()
	if err := b.Validate(); err != nil {
		t.Fatalf("inconsistent board after %d plies: %v\n%s", b.PlyCount, err, b)
	}
}
