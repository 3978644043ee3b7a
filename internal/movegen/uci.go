package movegen

import (
	"fmt"

	"github.com/lgbarn/chess-engine-go/internal/board"
	"github.com/lgbarn/chess-engine-go/internal/chess"
	"github.com/lgbarn/chess-engine-go/internal/errors"
)

// MoveFromUCI finds the legal move matching a long algebraic string such as
// "e2e4" or "e7e8q". Castling is given as the king's two-square move.
func MoveFromUCI(b *board.Board, s string) (chess.Move, error) {
	if len(s) != 4 && len(s) != 5 {
		return chess.NullMove, &errors.MoveError{Err: errors.ErrInvalidMoveString, Move: s}
	}
	start, ok1 := chess.SquareFromName(s[0:2])
	target, ok2 := chess.SquareFromName(s[2:4])
	if !ok1 || !ok2 {
		return chess.NullMove, &errors.MoveError{Err: errors.ErrInvalidMoveString, Move: s}
	}

	promotion := chess.None
	if len(s) == 5 {
		piece, ok := chess.PieceFromSymbol(s[4])
		pt := piece.Type()
		if !ok || pt == chess.Pawn || pt == chess.King {
			return chess.NullMove, &errors.MoveError{
				Err:  fmt.Errorf("bad promotion piece %q: %w", s[4], errors.ErrInvalidMoveString),
				Move: s,
			}
		}
		promotion = pt
	}

	for _, m := range New().GenerateMoves(b, false) {
		if m.StartSquare() == start && m.TargetSquare() == target && m.PromotionPieceType() == promotion {
			return m, nil
		}
	}
	return chess.NullMove, &errors.MoveError{
		Err:  errors.ErrIllegalMove,
		Move: s,
		Ply:  b.PlyCount + 1,
		FEN:  board.CurrentFEN(b),
	}
}
