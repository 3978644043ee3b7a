package board

import (
	"fmt"

	"github.com/lgbarn/chess-engine-go/internal/chess"
	"github.com/lgbarn/chess-engine-go/internal/errors"
	"github.com/lgbarn/chess-engine-go/internal/hashing"
)

// Validate checks that the board's redundant views agree: square array,
// bitboards, piece lists, king squares, slider caches and Zobrist key.
// It is meant for tests and debugging, never for the search hot path.
func (b *Board) Validate() error {
	var pieceBBs [chess.MaxPieceIndex + 1]chess.Bitboard
	var colourBBs [2]chess.Bitboard
	nonPawnCount := 0

	for sq, p := range b.Square {
		if p == chess.NoPiece {
			continue
		}
		pieceBBs[p].Set(sq)
		colourBBs[p.Colour().Index()].Set(sq)
		if t := p.Type(); t != chess.Pawn && t != chess.King {
			nonPawnCount++
		}
	}

	for _, p := range chess.PieceIndices {
		if pieceBBs[p] != b.PieceBitboards[p] {
			return fmt.Errorf("%v bitboard disagrees with squares: %w", p, errors.ErrInconsistentBoard)
		}
		list := &b.pieceLists[p]
		if list.Count() != pieceBBs[p].PopCount() {
			return fmt.Errorf("%v piece list holds %d squares, board has %d: %w",
				p, list.Count(), pieceBBs[p].PopCount(), errors.ErrInconsistentBoard)
		}
		for _, sq := range list.Squares() {
			if b.Square[sq] != p {
				return fmt.Errorf("%v piece list names %s which holds %v: %w",
					p, chess.SquareName(sq), b.Square[sq], errors.ErrInconsistentBoard)
			}
		}
	}

	if colourBBs != b.ColourBitboards {
		return fmt.Errorf("colour bitboards disagree with squares: %w", errors.ErrInconsistentBoard)
	}
	if b.AllPiecesBitboard != colourBBs[WhiteIndex]|colourBBs[BlackIndex] {
		return fmt.Errorf("all-pieces bitboard disagrees with squares: %w", errors.ErrInconsistentBoard)
	}
	if nonPawnCount != b.TotalPieceCountWithoutPawnsAndKings {
		return fmt.Errorf("non-pawn piece count %d, board has %d: %w",
			b.TotalPieceCountWithoutPawnsAndKings, nonPawnCount, errors.ErrInconsistentBoard)
	}

	for i, c := range []chess.Colour{chess.White, chess.Black} {
		if b.Square[b.KingSquare[i]] != chess.MakePiece(chess.King, c) {
			return fmt.Errorf("%v king square %s is stale: %w", c, chess.SquareName(b.KingSquare[i]), errors.ErrInconsistentBoard)
		}
	}

	friendlyOrtho, friendlyDiag := b.FriendlyOrthogonalSliders, b.FriendlyDiagonalSliders
	enemyOrtho, enemyDiag := b.EnemyOrthogonalSliders, b.EnemyDiagonalSliders
	b.updateSliderBitboards()
	if friendlyOrtho != b.FriendlyOrthogonalSliders || friendlyDiag != b.FriendlyDiagonalSliders ||
		enemyOrtho != b.EnemyOrthogonalSliders || enemyDiag != b.EnemyDiagonalSliders {
		return fmt.Errorf("slider caches are stale: %w", errors.ErrInconsistentBoard)
	}

	state := b.CurrentGameState
	want := hashing.Compute(&b.Square, state.CastlingRights, state.EnPassantFile, b.IsWhiteToMove)
	if want != state.ZobristKey {
		return fmt.Errorf("zobrist key %x, recomputed %x: %w", state.ZobristKey, want, errors.ErrInconsistentBoard)
	}
	if len(b.gameStateHistory) == 0 || b.gameStateHistory[len(b.gameStateHistory)-1] != state {
		return fmt.Errorf("current game state is not the top of the history: %w", errors.ErrInconsistentBoard)
	}
	return nil
}
