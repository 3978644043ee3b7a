package board

import "github.com/lgbarn/chess-engine-go/internal/chess"

// IsInCheck reports whether the side to move is in check.
// The answer is cached until the position changes.
func (b *Board) IsInCheck() bool {
	if b.hasCachedInCheckValue {
		return b.cachedInCheckValue
	}
	b.cachedInCheckValue = b.CalculateInCheckState()
	b.hasCachedInCheckValue = true
	return b.cachedInCheckValue
}

// CalculateInCheckState computes whether the king of the side to move is
// attacked, bypassing the cache.
func (b *Board) CalculateInCheckState() bool {
	kingSquare := b.KingSquare[b.MoveColourIndex()]
	blockers := b.AllPiecesBitboard

	if b.EnemyOrthogonalSliders != 0 {
		if chess.RookAttacks(kingSquare, blockers)&b.EnemyOrthogonalSliders != 0 {
			return true
		}
	}
	if b.EnemyDiagonalSliders != 0 {
		if chess.BishopAttacks(kingSquare, blockers)&b.EnemyDiagonalSliders != 0 {
			return true
		}
	}

	enemy := b.OpponentColour()
	enemyKnights := b.PieceBitboards[chess.MakePiece(chess.Knight, enemy)]
	if chess.KnightAttacks[kingSquare]&enemyKnights != 0 {
		return true
	}

	// A pawn of ours on the king square would attack exactly the squares
	// enemy pawns give check from.
	enemyPawns := b.PieceBitboards[chess.MakePiece(chess.Pawn, enemy)]
	return chess.PawnAttacks[b.MoveColour()][kingSquare]&enemyPawns != 0
}

// IsSquareAttacked reports whether any piece of colour by attacks sq.
func (b *Board) IsSquareAttacked(sq int, by chess.Colour) bool {
	blockers := b.AllPiecesBitboard
	queens := b.PieceBitboards[chess.MakePiece(chess.Queen, by)]
	rooks := b.PieceBitboards[chess.MakePiece(chess.Rook, by)] | queens
	bishops := b.PieceBitboards[chess.MakePiece(chess.Bishop, by)] | queens

	switch {
	case chess.RookAttacks(sq, blockers)&rooks != 0:
		return true
	case chess.BishopAttacks(sq, blockers)&bishops != 0:
		return true
	case chess.KnightAttacks[sq]&b.PieceBitboards[chess.MakePiece(chess.Knight, by)] != 0:
		return true
	case chess.KingAttacks[sq]&b.PieceBitboards[chess.MakePiece(chess.King, by)] != 0:
		return true
	}
	return chess.PawnAttacks[by.Opposite()][sq]&b.PieceBitboards[chess.MakePiece(chess.Pawn, by)] != 0
}
