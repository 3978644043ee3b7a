package board

import "github.com/lgbarn/chess-engine-go/internal/chess"

// GameState is the part of a position that cannot be recovered from a move
// alone. One snapshot is pushed per applied move and popped on undo.
type GameState struct {
	// CapturedPieceType is the type captured by the move that led here
	CapturedPieceType chess.PieceType
	// EnPassantFile is 0 when there is no en passant square, otherwise file+1
	EnPassantFile int
	// CastlingRights holds the chess.WhiteKingside... bits
	CastlingRights int
	// FiftyMoveCounter counts plies since the last pawn move or capture
	FiftyMoveCounter int
	// ZobristKey is the key of the position after the move
	ZobristKey uint64
}

// HasKingsideCastleRight reports whether the given side may still castle kingside.
func (s GameState) HasKingsideCastleRight(white bool) bool {
	if white {
		return s.CastlingRights&chess.WhiteKingside != 0
	}
	return s.CastlingRights&chess.BlackKingside != 0
}

// HasQueensideCastleRight reports whether the given side may still castle queenside.
func (s GameState) HasQueensideCastleRight(white bool) bool {
	if white {
		return s.CastlingRights&chess.WhiteQueenside != 0
	}
	return s.CastlingRights&chess.BlackQueenside != 0
}

// castlingMask holds, per square, the rights that survive a move from or to it.
var castlingMask = func() [chess.NumSquares]int {
	var m [chess.NumSquares]int
	for sq := range m {
		m[sq] = chess.AllCastlingRights
	}
	m[chess.H1] &^= chess.WhiteKingside
	m[chess.A1] &^= chess.WhiteQueenside
	m[chess.H8] &^= chess.BlackKingside
	m[chess.A8] &^= chess.BlackQueenside
	return m
}()
