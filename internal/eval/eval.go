// Package eval scores a position statically: material, piece-square tables
// and, once one side is winning an endgame, a term that drives the losing
// king towards the edge.
package eval

import (
	"github.com/lgbarn/chess-engine-go/internal/board"
	"github.com/lgbarn/chess-engine-go/internal/chess"
)

// Piece values in centipawns.
const (
	PawnValue   = 100
	KnightValue = 300
	BishopValue = 320
	RookValue   = 500
	QueenValue  = 900
)

// endgameMaterialStart is the non-pawn material below which a side counts as
// being in the endgame.
const endgameMaterialStart = RookValue*2 + BishopValue + KnightValue

// phaseScale is the fixed-point unit of endgame weights.
const phaseScale = 256

// Value returns the material value of a piece type. Kings are worth nothing.
func Value(pt chess.PieceType) int {
	switch pt {
	case chess.Pawn:
		return PawnValue
	case chess.Knight:
		return KnightValue
	case chess.Bishop:
		return BishopValue
	case chess.Rook:
		return RookValue
	case chess.Queen:
		return QueenValue
	}
	return 0
}

// SideScore is the evaluation of one side, split into its terms.
type SideScore struct {
	Material     int
	PieceSquares int
	MopUp        int
	// EndgameWeight runs from 0 (all pieces on) to 256 (no pieces left)
	EndgameWeight int
}

// Total returns the sum of the terms.
func (s SideScore) Total() int {
	return s.Material + s.PieceSquares + s.MopUp
}

// Breakdown is the evaluation of both sides, indexed by colour index.
type Breakdown [2]SideScore

// Evaluator is a stateless static evaluator.
type Evaluator struct{}

// New returns an Evaluator.
func New() *Evaluator {
	return &Evaluator{}
}

// Evaluate returns the score of the position from the side to move's view.
func (e *Evaluator) Evaluate(b *board.Board) int {
	bd := e.Breakdown(b)
	score := bd[board.WhiteIndex].Total() - bd[board.BlackIndex].Total()
	if b.IsWhiteToMove {
		return score
	}
	return -score
}

// Breakdown evaluates both sides separately.
func (e *Evaluator) Breakdown(b *board.Board) Breakdown {
	var bd Breakdown
	var nonPawn [2]int

	for i, c := range [2]chess.Colour{chess.White, chess.Black} {
		for _, pt := range [...]chess.PieceType{chess.Pawn, chess.Knight, chess.Bishop, chess.Rook, chess.Queen} {
			value := Value(pt) * b.PieceList(chess.MakePiece(pt, c)).Count()
			bd[i].Material += value
			if pt != chess.Pawn {
				nonPawn[i] += value
			}
		}
		bd[i].EndgameWeight = phaseScale - chess.Min(phaseScale, nonPawn[i]*phaseScale/endgameMaterialStart)
	}

	for i, c := range [2]chess.Colour{chess.White, chess.Black} {
		enemy := 1 - i
		bd[i].PieceSquares = pieceSquareScore(b, c, bd[enemy].EndgameWeight)
		bd[i].MopUp = mopUpScore(b, i, bd[i], bd[enemy])
	}
	return bd
}

func pieceSquareScore(b *board.Board, c chess.Colour, endgameWeight int) int {
	white := c == chess.White
	score := 0
	sum := func(pt chess.PieceType, table *[64]int) int {
		total := 0
		for _, sq := range b.PieceList(chess.MakePiece(pt, c)).Squares() {
			total += readTable(table, sq, white)
		}
		return total
	}

	score += sum(chess.Knight, &knightTable)
	score += sum(chess.Bishop, &bishopTable)
	score += sum(chess.Rook, &rookTable)
	score += sum(chess.Queen, &queenTable)

	pawnEarly := sum(chess.Pawn, &pawnTable)
	pawnLate := sum(chess.Pawn, &pawnEndTable)
	score += taper(pawnEarly, pawnLate, endgameWeight)

	kingEarly := sum(chess.King, &kingStartTable)
	kingLate := sum(chess.King, &kingEndTable)
	score += taper(kingEarly, kingLate, endgameWeight)
	return score
}

// mopUpScore rewards a side that is clearly ahead for cornering the enemy
// king and bringing its own king close.
func mopUpScore(b *board.Board, us int, ours, theirs SideScore) int {
	if ours.Material <= theirs.Material+PawnValue*2 || theirs.EndgameWeight == 0 {
		return 0
	}
	friendlyKing := b.KingSquare[us]
	enemyKing := b.KingSquare[1-us]

	score := chess.CentreManhattanDistance(enemyKing) * 10
	score += (14 - chess.ManhattanDistance(friendlyKing, enemyKing)) * 4
	return score * theirs.EndgameWeight / phaseScale
}

func taper(early, late, endgameWeight int) int {
	return (early*(phaseScale-endgameWeight) + late*endgameWeight) / phaseScale
}
