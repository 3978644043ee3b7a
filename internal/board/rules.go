package board

import "github.com/lgbarn/chess-engine-go/internal/chess"

// Result classifies the state of a game.
type Result int

const (
	Playing Result = iota
	WhiteIsMated
	BlackIsMated
	Stalemate
	Repetition
	FiftyMoveRule
	InsufficientMaterial
)

// String returns the string representation of a result.
func (r Result) String() string {
	switch r {
	case Playing:
		return "playing"
	case WhiteIsMated:
		return "white is mated"
	case BlackIsMated:
		return "black is mated"
	case Stalemate:
		return "draw by stalemate"
	case Repetition:
		return "draw by threefold repetition"
	case FiftyMoveRule:
		return "draw by fifty-move rule"
	case InsufficientMaterial:
		return "draw by insufficient material"
	}
	return "unknown"
}

// IsDraw reports whether the result is one of the drawn outcomes.
func (r Result) IsDraw() bool {
	return r >= Stalemate
}

// IsDecisive reports whether one side has been mated.
func (r Result) IsDecisive() bool {
	return r == WhiteIsMated || r == BlackIsMated
}

// LegalMoveCounter is the part of a move generator GetGameState needs.
type LegalMoveCounter interface {
	GenerateMoves(b *Board, capturesOnly bool) []chess.Move
	InCheck() bool
}

// GetGameState classifies the current position of a real game.
func GetGameState(b *Board, gen LegalMoveCounter) Result {
	moves := gen.GenerateMoves(b, false)
	if len(moves) == 0 {
		if gen.InCheck() {
			if b.IsWhiteToMove {
				return WhiteIsMated
			}
			return BlackIsMated
		}
		return Stalemate
	}

	if b.CurrentGameState.FiftyMoveCounter >= 100 {
		return FiftyMoveRule
	}
	if RepetitionCount(b) >= 3 {
		return Repetition
	}
	if HasInsufficientMaterial(b) {
		return InsufficientMaterial
	}
	return Playing
}

// RepetitionCount returns how often the current position has occurred since
// the last irreversible move, the current occurrence included.
func RepetitionCount(b *Board) int {
	key := b.ZobristKey()
	count := 0
	for _, k := range b.RepetitionHistory {
		if k == key {
			count++
		}
	}
	return count
}

// HasInsufficientMaterial returns true if neither side can possibly mate:
// - K vs K
// - K+B vs K
// - K+N vs K
// - K+B vs K+B (bishops on the same colour)
func HasInsufficientMaterial(b *Board) bool {
	if b.PieceBitboards[chess.WhitePawn]|b.PieceBitboards[chess.BlackPawn] != 0 {
		return false
	}
	if b.FriendlyOrthogonalSliders|b.EnemyOrthogonalSliders != 0 {
		return false
	}

	whiteBishops := b.PieceBitboards[chess.WhiteBishop]
	blackBishops := b.PieceBitboards[chess.BlackBishop]
	whiteMinors := whiteBishops.PopCount() + b.PieceBitboards[chess.WhiteKnight].PopCount()
	blackMinors := blackBishops.PopCount() + b.PieceBitboards[chess.BlackKnight].PopCount()

	if whiteMinors+blackMinors <= 1 {
		return true
	}

	if whiteMinors == 1 && blackMinors == 1 && whiteBishops != 0 && blackBishops != 0 {
		return chess.IsLightSquare(whiteBishops.LSB()) == chess.IsLightSquare(blackBishops.LSB())
	}
	return false
}
