package chess

// Move is a compact 16-bit move: bits 0-5 hold the start square,
// bits 6-11 the target square and bits 12-15 a flag.
type Move uint16

// Move flags.
const (
	NoFlag           = 0
	EnPassantCapture = 1
	Castle           = 2
	PawnTwoUp        = 3
	PromoteToQueen   = 4
	PromoteToKnight  = 5
	PromoteToRook    = 6
	PromoteToBishop  = 7
)

const (
	startSquareMask  = 0b0000000000111111
	targetSquareMask = 0b0000111111000000
)

// NullMove is the all-zero move used as "no move".
const NullMove Move = 0

// NewMove packs a start square, target square and flag into a Move.
func NewMove(start, target, flag int) Move {
	return Move(start | target<<6 | flag<<12)
}

// StartSquare returns the origin square.
func (m Move) StartSquare() int {
	return int(m & startSquareMask)
}

// TargetSquare returns the destination square.
func (m Move) TargetSquare() int {
	return int(m&targetSquareMask) >> 6
}

// Flag returns the move flag.
func (m Move) Flag() int {
	return int(m >> 12)
}

// IsNull reports whether m is the null move.
func (m Move) IsNull() bool {
	return m == NullMove
}

// IsPromotion reports whether m promotes a pawn.
func (m Move) IsPromotion() bool {
	return m.Flag() >= PromoteToQueen
}

// PromotionPieceType returns the piece a pawn promotes to, or None.
func (m Move) PromotionPieceType() PieceType {
	switch m.Flag() {
	case PromoteToQueen:
		return Queen
	case PromoteToKnight:
		return Knight
	case PromoteToRook:
		return Rook
	case PromoteToBishop:
		return Bishop
	}
	return None
}

// PromotionFlag returns the move flag for promoting to pt, or NoFlag.
func PromotionFlag(pt PieceType) int {
	switch pt {
	case Queen:
		return PromoteToQueen
	case Knight:
		return PromoteToKnight
	case Rook:
		return PromoteToRook
	case Bishop:
		return PromoteToBishop
	}
	return NoFlag
}

// UCI returns the move in long algebraic form, e.g. "e2e4" or "e7e8q".
// The null move is rendered as "0000".
func (m Move) UCI() string {
	if m.IsNull() {
		return "0000"
	}
	s := SquareName(m.StartSquare()) + SquareName(m.TargetSquare())
	if pt := m.PromotionPieceType(); pt != None {
		s += string(pt.Letter() + ('a' - 'A'))
	}
	return s
}

// String returns the UCI form of the move.
func (m Move) String() string {
	return m.UCI()
}
