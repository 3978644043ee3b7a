package board

import "github.com/lgbarn/chess-engine-go/internal/chess"

// maxPieceCount bounds the pieces of one code. With at most maxPiecesPerSide
// pieces on a side, one of them the king, no code can exceed it even after promotions.
const maxPieceCount = 16

// maxPiecesPerSide is the most pieces, king included, a FEN may give one side.
const maxPiecesPerSide = 16

// PieceList is the set of squares occupied by one coloured piece code.
// Add, remove and move are O(1); the order of squares is not meaningful.
type PieceList struct {
	squares [maxPieceCount]int
	count   int
	// index maps a square to its slot in squares
	index [chess.NumSquares]uint8
}

// Count returns the number of pieces in the list.
func (l *PieceList) Count() int {
	return l.count
}

// Square returns the i-th occupied square.
func (l *PieceList) Square(i int) int {
	return l.squares[i]
}

// Squares returns the occupied squares. The slice aliases the list and is
// only valid until the next board change.
func (l *PieceList) Squares() []int {
	return l.squares[:l.count]
}

func (l *PieceList) add(sq int) {
	l.squares[l.count] = sq
	l.index[sq] = uint8(l.count)
	l.count++
}

func (l *PieceList) remove(sq int) {
	i := l.index[sq]
	last := l.squares[l.count-1]
	l.squares[i] = last
	l.index[last] = i
	l.count--
}

func (l *PieceList) move(from, to int) {
	i := l.index[from]
	l.squares[i] = to
	l.index[to] = i
}

func (l *PieceList) reset() {
	l.count = 0
}
