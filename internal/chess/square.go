package chess

// Board dimensions and file/rank names. Squares are indexed file + 8*rank,
// with rank 0 being White's back rank.
const (
	BoardSize  = 8
	NumSquares = 64

	FileNames = "abcdefgh"
	RankNames = "12345678"
)

// Named squares used by castling and tests.
const (
	A1 = 0
	B1 = 1
	C1 = 2
	D1 = 3
	E1 = 4
	F1 = 5
	G1 = 6
	H1 = 7
	A8 = 56
	B8 = 57
	C8 = 58
	D8 = 59
	E8 = 60
	F8 = 61
	G8 = 62
	H8 = 63
)

// FileIndex returns the file (0-7) of a square.
func FileIndex(sq int) int {
	return sq & 0b111
}

// RankIndex returns the rank (0-7) of a square.
func RankIndex(sq int) int {
	return sq >> 3
}

// SquareIndex returns the square for a file and rank.
func SquareIndex(file, rank int) int {
	return rank*8 + file
}

// IsValidCoord reports whether file and rank are both on the board.
func IsValidCoord(file, rank int) bool {
	return file >= 0 && file < BoardSize && rank >= 0 && rank < BoardSize
}

// IsLightSquare reports whether sq is a light square.
func IsLightSquare(sq int) bool {
	return (FileIndex(sq)+RankIndex(sq))%2 != 0
}

// SquareName returns the algebraic name of a square, e.g. "e4".
func SquareName(sq int) string {
	if sq < 0 || sq >= NumSquares {
		return "-"
	}
	return string([]byte{FileNames[FileIndex(sq)], RankNames[RankIndex(sq)]})
}

// SquareFromName parses an algebraic square name.
func SquareFromName(name string) (int, bool) {
	if len(name) != 2 {
		return 0, false
	}
	file := int(name[0]) - 'a'
	rank := int(name[1]) - '1'
	if !IsValidCoord(file, rank) {
		return 0, false
	}
	return SquareIndex(file, rank), true
}

// FlipRank mirrors a square vertically (a1 <-> a8).
func FlipRank(sq int) int {
	return sq ^ 56
}

// ManhattanDistance returns the taxicab distance between two squares.
func ManhattanDistance(a, b int) int {
	return Abs(FileIndex(a)-FileIndex(b)) + Abs(RankIndex(a)-RankIndex(b))
}

// ChebyshevDistance returns the number of king steps between two squares.
func ChebyshevDistance(a, b int) int {
	return Max(Abs(FileIndex(a)-FileIndex(b)), Abs(RankIndex(a)-RankIndex(b)))
}

// CentreManhattanDistance returns the distance of sq from the four centre squares.
func CentreManhattanDistance(sq int) int {
	file, rank := FileIndex(sq), RankIndex(sq)
	fileDst := Max(3-file, file-4)
	rankDst := Max(3-rank, rank-4)
	return fileDst + rankDst
}
