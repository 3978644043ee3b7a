package chess

// Sliding directions. The first four are orthogonal, the last four diagonal.
const (
	North = iota
	South
	West
	East
	NorthWest
	SouthEast
	NorthEast
	SouthWest
)

// DirectionOffsets holds the square delta of one step in each direction.
var DirectionOffsets = [8]int{8, -8, -1, 1, 7, -7, 9, -9}

var dirFileStep = [8]int{0, 0, -1, 1, -1, 1, 1, -1}
var dirRankStep = [8]int{1, -1, 0, 0, 1, -1, 1, -1}

// Pre-computed attack and geometry tables, filled once at package init.
var (
	KnightAttacks [64]Bitboard
	KingAttacks   [64]Bitboard
	PawnAttacks   [2][64]Bitboard // [colour][square]

	// NumSquaresToEdge is the number of steps from a square to the edge in each direction.
	NumSquaresToEdge [64][8]int
	// DirRayMask is every square reachable from a square in a direction on an empty board.
	DirRayMask [8][64]Bitboard
	// AlignMask is the full line through two aligned squares, or empty when they are not aligned.
	AlignMask [64][64]Bitboard
)

func init() {
	initLeaperAttacks()
	initRays()
	initAlignMasks()
}

func initLeaperAttacks() {
	knightJumps := [8][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
	for sq := 0; sq < NumSquares; sq++ {
		file, rank := FileIndex(sq), RankIndex(sq)

		for _, j := range knightJumps {
			if IsValidCoord(file+j[0], rank+j[1]) {
				KnightAttacks[sq].Set(SquareIndex(file+j[0], rank+j[1]))
			}
		}

		for dir := 0; dir < 8; dir++ {
			f, r := file+dirFileStep[dir], rank+dirRankStep[dir]
			if IsValidCoord(f, r) {
				KingAttacks[sq].Set(SquareIndex(f, r))
			}
		}

		for _, df := range [2]int{-1, 1} {
			if IsValidCoord(file+df, rank+1) {
				PawnAttacks[White][sq].Set(SquareIndex(file+df, rank+1))
			}
			if IsValidCoord(file+df, rank-1) {
				PawnAttacks[Black][sq].Set(SquareIndex(file+df, rank-1))
			}
		}
	}
}

func initRays() {
	for sq := 0; sq < NumSquares; sq++ {
		for dir := 0; dir < 8; dir++ {
			f, r := FileIndex(sq), RankIndex(sq)
			steps := 0
			for {
				f += dirFileStep[dir]
				r += dirRankStep[dir]
				if !IsValidCoord(f, r) {
					break
				}
				steps++
				DirRayMask[dir][sq].Set(SquareIndex(f, r))
			}
			NumSquaresToEdge[sq][dir] = steps
		}
	}
}

func initAlignMasks() {
	for a := 0; a < NumSquares; a++ {
		for b := 0; b < NumSquares; b++ {
			if a == b {
				continue
			}
			df := FileIndex(b) - FileIndex(a)
			dr := RankIndex(b) - RankIndex(a)
			if df != 0 && dr != 0 && Abs(df) != Abs(dr) {
				continue
			}
			stepF, stepR := Sign(df), Sign(dr)
			for i := -BoardSize; i < BoardSize; i++ {
				f := FileIndex(a) + stepF*i
				r := RankIndex(a) + stepR*i
				if IsValidCoord(f, r) {
					AlignMask[a][b].Set(SquareIndex(f, r))
				}
			}
		}
	}
}

// rayAttacks returns the squares attacked along one direction, stopping at
// (and including) the first blocker.
func rayAttacks(dir, sq int, blockers Bitboard) Bitboard {
	attacks := DirRayMask[dir][sq]
	if blocked := attacks & blockers; blocked != 0 {
		var first int
		if DirectionOffsets[dir] > 0 {
			first = blocked.LSB()
		} else {
			first = blocked.MSB()
		}
		attacks ^= DirRayMask[dir][first]
	}
	return attacks
}

// RookAttacks returns the rook attack set from sq against the given blockers.
func RookAttacks(sq int, blockers Bitboard) Bitboard {
	return rayAttacks(North, sq, blockers) | rayAttacks(South, sq, blockers) |
		rayAttacks(West, sq, blockers) | rayAttacks(East, sq, blockers)
}

// BishopAttacks returns the bishop attack set from sq against the given blockers.
func BishopAttacks(sq int, blockers Bitboard) Bitboard {
	return rayAttacks(NorthWest, sq, blockers) | rayAttacks(SouthEast, sq, blockers) |
		rayAttacks(NorthEast, sq, blockers) | rayAttacks(SouthWest, sq, blockers)
}

// QueenAttacks returns the queen attack set from sq against the given blockers.
func QueenAttacks(sq int, blockers Bitboard) Bitboard {
	return RookAttacks(sq, blockers) | BishopAttacks(sq, blockers)
}

// SliderAttacks returns rook attacks when ortho is set and bishop attacks otherwise.
func SliderAttacks(sq int, blockers Bitboard, ortho bool) Bitboard {
	if ortho {
		return RookAttacks(sq, blockers)
	}
	return BishopAttacks(sq, blockers)
}

// PawnAttackSet returns every square attacked by the given pawns of colour c.
func PawnAttackSet(pawns Bitboard, c Colour) Bitboard {
	if c == White {
		return (pawns&NotAFile)<<7 | (pawns&NotHFile)<<9
	}
	return (pawns&NotHFile)>>7 | (pawns&NotAFile)>>9
}
