package chess

import (
	"math/bits"
	"strings"
)

// Bitboard is a set of squares, bit n standing for square n.
type Bitboard uint64

// File and rank masks.
const (
	FileA Bitboard = 0x0101010101010101
	FileH Bitboard = FileA << 7

	NotAFile Bitboard = ^FileA
	NotHFile Bitboard = ^FileH

	Rank1 Bitboard = 0xFF
	Rank2 Bitboard = Rank1 << 8
	Rank3 Bitboard = Rank1 << 16
	Rank4 Bitboard = Rank1 << 24
	Rank5 Bitboard = Rank1 << 32
	Rank6 Bitboard = Rank1 << 40
	Rank7 Bitboard = Rank1 << 48
	Rank8 Bitboard = Rank1 << 56

	LightSquares Bitboard = 0x55AA55AA55AA55AA
	DarkSquares  Bitboard = ^LightSquares
)

// SquareBB returns the bitboard with only sq set.
func SquareBB(sq int) Bitboard {
	return 1 << uint(sq)
}

// Contains reports whether sq is in the set.
func (b Bitboard) Contains(sq int) bool {
	return b>>uint(sq)&1 != 0
}

// PopCount returns the number of squares in the set.
func (b Bitboard) PopCount() int {
	return bits.OnesCount64(uint64(b))
}

// LSB returns the lowest square in the set. The set must not be empty.
func (b Bitboard) LSB() int {
	return bits.TrailingZeros64(uint64(b))
}

// MSB returns the highest square in the set. The set must not be empty.
func (b Bitboard) MSB() int {
	return 63 - bits.LeadingZeros64(uint64(b))
}

// PopLSB removes and returns the lowest square in the set.
func (b *Bitboard) PopLSB() int {
	sq := bits.TrailingZeros64(uint64(*b))
	*b &= *b - 1
	return sq
}

// Set adds sq to the set.
func (b *Bitboard) Set(sq int) {
	*b |= 1 << uint(sq)
}

// Clear removes sq from the set.
func (b *Bitboard) Clear(sq int) {
	*b &^= 1 << uint(sq)
}

// Toggle flips sq in the set.
func (b *Bitboard) Toggle(sq int) {
	*b ^= 1 << uint(sq)
}

// ToggleSquares flips two squares at once, typically a piece's origin and destination.
func (b *Bitboard) ToggleSquares(a, c int) {
	*b ^= 1<<uint(a) | 1<<uint(c)
}

// Shift moves every square by n (positive towards h8, negative towards a1).
func (b Bitboard) Shift(n int) Bitboard {
	if n > 0 {
		return b << uint(n)
	}
	return b >> uint(-n)
}

// String renders the set as an 8x8 grid, rank 8 first.
func (b Bitboard) String() string {
	var sb strings.Builder
	for rank := BoardSize - 1; rank >= 0; rank-- {
		for file := 0; file < BoardSize; file++ {
			if b.Contains(SquareIndex(file, rank)) {
				sb.WriteByte('1')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
