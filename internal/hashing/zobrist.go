// Package hashing provides Zobrist position keys and duplicate position detection.
package hashing

import (
	"math/rand"
	"sync"

	"github.com/lgbarn/chess-engine-go/internal/chess"
)

// Seed is the fixed PRNG seed for the key tables, so keys are identical across runs.
const Seed = 29426028

// Keys holds the random numbers XORed into a position key.
type Keys struct {
	Pieces         [chess.MaxPieceIndex + 1][chess.NumSquares]uint64
	CastlingRights [16]uint64
	// EnPassantFile is indexed by file+1; index 0 (no en passant square) is zero.
	EnPassantFile [9]uint64
	SideToMove    uint64
}

var (
	keysOnce sync.Once
	keys     *Keys
)

// NewKeys generates a key set from the given seed.
func NewKeys(seed int64) *Keys {
	rng := rand.New(rand.NewSource(seed))
	k := &Keys{}

	for sq := 0; sq < chess.NumSquares; sq++ {
		for _, p := range chess.PieceIndices {
			k.Pieces[p][sq] = rng.Uint64()
		}
	}
	for i := range k.CastlingRights {
		k.CastlingRights[i] = rng.Uint64()
	}
	for i := 1; i < len(k.EnPassantFile); i++ {
		k.EnPassantFile[i] = rng.Uint64()
	}
	k.SideToMove = rng.Uint64()
	return k
}

// Default returns the process-wide key set, generating it on first use.
// The returned tables are read-only.
func Default() *Keys {
	keysOnce.Do(func() {
		keys = NewKeys(Seed)
	})
	return keys
}

// Compute calculates the key of a position from scratch.
// Used when loading a position and to cross-check incremental updates.
func Compute(squares *[chess.NumSquares]chess.Piece, castlingRights, epFile int, whiteToMove bool) uint64 {
	k := Default()
	var key uint64

	for sq, p := range squares {
		if p != chess.NoPiece {
			key ^= k.Pieces[p][sq]
		}
	}
	key ^= k.EnPassantFile[epFile]
	if !whiteToMove {
		key ^= k.SideToMove
	}
	key ^= k.CastlingRights[castlingRights]
	return key
}
