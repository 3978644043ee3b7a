package search

import "github.com/lgbarn/chess-engine-go/internal/chess"

const repetitionTableSize = 1024

// RepetitionTable is the search's own stack of position keys. It is seeded
// from the game history at the start of each search and tracks where the last
// irreversible move happened, so only positions since then are compared.
type RepetitionTable struct {
	hashes       [repetitionTableSize - 1]uint64
	startIndices [repetitionTableSize]int
	count        int
}

// NewRepetitionTable returns an empty table.
func NewRepetitionTable() *RepetitionTable {
	return &RepetitionTable{}
}

// Init loads the keys of the game so far, oldest first.
func (r *RepetitionTable) Init(history []uint64) {
	if len(history) > len(r.hashes) {
		history = history[len(history)-len(r.hashes):]
	}
	r.count = copy(r.hashes[:], history)
	for i := 0; i <= r.count; i++ {
		r.startIndices[i] = 0
	}
}

// Push adds a key. reset marks the move that reached it as irreversible.
func (r *RepetitionTable) Push(hash uint64, reset bool) {
	if r.count < len(r.hashes) {
		r.hashes[r.count] = hash
		if reset {
			r.startIndices[r.count+1] = r.count
		} else {
			r.startIndices[r.count+1] = r.startIndices[r.count]
		}
	}
	r.count++
}

// TryPop removes the newest key, if any.
func (r *RepetitionTable) TryPop() {
	r.count = chess.Max(0, r.count-1)
}

// Contains reports whether hash occurs since the last irreversible move,
// ignoring the newest entry.
func (r *RepetitionTable) Contains(hash uint64) bool {
	n := chess.Min(r.count, len(r.hashes))
	for i := r.startIndices[n]; i < n-1; i++ {
		if r.hashes[i] == hash {
			return true
		}
	}
	return false
}

// Len returns the number of keys pushed, including any beyond capacity.
func (r *RepetitionTable) Len() int {
	return r.count
}
