// Package tt implements a direct-mapped transposition table keyed by the
// Zobrist key of a borrowed board.
package tt

import (
	"math"
	"unsafe"

	"github.com/lgbarn/chess-engine-go/internal/board"
	"github.com/lgbarn/chess-engine-go/internal/chess"
)

// LookupFailed is returned by LookupEvaluation when no usable entry exists.
// It lies outside the range of any real score.
const LookupFailed = math.MinInt32

// Bound types.
const (
	Exact      uint8 = 0
	LowerBound uint8 = 1
	UpperBound uint8 = 2
)

// Mate scores. A score of ImmediateMateScore - n means the side to move
// mates in n plies.
const (
	ImmediateMateScore = 100000
	maxMateDepth       = 1000
)

// IsMateScore reports whether score encodes a forced mate.
func IsMateScore(score int) bool {
	if score == LookupFailed {
		return false
	}
	return chess.Abs(score) > ImmediateMateScore-maxMateDepth
}

// NumPlyToMateFromScore returns the number of plies until mate for a mate score.
func NumPlyToMateFromScore(score int) int {
	return ImmediateMateScore - chess.Abs(score)
}

// Entry is one table slot.
type Entry struct {
	Key   uint64
	Value int32
	Move  chess.Move
	Depth uint8
	Bound uint8
}

// Stats counts table traffic since the last Clear.
type Stats struct {
	Hits   int
	Misses int
	Writes int
}

// Table is a fixed-size transposition table. It reads the key of the board
// it was created with, so it must only be used while that board is in the
// position being probed.
type Table struct {
	// Enabled turns every lookup into a miss and every store into a no-op when false
	Enabled bool

	entries []Entry
	count   uint64
	b       *board.Board
	stats   Stats
}

// New allocates a table of about sizeMB megabytes for b.
func New(b *board.Board, sizeMB int) *Table {
	count := uint64(sizeMB) * 1024 * 1024 / uint64(unsafe.Sizeof(Entry{}))
	if count == 0 {
		count = 1
	}
	return &Table{
		Enabled: true,
		entries: make([]Entry, count),
		count:   count,
		b:       b,
	}
}

// Len returns the number of slots.
func (t *Table) Len() int {
	return len(t.entries)
}

// Clear empties every slot and resets the statistics.
func (t *Table) Clear() {
	clear(t.entries)
	t.stats = Stats{}
}

// Index returns the slot of the board's current position.
func (t *Table) Index() uint64 {
	return t.b.ZobristKey() % t.count
}

// TryGetStoredMove returns the move stored in the current position's slot.
// The slot may belong to another position; callers must check legality.
func (t *Table) TryGetStoredMove() chess.Move {
	return t.entries[t.Index()].Move
}

// Entry returns the slot a key maps to.
func (t *Table) Entry(key uint64) Entry {
	return t.entries[key%t.count]
}

// LookupEvaluation returns the stored score of the current position if the
// entry was searched at least as deep as depth and its bound settles the
// alpha-beta window; otherwise it returns LookupFailed.
func (t *Table) LookupEvaluation(depth, plyFromRoot, alpha, beta int) int {
	if !t.Enabled {
		return LookupFailed
	}
	entry := t.entries[t.Index()]
	if entry.Key != t.b.ZobristKey() || int(entry.Depth) < depth {
		t.stats.Misses++
		return LookupFailed
	}

	score := correctRetrievedMateScore(int(entry.Value), plyFromRoot)
	switch {
	case entry.Bound == Exact,
		entry.Bound == UpperBound && score <= alpha,
		entry.Bound == LowerBound && score >= beta:
		t.stats.Hits++
		return score
	}
	t.stats.Misses++
	return LookupFailed
}

// StoreEvaluation writes the current position's result, replacing whatever
// the slot held. numPlySearched is the distance from the root.
func (t *Table) StoreEvaluation(depth, numPlySearched, eval int, bound uint8, move chess.Move) {
	if !t.Enabled {
		return
	}
	t.stats.Writes++
	t.entries[t.Index()] = Entry{
		Key:   t.b.ZobristKey(),
		Value: int32(correctMateScoreForStorage(eval, numPlySearched)),
		Move:  move,
		Depth: uint8(depth),
		Bound: bound,
	}
}

// Stats returns the traffic counters.
func (t *Table) Stats() Stats {
	return t.stats
}

// Occupancy estimates the filled fraction of the table from its first
// thousand slots.
func (t *Table) Occupancy() float64 {
	sample := chess.Min(len(t.entries), 1000)
	used := 0
	for _, e := range t.entries[:sample] {
		if e != (Entry{}) {
			used++
		}
	}
	return float64(used) / float64(sample)
}

// Mate scores are stored relative to the stored position rather than the
// root, so a mate found deep in one branch reads correctly from another.
func correctMateScoreForStorage(score, numPlySearched int) int {
	if IsMateScore(score) {
		sign := chess.Sign(score)
		return (score*sign + numPlySearched) * sign
	}
	return score
}

func correctRetrievedMateScore(score, numPlySearched int) int {
	if IsMateScore(score) {
		sign := chess.Sign(score)
		return (score*sign - numPlySearched) * sign
	}
	return score
}
