package search

import (
	"github.com/samber/lo"

	"github.com/lgbarn/chess-engine-go/internal/chess"
)

// PrincipalVariation follows stored best moves from the current position,
// stopping at a missing entry, an illegal move, a repeated position or
// maxLen moves. The board is left unchanged. It must not be called while a
// search is running.
func (s *Searcher) PrincipalVariation(maxLen int) []chess.Move {
	var line []chess.Move
	seen := make(map[uint64]bool)

	for len(line) < maxLen && !seen[s.b.ZobristKey()] {
		key := s.b.ZobristKey()
		seen[key] = true

		entry := s.table.Entry(key)
		if entry.Key != key || entry.Move.IsNull() {
			break
		}
		legal := s.gen.GenerateMovesInto(s.b, s.buffer(0), false)
		if !lo.Contains(legal, entry.Move) {
			break
		}
		s.b.MakeMove(entry.Move, true)
		line = append(line, entry.Move)
	}

	for i := len(line) - 1; i >= 0; i-- {
		s.b.UnmakeMove(line[i], true)
	}
	return line
}

// FormatLine returns the long algebraic form of each move.
func FormatLine(moves []chess.Move) []string {
	return lo.Map(moves, func(m chess.Move, _ int) string {
		return m.UCI()
	})
}
