package movegen

import (
	"sort"

	"github.com/samber/lo"

	"github.com/lgbarn/chess-engine-go/internal/board"
	"github.com/lgbarn/chess-engine-go/internal/chess"
)

// Perft counts the leaf nodes of the legal move tree to the given depth.
func (g *Generator) Perft(b *board.Board, depth int) uint64 {
	if depth == 0 {
		return 1
	}
	var buf [MaxMoves]chess.Move
	moves := g.GenerateMovesInto(b, buf[:0], false)
	if depth == 1 {
		return uint64(len(moves))
	}

	var nodes uint64
	for _, move := range moves {
		b.MakeMove(move, true)
		nodes += g.Perft(b, depth-1)
		b.UnmakeMove(move, true)
	}
	return nodes
}

// DivideEntry is the perft count below one root move.
type DivideEntry struct {
	Move  string
	Nodes uint64
}

// Divide returns the perft count below each root move, sorted by move text.
func (g *Generator) Divide(b *board.Board, depth int) []DivideEntry {
	if depth < 1 {
		return nil
	}
	counts := make(map[string]uint64)
	for _, move := range g.GenerateMoves(b, false) {
		b.MakeMove(move, true)
		counts[move.UCI()] = g.Perft(b, depth-1)
		b.UnmakeMove(move, true)
	}

	keys := lo.Keys(counts)
	sort.Strings(keys)
	return lo.Map(keys, func(k string, _ int) DivideEntry {
		return DivideEntry{Move: k, Nodes: counts[k]}
	})
}
