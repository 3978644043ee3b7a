package search

import (
	"sort"

	"github.com/lgbarn/chess-engine-go/internal/board"
	"github.com/lgbarn/chess-engine-go/internal/chess"
	"github.com/lgbarn/chess-engine-go/internal/eval"
	"github.com/lgbarn/chess-engine-go/internal/movegen"
)

const maxKillerMovePly = 32

// Ordering biases. Each class of move sorts ahead of the next.
const (
	million            = 1000000
	hashMoveScore      = 100 * million
	winningCaptureBias = 8 * million
	promoteBias        = 6 * million
	killerBias         = 4 * million
	losingCaptureBias  = 2 * million
	regularBias        = 0
)

// Killers holds the two most recent quiet moves that caused a cutoff at one ply.
type Killers struct {
	MoveA chess.Move
	MoveB chess.Move
}

// Add records m as the newest killer.
func (k *Killers) Add(m chess.Move) {
	if m != k.MoveA {
		k.MoveB = k.MoveA
		k.MoveA = m
	}
}

// Match reports whether m is one of the killers.
func (k *Killers) Match(m chess.Move) bool {
	return m == k.MoveA || m == k.MoveB
}

// MoveOrderer sorts moves so that the likeliest refutations are searched first.
type MoveOrderer struct {
	Killers [maxKillerMovePly]Killers
	// History is indexed by colour index, start square and target square
	History [2][chess.NumSquares][chess.NumSquares]int

	scores [][movegen.MaxMoves]int
}

// NewMoveOrderer returns an empty orderer.
func NewMoveOrderer() *MoveOrderer {
	return &MoveOrderer{}
}

// ClearHistory resets the history heuristic.
func (o *MoveOrderer) ClearHistory() {
	o.History = [2][chess.NumSquares][chess.NumSquares]int{}
}

// ClearKillers forgets all killer moves.
func (o *MoveOrderer) ClearKillers() {
	o.Killers = [maxKillerMovePly]Killers{}
}

// RecordCutoff rewards a quiet move that failed high at ply with
// plyRemaining plies left to search.
func (o *MoveOrderer) RecordCutoff(b *board.Board, m chess.Move, ply, plyRemaining int) {
	if ply < maxKillerMovePly {
		o.Killers[ply].Add(m)
	}
	o.History[b.MoveColourIndex()][m.StartSquare()][m.TargetSquare()] += plyRemaining * plyRemaining
}

// OrderMoves sorts moves in place, best first. The attack maps are those of
// the opponent in the current position. Killers are ignored in quiescence.
func (o *MoveOrderer) OrderMoves(hashMove chess.Move, b *board.Board, moves []chess.Move,
	oppAttacks, oppPawnAttacks chess.Bitboard, inQSearch bool, ply int) {
	for len(o.scores) <= ply {
		o.scores = append(o.scores, [movegen.MaxMoves]int{})
	}
	scores := o.scores[ply][:len(moves)]
	colourIndex := b.MoveColourIndex()

	for i, m := range moves {
		if m == hashMove {
			scores[i] = hashMoveScore
			continue
		}

		start, target := m.StartSquare(), m.TargetSquare()
		piece := b.Square[start]
		pieceType := piece.Type()
		capturedType := b.Square[target].Type()
		isCapture := capturedType != chess.None
		score := 0

		if isCapture {
			delta := eval.Value(capturedType) - eval.Value(pieceType)
			recapture := (oppAttacks | oppPawnAttacks).Contains(target)
			if recapture && delta < 0 {
				score += losingCaptureBias + delta
			} else {
				score += winningCaptureBias + delta
			}
		}

		switch pieceType {
		case chess.Pawn:
			if m.Flag() == chess.PromoteToQueen && !isCapture {
				score += promoteBias
			}
		case chess.King:
		default:
			score += eval.PieceSquareValue(piece, target) - eval.PieceSquareValue(piece, start)
			if oppPawnAttacks.Contains(target) {
				score -= 50
			} else if oppAttacks.Contains(target) {
				score -= 25
			}
		}

		if !isCapture {
			if !inQSearch && ply < maxKillerMovePly && o.Killers[ply].Match(m) {
				score += killerBias
			} else {
				score += regularBias
			}
			score += o.History[colourIndex][start][target]
		}
		scores[i] = score
	}

	sort.Sort(byScore{moves: moves, scores: scores})
}

type byScore struct {
	moves  []chess.Move
	scores []int
}

func (s byScore) Len() int           { return len(s.moves) }
func (s byScore) Less(i, j int) bool { return s.scores[i] > s.scores[j] }
func (s byScore) Swap(i, j int) {
	s.moves[i], s.moves[j] = s.moves[j], s.moves[i]
	s.scores[i], s.scores[j] = s.scores[j], s.scores[i]
}
