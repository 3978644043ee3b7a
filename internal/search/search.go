// Package search finds the best move in a position with an iterative
// deepening alpha-beta (negamax) search backed by a transposition table.
package search

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/lgbarn/chess-engine-go/internal/board"
	"github.com/lgbarn/chess-engine-go/internal/chess"
	"github.com/lgbarn/chess-engine-go/internal/config"
	"github.com/lgbarn/chess-engine-go/internal/eval"
	"github.com/lgbarn/chess-engine-go/internal/movegen"
	"github.com/lgbarn/chess-engine-go/internal/tt"
)

const (
	positiveInfinity = 9999999
	negativeInfinity = -positiveInfinity

	// quiescenceCheckPlies bounds how many checks and evasions quiescence
	// follows along one line when checks are enabled.
	quiescenceCheckPlies = 2
)

// ImmediateMateScore is the score of delivering mate on the next ply.
const ImmediateMateScore = tt.ImmediateMateScore

// IsMateScore reports whether score encodes a forced mate.
func IsMateScore(score int) bool {
	return tt.IsMateScore(score)
}

// NumPlyToMateFromScore returns the plies until mate for a mate score.
func NumPlyToMateFromScore(score int) int {
	return tt.NumPlyToMateFromScore(score)
}

// MoveGenerator supplies legal moves and the attack data of the last
// generated position.
type MoveGenerator interface {
	GenerateMovesInto(b *board.Board, buf []chess.Move, capturesOnly bool) []chess.Move
	InCheck() bool
	OpponentAttackMap() chess.Bitboard
	OpponentPawnAttackMap() chess.Bitboard
}

// Evaluator scores a position from the side to move's point of view.
type Evaluator interface {
	Evaluate(b *board.Board) int
}

// Diagnostics describes the most recent search.
type Diagnostics struct {
	CompletedIterations int
	PositionsEvaluated  int
	CutOffs             uint64
	Nodes               uint64
	Move                string
	Eval                int
	// PartialResult is set when the move comes from an unfinished iteration
	PartialResult       bool
	MaxExtensionReached int
	QuiescenceChecks    int
	QuiescenceMates     int
	Elapsed             time.Duration
}

// Option configures a Searcher.
type Option func(*Searcher)

// WithLogger sets the logger for search progress.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Searcher) {
		s.log = log
	}
}

// WithEvaluator replaces the static evaluator.
func WithEvaluator(e Evaluator) Option {
	return func(s *Searcher) {
		s.evaluator = e
	}
}

// WithMoveGenerator replaces the move generator.
func WithMoveGenerator(g MoveGenerator) Option {
	return func(s *Searcher) {
		s.gen = g
	}
}

// WithRandSeed seeds the fallback move picker.
func WithRandSeed(seed int64) Option {
	return func(s *Searcher) {
		s.rng = rand.New(rand.NewSource(seed))
	}
}

// Searcher searches one borrowed board. It owns its transposition table and
// move orderer. Only EndSearch and CurrentDepth may be called while a search
// is running.
type Searcher struct {
	// OnSearchComplete, if set, receives the chosen move at the end of StartSearch
	OnSearchComplete func(chess.Move)

	b          *board.Board
	cfg        *config.SearchConfig
	log        zerolog.Logger
	gen        MoveGenerator
	evaluator  Evaluator
	table      *tt.Table
	orderer    *MoveOrderer
	repetition *RepetitionTable
	rng        *rand.Rand

	bestMove              chess.Move
	bestEval              int
	bestMoveThisIteration chess.Move
	bestEvalThisIteration int
	hasSearchedOneMove    bool

	stateMu      sync.Mutex
	running      bool
	cancelled    atomic.Bool
	currentDepth atomic.Int32

	diag        Diagnostics
	moveBuffers [][movegen.MaxMoves]chess.Move
}

// New creates a Searcher for b. A nil cfg uses the defaults.
func New(b *board.Board, cfg *config.SearchConfig, opts ...Option) *Searcher {
	if cfg == nil {
		cfg = config.NewSearchConfig()
	}
	gen := movegen.New()
	gen.PromotionsToGenerate = movegen.PromoteQueenAndKnight

	s := &Searcher{
		b:          b,
		cfg:        cfg,
		log:        zerolog.Nop(),
		gen:        gen,
		evaluator:  eval.New(),
		orderer:    NewMoveOrderer(),
		repetition: NewRepetitionTable(),
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}

	sizeMB := cfg.TTSizeMB
	if !cfg.UseTT {
		sizeMB = 0
	}
	s.table = tt.New(b, sizeMB)
	s.table.Enabled = cfg.UseTT
	return s
}

// Table returns the searcher's transposition table.
func (s *Searcher) Table() *tt.Table {
	return s.table
}

// StartSearch searches the current position until the configured depth is
// reached, a mate is proven or EndSearch is called. The board is restored
// before it returns.
func (s *Searcher) StartSearch() {
	s.stateMu.Lock()
	s.running = true
	s.stateMu.Unlock()

	start := time.Now()
	s.bestEval, s.bestEvalThisIteration = 0, 0
	s.bestMove, s.bestMoveThisIteration = chess.NullMove, chess.NullMove
	s.orderer.ClearHistory()
	s.repetition.Init(s.b.RepetitionHistory)
	s.currentDepth.Store(0)
	s.diag = Diagnostics{}

	s.log.Debug().
		Str("fen", board.CurrentFEN(s.b)).
		Stringer("mode", s.cfg.Mode).
		Msg("starting-search")

	if s.cfg.Mode == config.IterativeDeepening {
		s.runIterativeDeepening(start)
	} else {
		s.runFixedDepth()
	}

	if s.bestMove.IsNull() {
		s.bestMove = s.randomMove()
		s.log.Debug().Str("move", s.bestMove.UCI()).Msg("using-random-move")
	}
	s.diag.Move = s.bestMove.UCI()
	s.diag.Eval = s.bestEval
	s.diag.Elapsed = time.Since(start)

	if s.OnSearchComplete != nil {
		s.OnSearchComplete(s.bestMove)
	}

	s.stateMu.Lock()
	s.running = false
	s.cancelled.Store(false)
	s.stateMu.Unlock()
}

func (s *Searcher) runIterativeDeepening(start time.Time) {
	for depth := 1; depth <= s.cfg.DepthLimit(); depth++ {
		s.hasSearchedOneMove = false
		iterationStart := time.Now()
		s.search(depth, 0, negativeInfinity, positiveInfinity, 0, chess.NullMove, false)

		if s.cancelled.Load() {
			if s.hasSearchedOneMove {
				s.bestMove = s.bestMoveThisIteration
				s.bestEval = s.bestEvalThisIteration
				s.diag.PartialResult = true
				s.log.Debug().
					Int("depth", depth).
					Str("move", s.bestMove.UCI()).
					Int("eval", s.bestEval).
					Msg("using-partial-result")
			}
			s.log.Debug().Int("depth", depth).Msg("search-aborted")
			break
		}

		s.currentDepth.Store(int32(depth))
		s.bestMove = s.bestMoveThisIteration
		s.bestEval = s.bestEvalThisIteration
		s.diag.CompletedIterations = depth

		event := s.log.Info().
			Int("depth", depth).
			Str("move", s.bestMove.UCI()).
			Int("eval", s.bestEval).
			Uint64("nodes", s.diag.Nodes).
			Dur("iteration", time.Since(iterationStart)).
			Dur("elapsed", time.Since(start))
		if IsMateScore(s.bestEval) {
			event = event.Int("mate-plies", NumPlyToMateFromScore(s.bestEval))
		}
		event.Msg("iteration-complete")

		s.bestEvalThisIteration = math.MinInt32
		s.bestMoveThisIteration = chess.NullMove

		if IsMateScore(s.bestEval) && NumPlyToMateFromScore(s.bestEval) <= depth {
			s.log.Debug().Msg("mate-found-within-depth")
			break
		}
	}
}

func (s *Searcher) runFixedDepth() {
	depth := s.cfg.FixedDepth
	s.search(depth, 0, negativeInfinity, positiveInfinity, 0, chess.NullMove, false)
	s.bestMove = s.bestMoveThisIteration
	s.bestEval = s.bestEvalThisIteration
	if !s.cancelled.Load() {
		s.currentDepth.Store(int32(depth))
		s.diag.CompletedIterations = 1
	} else {
		s.diag.PartialResult = true
	}
	s.log.Info().
		Int("depth", depth).
		Str("move", s.bestMove.UCI()).
		Int("eval", s.bestEval).
		Uint64("nodes", s.diag.Nodes).
		Msg("fixed-depth-complete")
}

// EndSearch asks a running search to stop. It is safe to call from any
// goroutine and has no effect when no search is running.
func (s *Searcher) EndSearch() {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	if s.running {
		s.cancelled.Store(true)
	}
}

// GetSearchResult returns the move and score chosen by the last search.
func (s *Searcher) GetSearchResult() (chess.Move, int) {
	return s.bestMove, s.bestEval
}

// BestMoveSoFar returns the best move of the last completed iteration.
func (s *Searcher) BestMoveSoFar() chess.Move {
	return s.bestMove
}

// CurrentDepth returns the depth of the last completed iteration.
func (s *Searcher) CurrentDepth() int {
	return int(s.currentDepth.Load())
}

// Diagnostics returns the statistics of the last search.
func (s *Searcher) Diagnostics() Diagnostics {
	return s.diag
}

// ClearForNewPosition forgets everything learned about earlier positions.
func (s *Searcher) ClearForNewPosition() {
	s.table.Clear()
	s.orderer.ClearKillers()
}

// AnnounceMate describes a forced mate found by the last search.
func (s *Searcher) AnnounceMate() string {
	if !IsMateScore(s.bestEval) {
		return "No mate found"
	}
	numPlyToMate := NumPlyToMateFromScore(s.bestEval)
	numMovesToMate := (numPlyToMate + 1) / 2

	side := "White"
	if (s.bestEval < 0) == s.b.IsWhiteToMove {
		side = "Black"
	}
	plural := ""
	if numMovesToMate > 1 {
		plural = "s"
	}
	return fmt.Sprintf("%s can mate in %d move%s", side, numMovesToMate, plural)
}

func (s *Searcher) buffer(ply int) []chess.Move {
	for len(s.moveBuffers) <= ply {
		s.moveBuffers = append(s.moveBuffers, [movegen.MaxMoves]chess.Move{})
	}
	return s.moveBuffers[ply][:0]
}

func (s *Searcher) search(plyRemaining, plyFromRoot, alpha, beta, numExtensions int, prevMove chess.Move, prevWasCapture bool) int {
	if s.cancelled.Load() {
		return 0
	}
	s.diag.Nodes++
	b := s.b

	if plyFromRoot > 0 {
		if b.CurrentGameState.FiftyMoveCounter >= 100 || s.repetition.Contains(b.ZobristKey()) {
			return 0
		}

		// Mate distance pruning: no line from here beats a mate already found closer to the root.
		alpha = chess.Max(alpha, -ImmediateMateScore+plyFromRoot)
		beta = chess.Min(beta, ImmediateMateScore-plyFromRoot)
		if alpha >= beta {
			return alpha
		}
	}

	if ttVal := s.table.LookupEvaluation(plyRemaining, plyFromRoot, alpha, beta); ttVal != tt.LookupFailed {
		if plyFromRoot == 0 {
			s.bestMoveThisIteration = s.table.TryGetStoredMove()
			s.bestEvalThisIteration = ttVal
		}
		return ttVal
	}

	if plyRemaining <= 0 {
		return s.quiescence(alpha, beta, plyFromRoot, quiescenceCheckPlies)
	}

	moves := s.gen.GenerateMovesInto(b, s.buffer(plyFromRoot), false)
	if len(moves) == 0 {
		if s.gen.InCheck() {
			return -(ImmediateMateScore - plyFromRoot)
		}
		return 0
	}

	hashMove := s.table.TryGetStoredMove()
	if plyFromRoot == 0 {
		hashMove = s.bestMove
	}
	s.orderer.OrderMoves(hashMove, b, moves, s.gen.OpponentAttackMap(), s.gen.OpponentPawnAttackMap(), false, plyFromRoot)

	if plyFromRoot > 0 {
		wasPawnMove := b.Square[prevMove.TargetSquare()].Type() == chess.Pawn
		s.repetition.Push(b.ZobristKey(), prevWasCapture || wasPawnMove)
	}

	bound := tt.UpperBound
	bestMoveInPosition := chess.NullMove

	for i, move := range moves {
		target := move.TargetSquare()
		isCapture := b.Square[target] != chess.NoPiece || move.Flag() == chess.EnPassantCapture
		b.MakeMove(move, true)

		extension := 0
		if numExtensions < s.cfg.MaxExtensions {
			rank := chess.RankIndex(target)
			if b.IsInCheck() {
				extension = 1
			} else if b.Square[target].Type() == chess.Pawn && (rank == 1 || rank == 6) {
				extension = 1
			}
		}
		if numExtensions+extension > s.diag.MaxExtensionReached {
			s.diag.MaxExtensionReached = numExtensions + extension
		}

		needsFullSearch := true
		score := 0
		if i >= 3 && extension == 0 && plyRemaining >= 3 && !isCapture {
			const reduction = 1
			score = -s.search(plyRemaining-1-reduction, plyFromRoot+1, -alpha-1, -alpha, numExtensions, move, isCapture)
			needsFullSearch = score > alpha
		}
		if needsFullSearch {
			score = -s.search(plyRemaining-1+extension, plyFromRoot+1, -beta, -alpha, numExtensions+extension, move, isCapture)
		}

		b.UnmakeMove(move, true)

		if s.cancelled.Load() {
			return 0
		}

		if score >= beta {
			s.table.StoreEvaluation(plyRemaining, plyFromRoot, beta, tt.LowerBound, move)
			if !isCapture {
				s.orderer.RecordCutoff(b, move, plyFromRoot, plyRemaining)
			}
			if plyFromRoot > 0 {
				s.repetition.TryPop()
			}
			s.diag.CutOffs++
			return beta
		}

		if score > alpha {
			bound = tt.Exact
			bestMoveInPosition = move
			alpha = score
			if plyFromRoot == 0 {
				s.bestMoveThisIteration = move
				s.bestEvalThisIteration = score
				s.hasSearchedOneMove = true
			}
		}
	}

	if plyFromRoot > 0 {
		s.repetition.TryPop()
	}
	s.table.StoreEvaluation(plyRemaining, plyFromRoot, alpha, bound, bestMoveInPosition)
	return alpha
}

// quiescence resolves captures (and, when enabled, a few plies of checks)
// before trusting the static evaluation.
func (s *Searcher) quiescence(alpha, beta, plyFromRoot, checksLeft int) int {
	if s.cancelled.Load() {
		return 0
	}
	s.diag.Nodes++
	b := s.b

	checksMode := s.cfg.QuiescenceChecks && checksLeft > 0
	inCheck := checksMode && b.IsInCheck()

	if !inCheck {
		standPat := s.evaluator.Evaluate(b)
		s.diag.PositionsEvaluated++
		if standPat >= beta {
			s.diag.CutOffs++
			return beta
		}
		if standPat > alpha {
			alpha = standPat
		}
	}

	capturesOnly := !checksMode
	moves := s.gen.GenerateMovesInto(b, s.buffer(plyFromRoot), capturesOnly)
	if inCheck && len(moves) == 0 {
		s.diag.QuiescenceMates++
		return -(ImmediateMateScore - plyFromRoot)
	}
	s.orderer.OrderMoves(chess.NullMove, b, moves, s.gen.OpponentAttackMap(), s.gen.OpponentPawnAttackMap(), true, plyFromRoot)

	for _, move := range moves {
		tactical := b.Square[move.TargetSquare()] != chess.NoPiece ||
			move.Flag() == chess.EnPassantCapture || move.IsPromotion()
		childChecks := checksLeft
		if inCheck {
			childChecks = checksLeft - 1
		}

		b.MakeMove(move, true)
		if !tactical && !inCheck {
			if !b.IsInCheck() {
				b.UnmakeMove(move, true)
				continue
			}
			s.diag.QuiescenceChecks++
			childChecks = checksLeft - 1
		}
		score := -s.quiescence(-beta, -alpha, plyFromRoot+1, childChecks)
		b.UnmakeMove(move, true)

		if score >= beta {
			s.diag.CutOffs++
			return beta
		}
		if score > alpha {
			alpha = score
		}
	}
	return alpha
}

func (s *Searcher) randomMove() chess.Move {
	moves := s.gen.GenerateMovesInto(s.b, s.buffer(0), false)
	if len(moves) == 0 {
		return chess.NullMove
	}
	return moves[s.rng.Intn(len(moves))]
}
