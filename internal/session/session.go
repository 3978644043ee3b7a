// Package session owns engine instances: a board, its move history and a
// searcher, addressed by ID through a Manager.
package session

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/lgbarn/chess-engine-go/internal/board"
	"github.com/lgbarn/chess-engine-go/internal/chess"
	"github.com/lgbarn/chess-engine-go/internal/config"
	"github.com/lgbarn/chess-engine-go/internal/errors"
	"github.com/lgbarn/chess-engine-go/internal/movegen"
	"github.com/lgbarn/chess-engine-go/internal/search"
)

// pvLength bounds the principal variation reported with a result.
const pvLength = 16

// cancelRetry is how often a pending cancel is re-sent to a search that had
// not started yet when the deadline passed.
const cancelRetry = 5 * time.Millisecond

// Result is the outcome of one Think call.
type Result struct {
	Move        string             `json:"move"`
	Eval        int                `json:"eval"`
	Depth       int                `json:"depth"`
	Mate        string             `json:"mate,omitempty"`
	PV          []string           `json:"pv,omitempty"`
	Diagnostics search.Diagnostics `json:"-"`
}

// Session is one engine instance. Its methods are safe for concurrent use;
// while Think runs, the other mutating calls fail with ErrSearchInProgress.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu        sync.Mutex
	cfg       config.SearchConfig
	log       zerolog.Logger
	board     *board.Board
	gen       *movegen.Generator
	searcher  *search.Searcher
	startFEN  string
	moves     []chess.Move
	updatedAt time.Time

	thinking atomic.Bool
}

// New creates a standalone session in the standard starting position. A nil
// cfg uses the defaults.
func New(cfg *config.SearchConfig, log zerolog.Logger) *Session {
	if cfg == nil {
		cfg = config.NewSearchConfig()
	}
	id := uuid.NewString()
	b := board.New()
	now := time.Now()
	s := &Session{
		ID:        id,
		CreatedAt: now,
		cfg:       *cfg,
		log:       log.With().Str("session", id).Logger(),
		board:     b,
		gen:       movegen.New(),
		startFEN:  board.StartPositionFEN,
		updatedAt: now,
	}
	s.searcher = search.New(b, &s.cfg, search.WithLogger(s.log))
	return s
}

// Key returns the hash of the current position.
func (s *Session) Key() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.ZobristKey()
}

// Load replaces the game with the position in fen. A malformed record leaves
// the session unchanged.
func (s *Session) Load(fen string) error {
	if s.thinking.Load() {
		return errors.ErrSearchInProgress
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.board.LoadPosition(fen); err != nil {
		return err
	}
	s.startFEN = fen
	s.moves = nil
	s.searcher.ClearForNewPosition()
	s.touch()
	s.log.Debug().Str("fen", fen).Msg("position-loaded")
	return nil
}

// Play makes a move given in long algebraic form.
func (s *Session) Play(uci string) error {
	if s.thinking.Load() {
		return errors.ErrSearchInProgress
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := movegen.MoveFromUCI(s.board, uci)
	if err != nil {
		return err
	}
	s.board.MakeMove(m, false)
	s.moves = append(s.moves, m)
	s.touch()
	s.log.Debug().Str("move", uci).Int("ply", s.board.PlyCount).Msg("move-played")
	return nil
}

// Undo takes back the last move. The game is replayed from its first
// position, since an irreversible move drops the repetition history that a
// plain unmake cannot restore.
func (s *Session) Undo() error {
	if s.thinking.Load() {
		return errors.ErrSearchInProgress
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.moves) == 0 {
		return fmt.Errorf("nothing to undo: %w", errors.ErrIllegalMove)
	}
	s.moves = s.moves[:len(s.moves)-1]
	if err := s.board.LoadPosition(s.startFEN); err != nil {
		return err
	}
	for _, m := range s.moves {
		s.board.MakeMove(m, false)
	}
	s.touch()
	s.log.Debug().Int("ply", s.board.PlyCount).Msg("move-undone")
	return nil
}

// FEN returns the current position. It waits for a running search.
func (s *Session) FEN() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return board.CurrentFEN(s.board)
}

// Moves returns the moves played since the last Load.
func (s *Session) Moves() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return search.FormatLine(s.moves)
}

// State classifies the current position.
func (s *Session) State() board.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return board.GetGameState(s.board, s.gen)
}

// UpdatedAt returns when the game last changed.
func (s *Session) UpdatedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatedAt
}

// Think searches the current position. In iterative deepening mode the
// search stops when the configured time limit passes; in either mode it
// stops when ctx is done. The best move found so far is returned; being
// stopped early is not an error.
func (s *Session) Think(ctx context.Context) (Result, error) {
	if !s.thinking.CompareAndSwap(false, true) {
		return Result{}, errors.ErrSearchInProgress
	}
	defer s.thinking.Store(false)

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.gen.GenerateMoves(s.board, false)) == 0 {
		return Result{}, fmt.Errorf("%s: %w", board.GetGameState(s.board, s.gen), errors.ErrNoLegalMoves)
	}

	done := make(chan struct{})
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(done)
		s.searcher.StartSearch()
		return nil
	})
	g.Go(func() error {
		s.watch(gctx, done)
		return nil
	})
	_ = g.Wait()

	move, eval := s.searcher.GetSearchResult()
	res := Result{
		Move:        move.UCI(),
		Eval:        eval,
		Depth:       s.searcher.CurrentDepth(),
		PV:          search.FormatLine(s.searcher.PrincipalVariation(pvLength)),
		Diagnostics: s.searcher.Diagnostics(),
	}
	if search.IsMateScore(eval) {
		res.Mate = s.searcher.AnnounceMate()
	}
	if len(res.PV) == 0 || res.PV[0] != res.Move {
		res.PV = []string{res.Move}
	}

	s.log.Info().
		Str("move", res.Move).
		Int("eval", res.Eval).
		Int("depth", res.Depth).
		Dur("elapsed", res.Diagnostics.Elapsed).
		Msg("think-complete")
	return res, nil
}

// watch ends the search at the deadline or when ctx is done. A cancel sent
// before the search starts running is dropped by the searcher, so it is
// repeated until the search reports completion.
func (s *Session) watch(ctx context.Context, done <-chan struct{}) {
	var deadline <-chan time.Time
	if s.cfg.Mode == config.IterativeDeepening && s.cfg.TimeLimit > 0 {
		timer := time.NewTimer(s.cfg.TimeLimit)
		defer timer.Stop()
		deadline = timer.C
	}

	select {
	case <-done:
		return
	case <-deadline:
		s.log.Debug().Dur("limit", s.cfg.TimeLimit).Msg("time-limit-reached")
	case <-ctx.Done():
		s.log.Debug().Err(ctx.Err()).Msg("think-cancelled")
	}

	ticker := time.NewTicker(cancelRetry)
	defer ticker.Stop()
	for {
		s.searcher.EndSearch()
		select {
		case <-done:
			return
		case <-ticker.C:
		}
	}
}

// Stop asks a running Think to return early. It has no effect otherwise.
func (s *Session) Stop() {
	s.searcher.EndSearch()
}

// IsThinking reports whether a search is running.
func (s *Session) IsThinking() bool {
	return s.thinking.Load()
}

func (s *Session) touch() {
	s.updatedAt = time.Now()
}

// LegalMoves lists the legal moves of the current position in sorted order.
func (s *Session) LegalMoves() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	moves := search.FormatLine(s.gen.GenerateMoves(s.board, false))
	slices.Sort(moves)
	return moves
}
