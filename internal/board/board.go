// Package board holds the mutable chess position: a square array, bitboards
// and piece lists kept in agreement, with incremental Zobrist hashing and
// exact undo of every move.
package board

import (
	"strings"

	"github.com/lgbarn/chess-engine-go/internal/chess"
	"github.com/lgbarn/chess-engine-go/internal/hashing"
)

// Colour indices into per-colour arrays.
const (
	WhiteIndex = 0
	BlackIndex = 1
)

// Board is a chess position plus the history needed to undo moves.
// A Board is not safe for concurrent use.
type Board struct {
	// Square holds the piece on each square
	Square [chess.NumSquares]chess.Piece
	// KingSquare is indexed by colour index
	KingSquare [2]int
	// IsWhiteToMove is the side to move
	IsWhiteToMove bool

	// PieceBitboards is indexed by coloured piece code
	PieceBitboards [chess.MaxPieceIndex + 1]chess.Bitboard
	// ColourBitboards is indexed by colour index
	ColourBitboards   [2]chess.Bitboard
	AllPiecesBitboard chess.Bitboard

	// Slider caches relative to the side to move
	FriendlyOrthogonalSliders chess.Bitboard
	FriendlyDiagonalSliders   chess.Bitboard
	EnemyOrthogonalSliders    chess.Bitboard
	EnemyDiagonalSliders      chess.Bitboard

	// TotalPieceCountWithoutPawnsAndKings counts knights, bishops, rooks and queens
	TotalPieceCountWithoutPawnsAndKings int

	// PlyCount is the number of plies since the start of the game
	PlyCount int

	// RepetitionHistory holds the keys of real game positions since the last
	// irreversible move, oldest first
	RepetitionHistory []uint64
	// AllGameMoves holds every move played outside search
	AllGameMoves []chess.Move

	CurrentGameState GameState

	pieceLists       [chess.MaxPieceIndex + 1]PieceList
	gameStateHistory []GameState

	cachedInCheckValue    bool
	hasCachedInCheckValue bool
}

// New returns a board set up in the standard starting position.
func New() *Board {
	b := &Board{}
	b.LoadStartPosition()
	return b
}

// NewFromFEN returns a board set up from a FEN record.
func NewFromFEN(fen string) (*Board, error) {
	b := &Board{}
	if err := b.LoadPosition(fen); err != nil {
		return nil, err
	}
	return b, nil
}

// ZobristKey returns the key of the current position.
func (b *Board) ZobristKey() uint64 {
	return b.CurrentGameState.ZobristKey
}

// MoveColour returns the side to move.
func (b *Board) MoveColour() chess.Colour {
	if b.IsWhiteToMove {
		return chess.White
	}
	return chess.Black
}

// OpponentColour returns the side not to move.
func (b *Board) OpponentColour() chess.Colour {
	return b.MoveColour().Opposite()
}

// MoveColourIndex returns the colour index of the side to move.
func (b *Board) MoveColourIndex() int {
	if b.IsWhiteToMove {
		return WhiteIndex
	}
	return BlackIndex
}

// OpponentColourIndex returns the colour index of the side not to move.
func (b *Board) OpponentColourIndex() int {
	return 1 - b.MoveColourIndex()
}

// PieceList returns the squares holding piece p.
func (b *Board) PieceList(p chess.Piece) *PieceList {
	return &b.pieceLists[p]
}

// FiftyMoveCounter returns the plies since the last pawn move or capture.
func (b *Board) FiftyMoveCounter() int {
	return b.CurrentGameState.FiftyMoveCounter
}

// HistoryLen returns the number of game states on the undo stack.
func (b *Board) HistoryLen() int {
	return len(b.gameStateHistory)
}

// LoadStartPosition resets the board to the standard starting position.
func (b *Board) LoadStartPosition() {
	info, err := PositionFromFEN(StartPositionFEN)
	if err != nil {
		panic("board: start position does not parse: " + err.Error())
	}
	b.LoadPositionInfo(info)
}

// LoadPosition resets the board to the position described by fen.
// On error the board is left unchanged.
func (b *Board) LoadPosition(fen string) error {
	info, err := PositionFromFEN(fen)
	if err != nil {
		return err
	}
	b.LoadPositionInfo(info)
	return nil
}

// LoadPositionInfo resets the board to a decoded position, clearing all history.
func (b *Board) LoadPositionInfo(info PositionInfo) {
	b.initialize()

	for sq, piece := range info.Squares {
		b.Square[sq] = piece
		if piece == chess.NoPiece {
			continue
		}
		colourIndex := WhiteIndex
		if !piece.IsWhite() {
			colourIndex = BlackIndex
		}
		b.PieceBitboards[piece].Set(sq)
		b.ColourBitboards[colourIndex].Set(sq)
		b.pieceLists[piece].add(sq)

		switch piece.Type() {
		case chess.King:
			b.KingSquare[colourIndex] = sq
		case chess.Pawn:
		default:
			b.TotalPieceCountWithoutPawnsAndKings++
		}
	}

	b.IsWhiteToMove = info.WhiteToMove
	b.AllPiecesBitboard = b.ColourBitboards[WhiteIndex] | b.ColourBitboards[BlackIndex]
	b.updateSliderBitboards()

	b.PlyCount = (info.MoveCount-1)*2 + boolToInt(!info.WhiteToMove)

	castlingRights := info.CastlingRights()
	key := hashing.Compute(&b.Square, castlingRights, info.EPFile, info.WhiteToMove)
	b.CurrentGameState = GameState{
		EnPassantFile:    info.EPFile,
		CastlingRights:   castlingRights,
		FiftyMoveCounter: info.FiftyMovePlyCount,
		ZobristKey:       key,
	}
	b.RepetitionHistory = append(b.RepetitionHistory, key)
	b.gameStateHistory = append(b.gameStateHistory, b.CurrentGameState)
}

func (b *Board) initialize() {
	b.Square = [chess.NumSquares]chess.Piece{}
	b.KingSquare = [2]int{}
	b.PieceBitboards = [chess.MaxPieceIndex + 1]chess.Bitboard{}
	b.ColourBitboards = [2]chess.Bitboard{}
	b.AllPiecesBitboard = 0
	for i := range b.pieceLists {
		b.pieceLists[i].reset()
	}
	b.TotalPieceCountWithoutPawnsAndKings = 0
	b.PlyCount = 0
	b.RepetitionHistory = make([]uint64, 0, 64)
	b.AllGameMoves = nil
	b.gameStateHistory = make([]GameState, 0, 64)
	b.CurrentGameState = GameState{}
	b.hasCachedInCheckValue = false
}

func (b *Board) updateSliderBitboards() {
	friendly, enemy := b.MoveColour(), b.OpponentColour()

	friendlyQueens := b.PieceBitboards[chess.MakePiece(chess.Queen, friendly)]
	b.FriendlyOrthogonalSliders = b.PieceBitboards[chess.MakePiece(chess.Rook, friendly)] | friendlyQueens
	b.FriendlyDiagonalSliders = b.PieceBitboards[chess.MakePiece(chess.Bishop, friendly)] | friendlyQueens

	enemyQueens := b.PieceBitboards[chess.MakePiece(chess.Queen, enemy)]
	b.EnemyOrthogonalSliders = b.PieceBitboards[chess.MakePiece(chess.Rook, enemy)] | enemyQueens
	b.EnemyDiagonalSliders = b.PieceBitboards[chess.MakePiece(chess.Bishop, enemy)] | enemyQueens
}

// String renders the board as an 8x8 diagram, rank 8 first.
func (b *Board) String() string {
	var sb strings.Builder
	for rank := chess.BoardSize - 1; rank >= 0; rank-- {
		for file := 0; file < chess.BoardSize; file++ {
			p := b.Square[chess.SquareIndex(file, rank)]
			if p == chess.NoPiece {
				sb.WriteByte('.')
			} else {
				sb.WriteByte(p.Symbol())
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
