package board

import (
	"github.com/lgbarn/chess-engine-go/internal/chess"
	"github.com/lgbarn/chess-engine-go/internal/hashing"
)

// movePiece relocates piece p of the side to move in every view of the board.
func (b *Board) movePiece(p chess.Piece, from, to int) {
	b.PieceBitboards[p].ToggleSquares(from, to)
	b.ColourBitboards[b.MoveColourIndex()].ToggleSquares(from, to)
	b.pieceLists[p].move(from, to)
	b.Square[from] = chess.NoPiece
	b.Square[to] = p
}

// castlingRookSquares returns the rook's origin and destination for a castling
// move whose king lands on kingTarget.
func castlingRookSquares(kingTarget int) (from, to int) {
	if kingTarget == chess.G1 || kingTarget == chess.G8 {
		return kingTarget + 1, kingTarget - 1
	}
	return kingTarget - 2, kingTarget + 1
}

// MakeMove applies a move, which must be legal in the current position.
// When inSearch is false the move is also recorded in the game history
// (AllGameMoves and RepetitionHistory).
func (b *Board) MakeMove(move chess.Move, inSearch bool) {
	keys := hashing.Default()

	start := move.StartSquare()
	target := move.TargetSquare()
	flag := move.Flag()
	isEnPassant := flag == chess.EnPassantCapture

	moved := b.Square[start]
	movedType := moved.Type()
	captured := b.Square[target]
	if isEnPassant {
		captured = chess.MakePiece(chess.Pawn, b.OpponentColour())
	}
	capturedType := captured.Type()

	prev := b.CurrentGameState
	newKey := prev.ZobristKey
	newCastlingRights := prev.CastlingRights
	newEnPassantFile := 0

	b.movePiece(moved, start, target)

	if capturedType != chess.None {
		captureSquare := target
		if isEnPassant {
			captureSquare = target - 8
			if !b.IsWhiteToMove {
				captureSquare = target + 8
			}
			b.Square[captureSquare] = chess.NoPiece
		}
		if capturedType != chess.Pawn {
			b.TotalPieceCountWithoutPawnsAndKings--
		}
		b.pieceLists[captured].remove(captureSquare)
		b.PieceBitboards[captured].Toggle(captureSquare)
		b.ColourBitboards[b.OpponentColourIndex()].Toggle(captureSquare)
		newKey ^= keys.Pieces[captured][captureSquare]
	}

	if movedType == chess.King {
		b.KingSquare[b.MoveColourIndex()] = target
		if b.IsWhiteToMove {
			newCastlingRights &= chess.BlackKingside | chess.BlackQueenside
		} else {
			newCastlingRights &= chess.WhiteKingside | chess.WhiteQueenside
		}

		if flag == chess.Castle {
			rook := chess.MakePiece(chess.Rook, b.MoveColour())
			rookFrom, rookTo := castlingRookSquares(target)
			b.movePiece(rook, rookFrom, rookTo)
			newKey ^= keys.Pieces[rook][rookFrom] ^ keys.Pieces[rook][rookTo]
		}
	}

	if move.IsPromotion() {
		b.TotalPieceCountWithoutPawnsAndKings++
		promoted := chess.MakePiece(move.PromotionPieceType(), b.MoveColour())
		b.PieceBitboards[moved].Toggle(target)
		b.PieceBitboards[promoted].Toggle(target)
		b.pieceLists[moved].remove(target)
		b.pieceLists[promoted].add(target)
		b.Square[target] = promoted
	}

	if flag == chess.PawnTwoUp {
		newEnPassantFile = chess.FileIndex(start) + 1
		newKey ^= keys.EnPassantFile[newEnPassantFile]
	}

	newCastlingRights &= castlingMask[start] & castlingMask[target]

	newKey ^= keys.SideToMove
	newKey ^= keys.Pieces[moved][start]
	newKey ^= keys.Pieces[b.Square[target]][target]
	newKey ^= keys.EnPassantFile[prev.EnPassantFile]
	if newCastlingRights != prev.CastlingRights {
		newKey ^= keys.CastlingRights[prev.CastlingRights]
		newKey ^= keys.CastlingRights[newCastlingRights]
	}

	b.IsWhiteToMove = !b.IsWhiteToMove
	b.PlyCount++

	b.AllPiecesBitboard = b.ColourBitboards[WhiteIndex] | b.ColourBitboards[BlackIndex]
	b.updateSliderBitboards()

	irreversible := movedType == chess.Pawn || capturedType != chess.None
	newFiftyMoveCounter := prev.FiftyMoveCounter + 1
	if irreversible {
		newFiftyMoveCounter = 0
	}

	b.CurrentGameState = GameState{
		CapturedPieceType: capturedType,
		EnPassantFile:     newEnPassantFile,
		CastlingRights:    newCastlingRights,
		FiftyMoveCounter:  newFiftyMoveCounter,
		ZobristKey:        newKey,
	}
	b.gameStateHistory = append(b.gameStateHistory, b.CurrentGameState)
	b.hasCachedInCheckValue = false

	if !inSearch {
		if irreversible {
			b.RepetitionHistory = b.RepetitionHistory[:0]
		}
		b.RepetitionHistory = append(b.RepetitionHistory, newKey)
		b.AllGameMoves = append(b.AllGameMoves, move)
	}
}

// UnmakeMove reverts move, which must be the most recently applied move.
// inSearch must match the value passed to MakeMove. Outside search, undoing
// an irreversible move cannot bring back the repetition history it cleared;
// replay the game from its start position when that matters.
func (b *Board) UnmakeMove(move chess.Move, inSearch bool) {
	b.IsWhiteToMove = !b.IsWhiteToMove
	undoingWhiteMove := b.IsWhiteToMove

	from := move.StartSquare()
	to := move.TargetSquare()
	flag := move.Flag()

	undoingEnPassant := flag == chess.EnPassantCapture
	undoingPromotion := move.IsPromotion()
	capturedType := b.CurrentGameState.CapturedPieceType

	moved := b.Square[to]
	if undoingPromotion {
		moved = chess.MakePiece(chess.Pawn, b.MoveColour())
	}

	if undoingPromotion {
		promoted := b.Square[to]
		b.TotalPieceCountWithoutPawnsAndKings--
		b.pieceLists[promoted].remove(to)
		b.pieceLists[moved].add(to)
		b.PieceBitboards[promoted].Toggle(to)
		b.PieceBitboards[moved].Toggle(to)
	}

	b.movePiece(moved, to, from)

	if capturedType != chess.None {
		captureSquare := to
		if undoingEnPassant {
			captureSquare = to - 8
			if !undoingWhiteMove {
				captureSquare = to + 8
			}
		}
		if capturedType != chess.Pawn {
			b.TotalPieceCountWithoutPawnsAndKings++
		}
		captured := chess.MakePiece(capturedType, b.OpponentColour())
		b.PieceBitboards[captured].Toggle(captureSquare)
		b.ColourBitboards[b.OpponentColourIndex()].Toggle(captureSquare)
		b.pieceLists[captured].add(captureSquare)
		b.Square[captureSquare] = captured
	}

	if moved.Type() == chess.King {
		b.KingSquare[b.MoveColourIndex()] = from

		if flag == chess.Castle {
			rook := chess.MakePiece(chess.Rook, b.MoveColour())
			rookFrom, rookTo := castlingRookSquares(to)
			b.movePiece(rook, rookTo, rookFrom)
		}
	}

	b.AllPiecesBitboard = b.ColourBitboards[WhiteIndex] | b.ColourBitboards[BlackIndex]
	b.updateSliderBitboards()

	if !inSearch {
		if len(b.RepetitionHistory) > 0 {
			b.RepetitionHistory = b.RepetitionHistory[:len(b.RepetitionHistory)-1]
		}
		if len(b.AllGameMoves) > 0 {
			b.AllGameMoves = b.AllGameMoves[:len(b.AllGameMoves)-1]
		}
	}

	b.gameStateHistory = b.gameStateHistory[:len(b.gameStateHistory)-1]
	b.CurrentGameState = b.gameStateHistory[len(b.gameStateHistory)-1]
	b.PlyCount--
	b.hasCachedInCheckValue = false
}

// MakeNullMove passes the turn without moving a piece.
// The side to move must not be in check.
func (b *Board) MakeNullMove() {
	keys := hashing.Default()

	b.IsWhiteToMove = !b.IsWhiteToMove
	b.PlyCount++

	prev := b.CurrentGameState
	newKey := prev.ZobristKey ^ keys.SideToMove ^ keys.EnPassantFile[prev.EnPassantFile]

	b.CurrentGameState = GameState{
		CapturedPieceType: chess.None,
		EnPassantFile:     0,
		CastlingRights:    prev.CastlingRights,
		FiftyMoveCounter:  prev.FiftyMoveCounter + 1,
		ZobristKey:        newKey,
	}
	b.gameStateHistory = append(b.gameStateHistory, b.CurrentGameState)
	b.updateSliderBitboards()
	b.hasCachedInCheckValue = true
	b.cachedInCheckValue = false
}

// UnmakeNullMove reverts MakeNullMove.
func (b *Board) UnmakeNullMove() {
	b.IsWhiteToMove = !b.IsWhiteToMove
	b.PlyCount--
	b.gameStateHistory = b.gameStateHistory[:len(b.gameStateHistory)-1]
	b.CurrentGameState = b.gameStateHistory[len(b.gameStateHistory)-1]
	b.updateSliderBitboards()
	b.hasCachedInCheckValue = true
	b.cachedInCheckValue = false
}
