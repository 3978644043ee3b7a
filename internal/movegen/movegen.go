// Package movegen generates legal moves for a board.Board.
package movegen

import (
	"github.com/lgbarn/chess-engine-go/internal/board"
	"github.com/lgbarn/chess-engine-go/internal/chess"
)

// MaxMoves is the largest number of legal moves in any chess position.
const MaxMoves = 218

// PromotionMode selects which promotion pieces are generated.
type PromotionMode int

const (
	PromoteAll PromotionMode = iota
	PromoteQueenOnly
	PromoteQueenAndKnight
)

const allSquares = ^chess.Bitboard(0)

// Generator produces the legal moves of a position. After each call it also
// exposes the opponent's attack maps for that position. A Generator is not
// safe for concurrent use; each searcher owns one.
type Generator struct {
	// PromotionsToGenerate restricts under-promotions
	PromotionsToGenerate PromotionMode

	b     *board.Board
	moves []chess.Move

	isWhiteToMove      bool
	friendlyColour     chess.Colour
	friendlyIndex      int
	enemyIndex         int
	friendlyKingSquare int

	inCheck         bool
	inDoubleCheck   bool
	checkRayBitmask chess.Bitboard
	pinRays         chess.Bitboard
	notPinRays      chess.Bitboard

	opponentAttackMapNoPawns chess.Bitboard
	opponentAttackMap        chess.Bitboard
	opponentPawnAttackMap    chess.Bitboard
	opponentSlidingAttackMap chess.Bitboard

	generateQuietMoves  bool
	enemyPieces         chess.Bitboard
	friendlyPieces      chess.Bitboard
	allPieces           chess.Bitboard
	emptySquares        chess.Bitboard
	emptyOrEnemySquares chess.Bitboard
	moveTypeMask        chess.Bitboard
}

// New creates a Generator producing every promotion.
func New() *Generator {
	return &Generator{PromotionsToGenerate: PromoteAll}
}

// GenerateMoves returns the legal moves of the position in a new slice.
// With capturesOnly set, quiet moves are skipped except promotions.
func (g *Generator) GenerateMoves(b *board.Board, capturesOnly bool) []chess.Move {
	return g.GenerateMovesInto(b, make([]chess.Move, 0, MaxMoves), capturesOnly)
}

// GenerateMovesInto appends the legal moves of the position to buf[:0] and
// returns the result. buf should have capacity MaxMoves.
func (g *Generator) GenerateMovesInto(b *board.Board, buf []chess.Move, capturesOnly bool) []chess.Move {
	g.b = b
	g.moves = buf[:0]
	g.generateQuietMoves = !capturesOnly

	g.init()

	g.generateKingMoves()
	if !g.inDoubleCheck {
		g.generateSlidingMoves()
		g.generateKnightMoves()
		g.generatePawnMoves()
	}

	moves := g.moves
	g.moves = nil
	return moves
}

// InCheck reports whether the side to move was in check in the last
// generated position.
func (g *Generator) InCheck() bool {
	return g.inCheck
}

// OpponentAttackMap returns every square the opponent attacked in the last
// generated position.
func (g *Generator) OpponentAttackMap() chess.Bitboard {
	return g.opponentAttackMap
}

// OpponentPawnAttackMap returns the squares attacked by opponent pawns in the
// last generated position.
func (g *Generator) OpponentPawnAttackMap() chess.Bitboard {
	return g.opponentPawnAttackMap
}

func (g *Generator) init() {
	b := g.b
	g.inCheck = false
	g.inDoubleCheck = false
	g.checkRayBitmask = 0
	g.pinRays = 0

	g.isWhiteToMove = b.IsWhiteToMove
	g.friendlyColour = b.MoveColour()
	g.friendlyIndex = b.MoveColourIndex()
	g.enemyIndex = b.OpponentColourIndex()
	g.friendlyKingSquare = b.KingSquare[g.friendlyIndex]

	g.enemyPieces = b.ColourBitboards[g.enemyIndex]
	g.friendlyPieces = b.ColourBitboards[g.friendlyIndex]
	g.allPieces = b.AllPiecesBitboard
	g.emptySquares = ^g.allPieces
	g.emptyOrEnemySquares = g.emptySquares | g.enemyPieces
	g.moveTypeMask = allSquares
	if !g.generateQuietMoves {
		g.moveTypeMask = g.enemyPieces
	}

	g.calculateAttackData()
}

func (g *Generator) add(start, target, flag int) {
	g.moves = append(g.moves, chess.NewMove(start, target, flag))
}

func (g *Generator) isPinned(sq int) bool {
	return g.pinRays.Contains(sq)
}

// movesAlongPin reports whether a pinned piece moving from start to target
// stays on the line through its king.
func (g *Generator) movesAlongPin(start, target int) bool {
	return chess.AlignMask[start][g.friendlyKingSquare] == chess.AlignMask[target][g.friendlyKingSquare]
}

func (g *Generator) generateKingMoves() {
	b := g.b
	legalMask := ^(g.opponentAttackMap | g.friendlyPieces)
	kingMoves := chess.KingAttacks[g.friendlyKingSquare] & legalMask & g.moveTypeMask
	for kingMoves != 0 {
		g.add(g.friendlyKingSquare, kingMoves.PopLSB(), chess.NoFlag)
	}

	if g.inCheck || !g.generateQuietMoves {
		return
	}

	castleBlockers := g.opponentAttackMap | g.allPieces
	rights := b.CurrentGameState
	rook := chess.MakePiece(chess.Rook, g.friendlyColour)
	king := g.friendlyKingSquare

	if rights.HasKingsideCastleRight(g.isWhiteToMove) {
		passing, rookSquare := kingsideMask(g.isWhiteToMove)
		if passing&castleBlockers == 0 && b.Square[rookSquare] == rook {
			g.add(king, king+2, chess.Castle)
		}
	}
	if rights.HasQueensideCastleRight(g.isWhiteToMove) {
		passing, empty, rookSquare := queensideMask(g.isWhiteToMove)
		if passing&castleBlockers == 0 && empty&g.allPieces == 0 && b.Square[rookSquare] == rook {
			g.add(king, king-2, chess.Castle)
		}
	}
}

// kingsideMask returns the squares the king crosses when castling kingside,
// and the rook's home square.
func kingsideMask(white bool) (chess.Bitboard, int) {
	if white {
		return chess.SquareBB(chess.F1) | chess.SquareBB(chess.G1), chess.H1
	}
	return chess.SquareBB(chess.F8) | chess.SquareBB(chess.G8), chess.H8
}

// queensideMask returns the squares the king crosses, the squares that must
// be empty, and the rook's home square for queenside castling.
func queensideMask(white bool) (chess.Bitboard, chess.Bitboard, int) {
	if white {
		passing := chess.SquareBB(chess.C1) | chess.SquareBB(chess.D1)
		return passing, passing | chess.SquareBB(chess.B1), chess.A1
	}
	passing := chess.SquareBB(chess.C8) | chess.SquareBB(chess.D8)
	return passing, passing | chess.SquareBB(chess.B8), chess.A8
}

func (g *Generator) generateSlidingMoves() {
	moveMask := g.emptyOrEnemySquares & g.checkRayBitmask & g.moveTypeMask

	orthogonal := g.b.FriendlyOrthogonalSliders
	diagonal := g.b.FriendlyDiagonalSliders
	if g.inCheck {
		// A pinned piece can never resolve a check.
		orthogonal &= g.notPinRays
		diagonal &= g.notPinRays
	}

	for orthogonal != 0 {
		start := orthogonal.PopLSB()
		targets := chess.RookAttacks(start, g.allPieces) & moveMask
		if g.isPinned(start) {
			targets &= chess.AlignMask[start][g.friendlyKingSquare]
		}
		for targets != 0 {
			g.add(start, targets.PopLSB(), chess.NoFlag)
		}
	}

	for diagonal != 0 {
		start := diagonal.PopLSB()
		targets := chess.BishopAttacks(start, g.allPieces) & moveMask
		if g.isPinned(start) {
			targets &= chess.AlignMask[start][g.friendlyKingSquare]
		}
		for targets != 0 {
			g.add(start, targets.PopLSB(), chess.NoFlag)
		}
	}
}

func (g *Generator) generateKnightMoves() {
	knights := g.b.PieceBitboards[chess.MakePiece(chess.Knight, g.friendlyColour)] & g.notPinRays
	moveMask := g.emptyOrEnemySquares & g.checkRayBitmask & g.moveTypeMask

	for knights != 0 {
		start := knights.PopLSB()
		targets := chess.KnightAttacks[start] & moveMask
		for targets != 0 {
			g.add(start, targets.PopLSB(), chess.NoFlag)
		}
	}
}

func (g *Generator) generatePawnMoves() {
	b := g.b
	pushDir := 1
	promotionRank := chess.Rank8
	doublePushRank := chess.Rank4
	leftEdge, rightEdge := chess.NotAFile, chess.NotHFile
	if !g.isWhiteToMove {
		pushDir = -1
		promotionRank = chess.Rank1
		doublePushRank = chess.Rank5
		leftEdge, rightEdge = chess.NotHFile, chess.NotAFile
	}
	pushOffset := pushDir * 8

	pawns := b.PieceBitboards[chess.MakePiece(chess.Pawn, g.friendlyColour)]

	singlePush := pawns.Shift(pushOffset) & g.emptySquares
	pushPromotions := singlePush & promotionRank & g.checkRayBitmask

	// The "7" capture goes towards the a-file for white and the h-file for black.
	captureEdgeA := (pawns & leftEdge).Shift(pushDir*7) & g.enemyPieces
	captureEdgeB := (pawns & rightEdge).Shift(pushDir*9) & g.enemyPieces

	singlePushNoPromotions := singlePush & ^promotionRank & g.checkRayBitmask
	captureAPromotions := captureEdgeA & promotionRank & g.checkRayBitmask
	captureBPromotions := captureEdgeB & promotionRank & g.checkRayBitmask
	captureA := captureEdgeA & ^promotionRank & g.checkRayBitmask
	captureB := captureEdgeB & ^promotionRank & g.checkRayBitmask

	if g.generateQuietMoves {
		for singlePushNoPromotions != 0 {
			target := singlePushNoPromotions.PopLSB()
			start := target - pushOffset
			if !g.isPinned(start) || g.movesAlongPin(start, target) {
				g.add(start, target, chess.NoFlag)
			}
		}

		doublePush := singlePush.Shift(pushOffset) & g.emptySquares & doublePushRank & g.checkRayBitmask
		for doublePush != 0 {
			target := doublePush.PopLSB()
			start := target - 2*pushOffset
			if !g.isPinned(start) || g.movesAlongPin(start, target) {
				g.add(start, target, chess.PawnTwoUp)
			}
		}
	}

	for captureA != 0 {
		target := captureA.PopLSB()
		start := target - pushDir*7
		if !g.isPinned(start) || g.movesAlongPin(start, target) {
			g.add(start, target, chess.NoFlag)
		}
	}
	for captureB != 0 {
		target := captureB.PopLSB()
		start := target - pushDir*9
		if !g.isPinned(start) || g.movesAlongPin(start, target) {
			g.add(start, target, chess.NoFlag)
		}
	}

	// Promotions are generated even when only captures are requested.
	for pushPromotions != 0 {
		target := pushPromotions.PopLSB()
		start := target - pushOffset
		if !g.isPinned(start) {
			g.generatePromotions(start, target)
		}
	}
	for captureAPromotions != 0 {
		target := captureAPromotions.PopLSB()
		start := target - pushDir*7
		if !g.isPinned(start) || g.movesAlongPin(start, target) {
			g.generatePromotions(start, target)
		}
	}
	for captureBPromotions != 0 {
		target := captureBPromotions.PopLSB()
		start := target - pushDir*9
		if !g.isPinned(start) || g.movesAlongPin(start, target) {
			g.generatePromotions(start, target)
		}
	}

	g.generateEnPassant(pawns, pushOffset)
}

func (g *Generator) generateEnPassant(pawns chess.Bitboard, pushOffset int) {
	epFile := g.b.CurrentGameState.EnPassantFile
	if epFile == 0 {
		return
	}

	epRank := 2
	if g.isWhiteToMove {
		epRank = 5
	}
	target := chess.SquareIndex(epFile-1, epRank)
	capturedPawnSquare := target - pushOffset

	if !g.checkRayBitmask.Contains(capturedPawnSquare) && !g.checkRayBitmask.Contains(target) {
		return
	}
	enemyPawn := chess.MakePiece(chess.Pawn, g.friendlyColour.Opposite())
	if g.b.Square[capturedPawnSquare] != enemyPawn {
		return
	}

	// Our pawns that could capture are those an enemy pawn on the target would attack.
	capturers := pawns & chess.PawnAttacks[g.friendlyColour.Opposite()][target]
	for capturers != 0 {
		start := capturers.PopLSB()
		if g.isPinned(start) && !g.movesAlongPin(start, target) {
			continue
		}
		if !g.inCheckAfterEnPassant(start, target, capturedPawnSquare) {
			g.add(start, target, chess.EnPassantCapture)
		}
	}
}

// inCheckAfterEnPassant catches the discovered check through both pawns
// leaving the same rank, which pin detection cannot see.
func (g *Generator) inCheckAfterEnPassant(start, target, capturedPawnSquare int) bool {
	blockers := g.allPieces ^ (chess.SquareBB(capturedPawnSquare) | chess.SquareBB(start) | chess.SquareBB(target))
	if g.b.EnemyOrthogonalSliders != 0 {
		if chess.RookAttacks(g.friendlyKingSquare, blockers)&g.b.EnemyOrthogonalSliders != 0 {
			return true
		}
	}
	if g.b.EnemyDiagonalSliders != 0 {
		if chess.BishopAttacks(g.friendlyKingSquare, blockers)&g.b.EnemyDiagonalSliders != 0 {
			return true
		}
	}
	return false
}

func (g *Generator) generatePromotions(start, target int) {
	g.add(start, target, chess.PromoteToQueen)
	switch g.PromotionsToGenerate {
	case PromoteAll:
		g.add(start, target, chess.PromoteToKnight)
		g.add(start, target, chess.PromoteToRook)
		g.add(start, target, chess.PromoteToBishop)
	case PromoteQueenAndKnight:
		g.add(start, target, chess.PromoteToKnight)
	}
}
