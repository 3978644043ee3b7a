package movegen

import "github.com/lgbarn/chess-engine-go/internal/chess"

// calculateAttackData fills the opponent attack maps, the check ray and the
// pin rays for the position being generated.
func (g *Generator) calculateAttackData() {
	b := g.b
	enemy := g.friendlyColour.Opposite()

	g.genSlidingAttackMap()

	// Walk outwards from our king; a lone friendly piece followed by an
	// enemy slider of the right kind is pinned, an enemy slider with nothing
	// in between gives check.
	for dir := 0; dir < 8; dir++ {
		isDiagonal := dir > 3
		slider := b.EnemyOrthogonalSliders
		if isDiagonal {
			slider = b.EnemyDiagonalSliders
		}
		if chess.DirRayMask[dir][g.friendlyKingSquare]&slider == 0 {
			continue
		}

		n := chess.NumSquaresToEdge[g.friendlyKingSquare][dir]
		offset := chess.DirectionOffsets[dir]
		friendlyAlongRay := false
		var rayMask chess.Bitboard

		for i := 0; i < n; i++ {
			sq := g.friendlyKingSquare + offset*(i+1)
			rayMask.Set(sq)
			piece := b.Square[sq]
			if piece == chess.NoPiece {
				continue
			}
			if piece.IsColour(g.friendlyColour) {
				if friendlyAlongRay {
					break
				}
				friendlyAlongRay = true
				continue
			}
			if (isDiagonal && piece.IsDiagonalSlider()) || (!isDiagonal && piece.IsOrthogonalSlider()) {
				if friendlyAlongRay {
					g.pinRays |= rayMask
				} else {
					g.checkRayBitmask |= rayMask
					g.inDoubleCheck = g.inCheck
					g.inCheck = true
				}
			}
			break
		}

		if g.inDoubleCheck {
			break
		}
	}

	g.notPinRays = ^g.pinRays

	var knightAttacks chess.Bitboard
	knights := b.PieceBitboards[chess.MakePiece(chess.Knight, enemy)]
	kingBB := chess.SquareBB(g.friendlyKingSquare)
	for knights != 0 {
		sq := knights.PopLSB()
		attacks := chess.KnightAttacks[sq]
		knightAttacks |= attacks
		if attacks&kingBB != 0 {
			g.inDoubleCheck = g.inCheck
			g.inCheck = true
			g.checkRayBitmask.Set(sq)
		}
	}

	enemyPawns := b.PieceBitboards[chess.MakePiece(chess.Pawn, enemy)]
	g.opponentPawnAttackMap = chess.PawnAttackSet(enemyPawns, enemy)
	if g.opponentPawnAttackMap.Contains(g.friendlyKingSquare) {
		g.inDoubleCheck = g.inCheck
		g.inCheck = true
		g.checkRayBitmask |= chess.PawnAttacks[g.friendlyColour][g.friendlyKingSquare] & enemyPawns
	}

	enemyKingSquare := b.KingSquare[g.enemyIndex]
	g.opponentAttackMapNoPawns = g.opponentSlidingAttackMap | knightAttacks | chess.KingAttacks[enemyKingSquare]
	g.opponentAttackMap = g.opponentAttackMapNoPawns | g.opponentPawnAttackMap

	if !g.inCheck {
		g.checkRayBitmask = allSquares
	}
}

// genSlidingAttackMap computes enemy slider attacks with our king removed
// from the blockers, so the king cannot step back along a checking ray.
func (g *Generator) genSlidingAttackMap() {
	g.opponentSlidingAttackMap = 0
	blockers := g.allPieces &^ chess.SquareBB(g.friendlyKingSquare)

	ortho := g.b.EnemyOrthogonalSliders
	for ortho != 0 {
		g.opponentSlidingAttackMap |= chess.RookAttacks(ortho.PopLSB(), blockers)
	}
	diag := g.b.EnemyDiagonalSliders
	for diag != 0 {
		g.opponentSlidingAttackMap |= chess.BishopAttacks(diag.PopLSB(), blockers)
	}
}
