package board

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/lgbarn/chess-engine-go/internal/chess"
	"github.com/lgbarn/chess-engine-go/internal/errors"
)

// StartPositionFEN is the FEN string for the standard starting position.
const StartPositionFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// PositionInfo is a decoded FEN record.
type PositionInfo struct {
	Squares [chess.NumSquares]chess.Piece

	WhiteCastleKingside  bool
	WhiteCastleQueenside bool
	BlackCastleKingside  bool
	BlackCastleQueenside bool

	// EPFile is 0 when there is no en passant square, otherwise file+1
	EPFile      int
	WhiteToMove bool

	FiftyMovePlyCount int
	MoveCount         int
}

// CastlingRights packs the four castling flags into chess.WhiteKingside... bits.
func (info PositionInfo) CastlingRights() int {
	rights := 0
	if info.WhiteCastleKingside {
		rights |= chess.WhiteKingside
	}
	if info.WhiteCastleQueenside {
		rights |= chess.WhiteQueenside
	}
	if info.BlackCastleKingside {
		rights |= chess.BlackKingside
	}
	if info.BlackCastleQueenside {
		rights |= chess.BlackQueenside
	}
	return rights
}

// PositionFromFEN decodes a FEN record. Only the placement field is required:
// side to move defaults to white, castling and en passant to none, the
// half-move clock to 0 and the full-move number to 1.
func PositionFromFEN(fen string) (PositionInfo, error) {
	info := PositionInfo{WhiteToMove: true, MoveCount: 1}

	fields := strings.Fields(fen)
	if len(fields) == 0 {
		return info, &errors.ParseError{Err: errors.ErrInvalidFEN, Got: "empty record"}
	}

	if err := parsePiecePositions(&info, fields[0]); err != nil {
		err.Input = fen
		return info, err
	}
	if err := parseSideToMove(&info, fields); err != nil {
		err.Input = fen
		return info, err
	}
	parseCastlingRights(&info, fields)
	parseEnPassant(&info, fields)
	parseClocks(&info, fields)

	return info, nil
}

// parsePiecePositions parses the piece placement field of a FEN string.
func parsePiecePositions(info *PositionInfo, placement string) *errors.ParseError {
	fail := func(col int, expected, got string) *errors.ParseError {
		return &errors.ParseError{
			Err:      errors.ErrInvalidFEN,
			Field:    "placement",
			Column:   col,
			Expected: expected,
			Got:      got,
		}
	}

	var counts [chess.MaxPieceIndex + 1]int
	var sideCounts [2]int
	file, rank := 0, 7

	for i := 0; i < len(placement); i++ {
		c := placement[i]
		switch {
		case c == '/':
			if file != chess.BoardSize {
				return fail(i+1, "8 squares per rank", fmt.Sprintf("%d", file))
			}
			rank--
			file = 0
			if rank < 0 {
				return fail(i+1, "8 ranks", "more")
			}
		case c >= '1' && c <= '8':
			file += int(c - '0')
			if file > chess.BoardSize {
				return fail(i+1, "8 squares per rank", fmt.Sprintf("%d", file))
			}
		default:
			piece, ok := chess.PieceFromSymbol(c)
			if !ok {
				return fail(i+1, "piece letter or digit", fmt.Sprintf("%q", c))
			}
			if file >= chess.BoardSize {
				return fail(i+1, "8 squares per rank", "more")
			}
			counts[piece]++
			sideCounts[piece.Colour().Index()]++
			if sideCounts[piece.Colour().Index()] > maxPiecesPerSide {
				return fail(i+1, fmt.Sprintf("at most %d pieces per side", maxPiecesPerSide), fmt.Sprintf("%d", sideCounts[piece.Colour().Index()]))
			}
			info.Squares[chess.SquareIndex(file, rank)] = piece
			file++
		}
	}

	if rank != 0 || file != chess.BoardSize {
		return fail(0, "8 ranks of 8 squares", "short placement")
	}
	if counts[chess.WhiteKing] != 1 || counts[chess.BlackKing] != 1 {
		return fail(0, "one king per side",
			fmt.Sprintf("%d white, %d black", counts[chess.WhiteKing], counts[chess.BlackKing]))
	}
	return nil
}

// parseSideToMove parses the side to move field.
func parseSideToMove(info *PositionInfo, fields []string) *errors.ParseError {
	if len(fields) < 2 {
		return nil
	}
	switch fields[1] {
	case "w":
		info.WhiteToMove = true
	case "b":
		info.WhiteToMove = false
	default:
		return &errors.ParseError{
			Err:      errors.ErrInvalidFEN,
			Field:    "side to move",
			Expected: "w or b",
			Got:      fields[1],
		}
	}
	return nil
}

// parseCastlingRights parses the castling availability field.
func parseCastlingRights(info *PositionInfo, fields []string) {
	if len(fields) < 3 {
		return
	}
	rights := fields[2]
	info.WhiteCastleKingside = strings.ContainsRune(rights, 'K')
	info.WhiteCastleQueenside = strings.ContainsRune(rights, 'Q')
	info.BlackCastleKingside = strings.ContainsRune(rights, 'k')
	info.BlackCastleQueenside = strings.ContainsRune(rights, 'q')
}

// parseEnPassant takes the file of the en passant square; the rank is implied
// by the side to move.
func parseEnPassant(info *PositionInfo, fields []string) {
	if len(fields) < 4 || fields[3] == "-" {
		return
	}
	if file := strings.IndexByte(chess.FileNames, fields[3][0]); file >= 0 {
		info.EPFile = file + 1
	}
}

// parseClocks parses the half-move clock and full-move number, keeping the
// defaults for missing or malformed values.
func parseClocks(info *PositionInfo, fields []string) {
	if len(fields) > 4 {
		if n, err := strconv.Atoi(fields[4]); err == nil && n >= 0 {
			info.FiftyMovePlyCount = n
		}
	}
	if len(fields) > 5 {
		if n, err := strconv.Atoi(fields[5]); err == nil && n >= 1 {
			info.MoveCount = n
		}
	}
}

// CurrentFEN encodes the board as a FEN record. The en passant square is only
// written when a pawn can legally capture onto it.
func CurrentFEN(b *Board) string {
	var sb strings.Builder

	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < chess.BoardSize; file++ {
			piece := b.Square[chess.SquareIndex(file, rank)]
			if piece == chess.NoPiece {
				empty++
				continue
			}
			if empty != 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteByte(piece.Symbol())
		}
		if empty != 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if rank != 0 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	if b.IsWhiteToMove {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	sb.WriteByte(' ')
	sb.WriteString(castlingString(b.CurrentGameState.CastlingRights))

	sb.WriteByte(' ')
	epFileIndex := b.CurrentGameState.EnPassantFile - 1
	epRankIndex := 2
	if b.IsWhiteToMove {
		epRankIndex = 5
	}
	if epFileIndex >= 0 && enPassantCanBeCaptured(b, epFileIndex, epRankIndex) {
		sb.WriteString(chess.SquareName(chess.SquareIndex(epFileIndex, epRankIndex)))
	} else {
		sb.WriteByte('-')
	}

	fmt.Fprintf(&sb, " %d %d", b.CurrentGameState.FiftyMoveCounter, b.PlyCount/2+1)
	return sb.String()
}

func castlingString(rights int) string {
	if rights == 0 {
		return "-"
	}
	var s []byte
	if rights&chess.WhiteKingside != 0 {
		s = append(s, 'K')
	}
	if rights&chess.WhiteQueenside != 0 {
		s = append(s, 'Q')
	}
	if rights&chess.BlackKingside != 0 {
		s = append(s, 'k')
	}
	if rights&chess.BlackQueenside != 0 {
		s = append(s, 'q')
	}
	return string(s)
}

// enPassantCanBeCaptured tries each adjacent friendly pawn's en passant
// capture and reports whether any leaves its own king safe.
func enPassantCanBeCaptured(b *Board, epFileIndex, epRankIndex int) bool {
	fromRank := epRankIndex - 1
	if !b.IsWhiteToMove {
		fromRank = epRankIndex + 1
	}
	epSquare := chess.SquareIndex(epFileIndex, epRankIndex)
	friendlyPawn := chess.MakePiece(chess.Pawn, b.MoveColour())
	enemyPawn := chess.MakePiece(chess.Pawn, b.OpponentColour())
	if b.Square[epSquare] != chess.NoPiece || b.Square[chess.SquareIndex(epFileIndex, fromRank)] != enemyPawn {
		return false
	}

	for _, fromFile := range [2]int{epFileIndex - 1, epFileIndex + 1} {
		if !chess.IsValidCoord(fromFile, fromRank) {
			continue
		}
		from := chess.SquareIndex(fromFile, fromRank)
		if b.Square[from] != friendlyPawn {
			continue
		}
		move := chess.NewMove(from, epSquare, chess.EnPassantCapture)
		b.MakeMove(move, true)
		b.MakeNullMove()
		legal := !b.CalculateInCheckState()
		b.UnmakeNullMove()
		b.UnmakeMove(move, true)
		if legal {
			return true
		}
	}
	return false
}

// FlipFEN mirrors a FEN record: ranks are reversed, piece colours and the side
// to move swapped, and castling rights and the en passant square follow.
func FlipFEN(fen string) (string, error) {
	fields := strings.Fields(fen)
	if len(fields) == 0 {
		return "", &errors.ParseError{Err: errors.ErrInvalidFEN, Got: "empty record"}
	}
	for len(fields) < 6 {
		fields = append(fields, []string{"w", "-", "-", "0", "1"}[len(fields)-1])
	}

	ranks := strings.Split(fields[0], "/")
	flippedRanks := make([]string, len(ranks))
	for i, rank := range ranks {
		flippedRanks[len(ranks)-1-i] = strings.Map(invertCase, rank)
	}

	side := "w"
	if fields[1] == "w" {
		side = "b"
	}

	var rights []rune
	for _, c := range "kqKQ" {
		if strings.ContainsRune(fields[2], c) {
			rights = append(rights, invertCase(c))
		}
	}
	castling := string(rights)
	if castling == "" {
		castling = "-"
	}

	ep := fields[3]
	if ep != "-" && len(ep) > 1 {
		rank := byte('6')
		if ep[1] == '6' {
			rank = '3'
		}
		ep = string([]byte{ep[0], rank})
	}

	return strings.Join([]string{
		strings.Join(flippedRanks, "/"), side, castling, ep, fields[4], fields[5],
	}, " "), nil
}

func invertCase(c rune) rune {
	if unicode.IsLower(c) {
		return unicode.ToUpper(c)
	}
	return unicode.ToLower(c)
}
