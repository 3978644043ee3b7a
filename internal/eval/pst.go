package eval

import "github.com/lgbarn/chess-engine-go/internal/chess"

// Piece-square tables from White's point of view, laid out as seen from
// White's side of the board: the first row is rank 8, the last rank 1.
var (
	pawnTable = [64]int{
		0, 0, 0, 0, 0, 0, 0, 0,
		50, 50, 50, 50, 50, 50, 50, 50,
		10, 10, 20, 30, 30, 20, 10, 10,
		5, 5, 10, 25, 25, 10, 5, 5,
		0, 0, 0, 20, 20, 0, 0, 0,
		5, -5, -10, 0, 0, -10, -5, 5,
		5, 10, 10, -20, -20, 10, 10, 5,
		0, 0, 0, 0, 0, 0, 0, 0,
	}

	pawnEndTable = [64]int{
		0, 0, 0, 0, 0, 0, 0, 0,
		80, 80, 80, 80, 80, 80, 80, 80,
		50, 50, 50, 50, 50, 50, 50, 50,
		30, 30, 30, 30, 30, 30, 30, 30,
		20, 20, 20, 20, 20, 20, 20, 20,
		10, 10, 10, 10, 10, 10, 10, 10,
		10, 10, 10, 10, 10, 10, 10, 10,
		0, 0, 0, 0, 0, 0, 0, 0,
	}

	knightTable = [64]int{
		-50, -40, -30, -30, -30, -30, -40, -50,
		-40, -20, 0, 0, 0, 0, -20, -40,
		-30, 0, 10, 15, 15, 10, 0, -30,
		-30, 5, 15, 20, 20, 15, 5, -30,
		-30, 0, 15, 20, 20, 15, 0, -30,
		-30, 5, 10, 15, 15, 10, 5, -30,
		-40, -20, 0, 5, 5, 0, -20, -40,
		-50, -40, -30, -30, -30, -30, -40, -50,
	}

	bishopTable = [64]int{
		-20, -10, -10, -10, -10, -10, -10, -20,
		-10, 0, 0, 0, 0, 0, 0, -10,
		-10, 0, 5, 10, 10, 5, 0, -10,
		-10, 5, 5, 10, 10, 5, 5, -10,
		-10, 0, 10, 10, 10, 10, 0, -10,
		-10, 10, 10, 10, 10, 10, 10, -10,
		-10, 5, 0, 0, 0, 0, 5, -10,
		-20, -10, -10, -10, -10, -10, -10, -20,
	}

	rookTable = [64]int{
		0, 0, 0, 0, 0, 0, 0, 0,
		5, 10, 10, 10, 10, 10, 10, 5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		0, 0, 0, 5, 5, 0, 0, 0,
	}

	queenTable = [64]int{
		-20, -10, -10, -5, -5, -10, -10, -20,
		-10, 0, 0, 0, 0, 0, 0, -10,
		-10, 0, 5, 5, 5, 5, 0, -10,
		-5, 0, 5, 5, 5, 5, 0, -5,
		0, 0, 5, 5, 5, 5, 0, -5,
		-10, 5, 5, 5, 5, 5, 0, -10,
		-10, 0, 5, 0, 0, 0, 0, -10,
		-20, -10, -10, -5, -5, -10, -10, -20,
	}

	kingStartTable = [64]int{
		-80, -70, -70, -70, -70, -70, -70, -80,
		-60, -60, -60, -60, -60, -60, -60, -60,
		-40, -50, -50, -60, -60, -50, -50, -40,
		-30, -40, -40, -50, -50, -40, -40, -30,
		-20, -30, -30, -40, -40, -30, -30, -20,
		-10, -20, -20, -20, -20, -20, -20, -10,
		20, 20, -5, -5, -5, -5, 20, 20,
		20, 30, 10, 0, 0, 10, 30, 20,
	}

	kingEndTable = [64]int{
		-20, -10, -10, -10, -10, -10, -10, -20,
		-5, 0, 5, 5, 5, 5, 0, -5,
		-10, -5, 20, 30, 30, 20, -5, -10,
		-15, -10, 35, 45, 45, 35, -10, -15,
		-20, -15, 30, 40, 40, 30, -15, -20,
		-25, -20, 20, 25, 25, 20, -20, -25,
		-30, -25, 0, 0, 0, 0, -25, -30,
		-50, -30, -30, -30, -30, -30, -30, -50,
	}
)

// readTable returns the table value for a piece of the given colour on sq.
// Black reads the table mirrored so both sides share one set of tables.
func readTable(table *[64]int, sq int, white bool) int {
	if white {
		return table[sq^56]
	}
	return table[sq]
}

var middlegameTables = [...]*[64]int{
	chess.Pawn:   &pawnTable,
	chess.Knight: &knightTable,
	chess.Bishop: &bishopTable,
	chess.Rook:   &rookTable,
	chess.Queen:  &queenTable,
	chess.King:   &kingStartTable,
}

// PieceSquareValue returns the middlegame table value of piece p on sq.
func PieceSquareValue(p chess.Piece, sq int) int {
	pt := p.Type()
	if pt == chess.None || int(pt) >= len(middlegameTables) {
		return 0
	}
	return readTable(middlegameTables[pt], sq, p.IsWhite())
}
