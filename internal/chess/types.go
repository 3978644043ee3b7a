// Package chess provides core chess types and operations.
package chess

// Colour represents the colour of a piece or player.
type Colour int

const (
	White Colour = iota
	Black
)

// String returns the string representation of a colour.
func (c Colour) String() string {
	if c == White {
		return "White"
	}
	return "Black"
}

// Opposite returns the opposite colour.
func (c Colour) Opposite() Colour {
	if c == White {
		return Black
	}
	return White
}

// Index returns the colour as an array index (White=0, Black=1).
func (c Colour) Index() int {
	return int(c)
}

// PieceType is the colourless kind of a piece.
type PieceType uint8

const (
	None PieceType = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

// String returns the string representation of a piece type.
func (pt PieceType) String() string {
	names := []string{"None", "Pawn", "Knight", "Bishop", "Rook", "Queen", "King"}
	if int(pt) < len(names) {
		return names[pt]
	}
	return "Unknown"
}

// Letter returns the single letter representation of a piece type (uppercase).
func (pt PieceType) Letter() byte {
	letters := []byte{' ', 'P', 'N', 'B', 'R', 'Q', 'K'}
	if int(pt) < len(letters) {
		return letters[pt]
	}
	return '?'
}

// Piece is the content of a square: the piece type in the low three bits
// and the colour in bit 3.
type Piece uint8

const (
	typeMask   Piece = 0b0111
	colourMask Piece = 0b1000
	blackBit   Piece = 8
)

// Coloured piece codes. NoPiece is an empty square.
const (
	NoPiece     Piece = 0
	WhitePawn   Piece = Piece(Pawn)
	WhiteKnight Piece = Piece(Knight)
	WhiteBishop Piece = Piece(Bishop)
	WhiteRook   Piece = Piece(Rook)
	WhiteQueen  Piece = Piece(Queen)
	WhiteKing   Piece = Piece(King)
	BlackPawn   Piece = Piece(Pawn) | blackBit
	BlackKnight Piece = Piece(Knight) | blackBit
	BlackBishop Piece = Piece(Bishop) | blackBit
	BlackRook   Piece = Piece(Rook) | blackBit
	BlackQueen  Piece = Piece(Queen) | blackBit
	BlackKing   Piece = Piece(King) | blackBit

	// MaxPieceIndex is the largest piece code; arrays indexed by piece use MaxPieceIndex+1.
	MaxPieceIndex = BlackKing
)

// PieceIndices lists every coloured piece code.
var PieceIndices = [...]Piece{
	WhitePawn, WhiteKnight, WhiteBishop, WhiteRook, WhiteQueen, WhiteKing,
	BlackPawn, BlackKnight, BlackBishop, BlackRook, BlackQueen, BlackKing,
}

// MakePiece combines a piece type and a colour into a piece code.
func MakePiece(pt PieceType, c Colour) Piece {
	if c == Black {
		return Piece(pt) | blackBit
	}
	return Piece(pt)
}

// Type returns the colourless piece type.
func (p Piece) Type() PieceType {
	return PieceType(p & typeMask)
}

// Colour returns the colour of the piece. An empty square reports White.
func (p Piece) Colour() Colour {
	if p&colourMask != 0 {
		return Black
	}
	return White
}

// IsWhite reports whether p is a white piece. An empty square reports true.
func (p Piece) IsWhite() bool {
	return p&colourMask == 0
}

// IsColour reports whether p is a non-empty piece of colour c.
func (p Piece) IsColour(c Colour) bool {
	return p != NoPiece && p.Colour() == c
}

// IsOrthogonalSlider reports whether p moves along ranks and files.
func (p Piece) IsOrthogonalSlider() bool {
	t := p.Type()
	return t == Rook || t == Queen
}

// IsDiagonalSlider reports whether p moves along diagonals.
func (p Piece) IsDiagonalSlider() bool {
	t := p.Type()
	return t == Bishop || t == Queen
}

// IsSlidingPiece reports whether p is a bishop, rook or queen.
func (p Piece) IsSlidingPiece() bool {
	return p.IsOrthogonalSlider() || p.IsDiagonalSlider()
}

// Symbol returns the FEN letter of the piece: uppercase for white, lowercase for black.
func (p Piece) Symbol() byte {
	if p == NoPiece {
		return ' '
	}
	letter := p.Type().Letter()
	if p.Colour() == Black {
		return letter + ('a' - 'A')
	}
	return letter
}

// String returns the FEN letter of the piece.
func (p Piece) String() string {
	return string(p.Symbol())
}

// PieceFromSymbol returns the piece for a FEN letter.
func PieceFromSymbol(symbol byte) (Piece, bool) {
	colour := White
	if symbol >= 'a' && symbol <= 'z' {
		colour = Black
		symbol -= 'a' - 'A'
	}
	switch symbol {
	case 'P':
		return MakePiece(Pawn, colour), true
	case 'N':
		return MakePiece(Knight, colour), true
	case 'B':
		return MakePiece(Bishop, colour), true
	case 'R':
		return MakePiece(Rook, colour), true
	case 'Q':
		return MakePiece(Queen, colour), true
	case 'K':
		return MakePiece(King, colour), true
	}
	return NoPiece, false
}

// Castling rights bits.
const (
	WhiteKingside  = 1 << 0
	WhiteQueenside = 1 << 1
	BlackKingside  = 1 << 2
	BlackQueenside = 1 << 3

	AllCastlingRights = WhiteKingside | WhiteQueenside | BlackKingside | BlackQueenside
)
