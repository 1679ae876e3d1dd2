package board

// Piece is a piece type tag, colour-agnostic. Non-king pieces form a
// contiguous range [Pawn,Queen] so material evaluation can loop over them
// without special-casing the king.
type Piece uint8

const (
	Pawn Piece = iota
	Knight
	Bishop
	Rook
	Queen
	King

	// NoPiece is the sentinel for "no piece here" (e.g. IrreversibleInfo
	// with no capture).
	NoPiece
)

const (
	ZeroPiece Piece = 0
	NumPieces Piece = 6 // King + 1, non-king range is [Pawn,Queen]
)

// IsValid returns true iff p is one of the six piece types.
func (p Piece) IsValid() bool {
	return p >= Pawn && p <= King
}

func (p Piece) String() string {
	switch p {
	case Pawn:
		return "p"
	case Knight:
		return "n"
	case Bishop:
		return "b"
	case Rook:
		return "r"
	case Queen:
		return "q"
	case King:
		return "k"
	default:
		return "-"
	}
}

// ParsePiece parses a FEN piece letter, returning its color and type.
func ParsePiece(r rune) (Color, Piece, bool) {
	c := White
	if r >= 'a' && r <= 'z' {
		c = Black
	}
	switch r {
	case 'p', 'P':
		return c, Pawn, true
	case 'n', 'N':
		return c, Knight, true
	case 'b', 'B':
		return c, Bishop, true
	case 'r', 'R':
		return c, Rook, true
	case 'q', 'Q':
		return c, Queen, true
	case 'k', 'K':
		return c, King, true
	default:
		return c, NoPiece, false
	}
}

// ColouredPiece is a (color, piece) pair, as used by the incremental
// update interface and the FEN placement list.
type ColouredPiece struct {
	Color Color
	Piece Piece
}

func (cp ColouredPiece) String() string {
	if cp.Color == White {
		switch cp.Piece {
		case Pawn:
			return "P"
		case Knight:
			return "N"
		case Bishop:
			return "B"
		case Rook:
			return "R"
		case Queen:
			return "Q"
		case King:
			return "K"
		}
	}
	return cp.Piece.String()
}
