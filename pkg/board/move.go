package board

import "fmt"

// MoveType is the 4-bit move-type code packed into bits [12:16) of a Move.
// The encoding is bit-exact: bit 3 marks a capture, bit 2 marks a
// promotion, and bits 0-1 select the promoted piece in the fixed order
// {Knight,Bishop,Rook,Queen}. Codes 1010 and 1011 are intentionally unused.
type MoveType uint8

const (
	Normal      MoveType = 0x0
	Castle      MoveType = 0x1
	SinglePush  MoveType = 0x2
	DoublePush  MoveType = 0x3
	PromoKnight MoveType = 0x4
	PromoBishop MoveType = 0x5
	PromoRook   MoveType = 0x6
	PromoQueen  MoveType = 0x7
	Capture     MoveType = 0x8
	CaptureEP   MoveType = 0x9
	// 0xA, 0xB unused.
	PromoCaptureKnight MoveType = 0xC
	PromoCaptureBishop MoveType = 0xD
	PromoCaptureRook   MoveType = 0xE
	PromoCaptureQueen  MoveType = 0xF
)

const (
	captureBit   MoveType = 0x8
	promotionBit MoveType = 0x4
	promoPieceMask MoveType = 0x3
)

// promoOrder is the fixed bits[0:2]->Piece mapping for promotion move types.
var promoOrder = [4]Piece{Knight, Bishop, Rook, Queen}

// IsCapture returns true iff t captures a piece (en passant included).
func (t MoveType) IsCapture() bool {
	return t&captureBit != 0 && t != 0xA && t != 0xB
}

// IsPromotion returns true iff t promotes a pawn.
func (t MoveType) IsPromotion() bool {
	return t&promotionBit != 0 && t != 0xA && t != 0xB
}

// IsIrreversible returns true iff t can never be undone by a later move --
// every non-Normal move type is irreversible (pawn moves, captures,
// castling all fall outside Normal).
func (t MoveType) IsIrreversible() bool {
	return t != Normal
}

// PromotedPiece returns the piece a promotion move type produces. Only
// valid when IsPromotion() is true.
func (t MoveType) PromotedPiece() Piece {
	return promoOrder[t&promoPieceMask]
}

func (t MoveType) String() string {
	switch t {
	case Normal:
		return "normal"
	case Castle:
		return "castle"
	case SinglePush:
		return "single-push"
	case DoublePush:
		return "double-push"
	case CaptureEP:
		return "ep-capture"
	default:
		if t.IsPromotion() {
			s := t.PromotedPiece().String()
			if t.IsCapture() {
				return "capture-promote-" + s
			}
			return "promote-" + s
		}
		if t.IsCapture() {
			return "capture"
		}
		return "unknown"
	}
}

// Move is a move encoded bit-exactly as from[0:6] | to[6:12] | type[12:16].
// The zero value is not a valid move (from==to==A1 with type Normal is a
// legitimate encoding only when constructed, never the implicit default
// used as a sentinel -- callers use NoMove for that).
type Move uint16

// NoMove is the sentinel for "no move" (e.g. an empty hash-move slot).
const NoMove Move = 0xFFFF

// NewMove packs a move from its constituent fields.
func NewMove(from, to Square, t MoveType) Move {
	return Move(uint16(from) | uint16(to)<<6 | uint16(t)<<12)
}

func (m Move) From() Square {
	return Square(m & 0x3F)
}

func (m Move) To() Square {
	return Square((m >> 6) & 0x3F)
}

func (m Move) Type() MoveType {
	return MoveType((m >> 12) & 0xF)
}

func (m Move) IsCapture() bool    { return m.Type().IsCapture() }
func (m Move) IsPromotion() bool  { return m.Type().IsPromotion() }
func (m Move) IsCastle() bool     { return m.Type() == Castle }
func (m Move) IsEnPassant() bool  { return m.Type() == CaptureEP }
func (m Move) IsDoublePush() bool { return m.Type() == DoublePush }

// IsPawnMove returns true iff the move type can only ever be produced by a
// pawn (pushes, en passant, promotions). Normal/Capture/Castle moves are
// not decidable from the type alone and are not reported as pawn moves by
// this predicate; callers that need that distinction consult the position.
func (m Move) IsPawnMove() bool {
	switch m.Type() {
	case SinglePush, DoublePush, CaptureEP:
		return true
	default:
		return m.IsPromotion()
	}
}

// String renders the move's raw from/to/promotion encoding. For castling
// this is the internal rook-to-king-home pair, not the UCI wire form
// (king start-to-final squares) -- use FormatUCI for that.
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}
	s := m.From().String() + m.To().String()
	if m.IsPromotion() {
		s += m.Type().PromotedPiece().String()
	}
	return s
}

// FatMove carries a Move together with the piece and (if any) captured
// piece it involves, as produced by the move generator so the search node
// and the move-ordering heuristics do not need to re-probe the board.
type FatMove struct {
	Move     Move
	Piece    Piece
	Captured Piece // NoPiece if not a capture
}

func (fm FatMove) String() string {
	return fmt.Sprintf("%v%v", fm.Piece, fm.Move)
}
