package board

import (
	"fmt"
	"strings"
)

// Placement is a single piece placement, as used to build a position from
// scratch (e.g. from a parsed FEN board).
type Placement struct {
	Square Square
	Color  Color
	Piece  Piece
}

func (p Placement) String() string {
	return fmt.Sprintf("%v@%v", ColouredPiece{p.Color, p.Piece}, p.Square)
}

// AugmentedPosition is the ground-truth board representation: per-color,
// per-piece bitboards, a mailbox for O(1) square lookup, and the derived
// occupancy bitboards (per color and combined) that are recomputed on
// every mutation rather than cached, since they are cheap relative to the
// mutation itself and every other Incremental component already pays for
// a pass over the move's squares.
//
// AugmentedPosition implements Incremental itself -- it is simply the
// first and most fundamental cache of a function of the position, namely
// the position itself.
type AugmentedPosition struct {
	pieces [NumColors][NumPieces]Bitboard
	occ    [NumColors]Bitboard
	all    Bitboard
	board  [NumSquares]ColouredPiece // NoPiece marks empty

	turn      Color
	castling  Castling
	enpassant Square // NoSquare if none
	halfmove  int
	fullmove  int
}

var _ Incremental = (*AugmentedPosition)(nil)

// NewAugmentedPosition builds a position from a placement list and
// metadata, validating that it has exactly one king per side.
func NewAugmentedPosition(placements []Placement, turn Color, castling Castling, ep Square, halfmove, fullmove int) (*AugmentedPosition, error) {
	ap := &AugmentedPosition{turn: turn, castling: castling, enpassant: ep, halfmove: halfmove, fullmove: fullmove}
	for i := range ap.board {
		ap.board[i] = ColouredPiece{Piece: NoPiece}
	}

	for _, pl := range placements {
		if ap.board[pl.Square].Piece != NoPiece {
			return nil, fmt.Errorf("duplicate placement on %v", pl.Square)
		}
		ap.rawPlace(pl.Square, ColouredPiece{pl.Color, pl.Piece})
	}

	if ap.pieces[White][King].PopCount() != 1 || ap.pieces[Black][King].PopCount() != 1 {
		return nil, fmt.Errorf("position must have exactly one king per side")
	}
	return ap, nil
}

func (ap *AugmentedPosition) rawPlace(sq Square, cp ColouredPiece) {
	m := Mask(sq)
	ap.pieces[cp.Color][cp.Piece] |= m
	ap.occ[cp.Color] |= m
	ap.all = ap.occ[White] | ap.occ[Black]
	ap.board[sq] = cp
}

// rawRemove clears cp's bit at sq. The mailbox entry at sq is only blanked
// if it still names cp, and the combined occupancy is rebuilt from the two
// side occupancies rather than cleared directly: a capture's RemovePiece
// call lands on a square the mover has already occupied (see
// Node.MakeMove's ordering), and blindly clearing the mailbox or the
// combined bit there would erase the mover's own piece.
func (ap *AugmentedPosition) rawRemove(sq Square, cp ColouredPiece) {
	m := ^Mask(sq)
	ap.pieces[cp.Color][cp.Piece] &= m
	ap.occ[cp.Color] &= m
	ap.all = ap.occ[White] | ap.occ[Black]
	if ap.board[sq] == cp {
		ap.board[sq] = ColouredPiece{Piece: NoPiece}
	}
}

// Turn returns the side to move.
func (ap *AugmentedPosition) Turn() Color { return ap.turn }

// Castling returns the current castling rights.
func (ap *AugmentedPosition) Castling() Castling { return ap.castling }

// EnPassant returns the current en passant target, or NoSquare if none.
func (ap *AugmentedPosition) EnPassant() Square { return ap.enpassant }

// HalfMoveClock returns the number of plies since the last capture or pawn move.
func (ap *AugmentedPosition) HalfMoveClock() int { return ap.halfmove }

// FullMoveNumber returns the current full-move counter.
func (ap *AugmentedPosition) FullMoveNumber() int { return ap.fullmove }

// IncrementHalfMoveClock bumps the half-move (no-progress) clock by one,
// called unconditionally at the start of every MakeMove; callers reset it
// to zero afterward when the move turns out to be a pawn move or capture.
func (ap *AugmentedPosition) IncrementHalfMoveClock() { ap.halfmove++ }

// SetHalfMoveClock writes the half-move clock directly, used both to
// zero it out on an irreversible move and to restore it verbatim on unmake.
func (ap *AugmentedPosition) SetHalfMoveClock(v int) { ap.halfmove = v }

// IncrementFullMoveNumber bumps the full-move counter, called when the
// side making the current move is Black.
func (ap *AugmentedPosition) IncrementFullMoveNumber() { ap.fullmove++ }

// DecrementFullMoveNumber is the inverse of IncrementFullMoveNumber, used
// by Unmake.
func (ap *AugmentedPosition) DecrementFullMoveNumber() { ap.fullmove-- }

// Occupancy returns the combined occupancy of both colors.
func (ap *AugmentedPosition) Occupancy() Bitboard { return ap.all }

// OccupancyOf returns the occupancy of a single color.
func (ap *AugmentedPosition) OccupancyOf(c Color) Bitboard { return ap.occ[c] }

// PieceBitboard returns the bitboard for a single (color, piece) pair.
func (ap *AugmentedPosition) PieceBitboard(c Color, p Piece) Bitboard { return ap.pieces[c][p] }

// PieceAt returns the piece occupying sq, or {_, NoPiece} if empty.
func (ap *AugmentedPosition) PieceAt(sq Square) ColouredPiece { return ap.board[sq] }

// IsEmpty returns true iff sq has no piece.
func (ap *AugmentedPosition) IsEmpty(sq Square) bool { return ap.board[sq].Piece == NoPiece }

// King returns the square of c's king.
func (ap *AugmentedPosition) King(c Color) Square {
	return ap.pieces[c][King].LSB()
}

// --- Incremental ---

func (ap *AugmentedPosition) AddPiece(sq Square, cp ColouredPiece) {
	ap.rawPlace(sq, cp)
}

func (ap *AugmentedPosition) RemovePiece(sq Square, cp ColouredPiece) {
	ap.rawRemove(sq, cp)
}

func (ap *AugmentedPosition) MovePiece(from, to Square, cp ColouredPiece) {
	ap.rawRemove(from, cp)
	ap.rawPlace(to, cp)
}

func (ap *AugmentedPosition) SwapSameSide(sq Square, c Color, from, to Piece) {
	ap.rawRemove(sq, ColouredPiece{c, from})
	ap.rawPlace(sq, ColouredPiece{c, to})
}

func (ap *AugmentedPosition) SwapOppSide(sq Square, c Color, captured, promoted Piece) {
	ap.rawRemove(sq, ColouredPiece{c.Opponent(), captured})
	ap.rawPlace(sq, ColouredPiece{c, promoted})
}

func (ap *AugmentedPosition) ToggleCastlingRights(delta Castling) {
	ap.castling ^= delta
}

func (ap *AugmentedPosition) AddEnPassant(sq Square) {
	ap.enpassant = sq
}

func (ap *AugmentedPosition) RemoveEnPassant(sq Square) {
	ap.enpassant = NoSquare
}

func (ap *AugmentedPosition) SetSideToMove() {
	ap.turn = ap.turn.Opponent()
}

func (ap *AugmentedPosition) String() string {
	var sb strings.Builder
	for r := Rank8; r >= Rank1; r-- {
		for f := FileA; f <= FileH; f++ {
			cp := ap.board[NewSquare(f, r)]
			if cp.Piece == NoPiece {
				sb.WriteByte('-')
			} else {
				sb.WriteString(cp.String())
			}
		}
		if r != Rank1 {
			sb.WriteByte('/')
		}
	}
	return fmt.Sprintf("%v %v %v(%v)", sb.String(), ap.turn, ap.castling, ap.enpassant)
}
