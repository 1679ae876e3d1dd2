// Package movegen generates pseudo-legal moves from an augmented position
// and detects whether a square is attacked, the two primitives the search
// node composes into full legality checking via make/unmake.
package movegen

import (
	"github.com/kestrelchess/kestrel/pkg/attack"
	"github.com/kestrelchess/kestrel/pkg/board"
)

// IsAttacked reports whether sq is attacked by myColour's opponent. It
// mirrors each attacker type's own movement from sq: a pawn attacker is
// found by running a pawn attack from sq with myColour (which points
// toward the squares an enemy pawn diagonally behind them would need to
// occupy), a knight/king attacker by the jump tables, and a bishop/rook/
// queen attacker by the sliding tables against the position's combined
// occupancy.
func IsAttacked(pos *board.AugmentedPosition, sq board.Square, myColour board.Color) bool {
	opp := myColour.Opponent()
	occ := pos.Occupancy()

	if attack.Pawn[myColour][sq]&pos.PieceBitboard(opp, board.Pawn) != 0 {
		return true
	}
	if attack.Knight[sq]&pos.PieceBitboard(opp, board.Knight) != 0 {
		return true
	}
	if attack.King[sq]&pos.PieceBitboard(opp, board.King) != 0 {
		return true
	}
	bishops := pos.PieceBitboard(opp, board.Bishop) | pos.PieceBitboard(opp, board.Queen)
	if bishops != 0 && attack.Bishop(sq, occ)&bishops != 0 {
		return true
	}
	rooks := pos.PieceBitboard(opp, board.Rook) | pos.PieceBitboard(opp, board.Queen)
	if rooks != 0 && attack.Rook(sq, occ)&rooks != 0 {
		return true
	}
	return false
}

// IsChecked reports whether c's king is currently attacked.
func IsChecked(pos *board.AugmentedPosition, c board.Color) bool {
	return IsAttacked(pos, pos.King(c), c)
}
