package board

// Incremental is the contract shared by every component that caches a
// function of the position -- the occupancy bitboards, the Zobrist hash,
// the material evaluation -- so the search node can update them all
// together, in lockstep, as it walks the move stack with Make/Unmake.
//
// Every mutation has an inverse in the interface: RemovePiece undoes
// AddPiece, MovePiece with 'from' and 'to' exchanged undoes MovePiece,
// SwapSameSide with the two pieces exchanged undoes SwapSameSide, and
// RemoveEnPassant undoes AddEnPassant; ToggleCastlingRights and
// SetSideToMove are their own inverses. The search node undoes a move by
// issuing the inverse of each call it made to apply it, in reverse order.
type Incremental interface {
	// AddPiece places cp on sq. sq must be empty of that component's
	// bookkeeping prior to the call.
	AddPiece(sq Square, cp ColouredPiece)

	// RemovePiece removes cp from sq. Inverse of AddPiece.
	RemovePiece(sq Square, cp ColouredPiece)

	// MovePiece relocates cp from 'from' to 'to'. On a capture 'to' still
	// holds the captured piece, which the caller clears with a RemovePiece
	// call right after. Equivalent to RemovePiece(from,cp) then AddPiece(to,cp), but
	// components may special-case it for efficiency (e.g. XOR of both
	// square hashes in one step).
	MovePiece(from, to Square, cp ColouredPiece)

	// SwapSameSide replaces piece 'from' of color c on sq with piece 'to'
	// of the same color: a pawn with its promoted piece on a promotion, or
	// back again when the promotion is undone.
	SwapSameSide(sq Square, c Color, from, to Piece)

	// SwapOppSide replaces a piece of color c.Opponent() on sq with a
	// promoted piece of color c, as in a promoting capture: the captured
	// piece belongs to the opponent, the piece it becomes belongs to the
	// mover.
	SwapOppSide(sq Square, c Color, captured, promoted Piece)

	// ToggleCastlingRights flips the bits in delta. Called with the rights
	// actually lost (or, on unmake, regained) by a move -- never the full
	// before/after set -- so components can XOR a precomputed per-delta
	// value rather than recomputing from scratch.
	ToggleCastlingRights(delta Castling)

	// AddEnPassant records sq as a fresh en passant target.
	AddEnPassant(sq Square)

	// RemoveEnPassant clears a previously recorded en passant target at
	// sq. Inverse of AddEnPassant; sq is passed (rather than relying on
	// component-local state) so components stay self-contained.
	RemoveEnPassant(sq Square)

	// SetSideToMove flips which color is to move. Called exactly once per
	// real ply transition (including on unmake), never conditionally.
	SetSideToMove()
}
