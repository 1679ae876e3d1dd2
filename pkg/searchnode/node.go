// Package searchnode implements the search node: a mutable augmented
// position plus every Incremental component attached to it, traversed by
// Make/Unmake so a negamax searcher can walk the game tree without
// allocating a new position at every ply.
package searchnode

import (
	"github.com/kestrelchess/kestrel/pkg/board"
	"github.com/kestrelchess/kestrel/pkg/eval"
	"github.com/kestrelchess/kestrel/pkg/movegen"
)

// MaxPly bounds the per-ply move-buffer array and therefore the deepest a
// single search (normal search followed by its quiescence tail) may
// recurse. Exceeding it panics rather than silently truncating the tree.
const MaxPly = 256

type madeMove struct {
	fm   board.FatMove
	info board.IrreversibleInfo
}

// Node is the search node (C7): the augmented position, every Incremental
// component attached to it (hash, material), the stack of made moves
// needed to unmake them, and a per-ply move buffer so move generation
// during search never allocates.
type Node struct {
	pos      *board.AugmentedPosition
	zobrist  *board.ZobristState
	material *eval.Material
	comps    []board.Incremental

	stack    []madeMove
	bufs     [MaxPly]board.MoveBuffer
	maxDepth int

	gen movegen.Generator
}

// New builds a search node over pos, with hash and material evaluation
// computed fresh (not assumed to already be consistent with pos).
func New(pos *board.AugmentedPosition) *Node {
	zobrist := &board.ZobristState{}
	for c := board.ZeroColor; c < board.NumColors; c++ {
		for p := board.ZeroPiece; p < board.NumPieces; p++ {
			bb := pos.PieceBitboard(c, p)
			for bb != 0 {
				var sq board.Square
				sq, bb = bb.PopLSB()
				zobrist.AddPiece(sq, board.ColouredPiece{Color: c, Piece: p})
			}
		}
	}
	zobrist.ToggleCastlingRights(pos.Castling())
	if ep := pos.EnPassant(); ep != board.NoSquare {
		zobrist.AddEnPassant(ep)
	}
	if pos.Turn() == board.Black {
		zobrist.SetSideToMove()
	}

	n := &Node{
		pos:      pos,
		zobrist:  zobrist,
		material: eval.NewMaterial(pos),
	}
	n.comps = []board.Incremental{pos, zobrist, n.material}
	return n
}

// Position returns the underlying augmented position. Callers must not
// mutate it other than through the node's Make/Unmake.
func (n *Node) Position() *board.AugmentedPosition { return n.pos }

// Clone returns a new, independent Node over a copy of the current
// position, with hash and material recomputed from scratch. The clone
// shares no state with n -- every field of AugmentedPosition is a value
// type, so copying *n.pos is already a deep copy. Used by the host to
// hand a search a private position to make/unmake against while its own
// copy keeps advancing through real game moves.
func (n *Node) Clone() *Node {
	posCopy := *n.pos
	return New(&posCopy)
}

// Hash returns the current Zobrist hash.
func (n *Node) Hash() board.ZobristHash { return n.zobrist.Hash() }

// Eval returns the current material balance from White's perspective.
func (n *Node) Eval() board.Score { return n.material.Score() }

// Turn returns the side to move.
func (n *Node) Turn() board.Color { return n.pos.Turn() }

// Ply returns the number of moves made since the search was prepped.
func (n *Node) Ply() int { return len(n.stack) }

// InCheck reports whether the side to move is in check.
func (n *Node) InCheck() bool { return movegen.IsChecked(n.pos, n.pos.Turn()) }

// IsInsufficientMaterial reports whether neither side has enough material
// to deliver checkmate by any sequence of legal moves: no pawns, rooks or
// queens on the board, and at most one minor piece (bishop or knight)
// between both sides. This is the common conservative approximation
// (it does not special-case same-colour bishop pairs, which can still
// mate only with help the opponent is not required to give); the rare
// positions it misses are adjudicated correctly anyway once the 50-move
// clock or repetition catches up.
func (n *Node) IsInsufficientMaterial() bool {
	p := n.pos
	heavy := p.PieceBitboard(board.White, board.Pawn) | p.PieceBitboard(board.Black, board.Pawn) |
		p.PieceBitboard(board.White, board.Rook) | p.PieceBitboard(board.Black, board.Rook) |
		p.PieceBitboard(board.White, board.Queen) | p.PieceBitboard(board.Black, board.Queen)
	if heavy != 0 {
		return false
	}
	minors := p.PieceBitboard(board.White, board.Knight) | p.PieceBitboard(board.Black, board.Knight) |
		p.PieceBitboard(board.White, board.Bishop) | p.PieceBitboard(board.Black, board.Bishop)
	return minors.PopCount() <= 1
}

// PrepSearch clears every per-ply move buffer and records the search's
// maximum depth, in preparation for a fresh search from the root.
func (n *Node) PrepSearch(maxDepth int) {
	n.maxDepth = maxDepth
	for i := range n.bufs {
		n.bufs[i].Reset()
	}
}

// BottomedOut reports whether the current ply has reached the search's
// configured maximum depth.
func (n *Node) BottomedOut() bool {
	return n.Ply() >= n.maxDepth
}

// Remaining returns the normal-search depth remaining at the current ply,
// clamped to zero once quiescence has pushed past the configured maximum
// -- the value a transposition table entry records alongside its score.
func (n *Node) Remaining() int {
	if r := n.maxDepth - n.Ply(); r > 0 {
		return r
	}
	return 0
}

// FindMoves generates into (and returns) the current ply's move buffer:
// every pseudo-legal move, loud-first, if all is true; only loud moves
// (captures and capture-promotions) otherwise.
func (n *Node) FindMoves(all bool) *board.MoveBuffer {
	buf := &n.bufs[n.Ply()]
	buf.Reset()
	if all {
		n.gen.AllMoves(n.pos, buf, true)
	} else {
		n.gen.LoudMoves(n.pos, buf)
	}
	return buf
}

// HasLegalQuietMove reports whether the side to move has at least one
// legal quiet move, used by quiescence search to distinguish "no captures
// available, but not actually stalemate/checkmate" from a true terminal
// position.
func (n *Node) HasLegalQuietMove() bool {
	buf := &n.bufs[n.Ply()]
	buf.Reset()
	n.gen.QuietMoves(n.pos, buf)
	for i := 0; i < buf.Len(); i++ {
		if n.MakeMove(buf.At(i)) {
			n.UnmakeMove()
			return true
		}
		n.UnmakeMove()
	}
	return false
}

func (n *Node) addPiece(sq board.Square, cp board.ColouredPiece) {
	for _, c := range n.comps {
		c.AddPiece(sq, cp)
	}
}

func (n *Node) removePiece(sq board.Square, cp board.ColouredPiece) {
	for _, c := range n.comps {
		c.RemovePiece(sq, cp)
	}
}

func (n *Node) movePiece(from, to board.Square, cp board.ColouredPiece) {
	for _, c := range n.comps {
		c.MovePiece(from, to, cp)
	}
}

func (n *Node) swapSameSide(sq board.Square, color board.Color, from, to board.Piece) {
	for _, c := range n.comps {
		c.SwapSameSide(sq, color, from, to)
	}
}

func (n *Node) toggleCastlingRights(delta board.Castling) {
	for _, c := range n.comps {
		c.ToggleCastlingRights(delta)
	}
}

func (n *Node) addEnPassant(sq board.Square) {
	for _, c := range n.comps {
		c.AddEnPassant(sq)
	}
}

func (n *Node) removeEnPassant(sq board.Square) {
	for _, c := range n.comps {
		c.RemoveEnPassant(sq)
	}
}

func (n *Node) setSideToMove() {
	for _, c := range n.comps {
		c.SetSideToMove()
	}
}

// epCapturedSquare returns the square of the pawn captured en passant,
// given the mover's color and the capturing pawn's destination square.
func epCapturedSquare(mover board.Color, to board.Square) board.Square {
	if mover == board.White {
		return to - 8
	}
	return to + 8
}

// MakeMove tentatively applies fm and reports whether the resulting
// position is legal (the mover's king not left in check). Illegal moves
// still fully apply -- the caller is expected to call UnmakeMove either
// way.
func (n *Node) MakeMove(fm board.FatMove) bool {
	mover := n.pos.Turn()
	from, to, t := fm.Move.From(), fm.Move.To(), fm.Move.Type()

	if mover == board.Black {
		n.pos.IncrementFullMoveNumber()
	}
	n.pos.IncrementHalfMoveClock()

	info := board.IrreversibleInfo{
		Castling:  n.pos.Castling(),
		EnPassant: n.pos.EnPassant(),
		Captured:  board.NoPiece,
		HalfMove:  n.pos.HalfMoveClock() - 1,
	}

	if ep := n.pos.EnPassant(); ep != board.NoSquare {
		n.removeEnPassant(ep)
	}

	if t == board.Castle {
		n.setSideToMove()
		legal := n.makeCastle(mover, fm)
		n.stack = append(n.stack, madeMove{fm, info})
		return legal
	}

	cp := board.ColouredPiece{Color: mover, Piece: fm.Piece}
	n.movePiece(from, to, cp)

	if t.IsCapture() {
		capSq := to
		if t == board.CaptureEP {
			capSq = epCapturedSquare(mover, to)
		}
		if loss := board.CastlingLoss(capSq) & n.pos.Castling(); loss != board.NoCastling {
			n.toggleCastlingRights(loss)
		}
		n.removePiece(capSq, board.ColouredPiece{Color: mover.Opponent(), Piece: fm.Captured})
		info.Captured = fm.Captured
	}

	if t.IsCapture() || fm.Piece == board.Pawn {
		n.pos.SetHalfMoveClock(0)
	}
	if t == board.DoublePush {
		n.addEnPassant((from + to) / 2)
	}

	if t.IsPromotion() {
		n.swapSameSide(to, mover, board.Pawn, t.PromotedPiece())
	}

	if loss := board.CastlingLoss(from) & n.pos.Castling(); loss != board.NoCastling {
		n.toggleCastlingRights(loss)
	}

	legal := !movegen.IsAttacked(n.pos, n.pos.King(mover), mover)

	n.setSideToMove()
	n.stack = append(n.stack, madeMove{fm, info})
	return legal
}

// UnmakeMove reverses the most recent MakeMove. Panics if no move is
// outstanding, which would indicate a bug in the searcher rather than a
// legitimate position.
func (n *Node) UnmakeMove() {
	last := n.stack[len(n.stack)-1]
	n.stack = n.stack[:len(n.stack)-1]
	fm, info := last.fm, last.info

	n.setSideToMove()
	mover := n.pos.Turn()

	n.pos.SetHalfMoveClock(info.HalfMove)

	if delta := n.pos.Castling() ^ info.Castling; delta != board.NoCastling {
		n.toggleCastlingRights(delta)
	}
	if cur := n.pos.EnPassant(); cur != board.NoSquare {
		n.removeEnPassant(cur)
	}
	if info.EnPassant != board.NoSquare {
		n.addEnPassant(info.EnPassant)
	}
	if mover == board.Black {
		n.pos.DecrementFullMoveNumber()
	}

	t := fm.Move.Type()
	from, to := fm.Move.From(), fm.Move.To()

	if t == board.Castle {
		n.unmakeCastle(mover, fm)
		return
	}

	if t.IsPromotion() {
		n.swapSameSide(to, mover, t.PromotedPiece(), board.Pawn)
	}

	n.movePiece(to, from, board.ColouredPiece{Color: mover, Piece: fm.Piece})

	if t.IsCapture() {
		capSq := to
		if t == board.CaptureEP {
			capSq = epCapturedSquare(mover, to)
		}
		n.addPiece(capSq, board.ColouredPiece{Color: mover.Opponent(), Piece: info.Captured})
	}
}

// UnmakeAll unwinds the entire move stack, restoring the root position.
func (n *Node) UnmakeAll() {
	for len(n.stack) > 0 {
		n.UnmakeMove()
	}
}

// makeCastle atomically relocates the king and rook and strips the
// mover's castling rights, returning whether the king's path (home,
// transit and destination squares) is free of attack -- the one piece of
// castling legality not checked by move generation itself.
func (n *Node) makeCastle(mover board.Color, fm board.FatMove) bool {
	rookFrom := fm.Move.From()
	kingHome := fm.Move.To()
	kingside := fm.Piece == board.King

	var kingDest, rookDest board.Square
	var path [3]board.Square
	if kingside {
		kingDest, rookDest = kingHome+2, kingHome+1
		path = [3]board.Square{kingHome, kingHome + 1, kingHome + 2}
	} else {
		kingDest, rookDest = kingHome-2, kingHome-1
		path = [3]board.Square{kingHome, kingHome - 1, kingHome - 2}
	}

	legal := true
	for _, sq := range path {
		if movegen.IsAttacked(n.pos, sq, mover) {
			legal = false
			break
		}
	}

	n.movePiece(kingHome, kingDest, board.ColouredPiece{Color: mover, Piece: board.King})
	n.movePiece(rookFrom, rookDest, board.ColouredPiece{Color: mover, Piece: board.Rook})

	if rights := n.pos.Castling() & board.RightsFor(mover); rights != board.NoCastling {
		n.toggleCastlingRights(rights)
	}
	return legal
}

func (n *Node) unmakeCastle(mover board.Color, fm board.FatMove) {
	rookFrom := fm.Move.From()
	kingHome := fm.Move.To()
	kingside := fm.Piece == board.King

	var kingDest, rookDest board.Square
	if kingside {
		kingDest, rookDest = kingHome+2, kingHome+1
	} else {
		kingDest, rookDest = kingHome-2, kingHome-1
	}
	n.movePiece(kingDest, kingHome, board.ColouredPiece{Color: mover, Piece: board.King})
	n.movePiece(rookDest, rookFrom, board.ColouredPiece{Color: mover, Piece: board.Rook})
}
