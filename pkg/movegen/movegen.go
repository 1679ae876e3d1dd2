package movegen

import (
	"github.com/kestrelchess/kestrel/pkg/attack"
	"github.com/kestrelchess/kestrel/pkg/board"
)

// Generator produces pseudo-legal moves from a position: moves that
// respect piece movement rules and do not land on the mover's own pieces,
// but may leave the mover's king in check or capture the opponent's king.
// The caller filters both via make/unmake plus the attack detector.
type Generator struct{}

// QuietMoves appends every non-capturing, non-capture-promotion move to buf.
func (Generator) QuietMoves(pos *board.AugmentedPosition, buf *board.MoveBuffer) {
	generate(pos, buf, false, true)
}

// LoudMoves appends every capture and capture-promotion to buf. "Loud"
// excludes pushing promotions, which are classified quiet by default.
func (Generator) LoudMoves(pos *board.AugmentedPosition, buf *board.MoveBuffer) {
	generate(pos, buf, true, false)
}

// AllMoves appends every pseudo-legal move to buf. When inOrder is true,
// loud moves are guaranteed to precede quiet moves (useful for search
// move ordering); when false, moves are emitted in whatever per-piece
// order is cheapest to generate, which is better for cache locality when
// order does not matter (e.g. perft).
func (Generator) AllMoves(pos *board.AugmentedPosition, buf *board.MoveBuffer, inOrder bool) {
	if inOrder {
		generate(pos, buf, true, false)
		generate(pos, buf, false, true)
		return
	}
	generate(pos, buf, true, true)
}

func generate(pos *board.AugmentedPosition, buf *board.MoveBuffer, loud, quiet bool) {
	c := pos.Turn()
	own := pos.OccupancyOf(c)
	opp := pos.OccupancyOf(c.Opponent())
	occ := pos.Occupancy()

	genKing(pos, buf, c, own, opp, loud, quiet)
	genKnight(pos, buf, c, own, opp, loud, quiet)
	genSlider(pos, buf, c, board.Bishop, attack.Bishop, own, opp, occ, loud, quiet)
	genSlider(pos, buf, c, board.Rook, attack.Rook, own, opp, occ, loud, quiet)
	genSlider(pos, buf, c, board.Queen, attack.Queen, own, opp, occ, loud, quiet)
	genPawn(pos, buf, c, own, opp, occ, loud, quiet)
	if quiet {
		genCastle(pos, buf, c, occ)
	}
}

// emitJump appends moves for a single piece jumping/ray-stepping from
// 'from' to each square in targets, splitting by whether the destination
// is occupied by the opponent (capture) or empty (quiet).
func emitJump(pos *board.AugmentedPosition, buf *board.MoveBuffer, from board.Square, piece board.Piece, targets, opp board.Bitboard, loud, quiet bool) {
	for targets != 0 {
		var to board.Square
		to, targets = targets.PopLSB()
		if opp.IsSet(to) {
			if loud {
				buf.Add(board.FatMove{Move: board.NewMove(from, to, board.Capture), Piece: piece, Captured: pos.PieceAt(to).Piece})
			}
		} else if quiet {
			buf.Add(board.FatMove{Move: board.NewMove(from, to, board.Normal), Piece: piece})
		}
	}
}

func genKing(pos *board.AugmentedPosition, buf *board.MoveBuffer, c board.Color, own, opp board.Bitboard, loud, quiet bool) {
	from := pos.King(c)
	targets := attack.King[from] &^ own
	emitJump(pos, buf, from, board.King, targets, opp, loud, quiet)
}

func genKnight(pos *board.AugmentedPosition, buf *board.MoveBuffer, c board.Color, own, opp board.Bitboard, loud, quiet bool) {
	knights := pos.PieceBitboard(c, board.Knight)
	for knights != 0 {
		var from board.Square
		from, knights = knights.PopLSB()
		targets := attack.Knight[from] &^ own
		emitJump(pos, buf, from, board.Knight, targets, opp, loud, quiet)
	}
}

func genSlider(pos *board.AugmentedPosition, buf *board.MoveBuffer, c board.Color, piece board.Piece, attacks func(board.Square, board.Bitboard) board.Bitboard, own, opp, occ board.Bitboard, loud, quiet bool) {
	sliders := pos.PieceBitboard(c, piece)
	for sliders != 0 {
		var from board.Square
		from, sliders = sliders.PopLSB()
		targets := attacks(from, occ) &^ own
		emitJump(pos, buf, from, piece, targets, opp, loud, quiet)
	}
}
