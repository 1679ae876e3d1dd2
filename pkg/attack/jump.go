// Package attack precomputes the attack tables used by move generation
// and the check detector: jumping tables for pawns, knights and kings, and
// dual-strategy (bit-extract and magic multiply-shift) sliding tables for
// bishops, rooks and queens.
package attack

import "github.com/kestrelchess/kestrel/pkg/board"

var (
	// King holds the king's attack set per origin square, excluding castling.
	King [64]board.Bitboard
	// Knight holds the knight's attack set per origin square.
	Knight [64]board.Bitboard
	// Pawn holds the pawn capture set per (color, origin square).
	Pawn [2][64]board.Bitboard
)

type jumpDelta struct{ dr, df int }

var kingDeltas = []jumpDelta{
	{-1, -1}, {-1, 0}, {-1, 1}, {0, 1}, {1, 1}, {1, 0}, {1, -1}, {0, -1},
}

var knightDeltas = []jumpDelta{
	{-2, -1}, {-2, 1}, {2, -1}, {2, 1}, {-1, -2}, {-1, 2}, {1, -2}, {1, 2},
}

func jumpTable(deltas []jumpDelta) [64]board.Bitboard {
	var table [64]board.Bitboard
	for r := board.Rank1; r <= board.Rank8; r++ {
		for f := board.FileA; f <= board.FileH; f++ {
			sq := board.NewSquare(f, r)
			var bb board.Bitboard
			for _, d := range deltas {
				r0, f0 := int(r)+d.dr, int(f)+d.df
				if r0 < 0 || r0 > 7 || f0 < 0 || f0 > 7 {
					continue
				}
				bb |= board.Mask(board.NewSquare(board.File(f0), board.Rank(r0)))
			}
			table[sq] = bb
		}
	}
	return table
}

func initJumpTables() {
	King = jumpTable(kingDeltas)
	Knight = jumpTable(knightDeltas)

	whiteDeltas := []jumpDelta{{1, -1}, {1, 1}}
	blackDeltas := []jumpDelta{{-1, -1}, {-1, 1}}
	Pawn[board.White] = jumpTable(whiteDeltas)
	Pawn[board.Black] = jumpTable(blackDeltas)
}
