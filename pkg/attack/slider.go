package attack

import "github.com/kestrelchess/kestrel/pkg/board"

// rayDelta is one of the four ray directions a sliding piece class moves
// along; bishops and rooks each use their own set of four.
type rayDelta struct{ dr, df int }

var rookDeltas = []rayDelta{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
var bishopDeltas = []rayDelta{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}

// slowScan computes the attack set for a sliding piece on sq given deltas
// and the full board occupancy, by literally walking each ray until it
// hits the edge of the board or an occupied square (inclusive of that
// square, since a slider attacks whatever piece blocks it). This is the
// reference implementation both indexing strategies are checked against
// at init time -- it is never used during search, only during table
// construction and self-verification.
func slowScan(sq board.Square, deltas []rayDelta, occ board.Bitboard) board.Bitboard {
	var bb board.Bitboard
	r, f := int(sq.Rank()), int(sq.File())
	for _, d := range deltas {
		r0, f0 := r, f
		for {
			r0, f0 = r0+d.dr, f0+d.df
			if r0 < 0 || r0 > 7 || f0 < 0 || f0 > 7 {
				break
			}
			s := board.NewSquare(board.File(f0), board.Rank(r0))
			bb |= board.Mask(s)
			if occ.IsSet(s) {
				break
			}
		}
	}
	return bb
}

// relevantMask returns the blocker mask for sq: the squares a slider's ray
// passes over on an otherwise empty board, excluding the board edge (a
// piece on the edge square the ray would stop at anyway does not change
// the attack set, so it need not be part of the index).
func relevantMask(sq board.Square, deltas []rayDelta) board.Bitboard {
	border := (board.RankMask(board.Rank1) | board.RankMask(board.Rank8)) &^ board.RankMask(sq.Rank())
	border |= (board.FileMask(board.FileA) | board.FileMask(board.FileH)) &^ board.FileMask(sq.File())
	return slowScan(sq, deltas, board.Empty) &^ border
}

// sliderTable is one piece class's (bishop or rook) full attack table,
// populated by both of the two indexing strategies below -- both
// are verified identical to slowScan for every square and every blocker
// subset during init, so either may be selected at runtime without any
// behavioral difference.
type sliderTable struct {
	deltas []rayDelta
	mask   [64]board.Bitboard

	// bit-extract strategy: one flat slice per square, indexed by the
	// blocker bits compressed to the low bits of the mask's popcount.
	bitExtract [64][]board.Bitboard

	// magic strategy: one flat slice per square, indexed by a
	// multiply-shift hash of the masked occupancy.
	magic      [64]uint64
	magicShift [64]uint
	magicTable [64][]board.Bitboard
}

// compress extracts the bits of occ selected by mask into a dense integer,
// in mask-bit order from LSB to MSB -- a software emulation of the PEXT
// instruction, used as the bit-extract indexing strategy's table index.
func compress(occ, mask board.Bitboard) uint {
	var result uint
	var bit uint
	for m := mask; m != 0; {
		sq, rest := m.PopLSB()
		if occ.IsSet(sq) {
			result |= 1 << bit
		}
		bit++
		m = rest
	}
	return result
}

func buildSliderTable(deltas []rayDelta, wiz *wizard) *sliderTable {
	t := &sliderTable{deltas: deltas}

	for sq := board.ZeroSquare; sq < board.NumSquares; sq++ {
		mask := relevantMask(sq, deltas)
		t.mask[sq] = mask

		n := mask.PopCount()
		bet := make([]board.Bitboard, 1<<uint(n))
		mask.Subsets(func(subset board.Bitboard) {
			idx := compress(subset, mask)
			bet[idx] = slowScan(sq, deltas, subset)
		})
		t.bitExtract[sq] = bet

		magic, shift := wiz.search(sq, deltas, mask)
		t.magic[sq] = magic
		t.magicShift[sq] = shift
		store := make([]board.Bitboard, 1<<shift)
		mask.Subsets(func(subset board.Bitboard) {
			idx := magicIndex(magic, shift, subset)
			store[idx] = slowScan(sq, deltas, subset)
		})
		t.magicTable[sq] = store
	}
	return t
}

// AttackBitExtract returns the slider's attack set using the bit-extract
// indexing strategy.
func (t *sliderTable) AttackBitExtract(sq board.Square, occ board.Bitboard) board.Bitboard {
	idx := compress(occ&t.mask[sq], t.mask[sq])
	return t.bitExtract[sq][idx]
}

// AttackMagic returns the slider's attack set using the magic multiply-shift
// indexing strategy.
func (t *sliderTable) AttackMagic(sq board.Square, occ board.Bitboard) board.Bitboard {
	idx := magicIndex(t.magic[sq], t.magicShift[sq], occ&t.mask[sq])
	return t.magicTable[sq][idx]
}

func magicIndex(magic uint64, shift uint, masked board.Bitboard) uint64 {
	return (uint64(masked) * magic) >> (64 - shift)
}

var (
	bishopTable *sliderTable
	rookTable   *sliderTable

	// useBitExtract selects which of the two verified-equivalent indexing
	// strategies Bishop and Rook dispatch to; both are always built so either
	// can be selected without rebuilding tables.
	useBitExtract = true
)

// Bishop returns the bishop attack set on sq given the full-board occupancy.
func Bishop(sq board.Square, occ board.Bitboard) board.Bitboard {
	if useBitExtract {
		return bishopTable.AttackBitExtract(sq, occ)
	}
	return bishopTable.AttackMagic(sq, occ)
}

// Rook returns the rook attack set on sq given the full-board occupancy.
func Rook(sq board.Square, occ board.Bitboard) board.Bitboard {
	if useBitExtract {
		return rookTable.AttackBitExtract(sq, occ)
	}
	return rookTable.AttackMagic(sq, occ)
}

// Queen returns the queen attack set on sq: the union of the bishop and
// rook rays from the same square. The two ray sets are always disjoint, so
// the union never double-counts a destination.
func Queen(sq board.Square, occ board.Bitboard) board.Bitboard {
	return Bishop(sq, occ) | Rook(sq, occ)
}

// SetIndexingStrategy selects bit-extract (true) or magic (false) indexing
// for every subsequent Bishop/Rook/Queen call. Exposed mainly so tests can
// exercise both strategies against the same reference behavior.
func SetIndexingStrategy(bitExtract bool) {
	useBitExtract = bitExtract
}
