package attack

import "github.com/kestrelchess/kestrel/pkg/board"

func init() {
	initJumpTables()

	wiz := newWizard(0x5EED)
	bishopTable = buildSliderTable(bishopDeltas, wiz)
	rookTable = buildSliderTable(rookDeltas, wiz)

	verifyAgainstReference()
}

// bishopMaxBits and rookMaxBits are the known maxima of the relevant-mask
// popcount over all squares for each piece class (a bishop on a center
// square, a rook on a corner square). They bound the per-square table sizes, and
// init verifies the tables actually reach them -- a smaller observed
// maximum means the mask construction dropped squares.
const (
	bishopMaxBits = 9
	rookMaxBits   = 12
)

// verifyAgainstReference cross-checks both indexing strategies against
// slowScan for every square and every blocker subset of its relevant
// mask, and checks the mask-size maxima above. A mismatch here means a
// bug in either indexing strategy, not a runtime condition -- it panics
// rather than silently returning wrong attacks.
func verifyAgainstReference() {
	var bishopMax, rookMax int
	for sq := board.ZeroSquare; sq < board.NumSquares; sq++ {
		bishopMax = max(bishopMax, checkTable(bishopTable, sq, bishopDeltas, bishopMaxBits))
		rookMax = max(rookMax, checkTable(rookTable, sq, rookDeltas, rookMaxBits))
	}
	if bishopMax != bishopMaxBits || rookMax != rookMaxBits {
		panic("slider mask maxima diverge from the declared bounds")
	}
}

func checkTable(t *sliderTable, sq board.Square, deltas []rayDelta, maxBits int) int {
	mask := t.mask[sq]
	n := mask.PopCount()
	if n > maxBits {
		panic("slider mask exceeds expected bit bound")
	}

	mask.Subsets(func(subset board.Bitboard) {
		want := slowScan(sq, deltas, subset)
		if got := t.AttackBitExtract(sq, subset); got != want {
			panic("bit-extract attack table diverges from reference scan")
		}
		if got := t.AttackMagic(sq, subset); got != want {
			panic("magic attack table diverges from reference scan")
		}
	})
	return n
}
