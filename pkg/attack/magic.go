package attack

import (
	"math/bits"
	"math/rand"

	"github.com/kestrelchess/kestrel/pkg/board"
)

// wizard searches for magic multipliers that hash a slider's blocker
// subsets into a perfect (collision-free) index with as few bits as
// possible. The technique -- random multipliers filtered to a low
// popcount, verified against every subset of the relevant mask -- follows
// the well-known magic-bitboard construction used by most bitboard
// engines.
type wizard struct {
	rng *rand.Rand

	// scratch buffers, reused across searches to avoid reallocating.
	store []board.Bitboard
}

func newWizard(seed int64) *wizard {
	return &wizard{rng: rand.New(rand.NewSource(seed))}
}

// candidate draws a random 64-bit multiplier biased toward a low popcount,
// which empirically produces better magics -- the AND of three independent
// random draws sparsifies the bit pattern.
func (w *wizard) candidate() uint64 {
	return w.rng.Uint64() & w.rng.Uint64() & w.rng.Uint64()
}

// verify returns true iff magic hashes every subset of mask to a
// collision-free index at the given shift, i.e. a perfect hash over the
// relevant occupancy subsets for this one square.
func (w *wizard) verify(sq board.Square, deltas []rayDelta, mask board.Bitboard, magic uint64, shift uint) bool {
	size := 1 << shift
	if cap(w.store) < size {
		w.store = make([]board.Bitboard, size)
	}
	store := w.store[:size]
	for i := range store {
		store[i] = board.Full // sentinel: "unfilled" (real attack sets never equal Full)
	}

	ok := true
	mask.Subsets(func(subset board.Bitboard) {
		if !ok {
			return
		}
		idx := magicIndex(magic, shift, subset)
		attack := slowScan(sq, deltas, subset)
		if store[idx] != board.Full && store[idx] != attack {
			ok = false
			return
		}
		store[idx] = attack
	})
	return ok
}

// search finds a magic number and the smallest shift (i.e. smallest table)
// it was tried at for sq, trying progressively larger tables until a
// perfect hash is found for a generous number of random candidates at each
// size -- mirroring how engines with hand-searched magic tables were
// originally produced, just run fresh every time rather than hardcoded.
func (w *wizard) search(sq board.Square, deltas []rayDelta, mask board.Bitboard) (uint64, uint) {
	baseShift := uint(mask.PopCount())

	const attemptsPerShift = 1000
	const maxExtraShift = 4 // widen the table if unlucky, rather than loop forever
	for extra := uint(0); extra <= maxExtraShift; extra++ {
		shift := baseShift + extra
		for attempt := 0; attempt < attemptsPerShift; attempt++ {
			magic := w.candidate()
			if popcntHighBits(mask, magic) < 6 {
				continue
			}
			if w.verify(sq, deltas, mask, magic, shift) {
				return magic, shift
			}
		}
	}
	panic("magic search exhausted without a perfect hash")
}

func popcntHighBits(mask board.Bitboard, magic uint64) int {
	return bits.OnesCount64(uint64(mask) * magic >> 56)
}
