package search

import (
	"github.com/kestrelchess/kestrel/pkg/board"
	"github.com/kestrelchess/kestrel/pkg/eval"
)

// Order sorts buf in place so the search explores the moves most likely
// to cause a cutoff first: captures before quiets, captures ordered by
// MVV-LVA (most valuable victim, least valuable attacker), and within
// equal MVV-LVA keys the hash move (the best move recorded for this
// position in the transposition table, or NoMove if there was none)
// promoted to the front. Quiet moves are all equal under this comparator
// and keep their generation order among themselves, since a strict weak
// order need not discriminate further between them.
func Order(buf *board.MoveBuffer, hash board.Move) {
	n := buf.Len()
	for i := 1; i < n; i++ {
		fm := buf.At(i)
		k := key(fm, hash)
		j := i - 1
		for j >= 0 && key(buf.At(j), hash) < k {
			buf.Set(j+1, buf.At(j))
			j--
		}
		buf.Set(j+1, fm)
	}
}

// key computes an ordering key, higher explored first: captures are keyed
// by (victim value * 16 - attacker value) so higher-value victims and
// lower-value attackers sort first; quiet moves all share the bottom key.
// The key is doubled and the hash move gets one more, so it sorts ahead of
// the moves with its own MVV-LVA key but not ahead of a higher one.
func key(fm board.FatMove, hash board.Move) int {
	k := 0
	if fm.Move.IsCapture() {
		victim := fm.Captured
		if fm.Move.IsEnPassant() {
			victim = board.Pawn
		}
		k = 1 + int(eval.NominalValue(victim))*16 - int(eval.NominalValue(fm.Piece))
	}
	k *= 2
	if fm.Move == hash {
		k++
	}
	return k
}

// IsOrdered reports whether buf already satisfies the strict weak order
// Order would produce -- used by tests to assert Order's postcondition
// without depending on its insertion-sort implementation detail.
func IsOrdered(buf *board.MoveBuffer, hash board.Move) bool {
	for i := 1; i < buf.Len(); i++ {
		if key(buf.At(i), hash) > key(buf.At(i-1), hash) {
			return false
		}
	}
	return true
}
