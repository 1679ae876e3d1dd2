package search

import (
	"github.com/kestrelchess/kestrel/pkg/board"
	"github.com/kestrelchess/kestrel/pkg/movegen"
	"github.com/kestrelchess/kestrel/pkg/searchnode"
)

// PrincipalVariation recovers the principal variation from the root by
// repeatedly consulting tt and replaying the recorded best move.
// It stops at a TT miss, an empty best move, max
// depth, or (defensively) if the recorded move turns out not to be legal
// in the position reached so far -- a stale or colliding TT entry must
// never wedge the reporter into an infinite or incorrect PV.
func PrincipalVariation(n *searchnode.Node, tt Table, maxDepth int) []board.Move {
	var pv []board.Move
	var gen movegen.Generator
	var buf board.MoveBuffer

	made := 0
	defer func() {
		for ; made > 0; made-- {
			n.UnmakeMove()
		}
	}()

	for len(pv) < maxDepth {
		e, ok := tt.Probe(n.Hash())
		if !ok || e.Best == board.NoMove {
			break
		}

		buf.Reset()
		gen.AllMoves(n.Position(), &buf, true)

		fm, found := find(&buf, e.Best)
		if !found {
			break
		}
		if !n.MakeMove(fm) {
			n.UnmakeMove()
			break
		}
		made++
		pv = append(pv, fm.Move)
	}
	return pv
}

func find(buf *board.MoveBuffer, m board.Move) (board.FatMove, bool) {
	for i := 0; i < buf.Len(); i++ {
		if fm := buf.At(i); fm.Move == m {
			return fm, true
		}
	}
	return board.FatMove{}, false
}
