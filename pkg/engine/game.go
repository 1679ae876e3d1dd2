package engine

import (
	"fmt"

	"github.com/kestrelchess/kestrel/pkg/board"
	"github.com/kestrelchess/kestrel/pkg/searchnode"
)

const (
	repetition3Limit = 3
	repetition5Limit = 5
)

// Game is the engine's canonical, permanent position: a search node
// advanced move by move by real play (search instead works against a
// private Clone), plus the history needed to adjudicate the draw
// conditions the search itself does not track: threefold and fivefold
// repetition, the 50-move rule, and insufficient material.
type Game struct {
	node *searchnode.Node

	// repetitions counts, per hash seen so far this game, how many times
	// it has recurred; history is the stack of hashes in play order so
	// TakeBack can undo the count.
	repetitions map[board.ZobristHash]int
	history     []board.ZobristHash

	result board.Result
}

// NewGame starts a game from pos.
func NewGame(pos *board.AugmentedPosition) *Game {
	n := searchnode.New(pos)
	return &Game{
		node:        n,
		repetitions: map[board.ZobristHash]int{n.Hash(): 1},
		history:     []board.ZobristHash{n.Hash()},
	}
}

// Node returns the live search node. Callers must not Make/Unmake it
// directly -- use Move/TakeBack so the repetition history stays correct.
func (g *Game) Node() *searchnode.Node { return g.node }

// Position returns the current position.
func (g *Game) Position() *board.AugmentedPosition { return g.node.Position() }

// Result returns the currently adjudicated result; the zero value means
// play continues.
func (g *Game) Result() board.Result { return g.result }

// Move applies fm, a pseudo-legal move from the current position,
// updating history and re-adjudicating the result. Returns false, and
// leaves the position untouched, if fm turns out not to be legal.
func (g *Game) Move(fm board.FatMove) bool {
	if !g.node.MakeMove(fm) {
		g.node.UnmakeMove()
		return false
	}

	hash := g.node.Hash()
	g.repetitions[hash]++
	g.history = append(g.history, hash)
	g.adjudicateAfterMove(fm, hash)
	return true
}

// TakeBack undoes the last move played via Move. Returns false if there
// is no move to undo.
func (g *Game) TakeBack() bool {
	if len(g.history) <= 1 {
		return false
	}
	hash := g.history[len(g.history)-1]
	g.history = g.history[:len(g.history)-1]
	g.repetitions[hash]--
	if g.repetitions[hash] == 0 {
		delete(g.repetitions, hash)
	}
	g.node.UnmakeMove()
	g.result = board.Result{}
	return true
}

func (g *Game) adjudicateAfterMove(fm board.FatMove, hash board.ZobristHash) {
	g.result = board.Result{}

	if g.node.Position().HalfMoveClock() >= 100 {
		g.result = board.Result{Outcome: board.Draw, Reason: board.NoProgress}
	}

	if count := g.repetitions[hash]; count >= repetition3Limit {
		reason := board.Repetition3
		if count >= repetition5Limit {
			reason = board.Repetition5
		}
		g.result = board.Result{Outcome: board.Draw, Reason: reason}
	}

	if fm.Move.IsCapture() || fm.Move.IsPromotion() {
		if g.node.IsInsufficientMaterial() {
			g.result = board.Result{Outcome: board.Draw, Reason: board.InsufficientMaterial}
		}
	}
}

// AdjudicateNoLegalMoves is called once the host has established that the
// side to move has no legal move: checkmate if the mover is in check,
// stalemate otherwise.
func (g *Game) AdjudicateNoLegalMoves() board.Result {
	turn := g.node.Turn()
	result := board.Result{Outcome: board.Draw, Reason: board.Stalemate}
	if g.node.InCheck() {
		result = board.Result{Outcome: board.Loss(turn), Reason: board.Checkmate}
	}
	g.result = result
	return result
}

func (g *Game) String() string {
	return fmt.Sprintf("game{%v result=%v}", g.node.Position(), g.result)
}
