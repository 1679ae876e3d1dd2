package search

import (
	"fmt"
	"time"

	"github.com/kestrelchess/kestrel/pkg/board"
	"github.com/seekerror/stdlib/pkg/lang"
)

// TimeControl carries the clock state reported by a UCI `go` command:
// remaining time and increment per side, and optionally how many moves
// remain until the next time control (0 means the rest of the game).
type TimeControl struct {
	White, Black       time.Duration
	WhiteInc, BlackInc time.Duration
	MovesToGo          int
}

// Limits returns a soft and hard budget for the side to move: the driver
// should not start a new iterative-deepening depth past the soft limit,
// and the search thread is forcibly halted at the hard limit regardless
// of how deep it has gotten. Modeled on the 1/80-of-remaining rule of
// thumb, assuming 40 moves left when the host doesn't say otherwise, with
// the per-move increment added back in full since it is never at risk.
func (t TimeControl) Limits(c board.Color) (soft, hard time.Duration) {
	remainder, inc := t.White, t.WhiteInc
	if c == board.Black {
		remainder, inc = t.Black, t.BlackInc
	}

	moves := time.Duration(40)
	if t.MovesToGo > 0 {
		moves = time.Duration(t.MovesToGo) + 1
	}

	soft = remainder/(2*moves) + inc
	hard = 3 * soft
	if hard > remainder {
		hard = remainder
	}
	return soft, hard
}

func (t TimeControl) String() string {
	return fmt.Sprintf("%.1f(+%.1f)<>%.1f(+%.1f)[moves=%v]",
		t.White.Seconds(), t.WhiteInc.Seconds(), t.Black.Seconds(), t.BlackInc.Seconds(), t.MovesToGo)
}

// Budget is a single search's deadline policy, resolved once from the
// host's `go` parameters at the start of a search. Exactly one of
// MoveTime, TimeControl, Infinite, or Depth-only governs how deadlines
// are computed; MoveTime and TimeControl are mutually exclusive ways to
// derive soft/hard durations, Infinite disables the deadline entirely
// (the driver still stops on an explicit `stop`), and a zero Budget with
// Depth set searches exactly that many plies with no time pressure.
type Budget struct {
	MoveTime time.Duration      // fixed time for this move, 0 if unset
	TimeCtrl *TimeControl       // clock-derived time, nil if unset
	Infinite bool               // search until `stop`, ignoring any deadline
	Depth    lang.Optional[int] // hard depth cap, unset == no limit (searchnode.MaxPly used)
}

// Deadlines resolves b into a soft and hard deadline for the side to
// move, anchored at start. A zero hard deadline means "no deadline":
// the driver relies solely on Depth and an explicit stop.
func (b Budget) Deadlines(start time.Time, turn board.Color) (soft, hard time.Time) {
	switch {
	case b.Infinite:
		return time.Time{}, time.Time{}
	case b.MoveTime > 0:
		return start.Add(b.MoveTime), start.Add(b.MoveTime)
	case b.TimeCtrl != nil:
		s, h := b.TimeCtrl.Limits(turn)
		return start.Add(s), start.Add(h)
	default:
		return time.Time{}, time.Time{}
	}
}
