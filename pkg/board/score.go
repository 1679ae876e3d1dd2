package board

import (
	"fmt"
	"math"
)

// Score is a signed position or move score in centipawns. Static
// evaluations such as eval.Material are from White's point of view;
// search results are from the side to move's. A forced mate found by the
// search scores MaxScore minus the ply at which it is delivered (negated
// for the side being mated), so the search driver can recognize it with
// IsMate and stop deepening rather than treating it as an ordinary large
// evaluation.
type Score int64

const (
	MinScore      Score = -math.MaxInt32
	MaxScore      Score = math.MaxInt32
	CheckmateScore Score = MaxScore
)

// IsMate returns true iff s represents a forced mate, at any distance: a
// true mate score sits within MaxPly of MaxScore (or, for the losing side,
// MinScore) once distance-to-mate has been folded in by the search driver.
func (s Score) IsMate() bool {
	const matebound = CheckmateScore - 1000
	return s > matebound || s < -matebound
}

func (s Score) String() string {
	if s.IsMate() {
		return fmt.Sprintf("mate(%d)", int64(s))
	}
	return fmt.Sprintf("%.2f", float64(s)/100)
}
