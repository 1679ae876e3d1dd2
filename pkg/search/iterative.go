package search

import (
	"sync"
	"time"

	"github.com/kestrelchess/kestrel/pkg/board"
	"github.com/kestrelchess/kestrel/pkg/searchnode"
	"go.uber.org/atomic"
)

// Report is what the driver hands the host after every completed depth:
// enough to format a UCI `info` line.
type Report struct {
	Depth    int
	Score    board.Score
	Nodes    uint64
	Elapsed  time.Duration
	PV       []board.Move
	Position *board.AugmentedPosition
}

// Reporter receives one Report per completed iterative-deepening depth.
// It is invoked on the search thread between depths and must not block.
type Reporter func(Report)

// Driver runs the iterative deepening loop over a single search node:
// depth 1, 2, ... until a deadline, an explicit Stop,
// or MaxDepth is reached. stop() is synchronized with the depth-1 launch
// under mu so a Stop call can never race a search that must complete.
type Driver struct {
	mu   sync.Mutex
	stop *atomic.Bool
}

// NewDriver returns an idle driver, ready for Run.
func NewDriver() *Driver {
	return &Driver{stop: atomic.NewBool(false)}
}

// Stop requests the in-flight search to halt at its next suspension
// point; a Stop issued while no search runs is cleared when the next Run
// launches its depth-1 search. Safe to call from another goroutine; idempotent.
// Blocks until any depth-1 search in progress has completed, so Run can
// always return a legal move.
func (d *Driver) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stop.Store(true)
}

// Run executes iterative deepening from the node's current position up
// to maxDepth plies (searchnode.MaxPly if maxDepth is 0 or exceeds it).
// softDeadline governs whether a new depth is started at all (the driver
// does not launch depth d+1 once it has passed); hardDeadline bounds the
// in-flight search itself, forcibly cutting it off at its next suspension
// point. Either may be the zero Time for "no limit". report, if non-nil,
// is called once per completed depth. Returns the result of the last
// fully completed depth -- always at least depth 1, even if both
// deadlines have already passed on entry.
func (d *Driver) Run(n *searchnode.Node, tt Table, cfg Config, maxDepth int, softDeadline, hardDeadline time.Time, report Reporter) Result {
	if maxDepth <= 0 || maxDepth > searchnode.MaxPly {
		maxDepth = searchnode.MaxPly
	}
	s := NewSearcher(n, tt, cfg)

	var last Result
	for depth := 1; depth <= maxDepth; depth++ {
		var deadline time.Time
		if depth == 1 {
			// The depth-1 search always runs to completion: use no
			// deadline and a fresh stop flag, and hold mu for the
			// duration of the launch so a concurrent Stop() either
			// lands before this reset or blocks until depth 1 is
			// done -- it can never race the reset itself. Later
			// depths deliberately do NOT hold mu across the search
			// call: Stop() must be able to take the atomic flag
			// immediately while a deep search is in flight, or an
			// infinite-depth search with no deadline could never be
			// interrupted.
			d.mu.Lock()
			d.stop.Store(false)
			deadline = time.Time{}
		} else {
			deadline = hardDeadline
		}

		start := time.Now()
		n.PrepSearch(depth)
		r := s.Search(deadline, d.stop, depth)
		elapsed := time.Since(start)
		if depth == 1 {
			d.mu.Unlock()
		}

		if r.LeafType == TIMEOUT {
			break
		}
		last = r

		if report != nil {
			pv := PrincipalVariation(n, tt, depth)
			report(Report{
				Depth:    depth,
				Score:    r.Score,
				Nodes:    r.Nodes,
				Elapsed:  elapsed,
				PV:       pv,
				Position: n.Position(),
			})
		}

		if r.LeafType == CHECKMATE {
			break
		}
		if d.stop.Load() {
			break
		}
		if !hardDeadline.IsZero() && !time.Now().Before(hardDeadline) {
			break
		}
		if !softDeadline.IsZero() && !time.Now().Before(softDeadline) {
			break
		}
	}
	return last
}
