package search

import (
	"time"

	"github.com/kestrelchess/kestrel/pkg/board"
	"github.com/kestrelchess/kestrel/pkg/searchnode"
	"go.uber.org/atomic"
)

// LeafType classifies why a search call returned rather than recursing
// further.
type LeafType uint8

const (
	// CUTOFF is the generic "ordinary score" leaf: a beta cutoff mid-loop,
	// a fully-searched node, or a depth-limit leaf with no quiescence. A
	// fully-searched node whose score is a forced mate reports CHECKMATE
	// instead.
	CUTOFF LeafType = iota
	DRAW
	STALEMATE
	CHECKMATE
	TIMEOUT
	STANDPAT
)

func (l LeafType) String() string {
	switch l {
	case CUTOFF:
		return "cutoff"
	case DRAW:
		return "draw"
	case STALEMATE:
		return "stalemate"
	case CHECKMATE:
		return "checkmate"
	case TIMEOUT:
		return "timeout"
	case STANDPAT:
		return "standpat"
	default:
		return "?"
	}
}

// Result is the outcome of one negamax call: the score and best move from
// the side-to-move's perspective at the node it was computed for, plus
// enough context for the caller to interpret it.
type Result struct {
	LeafType LeafType
	Best     board.Move
	Score    board.Score
	Nodes    uint64
}

// Config toggles the optional search refinements, all enabled for real
// play and individually disabled by tests that compare against the plain
// fixed-depth result.
type Config struct {
	Ordering   bool // move ordering via Order
	Quiescence bool // recurse into quiescence at the depth limit
	StandPat   bool // stand-pat pruning inside quiescence
}

// noProgressDrawPlies is the halfmove-clock threshold (in plies) at which
// a position is adjudicated a draw inside the search itself: 50 full
// moves without a pawn move or capture by either side.
const noProgressDrawPlies = 100

// Searcher runs depth-limited negamax with alpha-beta pruning over a
// single search node. It is not safe for
// concurrent use -- the iterative deepening driver owns one Searcher (and
// one underlying Node) for the lifetime of a search.
type Searcher struct {
	Node *searchnode.Node
	TT   Table
	Cfg  Config

	deadline time.Time
	stop     *atomic.Bool
	nodes    uint64
}

// NewSearcher builds a Searcher over node, recording results into tt.
func NewSearcher(node *searchnode.Node, tt Table, cfg Config) *Searcher {
	return &Searcher{Node: node, TT: tt, Cfg: cfg}
}

// Search runs one depth-limited search from the node's current position
// to maxDepth plies (plus quiescence, if enabled), stopping early if stop
// is set or deadline passes. A zero deadline means no deadline at all.
// The caller is responsible for having called Node.PrepSearch(maxDepth)
// first.
func (s *Searcher) Search(deadline time.Time, stop *atomic.Bool, maxDepth int) Result {
	s.deadline = deadline
	s.stop = stop
	s.nodes = 0

	r := s.negamax(board.MinScore, board.MaxScore, false)
	r.Nodes = s.nodes
	return r
}

// sideEval returns the current static evaluation from the perspective of
// the side to move (positive favors the mover), the sign flip negamax
// needs over the node's White-relative incremental material balance.
func sideEval(n *searchnode.Node) board.Score {
	e := n.Eval()
	if n.Turn() == board.Black {
		return -e
	}
	return e
}

func (s *Searcher) negamax(alpha, beta board.Score, quiescence bool) Result {
	if s.stop.Load() || (!s.deadline.IsZero() && !time.Now().Before(s.deadline)) {
		return Result{LeafType: TIMEOUT, Best: board.NoMove}
	}
	s.nodes++

	n := s.Node

	if !quiescence && n.Position().HalfMoveClock() >= noProgressDrawPlies {
		return Result{LeafType: DRAW, Best: board.NoMove}
	}

	if !quiescence && n.BottomedOut() {
		if s.Cfg.Quiescence {
			return s.negamax(alpha, beta, true)
		}
		return Result{LeafType: CUTOFF, Score: sideEval(n), Best: board.NoMove}
	}

	if quiescence && s.Cfg.StandPat {
		standPat := sideEval(n)
		if standPat > alpha {
			alpha = standPat
		}
		if alpha >= beta {
			return Result{LeafType: STANDPAT, Score: alpha, Best: board.NoMove}
		}
	}

	origAlpha := alpha
	hash := n.Hash()
	hashMove := board.NoMove
	if e, ok := s.TT.Probe(hash); ok {
		hashMove = e.Best
	}

	buf := n.FindMoves(!quiescence)
	if s.Cfg.Ordering {
		Order(buf, hashMove)
	}

	best := board.NoMove
	hasLegal := false

	for i := 0; i < buf.Len(); i++ {
		fm := buf.At(i)
		if !n.MakeMove(fm) {
			n.UnmakeMove()
			continue
		}
		hasLegal = true

		child := s.negamax(-beta, -alpha, quiescence)
		n.UnmakeMove()

		if child.LeafType == TIMEOUT {
			return Result{LeafType: TIMEOUT, Best: board.NoMove}
		}
		score := -child.Score

		if score >= beta {
			s.store(hash, Entry{Score: score, Depth: n.Remaining(), NodeType: CUT, Best: fm.Move})
			return Result{LeafType: CUTOFF, Score: score, Best: fm.Move}
		}
		if score > alpha {
			alpha = score
			best = fm.Move
		}
	}

	if !hasLegal {
		if quiescence {
			if n.HasLegalQuietMove() {
				// Not a terminal position, just one with nothing loud to
				// resolve: stand on the static evaluation (bounded below by
				// alpha, which stand-pat may already have raised to it).
				score := sideEval(n)
				if score < alpha {
					score = alpha
				}
				return Result{LeafType: STANDPAT, Score: score, Best: board.NoMove}
			}
			// else: fall through to mate/stalemate detection below.
		}
		if n.InCheck() {
			return Result{LeafType: CHECKMATE, Score: -(board.MaxScore - board.Score(n.Ply())), Best: board.NoMove}
		}
		return Result{LeafType: STALEMATE, Score: 0, Best: board.NoMove}
	}

	nodeType := ALL
	if alpha > origAlpha {
		nodeType = PV
	}
	s.store(hash, Entry{Score: alpha, Depth: n.Remaining(), NodeType: nodeType, Best: best})
	leaf := CUTOFF
	if best != board.NoMove && alpha.IsMate() {
		leaf = CHECKMATE
	}
	return Result{LeafType: leaf, Score: alpha, Best: best}
}

func (s *Searcher) store(hash board.ZobristHash, e Entry) {
	if s.stop.Load() {
		return
	}
	s.TT.Store(hash, e)
}
