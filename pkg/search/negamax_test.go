package search_test

import (
	"testing"
	"time"

	"github.com/kestrelchess/kestrel/pkg/board"
	"github.com/kestrelchess/kestrel/pkg/fen"
	"github.com/kestrelchess/kestrel/pkg/search"
	"github.com/kestrelchess/kestrel/pkg/searchnode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
)

// perft counts leaf positions reached by only legal moves, the standard
// move-generation correctness benchmark.
func perft(n *searchnode.Node, depth int) int64 {
	if depth == 0 {
		return 1
	}
	buf := n.FindMoves(true)
	var nodes int64
	for i := 0; i < buf.Len(); i++ {
		fm := buf.At(i)
		if !n.MakeMove(fm) {
			n.UnmakeMove()
			continue
		}
		nodes += perft(n, depth-1)
		n.UnmakeMove()
	}
	return nodes
}

func TestPerftStartingPosition(t *testing.T) {
	pos, _, _, _, err := fen.Decode(fen.Initial)
	require.NoError(t, err)

	expected := []int64{1, 20, 400, 8902}
	for depth, want := range expected {
		n := searchnode.New(pos)
		n.PrepSearch(depth)
		assert.Equal(t, want, perft(n, depth), "perft(%d) from starting position", depth)
	}
}

func TestPerftKiwipete(t *testing.T) {
	pos, _, _, _, err := fen.Decode("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	require.NoError(t, err)

	expected := []int64{1, 48, 2039}
	for depth, want := range expected {
		n := searchnode.New(pos)
		n.PrepSearch(depth)
		assert.Equal(t, want, perft(n, depth), "perft(%d) from kiwipete", depth)
	}
}

func TestPerftEndgamePosition3(t *testing.T) {
	pos, _, _, _, err := fen.Decode("8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1")
	require.NoError(t, err)

	expected := []int64{1, 14, 191, 2812}
	for depth, want := range expected {
		n := searchnode.New(pos)
		n.PrepSearch(depth)
		assert.Equal(t, want, perft(n, depth), "perft(%d) from endgame position 3", depth)
	}
}

func TestNegamaxFindsForcedMate(t *testing.T) {
	// Classic ladder mate: Rg6-g8 checks along the 8th rank while Rh7
	// already denies the king the entire 7th rank, leaving no escape.
	pos, _, _, _, err := fen.Decode("k7/7R/6R1/8/8/8/8/7K w - - 0 1")
	require.NoError(t, err)

	n := searchnode.New(pos)
	n.PrepSearch(2)

	s := search.NewSearcher(n, search.NoTable{}, search.Config{})
	r := s.Search(time.Time{}, atomic.NewBool(false), 2)

	assert.Equal(t, search.CHECKMATE, r.LeafType)
	assert.True(t, r.Score.IsMate())
	assert.Equal(t, board.NewMove(board.G6, board.G8, board.Normal), r.Best)
}

// TestOrderingAndHashMoveDoNotChangeTheScore exercises the invariant that
// alpha-beta over a full window is exact regardless of move order: with
// quiescence disabled on both sides (so the comparison isn't also
// crossing a horizon extension), enabling ordering, a transposition table
// and hash-move promotion must not change the depth-d score.
func TestOrderingAndHashMoveDoNotChangeTheScore(t *testing.T) {
	positions := []struct {
		fen   string
		depth int
	}{
		{fen.Initial, 3},
		{"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", 3},
		{"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1", 3},
	}

	for _, tt := range positions {
		pos, _, _, _, err := fen.Decode(tt.fen)
		require.NoError(t, err)

		plain := searchnode.New(pos)
		plain.PrepSearch(tt.depth)
		plainSearch := search.NewSearcher(plain, search.NoTable{}, search.Config{})
		plainResult := plainSearch.Search(time.Time{}, atomic.NewBool(false), tt.depth)

		ordered := searchnode.New(pos)
		ordered.PrepSearch(tt.depth)
		orderedSearch := search.NewSearcher(ordered, search.NewTable(1<<16), search.Config{Ordering: true})
		orderedResult := orderedSearch.Search(time.Time{}, atomic.NewBool(false), tt.depth)

		assert.Equal(t, plainResult.Score, orderedResult.Score, "%v at depth %d", tt.fen, tt.depth)
	}
}

func TestMaterialEvaluationScenario(t *testing.T) {
	pos, _, _, _, err := fen.Decode("q7/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1")
	require.NoError(t, err)

	n := searchnode.New(pos)
	assert.Equal(t, board.Score(-900), n.Eval())
}
