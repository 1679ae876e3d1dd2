package search_test

import (
	"testing"

	"github.com/kestrelchess/kestrel/pkg/board"
	"github.com/kestrelchess/kestrel/pkg/fen"
	"github.com/kestrelchess/kestrel/pkg/movegen"
	"github.com/kestrelchess/kestrel/pkg/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderProducesStrictWeakOrder(t *testing.T) {
	pos, _, _, _, err := fen.Decode("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	require.NoError(t, err)

	var gen movegen.Generator
	var buf board.MoveBuffer
	gen.AllMoves(pos, &buf, false)
	require.Greater(t, buf.Len(), 1)

	search.Order(&buf, board.NoMove)
	assert.True(t, search.IsOrdered(&buf, board.NoMove))
}

func TestOrderPromotesHashMoveToFront(t *testing.T) {
	pos, _, _, _, err := fen.Decode(fen.Initial)
	require.NoError(t, err)

	var gen movegen.Generator
	var buf board.MoveBuffer
	gen.AllMoves(pos, &buf, false)
	require.Greater(t, buf.Len(), 0)

	hashMove := buf.At(buf.Len() - 1).Move
	search.Order(&buf, hashMove)
	assert.Equal(t, hashMove, buf.At(0).Move)
}

func TestOrderKeepsCapturesBeforeQuiets(t *testing.T) {
	pos, _, _, _, err := fen.Decode("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	require.NoError(t, err)

	var gen movegen.Generator
	var buf board.MoveBuffer
	gen.AllMoves(pos, &buf, false)
	search.Order(&buf, board.NoMove)

	seenQuiet := false
	for i := 0; i < buf.Len(); i++ {
		m := buf.At(i).Move
		if m.IsCapture() {
			assert.False(t, seenQuiet, "a capture must not follow a quiet move once ordered")
		} else {
			seenQuiet = true
		}
	}
}
