package eval_test

import (
	"testing"

	"github.com/kestrelchess/kestrel/pkg/board"
	"github.com/kestrelchess/kestrel/pkg/eval"
	"github.com/kestrelchess/kestrel/pkg/fen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNominalValue(t *testing.T) {
	assert.Equal(t, board.Score(100), eval.NominalValue(board.Pawn))
	assert.Equal(t, board.Score(300), eval.NominalValue(board.Knight))
	assert.Equal(t, board.Score(300), eval.NominalValue(board.Bishop))
	assert.Equal(t, board.Score(500), eval.NominalValue(board.Rook))
	assert.Equal(t, board.Score(900), eval.NominalValue(board.Queen))
	assert.Equal(t, board.Score(0), eval.NominalValue(board.King))
}

func TestMaterialScenario(t *testing.T) {
	pos, _, _, _, err := fen.Decode("q7/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1")
	require.NoError(t, err)

	m := eval.NewMaterial(pos)
	assert.Equal(t, board.Score(-900), m.Score())
}

func TestMaterialIncrementalMatchesFreshRecompute(t *testing.T) {
	pos, _, _, _, err := fen.Decode(fen.Initial)
	require.NoError(t, err)

	m := eval.NewMaterial(pos)
	assert.Equal(t, board.Score(0), m.Score(), "the starting position is materially balanced")

	pos.RemovePiece(board.D1, board.ColouredPiece{Color: board.White, Piece: board.Queen})
	after := eval.NewMaterial(pos)
	assert.Equal(t, board.Score(-900), after.Score())

	m.RemovePiece(board.D1, board.ColouredPiece{Color: board.White, Piece: board.Queen})
	assert.Equal(t, after.Score(), m.Score())
}

func TestMaterialSwapSameSideIsPromotion(t *testing.T) {
	m := &eval.Material{}
	m.AddPiece(board.A7, board.ColouredPiece{Color: board.White, Piece: board.Pawn})
	assert.Equal(t, board.Score(100), m.Score())

	m.SwapSameSide(board.A7, board.White, board.Pawn, board.Queen)
	assert.Equal(t, board.Score(900), m.Score())
}

func TestMaterialSwapOppSideIsCapturePromotion(t *testing.T) {
	m := &eval.Material{}
	m.AddPiece(board.B8, board.ColouredPiece{Color: board.Black, Piece: board.Rook})
	assert.Equal(t, board.Score(-500), m.Score())

	m.SwapOppSide(board.B8, board.White, board.Rook, board.Queen)
	assert.Equal(t, board.Score(900), m.Score(), "white's new queen minus the captured black rook's removal")
}
