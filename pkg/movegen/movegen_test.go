package movegen_test

import (
	"testing"

	"github.com/kestrelchess/kestrel/pkg/board"
	"github.com/kestrelchess/kestrel/pkg/fen"
	"github.com/kestrelchess/kestrel/pkg/movegen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartingPositionMoveCounts(t *testing.T) {
	pos, _, _, _, err := fen.Decode(fen.Initial)
	require.NoError(t, err)

	var gen movegen.Generator
	var quiet, loud, all board.MoveBuffer
	gen.QuietMoves(pos, &quiet)
	gen.LoudMoves(pos, &loud)
	gen.AllMoves(pos, &all, true)

	assert.Equal(t, 20, quiet.Len(), "starting position has 20 pseudo-legal quiet moves (16 pawn, 4 knight)")
	assert.Equal(t, 0, loud.Len(), "starting position has no captures")
	assert.Equal(t, 20, all.Len())
}

func TestPushPromotionsAreQuietNotLoud(t *testing.T) {
	// A lone white pawn one step from promoting, with nothing to capture.
	pos, _, _, _, err := fen.Decode("4k3/P7/8/8/8/8/8/4K3 w - - 0 1")
	require.NoError(t, err)

	var gen movegen.Generator
	var quiet, loud board.MoveBuffer
	gen.QuietMoves(pos, &quiet)
	gen.LoudMoves(pos, &loud)

	var promos int
	for i := 0; i < quiet.Len(); i++ {
		fm := quiet.At(i)
		if fm.Move.From() == board.A7 && fm.Move.To() == board.A8 {
			assert.True(t, fm.Move.IsPromotion())
			assert.False(t, fm.Move.IsCapture())
			promos++
		}
	}
	assert.Equal(t, 4, promos, "all four push-promotion pieces must be classified quiet")

	for i := 0; i < loud.Len(); i++ {
		fm := loud.At(i)
		assert.False(t, fm.Move.From() == board.A7 && fm.Move.To() == board.A8, "push promotions must not appear in loud moves")
	}
}

func TestCapturePromotionsAreLoud(t *testing.T) {
	// White pawn on b7 can promote by capturing the rook on a8 or push to b8.
	pos, _, _, _, err := fen.Decode("r3k3/1P6/8/8/8/8/8/4K3 w - - 0 1")
	require.NoError(t, err)

	var gen movegen.Generator
	var loud board.MoveBuffer
	gen.LoudMoves(pos, &loud)

	var captures int
	for i := 0; i < loud.Len(); i++ {
		fm := loud.At(i)
		if fm.Move.From() == board.B7 && fm.Move.To() == board.A8 {
			assert.True(t, fm.Move.IsCapture())
			assert.True(t, fm.Move.IsPromotion())
			captures++
		}
	}
	assert.Equal(t, 4, captures, "all four capture-promotion pieces must be classified loud")
}

func TestEnPassantCaptureGenerated(t *testing.T) {
	// White just played e2-e4; black pawn on d4 may capture en passant.
	pos, _, _, _, err := fen.Decode("4k3/8/8/8/3pP3/8/8/4K3 b - e3 0 1")
	require.NoError(t, err)

	var gen movegen.Generator
	var loud board.MoveBuffer
	gen.LoudMoves(pos, &loud)

	var fm board.FatMove
	var found bool
	for i := 0; i < loud.Len(); i++ {
		cand := loud.At(i)
		if cand.Move.To() == pos.EnPassant() && cand.Move.From() == board.D4 {
			fm = cand
			found = true
		}
	}
	require.True(t, found, "must generate the en passant capture")
	assert.Equal(t, board.CaptureEP, fm.Move.Type())
	assert.Equal(t, board.Pawn, fm.Captured)
}

func TestIsAttackedDetectsEveryPieceClass(t *testing.T) {
	rook, _, _, _, err := fen.Decode("4r3/8/8/8/4k3/8/8/K7 w - - 0 1")
	require.NoError(t, err)
	assert.True(t, movegen.IsAttacked(rook, board.E4, board.White), "rook on e-file must attack e4")

	bishop, _, _, _, err := fen.Decode("b7/8/8/8/4k3/8/8/K7 w - - 0 1")
	require.NoError(t, err)
	assert.True(t, movegen.IsAttacked(bishop, board.E4, board.White), "bishop on the a8-e4 diagonal must attack e4")

	knight, _, _, _, err := fen.Decode("8/8/8/8/4k3/8/3n4/K7 w - - 0 1")
	require.NoError(t, err)
	assert.True(t, movegen.IsAttacked(knight, board.E4, board.White), "knight on d2 must attack e4")

	pawn, _, _, _, err := fen.Decode("8/8/8/3p4/4k3/8/8/K7 w - - 0 1")
	require.NoError(t, err)
	assert.True(t, movegen.IsAttacked(pawn, board.E4, board.White), "black pawn on d5 must attack e4")

	none, _, _, _, err := fen.Decode("8/8/8/8/4k3/8/8/K7 w - - 0 1")
	require.NoError(t, err)
	assert.False(t, movegen.IsAttacked(none, board.E4, board.White))
}

func TestIsChecked(t *testing.T) {
	quiet, _, _, _, err := fen.Decode("4k3/8/8/8/8/8/8/R3K3 w - - 0 1")
	require.NoError(t, err)
	assert.False(t, movegen.IsChecked(quiet, board.White))
	assert.False(t, movegen.IsChecked(quiet, board.Black))

	checked, _, _, _, err := fen.Decode("4k3/8/8/8/8/8/8/4K2R b - - 0 1")
	require.NoError(t, err)
	assert.False(t, movegen.IsChecked(checked, board.White))

	rookCheck, _, _, _, err := fen.Decode("4k3/8/8/8/8/8/8/4K2r w - - 0 1")
	require.NoError(t, err)
	assert.True(t, movegen.IsChecked(rookCheck, board.White), "black rook on the king's file must give check")
}
