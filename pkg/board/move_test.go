package board_test

import (
	"testing"

	"github.com/kestrelchess/kestrel/pkg/board"
	"github.com/stretchr/testify/assert"
)

func TestMoveTypeBits(t *testing.T) {
	tests := []struct {
		t               board.MoveType
		capture, promo  bool
		irreversible    bool
	}{
		{board.Normal, false, false, false},
		{board.Castle, false, false, true},
		{board.SinglePush, false, false, true},
		{board.DoublePush, false, false, true},
		{board.PromoKnight, false, true, true},
		{board.PromoQueen, false, true, true},
		{board.Capture, true, false, true},
		{board.CaptureEP, true, false, true},
		{board.PromoCaptureKnight, true, true, true},
		{board.PromoCaptureQueen, true, true, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.capture, tt.t.IsCapture(), "IsCapture(%v)", tt.t)
		assert.Equal(t, tt.promo, tt.t.IsPromotion(), "IsPromotion(%v)", tt.t)
		assert.Equal(t, tt.irreversible, tt.t.IsIrreversible(), "IsIrreversible(%v)", tt.t)
	}
}

func TestMoveTypePromotedPiece(t *testing.T) {
	tests := []struct {
		t        board.MoveType
		expected board.Piece
	}{
		{board.PromoKnight, board.Knight},
		{board.PromoBishop, board.Bishop},
		{board.PromoRook, board.Rook},
		{board.PromoQueen, board.Queen},
		{board.PromoCaptureKnight, board.Knight},
		{board.PromoCaptureBishop, board.Bishop},
		{board.PromoCaptureRook, board.Rook},
		{board.PromoCaptureQueen, board.Queen},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.t.PromotedPiece())
	}
}

func TestMovePacking(t *testing.T) {
	m := board.NewMove(board.E2, board.E4, board.DoublePush)
	assert.Equal(t, board.E2, m.From())
	assert.Equal(t, board.E4, m.To())
	assert.Equal(t, board.DoublePush, m.Type())
	assert.True(t, m.IsDoublePush())
	assert.False(t, m.IsCapture())

	promo := board.NewMove(board.A7, board.A8, board.PromoQueen)
	assert.True(t, promo.IsPromotion())
	assert.Equal(t, board.Queen, promo.Type().PromotedPiece())
	assert.Equal(t, "a7a8q", promo.String())

	assert.Equal(t, "0000", board.NoMove.String())
}

func TestMoveIsPawnMove(t *testing.T) {
	assert.True(t, board.NewMove(board.E2, board.E4, board.DoublePush).IsPawnMove())
	assert.True(t, board.NewMove(board.E2, board.E3, board.SinglePush).IsPawnMove())
	assert.True(t, board.NewMove(board.A7, board.A8, board.PromoQueen).IsPawnMove())
	assert.True(t, board.NewMove(board.D5, board.E6, board.CaptureEP).IsPawnMove())
	assert.False(t, board.NewMove(board.E2, board.E4, board.Normal).IsPawnMove())
}
