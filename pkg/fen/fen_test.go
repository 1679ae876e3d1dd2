package fen_test

import (
	"testing"

	"github.com/kestrelchess/kestrel/pkg/board"
	"github.com/kestrelchess/kestrel/pkg/fen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEncodeRoundTrip(t *testing.T) {
	tests := []string{
		fen.Initial,
		"4k3/2pppp2/8/4P1K1/4PP2/3P4/8/8 w - - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/5P2/PPPPP1PP/RNBQKBNR w KQkq - 0 1",
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 1",
	}

	for _, tt := range tests {
		pos, turn, halfmove, fullmove, err := fen.Decode(tt)
		require.NoError(t, err)

		assert.Equal(t, tt, fen.Encode(pos, turn, halfmove, fullmove))
	}
}

func TestDecodeRejectsMalformedFEN(t *testing.T) {
	tests := []string{
		"",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq z3 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - -1 1",
		"4k3/8/8/8/8/8/8/8 w - - 0 1",
	}

	for _, tt := range tests {
		_, _, _, _, err := fen.Decode(tt)
		assert.Error(t, err, "expected an error decoding %q", tt)
	}
}

func TestDecodePreservesGameState(t *testing.T) {
	pos, turn, halfmove, fullmove, err := fen.Decode("4k3/8/8/3pP3/8/8/8/4K3 w - d6 17 42")
	require.NoError(t, err)

	assert.Equal(t, board.White, turn)
	assert.Equal(t, 17, halfmove)
	assert.Equal(t, 42, fullmove)
	assert.Equal(t, board.D6, pos.EnPassant())
}
