package searchnode_test

import (
	"testing"

	"github.com/kestrelchess/kestrel/pkg/board"
	"github.com/kestrelchess/kestrel/pkg/fen"
	"github.com/kestrelchess/kestrel/pkg/searchnode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// snapshot captures everything make/unmake is required to restore
// bit-for-bit.
type snapshot struct {
	fen      string
	hash     board.ZobristHash
	eval     board.Score
	occ      board.Bitboard
	occWhite board.Bitboard
	occBlack board.Bitboard
}

func takeSnapshot(t *testing.T, n *searchnode.Node) snapshot {
	t.Helper()
	p := n.Position()
	return snapshot{
		fen:      fen.Encode(p, p.Turn(), p.HalfMoveClock(), p.FullMoveNumber()),
		hash:     n.Hash(),
		eval:     n.Eval(),
		occ:      p.Occupancy(),
		occWhite: p.OccupancyOf(board.White),
		occBlack: p.OccupancyOf(board.Black),
	}
}

// everyPseudoLegalMove exercises every move generated (not just legal
// ones) since MakeMove/UnmakeMove must round-trip regardless of legality.
func everyPseudoLegalMove(n *searchnode.Node) []board.FatMove {
	buf := n.FindMoves(true)
	out := make([]board.FatMove, buf.Len())
	copy(out, buf.Slice())
	return out
}

func assertRoundTrips(t *testing.T, position string) {
	t.Helper()
	pos, _, _, _, err := fen.Decode(position)
	require.NoError(t, err)

	n := searchnode.New(pos)
	n.PrepSearch(1)

	before := takeSnapshot(t, n)
	for _, fm := range everyPseudoLegalMove(n) {
		n.MakeMove(fm)
		n.UnmakeMove()

		after := takeSnapshot(t, n)
		assert.Equal(t, before, after, "make/unmake of %v must restore %v bit-for-bit", fm, position)
	}
}

func TestMakeUnmakeRoundTrip(t *testing.T) {
	positions := []string{
		fen.Initial,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 1",
		"r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1",
	}
	for _, p := range positions {
		assertRoundTrips(t, p)
	}
}

func TestHashMatchesFreshRecompute(t *testing.T) {
	pos, _, _, _, err := fen.Decode("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	require.NoError(t, err)

	n := searchnode.New(pos)
	n.PrepSearch(3)

	for _, fm := range everyPseudoLegalMove(n) {
		if !n.MakeMove(fm) {
			n.UnmakeMove()
			continue
		}
		fresh := searchnode.New(n.Position())
		assert.Equal(t, fresh.Hash(), n.Hash(), "incremental hash must equal a from-scratch recompute after %v", fm)
		n.UnmakeMove()
	}
}

func TestCastlingRightsLostOnKingMove(t *testing.T) {
	pos, _, _, _, err := fen.Decode("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	require.NoError(t, err)

	n := searchnode.New(pos)
	n.PrepSearch(1)

	// King move strips both of the mover's rights.
	ok := n.MakeMove(board.FatMove{Move: board.NewMove(board.E1, board.D1, board.Normal), Piece: board.King})
	require.True(t, ok)
	assert.False(t, n.Position().Castling().Has(board.WhiteKingside))
	assert.False(t, n.Position().Castling().Has(board.WhiteQueenside))
	assert.True(t, n.Position().Castling().Has(board.BlackKingside))
	assert.True(t, n.Position().Castling().Has(board.BlackQueenside))
	n.UnmakeMove()
	assert.True(t, n.Position().Castling().Has(board.WhiteKingside))
	assert.True(t, n.Position().Castling().Has(board.WhiteQueenside))
}

func TestCapturingRookOnHomeSquareStripsItsRights(t *testing.T) {
	// White bishop on e4, on the a8-h1 diagonal, can capture the black
	// rook sitting on its queenside home square a8, which must strip the
	// corresponding right even though no rook of black's ever moved.
	pos, _, _, _, err := fen.Decode("r3k2r/8/8/8/4B3/8/8/4K3 w kq - 0 1")
	require.NoError(t, err)

	n := searchnode.New(pos)
	n.PrepSearch(1)

	ok := n.MakeMove(board.FatMove{Move: board.NewMove(board.E4, board.A8, board.Capture), Piece: board.Bishop, Captured: board.Rook})
	require.True(t, ok)
	assert.False(t, n.Position().Castling().Has(board.BlackQueenside), "capturing the a8 rook must strip black's queenside rights")
	assert.True(t, n.Position().Castling().Has(board.BlackKingside), "black's kingside rights are untouched")

	n.UnmakeMove()
	assert.True(t, n.Position().Castling().Has(board.BlackQueenside), "unmake must restore the stripped rights")
}

func TestEnPassantCaptureRestoresCapturedPawnOnUnmake(t *testing.T) {
	pos, _, _, _, err := fen.Decode("4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 1")
	require.NoError(t, err)

	n := searchnode.New(pos)
	n.PrepSearch(1)

	before := n.Position().PieceAt(board.D5)
	require.Equal(t, board.Pawn, before.Piece)

	ok := n.MakeMove(board.FatMove{Move: board.NewMove(board.E5, board.D6, board.CaptureEP), Piece: board.Pawn, Captured: board.Pawn})
	require.True(t, ok)
	assert.True(t, n.Position().IsEmpty(board.D5), "the captured pawn must be removed from d5, not d6")
	assert.True(t, n.Position().IsEmpty(board.E5))
	assert.Equal(t, board.Pawn, n.Position().PieceAt(board.D6).Piece)

	n.UnmakeMove()
	assert.Equal(t, before, n.Position().PieceAt(board.D5), "unmake must restore the captured pawn on its original square")
	assert.Equal(t, board.Pawn, n.Position().PieceAt(board.E5).Piece)
	assert.True(t, n.Position().IsEmpty(board.D6))
}

// assertOccupancyConsistent checks that the derived occupancy bitboards
// agree with the twelve piece bitboards, which a capture can silently
// break if the combined occupancy is cleared for a square the mover has
// already landed on.
func assertOccupancyConsistent(t *testing.T, p *board.AugmentedPosition) {
	t.Helper()
	var union board.Bitboard
	for c := board.ZeroColor; c < board.NumColors; c++ {
		var side board.Bitboard
		for pc := board.ZeroPiece; pc < board.NumPieces; pc++ {
			side |= p.PieceBitboard(c, pc)
		}
		assert.Equal(t, side, p.OccupancyOf(c))
		union |= side
	}
	assert.Equal(t, union, p.Occupancy())
	assert.Equal(t, board.Empty, p.OccupancyOf(board.White)&p.OccupancyOf(board.Black))
}

func TestOccupancyStaysConsistentThroughEveryMake(t *testing.T) {
	positions := []string{
		fen.Initial,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 1",
		"r3k3/1P6/8/8/8/8/8/4K3 w - - 0 1",
	}
	for _, position := range positions {
		pos, _, _, _, err := fen.Decode(position)
		require.NoError(t, err)

		n := searchnode.New(pos)
		n.PrepSearch(1)

		for _, fm := range everyPseudoLegalMove(n) {
			n.MakeMove(fm)
			assertOccupancyConsistent(t, n.Position())
			n.UnmakeMove()
			assertOccupancyConsistent(t, n.Position())
		}
	}
}

func TestIllegalMoveLeavingKingInCheckIsReportedAndStillReversible(t *testing.T) {
	// The knight on e2 is pinned to the king on e1 by the rook on e8;
	// jumping it off the e-file exposes the king to check.
	pos, _, _, _, err := fen.Decode("k3r3/8/8/8/8/8/4N3/4K3 w - - 0 1")
	require.NoError(t, err)

	n := searchnode.New(pos)
	n.PrepSearch(1)

	before := takeSnapshot(t, n)
	legal := n.MakeMove(board.FatMove{Move: board.NewMove(board.E2, board.F4, board.Normal), Piece: board.Knight})
	assert.False(t, legal, "jumping the pinned knight off the e-file must expose the king to the rook on e8")
	n.UnmakeMove()
	assert.Equal(t, before, takeSnapshot(t, n))
}
