// Package eval contains incremental position evaluation, implementing the
// same Incremental contract as the Zobrist hash so the search node can
// keep a running score in lockstep with make/unmake.
package eval

import "github.com/kestrelchess/kestrel/pkg/board"

// NominalValue is the simple material value of a piece in centipawns:
// pawn 100, knight/bishop 300, rook 500, queen 900, king 0 (kings are
// never traded, so their value never enters a material balance).
func NominalValue(p board.Piece) board.Score {
	switch p {
	case board.Pawn:
		return 100
	case board.Knight, board.Bishop:
		return 300
	case board.Rook:
		return 500
	case board.Queen:
		return 900
	default:
		return 0
	}
}

// Material is an Incremental component holding the running material
// balance from White's perspective. The zero value is the balance of an
// empty board (zero), matching ZobristState's zero-value convention.
type Material struct {
	score board.Score
}

var _ board.Incremental = (*Material)(nil)

// NewMaterial computes the material balance of pos from scratch, the
// reference value the incremental balance must always equal.
func NewMaterial(pos *board.AugmentedPosition) *Material {
	m := &Material{}
	for c := board.ZeroColor; c < board.NumColors; c++ {
		for p := board.ZeroPiece; p < board.NumPieces; p++ {
			n := board.Score(pos.PieceBitboard(c, p).PopCount())
			m.add(c, p, n)
		}
	}
	return m
}

// Score returns the material balance, positive favors White.
func (m *Material) Score() board.Score {
	return m.score
}

func (m *Material) add(c board.Color, p board.Piece, n board.Score) {
	v := n * NominalValue(p)
	if c == board.White {
		m.score += v
	} else {
		m.score -= v
	}
}

func (m *Material) AddPiece(sq board.Square, cp board.ColouredPiece) {
	m.add(cp.Color, cp.Piece, 1)
}

func (m *Material) RemovePiece(sq board.Square, cp board.ColouredPiece) {
	m.add(cp.Color, cp.Piece, -1)
}

func (m *Material) MovePiece(from, to board.Square, cp board.ColouredPiece) {
	// Material balance is unaffected by a piece relocating.
}

func (m *Material) SwapSameSide(sq board.Square, c board.Color, from, to board.Piece) {
	m.add(c, from, -1)
	m.add(c, to, 1)
}

func (m *Material) SwapOppSide(sq board.Square, c board.Color, captured, promoted board.Piece) {
	m.add(c.Opponent(), captured, -1)
	m.add(c, promoted, 1)
}

func (m *Material) ToggleCastlingRights(delta board.Castling) {}
func (m *Material) AddEnPassant(sq board.Square)               {}
func (m *Material) RemoveEnPassant(sq board.Square)             {}
func (m *Material) SetSideToMove()                              {}
