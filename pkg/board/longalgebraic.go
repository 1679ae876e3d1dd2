package board

import "fmt"

// FormatUCI renders fm in UCI wire format: king start-to-final squares for
// castling (e.g. "e1g1"), not the internal rook-to-king-home encoding.
func FormatUCI(fm FatMove, c Color) string {
	if fm.Move.IsCastle() {
		kingHome, kingDest := castleKingSquares(c, fm.Piece == Queen)
		return kingHome.String() + kingDest.String()
	}
	return fm.Move.String()
}

// castleKingSquares returns the king's home and destination squares for a
// castle on the given side (queenside if q, else kingside).
func castleKingSquares(c Color, q bool) (home, dest Square) {
	home = E1
	if c == Black {
		home = E8
	}
	if q {
		return home, home - 2
	}
	return home, home + 2
}

// ParseUCI parses a wire-format long-algebraic move (e.g. "e2e4", "e7e8q",
// "e1g1") against pos, classifying its MoveType per the current position:
// pawn pushes/captures/en-passant/promotions by piece and geometry,
// castling by king-home-to-castling-target, everything else by whether
// the destination is occupied by the opponent.
func ParseUCI(s string, pos *AugmentedPosition) (FatMove, error) {
	if len(s) < 4 || len(s) > 5 {
		return FatMove{}, fmt.Errorf("invalid move: %q", s)
	}
	from, err := ParseSquare(s[0:2])
	if err != nil {
		return FatMove{}, err
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return FatMove{}, err
	}

	cp := pos.PieceAt(from)
	if cp.Piece == NoPiece {
		return FatMove{}, fmt.Errorf("no piece on %v", from)
	}
	c := cp.Color

	if cp.Piece == King {
		kingHome := E1
		if c == Black {
			kingHome = E8
		}
		if from == kingHome {
			if qHome, qDest := castleKingSquares(c, true); from == qHome && to == qDest {
				rook := A1
				if c == Black {
					rook = A8
				}
				return FatMove{Move: NewMove(rook, kingHome, Castle), Piece: Queen}, nil
			}
			if kHome, kDest := castleKingSquares(c, false); from == kHome && to == kDest {
				rook := H1
				if c == Black {
					rook = H8
				}
				return FatMove{Move: NewMove(rook, kingHome, Castle), Piece: King}, nil
			}
		}
	}

	target := pos.PieceAt(to)

	if cp.Piece == Pawn && from.File() == to.File() {
		t := SinglePush
		if abs8(int8(to)-int8(from)) == 16 {
			t = DoublePush
		}
		if len(s) == 5 {
			t = promoTypeFor(s[4], false)
		}
		return FatMove{Move: NewMove(from, to, t), Piece: Pawn}, nil
	}

	if cp.Piece == Pawn && from.File() != to.File() {
		if target.Piece == NoPiece {
			if len(s) == 5 {
				return FatMove{Move: NewMove(from, to, promoTypeFor(s[4], true)), Piece: Pawn, Captured: NoPiece}, nil
			}
			return FatMove{Move: NewMove(from, to, CaptureEP), Piece: Pawn, Captured: Pawn}, nil
		}
		if len(s) == 5 {
			return FatMove{Move: NewMove(from, to, promoTypeFor(s[4], true)), Piece: Pawn, Captured: target.Piece}, nil
		}
		return FatMove{Move: NewMove(from, to, Capture), Piece: Pawn, Captured: target.Piece}, nil
	}

	if target.Piece != NoPiece {
		return FatMove{Move: NewMove(from, to, Capture), Piece: cp.Piece, Captured: target.Piece}, nil
	}
	return FatMove{Move: NewMove(from, to, Normal), Piece: cp.Piece}, nil
}

func promoTypeFor(r byte, capture bool) MoveType {
	var idx MoveType
	switch r {
	case 'n':
		idx = 0
	case 'b':
		idx = 1
	case 'r':
		idx = 2
	case 'q':
		idx = 3
	}
	base := PromoKnight
	if capture {
		base = PromoCaptureKnight
	}
	return base + idx
}

func abs8(v int8) int8 {
	if v < 0 {
		return -v
	}
	return v
}
