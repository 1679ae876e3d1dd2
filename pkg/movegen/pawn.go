package movegen

import (
	"github.com/kestrelchess/kestrel/pkg/attack"
	"github.com/kestrelchess/kestrel/pkg/board"
)

var promoTypes = [4]board.MoveType{board.PromoKnight, board.PromoBishop, board.PromoRook, board.PromoQueen}
var promoCaptureTypes = [4]board.MoveType{board.PromoCaptureKnight, board.PromoCaptureBishop, board.PromoCaptureRook, board.PromoCaptureQueen}

func genPawn(pos *board.AugmentedPosition, buf *board.MoveBuffer, c board.Color, own, opp, occ board.Bitboard, loud, quiet bool) {
	pushDir := board.North
	startRank := board.Rank2
	promoRank := board.Rank8
	if c == board.Black {
		pushDir = board.South
		startRank = board.Rank7
		promoRank = board.Rank1
	}

	pawns := pos.PieceBitboard(c, board.Pawn)
	for pawns != 0 {
		var from board.Square
		from, pawns = pawns.PopLSB()

		single := board.Mask(from).Shift(pushDir)
		singleSq := from + board.Square(pushDir)
		singleEmpty := single&occ == 0

		if singleEmpty {
			if singleSq.Rank() == promoRank {
				if quiet {
					emitPromotions(buf, from, singleSq, board.Pawn, board.NoPiece, promoTypes[:])
				}
			} else if quiet {
				buf.Add(board.FatMove{Move: board.NewMove(from, singleSq, board.SinglePush), Piece: board.Pawn})
			}

			if quiet && from.Rank() == startRank {
				doubleSq := singleSq + board.Square(pushDir)
				if board.Mask(doubleSq)&occ == 0 {
					buf.Add(board.FatMove{Move: board.NewMove(from, doubleSq, board.DoublePush), Piece: board.Pawn})
				}
			}
		}

		if !loud {
			continue
		}
		targets := attack.Pawn[c][from]
		for targets != 0 {
			var to board.Square
			to, targets = targets.PopLSB()
			switch {
			case opp.IsSet(to):
				captured := pos.PieceAt(to).Piece
				if to.Rank() == promoRank {
					emitPromotions(buf, from, to, board.Pawn, captured, promoCaptureTypes[:])
				} else {
					buf.Add(board.FatMove{Move: board.NewMove(from, to, board.Capture), Piece: board.Pawn, Captured: captured})
				}
			case to == pos.EnPassant():
				buf.Add(board.FatMove{Move: board.NewMove(from, to, board.CaptureEP), Piece: board.Pawn, Captured: board.Pawn})
			}
		}
	}
}

func emitPromotions(buf *board.MoveBuffer, from, to board.Square, piece, captured board.Piece, types []board.MoveType) {
	for _, t := range types {
		buf.Add(board.FatMove{Move: board.NewMove(from, to, t), Piece: piece, Captured: captured})
	}
}

// genCastle emits the (at most two) castling moves available to c. Legality
// beyond "rights set and path empty" -- specifically whether the king
// passes through an attacked square -- is checked during make-move, not
// here, per the convention that generation only filters structurally
// impossible moves.
func genCastle(pos *board.AugmentedPosition, buf *board.MoveBuffer, c board.Color, occ board.Bitboard) {
	kingHome := board.E1
	kingsideEmpty := board.Mask(board.F1) | board.Mask(board.G1)
	queensideEmpty := board.Mask(board.B1) | board.Mask(board.C1) | board.Mask(board.D1)
	rookKingside := board.H1
	rookQueenside := board.A1
	if c == board.Black {
		kingHome = board.E8
		kingsideEmpty = board.Mask(board.F8) | board.Mask(board.G8)
		queensideEmpty = board.Mask(board.B8) | board.Mask(board.C8) | board.Mask(board.D8)
		rookKingside = board.H8
		rookQueenside = board.A8
	}

	cr := pos.Castling()
	if cr.Has(board.KingsideRight(c)) && occ&kingsideEmpty == 0 {
		buf.Add(board.FatMove{Move: board.NewMove(rookKingside, kingHome, board.Castle), Piece: board.King})
	}
	if cr.Has(board.QueensideRight(c)) && occ&queensideEmpty == 0 {
		buf.Add(board.FatMove{Move: board.NewMove(rookQueenside, kingHome, board.Castle), Piece: board.Queen})
	}
}
