// Package fen reads and writes chess positions in Forsyth-Edwards
// Notation, the six-field wire format the UCI `position fen ...` command
// carries.
package fen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kestrelchess/kestrel/pkg/board"
)

// Initial is the FEN of the standard starting position.
const Initial = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Decode parses a six-field FEN string into a position and its game-state
// metadata: side to move, halfmove clock, and fullmove number.
func Decode(s string) (*board.AugmentedPosition, board.Color, int, int, error) {
	fields := strings.Fields(s)
	if len(fields) != 6 {
		return nil, 0, 0, 0, fmt.Errorf("invalid number of fields in FEN %q", s)
	}

	placements, err := decodePlacement(fields[0])
	if err != nil {
		return nil, 0, 0, 0, fmt.Errorf("invalid FEN %q: %w", s, err)
	}

	turn, err := decodeColor(fields[1])
	if err != nil {
		return nil, 0, 0, 0, fmt.Errorf("invalid FEN %q: %w", s, err)
	}

	castling := board.ParseCastling(fields[2])

	ep := board.NoSquare
	if fields[3] != "-" {
		sq, err := board.ParseSquare(fields[3])
		if err != nil {
			return nil, 0, 0, 0, fmt.Errorf("invalid FEN %q: invalid en passant field: %w", s, err)
		}
		ep = sq
	}

	halfmove, err := strconv.Atoi(fields[4])
	if err != nil || halfmove < 0 {
		return nil, 0, 0, 0, fmt.Errorf("invalid FEN %q: invalid halfmove clock %q", s, fields[4])
	}

	fullmove, err := strconv.Atoi(fields[5])
	if err != nil || fullmove < 1 {
		return nil, 0, 0, 0, fmt.Errorf("invalid FEN %q: invalid fullmove number %q", s, fields[5])
	}

	pos, err := board.NewAugmentedPosition(placements, turn, castling, ep, halfmove, fullmove)
	if err != nil {
		return nil, 0, 0, 0, fmt.Errorf("invalid FEN %q: %w", s, err)
	}
	return pos, turn, halfmove, fullmove, nil
}

func decodePlacement(field string) ([]board.Placement, error) {
	ranks := strings.Split(field, "/")
	if len(ranks) != 8 {
		return nil, fmt.Errorf("expected 8 ranks, got %d", len(ranks))
	}

	var placements []board.Placement
	for i, rankStr := range ranks {
		r := board.Rank8 - board.Rank(i)
		f := board.FileA
		for _, c := range rankStr {
			if c >= '1' && c <= '8' {
				f += board.File(c - '0')
				continue
			}
			color, piece, ok := board.ParsePiece(c)
			if !ok {
				return nil, fmt.Errorf("invalid piece letter %q", c)
			}
			if f > board.FileH {
				return nil, fmt.Errorf("too many squares in rank %q", rankStr)
			}
			placements = append(placements, board.Placement{Square: board.NewSquare(f, r), Color: color, Piece: piece})
			f++
		}
		if f != board.FileH+1 {
			return nil, fmt.Errorf("wrong number of squares in rank %q", rankStr)
		}
	}
	return placements, nil
}

func decodeColor(field string) (board.Color, error) {
	switch field {
	case "w":
		return board.White, nil
	case "b":
		return board.Black, nil
	default:
		return 0, fmt.Errorf("invalid active color %q", field)
	}
}

// Encode renders pos and its game-state metadata as a six-field FEN
// string, the inverse of Decode.
func Encode(pos *board.AugmentedPosition, turn board.Color, halfmove, fullmove int) string {
	var sb strings.Builder
	for r := board.Rank8; r >= board.Rank1; r-- {
		blanks := 0
		for f := board.FileA; f <= board.FileH; f++ {
			sq := board.NewSquare(f, r)
			cp := pos.PieceAt(sq)
			if cp.Piece == board.NoPiece {
				blanks++
				continue
			}
			if blanks > 0 {
				sb.WriteString(strconv.Itoa(blanks))
				blanks = 0
			}
			sb.WriteString(cp.String())
		}
		if blanks > 0 {
			sb.WriteString(strconv.Itoa(blanks))
		}
		if r != board.Rank1 {
			sb.WriteByte('/')
		}
	}

	turnField := "w"
	if turn == board.Black {
		turnField = "b"
	}

	ep := "-"
	if pos.EnPassant() != board.NoSquare {
		ep = pos.EnPassant().String()
	}

	return fmt.Sprintf("%v %v %v %v %v %v", sb.String(), turnField, pos.Castling(), ep, halfmove, fullmove)
}
