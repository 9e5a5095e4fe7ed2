package engine

import (
	"testing"

	"github.com/benbeisheim/housechess-backend/internal/chess"
)

// place builds a board from entries like "Ke1" (white king on e1) or "qd8"
// (black queen on d8).
func place(t *testing.T, specs ...string) *chess.Board {
	t.Helper()
	b := chess.NewBoard()
	for _, s := range specs {
		if len(s) != 3 {
			t.Fatalf("bad piece spec %q", s)
		}
		kind, err := chess.ParseKind(string(s[0]))
		if err != nil {
			t.Fatalf("bad piece spec %q: %v", s, err)
		}
		color := chess.White
		if s[0] >= 'a' && s[0] <= 'z' {
			color = chess.Black
		}
		sq := mustSquare(t, s[1:])
		if !b.Empty(sq) {
			t.Fatalf("square %s used twice", sq)
		}
		b.Set(sq, chess.NewPiece(kind, color))
	}
	return b
}

func mustSquare(t *testing.T, s string) chess.Square {
	t.Helper()
	sq, err := chess.ParseSquare(s)
	if err != nil {
		t.Fatalf("parse square: %v", err)
	}
	return sq
}

func move(t *testing.T, from, to string) chess.Move {
	t.Helper()
	return chess.Move{From: mustSquare(t, from), To: mustSquare(t, to)}
}

func allSquares() []chess.Square {
	out := make([]chess.Square, 0, chess.Size*chess.Size)
	for r := 0; r < chess.Size; r++ {
		for c := 0; c < chess.Size; c++ {
			out = append(out, chess.Square{Row: r, Col: c})
		}
	}
	return out
}

// midgame is a position with pins, open lines and pieces en prise for both
// sides.
func midgame(t *testing.T) *chess.Board {
	t.Helper()
	b := place(t,
		"Ke1", "Qd1", "Ra1", "Rh1", "Bc4", "Nf3", "Nc3", "Pa2", "Pb2", "Pe4", "Pf2", "Pg2", "Ph2",
		"ke8", "qe7", "ra8", "rh8", "bb4", "nc6", "pa7", "pb7", "pd6", "pf7", "pg7", "ph7",
	)
	return b
}
