package engine

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/benbeisheim/housechess-backend/internal/chess"
)

func TestApplyRevertRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		pieces  []string
		move    func(t *testing.T) chess.Move
		reserve func(r *chess.Reserve) // expected change while applied
	}{
		{
			name:   "quiet",
			pieces: []string{"Ke1", "Pe2", "ke8"},
			move:   func(t *testing.T) chess.Move { return move(t, "e2", "e4") },
		},
		{
			name:    "capture",
			pieces:  []string{"Ke1", "Bc4", "pf7", "ke8"},
			move:    func(t *testing.T) chess.Move { return move(t, "c4", "f7") },
			reserve: func(r *chess.Reserve) { r.Add(chess.White, chess.Pawn) },
		},
		{
			name:   "castle",
			pieces: []string{"Ke1", "Ra1", "Rh1", "ke8"},
			move:   func(t *testing.T) chess.Move { return move(t, "e1", "c1") },
		},
		{
			name:   "capture promotion",
			pieces: []string{"Ke1", "Pa7", "rb8", "kh8"},
			move: func(t *testing.T) chess.Move {
				m := move(t, "a7", "b8")
				m.Promotion = chess.Knight
				return m
			},
			reserve: func(r *chess.Reserve) { r.Add(chess.White, chess.Rook) },
		},
		{
			name:   "drop",
			pieces: []string{"Ke1", "ke8"},
			move: func(t *testing.T) chess.Move {
				return chess.NewDrop(chess.Black, chess.Queen, mustSquare(t, "d4"))
			},
			reserve: func(r *chess.Reserve) { r.Take(chess.Black, chess.Queen) },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := place(t, tt.pieces...)
			r := chess.NewReserve()
			r.Add(chess.Black, chess.Queen)
			boardBefore, reserveBefore := b.Clone(), r.Clone()

			wantApplied := r.Clone()
			if tt.reserve != nil {
				tt.reserve(wantApplied)
			}

			undo := b.Apply(tt.move(t), r)
			if b.Equal(boardBefore) {
				t.Fatalf("move did not change the board")
			}
			if *r != *wantApplied {
				t.Fatalf("reserve while applied = %s, want %s", r, wantApplied)
			}

			undo.Revert()
			if !b.Equal(boardBefore) {
				t.Fatalf("board not restored:\n%s\nwant\n%s", b, boardBefore)
			}
			if *r != *reserveBefore {
				t.Fatalf("reserve = %s, want %s", r, reserveBefore)
			}

			undo.Revert()
			if !b.Equal(boardBefore) || *r != *reserveBefore {
				t.Fatalf("second revert changed state")
			}
		})
	}
}

func TestApplyCastleMovesRook(t *testing.T) {
	b := place(t, "Ke1", "Rh1", "ke8")
	b.Apply(move(t, "e1", "g1"), nil)
	rook := b.At(mustSquare(t, "f1"))
	if rook == nil || rook.Kind != chess.Rook || !rook.HasMoved {
		t.Fatalf("f1 = %v", rook)
	}
	if !b.Empty(mustSquare(t, "h1")) {
		t.Fatalf("h1 still occupied")
	}
	if king := b.At(mustSquare(t, "g1")); !king.HasMoved {
		t.Fatalf("king not marked moved")
	}
}

func TestPlay(t *testing.T) {
	t.Run("illegal", func(t *testing.T) {
		b := chess.StandardBoard()
		before := b.Clone()
		_, err := Play(b, move(t, "e2", "e5"), nil, nil)
		if !errors.Is(err, ErrIllegalMove) {
			t.Fatalf("err = %v, want ErrIllegalMove", err)
		}
		if !b.Equal(before) {
			t.Fatalf("illegal move changed the board")
		}
	})

	t.Run("pawn marked moved", func(t *testing.T) {
		b := chess.StandardBoard()
		if _, err := Play(b, move(t, "e2", "e4"), nil, nil); err != nil {
			t.Fatalf("play: %v", err)
		}
		if p := b.At(mustSquare(t, "e4")); p == nil || !p.HasMoved {
			t.Fatalf("e4 = %v", p)
		}
		if IsLegalMove(b, mustSquare(t, "e4"), mustSquare(t, "e6")) {
			t.Fatalf("moved pawn may still double step")
		}
	})

	t.Run("capture credits reserve", func(t *testing.T) {
		b := place(t, "Ke1", "Bc4", "nf7", "ke8")
		r := chess.NewReserve()
		captured, err := Play(b, move(t, "c4", "f7"), r, nil)
		if err != nil {
			t.Fatalf("play: %v", err)
		}
		if captured == nil || captured.Kind != chess.Knight {
			t.Fatalf("captured = %v", captured)
		}
		if r.Count(chess.White, chess.Knight) != 1 || r.Has(chess.Black) {
			t.Fatalf("reserve = %s, want N", r)
		}
	})

	t.Run("castling", func(t *testing.T) {
		b := place(t, "Ke1", "Ra1", "ke8")
		if _, err := Play(b, move(t, "e1", "c1"), nil, nil); err != nil {
			t.Fatalf("play: %v", err)
		}
		if p := b.At(mustSquare(t, "d1")); p == nil || p.Kind != chess.Rook {
			t.Fatalf("d1 = %v", p)
		}
		if !b.Empty(mustSquare(t, "a1")) {
			t.Fatalf("a1 still occupied")
		}
	})

	t.Run("king step next to the rook", func(t *testing.T) {
		b := place(t, "Kf1", "Rh1", "ke8")
		if _, err := Play(b, move(t, "f1", "g1"), nil, nil); err != nil {
			t.Fatalf("play: %v", err)
		}
		if p := b.At(mustSquare(t, "h1")); p == nil || p.Kind != chess.Rook || p.HasMoved {
			t.Fatalf("h1 = %v, want the unmoved rook", p)
		}
		if !b.Empty(mustSquare(t, "f1")) {
			t.Fatalf("f1 = %v, want empty", b.At(mustSquare(t, "f1")))
		}
	})

	t.Run("drop", func(t *testing.T) {
		b := place(t, "Ke1", "ke8")
		r := chess.NewReserve()
		r.Add(chess.White, chess.Rook)
		if _, err := Play(b, chess.NewDrop(chess.White, chess.Rook, mustSquare(t, "d7")), r, nil); err != nil {
			t.Fatalf("play: %v", err)
		}
		if r.Has(chess.White) {
			t.Fatalf("reserve not decremented: %s", r)
		}
	})
}

func TestPromotion(t *testing.T) {
	tests := []struct {
		name      string
		promotion chess.Kind
		promoter  Promoter
		want      chess.Kind
	}{
		{"no promoter", chess.King, nil, chess.Queen},
		{"move names the piece", chess.Knight, nil, chess.Knight},
		{"move overrides promoter", chess.Rook, FixedPromotion(chess.Bishop), chess.Rook},
		{"fixed", chess.King, FixedPromotion(chess.Bishop), chess.Bishop},
		{"prompt", chess.King, PromptPromotion(strings.NewReader("rook\n"), io.Discard), chess.Rook},
		{"prompt retries", chess.King, PromptPromotion(strings.NewReader("xyz\nking\nN\n"), io.Discard), chess.Knight},
		{"prompt exhausted", chess.King, PromptPromotion(strings.NewReader("a\nx\nz\nknight\n"), io.Discard), chess.Queen},
		{"prompt eof", chess.King, PromptPromotion(strings.NewReader(""), io.Discard), chess.Queen},
		{"promoter error", chess.King, PromoterFunc(func(chess.Square, chess.Color) (string, error) {
			return "", io.ErrUnexpectedEOF
		}), chess.Queen},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := place(t, "Ke1", "Pg7", "ka8")
			m := move(t, "g7", "g8")
			m.Promotion = tt.promotion
			if _, err := Play(b, m, nil, tt.promoter); err != nil {
				t.Fatalf("play: %v", err)
			}
			p := b.At(mustSquare(t, "g8"))
			if p.Kind != tt.want || p.Color != chess.White {
				t.Fatalf("g8 = %s, want white %s", p, tt.want)
			}
		})
	}
}

func TestPromptPromotionWritesQuestion(t *testing.T) {
	var out strings.Builder
	p := PromptPromotion(strings.NewReader("q\n"), &out)
	if _, err := p.Promotion(mustSquare(t, "e8"), chess.White); err != nil {
		t.Fatalf("promotion: %v", err)
	}
	if !strings.Contains(out.String(), "e8") {
		t.Fatalf("prompt %q does not name the square", out.String())
	}
}

func TestTryCrazyhouseMove(t *testing.T) {
	// White king on e1 is checked by the rook on e8.
	b := place(t, "Ke1", "Pa2", "re8", "kh8")
	before := b.Clone()
	tests := []struct {
		name string
		kind chess.Kind
		to   string
		want bool
	}{
		{"pawn on last rank", chess.Pawn, "b8", false},
		{"pawn on first rank", chess.Pawn, "b1", false},
		{"occupied", chess.Knight, "a2", false},
		{"occupied by enemy", chess.Queen, "e8", false},
		{"king", chess.King, "e4", false},
		{"ignores check", chess.Knight, "b5", false},
		{"blocks", chess.Knight, "e4", true},
		{"pawn blocks", chess.Pawn, "e2", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TryCrazyhouseMove(b, chess.White, tt.kind, mustSquare(t, tt.to))
			if got != tt.want {
				t.Fatalf("drop %s on %s = %v, want %v", tt.kind, tt.to, got, tt.want)
			}
			if !b.Equal(before) {
				t.Fatalf("probe changed the board")
			}
		})
	}
}

func TestDrop(t *testing.T) {
	b := place(t, "Ke1", "ke8")
	r := chess.NewReserve()

	err := Drop(b, r, chess.White, chess.Pawn, mustSquare(t, "e4"))
	if !errors.Is(err, ErrEmptyReserve) {
		t.Fatalf("err = %v, want ErrEmptyReserve", err)
	}
	if err := Drop(b, nil, chess.White, chess.Pawn, mustSquare(t, "e4")); !errors.Is(err, ErrEmptyReserve) {
		t.Fatalf("nil reserve err = %v", err)
	}

	r.Add(chess.White, chess.Pawn)
	r.Add(chess.White, chess.Pawn)
	if err := Drop(b, r, chess.White, chess.Pawn, mustSquare(t, "e8")); !errors.Is(err, ErrIllegalDrop) {
		t.Fatalf("err = %v, want ErrIllegalDrop", err)
	}
	if r.Count(chess.White, chess.Pawn) != 2 {
		t.Fatalf("failed drop consumed the reserve")
	}

	if err := Drop(b, r, chess.White, chess.Pawn, mustSquare(t, "d2")); err != nil {
		t.Fatalf("drop on d2: %v", err)
	}
	if p := b.At(mustSquare(t, "d2")); p.HasMoved {
		t.Fatalf("pawn dropped on its start row is marked moved")
	}
	if err := Drop(b, r, chess.White, chess.Pawn, mustSquare(t, "d4")); err != nil {
		t.Fatalf("drop on d4: %v", err)
	}
	if p := b.At(mustSquare(t, "d4")); !p.HasMoved {
		t.Fatalf("pawn dropped off its start row may double step")
	}
	if r.Has(chess.White) {
		t.Fatalf("reserve = %s, want empty", r)
	}
}
