package chess

import (
	"encoding/json"
	"testing"
)

func TestReserve(t *testing.T) {
	r := NewReserve()
	if r.Has(White) || r.Has(Black) {
		t.Fatalf("new reserve is not empty")
	}
	r.Add(White, Queen)
	r.Add(White, Knight)
	r.Add(Black, Pawn)
	r.Add(Black, Pawn)
	r.Add(Black, King)

	if got := r.String(); got != "QNpp" {
		t.Fatalf("String() = %q, want QNpp", got)
	}
	if got := r.Kinds(White); len(got) != 2 || got[0] != Queen || got[1] != Knight {
		t.Fatalf("white kinds = %v", got)
	}
	if r.Count(Black, King) != 0 {
		t.Fatalf("kings are never pocketed")
	}

	if !r.Take(Black, Pawn) || r.Count(Black, Pawn) != 1 {
		t.Fatalf("take pawn: count = %d", r.Count(Black, Pawn))
	}
	if r.Take(Black, Rook) {
		t.Fatalf("took a rook that was never there")
	}

	cp := r.Clone()
	cp.Add(White, Rook)
	if r.Count(White, Rook) != 0 {
		t.Fatalf("clone shares counts")
	}
	if (*Reserve)(nil).Clone() != nil {
		t.Fatalf("nil clone")
	}
}

func TestReserveJSON(t *testing.T) {
	r := NewReserve()
	r.Add(White, Bishop)
	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got map[string]map[string]int
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got["white"]["bishop"] != 1 || got["black"]["queen"] != 0 || len(got["black"]) != 5 {
		t.Fatalf("json = %s", data)
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
	}{
		{"q", Queen},
		{"Queen", Queen},
		{"N", Knight},
		{"knight", Knight},
		{"p", Pawn},
		{"K", King},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKind(tt.in)
			if err != nil || got != tt.want {
				t.Fatalf("ParseKind(%q) = %s, %v", tt.in, got, err)
			}
		})
	}
	if _, err := ParseKind("x"); err == nil {
		t.Fatalf("x parsed")
	}
}

func TestPieceFEN(t *testing.T) {
	if b := NewPiece(Knight, White).FEN(); b != 'N' {
		t.Fatalf("white knight = %c", b)
	}
	if b := NewPiece(Queen, Black).FEN(); b != 'q' {
		t.Fatalf("black queen = %c", b)
	}
	if p := NewPiece(Rook, Black).Points(); p != -50 {
		t.Fatalf("black rook points = %d", p)
	}
}

func TestColorText(t *testing.T) {
	var c Color
	if err := c.UnmarshalText([]byte("b")); err != nil || c != Black {
		t.Fatalf("unmarshal b = %s, %v", c, err)
	}
	if err := c.UnmarshalText([]byte("green")); err == nil {
		t.Fatalf("green parsed")
	}
	if White.Opposite() != Black || Black.Forward() != 1 || White.HomeRow() != 7 {
		t.Fatalf("color helpers")
	}
}
