package chess

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Size is the number of rows and columns on the board.
const Size = 8

// Square is a 0-indexed (row, col) pair. Row 0 is black's back rank (rank 8),
// row 7 is white's (rank 1).
type Square struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (s Square) InBounds() bool {
	return s.Row >= 0 && s.Row < Size && s.Col >= 0 && s.Col < Size
}

func (s Square) Add(o Offset) Square {
	return Square{Row: s.Row + o.DRow, Col: s.Col + o.DCol}
}

// Delta is the offset that takes s to to.
func (s Square) Delta(to Square) Offset {
	return Offset{DRow: to.Row - s.Row, DCol: to.Col - s.Col}
}

func (s Square) String() string {
	if !s.InBounds() {
		return fmt.Sprintf("(%d,%d)", s.Row, s.Col)
	}
	return fmt.Sprintf("%c%d", 'a'+s.Col, Size-s.Row)
}

// ParseSquare reads algebraic coordinates such as "e4".
func ParseSquare(s string) (Square, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return Square{}, fmt.Errorf("invalid square %q", s)
	}
	return Square{Row: Size - int(s[1]-'0'), Col: int(s[0] - 'a')}, nil
}

// Board is the 8x8 grid of optional pieces. The engine mutates it in place;
// callers own it and must not share one board between concurrent probes.
type Board struct {
	squares [Size][Size]*Piece
}

func NewBoard() *Board {
	return &Board{}
}

// StandardBoard returns the usual starting position.
func StandardBoard() *Board {
	b := NewBoard()
	backRank := [Size]Kind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for col, kind := range backRank {
		b.squares[Black.HomeRow()][col] = NewPiece(kind, Black)
		b.squares[White.HomeRow()][col] = NewPiece(kind, White)
		b.squares[Black.PawnRow()][col] = NewPiece(Pawn, Black)
		b.squares[White.PawnRow()][col] = NewPiece(Pawn, White)
	}
	return b
}

func (b *Board) At(sq Square) *Piece {
	return b.squares[sq.Row][sq.Col]
}

func (b *Board) Set(sq Square, p *Piece) {
	b.squares[sq.Row][sq.Col] = p
}

func (b *Board) Clear(sq Square) {
	b.squares[sq.Row][sq.Col] = nil
}

func (b *Board) Empty(sq Square) bool {
	return b.squares[sq.Row][sq.Col] == nil
}

// Clone deep-copies the board, flags included.
func (b *Board) Clone() *Board {
	out := &Board{}
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if p := b.squares[r][c]; p != nil {
				cp := *p
				out.squares[r][c] = &cp
			}
		}
	}
	return out
}

// Equal compares two boards square by square, including every piece flag.
func (b *Board) Equal(other *Board) bool {
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			p, q := b.squares[r][c], other.squares[r][c]
			if (p == nil) != (q == nil) {
				return false
			}
			if p != nil && *p != *q {
				return false
			}
		}
	}
	return true
}

// Each calls fn for every occupied square in row-major order.
func (b *Board) Each(fn func(sq Square, p *Piece)) {
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if p := b.squares[r][c]; p != nil {
				fn(Square{Row: r, Col: c}, p)
			}
		}
	}
}

// Pieces returns the squares holding color's pieces, row-major.
func (b *Board) Pieces(color Color) []Square {
	var out []Square
	b.Each(func(sq Square, p *Piece) {
		if p.Color == color {
			out = append(out, sq)
		}
	})
	return out
}

// Material sums the signed point value of every piece on the board.
func (b *Board) Material() int {
	total := 0
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if p := b.squares[r][c]; p != nil {
				total += p.Points()
			}
		}
	}
	return total
}

// Count returns how many pieces of kind and color are on the board.
func (b *Board) Count(kind Kind, color Color) int {
	n := 0
	b.Each(func(_ Square, p *Piece) {
		if p.Kind == kind && p.Color == color {
			n++
		}
	})
	return n
}

// String draws the board from white's side, one rank per line.
func (b *Board) String() string {
	var sb strings.Builder
	for r := 0; r < Size; r++ {
		fmt.Fprintf(&sb, "%d ", Size-r)
		for c := 0; c < Size; c++ {
			if p := b.squares[r][c]; p != nil {
				sb.WriteByte(p.FEN())
			} else {
				sb.WriteByte('.')
			}
			sb.WriteByte(' ')
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("  a b c d e f g h\n")
	return sb.String()
}

// MarshalJSON renders the board as rows of nullable pieces, the same shape
// the frontend has always consumed.
func (b *Board) MarshalJSON() ([]byte, error) {
	rows := make([][]*Piece, Size)
	for r := range rows {
		rows[r] = b.squares[r][:]
	}
	return json.Marshal(rows)
}

func (b *Board) UnmarshalJSON(data []byte) error {
	var rows [][]*Piece
	if err := json.Unmarshal(data, &rows); err != nil {
		return err
	}
	if len(rows) != Size {
		return fmt.Errorf("board has %d rows", len(rows))
	}
	for r, row := range rows {
		if len(row) != Size {
			return fmt.Errorf("board row %d has %d squares", r, len(row))
		}
		copy(b.squares[r][:], row)
	}
	return nil
}
