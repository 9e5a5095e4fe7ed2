package chess

import "fmt"

// Move is a relocation from From to To, or, when Drop is set, a placement of
// a Piece of Color taken from the reserve onto To. Promotion is only
// meaningful for pawns reaching the last rank.
type Move struct {
	From      Square `json:"from"`
	To        Square `json:"to"`
	Promotion Kind   `json:"promotion,omitempty"`
	Drop      bool   `json:"drop,omitempty"`
	Piece     Kind   `json:"piece,omitempty"`
	Color     Color  `json:"color,omitempty"`
}

// NewDrop builds a drop of kind for color onto to.
func NewDrop(color Color, kind Kind, to Square) Move {
	return Move{To: to, Drop: true, Piece: kind, Color: color}
}

func (m Move) String() string {
	if m.Drop {
		return fmt.Sprintf("%c@%s", m.Piece.Letter(), m.To)
	}
	return m.From.String() + m.To.String()
}

// IsTerminalRow reports whether row is the last rank for either color.
func IsTerminalRow(row int) bool {
	return row == 0 || row == Size-1
}

// IsCastle reports whether a king travelling from -> to is a castling jump.
func IsCastle(p *Piece, from, to Square) bool {
	if p == nil || p.Kind != King || from.Row != to.Row {
		return false
	}
	d := to.Col - from.Col
	return d == 2 || d == -2
}

// CastleRook returns where the rook starts and lands for a king that castles
// onto kingTo.
func CastleRook(kingTo Square) (from, to Square) {
	if kingTo.Col > Size/2 {
		return Square{kingTo.Row, Size - 1}, Square{kingTo.Row, kingTo.Col - 1}
	}
	return Square{kingTo.Row, 0}, Square{kingTo.Row, kingTo.Col + 1}
}

// TracksMoved reports whether the kind carries a has-moved flag.
func TracksMoved(k Kind) bool {
	return k == King || k == Rook || k == Pawn
}

// Undo restores a board (and reserve) to the state it had before a Displace
// or Apply. Reverting twice is a no-op.
type Undo struct {
	board    *Board
	reserve  *Reserve
	done     bool
	from, to Square
	moved    *Piece
	captured *Piece
	wasMoved bool

	drop *Piece

	rook               *Piece
	rookFrom, rookTo   Square
	rookWasMoved       bool
	promoted           *Piece
	credited, consumed bool
}

// Displace relocates the piece on from to to, remembering any capture. It
// applies no special rules and touches no flags; king-safety probes use it.
func (b *Board) Displace(from, to Square) Undo {
	u := Undo{board: b, from: from, to: to, moved: b.At(from), captured: b.At(to)}
	if u.moved != nil {
		u.wasMoved = u.moved.HasMoved
	}
	b.Set(to, u.moved)
	b.Clear(from)
	return u
}

// Apply plays m in full: capture (crediting reserve when non-nil), castling
// rook relocation, promotion (Queen when m.Promotion is unset) and has-moved
// bookkeeping. Drops take the piece from reserve. The returned Undo puts
// everything back.
func (b *Board) Apply(m Move, reserve *Reserve) Undo {
	if m.Drop {
		p := NewPiece(m.Piece, m.Color)
		p.HasMoved = !(m.Piece == Pawn && m.To.Row == m.Color.PawnRow())
		b.Set(m.To, p)
		u := Undo{board: b, reserve: reserve, to: m.To, drop: p}
		if reserve != nil {
			u.consumed = reserve.Take(m.Color, m.Piece)
		}
		return u
	}

	u := b.Displace(m.From, m.To)
	u.reserve = reserve
	p := u.moved

	if u.captured != nil && reserve != nil && droppable(u.captured.Kind) {
		reserve.Add(p.Color, u.captured.Kind)
		u.credited = true
	}

	if IsCastle(p, m.From, m.To) {
		rf, rt := CastleRook(m.To)
		if rook := b.At(rf); rook != nil && rook.Kind == Rook && b.Empty(rt) {
			u.rook, u.rookFrom, u.rookTo, u.rookWasMoved = rook, rf, rt, rook.HasMoved
			b.Set(rt, rook)
			b.Clear(rf)
			rook.HasMoved = true
		}
	}

	if p.Kind == Pawn && IsTerminalRow(m.To.Row) {
		kind := m.Promotion
		if kind == King || kind == Pawn {
			kind = Queen
		}
		u.promoted = &Piece{Kind: kind, Color: p.Color, HasMoved: true}
		b.Set(m.To, u.promoted)
	}

	if TracksMoved(p.Kind) {
		p.HasMoved = true
	}
	return u
}

// Captured is the piece the move removed, if any.
func (u *Undo) Captured() *Piece {
	return u.captured
}

// Revert undoes the recorded move.
func (u *Undo) Revert() {
	if u.done || u.board == nil {
		return
	}
	u.done = true
	b := u.board

	if u.drop != nil {
		b.Clear(u.to)
		if u.consumed {
			u.reserve.Add(u.drop.Color, u.drop.Kind)
		}
		return
	}

	if u.rook != nil {
		b.Set(u.rookFrom, u.rook)
		b.Clear(u.rookTo)
		u.rook.HasMoved = u.rookWasMoved
	}
	if u.credited {
		u.reserve.Take(u.moved.Color, u.captured.Kind)
	}
	if u.moved != nil {
		u.moved.HasMoved = u.wasMoved
	}
	b.Set(u.from, u.moved)
	b.Set(u.to, u.captured)
}
