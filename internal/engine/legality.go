package engine

import (
	"fmt"

	"github.com/benbeisheim/housechess-backend/internal/chess"
)

// IsLegalMove is the pseudo-legal filter: the piece on from can reach to by
// its movement template (or a pawn/king special), nothing stands in between
// unless it is a knight, and to is empty or holds an enemy. It does not look
// at king safety and never mutates the board.
func IsLegalMove(b *chess.Board, from, to chess.Square) bool {
	if !from.InBounds() || !to.InBounds() || from == to {
		return false
	}
	p := b.At(from)
	if p == nil {
		return false
	}
	d := from.Delta(to)
	tmpl := p.Template()
	target := b.At(to)

	switch p.Kind {
	case chess.Pawn:
		switch {
		case chess.Contains(tmpl.Moves, d) && target == nil:
		case chess.Contains(tmpl.Double, d) && !p.HasMoved && target == nil:
		case chess.Contains(tmpl.Attacks, d) && target != nil && target.Color != p.Color:
		default:
			return false
		}
	case chess.King:
		if !chess.Contains(tmpl.Moves, d) && !castleShape(b, p, from, d) {
			return false
		}
	default:
		if !chess.Contains(tmpl.Moves, d) {
			return false
		}
	}

	if p.Kind != chess.Knight && !pathClear(b, from, to) {
		return false
	}
	return target == nil || target.Color != p.Color
}

// castleShape checks the static castling conditions: unmoved king on its home
// rank, a same-colored unmoved rook in the matching corner and nothing
// between the two.
func castleShape(b *chess.Board, king *chess.Piece, from chess.Square, d chess.Offset) bool {
	if king.HasMoved || d.DRow != 0 || (d.DCol != 2 && d.DCol != -2) {
		return false
	}
	if from.Row != king.Color.HomeRow() {
		return false
	}
	rookSq, _ := chess.CastleRook(from.Add(d))
	rook := b.At(rookSq)
	if rook == nil || rook.Kind != chess.Rook || rook.Color != king.Color || rook.HasMoved {
		return false
	}
	return pathClear(b, from, rookSq)
}

// pathClear reports whether every square strictly between from and to is
// empty, stepping by the unit vector of the delta.
func pathClear(b *chess.Board, from, to chess.Square) bool {
	step := chess.Offset{DRow: sign(to.Row - from.Row), DCol: sign(to.Col - from.Col)}
	d := from.Delta(to)
	if d.DRow != 0 && d.DCol != 0 && abs(d.DRow) != abs(d.DCol) {
		// not a line; only knights move like this and they skip the walk
		return true
	}
	for sq := from.Add(step); sq != to; sq = sq.Add(step) {
		if !b.Empty(sq) {
			return false
		}
	}
	return true
}

// IsInCheck reports whether the king standing on kingSq is attacked.
func IsInCheck(b *chess.Board, kingSq chess.Square) bool {
	king := b.At(kingSq)
	if king == nil {
		return false
	}
	return IsAttacked(b, kingSq, king.Color.Opposite())
}

// IsAttacked looks outward from sq: first for enemy knights, then along every
// straight and diagonal ray to the first occupied square, asking whether that
// piece could legally move onto sq. Pawns are judged by their capture
// template so empty squares count too.
func IsAttacked(b *chess.Board, sq chess.Square, by chess.Color) bool {
	for _, j := range chess.KnightJumps() {
		s := sq.Add(j)
		if !s.InBounds() {
			continue
		}
		if p := b.At(s); p != nil && p.Color == by && p.Kind == chess.Knight {
			return true
		}
	}

	for _, dir := range chess.KingSteps() {
		for s := sq.Add(dir); s.InBounds(); s = s.Add(dir) {
			p := b.At(s)
			if p == nil {
				continue
			}
			if p.Color == by && attacks(b, p, s, sq) {
				return true
			}
			break
		}
	}
	return false
}

func attacks(b *chess.Board, p *chess.Piece, from, to chess.Square) bool {
	if p.Kind == chess.Pawn {
		return chess.Contains(p.Template().Attacks, from.Delta(to))
	}
	if b.Empty(to) {
		// a king only threatens adjacent squares, never its castling jump
		if p.Kind == chess.King {
			return chess.Contains(p.Template().Moves, from.Delta(to))
		}
	}
	return IsLegalMove(b, from, to)
}

// TryMove is the full legality test: the move must be pseudo-legal and must
// not leave the mover's king attacked. The board is probed in place and is
// always restored before returning.
func TryMove(b *chess.Board, from, to chess.Square) bool {
	if !IsLegalMove(b, from, to) {
		return false
	}
	p := b.At(from)
	if chess.IsCastle(p, from, to) && !castleIsSafe(b, p.Color, from, to) {
		return false
	}

	undo := b.Displace(from, to)
	defer undo.Revert()

	kingSq := to
	if p.Kind != chess.King {
		kingSq = mustFindKing(b, p.Color)
	}
	return !IsInCheck(b, kingSq)
}

// castleIsSafe rejects castling out of check or through an attacked square.
// The landing square is covered by the regular king-safety probe.
func castleIsSafe(b *chess.Board, color chess.Color, from, to chess.Square) bool {
	enemy := color.Opposite()
	if IsAttacked(b, from, enemy) {
		return false
	}
	transit := chess.Square{Row: from.Row, Col: from.Col + sign(to.Col-from.Col)}
	return !IsAttacked(b, transit, enemy)
}

// FindKing returns the square of color's king.
func FindKing(b *chess.Board, color chess.Color) (chess.Square, bool) {
	for r := 0; r < chess.Size; r++ {
		for c := 0; c < chess.Size; c++ {
			sq := chess.Square{Row: r, Col: c}
			if p := b.At(sq); p != nil && p.Kind == chess.King && p.Color == color {
				return sq, true
			}
		}
	}
	return chess.Square{}, false
}

// mustFindKing panics when the king is gone; every path that mutates a board
// is king-safety filtered, so this only fires on a corrupted position.
func mustFindKing(b *chess.Board, color chess.Color) chess.Square {
	sq, ok := FindKing(b, color)
	if !ok {
		panic(fmt.Errorf("%w: %s", ErrMissingKing, color))
	}
	return sq
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
