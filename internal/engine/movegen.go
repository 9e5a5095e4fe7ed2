package engine

import (
	"github.com/benbeisheim/housechess-backend/internal/chess"
)

// eachCandidate walks every pseudo move of color in board-scan order (row
// major, then template order: moves, pawn attacks, pawn double step, and the
// castling jumps when castling is set) and hands the fully legal ones to fn.
// Returning false from fn stops the walk.
func eachCandidate(b *chess.Board, color chess.Color, castling bool, fn func(from, to chess.Square) bool) {
	for r := 0; r < chess.Size; r++ {
		for c := 0; c < chess.Size; c++ {
			from := chess.Square{Row: r, Col: c}
			p := b.At(from)
			if p == nil || p.Color != color {
				continue
			}
			tmpl := p.Template()
			sets := [][]chess.Offset{tmpl.Moves}
			switch p.Kind {
			case chess.Pawn:
				sets = append(sets, tmpl.Attacks, tmpl.Double)
			case chess.King:
				if castling && !p.HasMoved {
					sets = append(sets, chess.CastleOffsets[:])
				}
			}
			for _, set := range sets {
				for _, off := range set {
					to := from.Add(off)
					if !to.InBounds() || !TryMove(b, from, to) {
						continue
					}
					if !fn(from, to) {
						return
					}
				}
			}
		}
	}
}

// GenerateMoves lists every legal board move for color. Pawn moves onto the
// last rank carry a Queen promotion.
func GenerateMoves(b *chess.Board, color chess.Color) []chess.Move {
	var moves []chess.Move
	eachCandidate(b, color, true, func(from, to chess.Square) bool {
		m := chess.Move{From: from, To: to}
		if b.At(from).Kind == chess.Pawn && chess.IsTerminalRow(to.Row) {
			m.Promotion = chess.Queen
		}
		moves = append(moves, m)
		return true
	})
	return moves
}

// GenerateDrops lists every legal drop color can make from reserve.
func GenerateDrops(b *chess.Board, reserve *chess.Reserve, color chess.Color) []chess.Move {
	if reserve == nil {
		return nil
	}
	var drops []chess.Move
	for _, kind := range reserve.Kinds(color) {
		for r := 0; r < chess.Size; r++ {
			for c := 0; c < chess.Size; c++ {
				to := chess.Square{Row: r, Col: c}
				if TryCrazyhouseMove(b, color, kind, to) {
					drops = append(drops, chess.NewDrop(color, kind, to))
				}
			}
		}
	}
	return drops
}

// IsInMate reports whether the side owning the king on kingSq has no way
// out: no legal board move and, when reserve is given, no drop next to the
// king that leaves it safe. Castling is never an escape. Despite the name it
// is also true for stalemate; the caller tells the two apart by check.
func IsInMate(b *chess.Board, kingSq chess.Square, reserve *chess.Reserve) bool {
	king := b.At(kingSq)
	if king == nil {
		return false
	}
	color := king.Color

	stuck := true
	eachCandidate(b, color, false, func(_, _ chess.Square) bool {
		stuck = false
		return false
	})
	if !stuck {
		return false
	}

	if reserve != nil {
		for _, kind := range reserve.Kinds(color) {
			for _, step := range chess.KingSteps() {
				sq := kingSq.Add(step)
				if sq.InBounds() && TryCrazyhouseMove(b, color, kind, sq) {
					return false
				}
			}
		}
	}
	return true
}
