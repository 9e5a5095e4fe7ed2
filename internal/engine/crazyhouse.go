package engine

import (
	"fmt"

	"github.com/benbeisheim/housechess-backend/internal/chess"
)

// TryCrazyhouseMove probes whether color may drop a kind onto to: the square
// must be empty, pawns may not land on either last rank, and the drop must
// not leave color's king in check. The board is left untouched; the reserve
// is not consulted.
func TryCrazyhouseMove(b *chess.Board, color chess.Color, kind chess.Kind, to chess.Square) bool {
	if !to.InBounds() || !b.Empty(to) || kind == chess.King {
		return false
	}
	if kind == chess.Pawn && chess.IsTerminalRow(to.Row) {
		return false
	}

	b.Set(to, chess.NewPiece(kind, color))
	defer b.Clear(to)

	return !IsInCheck(b, mustFindKing(b, color))
}

// Drop places a piece from color's reserve onto to and takes it out of the
// reserve.
func Drop(b *chess.Board, reserve *chess.Reserve, color chess.Color, kind chess.Kind, to chess.Square) error {
	if reserve == nil || reserve.Count(color, kind) == 0 {
		return fmt.Errorf("%w: %s %s", ErrEmptyReserve, color, kind)
	}
	if !TryCrazyhouseMove(b, color, kind, to) {
		return fmt.Errorf("%w: %s %s on %s", ErrIllegalDrop, color, kind, to)
	}
	b.Apply(chess.NewDrop(color, kind, to), reserve)
	return nil
}
