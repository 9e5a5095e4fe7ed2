package engine

import (
	"github.com/benbeisheim/housechess-backend/internal/chess"
)

type Status string

const (
	Ongoing   Status = "ongoing"
	Check     Status = "check"
	Checkmate Status = "checkmate"
	Stalemate Status = "stalemate"
)

// Outcome is what CheckGameState found for the side that has to reply. It
// belongs to the caller's game session and is replaced every half-move.
type Outcome struct {
	Status       Status       `json:"status"`
	Winner       *chess.Color `json:"winner,omitempty"`
	WhiteInCheck bool         `json:"whiteInCheck"`
	BlackInCheck bool         `json:"blackInCheck"`
}

// Over reports whether the game has ended.
func (o Outcome) Over() bool {
	return o.Status == Checkmate || o.Status == Stalemate
}

// CheckGameState classifies the position after a half-move, before the turn
// flips. whiteToMove reports whether white made that half-move, so the side
// examined for mate is the opponent. reserve, when non-nil, lets the
// defender drop pieces to escape. Both kings' InCheck flags are refreshed and
// the defender's InCheckmate flag is set on mate.
func CheckGameState(b *chess.Board, whiteToMove bool, reserve *chess.Reserve) Outcome {
	wk := mustFindKing(b, chess.White)
	bk := mustFindKing(b, chess.Black)
	white, black := b.At(wk), b.At(bk)

	white.InCheck = IsInCheck(b, wk)
	black.InCheck = IsInCheck(b, bk)
	white.InCheckmate = false
	black.InCheckmate = false

	out := Outcome{Status: Ongoing, WhiteInCheck: white.InCheck, BlackInCheck: black.InCheck}

	mover, defender, defenderSq := chess.White, black, bk
	if !whiteToMove {
		mover, defender, defenderSq = chess.Black, white, wk
	}

	switch {
	case IsInMate(b, defenderSq, reserve):
		if defender.InCheck {
			defender.InCheckmate = true
			out.Status = Checkmate
			out.Winner = &mover
		} else {
			out.Status = Stalemate
		}
	case defender.InCheck:
		out.Status = Check
	}
	return out
}
