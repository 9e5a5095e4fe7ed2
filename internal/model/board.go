package model

import (
	"github.com/benbeisheim/housechess-backend/internal/chess"
	"github.com/benbeisheim/housechess-backend/internal/engine"
	"github.com/benbeisheim/housechess-backend/internal/notation"
)

// BoardState is the board as sent to clients: the grid, the pockets for
// crazyhouse, where each king stands, and the position as FEN.
type BoardState struct {
	Board             *chess.Board   `json:"board"`
	Reserve           *chess.Reserve `json:"reserve,omitempty"`
	BlackKingPosition chess.Square   `json:"blackKingPosition"`
	WhiteKingPosition chess.Square   `json:"whiteKingPosition"`
	Material          int            `json:"material"`
	FEN               string         `json:"fen"`
}

// newBoardState snapshots b and reserve; the result shares nothing with the
// live game.
func newBoardState(b *chess.Board, reserve *chess.Reserve, toMove chess.Color, fullMove int) BoardState {
	state := BoardState{
		Board:    b.Clone(),
		Reserve:  reserve.Clone(),
		Material: b.Material(),
		FEN:      notation.EncodeFEN(notation.Position{Board: b, Turn: toMove, Reserve: reserve, FullMove: fullMove}),
	}
	state.WhiteKingPosition, _ = engine.FindKing(b, chess.White)
	state.BlackKingPosition, _ = engine.FindKing(b, chess.Black)
	return state
}
