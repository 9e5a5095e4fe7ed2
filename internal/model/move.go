package model

import (
	"github.com/benbeisheim/housechess-backend/internal/chess"
)

// MoveRequest is a relocation sent by a client. Squares are algebraic
// ("e2"); Promotion names the piece a pawn becomes and defaults to queen.
type MoveRequest struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Promotion string `json:"promotion,omitempty"`
}

// DropRequest places a piece from the mover's reserve.
type DropRequest struct {
	Piece string `json:"piece"`
	To    string `json:"to"`
}

type CastleRookMove struct {
	From chess.Square `json:"from"`
	To   chess.Square `json:"to"`
}

// Ply is one half-move as recorded in the history.
type Ply struct {
	Piece          chess.Piece     `json:"piece"`
	Move           chess.Move      `json:"move"`
	CapturedPiece  *chess.Piece    `json:"capturedPiece"`
	CastleRookMove *CastleRookMove `json:"castleRookMove"`
	Notation       string          `json:"notation"`
	ByEngine       bool            `json:"byEngine"`
}

// Move pairs white's ply with black's reply.
type Move struct {
	WhitePly *Ply `json:"whitePly"`
	BlackPly *Ply `json:"blackPly"`
}

type CapturedPieces struct {
	White []chess.Piece `json:"white"`
	Black []chess.Piece `json:"black"`
}

func newCapturedPieces() CapturedPieces {
	return CapturedPieces{
		White: make([]chess.Piece, 0),
		Black: make([]chess.Piece, 0),
	}
}

func (cp *CapturedPieces) add(by chess.Color, p chess.Piece) {
	if by == chess.White {
		cp.White = append(cp.White, p)
	} else {
		cp.Black = append(cp.Black, p)
	}
}

func (cp CapturedPieces) clone() CapturedPieces {
	return CapturedPieces{
		White: append(make([]chess.Piece, 0, len(cp.White)), cp.White...),
		Black: append(make([]chess.Piece, 0, len(cp.Black)), cp.Black...),
	}
}
