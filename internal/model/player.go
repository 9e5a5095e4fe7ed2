package model

import (
	"github.com/benbeisheim/housechess-backend/internal/chess"
)

// EngineID is the seat id used when the engine plays a side.
const EngineID = "engine"

type ClientPlayer struct {
	ID       string `json:"name"`
	Engine   bool   `json:"engine"`
	TimeLeft int    `json:"timeLeft"`
}

type Players struct {
	White ClientPlayer `json:"white"`
	Black ClientPlayer `json:"black"`
}

func (p *Players) seat(color chess.Color) *ClientPlayer {
	if color == chess.White {
		return &p.White
	}
	return &p.Black
}

// colorOf reports which side playerID sits on.
func (p *Players) colorOf(playerID string) (chess.Color, bool) {
	switch {
	case playerID == "":
		return chess.White, false
	case p.White.ID == playerID && !p.White.Engine:
		return chess.White, true
	case p.Black.ID == playerID && !p.Black.Engine:
		return chess.Black, true
	}
	return chess.White, false
}

func (p *Players) full() bool {
	return p.White.ID != "" && p.Black.ID != ""
}
