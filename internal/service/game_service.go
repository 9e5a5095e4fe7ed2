package service

import (
	"fmt"

	"github.com/benbeisheim/housechess-backend/internal/chess"
	"github.com/benbeisheim/housechess-backend/internal/model"
	"github.com/benbeisheim/housechess-backend/internal/ws"
)

// CreateGameRequest is what a client may choose about a new game. Empty
// fields fall back to the server defaults; EngineColor "none" means two
// humans.
type CreateGameRequest struct {
	Variant     string `json:"variant"`
	EngineColor string `json:"engineColor"`
	Depth       int    `json:"depth"`
}

type GameService struct {
	gameManager *GameManager
}

func NewGameService(gameManager *GameManager) *GameService {
	return &GameService{
		gameManager: gameManager,
	}
}

// Settings resolves req against the server defaults.
func (gs *GameService) Settings(req CreateGameRequest) (model.Settings, error) {
	settings := gs.gameManager.Defaults()
	if req.Variant != "" {
		variant, err := model.ParseVariant(req.Variant)
		if err != nil {
			return model.Settings{}, err
		}
		settings.Variant = variant
	}
	switch req.EngineColor {
	case "":
	case "none":
		settings.EngineColor = nil
	default:
		color, err := chess.ParseColor(req.EngineColor)
		if err != nil {
			return model.Settings{}, err
		}
		settings.EngineColor = &color
	}
	if req.Depth != 0 {
		settings.Depth = model.ClampDepth(req.Depth)
	}
	return settings, nil
}

func (gs *GameService) CreateGame(req CreateGameRequest) (*model.Game, error) {
	settings, err := gs.Settings(req)
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}
	game, err := gs.gameManager.CreateGame(settings)
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}
	return game, nil
}

func (gs *GameService) JoinGame(gameID string, playerID string) (chess.Color, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return chess.White, err
	}
	return game.AddPlayer(playerID)
}

func (gs *GameService) GetGameState(gameID string) (model.GameState, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return model.GameState{}, err
	}
	return game.GetState(), nil
}

func (gs *GameService) LegalMoves(gameID string) ([]string, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	return game.LegalMoves(), nil
}

func (gs *GameService) HandleMove(gameID string, playerID string, move model.MoveRequest) error {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.MakeMove(playerID, move)
}

func (gs *GameService) HandleDrop(gameID string, playerID string, drop model.DropRequest) error {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.Drop(playerID, drop)
}

func (gs *GameService) ResetGame(gameID string, playerID string) error {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.Reset(playerID)
}

func (gs *GameService) JoinMatchmaking(playerID string, variant string) (*model.MatchFoundEvent, error) {
	v, err := model.ParseVariant(variant)
	if err != nil {
		return nil, err
	}
	return gs.gameManager.JoinMatchmaking(playerID, v)
}

func (gs *GameService) MatchmakingStatus(playerID string) (model.MatchFoundEvent, bool) {
	return gs.gameManager.MatchFor(playerID)
}

func (gs *GameService) LeaveMatchmaking(playerID string) bool {
	return gs.gameManager.LeaveMatchmaking(playerID)
}

func (gs *GameService) RegisterConnection(gameID string, playerID string, conn model.Conn) error {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.RegisterConnection(playerID, conn)
}

func (gs *GameService) UnregisterConnection(gameID string, playerID string, conn model.Conn) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return
	}
	game.UnregisterConnection(playerID, conn)
}

// SendError reports err to one socket of the game.
func (gs *GameService) SendError(gameID string, conn model.Conn, err error) error {
	game, gerr := gs.gameManager.GetGame(gameID)
	if gerr != nil {
		return conn.WriteJSON(ws.NewError(err))
	}
	return game.Send(conn, ws.NewError(err))
}
