package controller

import (
	"encoding/json"
	"fmt"

	"github.com/gofiber/websocket/v2"

	"github.com/benbeisheim/housechess-backend/internal/middleware"
	"github.com/benbeisheim/housechess-backend/internal/model"
	"github.com/benbeisheim/housechess-backend/internal/service"
	"github.com/benbeisheim/housechess-backend/internal/ws"
)

type WebSocketController struct {
	gameService *service.GameService
}

func NewWebSocketController(gameService *service.GameService) *WebSocketController {
	return &WebSocketController{
		gameService: gameService,
	}
}

// HandleConnection is called when a new WebSocket connection is established
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID := c.Params("gameId")
	playerID, _ := c.Locals(middleware.PlayerIDKey).(string)

	if err := wsc.gameService.RegisterConnection(gameID, playerID, c); err != nil {
		log.Warn("failed to register connection", "game", gameID, "player", playerID, "error", err)
		c.WriteJSON(ws.NewError(err))
		c.Close()
		return
	}
	defer wsc.gameService.UnregisterConnection(gameID, playerID, c)

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			log.Debug("connection closed", "game", gameID, "player", playerID, "error", err)
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg ws.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			wsc.gameService.SendError(gameID, c, fmt.Errorf("invalid message: %w", err))
			continue
		}
		if err := wsc.handleMessage(gameID, playerID, msg); err != nil {
			log.Debug("message rejected", "game", gameID, "player", playerID, "type", msg.Type, "error", err)
			wsc.gameService.SendError(gameID, c, err)
		}
	}
}

// handleMessage applies one client message. State changes reach every
// socket through the game's broadcast.
func (wsc *WebSocketController) handleMessage(gameID, playerID string, msg ws.Message) error {
	switch msg.Type {
	case ws.MessageTypeMove:
		var move model.MoveRequest
		if err := json.Unmarshal(msg.Payload, &move); err != nil {
			return err
		}
		return wsc.gameService.HandleMove(gameID, playerID, move)
	case ws.MessageTypeDrop:
		var drop model.DropRequest
		if err := json.Unmarshal(msg.Payload, &drop); err != nil {
			return err
		}
		return wsc.gameService.HandleDrop(gameID, playerID, drop)
	case ws.MessageTypeReset:
		return wsc.gameService.ResetGame(gameID, playerID)
	default:
		return fmt.Errorf("unknown message type: %s", msg.Type)
	}
}
