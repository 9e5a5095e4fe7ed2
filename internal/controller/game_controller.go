package controller

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/benbeisheim/housechess-backend/internal/engine"
	"github.com/benbeisheim/housechess-backend/internal/middleware"
	"github.com/benbeisheim/housechess-backend/internal/model"
	"github.com/benbeisheim/housechess-backend/internal/notation"
	"github.com/benbeisheim/housechess-backend/internal/service"
)

var log = slog.Default().With("package", "controller")

type GameController struct {
	gameService *service.GameService
}

func NewGameController(gameService *service.GameService) *GameController {
	return &GameController{gameService: gameService}
}

// statusFor maps service and engine errors onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, model.ErrNotSeated), errors.Is(err, model.ErrNotAuthorized):
		return fiber.StatusForbidden
	case errors.Is(err, model.ErrNotYourTurn), errors.Is(err, model.ErrGameOver),
		errors.Is(err, model.ErrGameFull), errors.Is(err, service.ErrGameExists):
		return fiber.StatusConflict
	case errors.Is(err, model.ErrNoPiece), errors.Is(err, model.ErrWrongVariant),
		errors.Is(err, notation.ErrBadMove), errors.Is(err, engine.ErrIllegalMove),
		errors.Is(err, engine.ErrIllegalDrop), errors.Is(err, engine.ErrEmptyReserve):
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}

func fail(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		log.Error("request failed", "path", c.Path(), "error", err)
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}

// parseBody decodes an optional JSON body into out.
func parseBody(c *fiber.Ctx, out interface{}) error {
	if len(c.Body()) == 0 {
		return nil
	}
	return c.BodyParser(out)
}

func badBody(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "invalid request body: " + err.Error(),
	})
}

// CreateGame creates a game and seats the caller in it.
func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	var req service.CreateGameRequest
	if err := parseBody(c, &req); err != nil {
		return badBody(c, err)
	}

	game, err := gc.gameService.CreateGame(req)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	color, err := gc.gameService.JoinGame(game.ID, middleware.PlayerID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Game created",
		"game_id": game.ID,
		"name":    game.Name,
		"color":   color,
	})
}

func (gc *GameController) JoinGame(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	color, err := gc.gameService.JoinGame(gameID, middleware.PlayerID(c))
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Game joined",
		"color":   color,
	})
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	gameState, err := gc.gameService.GetGameState(c.Params("gameId"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(gameState)
}

func (gc *GameController) LegalMoves(c *fiber.Ctx) error {
	moves, err := gc.gameService.LegalMoves(c.Params("gameId"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"moves": moves,
	})
}

func (gc *GameController) MakeMove(c *fiber.Ctx) error {
	var req model.MoveRequest
	if err := parseBody(c, &req); err != nil {
		return badBody(c, err)
	}
	gameID := c.Params("gameId")
	if err := gc.gameService.HandleMove(gameID, middleware.PlayerID(c), req); err != nil {
		return fail(c, err)
	}
	return gc.GetGameState(c)
}

func (gc *GameController) Drop(c *fiber.Ctx) error {
	var req model.DropRequest
	if err := parseBody(c, &req); err != nil {
		return badBody(c, err)
	}
	gameID := c.Params("gameId")
	if err := gc.gameService.HandleDrop(gameID, middleware.PlayerID(c), req); err != nil {
		return fail(c, err)
	}
	return gc.GetGameState(c)
}

func (gc *GameController) ResetGame(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	if err := gc.gameService.ResetGame(gameID, middleware.PlayerID(c)); err != nil {
		return fail(c, err)
	}
	return gc.GetGameState(c)
}

func (gc *GameController) JoinMatchmaking(c *fiber.Ctx) error {
	var req struct {
		Variant string `json:"variant"`
	}
	if err := parseBody(c, &req); err != nil {
		return badBody(c, err)
	}

	match, err := gc.gameService.JoinMatchmaking(middleware.PlayerID(c), req.Variant)
	if err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if match == nil {
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
			"status": "queued",
		})
	}
	return c.JSON(match)
}

// MatchmakingStatus is polled by a queued player until their pairing is
// ready.
func (gc *GameController) MatchmakingStatus(c *fiber.Ctx) error {
	match, ok := gc.gameService.MatchmakingStatus(middleware.PlayerID(c))
	if !ok {
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
			"status": "queued",
		})
	}
	return c.JSON(match)
}

func (gc *GameController) LeaveMatchmaking(c *fiber.Ctx) error {
	if !gc.gameService.LeaveMatchmaking(middleware.PlayerID(c)) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "not in the matchmaking queue",
		})
	}
	return c.JSON(fiber.Map{
		"status": "left",
	})
}
