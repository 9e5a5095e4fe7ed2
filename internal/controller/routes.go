package controller

import (
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/websocket/v2"

	"github.com/benbeisheim/housechess-backend/internal/middleware"
	"github.com/benbeisheim/housechess-backend/internal/service"
)

type AppConfig struct {
	// AllowOrigins is a comma separated CORS origin list, or "*".
	AllowOrigins string
	// AccessLog receives one line per request; nil disables it.
	AccessLog io.Writer
}

// NewApp builds the fiber app with every REST and websocket route.
func NewApp(gameService *service.GameService, cfg AppConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "housechess",
	})

	if cfg.AllowOrigins == "" {
		cfg.AllowOrigins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, X-Player-ID",
		AllowMethods:     "GET, POST, DELETE, OPTIONS",
		AllowCredentials: cfg.AllowOrigins != "*",
	}))
	if cfg.AccessLog != nil {
		app.Use(logger.New(logger.Config{
			Output: cfg.AccessLog,
		}))
	}

	gameController := NewGameController(gameService)
	wsController := NewWebSocketController(gameService)

	origins := strings.Split(cfg.AllowOrigins, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}

	// Set up WebSocket routes
	app.Use("/ws", middleware.EnsurePlayerID())
	app.Get("/ws/game/:gameId", middleware.WebSocketUpgrade(), websocket.New(wsController.HandleConnection, websocket.Config{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		Origins:         origins,
	}))

	// Set up REST routes
	api := app.Group("/api", middleware.EnsurePlayerID())

	gameRoutes := api.Group("/game")
	gameRoutes.Post("/matchmaking/join", gameController.JoinMatchmaking)
	gameRoutes.Get("/matchmaking", gameController.MatchmakingStatus)
	gameRoutes.Delete("/matchmaking", gameController.LeaveMatchmaking)
	gameRoutes.Post("/create", gameController.CreateGame)
	gameRoutes.Post("/join/:gameId", gameController.JoinGame)
	gameRoutes.Get("/:gameId", gameController.GetGameState)
	gameRoutes.Get("/:gameId/moves", gameController.LegalMoves)
	gameRoutes.Post("/:gameId/move", gameController.MakeMove)
	gameRoutes.Post("/:gameId/drop", gameController.Drop)
	gameRoutes.Post("/:gameId/reset", gameController.ResetGame)

	return app
}
