package main

import (
	"log"
	"os"

	"github.com/benbeisheim/housechess-backend/internal/config"
	"github.com/benbeisheim/housechess-backend/internal/controller"
	"github.com/benbeisheim/housechess-backend/internal/service"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// Initialize services
	gameManager := service.NewGameManager(cfg.Settings())
	gameService := service.NewGameService(gameManager)

	appConfig := controller.AppConfig{AllowOrigins: cfg.AllowOrigins}
	if cfg.AccessLog {
		appConfig.AccessLog = os.Stdout
	}
	app := controller.NewApp(gameService, appConfig)

	engineColor := "none"
	if cfg.EngineColor != nil {
		engineColor = cfg.EngineColor.String()
	}
	log.Printf("housechess listening on %s (variant %s, engine %s, depth %d)", cfg.Addr, cfg.Variant, engineColor, cfg.Depth)
	log.Fatal(app.Listen(cfg.Addr))
}
