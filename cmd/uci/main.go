// Command uci runs housechess as a UCI engine on stdin/stdout.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"github.com/benbeisheim/housechess-backend/internal/engine"
	"github.com/benbeisheim/housechess-backend/internal/uci"
)

func main() {
	depth := flag.Int("depth", engine.DefaultDepth, "search depth for a bare \"go\"")
	debug := flag.Bool("debug", false, "log every command to stderr")
	flag.Parse()

	if *debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	session := uci.NewSession(os.Stdin, os.Stdout, uci.WithDepth(*depth))
	if err := session.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatalf("uci: %v", err)
	}
}
