package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/healthrocket/app/internal/logging"
	"github.com/healthrocket/app/internal/server"
	"github.com/healthrocket/app/internal/server/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logging.ParseLevel(cfg.LogLevel)})
	logger := logging.NewSlogLogger(slog.New(handler))

	app, err := server.NewApp(cfg, logger)
	if err != nil {
		log.Fatalf("startup error: %v", err)
	}

	if err := app.Run(context.Background()); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
