package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/healthrocket/app/internal/client/cli"
	"github.com/healthrocket/app/internal/client/config"
	"github.com/healthrocket/app/internal/logging"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logging.ParseLevel(cfg.LogLevel)})
	logger := logging.NewSlogLogger(slog.New(handler))

	ctx := context.Background()
	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("startup error: %v", err)
	}

	app.Run(ctx)
}
