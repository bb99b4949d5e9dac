package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/confessio/confessio/internal/client/cli"
	"github.com/confessio/confessio/internal/client/config"
	"github.com/confessio/confessio/internal/logging"
)

func main() {
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	cfg := config.LoadConfig()

	app, err := cli.NewApp(cfg, log)
	if err != nil {
		log.Error(context.Background(), "failed to start", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	app.Run(context.Background())
}
