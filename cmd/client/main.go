package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/adriancondrea/Bikes-Shop/internal/client/cli"
	"github.com/adriancondrea/Bikes-Shop/internal/client/config"
	"github.com/adriancondrea/Bikes-Shop/internal/logging"
)

func main() {

	cfg := config.LoadConfig()

	handler := slog.New(slog.NewTextHandler(os.Stderr, nil))
	logger := logging.NewSlogLogger(handler)

	ctx := context.Background()

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)
}
