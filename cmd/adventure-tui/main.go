package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/pixil98/go-service"

	"github.com/pburglin/adventure2/cmd/adventure/command"
)

func main() {
	// Quitting from the UI interrupts this process, which cancels ctx.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	app, err := service.NewApp(&command.LocalConfig{}, command.BuildLocalWorkers)
	if err != nil {
		slog.Error("creating application", "error", err)
		os.Exit(1)
	}

	err = app.Run(ctx)
	if err != nil {
		slog.Error("running application", "error", err)
		os.Exit(1)
	}
}
