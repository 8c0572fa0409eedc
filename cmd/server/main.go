package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"coffeemachine/pkg/app"
)

// main serves the HTTP API so process managers can keep using cmd/server.
func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	args := append([]string{"-serve"}, os.Args[1:]...)
	if err := app.Run(ctx, args, os.Stdin, os.Stdout, logger); err != nil {
		logger.Fatal("application stopped with error", zap.Error(err))
	}
}
