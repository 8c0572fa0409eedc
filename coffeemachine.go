package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"coffeemachine/pkg/app"
)

// main exposes a root-level entry point so operators can simply run `go run coffeemachine.go`.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := app.Run(ctx, os.Args[1:], os.Stdin, os.Stdout, nil); err != nil {
		fmt.Fprintf(os.Stderr, "coffeemachine: %v\n", err)
		os.Exit(1)
	}
}
