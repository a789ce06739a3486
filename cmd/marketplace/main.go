package main

import (
	"context"
	"os/signal"
	"syscall"

	"vendorconnect/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	container := app.MustBuildContainer(ctx)
	app.MustRun(container)
}
