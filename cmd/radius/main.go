package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mannuking/Project-Radius/internal/app"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "radius:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := app.LoadConfig()
	if err != nil {
		return err
	}
	logger := app.NewLogger(cfg)

	ctx := context.Background()
	runtime, err := app.NewRuntime(ctx, cfg, logger)
	if err != nil {
		return err
	}
	return runtime.Run(ctx)
}
