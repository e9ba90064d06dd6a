package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aussiebroadwan/stockbook/internal/stockbook/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "stockbook: %v\n", err)
		return 1
	}

	application, err := app.New(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "stockbook: failed to initialize: %v\n", err)
		return 1
	}
	defer application.Close()

	err = application.Run(ctx, os.Args[1:])
	switch {
	case err == nil, errors.Is(err, flag.ErrHelp):
		return 0
	case errors.Is(err, app.ErrUsage):
		fmt.Fprintf(os.Stderr, "stockbook: %v\n", err)
		return 2
	default:
		fmt.Fprintf(os.Stderr, "stockbook: %v\n", err)
		return 1
	}
}
