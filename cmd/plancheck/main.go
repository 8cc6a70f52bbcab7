package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"FitPlan_V0.1/internal/cli"
	"FitPlan_V0.1/internal/config"
	"FitPlan_V0.1/internal/geminiservice"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	app := &cli.App{
		Color: isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()),
	}
	// Only wire the gateway when a key exists so offline commands work anywhere.
	if cfg.Gemini.APIKey != "" {
		app.Planner = geminiservice.NewClient(cfg.Gemini, &logger)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}
