package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joshsymonds/feedsweep/internal/config"
	"github.com/joshsymonds/feedsweep/internal/handler"
	"github.com/joshsymonds/feedsweep/internal/runtime"
)

const exitMisconfigured = 2

func main() {
	cfg, err := config.Load(os.Args[1:])
	if errors.Is(err, config.ErrHelp) {
		return
	}
	if err != nil {
		runtime.DefaultLogger().Error("feedsweep failed", "error", err)
		os.Exit(1)
	}
	code, err := run(cfg)
	if err != nil {
		runtime.DefaultLogger().Error("feedsweep failed", "error", err)
	}
	os.Exit(code)
}

func run(cfg config.Config) (int, error) {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger, closer, err := runtime.NewLogger(runtime.LogOptions{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		File:   cfg.LogFile,
	})
	if err != nil {
		return 1, fmt.Errorf("configure logging: %w", err)
	}
	defer func() { _ = closer.Close() }()

	out, err := handler.New(cfg, logger).Handle(ctx, nil)
	if err != nil {
		return 1, err
	}
	if msg, ok := out.(string); ok {
		fmt.Fprintln(os.Stderr, msg)
		return exitMisconfigured, nil
	}
	return 0, nil
}
