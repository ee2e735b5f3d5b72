package main

import (
	"cmp"
	"errors"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/joshsymonds/feedsweep/internal/config"
	"github.com/joshsymonds/feedsweep/internal/handler"
	"github.com/joshsymonds/feedsweep/internal/runtime"
)

func main() {
	cfg, err := config.Load(nil)
	if errors.Is(err, config.ErrHelp) {
		return
	}
	if err != nil {
		runtime.DefaultLogger().Error("feedsweep-lambda failed", "error", err)
		os.Exit(1)
	}
	// JSON unless LOG_FORMAT says otherwise; the logger lives as long as the sandbox.
	logger, closer, err := runtime.NewLogger(runtime.LogOptions{
		Level:  cfg.LogLevel,
		Format: cmp.Or(cfg.LogFormat, "json"),
		File:   cfg.LogFile,
	})
	if err != nil {
		runtime.DefaultLogger().Error("feedsweep-lambda failed", "error", err)
		os.Exit(1)
	}
	defer func() { _ = closer.Close() }()

	lambda.Start(handler.New(cfg, logger).Handle)
}
