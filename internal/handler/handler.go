// Package handler is the invocation boundary shared by the CLI and the Lambda
// entry point. One call to Handle is one sweep.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aws/aws-lambda-go/lambdacontext"

	"github.com/joshsymonds/feedsweep/internal/config"
	"github.com/joshsymonds/feedsweep/internal/runtime"
	"github.com/joshsymonds/feedsweep/internal/sweep"
)

// Response is the empty success payload; it serializes to {}.
type Response struct{}

type Handler struct {
	Config config.Config
	Logger *slog.Logger
	// HTTPClient carries every upstream call. Nil means http.DefaultClient.
	HTTPClient *http.Client
}

func New(cfg config.Config, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = runtime.DefaultLogger()
	}
	return &Handler{Config: cfg, Logger: logger}
}

// Handle runs one sweep. The event payload is ignored. Missing credentials
// are not an error: the diagnostic message is returned as the result and no
// request is made.
func (h *Handler) Handle(ctx context.Context, event json.RawMessage) (any, error) {
	_ = event
	logger := h.Logger
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		logger = logger.With("request_id", lc.AwsRequestID)
	}

	if err := h.Config.Validate(); err != nil {
		if errors.Is(err, config.ErrMissingCredentials) {
			logger.WarnContext(ctx, "credentials not configured")
			return config.MissingCredentialsMessage, nil
		}
		return nil, err
	}

	tok, err := runtime.Authenticate(ctx, h.Config.Credentials, h.Config.BaseURL, h.HTTPClient)
	if err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "obtained access token", "expiry", tok.Expiry)

	client := runtime.NewFeedlyClient(ctx, h.Config.BaseURL, tok, h.HTTPClient)
	svc := sweep.NewService(client, logger)
	res, err := svc.Run(ctx, sweep.Spec{DryRun: h.Config.DryRun, StrictMark: h.Config.StrictMark})
	if err != nil {
		return nil, fmt.Errorf("run sweep: %w", err)
	}
	logger.InfoContext(ctx, "sweep finished",
		slog.Int("fetched", res.Fetched),
		slog.Int("advertisements", res.Advertisements),
		slog.Int("duplicates", res.Duplicates),
		slog.Int("marked", len(res.Marked)),
		slog.Bool("dry_run", res.DryRun),
	)
	return Response{}, nil
}
