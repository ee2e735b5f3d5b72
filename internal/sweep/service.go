// internal/sweep/service.go
package sweep

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/joshsymonds/feedsweep/internal/classify"
	"github.com/joshsymonds/feedsweep/internal/feedly"
	"github.com/joshsymonds/feedsweep/internal/runtime"
)

type Spec struct {
	DryRun bool
	// StrictMark turns a rejected markers call into a run failure. Off by
	// default: the response is logged and the run still succeeds.
	StrictMark bool
}

// Result summarizes one sweep for logging.
type Result struct {
	Fetched        int
	Advertisements int
	Duplicates     int
	Marked         []feedly.EntryID
	DryRun         bool
}

type Service struct {
	Client feedly.Client
	Log    *slog.Logger
}

// NewService constructs a Service with sane defaults.
func NewService(client feedly.Client, logger *slog.Logger) *Service {
	if logger == nil {
		logger = runtime.DefaultLogger()
	}
	return &Service{Client: client, Log: logger}
}

// Run fetches the unread entries of the authenticated user, flags
// advertisements and duplicates, and marks the flagged entries as read.
func (s *Service) Run(ctx context.Context, spec Spec) (Result, error) {
	profile, err := s.Client.Profile(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("resolve profile: %w", err)
	}
	s.Log.InfoContext(ctx, "resolved profile", "user_id", profile.ID)

	entries, err := s.fetchEntries(ctx, profile.ID)
	if err != nil {
		return Result{}, err
	}
	s.Log.InfoContext(ctx, "fetched unread entries", "count", len(entries))

	ads := classify.Advertisements(entries, s.Log)
	s.Log.InfoContext(ctx, "advertisement entries", "count", ads.Len())
	dups := classify.Duplicates(entries, s.Log)
	s.Log.InfoContext(ctx, "duplicate entries", "count", dups.Len())

	res := Result{
		Fetched:        len(entries),
		Advertisements: ads.Len(),
		Duplicates:     dups.Len(),
		DryRun:         spec.DryRun,
	}

	mark := ads.Union(dups)
	if mark.Len() == 0 {
		s.Log.InfoContext(ctx, "nothing to mark")
		return res, nil
	}
	ids := mark.Sorted()
	if spec.DryRun {
		s.Log.InfoContext(ctx, "dry-run", "count", len(ids), "ids", ids)
		return res, nil
	}
	if err := s.mark(ctx, ids, spec.StrictMark); err != nil {
		return res, err
	}
	res.Marked = ids
	return res, nil
}

// fetchEntries returns the newest page of unread entries, oldest first.
func (s *Service) fetchEntries(ctx context.Context, userID string) ([]feedly.Entry, error) {
	q := feedly.StreamQuery{
		StreamID:   feedly.GlobalAllStream(userID),
		Count:      feedly.MaxStreamCount,
		UnreadOnly: true,
	}
	entries, err := s.Client.StreamContents(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("fetch stream %s: %w", q.StreamID, err)
	}
	entries = slices.Clone(entries)
	slices.Reverse(entries)
	return entries, nil
}

func (s *Service) mark(ctx context.Context, ids []feedly.EntryID, strict bool) error {
	resp, err := s.Client.MarkAsRead(ctx, ids)
	if err != nil {
		return fmt.Errorf("mark entries as read: %w", err)
	}
	if resp.OK() {
		s.Log.InfoContext(ctx, "marked entries", "count", len(ids), "status", resp.StatusCode, "response", resp.Body)
		return nil
	}
	s.Log.WarnContext(ctx, "markers call rejected", "count", len(ids), "status", resp.StatusCode, "response", resp.Body)
	if strict {
		return &feedly.APIError{Op: "markers", StatusCode: resp.StatusCode, Body: resp.Body}
	}
	return nil
}
