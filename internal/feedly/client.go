package feedly

import "context"

// Client is the narrow Feedly surface required by feedsweep.
type Client interface {
	Profile(ctx context.Context) (Profile, error)
	StreamContents(ctx context.Context, q StreamQuery) ([]Entry, error)
	MarkAsRead(ctx context.Context, ids []EntryID) (MarkResponse, error)
}
