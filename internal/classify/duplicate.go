package classify

import (
	"log/slog"

	"github.com/joshsymonds/feedsweep/internal/feedly"
)

// Duplicates walks entries in order and returns the ids of every entry whose
// canonical URL was already seen earlier in the walk. The first occurrence is
// kept as the original, so the caller's ordering decides which copy survives.
//
// Only the first alternate link counts. Entries without one are skipped and
// never mark a URL as seen.
func Duplicates(entries []feedly.Entry, logger *slog.Logger) IDSet {
	logger = orDiscard(logger)
	ids := IDSet{}
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		url, ok := e.CanonicalURL()
		if !ok {
			continue
		}
		if _, dup := seen[url]; dup {
			logger.Info("duplicate entry", "id", e.ID, "title", e.Title, "url", url)
			ids.Add(e.ID)
			continue
		}
		seen[url] = struct{}{}
	}
	return ids
}
