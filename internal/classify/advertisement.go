package classify

import (
	"log/slog"
	"regexp"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/joshsymonds/feedsweep/internal/feedly"
)

// advertisementRe is matched against the upper-cased title, so it covers
// "pr:", "Ad:", "[pr]" and friends. Only the prefix is constrained.
var advertisementRe = regexp.MustCompile(`^(PR:|AD:|\[PR\])`)

// IsAdvertisement reports whether title carries a sponsored-content prefix.
func IsAdvertisement(title string) bool {
	if title == "" {
		return false
	}
	return advertisementRe.MatchString(cases.Upper(language.Und).String(title))
}

// Advertisements returns the ids of entries whose titles are marked as
// sponsored content. Entries without a title are ignored.
func Advertisements(entries []feedly.Entry, logger *slog.Logger) IDSet {
	logger = orDiscard(logger)
	ids := IDSet{}
	for _, e := range entries {
		if !IsAdvertisement(e.Title) {
			continue
		}
		logger.Info("advertisement entry", "id", e.ID, "title", e.Title)
		ids.Add(e.ID)
	}
	return ids
}

func orDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return logger
}
