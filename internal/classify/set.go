package classify

import (
	"sort"

	"github.com/joshsymonds/feedsweep/internal/feedly"
)

// IDSet is an unordered set of entry ids.
type IDSet map[feedly.EntryID]struct{}

func NewIDSet(ids ...feedly.EntryID) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

func (s IDSet) Add(id feedly.EntryID) { s[id] = struct{}{} }

func (s IDSet) Has(id feedly.EntryID) bool {
	_, ok := s[id]
	return ok
}

func (s IDSet) Len() int { return len(s) }

// Union returns a new set holding the members of s and every other set.
func (s IDSet) Union(others ...IDSet) IDSet {
	out := make(IDSet, len(s))
	for id := range s {
		out.Add(id)
	}
	for _, o := range others {
		for id := range o {
			out.Add(id)
		}
	}
	return out
}

// Sorted returns the members in lexical order so requests and logs are stable.
func (s IDSet) Sorted() []feedly.EntryID {
	out := make([]feedly.EntryID, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
