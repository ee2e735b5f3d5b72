// internal/feedly/types.go
package feedly

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultBaseURL is the Feedly cloud API root.
const DefaultBaseURL = "https://cloud.feedly.com"

// MaxStreamCount is the largest page the streams endpoint will return.
const MaxStreamCount = 1000

// ErrMissingField reports a 2xx response that lacked a required JSON field.
var ErrMissingField = errors.New("response missing required field")

type EntryID string

type Link struct {
	Href string `json:"href"`
	Type string `json:"type,omitempty"`
}

type Entry struct {
	ID        EntryID `json:"id"`
	Title     string  `json:"title,omitempty"`
	Alternate []Link  `json:"alternate,omitempty"`
}

// CanonicalURL returns the href of the first alternate link, if any.
func (e Entry) CanonicalURL() (string, bool) {
	if len(e.Alternate) == 0 {
		return "", false
	}
	return e.Alternate[0].Href, true
}

type Profile struct {
	ID       string `json:"id"`
	Email    string `json:"email,omitempty"`
	FullName string `json:"fullName,omitempty"`
}

type StreamQuery struct {
	StreamID   string
	Count      int
	UnreadOnly bool
}

// GlobalAllStream is the stream holding every entry of every category the user follows.
func GlobalAllStream(userID string) string {
	return "user/" + userID + "/category/global.all"
}

// MarkResponse is the raw outcome of a markers call. Feedly returns an empty
// body on success; callers only log it.
type MarkResponse struct {
	StatusCode int
	Body       string
}

// OK reports whether the marker call returned a 2xx status.
func (m MarkResponse) OK() bool {
	return m.StatusCode >= 200 && m.StatusCode < 300
}

// APIError is a non-2xx answer from the Feedly API.
type APIError struct {
	Op         string
	StatusCode int
	ErrorID    string
	Message    string
	Body       string
}

func (e *APIError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "feedly %s: status %d", e.Op, e.StatusCode)
	if e.Message != "" {
		fmt.Fprintf(&b, ": %s", e.Message)
	}
	if e.ErrorID != "" {
		fmt.Fprintf(&b, " (errorId %s)", e.ErrorID)
	}
	return b.String()
}
