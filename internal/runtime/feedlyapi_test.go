package runtime

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"golang.org/x/oauth2"

	"github.com/joshsymonds/feedsweep/internal/feedly"
)

func newTestClient(t *testing.T, h http.HandlerFunc) feedly.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewFeedlyClient(context.Background(), srv.URL, &oauth2.Token{AccessToken: "tok"}, srv.Client())
}

func requireBearer(t *testing.T, r *http.Request) {
	t.Helper()
	if got := r.Header.Get("Authorization"); got != "Bearer tok" {
		t.Errorf("authorization header %q", got)
	}
}

func TestProfile(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requireBearer(t, r)
		if r.Method != http.MethodGet || r.URL.Path != "/v3/profile" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		_, _ = io.WriteString(w, `{"id":"c805fcbf-3acf-4302-a97e-d82f9d7c897f","email":"a@example.com","fullName":"A"}`)
	})
	p, err := client.Profile(context.Background())
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if p.ID != "c805fcbf-3acf-4302-a97e-d82f9d7c897f" || p.Email != "a@example.com" {
		t.Fatalf("profile %+v", p)
	}
}

func TestProfileMissingID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"email":"a@example.com"}`)
	})
	if _, err := client.Profile(context.Background()); !errors.Is(err, feedly.ErrMissingField) {
		t.Fatalf("expected ErrMissingField, got %v", err)
	}
}

func TestProfileAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"errorCode":401,"errorId":"ap3int-sv2.2024","errorMessage":"token expired"}`)
	})
	_, err := client.Profile(context.Background())
	var apiErr *feedly.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized || apiErr.Message != "token expired" || apiErr.ErrorID != "ap3int-sv2.2024" {
		t.Fatalf("api error %+v", apiErr)
	}
}

func TestStreamContents(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requireBearer(t, r)
		if r.URL.Path != "/v3/streams/contents" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("streamId") != "user/u1/category/global.all" || q.Get("count") != "1000" || q.Get("unreadOnly") != "true" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		_, _ = io.WriteString(w, `{"id":"user/u1/category/global.all","continuation":"next","items":[
			{"id":"e2","title":"Second","alternate":[{"href":"https://example.com/2","type":"text/html"}]},
			{"id":"e1","alternate":[]}
		]}`)
	})
	entries, err := client.StreamContents(context.Background(), feedly.StreamQuery{
		StreamID:   feedly.GlobalAllStream("u1"),
		Count:      feedly.MaxStreamCount,
		UnreadOnly: true,
	})
	if err != nil {
		t.Fatalf("stream contents: %v", err)
	}
	want := []feedly.Entry{
		{ID: "e2", Title: "Second", Alternate: []feedly.Link{{Href: "https://example.com/2", Type: "text/html"}}},
		{ID: "e1", Alternate: []feedly.Link{}},
	}
	if !reflect.DeepEqual(entries, want) {
		t.Fatalf("entries %+v", entries)
	}
}

func TestStreamContentsErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "missing-items", status: http.StatusOK, body: `{"id":"user/u1/category/global.all"}`},
		{name: "bad-json", status: http.StatusOK, body: `{"items":`},
		{name: "forbidden", status: http.StatusForbidden, body: `{"errorCode":403}`},
	}
	for _, tt := range tests {
		tc := tt
		t.Run(tc.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body)
			})
			if _, err := client.StreamContents(context.Background(), feedly.StreamQuery{StreamID: "s"}); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestMarkAsRead(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requireBearer(t, r)
		if r.Method != http.MethodPost || r.URL.Path != "/v3/markers" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type %q", ct)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		want := map[string]any{
			"type":     "entries",
			"action":   "markAsRead",
			"entryIds": []any{"e1", "e2"},
		}
		if !reflect.DeepEqual(body, want) {
			t.Errorf("body %v", body)
		}
	})
	resp, err := client.MarkAsRead(context.Background(), []feedly.EntryID{"e1", "e2"})
	if err != nil {
		t.Fatalf("mark: %v", err)
	}
	if !resp.OK() || resp.Body != "" {
		t.Fatalf("response %+v", resp)
	}
}

func TestMarkAsReadRejectedIsNotAnError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"errorCode":400,"errorMessage":"bad ids"}`)
	})
	resp, err := client.MarkAsRead(context.Background(), []feedly.EntryID{"x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.OK() || resp.StatusCode != http.StatusBadRequest || resp.Body == "" {
		t.Fatalf("response %+v", resp)
	}
}
