// internal/runtime/feedlyapi.go — adapts the Feedly REST API to our small interface
package runtime

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/joshsymonds/feedsweep/internal/feedly"
)

type feedlyClient struct {
	base string
	http *http.Client
}

// NewFeedlyAPIClient talks to baseURL through httpClient, which is expected to
// authorize requests itself (see NewFeedlyClient).
func NewFeedlyAPIClient(baseURL string, httpClient *http.Client) *feedlyClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &feedlyClient{base: strings.TrimRight(baseURL, "/"), http: httpClient}
}

func (f *feedlyClient) Profile(ctx context.Context) (feedly.Profile, error) {
	var p feedly.Profile
	if err := f.getJSON(ctx, "profile", "/v3/profile", nil, &p); err != nil {
		return feedly.Profile{}, err
	}
	if p.ID == "" {
		return feedly.Profile{}, fmt.Errorf("feedly profile: id: %w", feedly.ErrMissingField)
	}
	return p, nil
}

type streamContents struct {
	ID           string          `json:"id"`
	Continuation string          `json:"continuation,omitempty"`
	Items        *[]feedly.Entry `json:"items"`
}

func (f *feedlyClient) StreamContents(ctx context.Context, q feedly.StreamQuery) ([]feedly.Entry, error) {
	params := url.Values{}
	params.Set("streamId", q.StreamID)
	if q.Count > 0 {
		params.Set("count", strconv.Itoa(q.Count))
	}
	if q.UnreadOnly {
		params.Set("unreadOnly", "true")
	}
	var res streamContents
	if err := f.getJSON(ctx, "stream contents", "/v3/streams/contents", params, &res); err != nil {
		return nil, err
	}
	if res.Items == nil {
		return nil, fmt.Errorf("feedly stream contents: items: %w", feedly.ErrMissingField)
	}
	return *res.Items, nil
}

type markerRequest struct {
	Type     string           `json:"type"`
	Action   string           `json:"action"`
	EntryIDs []feedly.EntryID `json:"entryIds"`
}

// MarkAsRead only fails on transport errors; the status is left to the caller.
func (f *feedlyClient) MarkAsRead(ctx context.Context, ids []feedly.EntryID) (feedly.MarkResponse, error) {
	payload, err := json.Marshal(markerRequest{Type: "entries", Action: "markAsRead", EntryIDs: ids})
	if err != nil {
		return feedly.MarkResponse{}, fmt.Errorf("encode markers request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.base+"/v3/markers", bytes.NewReader(payload))
	if err != nil {
		return feedly.MarkResponse{}, fmt.Errorf("build markers request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := f.http.Do(req)
	if err != nil {
		return feedly.MarkResponse{}, fmt.Errorf("feedly markers: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return feedly.MarkResponse{}, fmt.Errorf("read markers response: %w", err)
	}
	return feedly.MarkResponse{StatusCode: resp.StatusCode, Body: string(body)}, nil
}

func (f *feedlyClient) getJSON(ctx context.Context, op, path string, params url.Values, out any) error {
	u := f.base + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build %s request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := f.http.Do(req)
	if err != nil {
		return fmt.Errorf("feedly %s: %w", op, err)
	}
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s response: %w", op, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(op, resp.StatusCode, body)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s response: %w", op, err)
	}
	return nil
}

// Feedly reports failures as {"errorCode":401,"errorId":"...","errorMessage":"..."}.
type apiErrorBody struct {
	ErrorID      string `json:"errorId"`
	ErrorMessage string `json:"errorMessage"`
}

func newAPIError(op string, status int, body []byte) *feedly.APIError {
	apiErr := &feedly.APIError{Op: op, StatusCode: status, Body: string(body)}
	var eb apiErrorBody
	if json.Unmarshal(body, &eb) == nil {
		apiErr.ErrorID = eb.ErrorID
		apiErr.Message = eb.ErrorMessage
	}
	return apiErr
}

var _ feedly.Client = (*feedlyClient)(nil)
