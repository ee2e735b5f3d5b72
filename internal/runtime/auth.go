// internal/runtime/auth.go
package runtime

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/oauth2"

	"github.com/joshsymonds/feedsweep/internal/config"
	"github.com/joshsymonds/feedsweep/internal/feedly"
)

// ClientID is the public client id Feedly issues refresh tokens against.
const ClientID = "feedly"

// Endpoint returns the Feedly token endpoint rooted at baseURL. Feedly wants
// the client credentials in the form body, not in a basic auth header.
func Endpoint(baseURL string) oauth2.Endpoint {
	return oauth2.Endpoint{
		TokenURL:  strings.TrimRight(baseURL, "/") + "/v3/auth/token",
		AuthStyle: oauth2.AuthStyleInParams,
	}
}

// Authenticate exchanges the long-lived refresh token for an access token.
// A nil httpClient uses http.DefaultClient.
func Authenticate(
	ctx context.Context,
	creds config.Credentials,
	baseURL string,
	httpClient *http.Client,
) (*oauth2.Token, error) {
	conf := &oauth2.Config{
		ClientID:     ClientID,
		ClientSecret: creds.ClientSecret,
		Endpoint:     Endpoint(baseURL),
	}
	if httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)
	}
	tok, err := conf.TokenSource(ctx, &oauth2.Token{RefreshToken: creds.RefreshToken}).Token()
	if err != nil {
		var rerr *oauth2.RetrieveError
		if errors.As(err, &rerr) && rerr.Response != nil {
			return nil, fmt.Errorf("refresh access token: status %d: %w", rerr.Response.StatusCode, err)
		}
		return nil, fmt.Errorf("refresh access token: %w", err)
	}
	return tok, nil
}

// NewFeedlyClient returns an API client that sends tok as a bearer token on
// every request. The transport of base (or the default transport) carries
// the traffic.
func NewFeedlyClient(ctx context.Context, baseURL string, tok *oauth2.Token, base *http.Client) feedly.Client {
	if base != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, base)
	}
	authed := oauth2.NewClient(ctx, oauth2.StaticTokenSource(tok))
	return NewFeedlyAPIClient(baseURL, authed)
}
