package splitwise

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"
)

// Authenticator drives the OAuth2 authorization-code flow against Splitwise.
type Authenticator struct {
	cfg oauth2.Config
}

func NewAuthenticator(clientID, clientSecret, redirectURL, authURL, tokenURL string) *Authenticator {
	return &Authenticator{cfg: oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Endpoint: oauth2.Endpoint{
			AuthURL:  authURL,
			TokenURL: tokenURL,
		},
	}}
}

// AuthorizationURL returns the URL the user must visit to grant access.
func (a *Authenticator) AuthorizationURL(state string) string {
	return a.cfg.AuthCodeURL(state)
}

// ExchangeCode swaps a callback authorization code for an access token.
func (a *Authenticator) ExchangeCode(ctx context.Context, code string) (string, error) {
	token, err := a.cfg.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("exchange authorization code: %w", err)
	}
	return token.AccessToken, nil
}

// CodeFromCallbackURL extracts the authorization code from a pasted
// callback URL.
func CodeFromCallbackURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("parse callback URL: %w", err)
	}
	code := u.Query().Get("code")
	if code == "" {
		return "", errors.New("authorization code not found in callback URL")
	}
	return code, nil
}

// HTTPClient returns an http.Client that attaches the bearer token to every
// request.
func HTTPClient(ctx context.Context, accessToken string) *http.Client {
	source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	return oauth2.NewClient(ctx, source)
}
