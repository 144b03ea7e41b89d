package google

import (
	"context"
	"fmt"

	"github.com/wqyuan/contactsheet/internal/store"
	"golang.org/x/oauth2"
)

// Authenticator produces a valid OAuth2 credential. It owns the token cache:
// every new or refreshed token is persisted before it is handed out.
type Authenticator struct {
	secret ClientSecret
	tokens store.TokenStore

	// endpoint overrides the Google OAuth endpoint in tests.
	endpoint oauth2.Endpoint
}

// NewAuthenticator returns an Authenticator backed by the given client
// secret source and token store.
func NewAuthenticator(secret ClientSecret, tokens store.TokenStore) *Authenticator {
	return &Authenticator{secret: secret, tokens: tokens}
}

// Token returns a usable credential. The cached token is returned as-is when
// still valid; an expired token carrying a refresh token is refreshed and
// re-persisted; otherwise the interactive authorization flow runs.
func (a *Authenticator) Token(ctx context.Context) (*oauth2.Token, error) {
	cached, err := a.tokens.Load()
	if err == nil {
		if cached.Valid() {
			return cached, nil
		}
		if cached.RefreshToken != "" {
			return a.refresh(ctx, cached)
		}
	}
	return a.Authorize(ctx)
}

// Authorize runs the interactive flow and persists the resulting token.
func (a *Authenticator) Authorize(ctx context.Context) (*oauth2.Token, error) {
	conf, err := a.oauthConfig()
	if err != nil {
		return nil, err
	}
	token, err := authorize(ctx, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to authorize: %w", err)
	}
	if err := a.tokens.Save(token); err != nil {
		return nil, fmt.Errorf("failed to save token: %w", err)
	}
	return token, nil
}

func (a *Authenticator) refresh(ctx context.Context, cached *oauth2.Token) (*oauth2.Token, error) {
	conf, err := a.oauthConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to refresh credential: %w", err)
	}
	fresh, err := conf.TokenSource(ctx, cached).Token()
	if err != nil {
		return nil, fmt.Errorf("failed to refresh credential: %w", err)
	}
	// Google often omits the refresh token on refresh responses.
	if fresh.RefreshToken == "" {
		fresh.RefreshToken = cached.RefreshToken
	}
	if err := a.tokens.Save(fresh); err != nil {
		return nil, fmt.Errorf("failed to save refreshed token: %w", err)
	}
	return fresh, nil
}

func (a *Authenticator) oauthConfig() (*oauth2.Config, error) {
	conf, err := a.secret.Config()
	if err != nil {
		return nil, err
	}
	if a.endpoint.TokenURL != "" {
		conf.Endpoint = a.endpoint
	}
	return conf, nil
}
