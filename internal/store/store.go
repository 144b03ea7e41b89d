package store

import "golang.org/x/oauth2"

// TokenStore persists the OAuth2 credential between runs.
type TokenStore interface {
	// Save overwrites the cached token.
	Save(token *oauth2.Token) error
	// Load returns the cached token, or an error if none is usable.
	Load() (*oauth2.Token, error)
}
