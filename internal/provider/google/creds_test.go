package google

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/wqyuan/contactsheet/internal/store"
	"golang.org/x/oauth2"
)

// countingStore wraps a TokenStore and counts Save calls.
type countingStore struct {
	inner store.TokenStore
	saves int
}

func (c *countingStore) Save(token *oauth2.Token) error {
	c.saves++
	return c.inner.Save(token)
}

func (c *countingStore) Load() (*oauth2.Token, error) {
	return c.inner.Load()
}

func newTestStore(t *testing.T) *countingStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "token.json")
	return &countingStore{inner: store.NewFileTokenStore(path)}
}

func TestAuthenticator_ValidCachedToken(t *testing.T) {
	tokens := newTestStore(t)
	cached := &oauth2.Token{
		AccessToken: "still-good",
		Expiry:      time.Now().Add(time.Hour),
	}
	if err := tokens.inner.Save(cached); err != nil {
		t.Fatal(err)
	}

	// No client secret configured: a valid cached token must not need one.
	a := NewAuthenticator(ClientSecret{File: "/nonexistent/client_secret.json"}, tokens)

	got, err := a.Token(context.Background())
	if err != nil {
		t.Fatalf("Token() error: %v", err)
	}
	if got.AccessToken != "still-good" {
		t.Errorf("AccessToken = %q, want the cached token", got.AccessToken)
	}
	if tokens.saves != 0 {
		t.Errorf("Save called %d times, want 0 for a valid cached token", tokens.saves)
	}
}

func TestAuthenticator_RefreshesExpiredToken(t *testing.T) {
	var refreshCalls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		refreshCalls++
		if err := r.ParseForm(); err != nil {
			t.Errorf("failed to parse token request form: %v", err)
		}
		if got := r.Form.Get("grant_type"); got != "refresh_token" && got != "" {
			t.Errorf("grant_type = %q, want refresh_token", got)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "fresh-token",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	}))
	defer srv.Close()

	tokens := newTestStore(t)
	expired := &oauth2.Token{
		AccessToken:  "stale",
		RefreshToken: "refresh-me",
		Expiry:       time.Now().Add(-time.Hour),
	}
	if err := tokens.inner.Save(expired); err != nil {
		t.Fatal(err)
	}

	a := NewAuthenticator(ClientSecret{ID: "client-id", Secret: "client-secret"}, tokens)
	a.endpoint = oauth2.Endpoint{
		AuthURL:  srv.URL + "/auth",
		TokenURL: srv.URL + "/token",
	}

	got, err := a.Token(context.Background())
	if err != nil {
		t.Fatalf("Token() error: %v", err)
	}
	if got.AccessToken != "fresh-token" {
		t.Errorf("AccessToken = %q, want %q", got.AccessToken, "fresh-token")
	}
	if refreshCalls != 1 {
		t.Errorf("refresh endpoint called %d times, want exactly 1", refreshCalls)
	}
	if tokens.saves != 1 {
		t.Errorf("Save called %d times, want exactly 1", tokens.saves)
	}

	// The refresh response omitted a refresh token; the cached one must
	// survive into the persisted credential.
	persisted, err := tokens.inner.Load()
	if err != nil {
		t.Fatal(err)
	}
	if persisted.RefreshToken != "refresh-me" {
		t.Errorf("persisted RefreshToken = %q, want the original carried forward", persisted.RefreshToken)
	}
	if persisted.AccessToken != "fresh-token" {
		t.Errorf("persisted AccessToken = %q, want %q", persisted.AccessToken, "fresh-token")
	}
}

func TestAuthenticator_RefreshFailureIsFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{"error": "invalid_grant"})
	}))
	defer srv.Close()

	tokens := newTestStore(t)
	expired := &oauth2.Token{
		AccessToken:  "stale",
		RefreshToken: "revoked",
		Expiry:       time.Now().Add(-time.Hour),
	}
	if err := tokens.inner.Save(expired); err != nil {
		t.Fatal(err)
	}

	a := NewAuthenticator(ClientSecret{ID: "client-id", Secret: "client-secret"}, tokens)
	a.endpoint = oauth2.Endpoint{
		AuthURL:  srv.URL + "/auth",
		TokenURL: srv.URL + "/token",
	}

	if _, err := a.Token(context.Background()); err == nil {
		t.Fatal("Token() should fail when the refresh exchange is rejected")
	}
	if tokens.saves != 0 {
		t.Errorf("Save called %d times after failed refresh, want 0", tokens.saves)
	}
}

func TestAuthenticator_RefreshWithoutClientSecret(t *testing.T) {
	tokens := newTestStore(t)
	expired := &oauth2.Token{
		AccessToken:  "stale",
		RefreshToken: "refresh-me",
		Expiry:       time.Now().Add(-time.Hour),
	}
	if err := tokens.inner.Save(expired); err != nil {
		t.Fatal(err)
	}

	a := NewAuthenticator(ClientSecret{File: filepath.Join(t.TempDir(), "absent.json")}, tokens)

	_, err := a.Token(context.Background())
	if !errors.Is(err, ErrClientSecretMissing) {
		t.Fatalf("Token() error = %v, want ErrClientSecretMissing", err)
	}
}

func TestClientSecret_Config(t *testing.T) {
	t.Run("explicit id and secret", func(t *testing.T) {
		conf, err := ClientSecret{ID: "id", Secret: "sec"}.Config()
		if err != nil {
			t.Fatalf("Config() error: %v", err)
		}
		if conf.ClientID != "id" || conf.ClientSecret != "sec" {
			t.Errorf("Config() = %q/%q, want id/sec", conf.ClientID, conf.ClientSecret)
		}
		if len(conf.Scopes) != 1 {
			t.Errorf("Scopes = %v, want exactly the read-only contacts scope", conf.Scopes)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "client_secret.json")
		_, err := ClientSecret{File: path}.Config()
		if !errors.Is(err, ErrClientSecretMissing) {
			t.Fatalf("Config() error = %v, want ErrClientSecretMissing", err)
		}
		// The error must name the expected path so the operator knows
		// where to put the file.
		if got := err.Error(); !strings.Contains(got, path) {
			t.Errorf("error %q does not name the expected file path %q", got, path)
		}
	})
}
