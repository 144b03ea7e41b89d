package google

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"

	"golang.org/x/oauth2"
	googleauth "golang.org/x/oauth2/google"
	people "google.golang.org/api/people/v1"
)

// ErrClientSecretMissing means no OAuth client credentials are available from
// any configured source.
var ErrClientSecretMissing = errors.New("google OAuth client secret not configured")

// Only read-only contacts access is requested.
var scopes = []string{people.ContactsReadonlyScope}

// ClientSecret locates the OAuth client credentials. An explicit ID/Secret
// pair takes precedence; otherwise File must point at a client_secret.json
// downloaded from the Google Cloud Console.
type ClientSecret struct {
	ID     string
	Secret string
	File   string
}

// Config builds the oauth2 configuration from the client secret source.
func (cs ClientSecret) Config() (*oauth2.Config, error) {
	if cs.ID != "" && cs.Secret != "" {
		return &oauth2.Config{
			ClientID:     cs.ID,
			ClientSecret: cs.Secret,
			Scopes:       scopes,
			Endpoint:     googleauth.Endpoint,
		}, nil
	}
	data, err := os.ReadFile(cs.File)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: download OAuth client credentials from the Google Cloud Console and save them as %s, or set google.client_id and google.client_secret in the config file or the GOOGLE_CLIENT_ID / GOOGLE_CLIENT_SECRET env vars", ErrClientSecretMissing, cs.File)
		}
		return nil, fmt.Errorf("failed to read client secret file: %w", err)
	}
	conf, err := googleauth.ConfigFromJSON(data, scopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse client secret file %s: %w", cs.File, err)
	}
	return conf, nil
}

// authorize runs the interactive authorization-code flow: it starts a
// loopback callback listener, directs the operator to the consent URL, and
// exchanges the returned code for a token.
func authorize(ctx context.Context, conf *oauth2.Config) (*oauth2.Token, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("failed to start callback server: %w", err)
	}
	port := listener.Addr().(*net.TCPAddr).Port
	conf.RedirectURL = fmt.Sprintf("http://127.0.0.1:%d", port)

	state, err := randomState()
	if err != nil {
		return nil, err
	}

	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/", callbackHandler(state, codeCh, errCh))

	server := &http.Server{Handler: mux}
	go server.Serve(listener)
	defer server.Shutdown(ctx)

	url := conf.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	fmt.Printf("\nOpen this URL in your browser to authorize contactsheet:\n\n  %s\n\nWaiting for authorization...\n", url)

	select {
	case code := <-codeCh:
		token, err := conf.Exchange(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("failed to exchange auth code: %w", err)
		}
		return token, nil
	case err := <-errCh:
		return nil, err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// randomState returns an unguessable state parameter for the authorization
// request.
func randomState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// callbackHandler accepts the authorization redirect, rejecting callbacks
// whose state does not match the one sent with the consent URL.
func callbackHandler(state string, codeCh chan<- string, errCh chan<- error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("state"); got != state {
			errCh <- fmt.Errorf("state mismatch in callback")
			fmt.Fprint(w, "Authorization failed. You can close this tab.")
			return
		}
		code := r.URL.Query().Get("code")
		if code == "" {
			errCh <- fmt.Errorf("no code in callback: %s", r.URL.Query().Get("error"))
			fmt.Fprint(w, "Authorization failed. You can close this tab.")
			return
		}
		codeCh <- code
		fmt.Fprint(w, "Authorization successful! You can close this tab.")
	}
}
