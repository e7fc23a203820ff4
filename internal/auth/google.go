package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

var (
	// ErrAuthExpired indicates the stored token can no longer be refreshed
	ErrAuthExpired = errors.New("stored credentials are expired and cannot be refreshed")
	// ErrScopeInsufficient indicates the stored token was minted for narrower
	// scopes than the caller requires
	ErrScopeInsufficient = errors.New("stored credentials do not cover the required scopes")
)

// Gmail and Workspace scopes requested by the three binaries
const (
	ScopeGmailModify      = "https://www.googleapis.com/auth/gmail.modify"
	ScopeGmailSend        = "https://www.googleapis.com/auth/gmail.send"
	ScopeCalendarReadonly = "https://www.googleapis.com/auth/calendar.readonly"
	ScopeDriveReadonly    = "https://www.googleapis.com/auth/drive.readonly"
)

// storedToken is the on-disk token format written by the credential setup tool
type storedToken struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	TokenType    string   `json:"token_type"`
	Expiry       string   `json:"expiry,omitempty"`
	Scopes       []string `json:"scopes,omitempty"`
}

// Credential is an authenticated Google identity bound to a scope set
type Credential struct {
	source oauth2.TokenSource
	scopes []string
}

// Authenticate loads the OAuth client configuration and a previously stored
// token, verifying the token covers the requested scopes. It is phase one of
// the two-phase init; phase two is handing Client() to a service constructor.
func Authenticate(ctx context.Context, credentialsPath, tokenPath string, scopes ...string) (*Credential, error) {
	secret, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read client credentials: %w", err)
	}
	conf, err := google.ConfigFromJSON(secret, scopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse client credentials: %w", err)
	}

	raw, err := os.ReadFile(tokenPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read token file %s: %w", tokenPath, err)
	}
	var stored storedToken
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, fmt.Errorf("failed to parse token file %s: %w", tokenPath, err)
	}

	if len(stored.Scopes) > 0 && !coversScopes(stored.Scopes, scopes) {
		return nil, fmt.Errorf("token %s: %w", tokenPath, ErrScopeInsufficient)
	}
	if stored.RefreshToken == "" && stored.AccessToken == "" {
		return nil, fmt.Errorf("token %s: %w", tokenPath, ErrAuthExpired)
	}

	tok := &oauth2.Token{
		AccessToken:  stored.AccessToken,
		RefreshToken: stored.RefreshToken,
		TokenType:    stored.TokenType,
	}
	return &Credential{
		source: conf.TokenSource(ctx, tok),
		scopes: scopes,
	}, nil
}

// TokenSource returns the refreshing token source for this credential
func (c *Credential) TokenSource() oauth2.TokenSource {
	return c.source
}

// Client returns an HTTP client that authenticates requests with this credential
func (c *Credential) Client(ctx context.Context) *http.Client {
	return oauth2.NewClient(ctx, c.source)
}

// Scopes returns the scope set this credential was authenticated for
func (c *Credential) Scopes() []string {
	return c.scopes
}

func coversScopes(have, want []string) bool {
	granted := make(map[string]struct{}, len(have))
	for _, s := range have {
		for _, part := range strings.Fields(s) {
			granted[part] = struct{}{}
		}
	}
	for _, s := range want {
		if _, ok := granted[s]; !ok {
			return false
		}
	}
	return true
}
