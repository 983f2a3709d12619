// Package csrf guards form submissions with a per-session token. Each session
// has exactly one live token; it is created on first use, compared in
// constant time, and replaced after every accepted submission.
package csrf

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
)

// TokenBytes is the amount of randomness in a token.
const TokenBytes = 32

// FieldName is the form field carrying the token.
const FieldName = "csrf_token"

// TokenStore holds the single token slot of a session.
type TokenStore interface {
	CSRFToken() string
	SetCSRFToken(token string)
}

// Guard issues and checks tokens for one session.
type Guard struct {
	store TokenStore
}

// New returns a guard over store.
func New(store TokenStore) *Guard {
	return &Guard{store: store}
}

// EnsureToken returns the stored token, creating one if the slot is empty.
func (g *Guard) EnsureToken() (string, error) {
	if tok := g.store.CSRFToken(); tok != "" {
		return tok, nil
	}
	return g.Rotate()
}

// Validate reports whether candidate equals the stored token. An empty
// candidate or an empty slot is never valid.
func (g *Guard) Validate(candidate string) bool {
	stored := g.store.CSRFToken()
	if stored == "" || candidate == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(candidate)) == 1
}

// Rotate replaces the stored token and returns the new one.
func (g *Guard) Rotate() (string, error) {
	tok, err := NewToken()
	if err != nil {
		return "", err
	}
	g.store.SetCSRFToken(tok)
	return tok, nil
}

// NewToken returns a fresh random token encoded as unpadded base64url.
func NewToken() (string, error) {
	b := make([]byte, TokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate csrf token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
