package dto

import (
	"net/http"
	"time"
)

// TokenInfo represents active credential or session data.
// It supports both header-based tokens and cookie-based sessions.
type TokenInfo struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	// TokenType is inferred if not provided (default "Bearer").
	TokenType string `json:"token_type,omitempty"`
	// Expiry time. Optional, empty for cookie-only sessions.
	Expiry  time.Time      `json:"expires_at,omitempty"`
	Cookies []*http.Cookie `json:"-"`
}

// IsExpired returns true if the token is close to or past expiry.
func (t *TokenInfo) IsExpired(buffer time.Duration) bool {
	if t.AccessToken == "" && len(t.Cookies) == 0 {
		return true
	}
	if t.Expiry.IsZero() {
		// Sessions with no expiry are considered indefinitely valid
		return false
	}
	return time.Now().After(t.Expiry.Add(-buffer))
}

// IsZero reports whether no credential of any kind is held.
func (t *TokenInfo) IsZero() bool {
	return t.AccessToken == "" && t.RefreshToken == "" && len(t.Cookies) == 0
}
