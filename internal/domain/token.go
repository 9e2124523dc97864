package domain

import "time"

// TokenPair represents the stored credential pair for a client session
type TokenPair struct {
	AccessToken      string    `json:"access_token"`
	RefreshToken     string    `json:"refresh_token"`
	TokenType        string    `json:"token_type"`
	ExpiresAt        time.Time `json:"expires_at"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at,omitempty"`
}

// IsExpired checks if the access token is expired or will expire within skew
func (tp TokenPair) IsExpired(skew time.Duration) bool {
	if tp.AccessToken == "" || tp.ExpiresAt.IsZero() {
		return true
	}
	return time.Now().Add(skew).After(tp.ExpiresAt)
}

// CanRefresh checks if the pair holds a usable refresh token. A zero
// RefreshExpiresAt means the refresh expiry is unknown and the token is
// assumed usable.
func (tp TokenPair) CanRefresh() bool {
	if tp.RefreshToken == "" {
		return false
	}
	if tp.RefreshExpiresAt.IsZero() {
		return true
	}
	return time.Now().Before(tp.RefreshExpiresAt)
}
