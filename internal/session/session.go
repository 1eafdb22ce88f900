package session

import "time"

// Session binds an identity to a validity window. The token doubles as the
// store lookup key and the cookie value; the ID is a stable identifier for
// logs and audit trails.
type Session struct {
	ID          string    `json:"id"`
	Token       string    `json:"token"`
	UserID      string    `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at"`
	RefreshedAt time.Time `json:"refreshed_at"`
}

// Valid reports whether the session is still within its validity window.
// Validity is re-derived on every check rather than stored.
func (s *Session) Valid(now time.Time) bool {
	return s != nil && now.Before(s.ExpiresAt)
}

// NeedsRefresh reports whether the session aged past the refresh threshold.
func (s *Session) NeedsRefresh(now time.Time, updateAge time.Duration) bool {
	if s == nil || updateAge <= 0 {
		return false
	}
	return now.Sub(s.RefreshedAt) > updateAge
}
