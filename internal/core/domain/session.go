package domain

import "time"

// Session backs the browser surface. It lives in the cache store with a
// TTL matching ExpiresAt; the API surface uses JWT instead.
type Session struct {
	ID        string    `json:"id"`
	UserID    int       `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
