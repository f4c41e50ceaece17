package domain

import "time"

// Session is a server-side login session. The token is opaque and unique;
// multiple concurrent sessions per staff are permitted.
type Session struct {
	ID        string
	StaffID   string
	Token     string
	UserAgent string
	IPAddress string
	ExpiresAt time.Time
	Valid     bool
	CreatedAt time.Time
}

// Active reports whether the session may still authenticate requests at the
// given instant.
func (s *Session) Active(now time.Time) bool {
	return s.Valid && now.Before(s.ExpiresAt)
}
