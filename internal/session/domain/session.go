package domain

import "time"

// Session is the access/refresh token pair issued for a principal after a
// completed handshake. Sessions are replaced, never mutated: an expired
// session stays in the store untouched until a fresh one overwrites it.
type Session struct {
	AccessToken  string
	RefreshToken string
	ValidUntil   time.Time
}

// Usable reports whether the session can still authorize API calls at the
// given instant.
func (s Session) Usable(now time.Time) bool {
	return now.Before(s.ValidUntil)
}
