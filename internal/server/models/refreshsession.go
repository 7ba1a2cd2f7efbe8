package models

import "time"

// RefreshSession is the durable record behind an issued refresh token,
// keyed by the token's jti claim. Rows are never deleted; a session is
// invalidated by flipping Revoked, and revocation is one-way.
type RefreshSession struct {
	ID        int64
	UserID    int64
	JTI       string
	Revoked   bool
	ExpiresAt time.Time
	CreatedAt time.Time
}

// ExpiredAt reports whether the session is past its expiry at the given
// instant. Expiry is a validity check only; expired rows stay in place.
func (s *RefreshSession) ExpiredAt(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
