package domain

import "time"

// DefaultSessionTTL is how long a session stays valid after login.
const DefaultSessionTTL = time.Hour

// Session binds an opaque token to a user. The token doubles as the document id.
type Session struct {
	Token     string    `json:"token" bson:"_id"`
	UserID    string    `json:"userId" bson:"userId"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// Expired reports whether the session is strictly older than ttl at now.
func (s *Session) Expired(now time.Time, ttl time.Duration) bool {
	return now.Sub(s.CreatedAt) > ttl
}
