package model

import (
	"time"

	"github.com/google/uuid"
)

// Session is server-persisted proof of authentication keyed by an opaque
// token. Expired rows are excluded by comparison at lookup; there is no
// reaper, so the table grows until garbage-collected externally.
type Session struct {
	Token     string    `db:"token" json:"token"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	ExpiresAt time.Time `db:"expires_at" json:"expires_at"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Expired reports whether the session is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
