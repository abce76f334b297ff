package models

import "time"

// Session represents a server-side login session. The token is the opaque
// value held by the client cookie; everything else stays on the server.
type Session struct {
	Token string `gorm:"type:text;primaryKey"` // Opaque session token.

	AdminID  uint64 `gorm:"not null;index"`     // Authenticated admin ID.
	Username string `gorm:"type:text;not null"` // Username captured at login.

	ExpiresAt time.Time `gorm:"not null;index"`          // Hard expiry; the row is dead after this instant.
	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Login timestamp.
}

// Expired reports whether the session is past its expiry at the given time.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
