package models

import (
	"time"
)

// Session is the singleton login session. It always satisfies
// ExpiresAt == LoginAt + the configured TTL.
type Session struct {
	UserID    string    `json:"userId"`
	Role      string    `json:"role"`
	LoginAt   time.Time `json:"loginAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (s Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
