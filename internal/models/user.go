package models

import (
	"time"
)

const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password,omitempty"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Sanitized returns a copy safe to hand to callers: the password hash is
// never exposed outside the identity service.
func (u User) Sanitized() User {
	u.PasswordHash = ""
	return u
}
