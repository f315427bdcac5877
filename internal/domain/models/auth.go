package models

import "time"

// Session is what the CLI keeps between invocations, the equivalent of the
// dashboard's token in local storage.
type Session struct {
	Token     string     `json:"token"`
	Email     string     `json:"email"`
	Name      string     `json:"name,omitempty"`
	IssuedAt  time.Time  `json:"issued_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

type AdminUser struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

type LoginResult struct {
	Token string    `json:"token"`
	User  AdminUser `json:"user"`
}
