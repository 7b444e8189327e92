package model

import "time"

// Actor is the identity on whose behalf an operation runs.
type Actor struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// Authenticated reports whether the actor carries an identity at all.
func (a Actor) Authenticated() bool {
	return a.ID != ""
}

// Session is the single persisted proof of authentication.
type Session struct {
	Token     string     `json:"token"`
	User      PublicUser `json:"user"`
	ExpiresAt time.Time  `json:"expires_at"`
}

// ValidAt reports whether the session is still valid at now.
func (s Session) ValidAt(now time.Time) bool {
	return now.Before(s.ExpiresAt)
}
