package model

import (
	"time"
)

type User struct {
	Username string `json:"username"`
}

// Session is a logged-in user's server-side state, addressed by ID.
type Session struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
