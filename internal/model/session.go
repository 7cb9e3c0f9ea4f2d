package model

import "time"

// Session is a logged-in student within a class.
type Session struct {
	ID        int64     `json:"id,string"`
	Class     string    `json:"class"`
	Nickname  string    `json:"nickname"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
