package model

import "time"

// DefaultThreadTitle is shown until the student renames the thread.
const DefaultThreadTitle = "새 채팅"

// Thread is an addressable conversation owned by one student (class + nickname).
type Thread struct {
	ID        int64     `json:"id,string"`
	Class     string    `json:"class"`
	Nickname  string    `json:"nickname"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OwnedBy reports whether the session's student owns this thread.
func (t Thread) OwnedBy(s Session) bool {
	return t.Class == s.Class && t.Nickname == s.Nickname
}
