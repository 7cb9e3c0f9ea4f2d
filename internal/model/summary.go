package model

import "time"

// Summary is the rolling digest of everything at or below HighWaterMark.
// At most one exists per thread and it is only ever replaced wholesale.
type Summary struct {
	ThreadID      int64     `json:"thread_id,string"`
	Text          string    `json:"summary"`
	HighWaterMark int64     `json:"high_water_mark"`
	UpdatedAt     time.Time `json:"updated_at"`
}
