package domain

import "time"

// Draft is the last saved content of an editing surface
type Draft struct {
	SurfaceID    string    `json:"surface_id"`
	Content      string    `json:"content"`
	CursorOffset int       `json:"cursor_offset"`
	UpdatedAt    time.Time `json:"updated_at"`
}
