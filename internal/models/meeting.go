package models

import "time"

// Meeting is a playdate meeting scheduled against an approved like.
type Meeting struct {
	ID          int64
	LikeID      int64
	ScheduledBy int64 // guardian id
	Date        string
	Time        string
	Notes       string
	CreatedAt   time.Time
}
