package model

import "time"

// Notification is a client-side entry synthesized when a new lost report is
// observed. It is never persisted; ID is the triggering report's ID.
type Notification struct {
	ID      int64     `json:"id"`
	Message string    `json:"message"`
	Date    time.Time `json:"date"`
	Read    bool      `json:"read"`
}
