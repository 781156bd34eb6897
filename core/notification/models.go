package notification

import "time"

// Notification is an admin-facing event record, created when a student opens
// a help order and cleared by marking it read.
type Notification struct {
	ID          int       `json:"id"`
	Content     string    `json:"content"`
	HelpOrderID int       `json:"helporder"`
	StudentID   int       `json:"student"`
	Read        bool      `json:"read"`
	CreatedAt   time.Time `json:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at"` // UTC
}
