package models

import "time"

// Task is a follow-up item attached to a loan account by its fiscal ID.
type Task struct {
	ID          int64      `json:"id"`
	Description string     `json:"description"`
	Completed   bool       `json:"completed"`
	FiscalID    string     `json:"fiscal_id"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}
