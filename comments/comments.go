// Package comments holds the read-only comment model fetched per task.
package comments

import "time"

// Comment is a note attached to a task. Comments are only ever read by this
// client, never created or mutated.
type Comment struct {
	ID       string    `json:"id"`
	TaskID   string    `json:"task_id"`
	Content  string    `json:"content"`
	PostedAt time.Time `json:"posted_at"`
}
