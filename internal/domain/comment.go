package domain

import "time"

// TaskComment is a comment attached to a task. Moderation soft-deletes the
// comment so the audit trail survives.
type TaskComment struct {
	ID        string
	TaskID    string
	AuthorID  string
	Body      string
	CreatedAt time.Time
	DeletedAt *time.Time
	DeletedBy *string
}

// IsDeleted reports whether the comment was removed by a moderator.
func (c *TaskComment) IsDeleted() bool {
	return c.DeletedAt != nil
}
