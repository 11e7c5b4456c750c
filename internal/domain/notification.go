package domain

import "time"

// NotificationType identifies the transition that raised a notification.
type NotificationType string

const (
	NotificationTaskAssigned  NotificationType = "task_assigned"
	NotificationTaskSubmitted NotificationType = "task_submitted"
	NotificationTaskApproved  NotificationType = "task_approved"
	NotificationTaskRejected  NotificationType = "task_rejected"
)

// Notification is the fire-and-forget message handed to the messaging
// collaborator. Delivery failure never rolls back the task transition.
type Notification struct {
	Type       NotificationType
	TaskID     string
	EventID    string
	ActorID    string
	OccurredAt time.Time
}
