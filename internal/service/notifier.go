package service

import (
	"context"
	"log/slog"

	"github.com/festiplan/taskflow/internal/domain"
)

// Notifier hands transition notifications to the messaging collaborator.
// Emit is best-effort: callers log failures and never roll back on them.
type Notifier interface {
	Emit(ctx context.Context, notification domain.Notification) error
}

// LogNotifier writes notifications to the structured log. It stands in for
// the external email/messaging collaborator in deployments without one.
type LogNotifier struct{}

// NewLogNotifier creates a new LogNotifier.
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

// Emit logs the notification.
func (n *LogNotifier) Emit(_ context.Context, notification domain.Notification) error {
	slog.Info("notification emitted",
		"type", notification.Type,
		"task_id", notification.TaskID,
		"event_id", notification.EventID,
		"actor_id", notification.ActorID,
		"occurred_at", notification.OccurredAt,
	)
	return nil
}
