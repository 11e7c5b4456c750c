package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/festiplan/taskflow/internal/domain"
	"github.com/festiplan/taskflow/internal/repository"
)

// WorkflowService orchestrates the validation state machine. Every
// transition runs in its own transaction under the task's row lock, with an
// optimistic status predicate on the write, so two racing transitions
// resolve to exactly one winner and one ErrConflict.
type WorkflowService struct {
	pool           *pgxpool.Pool
	taskRepo       *repository.TaskRepository
	assignmentRepo *repository.AssignmentRepository
	eventRepo      *repository.EventRepository
	notifier       Notifier
	validator      *Validator
}

// NewWorkflowService creates a new WorkflowService.
func NewWorkflowService(
	pool *pgxpool.Pool,
	taskRepo *repository.TaskRepository,
	assignmentRepo *repository.AssignmentRepository,
	eventRepo *repository.EventRepository,
	notifier Notifier,
) *WorkflowService {
	return &WorkflowService{
		pool:           pool,
		taskRepo:       taskRepo,
		assignmentRepo: assignmentRepo,
		eventRepo:      eventRepo,
		notifier:       notifier,
		validator:      NewValidator(),
	}
}

// StartWork moves a task from a_faire to en_cours and records the start date.
// The task must already have an assignee.
func (s *WorkflowService) StartWork(ctx context.Context, taskID, actorID string) (*domain.Task, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer rollback(ctx, tx)

	task, err := s.taskRepo.GetByIDForUpdate(ctx, tx, taskID)
	if err != nil {
		return nil, err
	}

	if err := s.validator.CanStart(task); err != nil {
		return nil, err
	}

	now := time.Now()
	err = s.taskRepo.UpdateStatus(ctx, tx, taskID,
		domain.TaskStatusTodo, domain.TaskStatusInProgress,
		repository.StatusPatch{StartDate: &now},
	)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	slog.Info("task started",
		"task_id", taskID,
		"actor_id", actorID,
	)

	return s.taskRepo.GetByID(ctx, taskID)
}

// Submit completes the work phase. Tasks requiring validation move to
// en_attente_validation; the rest complete directly as terminee.
func (s *WorkflowService) Submit(ctx context.Context, taskID, actorID string) (*domain.Task, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer rollback(ctx, tx)

	task, err := s.taskRepo.GetByIDForUpdate(ctx, tx, taskID)
	if err != nil {
		return nil, err
	}

	if err := s.validator.CanSubmit(task); err != nil {
		return nil, err
	}

	newStatus := domain.TaskStatusAwaitingValidation
	patch := repository.StatusPatch{}
	if !task.ValidationRequired {
		newStatus = domain.TaskStatusCompleted
		now := time.Now()
		patch.CompletionDate = &now
	}

	err = s.taskRepo.UpdateStatus(ctx, tx, taskID,
		domain.TaskStatusInProgress, newStatus, patch)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	slog.Info("task submitted",
		"task_id", taskID,
		"actor_id", actorID,
		"new_status", newStatus,
	)

	s.emit(ctx, domain.NotificationTaskSubmitted, task, actorID)

	return s.taskRepo.GetByID(ctx, taskID)
}

// Approve validates a submitted task. The caller must hold an active
// assignment with canValidateTasks on the task's event; the check runs fresh
// on every attempt so a revocation takes effect immediately.
func (s *WorkflowService) Approve(ctx context.Context, taskID, moderatorID, notes string) (*domain.Task, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer rollback(ctx, tx)

	task, err := s.taskRepo.GetByIDForUpdate(ctx, tx, taskID)
	if err != nil {
		return nil, err
	}

	if err := s.validator.CanValidate(task); err != nil {
		return nil, err
	}

	if err := s.requireValidator(ctx, task.EventID, moderatorID); err != nil {
		return nil, err
	}

	now := time.Now()
	progress := 100
	err = s.taskRepo.UpdateStatus(ctx, tx, taskID,
		domain.TaskStatusAwaitingValidation, domain.TaskStatusValidated,
		repository.StatusPatch{
			ProgressPct:     &progress,
			CompletionDate:  &now,
			ValidatedBy:     &moderatorID,
			ValidatedAt:     &now,
			ValidationNotes: &notes,
		},
	)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	slog.Info("task approved",
		"task_id", taskID,
		"moderator_id", moderatorID,
	)

	s.emit(ctx, domain.NotificationTaskApproved, task, moderatorID)

	return s.taskRepo.GetByID(ctx, taskID)
}

// Reject sends a submitted task back with a reason. Progress drops by the
// fixed penalty, floored at 0.
func (s *WorkflowService) Reject(ctx context.Context, taskID, moderatorID, reason string) (*domain.Task, error) {
	if reason == "" {
		return nil, fmt.Errorf("%w: rejection reason is required", domain.ErrValidation)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer rollback(ctx, tx)

	task, err := s.taskRepo.GetByIDForUpdate(ctx, tx, taskID)
	if err != nil {
		return nil, err
	}

	if err := s.validator.CanValidate(task); err != nil {
		return nil, err
	}

	if err := s.requireValidator(ctx, task.EventID, moderatorID); err != nil {
		return nil, err
	}

	now := time.Now()
	progress := task.ProgressPct - domain.RejectionProgressPenalty
	if progress < 0 {
		progress = 0
	}

	err = s.taskRepo.UpdateStatus(ctx, tx, taskID,
		domain.TaskStatusAwaitingValidation, domain.TaskStatusRejected,
		repository.StatusPatch{
			ProgressPct:     &progress,
			ValidatedBy:     &moderatorID,
			ValidatedAt:     &now,
			RejectionReason: &reason,
		},
	)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	slog.Info("task rejected",
		"task_id", taskID,
		"moderator_id", moderatorID,
		"progress_pct", progress,
	)

	s.emit(ctx, domain.NotificationTaskRejected, task, moderatorID)

	return s.taskRepo.GetByID(ctx, taskID)
}

// Resume returns a rejected task to en_cours for rework.
func (s *WorkflowService) Resume(ctx context.Context, taskID, actorID string) (*domain.Task, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer rollback(ctx, tx)

	task, err := s.taskRepo.GetByIDForUpdate(ctx, tx, taskID)
	if err != nil {
		return nil, err
	}

	if err := s.validator.CanResume(task); err != nil {
		return nil, err
	}

	err = s.taskRepo.UpdateStatus(ctx, tx, taskID,
		domain.TaskStatusRejected, domain.TaskStatusInProgress,
		repository.StatusPatch{},
	)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	slog.Info("task resumed",
		"task_id", taskID,
		"actor_id", actorID,
	)

	return s.taskRepo.GetByID(ctx, taskID)
}

// Cancel moves any non-terminal task to annulee. Only the creator or the
// event organizer may cancel.
func (s *WorkflowService) Cancel(ctx context.Context, taskID, actorID string) (*domain.Task, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer rollback(ctx, tx)

	task, err := s.taskRepo.GetByIDForUpdate(ctx, tx, taskID)
	if err != nil {
		return nil, err
	}

	if err := s.validator.CanCancel(task); err != nil {
		return nil, err
	}

	if !task.IsCreatedBy(actorID) {
		organizerID, err := s.eventRepo.OrganizerOf(ctx, task.EventID)
		if err != nil {
			return nil, fmt.Errorf("resolve organizer: %w", err)
		}
		if actorID != organizerID {
			return nil, fmt.Errorf("%w: user %s is neither creator nor organizer of task %s",
				domain.ErrForbidden, actorID, taskID)
		}
	}

	err = s.taskRepo.UpdateStatus(ctx, tx, taskID,
		task.Status, domain.TaskStatusCancelled,
		repository.StatusPatch{},
	)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	slog.Info("task cancelled",
		"task_id", taskID,
		"actor_id", actorID,
		"old_status", task.Status,
	)

	return s.taskRepo.GetByID(ctx, taskID)
}

// requireValidator checks for an active assignment with canValidateTasks on
// the event. Never cached: permission is resolved on each attempt.
func (s *WorkflowService) requireValidator(ctx context.Context, eventID, moderatorID string) error {
	assignment, err := s.assignmentRepo.GetActive(ctx, eventID, moderatorID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: no active assignment for %s on event %s",
				domain.ErrForbidden, moderatorID, eventID)
		}
		return fmt.Errorf("resolve assignment: %w", err)
	}
	if !assignment.Permissions.CanValidateTasks {
		return fmt.Errorf("%w: assignment for %s lacks %s",
			domain.ErrForbidden, moderatorID, domain.PermValidateTasks)
	}
	return nil
}

// emit raises a best-effort notification; failures are logged, never returned.
func (s *WorkflowService) emit(ctx context.Context, t domain.NotificationType, task *domain.Task, actorID string) {
	notification := domain.Notification{
		Type:       t,
		TaskID:     task.ID,
		EventID:    task.EventID,
		ActorID:    actorID,
		OccurredAt: time.Now(),
	}
	if err := s.notifier.Emit(ctx, notification); err != nil {
		slog.Error("notification emit failed",
			"type", t,
			"task_id", task.ID,
			"error", err,
		)
	}
}
