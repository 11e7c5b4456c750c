package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/festiplan/taskflow/internal/domain"
	"github.com/festiplan/taskflow/internal/repository"
)

// TaskService owns field-level task CRUD and the bookkeeping invariants that
// hold independently of the lifecycle (progress clamp, budget monotonicity).
type TaskService struct {
	pool           *pgxpool.Pool
	taskRepo       *repository.TaskRepository
	eventRepo      *repository.EventRepository
	userRepo       *repository.UserRepository
	assignmentRepo *repository.AssignmentRepository
	notifier       Notifier
	validator      *Validator
}

// NewTaskService creates a new TaskService.
func NewTaskService(
	pool *pgxpool.Pool,
	taskRepo *repository.TaskRepository,
	eventRepo *repository.EventRepository,
	userRepo *repository.UserRepository,
	assignmentRepo *repository.AssignmentRepository,
	notifier Notifier,
) *TaskService {
	return &TaskService{
		pool:           pool,
		taskRepo:       taskRepo,
		eventRepo:      eventRepo,
		userRepo:       userRepo,
		assignmentRepo: assignmentRepo,
		notifier:       notifier,
		validator:      NewValidator(),
	}
}

// CreateTaskParams carries the caller-supplied fields for task creation.
type CreateTaskParams struct {
	EventID            string
	CreatorID          string
	Title              string
	Description        string
	Category           string
	Priority           domain.TaskPriority
	ValidationRequired bool
	AssigneeID         *string
	Deadline           *time.Time
	EstimatedHours     float64
	BudgetAllocated    float64
	Tags               []string
	Attachments        []string
	RequiredResources  []string
}

// CreateTask creates a new task in status a_faire with progress and budget
// usage at zero. The validationRequired flag is fixed here for the task's
// whole lifetime.
func (s *TaskService) CreateTask(ctx context.Context, params CreateTaskParams) (*domain.Task, error) {
	if params.Title == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if params.EventID == "" {
		return nil, fmt.Errorf("%w: event id is required", domain.ErrValidation)
	}
	if params.Deadline != nil && params.Deadline.Before(time.Now()) {
		return nil, fmt.Errorf("%w: deadline cannot be in the past", domain.ErrValidation)
	}
	if params.EstimatedHours < 0 {
		return nil, fmt.Errorf("%w: estimated hours cannot be negative", domain.ErrValidation)
	}
	if params.BudgetAllocated < 0 {
		return nil, fmt.Errorf("%w: allocated budget cannot be negative", domain.ErrValidation)
	}
	if params.Priority != "" && !params.Priority.IsValid() {
		return nil, fmt.Errorf("%w: invalid priority %q", domain.ErrValidation, params.Priority)
	}

	exists, err := s.eventRepo.Exists(ctx, params.EventID)
	if err != nil {
		return nil, fmt.Errorf("check event: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: event %s", domain.ErrNotFound, params.EventID)
	}

	if params.AssigneeID != nil {
		if _, err := s.userRepo.GetByID(ctx, *params.AssigneeID); err != nil {
			return nil, fmt.Errorf("resolve assignee: %w", err)
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer rollback(ctx, tx)

	task := &domain.Task{
		EventID:            params.EventID,
		CreatorID:          params.CreatorID,
		Title:              params.Title,
		Description:        params.Description,
		Category:           params.Category,
		Priority:           params.Priority,
		Status:             domain.TaskStatusTodo,
		ValidationRequired: params.ValidationRequired,
		AssigneeID:         params.AssigneeID,
		Deadline:           params.Deadline,
		EstimatedHours:     params.EstimatedHours,
		BudgetAllocated:    params.BudgetAllocated,
		Tags:               params.Tags,
		Attachments:        params.Attachments,
		RequiredResources:  params.RequiredResources,
	}

	task, err = s.taskRepo.Create(ctx, tx, task)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	slog.Info("task created",
		"task_id", task.ID,
		"event_id", task.EventID,
		"creator_id", task.CreatorID,
		"validation_required", task.ValidationRequired,
	)

	return task, nil
}

// UpdateTaskFields applies a field patch under the task's row lock. Progress
// is clamped to [0,100]; budgetUsed may never exceed the allocation nor
// shrink (corrections are not modeled). Status is never touched here.
func (s *TaskService) UpdateTaskFields(ctx context.Context, taskID string, patch repository.FieldPatch) (*domain.Task, error) {
	if patch.IsEmpty() {
		return nil, fmt.Errorf("%w: empty patch", domain.ErrValidation)
	}
	if patch.Priority != nil && !patch.Priority.IsValid() {
		return nil, fmt.Errorf("%w: invalid priority %q", domain.ErrValidation, *patch.Priority)
	}
	if patch.EstimatedHours != nil && *patch.EstimatedHours < 0 {
		return nil, fmt.Errorf("%w: estimated hours cannot be negative", domain.ErrValidation)
	}
	if patch.ActualHours != nil && *patch.ActualHours < 0 {
		return nil, fmt.Errorf("%w: actual hours cannot be negative", domain.ErrValidation)
	}
	if patch.BudgetAllocated != nil && *patch.BudgetAllocated < 0 {
		return nil, fmt.Errorf("%w: allocated budget cannot be negative", domain.ErrValidation)
	}

	if patch.ProgressPct != nil {
		clamped := clampProgress(*patch.ProgressPct)
		patch.ProgressPct = &clamped
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

	if patch.BudgetUsed != nil {
		allocated := task.BudgetAllocated
		if patch.BudgetAllocated != nil {
			allocated = *patch.BudgetAllocated
		}
		if *patch.BudgetUsed < task.BudgetUsed {
			return nil, fmt.Errorf("%w: budget used cannot decrease (current %.2f, requested %.2f)",
				domain.ErrValidation, task.BudgetUsed, *patch.BudgetUsed)
		}
		if *patch.BudgetUsed > allocated {
			return nil, fmt.Errorf("%w: budget used %.2f exceeds allocation %.2f",
				domain.ErrValidation, *patch.BudgetUsed, allocated)
		}
	}

	if err := s.taskRepo.UpdateFields(ctx, tx, taskID, patch); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	slog.Info("task fields updated", "task_id", taskID)

	return s.taskRepo.GetByID(ctx, taskID)
}

// AssignTask assigns the task to a worker. Allowed only while the task is in
// a_faire or en_cours, and only for the creator, the event organizer, or an
// active moderator holding canAssignTasks.
func (s *TaskService) AssignTask(ctx context.Context, taskID, actorID, workerID string) (*domain.Task, error) {
	if _, err := s.userRepo.GetByID(ctx, workerID); err != nil {
		return nil, fmt.Errorf("resolve worker: %w", err)
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

	if err := s.validator.CanAssign(task); err != nil {
		return nil, err
	}

	if err := s.checkCanAssign(ctx, task, actorID); err != nil {
		return nil, err
	}

	if err := s.taskRepo.SetAssignee(ctx, tx, taskID, workerID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	slog.Info("task assigned",
		"task_id", taskID,
		"worker_id", workerID,
		"actor_id", actorID,
	)

	s.emit(ctx, domain.NotificationTaskAssigned, task, actorID)

	return s.taskRepo.GetByID(ctx, taskID)
}

// DeleteTask removes a task. Tasks in en_cours or en_attente_validation are
// protected; otherwise deletion is allowed for the event organizer or for
// the creator holding the organizer role.
func (s *TaskService) DeleteTask(ctx context.Context, taskID, actorID string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer rollback(ctx, tx)

	task, err := s.taskRepo.GetByIDForUpdate(ctx, tx, taskID)
	if err != nil {
		return err
	}

	if err := s.validator.CanDelete(task); err != nil {
		return err
	}

	organizerID, err := s.eventRepo.OrganizerOf(ctx, task.EventID)
	if err != nil {
		return fmt.Errorf("resolve organizer: %w", err)
	}

	allowed := actorID == organizerID
	if !allowed && task.IsCreatedBy(actorID) {
		actor, err := s.userRepo.GetByID(ctx, actorID)
		if err != nil {
			return fmt.Errorf("resolve actor: %w", err)
		}
		allowed = actor.IsOrganizer()
	}
	if !allowed {
		return fmt.Errorf("%w: user %s may not delete task %s", domain.ErrForbidden, actorID, taskID)
	}

	if err := s.taskRepo.Delete(ctx, tx, taskID); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	slog.Info("task deleted", "task_id", taskID, "actor_id", actorID)

	return nil
}

// checkCanAssign verifies the actor may change the assignee of a task.
func (s *TaskService) checkCanAssign(ctx context.Context, task *domain.Task, actorID string) error {
	if task.IsCreatedBy(actorID) {
		return nil
	}

	organizerID, err := s.eventRepo.OrganizerOf(ctx, task.EventID)
	if err != nil {
		return fmt.Errorf("resolve organizer: %w", err)
	}
	if actorID == organizerID {
		return nil
	}

	assignment, err := s.assignmentRepo.GetActive(ctx, task.EventID, actorID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: user %s may not assign tasks on event %s", domain.ErrForbidden, actorID, task.EventID)
		}
		return fmt.Errorf("resolve assignment: %w", err)
	}
	if !assignment.Permissions.CanAssignTasks {
		return fmt.Errorf("%w: assignment for %s lacks %s", domain.ErrForbidden, actorID, domain.PermAssignTasks)
	}

	return nil
}

// emit raises a best-effort notification; failures are logged, never returned.
func (s *TaskService) emit(ctx context.Context, t domain.NotificationType, task *domain.Task, actorID string) {
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

// clampProgress keeps a progress percentage within [0,100].
func clampProgress(pct int) int {
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// rollback rolls a transaction back, logging anything other than the
// expected closed-transaction error after commit.
func rollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		slog.Error("failed to rollback transaction", "error", err)
	}
}
