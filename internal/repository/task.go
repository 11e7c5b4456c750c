package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/festiplan/taskflow/internal/domain"
)

// taskColumns is the shared list of columns for task queries.
var taskColumns = []string{
	"id", "event_id", "title", "description", "category", "creator_id", "assignee_id",
	"status", "priority", "validation_required", "deadline", "start_date", "completion_date",
	"estimated_hours", "actual_hours", "progress_pct", "budget_allocated", "budget_used",
	"tags", "attachments", "required_resources",
	"validated_by", "validated_at", "validation_notes", "rejection_reason",
	"created_at", "updated_at",
}

// TaskRepository handles database operations for tasks. No other component
// writes task rows.
type TaskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{pool: pool}
}

// scanTask scans a single row into a Task struct.
func scanTask(row pgx.Row) (*domain.Task, error) {
	var task domain.Task
	err := row.Scan(
		&task.ID,
		&task.EventID,
		&task.Title,
		&task.Description,
		&task.Category,
		&task.CreatorID,
		&task.AssigneeID,
		&task.Status,
		&task.Priority,
		&task.ValidationRequired,
		&task.Deadline,
		&task.StartDate,
		&task.CompletionDate,
		&task.EstimatedHours,
		&task.ActualHours,
		&task.ProgressPct,
		&task.BudgetAllocated,
		&task.BudgetUsed,
		&task.Tags,
		&task.Attachments,
		&task.RequiredResources,
		&task.ValidatedBy,
		&task.ValidatedAt,
		&task.ValidationNotes,
		&task.RejectionReason,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: task", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("scan task: %w", err)
	}
	return &task, nil
}

// scanTasks scans multiple rows into a slice of Task structs.
func scanTasks(rows pgx.Rows) ([]*domain.Task, error) {
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return tasks, nil
}

// GetByID retrieves a task by ID.
func (r *TaskRepository) GetByID(ctx context.Context, taskID string) (*domain.Task, error) {
	query, args, err := psql.
		Select(taskColumns...).
		From("tasks").
		Where(sq.Eq{"id": taskID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByID query for task: %w", err)
	}

	return scanTask(r.pool.QueryRow(ctx, query, args...))
}

// GetByIDForUpdate retrieves a task by ID with FOR UPDATE lock (within transaction).
// Serializes all transitions on a single task id.
func (r *TaskRepository) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, taskID string) (*domain.Task, error) {
	query, args, err := psql.
		Select(taskColumns...).
		From("tasks").
		Where(sq.Eq{"id": taskID}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByIDForUpdate query for task %s: %w", taskID, err)
	}

	return scanTask(tx.QueryRow(ctx, query, args...))
}

// Create creates a new task in the database within a transaction.
// Returns the created task with ID, CreatedAt, and UpdatedAt populated.
func (r *TaskRepository) Create(ctx context.Context, tx pgx.Tx, task *domain.Task) (*domain.Task, error) {
	if task.Priority == "" {
		task.Priority = domain.TaskPriorityNormal
	}
	if task.Tags == nil {
		task.Tags = []string{}
	}
	if task.Attachments == nil {
		task.Attachments = []string{}
	}
	if task.RequiredResources == nil {
		task.RequiredResources = []string{}
	}

	query, args, err := psql.
		Insert("tasks").
		Columns(
			"event_id", "title", "description", "category", "creator_id", "assignee_id",
			"status", "priority", "validation_required", "deadline",
			"estimated_hours", "budget_allocated",
			"tags", "attachments", "required_resources",
		).
		Values(
			task.EventID,
			task.Title,
			task.Description,
			task.Category,
			task.CreatorID,
			task.AssigneeID,
			task.Status,
			task.Priority,
			task.ValidationRequired,
			task.Deadline,
			task.EstimatedHours,
			task.BudgetAllocated,
			task.Tags,
			task.Attachments,
			task.RequiredResources,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build Create query for task: %w", err)
	}

	err = tx.QueryRow(ctx, query, args...).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	return task, nil
}

// StatusPatch carries the side-effect columns written alongside a status
// transition. Nil fields are left untouched.
type StatusPatch struct {
	StartDate       *time.Time
	CompletionDate  *time.Time
	ProgressPct     *int
	ValidatedBy     *string
	ValidatedAt     *time.Time
	ValidationNotes *string
	RejectionReason *string
}

// UpdateStatus moves the task from oldStatus to newStatus with optimistic
// locking: the update applies only while the row still holds oldStatus.
// Returns ErrConflict if a concurrent transition already changed the status.
func (r *TaskRepository) UpdateStatus(
	ctx context.Context,
	tx pgx.Tx,
	taskID string,
	oldStatus domain.TaskStatus,
	newStatus domain.TaskStatus,
	patch StatusPatch,
) error {
	qb := psql.
		Update("tasks").
		Set("status", newStatus).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{
			"id":     taskID,
			"status": oldStatus,
		})

	if patch.StartDate != nil {
		qb = qb.Set("start_date", *patch.StartDate)
	}
	if patch.CompletionDate != nil {
		qb = qb.Set("completion_date", *patch.CompletionDate)
	}
	if patch.ProgressPct != nil {
		qb = qb.Set("progress_pct", *patch.ProgressPct)
	}
	if patch.ValidatedBy != nil {
		qb = qb.Set("validated_by", *patch.ValidatedBy)
	}
	if patch.ValidatedAt != nil {
		qb = qb.Set("validated_at", *patch.ValidatedAt)
	}
	if patch.ValidationNotes != nil {
		qb = qb.Set("validation_notes", *patch.ValidationNotes)
	}
	if patch.RejectionReason != nil {
		qb = qb.Set("rejection_reason", *patch.RejectionReason)
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return fmt.Errorf("build UpdateStatus query for task %s: %w", taskID, err)
	}

	tag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update task status: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: task %s no longer in status %s", domain.ErrConflict, taskID, oldStatus)
	}

	return nil
}

// FieldPatch carries caller-permitted field updates. Nil fields are left
// untouched; status is never part of a field patch.
type FieldPatch struct {
	Title             *string
	Description       *string
	Category          *string
	Priority          *domain.TaskPriority
	Deadline          *time.Time
	EstimatedHours    *float64
	ActualHours       *float64
	ProgressPct       *int
	BudgetAllocated   *float64
	BudgetUsed        *float64
	Tags              []string
	Attachments       []string
	RequiredResources []string
}

// IsEmpty reports whether the patch changes nothing.
func (p FieldPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Category == nil &&
		p.Priority == nil && p.Deadline == nil &&
		p.EstimatedHours == nil && p.ActualHours == nil && p.ProgressPct == nil &&
		p.BudgetAllocated == nil && p.BudgetUsed == nil &&
		p.Tags == nil && p.Attachments == nil && p.RequiredResources == nil
}

// UpdateFields applies a field patch to a task row within a transaction.
func (r *TaskRepository) UpdateFields(ctx context.Context, tx pgx.Tx, taskID string, patch FieldPatch) error {
	qb := psql.
		Update("tasks").
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": taskID})

	if patch.Title != nil {
		qb = qb.Set("title", *patch.Title)
	}
	if patch.Description != nil {
		qb = qb.Set("description", *patch.Description)
	}
	if patch.Category != nil {
		qb = qb.Set("category", *patch.Category)
	}
	if patch.Priority != nil {
		qb = qb.Set("priority", *patch.Priority)
	}
	if patch.Deadline != nil {
		qb = qb.Set("deadline", *patch.Deadline)
	}
	if patch.EstimatedHours != nil {
		qb = qb.Set("estimated_hours", *patch.EstimatedHours)
	}
	if patch.ActualHours != nil {
		qb = qb.Set("actual_hours", *patch.ActualHours)
	}
	if patch.ProgressPct != nil {
		qb = qb.Set("progress_pct", *patch.ProgressPct)
	}
	if patch.BudgetAllocated != nil {
		qb = qb.Set("budget_allocated", *patch.BudgetAllocated)
	}
	if patch.BudgetUsed != nil {
		qb = qb.Set("budget_used", *patch.BudgetUsed)
	}
	if patch.Tags != nil {
		qb = qb.Set("tags", patch.Tags)
	}
	if patch.Attachments != nil {
		qb = qb.Set("attachments", patch.Attachments)
	}
	if patch.RequiredResources != nil {
		qb = qb.Set("required_resources", patch.RequiredResources)
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return fmt.Errorf("build UpdateFields query for task %s: %w", taskID, err)
	}

	tag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update task fields: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: task %s", domain.ErrNotFound, taskID)
	}

	return nil
}

// SetAssignee assigns the task to a worker within a transaction. The caller
// holds the row lock and has already checked the status guard.
func (r *TaskRepository) SetAssignee(ctx context.Context, tx pgx.Tx, taskID string, workerID string) error {
	query, args, err := psql.
		Update("tasks").
		Set("assignee_id", workerID).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": taskID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build SetAssignee query for task %s: %w", taskID, err)
	}

	tag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("set task assignee: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: task %s", domain.ErrNotFound, taskID)
	}

	return nil
}

// Delete removes a task row within a transaction. The caller enforces the
// status and role gates before calling.
func (r *TaskRepository) Delete(ctx context.Context, tx pgx.Tx, taskID string) error {
	query, args, err := psql.
		Delete("tasks").
		Where(sq.Eq{"id": taskID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build Delete query for task %s: %w", taskID, err)
	}

	tag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: task %s", domain.ErrNotFound, taskID)
	}

	return nil
}
