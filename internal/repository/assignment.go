package repository

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/festiplan/taskflow/internal/domain"
)

// uniqueViolation is the PostgreSQL error code raised by the partial unique
// index on (event_id, moderator_id) WHERE is_active.
const uniqueViolation = "23505"

var assignmentColumns = []string{
	"id", "event_id", "moderator_id", "role",
	"can_validate_tasks", "can_assign_tasks", "can_manage_resources",
	"can_view_reports", "can_moderate_comments",
	"assigned_by", "assigned_at", "is_active",
}

// AssignmentRepository handles database operations for moderator assignments.
// Assignments are deactivated on revocation, never deleted.
type AssignmentRepository struct {
	pool *pgxpool.Pool
}

// NewAssignmentRepository creates a new AssignmentRepository.
func NewAssignmentRepository(pool *pgxpool.Pool) *AssignmentRepository {
	return &AssignmentRepository{pool: pool}
}

func scanAssignment(row pgx.Row) (*domain.ModeratorAssignment, error) {
	var a domain.ModeratorAssignment
	err := row.Scan(
		&a.ID,
		&a.EventID,
		&a.ModeratorID,
		&a.Role,
		&a.Permissions.CanValidateTasks,
		&a.Permissions.CanAssignTasks,
		&a.Permissions.CanManageResources,
		&a.Permissions.CanViewReports,
		&a.Permissions.CanModerateComments,
		&a.AssignedBy,
		&a.AssignedAt,
		&a.IsActive,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: moderator assignment", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("scan assignment: %w", err)
	}
	return &a, nil
}

// Create inserts a new active assignment. The partial unique index makes the
// check-then-insert atomic: a concurrent duplicate invite loses with ErrConflict.
func (r *AssignmentRepository) Create(ctx context.Context, assignment *domain.ModeratorAssignment) (*domain.ModeratorAssignment, error) {
	query, args, err := psql.
		Insert("moderator_assignments").
		Columns(
			"event_id", "moderator_id", "role",
			"can_validate_tasks", "can_assign_tasks", "can_manage_resources",
			"can_view_reports", "can_moderate_comments",
			"assigned_by", "is_active",
		).
		Values(
			assignment.EventID,
			assignment.ModeratorID,
			assignment.Role,
			assignment.Permissions.CanValidateTasks,
			assignment.Permissions.CanAssignTasks,
			assignment.Permissions.CanManageResources,
			assignment.Permissions.CanViewReports,
			assignment.Permissions.CanModerateComments,
			assignment.AssignedBy,
			true,
		).
		Suffix("RETURNING id, assigned_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build Create query for assignment: %w", err)
	}

	err = r.pool.QueryRow(ctx, query, args...).Scan(&assignment.ID, &assignment.AssignedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, fmt.Errorf("%w: active assignment already exists for moderator %s on event %s",
				domain.ErrConflict, assignment.ModeratorID, assignment.EventID)
		}
		return nil, fmt.Errorf("create assignment: %w", err)
	}

	assignment.IsActive = true
	return assignment, nil
}

// GetActive retrieves the active assignment for an (event, moderator) pair.
func (r *AssignmentRepository) GetActive(ctx context.Context, eventID, moderatorID string) (*domain.ModeratorAssignment, error) {
	query, args, err := psql.
		Select(assignmentColumns...).
		From("moderator_assignments").
		Where(sq.Eq{
			"event_id":     eventID,
			"moderator_id": moderatorID,
			"is_active":    true,
		}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetActive query for assignment: %w", err)
	}

	return scanAssignment(r.pool.QueryRow(ctx, query, args...))
}

// ListActive retrieves all active assignments for an event.
func (r *AssignmentRepository) ListActive(ctx context.Context, eventID string) ([]*domain.ModeratorAssignment, error) {
	query, args, err := psql.
		Select(assignmentColumns...).
		From("moderator_assignments").
		Where(sq.Eq{"event_id": eventID, "is_active": true}).
		OrderBy("assigned_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build ListActive query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query assignments: %w", err)
	}
	defer rows.Close()

	var assignments []*domain.ModeratorAssignment
	for rows.Next() {
		assignment, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, assignment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return assignments, nil
}

// Deactivate revokes the active assignment for an (event, moderator) pair.
// Returns ErrNotFound if no active assignment exists.
func (r *AssignmentRepository) Deactivate(ctx context.Context, eventID, moderatorID string) error {
	query, args, err := psql.
		Update("moderator_assignments").
		Set("is_active", false).
		Where(sq.Eq{
			"event_id":     eventID,
			"moderator_id": moderatorID,
			"is_active":    true,
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build Deactivate query for assignment: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("deactivate assignment: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: no active assignment for moderator %s on event %s",
			domain.ErrNotFound, moderatorID, eventID)
	}

	return nil
}
