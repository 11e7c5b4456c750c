package repository

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/festiplan/taskflow/internal/domain"
)

// CommentRepository handles database operations for task comments.
type CommentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository creates a new CommentRepository.
func NewCommentRepository(pool *pgxpool.Pool) *CommentRepository {
	return &CommentRepository{pool: pool}
}

// Create adds a comment to a task.
func (r *CommentRepository) Create(ctx context.Context, comment *domain.TaskComment) error {
	query, args, err := psql.
		Insert("task_comments").
		Columns("task_id", "author_id", "body").
		Values(comment.TaskID, comment.AuthorID, comment.Body).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build Create query for comment: %w", err)
	}

	err = r.pool.QueryRow(ctx, query, args...).Scan(&comment.ID, &comment.CreatedAt)
	if err != nil {
		return fmt.Errorf("create comment: %w", err)
	}

	return nil
}

// ListByTask retrieves all non-deleted comments for a task, oldest first.
func (r *CommentRepository) ListByTask(ctx context.Context, taskID string) ([]*domain.TaskComment, error) {
	query, args, err := psql.
		Select("id", "task_id", "author_id", "body", "created_at", "deleted_at", "deleted_by").
		From("task_comments").
		Where(sq.Eq{"task_id": taskID, "deleted_at": nil}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build ListByTask query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query comments: %w", err)
	}
	defer rows.Close()

	var comments []*domain.TaskComment
	for rows.Next() {
		var comment domain.TaskComment
		err := rows.Scan(
			&comment.ID,
			&comment.TaskID,
			&comment.AuthorID,
			&comment.Body,
			&comment.CreatedAt,
			&comment.DeletedAt,
			&comment.DeletedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, &comment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return comments, nil
}

// SoftDelete marks a comment as removed by a moderator. The row stays for
// audit purposes.
func (r *CommentRepository) SoftDelete(ctx context.Context, commentID, moderatorID string) error {
	query, args, err := psql.
		Update("task_comments").
		Set("deleted_at", sq.Expr("NOW()")).
		Set("deleted_by", moderatorID).
		Where(sq.Eq{"id": commentID, "deleted_at": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build SoftDelete query for comment %s: %w", commentID, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: comment %s", domain.ErrNotFound, commentID)
	}

	return nil
}

// GetByID retrieves a comment by ID including deleted ones.
func (r *CommentRepository) GetByID(ctx context.Context, commentID string) (*domain.TaskComment, error) {
	query, args, err := psql.
		Select("id", "task_id", "author_id", "body", "created_at", "deleted_at", "deleted_by").
		From("task_comments").
		Where(sq.Eq{"id": commentID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByID query for comment: %w", err)
	}

	var comment domain.TaskComment
	err = r.pool.QueryRow(ctx, query, args...).Scan(
		&comment.ID,
		&comment.TaskID,
		&comment.AuthorID,
		&comment.Body,
		&comment.CreatedAt,
		&comment.DeletedAt,
		&comment.DeletedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: comment %s", domain.ErrNotFound, commentID)
		}
		return nil, fmt.Errorf("query comment: %w", err)
	}

	return &comment, nil
}
