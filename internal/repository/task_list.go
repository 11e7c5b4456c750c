package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/festiplan/taskflow/internal/domain"
)

// TaskListFilters holds all supported filters for task listing.
type TaskListFilters struct {
	EventID    string   // Required: tasks are always listed per event
	Statuses   []string // Optional: filter by status
	AssigneeID *string  // Optional: filter by assignee
	Unassigned bool     // Optional: show only unassigned
	Priorities []string // Optional: filter by priority
	Category   *string  // Optional: filter by category
	Tag        *string  // Optional: tasks carrying this tag
	Overdue    bool     // Optional: deadline in the past, non-terminal status
	Sort       []string // Optional: sort fields (with - prefix for DESC)
	Limit      int      // Required: page size
	Offset     int      // Required: page offset
}

// TaskListResult holds a task with computed fields.
type TaskListResult struct {
	Task      *domain.Task
	IsOverdue bool
}

// applyTaskFilters adds the shared WHERE clauses to a list or count query.
func applyTaskFilters(qb sq.SelectBuilder, filters TaskListFilters) sq.SelectBuilder {
	qb = qb.Where(sq.Eq{"event_id": filters.EventID})

	if len(filters.Statuses) > 0 {
		qb = qb.Where(sq.Eq{"status": filters.Statuses})
	}
	if filters.Unassigned {
		qb = qb.Where(sq.Eq{"assignee_id": nil})
	} else if filters.AssigneeID != nil {
		qb = qb.Where(sq.Eq{"assignee_id": *filters.AssigneeID})
	}
	if len(filters.Priorities) > 0 {
		qb = qb.Where(sq.Eq{"priority": filters.Priorities})
	}
	if filters.Category != nil {
		qb = qb.Where(sq.Eq{"category": *filters.Category})
	}
	if filters.Tag != nil {
		qb = qb.Where("? = ANY(tags)", *filters.Tag)
	}
	if filters.Overdue {
		qb = qb.Where("deadline < NOW()").
			Where(sq.NotEq{"status": []string{"validee", "terminee", "annulee"}})
	}

	return qb
}

// priorityOrder expresses the basse < normale < haute < critique ordering in SQL.
const priorityOrder = "CASE priority WHEN 'critique' THEN 1 WHEN 'haute' THEN 2 WHEN 'normale' THEN 3 WHEN 'basse' THEN 4 END"

// sortColumns whitelists the sortable fields. Caller input never reaches the
// ORDER BY clause directly.
var sortColumns = map[string]string{
	"created_at":   "created_at",
	"deadline":     "deadline",
	"priority":     priorityOrder,
	"progress_pct": "progress_pct",
	"title":        "title",
}

// List retrieves tasks with filters and pagination.
func (r *TaskRepository) List(ctx context.Context, filters TaskListFilters) ([]TaskListResult, int, error) {
	qb := applyTaskFilters(psql.Select(taskColumns...).From("tasks"), filters)

	// Default sort: most urgent first, oldest first within a priority
	if len(filters.Sort) == 0 {
		qb = qb.OrderBy(priorityOrder + " ASC").OrderBy("created_at ASC")
	} else {
		for _, sort := range filters.Sort {
			field, dir := sort, "ASC"
			if strings.HasPrefix(sort, "-") {
				field, dir = sort[1:], "DESC"
			}
			column, ok := sortColumns[field]
			if !ok {
				return nil, 0, fmt.Errorf("%w: unknown sort field %q", domain.ErrValidation, field)
			}
			qb = qb.OrderBy(column + " " + dir)
		}
	}

	qb = qb.Limit(uint64(filters.Limit)).Offset(uint64(filters.Offset))

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build List query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query tasks: %w", err)
	}

	tasks, err := scanTasks(rows)
	if err != nil {
		return nil, 0, err
	}

	countQuery, countArgs, err := applyTaskFilters(psql.Select("COUNT(*)").From("tasks"), filters).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count query: %w", err)
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count tasks: %w", err)
	}

	now := time.Now()
	results := make([]TaskListResult, len(tasks))
	for i, task := range tasks {
		results[i] = TaskListResult{
			Task:      task,
			IsOverdue: task.IsOverdue(now),
		}
	}

	return results, total, nil
}
