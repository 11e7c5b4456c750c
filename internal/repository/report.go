package repository

import (
	"context"
	"fmt"
)

// EventTaskReport summarizes task progress, hours and budget for one event.
type EventTaskReport struct {
	EventID         string
	TotalTasks      int
	TasksByStatus   map[string]int
	OverdueCount    int
	EstimatedHours  float64
	ActualHours     float64
	BudgetAllocated float64
	BudgetUsed      float64
}

// GetEventTaskReport aggregates task counts, hours and budget for an event.
func (r *TaskRepository) GetEventTaskReport(ctx context.Context, eventID string) (*EventTaskReport, error) {
	report := &EventTaskReport{
		EventID:       eventID,
		TasksByStatus: make(map[string]int),
	}

	statusQuery := `
		SELECT status, COUNT(*)
		FROM tasks
		WHERE event_id = $1
		GROUP BY status
	`
	rows, err := r.pool.Query(ctx, statusQuery, eventID)
	if err != nil {
		return nil, fmt.Errorf("query status counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		report.TasksByStatus[status] = count
		report.TotalTasks += count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	totalsQuery := `
		SELECT
			COUNT(CASE WHEN deadline < NOW() AND status NOT IN ('validee', 'terminee', 'annulee') THEN 1 END),
			COALESCE(SUM(estimated_hours), 0),
			COALESCE(SUM(actual_hours), 0),
			COALESCE(SUM(budget_allocated), 0),
			COALESCE(SUM(budget_used), 0)
		FROM tasks
		WHERE event_id = $1
	`
	err = r.pool.QueryRow(ctx, totalsQuery, eventID).Scan(
		&report.OverdueCount,
		&report.EstimatedHours,
		&report.ActualHours,
		&report.BudgetAllocated,
		&report.BudgetUsed,
	)
	if err != nil {
		return nil, fmt.Errorf("query task totals: %w", err)
	}

	return report, nil
}
