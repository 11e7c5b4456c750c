package dto

import (
	"time"

	"github.com/festiplan/taskflow/internal/domain"
	"github.com/festiplan/taskflow/internal/repository"
)

// TaskResponse represents a full task object.
type TaskResponse struct {
	ID                 string     `json:"id"`
	EventID            string     `json:"event_id"`
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	Category           string     `json:"category"`
	CreatorID          string     `json:"creator_id"`
	AssigneeID         *string    `json:"assignee_id"`
	Status             string     `json:"status"`
	Priority           string     `json:"priority"`
	ValidationRequired bool       `json:"validation_required"`
	Deadline           *time.Time `json:"deadline"`
	StartDate          *time.Time `json:"start_date"`
	CompletionDate     *time.Time `json:"completion_date"`
	EstimatedHours     float64    `json:"estimated_hours"`
	ActualHours        float64    `json:"actual_hours"`
	ProgressPct        int        `json:"progress_pct"`
	BudgetAllocated    float64    `json:"budget_allocated"`
	BudgetUsed         float64    `json:"budget_used"`
	Tags               []string   `json:"tags"`
	Attachments        []string   `json:"attachments"`
	RequiredResources  []string   `json:"required_resources"`
	ValidatedBy        *string    `json:"validated_by"`
	ValidatedAt        *time.Time `json:"validated_at"`
	ValidationNotes    *string    `json:"validation_notes"`
	RejectionReason    *string    `json:"rejection_reason"`
	IsOverdue          bool       `json:"is_overdue"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// TasksListResponse represents the response for GET /tasks.
type TasksListResponse struct {
	Tasks  []TaskResponse `json:"tasks"`
	Total  int            `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

// ToTaskResponse converts a domain.Task to a TaskResponse.
func ToTaskResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:                 task.ID,
		EventID:            task.EventID,
		Title:              task.Title,
		Description:        task.Description,
		Category:           task.Category,
		CreatorID:          task.CreatorID,
		AssigneeID:         task.AssigneeID,
		Status:             string(task.Status),
		Priority:           string(task.Priority),
		ValidationRequired: task.ValidationRequired,
		Deadline:           task.Deadline,
		StartDate:          task.StartDate,
		CompletionDate:     task.CompletionDate,
		EstimatedHours:     task.EstimatedHours,
		ActualHours:        task.ActualHours,
		ProgressPct:        task.ProgressPct,
		BudgetAllocated:    task.BudgetAllocated,
		BudgetUsed:         task.BudgetUsed,
		Tags:               task.Tags,
		Attachments:        task.Attachments,
		RequiredResources:  task.RequiredResources,
		ValidatedBy:        task.ValidatedBy,
		ValidatedAt:        task.ValidatedAt,
		ValidationNotes:    task.ValidationNotes,
		RejectionReason:    task.RejectionReason,
		IsOverdue:          task.IsOverdue(time.Now()),
		CreatedAt:          task.CreatedAt,
		UpdatedAt:          task.UpdatedAt,
	}
}

// AssignmentResponse represents a moderator assignment.
type AssignmentResponse struct {
	ID          string              `json:"id"`
	EventID     string              `json:"event_id"`
	ModeratorID string              `json:"moderator_id"`
	Role        string              `json:"role"`
	Permissions PermissionsResponse `json:"permissions"`
	AssignedBy  string              `json:"assigned_by"`
	AssignedAt  time.Time           `json:"assigned_at"`
	IsActive    bool                `json:"is_active"`
}

// PermissionsResponse is the explicit permission set of an assignment.
type PermissionsResponse struct {
	CanValidateTasks    bool `json:"can_validate_tasks"`
	CanAssignTasks      bool `json:"can_assign_tasks"`
	CanManageResources  bool `json:"can_manage_resources"`
	CanViewReports      bool `json:"can_view_reports"`
	CanModerateComments bool `json:"can_moderate_comments"`
}

// ToAssignmentResponse converts a domain.ModeratorAssignment to an AssignmentResponse.
func ToAssignmentResponse(a *domain.ModeratorAssignment) AssignmentResponse {
	return AssignmentResponse{
		ID:          a.ID,
		EventID:     a.EventID,
		ModeratorID: a.ModeratorID,
		Role:        string(a.Role),
		Permissions: PermissionsResponse{
			CanValidateTasks:    a.Permissions.CanValidateTasks,
			CanAssignTasks:      a.Permissions.CanAssignTasks,
			CanManageResources:  a.Permissions.CanManageResources,
			CanViewReports:      a.Permissions.CanViewReports,
			CanModerateComments: a.Permissions.CanModerateComments,
		},
		AssignedBy: a.AssignedBy,
		AssignedAt: a.AssignedAt,
		IsActive:   a.IsActive,
	}
}

// ResourceResponse represents a resource ledger row.
type ResourceResponse struct {
	ID          string    `json:"id"`
	EventID     string    `json:"event_id"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	Quantity    float64   `json:"quantity"`
	Unit        string    `json:"unit"`
	CostPerUnit float64   `json:"cost_per_unit"`
	TotalCost   float64   `json:"total_cost"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToResourceResponse converts a domain.Resource to a ResourceResponse.
func ToResourceResponse(r *domain.Resource) ResourceResponse {
	return ResourceResponse{
		ID:          r.ID,
		EventID:     r.EventID,
		Name:        r.Name,
		Type:        string(r.Type),
		Quantity:    r.Quantity,
		Unit:        r.Unit,
		CostPerUnit: r.CostPerUnit,
		TotalCost:   r.TotalCost,
		Status:      string(r.Status),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// CommentResponse represents a task comment.
type CommentResponse struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"task_id"`
	AuthorID  string    `json:"author_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// ToCommentResponse converts a domain.TaskComment to a CommentResponse.
func ToCommentResponse(c *domain.TaskComment) CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		TaskID:    c.TaskID,
		AuthorID:  c.AuthorID,
		Body:      c.Body,
		CreatedAt: c.CreatedAt,
	}
}

// ReportResponse represents the per-event task report.
type ReportResponse struct {
	EventID         string         `json:"event_id"`
	TotalTasks      int            `json:"total_tasks"`
	TasksByStatus   map[string]int `json:"tasks_by_status"`
	OverdueCount    int            `json:"overdue_count"`
	EstimatedHours  float64        `json:"estimated_hours"`
	ActualHours     float64        `json:"actual_hours"`
	BudgetAllocated float64        `json:"budget_allocated"`
	BudgetUsed      float64        `json:"budget_used"`
}

// ToReportResponse converts a repository.EventTaskReport to a ReportResponse.
func ToReportResponse(r *repository.EventTaskReport) ReportResponse {
	return ReportResponse{
		EventID:         r.EventID,
		TotalTasks:      r.TotalTasks,
		TasksByStatus:   r.TasksByStatus,
		OverdueCount:    r.OverdueCount,
		EstimatedHours:  r.EstimatedHours,
		ActualHours:     r.ActualHours,
		BudgetAllocated: r.BudgetAllocated,
		BudgetUsed:      r.BudgetUsed,
	}
}
