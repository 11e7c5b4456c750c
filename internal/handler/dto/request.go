package dto

import "time"

// CreateTaskRequest represents the request body for POST /tasks.
type CreateTaskRequest struct {
	EventID            string     `json:"event_id"`
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	Category           string     `json:"category,omitempty"`
	Priority           string     `json:"priority,omitempty"`
	ValidationRequired bool       `json:"validation_required"`
	AssigneeID         *string    `json:"assignee_id,omitempty"`
	Deadline           *time.Time `json:"deadline,omitempty"`
	EstimatedHours     float64    `json:"estimated_hours,omitempty"`
	BudgetAllocated    float64    `json:"budget_allocated,omitempty"`
	Tags               []string   `json:"tags,omitempty"`
	Attachments        []string   `json:"attachments,omitempty"`
	RequiredResources  []string   `json:"required_resources,omitempty"`
}

// UpdateTaskRequest represents the request body for PATCH /tasks/:id.
// Absent fields are left untouched.
type UpdateTaskRequest struct {
	Title             *string    `json:"title,omitempty"`
	Description       *string    `json:"description,omitempty"`
	Category          *string    `json:"category,omitempty"`
	Priority          *string    `json:"priority,omitempty"`
	Deadline          *time.Time `json:"deadline,omitempty"`
	EstimatedHours    *float64   `json:"estimated_hours,omitempty"`
	ActualHours       *float64   `json:"actual_hours,omitempty"`
	ProgressPct       *int       `json:"progress_pct,omitempty"`
	BudgetAllocated   *float64   `json:"budget_allocated,omitempty"`
	BudgetUsed        *float64   `json:"budget_used,omitempty"`
	Tags              []string   `json:"tags,omitempty"`
	Attachments       []string   `json:"attachments,omitempty"`
	RequiredResources []string   `json:"required_resources,omitempty"`
}

// AssignTaskRequest represents the request body for POST /tasks/:id/assign.
type AssignTaskRequest struct {
	WorkerID string `json:"worker_id"`
}

// ApproveTaskRequest represents the request body for POST /tasks/:id/approve.
type ApproveTaskRequest struct {
	Notes string `json:"notes,omitempty"`
}

// RejectTaskRequest represents the request body for POST /tasks/:id/reject.
type RejectTaskRequest struct {
	Reason string `json:"reason"`
}

// CommentTaskRequest represents the request body for POST /tasks/:id/comments.
type CommentTaskRequest struct {
	Body string `json:"body"`
}

// InviteModeratorRequest represents the request body for POST /events/:id/moderators.
type InviteModeratorRequest struct {
	Moderator   string                `json:"moderator"` // user id or email
	Role        string                `json:"role"`
	Permissions *PermissionsOverrides `json:"permissions,omitempty"`
}

// PermissionsOverrides carries explicit permission flags on an invitation.
type PermissionsOverrides struct {
	CanValidateTasks    *bool `json:"can_validate_tasks,omitempty"`
	CanAssignTasks      *bool `json:"can_assign_tasks,omitempty"`
	CanManageResources  *bool `json:"can_manage_resources,omitempty"`
	CanViewReports      *bool `json:"can_view_reports,omitempty"`
	CanModerateComments *bool `json:"can_moderate_comments,omitempty"`
}

// CreateResourceRequest represents the request body for POST /events/:id/resources.
type CreateResourceRequest struct {
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	Quantity    float64 `json:"quantity"`
	Unit        string  `json:"unit,omitempty"`
	CostPerUnit float64 `json:"cost_per_unit"`
	Status      string  `json:"status,omitempty"`
}

// UpdateResourceRequest represents the request body for PATCH /resources/:id.
type UpdateResourceRequest struct {
	Name        *string  `json:"name,omitempty"`
	Type        *string  `json:"type,omitempty"`
	Quantity    *float64 `json:"quantity,omitempty"`
	Unit        *string  `json:"unit,omitempty"`
	CostPerUnit *float64 `json:"cost_per_unit,omitempty"`
	Status      *string  `json:"status,omitempty"`
}
