package domain

import "time"

// TaskStatus represents the status of a task in the validation state machine.
// Values are kept in French to match the rest of the FestiPlan platform.
type TaskStatus string

const (
	TaskStatusTodo               TaskStatus = "a_faire"
	TaskStatusInProgress         TaskStatus = "en_cours"
	TaskStatusAwaitingValidation TaskStatus = "en_attente_validation"
	TaskStatusValidated          TaskStatus = "validee"
	TaskStatusRejected           TaskStatus = "rejetee"
	TaskStatusCompleted          TaskStatus = "terminee"
	TaskStatusCancelled          TaskStatus = "annulee"
)

// RejectionProgressPenalty is the fixed number of progress points removed on
// rejection, floored at 0. A deliberate heuristic, not a rework estimate.
const RejectionProgressPenalty = 10

// IsTerminal returns true if the status is terminal (no transitions allowed).
func (s TaskStatus) IsTerminal() bool {
	return s == TaskStatusValidated || s == TaskStatusCompleted || s == TaskStatusCancelled
}

// IsValid checks if the status is one of the allowed values.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusAwaitingValidation,
		TaskStatusValidated, TaskStatusRejected, TaskStatusCompleted, TaskStatusCancelled:
		return true
	default:
		return false
	}
}

// TaskPriority represents the priority level of a task.
type TaskPriority string

const (
	TaskPriorityLow      TaskPriority = "basse"
	TaskPriorityNormal   TaskPriority = "normale"
	TaskPriorityHigh     TaskPriority = "haute"
	TaskPriorityCritical TaskPriority = "critique"
)

// IsValid checks if the priority is one of the allowed values.
func (p TaskPriority) IsValid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityNormal, TaskPriorityHigh, TaskPriorityCritical:
		return true
	default:
		return false
	}
}

// Task represents a unit of work scoped to exactly one event.
type Task struct {
	ID                 string
	EventID            string
	Title              string
	Description        string
	Category           string
	CreatorID          string
	AssigneeID         *string
	Status             TaskStatus
	Priority           TaskPriority
	ValidationRequired bool
	Deadline           *time.Time
	StartDate          *time.Time
	CompletionDate     *time.Time
	EstimatedHours     float64
	ActualHours        float64
	ProgressPct        int
	BudgetAllocated    float64
	BudgetUsed         float64
	Tags               []string
	Attachments        []string
	RequiredResources  []string // advisory only, never validated against the resource ledger
	ValidatedBy        *string
	ValidatedAt        *time.Time
	ValidationNotes    *string
	RejectionReason    *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// IsAssignedTo checks if the task is assigned to the given user.
func (t *Task) IsAssignedTo(userID string) bool {
	return t.AssigneeID != nil && *t.AssigneeID == userID
}

// IsCreatedBy checks if the task was created by the given user.
func (t *Task) IsCreatedBy(userID string) bool {
	return t.CreatorID == userID
}

// IsOverdue reports whether the deadline has passed for a non-terminal task.
func (t *Task) IsOverdue(now time.Time) bool {
	return t.Deadline != nil && t.Deadline.Before(now) && !t.Status.IsTerminal()
}
