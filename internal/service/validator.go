package service

import (
	"fmt"

	"github.com/festiplan/taskflow/internal/domain"
)

// Validator holds the pure state-machine guards for task transitions.
// Permission checks against the assignment registry live in the workflow
// service; everything here depends only on the task row itself.
type Validator struct{}

// NewValidator creates a new Validator.
func NewValidator() *Validator {
	return &Validator{}
}

// CanStart validates the a_faire -> en_cours transition.
func (v *Validator) CanStart(task *domain.Task) error {
	if task.Status != domain.TaskStatusTodo {
		return fmt.Errorf("%w: cannot start task %s from status %s", domain.ErrInvalidState, task.ID, task.Status)
	}
	if task.AssigneeID == nil {
		return fmt.Errorf("%w: task %s has no assignee", domain.ErrInvalidState, task.ID)
	}
	return nil
}

// CanSubmit validates the en_cours -> en_attente_validation/terminee transition.
func (v *Validator) CanSubmit(task *domain.Task) error {
	if task.Status != domain.TaskStatusInProgress {
		return fmt.Errorf("%w: cannot submit task %s from status %s", domain.ErrInvalidState, task.ID, task.Status)
	}
	return nil
}

// CanValidate validates that a task is awaiting validation before an
// approve or reject attempt.
func (v *Validator) CanValidate(task *domain.Task) error {
	if !task.ValidationRequired {
		return fmt.Errorf("%w: validation not required for task %s", domain.ErrInvalidState, task.ID)
	}
	if task.Status != domain.TaskStatusAwaitingValidation {
		return fmt.Errorf("%w: cannot validate task %s from status %s", domain.ErrInvalidState, task.ID, task.Status)
	}
	return nil
}

// CanResume validates the rejetee -> en_cours transition.
func (v *Validator) CanResume(task *domain.Task) error {
	if task.Status != domain.TaskStatusRejected {
		return fmt.Errorf("%w: cannot resume task %s from status %s", domain.ErrInvalidState, task.ID, task.Status)
	}
	return nil
}

// CanCancel validates that a task is still cancellable.
func (v *Validator) CanCancel(task *domain.Task) error {
	if task.Status.IsTerminal() {
		return fmt.Errorf("%w: cannot cancel task %s from terminal status %s", domain.ErrInvalidState, task.ID, task.Status)
	}
	return nil
}

// CanAssign validates that a task still accepts assignment changes.
func (v *Validator) CanAssign(task *domain.Task) error {
	if task.Status != domain.TaskStatusTodo && task.Status != domain.TaskStatusInProgress {
		return fmt.Errorf("%w: cannot assign task %s in status %s", domain.ErrInvalidState, task.ID, task.Status)
	}
	return nil
}

// CanDelete validates that a task may be physically deleted. Tasks in
// flight are protected; deletion is a caller-gated destructive operation,
// not a transition.
func (v *Validator) CanDelete(task *domain.Task) error {
	if task.Status == domain.TaskStatusInProgress || task.Status == domain.TaskStatusAwaitingValidation {
		return fmt.Errorf("%w: cannot delete task %s in status %s", domain.ErrInvalidState, task.ID, task.Status)
	}
	return nil
}
