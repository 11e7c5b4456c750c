package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/festiplan/taskflow/internal/domain"
)

func TestTaskStatus_IsTerminal(t *testing.T) {
	terminal := []domain.TaskStatus{
		domain.TaskStatusValidated,
		domain.TaskStatusCompleted,
		domain.TaskStatusCancelled,
	}
	for _, status := range terminal {
		assert.True(t, status.IsTerminal(), "status %s should be terminal", status)
	}

	nonTerminal := []domain.TaskStatus{
		domain.TaskStatusTodo,
		domain.TaskStatusInProgress,
		domain.TaskStatusAwaitingValidation,
		domain.TaskStatusRejected,
	}
	for _, status := range nonTerminal {
		assert.False(t, status.IsTerminal(), "status %s should not be terminal", status)
	}
}

func TestTaskStatus_IsValid(t *testing.T) {
	assert.True(t, domain.TaskStatusTodo.IsValid())
	assert.True(t, domain.TaskStatusRejected.IsValid())
	assert.False(t, domain.TaskStatus("suspendue").IsValid())
	assert.False(t, domain.TaskStatus("").IsValid())
}

func TestTaskPriority_IsValid(t *testing.T) {
	assert.True(t, domain.TaskPriorityLow.IsValid())
	assert.True(t, domain.TaskPriorityCritical.IsValid())
	assert.False(t, domain.TaskPriority("urgente").IsValid())
}

func TestTask_IsOverdue(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name     string
		deadline *time.Time
		status   domain.TaskStatus
		want     bool
	}{
		{"no deadline", nil, domain.TaskStatusInProgress, false},
		{"future deadline", &future, domain.TaskStatusInProgress, false},
		{"past deadline in progress", &past, domain.TaskStatusInProgress, true},
		{"past deadline rejected", &past, domain.TaskStatusRejected, true},
		{"past deadline validated", &past, domain.TaskStatusValidated, false},
		{"past deadline cancelled", &past, domain.TaskStatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := &domain.Task{Deadline: tt.deadline, Status: tt.status}
			assert.Equal(t, tt.want, task.IsOverdue(now))
		})
	}
}

func TestTask_IsAssignedTo(t *testing.T) {
	userID := "00000000-0000-0000-0000-000000000001"
	otherID := "00000000-0000-0000-0000-000000000002"

	task := &domain.Task{AssigneeID: &userID}
	assert.True(t, task.IsAssignedTo(userID))
	assert.False(t, task.IsAssignedTo(otherID))

	unassigned := &domain.Task{}
	assert.False(t, unassigned.IsAssignedTo(userID))
}
