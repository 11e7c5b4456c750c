package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/festiplan/taskflow/internal/domain"
	"github.com/festiplan/taskflow/internal/handler/dto"
	"github.com/festiplan/taskflow/internal/middleware"
	"github.com/festiplan/taskflow/internal/repository"
	"github.com/festiplan/taskflow/internal/service"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// handleCreateTask handles POST /api/v1/tasks.
func (h *Handler) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}

	var req dto.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "invalid JSON body")
		return
	}

	task, err := h.taskService.CreateTask(r.Context(), service.CreateTaskParams{
		EventID:            req.EventID,
		CreatorID:          user.ID,
		Title:              req.Title,
		Description:        req.Description,
		Category:           req.Category,
		Priority:           domain.TaskPriority(req.Priority),
		ValidationRequired: req.ValidationRequired,
		AssigneeID:         req.AssigneeID,
		Deadline:           req.Deadline,
		EstimatedHours:     req.EstimatedHours,
		BudgetAllocated:    req.BudgetAllocated,
		Tags:               req.Tags,
		Attachments:        req.Attachments,
		RequiredResources:  req.RequiredResources,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.ToTaskResponse(task))
}

// handleGetTask handles GET /api/v1/tasks/{id}.
func (h *Handler) handleGetTask(w http.ResponseWriter, r *http.Request) {
	taskID, ok := extractID(w, r, "id")
	if !ok {
		return
	}

	task, err := h.taskRepo.GetByID(r.Context(), taskID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToTaskResponse(task))
}

// handleListTasks handles GET /api/v1/tasks. The event_id query parameter is
// required; tasks are always listed per event.
func (h *Handler) handleListTasks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	eventID := q.Get("event_id")
	if eventID == "" {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "event_id query parameter is required")
		return
	}

	filters := repository.TaskListFilters{
		EventID: eventID,
		Limit:   defaultListLimit,
	}

	if statuses := q.Get("status"); statuses != "" {
		filters.Statuses = strings.Split(statuses, ",")
		for _, s := range filters.Statuses {
			if !domain.TaskStatus(s).IsValid() {
				respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "unknown status "+s)
				return
			}
		}
	}
	if priorities := q.Get("priority"); priorities != "" {
		filters.Priorities = strings.Split(priorities, ",")
		for _, p := range filters.Priorities {
			if !domain.TaskPriority(p).IsValid() {
				respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "unknown priority "+p)
				return
			}
		}
	}
	if assignee := q.Get("assignee_id"); assignee != "" {
		filters.AssigneeID = &assignee
	}
	if q.Get("unassigned") == "true" {
		filters.Unassigned = true
	}
	if category := q.Get("category"); category != "" {
		filters.Category = &category
	}
	if tag := q.Get("tag"); tag != "" {
		filters.Tag = &tag
	}
	if q.Get("overdue") == "true" {
		filters.Overdue = true
	}
	if sort := q.Get("sort"); sort != "" {
		filters.Sort = strings.Split(sort, ",")
	}
	if limitStr := q.Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 1 {
			respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "limit must be a positive integer")
			return
		}
		if limit > maxListLimit {
			limit = maxListLimit
		}
		filters.Limit = limit
	}
	if offsetStr := q.Get("offset"); offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err != nil || offset < 0 {
			respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "offset must be a non-negative integer")
			return
		}
		filters.Offset = offset
	}

	results, total, err := h.taskRepo.List(r.Context(), filters)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	tasks := make([]dto.TaskResponse, len(results))
	for i, result := range results {
		tasks[i] = dto.ToTaskResponse(result.Task)
	}

	respondJSON(w, http.StatusOK, dto.TasksListResponse{
		Tasks:  tasks,
		Total:  total,
		Limit:  filters.Limit,
		Offset: filters.Offset,
	})
}

// handleUpdateTask handles PATCH /api/v1/tasks/{id}. Status is never patched
// here; lifecycle changes go through the transition endpoints.
func (h *Handler) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	taskID, ok := extractID(w, r, "id")
	if !ok {
		return
	}

	var req dto.UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "invalid JSON body")
		return
	}

	patch := repository.FieldPatch{
		Title:             req.Title,
		Description:       req.Description,
		Category:          req.Category,
		Deadline:          req.Deadline,
		EstimatedHours:    req.EstimatedHours,
		ActualHours:       req.ActualHours,
		ProgressPct:       req.ProgressPct,
		BudgetAllocated:   req.BudgetAllocated,
		BudgetUsed:        req.BudgetUsed,
		Tags:              req.Tags,
		Attachments:       req.Attachments,
		RequiredResources: req.RequiredResources,
	}
	if req.Priority != nil {
		priority := domain.TaskPriority(*req.Priority)
		patch.Priority = &priority
	}

	task, err := h.taskService.UpdateTaskFields(r.Context(), taskID, patch)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToTaskResponse(task))
}

// handleDeleteTask handles DELETE /api/v1/tasks/{id}.
func (h *Handler) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}

	taskID, ok := extractID(w, r, "id")
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(r.Context(), taskID, user.ID); err != nil {
		respondDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleAssignTask handles POST /api/v1/tasks/{id}/assign.
func (h *Handler) handleAssignTask(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}

	taskID, ok := extractID(w, r, "id")
	if !ok {
		return
	}

	var req dto.AssignTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "invalid JSON body")
		return
	}
	if req.WorkerID == "" {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "worker_id is required")
		return
	}

	task, err := h.taskService.AssignTask(r.Context(), taskID, user.ID, req.WorkerID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToTaskResponse(task))
}
