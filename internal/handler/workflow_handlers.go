package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/festiplan/taskflow/internal/domain"
	"github.com/festiplan/taskflow/internal/handler/dto"
	"github.com/festiplan/taskflow/internal/middleware"
)

// handleStartTask handles POST /api/v1/tasks/{id}/start.
func (h *Handler) handleStartTask(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}

	taskID, ok := extractID(w, r, "id")
	if !ok {
		return
	}

	task, err := h.workflowService.StartWork(r.Context(), taskID, user.ID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToTaskResponse(task))
}

// handleSubmitTask handles POST /api/v1/tasks/{id}/submit.
func (h *Handler) handleSubmitTask(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}

	taskID, ok := extractID(w, r, "id")
	if !ok {
		return
	}

	task, err := h.workflowService.Submit(r.Context(), taskID, user.ID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToTaskResponse(task))
}

// handleApproveTask handles POST /api/v1/tasks/{id}/approve. The body is
// optional; approval notes default to empty.
func (h *Handler) handleApproveTask(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}

	taskID, ok := extractID(w, r, "id")
	if !ok {
		return
	}

	var req dto.ApproveTaskRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "invalid JSON body")
			return
		}
	}

	task, err := h.workflowService.Approve(r.Context(), taskID, user.ID, req.Notes)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToTaskResponse(task))
}

// handleRejectTask handles POST /api/v1/tasks/{id}/reject.
func (h *Handler) handleRejectTask(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}

	taskID, ok := extractID(w, r, "id")
	if !ok {
		return
	}

	var req dto.RejectTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "invalid JSON body")
		return
	}

	task, err := h.workflowService.Reject(r.Context(), taskID, user.ID, req.Reason)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToTaskResponse(task))
}

// handleResumeTask handles POST /api/v1/tasks/{id}/resume. Only the assignee
// picks rejected work back up.
func (h *Handler) handleResumeTask(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}

	taskID, ok := extractID(w, r, "id")
	if !ok {
		return
	}

	current, err := h.taskRepo.GetByID(r.Context(), taskID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	if !current.IsAssignedTo(user.ID) {
		respondDomainError(w, fmt.Errorf("%w: only the assignee may resume task %s", domain.ErrForbidden, taskID))
		return
	}

	task, err := h.workflowService.Resume(r.Context(), taskID, user.ID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToTaskResponse(task))
}

// handleCancelTask handles POST /api/v1/tasks/{id}/cancel.
func (h *Handler) handleCancelTask(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}

	taskID, ok := extractID(w, r, "id")
	if !ok {
		return
	}

	task, err := h.workflowService.Cancel(r.Context(), taskID, user.ID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToTaskResponse(task))
}
