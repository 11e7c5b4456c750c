package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/festiplan/taskflow/internal/domain"
	"github.com/festiplan/taskflow/internal/handler/dto"
	"github.com/festiplan/taskflow/internal/middleware"
)

// handleCommentTask handles POST /api/v1/tasks/{id}/comments.
func (h *Handler) handleCommentTask(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}

	taskID, ok := extractID(w, r, "id")
	if !ok {
		return
	}

	var req dto.CommentTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "invalid JSON body")
		return
	}
	if req.Body == "" {
		respondDomainError(w, fmt.Errorf("%w: comment body is required", domain.ErrValidation))
		return
	}

	// Task must exist; comments on terminal tasks stay allowed for audit notes.
	if _, err := h.taskRepo.GetByID(r.Context(), taskID); err != nil {
		respondDomainError(w, err)
		return
	}

	comment := &domain.TaskComment{
		TaskID:   taskID,
		AuthorID: user.ID,
		Body:     req.Body,
	}
	if err := h.commentRepo.Create(r.Context(), comment); err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.ToCommentResponse(comment))
}

// handleListComments handles GET /api/v1/tasks/{id}/comments.
func (h *Handler) handleListComments(w http.ResponseWriter, r *http.Request) {
	taskID, ok := extractID(w, r, "id")
	if !ok {
		return
	}

	if _, err := h.taskRepo.GetByID(r.Context(), taskID); err != nil {
		respondDomainError(w, err)
		return
	}

	comments, err := h.commentRepo.ListByTask(r.Context(), taskID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	responses := make([]dto.CommentResponse, len(comments))
	for i, comment := range comments {
		responses[i] = dto.ToCommentResponse(comment)
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"comments": responses,
	})
}

// handleDeleteComment handles DELETE /api/v1/tasks/{id}/comments/{commentID}.
// The author may remove their own comment; anyone else needs an active
// assignment with canModerateComments, or to be the event organizer.
func (h *Handler) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}

	taskID, ok := extractID(w, r, "id")
	if !ok {
		return
	}
	commentID, ok := extractID(w, r, "commentID")
	if !ok {
		return
	}

	comment, err := h.commentRepo.GetByID(r.Context(), commentID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	if comment.TaskID != taskID {
		respondDomainError(w, fmt.Errorf("%w: comment %s", domain.ErrNotFound, commentID))
		return
	}
	if comment.IsDeleted() {
		respondDomainError(w, fmt.Errorf("%w: comment %s", domain.ErrNotFound, commentID))
		return
	}

	if comment.AuthorID != user.ID {
		if err := h.requireCommentModerator(r, taskID, user.ID); err != nil {
			respondDomainError(w, err)
			return
		}
	}

	if err := h.commentRepo.SoftDelete(r.Context(), commentID, user.ID); err != nil {
		respondDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// requireCommentModerator checks the actor may moderate comments on the
// task's event.
func (h *Handler) requireCommentModerator(r *http.Request, taskID, actorID string) error {
	task, err := h.taskRepo.GetByID(r.Context(), taskID)
	if err != nil {
		return err
	}

	organizerID, err := h.eventRepo.OrganizerOf(r.Context(), task.EventID)
	if err != nil {
		return err
	}
	if actorID == organizerID {
		return nil
	}

	assignment, err := h.assignmentRepo.GetActive(r.Context(), task.EventID, actorID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: user %s may not moderate comments on event %s",
				domain.ErrForbidden, actorID, task.EventID)
		}
		return err
	}
	if !assignment.Permissions.CanModerateComments {
		return fmt.Errorf("%w: assignment for %s lacks %s",
			domain.ErrForbidden, actorID, domain.PermModerateComments)
	}

	return nil
}
