package handler

import (
	"encoding/json"
	"net/http"

	"github.com/festiplan/taskflow/internal/domain"
	"github.com/festiplan/taskflow/internal/handler/dto"
	"github.com/festiplan/taskflow/internal/middleware"
	"github.com/festiplan/taskflow/internal/service"
)

// handleInviteModerator handles POST /api/v1/events/{id}/moderators.
func (h *Handler) handleInviteModerator(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}

	eventID, ok := extractID(w, r, "id")
	if !ok {
		return
	}

	var req dto.InviteModeratorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "invalid JSON body")
		return
	}

	var overrides domain.PermissionOverrides
	if req.Permissions != nil {
		overrides = domain.PermissionOverrides{
			CanValidateTasks:    req.Permissions.CanValidateTasks,
			CanAssignTasks:      req.Permissions.CanAssignTasks,
			CanManageResources:  req.Permissions.CanManageResources,
			CanViewReports:      req.Permissions.CanViewReports,
			CanModerateComments: req.Permissions.CanModerateComments,
		}
	}

	assignment, err := h.assignmentService.Invite(r.Context(), service.InviteParams{
		EventID:     eventID,
		OrganizerID: user.ID,
		Moderator:   req.Moderator,
		Role:        domain.ModeratorRole(req.Role),
		Overrides:   overrides,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.ToAssignmentResponse(assignment))
}

// handleListModerators handles GET /api/v1/events/{id}/moderators.
func (h *Handler) handleListModerators(w http.ResponseWriter, r *http.Request) {
	eventID, ok := extractID(w, r, "id")
	if !ok {
		return
	}

	assignments, err := h.assignmentService.ListActive(r.Context(), eventID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	responses := make([]dto.AssignmentResponse, len(assignments))
	for i, assignment := range assignments {
		responses[i] = dto.ToAssignmentResponse(assignment)
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"moderators": responses,
	})
}

// handleRevokeModerator handles DELETE /api/v1/events/{id}/moderators/{moderatorID}.
func (h *Handler) handleRevokeModerator(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}

	eventID, ok := extractID(w, r, "id")
	if !ok {
		return
	}

	moderatorID, ok := extractID(w, r, "moderatorID")
	if !ok {
		return
	}

	if err := h.assignmentService.Revoke(r.Context(), user.ID, eventID, moderatorID); err != nil {
		respondDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
