package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/festiplan/taskflow/internal/domain"
	"github.com/festiplan/taskflow/internal/handler/dto"
	"github.com/festiplan/taskflow/internal/middleware"
)

// handleEventReport handles GET /api/v1/events/{id}/report. Visible to the
// event organizer and to moderators holding canViewReports.
func (h *Handler) handleEventReport(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}

	eventID, ok := extractID(w, r, "id")
	if !ok {
		return
	}

	organizerID, err := h.eventRepo.OrganizerOf(r.Context(), eventID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	if user.ID != organizerID {
		assignment, err := h.assignmentRepo.GetActive(r.Context(), eventID, user.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				respondDomainError(w, fmt.Errorf("%w: user %s may not view reports on event %s",
					domain.ErrForbidden, user.ID, eventID))
				return
			}
			respondDomainError(w, err)
			return
		}
		if !assignment.Permissions.CanViewReports {
			respondDomainError(w, fmt.Errorf("%w: assignment for %s lacks %s",
				domain.ErrForbidden, user.ID, domain.PermViewReports))
			return
		}
	}

	report, err := h.taskRepo.GetEventTaskReport(r.Context(), eventID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToReportResponse(report))
}
