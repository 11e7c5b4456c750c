package handler

import (
	"encoding/json"
	"net/http"

	"github.com/festiplan/taskflow/internal/domain"
	"github.com/festiplan/taskflow/internal/handler/dto"
	"github.com/festiplan/taskflow/internal/middleware"
	"github.com/festiplan/taskflow/internal/repository"
	"github.com/festiplan/taskflow/internal/service"
)

// handleCreateResource handles POST /api/v1/events/{id}/resources.
func (h *Handler) handleCreateResource(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}

	eventID, ok := extractID(w, r, "id")
	if !ok {
		return
	}

	var req dto.CreateResourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "invalid JSON body")
		return
	}

	resource, err := h.resourceService.CreateResource(r.Context(), service.CreateResourceParams{
		EventID:     eventID,
		ActorID:     user.ID,
		Name:        req.Name,
		Type:        domain.ResourceType(req.Type),
		Quantity:    req.Quantity,
		Unit:        req.Unit,
		CostPerUnit: req.CostPerUnit,
		Status:      domain.ResourceStatus(req.Status),
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.ToResourceResponse(resource))
}

// handleListResources handles GET /api/v1/events/{id}/resources.
func (h *Handler) handleListResources(w http.ResponseWriter, r *http.Request) {
	eventID, ok := extractID(w, r, "id")
	if !ok {
		return
	}

	resources, err := h.resourceService.ListResources(r.Context(), eventID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	responses := make([]dto.ResourceResponse, len(resources))
	for i, resource := range resources {
		responses[i] = dto.ToResourceResponse(resource)
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"resources": responses,
	})
}

// handleUpdateResource handles PATCH /api/v1/resources/{id}.
func (h *Handler) handleUpdateResource(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}

	resourceID, ok := extractID(w, r, "id")
	if !ok {
		return
	}

	var req dto.UpdateResourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "invalid JSON body")
		return
	}

	patch := repository.ResourcePatch{
		Name:        req.Name,
		Quantity:    req.Quantity,
		Unit:        req.Unit,
		CostPerUnit: req.CostPerUnit,
	}
	if req.Type != nil {
		resourceType := domain.ResourceType(*req.Type)
		patch.Type = &resourceType
	}
	if req.Status != nil {
		status := domain.ResourceStatus(*req.Status)
		patch.Status = &status
	}

	resource, err := h.resourceService.UpdateResource(r.Context(), resourceID, user.ID, patch)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToResourceResponse(resource))
}
