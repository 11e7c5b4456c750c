package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/festiplan/taskflow/internal/domain"
	"github.com/festiplan/taskflow/internal/repository"
)

// ResourceService manages the resource ledger of an event. Resources are
// consulted by tasks informally only; no referential link is enforced
// between a task's declared resource needs and ledger rows.
type ResourceService struct {
	resourceRepo   *repository.ResourceRepository
	eventRepo      *repository.EventRepository
	assignmentRepo *repository.AssignmentRepository
}

// NewResourceService creates a new ResourceService.
func NewResourceService(
	resourceRepo *repository.ResourceRepository,
	eventRepo *repository.EventRepository,
	assignmentRepo *repository.AssignmentRepository,
) *ResourceService {
	return &ResourceService{
		resourceRepo:   resourceRepo,
		eventRepo:      eventRepo,
		assignmentRepo: assignmentRepo,
	}
}

// CreateResourceParams carries the fields for a new resource row.
type CreateResourceParams struct {
	EventID     string
	ActorID     string
	Name        string
	Type        domain.ResourceType
	Quantity    float64
	Unit        string
	CostPerUnit float64
	Status      domain.ResourceStatus
}

// CreateResource adds a resource to an event's ledger.
func (s *ResourceService) CreateResource(ctx context.Context, params CreateResourceParams) (*domain.Resource, error) {
	if params.Name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if !params.Type.IsValid() {
		return nil, fmt.Errorf("%w: invalid resource type %q", domain.ErrValidation, params.Type)
	}
	if params.Quantity < 0 {
		return nil, fmt.Errorf("%w: quantity cannot be negative", domain.ErrValidation)
	}
	if params.CostPerUnit < 0 {
		return nil, fmt.Errorf("%w: cost per unit cannot be negative", domain.ErrValidation)
	}
	if params.Status == "" {
		params.Status = domain.ResourceStatusAvailable
	}
	if !params.Status.IsValid() {
		return nil, fmt.Errorf("%w: invalid resource status %q", domain.ErrValidation, params.Status)
	}

	exists, err := s.eventRepo.Exists(ctx, params.EventID)
	if err != nil {
		return nil, fmt.Errorf("check event: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: event %s", domain.ErrNotFound, params.EventID)
	}

	if err := s.requireManager(ctx, params.EventID, params.ActorID); err != nil {
		return nil, err
	}

	resource := &domain.Resource{
		EventID:     params.EventID,
		Name:        params.Name,
		Type:        params.Type,
		Quantity:    params.Quantity,
		Unit:        params.Unit,
		CostPerUnit: params.CostPerUnit,
		Status:      params.Status,
	}

	resource, err = s.resourceRepo.Create(ctx, resource)
	if err != nil {
		return nil, err
	}

	slog.Info("resource created",
		"resource_id", resource.ID,
		"event_id", resource.EventID,
		"type", resource.Type,
	)

	return resource, nil
}

// ListResources returns all ledger rows for an event.
func (s *ResourceService) ListResources(ctx context.Context, eventID string) ([]*domain.Resource, error) {
	return s.resourceRepo.ListByEvent(ctx, eventID)
}

// UpdateResource applies a patch to a resource row. The total cost is never
// patched directly; it follows quantity and cost per unit.
func (s *ResourceService) UpdateResource(ctx context.Context, resourceID, actorID string, patch repository.ResourcePatch) (*domain.Resource, error) {
	if patch.Type != nil && !patch.Type.IsValid() {
		return nil, fmt.Errorf("%w: invalid resource type %q", domain.ErrValidation, *patch.Type)
	}
	if patch.Status != nil && !patch.Status.IsValid() {
		return nil, fmt.Errorf("%w: invalid resource status %q", domain.ErrValidation, *patch.Status)
	}
	if patch.Quantity != nil && *patch.Quantity < 0 {
		return nil, fmt.Errorf("%w: quantity cannot be negative", domain.ErrValidation)
	}
	if patch.CostPerUnit != nil && *patch.CostPerUnit < 0 {
		return nil, fmt.Errorf("%w: cost per unit cannot be negative", domain.ErrValidation)
	}

	resource, err := s.resourceRepo.GetByID(ctx, resourceID)
	if err != nil {
		return nil, err
	}

	if err := s.requireManager(ctx, resource.EventID, actorID); err != nil {
		return nil, err
	}

	if err := s.resourceRepo.Update(ctx, resourceID, patch); err != nil {
		return nil, err
	}

	slog.Info("resource updated", "resource_id", resourceID, "actor_id", actorID)

	return s.resourceRepo.GetByID(ctx, resourceID)
}

// requireManager verifies the actor is the organizer or holds an active
// assignment with canManageResources.
func (s *ResourceService) requireManager(ctx context.Context, eventID, actorID string) error {
	organizerID, err := s.eventRepo.OrganizerOf(ctx, eventID)
	if err != nil {
		return err
	}
	if actorID == organizerID {
		return nil
	}

	assignment, err := s.assignmentRepo.GetActive(ctx, eventID, actorID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: user %s may not manage resources on event %s", domain.ErrForbidden, actorID, eventID)
		}
		return fmt.Errorf("resolve assignment: %w", err)
	}
	if !assignment.Permissions.CanManageResources {
		return fmt.Errorf("%w: assignment for %s lacks %s", domain.ErrForbidden, actorID, domain.PermManageResources)
	}

	return nil
}
