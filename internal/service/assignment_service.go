package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/festiplan/taskflow/internal/domain"
	"github.com/festiplan/taskflow/internal/repository"
)

// AssignmentService owns the event/moderator authorization bindings. It is
// the only writer of assignment rows.
type AssignmentService struct {
	assignmentRepo *repository.AssignmentRepository
	eventRepo      *repository.EventRepository
	userRepo       *repository.UserRepository
}

// NewAssignmentService creates a new AssignmentService.
func NewAssignmentService(
	assignmentRepo *repository.AssignmentRepository,
	eventRepo *repository.EventRepository,
	userRepo *repository.UserRepository,
) *AssignmentService {
	return &AssignmentService{
		assignmentRepo: assignmentRepo,
		eventRepo:      eventRepo,
		userRepo:       userRepo,
	}
}

// InviteParams carries the organizer's invitation of a moderator.
type InviteParams struct {
	EventID     string
	OrganizerID string
	// Moderator is resolved as a user id first, then as an email.
	Moderator string
	Role      domain.ModeratorRole
	Overrides domain.PermissionOverrides
}

// Invite creates an active assignment for a moderator on an event.
// Permissions are defaulted from the role, then explicit overrides applied.
// A second active assignment for the same pair fails with ErrConflict, even
// under concurrent invites (enforced by a partial unique index).
func (s *AssignmentService) Invite(ctx context.Context, params InviteParams) (*domain.ModeratorAssignment, error) {
	if !params.Role.IsValid() {
		return nil, fmt.Errorf("%w: invalid role %q", domain.ErrValidation, params.Role)
	}
	if params.Moderator == "" {
		return nil, fmt.Errorf("%w: moderator is required", domain.ErrValidation)
	}

	if err := s.requireOrganizer(ctx, params.EventID, params.OrganizerID); err != nil {
		return nil, err
	}

	moderator, err := s.resolveModerator(ctx, params.Moderator)
	if err != nil {
		return nil, err
	}

	assignment := &domain.ModeratorAssignment{
		EventID:     params.EventID,
		ModeratorID: moderator.ID,
		Role:        params.Role,
		Permissions: domain.DefaultPermissions(params.Role).Apply(params.Overrides),
		AssignedBy:  params.OrganizerID,
	}

	assignment, err = s.assignmentRepo.Create(ctx, assignment)
	if err != nil {
		return nil, err
	}

	slog.Info("moderator invited",
		"assignment_id", assignment.ID,
		"event_id", params.EventID,
		"moderator_id", moderator.ID,
		"role", params.Role,
	)

	return assignment, nil
}

// Revoke deactivates the active assignment for a moderator on an event.
// The row is kept for audit history. Only the event's organizer may revoke.
func (s *AssignmentService) Revoke(ctx context.Context, organizerID, eventID, moderatorID string) error {
	if err := s.requireOrganizer(ctx, eventID, organizerID); err != nil {
		return err
	}

	if err := s.assignmentRepo.Deactivate(ctx, eventID, moderatorID); err != nil {
		return err
	}

	slog.Info("moderator revoked",
		"event_id", eventID,
		"moderator_id", moderatorID,
		"organizer_id", organizerID,
	)

	return nil
}

// ListActive returns all active assignments for an event.
func (s *AssignmentService) ListActive(ctx context.Context, eventID string) ([]*domain.ModeratorAssignment, error) {
	return s.assignmentRepo.ListActive(ctx, eventID)
}

// HasPermission reports whether the moderator holds an active assignment
// with the given flag on the event. A missing assignment is simply false.
func (s *AssignmentService) HasPermission(ctx context.Context, eventID, moderatorID string, flag domain.PermissionFlag) (bool, error) {
	assignment, err := s.assignmentRepo.GetActive(ctx, eventID, moderatorID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return assignment.Permissions.Has(flag), nil
}

// requireOrganizer verifies the caller organizes the event.
func (s *AssignmentService) requireOrganizer(ctx context.Context, eventID, callerID string) error {
	organizerID, err := s.eventRepo.OrganizerOf(ctx, eventID)
	if err != nil {
		return err
	}
	if callerID != organizerID {
		return fmt.Errorf("%w: user %s is not the organizer of event %s", domain.ErrForbidden, callerID, eventID)
	}
	return nil
}

// resolveModerator looks a moderator up by id, falling back to email.
// Identity creation belongs to the identity collaborator; unknown moderators
// are ErrNotFound here.
func (s *AssignmentService) resolveModerator(ctx context.Context, idOrEmail string) (*domain.User, error) {
	if strings.Contains(idOrEmail, "@") {
		return s.userRepo.GetByEmail(ctx, idOrEmail)
	}
	return s.userRepo.GetByID(ctx, idOrEmail)
}
