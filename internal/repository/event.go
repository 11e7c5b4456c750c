package repository

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/festiplan/taskflow/internal/domain"
)

// EventRepository is a read-only view over the event directory collaborator.
// The engine only needs event existence and the organizer id.
type EventRepository struct {
	pool *pgxpool.Pool
}

// NewEventRepository creates a new EventRepository.
func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{pool: pool}
}

// GetByID retrieves an event by ID.
func (r *EventRepository) GetByID(ctx context.Context, eventID string) (*domain.Event, error) {
	query, args, err := psql.
		Select("id", "title", "organizer_id", "starts_at", "created_at").
		From("events").
		Where(sq.Eq{"id": eventID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByID query for event: %w", err)
	}

	var event domain.Event
	err = r.pool.QueryRow(ctx, query, args...).Scan(
		&event.ID,
		&event.Title,
		&event.OrganizerID,
		&event.StartsAt,
		&event.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: event %s", domain.ErrNotFound, eventID)
		}
		return nil, fmt.Errorf("query event: %w", err)
	}

	return &event, nil
}

// Exists reports whether an event exists.
func (r *EventRepository) Exists(ctx context.Context, eventID string) (bool, error) {
	query, args, err := psql.
		Select("1").
		From("events").
		Where(sq.Eq{"id": eventID}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build Exists query for event: %w", err)
	}

	var one int
	err = r.pool.QueryRow(ctx, query, args...).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("query event existence: %w", err)
	}

	return true, nil
}

// OrganizerOf returns the organizer id for an event.
func (r *EventRepository) OrganizerOf(ctx context.Context, eventID string) (string, error) {
	event, err := r.GetByID(ctx, eventID)
	if err != nil {
		return "", err
	}
	return event.OrganizerID, nil
}
