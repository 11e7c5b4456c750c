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

// resourceColumns includes total_cost as a derived expression so the value
// can never drift from quantity and cost_per_unit.
var resourceColumns = []string{
	"id", "event_id", "name", "type", "quantity", "unit", "cost_per_unit",
	"quantity * cost_per_unit AS total_cost",
	"status", "created_at", "updated_at",
}

// ResourceRepository handles database operations for event resources.
type ResourceRepository struct {
	pool *pgxpool.Pool
}

// NewResourceRepository creates a new ResourceRepository.
func NewResourceRepository(pool *pgxpool.Pool) *ResourceRepository {
	return &ResourceRepository{pool: pool}
}

func scanResource(row pgx.Row) (*domain.Resource, error) {
	var res domain.Resource
	err := row.Scan(
		&res.ID,
		&res.EventID,
		&res.Name,
		&res.Type,
		&res.Quantity,
		&res.Unit,
		&res.CostPerUnit,
		&res.TotalCost,
		&res.Status,
		&res.CreatedAt,
		&res.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: resource", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("scan resource: %w", err)
	}
	return &res, nil
}

// Create inserts a new resource row for an event.
func (r *ResourceRepository) Create(ctx context.Context, resource *domain.Resource) (*domain.Resource, error) {
	query, args, err := psql.
		Insert("resources").
		Columns("event_id", "name", "type", "quantity", "unit", "cost_per_unit", "status").
		Values(
			resource.EventID,
			resource.Name,
			resource.Type,
			resource.Quantity,
			resource.Unit,
			resource.CostPerUnit,
			resource.Status,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build Create query for resource: %w", err)
	}

	err = r.pool.QueryRow(ctx, query, args...).Scan(&resource.ID, &resource.CreatedAt, &resource.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}

	resource.TotalCost = resource.Quantity * resource.CostPerUnit
	return resource, nil
}

// GetByID retrieves a resource by ID.
func (r *ResourceRepository) GetByID(ctx context.Context, resourceID string) (*domain.Resource, error) {
	query, args, err := psql.
		Select(resourceColumns...).
		From("resources").
		Where(sq.Eq{"id": resourceID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByID query for resource: %w", err)
	}

	return scanResource(r.pool.QueryRow(ctx, query, args...))
}

// ListByEvent retrieves all resources attached to an event.
func (r *ResourceRepository) ListByEvent(ctx context.Context, eventID string) ([]*domain.Resource, error) {
	query, args, err := psql.
		Select(resourceColumns...).
		From("resources").
		Where(sq.Eq{"event_id": eventID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build ListByEvent query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query resources: %w", err)
	}
	defer rows.Close()

	var resources []*domain.Resource
	for rows.Next() {
		resource, err := scanResource(rows)
		if err != nil {
			return nil, err
		}
		resources = append(resources, resource)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return resources, nil
}

// ResourcePatch carries field updates for a resource. Nil fields are untouched.
type ResourcePatch struct {
	Name        *string
	Type        *domain.ResourceType
	Quantity    *float64
	Unit        *string
	CostPerUnit *float64
	Status      *domain.ResourceStatus
}

// Update applies a patch to a resource row.
func (r *ResourceRepository) Update(ctx context.Context, resourceID string, patch ResourcePatch) error {
	qb := psql.
		Update("resources").
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": resourceID})

	if patch.Name != nil {
		qb = qb.Set("name", *patch.Name)
	}
	if patch.Type != nil {
		qb = qb.Set("type", *patch.Type)
	}
	if patch.Quantity != nil {
		qb = qb.Set("quantity", *patch.Quantity)
	}
	if patch.Unit != nil {
		qb = qb.Set("unit", *patch.Unit)
	}
	if patch.CostPerUnit != nil {
		qb = qb.Set("cost_per_unit", *patch.CostPerUnit)
	}
	if patch.Status != nil {
		qb = qb.Set("status", *patch.Status)
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return fmt.Errorf("build Update query for resource %s: %w", resourceID, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update resource: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: resource %s", domain.ErrNotFound, resourceID)
	}

	return nil
}
