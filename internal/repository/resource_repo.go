package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"costaverde/internal/db"
	apperrors "costaverde/internal/errors"
)

type ResourceRepository struct {
	DB *sql.DB
}

func NewResourceRepository(database *sql.DB) *ResourceRepository {
	return &ResourceRepository{DB: database}
}

func (r *ResourceRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.DB, fn)
}

func (r *ResourceRepository) CreateResource(ctx context.Context, res *db.Resource) error {
	query := `
		INSERT INTO resources (id, kind, name, category, adults, children, seats, rate, is_available, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := q(ctx, r.DB).ExecContext(ctx, query,
		res.ID, res.Kind, res.Name, res.Category, res.Adults, res.Children,
		res.Seats, res.Rate, res.IsAvailable, res.CreatedAt, res.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating resource: %w", err)
	}
	return nil
}

func (r *ResourceRepository) UpdateResource(ctx context.Context, res *db.Resource) error {
	query := `
		UPDATE resources
		SET name = $1, category = $2, adults = $3, children = $4, seats = $5,
		    rate = $6, is_available = $7, updated_at = $8
		WHERE id = $9`
	result, err := q(ctx, r.DB).ExecContext(ctx, query,
		res.Name, res.Category, res.Adults, res.Children, res.Seats,
		res.Rate, res.IsAvailable, res.UpdatedAt, res.ID)
	if err != nil {
		return fmt.Errorf("error updating resource: %w", err)
	}
	return requireOneRow(result, "resource")
}

func (r *ResourceRepository) DeleteResource(ctx context.Context, id string) error {
	result, err := q(ctx, r.DB).ExecContext(ctx, `DELETE FROM resources WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting resource: %w", err)
	}
	return requireOneRow(result, "resource")
}

func (r *ResourceRepository) SetResourceAvailability(ctx context.Context, id string, isAvailable bool, updatedAt time.Time) error {
	result, err := q(ctx, r.DB).ExecContext(ctx,
		`UPDATE resources SET is_available = $1, updated_at = $2 WHERE id = $3`,
		isAvailable, updatedAt, id)
	if err != nil {
		return fmt.Errorf("error toggling resource availability: %w", err)
	}
	return requireOneRow(result, "resource")
}

func (r *ResourceRepository) GetResource(ctx context.Context, id string) (*db.Resource, error) {
	query := `
		SELECT id, kind, name, category, adults, children, seats, rate, is_available, created_at, updated_at
		FROM resources WHERE id = $1`
	return r.scanResource(ctx, query, id)
}

// GetResourceForUpdate locks the resource row, serializing the caller's
// transaction against reserve attempts that lock the same row.
func (r *ResourceRepository) GetResourceForUpdate(ctx context.Context, id string) (*db.Resource, error) {
	query := `
		SELECT id, kind, name, category, adults, children, seats, rate, is_available, created_at, updated_at
		FROM resources WHERE id = $1 FOR UPDATE`
	return r.scanResource(ctx, query, id)
}

func (r *ResourceRepository) scanResource(ctx context.Context, query, id string) (*db.Resource, error) {
	var res db.Resource
	err := q(ctx, r.DB).QueryRowContext(ctx, query, id).Scan(
		&res.ID, &res.Kind, &res.Name, &res.Category, &res.Adults, &res.Children,
		&res.Seats, &res.Rate, &res.IsAvailable, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("resource: %w", apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("error querying resource: %w", err)
	}
	return &res, nil
}

func (r *ResourceRepository) ListResources(ctx context.Context, kind string) ([]db.Resource, error) {
	query := `
		SELECT id, kind, name, category, adults, children, seats, rate, is_available, created_at, updated_at
		FROM resources`
	args := []any{}
	if kind != "" {
		query += ` WHERE kind = $1`
		args = append(args, kind)
	}
	query += ` ORDER BY kind, name`

	rows, err := q(ctx, r.DB).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing resources: %w", err)
	}
	defer rows.Close()

	var out []db.Resource
	for rows.Next() {
		var res db.Resource
		err := rows.Scan(&res.ID, &res.Kind, &res.Name, &res.Category, &res.Adults, &res.Children,
			&res.Seats, &res.Rate, &res.IsAvailable, &res.CreatedAt, &res.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("error scanning resource: %w", err)
		}
		out = append(out, res)
	}
	return out, rows.Err()
}
