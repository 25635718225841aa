package repository

import (
	"context"
	"errors"

	"pinecove/internal/infra"
	"pinecove/internal/usecase"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ResourceRepository struct {
	db *pgxpool.Pool
}

func NewResourceRepository(db *pgxpool.Pool) *ResourceRepository {
	return &ResourceRepository{db: db}
}

const selectResourceSQL = `
SELECT id, name, upstream_id, capacity, base_rate_cents, image_url
FROM resources
WHERE id = $1`

func (r *ResourceRepository) FindByID(ctx context.Context, id uuid.UUID) (*usecase.ResourceSnapshot, error) {
	row := r.db.QueryRow(ctx, selectResourceSQL, id)

	var snap usecase.ResourceSnapshot
	err := row.Scan(&snap.ID, &snap.Name, &snap.UpstreamID, &snap.Capacity, &snap.BaseRateCents, &snap.ImageURL)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr(infra.KindNotFound, "resource not found", err)
		}
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to read resource", err)
	}
	return &snap, nil
}

const listResourcesSQL = `
SELECT id, name, upstream_id, capacity, base_rate_cents, image_url
FROM resources
ORDER BY name`

func (r *ResourceRepository) List(ctx context.Context) ([]*usecase.ResourceSnapshot, error) {
	rows, err := r.db.Query(ctx, listResourcesSQL)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to list resources", err)
	}
	defer rows.Close()

	var out []*usecase.ResourceSnapshot
	for rows.Next() {
		var snap usecase.ResourceSnapshot
		if err := rows.Scan(&snap.ID, &snap.Name, &snap.UpstreamID, &snap.Capacity, &snap.BaseRateCents, &snap.ImageURL); err != nil {
			return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to scan resource", err)
		}
		out = append(out, &snap)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to iterate resources", err)
	}
	return out, nil
}
