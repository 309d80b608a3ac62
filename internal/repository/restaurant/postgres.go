package restaurant

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"restaurant-pos/internal/domain"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) GetByKey(ctx context.Context, key string) (*domain.Restaurant, error) {
	const q = `
SELECT id::text, key, name, service_charge_percent, created_at
FROM restaurants
WHERE key = $1
`
	var out domain.Restaurant
	err := r.pool.QueryRow(ctx, q, key).Scan(&out.ID, &out.Key, &out.Name, &out.ServiceChargePercent, &out.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &out, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, in domain.Restaurant) (*domain.Restaurant, error) {
	const q = `
INSERT INTO restaurants (key, name, service_charge_percent)
VALUES ($1, $2, $3)
ON CONFLICT (key) DO UPDATE
SET name = EXCLUDED.name,
    service_charge_percent = EXCLUDED.service_charge_percent
RETURNING id::text, created_at
`
	out := in
	if err := r.pool.QueryRow(ctx, q, in.Key, in.Name, in.ServiceChargePercent).Scan(&out.ID, &out.CreatedAt); err != nil {
		return nil, err
	}
	return &out, nil
}
