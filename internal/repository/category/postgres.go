package category

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

func (r *postgresRepo) ListByRestaurant(ctx context.Context, restaurantID string) ([]domain.Category, error) {
	const q = `
SELECT id::text, restaurant_id::text, key, name, position, created_at
FROM categories
WHERE restaurant_id = $1
ORDER BY position ASC, name ASC
`
	rows, err := r.pool.Query(ctx, q, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.RestaurantID, &c.Key, &c.Name, &c.Position, &c.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) GetByKey(ctx context.Context, restaurantID, key string) (*domain.Category, error) {
	const q = `
SELECT id::text, restaurant_id::text, key, name, position, created_at
FROM categories
WHERE restaurant_id = $1 AND key = $2
`
	var c domain.Category
	err := r.pool.QueryRow(ctx, q, restaurantID, key).Scan(&c.ID, &c.RestaurantID, &c.Key, &c.Name, &c.Position, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, c domain.Category) (*domain.Category, error) {
	const q = `
INSERT INTO categories (restaurant_id, key, name, position)
VALUES ($1, $2, $3, $4)
ON CONFLICT (restaurant_id, key) DO UPDATE
SET name = EXCLUDED.name,
    position = EXCLUDED.position
RETURNING id::text, created_at
`
	out := c
	if err := r.pool.QueryRow(ctx, q, c.RestaurantID, c.Key, c.Name, c.Position).Scan(&out.ID, &out.CreatedAt); err != nil {
		return nil, err
	}
	return &out, nil
}
