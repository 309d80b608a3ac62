package product

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"restaurant-pos/internal/domain"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

const productColumns = `id::text, restaurant_id::text, COALESCE(category_id::text, ''), key, name, COALESCE(description, ''), price, available, created_at`

func scanProduct(row pgx.Row, p *domain.Product) error {
	return row.Scan(&p.ID, &p.RestaurantID, &p.CategoryID, &p.Key, &p.Name, &p.Description, &p.Price, &p.Available, &p.CreatedAt)
}

func (r *postgresRepo) ListByRestaurant(ctx context.Context, restaurantID string) ([]domain.Product, error) {
	q := `
SELECT ` + productColumns + `
FROM products
WHERE restaurant_id = $1
ORDER BY name ASC
`
	rows, err := r.pool.Query(ctx, q, restaurantID)
	if err != nil {
		r.logger.Printf("product repo: list restaurant_id=%s error=%v", restaurantID, err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("product repo: list rows restaurant_id=%s error=%v", restaurantID, err)
		return nil, err
	}

	groups, err := r.groupsByRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	for i := range result {
		result[i].ModifierGroups = groups[result[i].ID]
	}
	r.logger.Printf("product repo: list restaurant_id=%s count=%d", restaurantID, len(result))
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, restaurantID, id string) (*domain.Product, error) {
	if !domain.ValidID(id) {
		return nil, domain.ErrNotFound
	}
	q := `
SELECT ` + productColumns + `
FROM products
WHERE restaurant_id = $1 AND id = $2
`
	var p domain.Product
	if err := scanProduct(r.pool.QueryRow(ctx, q, restaurantID, id), &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Printf("product repo: get restaurant_id=%s id=%s not found", restaurantID, id)
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("product repo: get restaurant_id=%s id=%s error=%v", restaurantID, id, err)
		return nil, err
	}

	groups, err := r.groupsForProduct(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	p.ModifierGroups = groups
	return &p, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, product domain.Product) (*domain.Product, error) {
	const q = `
INSERT INTO products (restaurant_id, category_id, key, name, description, price, available)
VALUES ($1, NULLIF($2, '')::uuid, $3, $4, NULLIF($5, ''), $6, $7)
ON CONFLICT (restaurant_id, key) DO UPDATE SET
    category_id = EXCLUDED.category_id,
    name = EXCLUDED.name,
    description = EXCLUDED.description,
    price = EXCLUDED.price,
    available = EXCLUDED.available
RETURNING id::text, created_at
`
	res := product
	err := r.pool.QueryRow(ctx, q,
		product.RestaurantID,
		product.CategoryID,
		product.Key,
		product.Name,
		product.Description,
		product.Price,
		product.Available,
	).Scan(&res.ID, &res.CreatedAt)
	if err != nil {
		r.logger.Printf("product repo: upsert key=%s restaurant_id=%s error=%v", product.Key, product.RestaurantID, err)
		return nil, fmt.Errorf("upsert product %q: %w", product.Key, err)
	}
	r.logger.Printf("product repo: upserted key=%s restaurant_id=%s id=%s", res.Key, res.RestaurantID, res.ID)
	return &res, nil
}

func (r *postgresRepo) ReplaceModifierGroups(ctx context.Context, productID string, groups []domain.ModifierGroup) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM modifier_groups WHERE product_id = $1`, productID); err != nil {
		return err
	}
	for i, g := range groups {
		options := g.Options
		if options == nil {
			options = []domain.ModifierOption{}
		}
		if _, err := tx.Exec(ctx, `
INSERT INTO modifier_groups (product_id, name, selection_mode, required, min_select, max_select, position, options)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`, productID, g.Name, string(g.SelectionMode), g.Required, g.MinSelect, g.MaxSelect, i, options); err != nil {
			return fmt.Errorf("insert modifier group %q: %w", g.Name, err)
		}
	}
	return tx.Commit(ctx)
}

const groupColumns = `id::text, product_id::text, name, selection_mode, required, min_select, max_select, position, options`

func scanGroups(rows pgx.Rows) ([]domain.ModifierGroup, error) {
	defer rows.Close()
	var out []domain.ModifierGroup
	for rows.Next() {
		var g domain.ModifierGroup
		var mode string
		if err := rows.Scan(&g.ID, &g.ProductID, &g.Name, &mode, &g.Required, &g.MinSelect, &g.MaxSelect, &g.Position, &g.Options); err != nil {
			return nil, err
		}
		g.SelectionMode = domain.SelectionMode(mode)
		out = append(out, g)
	}
	return out, rows.Err()
}

func (r *postgresRepo) groupsForProduct(ctx context.Context, productID string) ([]domain.ModifierGroup, error) {
	rows, err := r.pool.Query(ctx, `
SELECT `+groupColumns+`
FROM modifier_groups
WHERE product_id = $1
ORDER BY position ASC
`, productID)
	if err != nil {
		return nil, err
	}
	return scanGroups(rows)
}

func (r *postgresRepo) groupsByRestaurant(ctx context.Context, restaurantID string) (map[string][]domain.ModifierGroup, error) {
	rows, err := r.pool.Query(ctx, `
SELECT `+groupColumns+`
FROM modifier_groups
WHERE product_id IN (SELECT id FROM products WHERE restaurant_id = $1)
ORDER BY product_id, position ASC
`, restaurantID)
	if err != nil {
		return nil, err
	}
	groups, err := scanGroups(rows)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]domain.ModifierGroup)
	for _, g := range groups {
		out[g.ProductID] = append(out[g.ProductID], g)
	}
	return out, nil
}
