package taxrule

import (
	"context"
	"errors"
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

const ruleColumns = `id::text, restaurant_id::text, name, type, percentage, applicable_on, categories, min_amount, max_amount, is_compounded, active, position`

func scanRule(row pgx.Row) (*domain.TaxRule, error) {
	var (
		r            domain.TaxRule
		taxType      string
		applicableOn string
	)
	if err := row.Scan(&r.ID, &r.RestaurantID, &r.Name, &taxType, &r.Percentage, &applicableOn, &r.Categories, &r.MinAmount, &r.MaxAmount, &r.IsCompounded, &r.Active, &r.Position); err != nil {
		return nil, err
	}
	r.Type = domain.TaxType(taxType)
	r.ApplicableOn = domain.OrderType(applicableOn)
	if len(r.Categories) == 0 {
		r.Categories = nil
	}
	return &r, nil
}

// List returns rules in evaluation order: position, then creation time.
func (r *postgresRepo) List(ctx context.Context, restaurantID string, includeInactive bool) ([]domain.TaxRule, error) {
	q := `
SELECT ` + ruleColumns + `
FROM tax_rules
WHERE restaurant_id = $1 AND (active OR $2)
ORDER BY position ASC, created_at ASC
`
	rows, err := r.pool.Query(ctx, q, restaurantID, includeInactive)
	if err != nil {
		r.logger.Printf("tax rule repo: list restaurant_id=%s error=%v", restaurantID, err)
		return nil, err
	}
	defer rows.Close()

	var out []domain.TaxRule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rule)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, restaurantID, id string) (*domain.TaxRule, error) {
	if !domain.ValidID(id) {
		return nil, domain.ErrNotFound
	}
	q := `
SELECT ` + ruleColumns + `
FROM tax_rules
WHERE restaurant_id = $1 AND id = $2
`
	rule, err := scanRule(r.pool.QueryRow(ctx, q, restaurantID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return rule, nil
}

func (r *postgresRepo) Create(ctx context.Context, in domain.TaxRule) (*domain.TaxRule, error) {
	q := `
INSERT INTO tax_rules (restaurant_id, name, type, percentage, applicable_on, categories, min_amount, max_amount, is_compounded, active, position)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
RETURNING ` + ruleColumns
	rule, err := scanRule(r.pool.QueryRow(ctx, q, in.RestaurantID, in.Name, string(in.Type), in.Percentage, string(in.ApplicableOn),
		categoriesParam(in.Categories), in.MinAmount, in.MaxAmount, in.IsCompounded, in.Active, in.Position))
	if err != nil {
		r.logger.Printf("tax rule repo: create restaurant_id=%s name=%q error=%v", in.RestaurantID, in.Name, err)
		return nil, err
	}
	r.logger.Printf("tax rule repo: created restaurant_id=%s id=%s", rule.RestaurantID, rule.ID)
	return rule, nil
}

func (r *postgresRepo) Update(ctx context.Context, in domain.TaxRule) (*domain.TaxRule, error) {
	if !domain.ValidID(in.ID) {
		return nil, domain.ErrNotFound
	}
	q := `
UPDATE tax_rules
SET name = $3, type = $4, percentage = $5, applicable_on = $6, categories = $7,
    min_amount = $8, max_amount = $9, is_compounded = $10, active = $11, position = $12
WHERE restaurant_id = $1 AND id = $2
RETURNING ` + ruleColumns
	rule, err := scanRule(r.pool.QueryRow(ctx, q, in.RestaurantID, in.ID, in.Name, string(in.Type), in.Percentage, string(in.ApplicableOn),
		categoriesParam(in.Categories), in.MinAmount, in.MaxAmount, in.IsCompounded, in.Active, in.Position))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("tax rule repo: update id=%s error=%v", in.ID, err)
		return nil, err
	}
	return rule, nil
}

func (r *postgresRepo) SetActive(ctx context.Context, restaurantID, id string, active bool) (*domain.TaxRule, error) {
	if !domain.ValidID(id) {
		return nil, domain.ErrNotFound
	}
	q := `
UPDATE tax_rules
SET active = $3
WHERE restaurant_id = $1 AND id = $2
RETURNING ` + ruleColumns
	rule, err := scanRule(r.pool.QueryRow(ctx, q, restaurantID, id, active))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	r.logger.Printf("tax rule repo: set active=%t restaurant_id=%s id=%s", active, restaurantID, id)
	return rule, nil
}

func categoriesParam(c []string) []string {
	if c == nil {
		return []string{}
	}
	return c
}
