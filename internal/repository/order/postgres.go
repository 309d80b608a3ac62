package order

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

const orderColumns = `id::text, restaurant_id::text, cart_id::text, session_id, COALESCE(table_number, ''), order_type, status, items,
subtotal, service_charge_percent, service_charge, taxes, total_tax, final_total, created_at`

func (r *postgresRepo) Create(ctx context.Context, o domain.Order) (*domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	cmd, err := tx.Exec(ctx, `
UPDATE carts
SET state = 'ordered'
WHERE restaurant_id = $1 AND id = $2 AND state = 'active'
`, o.RestaurantID, o.CartID)
	if err != nil {
		return nil, err
	}
	if cmd.RowsAffected() == 0 {
		return nil, domain.ErrCartClosed
	}

	q := `
INSERT INTO orders (restaurant_id, cart_id, session_id, table_number, order_type, status, items,
    subtotal, service_charge_percent, service_charge, taxes, total_tax, final_total)
VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8, $9, $10, $11, $12, $13)
RETURNING ` + orderColumns
	out, err := scanOrder(tx.QueryRow(ctx, q,
		o.RestaurantID, o.CartID, o.SessionID, o.TableNumber, string(o.OrderType), o.Status, o.Items,
		o.Subtotal, o.ServiceChargePercent, o.ServiceCharge, o.Taxes, o.TotalTax, o.FinalTotal,
	))
	if err != nil {
		r.logger.Printf("order repo: create cart_id=%s error=%v", o.CartID, err)
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	r.logger.Printf("order repo: created id=%s cart_id=%s final_total=%.2f", out.ID, out.CartID, out.FinalTotal)
	return out, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, restaurantID, id string) (*domain.Order, error) {
	if !domain.ValidID(id) {
		return nil, domain.ErrNotFound
	}
	q := `
SELECT ` + orderColumns + `
FROM orders
WHERE restaurant_id = $1 AND id = $2
`
	out, err := scanOrder(r.pool.QueryRow(ctx, q, restaurantID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return out, nil
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var (
		o         domain.Order
		orderType string
	)
	if err := row.Scan(&o.ID, &o.RestaurantID, &o.CartID, &o.SessionID, &o.TableNumber, &orderType, &o.Status, &o.Items,
		&o.Subtotal, &o.ServiceChargePercent, &o.ServiceCharge, &o.Taxes, &o.TotalTax, &o.FinalTotal, &o.CreatedAt); err != nil {
		return nil, err
	}
	o.OrderType = domain.OrderType(orderType)
	return &o, nil
}
