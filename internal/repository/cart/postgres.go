package cart

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

const cartColumns = `id::text, restaurant_id::text, session_id, COALESCE(table_number, ''), order_type, state, created_at`

func (r *postgresRepo) Create(ctx context.Context, in CreateCartInput) (*domain.Cart, error) {
	q := `
INSERT INTO carts (restaurant_id, session_id, table_number, order_type, state)
VALUES ($1, $2, NULLIF($3, ''), $4, 'active')
RETURNING ` + cartColumns
	var cart domain.Cart
	if err := scanCart(r.pool.QueryRow(ctx, q, in.RestaurantID, in.SessionID, in.TableNumber, string(in.OrderType)), &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, restaurantID, id string) (*domain.Cart, error) {
	if !domain.ValidID(id) {
		return nil, domain.ErrNotFound
	}
	return r.fetchCart(ctx, `
SELECT `+cartColumns+`
FROM carts
WHERE restaurant_id = $1 AND id = $2
`, restaurantID, id)
}

func (r *postgresRepo) GetActiveBySession(ctx context.Context, restaurantID, sessionID string) (*domain.Cart, error) {
	return r.fetchCart(ctx, `
SELECT `+cartColumns+`
FROM carts
WHERE restaurant_id = $1 AND session_id = $2 AND state = 'active'
ORDER BY created_at DESC
LIMIT 1
`, restaurantID, sessionID)
}

// inActiveCart runs fn under the cart row lock.
func (r *postgresRepo) inActiveCart(ctx context.Context, cartID string, fn func(tx pgx.Tx) error) error {
	if !domain.ValidID(cartID) {
		return domain.ErrNotFound
	}
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var state string
	if err := tx.QueryRow(ctx, `SELECT state FROM carts WHERE id = $1 FOR UPDATE`, cartID).Scan(&state); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}
	if state != domain.CartStateActive {
		return domain.ErrCartClosed
	}
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// AddLineItem merges lines with equal product, price, modifiers and note.
func (r *postgresRepo) AddLineItem(ctx context.Context, cartID string, line NewLine) error {
	modifiers := line.Modifiers
	if modifiers == nil {
		modifiers = []domain.SelectedModifier{}
	}

	return r.inActiveCart(ctx, cartID, func(tx pgx.Tx) error {
		var lineID string
		err := tx.QueryRow(ctx, `
SELECT id::text
FROM cart_lines
WHERE cart_id = $1 AND product_id = $2 AND modifiers = $3::jsonb AND COALESCE(note, '') = $4 AND base_price = $5
FOR UPDATE
`, cartID, line.ProductID, modifiers, line.Note, line.BasePrice).Scan(&lineID)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return err
		}

		if err == nil {
			_, err = tx.Exec(ctx, `
UPDATE cart_lines
SET quantity = quantity + $1
WHERE id = $2
`, line.Quantity, lineID)
			return err
		}
		_, err = tx.Exec(ctx, `
INSERT INTO cart_lines (cart_id, product_id, product_name, category_id, base_price, quantity, modifiers, note)
VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, NULLIF($8, ''))
`, cartID, line.ProductID, line.ProductName, line.CategoryID, line.BasePrice, line.Quantity, modifiers, line.Note)
		return err
	})
}

// ChangeLineItemQuantity deletes the line when quantity drops to zero.
func (r *postgresRepo) ChangeLineItemQuantity(ctx context.Context, cartID, lineItemID string, quantity int) error {
	if quantity <= 0 {
		return r.RemoveLineItem(ctx, cartID, lineItemID)
	}
	return r.execLine(ctx, cartID, lineItemID, `
UPDATE cart_lines
SET quantity = $3
WHERE id = $1 AND cart_id = $2
`, quantity)
}

func (r *postgresRepo) RemoveLineItem(ctx context.Context, cartID, lineItemID string) error {
	return r.execLine(ctx, cartID, lineItemID, `
DELETE FROM cart_lines
WHERE id = $1 AND cart_id = $2
`)
}

func (r *postgresRepo) ChangeLineItemModifiers(ctx context.Context, cartID, lineItemID string, modifiers []domain.SelectedModifier) error {
	if modifiers == nil {
		modifiers = []domain.SelectedModifier{}
	}
	return r.execLine(ctx, cartID, lineItemID, `
UPDATE cart_lines
SET modifiers = $3
WHERE id = $1 AND cart_id = $2
`, modifiers)
}

func (r *postgresRepo) ChangeLineItemNote(ctx context.Context, cartID, lineItemID, note string) error {
	return r.execLine(ctx, cartID, lineItemID, `
UPDATE cart_lines
SET note = NULLIF($3, '')
WHERE id = $1 AND cart_id = $2
`, note)
}

// $1 is the line id, $2 the cart id.
func (r *postgresRepo) execLine(ctx context.Context, cartID, lineItemID, q string, args ...interface{}) error {
	if !domain.ValidID(lineItemID) {
		return domain.ErrNotFound
	}
	return r.inActiveCart(ctx, cartID, func(tx pgx.Tx) error {
		cmd, err := tx.Exec(ctx, q, append([]interface{}{lineItemID, cartID}, args...)...)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

func (r *postgresRepo) SetOrderType(ctx context.Context, cartID string, orderType domain.OrderType) error {
	return r.inActiveCart(ctx, cartID, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `UPDATE carts SET order_type = $1 WHERE id = $2`, string(orderType), cartID)
		return err
	})
}

func scanCart(row pgx.Row, cart *domain.Cart) error {
	var orderType string
	if err := row.Scan(&cart.ID, &cart.RestaurantID, &cart.SessionID, &cart.TableNumber, &orderType, &cart.State, &cart.CreatedAt); err != nil {
		return err
	}
	cart.OrderType = domain.OrderType(orderType)
	return nil
}

func (r *postgresRepo) fetchCart(ctx context.Context, cartQuery string, args ...interface{}) (*domain.Cart, error) {
	var cart domain.Cart
	if err := scanCart(r.pool.QueryRow(ctx, cartQuery, args...), &cart); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	const linesQuery = `
SELECT id::text, product_id::text, product_name, COALESCE(category_id, ''), base_price, quantity, modifiers, COALESCE(note, ''), created_at
FROM cart_lines
WHERE cart_id = $1
ORDER BY created_at ASC, id ASC
`
	rows, err := r.pool.Query(ctx, linesQuery, cart.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var line domain.LineItem
		if err := rows.Scan(
			&line.ID,
			&line.ProductID,
			&line.ProductName,
			&line.CategoryID,
			&line.BasePrice,
			&line.Quantity,
			&line.Modifiers,
			&line.Note,
			&line.CreatedAt,
		); err != nil {
			return nil, err
		}
		cart.Lines = append(cart.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &cart, nil
}
