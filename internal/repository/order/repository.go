package order

import (
	"context"

	"restaurant-pos/internal/domain"
)

type Repository interface {
	// Create stores the snapshot and closes its cart in one transaction.
	Create(ctx context.Context, order domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, restaurantID, id string) (*domain.Order, error)
}
