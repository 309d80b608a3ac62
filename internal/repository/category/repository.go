package category

import (
	"context"

	"restaurant-pos/internal/domain"
)

type Repository interface {
	ListByRestaurant(ctx context.Context, restaurantID string) ([]domain.Category, error)
	GetByKey(ctx context.Context, restaurantID, key string) (*domain.Category, error)
	Upsert(ctx context.Context, c domain.Category) (*domain.Category, error)
}
