package restaurant

import (
	"context"

	"restaurant-pos/internal/domain"
)

type Repository interface {
	GetByKey(ctx context.Context, key string) (*domain.Restaurant, error)
	Upsert(ctx context.Context, r domain.Restaurant) (*domain.Restaurant, error)
}
