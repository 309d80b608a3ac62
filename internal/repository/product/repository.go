package product

import (
	"context"

	"restaurant-pos/internal/domain"
)

type Repository interface {
	ListByRestaurant(ctx context.Context, restaurantID string) ([]domain.Product, error)
	GetByID(ctx context.Context, restaurantID, id string) (*domain.Product, error)
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
	ReplaceModifierGroups(ctx context.Context, productID string, groups []domain.ModifierGroup) error
}
