package taxrule

import (
	"context"

	"restaurant-pos/internal/domain"
)

type Repository interface {
	List(ctx context.Context, restaurantID string, includeInactive bool) ([]domain.TaxRule, error)
	GetByID(ctx context.Context, restaurantID, id string) (*domain.TaxRule, error)
	Create(ctx context.Context, rule domain.TaxRule) (*domain.TaxRule, error)
	Update(ctx context.Context, rule domain.TaxRule) (*domain.TaxRule, error)
	SetActive(ctx context.Context, restaurantID, id string, active bool) (*domain.TaxRule, error)
}
