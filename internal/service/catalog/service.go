package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"restaurant-pos/internal/domain"
	"restaurant-pos/internal/pricing"
	categoryrepo "restaurant-pos/internal/repository/category"
	productrepo "restaurant-pos/internal/repository/product"
)

var ErrInvalidProduct = errors.New("invalid catalog entry")

type Service struct {
	categories categoryrepo.Repository
	products   productrepo.Repository
}

func New(categories categoryrepo.Repository, products productrepo.Repository) *Service {
	return &Service{categories: categories, products: products}
}

func (s *Service) ListCategories(ctx context.Context, restaurantID string) ([]domain.Category, error) {
	return s.categories.ListByRestaurant(ctx, restaurantID)
}

func (s *Service) ListProducts(ctx context.Context, restaurantID string) ([]domain.Product, error) {
	return s.products.ListByRestaurant(ctx, restaurantID)
}

func (s *Service) GetProduct(ctx context.Context, restaurantID, id string) (*domain.Product, error) {
	return s.products.GetByID(ctx, restaurantID, id)
}

func (s *Service) UpsertCategory(ctx context.Context, c domain.Category) (*domain.Category, error) {
	if strings.TrimSpace(c.Key) == "" || strings.TrimSpace(c.Name) == "" {
		return nil, &pricing.ValidationError{Field: "category", Reason: "key and name are required", Err: ErrInvalidProduct}
	}
	return s.categories.Upsert(ctx, c)
}

func (s *Service) UpsertProduct(ctx context.Context, p domain.Product, categoryKey string) (*domain.Product, error) {
	if err := validateProduct(p); err != nil {
		return nil, err
	}
	if key := strings.TrimSpace(categoryKey); key != "" {
		cat, err := s.categories.GetByKey(ctx, p.RestaurantID, key)
		if err != nil {
			return nil, fmt.Errorf("category %q: %w", key, err)
		}
		p.CategoryID = cat.ID
	}
	saved, err := s.products.Upsert(ctx, p)
	if err != nil {
		return nil, err
	}
	if err := s.products.ReplaceModifierGroups(ctx, saved.ID, p.ModifierGroups); err != nil {
		return nil, err
	}
	// reload for the generated group ids
	return s.products.GetByID(ctx, saved.RestaurantID, saved.ID)
}

func validateProduct(p domain.Product) error {
	invalid := func(field, reason string) error {
		return &pricing.ValidationError{Field: field, Reason: reason, Err: ErrInvalidProduct}
	}
	if strings.TrimSpace(p.Key) == "" {
		return invalid("key", "is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return invalid("name", "is required")
	}
	if p.Price < 0 {
		return invalid("price", "must not be negative")
	}
	for _, g := range p.ModifierGroups {
		if g.SelectionMode != domain.SelectionSingle && g.SelectionMode != domain.SelectionMultiple {
			return invalid("modifierGroups.selectionMode", fmt.Sprintf("unknown mode %q for group %s", g.SelectionMode, g.Name))
		}
		if g.MaxSelect > 0 && g.MinSelect > g.MaxSelect {
			return invalid("modifierGroups.minSelect", fmt.Sprintf("exceeds maxSelect for group %s", g.Name))
		}
		seen := make(map[string]struct{}, len(g.Options))
		for _, o := range g.Options {
			if o.Price < 0 {
				return invalid("modifierGroups.options.price", fmt.Sprintf("must not be negative (option %s)", o.ID))
			}
			if _, dup := seen[o.ID]; dup || o.ID == "" {
				return invalid("modifierGroups.options.id", fmt.Sprintf("missing or duplicate id in group %s", g.Name))
			}
			seen[o.ID] = struct{}{}
		}
	}
	return nil
}
