package catalog

import (
	"context"
	"errors"
	"testing"

	"restaurant-pos/internal/domain"
)

type stubCategories struct {
	byKey map[string]domain.Category
}

func (s *stubCategories) ListByRestaurant(_ context.Context, _ string) ([]domain.Category, error) {
	var out []domain.Category
	for _, c := range s.byKey {
		out = append(out, c)
	}
	return out, nil
}

func (s *stubCategories) GetByKey(_ context.Context, _, key string) (*domain.Category, error) {
	c, ok := s.byKey[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}

func (s *stubCategories) Upsert(_ context.Context, c domain.Category) (*domain.Category, error) {
	c.ID = "cat-" + c.Key
	return &c, nil
}

type stubProducts struct {
	saved      domain.Product
	groups     []domain.ModifierGroup
	groupsFor  string
	replaceErr error
}

func (s *stubProducts) ListByRestaurant(_ context.Context, _ string) ([]domain.Product, error) {
	return []domain.Product{s.saved}, nil
}

func (s *stubProducts) GetByID(_ context.Context, _, _ string) (*domain.Product, error) {
	return &s.saved, nil
}

func (s *stubProducts) Upsert(_ context.Context, p domain.Product) (*domain.Product, error) {
	p.ID = "prod-1"
	s.saved = p
	return &p, nil
}

func (s *stubProducts) ReplaceModifierGroups(_ context.Context, productID string, groups []domain.ModifierGroup) error {
	s.groupsFor = productID
	s.groups = groups
	return s.replaceErr
}

func TestUpsertProduct_ResolvesCategoryAndStoresGroups(t *testing.T) {
	cats := &stubCategories{byKey: map[string]domain.Category{"pizza": {ID: "cat-pizza", Key: "pizza"}}}
	prods := &stubProducts{}
	svc := New(cats, prods)

	in := domain.Product{
		RestaurantID: "r1",
		Key:          "margherita",
		Name:         "Margherita",
		Price:        9,
		ModifierGroups: []domain.ModifierGroup{{
			Name:          "Size",
			SelectionMode: domain.SelectionSingle,
			Required:      true,
			Options:       []domain.ModifierOption{{ID: "s", Name: "Small", Available: true}, {ID: "l", Name: "Large", Price: 3, Available: true}},
		}},
	}
	got, err := svc.UpsertProduct(context.Background(), in, "pizza")
	if err != nil {
		t.Fatalf("UpsertProduct: %v", err)
	}
	if got.CategoryID != "cat-pizza" || prods.saved.CategoryID != "cat-pizza" {
		t.Fatalf("category not resolved: %+v", got)
	}
	if prods.groupsFor != "prod-1" || len(prods.groups) != 1 || len(got.ModifierGroups) != 1 {
		t.Fatalf("modifier groups not stored: %+v", prods.groups)
	}
}

func TestUpsertProduct_UnknownCategory(t *testing.T) {
	svc := New(&stubCategories{byKey: map[string]domain.Category{}}, &stubProducts{})
	_, err := svc.UpsertProduct(context.Background(), domain.Product{Key: "k", Name: "n"}, "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpsertProduct_Validation(t *testing.T) {
	cases := []struct {
		name string
		p    domain.Product
	}{
		{"missing key", domain.Product{Name: "n"}},
		{"negative price", domain.Product{Key: "k", Name: "n", Price: -1}},
		{"unknown mode", domain.Product{Key: "k", Name: "n", ModifierGroups: []domain.ModifierGroup{{Name: "g", SelectionMode: "any"}}}},
		{"min above max", domain.Product{Key: "k", Name: "n", ModifierGroups: []domain.ModifierGroup{{Name: "g", SelectionMode: domain.SelectionMultiple, MinSelect: 3, MaxSelect: 2}}}},
		{"duplicate option", domain.Product{Key: "k", Name: "n", ModifierGroups: []domain.ModifierGroup{{
			Name: "g", SelectionMode: domain.SelectionMultiple,
			Options: []domain.ModifierOption{{ID: "a"}, {ID: "a"}},
		}}}},
		{"negative option price", domain.Product{Key: "k", Name: "n", ModifierGroups: []domain.ModifierGroup{{
			Name: "g", SelectionMode: domain.SelectionSingle,
			Options: []domain.ModifierOption{{ID: "a", Price: -0.5}},
		}}}},
	}
	svc := New(&stubCategories{}, &stubProducts{})
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.UpsertProduct(context.Background(), tc.p, ""); !errors.Is(err, ErrInvalidProduct) {
				t.Fatalf("expected ErrInvalidProduct, got %v", err)
			}
		})
	}
}
