package tax

import (
	"context"
	"errors"
	"math"
	"testing"

	"restaurant-pos/internal/domain"
	"restaurant-pos/internal/pricing"
)

type stubRepo struct {
	rules       []domain.TaxRule
	created     *domain.TaxRule
	updated     *domain.TaxRule
	getErr      error
	lastActive  *bool
	lastListAll bool
}

func (s *stubRepo) List(_ context.Context, _ string, includeInactive bool) ([]domain.TaxRule, error) {
	s.lastListAll = includeInactive
	if includeInactive {
		return s.rules, nil
	}
	var out []domain.TaxRule
	for _, r := range s.rules {
		if r.Active {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *stubRepo) GetByID(_ context.Context, _, id string) (*domain.TaxRule, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return &domain.TaxRule{ID: id}, nil
}

func (s *stubRepo) Create(_ context.Context, r domain.TaxRule) (*domain.TaxRule, error) {
	r.ID = "new"
	s.created = &r
	return &r, nil
}

func (s *stubRepo) Update(_ context.Context, r domain.TaxRule) (*domain.TaxRule, error) {
	s.updated = &r
	return &r, nil
}

func (s *stubRepo) SetActive(_ context.Context, _, id string, active bool) (*domain.TaxRule, error) {
	s.lastActive = &active
	return &domain.TaxRule{ID: id, Active: active}, nil
}

func TestCreate_DefaultsScopeAndValidates(t *testing.T) {
	repo := &stubRepo{}
	svc := New(repo, nil)

	got, err := svc.Create(context.Background(), "r1", domain.TaxRule{Name: "VAT", Percentage: 5, Active: true})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got.RestaurantID != "r1" || got.ApplicableOn != domain.OrderTypeAll {
		t.Fatalf("unexpected rule %+v", got)
	}

	repo.created = nil
	_, err = svc.Create(context.Background(), "r1", domain.TaxRule{Name: "Bad", Percentage: 150})
	if !errors.Is(err, pricing.ErrInvalidTaxRule) {
		t.Fatalf("expected ErrInvalidTaxRule, got %v", err)
	}
	var verr *pricing.ValidationError
	if !errors.As(err, &verr) || verr.Field != "percentage" {
		t.Fatalf("expected percentage validation error, got %v", err)
	}
	if repo.created != nil {
		t.Fatalf("invalid rule must not be stored")
	}
}

func TestUpdate_MissingRule(t *testing.T) {
	svc := New(&stubRepo{getErr: domain.ErrNotFound}, nil)
	_, err := svc.Update(context.Background(), "r1", "x", domain.TaxRule{Name: "VAT", Percentage: 5})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdate_RejectsInvertedThresholds(t *testing.T) {
	repo := &stubRepo{}
	svc := New(repo, nil)
	min, max := 200.0, 100.0
	_, err := svc.Update(context.Background(), "r1", "x", domain.TaxRule{Name: "VAT", Percentage: 5, MinAmount: &min, MaxAmount: &max})
	if !errors.Is(err, pricing.ErrInvalidTaxRule) {
		t.Fatalf("expected ErrInvalidTaxRule, got %v", err)
	}
	if repo.updated != nil {
		t.Fatalf("invalid update must not be stored")
	}
}

func TestDeactivate(t *testing.T) {
	repo := &stubRepo{}
	svc := New(repo, nil)
	got, err := svc.Deactivate(context.Background(), "r1", "rule-1")
	if err != nil {
		t.Fatalf("Deactivate: %v", err)
	}
	if repo.lastActive == nil || *repo.lastActive || got.Active {
		t.Fatalf("expected rule to be deactivated")
	}
}

func TestPreview_UsesActiveRulesOnly(t *testing.T) {
	repo := &stubRepo{rules: []domain.TaxRule{
		{ID: "vat", Name: "VAT", Percentage: 5, ApplicableOn: domain.OrderTypeAll, Active: true},
		{ID: "svc", Name: "Service tax", Percentage: 10, ApplicableOn: domain.OrderTypeAll, IsCompounded: true, Active: true},
		{ID: "old", Name: "Old levy", Percentage: 50, ApplicableOn: domain.OrderTypeAll, Active: false},
	}}
	svc := New(repo, nil)

	res, err := svc.Preview(context.Background(), "r1", PreviewInput{Amount: 100, OrderType: domain.OrderTypeDineIn})
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if repo.lastListAll {
		t.Fatalf("preview must not include inactive rules")
	}
	if len(res.Calculations) != 2 {
		t.Fatalf("expected 2 calculations, got %+v", res.Calculations)
	}
	if math.Abs(res.TotalTax-15.5) > 1e-9 || math.Abs(res.Total-115.5) > 1e-9 {
		t.Fatalf("unexpected totals %+v", res)
	}
}

func TestPreview_InputErrors(t *testing.T) {
	svc := New(&stubRepo{}, nil)
	if _, err := svc.Preview(context.Background(), "r1", PreviewInput{Amount: 10, OrderType: domain.OrderTypeAll}); !errors.Is(err, pricing.ErrInvalidOrderType) {
		t.Fatalf("expected ErrInvalidOrderType, got %v", err)
	}
	if _, err := svc.Preview(context.Background(), "r1", PreviewInput{Amount: -1, OrderType: domain.OrderTypeTakeaway}); !errors.Is(err, pricing.ErrNegativeAmount) {
		t.Fatalf("expected ErrNegativeAmount, got %v", err)
	}
}
