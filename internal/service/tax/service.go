package tax

import (
	"context"
	"fmt"
	"io"
	"log"

	"restaurant-pos/internal/domain"
	"restaurant-pos/internal/pricing"
	taxrulerepo "restaurant-pos/internal/repository/taxrule"
)

type Service struct {
	repo   taxrulerepo.Repository
	logger *log.Logger
}

func New(repo taxrulerepo.Repository, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{repo: repo, logger: logger}
}

func (s *Service) List(ctx context.Context, restaurantID string, includeInactive bool) ([]domain.TaxRule, error) {
	return s.repo.List(ctx, restaurantID, includeInactive)
}

func (s *Service) Get(ctx context.Context, restaurantID, id string) (*domain.TaxRule, error) {
	return s.repo.GetByID(ctx, restaurantID, id)
}

func (s *Service) Create(ctx context.Context, restaurantID string, rule domain.TaxRule) (*domain.TaxRule, error) {
	rule.RestaurantID = restaurantID
	if rule.ApplicableOn == "" {
		rule.ApplicableOn = domain.OrderTypeAll
	}
	if err := pricing.ValidateTaxRule(rule); err != nil {
		return nil, err
	}
	created, err := s.repo.Create(ctx, rule)
	if err != nil {
		return nil, err
	}
	s.logger.Printf("tax svc: created rule_id=%s restaurant_id=%s pct=%v compounded=%t", created.ID, restaurantID, created.Percentage, created.IsCompounded)
	return created, nil
}

func (s *Service) Update(ctx context.Context, restaurantID, id string, rule domain.TaxRule) (*domain.TaxRule, error) {
	if _, err := s.repo.GetByID(ctx, restaurantID, id); err != nil {
		return nil, err
	}
	rule.ID = id
	rule.RestaurantID = restaurantID
	if rule.ApplicableOn == "" {
		rule.ApplicableOn = domain.OrderTypeAll
	}
	if err := pricing.ValidateTaxRule(rule); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, rule)
}

func (s *Service) Deactivate(ctx context.Context, restaurantID, id string) (*domain.TaxRule, error) {
	rule, err := s.repo.SetActive(ctx, restaurantID, id, false)
	if err != nil {
		return nil, err
	}
	s.logger.Printf("tax svc: deactivated rule_id=%s restaurant_id=%s", id, restaurantID)
	return rule, nil
}

type PreviewInput struct {
	Amount     float64          `json:"amount"`
	OrderType  domain.OrderType `json:"orderType"`
	Categories []string         `json:"categories,omitempty"`
}

type PreviewResult struct {
	Calculations []domain.TaxCalculation
	TotalTax     float64
	Total        float64
}

func (s *Service) Preview(ctx context.Context, restaurantID string, in PreviewInput) (*PreviewResult, error) {
	if !in.OrderType.Valid() {
		return nil, fmt.Errorf("preview: %w %q", pricing.ErrInvalidOrderType, in.OrderType)
	}
	rules, err := s.repo.List(ctx, restaurantID, false)
	if err != nil {
		return nil, err
	}
	calcs, err := pricing.Evaluate(rules, pricing.OrderContext{
		Amount:     in.Amount,
		OrderType:  in.OrderType,
		Categories: pricing.CategorySet(in.Categories...),
	})
	if err != nil {
		return nil, err
	}
	total := pricing.Summarize(calcs)
	return &PreviewResult{Calculations: calcs, TotalTax: total, Total: in.Amount + total}, nil
}
