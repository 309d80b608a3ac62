package order

import (
	"context"
	"errors"
	"io"
	"log"

	"restaurant-pos/internal/domain"
	"restaurant-pos/internal/events"
	"restaurant-pos/internal/metrics"
	orderrepo "restaurant-pos/internal/repository/order"
	cartsvc "restaurant-pos/internal/service/cart"
)

var ErrEmptyCart = errors.New("cart has no items")

type cartReader interface {
	Get(ctx context.Context, restaurant *domain.Restaurant, sessionID, cartID string) (*cartsvc.View, error)
}

type Service struct {
	repo      orderrepo.Repository
	carts     cartReader
	publisher events.Publisher
	logger    *log.Logger
}

func New(repo orderrepo.Repository, carts cartReader, publisher events.Publisher, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if publisher == nil {
		publisher = events.Noop(logger)
	}
	return &Service{repo: repo, carts: carts, publisher: publisher, logger: logger}
}

func (s *Service) Submit(ctx context.Context, restaurant *domain.Restaurant, sessionID, cartID string) (*domain.Order, error) {
	view, err := s.carts.Get(ctx, restaurant, sessionID, cartID)
	if err != nil {
		return nil, err
	}
	cart := view.Cart
	if cart.State != domain.CartStateActive {
		return nil, domain.ErrCartClosed
	}
	if len(cart.Lines) == 0 {
		return nil, ErrEmptyCart
	}

	totals := view.Totals
	snapshot := domain.Order{
		RestaurantID:         restaurant.ID,
		CartID:               cart.ID,
		SessionID:            cart.SessionID,
		TableNumber:          cart.TableNumber,
		OrderType:            cart.OrderType,
		Status:               domain.OrderStatusPlaced,
		Items:                cart.Lines,
		Subtotal:             totals.Subtotal,
		ServiceChargePercent: totals.ServiceChargePercent,
		ServiceCharge:        totals.ServiceCharge,
		Taxes:                totals.TaxCalculations,
		TotalTax:             totals.TotalTax,
		FinalTotal:           totals.FinalTotal,
	}
	order, err := s.repo.Create(ctx, snapshot)
	metrics.RecordOrderPlaced(string(cart.OrderType), totals.FinalTotal, err == nil)
	if err != nil {
		return nil, err
	}
	s.logger.Printf("order svc: placed order_id=%s cart_id=%s items=%d final_total=%v", order.ID, cart.ID, len(order.Items), order.FinalTotal)

	// The order is committed; a broker outage must not fail the submission.
	if err := s.publisher.PublishOrderPlaced(ctx, *order); err != nil {
		s.logger.Printf("order svc: publish order_id=%s error=%v", order.ID, err)
	}
	return order, nil
}

func (s *Service) Get(ctx context.Context, restaurantID, id string) (*domain.Order, error) {
	return s.repo.GetByID(ctx, restaurantID, id)
}
