package order

import (
	"context"
	"errors"
	"testing"

	"restaurant-pos/internal/domain"
	cartrepo "restaurant-pos/internal/repository/cart"
	"restaurant-pos/internal/testdb"
)

func TestPostgres_CreateClosesCart(t *testing.T) {
	ctx := context.Background()
	pool := testdb.Pool(ctx, t)
	defer pool.Close()
	restaurantID := testdb.Restaurant(ctx, t, pool, "bistro")

	carts := cartrepo.NewPostgres(pool)
	cart, err := carts.Create(ctx, cartrepo.CreateCartInput{RestaurantID: restaurantID, SessionID: "s", OrderType: domain.OrderTypeDineIn})
	if err != nil {
		t.Fatalf("create cart: %v", err)
	}

	repo := NewPostgres(pool, nil)
	snapshot := domain.Order{
		RestaurantID: restaurantID,
		CartID:       cart.ID,
		SessionID:    "s",
		OrderType:    domain.OrderTypeDineIn,
		Status:       domain.OrderStatusPlaced,
		Items:        []domain.LineItem{{ID: "l1", ProductName: "Soup", BasePrice: 100, Quantity: 1, ItemTotal: 100}},
		Subtotal:     100,
		Taxes:        []domain.TaxCalculation{{RuleID: "vat", RuleName: "VAT", TaxableAmount: 100, TaxAmount: 5, Percentage: 5}},
		TotalTax:     5,
		FinalTotal:   105,
	}
	created, err := repo.Create(ctx, snapshot)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByID(ctx, restaurantID, created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.FinalTotal != 105 || len(got.Taxes) != 1 || got.Taxes[0].TaxAmount != 5 || got.Items[0].ProductName != "Soup" {
		t.Fatalf("unexpected order %+v", got)
	}

	closed, err := carts.GetByID(ctx, restaurantID, cart.ID)
	if err != nil {
		t.Fatalf("get cart: %v", err)
	}
	if closed.State != domain.CartStateOrdered {
		t.Fatalf("expected ordered cart, got %s", closed.State)
	}

	if _, err := repo.Create(ctx, snapshot); !errors.Is(err, domain.ErrCartClosed) {
		t.Fatalf("expected ErrCartClosed on resubmit, got %v", err)
	}
}

func TestPostgres_GetByIDMalformed(t *testing.T) {
	repo := NewPostgres(nil, nil)
	if _, err := repo.GetByID(context.Background(), "rest", "foo"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
