package cart

import (
	"context"

	"restaurant-pos/internal/domain"
)

type CreateCartInput struct {
	RestaurantID string
	SessionID    string
	TableNumber  string
	OrderType    domain.OrderType
}

type NewLine struct {
	ProductID   string
	ProductName string
	CategoryID  string
	BasePrice   float64
	Quantity    int
	Modifiers   []domain.SelectedModifier
	Note        string
}

type Repository interface {
	Create(ctx context.Context, in CreateCartInput) (*domain.Cart, error)
	GetByID(ctx context.Context, restaurantID, id string) (*domain.Cart, error)
	GetActiveBySession(ctx context.Context, restaurantID, sessionID string) (*domain.Cart, error)
	AddLineItem(ctx context.Context, cartID string, line NewLine) error
	ChangeLineItemQuantity(ctx context.Context, cartID, lineItemID string, quantity int) error
	RemoveLineItem(ctx context.Context, cartID, lineItemID string) error
	ChangeLineItemModifiers(ctx context.Context, cartID, lineItemID string, modifiers []domain.SelectedModifier) error
	ChangeLineItemNote(ctx context.Context, cartID, lineItemID, note string) error
	SetOrderType(ctx context.Context, cartID string, orderType domain.OrderType) error
}
