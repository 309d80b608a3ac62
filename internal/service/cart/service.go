package cart

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"restaurant-pos/internal/domain"
	"restaurant-pos/internal/metrics"
	"restaurant-pos/internal/pricing"
	cartrepo "restaurant-pos/internal/repository/cart"
)

var ErrInvalidAction = errors.New("invalid cart action")

type productLookup interface {
	GetByID(ctx context.Context, restaurantID, id string) (*domain.Product, error)
}

type ruleLister interface {
	List(ctx context.Context, restaurantID string, includeInactive bool) ([]domain.TaxRule, error)
}

type Service struct {
	repo     cartrepo.Repository
	products productLookup
	rules    ruleLister
	logger   *log.Logger
}

func New(repo cartrepo.Repository, products productLookup, rules ruleLister, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{repo: repo, products: products, rules: rules, logger: logger}
}

type View struct {
	Cart   *domain.Cart
	Totals domain.CartTotals
}

type CreateInput struct {
	OrderType domain.OrderType `json:"orderType"`
}

type UpdateInput struct {
	Actions []UpdateAction `json:"actions"`
}

type UpdateAction struct {
	Action     string                 `json:"action"`
	ProductID  string                 `json:"productId,omitempty"`
	LineItemID string                 `json:"lineItemId,omitempty"`
	Quantity   *int                   `json:"quantity,omitempty"`
	Modifiers  []pricing.ModifierPick `json:"modifiers,omitempty"`
	Note       *string                `json:"note,omitempty"`
	OrderType  domain.OrderType       `json:"orderType,omitempty"`
}

func invalid(field, reason string) error {
	return &pricing.ValidationError{Field: field, Reason: reason, Err: ErrInvalidAction}
}

// Create opens a cart for the session, or returns the session's active one.
func (s *Service) Create(ctx context.Context, restaurant *domain.Restaurant, sessionID, tableNumber string, in CreateInput) (*View, error) {
	orderType := in.OrderType
	if orderType == "" {
		orderType = domain.OrderTypeDineIn
	}
	if !orderType.Valid() {
		return nil, fmt.Errorf("create cart: %w %q", pricing.ErrInvalidOrderType, orderType)
	}
	existing, err := s.repo.GetActiveBySession(ctx, restaurant.ID, sessionID)
	switch {
	case err == nil:
		return s.view(ctx, restaurant, existing)
	case !errors.Is(err, domain.ErrNotFound):
		return nil, err
	}
	cart, err := s.repo.Create(ctx, cartrepo.CreateCartInput{
		RestaurantID: restaurant.ID,
		SessionID:    sessionID,
		TableNumber:  tableNumber,
		OrderType:    orderType,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Printf("cart svc: created cart_id=%s restaurant_id=%s table=%s order_type=%s", cart.ID, restaurant.ID, tableNumber, orderType)
	return s.view(ctx, restaurant, cart)
}

func (s *Service) Get(ctx context.Context, restaurant *domain.Restaurant, sessionID, cartID string) (*View, error) {
	cart, err := s.owned(ctx, restaurant.ID, sessionID, cartID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, restaurant, cart)
}

// A failing action leaves the earlier ones applied.
func (s *Service) Update(ctx context.Context, restaurant *domain.Restaurant, sessionID, cartID string, in UpdateInput) (*View, error) {
	if len(in.Actions) == 0 {
		return nil, invalid("actions", "are required")
	}
	cart, err := s.owned(ctx, restaurant.ID, sessionID, cartID)
	if err != nil {
		return nil, err
	}
	if cart.State != domain.CartStateActive {
		return nil, domain.ErrCartClosed
	}

	for _, action := range in.Actions {
		if err := s.apply(ctx, restaurant.ID, cart, action); err != nil {
			return nil, err
		}
		// later actions may reference lines created by earlier ones
		if cart, err = s.repo.GetByID(ctx, restaurant.ID, cartID); err != nil {
			return nil, err
		}
	}
	s.logger.Printf("cart svc: updated cart_id=%s actions=%d lines=%d", cartID, len(in.Actions), len(cart.Lines))
	return s.view(ctx, restaurant, cart)
}

func (s *Service) apply(ctx context.Context, restaurantID string, cart *domain.Cart, action UpdateAction) error {
	switch strings.ToLower(strings.TrimSpace(action.Action)) {
	case "addlineitem":
		return s.addLineItem(ctx, restaurantID, cart.ID, action)
	case "changelineitemquantity":
		lineID, err := requireLine(cart, action.LineItemID)
		if err != nil {
			return err
		}
		if action.Quantity == nil {
			return invalid("quantity", "is required")
		}
		if *action.Quantity < 0 {
			return invalid("quantity", "must not be negative")
		}
		return s.repo.ChangeLineItemQuantity(ctx, cart.ID, lineID, *action.Quantity)
	case "removelineitem":
		lineID, err := requireLine(cart, action.LineItemID)
		if err != nil {
			return err
		}
		return s.repo.RemoveLineItem(ctx, cart.ID, lineID)
	case "changelineitemmodifiers":
		lineID, err := requireLine(cart, action.LineItemID)
		if err != nil {
			return err
		}
		var productID string
		for _, l := range cart.Lines {
			if l.ID == lineID {
				productID = l.ProductID
			}
		}
		product, err := s.products.GetByID(ctx, restaurantID, productID)
		if err != nil {
			return err
		}
		selected, err := pricing.ResolveSelections(product.ModifierGroups, action.Modifiers)
		if err != nil {
			return err
		}
		return s.repo.ChangeLineItemModifiers(ctx, cart.ID, lineID, selected)
	case "setnote":
		lineID, err := requireLine(cart, action.LineItemID)
		if err != nil {
			return err
		}
		note := ""
		if action.Note != nil {
			note = strings.TrimSpace(*action.Note)
		}
		return s.repo.ChangeLineItemNote(ctx, cart.ID, lineID, note)
	case "setordertype":
		if !action.OrderType.Valid() {
			return fmt.Errorf("set order type: %w %q", pricing.ErrInvalidOrderType, action.OrderType)
		}
		return s.repo.SetOrderType(ctx, cart.ID, action.OrderType)
	default:
		return invalid("action", fmt.Sprintf("%q is not supported", action.Action))
	}
}

func (s *Service) addLineItem(ctx context.Context, restaurantID, cartID string, action UpdateAction) error {
	productID := strings.TrimSpace(action.ProductID)
	if productID == "" {
		return invalid("productId", "is required")
	}
	quantity := 1
	if action.Quantity != nil {
		quantity = *action.Quantity
	}
	if quantity <= 0 {
		return invalid("quantity", "must be positive")
	}
	product, err := s.products.GetByID(ctx, restaurantID, productID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return invalid("productId", fmt.Sprintf("%q not found", productID))
		}
		return err
	}
	if !product.Available {
		return invalid("productId", fmt.Sprintf("%s is not available", product.Name))
	}
	selected, err := pricing.ResolveSelections(product.ModifierGroups, action.Modifiers)
	if err != nil {
		return err
	}
	note := ""
	if action.Note != nil {
		note = strings.TrimSpace(*action.Note)
	}
	return s.repo.AddLineItem(ctx, cartID, cartrepo.NewLine{
		ProductID:   product.ID,
		ProductName: product.Name,
		CategoryID:  product.CategoryID,
		BasePrice:   product.Price,
		Quantity:    quantity,
		Modifiers:   selected,
		Note:        note,
	})
}

func requireLine(cart *domain.Cart, lineItemID string) (string, error) {
	id := strings.TrimSpace(lineItemID)
	if id == "" {
		return "", invalid("lineItemId", "is required")
	}
	for _, l := range cart.Lines {
		if l.ID == id {
			return id, nil
		}
	}
	return "", domain.ErrNotFound
}

func (s *Service) owned(ctx context.Context, restaurantID, sessionID, cartID string) (*domain.Cart, error) {
	cart, err := s.repo.GetByID(ctx, restaurantID, cartID)
	if err != nil {
		return nil, err
	}
	if sessionID == "" || cart.SessionID != sessionID {
		return nil, domain.ErrNotFound
	}
	return cart, nil
}

func (s *Service) Totals(ctx context.Context, restaurant *domain.Restaurant, cart *domain.Cart) (domain.CartTotals, error) {
	rules, err := s.rules.List(ctx, restaurant.ID, false)
	if err != nil {
		metrics.RecordRecompute(false)
		return domain.CartTotals{}, err
	}
	totals, err := pricing.Recompute(cart.Lines, restaurant.ServiceChargePercent, rules, cart.OrderType)
	metrics.RecordRecompute(err == nil)
	if err != nil {
		s.logger.Printf("cart svc: recompute cart_id=%s failed: %v", cart.ID, err)
		return domain.CartTotals{}, err
	}
	return totals, nil
}

func (s *Service) view(ctx context.Context, restaurant *domain.Restaurant, cart *domain.Cart) (*View, error) {
	totals, err := s.Totals(ctx, restaurant, cart)
	if err != nil {
		return nil, err
	}
	lines, err := pricing.WithItemTotals(cart.Lines)
	if err != nil {
		return nil, err
	}
	out := *cart
	out.Lines = lines
	return &View{Cart: &out, Totals: totals}, nil
}
