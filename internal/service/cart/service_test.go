package cart

import (
	"context"
	"errors"
	"fmt"
	"math"
	"reflect"
	"testing"

	"restaurant-pos/internal/domain"
	"restaurant-pos/internal/pricing"
	cartrepo "restaurant-pos/internal/repository/cart"
)

type stubRepo struct {
	carts   map[string]*domain.Cart
	nextID  int
	created int
}

func newStubRepo(carts ...*domain.Cart) *stubRepo {
	s := &stubRepo{carts: make(map[string]*domain.Cart)}
	for _, c := range carts {
		s.carts[c.ID] = c
	}
	return s
}

func (s *stubRepo) id(prefix string) string {
	s.nextID++
	return fmt.Sprintf("%s-%d", prefix, s.nextID)
}

func (s *stubRepo) Create(_ context.Context, in cartrepo.CreateCartInput) (*domain.Cart, error) {
	s.created++
	c := &domain.Cart{
		ID:           s.id("cart"),
		RestaurantID: in.RestaurantID,
		SessionID:    in.SessionID,
		TableNumber:  in.TableNumber,
		OrderType:    in.OrderType,
		State:        domain.CartStateActive,
	}
	s.carts[c.ID] = c
	return s.copy(c), nil
}

func (s *stubRepo) copy(c *domain.Cart) *domain.Cart {
	out := *c
	out.Lines = append([]domain.LineItem(nil), c.Lines...)
	return &out
}

func (s *stubRepo) GetByID(_ context.Context, restaurantID, id string) (*domain.Cart, error) {
	c, ok := s.carts[id]
	if !ok || c.RestaurantID != restaurantID {
		return nil, domain.ErrNotFound
	}
	return s.copy(c), nil
}

func (s *stubRepo) GetActiveBySession(_ context.Context, restaurantID, sessionID string) (*domain.Cart, error) {
	for _, c := range s.carts {
		if c.RestaurantID == restaurantID && c.SessionID == sessionID && c.State == domain.CartStateActive {
			return s.copy(c), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubRepo) AddLineItem(_ context.Context, cartID string, line cartrepo.NewLine) error {
	c := s.carts[cartID]
	for i := range c.Lines {
		l := &c.Lines[i]
		if l.ProductID == line.ProductID && l.BasePrice == line.BasePrice && l.Note == line.Note && reflect.DeepEqual(l.Modifiers, line.Modifiers) {
			l.Quantity += line.Quantity
			return nil
		}
	}
	c.Lines = append(c.Lines, domain.LineItem{
		ID:          s.id("line"),
		ProductID:   line.ProductID,
		ProductName: line.ProductName,
		CategoryID:  line.CategoryID,
		BasePrice:   line.BasePrice,
		Quantity:    line.Quantity,
		Modifiers:   line.Modifiers,
		Note:        line.Note,
	})
	return nil
}

func (s *stubRepo) line(cartID, lineID string) (*domain.LineItem, error) {
	c := s.carts[cartID]
	for i := range c.Lines {
		if c.Lines[i].ID == lineID {
			return &c.Lines[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubRepo) ChangeLineItemQuantity(ctx context.Context, cartID, lineItemID string, quantity int) error {
	if quantity <= 0 {
		return s.RemoveLineItem(ctx, cartID, lineItemID)
	}
	l, err := s.line(cartID, lineItemID)
	if err != nil {
		return err
	}
	l.Quantity = quantity
	return nil
}

func (s *stubRepo) RemoveLineItem(_ context.Context, cartID, lineItemID string) error {
	c := s.carts[cartID]
	for i := range c.Lines {
		if c.Lines[i].ID == lineItemID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (s *stubRepo) ChangeLineItemModifiers(_ context.Context, cartID, lineItemID string, modifiers []domain.SelectedModifier) error {
	l, err := s.line(cartID, lineItemID)
	if err != nil {
		return err
	}
	l.Modifiers = modifiers
	return nil
}

func (s *stubRepo) ChangeLineItemNote(_ context.Context, cartID, lineItemID, note string) error {
	l, err := s.line(cartID, lineItemID)
	if err != nil {
		return err
	}
	l.Note = note
	return nil
}

func (s *stubRepo) SetOrderType(_ context.Context, cartID string, orderType domain.OrderType) error {
	s.carts[cartID].OrderType = orderType
	return nil
}

type stubProducts map[string]domain.Product

func (s stubProducts) GetByID(_ context.Context, _, id string) (*domain.Product, error) {
	p, ok := s[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

type stubRules struct {
	rules []domain.TaxRule
	err   error
}

func (s *stubRules) List(_ context.Context, _ string, _ bool) ([]domain.TaxRule, error) {
	return s.rules, s.err
}

var restaurant = &domain.Restaurant{ID: "rest-1", Key: "bistro", ServiceChargePercent: 10}

func menu() stubProducts {
	return stubProducts{
		"burger": {
			ID: "burger", Name: "Burger", CategoryID: "mains", Price: 10, Available: true,
			ModifierGroups: []domain.ModifierGroup{
				{
					ID: "size", Name: "Size", SelectionMode: domain.SelectionSingle, Required: true,
					Options: []domain.ModifierOption{
						{ID: "regular", Name: "Regular", Available: true},
						{ID: "double", Name: "Double", Price: 4, Available: true},
					},
				},
				{
					ID: "extras", Name: "Extras", SelectionMode: domain.SelectionMultiple, MaxSelect: 2,
					Options: []domain.ModifierOption{
						{ID: "cheese", Name: "Cheese", Price: 1.5, Available: true},
						{ID: "bacon", Name: "Bacon", Price: 2, Available: true},
						{ID: "truffle", Name: "Truffle", Price: 6, Available: false},
					},
				},
			},
		},
		"beer":    {ID: "beer", Name: "Beer", CategoryID: "alcohol", Price: 5, Available: true},
		"special": {ID: "special", Name: "Special", Price: 20, Available: false},
	}
}

func qty(n int) *int { return &n }

func activeCart() *domain.Cart {
	return &domain.Cart{ID: "cart-1", RestaurantID: restaurant.ID, SessionID: "sess-1", OrderType: domain.OrderTypeDineIn, State: domain.CartStateActive}
}

func TestCreate_ReusesActiveCartForSession(t *testing.T) {
	repo := newStubRepo()
	svc := New(repo, menu(), &stubRules{}, nil)
	ctx := context.Background()

	first, err := svc.Create(ctx, restaurant, "sess-1", "T3", CreateInput{})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if first.Cart.OrderType != domain.OrderTypeDineIn || first.Cart.TableNumber != "T3" {
		t.Fatalf("unexpected cart %+v", first.Cart)
	}
	if len(first.Totals.TaxCalculations) != 0 || first.Totals.FinalTotal != 0 {
		t.Fatalf("empty cart should have zero totals: %+v", first.Totals)
	}

	second, err := svc.Create(ctx, restaurant, "sess-1", "T3", CreateInput{})
	if err != nil {
		t.Fatalf("Create again: %v", err)
	}
	if second.Cart.ID != first.Cart.ID || repo.created != 1 {
		t.Fatalf("expected the active cart to be reused")
	}
}

func TestCreate_InvalidOrderType(t *testing.T) {
	svc := New(newStubRepo(), menu(), &stubRules{}, nil)
	_, err := svc.Create(context.Background(), restaurant, "s", "", CreateInput{OrderType: domain.OrderTypeAll})
	if !errors.Is(err, pricing.ErrInvalidOrderType) {
		t.Fatalf("expected ErrInvalidOrderType, got %v", err)
	}
}

func TestUpdate_AddLineItemsAndRecompute(t *testing.T) {
	repo := newStubRepo(activeCart())
	rules := &stubRules{rules: []domain.TaxRule{
		{ID: "vat", Name: "VAT", Percentage: 5, ApplicableOn: domain.OrderTypeAll, Active: true},
		{ID: "liquor", Name: "Liquor", Percentage: 20, ApplicableOn: domain.OrderTypeAll, Categories: []string{"alcohol"}, Active: true},
	}}
	svc := New(repo, menu(), rules, nil)

	view, err := svc.Update(context.Background(), restaurant, "sess-1", "cart-1", UpdateInput{Actions: []UpdateAction{
		{Action: "addLineItem", ProductID: "burger", Quantity: qty(2), Modifiers: []pricing.ModifierPick{
			{GroupID: "size", OptionID: "double"},
			{GroupID: "extras", OptionID: "cheese"},
		}},
		{Action: "addLineItem", ProductID: "burger", Quantity: qty(1), Modifiers: []pricing.ModifierPick{
			{GroupID: "extras", OptionID: "cheese"},
			{GroupID: "size", OptionID: "double"},
		}},
	}})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(view.Cart.Lines) != 1 || view.Cart.Lines[0].Quantity != 3 {
		t.Fatalf("identical selections should merge: %+v", view.Cart.Lines)
	}
	line := view.Cart.Lines[0]
	if line.ItemTotal != 46.5 || line.ProductName != "Burger" || line.Modifiers[0].OptionName != "Double" {
		t.Fatalf("unexpected line %+v", line)
	}
	// 46.5 subtotal, 4.65 service charge, only VAT applies
	if len(view.Totals.TaxCalculations) != 1 || view.Totals.TaxCalculations[0].RuleID != "vat" {
		t.Fatalf("unexpected taxes %+v", view.Totals.TaxCalculations)
	}
	if math.Abs(view.Totals.FinalTotal-(46.5+4.65+2.325)) > 1e-9 {
		t.Fatalf("unexpected final total %v", view.Totals.FinalTotal)
	}
}

func TestUpdate_LaterActionsSeeEarlierLines(t *testing.T) {
	repo := newStubRepo(activeCart())
	svc := New(repo, menu(), &stubRules{}, nil)

	_, err := svc.Update(context.Background(), restaurant, "sess-1", "cart-1", UpdateInput{Actions: []UpdateAction{
		{Action: "addLineItem", ProductID: "beer"},
	}})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	lineID := repo.carts["cart-1"].Lines[0].ID
	note := " no ice "
	view, err := svc.Update(context.Background(), restaurant, "sess-1", "cart-1", UpdateInput{Actions: []UpdateAction{
		{Action: "changeLineItemQuantity", LineItemID: lineID, Quantity: qty(4)},
		{Action: "setNote", LineItemID: lineID, Note: &note},
		{Action: "setOrderType", OrderType: domain.OrderTypeTakeaway},
	}})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if view.Cart.Lines[0].Quantity != 4 || view.Cart.Lines[0].Note != "no ice" || view.Cart.OrderType != domain.OrderTypeTakeaway {
		t.Fatalf("unexpected cart %+v", view.Cart)
	}
	if view.Totals.Subtotal != 20 {
		t.Fatalf("unexpected subtotal %v", view.Totals.Subtotal)
	}
}

func TestUpdate_ZeroQuantityRemovesLine(t *testing.T) {
	cart := activeCart()
	cart.Lines = []domain.LineItem{{ID: "l1", ProductID: "beer", BasePrice: 5, Quantity: 2}}
	repo := newStubRepo(cart)
	svc := New(repo, menu(), &stubRules{rules: []domain.TaxRule{{ID: "vat", Name: "VAT", Percentage: 5, ApplicableOn: domain.OrderTypeAll, Active: true}}}, nil)

	view, err := svc.Update(context.Background(), restaurant, "sess-1", "cart-1", UpdateInput{Actions: []UpdateAction{
		{Action: "changeLineItemQuantity", LineItemID: "l1", Quantity: qty(0)},
	}})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(view.Cart.Lines) != 0 || len(view.Totals.TaxCalculations) != 0 || view.Totals.FinalTotal != 0 {
		t.Fatalf("expected empty cart, got %+v / %+v", view.Cart.Lines, view.Totals)
	}
}

func TestUpdate_ChangeModifiers(t *testing.T) {
	cart := activeCart()
	cart.Lines = []domain.LineItem{{
		ID: "l1", ProductID: "burger", BasePrice: 10, Quantity: 1,
		Modifiers: []domain.SelectedModifier{{GroupID: "size", OptionID: "regular", OptionName: "Regular"}},
	}}
	svc := New(newStubRepo(cart), menu(), &stubRules{}, nil)

	view, err := svc.Update(context.Background(), restaurant, "sess-1", "cart-1", UpdateInput{Actions: []UpdateAction{
		{Action: "changeLineItemModifiers", LineItemID: "l1", Modifiers: []pricing.ModifierPick{
			{GroupID: "size", OptionID: "double"},
			{GroupID: "extras", OptionID: "bacon"},
		}},
	}})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if view.Cart.Lines[0].ItemTotal != 16 {
		t.Fatalf("expected 16, got %v", view.Cart.Lines[0].ItemTotal)
	}
}

func TestUpdate_Errors(t *testing.T) {
	cases := []struct {
		name    string
		session string
		action  UpdateAction
		want    error
	}{
		{"other session", "sess-2", UpdateAction{Action: "addLineItem", ProductID: "beer"}, domain.ErrNotFound},
		{"unknown action", "sess-1", UpdateAction{Action: "applyDiscount"}, ErrInvalidAction},
		{"missing product", "sess-1", UpdateAction{Action: "addLineItem"}, ErrInvalidAction},
		{"unknown product", "sess-1", UpdateAction{Action: "addLineItem", ProductID: "pasta"}, ErrInvalidAction},
		{"unavailable product", "sess-1", UpdateAction{Action: "addLineItem", ProductID: "special"}, ErrInvalidAction},
		{"non-positive quantity", "sess-1", UpdateAction{Action: "addLineItem", ProductID: "beer", Quantity: qty(0)}, ErrInvalidAction},
		{"required group missing", "sess-1", UpdateAction{Action: "addLineItem", ProductID: "burger"}, pricing.ErrModifierSelection},
		{"unavailable option", "sess-1", UpdateAction{Action: "addLineItem", ProductID: "burger", Modifiers: []pricing.ModifierPick{
			{GroupID: "size", OptionID: "regular"}, {GroupID: "extras", OptionID: "truffle"},
		}}, pricing.ErrModifierUnavailable},
		{"unknown option", "sess-1", UpdateAction{Action: "addLineItem", ProductID: "burger", Modifiers: []pricing.ModifierPick{
			{GroupID: "size", OptionID: "triple"},
		}}, pricing.ErrUnknownModifier},
		{"negative quantity", "sess-1", UpdateAction{Action: "changeLineItemQuantity", LineItemID: "l1", Quantity: qty(-1)}, ErrInvalidAction},
		{"unknown line", "sess-1", UpdateAction{Action: "removeLineItem", LineItemID: "nope"}, domain.ErrNotFound},
		{"bad order type", "sess-1", UpdateAction{Action: "setOrderType", OrderType: "drive_through"}, pricing.ErrInvalidOrderType},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cart := activeCart()
			cart.Lines = []domain.LineItem{{ID: "l1", ProductID: "beer", BasePrice: 5, Quantity: 1}}
			svc := New(newStubRepo(cart), menu(), &stubRules{}, nil)
			_, err := svc.Update(context.Background(), restaurant, tc.session, "cart-1", UpdateInput{Actions: []UpdateAction{tc.action}})
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestUpdate_ClosedCart(t *testing.T) {
	cart := activeCart()
	cart.State = domain.CartStateOrdered
	svc := New(newStubRepo(cart), menu(), &stubRules{}, nil)
	_, err := svc.Update(context.Background(), restaurant, "sess-1", "cart-1", UpdateInput{Actions: []UpdateAction{{Action: "addLineItem", ProductID: "beer"}}})
	if !errors.Is(err, domain.ErrCartClosed) {
		t.Fatalf("expected ErrCartClosed, got %v", err)
	}
}

func TestGet_UsesLiveRules(t *testing.T) {
	cart := activeCart()
	cart.Lines = []domain.LineItem{{ID: "l1", ProductID: "beer", CategoryID: "alcohol", BasePrice: 5, Quantity: 2}}
	rules := &stubRules{}
	svc := New(newStubRepo(cart), menu(), rules, nil)

	before, err := svc.Get(context.Background(), restaurant, "sess-1", "cart-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	rules.rules = []domain.TaxRule{{ID: "liquor", Name: "Liquor", Percentage: 20, ApplicableOn: domain.OrderTypeDineIn, Categories: []string{"alcohol"}, Active: true}}
	after, err := svc.Get(context.Background(), restaurant, "sess-1", "cart-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if before.Totals.TotalTax != 0 || after.Totals.TotalTax != 2 {
		t.Fatalf("totals should follow live rules: before=%v after=%v", before.Totals.TotalTax, after.Totals.TotalTax)
	}
}

func TestGet_RuleLoadFailure(t *testing.T) {
	boom := errors.New("db down")
	svc := New(newStubRepo(activeCart()), menu(), &stubRules{err: boom}, nil)
	if _, err := svc.Get(context.Background(), restaurant, "sess-1", "cart-1"); !errors.Is(err, boom) {
		t.Fatalf("expected db error, got %v", err)
	}
}
