package httpserver

import (
	"time"

	"restaurant-pos/internal/domain"
	"restaurant-pos/internal/pricing"
	cartsvc "restaurant-pos/internal/service/cart"
	taxsvc "restaurant-pos/internal/service/tax"
)

type listResponse[T any] struct {
	Count   int `json:"count"`
	Results []T `json:"results"`
}

func newList[T any](items []T) listResponse[T] {
	if items == nil {
		items = []T{}
	}
	return listResponse[T]{Count: len(items), Results: items}
}

type productView struct {
	ID             string                 `json:"id"`
	Key            string                 `json:"key"`
	Name           string                 `json:"name"`
	Description    string                 `json:"description,omitempty"`
	CategoryID     string                 `json:"categoryId,omitempty"`
	Price          float64                `json:"price"`
	Available      bool                   `json:"available"`
	ModifierGroups []domain.ModifierGroup `json:"modifierGroups"`
}

func toProductView(p domain.Product) productView {
	groups := p.ModifierGroups
	if groups == nil {
		groups = []domain.ModifierGroup{}
	}
	return productView{
		ID:             p.ID,
		Key:            p.Key,
		Name:           p.Name,
		Description:    p.Description,
		CategoryID:     p.CategoryID,
		Price:          pricing.Round(p.Price),
		Available:      p.Available,
		ModifierGroups: groups,
	}
}

type taxRuleRequest struct {
	Name         string           `json:"name"`
	Type         domain.TaxType   `json:"type"`
	Percentage   float64          `json:"percentage"`
	ApplicableOn domain.OrderType `json:"applicableOn"`
	Categories   []string         `json:"categories"`
	MinAmount    *float64         `json:"minAmount"`
	MaxAmount    *float64         `json:"maxAmount"`
	IsCompounded bool             `json:"isCompounded"`
	Active       *bool            `json:"active"`
	Position     int              `json:"position"`
}

func (r taxRuleRequest) toDomain() domain.TaxRule {
	active := true
	if r.Active != nil {
		active = *r.Active
	}
	typ := r.Type
	if typ == "" {
		typ = domain.TaxTypeCustom
	}
	return domain.TaxRule{
		Name:         r.Name,
		Type:         typ,
		Percentage:   r.Percentage,
		ApplicableOn: r.ApplicableOn,
		Categories:   r.Categories,
		MinAmount:    r.MinAmount,
		MaxAmount:    r.MaxAmount,
		IsCompounded: r.IsCompounded,
		Active:       active,
		Position:     r.Position,
	}
}

type taxPreviewView struct {
	Amount          float64                 `json:"amount"`
	TaxCalculations []domain.TaxCalculation `json:"taxCalculations"`
	TotalTax        float64                 `json:"totalTax"`
	Total           float64                 `json:"total"`
}

func toTaxPreviewView(amount float64, res *taxsvc.PreviewResult) taxPreviewView {
	return taxPreviewView{
		Amount:          pricing.Round(amount),
		TaxCalculations: pricing.RoundCalculations(res.Calculations),
		TotalTax:        pricing.Round(res.TotalTax),
		Total:           pricing.Round(res.Total),
	}
}

type sessionView struct {
	Token       string `json:"token"`
	SessionID   string `json:"sessionId"`
	TableNumber string `json:"tableNumber,omitempty"`
	ExpiresIn   int    `json:"expiresIn"`
}

type lineItemView struct {
	ID          string                    `json:"id"`
	ProductID   string                    `json:"productId"`
	ProductName string                    `json:"productName"`
	BasePrice   float64                   `json:"basePrice"`
	Quantity    int                       `json:"quantity"`
	Modifiers   []domain.SelectedModifier `json:"modifiers"`
	Note        string                    `json:"note,omitempty"`
	ItemTotal   float64                   `json:"itemTotal"`
}

func toLineItemViews(lines []domain.LineItem) []lineItemView {
	out := make([]lineItemView, 0, len(lines))
	for _, l := range lines {
		mods := make([]domain.SelectedModifier, len(l.Modifiers))
		for i, m := range l.Modifiers {
			m.Price = pricing.Round(m.Price)
			mods[i] = m
		}
		out = append(out, lineItemView{
			ID:          l.ID,
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			BasePrice:   pricing.Round(l.BasePrice),
			Quantity:    l.Quantity,
			Modifiers:   mods,
			Note:        l.Note,
			ItemTotal:   pricing.Round(l.ItemTotal),
		})
	}
	return out
}

type totalsView struct {
	Subtotal             float64                 `json:"subtotal"`
	ServiceChargePercent float64                 `json:"serviceChargePercent"`
	ServiceCharge        float64                 `json:"serviceCharge"`
	TaxCalculations      []domain.TaxCalculation `json:"taxCalculations"`
	TotalTax             float64                 `json:"totalTax"`
	FinalTotal           float64                 `json:"finalTotal"`
}

type cartView struct {
	ID          string           `json:"id"`
	TableNumber string           `json:"tableNumber,omitempty"`
	OrderType   domain.OrderType `json:"orderType"`
	State       string           `json:"cartState"`
	CreatedAt   time.Time        `json:"createdAt"`
	LineItems   []lineItemView   `json:"lineItems"`
	totalsView
}

func toCartView(v *cartsvc.View) cartView {
	t := pricing.Rounded(v.Totals)
	return cartView{
		ID:          v.Cart.ID,
		TableNumber: v.Cart.TableNumber,
		OrderType:   v.Cart.OrderType,
		State:       v.Cart.State,
		CreatedAt:   v.Cart.CreatedAt,
		LineItems:   toLineItemViews(v.Cart.Lines),
		totalsView: totalsView{
			Subtotal:             t.Subtotal,
			ServiceChargePercent: t.ServiceChargePercent,
			ServiceCharge:        t.ServiceCharge,
			TaxCalculations:      t.TaxCalculations,
			TotalTax:             t.TotalTax,
			FinalTotal:           t.FinalTotal,
		},
	}
}

type orderView struct {
	ID          string           `json:"id"`
	CartID      string           `json:"cartId"`
	TableNumber string           `json:"tableNumber,omitempty"`
	OrderType   domain.OrderType `json:"orderType"`
	Status      string           `json:"status"`
	CreatedAt   time.Time        `json:"createdAt"`
	Items       []lineItemView   `json:"items"`
	totalsView
}

func toOrderView(o domain.Order) orderView {
	return orderView{
		ID:          o.ID,
		CartID:      o.CartID,
		TableNumber: o.TableNumber,
		OrderType:   o.OrderType,
		Status:      o.Status,
		CreatedAt:   o.CreatedAt,
		Items:       toLineItemViews(o.Items),
		totalsView: totalsView{
			Subtotal:             pricing.Round(o.Subtotal),
			ServiceChargePercent: o.ServiceChargePercent,
			ServiceCharge:        pricing.Round(o.ServiceCharge),
			TaxCalculations:      pricing.RoundCalculations(o.Taxes),
			TotalTax:             pricing.Round(o.TotalTax),
			FinalTotal:           pricing.Round(o.FinalTotal),
		},
	}
}
