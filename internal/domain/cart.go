package domain

import "time"

const (
	CartStateActive  = "active"
	CartStateOrdered = "ordered"
)

// SelectedModifier snapshots the option's name and price.
type SelectedModifier struct {
	GroupID    string  `json:"groupId"`
	GroupName  string  `json:"groupName,omitempty"`
	OptionID   string  `json:"optionId"`
	OptionName string  `json:"optionName"`
	Price      float64 `json:"price"`
}

type LineItem struct {
	ID          string             `json:"id"`
	ProductID   string             `json:"productId"`
	ProductName string             `json:"productName"`
	CategoryID  string             `json:"categoryId,omitempty"`
	BasePrice   float64            `json:"basePrice"`
	Quantity    int                `json:"quantity"`
	Modifiers   []SelectedModifier `json:"modifiers,omitempty"`
	Note        string             `json:"note,omitempty"`
	ItemTotal   float64            `json:"itemTotal"`
	CreatedAt   time.Time          `json:"createdAt"`
}

type Cart struct {
	ID           string     `json:"id"`
	RestaurantID string     `json:"-"`
	SessionID    string     `json:"-"`
	TableNumber  string     `json:"tableNumber,omitempty"`
	OrderType    OrderType  `json:"orderType"`
	State        string     `json:"state"`
	CreatedAt    time.Time  `json:"createdAt"`
	Lines        []LineItem `json:"lineItems,omitempty"`
}

// CartTotals is the derived pricing of a cart. Amounts are unrounded.
type CartTotals struct {
	Lines                []LineTotal      `json:"lines"`
	Subtotal             float64          `json:"subtotal"`
	ServiceChargePercent float64          `json:"serviceChargePercent"`
	ServiceCharge        float64          `json:"serviceCharge"`
	TaxCalculations      []TaxCalculation `json:"taxCalculations"`
	TotalTax             float64          `json:"totalTax"`
	FinalTotal           float64          `json:"finalTotal"`
}

type LineTotal struct {
	LineItemID string  `json:"lineItemId"`
	ItemTotal  float64 `json:"itemTotal"`
}
