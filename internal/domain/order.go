package domain

import "time"

const OrderStatusPlaced = "placed"

// Order amounts are never recomputed.
type Order struct {
	ID                   string           `json:"id"`
	RestaurantID         string           `json:"-"`
	CartID               string           `json:"cartId"`
	SessionID            string           `json:"-"`
	TableNumber          string           `json:"tableNumber,omitempty"`
	OrderType            OrderType        `json:"orderType"`
	Status               string           `json:"status"`
	Items                []LineItem       `json:"items"`
	Subtotal             float64          `json:"subtotal"`
	ServiceChargePercent float64          `json:"serviceChargePercent"`
	ServiceCharge        float64          `json:"serviceCharge"`
	Taxes                []TaxCalculation `json:"taxes"`
	TotalTax             float64          `json:"totalTax"`
	FinalTotal           float64          `json:"finalTotal"`
	CreatedAt            time.Time        `json:"createdAt"`
}
