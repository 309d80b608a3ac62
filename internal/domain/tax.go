package domain

// OrderTypeAll is only valid as a tax rule scope.
type OrderType string

const (
	OrderTypeAll      OrderType = "all"
	OrderTypeDineIn   OrderType = "dine_in"
	OrderTypeTakeaway OrderType = "takeaway"
	OrderTypeDelivery OrderType = "delivery"
)

// Valid reports whether t can be the type of a placed order.
func (t OrderType) Valid() bool {
	switch t {
	case OrderTypeDineIn, OrderTypeTakeaway, OrderTypeDelivery:
		return true
	}
	return false
}

func (t OrderType) IsScope() bool {
	return t == OrderTypeAll || t.Valid()
}

type TaxType string

const (
	TaxTypeCGST       TaxType = "CGST"
	TaxTypeSGST       TaxType = "SGST"
	TaxTypeVAT        TaxType = "VAT"
	TaxTypeServiceTax TaxType = "SERVICE_TAX"
	TaxTypeCustom     TaxType = "CUSTOM"
)

type TaxRule struct {
	ID           string    `json:"id"`
	RestaurantID string    `json:"-"`
	Name         string    `json:"name"`
	Type         TaxType   `json:"type"`
	Percentage   float64   `json:"percentage"`
	ApplicableOn OrderType `json:"applicableOn"`
	Categories   []string  `json:"categories,omitempty"`
	MinAmount    *float64  `json:"minAmount,omitempty"`
	MaxAmount    *float64  `json:"maxAmount,omitempty"`
	IsCompounded bool      `json:"isCompounded"`
	Active       bool      `json:"active"`
	Position     int       `json:"position"`
}

type TaxCalculation struct {
	RuleID        string  `json:"ruleId"`
	RuleName      string  `json:"ruleName"`
	Type          TaxType `json:"type,omitempty"`
	TaxableAmount float64 `json:"taxableAmount"`
	TaxAmount     float64 `json:"taxAmount"`
	Percentage    float64 `json:"percentage"`
	Compounded    bool    `json:"compounded"`
}
