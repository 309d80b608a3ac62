package pricing

import (
	"fmt"

	"restaurant-pos/internal/domain"
)

// LineTotal returns (base price + modifier prices) * quantity.
func LineTotal(item domain.LineItem) (float64, error) {
	if item.Quantity < 0 {
		return 0, &ValidationError{Field: "quantity", Reason: fmt.Sprintf("must not be negative (line %s)", item.ID), Err: ErrInvalidLineItem}
	}
	if !finite(item.BasePrice) || item.BasePrice < 0 {
		return 0, &ValidationError{Field: "basePrice", Reason: fmt.Sprintf("must be a non-negative number (line %s)", item.ID), Err: ErrInvalidLineItem}
	}
	unit := item.BasePrice
	for _, m := range item.Modifiers {
		if !finite(m.Price) || m.Price < 0 {
			return 0, &ValidationError{Field: "modifiers.price", Reason: fmt.Sprintf("must be a non-negative number (option %s)", m.OptionID), Err: ErrInvalidLineItem}
		}
		unit += m.Price
	}
	return unit * float64(item.Quantity), nil
}

// Recompute skips zero-quantity lines. items is not modified.
func Recompute(items []domain.LineItem, serviceChargePercent float64, rules []domain.TaxRule, orderType domain.OrderType) (domain.CartTotals, error) {
	if !finite(serviceChargePercent) || serviceChargePercent < 0 {
		return domain.CartTotals{}, fmt.Errorf("recompute: %w (got %v)", ErrInvalidServiceCharge, serviceChargePercent)
	}
	if !orderType.Valid() {
		return domain.CartTotals{}, fmt.Errorf("recompute: %w %q", ErrInvalidOrderType, orderType)
	}

	totals := domain.CartTotals{
		Lines:                make([]domain.LineTotal, 0, len(items)),
		ServiceChargePercent: serviceChargePercent,
	}
	categories := make(map[string]struct{})
	for _, item := range items {
		lineTotal, err := LineTotal(item)
		if err != nil {
			return domain.CartTotals{}, fmt.Errorf("recompute: %w", err)
		}
		if item.Quantity == 0 {
			continue
		}
		totals.Lines = append(totals.Lines, domain.LineTotal{LineItemID: item.ID, ItemTotal: lineTotal})
		totals.Subtotal += lineTotal
		if item.CategoryID != "" {
			categories[item.CategoryID] = struct{}{}
		}
	}

	totals.ServiceCharge = percentOf(totals.Subtotal, serviceChargePercent)
	if len(totals.Lines) == 0 {
		totals.TaxCalculations = []domain.TaxCalculation{}
		return totals, nil
	}

	calcs, err := Evaluate(rules, OrderContext{
		Amount:     totals.Subtotal,
		OrderType:  orderType,
		Categories: categories,
	})
	if err != nil {
		return domain.CartTotals{}, fmt.Errorf("recompute: %w", err)
	}
	totals.TaxCalculations = calcs
	totals.TotalTax = Summarize(calcs)
	totals.FinalTotal = totals.Subtotal + totals.ServiceCharge + totals.TotalTax
	return totals, nil
}

// FinalTotal is rounded from the unrounded final total.
func Rounded(t domain.CartTotals) domain.CartTotals {
	out := domain.CartTotals{
		Lines:                make([]domain.LineTotal, len(t.Lines)),
		Subtotal:             Round(t.Subtotal),
		ServiceChargePercent: t.ServiceChargePercent,
		ServiceCharge:        Round(t.ServiceCharge),
		TaxCalculations:      RoundCalculations(t.TaxCalculations),
		TotalTax:             Round(t.TotalTax),
		FinalTotal:           Round(t.FinalTotal),
	}
	for i, l := range t.Lines {
		out.Lines[i] = domain.LineTotal{LineItemID: l.LineItemID, ItemTotal: Round(l.ItemTotal)}
	}
	return out
}

func RoundCalculations(calcs []domain.TaxCalculation) []domain.TaxCalculation {
	out := make([]domain.TaxCalculation, len(calcs))
	for i, c := range calcs {
		c.TaxableAmount = Round(c.TaxableAmount)
		c.TaxAmount = Round(c.TaxAmount)
		out[i] = c
	}
	return out
}

func WithItemTotals(items []domain.LineItem) ([]domain.LineItem, error) {
	out := make([]domain.LineItem, 0, len(items))
	for _, item := range items {
		total, err := LineTotal(item)
		if err != nil {
			return nil, err
		}
		if item.Quantity == 0 {
			continue
		}
		item.ItemTotal = total
		item.Modifiers = append([]domain.SelectedModifier(nil), item.Modifiers...)
		out = append(out, item)
	}
	return out, nil
}
