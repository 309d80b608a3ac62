package pricing

import (
	"fmt"

	"restaurant-pos/internal/domain"
)

// OrderContext is what a tax rule is matched against.
type OrderContext struct {
	Amount     float64
	OrderType  domain.OrderType
	Categories map[string]struct{}
}

func CategorySet(ids ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		set[id] = struct{}{}
	}
	return set
}

// Evaluate applies compounded rules to oc.Amount plus the non-compounded
// taxes, never to each other's tax. Non-compounded results come first.
func Evaluate(rules []domain.TaxRule, oc OrderContext) ([]domain.TaxCalculation, error) {
	if !finite(oc.Amount) || oc.Amount < 0 {
		return nil, fmt.Errorf("evaluate taxes: %w (got %v)", ErrNegativeAmount, oc.Amount)
	}

	var simple, compound []domain.TaxRule
	for _, r := range rules {
		if !applicable(r, oc) {
			continue
		}
		if r.IsCompounded {
			compound = append(compound, r)
		} else {
			simple = append(simple, r)
		}
	}

	out := make([]domain.TaxCalculation, 0, len(simple)+len(compound))
	compoundBase := oc.Amount
	for _, r := range simple {
		calc := calculate(r, oc.Amount)
		compoundBase += calc.TaxAmount
		out = append(out, calc)
	}
	for _, r := range compound {
		out = append(out, calculate(r, compoundBase))
	}
	return out, nil
}

func Summarize(calcs []domain.TaxCalculation) float64 {
	var total float64
	for _, c := range calcs {
		total += c.TaxAmount
	}
	return total
}

func applicable(r domain.TaxRule, oc OrderContext) bool {
	if !r.Active {
		return false
	}
	// Malformed rules should have been rejected when saved.
	if ValidateTaxRule(r) != nil {
		return false
	}
	if r.ApplicableOn != domain.OrderTypeAll && r.ApplicableOn != oc.OrderType {
		return false
	}
	if r.MinAmount != nil && oc.Amount < *r.MinAmount {
		return false
	}
	if len(r.Categories) == 0 {
		return true
	}
	for _, c := range r.Categories {
		if _, ok := oc.Categories[c]; ok {
			return true
		}
	}
	return false
}

func calculate(r domain.TaxRule, base float64) domain.TaxCalculation {
	taxable := base
	if r.MaxAmount != nil && *r.MaxAmount < taxable {
		taxable = *r.MaxAmount
	}
	return domain.TaxCalculation{
		RuleID:        r.ID,
		RuleName:      r.Name,
		Type:          r.Type,
		TaxableAmount: taxable,
		TaxAmount:     percentOf(taxable, r.Percentage),
		Percentage:    r.Percentage,
		Compounded:    r.IsCompounded,
	}
}
