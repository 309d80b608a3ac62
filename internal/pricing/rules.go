package pricing

import (
	"strings"

	"restaurant-pos/internal/domain"
)

func ValidateTaxRule(r domain.TaxRule) error {
	if strings.TrimSpace(r.Name) == "" {
		return invalidRule("name", "is required")
	}
	if !finite(r.Percentage) || r.Percentage < 0 || r.Percentage > 100 {
		return invalidRule("percentage", "must be between 0 and 100")
	}
	if !r.ApplicableOn.IsScope() {
		return invalidRule("applicableOn", "must be one of all, dine_in, takeaway, delivery")
	}
	if r.MinAmount != nil && (!finite(*r.MinAmount) || *r.MinAmount < 0) {
		return invalidRule("minAmount", "must be a non-negative number")
	}
	if r.MaxAmount != nil && (!finite(*r.MaxAmount) || *r.MaxAmount < 0) {
		return invalidRule("maxAmount", "must be a non-negative number")
	}
	if r.MinAmount != nil && r.MaxAmount != nil && *r.MinAmount > *r.MaxAmount {
		return invalidRule("minAmount", "must not exceed maxAmount")
	}
	return nil
}

func invalidRule(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason, Err: ErrInvalidTaxRule}
}
