package pricing

import (
	"errors"
	"fmt"
)

var (
	// ErrNegativeAmount is returned when the order amount handed to the
	// evaluator is negative or not a finite number.
	ErrNegativeAmount = errors.New("amount must be a non-negative number")
	// ErrInvalidLineItem covers negative quantities and prices.
	ErrInvalidLineItem = errors.New("invalid line item")
	// ErrInvalidServiceCharge is returned for a negative or non-finite service charge percent.
	ErrInvalidServiceCharge = errors.New("invalid service charge percent")
	// ErrInvalidOrderType is returned when the order type is not dine_in, takeaway or delivery.
	ErrInvalidOrderType = errors.New("invalid order type")
	// ErrInvalidTaxRule marks configuration errors in a tax rule.
	ErrInvalidTaxRule = errors.New("invalid tax rule")

	ErrUnknownModifier     = errors.New("unknown modifier")
	ErrModifierUnavailable = errors.New("modifier option unavailable")
	ErrModifierSelection   = errors.New("invalid modifier selection")
)

type ValidationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: %s %s", e.Err, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
