package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrCartClosed is returned when a mutation targets a cart that was already submitted.
	ErrCartClosed = errors.New("cart is closed")
)
