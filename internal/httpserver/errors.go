package httpserver

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"restaurant-pos/internal/domain"
	"restaurant-pos/internal/pricing"
	cartsvc "restaurant-pos/internal/service/cart"
	"restaurant-pos/internal/service/catalog"
	ordersvc "restaurant-pos/internal/service/order"
)

type errorResponse struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

func writeError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, errorResponse{StatusCode: status, Message: message})
}

var badRequestErrors = []error{
	pricing.ErrNegativeAmount,
	pricing.ErrInvalidLineItem,
	pricing.ErrInvalidServiceCharge,
	pricing.ErrInvalidOrderType,
	pricing.ErrInvalidTaxRule,
	pricing.ErrUnknownModifier,
	pricing.ErrModifierUnavailable,
	pricing.ErrModifierSelection,
	cartsvc.ErrInvalidAction,
	catalog.ErrInvalidProduct,
	ordersvc.ErrEmptyCart,
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrCartClosed):
		return http.StatusConflict
	}
	var verr *pricing.ValidationError
	if errors.As(err, &verr) {
		return http.StatusBadRequest
	}
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			return http.StatusBadRequest
		}
	}
	return http.StatusInternalServerError
}

func respondError(c *gin.Context, logger *log.Logger, op string, err error) {
	status := statusFor(err)
	msg := err.Error()
	switch status {
	case http.StatusInternalServerError:
		logger.Printf("%s: %v", op, err)
		msg = "internal error"
	case http.StatusNotFound:
		msg = "not found"
	}
	writeError(c, status, msg)
}
