package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"restaurant-pos/internal/domain"
	"restaurant-pos/internal/service/session"
)

type ctxKey string

const (
	restaurantCtxKey ctxKey = "restaurant"
	sessionCtxKey    ctxKey = "session"
)

func restaurantMiddleware(repo RestaurantRepo) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := strings.TrimSpace(c.Param("restaurantKey"))
		if key == "" {
			writeError(c, http.StatusBadRequest, "restaurant key required")
			return
		}
		r, err := repo.GetByKey(c.Request.Context(), key)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				writeError(c, http.StatusNotFound, "restaurant not found")
				return
			}
			writeError(c, http.StatusInternalServerError, "failed to load restaurant")
			return
		}
		ctx := context.WithValue(c.Request.Context(), restaurantCtxKey, r)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func sessionMiddleware(svc SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			writeError(c, http.StatusUnauthorized, "missing bearer token")
			return
		}
		r := restaurantFrom(c)
		sess, err := svc.Lookup(c.Request.Context(), r.ID, token)
		if err != nil {
			if errors.Is(err, session.ErrInvalidToken) {
				writeError(c, http.StatusUnauthorized, "invalid or expired session")
				return
			}
			writeError(c, http.StatusInternalServerError, "failed to resolve session")
			return
		}
		ctx := context.WithValue(c.Request.Context(), sessionCtxKey, sess)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func bearerToken(header string) string {
	const prefix = "bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

func restaurantFrom(c *gin.Context) *domain.Restaurant {
	r, _ := c.Request.Context().Value(restaurantCtxKey).(*domain.Restaurant)
	return r
}

func sessionFrom(c *gin.Context) *session.Session {
	s, _ := c.Request.Context().Value(sessionCtxKey).(*session.Session)
	return s
}
