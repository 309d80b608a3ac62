package httpserver

import (
	"context"
	"errors"
	"io"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"restaurant-pos/internal/domain"
	"restaurant-pos/internal/metrics"
	cartsvc "restaurant-pos/internal/service/cart"
	"restaurant-pos/internal/service/session"
	taxsvc "restaurant-pos/internal/service/tax"
)

type RestaurantRepo interface {
	GetByKey(ctx context.Context, key string) (*domain.Restaurant, error)
}

type CatalogService interface {
	ListCategories(ctx context.Context, restaurantID string) ([]domain.Category, error)
	ListProducts(ctx context.Context, restaurantID string) ([]domain.Product, error)
	GetProduct(ctx context.Context, restaurantID, id string) (*domain.Product, error)
}

type TaxService interface {
	List(ctx context.Context, restaurantID string, includeInactive bool) ([]domain.TaxRule, error)
	Get(ctx context.Context, restaurantID, id string) (*domain.TaxRule, error)
	Create(ctx context.Context, restaurantID string, rule domain.TaxRule) (*domain.TaxRule, error)
	Update(ctx context.Context, restaurantID, id string, rule domain.TaxRule) (*domain.TaxRule, error)
	Deactivate(ctx context.Context, restaurantID, id string) (*domain.TaxRule, error)
	Preview(ctx context.Context, restaurantID string, in taxsvc.PreviewInput) (*taxsvc.PreviewResult, error)
}

type SessionService interface {
	Issue(ctx context.Context, restaurantID, tableNumber string) (*session.Session, error)
	Lookup(ctx context.Context, restaurantID, token string) (*session.Session, error)
	TTLSeconds() int
}

type CartService interface {
	Create(ctx context.Context, restaurant *domain.Restaurant, sessionID, tableNumber string, in cartsvc.CreateInput) (*cartsvc.View, error)
	Get(ctx context.Context, restaurant *domain.Restaurant, sessionID, cartID string) (*cartsvc.View, error)
	Update(ctx context.Context, restaurant *domain.Restaurant, sessionID, cartID string, in cartsvc.UpdateInput) (*cartsvc.View, error)
}

type OrderService interface {
	Submit(ctx context.Context, restaurant *domain.Restaurant, sessionID, cartID string) (*domain.Order, error)
	Get(ctx context.Context, restaurantID, id string) (*domain.Order, error)
}

type Deps struct {
	RestaurantRepo RestaurantRepo
	CatalogSvc     CatalogService
	TaxSvc         TaxService
	SessionSvc     SessionService
	CartSvc        CartService
	OrderSvc       OrderService
	// CORSOrigins of "*" allows any origin.
	CORSOrigins []string
}

func (d Deps) validate() error {
	switch {
	case d.RestaurantRepo == nil:
		return errors.New("restaurant repository is required")
	case d.CatalogSvc == nil:
		return errors.New("catalog service is required")
	case d.TaxSvc == nil:
		return errors.New("tax service is required")
	case d.SessionSvc == nil:
		return errors.New("session service is required")
	case d.CartSvc == nil:
		return errors.New("cart service is required")
	case d.OrderSvc == nil:
		return errors.New("order service is required")
	}
	return nil
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, pool *pgxpool.Pool, deps Deps) (*gin.Engine, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logDiscard()
	}

	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery(), metrics.Middleware(), cors.New(corsConfig(deps.CORSOrigins)))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(pool))
	router.GET("/metrics", metrics.Handler())

	h := &handlers{deps: deps, logger: logger}
	r := router.Group("/:restaurantKey", restaurantMiddleware(deps.RestaurantRepo))
	{
		r.GET("/categories", h.listCategories)
		r.GET("/products", h.listProducts)
		r.GET("/products/:id", h.getProduct)

		r.GET("/tax-rules", h.listTaxRules)
		r.POST("/tax-rules", h.createTaxRule)
		r.POST("/tax-rules/preview", h.previewTaxes)
		r.GET("/tax-rules/:id", h.getTaxRule)
		r.PUT("/tax-rules/:id", h.updateTaxRule)
		r.POST("/tax-rules/:id/deactivate", h.deactivateTaxRule)

		r.POST("/sessions", h.issueSession)

		carts := r.Group("/carts", sessionMiddleware(deps.SessionSvc))
		carts.POST("", h.createCart)
		carts.GET("/:id", h.getCart)
		carts.POST("/:id", h.updateCart)
		carts.POST("/:id/checkout", h.checkoutCart)

		r.GET("/orders/:id", h.getOrder)
	}

	return router, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}

func logDiscard() *log.Logger {
	return log.New(io.Discard, "", 0)
}
