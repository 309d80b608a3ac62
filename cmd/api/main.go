package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"restaurant-pos/internal/config"
	"restaurant-pos/internal/db"
	"restaurant-pos/internal/events"
	"restaurant-pos/internal/httpserver"
	cartrepo "restaurant-pos/internal/repository/cart"
	categoryrepo "restaurant-pos/internal/repository/category"
	orderrepo "restaurant-pos/internal/repository/order"
	productrepo "restaurant-pos/internal/repository/product"
	restaurantrepo "restaurant-pos/internal/repository/restaurant"
	taxrulerepo "restaurant-pos/internal/repository/taxrule"
	cartsvc "restaurant-pos/internal/service/cart"
	catalogsvc "restaurant-pos/internal/service/catalog"
	ordersvc "restaurant-pos/internal/service/order"
	sessionsvc "restaurant-pos/internal/service/session"
	taxsvc "restaurant-pos/internal/service/tax"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString, logger)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	publisher := events.Noop(logger)
	if cfg.RabbitMQURL != "" {
		publisher, err = events.NewRabbitMQ(cfg.RabbitMQURL, cfg.OrderExchange, logger)
		if err != nil {
			logger.Fatalf("connect to rabbitmq: %v", err)
		}
	}
	defer publisher.Close()

	restaurantRepo := restaurantrepo.NewPostgres(dbpool)
	productRepo := productrepo.NewPostgres(dbpool, logger)
	categoryRepo := categoryrepo.NewPostgres(dbpool)
	taxRuleRepo := taxrulerepo.NewPostgres(dbpool, logger)
	cartRepo := cartrepo.NewPostgres(dbpool)
	orderRepo := orderrepo.NewPostgres(dbpool, logger)

	catalogService := catalogsvc.New(categoryRepo, productRepo)
	taxService := taxsvc.New(taxRuleRepo, logger)
	cartService := cartsvc.New(cartRepo, productRepo, taxRuleRepo, logger)
	orderService := ordersvc.New(orderRepo, cartService, publisher, logger)
	sessionService := sessionsvc.New(cfg.SessionTTL)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		RestaurantRepo: restaurantRepo,
		CatalogSvc:     catalogService,
		TaxSvc:         taxService,
		SessionSvc:     sessionService,
		CartSvc:        cartService,
		OrderSvc:       orderService,
		CORSOrigins:    cfg.CORSAllowedOrigins,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
