package main

import (
	"context"
	"flag"
	"log"
	"os"

	"restaurant-pos/internal/config"
	"restaurant-pos/internal/db"
	categoryrepo "restaurant-pos/internal/repository/category"
	productrepo "restaurant-pos/internal/repository/product"
	restaurantrepo "restaurant-pos/internal/repository/restaurant"
	taxrulerepo "restaurant-pos/internal/repository/taxrule"
	"restaurant-pos/internal/seed"
	catalogsvc "restaurant-pos/internal/service/catalog"
	taxsvc "restaurant-pos/internal/service/tax"
)

func main() {
	var fixturePath string
	flag.StringVar(&fixturePath, "file", "", "Path to a YAML fixture (defaults to the built-in demo restaurant)")
	flag.Parse()

	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[seed] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	var data []byte
	if fixturePath != "" {
		var err error
		if data, err = os.ReadFile(fixturePath); err != nil {
			logger.Fatalf("read fixture: %v", err)
		}
	}
	fixture, err := seed.Load(data)
	if err != nil {
		logger.Fatalf("load fixture: %v", err)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString, logger)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	seeder := &seed.Seeder{
		Restaurants:          restaurantrepo.NewPostgres(pool),
		Catalog:              catalogsvc.New(categoryrepo.NewPostgres(pool), productrepo.NewPostgres(pool, logger)),
		Taxes:                taxsvc.New(taxrulerepo.NewPostgres(pool, logger), logger),
		DefaultServiceCharge: cfg.ServiceChargePercent,
		Logger:               logger,
	}
	if _, err := seeder.Apply(ctx, fixture); err != nil {
		logger.Fatalf("seed apply: %v", err)
	}

	logger.Println("seed applied")
}
