package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"restaurant-pos/internal/config"
	"restaurant-pos/internal/db"
	"restaurant-pos/internal/domain"
	"restaurant-pos/internal/importer"
	categoryrepo "restaurant-pos/internal/repository/category"
	productrepo "restaurant-pos/internal/repository/product"
	restaurantrepo "restaurant-pos/internal/repository/restaurant"
	catalogsvc "restaurant-pos/internal/service/catalog"
)

func main() {
	var (
		filePath      string
		restaurantKey string
	)
	flag.StringVar(&filePath, "file", "", "Path to menu CSV file")
	flag.StringVar(&restaurantKey, "restaurant", "", "Restaurant key to import into")
	flag.Parse()

	if filePath == "" || restaurantKey == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.FromEnv()
	ctx := context.Background()

	pool, err := db.Connect(ctx, cfg.DBConnString, nil)
	if err != nil {
		log.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	restRepo := restaurantrepo.NewPostgres(pool)
	rest, err := restRepo.GetByKey(ctx, restaurantKey)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			rest, err = restRepo.Upsert(ctx, domain.Restaurant{
				Key:                  restaurantKey,
				Name:                 restaurantKey,
				ServiceChargePercent: cfg.ServiceChargePercent,
			})
		}
		if err != nil {
			log.Fatalf("ensure restaurant %q: %v", restaurantKey, err)
		}
	}

	f, err := os.Open(filePath)
	if err != nil {
		log.Fatalf("open file: %v", err)
	}
	defer f.Close()

	catalog := catalogsvc.New(categoryrepo.NewPostgres(pool), productrepo.NewPostgres(pool, nil))
	imp := importer.NewCSVImporter(f, catalog, rest.ID)

	start := time.Now()
	count, err := imp.Run(ctx)
	if err != nil {
		log.Fatalf("import failed: %v", err)
	}

	fmt.Printf("Imported %d products into restaurant %s in %s\n", count, restaurantKey, time.Since(start).Truncate(time.Millisecond))
}
