package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/printhaus/fulfilbridge/internal/config"
	"github.com/printhaus/fulfilbridge/internal/domain"
	"github.com/printhaus/fulfilbridge/internal/repository/postgres"
)

func main() {
	if len(os.Args) < 3 {
		fmt.Println("Usage: go run cmd/find-sku/main.go <client-slug> <sku> [sku...]")
		fmt.Println("Example: go run cmd/find-sku/main.go \"ivc-shop\" \"ABC-1\" \"ABC-2\"")
		os.Exit(1)
	}

	slug := os.Args[1]
	skus := os.Args[2:]

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	// Connect to database
	db, err := postgres.NewConnection(cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	repo := postgres.NewSKUMapRepository(db, logger)
	mapping, err := repo.BulkGet(context.Background(), slug, skus)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to look up SKUs: %v\n", err)
		os.Exit(1)
	}

	for _, sku := range skus {
		normalized := domain.NormalizeSKU(sku)
		if productID, ok := mapping[normalized]; ok {
			fmt.Printf("%s -> product %d\n", sku, productID)
		} else {
			fmt.Printf("%s -> no mapping\n", sku)
		}
	}
}
