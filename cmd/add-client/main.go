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
	if len(os.Args) < 4 {
		fmt.Println("Usage: go run cmd/add-client/main.go <slug> <shop-domain> <secret-ref> [top-aliases] [middle-aliases] [bottom-aliases]")
		fmt.Println("Example: go run cmd/add-client/main.go \"ivc-shop\" \"ivc-shop.myshopify.com\" \"fulfilbridge/ivc-shop\" \"Top line,Name\"")
		os.Exit(1)
	}

	slug := domain.ParseSlug(os.Args[1])
	shopDomain := os.Args[2]
	secretRef := os.Args[3]

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

	client := &domain.ClientConfig{
		Slug:       slug,
		ShopDomain: shopDomain,
		SecretRef:  secretRef,
		IsActive:   true,
	}
	if len(os.Args) > 4 {
		client.TopAliases = os.Args[4]
	}
	if len(os.Args) > 5 {
		client.MiddleAliases = os.Args[5]
	}
	if len(os.Args) > 6 {
		client.BottomAliases = os.Args[6]
	}

	repo := postgres.NewClientConfigRepository(db, logger)
	if err := repo.Create(context.Background(), client); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create client config: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Client config created:\n")
	fmt.Printf("  ID:          %s\n", client.ID)
	fmt.Printf("  Slug:        %s\n", client.Slug)
	fmt.Printf("  Shop domain: %s\n", client.ShopDomain)
	fmt.Printf("  Secret ref:  %s\n", client.SecretRef)
	fmt.Printf("  Hook path:   /hooks/%s-orders\n", client.Slug)
}
