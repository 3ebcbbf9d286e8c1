package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"go.uber.org/zap"

	"github.com/printhaus/fulfilbridge/internal/api"
	"github.com/printhaus/fulfilbridge/internal/awsutil"
	"github.com/printhaus/fulfilbridge/internal/config"
	"github.com/printhaus/fulfilbridge/internal/repository"
	"github.com/printhaus/fulfilbridge/internal/repository/postgres"
	"github.com/printhaus/fulfilbridge/internal/repository/queue"
	"github.com/printhaus/fulfilbridge/internal/repository/secrets"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	var logger *zap.Logger
	if cfg.Environment == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Connect to database
	db, err := postgres.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// AWS clients
	awsConfig, err := awsutil.Load(context.Background(), cfg.AWS.Region)
	if err != nil {
		logger.Fatal("Failed to load AWS configuration", zap.Error(err))
	}

	repos := &repository.Repositories{
		ClientConfig: postgres.NewClientConfigRepository(db, logger),
		SKUMap:       postgres.NewSKUMapRepository(db, logger),
		Secrets:      secrets.NewSecretStore(secretsmanager.NewFromConfig(awsConfig), logger),
		Queue:        queue.NewSQSQueue(sqs.NewFromConfig(awsConfig), cfg.AWS.QueueURL, logger),
	}

	router := api.NewRouter(cfg, repos, logger)

	logger.Info("Starting intake server",
		zap.String("port", cfg.Port),
		zap.String("environment", cfg.Environment),
	)
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}
