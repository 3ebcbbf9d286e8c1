package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"go.uber.org/zap"

	"github.com/printhaus/fulfilbridge/internal/awsutil"
	"github.com/printhaus/fulfilbridge/internal/config"
	"github.com/printhaus/fulfilbridge/internal/partner"
	"github.com/printhaus/fulfilbridge/internal/repository"
	"github.com/printhaus/fulfilbridge/internal/repository/dynamo"
	"github.com/printhaus/fulfilbridge/internal/repository/postgres"
	"github.com/printhaus/fulfilbridge/internal/repository/queue"
	"github.com/printhaus/fulfilbridge/internal/repository/secrets"
	"github.com/printhaus/fulfilbridge/internal/retry"
	"github.com/printhaus/fulfilbridge/internal/service"
)

const receiveBatchSize = 5

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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// AWS clients
	awsConfig, err := awsutil.Load(ctx, cfg.AWS.Region)
	if err != nil {
		logger.Fatal("Failed to load AWS configuration", zap.Error(err))
	}

	q := queue.NewSQSQueue(sqs.NewFromConfig(awsConfig), cfg.AWS.QueueURL, logger)
	repos := &repository.Repositories{
		ClientConfig: postgres.NewClientConfigRepository(db, logger),
		SKUMap:       postgres.NewSKUMapRepository(db, logger),
		Secrets:      secrets.NewSecretStore(secretsmanager.NewFromConfig(awsConfig), logger),
		Ledger:       dynamo.NewLedgerRepository(dynamodb.NewFromConfig(awsConfig), cfg.AWS.LedgerTable, logger),
		Queue:        q,
	}

	partnerClient := partner.NewClient(cfg.Partner.BaseURL, logger)
	dispatch := service.NewDispatchService(repos, partnerClient, cfg.Partner.DefaultProductID, retry.DefaultOptions(), logger)

	logger.Info("Starting order worker", zap.String("queue_url", cfg.AWS.QueueURL))

	for {
		msgs, err := q.Receive(ctx, receiveBatchSize)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				break
			}
			logger.Error("Failed to receive messages", zap.Error(err))
			continue
		}

		for _, msg := range msgs {
			if err := dispatch.Process(ctx, msg.Order); err != nil {
				// Leave the message in flight; the visibility timeout
				// redelivers it, and the dead-letter policy caps retries.
				logger.Error("Failed to process order",
					zap.String("slug", msg.Order.Slug),
					zap.Int64("order_id", msg.Order.Order.ID),
					zap.Error(err),
				)
				continue
			}
			if err := q.Delete(ctx, msg.ReceiptHandle); err != nil {
				logger.Warn("Failed to delete processed message", zap.Error(err))
			}
		}

		if ctx.Err() != nil {
			break
		}
	}

	logger.Info("Worker stopped")
}
