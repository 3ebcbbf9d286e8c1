// Package dynamo implements the processed-order ledger on DynamoDB.
package dynamo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

type ledgerRepository struct {
	db     *dynamodb.Client
	table  string
	logger *zap.Logger
}

// NewLedgerRepository creates a processed-order ledger backed by the given
// DynamoDB table.
func NewLedgerRepository(db *dynamodb.Client, table string, logger *zap.Logger) *ledgerRepository {
	return &ledgerRepository{
		db:     db,
		table:  table,
		logger: logger,
	}
}

type ledgerRecord struct {
	PK          string `dynamodbav:"PK"`
	ShopDomain  string `dynamodbav:"shop_domain"`
	OrderID     string `dynamodbav:"order_id"`
	ExternalID  string `dynamodbav:"external_id"`
	ProcessedAt string `dynamodbav:"processed_at"`
}

func ledgerKey(shopDomain, orderID string) string {
	return fmt.Sprintf("ORDER#%s#%s", shopDomain, orderID)
}

func (r *ledgerRepository) Exists(ctx context.Context, shopDomain, orderID string) (bool, error) {
	key := ledgerKey(shopDomain, orderID)
	out, err := r.db.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &r.table,
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: key},
		},
		ConsistentRead: awsBool(true),
	})
	if err != nil {
		r.logger.Error("Failed to read ledger record", zap.Error(err))
		return false, err
	}
	return len(out.Item) > 0, nil
}

// Put inserts the processed-order record with a conditional write so the
// record is created exactly once. A conditional check failure means another
// worker already finalized the order and is treated as success.
func (r *ledgerRepository) Put(ctx context.Context, shopDomain, orderID, externalID string) error {
	record := ledgerRecord{
		PK:          ledgerKey(shopDomain, orderID),
		ShopDomain:  shopDomain,
		OrderID:     orderID,
		ExternalID:  externalID,
		ProcessedAt: time.Now().UTC().Format(time.RFC3339),
	}

	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return err
	}

	_, err = r.db.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           &r.table,
		Item:                item,
		ConditionExpression: awsStr("attribute_not_exists(PK)"),
	})
	if err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			r.logger.Info("Ledger record already written by another worker",
				zap.String("shop_domain", shopDomain),
				zap.String("order_id", orderID),
			)
			return nil
		}
		r.logger.Error("Failed to write ledger record", zap.Error(err))
		return err
	}
	return nil
}

func awsStr(s string) *string { return &s }
func awsBool(b bool) *bool    { return &b }
