// Package queue implements order message publishing and consumption on an
// SQS FIFO queue.
package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"go.uber.org/zap"

	"github.com/printhaus/fulfilbridge/internal/domain"
)

type sqsQueue struct {
	client   *sqs.Client
	queueURL string
	logger   *zap.Logger
}

// NewSQSQueue creates a queue backed by the SQS FIFO queue at queueURL.
func NewSQSQueue(client *sqs.Client, queueURL string, logger *zap.Logger) *sqsQueue {
	return &sqsQueue{
		client:   client,
		queueURL: queueURL,
		logger:   logger,
	}
}

// Publish sends one queued order. The group key keeps delivery ordered per
// shop; the dedup key suppresses duplicate publishes of the same order
// within the SQS deduplication window.
func (q *sqsQueue) Publish(ctx context.Context, msg domain.QueuedOrder, groupKey, dedupKey string) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal queued order: %w", err)
	}

	input := &sqs.SendMessageInput{
		QueueUrl:    &q.queueURL,
		MessageBody: awsStr(string(body)),
	}
	if groupKey != "" {
		input.MessageGroupId = &groupKey
	}
	if dedupKey != "" {
		input.MessageDeduplicationId = &dedupKey
	}

	if _, err := q.client.SendMessage(ctx, input); err != nil {
		q.logger.Error("Failed to publish queued order", zap.Error(err))
		return err
	}
	return nil
}

// Message is one received queue delivery together with its receipt handle.
type Message struct {
	Order         domain.QueuedOrder
	ReceiptHandle string
}

// Receive long-polls for up to max messages. Malformed bodies are deleted
// and skipped; they would never parse on redelivery either.
func (q *sqsQueue) Receive(ctx context.Context, max int32) ([]Message, error) {
	out, err := q.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:            &q.queueURL,
		MaxNumberOfMessages: max,
		WaitTimeSeconds:     20,
	})
	if err != nil {
		return nil, err
	}

	msgs := make([]Message, 0, len(out.Messages))
	for _, m := range out.Messages {
		var order domain.QueuedOrder
		if err := json.Unmarshal([]byte(deref(m.Body)), &order); err != nil {
			q.logger.Warn("Dropping malformed queue message", zap.Error(err))
			q.delete(ctx, m)
			continue
		}
		msgs = append(msgs, Message{
			Order:         order,
			ReceiptHandle: deref(m.ReceiptHandle),
		})
	}
	return msgs, nil
}

// Delete acknowledges a processed message. Unacknowledged messages are
// redelivered after the visibility timeout.
func (q *sqsQueue) Delete(ctx context.Context, receiptHandle string) error {
	_, err := q.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      &q.queueURL,
		ReceiptHandle: &receiptHandle,
	})
	return err
}

func (q *sqsQueue) delete(ctx context.Context, m types.Message) {
	if m.ReceiptHandle == nil {
		return
	}
	if err := q.Delete(ctx, *m.ReceiptHandle); err != nil {
		q.logger.Warn("Failed to delete queue message", zap.Error(err))
	}
}

func awsStr(s string) *string { return &s }

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
