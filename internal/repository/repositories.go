// Package repository defines the external collaborator interfaces the core
// depends on and bundles their implementations for injection.
package repository

import (
	"context"

	"github.com/printhaus/fulfilbridge/internal/domain"
)

// ClientConfigStore resolves tenant configurations by slug.
type ClientConfigStore interface {
	GetBySlug(ctx context.Context, slug string) (*domain.ClientConfig, error)
}

// SKUMapStore resolves SKU to partner product id mappings for one client.
type SKUMapStore interface {
	// BulkGet returns the mapping for the given SKUs keyed by normalized
	// SKU. SKUs without a mapping are simply absent from the result.
	BulkGet(ctx context.Context, slug string, skus []string) (map[string]int64, error)
}

// SecretStore fetches a client's secrets bundle by secret reference. An
// unknown reference fails loudly, never silently empty.
type SecretStore interface {
	Get(ctx context.Context, ref string) (*domain.SecretsBundle, error)
}

// ProcessedOrderLedger is the idempotency record store. Put has
// idempotent-insert semantics: writing a record that already exists is
// treated as another worker having handled the order, not as an error.
type ProcessedOrderLedger interface {
	Exists(ctx context.Context, shopDomain, orderID string) (bool, error)
	Put(ctx context.Context, shopDomain, orderID, externalID string) error
}

// Queue publishes queued orders for asynchronous processing with
// at-least-once delivery. Group key orders delivery per shop; dedup key
// suppresses duplicate publishes of the same order.
type Queue interface {
	Publish(ctx context.Context, msg domain.QueuedOrder, groupKey, dedupKey string) error
}

// Repositories bundles all collaborator implementations.
type Repositories struct {
	ClientConfig ClientConfigStore
	SKUMap       SKUMapStore
	Secrets      SecretStore
	Ledger       ProcessedOrderLedger
	Queue        Queue
}
