package postgres

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/printhaus/fulfilbridge/internal/domain"
)

type skuMapRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSKUMapRepository creates a new SKU mapping repository
func NewSKUMapRepository(db *sql.DB, logger *zap.Logger) *skuMapRepository {
	return &skuMapRepository{
		db:     db,
		logger: logger,
	}
}

// BulkGet resolves the given SKUs to partner product ids for one client.
// SKUs are normalized before the lookup; unmapped SKUs are absent from the
// result rather than an error.
func (r *skuMapRepository) BulkGet(ctx context.Context, slug string, skus []string) (map[string]int64, error) {
	result := make(map[string]int64, len(skus))
	if len(skus) == 0 {
		return result, nil
	}

	normalized := make([]string, 0, len(skus))
	for _, sku := range skus {
		if n := domain.NormalizeSKU(sku); n != "" {
			normalized = append(normalized, n)
		}
	}
	if len(normalized) == 0 {
		return result, nil
	}

	query := `
		SELECT sku, product_id
		FROM sku_mappings
		WHERE client_slug = $1 AND sku = ANY($2) AND is_active = true
	`

	rows, err := r.db.QueryContext(ctx, query, slug, pq.Array(normalized))
	if err != nil {
		r.logger.Error("Failed to query SKU mappings", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var sku string
		var productID int64
		if err := rows.Scan(&sku, &productID); err != nil {
			continue
		}
		result[sku] = productID
	}

	return result, rows.Err()
}
