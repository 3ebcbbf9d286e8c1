package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/printhaus/fulfilbridge/internal/domain"
	"github.com/printhaus/fulfilbridge/pkg/errors"
)

type clientConfigRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewClientConfigRepository creates a new client configuration repository
func NewClientConfigRepository(db *sql.DB, logger *zap.Logger) *clientConfigRepository {
	return &clientConfigRepository{
		db:     db,
		logger: logger,
	}
}

func (r *clientConfigRepository) GetBySlug(ctx context.Context, slug string) (*domain.ClientConfig, error) {
	query := `
		SELECT id, slug, shop_domain, secret_ref, top_aliases, middle_aliases, bottom_aliases, is_active, created_at, updated_at
		FROM client_configs
		WHERE slug = $1 AND is_active = true
	`

	var cfg domain.ClientConfig
	var topAliases, middleAliases, bottomAliases sql.NullString

	err := r.db.QueryRowContext(ctx, query, slug).Scan(
		&cfg.ID,
		&cfg.Slug,
		&cfg.ShopDomain,
		&cfg.SecretRef,
		&topAliases,
		&middleAliases,
		&bottomAliases,
		&cfg.IsActive,
		&cfg.CreatedAt,
		&cfg.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "client config", ID: slug}
	}
	if err != nil {
		r.logger.Error("Failed to get client config by slug", zap.Error(err))
		return nil, err
	}

	if topAliases.Valid {
		cfg.TopAliases = topAliases.String
	}
	if middleAliases.Valid {
		cfg.MiddleAliases = middleAliases.String
	}
	if bottomAliases.Valid {
		cfg.BottomAliases = bottomAliases.String
	}

	return &cfg, nil
}

func (r *clientConfigRepository) Create(ctx context.Context, cfg *domain.ClientConfig) error {
	query := `
		INSERT INTO client_configs (id, slug, shop_domain, secret_ref, top_aliases, middle_aliases, bottom_aliases, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	now := time.Now()
	if cfg.ID == uuid.Nil {
		cfg.ID = uuid.New()
	}
	if cfg.CreatedAt.IsZero() {
		cfg.CreatedAt = now
	}
	if cfg.UpdatedAt.IsZero() {
		cfg.UpdatedAt = now
	}

	_, err := r.db.ExecContext(ctx, query,
		cfg.ID,
		cfg.Slug,
		cfg.ShopDomain,
		cfg.SecretRef,
		nullable(cfg.TopAliases),
		nullable(cfg.MiddleAliases),
		nullable(cfg.BottomAliases),
		cfg.IsActive,
		cfg.CreatedAt,
		cfg.UpdatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to create client config", zap.Error(err))
		return err
	}

	return nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
