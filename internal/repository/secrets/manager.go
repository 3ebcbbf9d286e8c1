// Package secrets fetches per-client secrets bundles from AWS Secrets
// Manager.
package secrets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
	"go.uber.org/zap"

	"github.com/printhaus/fulfilbridge/internal/domain"
	apperrors "github.com/printhaus/fulfilbridge/pkg/errors"
)

type secretStore struct {
	sm     *secretsmanager.Client
	logger *zap.Logger
}

// NewSecretStore creates a secret store backed by AWS Secrets Manager.
func NewSecretStore(sm *secretsmanager.Client, logger *zap.Logger) *secretStore {
	return &secretStore{
		sm:     sm,
		logger: logger,
	}
}

// Get fetches and decodes the secrets bundle stored under ref. An unknown
// reference fails loudly with ErrSecretNotFound; secret values are never
// logged.
func (s *secretStore) Get(ctx context.Context, ref string) (*domain.SecretsBundle, error) {
	out, err := s.sm.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: &ref,
	})
	if err != nil {
		var notFound *types.ResourceNotFoundException
		if errors.As(err, &notFound) {
			return nil, &apperrors.ErrSecretNotFound{Ref: ref}
		}
		s.logger.Error("Failed to fetch secret", zap.String("ref", ref), zap.Error(err))
		return nil, err
	}
	if out.SecretString == nil {
		return nil, &apperrors.ErrSecretNotFound{Ref: ref}
	}

	var bundle domain.SecretsBundle
	if err := json.Unmarshal([]byte(*out.SecretString), &bundle); err != nil {
		return nil, fmt.Errorf("failed to decode secrets bundle %s: %w", ref, err)
	}
	if bundle.WebhookSigningKey == "" || bundle.APIKey == "" {
		return nil, fmt.Errorf("secrets bundle %s is incomplete", ref)
	}

	return &bundle, nil
}
