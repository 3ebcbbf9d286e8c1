package service

import (
	"context"
	"encoding/json"
	"strconv"

	"go.uber.org/zap"

	"github.com/printhaus/fulfilbridge/internal/domain"
	"github.com/printhaus/fulfilbridge/internal/extract"
	"github.com/printhaus/fulfilbridge/internal/repository"
	"github.com/printhaus/fulfilbridge/internal/webhook"
	"github.com/printhaus/fulfilbridge/pkg/errors"
)

type intakeService struct {
	repos  *repository.Repositories
	logger *zap.Logger
}

// NewIntakeService creates the synchronous webhook intake service
func NewIntakeService(repos *repository.Repositories, logger *zap.Logger) *intakeService {
	return &intakeService{
		repos:  repos,
		logger: logger,
	}
}

// Accept runs the intake phase for one inbound webhook: resolve the tenant,
// verify the signature over the raw body, parse the order, extract design
// bit candidates, and enqueue one message for the worker. It never
// classifies candidates; classification is the worker's job so that rule
// changes do not require re-validating signatures.
func (s *intakeService) Accept(ctx context.Context, hookID, shopDomainHint, signature string, rawBody []byte) (*domain.QueuedOrder, error) {
	slug := domain.ParseSlug(hookID)

	cfg, err := s.repos.ClientConfig.GetBySlug(ctx, slug)
	if err != nil {
		if _, ok := err.(*errors.ErrNotFound); ok {
			return nil, &errors.ErrUnknownTenant{Slug: slug}
		}
		return nil, err
	}

	secrets, err := s.repos.Secrets.Get(ctx, cfg.SecretRef)
	if err != nil {
		return nil, err
	}

	// The signature is computed over the exact raw bytes as received;
	// verifying a re-serialized body would always fail.
	if !webhook.VerifySignature(rawBody, signature, secrets.WebhookSigningKey) {
		return nil, &errors.ErrInvalidSignature{Slug: slug}
	}

	var order domain.Order
	if err := json.Unmarshal(rawBody, &order); err != nil {
		return nil, &errors.ErrMalformedBody{Reason: err.Error()}
	}
	if order.ID == 0 {
		return nil, &errors.ErrMalformedBody{Reason: "order id is missing"}
	}

	if shopDomainHint != "" && shopDomainHint != cfg.ShopDomain {
		s.logger.Warn("Shop domain header does not match client config",
			zap.String("slug", slug),
			zap.String("header", shopDomainHint),
		)
	}

	aliases := cfg.Aliases()
	candidates := make([]domain.Candidate, 0, len(order.LineItems))
	for _, item := range order.LineItems {
		candidates = append(candidates, domain.Candidate{
			Item: item,
			Bits: extract.Bits(item.Properties, aliases),
		})
	}

	msg := domain.QueuedOrder{
		Slug:       slug,
		ShopDomain: cfg.ShopDomain,
		Order:      order,
		Candidates: candidates,
	}

	orderID := strconv.FormatInt(order.ID, 10)
	if err := s.repos.Queue.Publish(ctx, msg, cfg.ShopDomain, cfg.ShopDomain+":"+orderID); err != nil {
		s.logger.Error("Failed to enqueue order",
			zap.String("slug", slug),
			zap.String("order_id", orderID),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("Order enqueued",
		zap.String("slug", slug),
		zap.String("order_id", orderID),
		zap.Int("line_items", len(order.LineItems)),
	)
	return &msg, nil
}
