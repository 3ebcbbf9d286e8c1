package service

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"github.com/printhaus/fulfilbridge/internal/domain"
	"github.com/printhaus/fulfilbridge/internal/partner"
	"github.com/printhaus/fulfilbridge/internal/payload"
	"github.com/printhaus/fulfilbridge/internal/repository"
	"github.com/printhaus/fulfilbridge/internal/retry"
	"github.com/printhaus/fulfilbridge/pkg/errors"
)

// PartnerSubmitter is the outbound submission surface of the partner API
// client.
type PartnerSubmitter interface {
	SubmitOrder(ctx context.Context, companyRefID, apiKey string, order payload.PartnerOrder) (*partner.SubmitResponse, error)
}

type dispatchService struct {
	repos            *repository.Repositories
	partner          PartnerSubmitter
	retryOpts        retry.Options
	defaultProductID *int64
	logger           *zap.Logger
}

// NewDispatchService creates the asynchronous order processing service.
// defaultProductID of zero means no fallback for unmapped SKUs.
func NewDispatchService(repos *repository.Repositories, submitter PartnerSubmitter, defaultProductID int64, retryOpts retry.Options, logger *zap.Logger) *dispatchService {
	s := &dispatchService{
		repos:     repos,
		partner:   submitter,
		retryOpts: retryOpts,
		logger:    logger,
	}
	if defaultProductID != 0 {
		s.defaultProductID = &defaultProductID
	}
	return s
}

// Process handles one dequeued order message. Delivery is at-least-once;
// every path either finalizes the order in the ledger or returns an error
// so the queue redelivers the message. The ledger write is deliberately
// skipped on submission failure so a redelivery retries from scratch.
func (s *dispatchService) Process(ctx context.Context, msg domain.QueuedOrder) error {
	orderID := strconv.FormatInt(msg.Order.ID, 10)
	log := s.logger.With(
		zap.String("slug", msg.Slug),
		zap.String("shop_domain", msg.ShopDomain),
		zap.String("order_id", orderID),
	)

	processed, err := s.repos.Ledger.Exists(ctx, msg.ShopDomain, orderID)
	if err != nil {
		return err
	}
	if processed {
		log.Info("Order already processed, skipping")
		return nil
	}

	// Config and secrets are re-resolved rather than trusted from the
	// queued message, so rotations between enqueue and processing apply.
	cfg, err := s.repos.ClientConfig.GetBySlug(ctx, msg.Slug)
	if err != nil {
		return err
	}
	secrets, err := s.repos.Secrets.Get(ctx, cfg.SecretRef)
	if err != nil {
		return err
	}

	skus := make([]string, 0, len(msg.Candidates))
	for _, c := range msg.Candidates {
		if c.Item.SKU != "" {
			skus = append(skus, c.Item.SKU)
		}
	}
	skuMap, err := s.repos.SKUMap.BulkGet(ctx, msg.Slug, skus)
	if err != nil {
		return err
	}

	// Fail-fast mapping check over the personalised subset before anything
	// is built. Uses the same classification as the builder.
	var missing []string
	personalised := 0
	for _, c := range msg.Candidates {
		if payload.Classify(c) == payload.KindSkip {
			continue
		}
		personalised++
		if _, ok := skuMap[domain.NormalizeSKU(c.Item.SKU)]; !ok && s.defaultProductID == nil {
			missing = append(missing, c.Item.SKU)
		}
	}

	if personalised == 0 {
		log.Info("No personalised content, marking processed without submission")
		return s.repos.Ledger.Put(ctx, msg.ShopDomain, orderID, "")
	}
	if len(missing) > 0 {
		// No partial submission: the whole message fails and is retried by
		// redelivery once the mapping gap is fixed.
		return &errors.ErrMissingMapping{Slug: msg.Slug, SKUs: missing}
	}

	order := payload.Build(msg.Order, msg.Candidates, skuMap, payload.Options{
		DefaultProductID: s.defaultProductID,
	})
	order.CompanyRefID = secrets.CompanyRefID

	if len(order.Items) == 0 {
		log.Info("Built payload has no items, marking processed without submission")
		return s.repos.Ledger.Put(ctx, msg.ShopDomain, orderID, "")
	}

	var resp *partner.SubmitResponse
	opts := s.retryOpts
	opts.OnRetry = func(err error, attempt int) {
		log.Warn("Order submission attempt failed",
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
	}
	err = retry.Do(ctx, func(ctx context.Context) error {
		var submitErr error
		resp, submitErr = s.partner.SubmitOrder(ctx, secrets.CompanyRefID, secrets.APIKey, order)
		return submitErr
	}, opts)
	if err != nil {
		log.Error("Order submission failed after retries", zap.Error(err))
		return err
	}

	externalID := strconv.FormatInt(resp.ID, 10)
	log.Info("Order submitted",
		zap.String("external_id", externalID),
		zap.Int("items", len(order.Items)),
	)
	return s.repos.Ledger.Put(ctx, msg.ShopDomain, orderID, externalID)
}
