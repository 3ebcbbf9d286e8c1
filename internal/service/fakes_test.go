package service

import (
	"context"

	"github.com/printhaus/fulfilbridge/internal/domain"
	"github.com/printhaus/fulfilbridge/internal/partner"
	"github.com/printhaus/fulfilbridge/internal/payload"
	"github.com/printhaus/fulfilbridge/internal/repository"
	"github.com/printhaus/fulfilbridge/pkg/errors"
)

type fakeClientStore struct {
	configs map[string]*domain.ClientConfig
}

func (f *fakeClientStore) GetBySlug(_ context.Context, slug string) (*domain.ClientConfig, error) {
	if cfg, ok := f.configs[slug]; ok {
		return cfg, nil
	}
	return nil, &errors.ErrNotFound{Resource: "client config", ID: slug}
}

type fakeSecretStore struct {
	bundles map[string]*domain.SecretsBundle
}

func (f *fakeSecretStore) Get(_ context.Context, ref string) (*domain.SecretsBundle, error) {
	if b, ok := f.bundles[ref]; ok {
		return b, nil
	}
	return nil, &errors.ErrSecretNotFound{Ref: ref}
}

type fakeSKUStore struct {
	mappings map[string]int64 // normalized sku -> product id
}

func (f *fakeSKUStore) BulkGet(_ context.Context, _ string, skus []string) (map[string]int64, error) {
	out := map[string]int64{}
	for _, sku := range skus {
		n := domain.NormalizeSKU(sku)
		if id, ok := f.mappings[n]; ok {
			out[n] = id
		}
	}
	return out, nil
}

type fakeLedger struct {
	records  map[string]string // shopDomain|orderID -> externalID
	putCalls int
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{records: map[string]string{}}
}

func (f *fakeLedger) Exists(_ context.Context, shopDomain, orderID string) (bool, error) {
	_, ok := f.records[shopDomain+"|"+orderID]
	return ok, nil
}

func (f *fakeLedger) Put(_ context.Context, shopDomain, orderID, externalID string) error {
	f.putCalls++
	key := shopDomain + "|" + orderID
	if _, ok := f.records[key]; !ok {
		f.records[key] = externalID
	}
	return nil
}

type publishedMessage struct {
	Msg      domain.QueuedOrder
	GroupKey string
	DedupKey string
}

type fakeQueue struct {
	published []publishedMessage
	err       error
}

func (f *fakeQueue) Publish(_ context.Context, msg domain.QueuedOrder, groupKey, dedupKey string) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, publishedMessage{Msg: msg, GroupKey: groupKey, DedupKey: dedupKey})
	return nil
}

type fakeSubmitter struct {
	calls  int
	orders []payload.PartnerOrder
	resp   *partner.SubmitResponse
	err    error
}

func (f *fakeSubmitter) SubmitOrder(_ context.Context, _, _ string, order payload.PartnerOrder) (*partner.SubmitResponse, error) {
	f.calls++
	f.orders = append(f.orders, order)
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func testRepos(ledger *fakeLedger, queue *fakeQueue, skus map[string]int64) *repository.Repositories {
	return &repository.Repositories{
		ClientConfig: &fakeClientStore{
			configs: map[string]*domain.ClientConfig{
				"ivc-shop": {
					Slug:       "ivc-shop",
					ShopDomain: "ivc-shop.myshopify.com",
					SecretRef:  "fulfilbridge/ivc-shop",
					IsActive:   true,
				},
			},
		},
		Secrets: &fakeSecretStore{
			bundles: map[string]*domain.SecretsBundle{
				"fulfilbridge/ivc-shop": {
					WebhookSigningKey: "signing-key",
					CompanyRefID:      "CO-9",
					APIKey:            "partner-key",
				},
			},
		},
		SKUMap: &fakeSKUStore{mappings: skus},
		Ledger: ledger,
		Queue:  queue,
	}
}
