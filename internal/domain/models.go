package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ClientConfig identifies one tenant shop and how its webhooks are handled.
// Managed externally; this service only reads it.
type ClientConfig struct {
	ID            uuid.UUID
	Slug          string
	ShopDomain    string
	SecretRef     string
	TopAliases    string
	MiddleAliases string
	BottomAliases string
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Aliases parses the stored alias columns into a typed alias configuration.
func (c *ClientConfig) Aliases() AliasConfig {
	return AliasConfig{
		Top:    ParseAliasList(c.TopAliases),
		Middle: ParseAliasList(c.MiddleAliases),
		Bottom: ParseAliasList(c.BottomAliases),
	}
}

// SecretsBundle holds per-client credentials. Fetched per request, never
// persisted by this service and never logged.
type SecretsBundle struct {
	WebhookSigningKey string `json:"webhook_signing_key"`
	CompanyRefID      string `json:"company_ref_id"`
	APIKey            string `json:"api_key"`
}

// Order is the inbound webhook document. Immutable once parsed.
type Order struct {
	ID              int64      `json:"id"`
	Name            string     `json:"name"`
	Email           string     `json:"email,omitempty"`
	ProcessedAt     string     `json:"processed_at,omitempty"`
	CreatedAt       string     `json:"created_at,omitempty"`
	Customer        *Customer  `json:"customer,omitempty"`
	ShippingAddress *Address   `json:"shipping_address,omitempty"`
	BillingAddress  *Address   `json:"billing_address,omitempty"`
	LineItems       []LineItem `json:"line_items"`
}

// Customer is the order's customer block.
type Customer struct {
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// Address is a shipping or billing address block.
type Address struct {
	Name     string `json:"name,omitempty"`
	Address1 string `json:"address1,omitempty"`
	Address2 string `json:"address2,omitempty"`
	City     string `json:"city,omitempty"`
	Zip      string `json:"zip,omitempty"`
	Province string `json:"province,omitempty"`
	Country  string `json:"country,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// LineItem is one line of an order. Quantity is a pointer so an absent
// quantity can be told apart from an explicit value; supplied values pass
// through unchanged and only absence defaults to 1.
type LineItem struct {
	ID         int64      `json:"id"`
	Quantity   *int       `json:"quantity,omitempty"`
	SKU        string     `json:"sku,omitempty"`
	Title      string     `json:"title,omitempty"`
	Properties []Property `json:"properties,omitempty"`
}

// Property is a single name/value pair on a line item.
type Property struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// DesignBits is the normalized text/metadata derived from a line item's
// properties. Purely derived, recomputed each time.
type DesignBits struct {
	Top        string `json:"top"`
	Middle     string `json:"middle"`
	Bottom     string `json:"bottom"`
	PrintJobID string `json:"print_job_id"`
	Thumb      string `json:"thumb"`
}

// Candidate pairs a line item with its derived design bits. It is the unit
// the payload builder classifies.
type Candidate struct {
	Item LineItem   `json:"item"`
	Bits DesignBits `json:"bits"`
}

// QueuedOrder is the message envelope handed from intake to the worker.
// Tenant config and secrets are re-resolved at processing time, so only the
// slug travels with the message.
type QueuedOrder struct {
	Slug       string      `json:"slug"`
	ShopDomain string      `json:"shop_domain"`
	Order      Order       `json:"order"`
	Candidates []Candidate `json:"candidates"`
}

// ProcessedOrder records that an order was finalized (submitted or
// deliberately skipped). Write-once; never updated or deleted.
type ProcessedOrder struct {
	ShopDomain  string    `json:"shop_domain"`
	OrderID     string    `json:"order_id"`
	ExternalID  string    `json:"external_id"`
	ProcessedAt time.Time `json:"processed_at"`
}

// privateMarker prefixes line item properties that carry metadata rather
// than user-facing text.
const privateMarker = "_"

// IsPrivateProperty reports whether a property name is metadata.
func IsPrivateProperty(name string) bool {
	return strings.HasPrefix(name, privateMarker)
}

// NormalizeSKU canonicalizes a SKU for mapping lookups. Idempotent.
func NormalizeSKU(sku string) string {
	return strings.ToLower(strings.TrimSpace(sku))
}
