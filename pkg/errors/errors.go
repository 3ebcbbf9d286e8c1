package errors

import "fmt"

// ErrUnknownTenant indicates the webhook hook id did not resolve to a known client.
type ErrUnknownTenant struct {
	Slug string
}

func (e *ErrUnknownTenant) Error() string {
	return fmt.Sprintf("unknown tenant: %s", e.Slug)
}

// ErrInvalidSignature indicates the webhook HMAC did not match the request body.
type ErrInvalidSignature struct {
	Slug string
}

func (e *ErrInvalidSignature) Error() string {
	return fmt.Sprintf("invalid webhook signature for tenant %s", e.Slug)
}

// ErrMalformedBody indicates the webhook body could not be parsed as an order.
type ErrMalformedBody struct {
	Reason string
}

func (e *ErrMalformedBody) Error() string {
	return fmt.Sprintf("malformed webhook body: %s", e.Reason)
}

// ErrMissingMapping indicates a personalised line item's SKU has no product mapping.
// Processing fails before any submission; the queue redelivers the message so the
// order is retried once the mapping is configured.
type ErrMissingMapping struct {
	Slug string
	SKUs []string
}

func (e *ErrMissingMapping) Error() string {
	return fmt.Sprintf("no product mapping for tenant %s, skus %v", e.Slug, e.SKUs)
}

// ErrSubmissionFailed wraps a non-success response from the partner API.
type ErrSubmissionFailed struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *ErrSubmissionFailed) Error() string {
	return fmt.Sprintf("partner API error: status %d %s, body: %s", e.StatusCode, e.Status, e.Body)
}

// ErrNotFound indicates a requested resource does not exist.
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrSecretNotFound indicates a secret reference did not resolve to a secrets bundle.
// Secret lookups must fail loudly rather than return empty credentials.
type ErrSecretNotFound struct {
	Ref string
}

func (e *ErrSecretNotFound) Error() string {
	return fmt.Sprintf("secret not found: %s", e.Ref)
}
