// Package partner wraps the outbound fulfilment API submission call.
package partner

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/printhaus/fulfilbridge/internal/payload"
	apperrors "github.com/printhaus/fulfilbridge/pkg/errors"
)

// Client submits orders to the partner fulfilment API. It performs no
// retries itself; retrying is layered on top by the caller.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a partner API client for the given base URL.
func NewClient(baseURL string, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// SubmitResponse is the decoded partner API acknowledgement.
type SubmitResponse struct {
	ID     int64  `json:"id"`
	Status string `json:"status,omitempty"`
}

// SubmitOrder performs a single submission call authenticated with the
// client's company reference id and API key (joined by a colon,
// base64-encoded, sent as a Basic Authorization header). A non-success
// response yields an ErrSubmissionFailed carrying status and body; body
// read failures are swallowed and treated as an empty body.
func (c *Client) SubmitOrder(ctx context.Context, companyRefID, apiKey string, order payload.PartnerOrder) (*SubmitResponse, error) {
	jsonData, err := json.Marshal(order)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order: %w", err)
	}

	url := c.baseURL + "/orders"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	credential := base64.StdEncoding.EncodeToString([]byte(companyRefID + ":" + apiKey))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Basic "+credential)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			body = nil
		}
		return nil, &apperrors.ErrSubmissionFailed{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(body),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var submitResp SubmitResponse
	if err := json.Unmarshal(body, &submitResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return &submitResp, nil
}
