package handlers

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/printhaus/fulfilbridge/internal/domain"
	"github.com/printhaus/fulfilbridge/internal/repository"
	"github.com/printhaus/fulfilbridge/internal/service"
	"github.com/printhaus/fulfilbridge/pkg/errors"
)

// Header names on the inbound webhook surface.
const (
	HeaderShopDomain = "X-Shop-Domain"
	HeaderSignature  = "X-Hmac-Sha256"
)

// OrderIntake is the intake surface the webhook handler calls.
type OrderIntake interface {
	Accept(ctx context.Context, hookID, shopDomainHint, signature string, rawBody []byte) (*domain.QueuedOrder, error)
}

// WebhookAckResponse is the small acknowledgement returned to the sender.
type WebhookAckResponse struct {
	Status  string `json:"status"`
	OrderID string `json:"order_id,omitempty"`
}

// HandleOrderWebhook handles POST /hooks/:hookId
func HandleOrderWebhook(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	intake := service.NewIntakeService(repos, logger)
	return orderWebhookHandler(intake, logger)
}

func orderWebhookHandler(intake OrderIntake, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		hookID := c.Param("hookId")
		shopDomain := c.GetHeader(HeaderShopDomain)
		signature := c.GetHeader(HeaderSignature)

		// The raw bytes are what the sender signed; they must be consumed
		// before any parsing.
		rawBody, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read body"})
			return
		}

		msg, err := intake.Accept(c.Request.Context(), hookID, shopDomain, signature, rawBody)
		if err != nil {
			switch err.(type) {
			case *errors.ErrUnknownTenant:
				c.JSON(http.StatusNotFound, gin.H{"error": "unknown tenant"})
			case *errors.ErrInvalidSignature:
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
			case *errors.ErrMalformedBody:
				c.JSON(http.StatusBadRequest, gin.H{"error": "malformed body"})
			default:
				logger.Error("Failed to accept webhook", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			}
			return
		}

		c.JSON(http.StatusOK, WebhookAckResponse{
			Status:  "queued",
			OrderID: strconv.FormatInt(msg.Order.ID, 10),
		})
	}
}
