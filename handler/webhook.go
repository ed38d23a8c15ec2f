package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/ShenShiNing/new-tube/dto"
	"github.com/ShenShiNing/new-tube/pkg/pipeline"
	"github.com/ShenShiNing/new-tube/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// HandleWebhook receives the pipeline's signed lifecycle events. The
// signature is verified before any branch executes; response codes steer the
// sender: 400 drops the event, 500 makes it retry.
func (a *API) HandleWebhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
		return
	}

	signature := c.GetHeader(pipeline.SignatureHeader)
	if err := pipeline.VerifySignature(body, signature, a.cfg.Pipeline.WebhookSecret, pipeline.DefaultTolerance, time.Now()); err != nil {
		zerolog.Ctx(c.Request.Context()).Warn().Err(err).Msg("webhook signature rejected")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
		return
	}

	var event dto.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed payload"})
		return
	}

	if err := a.Reconcile.Apply(c.Request.Context(), event); err != nil {
		switch {
		case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrNotFound):
			// non-retryable: replaying the same broken event cannot succeed
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			// upstream or storage failure: induce a sender retry
			zerolog.Ctx(c.Request.Context()).Error().Err(err).Str("type", event.Type).Msg("webhook event failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "received"})
}
