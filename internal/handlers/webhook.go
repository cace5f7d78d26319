package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/billerops/ticketbridge/internal/config"
	"github.com/billerops/ticketbridge/internal/services/webhook"
	"github.com/billerops/ticketbridge/pkg/logger"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type WebhookHandler struct {
	webhookService *webhook.Service
}

func NewWebhookHandler(db *gorm.DB, jiraCfg *config.JiraConfig) *WebhookHandler {
	return &WebhookHandler{
		webhookService: webhook.NewService(db, jiraCfg),
	}
}

// HandleJiraWebhook ingests one Jira issue webhook delivery. Every response
// carries a status field: "processed" when a closure was persisted (or was
// already persisted), "skipped" for non-closure updates, "error" otherwise.
func (h *WebhookHandler) HandleJiraWebhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": webhook.StatusError, "message": "failed to read body"})
		return
	}

	triggeredBy := c.Query("triggeredByUser")

	resp, err := h.webhookService.ProcessIssueEvent(body, triggeredBy)
	if err != nil {
		if errors.Is(err, webhook.ErrMalformedPayload) {
			c.JSON(http.StatusBadRequest, gin.H{"status": webhook.StatusError, "message": err.Error()})
			return
		}
		logger.Error().Err(err).Str("client_ip", c.ClientIP()).Msg("webhook processing failed")
		c.JSON(http.StatusInternalServerError, gin.H{"status": webhook.StatusError, "message": "failed to persist ticket mapping"})
		return
	}

	c.JSON(http.StatusOK, resp)
}
