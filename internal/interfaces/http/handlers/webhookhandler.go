package handlers

import (
	stderrors "errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	webhookUsecases "integrationhub/internal/application/webhook/usecases"
	"integrationhub/internal/shared/constants"
	"integrationhub/internal/shared/errors"
	"integrationhub/internal/shared/logger"
)

const (
	maxWebhookBodySize = 5 << 20
	msgBodyTooLarge    = "Request body too large"
)

type WebhookHandler struct {
	ingestUC ingestWebhookUseCase
	logger   logger.Interface
}

func NewWebhookHandler(ingestUC ingestWebhookUseCase, logger logger.Interface) *WebhookHandler {
	return &WebhookHandler{
		ingestUC: ingestUC,
		logger:   logger,
	}
}

// Receive ingests a HighLevel webhook delivery.
// POST /api/ghl/webhook
func (h *WebhookHandler) Receive(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBodySize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			h.logger.Warnw("webhook body exceeds limit", "limit", tooLarge.Limit)
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"ok": false, "error": msgBodyTooLarge})
			return
		}
		h.logger.Warnw("failed to read webhook body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": webhookUsecases.MsgMissingBody})
		return
	}

	signature := c.GetHeader(constants.HeaderWebhookSignature)
	if signature == "" {
		signature = c.GetHeader(constants.HeaderHighLevelSignature)
	}

	result, err := h.ingestUC.Execute(c.Request.Context(), webhookUsecases.IngestWebhookCommand{
		RawBody:   body,
		Signature: signature,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	if result.Ignored() {
		c.JSON(http.StatusOK, gin.H{
			"ok":        true,
			"ignored":   true,
			"eventType": result.EventType,
			"reason":    webhookUsecases.MsgEventNotEnabled,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":        true,
		"accepted":  result.Accepted(),
		"duplicate": result.Duplicate,
		"webhookId": result.WebhookID,
		"eventType": result.EventType,
	})
}

func (h *WebhookHandler) writeError(c *gin.Context, err error) {
	appErr := errors.GetAppError(err)
	if appErr == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": msgInternalError})
		return
	}

	body := gin.H{"ok": false, "error": appErr.Message}
	if appErr.Type == errors.ErrorTypeDatabase {
		body["message"] = appErr.Details
	}
	c.JSON(appErr.Code, body)
}
