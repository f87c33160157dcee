package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"integrationhub/internal/application/integration/usecases"
	"integrationhub/internal/shared/errors"
	"integrationhub/internal/shared/logger"
	"integrationhub/internal/shared/utils"
)

// OAuthHandler serves the authorization-code flows of both providers.
type OAuthHandler struct {
	connectWafeqUC  connectWafeqUseCase
	wafeqCallbackUC handleWafeqCallbackUseCase
	crmCallbackUC   handleCRMCallbackUseCase
	revokeWafeqUC   revokeWafeqUseCase
	logger          logger.Interface
}

func NewOAuthHandler(
	connectWafeqUC connectWafeqUseCase,
	wafeqCallbackUC handleWafeqCallbackUseCase,
	crmCallbackUC handleCRMCallbackUseCase,
	revokeWafeqUC revokeWafeqUseCase,
	logger logger.Interface,
) *OAuthHandler {
	return &OAuthHandler{
		connectWafeqUC:  connectWafeqUC,
		wafeqCallbackUC: wafeqCallbackUC,
		crmCallbackUC:   crmCallbackUC,
		revokeWafeqUC:   revokeWafeqUC,
		logger:          logger,
	}
}

// ConnectWafeq redirects the browser to the Wafeq consent page.
// GET /api/wafeq/connect?locationId=
func (h *OAuthHandler) ConnectWafeq(c *gin.Context) {
	result, err := h.connectWafeqUC.Execute(c.Request.Context(), usecases.ConnectWafeqCommand{
		LocationID: c.Query("locationId"),
	})
	if err != nil {
		writeTextError(c, err)
		return
	}

	c.Redirect(http.StatusFound, result.RedirectURL)
}

// WafeqCallback completes the Wafeq authorization.
// GET /api/oauth/wafeq/callback?code=&state=&locationId=
func (h *OAuthHandler) WafeqCallback(c *gin.Context) {
	result, err := h.wafeqCallbackUC.Execute(c.Request.Context(), usecases.HandleWafeqCallbackCommand{
		Code:       c.Query("code"),
		State:      c.Query("state"),
		LocationID: firstQuery(c, "locationId", "location_id"),
	})
	if err != nil {
		writeTextError(c, err)
		return
	}

	utils.TextResponse(c, http.StatusOK, fmt.Sprintf("Wafeq connected successfully.\nlocationId=%s", result.LocationID))
}

// CRMCallback completes the HighLevel authorization.
// GET /api/oauth/crm/callback?code=&state=&locationId=&companyId=
func (h *OAuthHandler) CRMCallback(c *gin.Context) {
	result, err := h.crmCallbackUC.Execute(c.Request.Context(), usecases.HandleCRMCallbackCommand{
		Code:       c.Query("code"),
		State:      c.Query("state"),
		LocationID: firstQuery(c, "locationId", "location_id"),
		CompanyID:  firstQuery(c, "companyId", "company_id"),
	})
	if err != nil {
		writeTextError(c, err)
		return
	}

	body := fmt.Sprintf("GoHighLevel connected successfully.\nlocationId=%s\ncompanyId=%s", result.LocationID, result.CompanyID)
	if result.SessionWarning != "" {
		body += "\nwarning=" + result.SessionWarning
	}
	utils.TextResponse(c, http.StatusOK, body)
}

type revokeWafeqRequest struct {
	LocationID string `json:"locationId"`
	CompanyID  string `json:"companyId"`
	UserID     string `json:"userId"`
}

// RevokeWafeq revokes the stored Wafeq token and disconnects the integration.
// POST /api/oauth/wafeq/revoke
func (h *OAuthHandler) RevokeWafeq(c *gin.Context) {
	var req revokeWafeqRequest
	// an unreadable body is treated as an empty one
	_ = c.ShouldBindJSON(&req)

	result, err := h.revokeWafeqUC.Execute(c.Request.Context(), usecases.RevokeWafeqCommand{
		LocationID: req.LocationID,
		CompanyID:  req.CompanyID,
		UserID:     req.UserID,
	})
	if err != nil {
		if appErr := errors.GetAppError(err); appErr != nil && isProviderRejection(appErr) {
			c.JSON(appErr.Code, gin.H{
				"error":   appErr.Message,
				"status":  appErr.UpstreamStatus,
				"details": appErr.Details,
			})
			return
		}
		writeJSONError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":         true,
		"message":    "Wafeq token revoked and integration disconnected",
		"locationId": result.LocationID,
	})
}

func firstQuery(c *gin.Context, keys ...string) string {
	for _, key := range keys {
		if v := c.Query(key); v != "" {
			return v
		}
	}
	return ""
}
