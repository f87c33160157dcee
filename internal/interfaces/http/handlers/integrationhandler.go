package handlers

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"integrationhub/internal/application/integration/usecases"
	"integrationhub/internal/shared/constants"
	"integrationhub/internal/shared/errors"
	"integrationhub/internal/shared/logger"
)

const contactsExample = "/api/ghl/contacts?locationId=YOUR_LOCATION_ID&pageLimit=5"

// IntegrationHandler serves the operator endpoints that are not part of an OAuth redirect.
type IntegrationHandler struct {
	linkWafeqAPIKeyUC linkWafeqAPIKeyUseCase
	searchContactsUC  searchContactsUseCase
	logger            logger.Interface
}

func NewIntegrationHandler(
	linkWafeqAPIKeyUC linkWafeqAPIKeyUseCase,
	searchContactsUC searchContactsUseCase,
	logger logger.Interface,
) *IntegrationHandler {
	return &IntegrationHandler{
		linkWafeqAPIKeyUC: linkWafeqAPIKeyUC,
		searchContactsUC:  searchContactsUC,
		logger:            logger,
	}
}

type linkWafeqAPIKeyRequest struct {
	LocationID string `json:"locationId"`
	APIKey     string `json:"apiKey"`
	UserID     string `json:"userId"`
}

// LinkWafeqAPIKey connects a location with a Wafeq API key.
// POST /api/wafeq/link
func (h *IntegrationHandler) LinkWafeqAPIKey(c *gin.Context) {
	var req linkWafeqAPIKeyRequest
	// an unreadable body is treated as an empty one
	_ = c.ShouldBindJSON(&req)

	result, err := h.linkWafeqAPIKeyUC.Execute(c.Request.Context(), usecases.LinkWafeqAPIKeyCommand{
		LocationID: req.LocationID,
		APIKey:     req.APIKey,
		UserID:     req.UserID,
	})
	if err != nil {
		var probeErr *usecases.ProbeFailedError
		if stderrors.As(err, &probeErr) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":          "Invalid Wafeq API key or probe failed",
				"providerStatus": nullableStatus(probeErr.Status),
				"details":        probeErr.Payload,
			})
			return
		}
		writeJSONError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":         true,
		"message":    "Wafeq API key linked successfully",
		"locationId": result.LocationID,
	})
}

// SearchContacts lists CRM contacts of a location.
// GET /api/ghl/contacts?locationId=&pageLimit=&query=
func (h *IntegrationHandler) SearchContacts(c *gin.Context) {
	result, err := h.searchContactsUC.Execute(c.Request.Context(), usecases.SearchContactsQuery{
		LocationID: c.Query("locationId"),
		PageLimit:  c.Query("pageLimit"),
		Query:      c.Query("query"),
	})
	if err != nil {
		h.writeContactsError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":         true,
		"locationId": result.LocationID,
		"pageLimit":  result.PageLimit,
		"data":       result.Data,
	})
}

func (h *IntegrationHandler) writeContactsError(c *gin.Context, err error) {
	appErr := errors.GetAppError(err)
	if appErr == nil {
		writeJSONError(c, err)
		return
	}

	switch {
	case appErr.Message == constants.MsgMissingLocationID:
		c.JSON(appErr.Code, gin.H{"error": appErr.Message, "example": contactsExample})
	case appErr.Message == usecases.MsgInvalidPageLimit:
		c.JSON(appErr.Code, gin.H{"error": appErr.Message, "details": appErr.Details})
	case appErr.Message == usecases.MsgCRMRequestFailed:
		c.JSON(appErr.Code, gin.H{"error": appErr.Message, "message": appErr.Details})
	default:
		writeJSONError(c, err)
	}
}
