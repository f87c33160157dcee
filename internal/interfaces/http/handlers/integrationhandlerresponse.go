package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"integrationhub/internal/shared/errors"
	"integrationhub/internal/shared/utils"
)

const msgInternalError = "Internal server error occurred"

// writeTextError renders err for the browser-facing OAuth endpoints. Provider
// rejections carry the provider body after the message.
func writeTextError(c *gin.Context, err error) {
	appErr := errors.GetAppError(err)
	if appErr == nil {
		utils.TextResponse(c, http.StatusInternalServerError, msgInternalError)
		return
	}

	body := appErr.Message
	if isProviderRejection(appErr) {
		body += ": " + appErr.Details
	}
	utils.TextResponse(c, appErr.Code, body)
}

// writeJSONError renders err as {"error": message}.
func writeJSONError(c *gin.Context, err error) {
	appErr := errors.GetAppError(err)
	if appErr == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternalError})
		return
	}
	c.JSON(appErr.Code, gin.H{"error": appErr.Message})
}

func isProviderRejection(appErr *errors.AppError) bool {
	return appErr.Type == errors.ErrorTypeUpstream && appErr.UpstreamStatus != 0
}

func nullableStatus(status int) interface{} {
	if status == 0 {
		return nil
	}
	return status
}
