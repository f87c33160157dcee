package utils

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"integrationhub/internal/shared/errors"
)

// APIResponse is the generic success envelope.
type APIResponse struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// ErrorEnvelope is the generic failure envelope.
type ErrorEnvelope struct {
	Success bool      `json:"success"`
	Error   ErrorInfo `json:"error"`
}

// ErrorInfo represents error information in API response
type ErrorInfo struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
	Details    string `json:"details,omitempty"`
	Timestamp  string `json:"timestamp"`
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// SuccessResponse sends a successful response with custom status code
func SuccessResponse(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, APIResponse{
		Success:   true,
		Data:      data,
		Timestamp: timestamp(),
	})
}

// ErrorResponse sends an error envelope with an explicit code and message
func ErrorResponse(c *gin.Context, statusCode int, code errors.ErrorType, message string) {
	c.JSON(statusCode, ErrorEnvelope{
		Error: ErrorInfo{
			Code:       string(code),
			Message:    message,
			StatusCode: statusCode,
			Timestamp:  timestamp(),
		},
	})
}

// ErrorResponseWithError sends an error envelope based on error type
func ErrorResponseWithError(c *gin.Context, err error) {
	var info ErrorInfo

	if appErr := errors.GetAppError(err); appErr != nil {
		info = ErrorInfo{
			Code:       string(appErr.Type),
			Message:    appErr.Message,
			StatusCode: appErr.Code,
			Details:    appErr.Details,
		}
		// internal errors keep their cause in the logs only
		if appErr.Type == errors.ErrorTypeInternal {
			info.Details = ""
		}
	} else {
		// For non-AppError, do not expose internal error details to prevent information leakage
		info = ErrorInfo{
			Code:       string(errors.ErrorTypeInternal),
			Message:    "Internal server error occurred",
			StatusCode: http.StatusInternalServerError,
		}
	}
	info.Timestamp = timestamp()

	c.JSON(info.StatusCode, ErrorEnvelope{Error: info})
}

// TextResponse writes a plain-text body, used by the browser-facing OAuth endpoints.
func TextResponse(c *gin.Context, statusCode int, body string) {
	c.String(statusCode, body)
}
