package constants

const (
	// Environment constants
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	// HTTP Headers
	HeaderContentType   = "Content-Type"
	HeaderAuthorization = "Authorization"
	HeaderXRequestID    = "X-Request-ID"

	// Webhook signature headers, checked in this order
	HeaderWebhookSignature   = "x-wh-signature"
	HeaderHighLevelSignature = "x-highlevel-signature"

	// Outbound provider API headers
	HeaderHighLevelAPIVersion = "Version"
	HighLevelAPIVersion       = "2021-07-28"
	WafeqAPIKeyAuthPrefix     = "Api-Key "
	BearerAuthPrefix          = "Bearer "

	// Content Types
	ContentTypeJSON = "application/json"
	ContentTypeForm = "application/x-www-form-urlencoded"

	// Context keys
	ContextKeyRequestID = "request_id"
	ContextKeyOperator  = "operator"

	// Database table names
	TableIntegrations  = "integrations"
	TableWebhookEvents = "ghl_webhook_events"
)
