package constants

// Plain-text messages returned by the OAuth callback and connect endpoints.
const (
	MsgMissingCode            = "Missing code"
	MsgMissingLocationID      = "Missing locationId"
	MsgMissingLocationIDState = "Missing locationId (query or state)"
	MsgMissingWafeqEnv        = "Missing Wafeq OAuth env variables"
	MsgMissingCRMEnv          = "Missing GHL OAuth env variables"
)
