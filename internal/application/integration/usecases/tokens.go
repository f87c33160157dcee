package usecases

import (
	"time"

	"integrationhub/internal/domain/integration"
	"integrationhub/internal/shared/biztime"
	"integrationhub/internal/shared/utils/jsonutil"
)

// tokensFromExchange reads a token endpoint body. The access token is stored as "" when
// the provider omits it; refresh token and expiry stay null.
func tokensFromExchange(tokenJSON map[string]interface{}) integration.Tokens {
	access, _ := jsonutil.Scalar(tokenJSON, "access_token")
	tokens := integration.Tokens{AccessToken: &access}

	if refresh, ok := jsonutil.Scalar(tokenJSON, "refresh_token"); ok {
		tokens.RefreshToken = &refresh
	}

	if seconds, ok := jsonutil.PositiveSeconds(tokenJSON["expires_in"]); ok {
		expiresAt := biztime.ExpiresAt(seconds).Truncate(time.Millisecond)
		tokens.ExpiresAt = &expiresAt
	}
	return tokens
}

// nullableString keeps absent query parameters as JSON null in stored meta.
func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
