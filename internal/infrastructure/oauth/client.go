// Package oauth implements the outbound half of the provider OAuth flows: building the
// consent URL, exchanging authorization codes, revoking tokens and probing API keys.
package oauth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"integrationhub/internal/shared/config"
	"integrationhub/internal/shared/constants"
	"integrationhub/internal/shared/logger"
	"integrationhub/internal/shared/utils/jsonutil"
)

const (
	// maxProviderResponseSize caps how much of a provider body is read (1MB)
	maxProviderResponseSize = 1 << 20
	defaultRequestTimeout   = 15 * time.Second
)

// ProviderError is returned when a provider answers with a non-2xx status.
// Body is the raw provider text, surfaced to the caller verbatim.
type ProviderError struct {
	Status int
	Body   string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider responded with status %d", e.Status)
}

// AsProviderError extracts a *ProviderError from err.
func AsProviderError(err error) (*ProviderError, bool) {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// ProbeResult describes an API-key probe. Status is 0 when the request never got a
// response; Payload is nil when the body was not JSON.
type ProbeResult struct {
	OK      bool
	Status  int
	Payload interface{}
}

// NewHTTPClient returns the shared outbound client. A non-positive timeout falls back to 15s.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &http.Client{Timeout: timeout}
}

// ProviderClient performs the provider calls over a shared http.Client. Nothing is retried.
type ProviderClient struct {
	httpClient *http.Client
	logger     logger.Interface
}

func NewProviderClient(httpClient *http.Client, log logger.Interface) *ProviderClient {
	if httpClient == nil {
		httpClient = NewHTTPClient(0)
	}
	return &ProviderClient{
		httpClient: httpClient,
		logger:     log,
	}
}

// AuthorizeURL builds the consent-page URL carrying response_type=code, client_id,
// redirect_uri, state and, when configured, scope.
func AuthorizeURL(settings config.OAuthProviderSettings, state string) string {
	cfg := &oauth2.Config{
		ClientID:    settings.ClientID,
		RedirectURL: settings.RedirectURI,
		Endpoint: oauth2.Endpoint{
			AuthURL:  settings.AuthorizeURL,
			TokenURL: settings.TokenURL,
		},
	}
	if settings.Scope != "" {
		// the scope string is passed through exactly as configured
		cfg.Scopes = []string{settings.Scope}
	}
	return cfg.AuthCodeURL(state)
}

// ExchangeCode trades an authorization code for tokens. The decoded token body is returned
// as-is, numbers kept as json.Number, so callers can store it raw.
func (c *ProviderClient) ExchangeCode(ctx context.Context, settings config.OAuthProviderSettings, code string) (map[string]interface{}, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("client_id", settings.ClientID)
	form.Set("client_secret", settings.ClientSecret)
	form.Set("code", code)
	form.Set("redirect_uri", settings.RedirectURI)

	status, body, err := c.postForm(ctx, settings.TokenURL, form)
	if err != nil {
		return nil, fmt.Errorf("token request failed: %w", err)
	}
	if !isSuccess(status) {
		c.logger.Warnw("token exchange rejected by provider",
			"token_url", settings.TokenURL,
			"status", status,
		)
		return nil, &ProviderError{Status: status, Body: string(body)}
	}

	tokenJSON, ok := jsonutil.DecodeObject(body)
	if !ok {
		return nil, fmt.Errorf("token response from %s is not a JSON object", settings.TokenURL)
	}
	return tokenJSON, nil
}

// Revoke asks the provider to invalidate token.
func (c *ProviderClient) Revoke(ctx context.Context, settings config.OAuthProviderSettings, token string) error {
	form := url.Values{}
	form.Set("client_id", settings.ClientID)
	form.Set("client_secret", settings.ClientSecret)
	form.Set("token", token)

	status, body, err := c.postForm(ctx, settings.RevokeURL, form)
	if err != nil {
		return fmt.Errorf("revoke request failed: %w", err)
	}
	if !isSuccess(status) {
		c.logger.Warnw("token revocation rejected by provider",
			"revoke_url", settings.RevokeURL,
			"status", status,
		)
		return &ProviderError{Status: status, Body: string(body)}
	}
	return nil
}

// ProbeAPIKey calls probeURL authenticated with apiKey to check that the key works.
func (c *ProviderClient) ProbeAPIKey(ctx context.Context, probeURL, apiKey string) ProbeResult {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, probeURL, nil)
	if err != nil {
		c.logger.Warnw("failed to create probe request", "error", err)
		return ProbeResult{}
	}
	req.Header.Set(constants.HeaderAuthorization, constants.WafeqAPIKeyAuthPrefix+apiKey)
	req.Header.Set("Accept", constants.ContentTypeJSON)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warnw("api key probe failed", "probe_url", probeURL, "error", err)
		return ProbeResult{}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxProviderResponseSize))
	return ProbeResult{
		OK:      isSuccess(resp.StatusCode),
		Status:  resp.StatusCode,
		Payload: decodeAny(body),
	}
}

func (c *ProviderClient) postForm(ctx context.Context, endpoint string, form url.Values) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set(constants.HeaderContentType, constants.ContentTypeForm)
	req.Header.Set("Accept", constants.ContentTypeJSON)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxProviderResponseSize))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response: %w", err)
	}
	return resp.StatusCode, body, nil
}

func decodeAny(body []byte) interface{} {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil
	}
	return v
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}
