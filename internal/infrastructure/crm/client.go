package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"integrationhub/internal/shared/constants"
	"integrationhub/internal/shared/logger"
	"integrationhub/internal/shared/utils/logutil"
)

const (
	maxAPIResponseSize = 4 << 20
	maxErrorBodyLog    = 512
)

// ErrNoSession is returned when no private token is configured and no session is stored
// for the requested location.
var ErrNoSession = errors.New("no HighLevel session stored for this location")

// ClientConfig selects how the client authenticates. A private integration token wins
// over per-location OAuth sessions.
type ClientConfig struct {
	APIBaseURL   string
	PrivateToken string
	ClientID     string
	ClientSecret string
}

// Configured reports whether either authentication mode is available.
func (c ClientConfig) Configured() bool {
	return c.PrivateToken != "" || (c.ClientID != "" && c.ClientSecret != "")
}

// SearchContactsRequest is the body of the contacts search call.
type SearchContactsRequest struct {
	LocationID string `json:"locationId"`
	PageLimit  int    `json:"pageLimit"`
	Query      string `json:"query,omitempty"`
}

// Client is a minimal HighLevel REST client.
type Client struct {
	cfg        ClientConfig
	httpClient *http.Client
	sessions   SessionStorage
	logger     logger.Interface
}

func NewClient(cfg ClientConfig, httpClient *http.Client, sessions SessionStorage, log logger.Interface) *Client {
	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")
	return &Client{
		cfg:        cfg,
		httpClient: httpClient,
		sessions:   sessions,
		logger:     log,
	}
}

func (c *Client) Configured() bool {
	return c.cfg.Configured()
}

// SearchContacts runs an advanced contacts search for a location and returns the decoded
// response body.
func (c *Client) SearchContacts(ctx context.Context, req SearchContactsRequest) (interface{}, error) {
	token, err := c.tokenFor(ctx, req.LocationID)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode search request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.APIBaseURL+"/contacts/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set(constants.HeaderAuthorization, constants.BearerAuthPrefix+token)
	httpReq.Header.Set(constants.HeaderHighLevelAPIVersion, constants.HighLevelAPIVersion)
	httpReq.Header.Set(constants.HeaderContentType, constants.ContentTypeJSON)
	httpReq.Header.Set("Accept", constants.ContentTypeJSON)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("contacts search request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxAPIResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read contacts search response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warnw("contacts search rejected",
			"location_id", req.LocationID,
			"status", resp.StatusCode,
			"body", logutil.TruncateForLog(string(raw), maxErrorBodyLog),
		)
		return nil, fmt.Errorf("HighLevel API responded with status %d: %s",
			resp.StatusCode, logutil.TruncateForLog(strings.TrimSpace(string(raw)), maxErrorBodyLog))
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var data interface{}
	if err := dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode contacts search response: %w", err)
	}
	return data, nil
}

func (c *Client) tokenFor(ctx context.Context, locationID string) (string, error) {
	if c.cfg.PrivateToken != "" {
		return c.cfg.PrivateToken, nil
	}
	if c.sessions == nil {
		return "", ErrNoSession
	}

	session, err := c.sessions.GetSession(ctx, locationID)
	if err != nil {
		return "", fmt.Errorf("failed to load session: %w", err)
	}
	if token := session.AccessToken(); token != "" {
		return token, nil
	}
	return "", ErrNoSession
}
