package usecases

import (
	"context"
	"strconv"
	"strings"

	"integrationhub/internal/infrastructure/crm"
	"integrationhub/internal/shared/errors"
	"integrationhub/internal/shared/logger"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100

	MsgCRMNotConfigured = "HighLevel SDK is not configured. Set HIGHLEVEL_PIT (or GHL_PIT) OR HIGHLEVEL_CLIENT_ID/HIGHLEVEL_CLIENT_SECRET."
	MsgInvalidPageLimit = "Invalid pageLimit"
	MsgCRMRequestFailed = "HighLevel SDK request failed"
)

type SearchContactsQuery struct {
	LocationID string
	// PageLimit is the raw query value; empty means the default.
	PageLimit string
	Query     string
}

type SearchContactsResult struct {
	LocationID string
	PageLimit  int
	Data       interface{}
}

type SearchContactsExecutor interface {
	Execute(ctx context.Context, query SearchContactsQuery) (*SearchContactsResult, error)
}

type SearchContactsUseCase struct {
	client ContactsSearcher
	logger logger.Interface
}

func NewSearchContactsUseCase(client ContactsSearcher, logger logger.Interface) *SearchContactsUseCase {
	return &SearchContactsUseCase{
		client: client,
		logger: logger,
	}
}

func (uc *SearchContactsUseCase) Execute(ctx context.Context, query SearchContactsQuery) (*SearchContactsResult, error) {
	if !uc.client.Configured() {
		return nil, errors.NewConfigurationError(MsgCRMNotConfigured)
	}

	if query.LocationID == "" {
		return nil, errors.NewValidationError("Missing locationId")
	}

	pageLimit, ok := parsePageLimit(query.PageLimit)
	if !ok {
		return nil, errors.NewValidationError(MsgInvalidPageLimit, "pageLimit must be a number between 1 and 100")
	}

	data, err := uc.client.SearchContacts(ctx, crm.SearchContactsRequest{
		LocationID: query.LocationID,
		PageLimit:  pageLimit,
		Query:      query.Query,
	})
	if err != nil {
		uc.logger.Errorw("contacts search failed", "location_id", query.LocationID, "error", err)
		return nil, errors.NewExternalServiceError(MsgCRMRequestFailed, err.Error())
	}

	return &SearchContactsResult{
		LocationID: query.LocationID,
		PageLimit:  pageLimit,
		Data:       data,
	}, nil
}

func parsePageLimit(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return defaultPageLimit, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 || n > maxPageLimit {
		return 0, false
	}
	return n, true
}
