package repository

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"integrationhub/internal/domain/webhook"
	"integrationhub/internal/shared/logger"
)

func TestWebhookEventRepository_InsertThenDuplicate(t *testing.T) {
	ctx := context.Background()
	repo := NewWebhookEventRepository(newTestDB(t), logger.NewNopLogger())
	ts := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	event := &webhook.Event{
		WebhookID:        "wh-1",
		EventType:        "ContactCreate",
		LocationID:       "loc1",
		WebhookTimestamp: &ts,
		SignatureValid:   true,
		Status:           webhook.StatusAccepted,
		Payload:          []byte(`{"type":"ContactCreate","webhookId":"wh-1"}`),
	}

	result, err := repo.Insert(ctx, event)
	require.NoError(t, err)
	assert.Equal(t, webhook.StoreInserted, result)
	assert.NotZero(t, event.ID)

	again := *event
	again.ID = 0
	result, err = repo.Insert(ctx, &again)
	require.NoError(t, err)
	assert.Equal(t, webhook.StoreDuplicate, result)

	stored, err := repo.FindByWebhookID(ctx, "wh-1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, webhook.StatusAccepted, stored.Status)
	assert.Equal(t, "loc1", stored.LocationID)
	assert.True(t, ts.Equal(*stored.WebhookTimestamp))
	assert.JSONEq(t, string(event.Payload), string(stored.Payload))
}

func TestWebhookEventRepository_FindAbsent(t *testing.T) {
	repo := NewWebhookEventRepository(newTestDB(t), logger.NewNopLogger())

	stored, err := repo.FindByWebhookID(context.Background(), "missing")
	assert.NoError(t, err)
	assert.Nil(t, stored)
}

func TestWebhookEventRepository_LongPayloadValues(t *testing.T) {
	ctx := context.Background()
	repo := NewWebhookEventRepository(newTestDB(t), logger.NewNopLogger())
	longID := strings.Repeat("w", 300)
	longType := strings.Repeat("T", 150)

	event := &webhook.Event{
		WebhookID:  longID,
		EventType:  longType,
		LocationID: strings.Repeat("l", 300),
		CompanyID:  strings.Repeat("c", 300),
		Status:     webhook.StatusIgnored,
		Payload:    []byte(`{}`),
	}
	result, err := repo.Insert(ctx, event)
	require.NoError(t, err)
	assert.Equal(t, webhook.StoreInserted, result)

	again := *event
	again.ID = 0
	result, err = repo.Insert(ctx, &again)
	require.NoError(t, err)
	assert.Equal(t, webhook.StoreDuplicate, result)

	// ids sharing a long prefix stay distinct
	other := *event
	other.ID = 0
	other.WebhookID = longID + "x"
	result, err = repo.Insert(ctx, &other)
	require.NoError(t, err)
	assert.Equal(t, webhook.StoreInserted, result)

	stored, err := repo.FindByWebhookID(ctx, longID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, longID, stored.WebhookID)
	assert.Equal(t, longType, stored.EventType)
	assert.Len(t, stored.LocationID, 300)
}
