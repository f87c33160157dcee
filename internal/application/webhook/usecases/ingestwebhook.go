package usecases

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"integrationhub/internal/domain/webhook"
	"integrationhub/internal/infrastructure/metrics"
	"integrationhub/internal/shared/biztime"
	"integrationhub/internal/shared/errors"
	"integrationhub/internal/shared/logger"
	"integrationhub/internal/shared/utils/jsonutil"
)

const (
	MsgMissingBody      = "Missing request body"
	MsgInvalidJSON      = "Invalid JSON payload"
	MsgMissingSignature = "Missing webhook signature"
	MsgInvalidSignature = "Invalid signature"
	MsgPersistFailed    = "Failed to persist webhook event"
	MsgEventNotEnabled  = "Event is not enabled in this endpoint"
)

// SignatureVerifier checks a delivery signature against the raw request body.
type SignatureVerifier interface {
	Verify(rawBody []byte, signatureBase64 string) bool
}

type IngestWebhookCommand struct {
	RawBody   []byte
	Signature string
}

type IngestWebhookResult struct {
	WebhookID string
	EventType string
	Status    webhook.Status
	Duplicate bool
}

// Ignored reports whether the event type is outside the processed set.
func (r *IngestWebhookResult) Ignored() bool {
	return r.Status == webhook.StatusIgnored
}

// Accepted reports whether this delivery was stored for the first time.
func (r *IngestWebhookResult) Accepted() bool {
	return r.Status == webhook.StatusAccepted && !r.Duplicate
}

type IngestWebhookExecutor interface {
	Execute(ctx context.Context, cmd IngestWebhookCommand) (*IngestWebhookResult, error)
}

// IngestWebhookUseCase authenticates a CRM delivery and records it exactly once per webhook id.
type IngestWebhookUseCase struct {
	repo     webhook.Repository
	verifier SignatureVerifier
	logger   logger.Interface
}

func NewIngestWebhookUseCase(repo webhook.Repository, verifier SignatureVerifier, logger logger.Interface) *IngestWebhookUseCase {
	return &IngestWebhookUseCase{
		repo:     repo,
		verifier: verifier,
		logger:   logger,
	}
}

func (uc *IngestWebhookUseCase) Execute(ctx context.Context, cmd IngestWebhookCommand) (*IngestWebhookResult, error) {
	if len(cmd.RawBody) == 0 {
		return nil, errors.NewBadRequestError(MsgMissingBody)
	}

	payload, ok := jsonutil.DecodeObject(cmd.RawBody)
	if !ok {
		return nil, errors.NewBadRequestError(MsgInvalidJSON)
	}

	signature := strings.TrimSpace(cmd.Signature)
	if signature == "" {
		metrics.RecordWebhook(eventType(payload), false, metrics.OutcomeRejected)
		return nil, errors.NewUnauthorizedError(MsgMissingSignature)
	}

	event := buildEvent(cmd.RawBody, payload)

	if !uc.verifier.Verify(cmd.RawBody, signature) {
		event.Status = webhook.StatusRejected
		event.SignatureValid = false
		if _, err := uc.repo.Insert(ctx, event); err != nil {
			uc.logger.Warnw("failed to record rejected webhook",
				"webhook_id", event.WebhookID,
				"error", err,
			)
		}
		metrics.RecordWebhook(event.EventType, webhook.IsAllowedEventType(event.EventType), metrics.OutcomeRejected)
		uc.logger.Warnw("webhook signature rejected",
			"webhook_id", event.WebhookID,
			"event_type", event.EventType,
		)
		return nil, errors.NewUnauthorizedError(MsgInvalidSignature)
	}
	event.SignatureValid = true

	allowed := webhook.IsAllowedEventType(event.EventType)
	if allowed {
		event.Status = webhook.StatusAccepted
	} else {
		event.Status = webhook.StatusIgnored
	}

	stored, err := uc.repo.Insert(ctx, event)
	if err != nil {
		metrics.RecordWebhook(event.EventType, allowed, metrics.OutcomeFailed)
		uc.logger.Errorw("failed to persist webhook event",
			"webhook_id", event.WebhookID,
			"event_type", event.EventType,
			"error", err,
		)
		return nil, errors.NewDatabaseError(MsgPersistFailed, storeMessage(err)).WithCause(err)
	}

	result := &IngestWebhookResult{
		WebhookID: event.WebhookID,
		EventType: event.EventType,
		Status:    event.Status,
		Duplicate: stored == webhook.StoreDuplicate,
	}

	switch {
	case !allowed:
		metrics.RecordWebhook(event.EventType, false, metrics.OutcomeIgnored)
		uc.logger.Infow("webhook event ignored", "webhook_id", event.WebhookID, "event_type", event.EventType)
	case result.Duplicate:
		metrics.RecordWebhook(event.EventType, true, metrics.OutcomeDuplicate)
		uc.logger.Infow("duplicate webhook delivery", "webhook_id", event.WebhookID, "event_type", event.EventType)
	default:
		metrics.RecordWebhook(event.EventType, true, metrics.OutcomeAccepted)
		uc.logger.Infow("webhook event accepted",
			"webhook_id", event.WebhookID,
			"event_type", event.EventType,
			"location_id", event.LocationID,
		)
	}

	return result, nil
}

func buildEvent(rawBody []byte, payload map[string]interface{}) *webhook.Event {
	return &webhook.Event{
		WebhookID:        webhookID(rawBody, payload),
		EventType:        eventType(payload),
		LocationID:       lookup(payload, "locationId", "location_id"),
		CompanyID:        lookup(payload, "companyId", "company_id"),
		WebhookTimestamp: timestamp(payload),
		Payload:          rawBody,
	}
}

func eventType(payload map[string]interface{}) string {
	if t := jsonutil.String(payload, "type"); t != "" {
		return t
	}
	return webhook.UnknownEventType
}

// webhookID falls back to a digest of the body so identical redeliveries collapse.
func webhookID(rawBody []byte, payload map[string]interface{}) string {
	if id, ok := jsonutil.Scalar(payload, "webhookId", "webhook_id"); ok {
		return id
	}
	sum := sha256.Sum256(rawBody)
	return hex.EncodeToString(sum[:])
}

// lookup checks the top level, then the nested data object.
func lookup(payload map[string]interface{}, keys ...string) string {
	if v, ok := jsonutil.Scalar(payload, keys...); ok {
		return v
	}
	if data := jsonutil.Object(payload, "data"); data != nil {
		if v, ok := jsonutil.Scalar(data, keys...); ok {
			return v
		}
	}
	return ""
}

func timestamp(payload map[string]interface{}) *time.Time {
	raw := lookup(payload, "timestamp")
	if raw == "" {
		raw = lookup(payload, "createdAt", "created_at")
	}
	t, ok := biztime.ParseTimestamp(raw)
	if !ok {
		return nil
	}
	return &t
}

func storeMessage(err error) string {
	if appErr := errors.GetAppError(err); appErr != nil && appErr.Details != "" {
		return appErr.Details
	}
	return err.Error()
}
