package crm

import (
	"context"
	"errors"

	"integrationhub/internal/domain/integration"
)

// memoryRepository is an in-memory integration.Repository.
type memoryRepository struct {
	records   map[integration.Key]*integration.Integration
	findErr   error
	upsertErr error
	deleteErr error
	upserts   int
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{records: map[integration.Key]*integration.Integration{}}
}

func (r *memoryRepository) Upsert(ctx context.Context, rec *integration.Integration) error {
	if r.upsertErr != nil {
		return r.upsertErr
	}
	r.upserts++
	cp := *rec
	r.records[rec.Key] = &cp
	return nil
}

func (r *memoryRepository) Find(ctx context.Context, key integration.Key) (*integration.Integration, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	return r.records[key], nil
}

func (r *memoryRepository) FindBy(ctx context.Context, provider integration.Provider, field integration.ScopeField, value string) (*integration.Integration, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	for key, rec := range r.records {
		if key.Provider != provider {
			continue
		}
		if (field == integration.ScopeLocation && key.LocationID == value) ||
			(field == integration.ScopeCompany && key.CompanyID == value) {
			return rec, nil
		}
	}
	return nil, nil
}

func (r *memoryRepository) Update(ctx context.Context, rec *integration.Integration) error {
	if _, ok := r.records[rec.Key]; !ok {
		return errors.New("not found")
	}
	cp := *rec
	r.records[rec.Key] = &cp
	return nil
}

func (r *memoryRepository) Delete(ctx context.Context, key integration.Key) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	delete(r.records, key)
	return nil
}

// recordingTx runs fn directly and counts invocations.
type recordingTx struct {
	calls int
}

func (t *recordingTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	return fn(ctx)
}
