package service

import (
	"context"
	"fmt"

	"assetverse/internal/util"

	"go.uber.org/zap"
)

type affiliationStore interface {
	EnsureAffiliation(ctx context.Context, employeeEmail, companyName string) error
}

// AffiliationTracker maintains the deduplicated set of employee-company
// relationships. Affiliations are permanent; there is no delete.
type AffiliationTracker struct {
	store  affiliationStore
	logger *zap.Logger
}

// NewAffiliationTracker creates a new affiliation tracker
func NewAffiliationTracker(store affiliationStore) *AffiliationTracker {
	return &AffiliationTracker{
		store:  store,
		logger: util.GetLogger(),
	}
}

// Ensure records the relationship if it is not already present. Safe to
// call on every approval: the storage constraint collapses duplicates.
func (t *AffiliationTracker) Ensure(ctx context.Context, employeeEmail, companyName string) error {
	if err := t.store.EnsureAffiliation(ctx, employeeEmail, companyName); err != nil {
		return fmt.Errorf("failed to ensure affiliation: %w", err)
	}
	return nil
}
