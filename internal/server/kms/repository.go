package kms

import (
	"context"

	"github.com/orgvault/orgvault/internal/server/models"
)

// Repository stores wrapped per-organization data keys.
type Repository interface {
	// GetByOrgID returns the stored key for orgID, or common.ErrNotFound.
	GetByOrgID(ctx context.Context, orgID string) (*models.DataKey, error)

	// Create inserts a wrapped key for orgID and returns the stored row.
	// When another writer wins the race, the previously stored row is
	// returned instead, so all callers converge on one key per org.
	Create(ctx context.Context, orgID string, wrappedKey []byte) (*models.DataKey, error)
}
