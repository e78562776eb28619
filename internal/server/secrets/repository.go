package secrets

import (
	"context"

	"github.com/orgvault/orgvault/internal/server/models"
)

// Repository persists secret records. Implementations return
// common.ErrNotFound where documented; all other failures are surfaced as
// raw errors for the service to classify.
type Repository interface {
	// Insert stores a new record and returns it with DB-assigned timestamps.
	Insert(ctx context.Context, s *models.UserSecret) (*models.UserSecret, error)

	// GetByID returns the record or common.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.UserSecret, error)

	// Find returns one page of the org/user's records ordered by name
	// ascending (id breaks ties for a stable order).
	Find(ctx context.Context, orgID, userID string, offset, limit int) ([]*models.UserSecret, error)

	// Update replaces name, type and payload of the record and refreshes
	// updated_at. Returns the stored row or common.ErrNotFound.
	Update(ctx context.Context, id, name, secretType string, data []byte) (*models.UserSecret, error)

	// DeleteOwned removes the record if it belongs to the given org and
	// user. Reports whether a row was removed; absence is not an error.
	DeleteOwned(ctx context.Context, id, orgID, userID string) (bool, error)

	// CountByOrg returns the number of records in the organization,
	// irrespective of any pagination window.
	CountByOrg(ctx context.Context, orgID string) (int, error)
}
