package secrets

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/orgvault/orgvault/internal/common"
	"github.com/orgvault/orgvault/internal/logging"
	"github.com/orgvault/orgvault/internal/secret"
	"github.com/orgvault/orgvault/internal/server/kms"
	"github.com/orgvault/orgvault/internal/server/models"
)

// decryptConcurrency bounds the number of in-flight decryptions per list call.
const decryptConcurrency = 8

// Record is a secret record as returned to callers: identity and metadata
// from the stored row, with the payload decrypted into its variant.
// Ciphertext never leaves this package upward.
type Record struct {
	ID        string
	Name      string
	OrgID     string
	UserID    string
	Data      secret.Variant
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UpdatePatch is an explicit partial update. Nil fields are left unchanged.
// Data, when set, is a full replacement variant; partial edits of an
// existing variant are not supported.
type UpdatePatch struct {
	Name *string
	Data secret.Variant
}

// Service orchestrates create/list/update/delete of secret records.
type Service struct {
	repo   Repository
	kms    kms.Service
	logger logging.Logger
}

// NewService builds a Service from its collaborators.
func NewService(repo Repository, kmsService kms.Service, logger logging.Logger) *Service {
	return &Service{
		repo:   repo,
		kms:    kmsService,
		logger: logger.With("module", "secrets"),
	}
}

// Create validates the variant, encrypts it under the organization scope and
// persists a new record owned by (orgID, userID).
func (s *Service) Create(ctx context.Context, orgID, userID, name string, v secret.Variant) (*Record, error) {
	if name == "" {
		return nil, common.NewValidationError(common.FieldError{Field: "name", Message: "Name is required"})
	}
	if err := secret.Validate(v); err != nil {
		return nil, err
	}

	blob, err := s.seal(ctx, orgID, v)
	if err != nil {
		return nil, err
	}

	row := &models.UserSecret{
		ID:     uuid.NewString(),
		Name:   name,
		Type:   v.Kind().String(),
		OrgID:  orgID,
		UserID: userID,
		Data:   blob,
	}

	stored, err := s.repo.Insert(ctx, row)
	if err != nil {
		return nil, fmt.Errorf("%w: creating secret: %v", common.ErrDependency, err)
	}

	s.logger.Info(ctx, "secret created", "id", stored.ID, "type", stored.Type, "org_id", orgID)
	return s.toRecord(stored, v), nil
}

// List returns one name-ordered page of the actor's records with decrypted
// payloads, plus the organization-wide record count. Rows whose payload can
// no longer be decrypted or decoded are skipped and logged rather than
// failing the page.
func (s *Service) List(ctx context.Context, orgID, userID string, offset, limit int) ([]*Record, int, error) {
	rows, err := s.repo.Find(ctx, orgID, userID, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: listing secrets: %v", common.ErrDependency, err)
	}

	decrypted := make([]*Record, len(rows))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(decryptConcurrency)
	for i, row := range rows {
		g.Go(func() error {
			v, err := s.open(gctx, row)
			if err != nil {
				if errors.Is(err, common.ErrDecrypt) || errors.Is(err, common.ErrDecode) || errors.Is(err, common.ErrUnsupportedType) {
					s.logger.Warn(gctx, "skipping unreadable secret", "id", row.ID, "type", row.Type)
					return nil
				}
				return err
			}
			decrypted[i] = s.toRecord(row, v)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	// Re-impose the repository's name order after concurrent decryption.
	records := make([]*Record, 0, len(decrypted))
	for _, r := range decrypted {
		if r != nil {
			records = append(records, r)
		}
	}

	total, err := s.repo.CountByOrg(ctx, orgID)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: counting secrets: %v", common.ErrDependency, err)
	}

	return records, total, nil
}

// Update applies an explicit patch to an existing record owned by
// (orgID, userID). A replacement variant is re-encrypted under the record's
// own organization scope and swapped atomically with the old payload.
// Records outside the actor's scope are reported as not found.
func (s *Service) Update(ctx context.Context, orgID, userID, id string, patch UpdatePatch) (*Record, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("%w: loading secret: %v", common.ErrDependency, err)
	}
	if existing.OrgID != orgID || existing.UserID != userID {
		return nil, common.ErrNotFound
	}

	name := existing.Name
	if patch.Name != nil {
		if *patch.Name == "" {
			return nil, common.NewValidationError(common.FieldError{Field: "name", Message: "Name is required"})
		}
		name = *patch.Name
	}

	secretType := existing.Type
	data := existing.Data
	if patch.Data != nil {
		if err := secret.Validate(patch.Data); err != nil {
			return nil, err
		}
		blob, err := s.seal(ctx, existing.OrgID, patch.Data)
		if err != nil {
			return nil, err
		}
		secretType = patch.Data.Kind().String()
		data = blob
	}

	updated, err := s.repo.Update(ctx, id, name, secretType, data)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("%w: updating secret: %v", common.ErrDependency, err)
	}

	v, err := s.open(ctx, updated)
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "secret updated", "id", id, "type", updated.Type)
	return s.toRecord(updated, v), nil
}

// Delete removes the record if it exists within the actor's scope. Deleting
// an absent record is a no-op; callers cannot distinguish the two outcomes.
func (s *Service) Delete(ctx context.Context, orgID, userID, id string) error {
	deleted, err := s.repo.DeleteOwned(ctx, id, orgID, userID)
	if err != nil {
		return fmt.Errorf("%w: deleting secret: %v", common.ErrDependency, err)
	}
	if deleted {
		s.logger.Info(ctx, "secret deleted", "id", id)
	}
	return nil
}

func (s *Service) seal(ctx context.Context, orgID string, v secret.Variant) ([]byte, error) {
	encoded, err := secret.Encode(v)
	if err != nil {
		return nil, err
	}
	return s.kms.Encrypt(ctx, orgID, encoded)
}

func (s *Service) open(ctx context.Context, row *models.UserSecret) (secret.Variant, error) {
	plaintext, err := s.kms.Decrypt(ctx, row.OrgID, row.Data)
	if err != nil {
		return nil, err
	}
	return secret.Decode(plaintext)
}

func (s *Service) toRecord(row *models.UserSecret, v secret.Variant) *Record {
	return &Record{
		ID:        row.ID,
		Name:      row.Name,
		OrgID:     row.OrgID,
		UserID:    row.UserID,
		Data:      v,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}
