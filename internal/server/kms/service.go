// Package kms is the encryption gateway: it provisions one data key per
// organization, keeps the raw key material inside this package, and exposes
// authenticated encryption scoped to an organization id.
package kms

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/orgvault/orgvault/internal/common"
	"github.com/orgvault/orgvault/internal/cryptox"
	"github.com/orgvault/orgvault/internal/logging"
)

// Service encrypts and decrypts payloads under an organization scope.
// Encrypting the same plaintext twice is not deterministic; the returned
// blob embeds everything needed to decrypt it later under the same scope.
type Service interface {
	Encrypt(ctx context.Context, orgID string, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, orgID string, blob []byte) ([]byte, error)
}

// GCMService implements Service with AES-GCM data keys wrapped under a root
// key. Data keys are created lazily on first use of a scope and cached for
// the process lifetime. The org id is bound as associated data on every
// payload, so a blob never decrypts under another organization's scope even
// if key material were ever shared.
type GCMService struct {
	repo    Repository
	rootKey []byte
	logger  logging.Logger

	mu   sync.Mutex
	keys map[string][]byte
}

// NewGCMService builds a gateway from its collaborators. The root wrapping
// key is derived from the configured secret and salt with argon2id.
func NewGCMService(repo Repository, rootSecret, rootSalt []byte, logger logging.Logger) *GCMService {
	return &GCMService{
		repo:    repo,
		rootKey: cryptox.DeriveRootKey(rootSecret, rootSalt),
		logger:  logger.With("module", "kms"),
		keys:    make(map[string][]byte),
	}
}

func (s *GCMService) Encrypt(ctx context.Context, orgID string, plaintext []byte) ([]byte, error) {
	key, err := s.dataKey(ctx, orgID)
	if err != nil {
		return nil, err
	}

	blob, err := cryptox.Seal(key, plaintext, []byte(orgID))
	if err != nil {
		return nil, fmt.Errorf("sealing payload: %w", err)
	}

	return blob, nil
}

func (s *GCMService) Decrypt(ctx context.Context, orgID string, blob []byte) ([]byte, error) {
	key, err := s.dataKey(ctx, orgID)
	if err != nil {
		return nil, err
	}

	plaintext, err := cryptox.Open(key, blob, []byte(orgID))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrDecrypt, err)
	}

	return plaintext, nil
}

// dataKey returns the unwrapped data key for orgID, provisioning one on
// first use. The mutex serializes cache misses; the repository's
// insert-or-return-existing semantics resolve races between processes.
func (s *GCMService) dataKey(ctx context.Context, orgID string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if key, ok := s.keys[orgID]; ok {
		return key, nil
	}

	stored, err := s.repo.GetByOrgID(ctx, orgID)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("%w: loading data key: %v", common.ErrDependency, err)
	}

	if errors.Is(err, common.ErrNotFound) {
		wrapped, werr := cryptox.Seal(s.rootKey, cryptox.GenerateRandByteArray(cryptox.KeySize), []byte(orgID))
		if werr != nil {
			return nil, fmt.Errorf("wrapping data key: %w", werr)
		}

		stored, err = s.repo.Create(ctx, orgID, wrapped)
		if err != nil {
			return nil, fmt.Errorf("%w: storing data key: %v", common.ErrDependency, err)
		}
		s.logger.Info(ctx, "provisioned data key", "org_id", orgID)
	}

	key, err := cryptox.Open(s.rootKey, stored.WrappedKey, []byte(orgID))
	if err != nil {
		// Wrong root key or corrupted key row; nothing in this scope
		// can be decrypted.
		return nil, fmt.Errorf("%w: unwrapping data key", common.ErrDecrypt)
	}

	s.keys[orgID] = key
	return key, nil
}
