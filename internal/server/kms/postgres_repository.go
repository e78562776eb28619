package kms

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/orgvault/orgvault/internal/common"
	"github.com/orgvault/orgvault/internal/dbx"
	"github.com/orgvault/orgvault/internal/server/models"
)

// PostgresRepository stores wrapped data keys over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByOrgID(ctx context.Context, orgID string) (*models.DataKey, error) {
	query := `SELECT org_id, wrapped_key, created_at FROM kms_data_keys WHERE org_id = $1`

	var key models.DataKey
	err := r.db.QueryRowContext(ctx, query, orgID).Scan(&key.OrgID, &key.WrappedKey, &key.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select data key: %w", err)
	}
	return &key, nil
}

// Create inserts the wrapped key; if a concurrent writer already inserted a
// key for the org, the stored row wins and is returned unchanged.
func (r *PostgresRepository) Create(ctx context.Context, orgID string, wrappedKey []byte) (*models.DataKey, error) {
	query := `
		INSERT INTO kms_data_keys (org_id, wrapped_key)
		VALUES ($1, $2)
		ON CONFLICT (org_id) DO UPDATE SET org_id = EXCLUDED.org_id
		RETURNING org_id, wrapped_key, created_at;
	`

	var key models.DataKey
	err := r.db.QueryRowContext(ctx, query, orgID, wrappedKey).Scan(&key.OrgID, &key.WrappedKey, &key.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert data key: %w", err)
	}
	return &key, nil
}
