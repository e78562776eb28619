// Package secrets implements the secret record service: validation,
// envelope encoding and per-organization encryption around CRUD on
// user-owned secret records.
package secrets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/orgvault/orgvault/internal/common"
	"github.com/orgvault/orgvault/internal/dbx"
	"github.com/orgvault/orgvault/internal/server/models"
)

// PostgresRepository implements record storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Insert(ctx context.Context, s *models.UserSecret) (*models.UserSecret, error) {
	query := `
		INSERT INTO user_secrets (id, name, type, org_id, user_id, data)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at;
	`

	stored := *s
	err := r.db.QueryRowContext(ctx, query, s.ID, s.Name, s.Type, s.OrgID, s.UserID, s.Data).
		Scan(&stored.CreatedAt, &stored.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert secret: %w", err)
	}
	return &stored, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.UserSecret, error) {
	query := `
		SELECT id, name, type, org_id, user_id, data, created_at, updated_at
		FROM user_secrets WHERE id = $1
	`

	var s models.UserSecret
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&s.ID, &s.Name, &s.Type, &s.OrgID, &s.UserID, &s.Data, &s.CreatedAt, &s.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select secret: %w", err)
	}
	return &s, nil
}

func (r *PostgresRepository) Find(ctx context.Context, orgID, userID string, offset, limit int) ([]*models.UserSecret, error) {
	query := `
		SELECT id, name, type, org_id, user_id, data, created_at, updated_at
		FROM user_secrets
		WHERE org_id = $1 AND user_id = $2
		ORDER BY name ASC, id ASC
		OFFSET $3 LIMIT $4
	`

	rows, err := r.db.QueryContext(ctx, query, orgID, userID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to select secrets: %w", err)
	}
	defer rows.Close()

	var result []*models.UserSecret
	for rows.Next() {
		var s models.UserSecret
		if err := rows.Scan(
			&s.ID, &s.Name, &s.Type, &s.OrgID, &s.UserID, &s.Data, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id, name, secretType string, data []byte) (*models.UserSecret, error) {
	query := `
		UPDATE user_secrets
		SET name = $2, type = $3, data = $4, updated_at = now()
		WHERE id = $1
		RETURNING id, name, type, org_id, user_id, data, created_at, updated_at;
	`

	var s models.UserSecret
	err := r.db.QueryRowContext(ctx, query, id, name, secretType, data).Scan(
		&s.ID, &s.Name, &s.Type, &s.OrgID, &s.UserID, &s.Data, &s.CreatedAt, &s.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update secret: %w", err)
	}
	return &s, nil
}

func (r *PostgresRepository) DeleteOwned(ctx context.Context, id, orgID, userID string) (bool, error) {
	query := `DELETE FROM user_secrets WHERE id = $1 AND org_id = $2 AND user_id = $3`

	res, err := r.db.ExecContext(ctx, query, id, orgID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete secret: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected error: %w", err)
	}
	return n > 0, nil
}

func (r *PostgresRepository) CountByOrg(ctx context.Context, orgID string) (int, error) {
	query := `SELECT count(*) FROM user_secrets WHERE org_id = $1`

	var count int
	if err := r.db.QueryRowContext(ctx, query, orgID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count secrets: %w", err)
	}
	return count, nil
}
