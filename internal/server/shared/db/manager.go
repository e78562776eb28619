// Package db wires the PostgreSQL connection, repositories and migrations
// behind a single manager consumed by the application wiring.
package db

import (
	"context"
	"database/sql"

	"github.com/orgvault/orgvault/internal/server/kms"
	"github.com/orgvault/orgvault/internal/server/secrets"
)

type RepositoryManager interface {
	RunMigrations(context.Context) error
	Conn() *sql.DB
	Secrets() secrets.Repository
	DataKeys() kms.Repository
	Close() error
}
