// Package migrations embeds the versioned schema for every supported store
// dialect and applies it with goose.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"

	"github.com/osse101/MapBot_Go/internal/logger"
)

//go:embed postgres/*.sql
var postgresFS embed.FS

//go:embed sqlite/*.sql
var sqliteFS embed.FS

// Dialect names a store backend
type Dialect string

// Supported dialects
const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// NewProvider builds a goose provider for the dialect's embedded migrations
func NewProvider(dialect Dialect, db *sql.DB) (*goose.Provider, error) {
	var (
		gooseDialect goose.Dialect
		root         embed.FS
	)
	switch dialect {
	case DialectPostgres:
		gooseDialect, root = goose.DialectPostgres, postgresFS
	case DialectSQLite:
		gooseDialect, root = goose.DialectSQLite3, sqliteFS
	default:
		return nil, fmt.Errorf(ErrMsgUnknownDialectFmt, dialect)
	}

	fsys, err := fs.Sub(root, string(dialect))
	if err != nil {
		return nil, fmt.Errorf(ErrMsgOpenMigrationsFmt, dialect, err)
	}

	provider, err := goose.NewProvider(gooseDialect, db, fsys)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgCreateProviderFmt, err)
	}
	return provider, nil
}

// Up applies every pending migration
func Up(ctx context.Context, dialect Dialect, db *sql.DB) error {
	provider, err := NewProvider(dialect, db)
	if err != nil {
		return err
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf(ErrMsgMigrateUpFmt, err)
	}

	log := logger.FromContext(ctx)
	for _, r := range results {
		log.Info(LogMsgMigrationApplied, "version", r.Source.Version, "path", r.Source.Path, "duration", r.Duration)
	}
	if len(results) == 0 {
		log.Info(LogMsgSchemaUpToDate, "dialect", dialect)
	}
	return nil
}

// Down rolls back the most recent migration
func Down(ctx context.Context, dialect Dialect, db *sql.DB) error {
	provider, err := NewProvider(dialect, db)
	if err != nil {
		return err
	}

	result, err := provider.Down(ctx)
	if err != nil {
		return fmt.Errorf(ErrMsgMigrateDownFmt, err)
	}
	logger.FromContext(ctx).Info(LogMsgMigrationRolledBack, "version", result.Source.Version, "path", result.Source.Path)
	return nil
}

// Status reports every known migration and whether it has been applied
func Status(ctx context.Context, dialect Dialect, db *sql.DB) ([]*goose.MigrationStatus, error) {
	provider, err := NewProvider(dialect, db)
	if err != nil {
		return nil, err
	}

	statuses, err := provider.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgMigrateStatusFmt, err)
	}
	return statuses, nil
}
