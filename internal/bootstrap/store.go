package bootstrap

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/osse101/MapBot_Go/internal/config"
	"github.com/osse101/MapBot_Go/internal/database"
	"github.com/osse101/MapBot_Go/internal/database/migrations"
	"github.com/osse101/MapBot_Go/internal/database/postgres"
	"github.com/osse101/MapBot_Go/internal/database/sqlite"
	"github.com/osse101/MapBot_Go/internal/logger"
	"github.com/osse101/MapBot_Go/internal/repository"
)

// Database is an open store together with the database/sql view of it that
// the migration tooling needs.
type Database struct {
	Store   repository.Store
	SQL     *sql.DB
	Dialect migrations.Dialect
}

// Close releases the store. For postgres the sql view is closed first since
// it borrows the pool.
func (d *Database) Close() {
	if d.Dialect == migrations.DialectPostgres {
		_ = d.SQL.Close()
	}
	d.Store.Close()
}

// OpenDatabase connects to the backend selected by cfg.DBDriver
func OpenDatabase(cfg *config.Config) (*Database, error) {
	switch cfg.DBDriver {
	case config.DriverSQLite:
		db, err := database.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf(ErrMsgOpenStoreFmt, cfg.DBDriver, err)
		}
		return &Database{Store: sqlite.NewStore(db), SQL: db, Dialect: migrations.DialectSQLite}, nil
	default:
		pool, err := database.NewPool(cfg.GetDBConnString(), cfg.DBMaxConns, cfg.DBMaxConnIdleTime, cfg.DBMaxConnLifetime)
		if err != nil {
			return nil, fmt.Errorf(ErrMsgOpenStoreFmt, cfg.DBDriver, err)
		}
		return &Database{Store: postgres.NewStore(pool), SQL: database.SQLDB(pool), Dialect: migrations.DialectPostgres}, nil
	}
}

// OpenStore opens the configured backend and brings its schema up to date
func OpenStore(ctx context.Context, cfg *config.Config) (*Database, error) {
	db, err := OpenDatabase(cfg)
	if err != nil {
		return nil, err
	}

	if err := migrations.Up(ctx, db.Dialect, db.SQL); err != nil {
		db.Close()
		return nil, fmt.Errorf(ErrMsgMigrateFmt, db.Dialect, err)
	}

	logger.FromContext(ctx).Info(LogMsgStoreReady, "driver", cfg.DBDriver)
	return db, nil
}
