package di

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-aipages/internal/business"
	"github.com/goliatone/go-aipages/internal/pages"
	"github.com/goliatone/go-aipages/internal/runtimeconfig"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// ErrStorageDSNRequired is returned when a sql provider has neither a DSN nor
// an injected *bun.DB.
var ErrStorageDSNRequired = errors.New("di: storage dsn is required for sql providers")

const schemaTimeout = 10 * time.Second

// Models lists every bun model in creation order.
func Models() []any {
	return []any{
		(*business.Record)(nil),
		(*business.Update)(nil),
		(*pages.Page)(nil),
	}
}

// CreateSchema creates any missing table for Models.
func CreateSchema(ctx context.Context, db *bun.DB) error {
	for _, model := range Models() {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("di: create table %T: %w", model, err)
		}
	}
	return nil
}

func (c *Container) configureStorage(ctx context.Context) error {
	provider := strings.ToLower(strings.TrimSpace(c.Config.Storage.Provider))
	if c.bunDB == nil && provider != runtimeconfig.StorageMemory {
		db, err := openBunDB(provider, c.Config.Storage.DSN)
		if err != nil {
			return err
		}
		c.bunDB = db
		c.ownsDB = true
	}
	if c.bunDB == nil || !c.Config.Storage.AutoMigrate {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, schemaTimeout)
	defer cancel()
	if err := CreateSchema(ctx, c.bunDB); err != nil {
		c.Close()
		return err
	}
	return nil
}

func openBunDB(provider, dsn string) (*bun.DB, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, ErrStorageDSNRequired
	}
	switch provider {
	case runtimeconfig.StorageSQLite:
		sqlDB, err := sql.Open("sqlite3", dsn)
		if err != nil {
			return nil, fmt.Errorf("di: open sqlite: %w", err)
		}
		db := bun.NewDB(sqlDB, sqlitedialect.New())
		db.SetMaxOpenConns(1)
		return db, nil
	case runtimeconfig.StoragePostgres:
		sqlDB, err := sql.Open("pgx", dsn)
		if err != nil {
			return nil, fmt.Errorf("di: open postgres: %w", err)
		}
		return bun.NewDB(sqlDB, pgdialect.New()), nil
	default:
		return nil, fmt.Errorf("%w: %s", runtimeconfig.ErrStorageProviderUnknown, provider)
	}
}
