package datastore

import (
	"context"
	"database/sql"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
	_ "modernc.org/sqlite"
)

// OpenDB picks the dialect from the DSN: postgres URLs go through pgdriver,
// anything else is treated as a SQLite file or memory DSN.
func OpenDB(dsn string, password string) (*bun.DB, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		sqldb := sql.OpenDB(pgdriver.NewConnector(
			pgdriver.WithDSN(dsn),
			pgdriver.WithPassword(password),
		))
		return bun.NewDB(sqldb, pgdialect.New()), nil
	}

	sqldb, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// sqlite serializes writers anyway
	sqldb.SetMaxOpenConns(1)

	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

func Migrate(ctx context.Context, db *bun.DB) error {
	if err := CreateTableDocument(ctx, db); err != nil {
		return err
	}
	return CreateTableConfig(ctx, db)
}
