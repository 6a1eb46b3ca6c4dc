// Package store owns the database handle shared by the repositories.
package store

import (
	"context"
	"database/sql"

	"github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/goliatone/go-users-api/auth"
	"github.com/goliatone/go-users-api/items"
)

// Open connects to the database described by dsn and returns a bun handle.
// The handle is safe for concurrent use; the store serializes writes.
func Open(dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "failed to open database")
	}

	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

// Init creates the schema for the registered models when missing
func Init(ctx context.Context, db *bun.DB) error {
	models := []any{
		(*auth.User)(nil),
		(*items.Item)(nil),
	}

	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return errors.Wrap(err, errors.CategoryOperation, "failed to create table")
		}
	}

	return nil
}
