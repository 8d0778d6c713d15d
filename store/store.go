// Package store is the relational adapter: typed, owner-aware repositories over
// bun for templates, values, translations and languages, plus the SQL side of
// the hybrid query pipeline.
package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/goliatone/go-localize/domain"
)

// Open connects a bun DB over the sqlite shim driver. Embedded and test setups
// use "file::memory:?cache=shared"; production installs point at a file DSN or
// swap the dialect behind their own constructor.
func Open(dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, err
	}
	// A single connection keeps shared-cache in-memory databases coherent.
	sqldb.SetMaxOpenConns(1)
	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

// CreateSchema creates all tables and indexes. Idempotent; used by embedded
// setups and tests. Production schemas are owned by out-of-scope migrations.
func CreateSchema(ctx context.Context, db *bun.DB) error {
	models := []any{
		(*Language)(nil),
		(*Value)(nil),
		(*Translation)(nil),
		(*Template)(nil),
		(*TemplateValue)(nil),
	}
	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return err
		}
	}

	// The unique indexes back the identity invariants: one key hash per owner
	// scope, one name hash per owner scope, at most one active translation per
	// (value, language). The existence checks in the mutation handlers give
	// friendly errors; these make a concurrent duplicate fail at the write.
	indexes := []struct {
		model   any
		name    string
		columns []string
		unique  bool
		where   string
	}{
		{(*Value)(nil), "ux_values_key_hash", []string{"key_hash"}, true, ""},
		{(*Template)(nil), "ux_templates_name_hash", []string{"name_hash"}, true, ""},
		{(*Translation)(nil), "ix_translations_value", []string{"value_id"}, false, ""},
		{(*Translation)(nil), "ux_translations_active_language", []string{"value_id", "language_id"}, true, "active"},
	}
	for _, ix := range indexes {
		q := db.NewCreateIndex().
			Model(ix.model).
			Index(ix.name).
			Column(ix.columns...).
			IfNotExists()
		if ix.unique {
			q = q.Unique()
		}
		if ix.where != "" {
			q = q.Where(ix.where)
		}
		if _, err := q.Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}

// RunInTx executes fn inside one relational transaction. Every mutation handler
// wraps its writes in exactly one of these; the cache update happens after
// commit and is deliberately outside.
func RunInTx(ctx context.Context, db *bun.DB, fn func(ctx context.Context, tx bun.Tx) error) error {
	return db.RunInTx(ctx, &sql.TxOptions{}, fn)
}

// notFound maps sql.ErrNoRows onto the domain taxonomy; other errors propagate
// uncaught.
func notFound(err error, format string, args ...any) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFound(format, args...)
	}
	return err
}
