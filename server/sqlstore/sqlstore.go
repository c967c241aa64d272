package sqlstore

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

// SQLStore wraps one database handle and the query builder matching its driver.
type SQLStore struct {
	db      *sqlx.DB
	builder sq.StatementBuilderType
}

// New wraps an already opened database, such as the one the plugin API hands out.
func New(db *sqlx.DB) *SQLStore {
	builder := sq.StatementBuilder.PlaceholderFormat(sq.Question)
	switch db.DriverName() {
	case "postgres", "pgx":
		builder = builder.PlaceholderFormat(sq.Dollar)
	}

	return &SQLStore{
		db:      db,
		builder: builder,
	}
}

// Open connects and pings. The pool is capped at one connection: every phase of a run
// shares it sequentially.
func Open(ctx context.Context, driverName, dataSourceName string) (*SQLStore, error) {
	db, err := sqlx.Open(driverName, dataSourceName)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open the database")
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to connect to the database")
	}

	return New(db), nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

// DB exposes the handle, mostly for tests preparing fixtures.
func (s *SQLStore) DB() *sqlx.DB {
	return s.db
}

type builder interface {
	ToSql() (string, []interface{}, error)
}

func (s *SQLStore) selectBuilder(ctx context.Context, q sqlx.QueryerContext, dest interface{}, b builder) error {
	sqlString, args, err := b.ToSql()
	if err != nil {
		return errors.Wrap(err, "failed to build sql")
	}

	return sqlx.SelectContext(ctx, q, dest, sqlString, args...)
}

func (s *SQLStore) getBuilder(ctx context.Context, q sqlx.QueryerContext, dest interface{}, b builder) error {
	sqlString, args, err := b.ToSql()
	if err != nil {
		return errors.Wrap(err, "failed to build sql")
	}

	return sqlx.GetContext(ctx, q, dest, sqlString, args...)
}

func (s *SQLStore) execBuilder(ctx context.Context, e sqlx.ExecerContext, b builder) (sql.Result, error) {
	sqlString, args, err := b.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "failed to build sql")
	}

	return e.ExecContext(ctx, sqlString, args...)
}
