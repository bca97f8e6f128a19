package models

import (
	"context"
	"errors"
	"reflect"
	"strings"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/mysql"
	"github.com/go-playground/validator/v10"
	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/joshua-takyi/jirani/internal/apperrors"
)

var Validate = newValidator()

// newValidator reports fields by their json names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

const (
	UsersTable     = "users"
	ProvidersTable = "service_providers"
	ServicesTable  = "services"
	RequestsTable  = "service_requests"
	ReviewsTable   = "reviews"

	mysqlDuplicateEntry = 1062
)

// queryExecer is satisfied by both *sqlx.DB and *sqlx.Tx.
type queryExecer interface {
	sqlx.QueryerContext
	sqlx.ExecerContext
}

type toSQLer interface {
	ToSQL() (string, []interface{}, error)
}

// MySQLRepo implements every repository interface on one connection pool.
type MySQLRepo struct {
	db      *sqlx.DB
	dialect goqu.DialectWrapper
}

func NewMySQLRepo(db *sqlx.DB) *MySQLRepo {
	return &MySQLRepo{
		db:      db,
		dialect: goqu.Dialect("mysql"),
	}
}

// WithTx runs fn inside a transaction, rolling back when fn fails.
func (r *MySQLRepo) WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return apperrors.NewInternalError("failed to begin transaction", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return apperrors.NewInternalError("failed to commit transaction", err)
	}
	return nil
}

func (r *MySQLRepo) from(table interface{}) *goqu.SelectDataset {
	return r.dialect.From(table).Prepared(true)
}

func (r *MySQLRepo) insert(table string) *goqu.InsertDataset {
	return r.dialect.Insert(table).Prepared(true)
}

func (r *MySQLRepo) update(table string) *goqu.UpdateDataset {
	return r.dialect.Update(table).Prepared(true)
}

func (r *MySQLRepo) get(ctx context.Context, q queryExecer, dest interface{}, ds toSQLer) error {
	query, args, err := ds.ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build query", err)
	}
	return sqlx.GetContext(ctx, q, dest, query, args...)
}

func (r *MySQLRepo) selectAll(ctx context.Context, q queryExecer, dest interface{}, ds toSQLer) error {
	query, args, err := ds.ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build query", err)
	}
	return sqlx.SelectContext(ctx, q, dest, query, args...)
}

func (r *MySQLRepo) exec(ctx context.Context, q queryExecer, ds toSQLer) (int64, int64, error) {
	query, args, err := ds.ToSQL()
	if err != nil {
		return 0, 0, apperrors.NewInternalError("failed to build statement", err)
	}
	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, 0, err
	}
	// LastInsertId is meaningless for updates; callers ignore it there.
	id, _ := res.LastInsertId()
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, 0, err
	}
	return id, affected, nil
}

func isDuplicateEntry(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}

// orNull dereferences p, mapping nil to SQL NULL.
func orNull[T any](p *T) interface{} {
	if p == nil {
		return nil
	}
	return *p
}
