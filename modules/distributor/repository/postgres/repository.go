package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/distributor-network/common/errs"
	"github.com/gaze-network/distributor-network/internal/postgres"
	"github.com/gaze-network/distributor-network/modules/distributor/datagateway"
	"github.com/gaze-network/distributor-network/modules/distributor/repository/postgres/gen"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var _ datagateway.DistributorDataGateway = (*Repository)(nil)

type Repository struct {
	db      postgres.DB
	queries *gen.Queries
	tx      pgx.Tx
}

func NewRepository(db postgres.DB) *Repository {
	return &Repository{
		db:      db,
		queries: gen.New(db),
	}
}

// postgres error codes, see https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	codeNumericValueOutOfRange = "22003"
	codeForeignKeyViolation    = "23503"
	codeUniqueViolation        = "23505"
	codeCheckViolation         = "23514"
)

// wrapError attaches the matching ErrorKind to a database error.
func wrapError(err error, msg string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return errors.Wrap(errs.NotFound, msg)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return errors.Wrap(errors.Mark(err, errs.Timeout), msg)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return errors.Wrap(errors.Mark(err, errs.Conflict), msg)
		case codeForeignKeyViolation:
			return errors.Wrap(errors.Mark(err, errs.NotFound), msg)
		case codeCheckViolation, codeNumericValueOutOfRange:
			return errors.Wrap(errors.Mark(err, errs.InvalidArgument), msg)
		}
	}
	return errors.Wrap(errors.Mark(err, errs.Storage), msg)
}

// expectAffected turns a zero-row write into errs.NotFound.
func expectAffected(affected int64, err error, msg string) error {
	if err != nil {
		return wrapError(err, msg)
	}
	if affected == 0 {
		return errors.Wrap(errs.NotFound, msg)
	}
	return nil
}
