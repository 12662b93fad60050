package postgres

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/distributor-network/common/errs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestWrapError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		kind error
	}{
		{name: "no rows", err: pgx.ErrNoRows, kind: errs.NotFound},
		{name: "unique violation", err: &pgconn.PgError{Code: codeUniqueViolation}, kind: errs.Conflict},
		{name: "foreign key violation", err: &pgconn.PgError{Code: codeForeignKeyViolation}, kind: errs.NotFound},
		{name: "check violation", err: &pgconn.PgError{Code: codeCheckViolation}, kind: errs.InvalidArgument},
		{name: "bigint out of range", err: &pgconn.PgError{Code: codeNumericValueOutOfRange}, kind: errs.InvalidArgument},
		{name: "unknown", err: errors.New("connection reset"), kind: errs.Storage},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, wrapError(tc.err, "failed"), tc.kind)
		})
	}
}
