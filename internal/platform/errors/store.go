package errors

// Store helpers: classify Postgres and Mongo failures into project error codes

import (
	"context"
	stderrs "errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"go.mongodb.org/mongo-driver/mongo"
)

// SQLSTATE codes seen when reading the reference table
const (
	pgErrUndefinedTable      = "42P01"
	pgErrUndefinedColumn     = "42703"
	pgErrInsufficientPriv    = "42501"
	pgErrQueryCanceled       = "57014"
	pgErrAdminShutdown       = "57P01"
	pgErrCannotConnectNow    = "57P03"
	pgErrTooManyConnections  = "53300"
	pgErrInvalidPassword     = "28P01"
	pgErrInvalidAuthSpec     = "28000"
	pgErrConnectionException = "08"
)

// Mongo server codes that mean the collection or database is not usable
const (
	mongoUnauthorized      = 13
	mongoNamespaceNotFound = 26
	mongoAuthFailed        = 18
)

// ExtractPgError returns (*pgconn.PgError, true) if the root cause is a PgError
func ExtractPgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if stderrs.As(err, &pgErr) {
		return pgErr, true
	}
	return nil, false
}

// PgErrorCode maps a Postgres error to an ErrorCode; !ok means err was not a PgError
func PgErrorCode(err error) (ErrorCode, bool) {
	pgErr, ok := ExtractPgError(err)
	if !ok {
		return ErrorCodeUnknown, false
	}
	switch pgErr.Code {
	case pgErrUndefinedTable, pgErrUndefinedColumn:
		return ErrorCodeNotFound, true
	case pgErrInsufficientPriv, pgErrInvalidPassword, pgErrInvalidAuthSpec,
		pgErrQueryCanceled, pgErrAdminShutdown, pgErrCannotConnectNow, pgErrTooManyConnections:
		return ErrorCodeUnavailable, true
	}
	if len(pgErr.Code) >= 2 && pgErr.Code[:2] == pgErrConnectionException {
		return ErrorCodeUnavailable, true
	}
	return ErrorCodeDB, true
}

// MongoErrorCode maps a mongo driver error to an ErrorCode; !ok means err did not come from the driver
func MongoErrorCode(err error) (ErrorCode, bool) {
	switch {
	case stderrs.Is(err, mongo.ErrNoDocuments):
		return ErrorCodeNotFound, true
	case mongo.IsTimeout(err), mongo.IsNetworkError(err), stderrs.Is(err, mongo.ErrClientDisconnected):
		return ErrorCodeUnavailable, true
	}
	var ce mongo.CommandError
	if stderrs.As(err, &ce) {
		switch ce.Code {
		case mongoUnauthorized, mongoAuthFailed:
			return ErrorCodeUnavailable, true
		case mongoNamespaceNotFound:
			return ErrorCodeNotFound, true
		}
		return ErrorCodeDB, true
	}
	var se mongo.ServerError
	if stderrs.As(err, &se) {
		return ErrorCodeDB, true
	}
	return ErrorCodeUnknown, false
}

// FromStore wraps a store error with a mapped ErrorCode; nil stays nil.
// Context cancellation and deadlines map to Unavailable
func FromStore(err error, msg string) error {
	if err == nil {
		return nil
	}
	if stderrs.Is(err, context.DeadlineExceeded) || stderrs.Is(err, context.Canceled) {
		return Wrap(err, ErrorCodeUnavailable, msg)
	}
	if code, ok := PgErrorCode(err); ok {
		return Wrap(err, code, msg)
	}
	if code, ok := MongoErrorCode(err); ok {
		return Wrap(err, code, msg)
	}
	return Wrap(err, ErrorCodeDB, msg)
}

// FromStoref is the formatted variant of FromStore
func FromStoref(err error, format string, a ...any) error {
	if err == nil {
		return nil
	}
	return FromStore(err, fmt.Sprintf(format, a...))
}
