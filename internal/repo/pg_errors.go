package repo

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes worth mapping to the error taxonomy.
const (
	pgUniqueViolation      = "23505"
	pgSerializationFailure = "40001"
)

// translatePgError maps driver errors to repository sentinels so no
// storage detail leaks past the repo boundary.
func translatePgError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return ErrDuplicatedValueUnique
		case pgSerializationFailure:
			return ErrConflict
		}
	}
	return err
}
