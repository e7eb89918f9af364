package dbx

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/memoryengine/backend/internal/common"
)

// PostgreSQL SQLSTATE codes we care about.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgRaiseException      = "P0001"
)

// MapError translates driver-level errors into the sentinel errors from
// internal/common so upper layers never see raw storage errors.
//
//   - sql.ErrNoRows                 -> common.ErrorNotFound
//   - unique violations             -> common.ErrorConflict
//   - check violations (self-parent,
//     self-share, hierarchy trigger) -> common.ErrorValidation
//   - foreign-key violations        -> common.ErrorNotFound (the referenced
//     row is gone, which callers must see as absence)
//
// Anything else is wrapped so errors.Is still finds nothing sentinel.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return common.ErrorNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s", common.ErrorConflict, pgErr.ConstraintName)
		case pgCheckViolation:
			return fmt.Errorf("%w: %s", common.ErrorValidation, pgErr.ConstraintName)
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: %s", common.ErrorNotFound, pgErr.ConstraintName)
		case pgRaiseException:
			// The hierarchy-cycle trigger raises with a plain message.
			if strings.Contains(pgErr.Message, "ircular") || strings.Contains(pgErr.Message, "hierarchy") {
				return fmt.Errorf("%w: %s", common.ErrorValidation, pgErr.Message)
			}
		}
	}

	return fmt.Errorf("db error: %w", err)
}
