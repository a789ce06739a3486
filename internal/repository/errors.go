package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"vendorconnect/internal/apperr"
)

// IsDuplicate reports a unique constraint violation.
func IsDuplicate(err error) bool {
	var pgerr *pgconn.PgError
	return errors.As(err, &pgerr) && pgerr.Code == pgerrcode.UniqueViolation
}

// IsNotFound reports an empty single-row result.
func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// checkViolation returns the name of the violated CHECK constraint, if any.
func checkViolation(err error) (string, bool) {
	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) && pgerr.Code == pgerrcode.CheckViolation {
		return pgerr.ConstraintName, true
	}
	return "", false
}

// aggregateErr translates storage-level guards on aggregate counters into
// domain errors; anything else is wrapped with what.
func aggregateErr(err error, what string) error {
	if IsDuplicate(err) {
		return apperr.ErrAlreadyJoined
	}
	if IsForeignKey(err) {
		return fmt.Errorf("%w: %s references a missing row", apperr.ErrInvalidArgument, what)
	}
	if name, ok := checkViolation(err); ok {
		switch name {
		case "transports_capacity_cap":
			return apperr.ErrCapacityExceeded
		case "transports_participant_cap", "group_orders_participant_cap":
			return apperr.ErrParticipantLimitReached
		}
	}
	return fmt.Errorf("%s: %w", what, err)
}

// IsForeignKey reports a foreign key violation.
func IsForeignKey(err error) bool {
	var pgerr *pgconn.PgError
	return errors.As(err, &pgerr) && pgerr.Code == pgerrcode.ForeignKeyViolation
}
