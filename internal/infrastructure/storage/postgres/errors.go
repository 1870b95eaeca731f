package postgres

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"hobbyshop/internal/core/apperror"
)

const collaborator = "database"

// IsConnectionError reports whether err means the database could not be
// reached, as opposed to a statement failing on a healthy connection.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// Class 08: connection exception; 57P01-57P03: server shutting down.
		return strings.HasPrefix(pgErr.Code, "08") ||
			pgErr.Code == "57P01" || pgErr.Code == "57P02" || pgErr.Code == "57P03"
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	return pgconn.SafeToRetry(err) || errors.Is(err, context.DeadlineExceeded)
}

// numericOutOfRange is SQLSTATE 22003.
const numericOutOfRange = "22003"

// Classify wraps err with op, maps connection failures to CodeUnavailable
// and values the column cannot hold to CodeValidation.
func Classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if apperror.IsAppError(err) {
		return err
	}
	if IsConnectionError(err) {
		return apperror.NewUnavailable(collaborator, fmt.Errorf("%s: %w", op, err))
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == numericOutOfRange {
		return apperror.NewValidation("value out of range").
			WithDetail("operation", op).
			WithCause(err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
