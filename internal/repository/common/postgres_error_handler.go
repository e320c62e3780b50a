package common

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	apperrors "github.com/Taichi-iskw/yt-live/internal/errors"
)

// HandlePostgreSQLError converts PostgreSQL-specific errors to appropriate AppError codes
func HandlePostgreSQLError(err error, operation string) *apperrors.AppError {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return apperrors.Wrap(err, apperrors.CodeInternal, operation)
	}

	switch pgErr.Code {
	case "23505": // UNIQUE_VIOLATION
		return handleUniqueViolation(pgErr)

	case "23503": // FOREIGN_KEY_VIOLATION
		return handleForeignKeyViolation(pgErr)

	case "23502": // NOT_NULL_VIOLATION
		return apperrors.Wrap(err, apperrors.CodeInvalidArg, "required field is missing")

	case "23514": // CHECK_VIOLATION
		if strings.Contains(pgErr.ConstraintName, "channel_id") {
			return apperrors.Wrap(err, apperrors.CodeInvalidArg, "channel ID must not be empty")
		}
		return apperrors.Wrap(err, apperrors.CodeInvalidArg, "data violates check constraint")

	case "22P02": // INVALID_TEXT_REPRESENTATION (malformed JSONB)
		return apperrors.Wrap(err, apperrors.CodeInvalidArg, "malformed cached video list")

	case "42P01": // UNDEFINED_TABLE
		return apperrors.Wrap(err, apperrors.CodeInternal, "database schema error: table not found (run 'ytlive migrate')")

	case "08000", "08003", "08006": // CONNECTION_EXCEPTION variants
		return apperrors.Wrap(err, apperrors.CodeInternal, "database connection error")

	case "53300": // TOO_MANY_CONNECTIONS
		return apperrors.Wrap(err, apperrors.CodeInternal, "database connection limit reached")

	default:
		message := operation + " (PostgreSQL code: " + pgErr.Code + ")"
		return apperrors.Wrap(err, apperrors.CodeInternal, message)
	}
}

func handleUniqueViolation(pgErr *pgconn.PgError) *apperrors.AppError {
	switch {
	case strings.Contains(pgErr.ConstraintName, "profiles"):
		return apperrors.Wrap(pgErr, apperrors.CodeConflict, "profile with this ID already exists")
	case strings.Contains(pgErr.ConstraintName, "subscriptions"):
		return apperrors.Wrap(pgErr, apperrors.CodeConflict, "profile is already subscribed to this channel")
	default:
		return apperrors.Wrap(pgErr, apperrors.CodeConflict, "resource already exists")
	}
}

func handleForeignKeyViolation(pgErr *pgconn.PgError) *apperrors.AppError {
	if strings.Contains(pgErr.ConstraintName, "profile_id") {
		return apperrors.Wrap(pgErr, apperrors.CodeDependency, "referenced profile does not exist")
	}
	return apperrors.Wrap(pgErr, apperrors.CodeDependency, "referenced resource does not exist")
}
