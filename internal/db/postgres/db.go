package postgres

import (
	"database/sql"
	"errors"
	"log/slog"

	"github.com/lib/pq"
)

// MaxBatchSize bounds ANY($1) lookups
const MaxBatchSize = 1000

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

func isPQError(err error, code, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	if string(pqErr.Code) != code {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}

func isUniqueViolation(err error, constraint string) bool {
	return isPQError(err, pqUniqueViolation, constraint)
}

func isForeignKeyViolation(err error) bool {
	return isPQError(err, pqForeignKeyViolation, "")
}

func closeRows(rows *sql.Rows) {
	if closeErr := rows.Close(); closeErr != nil {
		slog.Warn("failed to close rows", slog.String("error", closeErr.Error()))
	}
}

func rollback(tx *sql.Tx) {
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		slog.Error("failed to rollback transaction", slog.String("error", err.Error()))
	}
}
