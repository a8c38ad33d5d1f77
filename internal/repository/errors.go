package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/news-content-service/internal/models"
)

// uniqueViolation is the SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// storeErr maps driver-level failures onto the shared error taxonomy. A
// unique violation is a caller problem (Conflict), a missing row is an
// answer (NotFound); anything else that reached the driver is a store-level
// failure and becomes ErrUnavailable, so read paths can fall back on a typed
// error instead of a generic catch-all.
func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return fmt.Errorf("%s: %w", op, models.ErrConflict)
	}
	return fmt.Errorf("%s: %w: %w", op, models.ErrUnavailable, err)
}
