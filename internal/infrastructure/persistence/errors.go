package persistence

import (
	"errors"
	"strings"

	"github.com/dripnest/storefront/internal/domain/shared"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

const uniqueViolation = "23505"

// isUniqueViolation recognises duplicate key errors from gorm's translator,
// lib/pq and pgx (through its SQLState method).
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolation
	}
	var stateErr interface{ SQLState() string }
	if errors.As(err, &stateErr) {
		return stateErr.SQLState() == uniqueViolation
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// translateError maps driver errors onto domain errors
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.ErrNotFound
	case isUniqueViolation(err):
		return shared.ErrAlreadyExists
	}
	return err
}

// likePattern builds a lower-cased LIKE pattern with wildcards escaped
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + strings.ToLower(r.Replace(strings.TrimSpace(s))) + "%"
}
