package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrArticleNotFound = errors.New("article not found")
	ErrAdminNotFound   = errors.New("admin not found")
)

const pgUniqueViolation = "23505"

// InvalidIDError reports an identifier that is not a UUID.
type InvalidIDError struct {
	Field string
	Value string
}

func (e *InvalidIDError) Error() string {
	return fmt.Sprintf("invalid %s: %q", e.Field, e.Value)
}

// DuplicateError reports a uniqueness conflict on Field.
type DuplicateError struct {
	Field string
	Value string
	Err   error
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *DuplicateError) Unwrap() error { return e.Err }

func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return &InvalidIDError{Field: "id", Value: id}
	}

	return nil
}

func duplicate(err error, field, value string) error {
	if err == nil || !isUniqueViolation(err) {
		return err
	}

	return &DuplicateError{Field: field, Value: value, Err: err}
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}

	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
