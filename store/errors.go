package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrStorageUnavailable is returned when the store cannot be opened or has been closed.
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrConstraintViolation is returned when a record with the same key already exists.
	ErrConstraintViolation = errors.New("constraint violation")
	// ErrMissingKey is returned when a keyed collection receives a record without a key.
	ErrMissingKey = errors.New("record key is required for this collection")
	// ErrUnknownIndex is returned when a lookup names an index the collection does not declare.
	ErrUnknownIndex = errors.New("unknown index")
	// ErrUnknownCollection is returned for a record type that is not part of the schema.
	ErrUnknownCollection = errors.New("unknown collection")
)

// wrapErr adds operation context and classifies a closed handle as unavailable storage.
func wrapErr(op, collection string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrConnDone) || strings.Contains(err.Error(), "database is closed") {
		return fmt.Errorf("%s %s: %w: %v", op, collection, ErrStorageUnavailable, err)
	}
	return fmt.Errorf("%s %s: %w", op, collection, err)
}
