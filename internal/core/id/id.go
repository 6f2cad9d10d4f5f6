// Package id generates UUIDv7 identifiers for shops, customers,
// packages, transactions and stock records. The embedded timestamp
// keeps primary keys roughly insertion-ordered.
package id

import (
	"github.com/google/uuid"
)

// ID identifies a record.
type ID = uuid.UUID

// New generates a UUIDv7. The first 48 bits carry the Unix timestamp,
// so freshly minted IDs sort by creation time and index well in
// PostgreSQL.
func New() ID {
	id, err := uuid.NewV7()
	if err != nil {
		// V7 only fails when the random source does; V4 reads the
		// same source but has no error path to surface it.
		return uuid.New()
	}
	return id
}

// Parse converts a string to an ID.
func Parse(s string) (ID, error) {
	return uuid.Parse(s)
}

// MustParse converts a string to an ID, panics on error.
// Use only for constants and tests.
func MustParse(s string) ID {
	return uuid.MustParse(s)
}

// Nil returns the zero ID.
func Nil() ID {
	return uuid.Nil
}

// IsNil reports whether id is the zero ID.
func IsNil(id ID) bool {
	return id == uuid.Nil
}
