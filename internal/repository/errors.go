package repository

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrNotFound is returned when no document matched.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a write violates a unique index.
	ErrConflict = errors.New("already exists")
	// ErrInvalidID is returned for ids that are not ObjectID hex strings.
	ErrInvalidID = errors.New("invalid id")
)

// ParseID converts a hex id, mapping malformed input to ErrInvalidID.
func ParseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return oid, nil
}
