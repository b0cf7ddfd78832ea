package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
)

// Query selects documents. Match holds equality conditions (an array field
// matches when it contains the value); Any holds alternative equality groups
// of which at least one must match.
type Query struct {
	Match  bson.M
	Any    []bson.M
	SortBy string
	Desc   bool
	Skip   int64
	Limit  int64
}

// Change is a partial update.
type Change struct {
	Set   bson.M
	Unset []string
}

// Store is the persistence contract shared by every collection.
type Store[T any] interface {
	Insert(ctx context.Context, doc *T) error
	FindOne(ctx context.Context, q Query) (*T, error)
	Find(ctx context.Context, q Query) ([]*T, error)
	Count(ctx context.Context, q Query) (int64, error)
	// Update applies c to the first match and returns the updated document.
	Update(ctx context.Context, q Query, c Change) (*T, error)
	// Upsert is Update that inserts Match merged with Set when nothing matches.
	Upsert(ctx context.Context, q Query, c Change) (*T, error)
	Delete(ctx context.Context, q Query) error
}
