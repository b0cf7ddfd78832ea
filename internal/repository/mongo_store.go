package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	writeTimeout = 5 * time.Second
	readTimeout  = 3 * time.Second
	listTimeout  = 10 * time.Second
)

// MongoStore implements Store over a single collection.
type MongoStore[T any] struct {
	collection *mongo.Collection
}

func NewMongoStore[T any](collection *mongo.Collection) *MongoStore[T] {
	return &MongoStore[T]{collection: collection}
}

func (s *MongoStore[T]) Insert(ctx context.Context, doc *T) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	_, err := s.collection.InsertOne(ctx, doc)
	return mapWriteError(err)
}

func (s *MongoStore[T]) FindOne(ctx context.Context, q Query) (*T, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	opts := options.FindOne()
	if q.SortBy != "" {
		opts.SetSort(sortDoc(q))
	}

	var doc T
	if err := s.collection.FindOne(ctx, filter(q), opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

func (s *MongoStore[T]) Find(ctx context.Context, q Query) ([]*T, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	cursor, err := s.collection.Find(ctx, filter(q), findOptions(q))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	docs := make([]*T, 0)
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (s *MongoStore[T]) Count(ctx context.Context, q Query) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	return s.collection.CountDocuments(ctx, filter(q))
}

func (s *MongoStore[T]) Update(ctx context.Context, q Query, c Change) (*T, error) {
	return s.findOneAndUpdate(ctx, q, c, false)
}

func (s *MongoStore[T]) Upsert(ctx context.Context, q Query, c Change) (*T, error) {
	return s.findOneAndUpdate(ctx, q, c, true)
}

func (s *MongoStore[T]) findOneAndUpdate(ctx context.Context, q Query, c Change, upsert bool) (*T, error) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetUpsert(upsert)

	var doc T
	err := s.collection.FindOneAndUpdate(ctx, filter(q), updateDoc(c), opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, mapWriteError(err)
	}
	return &doc, nil
}

func (s *MongoStore[T]) Delete(ctx context.Context, q Query) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	result, err := s.collection.DeleteOne(ctx, filter(q))
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// findOptions applies paging only when the query asks for it; an unpaged
// query returns every match.
func findOptions(q Query) *options.FindOptions {
	opts := options.Find()
	if q.SortBy != "" {
		opts.SetSort(sortDoc(q))
	}
	if q.Skip > 0 {
		opts.SetSkip(q.Skip)
	}
	if q.Limit > 0 {
		opts.SetLimit(q.Limit)
	}
	return opts
}

func filter(q Query) bson.M {
	f := bson.M{}
	for k, v := range q.Match {
		f[k] = v
	}
	if len(q.Any) > 0 {
		or := make(bson.A, 0, len(q.Any))
		for _, group := range q.Any {
			or = append(or, group)
		}
		f["$or"] = or
	}
	return f
}

func sortDoc(q Query) bson.D {
	order := 1
	if q.Desc {
		order = -1
	}
	return bson.D{{Key: q.SortBy, Value: order}}
}

func updateDoc(c Change) bson.M {
	u := bson.M{}
	if len(c.Set) > 0 {
		u["$set"] = c.Set
	}
	if len(c.Unset) > 0 {
		unset := bson.M{}
		for _, k := range c.Unset {
			unset[k] = ""
		}
		u["$unset"] = unset
	}
	return u
}

func mapWriteError(err error) error {
	if err == nil {
		return nil
	}
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %v", ErrConflict, err)
	}
	return err
}
