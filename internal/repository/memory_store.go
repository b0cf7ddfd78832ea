package repository

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"site-catalog/internal/database"
)

// MemoryStore is an in-process Store used by tests and local runs. Documents
// round-trip through BSON so they decode exactly as they would from MongoDB,
// and the unique indexes of the collection spec are enforced on every write.
// TTL indexes are ignored.
type MemoryStore[T any] struct {
	mu      sync.RWMutex
	docs    []bson.M
	indexes []database.IndexSpec
}

func NewMemoryStore[T any](spec database.CollectionSpec) *MemoryStore[T] {
	return &MemoryStore[T]{indexes: spec.Indexes}
}

func (s *MemoryStore[T]) Insert(_ context.Context, doc *T) error {
	m, err := toM(doc)
	if err != nil {
		return err
	}
	if _, ok := m["_id"]; !ok {
		m["_id"] = primitive.NewObjectID()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexOf(bson.M{"_id": m["_id"]}) >= 0 {
		return fmt.Errorf("%w: duplicate _id", ErrConflict)
	}
	if err := s.checkUnique(m, -1); err != nil {
		return err
	}
	s.docs = append(s.docs, m)
	return nil
}

func (s *MemoryStore[T]) FindOne(_ context.Context, q Query) (*T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := s.matching(q)
	if len(matched) == 0 {
		return nil, ErrNotFound
	}
	return fromM[T](matched[0])
}

func (s *MemoryStore[T]) Find(_ context.Context, q Query) ([]*T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := s.matching(q)
	if q.Skip > 0 {
		if q.Skip >= int64(len(matched)) {
			matched = nil
		} else {
			matched = matched[q.Skip:]
		}
	}
	if q.Limit > 0 && int64(len(matched)) > q.Limit {
		matched = matched[:q.Limit]
	}

	out := make([]*T, 0, len(matched))
	for _, m := range matched {
		doc, err := fromM[T](m)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, nil
}

func (s *MemoryStore[T]) Count(_ context.Context, q Query) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.matching(Query{Match: q.Match, Any: q.Any}))), nil
}

func (s *MemoryStore[T]) Update(_ context.Context, q Query, c Change) (*T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.first(q)
	if i < 0 {
		return nil, ErrNotFound
	}
	return s.apply(i, c)
}

func (s *MemoryStore[T]) Upsert(_ context.Context, q Query, c Change) (*T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.first(q); i >= 0 {
		return s.apply(i, c)
	}

	m := bson.M{}
	for k, v := range q.Match {
		m[k] = normalize(v)
	}
	for k, v := range c.Set {
		m[k] = normalize(v)
	}
	if _, ok := m["_id"]; !ok {
		m["_id"] = primitive.NewObjectID()
	}
	if err := s.checkUnique(m, -1); err != nil {
		return nil, err
	}
	s.docs = append(s.docs, m)
	return fromM[T](m)
}

func (s *MemoryStore[T]) Delete(_ context.Context, q Query) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.first(q)
	if i < 0 {
		return ErrNotFound
	}
	s.docs = append(s.docs[:i], s.docs[i+1:]...)
	return nil
}

func (s *MemoryStore[T]) apply(i int, c Change) (*T, error) {
	next := bson.M{}
	for k, v := range s.docs[i] {
		next[k] = v
	}
	for k, v := range c.Set {
		next[k] = normalize(v)
	}
	for _, k := range c.Unset {
		delete(next, k)
	}
	if err := s.checkUnique(next, i); err != nil {
		return nil, err
	}
	s.docs[i] = next
	return fromM[T](next)
}

// first returns the position of the first document matching q in sort order.
func (s *MemoryStore[T]) first(q Query) int {
	matched := s.matching(q)
	if len(matched) == 0 {
		return -1
	}
	id := matched[0]["_id"]
	return s.indexOf(bson.M{"_id": id})
}

func (s *MemoryStore[T]) indexOf(match bson.M) int {
	for i, d := range s.docs {
		if matches(d, Query{Match: match}) {
			return i
		}
	}
	return -1
}

func (s *MemoryStore[T]) matching(q Query) []bson.M {
	var out []bson.M
	for _, d := range s.docs {
		if matches(d, q) {
			out = append(out, d)
		}
	}
	if q.SortBy != "" {
		sort.SliceStable(out, func(a, b int) bool {
			c := compare(out[a][q.SortBy], out[b][q.SortBy])
			if q.Desc {
				return c > 0
			}
			return c < 0
		})
	}
	return out
}

func (s *MemoryStore[T]) checkUnique(doc bson.M, self int) error {
	for _, idx := range s.indexes {
		if !idx.Unique {
			continue
		}
		keys, ok := indexKeys(doc, idx)
		if !ok {
			continue
		}
		for i, other := range s.docs {
			if i == self {
				continue
			}
			otherKeys, ok := indexKeys(other, idx)
			if !ok {
				continue
			}
			for k := range keys {
				if _, dup := otherKeys[k]; dup {
					return fmt.Errorf("%w: index %s", ErrConflict, idx.Name)
				}
			}
		}
	}
	return nil
}

// indexKeys returns the index entries a document produces, expanding one
// level of arrays the way a multikey index does. ok is false when the index
// does not cover the document.
func indexKeys(doc bson.M, idx database.IndexSpec) (map[string]struct{}, bool) {
	if len(idx.Partial) > 0 && !matches(doc, Query{Match: idx.Partial}) {
		return nil, false
	}

	present := false
	tuples := [][]string{{}}
	for _, field := range idx.Keys {
		v, ok := doc[field]
		if ok {
			present = true
		}
		values := []interface{}{v}
		if arr, isArr := v.(bson.A); isArr {
			values = arr
		}
		var next [][]string
		for _, t := range tuples {
			for _, val := range values {
				next = append(next, append(append([]string{}, t...), fmt.Sprintf("%T:%v", val, val)))
			}
		}
		tuples = next
	}
	if idx.Sparse && !present {
		return nil, false
	}

	out := make(map[string]struct{}, len(tuples))
	for _, t := range tuples {
		out[strings.Join(t, "\x00")] = struct{}{}
	}
	return out, true
}

func matches(doc bson.M, q Query) bool {
	for k, v := range q.Match {
		if !fieldEquals(doc, k, v) {
			return false
		}
	}
	if len(q.Any) == 0 {
		return true
	}
	for _, group := range q.Any {
		ok := true
		for k, v := range group {
			if !fieldEquals(doc, k, v) {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}

func fieldEquals(doc bson.M, field string, want interface{}) bool {
	got, ok := doc[field]
	want = normalize(want)
	if want == nil {
		return !ok || got == nil
	}
	if !ok {
		return false
	}
	if reflect.DeepEqual(got, want) {
		return true
	}
	if arr, isArr := got.(bson.A); isArr {
		for _, el := range arr {
			if reflect.DeepEqual(el, want) {
				return true
			}
		}
	}
	return false
}

func compare(a, b interface{}) int {
	switch av := a.(type) {
	case string:
		bv, _ := b.(string)
		return strings.Compare(av, bv)
	case primitive.DateTime:
		bv, _ := b.(primitive.DateTime)
		return cmpInt(int64(av), int64(bv))
	case int32:
		bv, _ := b.(int32)
		return cmpInt(int64(av), int64(bv))
	case int64:
		bv, _ := b.(int64)
		return cmpInt(av, bv)
	case primitive.ObjectID:
		bv, _ := b.(primitive.ObjectID)
		return strings.Compare(av.Hex(), bv.Hex())
	}
	return 0
}

func cmpInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// normalize gives v the representation it has after a BSON round trip.
func normalize(v interface{}) interface{} {
	if v == nil {
		return nil
	}
	raw, err := bson.Marshal(bson.M{"v": v})
	if err != nil {
		return v
	}
	var out bson.M
	if err := bson.Unmarshal(raw, &out); err != nil {
		return v
	}
	return out["v"]
}

func toM(doc interface{}) (bson.M, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func fromM[T any](m bson.M) (*T, error) {
	raw, err := bson.Marshal(m)
	if err != nil {
		return nil, err
	}
	var doc T
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}
