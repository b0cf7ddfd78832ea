package repository

import (
	"context"
	"fmt"
	"testing"

	"go.mongodb.org/mongo-driver/bson"

	"site-catalog/internal/database"
	"site-catalog/internal/models"
)

func TestFindOptionsPageOnlyWhenAsked(t *testing.T) {
	opts := findOptions(Query{SortBy: "name"})
	if opts.Limit != nil || opts.Skip != nil {
		t.Errorf("unpaged query got limit=%v skip=%v", opts.Limit, opts.Skip)
	}
	if opts.Sort == nil {
		t.Error("sort not applied")
	}

	opts = findOptions(Query{Skip: 40, Limit: 20})
	if opts.Limit == nil || *opts.Limit != 20 || opts.Skip == nil || *opts.Skip != 40 {
		t.Errorf("paged query got limit=%v skip=%v", opts.Limit, opts.Skip)
	}
}

func TestFindUnpagedReturnsEveryMatch(t *testing.T) {
	ctx := context.Background()
	spec, _ := database.Find(database.Catalogue(database.CatalogueOptions{}), database.CollSelections)
	s := NewMemoryStore[models.WebsiteSelection](spec)

	const n = 750
	for i := 0; i < n; i++ {
		doc := &models.WebsiteSelection{ID: fmt.Sprintf("t1:u%d", i), TenantID: "t1", UserID: fmt.Sprintf("u%d", i)}
		if err := s.Insert(ctx, doc); err != nil {
			t.Fatal(err)
		}
	}

	docs, err := s.Find(ctx, Query{Match: bson.M{"tenantId": "t1"}})
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != n {
		t.Errorf("found %d, want %d", len(docs), n)
	}
}
