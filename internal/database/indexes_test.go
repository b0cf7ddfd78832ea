package database

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"site-catalog/internal/models"
)

func TestCatalogueScopes(t *testing.T) {
	specs := Catalogue(CatalogueOptions{
		ScopeFor: func(k models.EntityKind) models.UniquenessScope {
			if k == models.KindBrand {
				return models.ScopeCollection
			}
			return models.ScopePerWebsite
		},
		SelectionTTL: time.Hour,
	})

	brand, ok := Find(specs, "brands")
	if !ok {
		t.Fatal("brands collection missing")
	}
	if got := brand.Indexes[0].Keys; len(got) != 1 || got[0] != "nameKey" {
		t.Errorf("brand uniqueness keys = %v", got)
	}

	category, ok := Find(specs, "categories")
	if !ok {
		t.Fatal("categories collection missing")
	}
	if got := category.Indexes[0].Keys; len(got) != 3 || got[1] != "websiteId" {
		t.Errorf("category uniqueness keys = %v", got)
	}

	for _, name := range []string{CollWebsites, CollPages, CollPosts, CollMedia, CollLLM, CollSelections, "segments", "attributes"} {
		if _, ok := Find(specs, name); !ok {
			t.Errorf("collection %s missing from catalogue", name)
		}
	}
}

func TestIndexSpecModel(t *testing.T) {
	spec := IndexSpec{Name: "ttl", Keys: []string{"updatedAt"}, TTL: 90 * time.Second}
	m := spec.Model()

	keys, ok := m.Keys.(bson.D)
	if !ok || len(keys) != 1 || keys[0].Key != "updatedAt" {
		t.Fatalf("keys = %#v", m.Keys)
	}
	if m.Options.ExpireAfterSeconds == nil || *m.Options.ExpireAfterSeconds != 90 {
		t.Errorf("expireAfterSeconds = %v", m.Options.ExpireAfterSeconds)
	}
	if m.Options.Name == nil || *m.Options.Name != "ttl" {
		t.Errorf("name = %v", m.Options.Name)
	}

	uniq := IndexSpec{Name: "u", Keys: []string{"a", "b"}, Unique: true, Sparse: true, Partial: bson.M{"isActive": true}}.Model()
	if uniq.Options.Unique == nil || !*uniq.Options.Unique {
		t.Error("unique not set")
	}
	if uniq.Options.Sparse == nil || !*uniq.Options.Sparse {
		t.Error("sparse not set")
	}
	if uniq.Options.PartialFilterExpression == nil {
		t.Error("partial filter not set")
	}
}

func TestDiffReportsMissingAndStaleIndexes(t *testing.T) {
	perWebsite := Catalogue(CatalogueOptions{})

	// A database provisioned with collection-wide category names and never
	// given the website host index.
	existing := map[string][]string{
		CollWebsites: {"_id_", "uniq_slug", "uniq_system_subdomain", "uniq_primary_domain", "tenant"},
		"categories": {"_id_", "uniq_name_collection", "scope", "legacy_custom"},
	}
	d := diff(perWebsite, existing)

	if got := d.Missing[CollWebsites]; len(got) != 1 || got[0] != "uniq_hosts" {
		t.Errorf("missing on websites = %v", got)
	}
	if got := d.Missing["categories"]; len(got) != 1 || got[0] != "uniq_name_website" {
		t.Errorf("missing on categories = %v", got)
	}
	if got := d.Stale["categories"]; len(got) != 1 || got[0] != "uniq_name_collection" {
		t.Errorf("stale on categories = %v", got)
	}
	if len(d.Missing[CollPages]) != 2 {
		t.Errorf("unprovisioned pages should miss every index: %v", d.Missing[CollPages])
	}
	if d.Empty() {
		t.Error("drift reported empty")
	}
}

func TestDiffEmptyWhenProvisioned(t *testing.T) {
	specs := Catalogue(CatalogueOptions{})
	existing := map[string][]string{}
	for _, spec := range specs {
		existing[spec.Name] = []string{"_id_"}
		for _, idx := range spec.Indexes {
			existing[spec.Name] = append(existing[spec.Name], idx.Name)
		}
	}
	if d := diff(specs, existing); !d.Empty() {
		t.Errorf("drift = %+v", d)
	}
}
