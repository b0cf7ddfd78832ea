package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"site-catalog/internal/models"
)

// Collection names.
const (
	CollWebsites   = "websites"
	CollPages      = "pages"
	CollPosts      = "posts"
	CollMedia      = "media"
	CollLLM        = "llm_settings"
	CollSelections = "website_selections"
)

const codeNamespaceExists = 48

// IndexSpec describes one index. The same specs drive the provisioning CLI
// and the in-memory stores, so both reject the same duplicates.
type IndexSpec struct {
	Name   string
	Keys   []string
	Unique bool
	// Sparse skips documents missing every key field.
	Sparse bool
	// Partial restricts the index to documents whose fields equal these values.
	Partial bson.M
	// TTL expires documents this long after the (single) date key.
	TTL time.Duration
}

// Model converts the spec to a driver index model.
func (s IndexSpec) Model() mongo.IndexModel {
	keys := bson.D{}
	for _, k := range s.Keys {
		keys = append(keys, bson.E{Key: k, Value: 1})
	}
	opts := options.Index().SetName(s.Name)
	if s.Unique {
		opts.SetUnique(true)
	}
	if s.Sparse {
		opts.SetSparse(true)
	}
	if len(s.Partial) > 0 {
		opts.SetPartialFilterExpression(s.Partial)
	}
	if s.TTL > 0 {
		opts.SetExpireAfterSeconds(int32(s.TTL / time.Second))
	}
	return mongo.IndexModel{Keys: keys, Options: opts}
}

type CollectionSpec struct {
	Name    string
	Indexes []IndexSpec
}

// CatalogueOptions parameterises the index catalogue.
type CatalogueOptions struct {
	ScopeFor     func(models.EntityKind) models.UniquenessScope
	SelectionTTL time.Duration
}

// Catalogue returns every collection with its indexes.
func Catalogue(opts CatalogueOptions) []CollectionSpec {
	specs := []CollectionSpec{
		{Name: CollWebsites, Indexes: []IndexSpec{
			{Name: "uniq_slug", Keys: []string{"slug"}, Unique: true},
			{Name: "uniq_system_subdomain", Keys: []string{"systemSubdomain"}, Unique: true},
			{Name: "uniq_primary_domain", Keys: []string{"primaryDomain"}, Unique: true, Sparse: true},
			{Name: "uniq_hosts", Keys: []string{"hosts"}, Unique: true, Sparse: true},
			{Name: "tenant", Keys: []string{"tenantId"}},
		}},
		contentSpec(CollPages),
		contentSpec(CollPosts),
		{Name: CollMedia, Indexes: []IndexSpec{
			{Name: "uniq_scope_name", Keys: []string{"tenantId", "websiteId", "nameKey"}, Unique: true},
			{Name: "uniq_key", Keys: []string{"key"}, Unique: true},
		}},
		{Name: CollLLM, Indexes: []IndexSpec{
			{Name: "uniq_active_provider", Keys: []string{"tenantId", "name"}, Unique: true, Partial: bson.M{"isActive": true}},
			{Name: "tenant", Keys: []string{"tenantId"}},
		}},
		{Name: CollSelections, Indexes: []IndexSpec{
			{Name: "ttl_updated_at", Keys: []string{"updatedAt"}, TTL: opts.SelectionTTL},
		}},
	}

	for _, kind := range models.EntityKinds() {
		scope := models.ScopePerWebsite
		if opts.ScopeFor != nil {
			scope = opts.ScopeFor(kind)
		}
		specs = append(specs, catalogSpec(kind, scope))
	}
	return specs
}

func contentSpec(name string) CollectionSpec {
	return CollectionSpec{Name: name, Indexes: []IndexSpec{
		{Name: "uniq_scope_slug", Keys: []string{"tenantId", "websiteId", "slug"}, Unique: true},
		{Name: "website_status", Keys: []string{"websiteId", "status"}},
	}}
}

func catalogSpec(kind models.EntityKind, scope models.UniquenessScope) CollectionSpec {
	uniq := IndexSpec{Name: "uniq_name_website", Keys: []string{"tenantId", "websiteId", "nameKey"}, Unique: true}
	if scope == models.ScopeCollection {
		uniq = IndexSpec{Name: "uniq_name_collection", Keys: []string{"nameKey"}, Unique: true}
	}
	return CollectionSpec{Name: kind.Collection(), Indexes: []IndexSpec{
		uniq,
		{Name: "scope", Keys: []string{"tenantId", "websiteId"}},
	}}
}

// Find returns the spec for the named collection.
func Find(specs []CollectionSpec, name string) (CollectionSpec, bool) {
	for _, s := range specs {
		if s.Name == name {
			return s, true
		}
	}
	return CollectionSpec{}, false
}

// Drift maps collection names to index names that differ from the
// catalogue: Missing ones are absent from the database, Stale ones belong to
// the catalogue under other options (a different uniqueness scope) and
// would still enforce it.
type Drift struct {
	Missing map[string][]string
	Stale   map[string][]string
}

func (d Drift) Empty() bool { return len(d.Missing) == 0 && len(d.Stale) == 0 }

// ownedIndexNames lists every index name any catalogue variant creates.
func ownedIndexNames() map[string]bool {
	owned := map[string]bool{}
	for _, scope := range []models.UniquenessScope{models.ScopePerWebsite, models.ScopeCollection} {
		for _, spec := range Catalogue(CatalogueOptions{ScopeFor: func(models.EntityKind) models.UniquenessScope { return scope }}) {
			for _, idx := range spec.Indexes {
				owned[idx.Name] = true
			}
		}
	}
	return owned
}

// diff compares specs with the index names found per collection.
func diff(specs []CollectionSpec, existing map[string][]string) Drift {
	d := Drift{Missing: map[string][]string{}, Stale: map[string][]string{}}
	owned := ownedIndexNames()

	for _, spec := range specs {
		have := map[string]bool{}
		for _, name := range existing[spec.Name] {
			have[name] = true
		}
		want := map[string]bool{}
		for _, idx := range spec.Indexes {
			want[idx.Name] = true
			if !have[idx.Name] {
				d.Missing[spec.Name] = append(d.Missing[spec.Name], idx.Name)
			}
		}
		for _, name := range existing[spec.Name] {
			if owned[name] && !want[name] {
				d.Stale[spec.Name] = append(d.Stale[spec.Name], name)
			}
		}
	}
	return d
}

func indexNames(ctx context.Context, coll *mongo.Collection) ([]string, error) {
	list, err := coll.Indexes().ListSpecifications(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(list))
	for _, s := range list {
		names = append(names, s.Name)
	}
	return names, nil
}

// Inspect reports how the database's indexes drift from specs. A collection
// that does not exist yet has every index missing.
func Inspect(ctx context.Context, db *mongo.Database, specs []CollectionSpec) (Drift, error) {
	present, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return Drift{}, fmt.Errorf("list collections: %w", err)
	}
	exists := map[string]bool{}
	for _, name := range present {
		exists[name] = true
	}

	existing := map[string][]string{}
	for _, spec := range specs {
		if !exists[spec.Name] {
			continue
		}
		names, err := indexNames(ctx, db.Collection(spec.Name))
		if err != nil {
			return Drift{}, fmt.Errorf("list indexes on %s: %w", spec.Name, err)
		}
		existing[spec.Name] = names
	}
	return diff(specs, existing), nil
}

// Provision creates the collections and indexes, tolerating collections
// that already exist. Catalogue indexes no longer in specs are dropped
// first, so a relaxed uniqueness scope stops being enforced.
func Provision(ctx context.Context, db *mongo.Database, specs []CollectionSpec, log zerolog.Logger) error {
	log = log.With().Str("component", "provision").Logger()

	for _, spec := range specs {
		if err := db.CreateCollection(ctx, spec.Name); err != nil {
			var cmdErr mongo.CommandError
			if !errors.As(err, &cmdErr) || cmdErr.Code != codeNamespaceExists {
				return fmt.Errorf("create collection %s: %w", spec.Name, err)
			}
		}
		coll := db.Collection(spec.Name)

		existing, err := indexNames(ctx, coll)
		if err != nil {
			return fmt.Errorf("list indexes on %s: %w", spec.Name, err)
		}
		for _, name := range diff([]CollectionSpec{spec}, map[string][]string{spec.Name: existing}).Stale[spec.Name] {
			if _, err := coll.Indexes().DropOne(ctx, name); err != nil {
				return fmt.Errorf("drop index %s on %s: %w", name, spec.Name, err)
			}
			log.Warn().Str("collection", spec.Name).Str("index", name).Msg("Dropped stale index")
		}
		if len(spec.Indexes) == 0 {
			continue
		}

		indexModels := make([]mongo.IndexModel, 0, len(spec.Indexes))
		for _, idx := range spec.Indexes {
			indexModels = append(indexModels, idx.Model())
		}
		names, err := coll.Indexes().CreateMany(ctx, indexModels)
		if err != nil {
			return fmt.Errorf("create indexes on %s: %w", spec.Name, err)
		}
		log.Info().Str("collection", spec.Name).Strs("indexes", names).Msg("Collection provisioned")
	}
	return nil
}
