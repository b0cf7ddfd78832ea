package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/goliatone/go-slug"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"site-catalog/internal/models"
	"site-catalog/internal/repository"
)

// CatalogService is the scoped CRUD contract shared by every catalog kind.
// Bodies stay raw JSON so one HTTP handler can serve all kinds; each
// implementation decodes into its own document type.
type CatalogService interface {
	Create(ctx context.Context, scope models.Scope, body []byte) (models.CatalogEntity, error)
	// List is always restricted to the caller's tenant; websiteID narrows it
	// further and falls back to the bound website.
	List(ctx context.Context, scope models.Scope, websiteID string) ([]models.CatalogEntity, error)
	Get(ctx context.Context, scope models.Scope, id string) (models.CatalogEntity, error)
	Update(ctx context.Context, scope models.Scope, id string, body []byte) (models.CatalogEntity, error)
	Delete(ctx context.Context, scope models.Scope, id string) error
}

// Catalog is the closed registry of catalog services.
type Catalog map[models.EntityKind]CatalogService

// For returns the service for kind.
func (c Catalog) For(kind models.EntityKind) (CatalogService, bool) {
	s, ok := c[kind]
	return s, ok
}

func newCatalog(repos *repository.Repositories, websites WebsiteService, log zerolog.Logger) Catalog {
	c := Catalog{}
	for _, kind := range models.EntityKinds() {
		switch kind {
		case models.KindCategory:
			c[kind] = newCatalogService[models.Category](kind, repos.Categories, websites, log)
		case models.KindBrand:
			c[kind] = newCatalogService[models.Brand](kind, repos.Brands, websites, log)
		case models.KindSegment:
			c[kind] = newCatalogService[models.Segment](kind, repos.Segments, websites, log)
		case models.KindAttribute:
			c[kind] = newCatalogService[models.Attribute](kind, repos.Attributes, websites, log)
		default:
			panic(fmt.Sprintf("service: catalog kind %q has no store", kind))
		}
	}
	return c
}

// entity ties a document type to its pointer, which carries the methods.
type entity[T any] interface {
	*T
	models.CatalogEntity
}

type sluggable interface {
	SlugRef() *string
}

type catalogService[T any, PT entity[T]] struct {
	kind     models.EntityKind
	store    repository.Store[T]
	websites WebsiteService
	log      zerolog.Logger
}

func newCatalogService[T any, PT entity[T]](kind models.EntityKind, store repository.Store[T], websites WebsiteService, log zerolog.Logger) *catalogService[T, PT] {
	return &catalogService[T, PT]{
		kind:     kind,
		store:    store,
		websites: websites,
		log:      log.With().Str("component", "catalog").Str("entity", string(kind)).Logger(),
	}
}

func (s *catalogService[T, PT]) Create(ctx context.Context, scope models.Scope, body []byte) (models.CatalogEntity, error) {
	var doc T
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, invalid("invalid request body")
	}
	e := PT(&doc)
	base := e.Base()

	websiteID, err := websiteFor(ctx, s.websites, scope, base.WebsiteID)
	if err != nil {
		return nil, err
	}
	if err := prepare(e); err != nil {
		return nil, err
	}

	ts := now()
	base.ID = primitive.NewObjectID()
	base.TenantID = scope.TenantID
	base.WebsiteID = websiteID
	base.CreatedAt = ts
	base.UpdatedAt = ts

	if err := s.store.Insert(ctx, &doc); err != nil {
		return nil, conflict(err, "%s %q", s.kind, base.Name)
	}
	s.log.Info().
		Str("tenant_id", scope.TenantID).
		Str("website_id", websiteID).
		Str("id", base.ID.Hex()).
		Msg("Entity created")
	return e, nil
}

// prepare trims and folds the name, normalises any slug and validates the
// type-specific fields.
func prepare(e models.CatalogEntity) error {
	base := e.Base()
	base.Name = strings.TrimSpace(base.Name)
	if base.Name == "" {
		return invalid("name is required")
	}
	base.NameKey = models.FoldName(base.Name)

	if sl, ok := e.(sluggable); ok {
		ref := sl.SlugRef()
		source := *ref
		if source == "" {
			source = base.Name
		}
		normalized, err := slug.Normalize(source)
		if err != nil {
			return invalid("slug: %q cannot be turned into a slug", source)
		}
		*ref = normalized
	}

	if err := e.Validate(); err != nil {
		return invalid("%s", err.Error())
	}
	return nil
}

func (s *catalogService[T, PT]) List(ctx context.Context, scope models.Scope, websiteID string) ([]models.CatalogEntity, error) {
	match := bson.M{"tenantId": scope.TenantID}
	if websiteID == "" {
		websiteID = scope.WebsiteID
	}
	if websiteID != "" {
		match["websiteId"] = websiteID
	}

	docs, err := s.store.Find(ctx, repository.Query{Match: match, SortBy: "name"})
	if err != nil {
		return nil, err
	}
	out := make([]models.CatalogEntity, 0, len(docs))
	for _, d := range docs {
		out = append(out, PT(d))
	}
	return out, nil
}

func (s *catalogService[T, PT]) Get(ctx context.Context, scope models.Scope, id string) (models.CatalogEntity, error) {
	doc, err := s.find(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	return PT(doc), nil
}

func (s *catalogService[T, PT]) find(ctx context.Context, scope models.Scope, id string) (*T, error) {
	oid, err := repository.ParseID(id)
	if err != nil {
		return nil, err
	}
	return s.store.FindOne(ctx, repository.Query{Match: bson.M{"_id": oid, "tenantId": scope.TenantID}})
}

// Update applies the fields present in body on top of the stored document.
// Only name and the kind's own fields are written; ids, scope and timestamps
// in the body are ignored.
func (s *catalogService[T, PT]) Update(ctx context.Context, scope models.Scope, id string, body []byte) (models.CatalogEntity, error) {
	var present map[string]json.RawMessage
	if err := json.Unmarshal(body, &present); err != nil {
		return nil, invalid("invalid request body")
	}

	current, err := s.find(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	merged := PT(current)
	oid := merged.Base().ID
	if err := json.Unmarshal(body, merged); err != nil {
		return nil, invalid("invalid request body")
	}
	if err := prepare(merged); err != nil {
		return nil, err
	}

	raw, err := bson.Marshal(merged)
	if err != nil {
		return nil, err
	}
	var fields bson.M
	if err := bson.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}

	set := bson.M{}
	for _, k := range append([]string{"name"}, merged.Fields()...) {
		if _, ok := present[k]; ok {
			set[k] = fields[k]
		}
	}
	if len(set) == 0 {
		return nil, invalid("no valid fields to update")
	}
	if _, ok := set["name"]; ok {
		set["nameKey"] = merged.Base().NameKey
	}
	set["updatedAt"] = now()

	updated, err := s.store.Update(ctx, repository.Query{
		Match: bson.M{"_id": oid, "tenantId": scope.TenantID},
	}, repository.Change{Set: set})
	if err != nil {
		return nil, conflict(err, "%s %q", s.kind, merged.Base().Name)
	}
	return PT(updated), nil
}

func (s *catalogService[T, PT]) Delete(ctx context.Context, scope models.Scope, id string) error {
	oid, err := repository.ParseID(id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, repository.Query{Match: bson.M{"_id": oid, "tenantId": scope.TenantID}}); err != nil {
		return err
	}
	s.log.Info().Str("tenant_id", scope.TenantID).Str("id", id).Msg("Entity deleted")
	return nil
}
