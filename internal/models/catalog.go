package models

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// EntityKind is the closed set of catalog entities served by /api/admin/:entity.
type EntityKind string

const (
	KindCategory  EntityKind = "category"
	KindBrand     EntityKind = "brand"
	KindSegment   EntityKind = "segment"
	KindAttribute EntityKind = "attribute"
)

// EntityKinds lists every catalog kind in registry order.
func EntityKinds() []EntityKind {
	return []EntityKind{KindCategory, KindBrand, KindSegment, KindAttribute}
}

// ParseEntityKind maps a path segment to a kind, rejecting anything unknown.
func ParseEntityKind(s string) (EntityKind, error) {
	for _, k := range EntityKinds() {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown entity %q", s)
}

// Collection returns the MongoDB collection backing the kind.
func (k EntityKind) Collection() string {
	switch k {
	case KindCategory:
		return "categories"
	case KindBrand:
		return "brands"
	case KindSegment:
		return "segments"
	case KindAttribute:
		return "attributes"
	}
	panic(fmt.Sprintf("models: no collection for entity kind %q", string(k)))
}

// UniquenessScope controls how far a catalog name must be unique.
type UniquenessScope string

const (
	// ScopePerWebsite makes names unique within (tenantId, websiteId).
	ScopePerWebsite UniquenessScope = "perWebsite"
	// ScopeCollection makes names unique across the whole collection.
	ScopeCollection UniquenessScope = "collection"
)

// ParseUniquenessScope parses a configured scope value.
func ParseUniquenessScope(s string) (UniquenessScope, error) {
	switch UniquenessScope(s) {
	case ScopePerWebsite, ScopeCollection:
		return UniquenessScope(s), nil
	}
	return "", fmt.Errorf("invalid uniqueness scope %q (want %s or %s)", s, ScopePerWebsite, ScopeCollection)
}

// CatalogEntity is implemented by the pointer types of every catalog document.
type CatalogEntity interface {
	Base() *Record
	// Fields lists the type-specific fields a PATCH may change.
	Fields() []string
	// Validate checks the type-specific fields only; name is checked by the caller.
	Validate() error
}

type Category struct {
	Record      `bson:",inline"`
	Slug        string `json:"slug" bson:"slug"`
	Description string `json:"description" bson:"description"`
	ParentID    string `json:"parentId" bson:"parentId"`
	Image       string `json:"image" bson:"image"`
}

func (c *Category) Base() *Record { return &c.Record }

// SlugRef exposes the slug for normalisation before writes.
func (c *Category) SlugRef() *string { return &c.Slug }

func (c *Category) Fields() []string { return []string{"slug", "description", "parentId", "image"} }

func (c *Category) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Description, validation.Length(0, 2000)),
		validation.Field(&c.ParentID, validation.When(c.ParentID != "", validation.By(isObjectIDHex))),
	)
}

type Brand struct {
	Record      `bson:",inline"`
	Slug        string `json:"slug" bson:"slug"`
	Description string `json:"description" bson:"description"`
	Logo        string `json:"logo" bson:"logo"`
	Website     string `json:"website" bson:"website"`
}

func (b *Brand) Base() *Record { return &b.Record }

func (b *Brand) SlugRef() *string { return &b.Slug }

func (b *Brand) Fields() []string { return []string{"slug", "description", "logo", "website"} }

func (b *Brand) Validate() error {
	return validation.ValidateStruct(b,
		validation.Field(&b.Description, validation.Length(0, 2000)),
	)
}

type Segment struct {
	Record      `bson:",inline"`
	Description string `json:"description" bson:"description"`
}

func (s *Segment) Base() *Record { return &s.Record }

func (s *Segment) Fields() []string { return []string{"description"} }

func (s *Segment) Validate() error {
	return validation.ValidateStruct(s,
		validation.Field(&s.Description, validation.Length(0, 2000)),
	)
}

// Attribute types.
const (
	AttributeText    = "text"
	AttributeNumber  = "number"
	AttributeSelect  = "select"
	AttributeBoolean = "boolean"
)

type Attribute struct {
	Record `bson:",inline"`
	Type   string   `json:"type" bson:"type"`
	Values []string `json:"values" bson:"values"`
}

func (a *Attribute) Base() *Record { return &a.Record }

func (a *Attribute) Fields() []string { return []string{"type", "values"} }

func (a *Attribute) Validate() error {
	return validation.ValidateStruct(a,
		validation.Field(&a.Type, validation.In(AttributeText, AttributeNumber, AttributeSelect, AttributeBoolean)),
		validation.Field(&a.Values, validation.When(a.Type == AttributeSelect, validation.Required.Error("select attributes need at least one value"))),
	)
}
