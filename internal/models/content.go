package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ContentKind selects the collection a content document lives in.
type ContentKind string

const (
	KindPage ContentKind = "pages"
	KindPost ContentKind = "posts"
)

// ContentStatus transitions one way: draft -> published.
type ContentStatus string

const (
	StatusDraft     ContentStatus = "draft"
	StatusPublished ContentStatus = "published"
)

// Source formats accepted by the editor.
const (
	FormatHTML     = "html"
	FormatMarkdown = "markdown"
)

// Content is a page or a post. Body holds sanitised HTML; Source keeps the
// markdown the body was rendered from, when there is one.
type Content struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	TenantID    string             `json:"tenantId" bson:"tenantId"`
	WebsiteID   string             `json:"websiteId" bson:"websiteId"`
	Slug        string             `json:"slug" bson:"slug"`
	Title       string             `json:"title" bson:"title"`
	Body        string             `json:"content" bson:"content"`
	Format      string             `json:"format" bson:"format"`
	Source      string             `json:"source,omitempty" bson:"source,omitempty"`
	Status      ContentStatus      `json:"status" bson:"status"`
	PublishedAt *time.Time         `json:"publishedAt,omitempty" bson:"publishedAt,omitempty"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}
