package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/text/cases"
)

// Record holds the fields shared by every website-scoped catalog document.
type Record struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	TenantID  string             `json:"tenantId" bson:"tenantId"`
	WebsiteID string             `json:"websiteId" bson:"websiteId"`
	Name      string             `json:"name" bson:"name"`
	NameKey   string             `json:"-" bson:"nameKey"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// FoldName returns the key used for case-insensitive name uniqueness.
// The unique indexes are built on this value, so two names collide exactly
// when their Unicode case foldings are equal.
func FoldName(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}
