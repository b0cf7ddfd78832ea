package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LLMSetting stores a tenant's credentials for an external model provider.
// The API key itself is never persisted: SecretRef points at an external
// secret or SecretCiphertext holds the sealed value.
type LLMSetting struct {
	ID               primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	TenantID         string             `json:"tenantId" bson:"tenantId"`
	Name             string             `json:"name" bson:"name"`
	Model            string             `json:"model" bson:"model"`
	SecretRef        string             `json:"-" bson:"secretRef,omitempty"`
	SecretCiphertext string             `json:"-" bson:"secretCiphertext,omitempty"`
	SecretHint       string             `json:"secretHint" bson:"secretHint"`
	IsActive         bool               `json:"isActive" bson:"isActive"`
	CreatedAt        time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// WebsiteSelection is the server-side copy of a user's current website.
type WebsiteSelection struct {
	ID        string    `json:"-" bson:"_id"`
	TenantID  string    `json:"tenantId" bson:"tenantId"`
	UserID    string    `json:"userId" bson:"userId"`
	WebsiteID string    `json:"websiteId" bson:"websiteId"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// SelectionID keys a selection by tenant and user.
func SelectionID(tenantID, userID string) string {
	return tenantID + ":" + userID
}
