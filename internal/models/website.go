package models

import (
	"net"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ServiceType describes what a website is used for.
type ServiceType string

const (
	ServiceWebsiteOnly     ServiceType = "WEBSITE_ONLY"
	ServiceEcommerce       ServiceType = "ECOMMERCE"
	ServiceMaterialLibrary ServiceType = "MATERIAL_LIBRARY"
)

// WebsiteStatus is the soft lifecycle of a website; there is no delete.
type WebsiteStatus string

const (
	WebsiteActive    WebsiteStatus = "active"
	WebsiteSuspended WebsiteStatus = "suspended"
	WebsiteArchived  WebsiteStatus = "archived"
)

// Website is a tenant-owned site addressed by its system subdomain or any
// of its custom domains.
type Website struct {
	ID              primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	TenantID        string             `json:"tenantId" bson:"tenantId"`
	Name            string             `json:"name" bson:"name"`
	Slug            string             `json:"slug" bson:"slug"`
	SystemSubdomain string             `json:"systemSubdomain" bson:"systemSubdomain"`
	// Omitted when empty so the sparse unique index skips the document.
	PrimaryDomain   []string           `json:"primaryDomain" bson:"primaryDomain,omitempty"`
	// Hosts is every name the website answers to, across both fields and
	// the platform suffix. Its unique index keeps a host with one owner.
	Hosts           []string           `json:"-" bson:"hosts,omitempty"`
	ServiceType     ServiceType        `json:"serviceType" bson:"serviceType"`
	Status          WebsiteStatus      `json:"status" bson:"status"`
	CreatedAt       time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// NormalizeHost lowercases a Host header value and strips any port and
// trailing dot.
func NormalizeHost(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.TrimPrefix(strings.TrimSuffix(host, "]"), "[")
	return strings.TrimSuffix(host, ".")
}

// ClaimedHosts lists the hosts a website with this subdomain and these
// domains resolves from. With a base domain, "acme" and "acme.<base>" are
// the same claim.
func ClaimedHosts(subdomain string, domains []string, baseDomain string) []string {
	seen := map[string]bool{}
	var out []string
	add := func(h string) {
		if h != "" && !seen[h] {
			seen[h] = true
			out = append(out, h)
		}
	}

	add(subdomain)
	if baseDomain != "" && subdomain != "" && !strings.Contains(subdomain, ".") {
		add(subdomain + "." + baseDomain)
	}
	for _, d := range domains {
		add(d)
		if label, ok := strings.CutSuffix(d, "."+baseDomain); ok && baseDomain != "" && label != "" && !strings.Contains(label, ".") {
			add(label)
		}
	}
	return out
}
