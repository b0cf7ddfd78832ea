package models

// Roles allowed to edit page and post content.
const (
	RoleOwner = "owner"
	RoleAdmin = "A"
)

// Scope identifies the caller of an admin operation. TenantID, UserID and
// Role come from the verified token; WebsiteID is the bound website, if any,
// and has already passed the ownership check.
type Scope struct {
	TenantID  string
	UserID    string
	Role      string
	WebsiteID string
}

// CanEditContent reports whether the caller may write page or post content.
func (s Scope) CanEditContent() bool {
	return s.Role == RoleOwner || s.Role == RoleAdmin
}

// WithWebsite returns a copy of the scope bound to websiteID.
func (s Scope) WithWebsite(websiteID string) Scope {
	s.WebsiteID = websiteID
	return s
}
