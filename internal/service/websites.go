package service

import (
	"context"
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/goliatone/go-slug"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"site-catalog/internal/models"
	"site-catalog/internal/repository"
)

// WebsiteInput is the body of POST /api/domain.
type WebsiteInput struct {
	Name            string             `json:"name"`
	Slug            string             `json:"slug"`
	SystemSubdomain string             `json:"systemSubdomain"`
	PrimaryDomain   []string           `json:"primaryDomain"`
	ServiceType     models.ServiceType `json:"serviceType"`
}

// WebsitePatch lists the mutable website fields; nil means unchanged.
type WebsitePatch struct {
	Name          *string               `json:"name"`
	PrimaryDomain *[]string             `json:"primaryDomain"`
	ServiceType   *models.ServiceType   `json:"serviceType"`
	Status        *models.WebsiteStatus `json:"status"`
}

// WebsiteService is the tenant/website directory.
type WebsiteService interface {
	Create(ctx context.Context, tenantID string, in WebsiteInput) (*models.Website, error)
	List(ctx context.Context, tenantID string) ([]*models.Website, error)
	// Get doubles as the ownership check: a website of another tenant is
	// reported as not found.
	Get(ctx context.Context, tenantID, id string) (*models.Website, error)
	Update(ctx context.Context, tenantID, id string, p WebsitePatch) (*models.Website, error)
}

type websiteService struct {
	store      repository.Store[models.Website]
	baseDomain string
	// onChange receives the hosts whose resolution a write may have changed.
	onChange func(hosts ...string)
	log      zerolog.Logger
}

func newWebsiteService(store repository.Store[models.Website], baseDomain string, onChange func(hosts ...string), log zerolog.Logger) *websiteService {
	if onChange == nil {
		onChange = func(...string) {}
	}
	return &websiteService{
		store:      store,
		baseDomain: models.NormalizeHost(baseDomain),
		onChange:   onChange,
		log:        log.With().Str("component", "websites").Logger(),
	}
}

var serviceTypes = []interface{}{models.ServiceWebsiteOnly, models.ServiceEcommerce, models.ServiceMaterialLibrary}

var websiteStatuses = []interface{}{models.WebsiteActive, models.WebsiteSuspended, models.WebsiteArchived}

func (s *websiteService) Create(ctx context.Context, tenantID string, in WebsiteInput) (*models.Website, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.ServiceType == "" {
		in.ServiceType = models.ServiceWebsiteOnly
	}
	if err := validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&in.ServiceType, validation.In(serviceTypes...)),
	); err != nil {
		return nil, invalid("%s", err.Error())
	}

	slugValue := in.Slug
	if slugValue == "" {
		slugValue = in.Name
	}
	normalized, err := slug.Normalize(slugValue)
	if err != nil || normalized == "" {
		return nil, invalid("slug: %q cannot be turned into a slug", slugValue)
	}

	subdomain := models.NormalizeHost(in.SystemSubdomain)
	if subdomain == "" {
		subdomain = normalized
	}
	if !validHost(subdomain) {
		return nil, invalid("systemSubdomain: %q is not a valid host name", in.SystemSubdomain)
	}

	domains, err := normalizeDomains(in.PrimaryDomain)
	if err != nil {
		return nil, err
	}

	ts := now()
	w := &models.Website{
		ID:              primitive.NewObjectID(),
		TenantID:        tenantID,
		Name:            in.Name,
		Slug:            normalized,
		SystemSubdomain: subdomain,
		PrimaryDomain:   domains,
		Hosts:           models.ClaimedHosts(subdomain, domains, s.baseDomain),
		ServiceType:     in.ServiceType,
		Status:          models.WebsiteActive,
		CreatedAt:       ts,
		UpdatedAt:       ts,
	}
	if err := s.store.Insert(ctx, w); err != nil {
		return nil, conflict(err, "a website with this slug, subdomain or domain")
	}
	s.onChange(w.Hosts...)

	s.log.Info().
		Str("tenant_id", tenantID).
		Str("website_id", w.ID.Hex()).
		Str("subdomain", w.SystemSubdomain).
		Msg("Website created")
	return w, nil
}

func (s *websiteService) List(ctx context.Context, tenantID string) ([]*models.Website, error) {
	return s.store.Find(ctx, repository.Query{
		Match:  bson.M{"tenantId": tenantID},
		SortBy: "createdAt",
	})
}

func (s *websiteService) Get(ctx context.Context, tenantID, id string) (*models.Website, error) {
	oid, err := repository.ParseID(id)
	if err != nil {
		return nil, err
	}
	return s.store.FindOne(ctx, repository.Query{Match: bson.M{"_id": oid, "tenantId": tenantID}})
}

func (s *websiteService) Update(ctx context.Context, tenantID, id string, p WebsitePatch) (*models.Website, error) {
	current, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	change := repository.Change{Set: bson.M{}}
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return nil, invalid("name: cannot be blank")
		}
		change.Set["name"] = name
	}
	if p.ServiceType != nil {
		if err := validation.Validate(*p.ServiceType, validation.In(serviceTypes...)); err != nil {
			return nil, invalid("serviceType: %s", err.Error())
		}
		change.Set["serviceType"] = *p.ServiceType
	}
	if p.Status != nil {
		if err := validation.Validate(*p.Status, validation.In(websiteStatuses...)); err != nil {
			return nil, invalid("status: %s", err.Error())
		}
		change.Set["status"] = *p.Status
	}
	if p.PrimaryDomain != nil {
		domains, err := normalizeDomains(*p.PrimaryDomain)
		if err != nil {
			return nil, err
		}
		if len(domains) == 0 {
			change.Unset = append(change.Unset, "primaryDomain")
		} else {
			change.Set["primaryDomain"] = domains
		}
		change.Set["hosts"] = models.ClaimedHosts(current.SystemSubdomain, domains, s.baseDomain)
	}
	if len(change.Set) == 0 && len(change.Unset) == 0 {
		return nil, invalid("no valid fields to update")
	}
	change.Set["updatedAt"] = now()

	w, err := s.store.Update(ctx, repository.Query{Match: bson.M{"_id": current.ID, "tenantId": tenantID}}, change)
	if err != nil {
		return nil, conflict(err, "a website with this domain")
	}
	s.onChange(append(current.Hosts, w.Hosts...)...)
	return w, nil
}

func normalizeDomains(in []string) ([]string, error) {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, d := range in {
		host := models.NormalizeHost(d)
		if host == "" {
			continue
		}
		if err := validation.Validate(host, is.Domain); err != nil {
			return nil, invalid("primaryDomain: %q is not a valid domain", d)
		}
		if !seen[host] {
			seen[host] = true
			out = append(out, host)
		}
	}
	return out, nil
}

// validHost accepts a single label ("acme") or a full domain.
func validHost(h string) bool {
	if slug.IsValid(h) && !strings.Contains(h, ".") {
		return true
	}
	return validation.Validate(h, is.Domain) == nil
}

func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrInvalidID)
}
