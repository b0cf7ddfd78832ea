package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"site-catalog/internal/config"
	"site-catalog/internal/markup"
	"site-catalog/internal/models"
	"site-catalog/internal/repository"
	"site-catalog/internal/secrets"
	"site-catalog/internal/storage"
)

// now is the clock used for every stamped timestamp. BSON keeps
// milliseconds, so values are truncated to round-trip unchanged.
var now = func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) }

// Services holds all service interfaces
type Services struct {
	Websites  WebsiteService
	Resolver  DomainResolver
	Selection SelectionService
	Catalog   Catalog
	Pages     ContentService
	Posts     ContentService
	Media     MediaService
	LLM       LLMService
}

// Deps are the external collaborators the services need besides the stores.
type Deps struct {
	Objects storage.ObjectStore
	Sealer  secrets.Sealer
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, deps Deps, cfg *config.Config, log zerolog.Logger) *Services {
	resolver := newResolver(repos.Websites, cfg.Domain, log)
	websites := newWebsiteService(repos.Websites, cfg.Domain.BaseDomain, resolver.Invalidate, log)
	renderer := markup.NewRenderer()

	return &Services{
		Websites:  websites,
		Resolver:  resolver,
		Selection: newSelectionService(repos.Selections, websites, log),
		Catalog:   newCatalog(repos, websites, log),
		Pages:     newContentService(models.KindPage, repos.Pages, websites, renderer, log),
		Posts:     newContentService(models.KindPost, repos.Posts, websites, renderer, log),
		Media:     newMediaService(repos.Media, deps.Objects, websites, log),
		LLM:       newLLMService(repos.LLM, deps.Sealer, log),
	}
}

// websiteFor picks the website a scoped write targets: an explicit id, which
// must belong to the tenant, or the website already bound to the scope.
func websiteFor(ctx context.Context, websites WebsiteService, scope models.Scope, requested string) (string, error) {
	if requested == "" || requested == scope.WebsiteID {
		if scope.WebsiteID == "" {
			return "", invalid("websiteId is required")
		}
		return scope.WebsiteID, nil
	}
	w, err := websites.Get(ctx, scope.TenantID, requested)
	if err != nil {
		return "", err
	}
	return w.ID.Hex(), nil
}
