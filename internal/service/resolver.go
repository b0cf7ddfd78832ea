package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"

	"site-catalog/internal/cache"
	"site-catalog/internal/config"
	"site-catalog/internal/models"
	"site-catalog/internal/repository"
)

// DomainResolver maps an inbound Host header to the website it serves.
type DomainResolver interface {
	Resolve(ctx context.Context, host string) (*models.Website, error)
	// Invalidate drops the cached resolutions of hosts after a website write.
	Invalidate(hosts ...string)
	Close()
}

type resolver struct {
	websites   repository.Store[models.Website]
	baseDomain string
	// nil when caching is disabled
	cache *cache.Cache[models.Website]
	log   zerolog.Logger
}

func newResolver(websites repository.Store[models.Website], cfg config.DomainConfig, log zerolog.Logger) *resolver {
	r := &resolver{
		websites:   websites,
		baseDomain: models.NormalizeHost(cfg.BaseDomain),
		log:        log.With().Str("component", "resolver").Logger(),
	}
	if cfg.CacheTTL > 0 {
		r.cache = cache.New[models.Website](cfg.CacheTTL)
	}
	return r
}

// Resolve matches the normalised host exactly against the system subdomain
// or any custom domain. Only active websites resolve.
func (r *resolver) Resolve(ctx context.Context, host string) (*models.Website, error) {
	h := models.NormalizeHost(host)
	if h == "" {
		return nil, repository.ErrNotFound
	}
	if r.cache != nil {
		if w, ok := r.cache.Get(h); ok {
			return &w, nil
		}
	}

	candidates := []bson.M{
		{"systemSubdomain": h},
		{"primaryDomain": h},
	}
	if label, ok := r.platformLabel(h); ok {
		candidates = append(candidates, bson.M{"systemSubdomain": label})
	}

	w, err := r.websites.FindOne(ctx, repository.Query{
		Match: bson.M{"status": models.WebsiteActive},
		Any:   candidates,
	})
	if err != nil {
		return nil, err
	}
	if r.cache != nil {
		r.cache.Set(h, *w)
	}
	r.log.Debug().Str("host", h).Str("website_id", w.ID.Hex()).Msg("Host resolved")
	return w, nil
}

// platformLabel extracts "acme" from "acme.<base domain>".
func (r *resolver) platformLabel(h string) (string, bool) {
	if r.baseDomain == "" {
		return "", false
	}
	label, found := strings.CutSuffix(h, "."+r.baseDomain)
	if !found || label == "" || strings.Contains(label, ".") {
		return "", false
	}
	return label, true
}

func (r *resolver) Invalidate(hosts ...string) {
	if r.cache == nil {
		return
	}
	for _, h := range hosts {
		r.cache.Delete(h)
	}
}

func (r *resolver) Close() {
	if r.cache != nil {
		r.cache.Stop()
	}
}
