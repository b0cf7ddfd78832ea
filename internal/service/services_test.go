package service

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"site-catalog/internal/config"
	"site-catalog/internal/database"
	"site-catalog/internal/models"
	"site-catalog/internal/repository"
	"site-catalog/internal/secrets"
	"site-catalog/internal/storage"
)

type testEnv struct {
	svc   *Services
	repos *repository.Repositories
	cfg   *config.Config
}

func newTestEnv(t *testing.T, objects storage.ObjectStore, mutate ...func(*config.Config)) *testEnv {
	t.Helper()
	cfg := &config.Config{
		Catalog: config.CatalogConfig{DefaultScope: models.ScopePerWebsite},
	}
	for _, m := range mutate {
		m(cfg)
	}

	repos := repository.NewMemory(database.Catalogue(database.CatalogueOptions{ScopeFor: cfg.Catalog.ScopeFor}))
	sealer, err := secrets.NewLocalSealer(strings.Repeat("k", 32))
	if err != nil {
		t.Fatal(err)
	}
	if objects == nil {
		objects = storage.NewLocalStore(t.TempDir(), "/uploads")
	}
	svc := NewServices(repos, Deps{Objects: objects, Sealer: sealer}, cfg, zerolog.Nop())
	t.Cleanup(svc.Resolver.Close)
	return &testEnv{svc: svc, repos: repos, cfg: cfg}
}

// website creates a website for tenant and returns a scope bound to it.
func (e *testEnv) website(t *testing.T, tenantID, subdomain string, domains ...string) (*models.Website, models.Scope) {
	t.Helper()
	w, err := e.svc.Websites.Create(context.Background(), tenantID, WebsiteInput{
		Name:            subdomain,
		SystemSubdomain: subdomain,
		PrimaryDomain:   domains,
	})
	if err != nil {
		t.Fatalf("create website %s: %v", subdomain, err)
	}
	return w, models.Scope{TenantID: tenantID, UserID: "u-" + tenantID, Role: models.RoleOwner, WebsiteID: w.ID.Hex()}
}
