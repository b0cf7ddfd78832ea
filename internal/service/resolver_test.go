package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"site-catalog/internal/config"
	"site-catalog/internal/models"
	"site-catalog/internal/repository"
)

func TestResolve(t *testing.T) {
	env := newTestEnv(t, nil, func(c *config.Config) { c.Domain.BaseDomain = "sites.test" })
	ctx := context.Background()
	acme, _ := env.website(t, "t1", "acme", "acme.com", "www.acme.com")

	for _, host := range []string{"acme", "ACME:3000", "acme.com", "www.acme.com:443", "acme.sites.test"} {
		w, err := env.svc.Resolver.Resolve(ctx, host)
		if err != nil {
			t.Errorf("Resolve(%q): %v", host, err)
			continue
		}
		if w.ID != acme.ID {
			t.Errorf("Resolve(%q) = %s", host, w.ID.Hex())
		}
	}

	for _, host := range []string{"unknown.example.com", "", "shop.acme.com", "x.acme.sites.test"} {
		if _, err := env.svc.Resolver.Resolve(ctx, host); !errors.Is(err, repository.ErrNotFound) {
			t.Errorf("Resolve(%q): got %v, want ErrNotFound", host, err)
		}
	}
}

func TestResolveSkipsInactiveWebsites(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	w, _ := env.website(t, "t1", "acme")

	archived := models.WebsiteArchived
	if _, err := env.svc.Websites.Update(ctx, "t1", w.ID.Hex(), WebsitePatch{Status: &archived}); err != nil {
		t.Fatal(err)
	}
	if _, err := env.svc.Resolver.Resolve(ctx, "acme"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("got %v", err)
	}
}

func TestResolveCacheInvalidatedOnWrite(t *testing.T) {
	env := newTestEnv(t, nil, func(c *config.Config) { c.Domain.CacheTTL = time.Hour })
	ctx := context.Background()
	w, _ := env.website(t, "t1", "acme")

	if _, err := env.svc.Resolver.Resolve(ctx, "acme"); err != nil {
		t.Fatal(err)
	}
	suspended := models.WebsiteSuspended
	if _, err := env.svc.Websites.Update(ctx, "t1", w.ID.Hex(), WebsitePatch{Status: &suspended}); err != nil {
		t.Fatal(err)
	}
	if _, err := env.svc.Resolver.Resolve(ctx, "acme"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("stale cache entry served: %v", err)
	}
}

func TestResolveCacheKeepsOtherHosts(t *testing.T) {
	env := newTestEnv(t, nil, func(c *config.Config) { c.Domain.CacheTTL = time.Hour })
	ctx := context.Background()
	acme, _ := env.website(t, "t1", "acme", "acme.com")
	env.website(t, "t1", "beta")

	for _, h := range []string{"acme.com", "beta"} {
		if _, err := env.svc.Resolver.Resolve(ctx, h); err != nil {
			t.Fatal(err)
		}
	}

	domains := []string{"acme.org"}
	if _, err := env.svc.Websites.Update(ctx, "t1", acme.ID.Hex(), WebsitePatch{PrimaryDomain: &domains}); err != nil {
		t.Fatal(err)
	}
	if _, err := env.svc.Resolver.Resolve(ctx, "acme.com"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("released domain still resolves: %v", err)
	}
	r := env.svc.Resolver.(*resolver)
	if _, ok := r.cache.Get("beta"); !ok {
		t.Error("unrelated cached host was dropped")
	}
}
