package config

import (
	"strings"
	"testing"
	"time"

	"site-catalog/internal/models"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("SECRETS_MASTER_KEY", strings.Repeat("k", 32))
}

func TestLoadConfigDefaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("port = %q", cfg.Server.Port)
	}
	if cfg.Mongo.Database != "siteCatalog" {
		t.Errorf("database = %q", cfg.Mongo.Database)
	}
	if cfg.Domain.CacheTTL != 0 {
		t.Errorf("resolver cache should be disabled by default, got %v", cfg.Domain.CacheTTL)
	}
	for _, k := range models.EntityKinds() {
		if got := cfg.Catalog.ScopeFor(k); got != models.ScopePerWebsite {
			t.Errorf("scope for %s = %s", k, got)
		}
	}
}

func TestLoadConfigDatabaseURLFallback(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("MONGODB_URI", "")
	t.Setenv("DATABASE_URL", "mongodb://db:27017")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Mongo.URI != "mongodb://db:27017" {
		t.Errorf("uri = %q", cfg.Mongo.URI)
	}
}

func TestLoadConfigScopeOverrides(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("UNIQUENESS_SCOPE", "perWebsite")
	t.Setenv("UNIQUENESS_SCOPE_BRAND", "collection")
	t.Setenv("DOMAIN_CACHE_TTL", "30s")
	t.Setenv("PLATFORM_BASE_DOMAIN", "Sites.Example.com")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if got := cfg.Catalog.ScopeFor(models.KindBrand); got != models.ScopeCollection {
		t.Errorf("brand scope = %s", got)
	}
	if got := cfg.Catalog.ScopeFor(models.KindCategory); got != models.ScopePerWebsite {
		t.Errorf("category scope = %s", got)
	}
	if cfg.Domain.CacheTTL != 30*time.Second {
		t.Errorf("cache ttl = %v", cfg.Domain.CacheTTL)
	}
	if cfg.Domain.BaseDomain != "sites.example.com" {
		t.Errorf("base domain = %q", cfg.Domain.BaseDomain)
	}
}

func TestLoadConfigRejectsBadScope(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("UNIQUENESS_SCOPE_SEGMENT", "global")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for invalid scope")
	}
}

func TestValidateRequiresSecrets(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("JWT_SECRET", "")
	t.Setenv("SECRETS_MASTER_KEY", "short")

	_, err := LoadConfig()
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "JWT_SECRET") || !strings.Contains(err.Error(), "SECRETS_MASTER_KEY") {
		t.Errorf("error should mention both settings: %v", err)
	}
}

func TestValidateAWSBackendNeedsNoMasterKey(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("SECRETS_BACKEND", "aws")
	t.Setenv("SECRETS_MASTER_KEY", "")

	if _, err := LoadConfig(); err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
}

func TestLoadProvisionConfigSkipsServerSecrets(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("SECRETS_MASTER_KEY", "")
	t.Setenv("UNIQUENESS_SCOPE", "collection")

	cfg, err := LoadProvisionConfig()
	if err != nil {
		t.Fatalf("LoadProvisionConfig: %v", err)
	}
	if got := cfg.Catalog.ScopeFor(models.KindSegment); got != models.ScopeCollection {
		t.Errorf("segment scope = %s", got)
	}

	t.Setenv("MONGODB_URI", "")
	if _, err := LoadProvisionConfig(); err == nil {
		t.Fatal("expected error without a mongo uri")
	}
}

func TestLogFormatFollowsEnv(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("LOG_FORMAT", "")

	t.Setenv("ENV", "development")
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Log.Format != "pretty" {
		t.Errorf("development format = %q", cfg.Log.Format)
	}

	t.Setenv("ENV", "production")
	if cfg, _ = LoadConfig(); cfg.Log.Format != "json" {
		t.Errorf("production format = %q", cfg.Log.Format)
	}

	t.Setenv("ENV", "development")
	t.Setenv("LOG_FORMAT", "json")
	if cfg, _ = LoadConfig(); cfg.Log.Format != "json" {
		t.Errorf("explicit format overridden: %q", cfg.Log.Format)
	}
}
