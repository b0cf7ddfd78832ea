package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"site-catalog/internal/models"
)

type Config struct {
	Env     string
	Server  ServerConfig
	Mongo   MongoConfig
	Auth    AuthConfig
	Catalog CatalogConfig
	Domain  DomainConfig
	Media   MediaConfig
	Secrets SecretsConfig
	Log     LogConfig
}

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	// AllowedOrigin is the admin dashboard origin (NEXTAUTH_URL).
	AllowedOrigin string
}

type MongoConfig struct {
	URI           string
	Database      string
	MaxPoolSize   uint64
	Timeout       time.Duration
	AutoProvision bool
}

type AuthConfig struct {
	JWTSecret    string
	CookieSecure bool
	SelectionTTL time.Duration
}

type CatalogConfig struct {
	DefaultScope models.UniquenessScope
	Overrides    map[models.EntityKind]models.UniquenessScope
}

// ScopeFor returns the name-uniqueness scope configured for kind.
func (c CatalogConfig) ScopeFor(kind models.EntityKind) models.UniquenessScope {
	if s, ok := c.Overrides[kind]; ok {
		return s
	}
	if c.DefaultScope == "" {
		return models.ScopePerWebsite
	}
	return c.DefaultScope
}

type DomainConfig struct {
	// BaseDomain lets "acme.<base>" resolve the website with subdomain "acme".
	BaseDomain string
	// CacheTTL of zero disables the resolver cache.
	CacheTTL time.Duration
}

type MediaConfig struct {
	Bucket        string
	Region        string
	PublicBaseURL string
	LocalDir      string
	MaxUploadSize int64
}

// Secrets backends.
const (
	SecretsLocal = "local"
	SecretsAWS   = "aws"
)

type SecretsConfig struct {
	Backend   string
	MasterKey string
	Region    string
	Prefix    string
}

type LogConfig struct {
	Level  string
	Format string
}

// LoadConfig reads a .env file when one exists, then the environment.
func LoadConfig() (*Config, error) {
	cfg, err := load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadProvisionConfig is LoadConfig for the provisioning tool, which only
// needs the database and catalogue settings.
func LoadProvisionConfig() (*Config, error) {
	cfg, err := load()
	if err != nil {
		return nil, err
	}
	if cfg.Mongo.URI == "" {
		return nil, errors.New("MONGODB_URI (or DATABASE_URL) is required")
	}
	return cfg, nil
}

func load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	}

	env := getEnv("ENV", "production")
	logFormat := "json"
	if env == "development" {
		logFormat = "pretty"
	}

	cfg := &Config{
		Env: env,
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 20*time.Second),
			AllowedOrigin:   getEnv("NEXTAUTH_URL", ""),
		},
		Mongo: MongoConfig{
			URI:           firstEnv("MONGODB_URI", "DATABASE_URL", "MONGO_URI"),
			Database:      getEnv("MONGO_DB", "siteCatalog"),
			MaxPoolSize:   uint64(getIntEnv("MONGO_MAX_POOL_SIZE", 50)),
			Timeout:       getDurationEnv("MONGO_TIMEOUT", 5*time.Second),
			AutoProvision: getBoolEnv("AUTO_PROVISION", false),
		},
		Auth: AuthConfig{
			JWTSecret:    getEnv("JWT_SECRET", ""),
			CookieSecure: getBoolEnv("COOKIE_SECURE", true),
			SelectionTTL: getDurationEnv("SELECTION_TTL", 30*24*time.Hour),
		},
		Domain: DomainConfig{
			BaseDomain: models.NormalizeHost(getEnv("PLATFORM_BASE_DOMAIN", "")),
			CacheTTL:   getDurationEnv("DOMAIN_CACHE_TTL", 0),
		},
		Media: MediaConfig{
			Bucket:        getEnv("MEDIA_BUCKET", ""),
			Region:        firstEnv("AWS_REGION", "AWS_DEFAULT_REGION"),
			PublicBaseURL: getEnv("ASSETS_CDN_BASE_URL", "/uploads"),
			LocalDir:      getEnv("MEDIA_LOCAL_DIR", "./uploads"),
			MaxUploadSize: int64(getIntEnv("MEDIA_MAX_UPLOAD_SIZE", 20<<20)),
		},
		Secrets: SecretsConfig{
			Backend:   getEnv("SECRETS_BACKEND", SecretsLocal),
			MasterKey: getEnv("SECRETS_MASTER_KEY", ""),
			Region:    firstEnv("SECRETS_REGION", "AWS_REGION", "AWS_DEFAULT_REGION"),
			Prefix:    getEnv("SECRETS_PREFIX", "site-catalog/llm"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", logFormat),
		},
	}
	if cfg.Media.Region == "" {
		cfg.Media.Region = "eu-central-1"
	}
	if cfg.Secrets.Region == "" {
		cfg.Secrets.Region = cfg.Media.Region
	}

	catalog, err := loadCatalogConfig()
	if err != nil {
		return nil, err
	}
	cfg.Catalog = catalog
	return cfg, nil
}

func loadCatalogConfig() (CatalogConfig, error) {
	def, err := models.ParseUniquenessScope(getEnv("UNIQUENESS_SCOPE", string(models.ScopePerWebsite)))
	if err != nil {
		return CatalogConfig{}, fmt.Errorf("UNIQUENESS_SCOPE: %w", err)
	}
	c := CatalogConfig{DefaultScope: def, Overrides: map[models.EntityKind]models.UniquenessScope{}}
	for _, kind := range models.EntityKinds() {
		key := "UNIQUENESS_SCOPE_" + strings.ToUpper(string(kind))
		v, ok := os.LookupEnv(key)
		if !ok || v == "" {
			continue
		}
		s, err := models.ParseUniquenessScope(v)
		if err != nil {
			return CatalogConfig{}, fmt.Errorf("%s: %w", key, err)
		}
		c.Overrides[kind] = s
	}
	return c, nil
}

// Validate checks the settings every process needs.
func (c *Config) Validate() error {
	var errs []error
	if c.Mongo.URI == "" {
		errs = append(errs, errors.New("MONGODB_URI (or DATABASE_URL) is required"))
	}
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	switch c.Secrets.Backend {
	case SecretsLocal:
		if len(c.Secrets.MasterKey) < 32 {
			errs = append(errs, errors.New("SECRETS_MASTER_KEY must be at least 32 bytes for the local secrets backend"))
		}
	case SecretsAWS:
	default:
		errs = append(errs, fmt.Errorf("SECRETS_BACKEND %q is not one of %s, %s", c.Secrets.Backend, SecretsLocal, SecretsAWS))
	}
	return errors.Join(errs...)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func getIntEnv(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}
