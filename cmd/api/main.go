package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"site-catalog/internal/config"
	"site-catalog/internal/database"
	"site-catalog/internal/handlers"
	"site-catalog/internal/metrics"
	"site-catalog/internal/repository"
	"site-catalog/internal/routes"
	"site-catalog/internal/secrets"
	"site-catalog/internal/service"
	"site-catalog/internal/storage"
	"site-catalog/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		boot := logger.New("info", "json")
		boot.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	log.Info().Str("env", cfg.Env).Msg("Starting site catalog API")

	ctx := context.Background()

	client, err := database.Connect(ctx, cfg.Mongo, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("Failed to disconnect from database")
		}
	}()
	db := client.Database(cfg.Mongo.Database)

	specs := database.Catalogue(database.CatalogueOptions{
		ScopeFor:     cfg.Catalog.ScopeFor,
		SelectionTTL: cfg.Auth.SelectionTTL,
	})
	if cfg.Mongo.AutoProvision {
		if err := database.Provision(ctx, db, specs, log); err != nil {
			log.Fatal().Err(err).Msg("Failed to provision collections")
		}
	} else {
		warnIndexDrift(ctx, db, specs, log)
	}

	objects, localMedia, err := newObjectStore(ctx, cfg.Media)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialise media storage")
	}
	sealer, err := newSealer(ctx, cfg.Secrets)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialise secrets backend")
	}

	repos := repository.NewMongo(db)
	services := service.NewServices(repos, service.Deps{Objects: objects, Sealer: sealer}, cfg, log)
	defer services.Resolver.Close()

	if cfg.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	m := metrics.New()
	h := handlers.New(services, m, handlers.Options{
		CookieSecure:  cfg.Auth.CookieSecure,
		CookieMaxAge:  cfg.Auth.SelectionTTL,
		MaxUploadSize: cfg.Media.MaxUploadSize,
		Ping: func(ctx context.Context) error {
			return client.Ping(ctx, readpref.Primary())
		},
	})

	routeCfg := routes.Config{JWTSecret: cfg.Auth.JWTSecret, AllowedOrigin: cfg.Server.AllowedOrigin}
	if localMedia {
		routeCfg.LocalMediaPath = cfg.Media.PublicBaseURL
		routeCfg.LocalMediaDir = cfg.Media.LocalDir
	}
	routes.RegisterRoutes(router, h, services, m, routeCfg, log)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
		return
	}
	log.Info().Msg("Server exited gracefully")
}

// warnIndexDrift logs indexes the catalogue expects but the database lacks,
// and catalogue indexes left over from other settings. Uniqueness rests on
// these indexes, so either case means duplicates are not rejected as
// configured until cmd/provision runs.
func warnIndexDrift(ctx context.Context, db *mongo.Database, specs []database.CollectionSpec, log zerolog.Logger) {
	drift, err := database.Inspect(ctx, db, specs)
	if err != nil {
		log.Error().Err(err).Msg("Failed to inspect indexes")
		return
	}
	for coll, names := range drift.Missing {
		log.Warn().Str("collection", coll).Strs("indexes", names).Msg("Indexes missing; run cmd/provision")
	}
	for coll, names := range drift.Stale {
		log.Warn().Str("collection", coll).Strs("indexes", names).Msg("Stale indexes still enforced; run cmd/provision")
	}
}

// newObjectStore picks S3 when a bucket is configured and the local
// directory otherwise. local reports whether the files must be served by
// this process.
func newObjectStore(ctx context.Context, cfg config.MediaConfig) (storage.ObjectStore, bool, error) {
	if cfg.Bucket != "" {
		s, err := storage.NewS3StoreFromEnv(ctx, cfg.Region, cfg.Bucket, cfg.PublicBaseURL)
		return s, false, err
	}
	if err := os.MkdirAll(cfg.LocalDir, 0o755); err != nil {
		return nil, false, err
	}
	return storage.NewLocalStore(cfg.LocalDir, cfg.PublicBaseURL), strings.HasPrefix(cfg.PublicBaseURL, "/"), nil
}

func newSealer(ctx context.Context, cfg config.SecretsConfig) (secrets.Sealer, error) {
	if cfg.Backend == config.SecretsAWS {
		return secrets.NewAWSSealerFromEnv(ctx, cfg.Region, cfg.Prefix)
	}
	return secrets.NewLocalSealer(cfg.MasterKey)
}

