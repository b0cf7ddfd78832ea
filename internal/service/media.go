package service

import (
	"context"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"site-catalog/internal/models"
	"site-catalog/internal/repository"
	"site-catalog/internal/storage"
)

// Upload describes one file received from the admin.
type Upload struct {
	WebsiteID   string
	Name        string
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type MediaService interface {
	Upload(ctx context.Context, scope models.Scope, u Upload) (*models.Media, error)
	List(ctx context.Context, scope models.Scope, websiteID string) ([]*models.Media, error)
	Delete(ctx context.Context, scope models.Scope, id string) error
}

type mediaService struct {
	store    repository.Store[models.Media]
	objects  storage.ObjectStore
	websites WebsiteService
	log      zerolog.Logger
}

func newMediaService(store repository.Store[models.Media], objects storage.ObjectStore, websites WebsiteService, log zerolog.Logger) *mediaService {
	return &mediaService{
		store:    store,
		objects:  objects,
		websites: websites,
		log:      log.With().Str("component", "media").Logger(),
	}
}

// Upload stores the bytes under tenant/website/<uuid><ext> and records the
// document. The object is removed again when the document cannot be written.
func (s *mediaService) Upload(ctx context.Context, scope models.Scope, u Upload) (*models.Media, error) {
	websiteID, err := websiteFor(ctx, s.websites, scope, u.WebsiteID)
	if err != nil {
		return nil, err
	}
	if u.Body == nil || u.Filename == "" {
		return nil, invalid("file is required")
	}
	name := strings.TrimSpace(u.Name)
	if name == "" {
		name = path.Base(u.Filename)
	}

	key := path.Join(scope.TenantID, websiteID, uuid.NewString()+strings.ToLower(path.Ext(u.Filename)))
	url, err := s.objects.Put(ctx, key, u.Body, u.Size, u.ContentType)
	if err != nil {
		return nil, err
	}

	ts := now()
	doc := &models.Media{
		Record: models.Record{
			ID:        primitive.NewObjectID(),
			TenantID:  scope.TenantID,
			WebsiteID: websiteID,
			Name:      name,
			NameKey:   models.FoldName(name),
			CreatedAt: ts,
			UpdatedAt: ts,
		},
		Key:         key,
		URL:         url,
		ContentType: u.ContentType,
		Size:        u.Size,
	}
	if err := s.store.Insert(ctx, doc); err != nil {
		if delErr := s.objects.Delete(ctx, key); delErr != nil {
			s.log.Error().Err(delErr).Str("key", key).Msg("Failed to remove orphaned object")
		}
		return nil, conflict(err, "media %q", name)
	}
	s.log.Info().Str("tenant_id", scope.TenantID).Str("website_id", websiteID).Str("key", key).Int64("size", u.Size).Msg("Media uploaded")
	return doc, nil
}

func (s *mediaService) List(ctx context.Context, scope models.Scope, websiteID string) ([]*models.Media, error) {
	match := bson.M{"tenantId": scope.TenantID}
	if websiteID == "" {
		websiteID = scope.WebsiteID
	}
	if websiteID != "" {
		match["websiteId"] = websiteID
	}
	return s.store.Find(ctx, repository.Query{Match: match, SortBy: "createdAt", Desc: true})
}

// Delete removes the document first; a failure to remove the object only
// leaves an unreferenced file behind and is logged.
func (s *mediaService) Delete(ctx context.Context, scope models.Scope, id string) error {
	oid, err := repository.ParseID(id)
	if err != nil {
		return err
	}
	q := repository.Query{Match: bson.M{"_id": oid, "tenantId": scope.TenantID}}
	doc, err := s.store.FindOne(ctx, q)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, q); err != nil {
		return err
	}
	if err := s.objects.Delete(ctx, doc.Key); err != nil {
		s.log.Error().Err(err).Str("key", doc.Key).Msg("Failed to delete object")
	}
	return nil
}
