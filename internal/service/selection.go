package service

import (
	"context"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"

	"site-catalog/internal/models"
	"site-catalog/internal/repository"
)

// SelectionService binds a user's session to one of the tenant's websites.
type SelectionService interface {
	// Select verifies ownership and records websiteID as current.
	Select(ctx context.Context, scope models.Scope, websiteID string) (*models.Website, error)
	// Current returns the verified current website id: the cookie value when
	// it passes the ownership check, else the stored selection, else "".
	Current(ctx context.Context, scope models.Scope, cookieValue string) (string, error)
}

type selectionService struct {
	store    repository.Store[models.WebsiteSelection]
	websites WebsiteService
	log      zerolog.Logger
}

func newSelectionService(store repository.Store[models.WebsiteSelection], websites WebsiteService, log zerolog.Logger) *selectionService {
	return &selectionService{
		store:    store,
		websites: websites,
		log:      log.With().Str("component", "selection").Logger(),
	}
}

func (s *selectionService) Select(ctx context.Context, scope models.Scope, websiteID string) (*models.Website, error) {
	if websiteID == "" {
		return nil, invalid("websiteId is required")
	}
	w, err := s.websites.Get(ctx, scope.TenantID, websiteID)
	if err != nil {
		return nil, err
	}

	_, err = s.store.Upsert(ctx, repository.Query{
		Match: bson.M{"_id": models.SelectionID(scope.TenantID, scope.UserID)},
	}, repository.Change{Set: bson.M{
		"tenantId":  scope.TenantID,
		"userId":    scope.UserID,
		"websiteId": w.ID.Hex(),
		"updatedAt": now(),
	}})
	if err != nil {
		return nil, err
	}
	return w, nil
}

func (s *selectionService) Current(ctx context.Context, scope models.Scope, cookieValue string) (string, error) {
	if cookieValue != "" {
		ok, err := s.owned(ctx, scope, cookieValue)
		if err != nil {
			return "", err
		}
		if ok {
			return cookieValue, nil
		}
		s.log.Warn().Str("tenant_id", scope.TenantID).Str("website_id", cookieValue).Msg("Ignoring website cookie outside tenant")
	}

	sel, err := s.store.FindOne(ctx, repository.Query{
		Match: bson.M{"_id": models.SelectionID(scope.TenantID, scope.UserID)},
	})
	if isNotFound(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	ok, err := s.owned(ctx, scope, sel.WebsiteID)
	if err != nil || !ok {
		return "", err
	}
	return sel.WebsiteID, nil
}

func (s *selectionService) owned(ctx context.Context, scope models.Scope, websiteID string) (bool, error) {
	_, err := s.websites.Get(ctx, scope.TenantID, websiteID)
	if isNotFound(err) {
		return false, nil
	}
	return err == nil, err
}
