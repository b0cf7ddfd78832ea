package service

import (
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"site-catalog/internal/models"
	"site-catalog/internal/repository"
	"site-catalog/internal/secrets"
)

// LLMInput is the body of the llmSetting endpoints. The key arrives as
// "secreteKey", which is what the dashboard sends; "secretKey" is accepted too.
type LLMInput struct {
	ID         string `json:"_id"`
	Name       string `json:"name"`
	Model      string `json:"model"`
	SecreteKey string `json:"secreteKey"`
	SecretKey  string `json:"secretKey"`
	IsActive   *bool  `json:"isActive"`
}

func (in LLMInput) secret() string {
	if in.SecreteKey != "" {
		return in.SecreteKey
	}
	return in.SecretKey
}

// LLMService stores per-tenant provider credentials. Keys are sealed before
// they reach the store and never leave it in clear except via Credentials.
type LLMService interface {
	List(ctx context.Context, tenantID string) ([]*models.LLMSetting, error)
	Create(ctx context.Context, tenantID string, in LLMInput) (*models.LLMSetting, error)
	Update(ctx context.Context, tenantID, id string, in LLMInput) (*models.LLMSetting, error)
	Delete(ctx context.Context, tenantID, id string) error
	// Credentials opens the key of the tenant's active setting for provider.
	Credentials(ctx context.Context, tenantID, provider string) (key, model string, err error)
}

type llmService struct {
	store  repository.Store[models.LLMSetting]
	sealer secrets.Sealer
	log    zerolog.Logger
}

func newLLMService(store repository.Store[models.LLMSetting], sealer secrets.Sealer, log zerolog.Logger) *llmService {
	return &llmService{
		store:  store,
		sealer: sealer,
		log:    log.With().Str("component", "llm_settings").Logger(),
	}
}

func (s *llmService) List(ctx context.Context, tenantID string) ([]*models.LLMSetting, error) {
	return s.store.Find(ctx, repository.Query{Match: bson.M{"tenantId": tenantID}, SortBy: "name"})
}

func (s *llmService) Create(ctx context.Context, tenantID string, in LLMInput) (*models.LLMSetting, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Model = strings.TrimSpace(in.Model)
	key := in.secret()
	if err := (validation.Errors{
		"name":       validation.Validate(in.Name, validation.Required, validation.Length(1, 100)),
		"model":      validation.Validate(in.Model, validation.Required, validation.Length(1, 200)),
		"secreteKey": validation.Validate(key, validation.Required),
	}).Filter(); err != nil {
		return nil, invalid("%s", err.Error())
	}

	sealed, err := s.sealer.Seal(ctx, tenantID, in.Name, key)
	if err != nil {
		return nil, err
	}

	ts := now()
	doc := &models.LLMSetting{
		ID:               primitive.NewObjectID(),
		TenantID:         tenantID,
		Name:             in.Name,
		Model:            in.Model,
		SecretRef:        sealed.Ref,
		SecretCiphertext: sealed.Ciphertext,
		SecretHint:       secrets.Hint(key),
		IsActive:         in.IsActive == nil || *in.IsActive,
		CreatedAt:        ts,
		UpdatedAt:        ts,
	}
	if err := s.store.Insert(ctx, doc); err != nil {
		s.destroy(ctx, tenantID, sealed)
		return nil, conflict(err, "an active %s setting", in.Name)
	}
	s.log.Info().Str("tenant_id", tenantID).Str("provider", in.Name).Msg("LLM setting created")
	return doc, nil
}

func (s *llmService) Update(ctx context.Context, tenantID, id string, in LLMInput) (*models.LLMSetting, error) {
	oid, err := repository.ParseID(id)
	if err != nil {
		return nil, err
	}
	q := repository.Query{Match: bson.M{"_id": oid, "tenantId": tenantID}}
	current, err := s.store.FindOne(ctx, q)
	if err != nil {
		return nil, err
	}

	change := repository.Change{Set: bson.M{}}
	if name := strings.TrimSpace(in.Name); name != "" {
		change.Set["name"] = name
	}
	if model := strings.TrimSpace(in.Model); model != "" {
		change.Set["model"] = model
	}
	if in.IsActive != nil {
		change.Set["isActive"] = *in.IsActive
	}

	var sealed secrets.Sealed
	if key := in.secret(); key != "" {
		name := current.Name
		if n, ok := change.Set["name"].(string); ok {
			name = n
		}
		sealed, err = s.sealer.Seal(ctx, tenantID, name, key)
		if err != nil {
			return nil, err
		}
		change.Set["secretHint"] = secrets.Hint(key)
		setOrUnset(&change, "secretRef", sealed.Ref)
		setOrUnset(&change, "secretCiphertext", sealed.Ciphertext)
	}
	if len(change.Set) == 0 {
		return nil, invalid("no valid fields to update")
	}
	change.Set["updatedAt"] = now()

	updated, err := s.store.Update(ctx, q, change)
	if err != nil {
		s.destroy(ctx, tenantID, sealed)
		return nil, conflict(err, "an active %s setting", current.Name)
	}
	if sealed != (secrets.Sealed{}) {
		s.destroy(ctx, tenantID, secrets.Sealed{Ref: current.SecretRef, Ciphertext: current.SecretCiphertext})
	}
	return updated, nil
}

func setOrUnset(c *repository.Change, field, value string) {
	if value == "" {
		c.Unset = append(c.Unset, field)
		return
	}
	c.Set[field] = value
}

func (s *llmService) Delete(ctx context.Context, tenantID, id string) error {
	oid, err := repository.ParseID(id)
	if err != nil {
		return err
	}
	q := repository.Query{Match: bson.M{"_id": oid, "tenantId": tenantID}}
	doc, err := s.store.FindOne(ctx, q)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, q); err != nil {
		return err
	}
	s.destroy(ctx, tenantID, secrets.Sealed{Ref: doc.SecretRef, Ciphertext: doc.SecretCiphertext})
	return nil
}

func (s *llmService) Credentials(ctx context.Context, tenantID, provider string) (string, string, error) {
	doc, err := s.store.FindOne(ctx, repository.Query{Match: bson.M{
		"tenantId": tenantID,
		"name":     provider,
		"isActive": true,
	}})
	if err != nil {
		return "", "", err
	}
	key, err := s.sealer.Open(ctx, tenantID, secrets.Sealed{Ref: doc.SecretRef, Ciphertext: doc.SecretCiphertext})
	if err != nil {
		return "", "", err
	}
	return key, doc.Model, nil
}

func (s *llmService) destroy(ctx context.Context, tenantID string, sealed secrets.Sealed) {
	if sealed == (secrets.Sealed{}) {
		return
	}
	if err := s.sealer.Destroy(ctx, tenantID, sealed); err != nil {
		s.log.Warn().Err(err).Str("tenant_id", tenantID).Msg("Failed to destroy replaced secret")
	}
}
