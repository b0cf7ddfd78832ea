package service

import (
	"context"
	"errors"
	"strings"

	"github.com/goliatone/go-slug"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"

	"site-catalog/internal/markup"
	"site-catalog/internal/models"
	"site-catalog/internal/repository"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	// maxPage keeps the skip offset far from overflow.
	maxPage = 100000
)

// ContentInput is the body of a create request.
type ContentInput struct {
	WebsiteID string `json:"websiteId"`
	Slug      string `json:"slug"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Format    string `json:"format"`
}

// ContentPatch replaces the given fields; content is replaced wholesale.
type ContentPatch struct {
	TenantID string  `json:"tenantId"`
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	Format   *string `json:"format"`
}

// ContentPage is one page of a listing.
type ContentPage struct {
	Items    []*models.Content `json:"items"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

// ContentService runs the draft -> published lifecycle of pages or posts.
type ContentService interface {
	Create(ctx context.Context, scope models.Scope, in ContentInput) (*models.Content, error)
	Get(ctx context.Context, scope models.Scope, id string) (*models.Content, error)
	Edit(ctx context.Context, scope models.Scope, id string, p ContentPatch) (*models.Content, error)
	Publish(ctx context.Context, scope models.Scope, id string) (*models.Content, error)
	List(ctx context.Context, scope models.Scope, websiteID string, page, pageSize int) (*ContentPage, error)
	// BySlug is the public read path and returns published documents only.
	BySlug(ctx context.Context, websiteID, slug string) (*models.Content, error)
}

type contentService struct {
	kind     models.ContentKind
	store    repository.Store[models.Content]
	websites WebsiteService
	renderer *markup.Renderer
	log      zerolog.Logger
}

func newContentService(kind models.ContentKind, store repository.Store[models.Content], websites WebsiteService, renderer *markup.Renderer, log zerolog.Logger) *contentService {
	return &contentService{
		kind:     kind,
		store:    store,
		websites: websites,
		renderer: renderer,
		log:      log.With().Str("component", "content").Str("collection", string(kind)).Logger(),
	}
}

func (s *contentService) Create(ctx context.Context, scope models.Scope, in ContentInput) (*models.Content, error) {
	if !scope.CanEditContent() {
		return nil, ErrForbidden
	}
	websiteID, err := websiteFor(ctx, s.websites, scope, in.WebsiteID)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, invalid("title is required")
	}
	source := in.Slug
	if source == "" {
		source = title
	}
	normalized, err := slug.Normalize(source)
	if err != nil || normalized == "" {
		return nil, invalid("slug: %q cannot be turned into a slug", source)
	}

	body, format, err := s.render(in.Format, in.Content)
	if err != nil {
		return nil, err
	}

	ts := now()
	doc := &models.Content{
		ID:        primitive.NewObjectID(),
		TenantID:  scope.TenantID,
		WebsiteID: websiteID,
		Slug:      normalized,
		Title:     title,
		Body:      body,
		Format:    format,
		Status:    models.StatusDraft,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	if format == models.FormatMarkdown {
		doc.Source = in.Content
	}
	if err := s.store.Insert(ctx, doc); err != nil {
		return nil, conflict(err, "slug %q", normalized)
	}
	s.log.Info().Str("tenant_id", scope.TenantID).Str("website_id", websiteID).Str("slug", normalized).Msg("Draft created")
	return doc, nil
}

// render sanitises content written in format, defaulting to HTML.
func (s *contentService) render(format, content string) (string, string, error) {
	if format == "" {
		format = models.FormatHTML
	}
	if format != models.FormatHTML && format != models.FormatMarkdown {
		return "", "", invalid("format must be %s or %s", models.FormatHTML, models.FormatMarkdown)
	}
	body, err := s.renderer.Render(format, content)
	if err != nil {
		return "", "", invalid("%s", err.Error())
	}
	return body, format, nil
}

func (s *contentService) Get(ctx context.Context, scope models.Scope, id string) (*models.Content, error) {
	oid, err := repository.ParseID(id)
	if err != nil {
		return nil, err
	}
	return s.store.FindOne(ctx, repository.Query{Match: bson.M{"_id": oid, "tenantId": scope.TenantID}})
}

func (s *contentService) Edit(ctx context.Context, scope models.Scope, id string, p ContentPatch) (*models.Content, error) {
	if !scope.CanEditContent() {
		return nil, ErrForbidden
	}
	if p.TenantID != "" && p.TenantID != scope.TenantID {
		return nil, ErrForbidden
	}
	current, err := s.Get(ctx, scope, id)
	if err != nil {
		return nil, err
	}

	change := repository.Change{Set: bson.M{}}
	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			return nil, invalid("title cannot be blank")
		}
		change.Set["title"] = title
	}
	if p.Content != nil || p.Format != nil {
		format := current.Format
		if p.Format != nil {
			format = *p.Format
		}
		content := current.Body
		if p.Content != nil {
			content = *p.Content
		} else if current.Format == models.FormatMarkdown {
			content = current.Source
		}

		body, format, err := s.render(format, content)
		if err != nil {
			return nil, err
		}
		change.Set["content"] = body
		change.Set["format"] = format
		if format == models.FormatMarkdown {
			change.Set["source"] = content
		} else {
			change.Unset = append(change.Unset, "source")
		}
	}
	if len(change.Set) == 0 {
		return nil, invalid("no valid fields to update")
	}
	change.Set["updatedAt"] = now()

	return s.store.Update(ctx, repository.Query{Match: bson.M{"_id": current.ID, "tenantId": scope.TenantID}}, change)
}

// Publish flips a draft to published and stamps publishedAt in the same
// conditional write, so concurrent publishes cannot both succeed.
func (s *contentService) Publish(ctx context.Context, scope models.Scope, id string) (*models.Content, error) {
	if !scope.CanEditContent() {
		return nil, ErrForbidden
	}
	oid, err := repository.ParseID(id)
	if err != nil {
		return nil, err
	}

	ts := now()
	doc, err := s.store.Update(ctx, repository.Query{
		Match: bson.M{"_id": oid, "tenantId": scope.TenantID, "status": models.StatusDraft},
	}, repository.Change{Set: bson.M{
		"status":      models.StatusPublished,
		"publishedAt": ts,
		"updatedAt":   ts,
	}})
	if errors.Is(err, repository.ErrNotFound) {
		if _, getErr := s.Get(ctx, scope, id); getErr != nil {
			return nil, getErr
		}
		return nil, ErrInvalidTransition
	}
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("tenant_id", scope.TenantID).Str("id", id).Msg("Published")
	return doc, nil
}

// List pages through the tenant's documents, newest first. Count and fetch
// run concurrently.
func (s *contentService) List(ctx context.Context, scope models.Scope, websiteID string, page, pageSize int) (*ContentPage, error) {
	if page < 1 {
		page = 1
	}
	if page > maxPage {
		page = maxPage
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	match := bson.M{"tenantId": scope.TenantID}
	if websiteID == "" {
		websiteID = scope.WebsiteID
	}
	if websiteID != "" {
		match["websiteId"] = websiteID
	}

	result := &ContentPage{Page: page, PageSize: pageSize}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		total, err := s.store.Count(gctx, repository.Query{Match: match})
		result.Total = total
		return err
	})
	g.Go(func() error {
		items, err := s.store.Find(gctx, repository.Query{
			Match:  match,
			SortBy: "updatedAt",
			Desc:   true,
			Skip:   int64(page-1) * int64(pageSize),
			Limit:  int64(pageSize),
		})
		result.Items = items
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *contentService) BySlug(ctx context.Context, websiteID, slugValue string) (*models.Content, error) {
	if websiteID == "" || slugValue == "" {
		return nil, repository.ErrNotFound
	}
	return s.store.FindOne(ctx, repository.Query{Match: bson.M{
		"websiteId": websiteID,
		"slug":      slugValue,
		"status":    models.StatusPublished,
	}})
}
