package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"site-catalog/internal/metrics"
	"site-catalog/internal/middleware"
	"site-catalog/internal/repository"
	"site-catalog/internal/service"
)

// Options tune request handling.
type Options struct {
	CookieSecure  bool
	CookieMaxAge  time.Duration
	MaxUploadSize int64
	// Ping reports datastore health for /health; nil means always healthy.
	Ping func(ctx context.Context) error
}

// Handler serves every HTTP endpoint on top of the services.
type Handler struct {
	svc     *service.Services
	metrics *metrics.Metrics
	opts    Options
}

func New(svc *service.Services, m *metrics.Metrics, opts Options) *Handler {
	if opts.MaxUploadSize <= 0 {
		opts.MaxUploadSize = 20 << 20
	}
	return &Handler{svc: svc, metrics: m, opts: opts}
}

// writeError maps service and store errors to a status and a {error} body.
// Unexpected errors are logged and reported without their text.
func writeError(c *gin.Context, err error) {
	var ve *service.ValidationError
	var ce *service.ConflictError

	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Message})
	case errors.Is(err, repository.ErrInvalidID):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.As(err, &ce):
		c.JSON(http.StatusConflict, gin.H{"error": ce.Message})
	case errors.Is(err, repository.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "already exists"})
	case errors.Is(err, service.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": "only drafts can be published"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	default:
		middleware.Logger(c).Error().Err(err).Str("path", c.FullPath()).Msg("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// outcome labels an operation result for metrics.
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, service.ErrValidation), errors.Is(err, repository.ErrInvalidID):
		return "invalid"
	case errors.Is(err, repository.ErrNotFound):
		return "not_found"
	case errors.Is(err, repository.ErrConflict), errors.Is(err, service.ErrInvalidTransition):
		return "conflict"
	case errors.Is(err, service.ErrForbidden):
		return "forbidden"
	}
	return "error"
}

func (h *Handler) record(entity, op string, err error) {
	if h.metrics != nil {
		h.metrics.RecordOperation(entity, op, outcome(err))
	}
}

// idFromBody reads "id" or "_id" from a JSON body.
func idFromBody(body []byte) string {
	var ref struct {
		ID      string `json:"id"`
		MongoID string `json:"_id"`
	}
	if err := json.Unmarshal(body, &ref); err != nil {
		return ""
	}
	if ref.ID != "" {
		return ref.ID
	}
	return ref.MongoID
}

// Health reports liveness and datastore reachability.
func (h *Handler) Health(c *gin.Context) {
	if h.opts.Ping != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.opts.Ping(ctx); err != nil {
			middleware.Logger(c).Error().Err(err).Msg("Health check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
