package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"site-catalog/internal/middleware"
	"site-catalog/internal/repository"
	"site-catalog/internal/service"
)

// ListWebsites handles GET /api/domain.
func (h *Handler) ListWebsites(c *gin.Context) {
	items, err := h.svc.Websites.List(c.Request.Context(), middleware.Scope(c).TenantID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// CreateWebsite handles POST /api/domain.
func (h *Handler) CreateWebsite(c *gin.Context) {
	var in service.WebsiteInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	item, err := h.svc.Websites.Create(c.Request.Context(), middleware.Scope(c).TenantID, in)
	h.record("website", "create", err)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"item": item})
}

type websiteUpdateRequest struct {
	ID string `json:"id"`
	service.WebsitePatch
}

// UpdateWebsite handles PATCH /api/domain with the id in the body.
func (h *Handler) UpdateWebsite(c *gin.Context) {
	var req websiteUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required"})
		return
	}

	item, err := h.svc.Websites.Update(c.Request.Context(), middleware.Scope(c).TenantID, req.ID, req.WebsitePatch)
	h.record("website", "update", err)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item})
}

// ResolveDomain handles GET /api/domain/:host.
func (h *Handler) ResolveDomain(c *gin.Context) {
	w, err := h.svc.Resolver.Resolve(c.Request.Context(), c.Param("host"))
	h.recordLookup(err)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "website not found"})
		return
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": w.ID.Hex()})
}

func (h *Handler) recordLookup(err error) {
	if h.metrics == nil {
		return
	}
	switch {
	case err == nil:
		h.metrics.RecordDomainLookup("hit")
	case errors.Is(err, repository.ErrNotFound):
		h.metrics.RecordDomainLookup("miss")
	default:
		h.metrics.RecordDomainLookup("error")
	}
}
