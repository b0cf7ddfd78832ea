package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"site-catalog/internal/middleware"
	"site-catalog/internal/models"
	"site-catalog/internal/service"
)

func (h *Handler) catalogService(c *gin.Context) (models.EntityKind, service.CatalogService, bool) {
	kind, err := models.ParseEntityKind(c.Param("entity"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return "", nil, false
	}
	svc, ok := h.svc.Catalog.For(kind)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported entity"})
		return "", nil, false
	}
	return kind, svc, true
}

// GetEntities handles GET /api/admin/:entity, listing or fetching by ?id=.
func (h *Handler) GetEntities(c *gin.Context) {
	kind, svc, ok := h.catalogService(c)
	if !ok {
		return
	}
	scope := middleware.Scope(c)

	if id := c.Query("id"); id != "" {
		item, err := svc.Get(c.Request.Context(), scope, id)
		h.record(string(kind), "get", err)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"item": item})
		return
	}

	items, err := svc.List(c.Request.Context(), scope, c.Query("websiteId"))
	h.record(string(kind), "list", err)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// CreateEntity handles POST /api/admin/:entity.
func (h *Handler) CreateEntity(c *gin.Context) {
	kind, svc, ok := h.catalogService(c)
	if !ok {
		return
	}
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	item, err := svc.Create(c.Request.Context(), middleware.Scope(c), body)
	h.record(string(kind), "create", err)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"item": item})
}

// UpdateEntity handles PATCH /api/admin/:entity with the id in the body.
func (h *Handler) UpdateEntity(c *gin.Context) {
	kind, svc, ok := h.catalogService(c)
	if !ok {
		return
	}
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	id := idFromBody(body)
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required"})
		return
	}

	item, err := svc.Update(c.Request.Context(), middleware.Scope(c), id, body)
	h.record(string(kind), "update", err)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item})
}

// DeleteEntity handles DELETE /api/admin/:entity with ?id= or a body id.
func (h *Handler) DeleteEntity(c *gin.Context) {
	kind, svc, ok := h.catalogService(c)
	if !ok {
		return
	}
	id := c.Query("id")
	if id == "" {
		body, _ := c.GetRawData()
		id = idFromBody(body)
	}
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required"})
		return
	}

	err := svc.Delete(c.Request.Context(), middleware.Scope(c), id)
	h.record(string(kind), "delete", err)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
