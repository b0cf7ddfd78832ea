package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"site-catalog/internal/middleware"
	"site-catalog/internal/service"
)

// ContentHandler serves one content collection (pages or posts).
type ContentHandler struct {
	*Handler
	name    string
	content service.ContentService
}

// Content returns the handlers for one content service; name labels metrics.
func (h *Handler) Content(name string, svc service.ContentService) *ContentHandler {
	return &ContentHandler{Handler: h, name: name, content: svc}
}

// BySlug handles the public GET /api/<kind>/websites?id=&slug=.
func (h *ContentHandler) BySlug(c *gin.Context) {
	websiteID, slug := c.Query("id"), c.Query("slug")
	if websiteID == "" || slug == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id and slug are required"})
		return
	}
	item, err := h.content.BySlug(c.Request.Context(), websiteID, slug)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item})
}

func (h *ContentHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	result, err := h.content.List(c.Request.Context(), middleware.Scope(c), c.Query("websiteId"), page, pageSize)
	h.record(h.name, "list", err)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *ContentHandler) Get(c *gin.Context) {
	item, err := h.content.Get(c.Request.Context(), middleware.Scope(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item})
}

func (h *ContentHandler) Create(c *gin.Context) {
	var in service.ContentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	item, err := h.content.Create(c.Request.Context(), middleware.Scope(c), in)
	h.record(h.name, "create", err)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"item": item})
}

// Edit handles PATCH /api/<kind>/:id {tenantId, content, ...}.
func (h *ContentHandler) Edit(c *gin.Context) {
	var p service.ContentPatch
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	item, err := h.content.Edit(c.Request.Context(), middleware.Scope(c), c.Param("id"), p)
	h.record(h.name, "update", err)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item})
}

func (h *ContentHandler) Publish(c *gin.Context) {
	item, err := h.content.Publish(c.Request.Context(), middleware.Scope(c), c.Param("id"))
	h.record(h.name, "publish", err)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item})
}
