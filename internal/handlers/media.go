package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"site-catalog/internal/middleware"
	"site-catalog/internal/service"
)

// UploadMedia handles multipart POST /api/admin/media with a "file" part and
// optional "name" and "websiteId" fields.
func (h *Handler) UploadMedia(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.opts.MaxUploadSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read file"})
		return
	}
	defer file.Close()

	item, err := h.svc.Media.Upload(c.Request.Context(), middleware.Scope(c), service.Upload{
		WebsiteID:   c.PostForm("websiteId"),
		Name:        c.PostForm("name"),
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		Body:        file,
	})
	h.record("media", "create", err)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"item": item})
}

func (h *Handler) ListMedia(c *gin.Context) {
	items, err := h.svc.Media.List(c.Request.Context(), middleware.Scope(c), c.Query("websiteId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) DeleteMedia(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required"})
		return
	}
	err := h.svc.Media.Delete(c.Request.Context(), middleware.Scope(c), id)
	h.record("media", "delete", err)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
