package handlers

import (
	"errors"
	"html/template"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"site-catalog/internal/middleware"
	"site-catalog/internal/repository"
)

const homeSlug = "home"

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
</head>
<body>
<main>{{.Body}}</main>
</body>
</html>
`))

type pageView struct {
	Title string
	// Body was sanitised when the page was saved.
	Body template.HTML
}

// RenderPage serves published pages of the website the Host header resolves
// to. It is mounted as the NoRoute handler so API paths never reach it.
func (h *Handler) RenderPage(c *gin.Context) {
	path := c.Request.URL.Path
	if (c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead) ||
		path == "/api" || strings.HasPrefix(path, "/api/") {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	ctx := c.Request.Context()
	w, err := h.svc.Resolver.Resolve(ctx, c.Request.Host)
	h.recordLookup(err)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			middleware.Logger(c).Error().Err(err).Str("host", c.Request.Host).Msg("Failed to resolve host")
		}
		c.String(http.StatusNotFound, "404 Not Found")
		return
	}

	slug := strings.Trim(path, "/")
	if slug == "" {
		slug = homeSlug
	}
	page, err := h.svc.Pages.BySlug(ctx, w.ID.Hex(), slug)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			middleware.Logger(c).Error().Err(err).Str("slug", slug).Msg("Failed to load page")
		}
		c.String(http.StatusNotFound, "Page not found or content unavailable")
		return
	}

	c.Status(http.StatusOK)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(c.Writer, pageView{Title: page.Title, Body: template.HTML(page.Body)}); err != nil {
		middleware.Logger(c).Error().Err(err).Msg("Failed to render page")
	}
}
