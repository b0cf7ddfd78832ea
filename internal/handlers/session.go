package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"site-catalog/internal/middleware"
)

type selectWebsiteRequest struct {
	WebsiteID string `json:"websiteId"`
}

// SelectWebsite handles POST /api/session/website. The cookie is only set
// once the website is verified to belong to the caller's tenant.
func (h *Handler) SelectWebsite(c *gin.Context) {
	var req selectWebsiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	w, err := h.svc.Selection.Select(c.Request.Context(), middleware.Scope(c), req.WebsiteID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.WebsiteCookie, w.ID.Hex(), int(h.opts.CookieMaxAge.Seconds()), "/", "", h.opts.CookieSecure, true)
	c.JSON(http.StatusOK, gin.H{"websiteId": w.ID.Hex()})
}

// CurrentWebsite handles GET /api/session/website. BindWebsite has already
// verified the id, so an unowned cookie reads back as "".
func (h *Handler) CurrentWebsite(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"websiteId": middleware.Scope(c).WebsiteID})
}
