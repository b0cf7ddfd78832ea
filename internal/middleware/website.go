package middleware

import (
	"github.com/gin-gonic/gin"

	"site-catalog/internal/service"
)

// WebsiteCookie holds the id of the website the admin is working on.
const WebsiteCookie = "current_website_id"

// BindWebsite resolves the current website from the cookie or the stored
// selection and adds it to the scope once it passes the ownership check.
// An unverified cookie leaves the scope unbound.
func BindWebsite(selection service.SelectionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		scope := Scope(c)
		cookie, _ := c.Cookie(WebsiteCookie)

		websiteID, err := selection.Current(c.Request.Context(), scope, cookie)
		if err != nil {
			Logger(c).Error().Err(err).Msg("Failed to resolve current website")
			websiteID = ""
		}
		SetScope(c, scope.WithWebsite(websiteID))
		c.Next()
	}
}
