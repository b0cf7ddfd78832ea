package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"site-catalog/internal/models"
)

const scopeKey = "scope"

// Claims are issued by the identity provider in front of the dashboard.
type Claims struct {
	UserID   string `json:"user_id"`
	TenantID string `json:"tenant_id"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// AuthFailureRecorder counts rejected requests.
type AuthFailureRecorder interface {
	RecordAuthFailure()
}

// Auth enforces a valid HMAC-signed bearer token and stores the caller's
// scope in the context.
func Auth(secret string, rec AuthFailureRecorder) gin.HandlerFunc {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}))
	keyFunc := func(*jwt.Token) (interface{}, error) { return []byte(secret), nil }

	reject := func(c *gin.Context, msg string, err error) {
		if rec != nil {
			rec.RecordAuthFailure()
		}
		Logger(c).Debug().Err(err).Msg(msg)
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
	}

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			reject(c, "Authorization header required", nil)
			return
		}
		tokenParts := strings.Fields(authHeader)
		if len(tokenParts) != 2 || !strings.EqualFold(tokenParts[0], "Bearer") {
			reject(c, "Invalid authorization format", nil)
			return
		}

		var claims Claims
		token, err := parser.ParseWithClaims(tokenParts[1], &claims, keyFunc)
		if err != nil || !token.Valid {
			reject(c, "Invalid token", err)
			return
		}
		if claims.UserID == "" {
			claims.UserID = claims.Subject
		}
		if claims.UserID == "" || claims.TenantID == "" {
			reject(c, "Token is missing user or tenant", nil)
			return
		}

		c.Set(scopeKey, models.Scope{
			TenantID: claims.TenantID,
			UserID:   claims.UserID,
			Role:     claims.Role,
		})
		if l, ok := c.Get(loggerKey); ok {
			scoped := l.(zerolog.Logger).With().
				Str("tenant_id", claims.TenantID).
				Str("user_id", claims.UserID).
				Logger()
			c.Set(loggerKey, scoped)
		}
		c.Next()
	}
}

// Scope returns the caller's scope set by Auth and BindWebsite.
func Scope(c *gin.Context) models.Scope {
	if v, ok := c.Get(scopeKey); ok {
		if s, ok := v.(models.Scope); ok {
			return s
		}
	}
	return models.Scope{}
}

// SetScope replaces the caller's scope.
func SetScope(c *gin.Context, s models.Scope) {
	c.Set(scopeKey, s)
}

// RequireEditor rejects callers whose role may not write content.
func RequireEditor() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !Scope(c).CanEditContent() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
			return
		}
		c.Next()
	}
}
