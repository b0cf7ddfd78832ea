package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"site-catalog/internal/handlers"
	"site-catalog/internal/metrics"
	"site-catalog/internal/middleware"
	"site-catalog/internal/service"
)

// Config carries the settings the router needs.
type Config struct {
	JWTSecret     string
	AllowedOrigin string
	// LocalMediaPath, when set, serves uploaded files from LocalMediaDir.
	LocalMediaPath string
	LocalMediaDir  string
}

// RegisterRoutes mounts every endpoint on router. Paths no route claims fall
// through to the public page renderer.
func RegisterRoutes(router *gin.Engine, h *handlers.Handler, svc *service.Services, m *metrics.Metrics, cfg Config, log zerolog.Logger) {
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.CORS(cfg.AllowedOrigin))
	router.Use(m.Middleware())

	router.GET("/health", h.Health)
	router.GET("/metrics", gin.WrapH(m.Handler()))
	if cfg.LocalMediaPath != "" {
		router.Static(cfg.LocalMediaPath, cfg.LocalMediaDir)
	}

	pages := h.Content("pages", svc.Pages)
	posts := h.Content("posts", svc.Posts)

	api := router.Group("/api")

	// Public reads used by rendered sites.
	api.GET("/domain/:host", h.ResolveDomain)
	api.GET("/pages/websites", pages.BySlug)
	api.GET("/posts/websites", posts.BySlug)

	authed := api.Group("")
	authed.Use(middleware.Auth(cfg.JWTSecret, m), middleware.BindWebsite(svc.Selection))
	{
		authed.GET("/domain", h.ListWebsites)
		authed.POST("/domain", h.CreateWebsite)
		authed.PATCH("/domain", h.UpdateWebsite)

		authed.GET("/session/website", h.CurrentWebsite)
		authed.POST("/session/website", h.SelectWebsite)

		admin := authed.Group("/admin")
		{
			media := admin.Group("/media")
			media.GET("", h.ListMedia)
			media.POST("", h.UploadMedia)
			media.DELETE("", h.DeleteMedia)

			llm := admin.Group("/llmSetting", middleware.RequireEditor())
			llm.GET("", h.ListLLMSettings)
			llm.POST("", h.CreateLLMSetting)
			llm.PUT("", h.UpdateLLMSetting)
			llm.DELETE("", h.DeleteLLMSetting)

			admin.GET("/:entity", h.GetEntities)
			admin.POST("/:entity", h.CreateEntity)
			admin.PATCH("/:entity", h.UpdateEntity)
			admin.DELETE("/:entity", h.DeleteEntity)
		}

		for prefix, ch := range map[string]*handlers.ContentHandler{"/pages": pages, "/posts": posts} {
			g := authed.Group(prefix)
			g.GET("", ch.List)
			g.POST("", ch.Create)
			g.GET("/:id", ch.Get)
			g.PATCH("/:id", ch.Edit)
			g.POST("/:id/publish", ch.Publish)
		}
	}

	router.NoRoute(h.RenderPage)
}
