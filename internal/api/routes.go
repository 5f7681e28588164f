package api

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aicuratorhub/curatorhub-admin/internal/core"
	pkgapi "github.com/aicuratorhub/curatorhub-admin/pkg/api"
)

// SetupRoutes mounts the admin API under /api/v1 and the health check at /health.
// Global middleware is expected to be installed on router already. conn may be
// nil for stores without a remote connection.
func SetupRoutes(router *gin.Engine, services *core.Services, conn StoreConnection, logger *zap.Logger) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	banners := NewBannerHandler(services.Banners, logger)

	entities := services.Entities()
	names := make([]string, 0, len(entities))
	for name := range entities {
		names = append(names, name)
	}
	sort.Strings(names)

	var apis []pkgapi.API
	for _, name := range names {
		h := NewEntityHandler(entities[name], logger)
		if name == services.Banners.Entity() {
			h.WithList(banners.List)
		}
		apis = append(apis, h)
	}
	for _, svc := range services.Reviewers() {
		apis = append(apis, NewReviewHandler(svc, logger))
	}
	apis = append(apis,
		NewUserHandler(services.Users, services.Recipes, logger),
		banners,
		NewCategoryHandler(services.Categories, logger),
		NewToolTranslationHandler(services.ToolTranslations, logger),
		NewAdminHandler(services, conn, logger),
	)

	pkgapi.Mount(router.Group("/api/v1"), apis...)
	logger.Info("API routes registered", zap.Int("groups", len(apis)))
}
