package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aicuratorhub/curatorhub-admin/internal/core"
	"github.com/aicuratorhub/curatorhub-admin/internal/db"
)

// UserHandler serves the per-user views: owned sub-collections and recipes.
type UserHandler struct {
	users   *core.UserService
	recipes *core.RecipeService
	logger  *zap.Logger
}

func NewUserHandler(users *core.UserService, recipes *core.RecipeService, logger *zap.Logger) *UserHandler {
	return &UserHandler{users: users, recipes: recipes, logger: logger}
}

func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/" + h.users.Entity())
	g.GET("/:id/favorites", h.records(h.users.Favorites))
	g.GET("/:id/reviews", h.records(h.users.Reviews))
	g.GET("/:id/ai-sets", h.records(h.users.AISets))
	g.GET("/:id/recipes", h.records(h.recipes.ByUser))
	g.GET("/:id/recipes/:recipeId", h.UserRecipe)
}

func (h *UserHandler) records(read func(ctx context.Context, uid string) ([]db.Record, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		records, err := read(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
		c.JSON(http.StatusOK, ListResponse{Items: records, Count: len(records)})
	}
}

// UserRecipe handles GET /users/:id/recipes/:recipeId. Recipes of other users are not found.
func (h *UserHandler) UserRecipe(c *gin.Context) {
	recipe, err := h.recipes.UserRecipe(c.Request.Context(), c.Param("id"), c.Param("recipeId"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}
