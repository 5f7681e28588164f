package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aicuratorhub/curatorhub-admin/internal/core"
	"github.com/aicuratorhub/curatorhub-admin/internal/models"
)

type CategoryHandler struct {
	categories *core.CategoryService
	logger     *zap.Logger
}

func NewCategoryHandler(categories *core.CategoryService, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{categories: categories, logger: logger}
}

func (h *CategoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/categories")
	g.GET("", h.List)
	g.GET("/stats", h.Stats)
	g.GET("/:id/tools", h.Tools)
	g.PUT("/:id", h.Save)
}

// List handles GET /categories
func (h *CategoryHandler) List(c *gin.Context) {
	views, err := h.categories.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, ListResponse{Items: views, Count: len(views)})
}

// Stats handles GET /categories/stats
func (h *CategoryHandler) Stats(c *gin.Context) {
	stats, err := h.categories.Statistics(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Tools handles GET /categories/:id/tools
func (h *CategoryHandler) Tools(c *gin.Context) {
	tools, err := h.categories.ToolsByCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, ListResponse{Items: tools, Count: len(tools)})
}

// Save handles PUT /categories/:id
func (h *CategoryHandler) Save(c *gin.Context) {
	var req models.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload", err)
		return
	}
	id := c.Param("id")
	if _, ok := models.CategoryByID(id); !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Unknown category", Details: id})
		return
	}
	if err := h.categories.Save(c.Request.Context(), id, req.Data); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "saved", Data: gin.H{"id": id}})
}
