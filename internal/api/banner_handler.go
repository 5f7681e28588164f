package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aicuratorhub/curatorhub-admin/internal/core"
	"github.com/aicuratorhub/curatorhub-admin/internal/models"
)

type BannerHandler struct {
	banners *core.BannerService
	logger  *zap.Logger
}

func NewBannerHandler(banners *core.BannerService, logger *zap.Logger) *BannerHandler {
	return &BannerHandler{banners: banners, logger: logger}
}

func (h *BannerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/" + h.banners.Entity())
	g.GET("/:id/status", h.Status)
	g.PUT("/:id/priority", h.SetPriority)
}

// List handles GET /banners?spot=, ordered by priority with the derived display status.
func (h *BannerHandler) List(c *gin.Context) {
	banners, err := h.banners.BySpot(c.Request.Context(), c.Query("spot"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, ListResponse{Items: h.banners.WithStatus(banners), Count: len(banners)})
}

// Status handles GET /banners/:id/status
func (h *BannerHandler) Status(c *gin.Context) {
	id := c.Param("id")
	status, err := h.banners.Status(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "status": status})
}

// SetPriority handles PUT /banners/:id/priority
func (h *BannerHandler) SetPriority(c *gin.Context) {
	var req models.PriorityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload", err)
		return
	}
	id := c.Param("id")
	if err := h.banners.SetPriority(c.Request.Context(), id, *req.Priority); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "updated", Data: gin.H{"id": id, "priority": *req.Priority}})
}
