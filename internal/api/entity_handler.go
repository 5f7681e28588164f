package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aicuratorhub/curatorhub-admin/internal/core"
	"github.com/aicuratorhub/curatorhub-admin/internal/models"
)

// EntityHandler serves generic CRUD for one entity under /<entity>.
type EntityHandler struct {
	svc    core.EntityService
	logger *zap.Logger
	list   gin.HandlerFunc
}

// NewEntityHandler creates the CRUD endpoints of svc.
func NewEntityHandler(svc core.EntityService, logger *zap.Logger) *EntityHandler {
	h := &EntityHandler{svc: svc, logger: logger.With(zap.String("entity", svc.Entity()))}
	h.list = h.List
	return h
}

// WithList replaces the collection read, for entities that shape their list.
func (h *EntityHandler) WithList(list gin.HandlerFunc) *EntityHandler {
	h.list = list
	return h
}

func (h *EntityHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/" + h.svc.Entity())
	g.GET("", h.list)
	g.GET("/:id", h.Get)
	g.POST("", h.Create)
	g.PATCH("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

// List handles GET /<entity>
func (h *EntityHandler) List(c *gin.Context) {
	records, err := h.svc.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, ListResponse{Items: records, Count: len(records)})
}

// Get handles GET /<entity>/:id
func (h *EntityHandler) Get(c *gin.Context) {
	record, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// Create handles POST /<entity>. Without an explicit id, entities that derive
// ids from names use the normalized name; the rest get a generated id.
func (h *EntityHandler) Create(c *gin.Context) {
	var req models.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload", err)
		return
	}

	data := make(map[string]any, len(req.Data)+1)
	for k, v := range req.Data {
		data[k] = v
	}
	id := req.ID
	if req.Name != "" {
		if _, ok := data["name"]; !ok {
			data["name"] = req.Name
		}
		if deriver, ok := h.svc.(core.IDDeriver); ok && id == "" {
			id = deriver.IDFor(req.Name)
		}
	}

	id, err := h.svc.Create(c.Request.Context(), id, data)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, SuccessResponse{Message: "created", Data: gin.H{"id": id}})
}

// Update handles PATCH /<entity>/:id
func (h *EntityHandler) Update(c *gin.Context) {
	var req models.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload", err)
		return
	}
	id := c.Param("id")
	if err := h.svc.Update(c.Request.Context(), id, req.Data); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "updated", Data: gin.H{"id": id}})
}

// Delete handles DELETE /<entity>/:id
func (h *EntityHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "deleted", Data: gin.H{"id": id}})
}

// ReviewHandler serves approve and reject for entities that go through review.
type ReviewHandler struct {
	svc    core.ReviewService
	logger *zap.Logger
}

func NewReviewHandler(svc core.ReviewService, logger *zap.Logger) *ReviewHandler {
	return &ReviewHandler{svc: svc, logger: logger.With(zap.String("entity", svc.Entity()))}
}

func (h *ReviewHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/" + h.svc.Entity())
	g.POST("/:id/approve", h.Approve)
	g.POST("/:id/reject", h.Reject)
}

// Approve handles POST /<entity>/:id/approve
func (h *ReviewHandler) Approve(c *gin.Context) {
	id := c.Param("id")
	if err := h.svc.Approve(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "approved", Data: gin.H{"id": id}})
}

// Reject handles POST /<entity>/:id/reject. The body is optional.
func (h *ReviewHandler) Reject(c *gin.Context) {
	var req models.RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, "Invalid request payload", err)
		return
	}
	id := c.Param("id")
	if err := h.svc.Reject(c.Request.Context(), id, req.Reason); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "rejected", Data: gin.H{"id": id}})
}
