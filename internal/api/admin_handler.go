package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aicuratorhub/curatorhub-admin/internal/core"
	"github.com/aicuratorhub/curatorhub-admin/internal/models"
)

// StoreConnection is the Firestore connection behind the document store.
type StoreConnection interface {
	Reset()
	Reconnect(ctx context.Context) error
	Source() string
	Connected() bool
}

// AdminHandler serves the dashboard and the maintenance actions.
type AdminHandler struct {
	services *core.Services
	conn     StoreConnection
	logger   *zap.Logger
}

// NewAdminHandler creates the handler. conn is nil when the store has no
// remote connection.
func NewAdminHandler(services *core.Services, conn StoreConnection, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{services: services, conn: conn, logger: logger}
}

func (h *AdminHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/dashboard", h.Dashboard)
	rg.GET("/cache", h.Caches)
	rg.POST("/cache/clear", h.ClearCache)
	rg.POST("/translations/seed-menu", h.SeedMenu)
	rg.GET("/topology", h.Topology)
	rg.GET("/store", h.StoreStatus)
	rg.POST("/store/reconnect", h.Reconnect)
}

// Dashboard handles GET /dashboard. Unreadable sources are reported in
// degraded rather than failing the whole summary.
func (h *AdminHandler) Dashboard(c *gin.Context) {
	summary, err := h.services.Dashboard.Summary(c.Request.Context())
	if err != nil {
		h.logger.Warn("Dashboard is degraded", zap.Strings("degraded", summary.Degraded), zap.Error(err))
	}
	c.JSON(http.StatusOK, summary)
}

// Caches handles GET /cache
func (h *AdminHandler) Caches(c *gin.Context) {
	names := h.services.Registry.Names()
	c.JSON(http.StatusOK, ListResponse{Items: names, Count: len(names)})
}

// ClearCache handles POST /cache/clear. An empty body clears every cache.
func (h *AdminHandler) ClearCache(c *gin.Context) {
	var req models.ClearCacheRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Invalid request payload", err)
			return
		}
	}

	resp := CacheClearResponse{}
	if len(req.Names) == 0 {
		h.services.Registry.ClearAll()
		if h.conn != nil {
			h.conn.Reset()
		}
		resp.Cleared = h.services.Registry.Names()
	} else {
		resp.Unknown = h.services.Registry.Clear(req.Names...)
		unknown := map[string]bool{}
		for _, n := range resp.Unknown {
			unknown[n] = true
		}
		for _, n := range req.Names {
			if !unknown[n] {
				resp.Cleared = append(resp.Cleared, n)
			}
		}
	}
	h.logger.Info("Caches cleared", zap.Strings("cleared", resp.Cleared), zap.Strings("unknown", resp.Unknown))
	c.JSON(http.StatusOK, resp)
}

// SeedMenu handles POST /translations/seed-menu
func (h *AdminHandler) SeedMenu(c *gin.Context) {
	report, err := h.services.Translations.SeedMenu(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "menu translations seeded", Data: report})
}

// Topology handles GET /topology
func (h *AdminHandler) Topology(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Topology.Snapshot())
}

// StoreStatus handles GET /store
func (h *AdminHandler) StoreStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.status())
}

// Reconnect handles POST /store/reconnect. It opens a fresh Firestore client
// and drops every cache so reads go to the new connection.
func (h *AdminHandler) Reconnect(c *gin.Context) {
	if h.conn == nil {
		badRequest(c, "Store has no connection to reconnect", nil)
		return
	}
	if err := h.conn.Reconnect(c.Request.Context()); err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.services.Registry.ClearAll()
	status := h.status()
	h.logger.Info("Store reconnected", zap.String("source", status.Source))
	c.JSON(http.StatusOK, SuccessResponse{Message: "store reconnected", Data: status})
}

func (h *AdminHandler) status() StoreStatus {
	if h.conn == nil {
		return StoreStatus{Backend: "memory", Connected: true}
	}
	return StoreStatus{Backend: "firestore", Source: h.conn.Source(), Connected: h.conn.Connected()}
}
